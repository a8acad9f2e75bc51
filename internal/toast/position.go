package toast

import (
	"fmt"
	"strings"
)

// Position anchors a toast stack to a screen corner or edge.
type Position string

// Stack anchor positions.
const (
	PositionUnspecified  Position = ""
	PositionTopLeft      Position = "top-left"
	PositionTopCenter    Position = "top-center"
	PositionTopRight     Position = "top-right"
	PositionBottomLeft   Position = "bottom-left"
	PositionBottomCenter Position = "bottom-center"
	PositionBottomRight  Position = "bottom-right"
)

// Positions lists every valid anchor.
func Positions() []Position {
	return []Position{
		PositionTopLeft,
		PositionTopCenter,
		PositionTopRight,
		PositionBottomLeft,
		PositionBottomCenter,
		PositionBottomRight,
	}
}

// Valid reports whether p is a known anchor.
func (p Position) Valid() bool {
	switch p {
	case PositionTopLeft, PositionTopCenter, PositionTopRight,
		PositionBottomLeft, PositionBottomCenter, PositionBottomRight:
		return true
	}
	return false
}

func (p Position) String() string {
	return string(p)
}

// Vertical returns the vertical anchor component ("top" or "bottom").
func (p Position) Vertical() string {
	v, _, _ := strings.Cut(string(p), "-")
	return v
}

// Horizontal returns the horizontal anchor component ("left", "center" or
// "right").
func (p Position) Horizontal() string {
	_, h, _ := strings.Cut(string(p), "-")
	return h
}

// IsBottom reports whether the stack grows upward from the bottom edge.
func (p Position) IsBottom() bool {
	return p.Vertical() == "bottom"
}

// ParsePosition maps a user-supplied name to a Position.
func ParsePosition(s string) (Position, error) {
	p := Position(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return PositionUnspecified, fmt.Errorf("unknown toast position %q", s)
	}
	return p, nil
}

// Direction is a swipe direction.
type Direction string

// Swipe directions.
const (
	DirectionNone  Direction = ""
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

func (d Direction) String() string {
	return string(d)
}

// Horizontal reports whether the direction moves along the x axis.
func (d Direction) Horizontal() bool {
	return d == DirectionLeft || d == DirectionRight
}

// Valid reports whether d names a concrete swipe direction.
func (d Direction) Valid() bool {
	switch d {
	case DirectionUp, DirectionDown, DirectionLeft, DirectionRight:
		return true
	}
	return false
}

// ParseDirection maps a user-supplied name to a Direction.
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return DirectionNone, fmt.Errorf("unknown swipe direction %q", s)
	}
	return d, nil
}
