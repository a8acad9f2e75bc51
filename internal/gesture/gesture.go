// Package gesture implements the pointer swipe state machine used to
// dismiss toasts.
//
// A Tracker follows one pointer drag over one toast, from pointer-down to
// release. Movement locks to the dominant axis, travels at full strength
// toward the allowed swipe directions and is dampened against them, and on
// release either commits to dismissal or snaps back.
package gesture

import (
	"math"
	"time"

	"github.com/wispkit/wisp/internal/toast"
)

// Tuning defaults, in the host's pixel space.
const (
	// DefaultCommitDistance is the travel beyond which a released swipe
	// commits to dismissal.
	DefaultCommitDistance = 45.0
	// DefaultCommitVelocity is the release velocity, in pixels per
	// millisecond, beyond which a swipe commits regardless of distance.
	DefaultCommitVelocity = 0.11
	// DefaultLockThreshold is the movement after which the gesture locks
	// to the dominant axis.
	DefaultLockThreshold = 1.0
)

// Axis is the locked movement axis of a drag.
type Axis int

const (
	AxisNone Axis = iota
	AxisX
	AxisY
)

// String returns a human-readable axis name.
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	default:
		return "none"
	}
}

// Config tunes a tracker. Zero thresholds fall back to the package
// defaults; an empty direction set means nothing is allowed and every
// movement is dampened.
type Config struct {
	Directions     []toast.Direction
	CommitDistance float64
	CommitVelocity float64
	LockThreshold  float64
}

func (c Config) withDefaults() Config {
	if c.CommitDistance <= 0 {
		c.CommitDistance = DefaultCommitDistance
	}
	if c.CommitVelocity <= 0 {
		c.CommitVelocity = DefaultCommitVelocity
	}
	if c.LockThreshold <= 0 {
		c.LockThreshold = DefaultLockThreshold
	}
	return c
}

// Point is a pointer coordinate in the host's pixel space.
type Point struct {
	X float64
	Y float64
}

// Decision is the outcome of releasing a drag.
type Decision struct {
	Commit    bool
	Direction toast.Direction
	Amount    float64
	Velocity  float64
}

// Tracker follows a single pointer drag. It is not safe for concurrent
// use; the engine drives it from under its own lock.
type Tracker struct {
	cfg       Config
	origin    Point
	startedAt time.Time
	axis      Axis
	amountX   float64
	amountY   float64
	swiped    bool
	done      bool
}

// NewTracker starts tracking a drag that began at origin.
func NewTracker(cfg Config, origin Point, startedAt time.Time) *Tracker {
	return &Tracker{
		cfg:       cfg.withDefaults(),
		origin:    origin,
		startedAt: startedAt,
	}
}

// Move consumes a pointer sample and returns the visual swipe offsets.
// The swiped flag turns on with the first non-zero offset and marks the
// toast for swipe styling.
func (t *Tracker) Move(p Point) (x, y float64, swiped bool) {
	if t.done {
		return t.amountX, t.amountY, t.swiped
	}

	dx := p.X - t.origin.X
	dy := p.Y - t.origin.Y

	// Lock to the dominant axis on the first movement past the threshold.
	// The axis stays fixed for the remainder of the gesture.
	if t.axis == AxisNone {
		if math.Abs(dx) <= t.cfg.LockThreshold && math.Abs(dy) <= t.cfg.LockThreshold {
			return 0, 0, t.swiped
		}
		if math.Abs(dx) > math.Abs(dy) {
			t.axis = AxisX
		} else {
			t.axis = AxisY
		}
	}

	if t.axis == AxisX {
		t.amountX = t.resolve(dx, AxisX)
		t.amountY = 0
	} else {
		t.amountY = t.resolve(dy, AxisY)
		t.amountX = 0
	}

	if t.amountX != 0 || t.amountY != 0 {
		t.swiped = true
	}
	return t.amountX, t.amountY, t.swiped
}

// Release ends the drag. The swipe commits when the travelled amount
// reaches the distance threshold or the release velocity exceeds the
// velocity threshold; otherwise the toast snaps back.
func (t *Tracker) Release(at time.Time) Decision {
	t.done = true

	if t.axis == AxisNone {
		return Decision{}
	}

	amount := t.amountX
	if t.axis == AxisY {
		amount = t.amountY
	}

	var velocity float64
	if ms := at.Sub(t.startedAt).Seconds() * 1000; ms > 0 {
		velocity = math.Abs(amount) / ms
	}

	decision := Decision{Amount: amount, Velocity: velocity}
	if math.Abs(amount) >= t.cfg.CommitDistance || velocity > t.cfg.CommitVelocity {
		decision.Commit = true
		decision.Direction = directionOf(amount, t.axis)
	}
	return decision
}

// Abort cancels the drag with no dismissal and clears its offsets.
func (t *Tracker) Abort() {
	t.done = true
	t.amountX = 0
	t.amountY = 0
	t.swiped = false
}

// Amounts returns the current visual swipe offsets.
func (t *Tracker) Amounts() (x, y float64) {
	return t.amountX, t.amountY
}

// Swiped reports whether any non-zero offset has been applied.
func (t *Tracker) Swiped() bool {
	return t.swiped
}

// Axis returns the locked axis, or AxisNone before lock.
func (t *Tracker) Axis() Axis {
	return t.axis
}

// resolve returns the visual offset for a raw delta on the locked axis:
// the raw delta toward an allowed direction, a dampened value against it.
func (t *Tracker) resolve(delta float64, axis Axis) float64 {
	if delta == 0 || t.allows(directionOf(delta, axis)) {
		return delta
	}
	dampened := delta / (1.5 + math.Abs(delta)/20)
	// Continuity guard: dampening must never overshoot the raw delta when
	// the gesture crosses from allowed into disallowed territory.
	if math.Abs(dampened) > math.Abs(delta) {
		return delta
	}
	return dampened
}

func (t *Tracker) allows(d toast.Direction) bool {
	for _, allowed := range t.cfg.Directions {
		if allowed == d {
			return true
		}
	}
	return false
}

// directionOf maps the sign of movement on an axis to a direction.
func directionOf(delta float64, axis Axis) toast.Direction {
	if axis == AxisX {
		if delta > 0 {
			return toast.DirectionRight
		}
		return toast.DirectionLeft
	}
	if delta > 0 {
		return toast.DirectionDown
	}
	return toast.DirectionUp
}

// DirectionsFor derives the default allowed swipe directions from a stack
// anchor: the vertical component contributes up or down, the horizontal
// component left or right. Center-anchored stacks allow only the vertical
// direction.
func DirectionsFor(pos toast.Position) []toast.Direction {
	var out []toast.Direction
	switch pos.Vertical() {
	case "top":
		out = append(out, toast.DirectionUp)
	case "bottom":
		out = append(out, toast.DirectionDown)
	}
	switch pos.Horizontal() {
	case "left":
		out = append(out, toast.DirectionLeft)
	case "right":
		out = append(out, toast.DirectionRight)
	}
	return out
}
