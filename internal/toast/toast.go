// Package toast defines the core data structures for wisp.
package toast

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/oklog/ulid/v2"
)

// Forever marks a toast that never expires on its own. The engine resolves
// it before scheduling, so a countdown is never armed for one of these.
const Forever = time.Duration(math.MaxInt64)

// Toast represents a single transient notification. The zero value of most
// fields means "unspecified": publishing under an existing ID overlays only
// the fields that are set (see Merge), so partial updates leave the rest of
// the record intact.
type Toast struct {
	ID    string `json:"id" yaml:"id"`
	Kind  Kind   `json:"kind,omitempty" yaml:"kind,omitempty"`
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
	Body  string `json:"body,omitempty" yaml:"body,omitempty"`

	// Duration of 0 means unspecified; the engine falls back to the
	// configured per-kind duration. Forever disables expiry entirely and
	// negative values expire immediately.
	Duration time.Duration `json:"duration,omitempty" yaml:"duration,omitempty"`

	// Position anchors the toast to a screen corner or edge. Unspecified
	// falls back to the configured default position.
	Position Position `json:"position,omitempty" yaml:"position,omitempty"`

	// Directions restricts which swipe directions may dismiss the toast.
	// Empty means unspecified; the engine falls back to the configured
	// swipe directions, then to the directions natural to the anchor.
	Directions []Direction `json:"directions,omitempty" yaml:"directions,omitempty"`

	// Dismissible defaults to true when nil.
	Dismissible *bool `json:"dismissible,omitempty" yaml:"dismissible,omitempty"`

	// Button is an optional action rendered on the toast.
	Button *Action `json:"button,omitempty" yaml:"button,omitempty"`

	// Lifecycle callbacks. OnAutoClose fires when the countdown runs out,
	// OnDismiss when the user removes the toast. For any given toast at
	// most one of them fires, at most once.
	OnDismiss   func(Toast) `json:"-" yaml:"-"`
	OnAutoClose func(Toast) `json:"-" yaml:"-"`

	CreatedAt time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// Action represents a toast button with key and label.
type Action struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
}

// Validation errors.
var (
	ErrEmptyID          = errors.New("toast id cannot be empty")
	ErrInvalidKind      = errors.New("unknown toast kind")
	ErrInvalidPosition  = errors.New("unknown toast position")
	ErrInvalidDirection = errors.New("unknown swipe direction")
)

// NewID generates a ULID for toasts published without an explicit ID.
func NewID() (string, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return "", fmt.Errorf("failed to generate ULID: %w", err)
	}
	return id.String(), nil
}

// Validate checks a normalized toast record.
func (t Toast) Validate() error {
	if t.ID == "" {
		return ErrEmptyID
	}
	if !t.Kind.Valid() {
		return ErrInvalidKind
	}
	if t.Position != PositionUnspecified && !t.Position.Valid() {
		return ErrInvalidPosition
	}
	for _, d := range t.Directions {
		if !d.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidDirection, d)
		}
	}
	return nil
}

// CanDismiss reports whether the user may remove the toast by swipe or
// close control. Toasts are dismissible unless explicitly marked otherwise.
func (t Toast) CanDismiss() bool {
	return t.Dismissible == nil || *t.Dismissible
}

// Clone creates a copy that shares no pointers with the original.
func (t Toast) Clone() Toast {
	clone := t
	if t.Dismissible != nil {
		v := *t.Dismissible
		clone.Dismissible = &v
	}
	if t.Button != nil {
		b := *t.Button
		clone.Button = &b
	}
	if t.Directions != nil {
		clone.Directions = append([]Direction(nil), t.Directions...)
	}
	return clone
}

// Merge overlays patch onto base field by field. Unset fields of patch
// (zero values, nil pointers) keep the base value. Identity and creation
// time always come from base; the caller stamps UpdatedAt.
func Merge(base, patch Toast) Toast {
	merged := base
	if patch.Kind != KindUnspecified {
		merged.Kind = patch.Kind
	}
	if patch.Title != "" {
		merged.Title = patch.Title
	}
	if patch.Body != "" {
		merged.Body = patch.Body
	}
	if patch.Duration != 0 {
		merged.Duration = patch.Duration
	}
	if patch.Position != PositionUnspecified {
		merged.Position = patch.Position
	}
	if len(patch.Directions) > 0 {
		merged.Directions = patch.Directions
	}
	if patch.Dismissible != nil {
		merged.Dismissible = patch.Dismissible
	}
	if patch.Button != nil {
		merged.Button = patch.Button
	}
	if patch.OnDismiss != nil {
		merged.OnDismiss = patch.OnDismiss
	}
	if patch.OnAutoClose != nil {
		merged.OnAutoClose = patch.OnAutoClose
	}
	return merged
}

// DismissReason describes why a toast left the screen.
type DismissReason int

const (
	// ReasonExpired means the countdown ran out.
	ReasonExpired DismissReason = iota + 1
	// ReasonSwiped means the user swiped the toast away.
	ReasonSwiped
	// ReasonClosed means the user pressed the close control or action.
	ReasonClosed
	// ReasonCanceled means the toast was removed programmatically.
	ReasonCanceled
)

// String returns a human-readable reason name.
func (r DismissReason) String() string {
	switch r {
	case ReasonExpired:
		return "expired"
	case ReasonSwiped:
		return "swiped"
	case ReasonClosed:
		return "closed"
	case ReasonCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// UserInitiated reports whether the removal was a deliberate user act.
// User-initiated removals fire OnDismiss, expiry fires OnAutoClose, and
// canceled removals fire neither.
func (r DismissReason) UserInitiated() bool {
	return r == ReasonSwiped || r == ReasonClosed
}
