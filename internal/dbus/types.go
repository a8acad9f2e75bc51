package dbus

import (
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/wispkit/wisp/internal/toast"
)

// CloseReason encodes why a notification left the screen, using the values
// defined by the freedesktop.org notification specification.
type CloseReason uint32

const (
	// CloseReasonExpired indicates the notification timed out.
	CloseReasonExpired CloseReason = 1
	// CloseReasonDismissed indicates the user dismissed the notification.
	CloseReasonDismissed CloseReason = 2
	// CloseReasonClosed indicates a CloseNotification call closed it.
	CloseReasonClosed CloseReason = 3
	// CloseReasonUndefined is reserved by the specification.
	CloseReasonUndefined CloseReason = 4
)

// String returns the string representation of the close reason.
func (r CloseReason) String() string {
	switch r {
	case CloseReasonExpired:
		return "expired"
	case CloseReasonDismissed:
		return "dismissed"
	case CloseReasonClosed:
		return "closed"
	case CloseReasonUndefined:
		return "undefined"
	default:
		return "unknown"
	}
}

// ReasonFor maps an engine dismiss reason onto the wire encoding. Swipes
// and close presses are both user dismissals; programmatic removal reports
// as a close request.
func ReasonFor(r toast.DismissReason) CloseReason {
	switch r {
	case toast.ReasonExpired:
		return CloseReasonExpired
	case toast.ReasonSwiped, toast.ReasonClosed:
		return CloseReasonDismissed
	case toast.ReasonCanceled:
		return CloseReasonClosed
	default:
		return CloseReasonUndefined
	}
}

// Urgency levels from the notification specification's urgency hint.
const (
	UrgencyLow      = 0
	UrgencyNormal   = 1
	UrgencyCritical = 2
)

// Hint keys wisp understands. hintKind is a vendor extension that lets
// wisp-aware senders pick an exact toast kind instead of the urgency
// approximation.
const (
	hintUrgency       = "urgency"
	hintKind          = "x-wisp-kind"
	hintSoundFile     = "sound-file"
	hintSuppressSound = "suppress-sound"
)

// Notification carries the raw parameters of one
// org.freedesktop.Notifications.Notify call.
type Notification struct {
	AppName       string
	ReplacesID    uint32
	AppIcon       string
	Summary       string
	Body          string
	Actions       []string // alternating key, label pairs
	Hints         map[string]dbus.Variant
	ExpireTimeout int32 // -1 = server default, 0 = never expire
}

// ParsedActions converts the alternating key/label action array to
// structured form, dropping a trailing unpaired key.
func (n *Notification) ParsedActions() []toast.Action {
	actions := make([]toast.Action, 0, len(n.Actions)/2)
	for i := 0; i+1 < len(n.Actions); i += 2 {
		actions = append(actions, toast.Action{
			Key:   n.Actions[i],
			Label: n.Actions[i+1],
		})
	}
	return actions
}

// Urgency extracts the urgency hint, defaulting to UrgencyNormal.
func (n *Notification) Urgency() int {
	if v, ok := n.Hints[hintUrgency]; ok {
		if b, ok := v.Value().(byte); ok {
			return int(b)
		}
	}
	return UrgencyNormal
}

// KindHint extracts the x-wisp-kind hint. Returns KindUnspecified when the
// hint is missing or not a recognized kind.
func (n *Notification) KindHint() toast.Kind {
	if v, ok := n.Hints[hintKind]; ok {
		if s, ok := v.Value().(string); ok {
			if k, err := toast.ParseKind(s); err == nil {
				return k
			}
		}
	}
	return toast.KindUnspecified
}

// SoundFile extracts the sound-file hint.
func (n *Notification) SoundFile() string {
	if v, ok := n.Hints[hintSoundFile]; ok {
		if s, ok := v.Value().(string); ok {
			return s
		}
	}
	return ""
}

// SuppressSound reports whether the suppress-sound hint is set.
func (n *Notification) SuppressSound() bool {
	if v, ok := n.Hints[hintSuppressSound]; ok {
		if b, ok := v.Value().(bool); ok {
			return b
		}
	}
	return false
}

// Kind resolves the toast kind for the notification: the explicit
// x-wisp-kind hint wins, otherwise urgency is approximated as
// low=info, normal=normal, critical=error.
func (n *Notification) Kind() toast.Kind {
	if k := n.KindHint(); k != toast.KindUnspecified {
		return k
	}
	switch n.Urgency() {
	case UrgencyLow:
		return toast.KindInfo
	case UrgencyCritical:
		return toast.KindError
	default:
		return toast.KindNormal
	}
}

// Duration resolves the expire timeout: -1 leaves the duration unspecified
// so the engine applies its per-kind default, 0 disables expiry, and
// positive values are milliseconds.
func (n *Notification) Duration() time.Duration {
	switch {
	case n.ExpireTimeout < 0:
		return 0
	case n.ExpireTimeout == 0:
		return toast.Forever
	default:
		return time.Duration(n.ExpireTimeout) * time.Millisecond
	}
}

// Toast converts the notification into a toast record under the given id.
// Only the first action is surfaced as the toast button.
func (n *Notification) Toast(id string) toast.Toast {
	t := toast.Toast{
		ID:       id,
		Kind:     n.Kind(),
		Title:    n.Summary,
		Body:     n.Body,
		Duration: n.Duration(),
	}
	if actions := n.ParsedActions(); len(actions) > 0 {
		a := actions[0]
		t.Button = &a
	}
	return t
}

// ServerCapabilities lists the capabilities advertised by wispd.
var ServerCapabilities = []string{
	"actions", // one action surfaced as the toast button
	"body",    // body text rendered under the title
	"sound",   // per-kind audio cues
}

// ServerInfo describes the notification server.
type ServerInfo struct {
	Name        string
	Vendor      string
	Version     string
	SpecVersion string
}

// DefaultServerInfo returns the server identity reported to clients.
func DefaultServerInfo() ServerInfo {
	return ServerInfo{
		Name:        "wispd",
		Vendor:      "wisp",
		Version:     "0.0.1",
		SpecVersion: "1.2",
	}
}
