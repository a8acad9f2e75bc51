package dbus

import (
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wispkit/wisp/internal/toast"
)

func TestCloseReasonString(t *testing.T) {
	tests := []struct {
		reason   CloseReason
		expected string
	}{
		{CloseReasonExpired, "expired"},
		{CloseReasonDismissed, "dismissed"},
		{CloseReasonClosed, "closed"},
		{CloseReasonUndefined, "undefined"},
		{CloseReason(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.reason.String())
		})
	}
}

func TestReasonFor(t *testing.T) {
	tests := []struct {
		name     string
		reason   toast.DismissReason
		expected CloseReason
	}{
		{"expiry", toast.ReasonExpired, CloseReasonExpired},
		{"swipe is a user dismissal", toast.ReasonSwiped, CloseReasonDismissed},
		{"close press is a user dismissal", toast.ReasonClosed, CloseReasonDismissed},
		{"cancel reports as close request", toast.ReasonCanceled, CloseReasonClosed},
		{"unknown is undefined", toast.DismissReason(0), CloseReasonUndefined},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ReasonFor(tt.reason))
		})
	}
}

func TestParsedActions(t *testing.T) {
	tests := []struct {
		name     string
		actions  []string
		expected []toast.Action
	}{
		{
			name:     "empty",
			actions:  nil,
			expected: []toast.Action{},
		},
		{
			name:     "single action",
			actions:  []string{"default", "Open"},
			expected: []toast.Action{{Key: "default", Label: "Open"}},
		},
		{
			name:    "multiple actions",
			actions: []string{"default", "Open", "dismiss", "Dismiss"},
			expected: []toast.Action{
				{Key: "default", Label: "Open"},
				{Key: "dismiss", Label: "Dismiss"},
			},
		},
		{
			name:     "odd number drops the orphan",
			actions:  []string{"default", "Open", "orphan"},
			expected: []toast.Action{{Key: "default", Label: "Open"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &Notification{Actions: tt.actions}
			assert.Equal(t, tt.expected, n.ParsedActions())
		})
	}
}

func TestNotification_Kind(t *testing.T) {
	tests := []struct {
		name     string
		hints    map[string]dbus.Variant
		expected toast.Kind
	}{
		{
			name:     "no hints",
			hints:    nil,
			expected: toast.KindNormal,
		},
		{
			name:     "low urgency",
			hints:    map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(0))},
			expected: toast.KindInfo,
		},
		{
			name:     "normal urgency",
			hints:    map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(1))},
			expected: toast.KindNormal,
		},
		{
			name:     "critical urgency",
			hints:    map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(2))},
			expected: toast.KindError,
		},
		{
			name: "explicit kind hint wins over urgency",
			hints: map[string]dbus.Variant{
				"urgency":     dbus.MakeVariant(byte(2)),
				"x-wisp-kind": dbus.MakeVariant("success"),
			},
			expected: toast.KindSuccess,
		},
		{
			name:     "invalid kind hint falls back to urgency",
			hints:    map[string]dbus.Variant{"x-wisp-kind": dbus.MakeVariant("sparkly")},
			expected: toast.KindNormal,
		},
		{
			name:     "wrong urgency type defaults to normal",
			hints:    map[string]dbus.Variant{"urgency": dbus.MakeVariant("high")},
			expected: toast.KindNormal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &Notification{Hints: tt.hints}
			assert.Equal(t, tt.expected, n.Kind())
		})
	}
}

func TestNotification_Duration(t *testing.T) {
	tests := []struct {
		name     string
		timeout  int32
		expected time.Duration
	}{
		{"server default stays unspecified", -1, 0},
		{"zero never expires", 0, toast.Forever},
		{"positive is milliseconds", 2500, 2500 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &Notification{ExpireTimeout: tt.timeout}
			assert.Equal(t, tt.expected, n.Duration())
		})
	}
}

func TestNotification_SoundHints(t *testing.T) {
	n := &Notification{Hints: map[string]dbus.Variant{
		"sound-file":     dbus.MakeVariant("/usr/share/sounds/ping.wav"),
		"suppress-sound": dbus.MakeVariant(true),
	}}
	assert.Equal(t, "/usr/share/sounds/ping.wav", n.SoundFile())
	assert.True(t, n.SuppressSound())

	empty := &Notification{}
	assert.Empty(t, empty.SoundFile())
	assert.False(t, empty.SuppressSound())
}

func TestNotification_Toast(t *testing.T) {
	n := &Notification{
		AppName:       "backup",
		Summary:       "Backup finished",
		Body:          "412 files copied",
		Actions:       []string{"open", "Open folder", "ignore", "Ignore"},
		Hints:         map[string]dbus.Variant{"x-wisp-kind": dbus.MakeVariant("success")},
		ExpireTimeout: 2000,
	}

	tt := n.Toast("abc123")
	assert.Equal(t, "abc123", tt.ID)
	assert.Equal(t, toast.KindSuccess, tt.Kind)
	assert.Equal(t, "Backup finished", tt.Title)
	assert.Equal(t, "412 files copied", tt.Body)
	assert.Equal(t, 2*time.Second, tt.Duration)
	require.NotNil(t, tt.Button)
	assert.Equal(t, "open", tt.Button.Key)
	assert.Equal(t, "Open folder", tt.Button.Label)
	assert.NoError(t, tt.Validate())
}

func TestNewNotification_Hints(t *testing.T) {
	n := NewNotification("wisp", "hello", "world")
	assert.Equal(t, int32(-1), n.ExpireTimeout)

	n.SetKind(toast.KindError)
	assert.Equal(t, toast.KindError, n.KindHint())
	assert.Equal(t, UrgencyCritical, n.Urgency())

	n.SetKind(toast.KindInfo)
	assert.Equal(t, UrgencyLow, n.Urgency())

	n.SetTimeout(3 * time.Second)
	assert.Equal(t, int32(3000), n.ExpireTimeout)
	n.SetTimeout(toast.Forever)
	assert.Equal(t, int32(0), n.ExpireTimeout)
	n.SetTimeout(0)
	assert.Equal(t, int32(-1), n.ExpireTimeout)

	n.SetSoundFile("~/ping.ogg")
	assert.Equal(t, "~/ping.ogg", n.SoundFile())
}

func TestDefaultServerInfo(t *testing.T) {
	info := DefaultServerInfo()
	assert.Equal(t, "wispd", info.Name)
	assert.Equal(t, "wisp", info.Vendor)
	assert.Equal(t, "1.2", info.SpecVersion)
}
