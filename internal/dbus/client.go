package dbus

import (
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/wispkit/wisp/internal/toast"
)

// NewNotification builds a Notify payload with a server-default timeout
// and no hints.
func NewNotification(appName, summary, body string) *Notification {
	return &Notification{
		AppName:       appName,
		Summary:       summary,
		Body:          body,
		Hints:         make(map[string]dbus.Variant),
		ExpireTimeout: -1,
	}
}

// SetKind attaches the x-wisp-kind hint and a matching urgency, so the
// notification degrades sensibly on servers that only read urgency.
func (n *Notification) SetKind(k toast.Kind) {
	if n.Hints == nil {
		n.Hints = make(map[string]dbus.Variant)
	}
	n.Hints[hintKind] = dbus.MakeVariant(string(k))

	urgency := byte(UrgencyNormal)
	switch k {
	case toast.KindInfo:
		urgency = UrgencyLow
	case toast.KindError:
		urgency = UrgencyCritical
	}
	n.Hints[hintUrgency] = dbus.MakeVariant(urgency)
}

// SetTimeout encodes a toast duration as an expire timeout: zero keeps the
// server default and Forever disables expiry.
func (n *Notification) SetTimeout(d time.Duration) {
	switch {
	case d == 0:
		n.ExpireTimeout = -1
	case d == toast.Forever:
		n.ExpireTimeout = 0
	default:
		n.ExpireTimeout = int32(d.Milliseconds())
	}
}

// SetSoundFile attaches the sound-file hint.
func (n *Notification) SetSoundFile(path string) {
	if n.Hints == nil {
		n.Hints = make(map[string]dbus.Variant)
	}
	n.Hints[hintSoundFile] = dbus.MakeVariant(path)
}

// Send delivers n to the session notification service and returns the
// assigned wire id.
func Send(n *Notification) (uint32, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return 0, fmt.Errorf("failed to connect to session bus: %w", err)
	}

	obj := conn.Object(busName, busPath)
	call := obj.Call(busInterface+".Notify", 0,
		n.AppName,
		n.ReplacesID,
		n.AppIcon,
		n.Summary,
		n.Body,
		n.Actions,
		n.Hints,
		n.ExpireTimeout,
	)
	if call.Err != nil {
		return 0, fmt.Errorf("notify call failed: %w", call.Err)
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, fmt.Errorf("failed to read notification id: %w", err)
	}
	return id, nil
}

// CloseByID asks the session notification service to close a wire id.
func CloseByID(id uint32) error {
	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}

	obj := conn.Object(busName, busPath)
	if call := obj.Call(busInterface+".CloseNotification", 0, id); call.Err != nil {
		return fmt.Errorf("close call failed: %w", call.Err)
	}
	return nil
}

// ServerInformation queries the identity of the notification service that
// currently owns the bus name.
func ServerInformation() (ServerInfo, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return ServerInfo{}, fmt.Errorf("failed to connect to session bus: %w", err)
	}

	var info ServerInfo
	obj := conn.Object(busName, busPath)
	call := obj.Call(busInterface+".GetServerInformation", 0)
	if call.Err != nil {
		return ServerInfo{}, fmt.Errorf("server information call failed: %w", call.Err)
	}
	if err := call.Store(&info.Name, &info.Vendor, &info.Version, &info.SpecVersion); err != nil {
		return ServerInfo{}, fmt.Errorf("failed to read server information: %w", err)
	}
	return info, nil
}

// Capabilities queries the capabilities of the running notification
// service.
func Capabilities() ([]string, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}

	var caps []string
	obj := conn.Object(busName, busPath)
	call := obj.Call(busInterface+".GetCapabilities", 0)
	if call.Err != nil {
		return nil, fmt.Errorf("capabilities call failed: %w", call.Err)
	}
	if err := call.Store(&caps); err != nil {
		return nil, fmt.Errorf("failed to read capabilities: %w", err)
	}
	return caps, nil
}
