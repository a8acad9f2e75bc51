package dbus

import (
	"fmt"
)

// EmitNotificationClosed emits the NotificationClosed signal for a
// notification that left the screen.
func (s *Server) EmitNotificationClosed(id uint32, reason CloseReason) error {
	if s.conn == nil {
		return fmt.Errorf("not connected to D-Bus")
	}

	if err := s.conn.Emit(busPath, busInterface+".NotificationClosed", id, uint32(reason)); err != nil {
		return fmt.Errorf("failed to emit NotificationClosed signal: %w", err)
	}

	s.logger.Debug("emitted NotificationClosed", "id", id, "reason", reason.String())
	return nil
}

// EmitActionInvoked emits the ActionInvoked signal for a pressed toast
// button.
func (s *Server) EmitActionInvoked(id uint32, actionKey string) error {
	if s.conn == nil {
		return fmt.Errorf("not connected to D-Bus")
	}

	if err := s.conn.Emit(busPath, busInterface+".ActionInvoked", id, actionKey); err != nil {
		return fmt.Errorf("failed to emit ActionInvoked signal: %w", err)
	}

	s.logger.Debug("emitted ActionInvoked", "id", id, "action_key", actionKey)
	return nil
}

// CloseWithReason announces a closure initiated by the daemon: the id is
// dropped from tracking and NotificationClosed is emitted with reason.
func (s *Server) CloseWithReason(id uint32, reason CloseReason) error {
	s.MarkClosed(id)
	return s.EmitNotificationClosed(id, reason)
}

// InvokeAction emits ActionInvoked for id and then closes it as a user
// dismissal.
func (s *Server) InvokeAction(id uint32, actionKey string) error {
	if err := s.EmitActionInvoked(id, actionKey); err != nil {
		return err
	}
	return s.CloseWithReason(id, CloseReasonDismissed)
}
