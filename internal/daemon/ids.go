package daemon

import (
	"sync"
)

// IDMap tracks the binding between toast ids (ULIDs owned by the registry)
// and the uint32 wire ids the D-Bus server hands to clients. The daemon
// needs both directions: CloseNotification arrives with a wire id, and
// NotificationClosed must be emitted with one.
type IDMap struct {
	mu sync.RWMutex

	// Map toast ID to wire ID
	byToastID map[string]uint32

	// Map wire ID to toast ID (for reverse lookup)
	byWireID map[uint32]string
}

// NewIDMap creates an empty IDMap.
func NewIDMap() *IDMap {
	return &IDMap{
		byToastID: make(map[string]uint32),
		byWireID:  make(map[uint32]string),
	}
}

// Bind associates a toast id with a wire id, replacing any stale binding
// of either key.
func (m *IDMap) Bind(toastID string, wireID uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Clean up old mappings on replacement
	if old, exists := m.byToastID[toastID]; exists {
		delete(m.byWireID, old)
	}
	if old, exists := m.byWireID[wireID]; exists {
		delete(m.byToastID, old)
	}

	m.byToastID[toastID] = wireID
	m.byWireID[wireID] = toastID
}

// ToastID returns the toast id bound to a wire id.
func (m *IDMap) ToastID(wireID uint32) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	toastID, ok := m.byWireID[wireID]
	return toastID, ok
}

// WireID returns the wire id bound to a toast id.
func (m *IDMap) WireID(toastID string) (uint32, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	wireID, ok := m.byToastID[toastID]
	return wireID, ok
}

// DropToast removes the binding for a toast id, returning the wire id it
// was bound to.
func (m *IDMap) DropToast(toastID string) (uint32, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	wireID, exists := m.byToastID[toastID]
	if !exists {
		return 0, false
	}

	delete(m.byToastID, toastID)
	delete(m.byWireID, wireID)
	return wireID, true
}

// DropWire removes the binding for a wire id, returning the toast id it
// was bound to.
func (m *IDMap) DropWire(wireID uint32) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	toastID, exists := m.byWireID[wireID]
	if !exists {
		return "", false
	}

	delete(m.byWireID, wireID)
	delete(m.byToastID, toastID)
	return toastID, true
}

// Count returns the number of live bindings.
func (m *IDMap) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byToastID)
}
