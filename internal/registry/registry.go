// Package registry holds the live set of toasts and fans out change events
// to subscribers.
//
// The registry is the only shared source of truth: producers publish toast
// records into it, and consumers (the lifecycle engine, headless observers)
// register handlers to learn about upserts and dismissals. Dispatch is
// synchronous and happens on the goroutine that mutated the registry, with
// no internal lock held, so handlers may call back into the registry.
package registry

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/wispkit/wisp/internal/toast"
)

// Op identifies the change carried by an Event.
type Op int

const (
	// OpUpsert announces a new toast or an update to an existing one.
	// Event.Toast holds the merged record.
	OpUpsert Op = iota + 1
	// OpDismiss announces that the toast with Event.ID should leave the
	// screen. The ID may be unknown to a consumer; that is a no-op.
	OpDismiss
)

// String returns a human-readable op name.
func (o Op) String() string {
	switch o {
	case OpUpsert:
		return "upsert"
	case OpDismiss:
		return "dismiss"
	default:
		return "unknown"
	}
}

// Event is delivered to every registered handler, in registration order.
type Event struct {
	Op    Op
	ID    string
	Toast toast.Toast
}

// Handler consumes registry events. Handlers run without the registry lock
// held and may publish, dismiss or remove records from within the call.
type Handler func(Event)

// Token identifies a registered handler for Unregister.
type Token int

type handlerEntry struct {
	token Token
	fn    Handler
}

// Registry is the authoritative in-memory set of live toasts.
type Registry struct {
	mu        sync.RWMutex
	logger    *slog.Logger
	records   map[string]toast.Toast
	order     []string
	handlers  []handlerEntry
	nextToken Token

	// now is swappable for tests.
	now func() time.Time
}

// New creates an empty registry.
func New(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		logger:  logger,
		records: make(map[string]toast.Toast),
		now:     time.Now,
	}
}

// Register adds a handler and returns a token for Unregister. The handler
// receives every subsequent event exactly once, in publish order.
func (r *Registry) Register(h Handler) Token {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextToken++
	token := r.nextToken
	r.handlers = append(r.handlers, handlerEntry{token: token, fn: h})
	return token
}

// Unregister removes the handler identified by token.
func (r *Registry) Unregister(token Token) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, entry := range r.handlers {
		if entry.token == token {
			r.handlers = append(r.handlers[:i], r.handlers[i+1:]...)
			return
		}
	}
}

// Publish inserts or updates a toast and returns its ID. An empty ID gets
// a generated ULID. When the ID already exists, the set fields of t overlay
// the stored record and unset fields keep their previous values; otherwise
// the record is normalized and appended.
func (r *Registry) Publish(t toast.Toast) (string, error) {
	if t.ID == "" {
		id, err := toast.NewID()
		if err != nil {
			return "", fmt.Errorf("failed to generate toast id: %w", err)
		}
		t.ID = id
	}

	now := r.now()

	r.mu.Lock()
	existing, update := r.records[t.ID]

	var record toast.Toast
	if update {
		record = toast.Merge(existing, t)
	} else {
		record = normalize(t, now)
	}
	record.UpdatedAt = now

	if err := record.Validate(); err != nil {
		r.mu.Unlock()
		return "", fmt.Errorf("invalid toast %q: %w", t.ID, err)
	}

	r.records[record.ID] = record
	if !update {
		r.order = append(r.order, record.ID)
	}
	handlers := r.snapshotHandlers()
	r.mu.Unlock()

	r.logger.Debug("toast published",
		"id", record.ID,
		"kind", record.Kind.String(),
		"update", update)

	dispatch(handlers, Event{Op: OpUpsert, ID: record.ID, Toast: record})
	return record.ID, nil
}

// Dismiss broadcasts a dismissal for id. The record itself, if present,
// stays until Remove purges it; targeting an unknown id is allowed and
// consumers treat the event as a no-op.
func (r *Registry) Dismiss(id string) {
	r.mu.RLock()
	handlers := r.snapshotHandlers()
	r.mu.RUnlock()

	r.logger.Debug("toast dismiss signalled", "id", id)
	dispatch(handlers, Event{Op: OpDismiss, ID: id})
}

// Remove purges the record for id and notifies subscribers with a final
// dismissal. Removing an unknown id is a silent no-op.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	if _, ok := r.records[id]; !ok {
		r.mu.Unlock()
		return
	}
	delete(r.records, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	handlers := r.snapshotHandlers()
	r.mu.Unlock()

	r.logger.Debug("toast removed", "id", id)
	dispatch(handlers, Event{Op: OpDismiss, ID: id})
}

// Get returns the record for id.
func (r *Registry) Get(id string) (toast.Toast, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.records[id]
	return t, ok
}

// List returns all live records in insertion order, oldest first.
func (r *Registry) List() []toast.Toast {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]toast.Toast, 0, len(r.order))
	for _, id := range r.order {
		if t, ok := r.records[id]; ok {
			out = append(out, t)
		}
	}
	return out
}

// IDs returns the live ids in insertion order, oldest first.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Count returns the number of live records.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.records)
}

// snapshotHandlers copies the handler list so dispatch can run without the
// lock. Callers must hold at least a read lock.
func (r *Registry) snapshotHandlers() []handlerEntry {
	out := make([]handlerEntry, len(r.handlers))
	copy(out, r.handlers)
	return out
}

func dispatch(handlers []handlerEntry, ev Event) {
	for _, entry := range handlers {
		entry.fn(ev)
	}
}

// normalize fills defaults on a first-time record: unspecified kind becomes
// normal and a zero creation time is stamped with now.
func normalize(t toast.Toast, now time.Time) toast.Toast {
	if t.Kind == toast.KindUnspecified {
		t.Kind = toast.KindNormal
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	return t
}
