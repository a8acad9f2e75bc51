// Package engine drives the toast lifecycle: stacking layout over measured
// heights, per-toast countdown timers with attention pausing, swipe
// handling, and uniform removal with an exit grace period.
//
// The engine subscribes to a registry and mirrors its records into a
// private arena keyed by toast id. All mutations run under one mutex;
// scheduler callbacks and registry events re-enter through the public
// surface and are validated against the arena before acting, so stale
// events degrade to no-ops instead of corrupting the stack.
package engine

import (
	"log/slog"
	"sync"
	"time"

	"github.com/wispkit/wisp/internal/config"
	"github.com/wispkit/wisp/internal/gesture"
	"github.com/wispkit/wisp/internal/registry"
	"github.com/wispkit/wisp/internal/toast"
)

// Stack layout fallbacks, applied when the config leaves them unset.
const (
	DefaultGap        = 14.0
	DefaultMaxVisible = 3
)

// ExitGrace is how long a removed toast keeps rendering while its exit
// animation plays, before the record is purged from the registry.
const ExitGrace = 200 * time.Millisecond

// PointerEvent carries one pointer sample from the render host, in the
// host's own pixel space.
type PointerEvent struct {
	ID string
	X  float64
	Y  float64

	// Interactive marks presses that land on a sub-control (an action or
	// close button); those never start a swipe.
	Interactive bool

	// TextSelection marks moves made while a text selection is active;
	// they abort the gesture instead of hijacking the selection.
	TextSelection bool
}

// item is the engine's private state for one live toast.
type item struct {
	toast toast.Toast
	timer countdown

	// swipe presentation state, mirrored into snapshots
	swiped    bool
	swipedOut bool
	swipeDir  toast.Direction
	swipeX    float64
	swipeY    float64

	// removal state
	pendingRemoval bool
	frozenOffset   float64
	frozenHeight   float64
	frozenIndex    int
	frozenZ        int
	removeStop     func() bool
}

// drag tracks the single pointer capture. Once a drag starts, moves feed
// it regardless of what the pointer is over, until release or abort.
type drag struct {
	id      string
	tracker *gesture.Tracker
}

// Engine coordinates the lifecycle of every toast in the registry.
type Engine struct {
	mu     sync.Mutex
	logger *slog.Logger
	cfg    *config.Config
	reg    *registry.Registry
	token  registry.Token

	items   map[string]*item
	heights *heightLedger

	// offsets is the per-position layout cache, rebuilt lazily when the
	// ledger changes for that position.
	offsets map[toast.Position]map[string]float64
	dirty   map[toast.Position]bool

	hovering bool
	hidden   bool
	expanded bool
	paused   bool

	drag *drag

	onChange func()
	onRemove func(toast.Toast, toast.DismissReason)

	// schedule and now are swappable for tests.
	schedule ScheduleFunc
	now      func() time.Time
}

// New creates an engine bound to reg and subscribes it. A nil cfg uses
// config.Default(), a nil logger the process default. Records already in
// the registry are adopted as if they had just been published.
func New(reg *registry.Registry, cfg *config.Config, logger *slog.Logger) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		logger:   logger,
		cfg:      cfg,
		reg:      reg,
		items:    make(map[string]*item),
		heights:  newHeightLedger(),
		offsets:  make(map[toast.Position]map[string]float64),
		dirty:    make(map[toast.Position]bool),
		schedule: realSchedule,
		now:      time.Now,
	}

	e.token = reg.Register(e.handleEvent)
	for _, t := range reg.List() {
		e.applyUpsert(t)
	}
	return e
}

// Close detaches the engine from the registry and stops every pending
// timer. Toasts mid-exit are dropped without their final purge.
func (e *Engine) Close() {
	e.reg.Unregister(e.token)

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, it := range e.items {
		it.timer.cancel()
		if it.removeStop != nil {
			it.removeStop()
		}
	}
	e.items = make(map[string]*item)
}

// SetOnChange registers a callback invoked, with no locks held, after any
// mutation that changes what a renderer should draw.
func (e *Engine) SetOnChange(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onChange = fn
}

// SetOnRemove registers a callback invoked when a toast starts its exit,
// with the reason it was removed.
func (e *Engine) SetOnRemove(fn func(toast.Toast, toast.DismissReason)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onRemove = fn
}

// UpdateConfig swaps the active configuration, used for hot reload. Layout
// is recomputed for every stack and attention re-evaluated against the new
// behavior settings. Countdowns already armed keep their old duration; new
// per-kind durations apply from the next publish.
func (e *Engine) UpdateConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}

	e.mu.Lock()
	e.cfg = cfg
	for pos := range e.offsets {
		e.markDirtyLocked(pos)
	}
	for _, it := range e.items {
		e.markDirtyLocked(e.positionOf(it.toast))
	}
	e.reconcileAttentionLocked()
	e.mu.Unlock()

	e.notifyChange()
}

func (e *Engine) handleEvent(ev registry.Event) {
	switch ev.Op {
	case registry.OpUpsert:
		e.applyUpsert(ev.Toast)
	case registry.OpDismiss:
		e.applyDismiss(ev.ID)
	}
}

func (e *Engine) applyUpsert(t toast.Toast) {
	e.mu.Lock()
	it, known := e.items[t.ID]
	if known && it.pendingRemoval {
		// A late update cannot resurrect a toast on its way out.
		e.mu.Unlock()
		e.logger.Debug("update for removing toast dropped", "id", t.ID)
		return
	}

	if !known {
		it = &item{toast: t}
		e.items[t.ID] = it
		e.markDirtyLocked(e.positionOf(t))
		e.armTimerLocked(it)
	} else {
		prev := it.toast
		it.toast = t

		if oldPos, newPos := e.positionOf(prev), e.positionOf(t); oldPos != newPos {
			if h, ok := e.heights.height(t.ID); ok {
				e.heights.record(t.ID, h, newPos)
			}
			e.markDirtyLocked(oldPos)
			e.markDirtyLocked(newPos)
		}
		if e.timerInputsChanged(prev, t) {
			e.armTimerLocked(it)
		}
	}
	e.mu.Unlock()

	e.notifyChange()
}

func (e *Engine) applyDismiss(id string) {
	e.mu.Lock()
	it, ok := e.items[id]
	if !ok || it.pendingRemoval {
		e.mu.Unlock()
		e.logger.Debug("dismiss for unknown or removing toast", "id", id)
		return
	}
	post := e.beginRemovalLocked(it, toast.ReasonCanceled, false)
	e.mu.Unlock()

	post()
	e.notifyChange()
}

// Dismiss removes a toast as a user-initiated close. Unknown ids, toasts
// already on their way out, and non-dismissible toasts are ignored.
func (e *Engine) Dismiss(id string) {
	e.removeAs(id, toast.ReasonClosed)
}

// Cancel removes a toast programmatically; neither lifecycle callback
// fires. Non-dismissible toasts can only be removed this way.
func (e *Engine) Cancel(id string) {
	e.removeAs(id, toast.ReasonCanceled)
}

// DismissAll closes every dismissible toast.
func (e *Engine) DismissAll() {
	for _, id := range e.reg.IDs() {
		e.removeAs(id, toast.ReasonClosed)
	}
}

func (e *Engine) removeAs(id string, reason toast.DismissReason) {
	e.mu.Lock()
	it, ok := e.items[id]
	if !ok || it.pendingRemoval {
		e.mu.Unlock()
		return
	}
	if reason.UserInitiated() && !it.toast.CanDismiss() {
		e.mu.Unlock()
		return
	}
	post := e.beginRemovalLocked(it, reason, true)
	e.mu.Unlock()

	post()
	e.notifyChange()
}

// timerFired is the scheduled countdown callback. It runs on a scheduler
// goroutine and revalidates against the arena before removing anything.
func (e *Engine) timerFired(id string) {
	e.mu.Lock()
	it, ok := e.items[id]
	if !ok || it.pendingRemoval || !it.timer.markFired() {
		e.mu.Unlock()
		return
	}
	post := e.beginRemovalLocked(it, toast.ReasonExpired, true)
	e.mu.Unlock()

	post()
	e.notifyChange()
}

// beginRemovalLocked starts the uniform removal sequence: freeze the
// layout slot for the exit animation, drop the ledger entry so siblings
// re-stack immediately, cancel the countdown, and arm the grace timer
// that purges the record. The returned function runs the caller-visible
// side effects and must be invoked after unlocking.
func (e *Engine) beginRemovalLocked(it *item, reason toast.DismissReason, emit bool) func() {
	t := it.toast
	pos := e.positionOf(t)

	idx, total := e.displayIndexLocked(t.ID, pos)
	it.frozenOffset = e.offsetLocked(t.ID, pos)
	it.frozenHeight, _ = e.heights.height(t.ID)
	it.frozenIndex = idx
	it.frozenZ = zIndexFor(total, idx)
	it.pendingRemoval = true

	it.timer.cancel()
	if e.drag != nil && e.drag.id == t.ID {
		e.drag.tracker.Abort()
		e.drag = nil
	}
	if e.heights.remove(t.ID) {
		e.markDirtyLocked(pos)
	}

	id := t.ID
	it.removeStop = e.schedule(ExitGrace, func() { e.finalizeRemoval(id) })

	e.logger.Debug("toast removal started", "id", id, "reason", reason.String())

	onRemove := e.onRemove
	return func() {
		e.runCallback(t, reason)
		if onRemove != nil {
			onRemove(t, reason)
		}
		if emit {
			e.reg.Dismiss(id)
		}
	}
}

// finalizeRemoval runs after the exit grace: the arena entry is deleted
// and the registry record purged. The purge dispatches a final dismiss
// event, which finds no arena entry and is dropped.
func (e *Engine) finalizeRemoval(id string) {
	e.mu.Lock()
	it, ok := e.items[id]
	if !ok || !it.pendingRemoval {
		e.mu.Unlock()
		return
	}
	delete(e.items, id)
	e.mu.Unlock()

	e.reg.Remove(id)
	e.notifyChange()
}

// runCallback invokes at most one of the caller's lifecycle callbacks for
// a removal, recovering panics so a broken callback cannot stall the
// removal sequence.
func (e *Engine) runCallback(t toast.Toast, reason toast.DismissReason) {
	var cb func(toast.Toast)
	switch {
	case reason == toast.ReasonExpired:
		cb = t.OnAutoClose
	case reason.UserInitiated():
		cb = t.OnDismiss
	}
	if cb == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("toast callback panicked",
				"id", t.ID,
				"reason", reason.String(),
				"panic", r)
		}
	}()
	cb(t)
}

// SetHeight records the measured height for a mounted toast. Reports for
// unknown ids or toasts already animating out are dropped.
func (e *Engine) SetHeight(id string, height float64) {
	e.mu.Lock()
	it, ok := e.items[id]
	if !ok || it.pendingRemoval {
		e.mu.Unlock()
		e.logger.Debug("height report for unknown toast dropped", "id", id)
		return
	}
	pos := e.positionOf(it.toast)
	changed := e.heights.record(id, height, pos)
	if changed {
		e.markDirtyLocked(pos)
	}
	e.mu.Unlock()

	if changed {
		e.notifyChange()
	}
}

// SetHovering reports whether the pointer is over the stack. Hovering
// expands the stack visually and, when pause_on_hover is set, pauses
// every countdown.
func (e *Engine) SetHovering(v bool) {
	e.mu.Lock()
	if e.hovering == v {
		e.mu.Unlock()
		return
	}
	e.hovering = v
	e.reconcileAttentionLocked()
	e.mu.Unlock()

	e.notifyChange()
}

// SetHidden reports whether the host surface is hidden from the user.
// Countdowns pause while hidden so toasts are not silently lost.
func (e *Engine) SetHidden(v bool) {
	e.mu.Lock()
	if e.hidden == v {
		e.mu.Unlock()
		return
	}
	e.hidden = v
	e.reconcileAttentionLocked()
	e.mu.Unlock()

	e.notifyChange()
}

// SetExpanded toggles the stack's expanded interactive mode. Countdowns
// pause while expanded.
func (e *Engine) SetExpanded(v bool) {
	e.mu.Lock()
	if e.expanded == v {
		e.mu.Unlock()
		return
	}
	e.expanded = v
	e.reconcileAttentionLocked()
	e.mu.Unlock()

	e.notifyChange()
}

// Expanded reports whether the stack is currently in expanded mode.
func (e *Engine) Expanded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.expanded
}

// PointerDown begins a drag over the toast named by ev.ID. Presses on
// interactive sub-controls, non-dismissible or loading toasts, and toasts
// already animating out never start a swipe.
func (e *Engine) PointerDown(ev PointerEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.drag != nil {
		return
	}
	it, ok := e.items[ev.ID]
	if !ok || it.pendingRemoval || ev.Interactive ||
		!it.toast.CanDismiss() || it.toast.Kind == toast.KindLoading {
		return
	}

	cfg := gesture.Config{
		Directions:     e.directionsLocked(it.toast),
		CommitDistance: e.cfg.Swipe.CommitDistance,
		CommitVelocity: e.cfg.Swipe.CommitVelocity,
	}
	e.drag = &drag{
		id:      ev.ID,
		tracker: gesture.NewTracker(cfg, gesture.Point{X: ev.X, Y: ev.Y}, e.now()),
	}
}

// directionsLocked resolves the swipe directions allowed for t: the toast's
// own override wins, then the configured allowlist, then the directions
// natural to the toast's anchor.
func (e *Engine) directionsLocked(t toast.Toast) []toast.Direction {
	if len(t.Directions) > 0 {
		return t.Directions
	}
	if dirs := e.cfg.SwipeDirections(); len(dirs) > 0 {
		return dirs
	}
	return gesture.DirectionsFor(e.positionOf(t))
}

// PointerMove feeds a pointer sample to the active drag. The drag holds
// its capture, so samples apply even when the pointer has left the toast.
func (e *Engine) PointerMove(ev PointerEvent) {
	e.mu.Lock()
	d := e.drag
	if d == nil {
		e.mu.Unlock()
		return
	}
	it, ok := e.items[d.id]
	if !ok || it.pendingRemoval {
		e.drag = nil
		e.mu.Unlock()
		return
	}

	if ev.TextSelection {
		d.tracker.Abort()
		e.drag = nil
		it.swipeX, it.swipeY, it.swiped = 0, 0, false
		e.mu.Unlock()
		e.notifyChange()
		return
	}

	x, y, swiped := d.tracker.Move(gesture.Point{X: ev.X, Y: ev.Y})
	changed := x != it.swipeX || y != it.swipeY || swiped != it.swiped
	it.swipeX, it.swipeY, it.swiped = x, y, swiped
	e.mu.Unlock()

	if changed {
		e.notifyChange()
	}
}

// PointerUp releases the active drag: the swipe either commits and
// removes the toast or snaps back to rest.
func (e *Engine) PointerUp(ev PointerEvent) {
	e.mu.Lock()
	d := e.drag
	if d == nil {
		e.mu.Unlock()
		return
	}
	e.drag = nil
	it, ok := e.items[d.id]
	if !ok || it.pendingRemoval {
		e.mu.Unlock()
		return
	}

	decision := d.tracker.Release(e.now())
	if !decision.Commit {
		it.swipeX, it.swipeY, it.swiped = 0, 0, false
		e.mu.Unlock()
		e.notifyChange()
		return
	}

	it.swipedOut = true
	it.swipeDir = decision.Direction
	e.logger.Debug("swipe committed",
		"id", d.id,
		"direction", decision.Direction.String(),
		"amount", decision.Amount,
		"velocity", decision.Velocity)
	post := e.beginRemovalLocked(it, toast.ReasonSwiped, true)
	e.mu.Unlock()

	post()
	e.notifyChange()
}

// DragEnd aborts any active drag without dismissal (pointer capture lost,
// focus lost, and similar).
func (e *Engine) DragEnd() {
	e.mu.Lock()
	d := e.drag
	if d == nil {
		e.mu.Unlock()
		return
	}
	e.drag = nil
	d.tracker.Abort()
	if it, ok := e.items[d.id]; ok {
		it.swipeX, it.swipeY, it.swiped = 0, 0, false
	}
	e.mu.Unlock()

	e.notifyChange()
}

// armTimerLocked (re)starts the countdown for it from a full duration.
// Loading and never-expiring toasts get no countdown at all; an infinite
// delay must never reach the scheduler, where it would fire immediately.
func (e *Engine) armTimerLocked(it *item) {
	d := e.effectiveDuration(it.toast)
	if it.toast.Kind == toast.KindLoading || d == toast.Forever {
		it.timer.disarm()
		return
	}

	now := e.now()
	if e.attentionHeldLocked() {
		it.timer.hold(d, now)
		return
	}
	id := it.toast.ID
	it.timer.start(d, now, e.schedule, func() { e.timerFired(id) })
}

// timerInputsChanged reports whether an update altered anything that
// restarts the countdown.
func (e *Engine) timerInputsChanged(prev, cur toast.Toast) bool {
	if (prev.Kind == toast.KindLoading) != (cur.Kind == toast.KindLoading) {
		return true
	}
	return e.effectiveDuration(prev) != e.effectiveDuration(cur)
}

// effectiveDuration resolves a toast's countdown length: an explicit
// duration wins, zero falls back to the configured per-kind default.
func (e *Engine) effectiveDuration(t toast.Toast) time.Duration {
	if t.Duration != 0 {
		return t.Duration
	}
	return e.cfg.DurationFor(t.Kind)
}

// attentionHeldLocked reports whether any signal that pauses countdowns is
// active.
func (e *Engine) attentionHeldLocked() bool {
	hover := e.hovering && e.cfg.Behavior.PauseOnHover
	return hover || e.hidden || e.expanded
}

// reconcileAttentionLocked pauses or resumes every countdown when the
// aggregate attention state flips.
func (e *Engine) reconcileAttentionLocked() {
	held := e.attentionHeldLocked()
	if held == e.paused {
		return
	}
	e.paused = held

	now := e.now()
	for _, it := range e.items {
		if it.pendingRemoval {
			continue
		}
		if held {
			it.timer.pause(now)
		} else {
			id := it.toast.ID
			it.timer.resume(now, e.schedule, func() { e.timerFired(id) })
		}
	}
	e.logger.Debug("attention changed", "paused", held)
}

// positionOf resolves a toast's anchor, falling back to the configured
// default position.
func (e *Engine) positionOf(t toast.Toast) toast.Position {
	if t.Position != toast.PositionUnspecified {
		return t.Position
	}
	return e.cfg.DefaultPosition()
}

func (e *Engine) markDirtyLocked(pos toast.Position) {
	e.dirty[pos] = true
}

// layoutLocked returns the offsets for pos, recomputing only when the
// ledger changed since the last call.
func (e *Engine) layoutLocked(pos toast.Position) map[string]float64 {
	if e.dirty[pos] || e.offsets[pos] == nil {
		e.offsets[pos] = stackOffsets(e.displayEntriesLocked(pos), e.gap())
		delete(e.dirty, pos)
	}
	return e.offsets[pos]
}

// displayEntriesLocked assembles the measured heights at pos in display
// order, front toast first. The ledger's own sequence is measurement
// arrival, and a render host measuring several toasts in one frame may
// report them in any order; layout must not depend on that, or the front
// toast could stack behind its elders. Unmeasured toasts are left out
// until their first height report.
func (e *Engine) displayEntriesLocked(pos toast.Position) []heightEntry {
	var out []heightEntry
	records := e.reg.List()
	for i := len(records) - 1; i >= 0; i-- {
		it, ok := e.items[records[i].ID]
		if !ok || it.pendingRemoval || e.positionOf(it.toast) != pos {
			continue
		}
		if h, ok := e.heights.height(it.toast.ID); ok {
			out = append(out, heightEntry{id: it.toast.ID, height: h, pos: pos})
		}
	}
	return out
}

func (e *Engine) offsetLocked(id string, pos toast.Position) float64 {
	return e.layoutLocked(pos)[id]
}

// displayIndexLocked returns the display index of id among the live
// toasts at pos (0 = front) and the live count. Index is -1 when id is
// not live at pos.
func (e *Engine) displayIndexLocked(id string, pos toast.Position) (index, total int) {
	index = -1
	records := e.reg.List()
	for i := len(records) - 1; i >= 0; i-- {
		t := records[i]
		if e.positionOf(t) != pos {
			continue
		}
		it, ok := e.items[t.ID]
		if !ok || it.pendingRemoval {
			continue
		}
		if t.ID == id {
			index = total
		}
		total++
	}
	return index, total
}

// gap returns the configured stack gap; zero means unset and falls back
// to the default.
func (e *Engine) gap() float64 {
	if g := e.cfg.Display.Gap; g > 0 {
		return g
	}
	return DefaultGap
}

func (e *Engine) maxVisible() int {
	if v := e.cfg.Display.MaxVisible; v > 0 {
		return v
	}
	return DefaultMaxVisible
}

func (e *Engine) notifyChange() {
	e.mu.Lock()
	fn := e.onChange
	e.mu.Unlock()

	if fn != nil {
		fn()
	}
}
