package engine

import "time"

// ScheduleFunc arms a one-shot callback after d and returns a handle that
// cancels it. The handle reports false when the callback already fired or
// was stopped. The engine never hands an infinite delay to a scheduler;
// toasts that never expire simply get no countdown.
type ScheduleFunc func(d time.Duration, fn func()) (stop func() bool)

// realSchedule runs callbacks on the runtime timer heap.
func realSchedule(d time.Duration, fn func()) func() bool {
	return time.AfterFunc(d, fn).Stop
}

// timerPhase tracks a countdown through its life.
type timerPhase int

const (
	phaseIdle timerPhase = iota
	phaseRunning
	phasePaused
	phaseFired
	phaseCancelled
)

// String returns a human-readable phase name.
func (p timerPhase) String() string {
	switch p {
	case phaseIdle:
		return "idle"
	case phaseRunning:
		return "running"
	case phasePaused:
		return "paused"
	case phaseFired:
		return "fired"
	case phaseCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// countdown is the auto-dismiss state machine for one toast. All methods
// run under the engine lock; the scheduled callback re-enters through the
// engine, which calls markFired before acting so stale callbacks are
// dropped.
type countdown struct {
	phase     timerPhase
	remaining time.Duration
	startedAt time.Time // last (re)start instant
	checkedAt time.Time // last pause bookkeeping instant
	stop      func() bool
}

// start arms the countdown for d. Negative durations clamp to zero, which
// fires on the next scheduler turn.
func (c *countdown) start(d time.Duration, now time.Time, schedule ScheduleFunc, fire func()) {
	c.cancelPending()
	if d < 0 {
		d = 0
	}
	c.phase = phaseRunning
	c.remaining = d
	c.startedAt = now
	c.stop = schedule(d, fire)
}

// hold parks the countdown in the paused phase with a full remainder of d,
// for toasts that arrive while attention already pauses the stack.
func (c *countdown) hold(d time.Duration, now time.Time) {
	c.cancelPending()
	if d < 0 {
		d = 0
	}
	c.phase = phasePaused
	c.remaining = d
	c.startedAt = now
	c.checkedAt = now
}

// pause suspends a running countdown, banking the unspent remainder and
// dropping the pending callback. Elapsed time is only subtracted when the
// last check predates the current run, so repeated pause signals cannot
// subtract twice.
func (c *countdown) pause(now time.Time) {
	if c.phase != phaseRunning {
		return
	}
	c.cancelPending()
	if c.checkedAt.Before(c.startedAt) {
		c.remaining -= now.Sub(c.startedAt)
		if c.remaining < 0 {
			c.remaining = 0
		}
	}
	c.checkedAt = now
	c.phase = phasePaused
}

// resume re-arms a paused countdown with the banked remainder.
func (c *countdown) resume(now time.Time, schedule ScheduleFunc, fire func()) {
	if c.phase != phasePaused {
		return
	}
	c.phase = phaseRunning
	c.startedAt = now
	c.stop = schedule(c.remaining, fire)
}

// markFired moves a running countdown to its terminal fired phase. It
// reports false for callbacks racing a pause or cancel; those must not
// remove anything.
func (c *countdown) markFired() bool {
	if c.phase != phaseRunning {
		return false
	}
	c.phase = phaseFired
	c.stop = nil
	return true
}

// cancel terminates the countdown and drops any pending callback. Fired
// countdowns stay fired.
func (c *countdown) cancel() {
	if c.phase == phaseFired || c.phase == phaseCancelled {
		return
	}
	c.cancelPending()
	c.phase = phaseCancelled
}

// disarm returns the countdown to idle with nothing scheduled, for toasts
// that stop being expirable (a kind change to loading, or an update to an
// infinite duration).
func (c *countdown) disarm() {
	c.cancelPending()
	c.phase = phaseIdle
	c.remaining = 0
}

func (c *countdown) cancelPending() {
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
}
