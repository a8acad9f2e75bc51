package engine

import (
	"github.com/wispkit/wisp/internal/toast"
)

// Item is one toast's render state inside a stack snapshot. Offsets grow
// away from the anchor edge; index 0 is the front toast.
type Item struct {
	Toast toast.Toast `json:"toast" yaml:"toast"`

	Offset float64 `json:"offset" yaml:"offset"`
	Index  int     `json:"index" yaml:"index"`
	ZIndex int     `json:"zIndex" yaml:"zIndex"`
	Height float64 `json:"height" yaml:"height"`

	Front    bool `json:"front" yaml:"front"`
	Visible  bool `json:"visible" yaml:"visible"`
	Expanded bool `json:"expanded" yaml:"expanded"`

	Swiped         bool            `json:"swiped" yaml:"swiped"`
	SwipedOut      bool            `json:"swipedOut" yaml:"swipedOut"`
	SwipeDirection toast.Direction `json:"swipeDirection,omitempty" yaml:"swipeDirection,omitempty"`
	SwipeX         float64         `json:"swipeX" yaml:"swipeX"`
	SwipeY         float64         `json:"swipeY" yaml:"swipeY"`

	// Removing marks a toast playing its exit animation. Its layout fields
	// are frozen at the values it had when removal started.
	Removing bool `json:"removing" yaml:"removing"`
}

// Stack returns the render state for every toast anchored at pos, newest
// first. Toasts mid-exit are included with their frozen slots so the host
// can play the exit animation; live toasts are indexed as if the exiting
// ones were already gone.
func (e *Engine) Stack(pos toast.Position) []Item {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stackLocked(pos)
}

func (e *Engine) stackLocked(pos toast.Position) []Item {
	expanded := e.expanded || e.hovering
	offsets := e.layoutLocked(pos)
	maxVisible := e.maxVisible()

	var out []Item
	alive := 0
	records := e.reg.List()
	for i := len(records) - 1; i >= 0; i-- {
		it, ok := e.items[records[i].ID]
		if !ok || e.positionOf(it.toast) != pos {
			continue
		}

		snap := Item{
			Toast:          it.toast,
			Expanded:       expanded,
			Swiped:         it.swiped,
			SwipedOut:      it.swipedOut,
			SwipeDirection: it.swipeDir,
			SwipeX:         it.swipeX,
			SwipeY:         it.swipeY,
		}

		if it.pendingRemoval {
			snap.Removing = true
			snap.Visible = true
			snap.Offset = it.frozenOffset
			snap.Height = it.frozenHeight
			snap.Index = it.frozenIndex
			snap.ZIndex = it.frozenZ
		} else {
			if h, ok := e.heights.height(it.toast.ID); ok {
				snap.Height = h
			}
			snap.Index = alive
			snap.Offset = offsets[it.toast.ID]
			snap.Front = alive == 0
			snap.Visible = alive < maxVisible
			alive++
		}
		out = append(out, snap)
	}

	// Z-index counts down from the live total so the front toast paints on
	// top; it is only knowable once the live count is in.
	for i := range out {
		if !out[i].Removing {
			out[i].ZIndex = zIndexFor(alive, out[i].Index)
		}
	}
	return out
}

// Stacks returns the render state for every position that currently has
// toasts, keyed by anchor.
func (e *Engine) Stacks() map[toast.Position][]Item {
	e.mu.Lock()
	defer e.mu.Unlock()

	positions := make(map[toast.Position]struct{})
	for _, it := range e.items {
		positions[e.positionOf(it.toast)] = struct{}{}
	}

	out := make(map[toast.Position][]Item, len(positions))
	for pos := range positions {
		out[pos] = e.stackLocked(pos)
	}
	return out
}

// Count returns the number of toasts the engine is tracking, including
// those mid-exit.
func (e *Engine) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.items)
}
