package engine

import "github.com/wispkit/wisp/internal/toast"

// heightEntry records the measured height of one mounted toast.
type heightEntry struct {
	id     string
	height float64
	pos    toast.Position
}

// heightLedger tracks toast heights in a stable sequence: new entries are
// prepended (most recent first, matching display order) and updates change
// the height in place without moving the entry. Heights are measured by
// the render host once a toast's natural height is known; the ledger never
// measures anything itself.
type heightLedger struct {
	entries []heightEntry
	index   map[string]int
}

func newHeightLedger() *heightLedger {
	return &heightLedger{index: make(map[string]int)}
}

// record inserts or updates the measurement for id. It reports whether the
// ledger changed in a way that affects layout.
func (l *heightLedger) record(id string, height float64, pos toast.Position) bool {
	if i, ok := l.index[id]; ok {
		e := &l.entries[i]
		if e.height == height && e.pos == pos {
			return false
		}
		e.height = height
		e.pos = pos
		return true
	}

	l.entries = append([]heightEntry{{id: id, height: height, pos: pos}}, l.entries...)
	l.reindex()
	return true
}

// remove drops the measurement for id, reporting whether it existed.
func (l *heightLedger) remove(id string) bool {
	i, ok := l.index[id]
	if !ok {
		return false
	}
	l.entries = append(l.entries[:i], l.entries[i+1:]...)
	l.reindex()
	return true
}

// byPosition returns the entries anchored at pos, most recent first.
func (l *heightLedger) byPosition(pos toast.Position) []heightEntry {
	var out []heightEntry
	for _, e := range l.entries {
		if e.pos == pos {
			out = append(out, e)
		}
	}
	return out
}

// height returns the recorded measurement for id.
func (l *heightLedger) height(id string) (float64, bool) {
	i, ok := l.index[id]
	if !ok {
		return 0, false
	}
	return l.entries[i].height, true
}

func (l *heightLedger) len() int {
	return len(l.entries)
}

func (l *heightLedger) reindex() {
	l.index = make(map[string]int, len(l.entries))
	for i, e := range l.entries {
		l.index[e.id] = i
	}
}
