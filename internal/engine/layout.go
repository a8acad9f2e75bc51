package engine

// Stack layout is a pure computation over the height ledger: no state of
// its own, recomputed whenever the ledger changes for a position.

// offsetBefore returns the stacking offset of the entry at index: the sum
// of the heights of all entries in front of it, plus one gap per entry.
// The front entry (index 0) sits at offset zero.
func offsetBefore(entries []heightEntry, index int, gap float64) float64 {
	if index > len(entries) {
		index = len(entries)
	}
	var sum float64
	for i := 0; i < index; i++ {
		sum += entries[i].height
	}
	return sum + gap*float64(index)
}

// stackOffsets computes the offset of every entry in one pass.
func stackOffsets(entries []heightEntry, gap float64) map[string]float64 {
	offsets := make(map[string]float64, len(entries))
	var offset float64
	for _, e := range entries {
		offsets[e.id] = offset
		offset += e.height + gap
	}
	return offsets
}

// zIndexFor ranks a toast for paint order: the front of a stack of total
// toasts carries the highest z-index.
func zIndexFor(total, index int) int {
	return total - index
}
