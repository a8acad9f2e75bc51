package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wispkit/wisp/internal/toast"
)

func TestHeightLedger_RecordPrepends(t *testing.T) {
	l := newHeightLedger()

	assert.True(t, l.record("a", 40, toast.PositionBottomRight))
	assert.True(t, l.record("b", 60, toast.PositionBottomRight))
	assert.True(t, l.record("c", 50, toast.PositionBottomRight))

	require.Equal(t, 3, l.len())
	entries := l.byPosition(toast.PositionBottomRight)
	require.Len(t, entries, 3)
	assert.Equal(t, "c", entries[0].id)
	assert.Equal(t, "b", entries[1].id)
	assert.Equal(t, "a", entries[2].id)
}

func TestHeightLedger_UpdateInPlace(t *testing.T) {
	l := newHeightLedger()
	l.record("a", 40, toast.PositionBottomRight)
	l.record("b", 60, toast.PositionBottomRight)

	// Re-measuring an entry must not move it.
	assert.True(t, l.record("a", 45, toast.PositionBottomRight))

	entries := l.byPosition(toast.PositionBottomRight)
	require.Len(t, entries, 2)
	assert.Equal(t, "b", entries[0].id)
	assert.Equal(t, "a", entries[1].id)
	assert.Equal(t, 45.0, entries[1].height)

	// Identical re-measurement is not a layout change.
	assert.False(t, l.record("a", 45, toast.PositionBottomRight))
}

func TestHeightLedger_PositionMove(t *testing.T) {
	l := newHeightLedger()
	l.record("a", 40, toast.PositionBottomRight)

	assert.True(t, l.record("a", 40, toast.PositionTopLeft))
	assert.Empty(t, l.byPosition(toast.PositionBottomRight))

	entries := l.byPosition(toast.PositionTopLeft)
	require.Len(t, entries, 1)
	assert.Equal(t, 40.0, entries[0].height)
}

func TestHeightLedger_Remove(t *testing.T) {
	l := newHeightLedger()
	l.record("a", 40, toast.PositionBottomRight)
	l.record("b", 60, toast.PositionBottomRight)
	l.record("c", 50, toast.PositionBottomRight)

	assert.True(t, l.remove("b"))
	assert.False(t, l.remove("b"))
	assert.False(t, l.remove("missing"))

	entries := l.byPosition(toast.PositionBottomRight)
	require.Len(t, entries, 2)
	assert.Equal(t, "c", entries[0].id)
	assert.Equal(t, "a", entries[1].id)

	// Index must survive the reshuffle.
	h, ok := l.height("a")
	require.True(t, ok)
	assert.Equal(t, 40.0, h)
}

func TestHeightLedger_ByPositionFilters(t *testing.T) {
	l := newHeightLedger()
	l.record("a", 40, toast.PositionBottomRight)
	l.record("b", 60, toast.PositionTopCenter)
	l.record("c", 50, toast.PositionBottomRight)

	entries := l.byPosition(toast.PositionBottomRight)
	require.Len(t, entries, 2)
	assert.Equal(t, "c", entries[0].id)
	assert.Equal(t, "a", entries[1].id)

	entries = l.byPosition(toast.PositionTopCenter)
	require.Len(t, entries, 1)
	assert.Equal(t, "b", entries[0].id)
}

func TestHeightLedger_Height(t *testing.T) {
	l := newHeightLedger()
	l.record("a", 40, toast.PositionBottomRight)

	h, ok := l.height("a")
	assert.True(t, ok)
	assert.Equal(t, 40.0, h)

	_, ok = l.height("missing")
	assert.False(t, ok)
}
