package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wispkit/wisp/internal/toast"
)

func TestStackOffsets(t *testing.T) {
	entries := []heightEntry{
		{id: "c", height: 40, pos: toast.PositionBottomRight},
		{id: "b", height: 60, pos: toast.PositionBottomRight},
		{id: "a", height: 50, pos: toast.PositionBottomRight},
	}

	offsets := stackOffsets(entries, 14)
	assert.Equal(t, 0.0, offsets["c"])
	assert.Equal(t, 54.0, offsets["b"])
	assert.Equal(t, 128.0, offsets["a"])
}

func TestStackOffsets_Empty(t *testing.T) {
	assert.Empty(t, stackOffsets(nil, 14))
}

func TestOffsetBefore(t *testing.T) {
	entries := []heightEntry{
		{id: "c", height: 40},
		{id: "b", height: 60},
		{id: "a", height: 50},
	}

	tests := []struct {
		name  string
		index int
		want  float64
	}{
		{name: "front", index: 0, want: 0},
		{name: "second", index: 1, want: 54},
		{name: "third", index: 2, want: 128},
		{name: "past the end clamps", index: 7, want: 192},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, offsetBefore(entries, tt.index, 14))
		})
	}
}

func TestZIndexFor(t *testing.T) {
	assert.Equal(t, 3, zIndexFor(3, 0))
	assert.Equal(t, 2, zIndexFor(3, 1))
	assert.Equal(t, 1, zIndexFor(3, 2))
}
