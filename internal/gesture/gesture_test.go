package gesture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wispkit/wisp/internal/toast"
)

func TestDirectionsFor(t *testing.T) {
	tests := []struct {
		pos  toast.Position
		want []toast.Direction
	}{
		{toast.PositionTopLeft, []toast.Direction{toast.DirectionUp, toast.DirectionLeft}},
		{toast.PositionTopCenter, []toast.Direction{toast.DirectionUp}},
		{toast.PositionTopRight, []toast.Direction{toast.DirectionUp, toast.DirectionRight}},
		{toast.PositionBottomLeft, []toast.Direction{toast.DirectionDown, toast.DirectionLeft}},
		{toast.PositionBottomCenter, []toast.Direction{toast.DirectionDown}},
		{toast.PositionBottomRight, []toast.Direction{toast.DirectionDown, toast.DirectionRight}},
	}

	for _, tt := range tests {
		t.Run(tt.pos.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, DirectionsFor(tt.pos))
		})
	}
}

func TestTracker_AxisLock(t *testing.T) {
	tr := newTestTracker(toast.PositionBottomRight)

	// Movement inside the lock threshold does not lock an axis.
	x, y, swiped := tr.Move(Point{X: 100.5, Y: 100.5})
	assert.Equal(t, AxisNone, tr.Axis())
	assert.Zero(t, x)
	assert.Zero(t, y)
	assert.False(t, swiped)

	// The dominant axis wins once the threshold is crossed.
	tr.Move(Point{X: 105, Y: 102})
	assert.Equal(t, AxisX, tr.Axis())

	// The axis stays locked even when later movement favors the other one.
	x, y, _ = tr.Move(Point{X: 106, Y: 160})
	assert.Equal(t, AxisX, tr.Axis())
	assert.NotZero(t, x)
	assert.Zero(t, y)
}

func TestTracker_AllowedDirectionFullStrength(t *testing.T) {
	tr := newTestTracker(toast.PositionBottomRight)

	// Down is allowed for bottom anchors, so the raw delta applies.
	_, y, swiped := tr.Move(Point{X: 100, Y: 130})
	assert.Equal(t, 30.0, y)
	assert.True(t, swiped)
}

func TestTracker_DisallowedDirectionDampened(t *testing.T) {
	tr := NewTracker(Config{
		Directions: []toast.Direction{toast.DirectionDown},
	}, Point{X: 100, Y: 100}, time.Now())

	// Upward movement opposes the only allowed direction:
	// dampened = -30 / (1.5 + 30/20) = -10.
	_, y, swiped := tr.Move(Point{X: 100, Y: 70})
	assert.InDelta(t, -10.0, y, 0.0001)
	assert.True(t, swiped)
}

func TestTracker_CommitByDistance(t *testing.T) {
	start := time.Now()
	tr := newTestTrackerAt(toast.PositionBottomRight, start)

	tr.Move(Point{X: 100, Y: 150})
	decision := tr.Release(start.Add(2 * time.Second))

	assert.True(t, decision.Commit)
	assert.Equal(t, toast.DirectionDown, decision.Direction)
	assert.Equal(t, 50.0, decision.Amount)
}

func TestTracker_CommitByVelocity(t *testing.T) {
	start := time.Now()
	tr := newTestTrackerAt(toast.PositionBottomRight, start)

	// 20px in 100ms is 0.2 px/ms, above the 0.11 threshold.
	tr.Move(Point{X: 100, Y: 120})
	decision := tr.Release(start.Add(100 * time.Millisecond))

	assert.True(t, decision.Commit)
	assert.Equal(t, toast.DirectionDown, decision.Direction)
	assert.InDelta(t, 0.2, decision.Velocity, 0.0001)
}

func TestTracker_SnapBack(t *testing.T) {
	start := time.Now()
	tr := newTestTrackerAt(toast.PositionBottomRight, start)

	// 20px in a full second is neither far nor fast enough.
	tr.Move(Point{X: 100, Y: 120})
	decision := tr.Release(start.Add(time.Second))

	assert.False(t, decision.Commit)
	assert.Equal(t, toast.DirectionNone, decision.Direction)
	assert.Equal(t, 20.0, decision.Amount)
	assert.InDelta(t, 0.02, decision.Velocity, 0.0001)
}

func TestTracker_HorizontalDirections(t *testing.T) {
	start := time.Now()

	right := NewTracker(Config{
		Directions: []toast.Direction{toast.DirectionRight},
	}, Point{}, start)
	right.Move(Point{X: 60, Y: 0})
	decision := right.Release(start.Add(time.Second))
	require.True(t, decision.Commit)
	assert.Equal(t, toast.DirectionRight, decision.Direction)

	left := NewTracker(Config{
		Directions: []toast.Direction{toast.DirectionLeft},
	}, Point{}, start)
	left.Move(Point{X: -60, Y: 0})
	decision = left.Release(start.Add(time.Second))
	require.True(t, decision.Commit)
	assert.Equal(t, toast.DirectionLeft, decision.Direction)
}

func TestTracker_ReleaseWithoutLock(t *testing.T) {
	tr := newTestTracker(toast.PositionBottomRight)

	decision := tr.Release(time.Now())
	assert.False(t, decision.Commit)
	assert.Zero(t, decision.Amount)
}

func TestTracker_ZeroElapsedRelease(t *testing.T) {
	start := time.Now()
	tr := newTestTrackerAt(toast.PositionBottomRight, start)

	// With no measurable elapsed time velocity is treated as zero, so only
	// the distance threshold can commit.
	tr.Move(Point{X: 100, Y: 120})
	decision := tr.Release(start)
	assert.False(t, decision.Commit)

	tr2 := newTestTrackerAt(toast.PositionBottomRight, start)
	tr2.Move(Point{X: 100, Y: 160})
	decision = tr2.Release(start)
	assert.True(t, decision.Commit)
}

func TestTracker_Abort(t *testing.T) {
	tr := newTestTracker(toast.PositionBottomRight)

	tr.Move(Point{X: 100, Y: 130})
	require.True(t, tr.Swiped())

	tr.Abort()
	x, y := tr.Amounts()
	assert.Zero(t, x)
	assert.Zero(t, y)
	assert.False(t, tr.Swiped())

	// Moves after the drag ended change nothing.
	x, y, swiped := tr.Move(Point{X: 100, Y: 200})
	assert.Zero(t, x)
	assert.Zero(t, y)
	assert.False(t, swiped)
}

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, DefaultCommitDistance, cfg.CommitDistance)
	assert.Equal(t, DefaultCommitVelocity, cfg.CommitVelocity)
	assert.Equal(t, DefaultLockThreshold, cfg.LockThreshold)

	custom := Config{CommitDistance: 6, CommitVelocity: 0.05, LockThreshold: 0.5}.withDefaults()
	assert.Equal(t, 6.0, custom.CommitDistance)
	assert.Equal(t, 0.05, custom.CommitVelocity)
	assert.Equal(t, 0.5, custom.LockThreshold)
}

func newTestTracker(pos toast.Position) *Tracker {
	return newTestTrackerAt(pos, time.Now())
}

func newTestTrackerAt(pos toast.Position, at time.Time) *Tracker {
	return NewTracker(Config{Directions: DirectionsFor(pos)}, Point{X: 100, Y: 100}, at)
}
