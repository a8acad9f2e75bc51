package toast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	id1, err := NewID()
	require.NoError(t, err)
	assert.Len(t, id1, 26)

	id2, err := NewID()
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)
}

func TestToast_Validate(t *testing.T) {
	valid := Toast{ID: "t1", Kind: KindNormal}
	assert.NoError(t, valid.Validate())

	noID := Toast{Kind: KindNormal}
	assert.ErrorIs(t, noID.Validate(), ErrEmptyID)

	badKind := Toast{ID: "t1", Kind: Kind("shout")}
	assert.ErrorIs(t, badKind.Validate(), ErrInvalidKind)

	badPos := Toast{ID: "t1", Kind: KindNormal, Position: Position("middle")}
	assert.ErrorIs(t, badPos.Validate(), ErrInvalidPosition)

	badDir := Toast{ID: "t1", Kind: KindNormal, Directions: []Direction{DirectionLeft, Direction("sideways")}}
	assert.ErrorIs(t, badDir.Validate(), ErrInvalidDirection)

	// Unspecified position is fine, the engine falls back to the default.
	noPos := Toast{ID: "t1", Kind: KindNormal, Position: PositionUnspecified}
	assert.NoError(t, noPos.Validate())
}

func TestToast_CanDismiss(t *testing.T) {
	assert.True(t, Toast{ID: "t1"}.CanDismiss())
	assert.True(t, Toast{ID: "t1", Dismissible: boolPtr(true)}.CanDismiss())
	assert.False(t, Toast{ID: "t1", Dismissible: boolPtr(false)}.CanDismiss())
}

func TestToast_Clone(t *testing.T) {
	orig := Toast{
		ID:          "t1",
		Kind:        KindError,
		Dismissible: boolPtr(false),
		Button:      &Action{Key: "retry", Label: "Retry"},
		Directions:  []Direction{DirectionDown},
	}

	clone := orig.Clone()
	require.NotNil(t, clone.Dismissible)
	require.NotNil(t, clone.Button)
	require.Len(t, clone.Directions, 1)

	*clone.Dismissible = true
	clone.Button.Label = "Again"
	clone.Directions[0] = DirectionUp

	assert.False(t, *orig.Dismissible)
	assert.Equal(t, "Retry", orig.Button.Label)
	assert.Equal(t, DirectionDown, orig.Directions[0])
}

func TestMerge(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	base := Toast{
		ID:        "t1",
		Kind:      KindLoading,
		Title:     "Uploading",
		Body:      "3 files remaining",
		Duration:  Forever,
		Position:  PositionTopRight,
		CreatedAt: created,
	}

	t.Run("overlay set fields", func(t *testing.T) {
		patch := Toast{
			ID:       "t1",
			Kind:     KindSuccess,
			Title:    "Uploaded",
			Duration: 5 * time.Second,
		}
		merged := Merge(base, patch)

		assert.Equal(t, "t1", merged.ID)
		assert.Equal(t, KindSuccess, merged.Kind)
		assert.Equal(t, "Uploaded", merged.Title)
		assert.Equal(t, 5*time.Second, merged.Duration)
		// Unset fields keep the base value.
		assert.Equal(t, "3 files remaining", merged.Body)
		assert.Equal(t, PositionTopRight, merged.Position)
		assert.Equal(t, created, merged.CreatedAt)
	})

	t.Run("empty patch keeps base", func(t *testing.T) {
		merged := Merge(base, Toast{ID: "t1"})
		assert.Equal(t, base.Kind, merged.Kind)
		assert.Equal(t, base.Title, merged.Title)
		assert.Equal(t, base.Body, merged.Body)
		assert.Equal(t, base.Duration, merged.Duration)
		assert.Equal(t, base.Position, merged.Position)
	})

	t.Run("pointer fields overlay when set", func(t *testing.T) {
		patch := Toast{
			ID:          "t1",
			Dismissible: boolPtr(false),
			Button:      &Action{Key: "open", Label: "Open"},
		}
		merged := Merge(base, patch)
		require.NotNil(t, merged.Dismissible)
		assert.False(t, *merged.Dismissible)
		require.NotNil(t, merged.Button)
		assert.Equal(t, "open", merged.Button.Key)

		// A later patch without pointers keeps them.
		again := Merge(merged, Toast{ID: "t1", Body: "done"})
		require.NotNil(t, again.Dismissible)
		require.NotNil(t, again.Button)
		assert.Equal(t, "done", again.Body)
	})

	t.Run("directions overlay when set", func(t *testing.T) {
		withDirs := base
		withDirs.Directions = []Direction{DirectionUp}

		merged := Merge(withDirs, Toast{ID: "t1", Directions: []Direction{DirectionLeft, DirectionRight}})
		assert.Equal(t, []Direction{DirectionLeft, DirectionRight}, merged.Directions)

		again := Merge(merged, Toast{ID: "t1", Body: "done"})
		assert.Equal(t, []Direction{DirectionLeft, DirectionRight}, again.Directions)
	})

	t.Run("callbacks overlay when set", func(t *testing.T) {
		fired := ""
		patch := Toast{
			ID:        "t1",
			OnDismiss: func(Toast) { fired = "dismiss" },
		}
		merged := Merge(base, patch)
		require.NotNil(t, merged.OnDismiss)
		merged.OnDismiss(merged)
		assert.Equal(t, "dismiss", fired)
		assert.Nil(t, merged.OnAutoClose)
	})
}

func TestKind(t *testing.T) {
	assert.True(t, KindLoading.Valid())
	assert.False(t, KindUnspecified.Valid())
	assert.False(t, Kind("shout").Valid())
	assert.Len(t, Kinds(), 7)

	k, err := ParseKind(" Success ")
	require.NoError(t, err)
	assert.Equal(t, KindSuccess, k)

	_, err = ParseKind("shout")
	assert.Error(t, err)
}

func TestPosition(t *testing.T) {
	assert.Len(t, Positions(), 6)

	p, err := ParsePosition("Bottom-Right")
	require.NoError(t, err)
	assert.Equal(t, PositionBottomRight, p)

	_, err = ParsePosition("middle")
	assert.Error(t, err)

	assert.Equal(t, "top", PositionTopCenter.Vertical())
	assert.Equal(t, "center", PositionTopCenter.Horizontal())
	assert.Equal(t, "bottom", PositionBottomLeft.Vertical())
	assert.Equal(t, "left", PositionBottomLeft.Horizontal())

	assert.True(t, PositionBottomRight.IsBottom())
	assert.False(t, PositionTopLeft.IsBottom())
}

func TestDirection(t *testing.T) {
	assert.True(t, DirectionLeft.Horizontal())
	assert.True(t, DirectionRight.Horizontal())
	assert.False(t, DirectionUp.Horizontal())
	assert.False(t, DirectionDown.Horizontal())

	assert.True(t, DirectionUp.Valid())
	assert.False(t, DirectionNone.Valid())
	assert.False(t, Direction("sideways").Valid())

	d, err := ParseDirection(" Left ")
	require.NoError(t, err)
	assert.Equal(t, DirectionLeft, d)

	_, err = ParseDirection("sideways")
	assert.Error(t, err)
}

func TestDismissReason(t *testing.T) {
	assert.Equal(t, "expired", ReasonExpired.String())
	assert.Equal(t, "swiped", ReasonSwiped.String())
	assert.Equal(t, "closed", ReasonClosed.String())
	assert.Equal(t, "canceled", ReasonCanceled.String())
	assert.Equal(t, "unknown", DismissReason(99).String())

	assert.False(t, ReasonExpired.UserInitiated())
	assert.True(t, ReasonSwiped.UserInitiated())
	assert.True(t, ReasonClosed.UserInitiated())
	assert.False(t, ReasonCanceled.UserInitiated())
}

func boolPtr(v bool) *bool {
	return &v
}
