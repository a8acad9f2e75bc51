package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wispkit/wisp/internal/toast"
)

func TestGetEmbeddedTheme(t *testing.T) {
	for _, name := range BundledThemes {
		data, ok := GetEmbeddedTheme(name)
		assert.True(t, ok, "bundled theme %q should be embedded", name)
		assert.NotEmpty(t, data)
	}

	_, ok := GetEmbeddedTheme("nope")
	assert.False(t, ok)
}

func TestEmbeddedThemesParse(t *testing.T) {
	kinds := []toast.Kind{
		toast.KindNormal, toast.KindSuccess, toast.KindInfo,
		toast.KindWarning, toast.KindError, toast.KindAction, toast.KindLoading,
	}

	for _, name := range ListEmbeddedThemes() {
		data, ok := GetEmbeddedTheme(name)
		require.True(t, ok)

		th, err := Parse(name, data)
		require.NoError(t, err, "embedded theme %q should parse", name)
		assert.Equal(t, name, th.Name)

		// Every kind must resolve to a usable style
		for _, k := range kinds {
			style := th.StyleFor(k)
			assert.NotEmpty(t, style.Icon, "%s: icon for %s", name, k)
			assert.NotEmpty(t, style.Color, "%s: color for %s", name, k)
		}
	}
}

func TestListEmbeddedThemes(t *testing.T) {
	names := ListEmbeddedThemes()
	for _, want := range BundledThemes {
		assert.Contains(t, names, want)
	}
}

func TestIsEmbeddedTheme(t *testing.T) {
	assert.True(t, IsEmbeddedTheme("default"))
	assert.True(t, IsEmbeddedTheme("catppuccin"))
	assert.False(t, IsEmbeddedTheme("missing"))
	assert.False(t, IsEmbeddedTheme(""))
}
