package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wispkit/wisp/internal/toast"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "bottom-right", cfg.Display.Position)
	assert.Equal(t, 3, cfg.Display.MaxVisible)
	assert.Equal(t, 1.0, cfg.Display.Gap)
	assert.Equal(t, Duration(4*time.Second), cfg.Durations.Default)
	assert.True(t, cfg.Behavior.PauseOnHover)
	assert.False(t, cfg.Audio.Enabled)
	assert.True(t, cfg.DnD.ErrorBypass)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/wisp.toml")
	require.NoError(t, err)
	assert.Equal(t, Default().Display.Position, cfg.Display.Position)
}

func TestLoad_ParsesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wisp.toml")

	content := `
[display]
position = "top-center"
max_visible = 5
gap = 2.0

[durations]
default = "6s"
error = "infinite"
success = "2500"

[swipe]
commit_distance = 8
commit_velocity = 0.08
directions = ["left", "right"]

[behavior]
pause_on_hover = false

[audio]
enabled = true
volume = 50

[audio.sounds]
error = "~/sounds/error.wav"

[dnd]
enabled = true
error_bypass = false
`
	err := os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "top-center", cfg.Display.Position)
	assert.Equal(t, 5, cfg.Display.MaxVisible)
	assert.Equal(t, 2.0, cfg.Display.Gap)
	assert.Equal(t, Duration(6*time.Second), cfg.Durations.Default)
	assert.Equal(t, Duration(toast.Forever), cfg.Durations.Error)
	assert.Equal(t, Duration(2500*time.Millisecond), cfg.Durations.Success)
	assert.Equal(t, 8.0, cfg.Swipe.CommitDistance)
	assert.Equal(t, 0.08, cfg.Swipe.CommitVelocity)
	assert.Equal(t, []string{"left", "right"}, cfg.Swipe.Directions)
	assert.False(t, cfg.Behavior.PauseOnHover)
	assert.True(t, cfg.Audio.Enabled)
	assert.Equal(t, 50, cfg.Audio.Volume)
	assert.True(t, cfg.DnD.Enabled)
	assert.False(t, cfg.DnD.ErrorBypass)

	// Unspecified sections keep their defaults.
	assert.Equal(t, Default().Display.Width, cfg.Display.Width)
	assert.True(t, cfg.Behavior.Markdown)
}

func TestLoad_RejectsInvalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"bad position", "[display]\nposition = \"middle\"\n"},
		{"bad volume", "[audio]\nvolume = 150\n"},
		{"negative gap", "[display]\ngap = -1.0\n"},
		{"bad duration", "[durations]\ndefault = \"soon\"\n"},
		{"bad swipe direction", "[swipe]\ndirections = [\"sideways\"]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "bad.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestConfig_SaveAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "wisp.toml")

	cfg := Default()
	cfg.Display.Position = string(toast.PositionTopLeft)
	cfg.Durations.Default = Duration(9 * time.Second)
	cfg.Durations.Error = Duration(toast.Forever)

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "top-left", loaded.Display.Position)
	assert.Equal(t, Duration(9*time.Second), loaded.Durations.Default)
	assert.Equal(t, Duration(toast.Forever), loaded.Durations.Error)
}

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"5s", 5 * time.Second},
		{"1m30s", 90 * time.Second},
		{"4000", 4 * time.Second},
		{"0", 0},
		{"infinite", toast.Forever},
		{"never", toast.Forever},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var d Duration
			require.NoError(t, d.UnmarshalText([]byte(tt.in)))
			assert.Equal(t, Duration(tt.want), d)
		})
	}

	var d Duration
	assert.Error(t, d.UnmarshalText([]byte("soon")))
}

func TestDuration_MarshalText(t *testing.T) {
	out, err := Duration(5 * time.Second).MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "5s", string(out))

	out, err = Duration(toast.Forever).MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "infinite", string(out))
}

func TestConfig_DurationFor(t *testing.T) {
	cfg := &Config{
		Durations: DurationsConfig{
			Default: Duration(4 * time.Second),
			Error:   Duration(8 * time.Second),
		},
	}

	assert.Equal(t, 4*time.Second, cfg.DurationFor(toast.KindNormal))
	assert.Equal(t, 4*time.Second, cfg.DurationFor(toast.KindSuccess))
	assert.Equal(t, 8*time.Second, cfg.DurationFor(toast.KindError))

	// With nothing configured the built-in default applies.
	empty := &Config{}
	assert.Equal(t, DefaultDuration, empty.DurationFor(toast.KindNormal))
}

func TestConfig_DefaultPosition(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, toast.PositionBottomRight, cfg.DefaultPosition())

	cfg.Display.Position = "top-left"
	assert.Equal(t, toast.PositionTopLeft, cfg.DefaultPosition())
}

func TestConfig_SwipeDirections(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.SwipeDirections())

	cfg.Swipe.Directions = []string{"Left", " down "}
	assert.Equal(t, []toast.Direction{toast.DirectionLeft, toast.DirectionDown}, cfg.SwipeDirections())
}

func TestConfig_SoundFor(t *testing.T) {
	cfg := &Config{
		Audio: AudioConfig{
			Sounds: SoundConfig{
				Normal: "/s/normal.wav",
				Error:  "/s/error.wav",
			},
		},
	}

	assert.Equal(t, "/s/normal.wav", cfg.SoundFor(toast.KindNormal))
	assert.Equal(t, "/s/error.wav", cfg.SoundFor(toast.KindError))
	// Warning falls back to the error cue when unset.
	assert.Equal(t, "/s/error.wav", cfg.SoundFor(toast.KindWarning))
	// Loading toasts play no cue.
	assert.Equal(t, "", cfg.SoundFor(toast.KindLoading))
	// Unconfigured kinds resolve to empty.
	assert.Equal(t, "", (&Config{}).SoundFor(toast.KindSuccess))
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	assert.Equal(t, "/tmp/xdg-test/wisp/wisp.toml", Path())
}
