// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/wispkit/wisp/internal/toast"
)

// DefaultDuration is the auto-dismiss duration applied when the config
// sets no default of its own.
const DefaultDuration = 4 * time.Second

// Duration is a time.Duration that can be unmarshaled from human-readable strings.
// Supports formats like "5s", "1m", "1h30m", integer milliseconds, or
// "infinite" for toasts that never expire on their own.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))

	switch strings.ToLower(s) {
	case "infinite", "never":
		*d = Duration(toast.Forever)
		return nil
	}

	// Try parsing as integer milliseconds first
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	// Parse as duration string (e.g., "5s", "1m", "1h30m")
	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '5s', '1m', milliseconds or 'infinite': %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	if time.Duration(d) == toast.Forever {
		return []byte("infinite"), nil
	}
	return []byte(time.Duration(d).String()), nil
}

// Milliseconds returns the duration in milliseconds.
func (d Duration) Milliseconds() int {
	return int(time.Duration(d).Milliseconds())
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Config is the wisp configuration, shared by the demo client and wispd.
// Loaded from ~/.config/wisp/wisp.toml
type Config struct {
	Display   DisplayConfig   `toml:"display"`
	Durations DurationsConfig `toml:"durations"`
	Swipe     SwipeConfig     `toml:"swipe"`
	Behavior  BehaviorConfig  `toml:"behavior"`
	Theme     ThemeConfig     `toml:"theme"`
	Audio     AudioConfig     `toml:"audio"`
	DnD       DnDConfig       `toml:"dnd"`
	Clipboard ClipboardConfig `toml:"clipboard"`
}

// DisplayConfig contains stack layout settings.
type DisplayConfig struct {
	Position   string  `toml:"position"`    // "bottom-right", "top-center", etc.
	Width      int     `toml:"width"`       // Toast width in cells
	MaxVisible int     `toml:"max_visible"` // Maximum fully visible toasts
	Gap        float64 `toml:"gap"`         // Gap between stacked toasts
}

// DurationsConfig contains auto-dismiss durations per toast kind.
// Unset kinds fall back to the default; "infinite" disables expiry.
// Loading toasts never expire regardless of these values.
type DurationsConfig struct {
	Default Duration `toml:"default"` // e.g., "4s", "4000" (ms), or "infinite"
	Success Duration `toml:"success"`
	Info    Duration `toml:"info"`
	Warning Duration `toml:"warning"`
	Error   Duration `toml:"error"`
}

// SwipeConfig contains swipe-to-dismiss thresholds. Zero values fall back
// to the engine defaults.
type SwipeConfig struct {
	CommitDistance float64  `toml:"commit_distance"` // Travel needed to commit a swipe
	CommitVelocity float64  `toml:"commit_velocity"` // Release speed (px/ms) that commits regardless of travel
	Directions     []string `toml:"directions"`      // Allowed swipe directions; empty derives them from the anchor
}

// BehaviorConfig contains behavior settings.
type BehaviorConfig struct {
	PauseOnHover bool `toml:"pause_on_hover"` // Pause countdowns while the pointer is over the stack
	Markdown     bool `toml:"markdown"`       // Render toast bodies as markdown
	ExpandByKey  bool `toml:"expand_by_key"`  // Allow expanding the stack from the keyboard
}

// AudioConfig contains audio cue settings.
type AudioConfig struct {
	Enabled bool        `toml:"enabled"`
	Volume  int         `toml:"volume"` // 0-100
	Sounds  SoundConfig `toml:"sounds"`
}

// SoundConfig contains per-kind sound file paths. Loading toasts play no
// cue; warning falls back to error when unset.
type SoundConfig struct {
	Normal  string `toml:"normal"`
	Success string `toml:"success"`
	Info    string `toml:"info"`
	Warning string `toml:"warning"`
	Error   string `toml:"error"`
}

// ThemeConfig selects the color theme used to render toasts.
type ThemeConfig struct {
	Name string `toml:"name"` // Built-in or user theme name
}

// DnDConfig contains Do Not Disturb settings.
type DnDConfig struct {
	Enabled     bool `toml:"enabled"`      // Initial state
	ErrorBypass bool `toml:"error_bypass"` // Show error toasts even in DnD mode
}

// ClipboardConfig holds clipboard settings for the detail overlay.
type ClipboardConfig struct {
	Command string `toml:"command"` // Auto-detected if empty
}

// Default returns a Config with default values tuned for a terminal host,
// where distances are measured in cells rather than pixels.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			Position:   string(toast.PositionBottomRight),
			Width:      44,
			MaxVisible: 3,
			Gap:        1,
		},
		Durations: DurationsConfig{
			Default: Duration(DefaultDuration),
			Error:   Duration(8 * time.Second),
		},
		Swipe: SwipeConfig{
			CommitDistance: 6,
			CommitVelocity: 0.045,
		},
		Behavior: BehaviorConfig{
			PauseOnHover: true,
			Markdown:     true,
			ExpandByKey:  true,
		},
		Theme: ThemeConfig{
			Name: "default",
		},
		Audio: AudioConfig{
			Enabled: false,
			Volume:  80,
			Sounds:  SoundConfig{},
		},
		DnD: DnDConfig{
			Enabled:     false,
			ErrorBypass: true,
		},
		Clipboard: ClipboardConfig{
			Command: "", // Auto-detect
		},
	}
}

// Path returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "wisp", "wisp.toml")
}

// Load loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns the default config if the file doesn't exist.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}

	// Start with defaults, then overlay with file contents
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = Path()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Display.Position != "" {
		if _, err := toast.ParsePosition(c.Display.Position); err != nil {
			return fmt.Errorf("invalid position %q, must be one of: %v", c.Display.Position, toast.Positions())
		}
	}

	if c.Display.MaxVisible < 0 || c.Display.MaxVisible > 20 {
		return fmt.Errorf("max_visible must be between 0 and 20, got %d", c.Display.MaxVisible)
	}
	if c.Display.Width != 0 && (c.Display.Width < 20 || c.Display.Width > 200) {
		return fmt.Errorf("width must be between 20 and 200, got %d", c.Display.Width)
	}
	if c.Display.Gap < 0 {
		return fmt.Errorf("gap must not be negative, got %v", c.Display.Gap)
	}

	if c.Swipe.CommitDistance < 0 {
		return fmt.Errorf("commit_distance must not be negative, got %v", c.Swipe.CommitDistance)
	}
	if c.Swipe.CommitVelocity < 0 {
		return fmt.Errorf("commit_velocity must not be negative, got %v", c.Swipe.CommitVelocity)
	}
	for _, s := range c.Swipe.Directions {
		if _, err := toast.ParseDirection(s); err != nil {
			return fmt.Errorf("invalid swipe direction %q, must be one of: up, down, left, right", s)
		}
	}

	if c.Audio.Volume < 0 || c.Audio.Volume > 100 {
		return fmt.Errorf("volume must be between 0 and 100, got %d", c.Audio.Volume)
	}

	return nil
}

// DefaultPosition returns the configured stack anchor, falling back to
// bottom-right.
func (c *Config) DefaultPosition() toast.Position {
	p, err := toast.ParsePosition(c.Display.Position)
	if err != nil {
		return toast.PositionBottomRight
	}
	return p
}

// SwipeDirections returns the configured swipe-direction allowlist, with
// unparseable names skipped. Empty means no override is configured.
func (c *Config) SwipeDirections() []toast.Direction {
	var out []toast.Direction
	for _, s := range c.Swipe.Directions {
		d, err := toast.ParseDirection(s)
		if err != nil {
			continue
		}
		out = append(out, d)
	}
	return out
}

// DurationFor returns the effective auto-dismiss duration for a kind.
// Unset per-kind values fall back to the configured default, then to
// DefaultDuration. Callers exclude loading toasts before asking.
func (c *Config) DurationFor(kind toast.Kind) time.Duration {
	var d Duration
	switch kind {
	case toast.KindSuccess:
		d = c.Durations.Success
	case toast.KindInfo:
		d = c.Durations.Info
	case toast.KindWarning:
		d = c.Durations.Warning
	case toast.KindError:
		d = c.Durations.Error
	}
	if d == 0 {
		d = c.Durations.Default
	}
	if d == 0 {
		return DefaultDuration
	}
	return d.Duration()
}

// SoundFor returns the sound file path for a kind, with ~ expanded.
// Returns empty when no cue is configured.
func (c *Config) SoundFor(kind toast.Kind) string {
	var path string
	switch kind {
	case toast.KindSuccess:
		path = c.Audio.Sounds.Success
	case toast.KindInfo:
		path = c.Audio.Sounds.Info
	case toast.KindWarning:
		path = c.Audio.Sounds.Warning
		if path == "" {
			path = c.Audio.Sounds.Error
		}
	case toast.KindError:
		path = c.Audio.Sounds.Error
	case toast.KindLoading:
		return ""
	default:
		path = c.Audio.Sounds.Normal
	}
	return expandPath(path)
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
