package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/wispkit/wisp/internal/toast"
)

// Border shapes a theme may name.
var validBorders = map[string]bool{
	"":        true, // defaults to rounded
	"rounded": true,
	"normal":  true,
	"thick":   true,
	"double":  true,
	"hidden":  true,
}

// Theme describes how toasts are drawn: a border shape, a text palette,
// and an icon/color pair per toast kind. Colors are lipgloss-compatible
// strings (ANSI numbers or hex).
type Theme struct {
	Name   string               `toml:"name"`
	Border string               `toml:"border"`
	Colors Palette              `toml:"colors"`
	Kinds  map[string]KindStyle `toml:"kinds"`

	Path      string    `toml:"-"` // Full path to the TOML file (empty for bundled)
	ModTime   time.Time `toml:"-"` // Last modification time
	IsDefault bool      `toml:"-"` // True if this is the embedded default theme
}

// Palette holds the theme's text colors.
type Palette struct {
	Title string `toml:"title"`
	Body  string `toml:"body"`
	Dim   string `toml:"dim"`
}

// KindStyle is the icon and accent color for one toast kind.
type KindStyle struct {
	Icon  string `toml:"icon"`
	Color string `toml:"color"`
}

// Parse decodes a theme from TOML content. The name from the file wins;
// an empty one falls back to the given name.
func Parse(name string, data []byte) (*Theme, error) {
	t := &Theme{}
	if err := toml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("failed to parse theme: %w", err)
	}
	if t.Name == "" {
		t.Name = name
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// NewTheme creates a Theme by loading a TOML file.
func NewTheme(name, path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	t, err := Parse(name, data)
	if err != nil {
		return nil, err
	}
	t.Path = path
	t.ModTime = info.ModTime()
	return t, nil
}

// NewDefaultTheme creates the embedded default theme.
func NewDefaultTheme() *Theme {
	data, _ := GetEmbeddedTheme(DefaultThemeName)
	t, err := Parse(DefaultThemeName, data)
	if err != nil {
		// The embedded default must parse; an empty theme still renders.
		t = &Theme{Name: DefaultThemeName}
	}
	t.IsDefault = true
	return t
}

// Validate checks the theme for unusable values.
func (t *Theme) Validate() error {
	if !validBorders[t.Border] {
		return fmt.Errorf("unknown border %q, must be one of: rounded, normal, thick, double, hidden", t.Border)
	}
	for name := range t.Kinds {
		if _, err := toast.ParseKind(name); err != nil {
			return fmt.Errorf("theme styles unknown kind %q", name)
		}
	}
	return nil
}

// StyleFor returns the icon/color pair for a kind. Kinds the theme leaves
// out fall back to its normal style, then to a plain builtin.
func (t *Theme) StyleFor(kind toast.Kind) KindStyle {
	if s, ok := t.Kinds[kind.String()]; ok {
		return s
	}
	if s, ok := t.Kinds[toast.KindNormal.String()]; ok {
		return s
	}
	return KindStyle{Icon: "*", Color: "7"}
}

// Reload reloads the theme from disk.
// Returns true if the content changed.
func (t *Theme) Reload() (bool, error) {
	if t.IsDefault || t.Path == "" {
		return false, nil
	}

	info, err := os.Stat(t.Path)
	if err != nil {
		return false, err
	}

	// Check if modification time changed
	if !info.ModTime().After(t.ModTime) {
		return false, nil
	}

	data, err := os.ReadFile(t.Path)
	if err != nil {
		return false, err
	}

	parsed, err := Parse(t.Name, data)
	if err != nil {
		return false, err
	}

	changed := parsed.Border != t.Border || parsed.Colors != t.Colors ||
		!equalKinds(parsed.Kinds, t.Kinds)
	t.Border = parsed.Border
	t.Colors = parsed.Colors
	t.Kinds = parsed.Kinds
	t.ModTime = info.ModTime()

	return changed, nil
}

func equalKinds(a, b map[string]KindStyle) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

// ThemeInfo provides basic theme information for listing.
type ThemeInfo struct {
	Name      string
	Path      string
	IsDefault bool
	IsBundled bool // True if this is a bundled/embedded theme
}

// ListAvailableThemes lists all available themes (bundled + user).
func ListAvailableThemes() ([]ThemeInfo, error) {
	seen := make(map[string]bool)
	var themes []ThemeInfo

	// Add bundled themes first
	for _, name := range ListEmbeddedThemes() {
		if !seen[name] {
			seen[name] = true
			themes = append(themes, ThemeInfo{
				Name:      name,
				Path:      "",
				IsDefault: name == DefaultThemeName,
				IsBundled: true,
			})
		}
	}

	// Add user themes
	themesDir, err := ThemesDir()
	if err != nil {
		return themes, nil
	}

	entries, err := os.ReadDir(themesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return themes, nil
		}
		return themes, err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if filepath.Ext(name) == ".toml" {
			themeName := name[:len(name)-5]
			if !seen[themeName] {
				seen[themeName] = true
				themes = append(themes, ThemeInfo{
					Name: themeName,
					Path: filepath.Join(themesDir, name),
				})
			}
		}
	}

	return themes, nil
}

// CreateThemesDir creates the themes directory if it doesn't exist.
func CreateThemesDir() error {
	themesDir, err := ThemesDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(themesDir, 0755)
}
