package theme

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Loader handles loading themes with hot-reload support.
type Loader struct {
	mu          sync.RWMutex
	logger      *slog.Logger
	themesDir   string
	currentName string
	theme       *Theme
	watcher     *Watcher
	onChange    func(*Theme)
}

// NewLoader creates a new theme loader.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}

	themesDir, err := ThemesDir()
	if err != nil {
		logger.Warn("failed to get themes directory", "error", err)
		themesDir = ""
	}

	return &Loader{
		logger:    logger,
		themesDir: themesDir,
	}
}

// ThemesDir returns the path to the user's themes directory.
func ThemesDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "wisp", "themes"), nil
}

// LoadTheme loads a theme by name.
// Theme resolution order:
//  1. User themes directory (~/.config/wisp/themes/)
//  2. Embedded/bundled themes
//
// This allows users to override bundled themes by placing a file with the
// same name in their themes directory.
func (l *Loader) LoadTheme(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if name == "" {
		name = DefaultThemeName
	}

	// First, check user themes directory
	if l.themesDir != "" {
		themePath := filepath.Join(l.themesDir, name+".toml")
		if _, err := os.Stat(themePath); err == nil {
			theme, err := NewTheme(name, themePath)
			if err != nil {
				l.logger.Warn("failed to load user theme, trying bundled", "theme", name, "error", err)
			} else {
				l.theme = theme
				l.currentName = name
				l.logger.Info("loaded user theme", "name", name, "path", themePath)
				return nil
			}
		}
	}

	// Second, check embedded themes
	if data, found := GetEmbeddedTheme(name); found {
		theme, err := Parse(name, data)
		if err == nil {
			theme.IsDefault = name == DefaultThemeName
			l.theme = theme
			l.currentName = name
			l.logger.Info("loaded bundled theme", "name", name)
			return nil
		}
		l.logger.Warn("bundled theme failed to parse", "theme", name, "error", err)
	}

	// Fallback to default theme
	l.logger.Warn("theme not found, using default", "theme", name)
	l.theme = NewDefaultTheme()
	l.currentName = DefaultThemeName
	return nil
}

// GetTheme returns the currently loaded theme.
func (l *Loader) GetTheme() *Theme {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.theme == nil {
		return NewDefaultTheme()
	}
	return l.theme
}

// Reload reloads the current theme from disk.
func (l *Loader) Reload() error {
	l.mu.RLock()
	name := l.currentName
	l.mu.RUnlock()
	return l.LoadTheme(name)
}

// SetChangeCallback sets the callback invoked when hot-reload picks up a
// changed theme file.
func (l *Loader) SetChangeCallback(fn func(*Theme)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = fn
}

// StartHotReload starts watching the current theme for changes.
func (l *Loader) StartHotReload(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.theme == nil || l.theme.IsDefault || l.theme.Path == "" {
		l.logger.Debug("not starting hot-reload for bundled theme")
		return
	}

	// Stop existing watcher if any
	if l.watcher != nil {
		l.watcher.Stop()
	}

	l.watcher = NewWatcher(l.theme, l.logger)
	l.watcher.SetChangeCallback(func(t *Theme) {
		l.mu.RLock()
		fn := l.onChange
		l.mu.RUnlock()
		l.logger.Info("hot-reloaded theme", "name", t.Name)
		if fn != nil {
			fn(t)
		}
	})

	if err := l.watcher.Start(ctx); err != nil {
		l.logger.Warn("failed to start theme watcher", "error", err)
	}
}

// StopHotReload stops watching the theme for changes.
func (l *Loader) StopHotReload() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.watcher != nil {
		l.watcher.Stop()
		l.watcher = nil
	}
}

// CurrentTheme returns the name of the currently loaded theme.
func (l *Loader) CurrentTheme() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.currentName
}

// ListThemes returns a list of available theme names.
// Returns both bundled themes and user themes, with duplicates removed.
func (l *Loader) ListThemes() []string {
	seen := make(map[string]bool)
	var themes []string

	// Add bundled themes first
	for _, name := range ListEmbeddedThemes() {
		if !seen[name] {
			seen[name] = true
			themes = append(themes, name)
		}
	}

	// Add user themes (may include overrides)
	if l.themesDir != "" {
		entries, err := os.ReadDir(l.themesDir)
		if err == nil {
			for _, entry := range entries {
				if entry.IsDir() {
					continue
				}
				name := entry.Name()
				if filepath.Ext(name) == ".toml" {
					themeName := name[:len(name)-5]
					if !seen[themeName] {
						seen[themeName] = true
						themes = append(themes, themeName)
					}
				}
			}
		} else if !os.IsNotExist(err) {
			l.logger.Debug("failed to read themes directory", "error", err)
		}
	}

	return themes
}
