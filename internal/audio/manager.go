package audio

import (
	"log/slog"
	"os"
	"sync"

	"github.com/wispkit/wisp/internal/config"
	"github.com/wispkit/wisp/internal/toast"
)

// Manager plays the configured cue for each toast kind. Cue resolution
// (per-kind fallbacks, loading silence) lives in the config; the manager
// adds existence checks, preloading and hot-reload.
type Manager struct {
	mu     sync.RWMutex
	logger *slog.Logger
	player *Player
	config *config.Config
}

// NewManager creates an audio manager bound to cfg.
func NewManager(cfg *config.Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		logger: logger,
		player: NewPlayer(logger),
		config: cfg,
	}
	m.applyConfig()
	return m
}

// Start preloads every configured cue so the first toast plays without a
// decode stall. Missing files are logged and skipped.
func (m *Manager) Start() error {
	if !m.enabled() {
		m.logger.Debug("audio disabled, skipping preload")
		return nil
	}

	for _, path := range m.cuePaths() {
		if err := m.player.Preload(path); err != nil {
			m.logger.Warn("failed to preload sound", "path", path, "error", err)
		}
	}

	m.logger.Info("audio manager started")
	return nil
}

// Stop shuts down playback and releases the speaker.
func (m *Manager) Stop() {
	m.player.Close()
	m.logger.Debug("audio manager stopped")
}

// PlayForKind plays the cue configured for a toast kind. Unconfigured
// kinds and disabled audio are silent no-ops.
func (m *Manager) PlayForKind(kind toast.Kind) error {
	if !m.enabled() {
		return nil
	}

	m.mu.RLock()
	path := m.config.SoundFor(kind)
	m.mu.RUnlock()

	if path == "" {
		m.logger.Debug("no sound configured for kind", "kind", kind.String())
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		m.logger.Warn("sound file not found", "kind", kind.String(), "path", path)
		return nil
	}
	return m.player.Play(path)
}

// PlayFile plays an explicit sound file, for the sound-file notification
// hint.
func (m *Manager) PlayFile(path string) error {
	if !m.enabled() {
		return nil
	}
	return m.player.Play(path)
}

// UpdateConfig swaps the configuration after a hot reload: the cache is
// dropped and the new cues preloaded.
func (m *Manager) UpdateConfig(cfg *config.Config) {
	m.mu.Lock()
	m.config = cfg
	m.mu.Unlock()

	m.player.ClearCache()
	m.applyConfig()

	if m.enabled() {
		for _, path := range m.cuePaths() {
			if err := m.player.Preload(path); err != nil {
				m.logger.Warn("failed to preload sound on reload", "path", path, "error", err)
			}
		}
	}
	m.logger.Debug("audio manager reloaded")
}

func (m *Manager) enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config != nil && m.config.Audio.Enabled
}

// applyConfig pushes the configured volume to the player. The config
// carries 0-100, the player 0.0-1.0.
func (m *Manager) applyConfig() {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return
	}
	m.player.SetVolume(float64(m.config.Audio.Volume) / 100.0)
}

// cuePaths returns the distinct existing cue files across all kinds.
func (m *Manager) cuePaths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for _, kind := range toast.Kinds() {
		path := m.config.SoundFor(kind)
		if path == "" || seen[path] {
			continue
		}
		seen[path] = true
		if _, err := os.Stat(path); err != nil {
			m.logger.Warn("sound file not found", "kind", kind.String(), "path", path)
			continue
		}
		out = append(out, path)
	}
	return out
}
