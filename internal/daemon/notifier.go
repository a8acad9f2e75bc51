package daemon

import (
	"log/slog"
	"sync"
	"time"

	"github.com/wispkit/wisp/internal/registry"
	"github.com/wispkit/wisp/internal/toast"
)

// Notifier reports internal wispd events (config reloads, startup, audio
// failures) as toasts through the same registry that carries desktop
// notifications. It rate-limits per event key to prevent toast floods
// when, say, an editor rewrites a broken config file on every keystroke.
type Notifier struct {
	mu     sync.Mutex
	logger *slog.Logger

	registry *registry.Registry

	// Rate limiting
	lastNotifyTime map[string]time.Time // key -> last notification time
	minInterval    time.Duration        // minimum time between same notifications

	// Enabled flag
	enabled bool
}

// NewNotifier creates a Notifier publishing into the given registry.
func NewNotifier(reg *registry.Registry, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		logger:         logger,
		registry:       reg,
		lastNotifyTime: make(map[string]time.Time),
		minInterval:    5 * time.Second, // Don't repeat same notification within 5 seconds
		enabled:        true,
	}
}

// SetEnabled enables or disables internal notifications.
func (n *Notifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// SetMinInterval sets the minimum interval between duplicate notifications.
func (n *Notifier) SetMinInterval(interval time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.minInterval = interval
}

// Notify publishes an internal toast if not rate-limited. The key is used
// for rate limiting - same key won't notify again within minInterval.
func (n *Notifier) Notify(key, title, body string, kind toast.Kind) {
	n.mu.Lock()

	if !n.enabled {
		n.mu.Unlock()
		return
	}

	// Rate limiting check
	if lastTime, ok := n.lastNotifyTime[key]; ok {
		if time.Since(lastTime) < n.minInterval {
			n.mu.Unlock()
			n.logger.Debug("internal notification rate-limited", "key", key, "title", title)
			return
		}
	}
	n.lastNotifyTime[key] = time.Now()
	n.mu.Unlock()

	n.logger.Debug("publishing internal notification", "key", key, "title", title, "kind", kind.String())

	// Publish outside the lock; registry handlers may call back into us.
	if _, err := n.registry.Publish(toast.Toast{
		Kind:  kind,
		Title: title,
		Body:  body,
	}); err != nil {
		n.logger.Warn("failed to publish internal notification", "key", key, "error", err)
	}
}

// NotifyConfigReloaded reports that the config was reloaded.
func (n *Notifier) NotifyConfigReloaded() {
	n.Notify(
		"config-reload",
		"Configuration Reloaded",
		"wispd configuration has been successfully reloaded.",
		toast.KindSuccess,
	)
}

// NotifyConfigError reports a config validation error.
func (n *Notifier) NotifyConfigError(err error) {
	n.Notify(
		"config-error",
		"Configuration Error",
		"Failed to reload configuration: "+err.Error(),
		toast.KindWarning,
	)
}

// NotifyDnDChanged reports a Do Not Disturb state change.
func (n *Notifier) NotifyDnDChanged(enabled bool) {
	var title, body string
	if enabled {
		title = "Do Not Disturb Enabled"
		body = "Notifications will be suppressed."
	} else {
		title = "Do Not Disturb Disabled"
		body = "Notifications will now be displayed."
	}
	n.Notify(
		"dnd-change",
		title,
		body,
		toast.KindInfo,
	)
}

// NotifyStartup reports that the daemon has started.
func (n *Notifier) NotifyStartup(version string) {
	n.Notify(
		"startup",
		"wispd Started",
		"Notification daemon v"+version+" is now running.",
		toast.KindInfo,
	)
}

// NotifyAudioError reports an audio playback error.
func (n *Notifier) NotifyAudioError(err error) {
	n.Notify(
		"audio-error",
		"Audio Error",
		"Failed to play notification sound: "+err.Error(),
		toast.KindWarning,
	)
}
