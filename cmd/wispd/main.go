// Package main is the entry point for the wispd notification daemon.
//
// wispd claims org.freedesktop.Notifications on the session bus and
// renders incoming desktop notifications as toasts in the terminal it
// runs in. In monitor mode it leaves the bus name to another daemon and
// only mirrors the traffic it can observe.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/wispkit/wisp/internal/audio"
	"github.com/wispkit/wisp/internal/config"
	"github.com/wispkit/wisp/internal/daemon"
	"github.com/wispkit/wisp/internal/dbus"
	"github.com/wispkit/wisp/internal/engine"
	"github.com/wispkit/wisp/internal/registry"
	"github.com/wispkit/wisp/internal/theme"
	"github.com/wispkit/wisp/internal/toast"
	"github.com/wispkit/wisp/internal/tui"
)

const appName = "wispd"

// Build-time variables (set via ldflags)
var version = "dev"

func main() {
	monitorMode := flag.Bool("monitor", false,
		"Run in monitor mode (do not claim the bus name, mirror another daemon's traffic)")
	configPath := flag.String("config", "", "Path to config file (default: ~/.config/wisp/wisp.toml)")
	verbose := flag.Bool("verbose", false, "Enable verbose logging")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		println(appName, "version", version)
		os.Exit(0)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	if err := run(*configPath, *monitorMode, logger); err != nil {
		logger.Error("wispd failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, monitorMode bool, logger *slog.Logger) error {
	logger.Info("starting wispd", "version", version, "monitor", monitorMode)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// Core: the registry every producer publishes into and the engine
	// that drives layout, countdowns and removal.
	reg := registry.New(logger)
	eng := engine.New(reg, cfg, logger)
	defer eng.Close()

	themeLoader := theme.NewLoader(logger)
	if err := themeLoader.LoadTheme(cfg.Theme.Name); err != nil {
		logger.Warn("failed to load theme, using default", "theme", cfg.Theme.Name, "error", err)
	}

	notifier := daemon.NewNotifier(reg, logger)
	ids := daemon.NewIDMap()

	var dnd atomic.Bool
	dnd.Store(cfg.DnD.Enabled)
	errorBypass := cfg.DnD.ErrorBypass

	audioManager := audio.NewManager(cfg, logger)
	if err := audioManager.Start(); err != nil {
		logger.Warn("failed to start audio manager", "error", err)
		notifier.NotifyAudioError(err)
	}
	defer audioManager.Stop()

	var server *dbus.Server
	program := tui.NewProgram(tui.RunOptions{
		Config:   cfg,
		Registry: reg,
		Engine:   eng,
		Theme:    themeLoader.GetTheme(),
		Logger:   logger,
		OnAction: func(toastID, actionKey string) {
			if server == nil {
				return
			}
			if wireID, ok := ids.WireID(toastID); ok {
				if err := server.InvokeAction(wireID, actionKey); err != nil {
					logger.Warn("failed to emit action signal", "id", wireID, "error", err)
				}
			}
		},
		OnToggleDnD: func() bool {
			enabled := !dnd.Load()
			dnd.Store(enabled)
			notifier.NotifyDnDChanged(enabled)
			return enabled
		},
	})

	// ingest publishes one received notification into the registry,
	// honouring DnD and the replaces-id contract.
	ingest := func(n *dbus.Notification, wireID uint32) {
		kind := n.Kind()
		if dnd.Load() && !(errorBypass && kind == toast.KindError) {
			logger.Debug("notification suppressed by DnD", "id", wireID, "app", n.AppName)
			return
		}

		// Replacement reuses the toast id so the engine merges instead
		// of stacking a duplicate.
		toastID := ""
		if n.ReplacesID != 0 {
			if existing, ok := ids.ToastID(n.ReplacesID); ok {
				toastID = existing
			}
		}

		id, err := reg.Publish(n.Toast(toastID))
		if err != nil {
			logger.Error("failed to publish notification", "id", wireID, "error", err)
			return
		}
		ids.Bind(id, wireID)

		if !n.SuppressSound() {
			go func() {
				if file := n.SoundFile(); file != "" {
					if err := audioManager.PlayFile(file); err != nil {
						logger.Debug("failed to play sound file", "file", file, "error", err)
					}
				} else if err := audioManager.PlayForKind(kind); err != nil {
					logger.Debug("failed to play sound cue", "kind", kind.String(), "error", err)
				}
			}()
		}
	}

	var monitor *dbus.Monitor
	if monitorMode {
		monitor = dbus.NewMonitor(logger)
		monitor.SetNotifyHandler(ingest)
		if err := monitor.Start(); err != nil {
			return err
		}
		defer func() {
			if err := monitor.Stop(); err != nil {
				logger.Warn("error stopping monitor", "error", err)
			}
		}()
	} else {
		server = dbus.NewServer(logger)
		server.SetServerInfo(dbus.ServerInfo{
			Name:        appName,
			Vendor:      "wisp",
			Version:     version,
			SpecVersion: "1.2",
		})
		server.SetNotifyHandler(ingest)
		server.SetCloseHandler(func(wireID uint32) {
			if toastID, ok := ids.ToastID(wireID); ok {
				eng.Cancel(toastID)
			}
		})

		// Every removal the engine performs is reported back to the
		// client that sent the notification.
		eng.SetOnRemove(func(t toast.Toast, reason toast.DismissReason) {
			wireID, ok := ids.DropToast(t.ID)
			if !ok {
				return
			}
			server.MarkClosed(wireID)
			if err := server.EmitNotificationClosed(wireID, dbus.ReasonFor(reason)); err != nil {
				logger.Warn("failed to emit close signal", "id", wireID, "error", err)
			}
		})

		if err := server.Start(); err != nil {
			return err
		}
		defer func() {
			if err := server.Stop(); err != nil {
				logger.Warn("error stopping dbus server", "error", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	themeLoader.SetChangeCallback(func(t *theme.Theme) {
		program.Send(tui.ThemeMsg{Theme: t})
	})
	themeLoader.StartHotReload(ctx)
	defer themeLoader.StopHotReload()

	configWatcher, err := daemon.NewConfigWatcher(configPath, logger)
	if err != nil {
		logger.Warn("failed to create config watcher", "error", err)
	} else {
		configWatcher.SetReloadCallback(func(newConfig *config.Config) {
			audioManager.UpdateConfig(newConfig)
			errorBypass = newConfig.DnD.ErrorBypass

			if newConfig.Theme.Name != cfg.Theme.Name {
				if err := themeLoader.LoadTheme(newConfig.Theme.Name); err != nil {
					logger.Warn("failed to load new theme", "theme", newConfig.Theme.Name, "error", err)
				} else {
					program.Send(tui.ThemeMsg{Theme: themeLoader.GetTheme()})
				}
			}

			cfg = newConfig
			program.Send(tui.ConfigMsg{Config: newConfig})
			notifier.NotifyConfigReloaded()
		})
		configWatcher.SetErrorCallback(func(err error) {
			notifier.NotifyConfigError(err)
		})
		if err := configWatcher.Start(cfg); err != nil {
			logger.Warn("failed to start config watcher", "error", err)
		} else {
			defer func() {
				if err := configWatcher.Stop(); err != nil {
					logger.Warn("error stopping config watcher", "error", err)
				}
			}()
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received signal, shutting down", "signal", sig)
			program.Quit()
		case <-ctx.Done():
		}
	}()

	logger.Info("wispd ready", "dnd", dnd.Load())
	notifier.NotifyStartup(version)

	_, err = program.Run()
	logger.Info("wispd stopped")
	return err
}
