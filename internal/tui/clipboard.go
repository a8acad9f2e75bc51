package tui

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/wispkit/wisp/internal/config"
)

const copyTimeout = 5 * time.Second

var errNoClipboard = errors.New("no clipboard tool found")

// clipboardCommands are the tools probed when no command is configured,
// Wayland first.
var clipboardCommands = [][]string{
	{"wl-copy"},
	{"xclip", "-selection", "clipboard"},
	{"xsel", "--clipboard", "--input"},
}

// copyText pipes text into the clipboard command on stdin. A configured
// clipboard.command takes precedence over autodetection.
func copyText(text string, cfg *config.Config) error {
	argv, err := clipboardCommand(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), copyTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}

func clipboardCommand(cfg *config.Config) ([]string, error) {
	if cfg != nil && cfg.Clipboard.Command != "" {
		argv := strings.Fields(cfg.Clipboard.Command)
		if len(argv) == 0 {
			return nil, errNoClipboard
		}
		return argv, nil
	}
	for _, argv := range clipboardCommands {
		if _, err := exec.LookPath(argv[0]); err == nil {
			return argv, nil
		}
	}
	return nil, errNoClipboard
}
