package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wispkit/wisp/internal/dbus"
)

var closeCmd = &cobra.Command{
	Use:   "close ID",
	Short: "Close a notification by wire id",
	Long: `Ask the notification daemon to close a notification.

The id is the wire id printed by "wisp send --print-id" or returned to
whichever client sent the notification.`,
	Args: cobra.ExactArgs(1),
	RunE: runClose,
}

func init() {
	rootCmd.AddCommand(closeCmd)
}

func runClose(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", args[0], err)
	}
	return dbus.CloseByID(uint32(id))
}
