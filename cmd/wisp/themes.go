package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wispkit/wisp/internal/theme"
)

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List available themes",
	Long: `List all available themes: the bundled ones and any user themes in
~/.config/wisp/themes/. A user theme with a bundled theme's name
overrides it.`,
	RunE: runThemes,
}

func init() {
	rootCmd.AddCommand(themesCmd)
}

func runThemes(cmd *cobra.Command, args []string) error {
	themes, err := theme.ListAvailableThemes()
	if err != nil {
		return err
	}

	current := getConfig().Theme.Name
	for _, t := range themes {
		marker := " "
		if t.Name == current {
			marker = "*"
		}
		source := "user"
		if t.IsBundled {
			source = "bundled"
		}
		fmt.Printf("%s %-16s %s\n", marker, t.Name, source)
	}
	return nil
}
