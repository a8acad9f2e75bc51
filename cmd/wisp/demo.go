package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wispkit/wisp/internal/engine"
	"github.com/wispkit/wisp/internal/registry"
	"github.com/wispkit/wisp/internal/script"
	"github.com/wispkit/wisp/internal/theme"
	"github.com/wispkit/wisp/internal/toast"
	"github.com/wispkit/wisp/internal/tui"
)

var demoOpts struct {
	scenario string
	position string
	theme    string
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Launch the interactive toast demo",
	Long: `Launch an interactive sandbox that renders a toast stack in the
terminal without a running daemon.

Toasts can be spawned with the keyboard, swiped away with the mouse, and
inspected in a detail overlay. Pass --script to play a scripted scenario
(an embedded name or a path to a YAML file) on top of the sandbox.

Key bindings:
  n/s/i/w/e   Spawn a normal/success/info/warning/error toast
  a           Spawn an action toast (space presses its button)
  l           Spawn a loading toast (u resolves it)
  p           Cycle the spawn position
  tab         Expand or collapse the stack
  d / D       Dismiss the front toast / all toasts
  enter       Inspect the front toast
  ?           Show all key bindings`,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().StringVar(&demoOpts.scenario, "script", "",
		fmt.Sprintf("Scenario to play (embedded: %s; or a YAML file path)",
			strings.Join(script.ListEmbeddedScenarios(), ", ")))
	demoCmd.Flags().StringVar(&demoOpts.position, "position", "",
		fmt.Sprintf("Stack anchor (%s)", strings.Join(positionNames(), ", ")))
	demoCmd.Flags().StringVar(&demoOpts.theme, "theme", "",
		"Theme name (overrides the configured theme)")
}

func runDemo(cmd *cobra.Command, args []string) error {
	demoCfg := getConfig()
	if demoOpts.position != "" {
		if _, err := toast.ParsePosition(demoOpts.position); err != nil {
			return err
		}
		demoCfg.Display.Position = demoOpts.position
	}

	themeName := demoCfg.Theme.Name
	if demoOpts.theme != "" {
		themeName = demoOpts.theme
	}
	loader := theme.NewLoader(logger)
	if err := loader.LoadTheme(themeName); err != nil {
		logger.Warn("failed to load theme, using default", "theme", themeName, "error", err)
	}

	var scenario *script.Scenario
	if demoOpts.scenario != "" {
		var err error
		scenario, err = script.Load(demoOpts.scenario)
		if err != nil {
			return err
		}
	}

	reg := registry.New(logger)
	eng := engine.New(reg, demoCfg, logger)
	defer eng.Close()

	return tui.Run(tui.RunOptions{
		Config:   demoCfg,
		Registry: reg,
		Engine:   eng,
		Theme:    loader.GetTheme(),
		Scenario: scenario,
		DemoKeys: true,
		Logger:   logger,
	})
}

func positionNames() []string {
	all := toast.Positions()
	names := make([]string, len(all))
	for i, p := range all {
		names[i] = p.String()
	}
	return names
}
