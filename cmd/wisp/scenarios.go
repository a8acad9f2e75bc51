package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wispkit/wisp/internal/script"
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List embedded demo scenarios",
	Long: `List the demo scenarios embedded in the binary. Play one with
"wisp demo --script NAME"; "wisp demo --script path/to/file.yaml" plays
a scenario from disk.`,
	RunE: runScenarios,
}

func init() {
	rootCmd.AddCommand(scenariosCmd)
}

func runScenarios(cmd *cobra.Command, args []string) error {
	for _, name := range script.ListEmbeddedScenarios() {
		sc, err := script.Load(name)
		if err != nil {
			logger.Warn("embedded scenario failed to parse", "name", name, "error", err)
			continue
		}
		fmt.Printf("%-16s %2d steps over %s\n", sc.Name, len(sc.Steps), sc.Length())
	}
	return nil
}
