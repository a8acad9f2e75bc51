package script

import (
	"embed"
	"sort"
	"strings"
)

//go:embed scenarios/*.yaml
var embeddedScenarios embed.FS

// GetEmbeddedScenario returns a bundled scenario by name.
func GetEmbeddedScenario(name string) ([]byte, bool) {
	data, err := embeddedScenarios.ReadFile("scenarios/" + name + ".yaml")
	if err != nil {
		return nil, false
	}
	return data, true
}

// ListEmbeddedScenarios returns the names of all bundled scenarios.
func ListEmbeddedScenarios() []string {
	entries, err := embeddedScenarios.ReadDir("scenarios")
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".yaml") {
			names = append(names, strings.TrimSuffix(name, ".yaml"))
		}
	}
	sort.Strings(names)
	return names
}
