package tui

import (
	"time"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/wispkit/wisp/internal/engine"
	"github.com/wispkit/wisp/internal/toast"
)

// Snapshot is a point-in-time dump of every stack, keyed by anchor. It is
// what the copy-as-JSON and copy-as-YAML keys put on the clipboard.
type Snapshot struct {
	TakenAt time.Time                `json:"taken_at" yaml:"taken_at"`
	Count   int                      `json:"count" yaml:"count"`
	Stacks  map[string][]engine.Item `json:"stacks" yaml:"stacks"`
}

// BuildSnapshot captures the current render state of eng.
func BuildSnapshot(eng *engine.Engine) Snapshot {
	stacks := eng.Stacks()
	out := Snapshot{
		TakenAt: time.Now(),
		Count:   eng.Count(),
		Stacks:  make(map[string][]engine.Item, len(stacks)),
	}
	for pos, items := range stacks {
		out.Stacks[pos.String()] = items
	}
	return out
}

// JSON renders the snapshot as indented JSON.
func (s Snapshot) JSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// YAML renders the snapshot as YAML.
func (s Snapshot) YAML() ([]byte, error) {
	return yaml.Marshal(s)
}

// toastJSON renders a single toast as indented JSON.
func toastJSON(t toast.Toast) (string, error) {
	data, err := json.MarshalIndent(t, "", "  ")
	return string(data), err
}

// toastYAML renders a single toast as YAML.
func toastYAML(t toast.Toast) (string, error) {
	data, err := yaml.Marshal(t)
	return string(data), err
}
