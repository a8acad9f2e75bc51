// Package script loads demo scenarios: timed sequences of toast
// operations described in YAML, played back against the registry.
package script

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wispkit/wisp/internal/config"
	"github.com/wispkit/wisp/internal/toast"
)

// Scenario is an ordered list of timed steps. Steps are sorted by their
// offset from playback start; ties keep file order.
type Scenario struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Step performs exactly one action at a given offset from playback start.
type Step struct {
	At config.Duration `yaml:"at"`

	Publish  *ToastSpec `yaml:"publish,omitempty"`
	Dismiss  string     `yaml:"dismiss,omitempty"`
	CloseAll bool       `yaml:"close_all,omitempty"`
}

// ToastSpec is the YAML shape of a toast to publish. Reusing an id across
// steps updates the earlier toast in place, which is how scenarios resolve
// a loading toast into a result.
type ToastSpec struct {
	ID          string          `yaml:"id,omitempty"`
	Kind        string          `yaml:"kind,omitempty"`
	Title       string          `yaml:"title,omitempty"`
	Body        string          `yaml:"body,omitempty"`
	Duration    config.Duration `yaml:"duration,omitempty"`
	Position    string          `yaml:"position,omitempty"`
	Dismissible *bool           `yaml:"dismissible,omitempty"`
	Button      *ButtonSpec     `yaml:"button,omitempty"`
}

// ButtonSpec is an action button on a published toast.
type ButtonSpec struct {
	Key   string `yaml:"key"`
	Label string `yaml:"label"`
}

// Toast converts the spec into a publishable record.
func (s *ToastSpec) Toast() (toast.Toast, error) {
	t := toast.Toast{
		ID:          s.ID,
		Title:       s.Title,
		Body:        s.Body,
		Duration:    s.Duration.Duration(),
		Dismissible: s.Dismissible,
	}

	if s.Kind != "" {
		kind, err := toast.ParseKind(s.Kind)
		if err != nil {
			return toast.Toast{}, err
		}
		t.Kind = kind
	}
	if s.Position != "" {
		pos, err := toast.ParsePosition(s.Position)
		if err != nil {
			return toast.Toast{}, err
		}
		t.Position = pos
	}
	if s.Button != nil {
		t.Button = &toast.Action{Key: s.Button.Key, Label: s.Button.Label}
	}
	return t, nil
}

// Parse decodes and validates a scenario. name is used when the file sets
// no name of its own.
func Parse(name string, data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if sc.Name == "" {
		sc.Name = name
	}

	if err := sc.Validate(); err != nil {
		return nil, err
	}

	sort.SliceStable(sc.Steps, func(i, j int) bool {
		return sc.Steps[i].At < sc.Steps[j].At
	})
	return &sc, nil
}

// Load resolves a scenario by embedded name first, then as a file path.
func Load(nameOrPath string) (*Scenario, error) {
	if data, ok := GetEmbeddedScenario(nameOrPath); ok {
		return Parse(nameOrPath, data)
	}

	data, err := os.ReadFile(nameOrPath)
	if err != nil {
		return nil, fmt.Errorf("unknown scenario %q: not embedded and %w", nameOrPath, err)
	}

	name := strings.TrimSuffix(strings.TrimSuffix(nameOrPath, ".yaml"), ".yml")
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	return Parse(name, data)
}

// Validate checks that every step performs exactly one action and that
// every publish converts cleanly.
func (s *Scenario) Validate() error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("scenario %q has no steps", s.Name)
	}

	for i, step := range s.Steps {
		actions := 0
		if step.Publish != nil {
			actions++
		}
		if step.Dismiss != "" {
			actions++
		}
		if step.CloseAll {
			actions++
		}
		if actions != 1 {
			return fmt.Errorf("scenario %q step %d: need exactly one of publish, dismiss, close_all", s.Name, i+1)
		}
		if step.At.Duration() < 0 {
			return fmt.Errorf("scenario %q step %d: negative offset", s.Name, i+1)
		}
		if step.Publish != nil {
			if _, err := step.Publish.Toast(); err != nil {
				return fmt.Errorf("scenario %q step %d: %w", s.Name, i+1, err)
			}
		}
	}
	return nil
}

// Length returns the offset of the final step.
func (s *Scenario) Length() time.Duration {
	if len(s.Steps) == 0 {
		return 0
	}
	return s.Steps[len(s.Steps)-1].At.Duration()
}
