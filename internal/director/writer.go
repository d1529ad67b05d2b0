package director

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// WriteScenario writes a scenario to a YAML file
func WriteScenario(scenario *Scenario, path string) error {
	data, err := yaml.Marshal(scenario)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadScenario reads a scenario from a YAML file and checks its timings.
func ReadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}

	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &scenario, nil
}

// Validate rejects scenes whose timeline cannot be rendered.
func (s *Scenario) Validate() error {
	if len(s.Scenes) == 0 {
		return fmt.Errorf("no scenes")
	}
	for _, sc := range s.Scenes {
		if sc.Duration <= 0 {
			return fmt.Errorf("scene %d: duration must be positive", sc.ID)
		}
		if sc.DialogueStart < 0 || sc.DialogueStart > sc.Duration {
			return fmt.Errorf("scene %d: dialogue start %.2f outside [0, %.2f]", sc.ID, sc.DialogueStart, sc.Duration)
		}
		if sc.Lens != nil && (sc.Lens.Zoom <= 0 || sc.Lens.Travel <= 0) {
			return fmt.Errorf("scene %d: lens zoom and travel must be positive", sc.ID)
		}
	}
	return nil
}

// Durations returns the per-scene segment lengths.
func (s *Scenario) Durations() []float64 {
	out := make([]float64, len(s.Scenes))
	for i, sc := range s.Scenes {
		out[i] = sc.Duration
	}
	return out
}
