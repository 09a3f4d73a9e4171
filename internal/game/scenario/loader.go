package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFromBytes parses, validates and builds a scenario from raw YAML.
//
// Postcondition: Returns a ready World, or an error describing every problem
// found in the definition.
func LoadFromBytes(data []byte) (*World, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario YAML: %w", err)
	}
	s.assignIDs()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s.Build()
}

// Load reads the scenario file at path.
//
// Precondition: path must be a readable YAML file.
func Load(path string) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %q: %w", path, err)
	}
	w, err := LoadFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", path, err)
	}
	return w, nil
}
