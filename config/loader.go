package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader loads and parses scenario files.
type Loader struct {
	validator *Validator
}

// NewLoader creates a new scenario loader.
func NewLoader() *Loader {
	return &Loader{validator: NewValidator()}
}

// LoadFromFile loads and parses a scenario from a YAML or JSON file.
// Returns the validated ScenarioConfig or an error.
// File errors are wrapped with context (use os.IsNotExist to check for missing file).
func (l *Loader) LoadFromFile(path string) (*ScenarioConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}

	cfg, err := l.LoadFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading scenario %s: %w", path, err)
	}

	return cfg, nil
}

// LoadFromBytes parses a scenario from raw YAML bytes. JSON is accepted as YAML.
// Empty data (len==0) returns ErrConfigEmpty. Unknown keys are rejected.
func (l *Loader) LoadFromBytes(data []byte) (*ScenarioConfig, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrConfigEmpty
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg ScenarioConfig
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	if err := l.validator.Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
