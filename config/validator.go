package config

import (
	"fmt"
	"strings"

	"github.com/VladislavFirsov/staffplan/contracts"
	"github.com/VladislavFirsov/staffplan/internal/orchestration"
)

// Validator validates scenario configurations.
type Validator struct {
	resolver contracts.DependencyResolver
}

// NewValidator creates a new scenario validator.
func NewValidator() *Validator {
	return &Validator{resolver: orchestration.NewDependencyResolver()}
}

// Validate performs comprehensive validation of a ScenarioConfig.
// Returns nil if valid, or an error describing the first validation failure.
// Range errors are *contracts.ValidationError; cycles are *contracts.CycleError.
func (v *Validator) Validate(cfg *ScenarioConfig) error {
	if cfg == nil {
		return ErrConfigEmpty
	}

	// 1. Names are present and unique per kind
	workerNames := make(map[string]bool, len(cfg.Workers))
	for i, w := range cfg.Workers {
		name := strings.TrimSpace(w.Name)
		if name == "" {
			return fmt.Errorf("workers[%d]: %w", i, ErrWorkerNameEmpty)
		}
		if workerNames[name] {
			return fmt.Errorf("worker.name=%s: %w", name, ErrDuplicateName)
		}
		workerNames[name] = true
	}

	taskNames := make(map[string]bool, len(cfg.Tasks))
	for i, t := range cfg.Tasks {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			return fmt.Errorf("tasks[%d]: %w", i, ErrTaskNameEmpty)
		}
		if taskNames[name] {
			return fmt.Errorf("task.name=%s: %w", name, ErrDuplicateName)
		}
		taskNames[name] = true
	}

	// 2. Strategy, if given, is known
	if _, err := contracts.ParseStrategy(cfg.Strategy); err != nil {
		return fmt.Errorf("strategy=%s: %w", cfg.Strategy, ErrUnknownStrategy)
	}

	// 3. Ranges, with the same rules the engine applies
	req := cfg.ToRequest()
	if err := contracts.ValidateRequest(req); err != nil {
		return err
	}

	// 4. No dependency cycles
	if _, err := v.resolver.Resolve(req.Tasks); err != nil {
		return fmt.Errorf("scenario dependencies: %w", err)
	}

	return nil
}

// Warnings lists non-fatal findings: dependencies that name no task in the
// scenario. The engine ignores such dependencies.
func (v *Validator) Warnings(cfg *ScenarioConfig) []string {
	if cfg == nil {
		return nil
	}

	names := make(map[string]bool, len(cfg.Tasks))
	for _, t := range cfg.Tasks {
		names[strings.TrimSpace(t.Name)] = true
	}

	var warnings []string
	for _, t := range cfg.Tasks {
		for _, dep := range t.Dependencies {
			dep = strings.TrimSpace(dep)
			if dep == "" || names[dep] {
				continue
			}
			warnings = append(warnings, fmt.Sprintf("task %s depends on unknown task %s (ignored)", strings.TrimSpace(t.Name), dep))
		}
	}
	return warnings
}
