package contracts

import (
	"errors"
	"fmt"
)

// Sentinel errors for the scheduling engine.
var (
	// Input validation errors
	ErrInvalidInput = errors.New("invalid input: nil or malformed")
	ErrValidation   = errors.New("validation failed")

	// Dependency errors
	ErrCycle = errors.New("cycle detected in task dependencies")

	// Assignment errors
	ErrInfeasible = errors.New("no worker has sufficient capacity")

	// Solver errors. These never reach engine callers; they trigger the greedy fallback.
	ErrSolverUnavailable = errors.New("combinatorial solver unavailable")
	ErrLowConfidence     = errors.New("combinatorial solution below confidence threshold")
	ErrInvalidSolution   = errors.New("combinatorial solution violates constraints")
)

// ValidationError reports a malformed or out-of-range field.
type ValidationError struct {
	Field  string
	ID     string // offending worker or task identifier, if any
	Reason string
}

func (e *ValidationError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("validation failed: %s %q: %s", e.Field, e.ID, e.Reason)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// Is matches ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// CycleError reports the task at which a dependency cycle was detected.
// It is not necessarily the full cycle.
type CycleError struct {
	TaskID TaskID
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("circular dependency detected involving %s", e.TaskID)
}

// Is matches ErrCycle.
func (e *CycleError) Is(target error) bool {
	return target == ErrCycle
}

// InfeasibleError reports a task no worker has capacity for.
type InfeasibleError struct {
	TaskID TaskID
	Hours  Hours
}

func (e *InfeasibleError) Error() string {
	return fmt.Sprintf("no worker has enough availability for task %s (%.1f hours required)", e.TaskID, float64(e.Hours))
}

// Is matches ErrInfeasible.
func (e *InfeasibleError) Is(target error) bool {
	return target == ErrInfeasible
}
