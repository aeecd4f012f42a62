package config

import "errors"

// Sentinel errors for scenario and engine configuration.
var (
	// ErrConfigEmpty is returned when the scenario data is empty (zero bytes).
	ErrConfigEmpty = errors.New("scenario configuration is empty")

	// ErrWorkerNameEmpty is returned when a worker has an empty name.
	ErrWorkerNameEmpty = errors.New("worker.name is required")

	// ErrTaskNameEmpty is returned when a task has an empty name.
	ErrTaskNameEmpty = errors.New("task.name is required")

	// ErrDuplicateName is returned when two workers or two tasks share a name.
	ErrDuplicateName = errors.New("duplicate name")

	// ErrUnknownStrategy is returned for a strategy other than greedy or combinatorial.
	ErrUnknownStrategy = errors.New("unknown strategy")

	// ErrUnknownBackend is returned for a combinatorial backend other than auto, exhaustive or annealing.
	ErrUnknownBackend = errors.New("unknown combinatorial backend")

	// ErrInvalidWeights is returned when a weight is negative or all weights are zero.
	ErrInvalidWeights = errors.New("combinatorial weights must be non-negative and not all zero")

	// ErrInvalidConfidence is returned when min_confidence lies outside [0, 1].
	ErrInvalidConfidence = errors.New("combinatorial.min_confidence must be within [0, 1]")

	// ErrNegativeValue is returned when a count, duration or limit is negative.
	ErrNegativeValue = errors.New("value must not be negative")

	// ErrInvalidThreshold is returned when risk thresholds are out of range or inverted.
	ErrInvalidThreshold = errors.New("invalid risk threshold")

	// ErrInvalidLogLevel is returned for an unrecognized log level.
	ErrInvalidLogLevel = errors.New("log.level must be debug, info, warn or error")

	// ErrInvalidTrace is returned for an out-of-range sample rate or tracing without an endpoint.
	ErrInvalidTrace = errors.New("invalid trace settings")

	// ErrInvalidLogFormat is returned for an unrecognized log format.
	ErrInvalidLogFormat = errors.New("log.format must be json or text")
)
