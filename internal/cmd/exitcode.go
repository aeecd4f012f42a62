package cmd

import (
	"context"
	"errors"
	"strings"

	"github.com/VladislavFirsov/staffplan/config"
	"github.com/VladislavFirsov/staffplan/contracts"
)

// Exit codes returned by the staffplan binary.
const (
	ExitSuccess = 0
	ExitGeneral = 1
	// ExitUsage covers bad flags, unreadable or invalid scenario and config files.
	ExitUsage = 2
	// ExitUnschedulable means the input is well formed but cannot be planned:
	// a dependency cycle or a task no worker can take.
	ExitUnschedulable = 3
	ExitInterrupted   = 130
)

var usageErrors = []error{
	contracts.ErrInvalidInput,
	contracts.ErrValidation,
	config.ErrConfigEmpty,
	config.ErrWorkerNameEmpty,
	config.ErrTaskNameEmpty,
	config.ErrDuplicateName,
	config.ErrUnknownStrategy,
	config.ErrUnknownBackend,
	config.ErrInvalidWeights,
	config.ErrInvalidConfidence,
	config.ErrNegativeValue,
	config.ErrInvalidThreshold,
	config.ErrInvalidLogLevel,
	config.ErrInvalidLogFormat,
	config.ErrInvalidTrace,
}

// ExitCode maps an error returned by ExecuteContext to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, context.Canceled) {
		return ExitInterrupted
	}
	if errors.Is(err, contracts.ErrCycle) || errors.Is(err, contracts.ErrInfeasible) {
		return ExitUnschedulable
	}
	for _, target := range usageErrors {
		if errors.Is(err, target) {
			return ExitUsage
		}
	}

	// cobra reports flag problems as plain errors.
	msg := err.Error()
	if strings.Contains(msg, "unknown flag") || strings.Contains(msg, "unknown command") ||
		strings.Contains(msg, "required flag") || strings.Contains(msg, "is required") ||
		strings.Contains(msg, "unknown format") {
		return ExitUsage
	}
	return ExitGeneral
}
