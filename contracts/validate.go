package contracts

import (
	"fmt"
	"math"
)

// ValidateRequest re-checks the ranges of an already-normalized request.
// Returns the first violation as a *ValidationError.
func ValidateRequest(req ScheduleRequest) error {
	if !positive(float64(req.Budget)) {
		return &ValidationError{Field: "budget", Reason: "must be a positive number"}
	}
	if !positive(float64(req.DeadlineDays)) {
		return &ValidationError{Field: "deadline", Reason: "must be a positive number"}
	}
	if len(req.Workers) == 0 {
		return &ValidationError{Field: "workers", Reason: "at least one worker is required"}
	}
	if len(req.Tasks) == 0 {
		return &ValidationError{Field: "tasks", Reason: "at least one task is required"}
	}

	workerIDs := make(map[WorkerID]bool, len(req.Workers))
	for i, w := range req.Workers {
		if w.ID == "" {
			return &ValidationError{Field: fmt.Sprintf("workers[%d].name", i), Reason: "is required"}
		}
		if workerIDs[w.ID] {
			return &ValidationError{Field: "worker.name", ID: string(w.ID), Reason: "duplicate identifier"}
		}
		workerIDs[w.ID] = true

		if !positive(float64(w.Rate)) {
			return &ValidationError{Field: "worker.rate", ID: string(w.ID), Reason: "must be a positive number"}
		}
		if !positive(float64(w.HoursPerDay)) {
			return &ValidationError{Field: "worker.hours_per_day", ID: string(w.ID), Reason: "must be a positive number"}
		}
	}

	taskIDs := make(map[TaskID]bool, len(req.Tasks))
	for i, t := range req.Tasks {
		if t.ID == "" {
			return &ValidationError{Field: fmt.Sprintf("tasks[%d].name", i), Reason: "is required"}
		}
		if taskIDs[t.ID] {
			return &ValidationError{Field: "task.name", ID: string(t.ID), Reason: "duplicate identifier"}
		}
		taskIDs[t.ID] = true

		if !positive(float64(t.Hours)) {
			return &ValidationError{Field: "task.hours", ID: string(t.ID), Reason: "must be a positive number"}
		}
		if t.Priority < MinPriority || t.Priority > MaxPriority {
			return &ValidationError{
				Field:  "task.priority",
				ID:     string(t.ID),
				Reason: fmt.Sprintf("must be between %d and %d", MinPriority, MaxPriority),
			}
		}
	}

	return nil
}

// positive rejects zero, negatives, NaN and infinities.
func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
