package cost

import (
	"github.com/VladislavFirsov/staffplan/contracts"
)

// Ledger implements contracts.CapacityLedger.
// CRITICAL: this is the only mutable state of a run. Remaining hours never go
// negative and change only through TryConsume.
//
// Thread-safety: none. A ledger belongs to exactly one run; runs never share one.
type Ledger struct {
	remaining map[contracts.WorkerID]contracts.Hours
	initial   map[contracts.WorkerID]contracts.Hours
}

// NewLedger creates a ledger with hoursPerDay * deadline hours per worker.
func NewLedger(workers []contracts.Worker, deadline contracts.Days) *Ledger {
	l := &Ledger{
		remaining: make(map[contracts.WorkerID]contracts.Hours, len(workers)),
		initial:   make(map[contracts.WorkerID]contracts.Hours, len(workers)),
	}
	for _, w := range workers {
		capacity := contracts.Hours(float64(w.HoursPerDay) * float64(deadline))
		if capacity < 0 {
			capacity = 0
		}
		l.remaining[w.ID] = capacity
		l.initial[w.ID] = capacity
	}
	return l
}

// Remaining returns the remaining hours for a worker. Unknown workers have none.
func (l *Ledger) Remaining(id contracts.WorkerID) contracts.Hours {
	return l.remaining[id]
}

// Initial returns the capacity the worker started the run with.
func (l *Ledger) Initial(id contracts.WorkerID) contracts.Hours {
	return l.initial[id]
}

// Covers reports whether TryConsume(id, hours) would succeed.
func (l *Ledger) Covers(id contracts.WorkerID, hours contracts.Hours) bool {
	if hours < 0 {
		return false
	}
	remaining, ok := l.remaining[id]
	return ok && hours <= remaining
}

// TryConsume decrements the worker's remaining hours.
// Returns false and leaves the ledger unchanged if hours exceed what remains,
// if hours is negative, or if the worker is unknown.
func (l *Ledger) TryConsume(id contracts.WorkerID, hours contracts.Hours) bool {
	if !l.Covers(id, hours) {
		return false
	}
	l.remaining[id] -= hours
	return true
}
