package cost

import (
	"testing"

	"github.com/VladislavFirsov/staffplan/contracts"
)

func ledgerWorkers() []contracts.Worker {
	return []contracts.Worker{
		{ID: "alice", Rate: 50, HoursPerDay: 8},
		{ID: "bob", Rate: 40, HoursPerDay: 6},
	}
}

func TestNewLedger_InitialCapacity(t *testing.T) {
	l := NewLedger(ledgerWorkers(), 10)

	if got := l.Remaining("alice"); got != 80 {
		t.Fatalf("expected alice=80, got %v", got)
	}
	if got := l.Remaining("bob"); got != 60 {
		t.Fatalf("expected bob=60, got %v", got)
	}
	if got := l.Initial("bob"); got != 60 {
		t.Fatalf("expected initial bob=60, got %v", got)
	}
	if got := l.Remaining("nobody"); got != 0 {
		t.Fatalf("expected unknown worker=0, got %v", got)
	}
}

func TestLedger_TryConsume(t *testing.T) {
	tests := []struct {
		name      string
		worker    contracts.WorkerID
		hours     contracts.Hours
		wantOK    bool
		wantAfter contracts.Hours
	}{
		{name: "within capacity", worker: "alice", hours: 40, wantOK: true, wantAfter: 40},
		{name: "exactly at capacity", worker: "alice", hours: 80, wantOK: true, wantAfter: 0},
		{name: "over capacity leaves ledger unchanged", worker: "alice", hours: 80.5, wantOK: false, wantAfter: 80},
		{name: "negative hours rejected", worker: "alice", hours: -1, wantOK: false, wantAfter: 80},
		{name: "zero hours allowed", worker: "alice", hours: 0, wantOK: true, wantAfter: 80},
		{name: "unknown worker rejected", worker: "mallory", hours: 1, wantOK: false, wantAfter: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLedger(ledgerWorkers(), 10)

			ok := l.TryConsume(tt.worker, tt.hours)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if got := l.Remaining(tt.worker); got != tt.wantAfter {
				t.Fatalf("expected remaining=%v, got %v", tt.wantAfter, got)
			}
		})
	}
}

func TestLedger_CoversDoesNotMutate(t *testing.T) {
	l := NewLedger(ledgerWorkers(), 10)

	if !l.Covers("alice", 80) {
		t.Fatal("expected alice to cover 80 hours")
	}
	if l.Covers("alice", 81) {
		t.Fatal("expected alice not to cover 81 hours")
	}
	if got := l.Remaining("alice"); got != 80 {
		t.Fatalf("Covers must not consume, remaining=%v", got)
	}
}

// TestLedger_SequenceInvariant checks remaining = initial - sum(successful consumes)
// and that remaining never goes negative across an arbitrary call sequence.
func TestLedger_SequenceInvariant(t *testing.T) {
	l := NewLedger(ledgerWorkers(), 2) // alice=16, bob=12

	calls := []struct {
		worker contracts.WorkerID
		hours  contracts.Hours
	}{
		{"alice", 5}, {"bob", 13}, {"alice", 10}, {"alice", 2}, {"bob", 12},
		{"bob", 0.5}, {"alice", 1}, {"alice", 0.5}, {"bob", 3},
	}

	consumed := map[contracts.WorkerID]contracts.Hours{}
	for i, c := range calls {
		if l.TryConsume(c.worker, c.hours) {
			consumed[c.worker] += c.hours
		}
		for _, w := range ledgerWorkers() {
			if l.Remaining(w.ID) < 0 {
				t.Fatalf("call %d: remaining for %s went negative: %v", i, w.ID, l.Remaining(w.ID))
			}
		}
	}

	for _, w := range ledgerWorkers() {
		want := l.Initial(w.ID) - consumed[w.ID]
		if got := l.Remaining(w.ID); got != want {
			t.Fatalf("%s: expected remaining=%v, got %v", w.ID, want, got)
		}
	}

	// alice: 5 + 10 + 1 = 16 consumed, 2 and 0.5 rejected at the boundary
	if consumed["alice"] != 16 {
		t.Fatalf("expected alice consumed=16, got %v", consumed["alice"])
	}
}

func TestLedger_IndependentPerRun(t *testing.T) {
	workers := ledgerWorkers()
	a := NewLedger(workers, 10)
	b := NewLedger(workers, 10)

	a.TryConsume("alice", 80)
	if got := b.Remaining("alice"); got != 80 {
		t.Fatalf("ledgers must not share state, got %v", got)
	}
}
