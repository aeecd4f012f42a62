package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/VladislavFirsov/staffplan/contracts"
)

const validScenario = `
name: launch
budget: 3000
deadline: 10
strategy: greedy
workers:
  - name: alice
    rate: 50
    hours_per_day: 8
    skills: [python]
tasks:
  - name: api
    hours: 40
    priority: 3
    required_skills: [python]
  - name: docs
    hours: 4
    priority: 1
    dependencies: [api]
`

func TestLoader_LoadFromBytes_ValidYAML(t *testing.T) {
	l := NewLoader()

	cfg, err := l.LoadFromBytes([]byte(validScenario))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Name != "launch" {
		t.Fatalf("expected name=launch, got %s", cfg.Name)
	}
	if len(cfg.Workers) != 1 || len(cfg.Tasks) != 2 {
		t.Fatalf("expected 1 worker and 2 tasks, got %d and %d", len(cfg.Workers), len(cfg.Tasks))
	}
	if cfg.Workers[0].HoursPerDay != 8 {
		t.Fatalf("expected hours_per_day=8, got %v", cfg.Workers[0].HoursPerDay)
	}
	if got := cfg.Tasks[1].Dependencies; len(got) != 1 || got[0] != "api" {
		t.Fatalf("expected dependencies=[api], got %v", got)
	}
}

func TestLoader_LoadFromBytes_JSON(t *testing.T) {
	l := NewLoader()
	data := []byte(`{"budget": 500, "deadline": 2,
  "workers": [{"name": "bob", "rate": 20, "hours_per_day": 6}],
  "tasks": [{"name": "fix", "hours": 3, "priority": 5}]}`)

	cfg, err := l.LoadFromBytes(data)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Budget != 500 || cfg.DeadlineDays != 2 {
		t.Fatalf("expected budget=500 deadline=2, got %v %v", cfg.Budget, cfg.DeadlineDays)
	}
}

func TestLoader_LoadFromBytes_EmptyData(t *testing.T) {
	l := NewLoader()
	for _, data := range [][]byte{{}, []byte("  \n")} {
		_, err := l.LoadFromBytes(data)
		if !errors.Is(err, ErrConfigEmpty) {
			t.Fatalf("expected ErrConfigEmpty, got %v", err)
		}
	}
}

func TestLoader_LoadFromBytes_InvalidYAML(t *testing.T) {
	l := NewLoader()

	_, err := l.LoadFromBytes([]byte("budget: [unclosed"))
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoader_LoadFromBytes_UnknownField(t *testing.T) {
	l := NewLoader()
	data := []byte(validScenario + "quantum: true\n")

	_, err := l.LoadFromBytes(data)
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestLoader_LoadFromBytes_RangeError(t *testing.T) {
	l := NewLoader()
	data := []byte(`
budget: 0
deadline: 10
workers: [{name: a, rate: 1, hours_per_day: 1}]
tasks: [{name: t, hours: 1, priority: 1}]
`)

	_, err := l.LoadFromBytes(data)
	var verr *contracts.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *contracts.ValidationError, got %T: %v", err, err)
	}
	if verr.Field != "budget" {
		t.Fatalf("expected field=budget, got %s", verr.Field)
	}
}

func TestLoader_LoadFromFile_Valid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")

	if err := os.WriteFile(path, []byte(validScenario), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}

	l := NewLoader()
	cfg, err := l.LoadFromFile(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Strategy != "greedy" {
		t.Fatalf("expected strategy=greedy, got %s", cfg.Strategy)
	}
}

func TestLoader_LoadFromFile_NotFound(t *testing.T) {
	l := NewLoader()
	_, err := l.LoadFromFile("/nonexistent/path/scenario.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !os.IsNotExist(errors.Unwrap(err)) {
		t.Fatalf("expected os.IsNotExist error, got %v", err)
	}
}

func TestLoader_LoadFromFile_Cycle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cycle.yaml")
	data := []byte(`
budget: 100
deadline: 5
workers: [{name: a, rate: 1, hours_per_day: 8}]
tasks:
  - {name: x, hours: 1, priority: 1, dependencies: [y]}
  - {name: y, hours: 1, priority: 1, dependencies: [x]}
`)

	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}

	l := NewLoader()
	_, err := l.LoadFromFile(path)
	if !errors.Is(err, contracts.ErrCycle) {
		t.Fatalf("expected contracts.ErrCycle, got %v", err)
	}
}

func TestScenarioConfig_ToRequest(t *testing.T) {
	cfg := &ScenarioConfig{
		Budget:       100,
		DeadlineDays: 3,
		Strategy:     " Combinatorial ",
		Workers:      []WorkerConfig{{Name: " alice ", Rate: 10, HoursPerDay: 4, Skills: []string{"go"}}},
		Tasks:        []TaskConfig{{Name: "t1", Hours: 2, Priority: 2, Dependencies: []string{" t0 "}}},
	}

	req := cfg.ToRequest()
	if req.Strategy != contracts.StrategyCombinatorial {
		t.Fatalf("expected combinatorial, got %q", req.Strategy)
	}
	if req.Workers[0].ID != "alice" {
		t.Fatalf("expected trimmed worker name, got %q", req.Workers[0].ID)
	}
	if req.Tasks[0].Deps[0] != "t0" {
		t.Fatalf("expected trimmed dependency, got %q", req.Tasks[0].Deps[0])
	}
	if req.Budget != 100 || req.DeadlineDays != 3 {
		t.Fatalf("unexpected limits %v %v", req.Budget, req.DeadlineDays)
	}
}
