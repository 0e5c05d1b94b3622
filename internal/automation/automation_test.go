package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/threebody/internal/config"
)

const script = `
name: tour
description: every preset, shortened
scenarios:
  - preset: betelgeuse
    duration: 0.5
  - preset: comet
    integrator: verlet
    duration: 0.01
  - names: [A, B, C]
    masses: [1e5, 1e5, 1]
    separation: 2
    third_body: {x: 5, y: 0, vx: 0, vy: 1}
    duration: 0.5
`

func TestParseScript(t *testing.T) {
	s, err := ParseScript([]byte(script))
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != "tour" || len(s.Scenarios) != 3 {
		t.Fatalf("script = %+v", s)
	}

	b := s.Scenarios[0]
	if b.Names[2] != "Betelgeuse" || b.Duration != 0.5 || b.Separation != 5.202 {
		t.Errorf("preset entry = %+v", b)
	}
	if s.Scenarios[1].Integrator != "verlet" {
		t.Errorf("integrator override lost: %s", s.Scenarios[1].Integrator)
	}
	c := s.Scenarios[2]
	if c.Names[0] != "A" || c.Masses[2] != 1 || c.Third.X != 5 || c.Integrator != "rk4" {
		t.Errorf("custom entry = %+v", c)
	}
}

func TestParseScriptErrors(t *testing.T) {
	for name, doc := range map[string]string{
		"empty":       "name: nothing\n",
		"bad preset":  "scenarios:\n  - preset: andromeda\n",
		"invalid":     "scenarios:\n  - eccentricity: 1.5\n",
		"not yaml":    "scenarios: [",
		"wrong shape": "scenarios:\n  - masses: heavy\n",
	} {
		if _, err := ParseScript([]byte(doc)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoadAndRunScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tour.yaml")
	if err := os.WriteFile(path, []byte(script), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := LoadScript(path)
	if err != nil {
		t.Fatal(err)
	}

	outcomes, err := RunScript(context.Background(), s, 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(outcomes) != 3 {
		t.Fatalf("got %d outcomes", len(outcomes))
	}
	for i, o := range outcomes {
		if o.Err != nil {
			t.Errorf("scenario %d failed: %v", i, o.Err)
			continue
		}
		if o.Scenario != s.Scenarios[i] || o.Result.StepsTaken == 0 {
			t.Errorf("outcome %d = %+v", i, o)
		}
	}
}

func TestMonteCarlo(t *testing.T) {
	base := config.DefaultScenario()
	base.Duration = 0.2
	cfg := MonteCarloConfig{Trials: 8, Position: 0.5, Velocity: 0.1, Seed: 42}

	trials, err := RunMonteCarlo(context.Background(), base, cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(trials) != 8 {
		t.Fatalf("got %d trials", len(trials))
	}
	for i, tr := range trials {
		if tr.ID != i {
			t.Errorf("trial %d has id %d", i, tr.ID)
		}
		if tr.Third == base.Third {
			t.Errorf("trial %d was not perturbed", i)
		}
	}

	again, err := RunMonteCarlo(context.Background(), base, cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := range trials {
		if trials[i].Third != again[i].Third || trials[i].Closest != again[i].Closest {
			t.Errorf("trial %d differs between runs with the same seed", i)
		}
	}

	bound, escaped, failed := MonteCarloStats(trials)
	if bound+escaped+failed != len(trials) {
		t.Errorf("stats %d+%d+%d do not add up", bound, escaped, failed)
	}
	// A fifth of a year is too short for anything to leave ten times the
	// starting extent.
	if bound != len(trials) {
		t.Errorf("bound = %d, want %d", bound, len(trials))
	}
}
