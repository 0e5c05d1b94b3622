package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/threebody/internal/config"
	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/integrators"
	"github.com/san-kum/threebody/internal/physics"
)

func betelgeuse(t *testing.T) (*physics.ThreeBody, dynamo.State, dynamo.Config) {
	t.Helper()
	s, err := config.Resolve(config.BetelgeuseVisit, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	sys, err := physics.NewThreeBody(s.Masses)
	if err != nil {
		t.Fatalf("NewThreeBody: %v", err)
	}
	x0, err := s.InitialState()
	if err != nil {
		t.Fatalf("InitialState: %v", err)
	}
	cfg, err := s.Plan()
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	return sys, x0, cfg
}

func TestSimulatorRun_Betelgeuse(t *testing.T) {
	sys, x0, cfg := betelgeuse(t)

	want := int(math.Floor(80 / (0.005 * math.Cbrt(5.202))))
	if cfg.Steps != want {
		t.Fatalf("planned %d steps, want %d", cfg.Steps, want)
	}

	result, err := New(sys, integrators.NewRK4()).Run(context.Background(), x0, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.StepsTaken != want {
		t.Errorf("expected %d steps, got %d", want, result.StepsTaken)
	}
	if result.Trajectory.Len() != want {
		t.Errorf("expected %d trajectory entries, got %d", want, result.Trajectory.Len())
	}
	if len(result.Trajectory.Coords) != dynamo.PositionDim {
		t.Errorf("expected %d coordinates, got %d", dynamo.PositionDim, len(result.Trajectory.Coords))
	}
	if len(result.Times) != want {
		t.Errorf("expected %d times, got %d", want, len(result.Times))
	}
	if !result.Final.IsValid() {
		t.Error("final state is not finite")
	}
	if math.Abs(result.Times[want-1]-cfg.Duration()) > 1e-9 {
		t.Errorf("last time %v, want %v", result.Times[want-1], cfg.Duration())
	}
	for k := 0; k < dynamo.PositionDim; k++ {
		if result.Trajectory.Coords[k][want-1] != result.Final[k] {
			t.Errorf("trajectory slot %d does not end at the final state", k)
		}
	}
}

func TestSimulatorRun_Deterministic(t *testing.T) {
	sys, x0, cfg := betelgeuse(t)
	cfg.Steps = 2000

	a, err := New(sys, integrators.NewRK4()).Run(context.Background(), x0, cfg)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	b, err := New(sys, integrators.NewRK4()).Run(context.Background(), x0, cfg)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	for i := range a.Final {
		if a.Final[i] != b.Final[i] {
			t.Fatalf("runs differ at slot %d: %v vs %v", i, a.Final[i], b.Final[i])
		}
	}
}

func TestSimulatorRun_DoesNotModifyInitialState(t *testing.T) {
	sys, x0, cfg := betelgeuse(t)
	cfg.Steps = 10
	before := x0.Clone()

	if _, err := New(sys, integrators.NewRK4()).Run(context.Background(), x0, cfg); err != nil {
		t.Fatal(err)
	}
	for i := range x0 {
		if x0[i] != before[i] {
			t.Fatalf("x0 modified at slot %d", i)
		}
	}
}

func TestSimulatorRun_ZeroSteps(t *testing.T) {
	sys, x0, _ := betelgeuse(t)

	result, err := New(sys, integrators.NewRK4()).Run(context.Background(), x0, dynamo.Config{Dt: 0.01})
	if err != nil {
		t.Fatal(err)
	}
	if result.Trajectory.Len() != 0 || result.StepsTaken != 0 {
		t.Errorf("expected empty result, got %d steps", result.StepsTaken)
	}
	if result.Final[4] != x0[4] {
		t.Error("final state should be the initial state")
	}
}

func TestSimulatorRun_Singularity(t *testing.T) {
	// Massless bodies move in straight lines; 1 and 2 meet at the origin at t = 0.5.
	sys, err := physics.NewThreeBody([]float64{0, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	x0 := dynamo.State{
		-1, 0, 1, 0, 0, 50,
		2, 0, -2, 0, 0, 0,
	}

	result, err := New(sys, integrators.NewEuler()).Run(context.Background(), x0, dynamo.Config{Dt: 0.25, Steps: 10})
	if !errors.Is(err, dynamo.ErrSingularity) {
		t.Fatalf("expected ErrSingularity, got %v", err)
	}

	var simErr *dynamo.SimulationError
	if !errors.As(err, &simErr) {
		t.Fatalf("expected *SimulationError, got %T", err)
	}
	if simErr.Step != 3 {
		t.Errorf("failed at step %d, want 3", simErr.Step)
	}
	if result == nil || result.StepsTaken != 2 || result.Trajectory.Len() != 2 {
		t.Errorf("expected a partial result of 2 steps, got %+v", result)
	}
}

func TestSimulatorRun_Cancelled(t *testing.T) {
	sys, x0, cfg := betelgeuse(t)
	ctx, cancel := context.WithCancel(context.Background())

	sim := New(sys, integrators.NewRK4())
	sim.AddObserver(dynamo.ObserverFunc(func(step int, _ float64, _ dynamo.State) {
		if step == 5 {
			cancel()
		}
	}))

	result, err := sim.Run(ctx, x0, cfg)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.StepsTaken != 5 {
		t.Errorf("expected 5 steps before cancellation, got %d", result.StepsTaken)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sys, x0, _ := betelgeuse(t)
	sim := New(sys, integrators.NewRK4())

	tests := []struct {
		name string
		x0   dynamo.State
		cfg  dynamo.Config
	}{
		{"zero dt", x0, dynamo.Config{Dt: 0, Steps: 10}},
		{"negative dt", x0, dynamo.Config{Dt: -0.1, Steps: 10}},
		{"negative steps", x0, dynamo.Config{Dt: 0.1, Steps: -1}},
		{"short state", x0[:8], dynamo.Config{Dt: 0.1, Steps: 10}},
		{"NaN state", dynamo.State{math.NaN(), 0, 1, 0, 2, 0, 0, 0, 0, 0, 0, 0}, dynamo.Config{Dt: 0.1, Steps: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := sim.Run(context.Background(), tt.x0, tt.cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRunWithCallback(t *testing.T) {
	sys, x0, cfg := betelgeuse(t)

	calls := 0
	err := New(sys, integrators.NewRK4()).RunWithCallback(context.Background(), x0, cfg, func(step int, _ float64, _ dynamo.State) bool {
		calls++
		return step < 100
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 100 {
		t.Errorf("expected 100 callbacks, got %d", calls)
	}
}
