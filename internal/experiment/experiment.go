package experiment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/threebody/internal/config"
	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/integrators"
	"github.com/san-kum/threebody/internal/physics"
	"github.com/san-kum/threebody/internal/sim"
)

// Experiment is a scenario wired to its system, integrator and run plan.
type Experiment struct {
	scenario  *config.Scenario
	system    *physics.ThreeBody
	x0        dynamo.State
	plan      dynamo.Config
	simulator *sim.Simulator
}

// New validates the scenario and derives everything a run needs.
func New(s *config.Scenario) (*Experiment, error) {
	if s == nil {
		return nil, fmt.Errorf("experiment: nil scenario")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	sys, err := physics.NewThreeBody(s.Masses)
	if err != nil {
		return nil, err
	}
	integ, err := integrators.New(s.Integrator)
	if err != nil {
		return nil, err
	}
	x0, err := s.InitialState()
	if err != nil {
		return nil, err
	}
	plan, err := s.Plan()
	if err != nil {
		return nil, err
	}

	return &Experiment{
		scenario:  s.Clone(),
		system:    sys,
		x0:        x0,
		plan:      plan,
		simulator: sim.New(sys, integ),
	}, nil
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	return e.simulator.Run(ctx, e.x0, e.plan)
}

// RunWithCallback streams states instead of recording a trajectory.
func (e *Experiment) RunWithCallback(ctx context.Context, fn func(step int, t float64, x dynamo.State) bool) error {
	return e.simulator.RunWithCallback(ctx, e.x0, e.plan, fn)
}

func (e *Experiment) SetLogger(l *slog.Logger) {
	if l == nil {
		return
	}
	e.simulator.SetLogger(l.With("scenario", e.scenario.Title(), "integrator", e.scenario.Integrator))
}

func (e *Experiment) AddObserver(o dynamo.Observer) { e.simulator.AddObserver(o) }

func (e *Experiment) Scenario() *config.Scenario   { return e.scenario.Clone() }
func (e *Experiment) Plan() dynamo.Config          { return e.plan }
func (e *Experiment) InitialState() dynamo.State   { return e.x0.Clone() }
func (e *Experiment) System() *physics.ThreeBody   { return e.system }
func (e *Experiment) GetSimulator() *sim.Simulator { return e.simulator }
