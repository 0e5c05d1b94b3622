package sim

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/san-kum/threebody/internal/dynamo"
)

// Simulator drives a System with an Integrator over a fixed-step plan. A
// Simulator is not safe for concurrent use; give every run its own.
type Simulator struct {
	sys        dynamo.System
	integrator dynamo.Integrator
	observers  []dynamo.Observer
	logger     *slog.Logger
}

func New(sys dynamo.System, integrator dynamo.Integrator) *Simulator {
	return &Simulator{
		sys:        sys,
		integrator: integrator,
		observers:  make([]dynamo.Observer, 0),
		logger:     slog.Default(),
	}
}

func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) SetLogger(l *slog.Logger) {
	if l != nil {
		s.logger = l
	}
}

// Run advances x0 cfg.Steps times and records the positions after every
// step. If a step fails, the steps completed so far are returned together
// with a *dynamo.SimulationError wrapping the cause. Cancelling ctx stops the
// run between steps.
func (s *Simulator) Run(ctx context.Context, x0 dynamo.State, cfg dynamo.Config) (*dynamo.Result, error) {
	if err := s.validate(x0, cfg); err != nil {
		return nil, err
	}

	positionDim := len(x0) / 2
	result := &dynamo.Result{
		Trajectory: dynamo.NewTrajectory(positionDim, cfg.Steps),
		Times:      make([]float64, 0, cfg.Steps),
		Final:      x0.Clone(),
	}

	start := time.Now()
	s.logger.Debug("run started", "steps", cfg.Steps, "dt", cfg.Dt, "duration", cfg.Duration())

	err := s.loop(ctx, x0, cfg, func(step int, t float64, x dynamo.State) error {
		if err := result.Trajectory.Append(x); err != nil {
			return err
		}
		result.Times = append(result.Times, t)
		result.Final = x
		result.StepsTaken = step
		return nil
	})
	if err != nil {
		s.logger.Debug("run stopped", "step", result.StepsTaken, "err", err)
		return result, err
	}

	s.logger.Debug("run finished", "steps", result.StepsTaken, "elapsed", time.Since(start))
	return result, nil
}

// RunWithCallback streams every post-step state to callback without keeping
// a trajectory. Returning false from callback ends the run early.
func (s *Simulator) RunWithCallback(ctx context.Context, x0 dynamo.State, cfg dynamo.Config, callback func(step int, t float64, x dynamo.State) bool) error {
	if err := s.validate(x0, cfg); err != nil {
		return err
	}
	err := s.loop(ctx, x0, cfg, func(step int, t float64, x dynamo.State) error {
		if !callback(step, t, x) {
			return errStop
		}
		return nil
	})
	if errors.Is(err, errStop) {
		return nil
	}
	return err
}

var errStop = errors.New("stop")

func (s *Simulator) loop(ctx context.Context, x0 dynamo.State, cfg dynamo.Config, record func(step int, t float64, x dynamo.State) error) error {
	x := x0.Clone()
	progress := cfg.Steps / 10

	for i := 1; i <= cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return &dynamo.SimulationError{Step: i - 1, Time: float64(i-1) * cfg.Dt, State: x, Wrapped: ctx.Err()}
		default:
		}

		next, err := s.integrator.Step(s.sys, x, cfg.Dt)
		if err != nil {
			return &dynamo.SimulationError{Step: i, Time: float64(i-1) * cfg.Dt, State: x, Wrapped: err}
		}
		x = next
		t := float64(i) * cfg.Dt

		if err := record(i, t, x); err != nil {
			return err
		}
		for _, obs := range s.observers {
			obs.OnStep(i, t, x)
		}

		if progress > 0 && i%progress == 0 {
			s.logger.Debug("progress", "percent", 100*i/cfg.Steps, "t", t)
		}
	}

	return nil
}

func (s *Simulator) validate(x0 dynamo.State, cfg dynamo.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if len(x0) != s.sys.StateDim() {
		return dynamo.DimensionError("initial state", s.sys.StateDim(), len(x0))
	}
	if !x0.IsValid() {
		return dynamo.ErrInvalidState
	}
	return nil
}
