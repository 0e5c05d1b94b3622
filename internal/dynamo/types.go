package dynamo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
)

// Layout of the three-body state vector.
const (
	NumBodies   = 3
	PositionDim = 2 * NumBodies
	StateDim    = 2 * PositionDim
)

// State is a positions-then-velocities vector. For three bodies:
// [x1, y1, x2, y2, x3, y3, vx1, vy1, vx2, vy2, vx3, vy3].
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	return floats.Norm(s, 2)
}

// Bodies returns the number of bodies encoded in the state.
func (s State) Bodies() int {
	return len(s) / 4
}

// Position returns the position of body i.
func (s State) Position(i int) r2.Vec {
	return r2.Vec{X: s[2*i], Y: s[2*i+1]}
}

// Velocity returns the velocity of body i.
func (s State) Velocity(i int) r2.Vec {
	half := len(s) / 2
	return r2.Vec{X: s[half+2*i], Y: s[half+2*i+1]}
}

// Separation returns the distance between bodies i and j.
func (s State) Separation(i, j int) float64 {
	return r2.Norm(r2.Sub(s.Position(j), s.Position(i)))
}

// NewState packs per-body positions and velocities into a State.
func NewState(pos, vel []r2.Vec) (State, error) {
	if len(pos) != len(vel) {
		return nil, fmt.Errorf("%w: %d positions, %d velocities", ErrDimensionMismatch, len(pos), len(vel))
	}
	n := len(pos)
	s := make(State, 4*n)
	for i := 0; i < n; i++ {
		s[2*i], s[2*i+1] = pos[i].X, pos[i].Y
		s[2*n+2*i], s[2*n+2*i+1] = vel[i].X, vel[i].Y
	}
	return s, nil
}

// System is an autonomous ODE system dX/dt = f(X).
type System interface {
	Derive(x State) (State, error)
	StateDim() int
}

// Integrator advances a System by one fixed step. Implementations must not
// modify x.
type Integrator interface {
	Step(sys System, x State, dt float64) (State, error)
}

// Observer is notified after every completed step.
type Observer interface {
	OnStep(step int, t float64, x State)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(step int, t float64, x State)

func (f ObserverFunc) OnStep(step int, t float64, x State) { f(step, t, x) }

// Config is a fixed-step run plan.
type Config struct {
	Dt    float64
	Steps int
}

func (c Config) Validate() error {
	if c.Dt <= 0 || math.IsNaN(c.Dt) || math.IsInf(c.Dt, 0) {
		return fmt.Errorf("%w: got %g", ErrInvalidStep, c.Dt)
	}
	if c.Steps < 0 {
		return fmt.Errorf("steps must be non-negative, got %d", c.Steps)
	}
	return nil
}

// Duration is the simulated time covered by the plan.
func (c Config) Duration() float64 {
	return c.Dt * float64(c.Steps)
}

type Result struct {
	Trajectory *Trajectory
	Final      State
	Times      []float64
	StepsTaken int
}
