package integrators

import (
	"fmt"
	"math"

	"github.com/san-kum/threebody/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// RK4 is the classical fourth-order Runge-Kutta method with a fixed step.
// It works for any system whose StateDim matches the state length.
type RK4 struct {
	k1, k2, k3, k4 dynamo.State
	scratch        dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(dynamo.State, n)
		r.k2 = make(dynamo.State, n)
		r.k3 = make(dynamo.State, n)
		r.k4 = make(dynamo.State, n)
		r.scratch = make(dynamo.State, n)
	}
}

// Step returns x advanced by dt. The ki are scaled by dt as they are sampled:
//
//	k1 = f(x)*dt, k2 = f(x+k1/2)*dt, k3 = f(x+k2/2)*dt, k4 = f(x+k3)*dt
//	x' = x + (k1 + 2k2 + 2k3 + k4)/6
//
// x is never written; intermediate points live in a scratch buffer.
func (r *RK4) Step(sys dynamo.System, x dynamo.State, dt float64) (dynamo.State, error) {
	n := len(x)
	if err := checkStep(sys, x, dt); err != nil {
		return nil, err
	}
	r.ensureScratch(n)

	if err := sample(sys, x, dt, r.k1, 1); err != nil {
		return nil, err
	}

	floats.AddScaledTo(r.scratch, x, 0.5, r.k1)
	if err := sample(sys, r.scratch, dt, r.k2, 2); err != nil {
		return nil, err
	}

	floats.AddScaledTo(r.scratch, x, 0.5, r.k2)
	if err := sample(sys, r.scratch, dt, r.k3, 3); err != nil {
		return nil, err
	}

	floats.AddScaledTo(r.scratch, x, 1, r.k3)
	if err := sample(sys, r.scratch, dt, r.k4, 4); err != nil {
		return nil, err
	}

	result := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		result[i] = x[i] + (r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])/6
	}

	return result, nil
}

// sample stores f(x)*dt into dst.
func sample(sys dynamo.System, x dynamo.State, dt float64, dst dynamo.State, stage int) error {
	dx, err := sys.Derive(x)
	if err != nil {
		return fmt.Errorf("stage k%d: %w", stage, err)
	}
	if len(dx) != len(dst) {
		return fmt.Errorf("stage k%d: %w", stage, dynamo.DimensionError("derivative", len(dst), len(dx)))
	}
	floats.ScaleTo(dst, dt, dx)
	return nil
}

func checkStep(sys dynamo.System, x dynamo.State, dt float64) error {
	if len(x) != sys.StateDim() {
		return dynamo.DimensionError("state", sys.StateDim(), len(x))
	}
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: got %g", dynamo.ErrInvalidStep, dt)
	}
	return nil
}
