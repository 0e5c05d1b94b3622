package integrators

import (
	"github.com/san-kum/threebody/internal/dynamo"
)

// Verlet is velocity Verlet. It relies on the positions-then-velocities
// layout: the first half of the state are positions, the second half their
// velocities, and the velocity half of the derivative are accelerations that
// depend on positions only.
type Verlet struct {
	scratch dynamo.State
}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Step(sys dynamo.System, x dynamo.State, dt float64) (dynamo.State, error) {
	if err := checkStep(sys, x, dt); err != nil {
		return nil, err
	}
	n := len(x)
	half := n / 2
	if len(v.scratch) != n {
		v.scratch = make(dynamo.State, n)
	}

	result := make(dynamo.State, n)
	dx, err := derive(sys, x)
	if err != nil {
		return nil, err
	}
	dt2 := dt * dt

	for i := 0; i < half; i++ {
		result[i] = x[i] + x[half+i]*dt + 0.5*dx[half+i]*dt2
	}

	for i := 0; i < half; i++ {
		v.scratch[i] = result[i]
		v.scratch[half+i] = x[half+i]
	}

	dxNew, err := derive(sys, v.scratch)
	if err != nil {
		return nil, err
	}

	halfDt := 0.5 * dt
	for i := 0; i < half; i++ {
		result[half+i] = x[half+i] + (dx[half+i]+dxNew[half+i])*halfDt
	}

	return result, nil
}

// Leapfrog is the kick-drift-kick form of the same scheme.
type Leapfrog struct {
	scratch dynamo.State
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Step(sys dynamo.System, x dynamo.State, dt float64) (dynamo.State, error) {
	if err := checkStep(sys, x, dt); err != nil {
		return nil, err
	}
	n := len(x)
	half := n / 2

	if len(l.scratch) != n {
		l.scratch = make(dynamo.State, n)
	}

	result := make(dynamo.State, n)
	dx, err := derive(sys, x)
	if err != nil {
		return nil, err
	}
	halfDt := dt * 0.5

	for i := 0; i < half; i++ {
		l.scratch[half+i] = x[half+i] + dx[half+i]*halfDt
	}

	for i := 0; i < half; i++ {
		result[i] = x[i] + l.scratch[half+i]*dt
		l.scratch[i] = result[i]
	}

	dxNew, err := derive(sys, l.scratch)
	if err != nil {
		return nil, err
	}

	for i := 0; i < half; i++ {
		result[half+i] = l.scratch[half+i] + dxNew[half+i]*halfDt
	}

	return result, nil
}

func derive(sys dynamo.System, x dynamo.State) (dynamo.State, error) {
	dx, err := sys.Derive(x)
	if err != nil {
		return nil, err
	}
	if len(dx) != len(x) {
		return nil, dynamo.DimensionError("derivative", len(x), len(dx))
	}
	return dx, nil
}
