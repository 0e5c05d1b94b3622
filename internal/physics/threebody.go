package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/threebody/internal/dynamo"
)

// G is the gravitational constant in AU^3 / (year^2 * Earth mass).
const G = 9.86e-5

// Evaluate returns d(state)/dt for three gravitating point masses.
// State: [x1, y1, x2, y2, x3, y3, vx1, vy1, vx2, vy2, vx3, vy3]
// Masses are in Earth masses, indexed like the bodies.
//
// Two bodies at the same position make the right-hand side singular; that is
// reported as dynamo.ErrSingularity and no derivative is returned.
func Evaluate(q dynamo.State, m []float64) (dynamo.State, error) {
	if len(q) != dynamo.StateDim {
		return nil, dynamo.DimensionError("state", dynamo.StateDim, len(q))
	}
	if err := checkMasses(m, dynamo.NumBodies); err != nil {
		return nil, err
	}
	if !q.IsValid() {
		return nil, dynamo.ErrInvalidState
	}

	x1, y1, x2, y2, x3, y3 := q[0], q[1], q[2], q[3], q[4], q[5]

	d12, err := cubedDistance(x1, y1, x2, y2, 1, 2)
	if err != nil {
		return nil, err
	}
	d13, err := cubedDistance(x1, y1, x3, y3, 1, 3)
	if err != nil {
		return nil, err
	}
	d23, err := cubedDistance(x2, y2, x3, y3, 2, 3)
	if err != nil {
		return nil, err
	}

	dq := dynamo.State{
		q[6], q[7],
		q[8], q[9],
		q[10], q[11],

		G * (m[1]*(x2-x1)/d12 + m[2]*(x3-x1)/d13),
		G * (m[1]*(y2-y1)/d12 + m[2]*(y3-y1)/d13),

		G * (m[0]*(x1-x2)/d12 + m[2]*(x3-x2)/d23),
		G * (m[0]*(y1-y2)/d12 + m[2]*(y3-y2)/d23),

		G * (m[0]*(x1-x3)/d13 + m[1]*(x2-x3)/d23),
		G * (m[0]*(y1-y3)/d13 + m[1]*(y2-y3)/d23),
	}

	if !dq.IsValid() {
		return nil, fmt.Errorf("%w: derivative overflowed", dynamo.ErrInvalidState)
	}
	return dq, nil
}

// cubedDistance returns |p_j - p_i|^3 computed as (d^2)^1.5. A separation
// whose cube underflows to zero is as singular as a zero one.
func cubedDistance(xi, yi, xj, yj float64, i, j int) (float64, error) {
	d2 := (xj-xi)*(xj-xi) + (yj-yi)*(yj-yi)
	if d2 == 0 {
		return 0, fmt.Errorf("%w: bodies %d and %d", dynamo.ErrSingularity, i, j)
	}
	d3 := math.Pow(d2, 1.5)
	if d3 == 0 {
		return 0, fmt.Errorf("%w: bodies %d and %d are %g AU apart", dynamo.ErrSingularity, i, j, math.Sqrt(d2))
	}
	return d3, nil
}

// checkMasses accepts zero (a test particle that feels but exerts no
// gravity); negative, NaN and infinite masses are rejected.
func checkMasses(m []float64, n int) error {
	if len(m) != n {
		return dynamo.DimensionError("mass vector", n, len(m))
	}
	for i, v := range m {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: body %d has mass %g", dynamo.ErrInvalidMass, i+1, v)
		}
	}
	return nil
}

// ThreeBody binds a mass vector to Evaluate so it can be handed to an
// integrator.
type ThreeBody struct {
	masses []float64
}

// NewThreeBody validates and copies the masses.
func NewThreeBody(masses []float64) (*ThreeBody, error) {
	if err := checkMasses(masses, dynamo.NumBodies); err != nil {
		return nil, err
	}
	m := make([]float64, len(masses))
	copy(m, masses)
	return &ThreeBody{masses: m}, nil
}

func (t *ThreeBody) StateDim() int { return dynamo.StateDim }

func (t *ThreeBody) Derive(state dynamo.State) (dynamo.State, error) {
	return Evaluate(state, t.masses)
}

// Masses returns a copy of the bound masses.
func (t *ThreeBody) Masses() []float64 {
	m := make([]float64, len(t.masses))
	copy(m, t.masses)
	return m
}

// GetParams exposes the masses for display.
func (t *ThreeBody) GetParams() map[string]float64 {
	return map[string]float64{
		"m1": t.masses[0],
		"m2": t.masses[1],
		"m3": t.masses[2],
	}
}
