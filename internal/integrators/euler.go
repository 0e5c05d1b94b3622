package integrators

import (
	"github.com/san-kum/threebody/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys dynamo.System, x dynamo.State, dt float64) (dynamo.State, error) {
	if err := checkStep(sys, x, dt); err != nil {
		return nil, err
	}
	dx, err := sys.Derive(x)
	if err != nil {
		return nil, err
	}
	if len(dx) != len(x) {
		return nil, dynamo.DimensionError("derivative", len(x), len(dx))
	}
	result := make(dynamo.State, len(x))
	floats.AddScaledTo(result, x, dt, dx)
	return result, nil
}
