package physics

import (
	"github.com/san-kum/threebody/internal/dynamo"
)

// TwoBody is the isolated two-body problem in the same positions-then-velocities
// layout: [x1, y1, x2, y2, vx1, vy1, vx2, vy2].
type TwoBody struct {
	masses []float64
}

func NewTwoBody(m1, m2 float64) (*TwoBody, error) {
	m := []float64{m1, m2}
	if err := checkMasses(m, 2); err != nil {
		return nil, err
	}
	return &TwoBody{masses: m}, nil
}

func (t *TwoBody) StateDim() int { return 8 }

func (t *TwoBody) Derive(q dynamo.State) (dynamo.State, error) {
	if len(q) != 8 {
		return nil, dynamo.DimensionError("state", 8, len(q))
	}
	if !q.IsValid() {
		return nil, dynamo.ErrInvalidState
	}
	m := t.masses
	x1, y1, x2, y2 := q[0], q[1], q[2], q[3]

	d12, err := cubedDistance(x1, y1, x2, y2, 1, 2)
	if err != nil {
		return nil, err
	}

	return dynamo.State{
		q[4], q[5],
		q[6], q[7],
		G * (m[1] * (x2 - x1) / d12),
		G * (m[1] * (y2 - y1) / d12),
		G * (m[0] * (x1 - x2) / d12),
		G * (m[0] * (y1 - y2) / d12),
	}, nil
}
