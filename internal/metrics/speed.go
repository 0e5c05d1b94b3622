package metrics

import (
	"github.com/san-kum/threebody/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// MaxSpeed is the largest speed reached by any body, in AU/year. Close
// encounters show up here as spikes.
type MaxSpeed struct {
	max  float64
	body int
}

func NewMaxSpeed() *MaxSpeed {
	return &MaxSpeed{body: -1}
}

func (m *MaxSpeed) Name() string { return "max_speed" }

func (m *MaxSpeed) OnStep(step int, t float64, x dynamo.State) {
	for i := 0; i < x.Bodies(); i++ {
		if v := r2.Norm(x.Velocity(i)); v > m.max {
			m.max, m.body = v, i
		}
	}
}

func (m *MaxSpeed) Value() float64 { return m.max }

// Body is the index of the fastest body, -1 before any step.
func (m *MaxSpeed) Body() int { return m.body }

func (m *MaxSpeed) Reset() {
	m.max = 0
	m.body = -1
}

var _ Metric = (*MaxSpeed)(nil)
