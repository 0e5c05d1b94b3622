package dynamo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Trajectory records the position coordinates of every completed step.
// Coords[k] is the sequence of state slot k for k < number of position slots,
// so for three bodies Coords holds x1, y1, x2, y2, x3, y3 in that order.
type Trajectory struct {
	Coords [][]float64
}

// NewTrajectory allocates a trajectory for the given number of position
// slots, reserving room for capacity steps.
func NewTrajectory(positionDim, capacity int) *Trajectory {
	t := &Trajectory{Coords: make([][]float64, positionDim)}
	for i := range t.Coords {
		t.Coords[i] = make([]float64, 0, capacity)
	}
	return t
}

// Append records the position slots of x.
func (t *Trajectory) Append(x State) error {
	if len(x) < len(t.Coords) {
		return DimensionError("state", len(t.Coords), len(x))
	}
	for i := range t.Coords {
		t.Coords[i] = append(t.Coords[i], x[i])
	}
	return nil
}

// Len is the number of recorded steps.
func (t *Trajectory) Len() int {
	if t == nil || len(t.Coords) == 0 {
		return 0
	}
	return len(t.Coords[0])
}

// Bodies is the number of bodies recorded.
func (t *Trajectory) Bodies() int {
	return len(t.Coords) / 2
}

// Point returns body's position at step.
func (t *Trajectory) Point(step, body int) r2.Vec {
	return r2.Vec{X: t.Coords[2*body][step], Y: t.Coords[2*body+1][step]}
}

// Body returns the x and y sequences of one body.
func (t *Trajectory) Body(body int) (xs, ys []float64) {
	return t.Coords[2*body], t.Coords[2*body+1]
}

// Window returns the sub-trajectory [from, to).
func (t *Trajectory) Window(from, to int) (*Trajectory, error) {
	if from < 0 || to > t.Len() || from > to {
		return nil, fmt.Errorf("window [%d, %d) out of range for %d steps", from, to, t.Len())
	}
	w := &Trajectory{Coords: make([][]float64, len(t.Coords))}
	for i := range t.Coords {
		w.Coords[i] = t.Coords[i][from:to]
	}
	return w, nil
}

// Bounds is an axis-aligned box around every recorded position.
type Bounds struct {
	Min, Max r2.Vec
}

func (b Bounds) Width() float64  { return b.Max.X - b.Min.X }
func (b Bounds) Height() float64 { return b.Max.Y - b.Min.Y }

// Bounds returns the extent of all bodies over all steps. An empty trajectory
// yields the zero box.
func (t *Trajectory) Bounds() Bounds {
	if t.Len() == 0 {
		return Bounds{}
	}
	b := Bounds{
		Min: r2.Vec{X: math.Inf(1), Y: math.Inf(1)},
		Max: r2.Vec{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	for body := 0; body < t.Bodies(); body++ {
		xs, ys := t.Body(body)
		for i := range xs {
			b.Min.X = math.Min(b.Min.X, xs[i])
			b.Max.X = math.Max(b.Max.X, xs[i])
			b.Min.Y = math.Min(b.Min.Y, ys[i])
			b.Max.Y = math.Max(b.Max.Y, ys[i])
		}
	}
	return b
}

// Separations returns the distance between bodies i and j at every step.
func (t *Trajectory) Separations(i, j int) []float64 {
	out := make([]float64, t.Len())
	for k := range out {
		out[k] = r2.Norm(r2.Sub(t.Point(k, j), t.Point(k, i)))
	}
	return out
}
