package metrics

import (
	"fmt"
	"math"

	"github.com/san-kum/threebody/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultEscapeFactor scales the initial extent of the system into the
// radius beyond which a body counts as escaped.
const DefaultEscapeFactor = 10.0

// ClosestApproach is the smallest distance between bodies i and j.
type ClosestApproach struct {
	i, j int
	min  float64
}

func NewClosestApproach(i, j int) *ClosestApproach {
	return &ClosestApproach{i: i, j: j, min: math.Inf(1)}
}

func (c *ClosestApproach) Name() string { return fmt.Sprintf("closest_%d%d", c.i+1, c.j+1) }

func (c *ClosestApproach) OnStep(step int, t float64, x dynamo.State) {
	c.min = math.Min(c.min, x.Separation(c.i, c.j))
}

func (c *ClosestApproach) Value() float64 { return c.min }

func (c *ClosestApproach) Reset() { c.min = math.Inf(1) }

// Stability is the fraction of steps in which every body stays within a
// radius of the initial centroid. The radius is factor times the initial
// distance of the farthest body from that centroid.
type Stability struct {
	centre     r2.Vec
	radius     float64
	violations int
	samples    int
}

func NewStability(x0 dynamo.State, factor float64) *Stability {
	n := x0.Bodies()
	var c r2.Vec
	for i := 0; i < n; i++ {
		c = r2.Add(c, x0.Position(i))
	}
	if n > 0 {
		c = r2.Scale(1/float64(n), c)
	}
	extent := 0.0
	for i := 0; i < n; i++ {
		extent = math.Max(extent, r2.Norm(r2.Sub(x0.Position(i), c)))
	}
	return &Stability{centre: c, radius: factor * extent}
}

func (s *Stability) Name() string { return "stability" }

func (s *Stability) OnStep(step int, t float64, x dynamo.State) {
	s.samples++
	for i := 0; i < x.Bodies(); i++ {
		if r2.Norm(r2.Sub(x.Position(i), s.centre)) > s.radius {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
