package orbit

import (
	"fmt"
	"math"

	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

// Binary describes the initially bound pair. Separation is the distance
// between the bodies for a circular orbit and the semi-major axis otherwise.
type Binary struct {
	M1, M2       float64
	Eccentricity float64
	Separation   float64
}

// Body is the free body's initial position and velocity.
type Body struct {
	Position r2.Vec
	Velocity r2.Vec
}

func (b Binary) Validate() error {
	if !(b.M1 > 0) || !(b.M2 > 0) || math.IsInf(b.M1, 0) || math.IsInf(b.M2, 0) {
		return fmt.Errorf("%w: binary masses %g and %g", dynamo.ErrInvalidMass, b.M1, b.M2)
	}
	if b.Eccentricity < 0 || b.Eccentricity >= 1 || math.IsNaN(b.Eccentricity) {
		return fmt.Errorf("eccentricity must be in [0, 1), got %g", b.Eccentricity)
	}
	if !(b.Separation > 0) || math.IsInf(b.Separation, 0) {
		return fmt.Errorf("separation must be positive and finite, got %g", b.Separation)
	}
	return nil
}

// Periapsis is the closest approach, where body 2 starts.
func (b Binary) Periapsis() float64 {
	return b.Separation * (1 - b.Eccentricity)
}

// Positions returns where bodies 1 and 2 start.
func (b Binary) Positions() (r2.Vec, r2.Vec) {
	return r2.Vec{}, r2.Vec{X: b.Periapsis()}
}

// Velocities returns the initial velocities of bodies 1 and 2 at periapsis,
// perpendicular to the line joining them, with zero total momentum.
func (b Binary) Velocities() (r2.Vec, r2.Vec) {
	e, r := b.Eccentricity, b.Separation
	total := b.M1 + b.M2
	v1 := math.Sqrt((1 + e) * physics.G * (b.M2 * b.M2 / total) / (r * (1 - e)))
	v2 := -math.Sqrt((1 + e) * physics.G * (b.M1 * b.M1 / total) / (r * (1 - e)))
	return r2.Vec{Y: v1}, r2.Vec{Y: v2}
}

// Period is the Keplerian period of the pair.
func (b Binary) Period() float64 {
	return OrbitalPeriod(b.M1, b.M2, b.Separation)
}

// OrbitalPeriod returns 2*pi*sqrt(a^3 / (G*(m1+m2))) in years.
func OrbitalPeriod(m1, m2, a float64) float64 {
	return 2 * math.Pi * math.Sqrt(a*a*a/(physics.G*(m1+m2)))
}

// InitialState builds the 12-slot state for the binary plus the free body.
// The free body may not start on top of either member of the pair.
func InitialState(b Binary, third Body) (dynamo.State, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	p1, p2 := b.Positions()
	if third.Position == p1 {
		return nil, fmt.Errorf("%w: third body placed on body 1", dynamo.ErrSingularity)
	}
	if third.Position == p2 {
		return nil, fmt.Errorf("%w: third body placed on body 2", dynamo.ErrSingularity)
	}
	v1, v2 := b.Velocities()

	state, err := dynamo.NewState(
		[]r2.Vec{p1, p2, third.Position},
		[]r2.Vec{v1, v2, third.Velocity},
	)
	if err != nil {
		return nil, err
	}
	if !state.IsValid() {
		return nil, dynamo.ErrInvalidState
	}
	return state, nil
}
