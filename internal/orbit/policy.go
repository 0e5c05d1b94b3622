package orbit

import (
	"fmt"
	"math"

	"github.com/san-kum/threebody/internal/dynamo"
)

// Policy selects how the time step is derived for a run.
type Policy string

const (
	Distance Policy = "distance"
	Mass     Policy = "mass"
)

// Mass policy thresholds, in Earth masses.
const (
	SmallBodyMass = 0.001
	PlanetMass    = 100.0
)

// Policies lists the known policies; the first is the default.
func Policies() []Policy {
	return []Policy{Distance, Mass}
}

func ParsePolicy(s string) (Policy, error) {
	if s == "" {
		return Distance, nil
	}
	for _, p := range Policies() {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown step policy: %s (available: %v)", s, Policies())
}

// DistanceStep returns dt = 0.005 * r^(1/3) and floor(duration/dt) steps.
func DistanceStep(r, duration float64) dynamo.Config {
	dt := 0.005 * math.Cbrt(r)
	return dynamo.Config{Dt: dt, Steps: stepCount(duration, dt)}
}

// MassStep picks dt from the lightest body: comets and small bodies
// (< 0.001) get 1/500 year, planets and moons (< 100) 1/100 year, stars and
// giant planets 1/50 year.
func MassStep(masses []float64, duration float64) dynamo.Config {
	lightest := math.Inf(1)
	for _, m := range masses {
		lightest = math.Min(lightest, m)
	}

	var dt float64
	switch {
	case lightest < SmallBodyMass:
		dt = 1.0 / 500
	case lightest < PlanetMass:
		dt = 1.0 / 100
	default:
		dt = 1.0 / 50
	}
	return dynamo.Config{Dt: dt, Steps: stepCount(duration, dt)}
}

// Plan applies the policy.
func (p Policy) Plan(separation float64, masses []float64, duration float64) (dynamo.Config, error) {
	if duration <= 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return dynamo.Config{}, fmt.Errorf("duration must be positive and finite, got %g", duration)
	}
	switch p {
	case Distance, "":
		if separation <= 0 || math.IsNaN(separation) || math.IsInf(separation, 0) {
			return dynamo.Config{}, fmt.Errorf("separation must be positive and finite, got %g", separation)
		}
		return DistanceStep(separation, duration), nil
	case Mass:
		if len(masses) == 0 {
			return dynamo.Config{}, fmt.Errorf("%w: no masses", dynamo.ErrInvalidMass)
		}
		return MassStep(masses, duration), nil
	default:
		return dynamo.Config{}, fmt.Errorf("unknown step policy: %s", p)
	}
}

func stepCount(duration, dt float64) int {
	return int(math.Floor(duration / dt))
}
