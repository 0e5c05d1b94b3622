package analysis

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/threebody/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// perturbed is the state slot nudged at the start: the x coordinate of the
// free body.
const perturbed = 4

// LyapunovExponent estimates the largest Lyapunov exponent by running x0
// next to a copy nudged by perturbation. After every step the separation is
// measured and the copy pulled back to the initial distance, so
//
//	lambda = sum(ln(d_i / d0)) / (steps * dt)
//
// Both runs share integ; a failure of either one is returned.
func LyapunovExponent(
	ctx context.Context,
	sys dynamo.System,
	integ dynamo.Integrator,
	x0 dynamo.State,
	cfg dynamo.Config,
	perturbation float64,
) (float64, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	if cfg.Steps == 0 {
		return 0, errors.New("need at least one step")
	}
	if !(perturbation > 0) {
		return 0, fmt.Errorf("perturbation must be positive, got %g", perturbation)
	}
	if len(x0) <= perturbed {
		return 0, dynamo.DimensionError("state", sys.StateDim(), len(x0))
	}

	x := x0.Clone()
	xp := x0.Clone()
	xp[perturbed] += perturbation
	d0 := floats.Distance(x, xp, 2)

	sumLog := 0.0
	for i := 0; i < cfg.Steps; i++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		var err error
		if x, err = integ.Step(sys, x, cfg.Dt); err != nil {
			return 0, fmt.Errorf("reference run, step %d: %w", i+1, err)
		}
		if xp, err = integ.Step(sys, xp, cfg.Dt); err != nil {
			return 0, fmt.Errorf("perturbed run, step %d: %w", i+1, err)
		}

		sep := floats.Distance(x, xp, 2)
		if sep == 0 || math.IsNaN(sep) || math.IsInf(sep, 0) {
			return 0, fmt.Errorf("%w: separation %g at step %d", dynamo.ErrInvalidState, sep, i+1)
		}
		sumLog += math.Log(sep / d0)

		scale := d0 / sep
		for j := range xp {
			xp[j] = x[j] + (xp[j]-x[j])*scale
		}
	}

	return sumLog / cfg.Duration(), nil
}
