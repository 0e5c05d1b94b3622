package automation

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/threebody/internal/config"
	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/experiment"
	"github.com/san-kum/threebody/internal/metrics"
)

// MonteCarloConfig perturbs the third body's start uniformly within
// ±Position and ±Velocity on every axis.
type MonteCarloConfig struct {
	Trials   int
	Position float64
	Velocity float64
	Seed     int64
	Limit    int
}

// Trial is one perturbed run.
type Trial struct {
	ID    int
	Third config.ThirdBody
	// Stability is the fraction of steps with every body near the start.
	Stability float64
	// Closest is the third body's closest approach to either of the pair.
	Closest float64
	Err     error
}

// Bound reports whether the run finished with every body kept close.
func (t Trial) Bound() bool {
	return t.Err == nil && t.Stability == 1
}

// RunMonteCarlo runs cfg.Trials perturbed copies of base concurrently. A
// zero seed draws one from the clock. Trials keep their ID order.
func RunMonteCarlo(ctx context.Context, base *config.Scenario, cfg MonteCarloConfig, logger *slog.Logger) ([]Trial, error) {
	if logger == nil {
		logger = slog.Default()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	trials := make([]Trial, cfg.Trials)
	scenarios := make([]*config.Scenario, cfg.Trials)
	for i := range trials {
		sc := base.Clone()
		sc.Third.X += (rng.Float64()*2 - 1) * cfg.Position
		sc.Third.Y += (rng.Float64()*2 - 1) * cfg.Position
		sc.Third.VX += (rng.Float64()*2 - 1) * cfg.Velocity
		sc.Third.VY += (rng.Float64()*2 - 1) * cfg.Velocity
		scenarios[i] = sc
		trials[i] = Trial{ID: i, Third: sc.Third}
	}

	err := dynamo.ParallelFor(ctx, cfg.Trials, cfg.Limit, func(ctx context.Context, i int) error {
		trials[i].Stability, trials[i].Closest, trials[i].Err = runTrial(ctx, scenarios[i])
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if (i+1)%10 == 0 {
			logger.Debug("monte carlo", "trial", i+1, "of", cfg.Trials)
		}
		return nil
	})
	return trials, err
}

func runTrial(ctx context.Context, sc *config.Scenario) (float64, float64, error) {
	exp, err := experiment.New(sc)
	if err != nil {
		return 0, 0, err
	}
	stability := metrics.NewStability(exp.InitialState(), metrics.DefaultEscapeFactor)
	c13, c23 := metrics.NewClosestApproach(0, 2), metrics.NewClosestApproach(1, 2)
	metrics.Attach(exp.AddObserver, []metrics.Metric{stability, c13, c23})

	if _, err := exp.Run(ctx); err != nil {
		return 0, 0, err
	}
	return stability.Value(), math.Min(c13.Value(), c23.Value()), nil
}

// MonteCarloStats counts bound, escaped and failed trials.
func MonteCarloStats(trials []Trial) (bound, escaped, failed int) {
	for _, t := range trials {
		switch {
		case t.Err != nil:
			failed++
		case t.Bound():
			bound++
		default:
			escaped++
		}
	}
	return
}
