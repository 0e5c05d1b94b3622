package experiment

import (
	"context"
	"log/slog"
	"time"

	"github.com/san-kum/threebody/internal/config"
	"github.com/san-kum/threebody/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// Outcome is the result of one run in a batch. Err holds a failed run's
// error; a failed run does not stop the rest of the batch.
type Outcome struct {
	Scenario *config.Scenario
	Result   *dynamo.Result
	Elapsed  time.Duration
	Err      error
}

// RunBatch runs every scenario concurrently, at most limit at a time. Each
// run gets its own system, integrator and state. Outcomes keep input order.
func RunBatch(ctx context.Context, scenarios []*config.Scenario, limit int, logger *slog.Logger) ([]Outcome, error) {
	if logger == nil {
		logger = slog.Default()
	}
	out := make([]Outcome, len(scenarios))

	err := dynamo.ParallelFor(ctx, len(scenarios), limit, func(ctx context.Context, i int) error {
		out[i].Scenario = scenarios[i]
		exp, err := New(scenarios[i])
		if err != nil {
			out[i].Err = err
			return nil
		}
		exp.SetLogger(logger)

		start := time.Now()
		out[i].Result, out[i].Err = exp.Run(ctx)
		out[i].Elapsed = time.Since(start)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return nil
	})

	return out, err
}

// CompareIntegrators runs one scenario once per integrator name.
func CompareIntegrators(ctx context.Context, s *config.Scenario, names []string, logger *slog.Logger) ([]Outcome, error) {
	scenarios := make([]*config.Scenario, len(names))
	for i, name := range names {
		c := s.Clone()
		c.Integrator = name
		scenarios[i] = c
	}
	return RunBatch(ctx, scenarios, 0, logger)
}

// FinalDeviation is the Euclidean distance between the final positions of
// two runs.
func FinalDeviation(a, b *dynamo.Result) float64 {
	n := len(a.Final) / 2
	return floats.Distance(a.Final[:n], b.Final[:n], 2)
}
