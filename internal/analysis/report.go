package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/threebody/internal/dynamo"
)

// Encounter is the closest approach of a pair over a run.
type Encounter struct {
	Pair     [2]int
	Distance float64
	Step     int
	Time     float64
}

// ClosestApproaches returns one encounter per pair, in the order 1-2, 1-3,
// 2-3. Step is an index into the trajectory.
func ClosestApproaches(traj *dynamo.Trajectory, times []float64) []Encounter {
	var out []Encounter
	for i := 0; i < traj.Bodies(); i++ {
		for j := i + 1; j < traj.Bodies(); j++ {
			e := Encounter{Pair: [2]int{i, j}, Distance: math.Inf(1), Step: -1}
			for step, d := range traj.Separations(i, j) {
				if d < e.Distance {
					e.Distance, e.Step = d, step
				}
			}
			if e.Step >= 0 && e.Step < len(times) {
				e.Time = times[e.Step]
			}
			out = append(out, e)
		}
	}
	return out
}

// Report summarises one run.
type Report struct {
	Steps      int
	Encounters []Encounter

	// Period is the dominant period of the separation of bodies 1 and 2,
	// zero when it does not oscillate.
	Period float64
}

// Analyze builds a Report for a run integrated with plan cfg.
func Analyze(cfg dynamo.Config, res *dynamo.Result) (*Report, error) {
	if res == nil || res.Trajectory == nil || res.Trajectory.Len() == 0 {
		return nil, errors.New("nothing to analyze: empty run")
	}

	r := &Report{
		Steps:      res.StepsTaken,
		Encounters: ClosestApproaches(res.Trajectory, res.Times),
	}

	period, err := DominantPeriod(res.Trajectory.Separations(0, 1), cfg.Dt)
	switch {
	case errors.Is(err, ErrNoPeriod):
	case err != nil:
		return nil, fmt.Errorf("period: %w", err)
	default:
		r.Period = period
	}
	return r, nil
}
