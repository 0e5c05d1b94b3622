package optim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/threebody/internal/config"
	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/experiment"
	"github.com/san-kum/threebody/internal/metrics"
)

// Params are the scenario parameters that can be swept.
var Params = []string{"m1", "m2", "m3", "eccentricity", "separation", "x", "y", "vx", "vy", "duration"}

// Axis is one swept parameter and the values it takes.
type Axis struct {
	Param  string
	Values []float64
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

// ParseAxis reads "param=lo:hi:n" or "param=v1,v2,...".
func ParseAxis(s string) (Axis, error) {
	param, rest, ok := strings.Cut(s, "=")
	if !ok {
		return Axis{}, fmt.Errorf("axis %q: want param=lo:hi:n or param=v1,v2", s)
	}
	param = strings.TrimSpace(param)
	if !knownParam(param) {
		return Axis{}, fmt.Errorf("unknown parameter %q (available: %v)", param, Params)
	}

	if parts := strings.Split(rest, ":"); len(parts) == 3 {
		lo, err1 := strconv.ParseFloat(parts[0], 64)
		hi, err2 := strconv.ParseFloat(parts[1], 64)
		n, err3 := strconv.Atoi(parts[2])
		if err := errors.Join(err1, err2, err3); err != nil {
			return Axis{}, fmt.Errorf("axis %q: %w", s, err)
		}
		if n < 1 {
			return Axis{}, fmt.Errorf("axis %q: need at least one value", s)
		}
		return Axis{Param: param, Values: Linspace(lo, hi, n)}, nil
	}

	var values []float64
	for _, f := range strings.Split(rest, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return Axis{}, fmt.Errorf("axis %q: %w", s, err)
		}
		values = append(values, v)
	}
	return Axis{Param: param, Values: values}, nil
}

func knownParam(p string) bool {
	for _, q := range Params {
		if p == q {
			return true
		}
	}
	return false
}

// Apply sets one named parameter on sc.
func Apply(sc *config.Scenario, param string, v float64) error {
	switch param {
	case "m1", "m2", "m3":
		i := int(param[1] - '1')
		if i >= len(sc.Masses) {
			return dynamo.DimensionError("mass vector", dynamo.NumBodies, len(sc.Masses))
		}
		sc.Masses[i] = v
	case "eccentricity":
		sc.Eccentricity = v
	case "separation":
		sc.Separation = v
	case "x":
		sc.Third.X = v
	case "y":
		sc.Third.Y = v
	case "vx":
		sc.Third.VX = v
	case "vy":
		sc.Third.VY = v
	case "duration":
		sc.Duration = v
	default:
		return fmt.Errorf("unknown parameter %q", param)
	}
	return nil
}

// Point is one evaluated grid point.
type Point struct {
	Params map[string]float64
	Value  float64
	Err    error
}

// GridSearch evaluates a metric over the cartesian product of its axes.
type GridSearch struct {
	axes []Axis

	// Maximize picks the largest value instead of the smallest.
	Maximize bool
	// Limit caps concurrent runs; zero means one per CPU.
	Limit  int
	Logger *slog.Logger
}

func NewGridSearch(axes ...Axis) *GridSearch {
	return &GridSearch{axes: axes}
}

// Points lists every combination of axis values, the last axis varying
// fastest.
func (g *GridSearch) Points() []map[string]float64 {
	var out []map[string]float64
	g.collect(0, map[string]float64{}, &out)
	return out
}

func (g *GridSearch) collect(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.axes) {
		p := make(map[string]float64, len(current))
		for k, v := range current {
			p[k] = v
		}
		*out = append(*out, p)
		return
	}
	axis := g.axes[depth]
	for _, v := range axis.Values {
		current[axis.Param] = v
		g.collect(depth+1, current, out)
	}
	delete(current, axis.Param)
}

// Search runs base once per grid point and returns the best point together
// with all of them, in Points order. Points whose scenario is invalid or
// whose run fails carry their error and never win.
func (g *GridSearch) Search(ctx context.Context, base *config.Scenario, metric string) (Point, []Point, error) {
	if len(g.axes) == 0 {
		return Point{}, nil, errors.New("grid search needs at least one axis")
	}
	if _, err := metrics.Lookup(metrics.Default(make(dynamo.State, dynamo.StateDim)), metric); err != nil {
		return Point{}, nil, err
	}
	logger := g.Logger
	if logger == nil {
		logger = slog.Default()
	}

	params := g.Points()
	points := make([]Point, len(params))
	err := dynamo.ParallelFor(ctx, len(params), g.Limit, func(ctx context.Context, i int) error {
		points[i] = Point{Params: params[i]}
		points[i].Value, points[i].Err = evaluate(ctx, base, params[i], metric)
		if points[i].Err != nil {
			logger.Debug("grid point failed", "params", params[i], "err", points[i].Err)
		}
		return ctx.Err()
	})
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return Point{}, points, err
	}

	best := -1
	for i, p := range points {
		if p.Err != nil || math.IsNaN(p.Value) {
			continue
		}
		if best < 0 || g.better(p.Value, points[best].Value) {
			best = i
		}
	}
	if best < 0 {
		return Point{}, points, errors.New("every grid point failed")
	}
	return points[best], points, nil
}

func (g *GridSearch) better(a, b float64) bool {
	if g.Maximize {
		return a > b
	}
	return a < b
}

func evaluate(ctx context.Context, base *config.Scenario, params map[string]float64, metric string) (float64, error) {
	sc := base.Clone()
	for name, v := range params {
		if err := Apply(sc, name, v); err != nil {
			return 0, err
		}
	}
	exp, err := experiment.New(sc)
	if err != nil {
		return 0, err
	}

	ms := metrics.Default(exp.InitialState())
	metrics.Attach(exp.AddObserver, ms)
	if _, err := exp.Run(ctx); err != nil {
		return 0, err
	}
	m, err := metrics.Lookup(ms, metric)
	if err != nil {
		return 0, err
	}
	return m.Value(), nil
}
