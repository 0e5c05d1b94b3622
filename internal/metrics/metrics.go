package metrics

import (
	"fmt"
	"sort"

	"github.com/san-kum/threebody/internal/dynamo"
)

// Metric watches a run step by step and reduces it to one number.
type Metric interface {
	dynamo.Observer
	Name() string
	Value() float64
	Reset()
}

// Default returns the metrics recorded for every run started at x0.
func Default(x0 dynamo.State) []Metric {
	return []Metric{
		NewMaxSpeed(),
		NewClosestApproach(0, 1),
		NewClosestApproach(0, 2),
		NewClosestApproach(1, 2),
		NewStability(x0, DefaultEscapeFactor),
	}
}

// Names lists the metrics of Default, sorted.
func Names() []string {
	var names []string
	for _, m := range Default(make(dynamo.State, dynamo.StateDim)) {
		names = append(names, m.Name())
	}
	sort.Strings(names)
	return names
}

// Collect reads every metric into a map keyed by name.
func Collect(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

// Attach registers every metric with add, typically an AddObserver method.
func Attach(add func(dynamo.Observer), ms []Metric) {
	for _, m := range ms {
		add(m)
	}
}

// Lookup finds a metric by name.
func Lookup(ms []Metric, name string) (Metric, error) {
	for _, m := range ms {
		if m.Name() == name {
			return m, nil
		}
	}
	return nil, fmt.Errorf("unknown metric: %s (available: %v)", name, Names())
}
