package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/threebody/internal/dynamo"
)

var seriesColors = []asciigraph.AnsiColor{asciigraph.Orange, asciigraph.SteelBlue, asciigraph.Red}

// downsample keeps at most n evenly spaced values.
func downsample(values []float64, n int) []float64 {
	if n < 2 || len(values) <= n {
		return values
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = values[i*(len(values)-1)/(n-1)]
	}
	return out
}

// PlotCoordinates charts x(t) and y(t) of every body, one chart per axis.
func PlotCoordinates(traj *dynamo.Trajectory, names []string, width, height int) (string, error) {
	if traj.Len() < 2 {
		return "", fmt.Errorf("need at least 2 steps to plot, got %d", traj.Len())
	}

	var out string
	for axis, label := range []string{"x", "y"} {
		series := make([][]float64, traj.Bodies())
		for body := range series {
			series[body] = downsample(traj.Coords[2*body+axis], width)
		}
		chart := asciigraph.PlotMany(series,
			asciigraph.Height(height),
			asciigraph.Width(width),
			asciigraph.SeriesColors(seriesColors[:len(series)]...),
			asciigraph.Caption(fmt.Sprintf("%s(t) [AU]  %s", label, legend(names))),
		)
		out += chart + "\n\n"
	}
	return out, nil
}

// PlotSeparation charts the distance between bodies i and j.
func PlotSeparation(traj *dynamo.Trajectory, i, j int, caption string, width, height int) (string, error) {
	if traj.Len() < 2 {
		return "", fmt.Errorf("need at least 2 steps to plot, got %d", traj.Len())
	}
	return asciigraph.Plot(downsample(traj.Separations(i, j), width),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	), nil
}

var colorNames = []string{"orange", "blue", "red"}

func legend(names []string) string {
	var s string
	for i, name := range names {
		if i > 0 {
			s += ", "
		}
		s += colorNames[i%len(colorNames)] + ": " + name
	}
	return s
}
