package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/threebody/internal/config"
)

// FormatE writes n in scientific notation with a single decimal digit,
// truncating rather than rounding: 3.33e5 -> "3.3e+05".
func FormatE(n float64) string {
	s := fmt.Sprintf("%E", n)
	mant, exp, ok := strings.Cut(s, "E")
	if !ok {
		return s
	}
	whole, frac, ok := strings.Cut(mant, ".")
	if !ok {
		return s
	}
	return whole + "." + frac[:1] + "e" + exp
}

// MarkerSizes scales marker sizes with mass: the lightest bodies get lo, the
// heaviest hi and a body strictly in between is interpolated linearly.
func MarkerSizes(masses []float64, lo, hi float64) []float64 {
	sizes := make([]float64, len(masses))
	if len(masses) == 0 {
		return sizes
	}
	minM, maxM := masses[0], masses[0]
	for _, m := range masses {
		minM = math.Min(minM, m)
		maxM = math.Max(maxM, m)
	}
	for i, m := range masses {
		switch {
		case m == maxM:
			sizes[i] = hi
		case m == minM:
			sizes[i] = lo
		default:
			sizes[i] = lo + (hi-lo)*(m-minM)/(maxM-minM)
		}
	}
	return sizes
}

// Annotation lists the initial conditions shown next to a plot.
func Annotation(s *config.Scenario) []string {
	lines := []string{
		"Initial conditions:",
		"",
		fmt.Sprintf("System %s-%s:", s.Names[0], s.Names[1]),
	}
	if s.Eccentricity > 0 {
		lines = append(lines, "semi-major axis = "+FormatE(s.Separation)+" AU")
	} else {
		lines = append(lines, "distance = "+FormatE(s.Separation)+" AU")
	}
	lines = append(lines,
		fmt.Sprintf("e = %g", s.Eccentricity),
		fmt.Sprintf("%s mass = %s Me", s.Names[0], FormatE(s.Masses[0])),
		fmt.Sprintf("%s mass = %s Me", s.Names[1], FormatE(s.Masses[1])),
		"",
		s.Names[2]+":",
		"x = "+FormatE(s.Third.X)+" AU",
		"y = "+FormatE(s.Third.Y)+" AU",
		"Vx = "+FormatE(s.Third.VX)+" AU/yr",
		"Vy = "+FormatE(s.Third.VY)+" AU/yr",
		"mass = "+FormatE(s.Masses[2])+" Me",
	)
	return lines
}

// Title is the plot heading.
func Title(duration float64) string {
	return fmt.Sprintf("trajectories calculated over %g years", duration)
}
