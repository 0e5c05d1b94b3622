package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/san-kum/threebody/internal/config"
	"github.com/san-kum/threebody/internal/dynamo"
)

// maxPathPoints caps the vertices written per trail.
const maxPathPoints = 4000

// TrajectoryToSVG draws one path per body, final-position markers sized by
// mass, a title and the initial-condition annotation on the right.
func TrajectoryToSVG(traj *dynamo.Trajectory, s *config.Scenario, width, height int) string {
	if traj.Len() < 2 {
		return ""
	}

	plotW := width * 3 / 4
	v := FitViewport(traj.Bounds(), plotW, height, 0.05)
	pal := DefaultPalette()

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#ffffff"/>
`, width, height, width, height))

	stride := traj.Len()/maxPathPoints + 1
	for body := 0; body < traj.Bodies(); body++ {
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, pal.Trail(body, 1).Hex()))
		for i := 0; i < traj.Len(); i += stride {
			x, y := v.ToPixel(traj.Point(i, body))
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%d,%d", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%d,%d", x, y))
			}
		}
		x, y := v.ToPixel(traj.Point(traj.Len()-1, body))
		sb.WriteString(fmt.Sprintf(" L%d,%d\"/>\n", x, y))
	}

	sizes := MarkerSizes(s.Masses, 4, 8)
	for body := 0; body < traj.Bodies(); body++ {
		x, y := v.ToPixel(traj.Point(traj.Len()-1, body))
		sb.WriteString(fmt.Sprintf(`<circle cx="%d" cy="%d" r="%.1f" fill="%s"><title>%s</title></circle>
`, x, y, sizes[body]/2, pal.MarkerColor(body).Hex(), html.EscapeString(s.Names[body])))
	}

	sb.WriteString(fmt.Sprintf(`<text x="%d" y="20" font-family="sans-serif" font-size="16" text-anchor="middle">%s</text>
`, plotW/2, html.EscapeString(Title(s.Duration))))

	sb.WriteString(fmt.Sprintf(`<g font-family="sans-serif" font-size="12" transform="translate(%d, 40)">
`, plotW+10))
	for i, line := range Annotation(s) {
		if line == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<text y="%d">%s</text>
`, i*16, html.EscapeString(line)))
	}
	for body, name := range s.Names {
		y := (len(Annotation(s)) + 1 + body) * 16
		sb.WriteString(fmt.Sprintf(`<circle cx="4" cy="%d" r="4" fill="%s"/><text x="12" y="%d">%s</text>
`, y-4, pal.MarkerColor(body).Hex(), y, html.EscapeString(name)))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}
