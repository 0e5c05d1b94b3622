package export

import (
	"image/png"
	"io"
	"os"

	"github.com/san-kum/threebody/internal/config"
	"github.com/san-kum/threebody/internal/dynamo"
)

// WritePNG renders the complete trajectories of a run of sc with
// final-position markers, the title and the initial conditions. A nil
// renderer draws at 1200x600.
func WritePNG(w io.Writer, traj *dynamo.Trajectory, sc *config.Scenario, r *Renderer) error {
	r = r.captioned(sc, 1200, 600)
	img := r.Frame(traj, r.Viewport(traj), masses(sc), 0, traj.Len())
	return png.Encode(w, img)
}

func SavePNG(path string, traj *dynamo.Trajectory, sc *config.Scenario, r *Renderer) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WritePNG(f, traj, sc, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func masses(sc *config.Scenario) []float64 {
	if sc == nil {
		return nil
	}
	return sc.Masses
}
