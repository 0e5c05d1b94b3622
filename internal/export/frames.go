package export

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/san-kum/threebody/internal/config"
	"github.com/san-kum/threebody/internal/dynamo"
)

const (
	// MaxFrames bounds the number of animation frames per run.
	MaxFrames = 149
	// TrailLength is how many recorded steps each trail shows in a frame.
	TrailLength = 300
)

// FrameSteps returns the steps shown by an animation of a run with the given
// number of steps: one every steps/MaxFrames steps.
func FrameSteps(steps int) []int {
	every := steps / MaxFrames
	if every < 1 {
		every = 1
	}
	out := make([]int, 0, steps/every+1)
	for i := 0; i < steps; i += every {
		out = append(out, i)
	}
	return out
}

// trailWindow is the [from, to) range drawn for the frame at step.
func trailWindow(step int) (int, int) {
	from := step + 1 - TrailLength
	if from < 0 {
		from = 0
	}
	return from, step + 1
}

// SaveFrames writes numbered PNG frames 0.png, 1.png, ... into dir and
// returns how many were written.
func SaveFrames(ctx context.Context, dir string, traj *dynamo.Trajectory, sc *config.Scenario, r *Renderer) (int, error) {
	r = r.captioned(sc, 1200, 600)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, err
	}

	v := r.Viewport(traj)
	for j, step := range FrameSteps(traj.Len()) {
		if err := ctx.Err(); err != nil {
			return j, err
		}
		from, to := trailWindow(step)
		img := r.Frame(traj, v, masses(sc), from, to)

		f, err := os.Create(filepath.Join(dir, fmt.Sprintf("%d.png", j)))
		if err != nil {
			return j, err
		}
		if err := png.Encode(f, img); err != nil {
			f.Close()
			return j, err
		}
		if err := f.Close(); err != nil {
			return j, err
		}
	}
	return len(FrameSteps(traj.Len())), nil
}
