package export

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"os"

	"github.com/san-kum/threebody/internal/config"
	"github.com/san-kum/threebody/internal/dynamo"
)

// gradientSteps is the number of palette entries per trail gradient.
const gradientSteps = 80

// gifPalette holds the background, every trail gradient and the marker
// colours, so frames quantise without dithering.
func (r *Renderer) gifPalette(bodies int) color.Palette {
	p := color.Palette{r.Background, r.Ink}
	for body := 0; body < bodies; body++ {
		for i := 0; i < gradientSteps; i++ {
			p = append(p, toRGBA(r.Palette.Trail(body, float64(i)/(gradientSteps-1))))
		}
		p = append(p, toRGBA(r.Palette.MarkerColor(body)))
	}
	if len(p) > 256 {
		p = p[:256]
	}
	return p
}

// WriteGIF encodes the animation: one frame per FrameSteps entry showing the
// last TrailLength steps of every trail. delay is in 100ths of a second.
func WriteGIF(ctx context.Context, w io.Writer, traj *dynamo.Trajectory, sc *config.Scenario, r *Renderer, delay int) error {
	if traj.Len() == 0 {
		return errors.New("gif: empty trajectory")
	}
	r = r.captioned(sc, 600, 300)
	v := r.Viewport(traj)
	pal := r.gifPalette(traj.Bodies())

	anim := &gif.GIF{}
	for _, step := range FrameSteps(traj.Len()) {
		if err := ctx.Err(); err != nil {
			return err
		}
		from, to := trailWindow(step)
		frame := r.Frame(traj, v, masses(sc), from, to)

		pm := image.NewPaletted(frame.Bounds(), pal)
		draw.Draw(pm, pm.Rect, frame, image.Point{}, draw.Src)
		anim.Image = append(anim.Image, pm)
		anim.Delay = append(anim.Delay, delay)
	}
	return gif.EncodeAll(w, anim)
}

func SaveGIF(ctx context.Context, path string, traj *dynamo.Trajectory, sc *config.Scenario, r *Renderer, delay int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteGIF(ctx, f, traj, sc, r, delay); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
