package export

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/san-kum/threebody/internal/config"
	"github.com/san-kum/threebody/internal/dynamo"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"gonum.org/v1/gonum/spatial/r2"
)

// Viewport maps world coordinates in AU onto a pixel grid with equal scale on
// both axes. Pixel y grows downwards. Origin is the top left corner of the
// grid inside a larger image.
type Viewport struct {
	Center r2.Vec
	Scale  float64
	Width  int
	Height int
	Origin image.Point
}

// FitViewport frames b in a w x h image, leaving pad (a fraction of the
// extent) free on every side.
func FitViewport(b dynamo.Bounds, w, h int, pad float64) Viewport {
	extentX := b.Width() * (1 + 2*pad)
	extentY := b.Height() * (1 + 2*pad)
	if extentX == 0 && extentY == 0 {
		extentX, extentY = 1, 1
	}

	scale := math.Inf(1)
	if extentX > 0 {
		scale = float64(w) / extentX
	}
	if extentY > 0 {
		scale = math.Min(scale, float64(h)/extentY)
	}

	return Viewport{
		Center: r2.Scale(0.5, r2.Add(b.Min, b.Max)),
		Scale:  scale,
		Width:  w,
		Height: h,
	}
}

func (v Viewport) ToPixel(p r2.Vec) (int, int) {
	d := r2.Scale(v.Scale, r2.Sub(p, v.Center))
	x := float64(v.Width)/2 + d.X
	y := float64(v.Height)/2 - d.Y
	return v.Origin.X + int(math.Round(x)), v.Origin.Y + int(math.Round(y))
}

const (
	textMargin = 8
	lineHeight = 15
)

var textFace = basicfont.Face7x13

// Caption is the text drawn around the trajectories: a title above them,
// body names in the legend and notes in a panel on the right.
type Caption struct {
	Title string
	Names []string
	Notes []string
}

// CaptionFor titles a plot of sc and annotates its initial conditions. A nil
// scenario gives an empty caption.
func CaptionFor(sc *config.Scenario) Caption {
	if sc == nil {
		return Caption{}
	}
	return Caption{
		Title: Title(sc.Duration),
		Names: sc.Names,
		Notes: Annotation(sc),
	}
}

// Renderer draws trajectory frames into RGBA images.
type Renderer struct {
	Width      int
	Height     int
	Palette    Palette
	Background color.RGBA
	Ink        color.RGBA
	MarkerMin  float64
	MarkerMax  float64
	Caption    Caption
}

func NewRenderer(w, h int) *Renderer {
	return &Renderer{
		Width:      w,
		Height:     h,
		Palette:    DefaultPalette(),
		Background: color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		Ink:        color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff},
		MarkerMin:  4,
		MarkerMax:  8,
	}
}

// captioned returns a copy of r, or of a default renderer of size w x h when
// r is nil, captioned for sc.
func (r *Renderer) captioned(sc *config.Scenario, w, h int) *Renderer {
	if r == nil {
		r = NewRenderer(w, h)
	}
	c := *r
	if sc != nil {
		c.Caption = CaptionFor(sc)
	}
	return &c
}

// Layout splits the image into the plot area and the notes panel. The title
// bar and the panel are dropped when the image is too small to hold them.
func (r *Renderer) Layout() (plot, panel image.Rectangle) {
	top := 0
	if r.Caption.Title != "" && r.Height >= 4*lineHeight {
		top = lineHeight + textMargin
	}
	right := r.Width
	if w := r.notesWidth(); w > 0 && 2*w <= r.Width {
		right = r.Width - w
	}
	return image.Rect(0, top, right, r.Height), image.Rect(right, top, r.Width, r.Height)
}

func (r *Renderer) notesWidth() int {
	widest := 0
	for _, line := range r.Caption.Notes {
		widest = max(widest, font.MeasureString(textFace, line).Ceil())
	}
	if widest == 0 {
		return 0
	}
	return widest + 2*textMargin
}

// Viewport fits the whole trajectory into the plot area.
func (r *Renderer) Viewport(traj *dynamo.Trajectory) Viewport {
	plot, _ := r.Layout()
	v := FitViewport(traj.Bounds(), plot.Dx(), plot.Dy(), 0.05)
	v.Origin = plot.Min
	return v
}

// Frame draws every trail over steps [from, to) with a time gradient, then a
// marker at each body's position at step to-1 sized by its mass.
func (r *Renderer) Frame(traj *dynamo.Trajectory, v Viewport, masses []float64, from, to int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: r.Background}, image.Point{}, draw.Src)

	if to <= from || to > traj.Len() {
		return img
	}

	for body := 0; body < traj.Bodies(); body++ {
		r.trail(img, traj, v, body, from, to)
	}

	sizes := MarkerSizes(masses, r.MarkerMin, r.MarkerMax)
	for body := 0; body < traj.Bodies(); body++ {
		x, y := v.ToPixel(traj.Point(to-1, body))
		radius := int(math.Round(r.MarkerMax / 2))
		if body < len(sizes) {
			radius = int(math.Round(sizes[body] / 2))
		}
		fillCircle(img, x, y, radius, toRGBA(r.Palette.MarkerColor(body)))
	}

	r.legend(img, traj.Bodies())
	r.caption(img)
	return img
}

func (r *Renderer) trail(img *image.RGBA, traj *dynamo.Trajectory, v Viewport, body, from, to int) {
	n := to - from
	px, py := v.ToPixel(traj.Point(from, body))
	for i := from + 1; i < to; i++ {
		x, y := v.ToPixel(traj.Point(i, body))
		if x == px && y == py {
			continue
		}
		t := float64(i-from) / float64(n-1)
		drawLine(img, px, py, x, y, toRGBA(r.Palette.Trail(body, t)))
		px, py = x, y
	}
}

// legend draws one swatch per body in the top left corner of the plot, each
// followed by the body's name when the caption has one.
func (r *Renderer) legend(img *image.RGBA, bodies int) {
	const size, gap = 8, 4
	plot, _ := r.Layout()
	for body := 0; body < bodies; body++ {
		x0 := plot.Min.X + gap
		y0 := plot.Min.Y + gap + body*lineHeight
		rect := image.Rect(x0, y0, x0+size, y0+size)
		draw.Draw(img, rect, &image.Uniform{C: toRGBA(r.Palette.MarkerColor(body))}, image.Point{}, draw.Src)
		if body < len(r.Caption.Names) {
			r.text(img, x0+size+gap, y0+size, r.Caption.Names[body])
		}
	}
}

// caption draws the title centred above the plot and the notes down the
// panel, one per line.
func (r *Renderer) caption(img *image.RGBA) {
	plot, panel := r.Layout()
	if plot.Min.Y > 0 {
		w := font.MeasureString(textFace, r.Caption.Title).Ceil()
		r.text(img, plot.Min.X+(plot.Dx()-w)/2, textMargin+textFace.Ascent, r.Caption.Title)
	}
	if panel.Empty() {
		return
	}
	y := panel.Min.Y + textMargin + textFace.Ascent
	for _, line := range r.Caption.Notes {
		if y > r.Height {
			break
		}
		r.text(img, panel.Min.X+textMargin, y, line)
		y += lineHeight
	}
}

// text draws s with its baseline starting at (x, y).
func (r *Renderer) text(img *image.RGBA, x, y int, s string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(r.Ink),
		Face: textFace,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// drawLine is Bresenham's algorithm; pixels outside img are dropped.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy

	for {
		if image.Pt(x0, y0).In(img.Rect) {
			img.SetRGBA(x0, y0, c)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func fillCircle(img *image.RGBA, cx, cy, radius int, c color.RGBA) {
	if radius < 1 {
		radius = 1
	}
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			if x*x+y*y > radius*radius {
				continue
			}
			if p := image.Pt(cx+x, cy+y); p.In(img.Rect) {
				img.SetRGBA(p.X, p.Y, c)
			}
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
