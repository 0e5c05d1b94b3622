package export

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette maps each body to a trail gradient and a marker colour.
type Palette struct {
	Start  []colorful.Color
	End    []colorful.Color
	Marker []colorful.Color
}

// DefaultPalette uses orange, steel blue and red for bodies 1, 2 and 3.
// Trails fade in from a pale tint to the full colour.
func DefaultPalette() Palette {
	return Palette{
		Start: []colorful.Color{
			mustHex("#fff5eb"),
			mustHex("#f7fbff"),
			mustHex("#fff5f0"),
		},
		End: []colorful.Color{
			mustHex("#e6550d"),
			mustHex("#08519c"),
			mustHex("#cb181d"),
		},
		Marker: []colorful.Color{
			mustHex("#ffa500"),
			mustHex("#4682b4"),
			mustHex("#ff0000"),
		},
	}
}

// Trail returns body's colour at fraction t in [0, 1] along its trail.
func (p Palette) Trail(body int, t float64) colorful.Color {
	i := body % len(p.Start)
	return p.Start[i].BlendHcl(p.End[i], t).Clamped()
}

func (p Palette) MarkerColor(body int) colorful.Color {
	return p.Marker[body%len(p.Marker)]
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// mustHex parses one of the fixed palette colours.
func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
