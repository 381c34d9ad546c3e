package term

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/particle-wishes/internal/render/view"
	"github.com/iburimskiy/particle-wishes/internal/shape"
)

// ramp runs from sparse to dense.
var ramp = []rune(".:-=+*#%@")

// bin counts the points of pos that land in each cell of a cols x rows grid.
// p must project onto cols x 2*rows pixels. It returns the largest count.
func bin(p *view.Projector, pos shape.Positions, cols, rows int, counts []int) int {
	peak := 0
	for i := 0; i < pos.Len(); i++ {
		x, y, z := pos.At(i)
		pt, ok := p.Project(float64(x), float64(y), float64(z), 0)
		if !ok {
			continue
		}
		cx, cy := int(pt.X), int(pt.Y/2)
		if cx < 0 || cx >= cols || cy < 0 || cy >= rows {
			continue
		}
		idx := cy*cols + cx
		counts[idx]++
		if counts[idx] > peak {
			peak = counts[idx]
		}
	}
	return peak
}

// density maps a cell count into (0,1], compressed so sparse cells stay
// visible next to a dense core.
func density(n, peak int) float64 {
	if n <= 0 || peak <= 0 {
		return 0
	}
	return math.Sqrt(float64(n) / float64(peak))
}

// glyph picks the ramp character for a density.
func glyph(d float64) rune {
	i := int(view.Clamp01(d) * float64(len(ramp)-1))
	return ramp[i]
}

// shade darkens c toward black for sparse cells.
func shade(c colorful.Color, d float64) tcell.Color {
	black := colorful.Color{}
	r, g, b := black.BlendRgb(c, 0.35+0.65*view.Clamp01(d)).Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
