// Package visual holds the state the renderer reads each frame: which
// template the cloud is forming, its color and its expansion.
package visual

import (
	"fmt"
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/particle-wishes/internal/shape"
)

// State is mutated only by user actions, accepted gestures and the sequence
// controller.
type State struct {
	Template  shape.Template
	Color     colorful.Color
	Expansion float64
}

// Palette is the set of colors picked from when a template changes.
var Palette = []colorful.Color{
	MustHex("#ff69b4"), // hot pink
	MustHex("#dda0dd"), // plum
	MustHex("#ff1493"), // deep pink
	MustHex("#e6e6fa"), // lavender
	MustHex("#fff0f5"), // lavender blush
	MustHex("#ffd700"), // gold
	MustHex("#00ffff"), // cyan
	MustHex("#ff4500"), // orange red
}

// Initial is the state shown before any input.
func Initial() State {
	return State{Template: shape.Heart, Color: Palette[0], Expansion: 1}
}

// MustHex parses a #rrggbb color and panics on malformed input.
func MustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(fmt.Sprintf("visual: bad color %q: %v", s, err))
	}
	return c
}

// RandomColor picks a palette entry.
func RandomColor(rng *rand.Rand) colorful.Color {
	return Palette[rng.IntN(len(Palette))]
}

// ExpansionFor is the expansion applied when t is chosen manually or by gesture.
func ExpansionFor(t shape.Template) float64 {
	if t == shape.Blast {
		return 2.5
	}
	return 1
}

// Choose switches s to template t with a fresh palette color.
func (s *State) Choose(t shape.Template, rng *rand.Rand) {
	s.Template = t
	s.Color = RandomColor(rng)
	s.Expansion = ExpansionFor(t)
}
