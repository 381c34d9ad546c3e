package anim

import (
	"math/rand/v2"

	"github.com/iburimskiy/particle-wishes/internal/shape"
)

// Starfield is the static backdrop: sampled once, only its rotation changes.
type Starfield struct {
	positions shape.Positions
	spin      float64

	RotationY float64
}

// NewStarfield scatters count stars uniformly in a cube of side spread
// centred on the origin.
func NewStarfield(count int, spread, spin float64, rng *rand.Rand) *Starfield {
	pos := make(shape.Positions, count*3)
	for i := range pos {
		pos[i] = float32((rng.Float64() - 0.5) * spread)
	}
	return &Starfield{positions: pos, spin: spin}
}

// Step rotates the starfield against the cloud's spin.
func (s *Starfield) Step() {
	s.RotationY -= s.spin
}

// Positions returns the star positions. Treat as read-only.
func (s *Starfield) Positions() shape.Positions { return s.positions }
