// Package shape samples the procedural particle clouds the scene morphs between.
//
// A Template is a sampling rule. The set of templates is closed: the only
// values are the package-level variables below, so callers cannot construct an
// unknown template.
package shape

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
)

// Positions is a flat buffer of xyz triples. Particle i occupies [3i, 3i+3).
type Positions []float32

// Len returns the number of particles in the buffer.
func (p Positions) Len() int { return len(p) / 3 }

// At returns the coordinates of particle i.
func (p Positions) At(i int) (x, y, z float32) {
	i3 := i * 3
	return p[i3], p[i3+1], p[i3+2]
}

// Template selects a sampling rule for Generate.
type Template interface {
	// Name is the lower-case identifier used by the CLI and the config file.
	Name() string

	point(i, count int, rng *rand.Rand) (x, y, z float64)
}

var (
	Heart     Template = heart{}
	Flower    Template = flower{}
	Fireworks Template = fireworks{}
	Blast     Template = blast{}
	Design    Template = design{}
	Spiral    Template = spiral{}
	Cake      Template = cake{}
)

var all = []Template{Heart, Flower, Fireworks, Blast, Design, Spiral, Cake}

// All returns every template in display order.
func All() []Template {
	out := make([]Template, len(all))
	copy(out, all)
	return out
}

// Lookup resolves a template by name, ignoring case and surrounding space.
func Lookup(name string) (Template, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, t := range all {
		if t.Name() == key {
			return t, nil
		}
	}
	return nil, fmt.Errorf("unknown template %q", name)
}

// Generate samples count particles for template t. Randomness comes from rng
// only; Spiral ignores it entirely and Design uses it for depth alone.
func Generate(t Template, count int, rng *rand.Rand) Positions {
	if t == nil {
		panic("shape: nil template")
	}
	if count < 0 {
		panic(fmt.Sprintf("shape: negative count %d", count))
	}

	positions := make(Positions, count*3)
	for i := 0; i < count; i++ {
		x, y, z := t.point(i, count, rng)
		i3 := i * 3
		positions[i3] = float32(x)
		positions[i3+1] = float32(y)
		positions[i3+2] = float32(z)
	}
	return positions
}

// jitter returns a uniform value in [-width/2, width/2).
func jitter(rng *rand.Rand, width float64) float64 {
	return (rng.Float64() - 0.5) * width
}

func angle(rng *rand.Rand) float64 {
	return rng.Float64() * 2 * math.Pi
}
