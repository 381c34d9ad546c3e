package anim

import (
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// ColorFade cross-fades the rendered color toward the most recent target.
type ColorFade struct {
	tweens   [3]*gween.Tween
	current  colorful.Color
	target   colorful.Color
	duration float32
	done     bool
}

// NewColorFade starts settled on c. A zero duration switches instantly.
func NewColorFade(c colorful.Color, d time.Duration) *ColorFade {
	return &ColorFade{current: c, target: c, duration: float32(d.Seconds()), done: true}
}

// Set retargets the fade from whatever color is showing now.
func (f *ColorFade) Set(c colorful.Color) {
	if c == f.target {
		return
	}
	f.target = c
	if f.duration <= 0 {
		f.current = c
		f.done = true
		return
	}
	f.tweens[0] = gween.New(float32(f.current.R), float32(c.R), f.duration, ease.OutQuad)
	f.tweens[1] = gween.New(float32(f.current.G), float32(c.G), f.duration, ease.OutQuad)
	f.tweens[2] = gween.New(float32(f.current.B), float32(c.B), f.duration, ease.OutQuad)
	f.done = false
}

// Update advances the fade by dt seconds and returns the color to draw.
func (f *ColorFade) Update(dt float64) colorful.Color {
	if f.done {
		return f.current
	}
	r, finished := f.tweens[0].Update(float32(dt))
	g, _ := f.tweens[1].Update(float32(dt))
	b, _ := f.tweens[2].Update(float32(dt))
	if finished {
		f.current = f.target
		f.done = true
		return f.current
	}
	f.current = colorful.Color{R: float64(r), G: float64(g), B: float64(b)}
	return f.current
}

// Color returns the color currently shown.
func (f *ColorFade) Color() colorful.Color { return f.current }

// Done reports whether the fade has reached its target.
func (f *ColorFade) Done() bool { return f.done }
