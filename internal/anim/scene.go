package anim

import (
	"math/rand/v2"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/particle-wishes/internal/config"
	"github.com/iburimskiy/particle-wishes/internal/shape"
	"github.com/iburimskiy/particle-wishes/internal/visual"
)

// SceneOptions sizes a Scene.
type SceneOptions struct {
	Particles  int
	Stars      int
	StarSpread float64
	ColorFade  time.Duration
	Params     Params
}

// OptionsFrom reads the scene settings from the particles config section.
func OptionsFrom(p config.Particles) SceneOptions {
	return SceneOptions{
		Particles:  p.Count,
		Stars:      p.Stars,
		StarSpread: p.StarSpread,
		ColorFade:  p.ColorFade,
		Params: Params{
			Ease:          p.Ease,
			Turbulence:    p.Turbulence,
			Spin:          p.Spin,
			SwayAmplitude: p.SwayAmplitude,
			SwayFrequency: p.SwayFrequency,
			StarSpin:      p.StarSpin,
		},
	}
}

// Scene bundles what a renderer draws: the cloud, the starfield and the
// color the cloud is shown in.
type Scene struct {
	cloud *Cloud
	stars *Starfield
	fade  *ColorFade
	rng   *rand.Rand

	fadeFor time.Duration

	synced    bool
	template  shape.Template
	color     colorful.Color
	expansion float64
	elapsed   float64
}

// NewScene builds the cloud and samples the starfield.
func NewScene(opts SceneOptions, rng *rand.Rand) *Scene {
	return &Scene{
		cloud:     NewCloud(opts.Particles, opts.Params),
		stars:     NewStarfield(opts.Stars, opts.StarSpread, opts.Params.StarSpin, rng),
		fade:      NewColorFade(visual.Palette[0], opts.ColorFade),
		rng:       rng,
		fadeFor:   opts.ColorFade,
		expansion: 1,
	}
}

// Sync reads the visual state. The target is regenerated only when the
// template or the color differ from the previous sync.
func (s *Scene) Sync(vs visual.State) {
	s.expansion = vs.Expansion
	if s.synced && vs.Template == s.template && vs.Color == s.color {
		return
	}
	if !s.synced {
		s.fade = NewColorFade(vs.Color, s.fadeFor)
	}
	s.synced = true
	s.template = vs.Template
	s.color = vs.Color

	// Sizes always match: the buffer is generated for this cloud.
	_ = s.cloud.SetTarget(shape.Generate(vs.Template, s.cloud.Len(), s.rng))
	s.fade.Set(vs.Color)
}

// Step advances one frame; dt is the frame's share of elapsed time.
func (s *Scene) Step(dt float64) {
	s.elapsed += dt
	s.cloud.Step(s.expansion, s.elapsed)
	s.stars.Step()
	s.fade.Update(dt)
}

func (s *Scene) Cloud() *Cloud         { return s.cloud }
func (s *Scene) Stars() *Starfield     { return s.stars }
func (s *Scene) Color() colorful.Color { return s.fade.Color() }
func (s *Scene) Elapsed() float64      { return s.elapsed }
