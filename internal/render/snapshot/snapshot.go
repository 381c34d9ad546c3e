// Package snapshot renders a single frame of the scene to a PNG without a
// window, for previews and documentation.
package snapshot

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math/rand/v2"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"

	"github.com/iburimskiy/particle-wishes/internal/anim"
	"github.com/iburimskiy/particle-wishes/internal/config"
	"github.com/iburimskiy/particle-wishes/internal/render/view"
	"github.com/iburimskiy/particle-wishes/internal/shape"
	"github.com/iburimskiy/particle-wishes/internal/visual"
)

// Options selects what to render. A zero Color uses the first palette color.
type Options struct {
	Config   config.Config
	Template shape.Template
	Color    colorful.Color
	Frames   int
	Caption  string
	Rand     *rand.Rand
}

// Render settles the scene for opts.Frames ticks and draws it.
func Render(opts Options) (*gg.Context, error) {
	if opts.Template == nil {
		return nil, fmt.Errorf("snapshot: no template")
	}
	cfg := opts.Config
	w, h := cfg.Window.Width, cfg.Window.Height
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("snapshot: canvas %dx%d", w, h)
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(cfg.Particles.Seed, cfg.Particles.Seed))
	}
	c := opts.Color
	if c == (colorful.Color{}) {
		c = visual.Palette[0]
	}

	sceneOpts := anim.OptionsFrom(cfg.Particles)
	sceneOpts.ColorFade = 0
	scene := anim.NewScene(sceneOpts, rng)
	scene.Sync(visual.State{Template: opts.Template, Color: c, Expansion: visual.ExpansionFor(opts.Template)})
	dt := (time.Second / time.Duration(cfg.Window.TPS)).Seconds()
	for i := 0; i < opts.Frames; i++ {
		scene.Step(dt)
	}

	dc := gg.NewContext(w, h)
	bg := gg.NewLinearGradient(0, 0, 0, float64(h))
	bg.AddColorStop(0, color.RGBA{R: 10, G: 2, B: 20, A: 255})
	bg.AddColorStop(1, color.RGBA{R: 0, G: 0, B: 0, A: 255})
	dc.SetFillStyle(bg)
	dc.DrawRectangle(0, 0, float64(w), float64(h))
	dc.Fill()

	cam := view.Camera{FOV: cfg.Camera.FOV, Distance: cfg.Camera.Distance, Near: cfg.Camera.Near, Far: cfg.Camera.Far}
	p := view.NewProjector(cam, w, h)

	stars := scene.Stars()
	p.SetRotation(0, stars.RotationY)
	drawPoints(dc, p, stars.Positions(), cfg.Particles.StarSize, color.RGBA{R: 153, G: 153, B: 153, A: 153})

	cloud := scene.Cloud()
	p.SetRotation(cloud.RotationX, cloud.RotationY)
	drawPoints(dc, p, cloud.Live(), cfg.Particles.PointSize, view.Premultiplied(scene.Color(), cfg.Particles.Opacity))

	if opts.Caption != "" {
		if err := caption(dc, opts.Caption); err != nil {
			return nil, err
		}
	}
	return dc, nil
}

// Write renders and encodes a PNG to w.
func Write(out io.Writer, opts Options) error {
	dc, err := Render(opts)
	if err != nil {
		return err
	}
	return dc.EncodePNG(out)
}

// Save renders to a PNG file.
func Save(path string, opts Options) error {
	dc, err := Render(opts)
	if err != nil {
		return err
	}
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Image renders and returns the frame.
func Image(opts Options) (image.Image, error) {
	dc, err := Render(opts)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

func drawPoints(dc *gg.Context, p *view.Projector, pos shape.Positions, size float64, c color.Color) {
	dc.SetColor(c)
	for i := 0; i < pos.Len(); i++ {
		x, y, z := pos.At(i)
		pt, ok := p.Project(float64(x), float64(y), float64(z), size)
		if !ok {
			continue
		}
		r := pt.Size / 2
		if r < 0.5 {
			r = 0.5
		}
		dc.DrawPoint(pt.X, pt.Y, r)
		dc.Fill()
	}
}

func caption(dc *gg.Context, s string) error {
	ttf, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse font: %w", err)
	}
	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    float64(dc.Height()) / 14,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	dc.SetFontFace(face)
	dc.SetColor(color.RGBA{R: 244, G: 114, B: 182, A: 255})
	dc.DrawStringAnchored(s, float64(dc.Width())/2, float64(dc.Height())/10, 0.5, 0.5)
	return nil
}
