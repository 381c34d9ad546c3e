// Package term hosts the animation loop in a terminal with tcell.
// Particles are binned into character cells and shaded by density.
package term

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/particle-wishes/internal/anim"
	"github.com/iburimskiy/particle-wishes/internal/app"
	"github.com/iburimskiy/particle-wishes/internal/config"
	"github.com/iburimskiy/particle-wishes/internal/render/view"
	"github.com/iburimskiy/particle-wishes/internal/sequence"
	"github.com/iburimskiy/particle-wishes/internal/shape"
)

// Player is the optional soundtrack control.
type Player interface {
	OpenDialog()
}

// Options wires the terminal renderer. Screen and Player may be nil.
type Options struct {
	Config config.Config
	App    *app.App
	Scene  *anim.Scene
	Player Player
	Logger *log.Logger
	Screen tcell.Screen
}

var templateRunes = map[rune]shape.Template{
	'1': shape.Heart,
	'2': shape.Flower,
	'3': shape.Fireworks,
	'4': shape.Blast,
	'5': shape.Design,
	'6': shape.Spiral,
}

type renderer struct {
	screen tcell.Screen
	cfg    config.Config
	app    *app.App
	scene  *anim.Scene
	player Player
	logger *log.Logger
	camera view.Camera

	width, height int
	cloudView     *view.Projector
	starView      *view.Projector
	counts        []int
	stars         []int
}

func newRenderer(screen tcell.Screen, opts Options) *renderer {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	r := &renderer{
		screen: screen,
		cfg:    opts.Config,
		app:    opts.App,
		scene:  opts.Scene,
		player: opts.Player,
		logger: logger,
		camera: view.Camera{
			FOV:      opts.Config.Camera.FOV,
			Distance: opts.Config.Camera.Distance,
			Near:     opts.Config.Camera.Near,
			Far:      opts.Config.Camera.Far,
		},
	}
	r.resize()
	r.scene.Sync(r.app.State())
	return r
}

// resize rebuilds the projectors for the current screen size. Cells are
// about twice as tall as wide, so the projection runs at double row count.
func (r *renderer) resize() {
	r.width, r.height = r.screen.Size()
	if r.width < 1 || r.height < 1 {
		r.width, r.height = 1, 1
	}
	r.cloudView = view.NewProjector(r.camera, r.width, r.height*2)
	r.starView = view.NewProjector(r.camera, r.width, r.height*2)
	r.counts = make([]int, r.width*r.height)
	r.stars = make([]int, r.width*r.height)
}

// handle applies one event. It returns false when the user quits.
func (r *renderer) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyEnter:
			r.app.StartSequence()
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			r.app.Reset()
		case tcell.KeyRune:
			ch := ev.Rune()
			if t, ok := templateRunes[ch]; ok {
				r.app.SelectTemplate(t)
				return true
			}
			switch ch {
			case 'q', 'Q':
				return false
			case 'c', 'C':
				r.app.RandomizeColor()
			case 'r', 'R':
				r.app.Reset()
			case 'm', 'M':
				if r.player != nil {
					r.player.OpenDialog()
				}
			}
		}

	case *tcell.EventResize:
		r.screen.Sync()
		r.resize()
	}
	return true
}

// step advances the app and the scene by one tick.
func (r *renderer) step(dt time.Duration) {
	r.app.Update(dt)
	r.scene.Sync(r.app.State())
	r.scene.Step(dt.Seconds())
}

func (r *renderer) draw() {
	r.screen.Clear()

	stars := r.scene.Stars()
	r.starView.SetRotation(0, stars.RotationY)
	clear(r.stars)
	bin(r.starView, stars.Positions(), r.width, r.height, r.stars)

	cloud := r.scene.Cloud()
	r.cloudView.SetRotation(cloud.RotationX, cloud.RotationY)
	clear(r.counts)
	peak := bin(r.cloudView, cloud.Live(), r.width, r.height, r.counts)

	base := r.scene.Color()
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			i := y*r.width + x
			if n := r.counts[i]; n > 0 {
				d := density(n, peak)
				r.screen.SetContent(x, y, glyph(d), nil, tcell.StyleDefault.Foreground(shade(base, d)))
			} else if r.stars[i] > 0 {
				r.screen.SetContent(x, y, '.', nil, tcell.StyleDefault.Foreground(tcell.NewRGBColor(90, 90, 110)))
			}
		}
	}

	r.drawOverlay()
	r.screen.Show()
}

func (r *renderer) drawOverlay() {
	o := view.Compose(view.Inputs{
		Stage:          r.app.Stage(),
		Gesture:        r.app.Gesture(),
		GestureEnabled: r.app.GestureEnabled(),
	})
	title := tcell.StyleDefault.Foreground(tcell.NewRGBColor(244, 114, 182)).Bold(true)
	muted := tcell.StyleDefault.Foreground(tcell.NewRGBColor(251, 207, 232))
	badge := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.NewRGBColor(236, 72, 153))

	r.centered(0, o.Title, title)
	r.centered(1, o.Tagline, muted)
	r.text(r.width-len(o.Status)-1, 0, o.Status, badge)

	y := r.height/2 - len(o.Message)/2
	for _, line := range o.Message {
		r.centered(y, line, title)
		y++
	}
	if o.Footer != "" {
		r.centered(y+1, o.Footer, muted)
	}

	if r.app.Stage() == sequence.Idle {
		r.centered(r.height-1, "1-6 shape  c color  enter wish  m music  q quit", muted)
		return
	}
	r.progress(r.height-1, muted)
}

func (r *renderer) progress(y int, style tcell.Style) {
	label := fmt.Sprintf(" %s %s/%s", r.app.Stage(), view.FormatDuration(r.app.SequenceElapsed()), view.FormatDuration(sequence.Total))
	barWidth := r.width - len(label) - 2
	if barWidth < 1 {
		r.text(0, y, label, style)
		return
	}
	filled := int(view.Clamp01(r.app.Progress()) * float64(barWidth))
	for x := 0; x < barWidth; x++ {
		ch := '░'
		if x < filled {
			ch = '█'
		}
		r.screen.SetContent(x+1, y, ch, nil, style)
	}
	r.text(barWidth+1, y, label, style)
}

func (r *renderer) centered(y int, s string, style tcell.Style) {
	r.text((r.width-len([]rune(s)))/2, y, s, style)
}

func (r *renderer) text(x, y int, s string, style tcell.Style) {
	if y < 0 || y >= r.height {
		return
	}
	for _, ch := range s {
		if x >= 0 && x < r.width {
			r.screen.SetContent(x, y, ch, nil, style)
		}
		x++
	}
}

// Run takes over the terminal until the user quits or ctx is done. A screen
// that fails to initialise is returned as an error before any frame runs.
func Run(ctx context.Context, opts Options) error {
	screen := opts.Screen
	if screen == nil {
		var err error
		if screen, err = tcell.NewScreen(); err != nil {
			return fmt.Errorf("open terminal: %w", err)
		}
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()

	r := newRenderer(screen, opts)

	tps := opts.Config.Window.TPS
	dt := time.Second / time.Duration(tps)
	ticker := time.NewTicker(dt)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-quit:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-eventChan:
			if !r.handle(ev) {
				return nil
			}
		case <-ticker.C:
			r.step(dt)
			r.draw()
		}
	}
}
