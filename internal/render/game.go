// Package render hosts the animation loop in an ebiten window.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/iburimskiy/particle-wishes/internal/anim"
	"github.com/iburimskiy/particle-wishes/internal/app"
	"github.com/iburimskiy/particle-wishes/internal/config"
	"github.com/iburimskiy/particle-wishes/internal/render/view"
	"github.com/iburimskiy/particle-wishes/internal/sequence"
	"github.com/iburimskiy/particle-wishes/internal/shape"
)

// Player is the audio the window controls. Level feeds the star pulse.
type Player interface {
	OpenDialog()
	Level() float64
	Track() string
}

// Options wires the window. Player may be nil.
type Options struct {
	Config config.Config
	App    *app.App
	Scene  *anim.Scene
	Player Player
	Logger *log.Logger
}

// templateKeys binds the number row to the manual templates.
var templateKeys = []struct {
	key      ebiten.Key
	template shape.Template
}{
	{ebiten.Key1, shape.Heart},
	{ebiten.Key2, shape.Flower},
	{ebiten.Key3, shape.Fireworks},
	{ebiten.Key4, shape.Blast},
	{ebiten.Key5, shape.Design},
	{ebiten.Key6, shape.Spiral},
}

type game struct {
	ctx    context.Context
	cfg    config.Config
	app    *app.App
	scene  *anim.Scene
	player Player
	logger *log.Logger

	cloudView *view.Projector
	starView  *view.Projector
	batch     *pointBatch

	titleFace *text.GoTextFace
	bigFace   *text.GoTextFace
	bodyFace  *text.GoTextFace

	buttons []*button

	// viz
	time  float64
	level float64

	// input edge detection
	prevKey map[ebiten.Key]bool
}

func newGame(ctx context.Context, opts Options) (*game, error) {
	if opts.App == nil || opts.Scene == nil {
		return nil, errors.New("render: app and scene are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	bold, err := text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
	if err != nil {
		return nil, fmt.Errorf("load title font: %w", err)
	}
	regular, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("load body font: %w", err)
	}

	w, h := opts.Config.Window.Width, opts.Config.Window.Height
	cam := view.Camera{
		FOV:      opts.Config.Camera.FOV,
		Distance: opts.Config.Camera.Distance,
		Near:     opts.Config.Camera.Near,
		Far:      opts.Config.Camera.Far,
	}

	g := &game{
		ctx:       ctx,
		cfg:       opts.Config,
		app:       opts.App,
		scene:     opts.Scene,
		player:    opts.Player,
		logger:    logger,
		cloudView: view.NewProjector(cam, w, h),
		starView:  view.NewProjector(cam, w, h),
		batch:     newPointBatch(),
		titleFace: &text.GoTextFace{Source: bold, Size: 44},
		bigFace:   &text.GoTextFace{Source: bold, Size: 72},
		bodyFace:  &text.GoTextFace{Source: regular, Size: 16},
		prevKey:   map[ebiten.Key]bool{},
	}
	g.buttons = g.newButtons()
	g.scene.Sync(g.app.State())
	return g, nil
}

func (g *game) newButtons() []*button {
	w, h := g.cfg.Window.Width, g.cfg.Window.Height
	idle := func() bool { return g.app.Stage() == sequence.Idle }
	busy := func() bool { return g.app.Stage() != sequence.Idle }

	rowY := h - config.ButtonHeight - config.ButtonY
	labels := len(templateKeys) + 2
	row := buttonRow(w, rowY, config.ButtonWidth, config.ButtonHeight, config.ButtonGap, labels)

	var out []*button
	for i, tk := range templateKeys {
		t := tk.template
		out = append(out, &button{
			label:    fmt.Sprintf("%d %s", i+1, t.Name()),
			bounds:   row[i],
			onClick:  func() { g.app.SelectTemplate(t) },
			selected: func() bool { return g.app.State().Template == t },
			shown:    idle,
		})
	}
	out = append(out, &button{
		label:   "C color",
		bounds:  row[len(templateKeys)],
		onClick: func() { g.app.RandomizeColor() },
		shown:   idle,
	})
	out = append(out, &button{
		label:   "M music",
		bounds:  row[len(templateKeys)+1],
		onClick: g.openMusic,
		shown:   func() bool { return g.player != nil },
	})

	wide := buttonRow(w, rowY-config.ButtonHeight-2*config.ButtonGap, 3*config.ButtonWidth, config.ButtonHeight, 0, 1)[0]
	out = append(out,
		&button{
			label:   "Start Birthday Wish",
			bounds:  wide,
			onClick: func() { g.app.StartSequence() },
			shown:   idle,
		},
		&button{
			label:   "Reset to Sandbox",
			bounds:  wide,
			onClick: g.app.Reset,
			shown:   busy,
		},
	)
	return out
}

func (g *game) openMusic() {
	if g.player != nil {
		g.player.OpenDialog()
	}
}

func (g *game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}

	justPressed := func(k ebiten.Key) bool {
		pressed := ebiten.IsKeyPressed(k)
		jp := pressed && !g.prevKey[k]
		g.prevKey[k] = pressed
		return jp
	}

	mouseX, mouseY := ebiten.CursorPosition()
	for _, b := range g.buttons {
		b.update(mouseX, mouseY)
	}

	for _, tk := range templateKeys {
		if justPressed(tk.key) {
			g.app.SelectTemplate(tk.template)
		}
	}
	if justPressed(ebiten.KeyC) {
		g.app.RandomizeColor()
	}
	if justPressed(ebiten.KeyEnter) {
		g.app.StartSequence()
	}
	if justPressed(ebiten.KeyR) || justPressed(ebiten.KeyBackspace) {
		g.app.Reset()
	}
	if justPressed(ebiten.KeyM) {
		g.openMusic()
	}
	if justPressed(ebiten.KeyEscape) || justPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	dt := time.Second / time.Duration(g.cfg.Window.TPS)
	g.app.Update(dt)
	g.scene.Sync(g.app.State())
	g.scene.Step(dt.Seconds())

	g.time += dt.Seconds()
	if g.player != nil {
		g.level = g.player.Level()
	}
	return nil
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Window.Width, g.cfg.Window.Height
}

// Run opens the window and blocks until it is closed or ctx is done.
func Run(ctx context.Context, opts Options) error {
	g, err := newGame(ctx, opts)
	if err != nil {
		return err
	}
	ebiten.SetWindowSize(opts.Config.Window.Width, opts.Config.Window.Height)
	ebiten.SetWindowTitle(opts.Config.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(opts.Config.Window.TPS)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("run window: %w", err)
	}
	return nil
}
