package term

import (
	"bytes"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/particle-wishes/internal/anim"
	"github.com/iburimskiy/particle-wishes/internal/app"
	"github.com/iburimskiy/particle-wishes/internal/config"
	"github.com/iburimskiy/particle-wishes/internal/render/view"
	"github.com/iburimskiy/particle-wishes/internal/sequence"
	"github.com/iburimskiy/particle-wishes/internal/shape"
	"github.com/iburimskiy/particle-wishes/internal/visual"
)

var testCamera = view.Camera{FOV: 75, Distance: 60, Near: 0.1, Far: 1000}

func TestBin(t *testing.T) {
	p := view.NewProjector(testCamera, 10, 10)
	pos := shape.Positions{0, 0, 0, 0, 0, 0, 0.01, 0, 0, 500, 0, 0}
	counts := make([]int, 10*5)
	peak := bin(p, pos, 10, 5, counts)
	if peak != 3 {
		t.Fatalf("peak = %d, want 3", peak)
	}
	// the origin lands in the centre cell
	if counts[2*10+5] != 3 {
		t.Errorf("centre cell = %d, counts = %v", counts[2*10+5], counts)
	}
	total := 0
	for _, c := range counts {
		total += c
	}
	if total != 3 {
		t.Errorf("off-screen point was binned: total = %d", total)
	}
}

func TestGlyphAndDensity(t *testing.T) {
	if density(0, 10) != 0 || density(3, 0) != 0 {
		t.Error("empty cells should have zero density")
	}
	if density(10, 10) != 1 {
		t.Error("peak cell should have density 1")
	}
	if d := density(1, 4); d != 0.5 {
		t.Errorf("density(1,4) = %v", d)
	}
	if glyph(0) != '.' || glyph(1) != '@' {
		t.Errorf("ramp ends = %q %q", glyph(0), glyph(1))
	}
}

func TestShade(t *testing.T) {
	c := visual.MustHex("#ff0000")
	full := shade(c, 1)
	if r, g, b := full.RGB(); r != 255 || g != 0 || b != 0 {
		t.Errorf("full shade = %d,%d,%d", r, g, b)
	}
	dim := shade(c, 0)
	if r, _, _ := dim.RGB(); r >= 255 || r == 0 {
		t.Errorf("sparse shade red = %d, want dimmed but visible", r)
	}
}

func newTestRenderer(t *testing.T) (*renderer, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(80, 24)

	cfg := config.Default()
	logger := log.New(&bytes.Buffer{})
	rng := rand.New(rand.NewPCG(3, 4))
	a := app.New(app.Options{Threshold: cfg.Gesture.Threshold, Logger: logger, Rand: rng})
	params := anim.DefaultParams()
	scene := anim.NewScene(anim.SceneOptions{Particles: 500, Stars: 50, StarSpread: 400, Params: params}, rng)
	return newRenderer(screen, Options{Config: cfg, App: a, Scene: scene, Logger: logger}), screen
}

func screenText(s tcell.SimulationScreen) string {
	cells, w, _ := s.GetContents()
	var b strings.Builder
	for i, c := range cells {
		if len(c.Runes) > 0 {
			b.WriteRune(c.Runes[0])
		} else {
			b.WriteByte(' ')
		}
		if (i+1)%w == 0 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func TestDrawOverlay(t *testing.T) {
	r, screen := newTestRenderer(t)
	for i := 0; i < 30; i++ {
		r.step(time.Second / 60)
	}
	r.draw()

	out := screenText(screen)
	for _, want := range []string{view.TitleIdle, "Camera Off", "enter wish"} {
		if !strings.Contains(out, want) {
			t.Errorf("screen missing %q:\n%s", want, out)
		}
	}
	drawn := 0
	for _, n := range r.counts {
		drawn += n
	}
	if drawn == 0 {
		t.Error("no particles binned")
	}
}

func TestHandleKeys(t *testing.T) {
	r, _ := newTestRenderer(t)

	r.handle(tcell.NewEventKey(tcell.KeyRune, '4', tcell.ModNone))
	if r.app.State().Template != shape.Blast {
		t.Errorf("template = %s, want blast", r.app.State().Template.Name())
	}

	r.handle(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	if r.app.Stage() != sequence.DynamicFlow {
		t.Errorf("stage after enter = %v", r.app.Stage())
	}

	r.handle(tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone))
	if r.app.Stage() != sequence.Idle {
		t.Errorf("stage after r = %v", r.app.Stage())
	}

	if r.handle(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)) {
		t.Error("q should quit")
	}
	if r.handle(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Error("escape should quit")
	}
}

func TestDrawFinalWish(t *testing.T) {
	r, screen := newTestRenderer(t)
	r.app.StartSequence()
	for r.app.Stage() != sequence.FinalWish {
		r.step(100 * time.Millisecond)
	}
	r.draw()
	out := screenText(screen)
	for _, want := range []string{view.TitleFinal, view.WishLine1, view.WishLine2, "Auto Sequence Active", "final-wish"} {
		if !strings.Contains(out, want) {
			t.Errorf("screen missing %q:\n%s", want, out)
		}
	}
}
