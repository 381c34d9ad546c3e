// Package app owns the application state and arbitrates between the three
// things that want to change it: the user, the gesture sampler and the
// birthday sequence.
//
// All methods are called from the render loop's goroutine.
package app

import (
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/iburimskiy/particle-wishes/internal/gesture"
	"github.com/iburimskiy/particle-wishes/internal/sequence"
	"github.com/iburimskiy/particle-wishes/internal/shape"
	"github.com/iburimskiy/particle-wishes/internal/visual"
)

// Cues is notified when the sequence enters a stage.
type Cues interface {
	StageEntered(sequence.Stage)
}

// Options wires an App. Sampler and Cues may be nil.
type Options struct {
	Threshold float64
	Sampler   *gesture.Sampler
	Cues      Cues
	Logger    *log.Logger
	Rand      *rand.Rand
}

// App is the single owner of the visual state.
type App struct {
	visual  visual.State
	seq     *sequence.Controller
	sampler *gesture.Sampler
	cues    Cues
	logger  *log.Logger
	rng     *rand.Rand

	threshold float64
	gesture   gesture.Gesture
}

// New returns an idle App showing the initial heart.
func New(opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &App{
		visual:    visual.Initial(),
		seq:       sequence.NewController(rng),
		sampler:   opts.Sampler,
		cues:      opts.Cues,
		logger:    logger,
		rng:       rng,
		threshold: opts.Threshold,
		gesture:   gesture.None,
	}
}

// State returns a copy of the visual state.
func (a *App) State() visual.State { return a.visual }

// Stage returns the active sequence stage.
func (a *App) Stage() sequence.Stage { return a.seq.Stage() }

// Progress returns the sequence's progress in [0,1].
func (a *App) Progress() float64 { return a.seq.Progress() }

// SequenceElapsed returns the time since the sequence started.
func (a *App) SequenceElapsed() time.Duration { return a.seq.Elapsed() }

// Gesture returns the last gesture that changed the state.
func (a *App) Gesture() gesture.Gesture { return a.gesture }

// GestureEnabled reports whether gesture input is wired.
func (a *App) GestureEnabled() bool { return a.sampler != nil }

// SelectTemplate switches to t with a random color. Ignored while the
// sequence is running.
func (a *App) SelectTemplate(t shape.Template) bool {
	if a.seq.Active() {
		return false
	}
	a.visual.Choose(t, a.rng)
	a.logger.Debug("template selected", "template", t.Name(), "color", a.visual.Color.Hex())
	return true
}

// RandomizeColor picks a new palette color. Ignored while the sequence is running.
func (a *App) RandomizeColor() bool {
	if a.seq.Active() {
		return false
	}
	a.visual.Color = visual.RandomColor(a.rng)
	return true
}

// StartSequence begins the birthday sequence from Idle.
func (a *App) StartSequence() bool {
	if !a.seq.Start(&a.visual) {
		return false
	}
	a.logger.Info("sequence started")
	a.cue(sequence.DynamicFlow)
	return true
}

// Reset returns to manual control from any stage.
func (a *App) Reset() {
	if !a.seq.Active() {
		return
	}
	a.seq.Reset()
	a.logger.Info("sequence reset")
	a.cue(sequence.Idle)
}

// ApplyGesture applies a recognition result if the sequence is idle and the
// result is confident enough.
func (a *App) ApplyGesture(r gesture.Result) bool {
	if a.seq.Active() || !r.Actionable(a.threshold) {
		return false
	}
	t, _ := gesture.Template(r.Gesture)
	a.visual.Choose(t, a.rng)
	a.gesture = r.Gesture
	a.logger.Info("gesture applied", "gesture", r.Gesture, "confidence", r.Confidence, "template", t.Name())
	return true
}

// Update advances timers by dt: the sequence first, then the sampler. A
// recognition that finishes after the sequence has started is dropped.
func (a *App) Update(dt time.Duration) {
	for _, s := range a.seq.Advance(dt, &a.visual) {
		a.logger.Info("sequence stage", "stage", s)
		a.cue(s)
	}

	if a.sampler == nil {
		return
	}
	a.sampler.Tick(dt, !a.seq.Active())
	if r, ok := a.sampler.Poll(); ok {
		if !a.ApplyGesture(r) && r.Gesture != gesture.None {
			a.logger.Debug("gesture ignored", "gesture", r.Gesture, "confidence", r.Confidence, "stage", a.seq.Stage())
		}
	}
}

// Close stops the sampler and cancels the sequence timers.
func (a *App) Close() {
	if a.sampler != nil {
		a.sampler.Close()
	}
	a.seq.Reset()
}

func (a *App) cue(s sequence.Stage) {
	if a.cues != nil {
		a.cues.StageEntered(s)
	}
}
