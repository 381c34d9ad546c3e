// Package sequence drives the scripted birthday animation.
//
// The controller is a strict linear state machine. Once started it walks
// Transitions in order, setting the visual state as each stage is entered,
// and stays in FinalWish until Reset. While it is not Idle it has exclusive
// control of the visual state.
package sequence

import (
	"math/rand/v2"
	"time"

	"github.com/iburimskiy/particle-wishes/internal/shape"
	"github.com/iburimskiy/particle-wishes/internal/visual"
)

// Stage is the active step of the sequence.
type Stage int

const (
	Idle Stage = iota
	DynamicFlow
	CakeTime
	BlowMessage
	BirthdayBlast
	FinalWish
)

var stageNames = [...]string{"idle", "dynamic-flow", "cake-time", "blow-message", "birthday-blast", "final-wish"}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

const (
	// FlowInterval is the gap between template swaps in DynamicFlow.
	FlowInterval = 1200 * time.Millisecond
	// FlowTicks is the number of swaps before the cake appears.
	FlowTicks = 5
)

// FlowTemplates is the cycle DynamicFlow walks through.
var FlowTemplates = []shape.Template{shape.Heart, shape.Flower, shape.Spiral, shape.Design}

// Transition is one edge of the machine. A zero After means the edge is
// taken on command rather than on a timer.
type Transition struct {
	From, To Stage
	After    time.Duration
}

// Transitions is the full table in the order the sequence walks it.
var Transitions = []Transition{
	{From: Idle, To: DynamicFlow},
	{From: DynamicFlow, To: CakeTime, After: FlowTicks * FlowInterval},
	{From: CakeTime, To: BlowMessage, After: 2500 * time.Millisecond},
	{From: BlowMessage, To: BirthdayBlast, After: 3500 * time.Millisecond},
	{From: BirthdayBlast, To: FinalWish, After: 2000 * time.Millisecond},
}

// Total is the scripted time from Start to FinalWish.
var Total = func() time.Duration {
	var d time.Duration
	for _, t := range Transitions {
		d += t.After
	}
	return d
}()

func next(s Stage) (Transition, bool) {
	for _, t := range Transitions {
		if t.From == s {
			return t, true
		}
	}
	return Transition{}, false
}

var (
	cakeColor  = visual.MustHex("#fbcfe8")
	finalColor = visual.MustHex("#ff1493")
)

// Controller tracks the active stage and its timer.
type Controller struct {
	stage   Stage
	timer   time.Duration // time spent in the current stage, or since the last flow swap
	ticks   int
	elapsed time.Duration
	rng     *rand.Rand
}

// NewController returns an idle controller. rng picks the random colors.
func NewController(rng *rand.Rand) *Controller {
	return &Controller{rng: rng}
}

// Stage returns the active stage.
func (c *Controller) Stage() Stage { return c.stage }

// Active reports whether the sequence holds control.
func (c *Controller) Active() bool { return c.stage != Idle }

// Progress returns how far through the scripted timeline the sequence is, in [0,1].
func (c *Controller) Progress() float64 {
	if c.stage == FinalWish {
		return 1
	}
	return min(float64(c.elapsed)/float64(Total), 1)
}

// Elapsed returns the time since Start.
func (c *Controller) Elapsed() time.Duration { return c.elapsed }

// Start begins the sequence. It is a no-op unless the controller is Idle.
func (c *Controller) Start(vs *visual.State) bool {
	if c.stage != Idle {
		return false
	}
	c.elapsed = 0
	c.enter(DynamicFlow, vs)
	return true
}

// Reset returns to Idle from any stage and drops any pending timer. The
// visual state is left as the sequence last set it.
func (c *Controller) Reset() {
	c.stage = Idle
	c.timer = 0
	c.ticks = 0
	c.elapsed = 0
}

// Advance runs the stage timers forward by dt and returns the stages entered,
// in order. Time left over after a transition counts toward the next stage.
func (c *Controller) Advance(dt time.Duration, vs *visual.State) []Stage {
	if c.stage == Idle || c.stage == FinalWish || dt <= 0 {
		return nil
	}
	c.elapsed += dt
	c.timer += dt

	var entered []Stage
	for {
		switch c.stage {
		case DynamicFlow:
			if c.timer < FlowInterval {
				return entered
			}
			c.timer -= FlowInterval
			vs.Template = FlowTemplates[c.ticks%len(FlowTemplates)]
			vs.Color = visual.RandomColor(c.rng)
			c.ticks++
			if c.ticks < FlowTicks {
				continue
			}
			c.enter(CakeTime, vs)
			entered = append(entered, CakeTime)

		case CakeTime, BlowMessage, BirthdayBlast:
			t, _ := next(c.stage)
			if c.timer < t.After {
				return entered
			}
			c.timer -= t.After
			c.enter(t.To, vs)
			entered = append(entered, t.To)

		default:
			return entered
		}
	}
}

// enter switches to s and applies its entry effect. The stage timer keeps
// any carried-over remainder.
func (c *Controller) enter(s Stage, vs *visual.State) {
	c.stage = s
	c.ticks = 0

	switch s {
	case DynamicFlow:
		c.timer = 0
	case CakeTime:
		vs.Template = shape.Cake
		vs.Color = cakeColor
		vs.Expansion = 1.2
	case BirthdayBlast:
		vs.Template = shape.Blast
		vs.Color = visual.RandomColor(c.rng)
		vs.Expansion = 4
	case FinalWish:
		vs.Template = shape.Heart
		vs.Color = finalColor
		vs.Expansion = 1.5
		c.timer = 0
		c.elapsed = Total
	}
}
