package audio

import (
	"math"
	"time"

	"github.com/faiface/beep"

	"github.com/iburimskiy/particle-wishes/internal/sequence"
)

// note is a pitch held for a duration. A zero frequency is a rest.
type note struct {
	freq float64
	dur  time.Duration
}

const (
	g4 = 392.00
	a4 = 440.00
	b4 = 493.88
	c5 = 523.25
	d5 = 587.33
	e5 = 659.25
	g5 = 783.99
	c6 = 1046.50
	e6 = 1318.51
	g6 = 1567.98
	c7 = 2093.00
)

// melodies plays on entry to a stage. Stages without one stay silent.
var melodies = map[sequence.Stage][]note{
	sequence.DynamicFlow: {{c5, 150 * time.Millisecond}, {e5, 150 * time.Millisecond}, {g5, 400 * time.Millisecond}},
	sequence.CakeTime: {
		{g4, 300 * time.Millisecond}, {g4, 150 * time.Millisecond}, {a4, 450 * time.Millisecond},
		{g4, 450 * time.Millisecond}, {c5, 450 * time.Millisecond}, {b4, 900 * time.Millisecond},
	},
	sequence.BirthdayBlast: {{c6, 80 * time.Millisecond}, {e6, 80 * time.Millisecond}, {g6, 80 * time.Millisecond}, {c7, 600 * time.Millisecond}},
	sequence.FinalWish: {
		{g4, 300 * time.Millisecond}, {g4, 150 * time.Millisecond}, {a4, 450 * time.Millisecond},
		{g4, 450 * time.Millisecond}, {d5, 450 * time.Millisecond}, {c5, 900 * time.Millisecond},
	},
}

// chime is a sine tone with an exponential decay, like a struck bell.
type chime struct {
	sr     beep.SampleRate
	freq   float64
	decay  float64
	pos    int
	length int
}

func newChime(sr beep.SampleRate, n note) *chime {
	return &chime{sr: sr, freq: n.freq, decay: 4, length: sr.N(n.dur)}
}

func (c *chime) Stream(samples [][2]float64) (int, bool) {
	if c.pos >= c.length {
		return 0, false
	}
	n := 0
	for i := range samples {
		if c.pos >= c.length {
			break
		}
		var v float64
		if c.freq > 0 {
			t := float64(c.pos) / float64(c.sr)
			v = math.Sin(2*math.Pi*c.freq*t) * math.Exp(-t*c.decay) * 0.3
		}
		samples[i] = [2]float64{v, v}
		c.pos++
		n++
	}
	return n, true
}

func (c *chime) Err() error { return nil }

// melody chains the notes into one streamer.
func melody(sr beep.SampleRate, notes []note) beep.Streamer {
	parts := make([]beep.Streamer, len(notes))
	for i, n := range notes {
		parts[i] = newChime(sr, n)
	}
	return beep.Seq(parts...)
}
