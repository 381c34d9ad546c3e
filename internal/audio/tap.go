package audio

import (
	"math"
	"sync"

	"github.com/faiface/beep"
)

// levelTap wraps a beep.Streamer and records the last N samples into a ring buffer
// so the renderer can pulse the starfield with whatever is playing.
type levelTap struct {
	Source    beep.Streamer
	buffer    [][2]float64
	nextIndex int
	level     float64
	mu        sync.RWMutex
}

func newLevelTap(src beep.Streamer, ringSize int) *levelTap {
	return &levelTap{
		Source: src,
		buffer: make([][2]float64, ringSize),
	}
}

func (t *levelTap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Source.Stream(samples)
	if n > 0 {
		t.mu.Lock()
		for i := 0; i < n; i++ {
			t.buffer[t.nextIndex] = samples[i]
			t.nextIndex++
			if t.nextIndex >= len(t.buffer) {
				t.nextIndex = 0
			}
		}
		t.mu.Unlock()
	}
	return n, ok
}

func (t *levelTap) Err() error { return t.Source.Err() }

// snapshot returns up to last n samples (stereo) from the ring buffer (most recent last).
func (t *levelTap) snapshot(n int) [][2]float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if n > len(t.buffer) {
		n = len(t.buffer)
	}
	out := make([][2]float64, 0, n)
	idx := t.nextIndex - 1
	if idx < 0 {
		idx = len(t.buffer) - 1
	}
	for i := 0; i < n; i++ {
		out = append(out, t.buffer[idx])
		idx--
		if idx < 0 {
			idx = len(t.buffer) - 1
		}
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Level returns a smoothed, compressed RMS of the last n samples in [0,1].
// It is called once per frame from the render loop.
func (t *levelTap) Level(n int, smoothing float64) float64 {
	samples := t.snapshot(n)
	if len(samples) == 0 {
		return t.level
	}
	var sumSquares float64
	for _, s := range samples {
		mono := (s[0] + s[1]) * 0.5
		sumSquares += mono * mono
	}
	rms := math.Sqrt(sumSquares / float64(len(samples)))
	mag := math.Min(math.Pow(rms, 0.3), 1)
	t.level = smoothing*t.level + (1-smoothing)*mag
	return t.level
}
