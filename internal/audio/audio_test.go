package audio

import (
	"math"
	"testing"
	"time"

	"github.com/faiface/beep"

	"github.com/iburimskiy/particle-wishes/internal/sequence"
)

const testRate = beep.SampleRate(44100)

func drain(s beep.Streamer) (total int, peak float64) {
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		for _, v := range buf[:n] {
			peak = math.Max(peak, math.Abs(v[0]))
		}
		total += n
		if !ok {
			return total, peak
		}
	}
}

func TestChimeLength(t *testing.T) {
	c := newChime(testRate, note{a4, 100 * time.Millisecond})
	n, peak := drain(c)
	if want := testRate.N(100 * time.Millisecond); n != want {
		t.Errorf("streamed %d samples, want %d", n, want)
	}
	if peak == 0 || peak > 0.3 {
		t.Errorf("peak = %v, want in (0, 0.3]", peak)
	}
	if n, ok := c.Stream(make([][2]float64, 8)); n != 0 || ok {
		t.Error("exhausted chime should report done")
	}
}

func TestChimeRest(t *testing.T) {
	_, peak := drain(newChime(testRate, note{0, 50 * time.Millisecond}))
	if peak != 0 {
		t.Errorf("rest peak = %v", peak)
	}
}

func TestMelodies(t *testing.T) {
	for _, s := range []sequence.Stage{sequence.Idle, sequence.BlowMessage} {
		if _, ok := melodies[s]; ok {
			t.Errorf("%v should be silent", s)
		}
	}
	notes := melodies[sequence.CakeTime]
	want := 0
	for _, n := range notes {
		want += testRate.N(n.dur)
	}
	if got, _ := drain(melody(testRate, notes)); got != want {
		t.Errorf("melody length %d, want %d", got, want)
	}
}

func TestLevelTap(t *testing.T) {
	silent := newLevelTap(beep.Silence(1024), 256)
	drain(silent)
	if l := silent.Level(256, 0); l != 0 {
		t.Errorf("silence level = %v", l)
	}

	loud := newLevelTap(beep.Take(1024, constant(0.5)), 256)
	drain(loud)
	want := math.Pow(0.5, 0.3)
	if l := loud.Level(256, 0); math.Abs(l-want) > 1e-9 {
		t.Errorf("level = %v, want %v", l, want)
	}
	// smoothing keeps half of the previous level
	if l := loud.Level(256, 0.5); math.Abs(l-want) > 1e-9 {
		t.Errorf("steady smoothed level = %v, want %v", l, want)
	}
}

func TestTapSnapshotOrder(t *testing.T) {
	tap := newLevelTap(counter(), 4)
	buf := make([][2]float64, 6)
	tap.Stream(buf)
	got := tap.snapshot(10)
	want := []float64{2, 3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("snapshot len = %d", len(got))
	}
	for i := range want {
		if got[i][0] != want[i] {
			t.Errorf("snapshot[%d] = %v, want %v", i, got[i][0], want[i])
		}
	}
}

func constant(v float64) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{v, v}
		}
		return len(samples), true
	})
}

func counter() beep.Streamer {
	var n float64
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{n, n}
			n++
		}
		return len(samples), true
	})
}
