package visual

import (
	"math/rand/v2"
	"testing"

	"github.com/iburimskiy/particle-wishes/internal/shape"
)

func TestPaletteRoundTripsHex(t *testing.T) {
	want := []string{"#ff69b4", "#dda0dd", "#ff1493", "#e6e6fa", "#fff0f5", "#ffd700", "#00ffff", "#ff4500"}
	if len(Palette) != len(want) {
		t.Fatalf("palette has %d colors, want %d", len(Palette), len(want))
	}
	for i, c := range Palette {
		if got := c.Hex(); got != want[i] {
			t.Errorf("Palette[%d].Hex() = %s, want %s", i, got, want[i])
		}
	}
}

func TestMustHexPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on malformed color")
		}
	}()
	MustHex("pink")
}

func TestChoose(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	s := Initial()

	s.Choose(shape.Blast, rng)
	if s.Template != shape.Blast || s.Expansion != 2.5 {
		t.Errorf("after Choose(Blast) = %+v, want blast at 2.5", s)
	}

	s.Choose(shape.Flower, rng)
	if s.Template != shape.Flower || s.Expansion != 1 {
		t.Errorf("after Choose(Flower) = %+v, want flower at 1", s)
	}

	found := false
	for _, c := range Palette {
		if c == s.Color {
			found = true
		}
	}
	if !found {
		t.Errorf("color %s not from palette", s.Color.Hex())
	}
}
