package gesture

import (
	"bytes"
	"context"
	"errors"
	"image"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"google.golang.org/genai"

	"github.com/iburimskiy/particle-wishes/internal/shape"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Gesture
	}{
		{"heart", Heart},
		{" Peace ", Peace},
		{"FIST", Fist},
		{"thumbs  up", ThumbsUp},
		{"thumbs-up", ThumbsUp},
		{"open", Open},
		{"point", Point},
		{"wave", None},
		{"", None},
		{"none", None},
	}
	for _, tt := range tests {
		if got := Parse(tt.in); got != tt.want {
			t.Errorf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTemplateMapping(t *testing.T) {
	want := map[Gesture]shape.Template{
		Heart:    shape.Heart,
		Peace:    shape.Flower,
		Fist:     shape.Blast,
		Open:     shape.Fireworks,
		Point:    shape.Design,
		ThumbsUp: shape.Spiral,
	}
	for g, tmpl := range want {
		got, ok := Template(g)
		if !ok || got != tmpl {
			t.Errorf("Template(%q) = %v, %v; want %s", g, got, ok, tmpl.Name())
		}
	}
	if _, ok := Template(None); ok {
		t.Error("None should not map to a template")
	}
	if len(Known) != len(want) {
		t.Errorf("Known has %d gestures, want %d", len(Known), len(want))
	}
}

func TestActionable(t *testing.T) {
	tests := []struct {
		r    Result
		want bool
	}{
		{Result{Fist, 0.59}, false},
		{Result{Fist, 0.6}, false},
		{Result{Fist, 0.9}, true},
		{Result{None, 1}, false},
		{Result{Gesture("wave"), 1}, false},
	}
	for _, tt := range tests {
		if got := tt.r.Actionable(0.6); got != tt.want {
			t.Errorf("%+v.Actionable(0.6) = %v, want %v", tt.r, got, tt.want)
		}
	}
}

func TestDecodeResult(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Result
		wantErr bool
	}{
		{"plain", `{"gesture":"fist","confidence":0.9}`, Result{Fist, 0.9}, false},
		{"fenced", "```json\n{\"gesture\":\"peace\",\"confidence\":0.7}\n```", Result{Peace, 0.7}, false},
		{"clamped", `{"gesture":"open","confidence":1.7}`, Result{Open, 1}, false},
		{"unknown label", `{"gesture":"wave","confidence":0.9}`, Result{None, 0.9}, false},
		{"missing confidence", `{"gesture":"fist"}`, Result{}, true},
		{"garbage", `not json`, Result{}, true},
		{"empty", ``, Result{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeResult(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

type fakeGenerator struct {
	text  string
	err   error
	model string
	parts int
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	if len(contents) > 0 {
		f.parts = len(contents[0].Parts)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: genai.NewContentFromText(f.text, genai.RoleModel)}},
	}, nil
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(&bytes.Buffer{}, log.Options{Level: log.DebugLevel})
}

func TestGeminiRecognize(t *testing.T) {
	gen := &fakeGenerator{text: `{"gesture":"thumbs up","confidence":0.82}`}
	g := newGemini(gen, "", quietLogger())

	got := g.Recognize(context.Background(), []byte{0xff, 0xd8})

	if got != (Result{ThumbsUp, 0.82}) {
		t.Errorf("Recognize = %+v", got)
	}
	if gen.model != DefaultModel {
		t.Errorf("model = %q, want %q", gen.model, DefaultModel)
	}
	if gen.parts != 2 {
		t.Errorf("request had %d parts, want image and prompt", gen.parts)
	}
}

func TestGeminiDegradesToNeutral(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
	}{
		{"network", &fakeGenerator{err: errors.New("connection reset")}},
		{"quota", &fakeGenerator{err: errors.New("429 resource exhausted")}},
		{"malformed", &fakeGenerator{text: `{"gesture": 12}`}},
		{"empty", &fakeGenerator{text: ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGemini(tt.gen, "test-model", quietLogger())
			if got := g.Recognize(context.Background(), nil); got != Neutral() {
				t.Errorf("Recognize = %+v, want neutral", got)
			}
		})
	}
}

func TestNewGeminiRequiresKey(t *testing.T) {
	if _, err := NewGemini(context.Background(), "", "", nil); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("err = %v, want ErrNoAPIKey", err)
	}
}

type stillSource struct{ err error }

func (s stillSource) Frame() (image.Image, error) {
	if s.err != nil {
		return nil, s.err
	}
	return image.NewRGBA(image.Rect(0, 0, 64, 48)), nil
}

func countingRecognizer(calls *atomic.Int32, r Result) Recognizer {
	return RecognizerFunc(func(context.Context, []byte) Result {
		calls.Add(1)
		return r
	})
}

func waitResult(t *testing.T, s *Sampler) Result {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if r, ok := s.Poll(); ok {
			return r
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("no recognition result")
	return Result{}
}

func testOptions() SamplerOptions {
	opts := DefaultSamplerOptions()
	opts.Logger = quietLogger()
	return opts
}

func TestSamplerIntervalAndDebounce(t *testing.T) {
	var calls atomic.Int32
	s := NewSampler(stillSource{}, countingRecognizer(&calls, Result{Fist, 0.9}), testOptions())
	defer s.Close()

	s.Tick(500*time.Millisecond, true)
	if s.InFlight() {
		t.Fatal("call started before the first interval")
	}

	s.Tick(500*time.Millisecond, true)
	if !s.InFlight() {
		t.Fatal("call should start after one interval")
	}
	if got := waitResult(t, s); got != (Result{Fist, 0.9}) {
		t.Errorf("result = %+v", got)
	}

	// One second later the debounce still holds.
	s.Tick(time.Second, true)
	if s.InFlight() {
		t.Error("call started inside the debounce window")
	}

	s.Tick(time.Second, true)
	if !s.InFlight() {
		t.Error("call should start once the debounce has passed")
	}
	waitResult(t, s)

	if n := calls.Load(); n != 2 {
		t.Errorf("recognizer called %d times, want 2", n)
	}
}

func TestSamplerInactive(t *testing.T) {
	var calls atomic.Int32
	s := NewSampler(stillSource{}, countingRecognizer(&calls, Result{Heart, 1}), testOptions())
	defer s.Close()

	s.Tick(900*time.Millisecond, true)
	s.Tick(10*time.Second, false)
	s.Tick(900*time.Millisecond, true)
	if s.InFlight() {
		t.Error("timer should restart after being inactive")
	}
	s.Tick(100*time.Millisecond, true)
	if !s.InFlight() {
		t.Error("call should start a full interval after reactivation")
	}
	waitResult(t, s)
}

func TestSamplerSingleFlight(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	rec := RecognizerFunc(func(ctx context.Context, _ []byte) Result {
		calls.Add(1)
		select {
		case <-release:
		case <-ctx.Done():
		}
		return Result{Open, 0.8}
	})
	s := NewSampler(stillSource{}, rec, testOptions())
	defer s.Close()

	for i := 0; i < 5; i++ {
		s.Tick(3*time.Second, true)
	}
	close(release)
	waitResult(t, s)
	if n := calls.Load(); n != 1 {
		t.Errorf("recognizer called %d times while in flight, want 1", n)
	}
}

func TestSamplerCaptureFailureIsNeutral(t *testing.T) {
	var calls atomic.Int32
	s := NewSampler(stillSource{err: errors.New("device gone")}, countingRecognizer(&calls, Result{Heart, 1}), testOptions())
	defer s.Close()

	s.Tick(time.Second, true)
	if got := waitResult(t, s); got != Neutral() {
		t.Errorf("result = %+v, want neutral", got)
	}
	if calls.Load() != 0 {
		t.Error("recognizer should not run without a frame")
	}
}

func TestSamplerCloseCancelsCall(t *testing.T) {
	started := make(chan struct{})
	rec := RecognizerFunc(func(ctx context.Context, _ []byte) Result {
		close(started)
		<-ctx.Done()
		return Neutral()
	})
	s := NewSampler(stillSource{}, rec, testOptions())
	s.Tick(time.Second, true)
	<-started

	done := make(chan struct{})
	go func() {
		s.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not cancel the in-flight call")
	}

	s.Tick(5*time.Second, true)
	if s.InFlight() && s.ctx.Err() == nil {
		t.Error("closed sampler should not start calls")
	}
}
