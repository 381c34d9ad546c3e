package cli

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/iburimskiy/particle-wishes/internal/config"
	"github.com/iburimskiy/particle-wishes/internal/sequence"
	"github.com/iburimskiy/particle-wishes/internal/shape"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func smallConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "small.toml")
	body := `
[window]
width = 96
height = 64

[particles]
count = 300
stars = 20
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTemplatesCommand(t *testing.T) {
	out, err := execute(t, "templates")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"heart", "cake", "thumbs up", "sequence only"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSnapshotCommand(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "cake.png")
	out, err := execute(t, "snapshot", "-c", smallConfig(t), "-t", "cake", "-n", "5", "-o", dest)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "wrote "+dest) {
		t.Errorf("output = %q", out)
	}
	f, err := os.Open(dest)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 96 || cfg.Height != 64 {
		t.Errorf("png is %dx%d, want 96x64", cfg.Width, cfg.Height)
	}
}

func TestSnapshotStdout(t *testing.T) {
	out, err := execute(t, "snapshot", "-c", smallConfig(t), "-n", "1", "-o", "-")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := png.DecodeConfig(strings.NewReader(out)); err != nil {
		t.Errorf("stdout is not a png: %v", err)
	}
}

func TestSnapshotErrors(t *testing.T) {
	tests := [][]string{
		{"snapshot", "-t", "teapot"},
		{"snapshot", "--color", "pink"},
		{"snapshot", "-n", "-1"},
		{"templates", "-c", "/does/not/exist.toml"},
	}
	for _, args := range tests {
		if _, err := execute(t, args...); err == nil {
			t.Errorf("%v should fail", args)
		}
	}
}

func TestSessionFlagsApply(t *testing.T) {
	cfg := config.Default()
	f := &sessionFlags{frames: "/tmp/f.jpg", soundtrack: "a.mp3", noGesture: true, noAudio: true, seed: 9}
	f.apply(&cfg)
	if cfg.Gesture.FramePath != "/tmp/f.jpg" || cfg.Audio.Soundtrack != "a.mp3" {
		t.Errorf("paths not applied: %+v %+v", cfg.Gesture, cfg.Audio)
	}
	if cfg.Gesture.Enabled || cfg.Audio.Enabled || cfg.Particles.Seed != 9 {
		t.Error("switches not applied")
	}
}

func TestNewSessionDegrades(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	cfg := config.Default()
	cfg.Audio.Enabled = false
	cfg.Gesture.FramePath = filepath.Join(t.TempDir(), "missing.jpg")
	cfg.Particles.Count = 100
	cfg.Particles.Seed = 5

	var logs bytes.Buffer
	logger := newLogger(&logs, log.InfoLevel)
	s, err := newSession(context.Background(), cfg, "spiral", logger)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if s.app.GestureEnabled() {
		t.Error("gesture input should be off without a camera")
	}
	if !strings.Contains(logs.String(), "camera unavailable") {
		t.Errorf("missing camera warning in logs:\n%s", logs.String())
	}
	if s.app.State().Template != shape.Spiral || s.app.Stage() != sequence.Idle {
		t.Errorf("start state = %s %v", s.app.State().Template.Name(), s.app.Stage())
	}
	if s.scene.Cloud().Len() != 100 {
		t.Errorf("cloud has %d particles", s.scene.Cloud().Len())
	}

	if _, err := newSession(context.Background(), cfg, "teapot", logger); err == nil {
		t.Error("unknown start template should fail")
	}
}
