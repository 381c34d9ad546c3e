package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wishes.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") = %v", err)
	}
	if cfg.Particles.Count != ParticleCount || cfg.Gesture.Interval != time.Second {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[window]
width = 800

[particles]
count = 1000
color_fade = "250ms"

[gesture]
frame_path = "/tmp/frame.jpg"
debounce = "3s"
threshold = 0.75

[log]
level = "debug"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Window.Width != 800 || cfg.Window.Height != WindowHeight {
		t.Errorf("window = %+v", cfg.Window)
	}
	if cfg.Particles.Count != 1000 || cfg.Particles.Stars != StarCount {
		t.Errorf("particles = %+v", cfg.Particles)
	}
	if cfg.Particles.ColorFade != 250*time.Millisecond {
		t.Errorf("color_fade = %v", cfg.Particles.ColorFade)
	}
	if cfg.Gesture.Debounce != 3*time.Second || cfg.Gesture.Threshold != 0.75 {
		t.Errorf("gesture = %+v", cfg.Gesture)
	}
	if cfg.Gesture.FramePath != "/tmp/frame.jpg" || cfg.Log.Level != "debug" {
		t.Errorf("strings not decoded: %+v", cfg)
	}
}

func TestLoadAPIKeyFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "from-api-key")
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Gesture.APIKey != "from-api-key" {
		t.Errorf("api key = %q", cfg.Gesture.APIKey)
	}

	t.Setenv("GEMINI_API_KEY", "from-gemini")
	cfg, _ = Load("")
	if cfg.Gesture.APIKey != "from-gemini" {
		t.Errorf("GEMINI_API_KEY should win, got %q", cfg.Gesture.APIKey)
	}

	path := writeConfig(t, "[gesture]\napi_key = \"from-file\"\n")
	cfg, _ = Load(path)
	if cfg.Gesture.APIKey != "from-file" {
		t.Errorf("file key should win, got %q", cfg.Gesture.APIKey)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown key", "[window]\ncolour = 3\n"},
		{"bad threshold", "[gesture]\nthreshold = 1.5\n"},
		{"bad quality", "[gesture]\nquality = 0\n"},
		{"bad ease", "[particles]\nease = 2.0\n"},
		{"bad clip", "[camera]\nnear = 10.0\nfar = 5.0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Load err = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Load of a missing file should fail")
	}
}

func TestLoadMalformed(t *testing.T) {
	if _, err := Load(writeConfig(t, "[window\nwidth=")); err == nil {
		t.Error("Load of malformed toml should fail")
	}
}
