package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	WindowWidth  = 1024
	WindowHeight = 640
	WindowTitle  = "Celestial Wishes"
	TPS          = 60

	// Button dimensions
	ButtonWidth  = 84
	ButtonHeight = 32
	ButtonGap    = 8
	ButtonY      = 24

	// Scene parameters
	ParticleCount = 8000
	StarCount     = 2000
	StarSpread    = 400
	PointSize     = 0.5
	StarSize      = 0.1
	Opacity       = 0.8
	CameraFOV     = 75
	CameraZ       = 60
	ColorFade     = 400 * time.Millisecond

	// Gesture sampling
	GestureInterval  = time.Second
	GestureDebounce  = 2 * time.Second
	GestureThreshold = 0.6
	CaptureWidth     = 320
	CaptureHeight    = 240
	CaptureQuality   = 60

	// Audio
	SampleRate      = 44100
	VisualRingSize  = 8192
	SmoothingFactor = 0.6
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the runtime configuration. Zero-valued fields in a file keep the
// defaults from Default.
type Config struct {
	Window    Window    `toml:"window"`
	Particles Particles `toml:"particles"`
	Camera    Camera    `toml:"camera"`
	Gesture   Gesture   `toml:"gesture"`
	Audio     Audio     `toml:"audio"`
	Log       Log       `toml:"log"`
}

type Window struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
	TPS    int    `toml:"tps"`
}

type Particles struct {
	Count         int           `toml:"count"`
	Stars         int           `toml:"stars"`
	StarSpread    float64       `toml:"star_spread"`
	Ease          float64       `toml:"ease"`
	Turbulence    float64       `toml:"turbulence"`
	Spin          float64       `toml:"spin"`
	SwayAmplitude float64       `toml:"sway_amplitude"`
	SwayFrequency float64       `toml:"sway_frequency"`
	StarSpin      float64       `toml:"star_spin"`
	PointSize     float64       `toml:"point_size"`
	StarSize      float64       `toml:"star_size"`
	Opacity       float64       `toml:"opacity"`
	ColorFade     time.Duration `toml:"color_fade"`
	Seed          uint64        `toml:"seed"`
}

type Camera struct {
	FOV      float64 `toml:"fov"`
	Distance float64 `toml:"distance"`
	Near     float64 `toml:"near"`
	Far      float64 `toml:"far"`
}

// Gesture configures webcam sampling and the recognition model.
type Gesture struct {
	Enabled   bool          `toml:"enabled"`
	FramePath string        `toml:"frame_path"`
	APIKey    string        `toml:"api_key"`
	Model     string        `toml:"model"`
	Interval  time.Duration `toml:"interval"`
	Debounce  time.Duration `toml:"debounce"`
	Timeout   time.Duration `toml:"timeout"`
	Threshold float64       `toml:"threshold"`
	Width     int           `toml:"width"`
	Height    int           `toml:"height"`
	Quality   int           `toml:"quality"`
}

type Audio struct {
	Enabled    bool    `toml:"enabled"`
	Soundtrack string  `toml:"soundtrack"`
	Volume     float64 `toml:"volume"`
}

type Log struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Window: Window{Width: WindowWidth, Height: WindowHeight, Title: WindowTitle, TPS: TPS},
		Particles: Particles{
			Count:         ParticleCount,
			Stars:         StarCount,
			StarSpread:    StarSpread,
			Ease:          0.05,
			Turbulence:    0.02,
			Spin:          0.005,
			SwayAmplitude: 0.1,
			SwayFrequency: 0.5,
			StarSpin:      0.0005,
			PointSize:     PointSize,
			StarSize:      StarSize,
			Opacity:       Opacity,
			ColorFade:     ColorFade,
		},
		Camera: Camera{FOV: CameraFOV, Distance: CameraZ, Near: 0.1, Far: 1000},
		Gesture: Gesture{
			Enabled:   true,
			Interval:  GestureInterval,
			Debounce:  GestureDebounce,
			Timeout:   10 * time.Second,
			Threshold: GestureThreshold,
			Width:     CaptureWidth,
			Height:    CaptureHeight,
			Quality:   CaptureQuality,
		},
		Audio: Audio{Enabled: true, Volume: 0},
		Log:   Log{Level: "info"},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
// GEMINI_API_KEY, then API_KEY, fill in a missing api key.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return Config{}, fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(keys, ", "))
		}
	}
	if cfg.Gesture.APIKey == "" {
		cfg.Gesture.APIKey = firstEnv("GEMINI_API_KEY", "API_KEY")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first out-of-range setting.
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Window.TPS <= 0:
		return fmt.Errorf("%w: tps %d", ErrInvalid, c.Window.TPS)
	case c.Particles.Count < 0 || c.Particles.Stars < 0:
		return fmt.Errorf("%w: negative particle count", ErrInvalid)
	case c.Particles.Ease < 0 || c.Particles.Ease > 1:
		return fmt.Errorf("%w: ease %v outside [0,1]", ErrInvalid, c.Particles.Ease)
	case c.Particles.Opacity < 0 || c.Particles.Opacity > 1:
		return fmt.Errorf("%w: opacity %v outside [0,1]", ErrInvalid, c.Particles.Opacity)
	case c.Camera.FOV <= 0 || c.Camera.FOV >= 180:
		return fmt.Errorf("%w: fov %v", ErrInvalid, c.Camera.FOV)
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return fmt.Errorf("%w: clip planes %v..%v", ErrInvalid, c.Camera.Near, c.Camera.Far)
	case c.Gesture.Interval <= 0 || c.Gesture.Debounce < 0:
		return fmt.Errorf("%w: gesture timing %v/%v", ErrInvalid, c.Gesture.Interval, c.Gesture.Debounce)
	case c.Gesture.Threshold < 0 || c.Gesture.Threshold > 1:
		return fmt.Errorf("%w: threshold %v outside [0,1]", ErrInvalid, c.Gesture.Threshold)
	case c.Gesture.Width <= 0 || c.Gesture.Height <= 0:
		return fmt.Errorf("%w: capture size %dx%d", ErrInvalid, c.Gesture.Width, c.Gesture.Height)
	case c.Gesture.Quality < 1 || c.Gesture.Quality > 100:
		return fmt.Errorf("%w: jpeg quality %d", ErrInvalid, c.Gesture.Quality)
	}
	return nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
