package cli

import (
	"context"
	"errors"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/iburimskiy/particle-wishes/internal/anim"
	"github.com/iburimskiy/particle-wishes/internal/app"
	"github.com/iburimskiy/particle-wishes/internal/audio"
	"github.com/iburimskiy/particle-wishes/internal/camera"
	"github.com/iburimskiy/particle-wishes/internal/config"
	"github.com/iburimskiy/particle-wishes/internal/gesture"
	"github.com/iburimskiy/particle-wishes/internal/shape"
)

// sessionFlags override the config for interactive commands.
type sessionFlags struct {
	template   string
	frames     string
	soundtrack string
	noGesture  bool
	noAudio    bool
	seed       uint64
}

func addSessionFlags(fs *pflag.FlagSet, f *sessionFlags) {
	fs.StringVarP(&f.template, "template", "t", "", "starting template")
	fs.StringVar(&f.frames, "frames", "", "camera still kept fresh by an external grabber")
	fs.StringVar(&f.soundtrack, "soundtrack", "", "audio file to play (wav, mp3, flac)")
	fs.BoolVar(&f.noGesture, "no-gesture", false, "disable gesture recognition")
	fs.BoolVar(&f.noAudio, "no-audio", false, "disable sound")
	fs.Uint64Var(&f.seed, "seed", 0, "random seed; 0 picks one")
}

func (f *sessionFlags) apply(cfg *config.Config) {
	if f.frames != "" {
		cfg.Gesture.FramePath = f.frames
	}
	if f.soundtrack != "" {
		cfg.Audio.Soundtrack = f.soundtrack
	}
	if f.noGesture {
		cfg.Gesture.Enabled = false
	}
	if f.noAudio {
		cfg.Audio.Enabled = false
	}
	if f.seed != 0 {
		cfg.Particles.Seed = f.seed
	}
}

// session is everything an interactive renderer drives.
type session struct {
	app    *app.App
	scene  *anim.Scene
	player *audio.Player
}

// newSession wires the app. Missing camera, key or audio device degrade the
// session instead of failing it.
func newSession(ctx context.Context, cfg config.Config, start string, logger *log.Logger) (*session, error) {
	var initial shape.Template
	if start != "" {
		t, err := shape.Lookup(start)
		if err != nil {
			return nil, err
		}
		initial = t
	}

	rng := newRand(cfg.Particles.Seed)
	s := &session{}

	var cues app.Cues
	if cfg.Audio.Enabled {
		p, err := audio.Open(cfg.Audio.Volume, logger)
		if err != nil {
			logger.Warn("audio unavailable", "err", err)
		} else {
			s.player = p
			cues = p
			if cfg.Audio.Soundtrack != "" {
				if err := p.LoadAndPlay(cfg.Audio.Soundtrack); err != nil {
					logger.Warn("soundtrack not loaded", "path", cfg.Audio.Soundtrack, "err", err)
				}
			}
		}
	}

	s.app = app.New(app.Options{
		Threshold: cfg.Gesture.Threshold,
		Sampler:   newSampler(ctx, cfg.Gesture, logger),
		Cues:      cues,
		Logger:    logger,
		Rand:      rng,
	})
	if initial != nil {
		s.app.SelectTemplate(initial)
	}
	s.scene = anim.NewScene(anim.OptionsFrom(cfg.Particles), rng)
	return s, nil
}

func newSampler(ctx context.Context, cfg config.Gesture, logger *log.Logger) *gesture.Sampler {
	if !cfg.Enabled {
		logger.Debug("gesture input disabled")
		return nil
	}
	source, err := camera.Open(cfg.FramePath)
	if err != nil {
		logger.Warn("camera unavailable, gesture input off", "err", err)
		return nil
	}
	rec, err := gesture.NewGemini(ctx, cfg.APIKey, cfg.Model, logger)
	if err != nil {
		if errors.Is(err, gesture.ErrNoAPIKey) {
			logger.Warn("no GEMINI_API_KEY, gesture input off")
		} else {
			logger.Warn("gesture model unavailable", "err", err)
		}
		return nil
	}
	logger.Info("watching for gestures", "frames", source.Path(), "model", cfg.Model)
	return gesture.NewSampler(source, rec, gesture.SamplerOptions{
		Interval: cfg.Interval,
		Debounce: cfg.Debounce,
		Timeout:  cfg.Timeout,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Quality:  cfg.Quality,
		Logger:   logger,
	})
}

// Close stops the sampler and the audio.
func (s *session) Close() {
	s.app.Close()
	if s.player != nil {
		s.player.Close()
	}
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}
