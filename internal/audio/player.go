// Package audio plays the sequence chimes and an optional soundtrack, and
// measures the output level for the renderer.
package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/ncruces/zenity"

	"github.com/iburimskiy/particle-wishes/internal/config"
	"github.com/iburimskiy/particle-wishes/internal/sequence"
)

// ErrUnsupported is returned for soundtrack files beep cannot decode.
var ErrUnsupported = errors.New("unsupported audio file")

// Player owns the speaker. Everything it plays goes through one mixer so the
// level tap hears all of it.
type Player struct {
	logger *log.Logger
	sr     beep.SampleRate
	mixer  *beep.Mixer
	tap    *levelTap
	volume float64

	mu    sync.Mutex
	file  *os.File
	track beep.StreamSeekCloser
	ctrl  *beep.Ctrl
	name  string
}

// Open initialises the speaker and starts the mixer.
func Open(volume float64, logger *log.Logger) (*Player, error) {
	if logger == nil {
		logger = log.Default()
	}
	sr := beep.SampleRate(config.SampleRate)
	if err := speaker.Init(sr, sr.N(time.Second/20)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}

	mixer := &beep.Mixer{}
	tap := newLevelTap(mixer, config.VisualRingSize)
	speaker.Play(tap)

	return &Player{logger: logger, sr: sr, mixer: mixer, tap: tap, volume: volume}, nil
}

// StageEntered plays the stage's melody, if it has one.
func (p *Player) StageEntered(s sequence.Stage) {
	notes, ok := melodies[s]
	if !ok {
		return
	}
	p.play(melody(p.sr, notes))
}

func (p *Player) play(s beep.Streamer) {
	speaker.Lock()
	p.mixer.Add(&effects.Volume{Streamer: s, Base: 2, Volume: p.volume})
	speaker.Unlock()
}

// Level returns the smoothed output level in [0,1].
func (p *Player) Level() float64 {
	return p.tap.Level(2048, config.SmoothingFactor)
}

// Track returns the soundtrack's file name, or "" when none is playing.
func (p *Player) Track() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.name
}

// OpenDialog asks for a soundtrack file without blocking the caller.
func (p *Player) OpenDialog() {
	go func() {
		filename, err := zenity.SelectFile(
			zenity.Title("Choose a Soundtrack"),
			zenity.FileFilters{{
				Name:     "Audio",
				Patterns: []string{"*.wav", "*.mp3", "*.flac"},
			}},
		)
		if err != nil {
			if !errors.Is(err, zenity.ErrCanceled) {
				p.logger.Warn("file dialog failed", "err", err)
			}
			return
		}
		if err := p.LoadAndPlay(filename); err != nil {
			p.logger.Error("soundtrack failed", "path", filename, "err", err)
		}
	}()
}

// LoadAndPlay replaces the soundtrack with the file at path.
func (p *Player) LoadAndPlay(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		_ = f.Close()
		return fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("decode %s: %w", path, err)
	}

	var s beep.Streamer = streamer
	if format.SampleRate != p.sr {
		s = beep.Resample(4, format.SampleRate, p.sr, streamer)
	}
	ctrl := &beep.Ctrl{Streamer: s}

	p.stopTrack()

	p.mu.Lock()
	p.file, p.track, p.ctrl, p.name = f, streamer, ctrl, filepath.Base(path)
	p.mu.Unlock()

	p.play(beep.Seq(ctrl, beep.Callback(func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.ctrl == ctrl {
			p.closeTrackLocked()
		}
	})))
	p.logger.Info("soundtrack playing", "file", filepath.Base(path))
	return nil
}

func (p *Player) stopTrack() {
	speaker.Lock()
	p.mu.Lock()
	if p.ctrl != nil {
		p.ctrl.Streamer = nil
	}
	p.closeTrackLocked()
	p.mu.Unlock()
	speaker.Unlock()
}

func (p *Player) closeTrackLocked() {
	if p.track != nil {
		_ = p.track.Close()
		p.track = nil
	}
	if p.file != nil {
		_ = p.file.Close()
		p.file = nil
	}
	p.ctrl = nil
	p.name = ""
}

// Close stops playback and releases the speaker.
func (p *Player) Close() {
	p.stopTrack()
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
}
