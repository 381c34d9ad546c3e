package gesture

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/iburimskiy/particle-wishes/internal/camera"
)

// SamplerOptions configures how often frames are sent for recognition.
type SamplerOptions struct {
	Interval time.Duration // sampling timer period
	Debounce time.Duration // minimum gap between recognition calls
	Timeout  time.Duration // per-call deadline; zero means none
	Width    int           // capture width in pixels
	Height   int           // capture height in pixels
	Quality  int           // JPEG quality, 1-100
	Logger   *log.Logger
}

// DefaultSamplerOptions returns a one second timer, a two second debounce and
// 320x240 frames at quality 60.
func DefaultSamplerOptions() SamplerOptions {
	return SamplerOptions{
		Interval: time.Second,
		Debounce: 2 * time.Second,
		Timeout:  10 * time.Second,
		Width:    320,
		Height:   240,
		Quality:  60,
	}
}

// Sampler runs recognition off the render loop. Tick and Poll are called
// from the loop's goroutine; the capture and model call run on their own.
// At most one call is in flight.
type Sampler struct {
	source camera.Source
	rec    Recognizer
	opts   SamplerOptions
	logger *log.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	results chan Result

	now        time.Duration
	sinceTick  time.Duration
	lastCall   time.Duration
	called     bool
	inFlight   bool
	closedOnce sync.Once
}

// NewSampler returns a sampler reading frames from source.
func NewSampler(source camera.Source, rec Recognizer, opts SamplerOptions) *Sampler {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Sampler{
		source:  source,
		rec:     rec,
		opts:    opts,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		results: make(chan Result, 1),
	}
}

// Tick advances the sampling timer by dt. While active is false the timer is
// stopped and restarts from zero once active again.
func (s *Sampler) Tick(dt time.Duration, active bool) {
	s.now += dt
	if !active {
		s.sinceTick = 0
		return
	}
	s.sinceTick += dt
	if s.sinceTick < s.opts.Interval {
		return
	}
	s.sinceTick %= s.opts.Interval

	if s.inFlight || s.ctx.Err() != nil {
		return
	}
	if s.called && s.now-s.lastCall < s.opts.Debounce {
		return
	}

	s.inFlight = true
	s.called = true
	s.lastCall = s.now
	s.wg.Add(1)
	go s.detect()
}

// Poll returns a finished recognition, if any, without blocking.
func (s *Sampler) Poll() (Result, bool) {
	select {
	case r := <-s.results:
		s.inFlight = false
		return r, true
	default:
		return Result{}, false
	}
}

// InFlight reports whether a recognition call is running.
func (s *Sampler) InFlight() bool { return s.inFlight }

// Close cancels any running call and waits for it to return.
func (s *Sampler) Close() {
	s.closedOnce.Do(func() {
		s.cancel()
		s.wg.Wait()
	})
}

func (s *Sampler) detect() {
	defer s.wg.Done()

	res := s.recognize()
	select {
	case s.results <- res:
	case <-s.ctx.Done():
	}
}

func (s *Sampler) recognize() Result {
	img, err := s.source.Frame()
	if err != nil {
		s.logger.Debug("frame capture failed", "err", err)
		return Neutral()
	}
	data, err := camera.Encode(img, s.opts.Width, s.opts.Height, s.opts.Quality)
	if err != nil {
		s.logger.Debug("frame encode failed", "err", err)
		return Neutral()
	}

	ctx := s.ctx
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}
	return s.rec.Recognize(ctx, data)
}
