package compose

import (
	"context"
	"errors"
	"image"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/photopoint/internal/vision"
)

// DebounceInterval coalesces bursts of option changes into one recomputation.
const DebounceInterval = 100 * time.Millisecond

// Result is a finished composition delivered to the scheduler's listener.
type Result struct {
	Image   image.Image
	Options Options
}

// Scheduler debounces and serializes composition requests. A newer request
// supersedes an older unfinished one: the stale run is either never started
// or its result is dropped on delivery. Supersession uses a generation
// counter, not flags.
type Scheduler struct {
	composer *Composer
	logger   *zap.Logger

	onResult   func(Result)
	onDisabled func(error)

	mu       sync.Mutex
	gen      uint64
	timer    *time.Timer
	pending  bool
	debounce time.Duration
}

// NewScheduler wraps a composer. onResult receives every non-superseded
// composition; onDisabled fires when an isolation failure auto-disables
// background removal for the session.
func NewScheduler(composer *Composer, onResult func(Result), onDisabled func(error), logger *zap.Logger) *Scheduler {
	return &Scheduler{
		composer:   composer,
		logger:     logger.Named("compose_scheduler"),
		onResult:   onResult,
		onDisabled: onDisabled,
		debounce:   DebounceInterval,
	}
}

// Schedule queues a composition for src with opts, replacing any not yet
// finished request. It returns immediately. The run outlives the caller, so
// it is detached from ctx's cancellation; a request context that dies when
// its handler returns must not abort the composition it asked for.
func (s *Scheduler) Schedule(ctx context.Context, src *SourceImage, opts Options) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runCtx := context.WithoutCancel(ctx)
	s.gen++
	gen := s.gen
	s.pending = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() {
		s.run(runCtx, gen, src, opts)
	})
}

// Busy reports whether a composition is scheduled or in flight. The
// orchestrator refuses the Edit to Payment transition while this is true.
func (s *Scheduler) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Cancel drops any scheduled or in-flight request without delivering it.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pending = false
}

func (s *Scheduler) run(ctx context.Context, gen uint64, src *SourceImage, opts Options) {
	if s.superseded(gen) {
		return
	}

	img, err := s.composer.Compose(ctx, src, opts)
	if err != nil && errors.Is(err, vision.ErrInferenceFailure) && opts.RemoveBackground {
		// Isolation failed: report, disable the option for this session, and
		// recompose from the raw source. The customer keeps an image either way.
		s.logger.Warn("background isolation failed, recomposing without it", zap.Error(err))
		if s.onDisabled != nil {
			s.onDisabled(err)
		}
		opts = opts.WithRemoveBackground(false)
		img, err = s.composer.Compose(ctx, src, opts)
	}
	if err != nil {
		s.logger.Error("composition failed", zap.Error(err))
		s.finish(gen)
		return
	}

	if s.superseded(gen) {
		return
	}
	s.finish(gen)
	if s.onResult != nil {
		s.onResult(Result{Image: img, Options: opts})
	}
}

func (s *Scheduler) superseded(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen != s.gen
}

func (s *Scheduler) finish(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.gen {
		s.pending = false
	}
}
