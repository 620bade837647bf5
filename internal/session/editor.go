package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/example/photopoint/internal/compose"
)

// Editor holds the edit screen's enhancement state: the immutable option
// value, the latest finalized image, and the debounced scheduler that keeps
// the two consistent. Every option change produces a new Options value and a
// new composition request; options are never mutated mid-pipeline.
type Editor struct {
	scheduler Scheduler
	logger    *zap.Logger

	mu      sync.Mutex
	source  *compose.SourceImage
	options compose.Options
	final   []byte
}

// Scheduler is the slice of the composition scheduler the editor drives.
type Scheduler interface {
	Schedule(ctx context.Context, src *compose.SourceImage, opts compose.Options)
	Busy() bool
	Cancel()
}

// NewEditor wires an editor over a composition scheduler. Install the
// editor's HandleResult and HandleIsolationFailure on the scheduler's
// callbacks.
func NewEditor(scheduler Scheduler, logger *zap.Logger) *Editor {
	return &Editor{
		scheduler: scheduler,
		logger:    logger.Named("editor"),
		options:   compose.DefaultOptions(),
	}
}

// SetSource installs a new photo and kicks off the initial composition with
// the default enhancement set.
func (e *Editor) SetSource(ctx context.Context, src *compose.SourceImage) {
	e.mu.Lock()
	e.source = src
	e.options = compose.DefaultOptions()
	e.final = nil
	opts := e.options
	e.mu.Unlock()
	e.scheduler.Schedule(ctx, src, opts)
}

// Options returns the current enhancement value.
func (e *Editor) Options() compose.Options {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.options
}

// SetRemoveBackground toggles background removal and recomposes.
func (e *Editor) SetRemoveBackground(ctx context.Context, enabled bool) {
	e.update(ctx, func(o compose.Options) compose.Options {
		return o.WithRemoveBackground(enabled)
	})
}

// SetLightingCorrection toggles lighting correction and recomposes.
func (e *Editor) SetLightingCorrection(ctx context.Context, enabled bool) {
	e.update(ctx, func(o compose.Options) compose.Options {
		return o.WithLightingCorrection(enabled)
	})
}

// SetOverlay replaces the garment overlay and recomposes.
func (e *Editor) SetOverlay(ctx context.Context, overlay *compose.OverlaySpec) {
	e.update(ctx, func(o compose.Options) compose.Options {
		return o.WithOverlay(overlay)
	})
}

func (e *Editor) update(ctx context.Context, apply func(compose.Options) compose.Options) {
	e.mu.Lock()
	src := e.source
	if src == nil {
		e.mu.Unlock()
		return
	}
	e.options = apply(e.options)
	opts := e.options
	e.mu.Unlock()
	e.scheduler.Schedule(ctx, src, opts)
}

// HandleResult records a finished composition. Install as the scheduler's
// result callback. The editor's own options stay authoritative: a delivered
// result never overwrites a toggle applied after it was scheduled.
func (e *Editor) HandleResult(result compose.Result) {
	data, err := compose.EncodePNG(result.Image)
	if err != nil {
		e.logger.Error("failed to encode finalized image", zap.Error(err))
		return
	}
	e.mu.Lock()
	e.final = data
	e.mu.Unlock()
}

// HandleIsolationFailure pins background removal off for the rest of the
// session after the segmenter failed. Install as the scheduler's disabled
// callback.
func (e *Editor) HandleIsolationFailure(err error) {
	e.mu.Lock()
	e.options = e.options.WithRemoveBackground(false)
	e.mu.Unlock()
	e.logger.Warn("background removal disabled for this session", zap.Error(err))
}

// Final returns the latest finalized image, or nil when no composition has
// completed yet (the raw photo is the fallback).
func (e *Editor) Final() []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.final
}

// Busy reports whether a composition is pending or running.
func (e *Editor) Busy() bool {
	return e.scheduler.Busy()
}

// Reset drops the working state when the session resets.
func (e *Editor) Reset() {
	e.scheduler.Cancel()
	e.mu.Lock()
	e.source = nil
	e.final = nil
	e.options = compose.DefaultOptions()
	e.mu.Unlock()
}
