package vision

import (
	"context"
	"sync"
)

// Lazy is a process-wide, lazily initialized capability handle. Creating the
// inference backend is expensive, so the first caller pays the cost and every
// later caller shares the same instance. The handle is injected rather than
// kept as package state so tests can substitute a fake.
type Lazy struct {
	dial func(ctx context.Context) (Capability, error)

	mu   sync.Mutex
	cap  Capability
	done bool
}

// NewLazy wraps a dial function in a shared, initialize-once handle.
func NewLazy(dial func(ctx context.Context) (Capability, error)) *Lazy {
	return &Lazy{dial: dial}
}

// Get returns the shared capability, dialing on first use. A failed dial is
// not cached; the next caller retries.
func (l *Lazy) Get(ctx context.Context) (Capability, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.done {
		return l.cap, nil
	}
	capability, err := l.dial(ctx)
	if err != nil {
		return nil, err
	}
	l.cap = capability
	l.done = true
	return l.cap, nil
}

// DetectLandmarks implements Landmarker against the shared instance.
func (l *Lazy) DetectLandmarks(ctx context.Context, frame []byte, timestampMs int64) ([]Point, bool, error) {
	capability, err := l.Get(ctx)
	if err != nil {
		return nil, false, err
	}
	return capability.DetectLandmarks(ctx, frame, timestampMs)
}

// Segment implements Segmenter against the shared instance.
func (l *Lazy) Segment(ctx context.Context, image []byte) (*Mask, error) {
	capability, err := l.Get(ctx)
	if err != nil {
		return nil, err
	}
	return capability.Segment(ctx, image)
}
