package alignment

import (
	"sync"
	"time"

	"github.com/example/photopoint/internal/logging"
)

// Countdown and delivery pacing for the shutter. The settle delay exists so
// the customer sees the final frame before the screen changes.
const (
	CountdownStart = 3
	CountdownTick  = time.Second
	SettleDelay    = 500 * time.Millisecond
)

// Capture runs the shutter sequence: a CountdownStart-tick countdown, a single
// still frame grabbed from the source at zero, then delivery after the settle
// delay. onTick reports each remaining count. onDone receives either the
// encoded frame or ErrInputUnavailable when no video frame can be produced;
// it is never silently skipped unless the capture is cancelled.
type Capture struct {
	source    FrameSource
	tick      time.Duration
	settle    time.Duration
	cancel    chan struct{}
	cancelled sync.Once
}

// NewCapture prepares a shutter sequence over the given frame source.
func NewCapture(source FrameSource) *Capture {
	return &Capture{
		source: source,
		tick:   CountdownTick,
		settle: SettleDelay,
		cancel: make(chan struct{}),
	}
}

// Start begins the countdown in the background.
func (c *Capture) Start(onTick func(remaining int), onDone func([]byte, error)) {
	go c.run(onTick, onDone)
}

// Cancel aborts the sequence at any point. A cancelled capture delivers no
// callback; nothing happened.
func (c *Capture) Cancel() {
	c.cancelled.Do(func() {
		close(c.cancel)
	})
}

func (c *Capture) run(onTick func(int), onDone func([]byte, error)) {
	timer := time.NewTimer(c.tick)
	defer timer.Stop()

	for remaining := CountdownStart; remaining > 0; remaining-- {
		if onTick != nil {
			onTick(remaining)
		}
		timer.Reset(c.tick)
		select {
		case <-c.cancel:
			return
		case <-timer.C:
		}
	}

	frame, err := c.source.Frame()
	if err != nil || len(frame.Data) == 0 {
		select {
		case <-c.cancel:
			return
		default:
		}
		onDone(nil, logging.NewOperationError("capture.grab_frame", "", ErrInputUnavailable))
		return
	}

	timer.Reset(c.settle)
	select {
	case <-c.cancel:
		return
	case <-timer.C:
	}
	onDone(frame.Data, nil)
}
