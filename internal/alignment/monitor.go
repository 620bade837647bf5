package alignment

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/photopoint/internal/vision"
)

// ErrInputUnavailable indicates no capture device could supply a video frame.
var ErrInputUnavailable = errors.New("input unavailable: no video image")

// Frame is a single encoded video frame. TimestampMs identifies the frame;
// the capture device reuses a timestamp while it has not advanced.
type Frame struct {
	Data        []byte
	TimestampMs int64
}

// FrameSource supplies the most recent frame from the capture device.
type FrameSource interface {
	Frame() (Frame, error)
	Close() error
}

// DefaultSampleInterval paces the feedback loop at roughly video rate.
const DefaultSampleInterval = 33 * time.Millisecond

// Monitor runs the live alignment feedback loop over a frame source. Each
// cycle completes before the next is scheduled, and Stop halts scheduling and
// releases the frame source no matter which transition caused the exit.
type Monitor struct {
	source     FrameSource
	landmarker vision.Landmarker
	interval   time.Duration
	onState    func(TiltState)
	logger     *zap.Logger

	stop     chan struct{}
	stopOnce sync.Once
	started  bool
	done     chan struct{}

	lastTimestamp int64
	lastState     TiltState
}

// NewMonitor constructs a feedback monitor. onState is invoked on every state
// change observed in the frame stream.
func NewMonitor(source FrameSource, landmarker vision.Landmarker, onState func(TiltState), logger *zap.Logger) *Monitor {
	return &Monitor{
		source:        source,
		landmarker:    landmarker,
		interval:      DefaultSampleInterval,
		onState:       onState,
		logger:        logger.Named("alignment_monitor"),
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
		lastTimestamp: -1,
		lastState:     Unknown,
	}
}

// Start launches the feedback loop. It returns immediately.
func (m *Monitor) Start(ctx context.Context) {
	m.started = true
	go m.run(ctx)
}

// Stop cancels the loop and releases the frame source. It is idempotent and
// blocks until the in-flight cycle has finished.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stop)
	})
	if m.started {
		<-m.done
	}
}

func (m *Monitor) run(ctx context.Context) {
	defer close(m.done)
	defer func() {
		if err := m.source.Close(); err != nil {
			m.logger.Warn("failed to release frame source", zap.Error(err))
		}
	}()

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ctx.Done():
			return
		case <-timer.C:
			m.cycle(ctx)
			timer.Reset(m.interval)
		}
	}
}

// cycle samples one frame. Duplicate timestamps are skipped: the capture
// device has not advanced, so the previous classification still holds.
func (m *Monitor) cycle(ctx context.Context) {
	frame, err := m.source.Frame()
	if err != nil {
		m.report(Unknown)
		return
	}
	if frame.TimestampMs == m.lastTimestamp {
		return
	}
	m.lastTimestamp = frame.TimestampMs

	points, found, err := m.landmarker.DetectLandmarks(ctx, frame.Data, frame.TimestampMs)
	if err != nil {
		m.logger.Warn("landmark detection failed", zap.Error(err))
		m.report(Unknown)
		return
	}
	if !found || len(points) <= vision.RightIrisIndex {
		m.report(Unknown)
		return
	}

	sample := Sample{
		LeftEyeY:  points[vision.LeftIrisIndex].Y,
		RightEyeY: points[vision.RightIrisIndex].Y,
	}
	m.report(Classify(sample))
}

func (m *Monitor) report(state TiltState) {
	if state == m.lastState {
		return
	}
	m.lastState = state
	if m.onState != nil {
		m.onState(state)
	}
}
