package alignment

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/example/photopoint/internal/logging"
)

type captureResult struct {
	frame []byte
	err   error
}

func runCapture(t *testing.T, source FrameSource) ([]int, captureResult) {
	t.Helper()

	c := NewCapture(source)
	c.tick = time.Millisecond
	c.settle = time.Millisecond

	var (
		mu    sync.Mutex
		ticks []int
	)
	done := make(chan captureResult, 1)
	c.Start(
		func(remaining int) {
			mu.Lock()
			ticks = append(ticks, remaining)
			mu.Unlock()
		},
		func(frame []byte, err error) {
			done <- captureResult{frame: frame, err: err}
		},
	)

	select {
	case result := <-done:
		mu.Lock()
		defer mu.Unlock()
		return ticks, result
	case <-time.After(2 * time.Second):
		t.Fatal("capture did not complete")
		return nil, captureResult{}
	}
}

func TestCaptureCountsDownAndDeliversFrame(t *testing.T) {
	source := &scriptedSource{frames: []Frame{{Data: []byte("still"), TimestampMs: 1}}}

	ticks, result := runCapture(t, source)

	if len(ticks) != CountdownStart {
		t.Fatalf("expected %d countdown ticks, got %v", CountdownStart, ticks)
	}
	for i, remaining := range ticks {
		if remaining != CountdownStart-i {
			t.Fatalf("expected descending countdown, got %v", ticks)
		}
	}
	if result.err != nil {
		t.Fatalf("expected frame, got error: %v", result.err)
	}
	if string(result.frame) != "still" {
		t.Fatalf("unexpected frame payload: %q", result.frame)
	}
}

func TestCaptureReportsMissingInput(t *testing.T) {
	source := &scriptedSource{err: errors.New("device gone")}

	_, result := runCapture(t, source)

	if result.err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(result.err, ErrInputUnavailable) {
		t.Fatalf("expected ErrInputUnavailable, got %v", result.err)
	}
	var opErr *logging.OperationError
	if !errors.As(result.err, &opErr) {
		t.Fatalf("expected OperationError, got %T", result.err)
	}
	if result.frame != nil {
		t.Fatalf("expected no frame on failure, got %d bytes", len(result.frame))
	}
}

func TestCaptureTreatsEmptyFrameAsMissingInput(t *testing.T) {
	source := &scriptedSource{frames: []Frame{{Data: nil, TimestampMs: 1}}}

	_, result := runCapture(t, source)

	if !errors.Is(result.err, ErrInputUnavailable) {
		t.Fatalf("expected ErrInputUnavailable for empty frame, got %v", result.err)
	}
}

func TestCancelledCaptureDeliversNothing(t *testing.T) {
	source := &scriptedSource{frames: []Frame{{Data: []byte("still"), TimestampMs: 1}}}

	c := NewCapture(source)
	c.tick = 10 * time.Millisecond
	c.settle = time.Millisecond

	done := make(chan captureResult, 1)
	c.Start(nil, func(frame []byte, err error) {
		done <- captureResult{frame: frame, err: err}
	})

	c.Cancel()
	c.Cancel()

	select {
	case result := <-done:
		t.Fatalf("cancelled capture delivered a result: %+v", result)
	case <-time.After(100 * time.Millisecond):
	}
}
