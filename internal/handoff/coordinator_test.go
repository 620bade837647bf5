package handoff

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/photopoint/internal/notify"
	"github.com/example/photopoint/internal/repository"
)

type stubUploadRecords struct {
	upload    *repository.MobileUpload
	createErr error
}

func (s *stubUploadRecords) CreateUpload(ctx context.Context) (*repository.MobileUpload, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.upload, nil
}

type stubNotifier struct {
	mu           sync.Mutex
	updates      chan notify.Update
	subscribeErr error
	unsubscribes int
}

func (s *stubNotifier) Subscribe(ctx context.Context, id uuid.UUID) (<-chan notify.Update, func(), error) {
	if s.subscribeErr != nil {
		return nil, nil, s.subscribeErr
	}
	unsubscribe := func() {
		s.mu.Lock()
		s.unsubscribes++
		s.mu.Unlock()
		close(s.updates)
	}
	return s.updates, unsubscribe, nil
}

func (s *stubNotifier) unsubscribeCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unsubscribes
}

type stubFetcher struct {
	data []byte
	err  error
}

func (s *stubFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.data, nil
}

func newTestCoordinator(records *stubUploadRecords, notifier *stubNotifier, fetcher Fetcher) *Coordinator {
	return NewCoordinator(records, notifier, fetcher, "https://kiosk.example", zap.NewNop())
}

func TestOpenReturnsTokenURL(t *testing.T) {
	id := uuid.New()
	records := &stubUploadRecords{upload: &repository.MobileUpload{ID: id, Status: repository.UploadStatusPending}}
	notifier := &stubNotifier{updates: make(chan notify.Update, 1)}
	c := newTestCoordinator(records, notifier, &stubFetcher{})

	h, err := c.Open(context.Background())
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}
	defer h.Close()

	if h.Token != id {
		t.Fatalf("expected token %s, got %s", id, h.Token)
	}
	want := "https://kiosk.example/mobile-upload/" + id.String()
	if h.URL != want {
		t.Fatalf("expected url %q, got %q", want, h.URL)
	}
}

func TestCompletedUploadResolvesHandoff(t *testing.T) {
	id := uuid.New()
	records := &stubUploadRecords{upload: &repository.MobileUpload{ID: id, Status: repository.UploadStatusPending}}
	notifier := &stubNotifier{updates: make(chan notify.Update, 4)}
	fetcher := &stubFetcher{data: []byte("transferred-image")}
	c := newTestCoordinator(records, notifier, fetcher)

	h, err := c.Open(context.Background())
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}

	// Updates without a completed status or image location are ignored.
	notifier.updates <- notify.Update{Status: repository.UploadStatusPending}
	notifier.updates <- notify.Update{Status: repository.UploadStatusCompleted}
	notifier.updates <- notify.Update{Status: repository.UploadStatusCompleted, ImageURL: "https://storage.example/photo.png"}

	select {
	case result := <-h.Done:
		if result.Err != nil {
			t.Fatalf("expected success, got %v", result.Err)
		}
		if string(result.Data) != "transferred-image" {
			t.Fatalf("unexpected payload: %q", result.Data)
		}
		if result.ImageURL != "https://storage.example/photo.png" {
			t.Fatalf("unexpected image url: %q", result.ImageURL)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("hand-off did not resolve")
	}

	if calls := notifier.unsubscribeCalls(); calls != 1 {
		t.Fatalf("expected subscription released once, got %d", calls)
	}

	// Closing again after resolution must not double-release.
	h.Close()
	if calls := notifier.unsubscribeCalls(); calls != 1 {
		t.Fatalf("expected idempotent close, got %d releases", calls)
	}
}

func TestFetchFailureReportsTransferFailure(t *testing.T) {
	id := uuid.New()
	records := &stubUploadRecords{upload: &repository.MobileUpload{ID: id, Status: repository.UploadStatusPending}}
	notifier := &stubNotifier{updates: make(chan notify.Update, 1)}
	fetcher := &stubFetcher{err: errors.New("storage unreachable")}
	c := newTestCoordinator(records, notifier, fetcher)

	h, err := c.Open(context.Background())
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}

	notifier.updates <- notify.Update{Status: repository.UploadStatusCompleted, ImageURL: "https://storage.example/photo.png"}

	select {
	case result := <-h.Done:
		if !errors.Is(result.Err, ErrTransferFailure) {
			t.Fatalf("expected transfer failure, got %v", result.Err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("hand-off did not resolve")
	}
}

func TestCancelledHandoffReleasesSubscription(t *testing.T) {
	id := uuid.New()
	records := &stubUploadRecords{upload: &repository.MobileUpload{ID: id, Status: repository.UploadStatusPending}}
	notifier := &stubNotifier{updates: make(chan notify.Update)}
	c := newTestCoordinator(records, notifier, &stubFetcher{})

	h, err := c.Open(context.Background())
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}

	h.Close()
	h.Close()

	if calls := notifier.unsubscribeCalls(); calls != 1 {
		t.Fatalf("expected one subscription release, got %d", calls)
	}

	select {
	case _, ok := <-h.Done:
		if ok {
			t.Fatal("cancelled hand-off delivered a result")
		}
	case <-time.After(100 * time.Millisecond):
		// Done stays open but silent; either behavior ends the dialog.
	}
}

func TestOpenFailuresWrapOperation(t *testing.T) {
	c := newTestCoordinator(&stubUploadRecords{createErr: errors.New("db down")}, &stubNotifier{}, &stubFetcher{})
	if _, err := c.Open(context.Background()); err == nil || !strings.Contains(err.Error(), "handoff.open") {
		t.Fatalf("expected wrapped open failure, got %v", err)
	}

	id := uuid.New()
	records := &stubUploadRecords{upload: &repository.MobileUpload{ID: id}}
	c = newTestCoordinator(records, &stubNotifier{subscribeErr: errors.New("redis down")}, &stubFetcher{})
	if _, err := c.Open(context.Background()); err == nil || !strings.Contains(err.Error(), "handoff.subscribe") {
		t.Fatalf("expected wrapped subscribe failure, got %v", err)
	}
}
