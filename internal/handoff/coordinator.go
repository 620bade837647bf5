// Package handoff coordinates the phone-to-kiosk photo transfer: the kiosk
// opens a token-addressed upload record, shows the token as a scannable URL,
// and waits for the record's change notification instead of polling.
package handoff

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/photopoint/internal/logging"
	"github.com/example/photopoint/internal/notify"
	"github.com/example/photopoint/internal/repository"
)

// ErrTransferFailure indicates an invalid hand-off token or a lost record
// write race.
var ErrTransferFailure = errors.New("transfer failure")

// Records is the slice of the record store the coordinator needs.
type Records interface {
	CreateUpload(ctx context.Context) (*repository.MobileUpload, error)
}

// Notifier subscribes to change notifications for a single upload record.
type Notifier interface {
	Subscribe(ctx context.Context, id uuid.UUID) (<-chan notify.Update, func(), error)
}

// Fetcher retrieves the completed upload's image bytes from its public
// location.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Result resolves a hand-off: either the transferred image or the error that
// ended the wait.
type Result struct {
	ImageURL string
	Data     []byte
	Err      error
}

// Handoff is one open upload dialog. Done resolves at most once; Close tears
// the record subscription down exactly once no matter how the dialog exits.
type Handoff struct {
	Token uuid.UUID
	URL   string
	Done  <-chan Result

	unsubscribe func()
	closeOnce   sync.Once
}

// Close releases the subscription. Safe to call any number of times, from
// any exit path.
func (h *Handoff) Close() {
	h.closeOnce.Do(h.unsubscribe)
}

// Coordinator opens hand-off sessions against the shared record store.
type Coordinator struct {
	records  Records
	notifier Notifier
	fetcher  Fetcher
	baseURL  string
	logger   *zap.Logger
}

// NewCoordinator constructs a hand-off coordinator. baseURL is the public
// origin the phone resolves the token against. fetcher may be nil, in which
// case a default HTTP fetcher is used.
func NewCoordinator(records Records, notifier Notifier, fetcher Fetcher, baseURL string, logger *zap.Logger) *Coordinator {
	if fetcher == nil {
		fetcher = &httpFetcher{client: &http.Client{Timeout: 30 * time.Second}}
	}
	return &Coordinator{
		records:  records,
		notifier: notifier,
		fetcher:  fetcher,
		baseURL:  baseURL,
		logger:   logger.Named("handoff"),
	}
}

// Open creates a pending upload record, subscribes to its notifications, and
// returns the hand-off handle. The kiosk displays Handoff.URL as a code; a
// completion notification with a populated image location resolves Done.
func (c *Coordinator) Open(ctx context.Context) (*Handoff, error) {
	upload, err := c.records.CreateUpload(ctx)
	if err != nil {
		return nil, logging.NewOperationError("handoff.open", "", err)
	}

	updates, unsubscribe, err := c.notifier.Subscribe(ctx, upload.ID)
	if err != nil {
		return nil, logging.NewOperationError("handoff.subscribe", upload.ID.String(), err)
	}

	done := make(chan Result, 1)
	h := &Handoff{
		Token:       upload.ID,
		URL:         fmt.Sprintf("%s/mobile-upload/%s", c.baseURL, upload.ID),
		Done:        done,
		unsubscribe: unsubscribe,
	}

	go c.watch(ctx, h, updates, done)
	return h, nil
}

func (c *Coordinator) watch(ctx context.Context, h *Handoff, updates <-chan notify.Update, done chan<- Result) {
	// Closing done lets a waiter distinguish a cancelled dialog from a
	// resolved one; the result, if any, is buffered ahead of the close.
	defer close(done)
	opLogger := logging.WithOperation(c.logger, "handoff.watch", h.Token.String())
	for update := range updates {
		if update.Status != repository.UploadStatusCompleted || update.ImageURL == "" {
			continue
		}
		data, err := c.fetcher.Fetch(ctx, update.ImageURL)
		if err != nil {
			opLogger.Error("failed to fetch transferred image", zap.Error(err))
			done <- Result{Err: logging.NewOperationError("handoff.fetch", h.Token.String(),
				fmt.Errorf("%w: %v", ErrTransferFailure, err))}
		} else {
			done <- Result{ImageURL: update.ImageURL, Data: data}
		}
		h.Close()
		return
	}
}

type httpFetcher struct {
	client *http.Client
}

func (f *httpFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
