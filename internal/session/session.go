// Package session owns the kiosk's customer-visit state machine: which
// screen is active, the photo being worked on, and the payment and print
// lifecycle. One Session exists per kiosk; it is reset in place after every
// completed print cycle.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/photopoint/internal/compose"
	"github.com/example/photopoint/internal/contentstore"
	"github.com/example/photopoint/internal/logging"
	"github.com/example/photopoint/internal/repository"
)

// ErrPersistenceFailure indicates the finalized image or its payment record
// could not be stored. The session stays on Edit so the customer can retry.
var ErrPersistenceFailure = errors.New("persistence failure")

// Screen identifies the active kiosk screen. Exactly one is active at a time.
type Screen string

const (
	ScreenAttract Screen = "attract"
	ScreenCapture Screen = "capture"
	ScreenUpload  Screen = "upload"
	ScreenEdit    Screen = "edit"
	ScreenPayment Screen = "payment"
)

// PhotoSource records how the photo entered the session.
type PhotoSource string

const (
	SourceCamera PhotoSource = "camera"
	SourceUpload PhotoSource = "upload"
)

// Photo is the customer's working image plus its provenance.
type Photo struct {
	Source PhotoSource
	Image  *compose.SourceImage
}

// Language selects the presentation locale. It never affects control flow.
type Language string

const (
	LangENG Language = "ENG"
	LangMAL Language = "MAL"
)

// Records is the slice of the record store the orchestrator needs.
type Records interface {
	CreateSession(ctx context.Context, session *repository.KioskSession) error
	UpdateSessionStatus(ctx context.Context, id uint, paymentStatus, printStatus string) error
	DeleteSession(ctx context.Context, id uint) error
}

// Snapshot is the kiosk-facing view of the session, handed to the
// presentation layer on every change.
type Snapshot struct {
	Screen          Screen
	Photo           *Photo
	Language        Language
	Payment         PaymentState
	PrintProgress   int
	PaymentRecordID uint
}

// Orchestrator drives the kiosk through its screen graph. All transitions
// run under one mutex; asynchronous work only ever re-enters through the
// public methods.
type Orchestrator struct {
	records Records
	content contentstore.Store
	logger  *zap.Logger
	timings Timings

	mu              sync.Mutex
	screen          Screen
	photo           *Photo
	language        Language
	payment         PaymentState
	printProgress   int
	paymentRecordID uint
	uploading       bool
	paymentCancel   chan struct{}

	composeBusy func() bool
	onChange    func(Snapshot)
}

// New creates the boot-time session on the Attract screen.
func New(records Records, content contentstore.Store, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		records:  records,
		content:  content,
		logger:   logger.Named("session"),
		timings:  DefaultTimings(),
		screen:   ScreenAttract,
		language: LangENG,
	}
}

// SetTimings overrides the payment lifecycle pacing. Tests compress it.
func (o *Orchestrator) SetTimings(t Timings) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.timings = t
}

// SetComposeBusy installs the composition-in-progress probe that gates the
// Edit to Payment transition.
func (o *Orchestrator) SetComposeBusy(busy func() bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.composeBusy = busy
}

// OnChange installs the presentation listener. The callback runs outside the
// session lock.
func (o *Orchestrator) OnChange(fn func(Snapshot)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.onChange = fn
}

// Snapshot returns the current kiosk-facing state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

func (o *Orchestrator) snapshotLocked() Snapshot {
	return Snapshot{
		Screen:          o.screen,
		Photo:           o.photo,
		Language:        o.language,
		Payment:         o.payment,
		PrintProgress:   o.printProgress,
		PaymentRecordID: o.paymentRecordID,
	}
}

func (o *Orchestrator) notify(snap Snapshot, fn func(Snapshot)) {
	if fn != nil {
		fn(snap)
	}
}

// SetLanguage switches the presentation locale.
func (o *Orchestrator) SetLanguage(lang Language) {
	o.mu.Lock()
	o.language = lang
	snap, fn := o.snapshotLocked(), o.onChange
	o.mu.Unlock()
	o.notify(snap, fn)
}

// StartCamera begins a camera visit: Attract to Capture.
func (o *Orchestrator) StartCamera() {
	o.transition(ScreenAttract, ScreenCapture)
}

// ChooseUpload begins a file-transfer visit: Attract to Upload.
func (o *Orchestrator) ChooseUpload() {
	o.transition(ScreenAttract, ScreenUpload)
}

func (o *Orchestrator) transition(from, to Screen) {
	o.mu.Lock()
	if o.screen != from {
		o.mu.Unlock()
		return
	}
	o.screen = to
	snap, fn := o.snapshotLocked(), o.onChange
	o.mu.Unlock()
	o.notify(snap, fn)
}

// PhotoCaptured lands a successful camera capture: Capture to Edit.
func (o *Orchestrator) PhotoCaptured(img *compose.SourceImage) {
	o.acceptPhoto(ScreenCapture, SourceCamera, img)
}

// PhotoUploaded lands a transferred photo, whether from a local file pick, a
// completed remote hand-off, or the demo fallback: Upload to Edit.
func (o *Orchestrator) PhotoUploaded(img *compose.SourceImage) {
	o.acceptPhoto(ScreenUpload, SourceUpload, img)
}

func (o *Orchestrator) acceptPhoto(from Screen, source PhotoSource, img *compose.SourceImage) {
	o.mu.Lock()
	if o.screen != from || img == nil {
		o.mu.Unlock()
		return
	}
	o.photo = &Photo{Source: source, Image: img}
	o.screen = ScreenEdit
	snap, fn := o.snapshotLocked(), o.onChange
	o.mu.Unlock()
	o.notify(snap, fn)
}

// SetUploading flags a persistence round-trip in progress; ConfirmPhoto is a
// no-op while the flag is set.
func (o *Orchestrator) SetUploading(active bool) {
	o.mu.Lock()
	o.uploading = active
	o.mu.Unlock()
}

// ConfirmPhoto finalizes the edit: Edit to Payment. final is the composition
// output; a nil final falls back to the raw photo. The transition is a no-op
// while composition is in flight or an upload is in progress. Persistence
// failures abort the transition with the session unchanged, so pressing
// confirm again retries safely.
func (o *Orchestrator) ConfirmPhoto(ctx context.Context, final []byte) error {
	o.mu.Lock()
	if o.screen != ScreenEdit || o.photo == nil || o.uploading {
		o.mu.Unlock()
		return nil
	}
	if o.composeBusy != nil && o.composeBusy() {
		o.mu.Unlock()
		return nil
	}
	o.uploading = true
	photo := o.photo
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.uploading = false
		o.mu.Unlock()
	}()

	data := final
	if data == nil {
		data = photo.Image.Data
	}

	name := fmt.Sprintf("session_%d.png", time.Now().UnixMilli())
	url, err := o.content.Put(ctx, name, data, "image/png")
	if err != nil {
		o.logger.Error("failed to persist finalized image", zap.Error(err))
		return logging.NewOperationError("session.confirm_photo", "",
			fmt.Errorf("%w: %v", ErrPersistenceFailure, err))
	}

	record := &repository.KioskSession{
		ImageURL:      url,
		PaymentStatus: repository.PaymentStatusPending,
		PrintStatus:   repository.PrintStatusPending,
		Amount:        repository.PrintAmount,
		CreatedAt:     time.Now().UTC(),
	}
	if err := o.records.CreateSession(ctx, record); err != nil {
		o.logger.Error("failed to create payment record", zap.Error(err))
		return logging.NewOperationError("session.confirm_photo", "",
			fmt.Errorf("%w: %v", ErrPersistenceFailure, err))
	}

	o.mu.Lock()
	if o.screen != ScreenEdit {
		// The customer navigated away while the round-trip was in flight; the
		// record just created belongs to no visit, so take it back out.
		o.mu.Unlock()
		o.logger.Warn("discarding payment record created during an abandoned confirm",
			zap.Uint("record_id", record.ID))
		if err := o.records.DeleteSession(ctx, record.ID); err != nil {
			o.logger.Error("failed to delete orphaned payment record",
				zap.Uint("record_id", record.ID), zap.Error(err))
		}
		return nil
	}
	o.paymentRecordID = record.ID
	o.screen = ScreenPayment
	o.payment = PaymentPending
	o.printProgress = 0
	cancel := make(chan struct{})
	o.paymentCancel = cancel
	snap, fn := o.snapshotLocked(), o.onChange
	o.mu.Unlock()
	o.notify(snap, fn)

	go o.runPayment(cancel)
	return nil
}

// Back navigates one step toward Attract. From Payment it is honored only
// while the sub-state is still Pending; once processing begins the active
// transaction pins the screen.
func (o *Orchestrator) Back() {
	o.mu.Lock()
	switch o.screen {
	case ScreenCapture, ScreenUpload:
		o.screen = ScreenAttract
	case ScreenEdit:
		if o.photo != nil && o.photo.Source == SourceCamera {
			o.screen = ScreenCapture
		} else {
			o.screen = ScreenUpload
		}
	case ScreenPayment:
		if o.payment != PaymentPending {
			o.mu.Unlock()
			return
		}
		if o.paymentCancel != nil {
			close(o.paymentCancel)
			o.paymentCancel = nil
		}
		o.payment = ""
		o.screen = ScreenEdit
	default:
		o.mu.Unlock()
		return
	}
	snap, fn := o.snapshotLocked(), o.onChange
	o.mu.Unlock()
	o.notify(snap, fn)
}
