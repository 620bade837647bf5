package session

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/example/photopoint/internal/repository"
)

// PaymentState is the strictly ordered payment and print sub-state. The
// advances are simulated and time-based here; a production deployment swaps
// the timers for payment-gateway callbacks without changing the state graph.
type PaymentState string

const (
	PaymentPending    PaymentState = "pending"
	PaymentProcessing PaymentState = "processing"
	PaymentConfirmed  PaymentState = "confirmed"
	PaymentPrinting   PaymentState = "printing"
	PaymentComplete   PaymentState = "complete"
)

// Timings paces the simulated payment and print lifecycle.
type Timings struct {
	ProcessingDelay time.Duration
	ConfirmDelay    time.Duration
	PrintStartDelay time.Duration
	PrintTick       time.Duration
	PrintStep       int
	ResetDwell      time.Duration
}

// DefaultTimings mirrors the kiosk's live pacing.
func DefaultTimings() Timings {
	return Timings{
		ProcessingDelay: 3 * time.Second,
		ConfirmDelay:    2 * time.Second,
		PrintStartDelay: 1500 * time.Millisecond,
		PrintTick:       50 * time.Millisecond,
		PrintStep:       2,
		ResetDwell:      5 * time.Second,
	}
}

// runPayment walks the sub-states in order. The steps are non-skippable and
// local, so they cannot fail; record-store side effects are logged and the
// lifecycle continues regardless.
func (o *Orchestrator) runPayment(cancel <-chan struct{}) {
	o.mu.Lock()
	t := o.timings
	recordID := o.paymentRecordID
	o.mu.Unlock()

	if !o.sleepPayment(cancel, t.ProcessingDelay) {
		return
	}
	if !o.advancePayment(cancel, PaymentPending, PaymentProcessing) {
		return
	}

	if !o.sleepPayment(cancel, t.ConfirmDelay) {
		return
	}
	if !o.advancePayment(cancel, PaymentProcessing, PaymentConfirmed) {
		return
	}
	o.updateRecord(recordID, repository.PaymentStatusCompleted, repository.PrintStatusPrinting)

	if !o.sleepPayment(cancel, t.PrintStartDelay) {
		return
	}
	if !o.advancePayment(cancel, PaymentConfirmed, PaymentPrinting) {
		return
	}

	for {
		if !o.sleepPayment(cancel, t.PrintTick) {
			return
		}
		done, ok := o.stepPrintProgress(cancel, t.PrintStep)
		if !ok {
			return
		}
		if done {
			break
		}
	}
	if !o.advancePayment(cancel, PaymentPrinting, PaymentComplete) {
		return
	}
	o.updateRecord(recordID, "", repository.PrintStatusCompleted)

	if !o.sleepPayment(cancel, t.ResetDwell) {
		return
	}
	o.reset(cancel)
}

func (o *Orchestrator) sleepPayment(cancel <-chan struct{}, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-cancel:
		return false
	case <-timer.C:
		return true
	}
}

func (o *Orchestrator) advancePayment(cancel <-chan struct{}, from, to PaymentState) bool {
	o.mu.Lock()
	if o.screen != ScreenPayment || o.payment != from || cancelled(cancel) {
		o.mu.Unlock()
		return false
	}
	o.payment = to
	snap, fn := o.snapshotLocked(), o.onChange
	o.mu.Unlock()
	o.notify(snap, fn)
	return true
}

func (o *Orchestrator) stepPrintProgress(cancel <-chan struct{}, step int) (done, ok bool) {
	o.mu.Lock()
	if o.screen != ScreenPayment || o.payment != PaymentPrinting || cancelled(cancel) {
		o.mu.Unlock()
		return false, false
	}
	o.printProgress += step
	if o.printProgress >= 100 {
		o.printProgress = 100
		done = true
	}
	snap, fn := o.snapshotLocked(), o.onChange
	o.mu.Unlock()
	o.notify(snap, fn)
	return done, true
}

// reset returns the kiosk to Attract with the session cleared in place.
func (o *Orchestrator) reset(cancel <-chan struct{}) {
	o.mu.Lock()
	if cancelled(cancel) {
		o.mu.Unlock()
		return
	}
	o.photo = nil
	o.paymentRecordID = 0
	o.payment = ""
	o.printProgress = 0
	o.paymentCancel = nil
	o.screen = ScreenAttract
	snap, fn := o.snapshotLocked(), o.onChange
	o.mu.Unlock()
	o.notify(snap, fn)
}

func (o *Orchestrator) updateRecord(id uint, paymentStatus, printStatus string) {
	if id == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := o.records.UpdateSessionStatus(ctx, id, paymentStatus, printStatus); err != nil {
		o.logger.Error("failed to update payment record",
			zap.Uint("record_id", id), zap.Error(err))
	}
}

func cancelled(cancel <-chan struct{}) bool {
	select {
	case <-cancel:
		return true
	default:
		return false
	}
}
