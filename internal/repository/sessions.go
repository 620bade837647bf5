package repository

import (
	"context"
	"strconv"
	"time"
)

// Payment and print lifecycle statuses persisted on a kiosk session.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"

	PrintStatusPending   = "pending"
	PrintStatusPrinting  = "printing"
	PrintStatusCompleted = "completed"
)

// PrintAmount is the fixed price of one print, in rupees.
const PrintAmount = 100

// KioskSession is the payment record created when a finalized image enters
// the payment flow.
type KioskSession struct {
	ID            uint      `gorm:"primaryKey"`
	ImageURL      string    `gorm:"column:image_url;type:text"`
	PaymentStatus string    `gorm:"column:payment_status;size:32"`
	PrintStatus   string    `gorm:"column:print_status;size:32"`
	Amount        int       `gorm:"column:amount"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

// TableName overrides the default table name.
func (KioskSession) TableName() string {
	return "kiosk_sessions"
}

// CreateSession persists a new payment record.
func (r *Repository) CreateSession(ctx context.Context, session *KioskSession) error {
	return r.executeWithRetry(ctx, "repository.create_session", "", func() error {
		return r.db.WithContext(ctx).Create(session).Error
	})
}

// UpdateSessionStatus advances the payment and print statuses of a record.
// Empty arguments leave the corresponding column untouched.
func (r *Repository) UpdateSessionStatus(ctx context.Context, id uint, paymentStatus, printStatus string) error {
	updates := map[string]interface{}{}
	if paymentStatus != "" {
		updates["payment_status"] = paymentStatus
	}
	if printStatus != "" {
		updates["print_status"] = printStatus
	}
	if len(updates) == 0 {
		return nil
	}
	return r.executeWithRetry(ctx, "repository.update_session_status", strconv.FormatUint(uint64(id), 10), func() error {
		return r.db.WithContext(ctx).Model(&KioskSession{}).Where("id = ?", id).Updates(updates).Error
	})
}

// DeleteSession removes a payment record that never entered the payment flow.
func (r *Repository) DeleteSession(ctx context.Context, id uint) error {
	return r.executeWithRetry(ctx, "repository.delete_session", strconv.FormatUint(uint64(id), 10), func() error {
		return r.db.WithContext(ctx).Delete(&KioskSession{}, id).Error
	})
}

// FindSession retrieves a payment record by id.
func (r *Repository) FindSession(ctx context.Context, id uint) (*KioskSession, error) {
	var session KioskSession
	err := r.executeWithRetry(ctx, "repository.find_session", strconv.FormatUint(uint64(id), 10), func() error {
		return r.db.WithContext(ctx).First(&session, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// MetricsAggregation summarizes the persisted session records.
type MetricsAggregation struct {
	TotalCount    int64
	PaidCount     int64
	PrintedCount  int64
	RevenueRupees int64
}

// AggregateMetrics computes fleet-operator metrics over all sessions.
func (r *Repository) AggregateMetrics(ctx context.Context) (*MetricsAggregation, error) {
	var agg MetricsAggregation
	err := r.executeWithRetry(ctx, "repository.aggregate_metrics", "", func() error {
		if err := r.db.WithContext(ctx).Model(&KioskSession{}).Count(&agg.TotalCount).Error; err != nil {
			return err
		}
		if err := r.db.WithContext(ctx).Model(&KioskSession{}).
			Where("payment_status = ?", PaymentStatusCompleted).Count(&agg.PaidCount).Error; err != nil {
			return err
		}
		if err := r.db.WithContext(ctx).Model(&KioskSession{}).
			Where("print_status = ?", PrintStatusCompleted).Count(&agg.PrintedCount).Error; err != nil {
			return err
		}
		row := r.db.WithContext(ctx).Model(&KioskSession{}).
			Where("payment_status = ?", PaymentStatusCompleted).
			Select("COALESCE(SUM(amount), 0)").Row()
		return row.Scan(&agg.RevenueRupees)
	})
	if err != nil {
		return nil, err
	}
	return &agg, nil
}
