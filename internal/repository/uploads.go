package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Mobile upload record statuses. A record is terminal once completed.
const (
	UploadStatusPending   = "pending"
	UploadStatusCompleted = "completed"
)

// MobileUpload is the token-addressed record a remote phone completes to
// hand a photo into a running kiosk session.
type MobileUpload struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Status    string    `gorm:"column:status;size:32"`
	ImageURL  string    `gorm:"column:image_url;type:text"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// TableName overrides the default table name.
func (MobileUpload) TableName() string {
	return "mobile_uploads"
}

// CreateUpload opens a new pending upload session and returns its token.
func (r *Repository) CreateUpload(ctx context.Context) (*MobileUpload, error) {
	upload := &MobileUpload{
		ID:        uuid.New(),
		Status:    UploadStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	err := r.executeWithRetry(ctx, "repository.create_upload", upload.ID.String(), func() error {
		return r.db.WithContext(ctx).Create(upload).Error
	})
	if err != nil {
		return nil, err
	}
	return upload, nil
}

// FindUpload retrieves an upload record by token.
func (r *Repository) FindUpload(ctx context.Context, id uuid.UUID) (*MobileUpload, error) {
	var upload MobileUpload
	err := r.executeWithRetry(ctx, "repository.find_upload", id.String(), func() error {
		return r.db.WithContext(ctx).First(&upload, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &upload, nil
}

// CompleteUpload marks a pending record completed with the stored image
// location. Completing an already-completed or unknown token reports
// gorm.ErrRecordNotFound so a write race loses cleanly.
func (r *Repository) CompleteUpload(ctx context.Context, id uuid.UUID, imageURL string) error {
	return r.executeWithRetry(ctx, "repository.complete_upload", id.String(), func() error {
		result := r.db.WithContext(ctx).Model(&MobileUpload{}).
			Where("id = ? AND status = ?", id, UploadStatusPending).
			Updates(map[string]interface{}{
				"status":    UploadStatusCompleted,
				"image_url": imageURL,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
