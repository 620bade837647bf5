package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/photopoint/internal/contentstore"
	"github.com/example/photopoint/internal/notify"
	"github.com/example/photopoint/internal/repository"
)

// MaxUploadSize caps a phone-transferred photo at 10 MiB.
const MaxUploadSize = 10 << 20

var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// RecordStore is the record-store slice the HTTP surface needs.
type RecordStore interface {
	FindUpload(ctx context.Context, id uuid.UUID) (*repository.MobileUpload, error)
	CompleteUpload(ctx context.Context, id uuid.UUID, imageURL string) error
	FindSession(ctx context.Context, id uint) (*repository.KioskSession, error)
	AggregateMetrics(ctx context.Context) (*repository.MetricsAggregation, error)
}

// Publisher announces record updates to the kiosk's notification channel.
type Publisher interface {
	Publish(ctx context.Context, id uuid.UUID, update notify.Update) error
}

// RegisterRoutes wires the HTTP handlers to the Gin router. The mobile-upload
// endpoints are public (the token is the credential); the admin endpoints sit
// behind the JWT middleware.
func RegisterRoutes(router *gin.Engine, store RecordStore, content contentstore.Store, publisher Publisher, adminAuth gin.HandlerFunc) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/mobile-upload/:id", func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid upload token"})
			return
		}

		upload, err := store.FindUpload(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "upload session not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":     upload.ID,
			"status": upload.Status,
		})
	})

	router.POST("/mobile-upload/:id", func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid upload token"})
			return
		}

		upload, err := store.FindUpload(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "upload session not found"})
			return
		}
		if upload.Status != repository.UploadStatusPending {
			c.JSON(http.StatusConflict, gin.H{"error": "upload session already completed"})
			return
		}

		file, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
			return
		}
		if file.Size > MaxUploadSize {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds size limit"})
			return
		}
		contentType := file.Header.Get("Content-Type")
		if !allowedContentTypes[contentType] {
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "unsupported image type"})
			return
		}

		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unable to open image"})
			return
		}
		defer src.Close()

		data, err := io.ReadAll(io.LimitReader(src, MaxUploadSize+1))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read image"})
			return
		}
		if len(data) > MaxUploadSize {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds size limit"})
			return
		}

		name := fmt.Sprintf("mobile_%s_%d", id, time.Now().UnixMilli())
		url, err := content.Put(c.Request.Context(), name, data, contentType)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to store image"})
			return
		}

		if err := store.CompleteUpload(c.Request.Context(), id, url); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusConflict, gin.H{"error": "upload session already completed"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to complete upload"})
			return
		}

		update := notify.Update{Status: repository.UploadStatusCompleted, ImageURL: url}
		if err := publisher.Publish(c.Request.Context(), id, update); err != nil {
			// The record is already completed; the kiosk will miss only the
			// push, and the customer can cancel and rescan.
			c.JSON(http.StatusOK, gin.H{"status": repository.UploadStatusCompleted, "image_url": url, "notified": false})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": repository.UploadStatusCompleted, "image_url": url})
	})

	admin := router.Group("/admin", adminAuth)

	admin.GET("/metrics", func(c *gin.Context) {
		agg, err := store.AggregateMetrics(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to aggregate metrics"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"total_sessions":   agg.TotalCount,
			"paid_sessions":    agg.PaidCount,
			"printed_sessions": agg.PrintedCount,
			"revenue":          agg.RevenueRupees,
		})
	})

	admin.GET("/sessions/:id", func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
			return
		}

		session, err := store.FindSession(c.Request.Context(), uint(id))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":             session.ID,
			"image_url":      session.ImageURL,
			"payment_status": session.PaymentStatus,
			"print_status":   session.PrintStatus,
			"amount":         session.Amount,
			"created_at":     session.CreatedAt,
		})
	})
}
