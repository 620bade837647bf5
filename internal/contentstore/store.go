// Package contentstore puts image bytes into a name-addressed object store
// and returns the public location. Writes are upserts, so retrying the same
// object name is idempotent.
package contentstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/photopoint/internal/logging"
)

// Store is the content-store contract the kiosk consumes.
type Store interface {
	Put(ctx context.Context, name string, data []byte, contentType string) (string, error)
}

// HTTPStore talks to a storage service with a supabase-style object API:
// PUT {base}/object/{bucket}/{name} with a bearer key, objects publicly
// readable under {base}/object/public/{bucket}/{name}.
type HTTPStore struct {
	baseURL    string
	bucket     string
	serviceKey string
	client     *http.Client
	logger     *zap.Logger
}

// NewHTTPStore constructs a store client for the given bucket.
func NewHTTPStore(baseURL, bucket, serviceKey string, logger *zap.Logger) *HTTPStore {
	return &HTTPStore{
		baseURL:    strings.TrimRight(baseURL, "/"),
		bucket:     bucket,
		serviceKey: serviceKey,
		client:     &http.Client{Timeout: 30 * time.Second},
		logger:     logger.Named("contentstore"),
	}
}

// Put uploads the object and returns its public URL.
func (s *HTTPStore) Put(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	url := fmt.Sprintf("%s/object/%s/%s", s.baseURL, s.bucket, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return "", logging.NewOperationError("contentstore.put", name, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("x-upsert", "true")

	resp, err := s.client.Do(req)
	if err != nil {
		wrapped := logging.NewOperationError("contentstore.put", name, err)
		s.logger.Error("object upload failed", zap.Error(wrapped))
		return "", wrapped
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		wrapped := logging.NewOperationError("contentstore.put", name, err)
		s.logger.Error("object upload rejected", zap.Error(wrapped))
		return "", wrapped
	}

	return fmt.Sprintf("%s/object/public/%s/%s", s.baseURL, s.bucket, name), nil
}
