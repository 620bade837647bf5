package contentstore

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/example/photopoint/internal/logging"
)

func TestPutUploadsObjectAndReturnsPublicURL(t *testing.T) {
	var (
		gotPath   string
		gotAuth   string
		gotUpsert string
		gotType   string
		gotBody   []byte
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT, got %s", r.Method)
		}
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotUpsert = r.Header.Get("x-upsert")
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	store := NewHTTPStore(server.URL, "photos", "service-key", zap.NewNop())

	url, err := store.Put(context.Background(), "session_1.png", []byte("png-bytes"), "image/png")
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}

	if gotPath != "/object/photos/session_1.png" {
		t.Fatalf("unexpected object path: %s", gotPath)
	}
	if gotAuth != "Bearer service-key" {
		t.Fatalf("unexpected authorization header: %s", gotAuth)
	}
	if gotUpsert != "true" {
		t.Fatalf("expected upsert header, got %q", gotUpsert)
	}
	if gotType != "image/png" {
		t.Fatalf("unexpected content type: %s", gotType)
	}
	if string(gotBody) != "png-bytes" {
		t.Fatalf("unexpected body: %q", gotBody)
	}
	if want := server.URL + "/object/public/photos/session_1.png"; url != want {
		t.Fatalf("expected public url %q, got %q", want, url)
	}
}

func TestPutWrapsRejectedUpload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bucket not found", http.StatusNotFound)
	}))
	defer server.Close()

	store := NewHTTPStore(server.URL, "photos", "service-key", zap.NewNop())

	_, err := store.Put(context.Background(), "session_1.png", []byte("png-bytes"), "image/png")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var opErr *logging.OperationError
	if !errors.As(err, &opErr) {
		t.Fatalf("expected OperationError, got %T", err)
	}
	if opErr.Operation != "contentstore.put" {
		t.Fatalf("unexpected operation: %s", opErr.Operation)
	}
}

func TestPutWrapsTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	store := NewHTTPStore(server.URL, "photos", "service-key", zap.NewNop())

	_, err := store.Put(context.Background(), "session_1.png", nil, "image/png")
	var opErr *logging.OperationError
	if !errors.As(err, &opErr) {
		t.Fatalf("expected OperationError, got %T", err)
	}
}
