package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/photopoint/internal/compose"
	"github.com/example/photopoint/internal/handoff"
	"github.com/example/photopoint/internal/notify"
	"github.com/example/photopoint/internal/repository"
	"github.com/example/photopoint/internal/session"
	"github.com/example/photopoint/internal/vision"
)

type stubSessionRecords struct {
	mu     sync.Mutex
	nextID uint
}

func (s *stubSessionRecords) CreateSession(ctx context.Context, record *repository.KioskSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	record.ID = s.nextID
	return nil
}

func (s *stubSessionRecords) UpdateSessionStatus(ctx context.Context, id uint, paymentStatus, printStatus string) error {
	return nil
}

func (s *stubSessionRecords) DeleteSession(ctx context.Context, id uint) error {
	return nil
}

type stubHandoffRecords struct{}

func (stubHandoffRecords) CreateUpload(ctx context.Context) (*repository.MobileUpload, error) {
	return &repository.MobileUpload{ID: uuid.New(), Status: repository.UploadStatusPending}, nil
}

type stubHandoffNotifier struct {
	mu      sync.Mutex
	updates chan notify.Update
}

func (s *stubHandoffNotifier) Subscribe(ctx context.Context, id uuid.UUID) (<-chan notify.Update, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = make(chan notify.Update, 4)
	updates := s.updates
	return updates, func() { close(updates) }, nil
}

type stubHandoffFetcher struct {
	data []byte
}

func (s *stubHandoffFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	return s.data, nil
}

type recordingScheduler struct {
	mu        sync.Mutex
	scheduled []compose.Options
	busy      bool
}

func (s *recordingScheduler) Schedule(ctx context.Context, src *compose.SourceImage, opts compose.Options) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheduled = append(s.scheduled, opts)
}

func (s *recordingScheduler) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

func (s *recordingScheduler) Cancel() {}

func (s *recordingScheduler) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.scheduled)
}

func (s *recordingScheduler) last() compose.Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scheduled[len(s.scheduled)-1]
}

type idleLandmarker struct{}

func (idleLandmarker) DetectLandmarks(ctx context.Context, frame []byte, timestampMs int64) ([]vision.Point, bool, error) {
	return nil, false, nil
}

type kioskFixture struct {
	router    *gin.Engine
	orch      *session.Orchestrator
	kiosk     *Kiosk
	scheduler *recordingScheduler
	notifier  *stubHandoffNotifier
	fetcher   *stubHandoffFetcher
}

func newKioskFixture(t *testing.T) *kioskFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	orch := session.New(&stubSessionRecords{}, &stubContentStore{url: "https://storage.example"}, logger)
	orch.SetTimings(session.Timings{ProcessingDelay: time.Hour})

	scheduler := &recordingScheduler{}
	editor := session.NewEditor(scheduler, logger)
	orch.SetComposeBusy(editor.Busy)

	notifier := &stubHandoffNotifier{}
	fetcher := &stubHandoffFetcher{data: pngBytes(t)}
	coordinator := handoff.NewCoordinator(stubHandoffRecords{}, notifier, fetcher, "https://kiosk.example", logger)

	k := NewKiosk(orch, editor, coordinator, idleLandmarker{}, logger)
	router := gin.New()
	RegisterKioskRoutes(router, k)

	return &kioskFixture{router: router, orch: orch, kiosk: k, scheduler: scheduler, notifier: notifier, fetcher: fetcher}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func (f *kioskFixture) do(t *testing.T, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp := httptest.NewRecorder()
	f.router.ServeHTTP(resp, req)
	return resp
}

func (f *kioskFixture) post(t *testing.T, path string) *httptest.ResponseRecorder {
	return f.do(t, http.MethodPost, path, nil, "")
}

func TestKioskStateReflectsScreen(t *testing.T) {
	f := newKioskFixture(t)

	resp := f.do(t, http.MethodGet, "/kiosk/state", nil, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var state map[string]interface{}
	if err := json.Unmarshal(resp.Body.Bytes(), &state); err != nil {
		t.Fatalf("invalid state payload: %v", err)
	}
	if state["screen"] != string(session.ScreenAttract) {
		t.Fatalf("expected attract screen, got %v", state["screen"])
	}
	if state["instruction"] != "align" {
		t.Fatalf("expected align instruction before any detection, got %v", state["instruction"])
	}
}

func TestKioskLanguageValidation(t *testing.T) {
	f := newKioskFixture(t)

	body := bytes.NewBufferString(`{"language":"MAL"}`)
	if resp := f.do(t, http.MethodPost, "/kiosk/language", body, "application/json"); resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := f.orch.Snapshot().Language; got != session.LangMAL {
		t.Fatalf("expected MAL, got %q", got)
	}

	body = bytes.NewBufferString(`{"language":"FRA"}`)
	if resp := f.do(t, http.MethodPost, "/kiosk/language", body, "application/json"); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown language, got %d", resp.Code)
	}
}

func TestKioskCaptureRequiresCameraScreen(t *testing.T) {
	f := newKioskFixture(t)

	if resp := f.post(t, "/kiosk/capture"); resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 off the capture screen, got %d", resp.Code)
	}

	if resp := f.post(t, "/kiosk/start-camera"); resp.Code != http.StatusOK {
		t.Fatalf("start-camera failed: %d", resp.Code)
	}
	if got := f.orch.Snapshot().Screen; got != session.ScreenCapture {
		t.Fatalf("expected capture screen, got %q", got)
	}

	// Leaving the capture screen releases the camera pipeline.
	if resp := f.post(t, "/kiosk/back"); resp.Code != http.StatusOK {
		t.Fatalf("back failed: %d", resp.Code)
	}
	if got := f.orch.Snapshot().Screen; got != session.ScreenAttract {
		t.Fatalf("expected attract screen, got %q", got)
	}
}

func TestKioskFrameValidation(t *testing.T) {
	f := newKioskFixture(t)

	if resp := f.do(t, http.MethodPost, "/kiosk/frame", bytes.NewBufferString("frame"), ""); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without timestamp, got %d", resp.Code)
	}
	if resp := f.do(t, http.MethodPost, "/kiosk/frame?timestamp_ms=10", bytes.NewBufferString("frame"), ""); resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}

func TestKioskLocalPhotoLandsOnEdit(t *testing.T) {
	f := newKioskFixture(t)

	body, contentType := buildMultipartBody(t, "image/png", pngBytes(t))
	if resp := f.do(t, http.MethodPost, "/kiosk/photo", body, contentType); resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 off the upload screen, got %d", resp.Code)
	}

	f.post(t, "/kiosk/choose-upload")
	body, contentType = buildMultipartBody(t, "image/png", pngBytes(t))
	if resp := f.do(t, http.MethodPost, "/kiosk/photo", body, contentType); resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	if got := f.orch.Snapshot().Screen; got != session.ScreenEdit {
		t.Fatalf("expected edit screen, got %q", got)
	}
	if f.scheduler.count() != 1 {
		t.Fatalf("expected initial composition scheduled, got %d", f.scheduler.count())
	}
}

func TestKioskOptionsDriveRecomposition(t *testing.T) {
	f := newKioskFixture(t)

	body := bytes.NewBufferString(`{"remove_background":false}`)
	if resp := f.do(t, http.MethodPost, "/kiosk/options", body, "application/json"); resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 off the edit screen, got %d", resp.Code)
	}

	f.post(t, "/kiosk/choose-upload")
	photo, contentType := buildMultipartBody(t, "image/png", pngBytes(t))
	f.do(t, http.MethodPost, "/kiosk/photo", photo, contentType)

	body = bytes.NewBufferString(`{"remove_background":false,"lighting_correction":false}`)
	resp := f.do(t, http.MethodPost, "/kiosk/options", body, "application/json")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var opts map[string]interface{}
	if err := json.Unmarshal(resp.Body.Bytes(), &opts); err != nil {
		t.Fatalf("invalid options payload: %v", err)
	}
	if opts["remove_background"].(bool) || opts["lighting_correction"].(bool) {
		t.Fatalf("expected both options disabled, got %v", opts)
	}
	if f.scheduler.count() != 3 {
		t.Fatalf("expected a composition per option change, got %d", f.scheduler.count())
	}
}

func TestKioskOverlayOptionReachesScheduler(t *testing.T) {
	f := newKioskFixture(t)

	f.post(t, "/kiosk/choose-upload")
	photo, contentType := buildMultipartBody(t, "image/png", pngBytes(t))
	f.do(t, http.MethodPost, "/kiosk/photo", photo, contentType)

	body := bytes.NewBufferString(`{"overlay":{"garment_id":"saree-1","offset_x":-12,"offset_y":8,"scale":1.5}}`)
	if resp := f.do(t, http.MethodPost, "/kiosk/options", body, "application/json"); resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	overlay := f.scheduler.last().Overlay
	if overlay == nil {
		t.Fatal("expected an overlay on the scheduled options")
	}
	if overlay.GarmentID != "saree-1" || overlay.OffsetX != -12 || overlay.OffsetY != 8 || overlay.Scale != 1.5 {
		t.Fatalf("unexpected overlay: %+v", overlay)
	}

	body = bytes.NewBufferString(`{"clear_overlay":true}`)
	if resp := f.do(t, http.MethodPost, "/kiosk/options", body, "application/json"); resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if f.scheduler.last().Overlay != nil {
		t.Fatal("expected overlay cleared on the scheduled options")
	}
}

func TestKioskDemoPhotoLandsOnEdit(t *testing.T) {
	f := newKioskFixture(t)
	f.kiosk.SetDemoPhoto(pngBytes(t))

	if resp := f.post(t, "/kiosk/demo-photo"); resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 off the upload screen, got %d", resp.Code)
	}

	f.post(t, "/kiosk/choose-upload")
	if resp := f.post(t, "/kiosk/demo-photo"); resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	snap := f.orch.Snapshot()
	if snap.Screen != session.ScreenEdit {
		t.Fatalf("expected edit screen, got %q", snap.Screen)
	}
	if snap.Photo == nil || snap.Photo.Source != session.SourceUpload {
		t.Fatalf("expected uploaded photo provenance, got %+v", snap.Photo)
	}
	if f.scheduler.count() != 1 {
		t.Fatalf("expected composition for demo photo, got %d", f.scheduler.count())
	}
}

func TestKioskDemoPhotoUnconfiguredIsNotFound(t *testing.T) {
	f := newKioskFixture(t)

	f.post(t, "/kiosk/choose-upload")
	if resp := f.post(t, "/kiosk/demo-photo"); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without a configured demo photo, got %d", resp.Code)
	}
	if got := f.orch.Snapshot().Screen; got != session.ScreenUpload {
		t.Fatalf("expected upload screen to persist, got %q", got)
	}
}

func TestKioskConfirmEntersPayment(t *testing.T) {
	f := newKioskFixture(t)

	f.post(t, "/kiosk/choose-upload")
	photo, contentType := buildMultipartBody(t, "image/png", pngBytes(t))
	f.do(t, http.MethodPost, "/kiosk/photo", photo, contentType)

	if resp := f.post(t, "/kiosk/confirm"); resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	snap := f.orch.Snapshot()
	if snap.Screen != session.ScreenPayment || snap.Payment != session.PaymentPending {
		t.Fatalf("expected pending payment, got %+v", snap)
	}
}

func TestKioskHandoffLifecycle(t *testing.T) {
	f := newKioskFixture(t)

	if resp := f.post(t, "/kiosk/handoff"); resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 off the upload screen, got %d", resp.Code)
	}

	f.post(t, "/kiosk/choose-upload")
	resp := f.post(t, "/kiosk/handoff")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid handoff payload: %v", err)
	}
	if payload["url"] == "" || payload["token"] == "" {
		t.Fatalf("expected token and url, got %v", payload)
	}

	f.notifier.mu.Lock()
	updates := f.notifier.updates
	f.notifier.mu.Unlock()
	updates <- notify.Update{Status: repository.UploadStatusCompleted, ImageURL: "https://storage.example/photo.png"}

	deadline := time.Now().Add(2 * time.Second)
	for f.orch.Snapshot().Screen != session.ScreenEdit {
		if time.Now().After(deadline) {
			t.Fatalf("transferred photo never landed, screen %q", f.orch.Snapshot().Screen)
		}
		time.Sleep(5 * time.Millisecond)
	}
	if f.scheduler.count() != 1 {
		t.Fatalf("expected composition for transferred photo, got %d", f.scheduler.count())
	}
}

func TestKioskHandoffCancelReleasesDialog(t *testing.T) {
	f := newKioskFixture(t)

	f.post(t, "/kiosk/choose-upload")
	if resp := f.post(t, "/kiosk/handoff"); resp.Code != http.StatusOK {
		t.Fatalf("open failed: %d", resp.Code)
	}

	if resp := f.do(t, http.MethodDelete, "/kiosk/handoff", nil, ""); resp.Code != http.StatusOK {
		t.Fatalf("cancel failed: %d", resp.Code)
	}

	// Confirm is usable again: the uploading flag was cleared.
	photo, contentType := buildMultipartBody(t, "image/png", pngBytes(t))
	f.do(t, http.MethodPost, "/kiosk/photo", photo, contentType)
	if resp := f.post(t, "/kiosk/confirm"); resp.Code != http.StatusOK {
		t.Fatalf("expected confirm after cancel, got %d", resp.Code)
	}
}
