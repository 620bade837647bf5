package handlers

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/photopoint/internal/alignment"
	"github.com/example/photopoint/internal/compose"
	"github.com/example/photopoint/internal/handoff"
	"github.com/example/photopoint/internal/session"
	"github.com/example/photopoint/internal/vision"
)

// Kiosk exposes the session orchestrator to the presentation layer as a
// localhost JSON surface: one command per user action, plus a frame feed for
// the alignment monitor. The UI owns the camera and streams frames in; tilt
// classification, countdown capture, and composition all run here.
type Kiosk struct {
	orch        *session.Orchestrator
	editor      *session.Editor
	coordinator *handoff.Coordinator
	landmarker  vision.Landmarker
	logger      *zap.Logger

	frames *frameBuffer
	demo   []byte

	mu         sync.Mutex
	monitor    *alignment.Monitor
	capture    *alignment.Capture
	countdown  int
	tilt       alignment.TiltState
	captureErr string
	dialog     *handoff.Handoff
}

// NewKiosk builds the kiosk controller and installs itself as the
// orchestrator's change listener so it can release camera and hand-off
// resources whenever a transition leaves their screen.
func NewKiosk(orch *session.Orchestrator, editor *session.Editor, coordinator *handoff.Coordinator, landmarker vision.Landmarker, logger *zap.Logger) *Kiosk {
	k := &Kiosk{
		orch:        orch,
		editor:      editor,
		coordinator: coordinator,
		landmarker:  landmarker,
		logger:      logger.Named("kiosk"),
		frames:      newFrameBuffer(),
		tilt:        alignment.Unknown,
	}
	orch.OnChange(k.handleChange)
	return k
}

// SetDemoPhoto installs the bundled sample photo served by the demo transfer
// card on the upload screen.
func (k *Kiosk) SetDemoPhoto(data []byte) {
	k.demo = data
}

func (k *Kiosk) handleChange(snap session.Snapshot) {
	if snap.Screen != session.ScreenCapture {
		k.stopCamera()
	}
	if snap.Screen != session.ScreenUpload {
		k.closeDialog()
	}
	if snap.Screen == session.ScreenAttract {
		k.editor.Reset()
	}
}

// RegisterKioskRoutes wires the kiosk-facing endpoints. These are consumed by
// the co-located presentation process only; they carry no authentication.
func RegisterKioskRoutes(router *gin.Engine, k *Kiosk) {
	kiosk := router.Group("/kiosk")

	kiosk.GET("/state", k.state)
	kiosk.POST("/language", k.setLanguage)
	kiosk.POST("/start-camera", k.startCamera)
	kiosk.POST("/choose-upload", k.chooseUpload)
	kiosk.POST("/back", k.back)
	kiosk.POST("/frame", k.pushFrame)
	kiosk.POST("/capture", k.startCapture)
	kiosk.POST("/capture/cancel", k.cancelCapture)
	kiosk.POST("/photo", k.submitPhoto)
	kiosk.POST("/demo-photo", k.submitDemoPhoto)
	kiosk.POST("/options", k.setOptions)
	kiosk.POST("/confirm", k.confirm)
	kiosk.POST("/handoff", k.openHandoff)
	kiosk.DELETE("/handoff", k.cancelHandoff)
}

func (k *Kiosk) state(c *gin.Context) {
	snap := k.orch.Snapshot()
	opts := k.editor.Options()

	k.mu.Lock()
	tilt := k.tilt
	countdown := k.countdown
	captureErr := k.captureErr
	var handoffURL string
	if k.dialog != nil {
		handoffURL = k.dialog.URL
	}
	k.mu.Unlock()

	body := gin.H{
		"screen":         snap.Screen,
		"language":       snap.Language,
		"payment":        snap.Payment,
		"print_progress": snap.PrintProgress,
		"compose_busy":   k.editor.Busy(),
		"tilt":           tilt.String(),
		"instruction":    alignment.CorrectionFor(tilt),
		"countdown":      countdown,
		"options": gin.H{
			"remove_background":   opts.RemoveBackground,
			"lighting_correction": opts.LightingCorrection,
		},
	}
	if snap.Photo != nil {
		body["photo_source"] = snap.Photo.Source
	}
	if captureErr != "" {
		body["capture_error"] = captureErr
	}
	if handoffURL != "" {
		body["handoff_url"] = handoffURL
	}
	c.JSON(http.StatusOK, body)
}

func (k *Kiosk) setLanguage(c *gin.Context) {
	var req struct {
		Language string `json:"language" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "language is required"})
		return
	}
	switch session.Language(req.Language) {
	case session.LangENG, session.LangMAL:
		k.orch.SetLanguage(session.Language(req.Language))
		c.JSON(http.StatusOK, gin.H{"language": req.Language})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown language"})
	}
}

func (k *Kiosk) startCamera(c *gin.Context) {
	k.orch.StartCamera()
	snap := k.orch.Snapshot()
	if snap.Screen == session.ScreenCapture {
		k.mu.Lock()
		if k.monitor == nil {
			k.monitor = alignment.NewMonitor(k.frames, k.landmarker, k.setTilt, k.logger)
			k.monitor.Start(context.Background())
		}
		k.captureErr = ""
		k.mu.Unlock()
	}
	c.JSON(http.StatusOK, gin.H{"screen": snap.Screen})
}

func (k *Kiosk) chooseUpload(c *gin.Context) {
	k.orch.ChooseUpload()
	c.JSON(http.StatusOK, gin.H{"screen": k.orch.Snapshot().Screen})
}

func (k *Kiosk) back(c *gin.Context) {
	k.orch.Back()
	snap := k.orch.Snapshot()
	if snap.Screen == session.ScreenCapture {
		// Returning from Edit to Capture restarts the alignment loop.
		k.mu.Lock()
		if k.monitor == nil {
			k.monitor = alignment.NewMonitor(k.frames, k.landmarker, k.setTilt, k.logger)
			k.monitor.Start(context.Background())
		}
		k.mu.Unlock()
	}
	c.JSON(http.StatusOK, gin.H{"screen": snap.Screen})
}

func (k *Kiosk) pushFrame(c *gin.Context) {
	ts, err := strconv.ParseInt(c.Query("timestamp_ms"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "timestamp_ms is required"})
		return
	}
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, MaxUploadSize+1))
	if err != nil || len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "frame body is required"})
		return
	}
	if len(data) > MaxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "frame exceeds size limit"})
		return
	}
	k.frames.set(data, ts)
	c.Status(http.StatusNoContent)
}

func (k *Kiosk) startCapture(c *gin.Context) {
	if k.orch.Snapshot().Screen != session.ScreenCapture {
		c.JSON(http.StatusConflict, gin.H{"error": "camera is not active"})
		return
	}

	k.mu.Lock()
	if k.capture != nil {
		k.mu.Unlock()
		c.JSON(http.StatusConflict, gin.H{"error": "capture already in progress"})
		return
	}
	capt := alignment.NewCapture(k.frames)
	k.capture = capt
	k.countdown = alignment.CountdownStart
	k.captureErr = ""
	k.mu.Unlock()

	capt.Start(k.setCountdown, k.captureDone)
	c.JSON(http.StatusAccepted, gin.H{"countdown": alignment.CountdownStart})
}

func (k *Kiosk) cancelCapture(c *gin.Context) {
	k.mu.Lock()
	capt := k.capture
	k.capture = nil
	k.countdown = 0
	k.mu.Unlock()
	if capt != nil {
		capt.Cancel()
	}
	c.JSON(http.StatusOK, gin.H{"cancelled": capt != nil})
}

func (k *Kiosk) captureDone(frame []byte, err error) {
	k.mu.Lock()
	k.capture = nil
	k.countdown = 0
	k.mu.Unlock()

	if err != nil {
		k.logger.Error("photo capture failed", zap.Error(err))
		k.mu.Lock()
		k.captureErr = "no camera input"
		k.mu.Unlock()
		return
	}

	src, err := compose.NewSourceImage(frame)
	if err != nil {
		k.logger.Error("captured frame is not a decodable image", zap.Error(err))
		k.mu.Lock()
		k.captureErr = "captured frame unreadable"
		k.mu.Unlock()
		return
	}

	k.orch.PhotoCaptured(src)
	if k.orch.Snapshot().Screen == session.ScreenEdit {
		k.editor.SetSource(context.Background(), src)
	}
}

func (k *Kiosk) submitPhoto(c *gin.Context) {
	if k.orch.Snapshot().Screen != session.ScreenUpload {
		c.JSON(http.StatusConflict, gin.H{"error": "upload screen is not active"})
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

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to open image"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxUploadSize+1))
	if err != nil || len(data) > MaxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds size limit"})
		return
	}

	src, err := compose.NewSourceImage(data)
	if err != nil {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "unsupported image format"})
		return
	}

	k.orch.PhotoUploaded(src)
	if k.orch.Snapshot().Screen == session.ScreenEdit {
		k.editor.SetSource(context.Background(), src)
	}
	c.JSON(http.StatusOK, gin.H{"screen": k.orch.Snapshot().Screen})
}

// submitDemoPhoto lands the bundled sample photo on Edit, the same path a
// real transfer takes.
func (k *Kiosk) submitDemoPhoto(c *gin.Context) {
	if k.orch.Snapshot().Screen != session.ScreenUpload {
		c.JSON(http.StatusConflict, gin.H{"error": "upload screen is not active"})
		return
	}
	if len(k.demo) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no demo photo is configured"})
		return
	}

	src, err := compose.NewSourceImage(k.demo)
	if err != nil {
		k.logger.Error("demo photo is not a decodable image", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "demo photo is unreadable"})
		return
	}

	k.orch.PhotoUploaded(src)
	if k.orch.Snapshot().Screen == session.ScreenEdit {
		k.editor.SetSource(context.Background(), src)
	}
	c.JSON(http.StatusOK, gin.H{"screen": k.orch.Snapshot().Screen})
}

func (k *Kiosk) setOptions(c *gin.Context) {
	var req struct {
		RemoveBackground   *bool `json:"remove_background"`
		LightingCorrection *bool `json:"lighting_correction"`
		Overlay            *struct {
			GarmentID string  `json:"garment_id"`
			OffsetX   int     `json:"offset_x"`
			OffsetY   int     `json:"offset_y"`
			Scale     float64 `json:"scale"`
		} `json:"overlay"`
		ClearOverlay bool `json:"clear_overlay"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid options payload"})
		return
	}
	if k.orch.Snapshot().Screen != session.ScreenEdit {
		c.JSON(http.StatusConflict, gin.H{"error": "edit screen is not active"})
		return
	}

	ctx := c.Request.Context()
	if req.RemoveBackground != nil {
		k.editor.SetRemoveBackground(ctx, *req.RemoveBackground)
	}
	if req.LightingCorrection != nil {
		k.editor.SetLightingCorrection(ctx, *req.LightingCorrection)
	}
	if req.ClearOverlay {
		k.editor.SetOverlay(ctx, nil)
	} else if req.Overlay != nil {
		k.editor.SetOverlay(ctx, &compose.OverlaySpec{
			GarmentID: req.Overlay.GarmentID,
			OffsetX:   req.Overlay.OffsetX,
			OffsetY:   req.Overlay.OffsetY,
			Scale:     req.Overlay.Scale,
		})
	}

	opts := k.editor.Options()
	c.JSON(http.StatusOK, gin.H{
		"remove_background":   opts.RemoveBackground,
		"lighting_correction": opts.LightingCorrection,
	})
}

func (k *Kiosk) confirm(c *gin.Context) {
	if err := k.orch.ConfirmPhoto(c.Request.Context(), k.editor.Final()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to store photo, try again"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"screen": k.orch.Snapshot().Screen})
}

func (k *Kiosk) openHandoff(c *gin.Context) {
	if k.orch.Snapshot().Screen != session.ScreenUpload {
		c.JSON(http.StatusConflict, gin.H{"error": "upload screen is not active"})
		return
	}

	k.mu.Lock()
	if k.dialog != nil {
		h := k.dialog
		k.mu.Unlock()
		c.JSON(http.StatusOK, gin.H{"token": h.Token, "url": h.URL})
		return
	}
	k.mu.Unlock()

	h, err := k.coordinator.Open(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to open upload session"})
		return
	}

	k.mu.Lock()
	k.dialog = h
	k.mu.Unlock()
	k.orch.SetUploading(true)
	go k.awaitHandoff(h)

	c.JSON(http.StatusOK, gin.H{"token": h.Token, "url": h.URL})
}

func (k *Kiosk) awaitHandoff(h *handoff.Handoff) {
	result, ok := <-h.Done
	k.orch.SetUploading(false)

	k.mu.Lock()
	if k.dialog == h {
		k.dialog = nil
	}
	k.mu.Unlock()

	if !ok || result.Err != nil {
		if ok {
			k.logger.Error("mobile hand-off failed", zap.Error(result.Err))
		}
		return
	}

	src, err := compose.NewSourceImage(result.Data)
	if err != nil {
		k.logger.Error("transferred image is not decodable", zap.Error(err))
		return
	}
	k.orch.PhotoUploaded(src)
	if k.orch.Snapshot().Screen == session.ScreenEdit {
		k.editor.SetSource(context.Background(), src)
	}
}

func (k *Kiosk) cancelHandoff(c *gin.Context) {
	k.closeDialog()
	k.orch.SetUploading(false)
	c.JSON(http.StatusOK, gin.H{"cancelled": true})
}

func (k *Kiosk) closeDialog() {
	k.mu.Lock()
	h := k.dialog
	k.dialog = nil
	k.mu.Unlock()
	if h != nil {
		h.Close()
	}
}

func (k *Kiosk) stopCamera() {
	k.mu.Lock()
	mon := k.monitor
	capt := k.capture
	k.monitor = nil
	k.capture = nil
	k.countdown = 0
	k.tilt = alignment.Unknown
	k.mu.Unlock()
	if capt != nil {
		capt.Cancel()
	}
	if mon != nil {
		mon.Stop()
	}
}

func (k *Kiosk) setTilt(state alignment.TiltState) {
	k.mu.Lock()
	k.tilt = state
	k.mu.Unlock()
}

func (k *Kiosk) setCountdown(remaining int) {
	k.mu.Lock()
	k.countdown = remaining
	k.mu.Unlock()
}

// frameBuffer holds the most recent preview frame posted by the UI. It is the
// frame source for both the alignment monitor and countdown capture; Close is
// a no-op because the buffer outlives any one consumer.
type frameBuffer struct {
	mu   sync.Mutex
	data []byte
	ts   int64
}

func newFrameBuffer() *frameBuffer {
	return &frameBuffer{}
}

func (b *frameBuffer) set(data []byte, timestampMs int64) {
	b.mu.Lock()
	b.data = data
	b.ts = timestampMs
	b.mu.Unlock()
}

func (b *frameBuffer) Frame() (alignment.Frame, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.data) == 0 {
		return alignment.Frame{}, alignment.ErrInputUnavailable
	}
	return alignment.Frame{Data: b.data, TimestampMs: b.ts}, nil
}

func (b *frameBuffer) Close() error {
	return nil
}
