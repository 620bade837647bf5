package compose

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"sync"

	"go.uber.org/zap"
	xdraw "golang.org/x/image/draw"

	"github.com/example/photopoint/internal/logging"
	"github.com/example/photopoint/internal/vision"
)

// PersonCategory is the category index the selfie segmentation model assigns
// to the subject. The mapping was verified empirically against the deployed
// model: the documented convention (0 = background) is reversed for this one,
// so do not change this without re-running the fixture test.
const PersonCategory byte = 0

// Lighting correction gains, applied over the drawn region only.
const (
	BrightnessGain = 1.10
	ContrastGain   = 1.10
	SaturationGain = 1.10
)

// GarmentSource loads overlay assets by id.
type GarmentSource interface {
	Garment(id string) (image.Image, error)
}

// Composer transforms a raw photo into the standardized passport image.
// Results are deterministic for identical inputs and identical segmenter
// output; segmentation masks are cached per source image identity.
type Composer struct {
	segmenter vision.Segmenter
	garments  GarmentSource
	logger    *zap.Logger

	mu    sync.Mutex
	masks map[string]*maskEntry
}

type maskEntry struct {
	once sync.Once
	mask *vision.Mask
	err  error
}

// NewComposer constructs a composition pipeline. garments may be nil when no
// overlay assets are configured.
func NewComposer(segmenter vision.Segmenter, garments GarmentSource, logger *zap.Logger) *Composer {
	return &Composer{
		segmenter: segmenter,
		garments:  garments,
		logger:    logger.Named("composer"),
		masks:     make(map[string]*maskEntry),
	}
}

// Compose runs the stage pipeline: background isolation, canvas fill,
// center-crop, lighting correction, garment overlay. An isolation failure is
// returned to the caller; every later stage degrades instead of failing.
func (c *Composer) Compose(ctx context.Context, src *SourceImage, opts Options) (image.Image, error) {
	subject := src.Img
	if opts.RemoveBackground {
		isolated, err := c.isolate(ctx, src)
		if err != nil {
			return nil, err
		}
		subject = isolated
	}

	canvas := image.NewNRGBA(image.Rect(0, 0, TargetWidth, TargetHeight))
	background := opts.BackgroundColor
	if background.A == 0 {
		background = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	layer := image.NewNRGBA(canvas.Bounds())
	xdraw.ApproxBiLinear.Scale(layer, layer.Bounds(), subject, cropRect(subject.Bounds()), xdraw.Src, nil)

	if opts.LightingCorrection {
		correctLighting(layer)
	}
	draw.Draw(canvas, canvas.Bounds(), layer, image.Point{}, draw.Over)

	if opts.Overlay != nil {
		c.drawOverlay(canvas, opts.Overlay)
	}
	return canvas, nil
}

// isolate fetches the category mask (once per distinct source) and clears
// every non-person pixel to full transparency.
func (c *Composer) isolate(ctx context.Context, src *SourceImage) (*image.NRGBA, error) {
	mask, err := c.maskFor(ctx, src)
	if err != nil {
		return nil, err
	}

	bounds := src.Img.Bounds()
	if mask.Width != bounds.Dx() || mask.Height != bounds.Dy() {
		return nil, logging.NewOperationError("compose.isolate", src.ID,
			fmt.Errorf("%w: mask %dx%d does not match image %dx%d",
				vision.ErrInferenceFailure, mask.Width, mask.Height, bounds.Dx(), bounds.Dy()))
	}

	out := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), src.Img, bounds.Min, draw.Src)
	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			if mask.At(x, y) != PersonCategory {
				out.Pix[out.PixOffset(x, y)+3] = 0
			}
		}
	}
	return out, nil
}

// maskFor serializes segmentation per source key: concurrent requests for the
// same source wait on the first instead of racing on a half-populated cache.
// Failed lookups are evicted so a fresh session can try again.
func (c *Composer) maskFor(ctx context.Context, src *SourceImage) (*vision.Mask, error) {
	c.mu.Lock()
	entry, ok := c.masks[src.ID]
	if !ok {
		entry = &maskEntry{}
		c.masks[src.ID] = entry
	}
	c.mu.Unlock()

	entry.once.Do(func() {
		entry.mask, entry.err = c.segmenter.Segment(ctx, src.Data)
		if entry.err != nil {
			entry.err = logging.NewOperationError("compose.segment", src.ID,
				fmt.Errorf("%w: %v", vision.ErrInferenceFailure, entry.err))
		}
	})
	if entry.err != nil {
		c.mu.Lock()
		delete(c.masks, src.ID)
		c.mu.Unlock()
		return nil, entry.err
	}
	return entry.mask, nil
}

// cropRect computes the center-crop of the source matching the target aspect.
// A relatively wider source keeps full height and trims the sides; a taller
// one keeps full width and trims top and bottom. Aspect is preserved by
// cropping, never by stretching.
func cropRect(bounds image.Rectangle) image.Rectangle {
	srcW, srcH := bounds.Dx(), bounds.Dy()
	// Compare srcW/srcH against AspectWidth/AspectHeight without floats.
	if srcW*AspectHeight > srcH*AspectWidth {
		cropW := srcH * AspectWidth / AspectHeight
		x0 := bounds.Min.X + (srcW-cropW)/2
		return image.Rect(x0, bounds.Min.Y, x0+cropW, bounds.Max.Y)
	}
	cropH := srcW * AspectHeight / AspectWidth
	y0 := bounds.Min.Y + (srcH-cropH)/2
	return image.Rect(bounds.Min.X, y0, bounds.Max.X, y0+cropH)
}

// correctLighting applies the fixed brightness, contrast, and saturation
// gains in place. Fully transparent pixels carry no subject and are left
// untouched.
func correctLighting(img *image.NRGBA) {
	pix := img.Pix
	for i := 0; i < len(pix); i += 4 {
		if pix[i+3] == 0 {
			continue
		}
		r := float64(pix[i])
		g := float64(pix[i+1])
		b := float64(pix[i+2])

		r *= BrightnessGain
		g *= BrightnessGain
		b *= BrightnessGain

		r = (r-128)*ContrastGain + 128
		g = (g-128)*ContrastGain + 128
		b = (b-128)*ContrastGain + 128

		gray := 0.299*r + 0.587*g + 0.114*b
		r = gray + (r-gray)*SaturationGain
		g = gray + (g-gray)*SaturationGain
		b = gray + (b-gray)*SaturationGain

		pix[i] = clampByte(r)
		pix[i+1] = clampByte(g)
		pix[i+2] = clampByte(b)
	}
}

func clampByte(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v + 0.5)
}

// drawOverlay places the garment at bottom-center, sized to a fraction of the
// canvas width and displaced by the overlay's offsets. A missing asset skips the
// stage; the rest of the pipeline still produced a usable image.
func (c *Composer) drawOverlay(canvas *image.NRGBA, spec *OverlaySpec) {
	if c.garments == nil {
		return
	}
	garment, err := c.garments.Garment(spec.GarmentID)
	if err != nil {
		c.logger.Warn("garment overlay skipped",
			zap.String("garment_id", spec.GarmentID), zap.Error(err))
		return
	}

	scale := spec.Scale
	if scale == 0 {
		scale = 1
	}
	if scale < OverlayMinScale {
		scale = OverlayMinScale
	}
	if scale > OverlayMaxScale {
		scale = OverlayMaxScale
	}

	gb := garment.Bounds()
	if gb.Dx() == 0 || gb.Dy() == 0 {
		return
	}
	width := int(float64(TargetWidth) * OverlayWidthFraction * scale)
	height := width * gb.Dy() / gb.Dx()
	if width <= 0 || height <= 0 {
		return
	}

	x0 := (TargetWidth-width)/2 + spec.OffsetX
	y0 := TargetHeight - height + spec.OffsetY
	dst := image.Rect(x0, y0, x0+width, y0+height)
	xdraw.ApproxBiLinear.Scale(canvas, dst, garment, gb, xdraw.Over, nil)
}

// EncodePNG serializes a finished canvas with transparency preserved.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
