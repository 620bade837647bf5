package compose

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"image"
	"image/color"

	_ "image/jpeg"
	_ "image/png"
)

// Target canvas geometry. Passport format is 35mm x 45mm; the canvas keeps
// that aspect at a nominal 600 unit width.
const (
	AspectWidth  = 35
	AspectHeight = 45
	TargetWidth  = 600
	TargetHeight = TargetWidth * AspectHeight / AspectWidth
)

// Garment overlay sizing.
const (
	OverlayWidthFraction = 0.8
	OverlayMinScale      = 0.5
	OverlayMaxScale      = 2.0
)

// OverlaySpec positions a garment image on the finished canvas. Offsets are
// relative to the default bottom-center anchor; Scale multiplies the default
// width fraction and is clamped to [OverlayMinScale, OverlayMaxScale].
type OverlaySpec struct {
	GarmentID string
	OffsetX   int
	OffsetY   int
	Scale     float64
}

// Options is an immutable enhancement value. Every change produces a new
// value and triggers re-composition; cropping to the target format is
// structural and always on, so it has no field here.
type Options struct {
	RemoveBackground   bool
	BackgroundColor    color.NRGBA
	LightingCorrection bool
	Overlay            *OverlaySpec
}

// DefaultOptions matches the kiosk's initial edit state: background removal
// and lighting correction on, white backdrop.
func DefaultOptions() Options {
	return Options{
		RemoveBackground:   true,
		BackgroundColor:    color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		LightingCorrection: true,
	}
}

// WithRemoveBackground returns a copy with background removal toggled.
func (o Options) WithRemoveBackground(enabled bool) Options {
	o.RemoveBackground = enabled
	return o
}

// WithLightingCorrection returns a copy with lighting correction toggled.
func (o Options) WithLightingCorrection(enabled bool) Options {
	o.LightingCorrection = enabled
	return o
}

// WithOverlay returns a copy with the garment overlay replaced.
func (o Options) WithOverlay(overlay *OverlaySpec) Options {
	o.Overlay = overlay
	return o
}

// SourceImage is a decoded photo plus its originally encoded bytes. ID is the
// content hash and keys the segmentation cache: re-composing the same source
// never re-invokes the segmenter.
type SourceImage struct {
	ID   string
	Img  image.Image
	Data []byte
}

// NewSourceImage decodes an encoded photo and derives its cache identity.
func NewSourceImage(data []byte) (*SourceImage, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	hash := sha1.Sum(data)
	return &SourceImage{
		ID:   hex.EncodeToString(hash[:]),
		Img:  img,
		Data: data,
	}, nil
}
