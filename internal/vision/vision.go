package vision

import (
	"context"
	"errors"
)

// ErrInferenceFailure indicates the landmark or segmentation capability
// errored or timed out.
var ErrInferenceFailure = errors.New("vision inference failure")

// Landmark indices of the iris centers in the 478-point face mesh.
const (
	LeftIrisIndex  = 468
	RightIrisIndex = 473
)

// Point is a single face landmark in normalized [0,1] image coordinates.
type Point struct {
	X float32
	Y float32
	Z float32
}

// Mask is a category mask aligned pixel-for-pixel with the segmented image.
// Categories holds one category index per pixel in row-major order.
type Mask struct {
	Categories []byte
	Width      int
	Height     int
}

// At returns the category index for the pixel at (x, y).
func (m *Mask) At(x, y int) byte {
	return m.Categories[y*m.Width+x]
}

// Landmarker detects face landmarks in a single video frame.
// The returned slice, when found is true, has at least RightIrisIndex+1 points.
type Landmarker interface {
	DetectLandmarks(ctx context.Context, frame []byte, timestampMs int64) ([]Point, bool, error)
}

// Segmenter produces a category mask for a still image.
type Segmenter interface {
	Segment(ctx context.Context, image []byte) (*Mask, error)
}

// Capability bundles the two inference contracts the kiosk consumes.
type Capability interface {
	Landmarker
	Segmenter
}
