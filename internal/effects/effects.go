// Package effects renders the animated overlays of a scene. Every effect is
// a pure function of elapsed time over parameters fixed at construction:
// all asset decoding and resampling happens in the constructors.
package effects

import (
	"errors"
	"image"

	"github.com/ivlev/info2video/internal/renderer"
)

var (
	ErrInvalidZoom = errors.New("zoom factor must be positive")
	ErrEmptySize   = errors.New("size must have non-zero width and height")
)

// Frame is one rendered overlay. Image carries color only (its alpha
// channel is always opaque); transparency lives in Mask, which has the same
// bounds. A nil Mask means fully opaque.
type Frame struct {
	Image  *image.RGBA
	Mask   *image.Alpha
	Offset image.Point // top-left on the canvas
}

func (f Frame) Empty() bool {
	return f.Image == nil || f.Image.Bounds().Empty()
}

// Effect produces frames for t in [0, Duration()). Render must not depend
// on previous calls; it may be called in any order but not concurrently.
type Effect interface {
	Duration() float64
	Render(t float64) Frame
}

// Still shows the same frame for its whole duration.
type Still struct {
	frame    Frame
	duration float64
}

// NewStill snapshots img at the given canvas offset. Transparent areas of
// img become the mask.
func NewStill(img image.Image, at image.Point, duration float64) *Still {
	f := Frame{Image: renderer.Opaque(img), Offset: at}
	if !isOpaque(img) {
		f.Mask = renderer.AlphaOf(img)
	}
	return &Still{frame: f, duration: duration}
}

func (s *Still) Duration() float64 { return s.duration }

func (s *Still) Render(float64) Frame { return s.frame }

func isOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return false
}
