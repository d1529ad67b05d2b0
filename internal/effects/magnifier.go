package effects

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/ivlev/info2video/internal/renderer"
)

// MagnifierOptions configures the lens. Start and End are lens centers in
// canvas pixels.
type MagnifierOptions struct {
	Start, End     renderer.Point
	Zoom           float64
	Size           image.Point
	BorderColor    color.RGBA
	BorderWidth    int
	Travel         float64
	Pulse          float64
	PulseAmplitude float64
	PulseRate      float64
	ShadowOffset   int
}

// DefaultMagnifierOptions mirrors the classic lens: 150px, x2, white ring.
func DefaultMagnifierOptions() MagnifierOptions {
	return MagnifierOptions{
		Zoom:           2.0,
		Size:           image.Pt(150, 150),
		BorderColor:    color.RGBA{255, 255, 255, 255},
		BorderWidth:    4,
		Travel:         3.0,
		Pulse:          3.5,
		PulseAmplitude: 0.05,
		PulseRate:      2,
		ShadowOffset:   5,
	}
}

// Magnifier pans a circular lens over a still image and then breathes at
// the end point.
type Magnifier struct {
	base *image.RGBA // private snapshot, never mutated
	opt  MagnifierOptions
}

func NewMagnifier(base image.Image, opt MagnifierOptions) (*Magnifier, error) {
	if opt.Zoom <= 0 || math.IsNaN(opt.Zoom) {
		return nil, ErrInvalidZoom
	}
	if opt.Size.X <= 0 || opt.Size.Y <= 0 {
		return nil, ErrEmptySize
	}
	if opt.Travel <= 0 {
		return nil, fmt.Errorf("lens travel must be positive, got %.3f", opt.Travel)
	}
	if base == nil || base.Bounds().Empty() {
		return nil, fmt.Errorf("lens needs a non-empty base image")
	}
	if opt.Pulse < 0 {
		opt.Pulse = 0
	}
	if opt.ShadowOffset < 0 {
		opt.ShadowOffset = 0
	}
	return &Magnifier{base: renderer.Opaque(base), opt: opt}, nil
}

func (m *Magnifier) Duration() float64 { return m.opt.Travel + m.opt.Pulse }

// State is the lens center and scale at t.
func (m *Magnifier) State(t float64) renderer.LensState {
	return renderer.TravelThenHold(m.opt.Start, m.opt.End, m.opt.Travel, t, func(elapsed float64) float64 {
		return renderer.Pulse(m.opt.PulseAmplitude, m.opt.PulseRate, elapsed, m.opt.Pulse)
	})
}

// CropRect is the base-image area sampled at t: Size/Zoom around the lens
// center, shifted to stay inside the image and truncated when the image is
// smaller than the crop.
func (m *Magnifier) CropRect(t float64) image.Rectangle {
	st := m.State(t)
	b := m.base.Bounds()

	cw := max(1, int(float64(m.opt.Size.X)/m.opt.Zoom))
	ch := max(1, int(float64(m.opt.Size.Y)/m.opt.Zoom))

	x0 := clampInt(int(math.Floor(st.X))-cw/2, 0, max(0, b.Dx()-cw))
	y0 := clampInt(int(math.Floor(st.Y))-ch/2, 0, max(0, b.Dy()-ch))

	return image.Rect(x0, y0, min(x0+cw, b.Dx()), min(y0+ch, b.Dy()))
}

// Center of the clip on the canvas; it follows the travel and then stays put.
func (m *Magnifier) Center(t float64) renderer.Point {
	return renderer.LerpPoint(m.opt.Start, m.opt.End, math.Min(math.Max(t, 0)/m.opt.Travel, 1.0))
}

func (m *Magnifier) Render(t float64) Frame {
	st := m.State(t)
	fw := max(1, int(float64(m.opt.Size.X)*st.Scale))
	fh := max(1, int(float64(m.opt.Size.Y)*st.Scale))

	lens := renderer.Resize(m.base.SubImage(m.CropRect(t)), fw, fh)

	pad := m.opt.ShadowOffset
	w, h := fw+2*pad, fh+2*pad
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	mask := image.NewAlpha(img.Bounds())

	lensRect := image.Rect(pad, pad, pad+fw, pad+fh)
	inner := lensRect.Inset(m.opt.BorderWidth)
	shadowRect := image.Rect(pad, pad, w, h)
	border := m.opt.BorderColor
	border.A = 255

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(x, y)
			switch {
			case renderer.InEllipse(x, y, lensRect):
				mask.Pix[y*mask.Stride+x] = 255
				if m.opt.BorderWidth > 0 && !renderer.InEllipse(x, y, inner) {
					copy(img.Pix[i:i+4], []uint8{border.R, border.G, border.B, 255})
				} else {
					j := lens.PixOffset(x-pad, y-pad)
					copy(img.Pix[i:i+4], lens.Pix[j:j+4])
					img.Pix[i+3] = 255
				}
			case renderer.InEllipse(x, y, shadowRect):
				mask.Pix[y*mask.Stride+x] = 80
				img.Pix[i+3] = 255
			default:
				img.Pix[i+3] = 255
			}
		}
	}

	c := m.Center(t)
	return Frame{
		Image:  img,
		Mask:   mask,
		Offset: image.Pt(int(math.Floor(c.X))-w/2, int(math.Floor(c.Y))-h/2),
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
