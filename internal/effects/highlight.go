package effects

import (
	"image"
	"image/color"
	"math"

	"github.com/ivlev/info2video/internal/renderer"
)

// ClickHighlight pulses a rounded outline around a rectangle, twice a
// second, as if the block had just been clicked.
type ClickHighlight struct {
	Rect     image.Rectangle
	Length   float64
	Radius   float64
	MaxWidth float64
	Color    color.RGBA
}

func NewClickHighlight(r image.Rectangle, duration float64) *ClickHighlight {
	return &ClickHighlight{
		Rect:     r,
		Length:   duration,
		Radius:   50,
		MaxWidth: 10,
		Color:    color.RGBA{0, 120, 255, 255},
	}
}

func (c *ClickHighlight) Duration() float64 { return c.Length }

// Pulse is (sin(4πt)+1)/2, in [0, 1].
func (c *ClickHighlight) Pulse(t float64) float64 {
	return (math.Sin(2*math.Pi*t*2) + 1) / 2
}

func (c *ClickHighlight) Render(t float64) Frame {
	p := c.Pulse(t)
	bw := int(c.MaxWidth * p)
	if bw <= 0 || c.Rect.Empty() {
		return Frame{}
	}
	alpha := uint8(150 + 105*p)

	outer := c.Rect.Inset(-bw / 2)
	inner := outer.Inset(bw)
	innerRadius := math.Max(c.Radius-float64(bw), 0)

	w, h := outer.Dx(), outer.Dy()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	mask := image.NewAlpha(img.Bounds())

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(x, y)
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.Color.R, c.Color.G, c.Color.B, 255

			cx, cy := x+outer.Min.X, y+outer.Min.Y
			if renderer.InRoundedRect(cx, cy, outer, c.Radius) && !renderer.InRoundedRect(cx, cy, inner, innerRadius) {
				mask.Pix[y*mask.Stride+x] = alpha
			}
		}
	}

	return Frame{Image: img, Mask: mask, Offset: outer.Min}
}
