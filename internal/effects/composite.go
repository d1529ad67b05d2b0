package effects

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"

	"github.com/ivlev/info2video/internal/renderer"
)

// Layer places an effect on a scene timeline, active on [Start, End).
type Layer struct {
	Name   string
	Effect Effect
	Start  float64
	End    float64
	FadeIn float64 // seconds of eased opacity ramp after Start
}

func (l Layer) Active(t float64) bool {
	return t >= l.Start && t < l.End
}

// opacity is 0..255 at scene time t.
func (l Layer) opacity(t float64) uint8 {
	if l.FadeIn <= 0 {
		return 255
	}
	p := renderer.EaseInOutCubic(renderer.Clamp01((t - l.Start) / l.FadeIn))
	return uint8(p*255 + 0.5)
}

// Composite clears dst to black and draws every active layer in order.
func Composite(dst *image.RGBA, layers []Layer, t float64) {
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, xdraw.Src)

	for _, l := range layers {
		if !l.Active(t) {
			continue
		}
		f := l.Effect.Render(t - l.Start)
		if f.Empty() {
			continue
		}
		drawFrame(dst, f, l.opacity(t))
	}
}

func drawFrame(dst *image.RGBA, f Frame, opacity uint8) {
	src := f.Image.Bounds()
	r := src.Sub(src.Min).Add(f.Offset).Add(dst.Bounds().Min)

	if f.Mask == nil && opacity == 255 {
		xdraw.Draw(dst, r, f.Image, src.Min, xdraw.Src)
		return
	}

	var mask image.Image = image.NewUniform(color.Alpha{A: opacity})
	mp := image.Point{}
	if f.Mask != nil {
		mask, mp = f.Mask, f.Mask.Bounds().Min
		if opacity < 255 {
			mask, mp = scaleMask(f.Mask, opacity), image.Point{}
		}
	}
	xdraw.DrawMask(dst, r, f.Image, src.Min, mask, mp, xdraw.Over)
}

func scaleMask(m *image.Alpha, opacity uint8) *image.Alpha {
	b := m.Bounds()
	out := image.NewAlpha(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			a := uint16(m.AlphaAt(b.Min.X+x, b.Min.Y+y).A)
			out.Pix[y*out.Stride+x] = uint8(a * uint16(opacity) / 255)
		}
	}
	return out
}
