package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
)

// InEllipse reports whether pixel (x, y) has its center inside the ellipse
// inscribed in r.
func InEllipse(x, y int, r image.Rectangle) bool {
	if r.Empty() {
		return false
	}
	rx := float64(r.Dx()) / 2
	ry := float64(r.Dy()) / 2
	dx := (float64(x) + 0.5 - (float64(r.Min.X) + rx)) / rx
	dy := (float64(y) + 0.5 - (float64(r.Min.Y) + ry)) / ry
	return dx*dx+dy*dy <= 1
}

// InRoundedRect reports whether pixel (x, y) lies inside r with corners of
// the given radius.
func InRoundedRect(x, y int, r image.Rectangle, radius float64) bool {
	px, py := float64(x)+0.5, float64(y)+0.5
	x0, y0 := float64(r.Min.X), float64(r.Min.Y)
	x1, y1 := float64(r.Max.X), float64(r.Max.Y)
	if px < x0 || px > x1 || py < y0 || py > y1 {
		return false
	}
	radius = math.Min(radius, math.Min((x1-x0)/2, (y1-y0)/2))
	if radius <= 0 {
		return true
	}
	cx := math.Max(x0+radius, math.Min(px, x1-radius))
	cy := math.Max(y0+radius, math.Min(py, y1-radius))
	dx, dy := px-cx, py-cy
	return dx*dx+dy*dy <= radius*radius
}

// Resize scales src to w×h with the Catmull-Rom (bicubic) kernel.
func Resize(src image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// Opaque copies src into a zero-origin RGBA composited over black, so the
// alpha channel of the result is always 255.
func Opaque(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, xdraw.Src)
	xdraw.Draw(dst, dst.Bounds(), src, b.Min, xdraw.Over)
	return dst
}

// AlphaOf extracts the alpha channel of src as a zero-origin mask.
func AlphaOf(src image.Image) *image.Alpha {
	b := src.Bounds()
	mask := image.NewAlpha(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			_, _, _, a := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			mask.SetAlpha(x, y, color.Alpha{A: uint8(a >> 8)})
		}
	}
	return mask
}

// Blur is a Gaussian blur returning an opaque RGBA.
func Blur(src image.Image, sigma float64) *image.RGBA {
	if sigma <= 0 {
		return Opaque(src)
	}
	return Opaque(imaging.Blur(src, sigma))
}
