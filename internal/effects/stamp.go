package effects

import (
	"image"
	"image/color"

	"github.com/ivlev/info2video/internal/fonts"
	"github.com/ivlev/info2video/internal/layout"
)

// StampText writes text into box on dst at the largest size that fits,
// vertically centered. It is used to put block titles back into the header
// placeholders of an extracted SVG.
func StampText(dst *image.RGBA, box image.Rectangle, text string, family *fonts.Family, ink color.Color) {
	if box.Empty() || text == "" {
		return
	}
	size := layout.FitFontSize(text, func(size float64) layout.Face {
		return fonts.Metrics{Face: family.Face(size)}
	}, float64(box.Dx()), float64(box.Dy()), layout.FitOptions{
		MaxSize: float64(box.Dy()),
		MinSize: 8,
		Step:    1,
		Spacing: 2,
	})

	face := family.Face(size)
	m := fonts.Metrics{Face: face}
	lines := layout.Wrap(text, m, float64(box.Dx()))
	y := float64(box.Min.Y) + (float64(box.Dy())-layout.BlockHeight(lines, m, 2))/2
	for _, l := range lines {
		fonts.DrawString(dst, face, float64(box.Min.X), y, l.Text, ink)
		y += m.Height(l.Text) + 2
	}
}
