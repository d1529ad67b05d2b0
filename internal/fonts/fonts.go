// Package fonts resolves the narration font. A missing or broken font file
// is not an error: text falls back to the built-in 7x13 bitmap face.
package fonts

import (
	"image"
	"image/color"
	"image/draw"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Family is a parsed scalable font. The zero value (or nil) is the
// bitmap fallback.
type Family struct {
	font *opentype.Font
	path string
}

// Load parses the font at path. Failures are logged and yield the fallback.
func Load(path string, log zerolog.Logger) *Family {
	if path == "" {
		log.Debug().Msg("no font configured, using built-in bitmap face")
		return &Family{}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("font", path).Msg("font unavailable, using built-in bitmap face")
		return &Family{}
	}

	f, err := opentype.Parse(data)
	if err != nil {
		log.Warn().Err(err).Str("font", path).Msg("font unreadable, using built-in bitmap face")
		return &Family{}
	}

	return &Family{font: f, path: path}
}

func (f *Family) Scalable() bool { return f != nil && f.font != nil }

// Face returns a new face at size pixels. Faces are not safe for
// concurrent use, so every effect asks for its own.
func (f *Family) Face(size float64) font.Face {
	if !f.Scalable() {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(f.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	return face
}

// Metrics adapts a font.Face to the layout measurements.
type Metrics struct {
	Face font.Face
}

func (m Metrics) Width(s string) float64 {
	return toFloat(font.MeasureString(m.Face, s))
}

// Height is the face line box; it does not depend on the glyphs of s so
// stacked lines stay evenly spaced.
func (m Metrics) Height(string) float64 {
	met := m.Face.Metrics()
	return toFloat(met.Ascent + met.Descent)
}

func (m Metrics) Ascent() float64 {
	return toFloat(m.Face.Metrics().Ascent)
}

// DrawString draws s with its line box top-left at (x, top).
func DrawString(dst draw.Image, face font.Face, x, top float64, s string, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fromFloat(x), Y: fromFloat(top) + face.Metrics().Ascent},
	}
	d.DrawString(s)
}

func toFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }

func fromFloat(v float64) fixed.Int26_6 { return fixed.Int26_6(v * 64) }
