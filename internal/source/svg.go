package source

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// SVGSource rasterizes a single SVG with oksvg. Text elements are not
// drawn; the placeholders left by text extraction mark where titles go.
type SVGSource struct {
	path string
	w, h float64
}

func NewSVGSource(path string) (*SVGSource, error) {
	icon, err := readIcon(path)
	if err != nil {
		return nil, err
	}
	w, h := icon.ViewBox.W, icon.ViewBox.H
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("svg %s has no view box", path)
	}
	return &SVGSource{path: path, w: w, h: h}, nil
}

func readIcon(path string) (*oksvg.SvgIcon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	icon, err := oksvg.ReadIconStream(f, oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("parse svg %s: %w", path, err)
	}
	return icon, nil
}

func (s *SVGSource) PageCount() int { return 1 }

func (s *SVGSource) GetPageDimensions(int) (float64, float64, error) {
	return s.w, s.h, nil
}

// RenderPage draws the SVG at dpi, user units being 1/96 inch, over white.
func (s *SVGSource) RenderPage(_ int, dpi int) (image.Image, error) {
	icon, err := readIcon(s.path)
	if err != nil {
		return nil, err
	}
	scale := float64(dpi) / 96
	if scale <= 0 {
		scale = 1
	}
	w := int(math.Round(s.w * scale))
	h := int(math.Round(s.h * scale))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	icon.SetTarget(0, 0, float64(w), float64(h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)
	return img, nil
}

func (s *SVGSource) Close() error { return nil }
