package fonts

import (
	"image"
	"image/color"
	"io"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/image/font/basicfont"
)

func TestLoadMissingFallsBack(t *testing.T) {
	fam := Load(filepath.Join(t.TempDir(), "nope.ttf"), zerolog.New(io.Discard))
	if fam.Scalable() {
		t.Fatal("expected fallback family")
	}
	if fam.Face(40) != basicfont.Face7x13 {
		t.Error("expected built-in bitmap face")
	}

	var nilFam *Family
	if nilFam.Face(12) != basicfont.Face7x13 {
		t.Error("nil family should also fall back")
	}
}

func TestMetricsOnBitmapFace(t *testing.T) {
	m := Metrics{Face: basicfont.Face7x13}
	if w := m.Width("abcd"); w != 28 {
		t.Errorf("expected 4*7=28px, got %.1f", w)
	}
	if h := m.Height("x"); h != m.Height("Ég") || h <= 0 {
		t.Errorf("line height should be constant and positive, got %.1f", h)
	}
}

func TestDrawStringMarksPixels(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 60, 20))
	DrawString(img, basicfont.Face7x13, 2, 2, "Hi", color.RGBA{255, 0, 0, 255})

	painted := 0
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 0 {
			painted++
		}
	}
	if painted == 0 {
		t.Error("expected glyph pixels to be drawn")
	}
}
