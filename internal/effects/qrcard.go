package effects

import (
	"fmt"
	"image"

	"github.com/skip2/go-qrcode"

	"github.com/ivlev/info2video/internal/fonts"
	"github.com/ivlev/info2video/internal/layout"
	"github.com/ivlev/info2video/internal/renderer"
)

// NewQRCard builds the closing call-to-action: the blurred infographic, a
// white card holding a QR code for url and the caption under it.
func NewQRCard(url, caption string, background image.Image, canvas image.Point, family *fonts.Family, blur float64, duration float64) (*Still, error) {
	side := min(canvas.X, canvas.Y) / 2
	if side < 21 {
		return nil, fmt.Errorf("canvas %v too small for a QR card", canvas)
	}

	qr, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("qr encode: %w", err)
	}
	code := renderer.Opaque(qr.Image(side))

	card := renderer.Blur(background, blur)
	if card.Bounds().Size() != canvas {
		card = renderer.Resize(card, canvas.X, canvas.Y)
	}

	margin := side / 10
	face := family.Face(float64(side) / 10)
	m := fonts.Metrics{Face: face}
	captionLines := layout.Wrap(caption, m, float64(side))
	textH := layout.BlockHeight(captionLines, m, 4)

	cardW := side + 2*margin
	cardH := side + 2*margin + int(textH)
	origin := image.Pt((canvas.X-cardW)/2, (canvas.Y-cardH)/2)
	paintBox(card, image.Rectangle{Min: origin, Max: origin.Add(image.Pt(cardW, cardH))}, float64(margin))

	at := origin.Add(image.Pt(margin, margin))
	drawFrame(card, Frame{Image: code, Offset: at}, 255)

	y := float64(at.Y + side)
	for _, l := range captionLines {
		x := float64(origin.X) + (float64(cardW)-m.Width(l.Text))/2
		fonts.DrawString(card, face, x, y, l.Text, headingInk)
		y += m.Height(l.Text) + 4
	}

	return &Still{frame: Frame{Image: card}, duration: duration}, nil
}
