package effects

import (
	"image"
	"image/color"

	"golang.org/x/image/font"

	"github.com/ivlev/info2video/internal/config"
	"github.com/ivlev/info2video/internal/fonts"
	"github.com/ivlev/info2video/internal/layout"
	"github.com/ivlev/info2video/internal/renderer"
)

var (
	boxFill     = color.RGBA{255, 255, 255, 240}
	boxOutline  = color.RGBA{50, 50, 50, 255}
	headingInk  = color.RGBA{20, 40, 90, 255}
	bodyInk     = color.RGBA{25, 25, 25, 255}
	outlineSize = 6
)

// TypewriterOptions describes one dialogue overlay.
type TypewriterOptions struct {
	Canvas     image.Point
	Heading    string
	Points     []string
	Background image.Image // blurred once at construction
	Family     *fonts.Family
	Icon       image.Image // optional bullet icon
	Text       config.TextConfig
	Typing     float64 // seconds to reveal everything
	Length     float64 // seconds on screen
}

// Typewriter is the dialogue overlay: a blurred copy of the infographic,
// a rounded text box right of the character area, and the block text
// revealed character by character.
type Typewriter struct {
	opt      TypewriterOptions
	panel    *image.RGBA
	area     image.Rectangle // text area inside the box
	face     font.Face
	metrics  fonts.Metrics
	size     float64
	bl       layout.BlockLayout
	lines    []layout.Placement
	schedule layout.Schedule
	icon     *image.RGBA
	iconMask *image.Alpha
}

func NewTypewriter(opt TypewriterOptions) *Typewriter {
	tw := &Typewriter{opt: opt}
	tc := opt.Text
	W, H := opt.Canvas.X, opt.Canvas.Y

	left := int(float64(W) * tc.LeftReserve)
	pad := int(float64(W) * tc.Padding)
	boxH := int(float64(H) * tc.BoxHeight)
	box := image.Rect(left+pad, (H-boxH)/2, W-pad, (H+boxH)/2)
	area := box.Inset(pad)
	area.Max.X = area.Min.X + int(float64(area.Dx())*tc.TextWidth)
	tw.area = area

	iconW := 0.0
	if opt.Icon != nil && tc.IconSize > 0 {
		tw.icon = renderer.Resize(opt.Icon, tc.IconSize, tc.IconSize)
		tw.iconMask = renderer.AlphaOf(tw.icon)
		tw.icon = renderer.Opaque(tw.icon)
		iconW = float64(tc.IconSize)
	}

	tw.bl = layout.BlockLayout{Width: float64(area.Dx()), IconWidth: iconW, IconGap: float64(tc.IconGap)}
	tw.size = tw.bl.FitBlock(opt.Heading, opt.Points, func(size float64) layout.Face {
		return fonts.Metrics{Face: opt.Family.Face(size)}
	}, float64(area.Dy()), layout.FitOptions{
		MaxSize: float64(H) * tc.MaxSizeRatio,
		MinSize: tc.MinSize,
		Step:    tc.SizeStep,
		Spacing: tc.LineSpacing,
	})
	tw.face = opt.Family.Face(tw.size)
	tw.metrics = fonts.Metrics{Face: tw.face}
	tw.lines = tw.bl.Lay(opt.Heading, opt.Points, tw.metrics)

	full := layout.BlockText(opt.Heading, opt.Points)
	tw.schedule = layout.NewSchedule(full, opt.Typing)

	tw.panel = renderer.Blur(opt.Background, tc.BlurSigma)
	if tw.panel.Bounds().Size() != opt.Canvas {
		tw.panel = renderer.Resize(tw.panel, W, H)
	}
	paintBox(tw.panel, box, float64(tc.CornerRadius))

	return tw
}

func (tw *Typewriter) Duration() float64 { return tw.opt.Length }

// FontSize is the size chosen to fit the whole block in the box.
func (tw *Typewriter) FontSize() float64 { return tw.size }

// Lines returns what is on screen at t.
func (tw *Typewriter) Lines(t float64) []layout.Placement {
	if tw.opt.Text.Reflow {
		heading, points := layout.SplitBlock(tw.schedule.Visible(t))
		return tw.bl.Lay(heading, points, tw.metrics)
	}
	return layout.Reveal(tw.lines, tw.schedule.VisibleCount(t))
}

func (tw *Typewriter) Render(t float64) Frame {
	out := image.NewRGBA(tw.panel.Rect)
	copy(out.Pix, tw.panel.Pix)

	lineH := tw.metrics.Height("")
	spacing := tw.opt.Text.LineSpacing
	y := float64(tw.area.Min.Y)
	x0 := float64(tw.area.Min.X)

	for i, l := range tw.Lines(t) {
		if y+lineH > float64(tw.area.Max.Y) {
			break
		}
		ink := bodyInk
		if l.Kind == layout.Heading {
			ink = headingInk
		}
		if l.Kind == layout.BulletFirst && tw.icon != nil {
			size := tw.icon.Bounds().Size()
			at := image.Pt(int(x0), int(y+(lineH-float64(size.Y))/2))
			drawFrame(out, Frame{Image: tw.icon, Mask: tw.iconMask, Offset: at}, 255)
		}
		x := x0 + l.Indent
		if l.Kind == layout.Heading {
			x = tw.headingX(i, l.Text)
		}
		fonts.DrawString(out, tw.face, x, y, l.Text, ink)
		y += lineH + spacing
	}

	return Frame{Image: out}
}

// headingX centers heading line i using its fully typed text, so a
// partially revealed heading does not shift while it types.
func (tw *Typewriter) headingX(i int, text string) float64 {
	if i < len(tw.lines) && tw.lines[i].Kind == layout.Heading {
		text = tw.lines[i].Text
	}
	return float64(tw.area.Min.X) + (float64(tw.area.Dx())-tw.metrics.Width(text))/2
}

// paintBox draws the translucent rounded text box with its outline.
func paintBox(dst *image.RGBA, box image.Rectangle, radius float64) {
	inner := box.Inset(outlineSize)
	innerRadius := radius - float64(outlineSize)
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			if !renderer.InRoundedRect(x, y, box, radius) {
				continue
			}
			c := boxOutline
			if renderer.InRoundedRect(x, y, inner, innerRadius) {
				c = boxFill
			}
			blend(dst, x, y, c)
		}
	}
}

func blend(dst *image.RGBA, x, y int, c color.RGBA) {
	if !(image.Point{x, y}.In(dst.Rect)) {
		return
	}
	i := dst.PixOffset(x, y)
	a := uint32(c.A)
	for k, v := range []uint8{c.R, c.G, c.B} {
		dst.Pix[i+k] = uint8((uint32(v)*a + uint32(dst.Pix[i+k])*(255-a)) / 255)
	}
	dst.Pix[i+3] = 255
}
