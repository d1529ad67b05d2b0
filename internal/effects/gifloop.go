package effects

import (
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"math"
	"os"

	"github.com/ivlev/info2video/internal/renderer"
)

// GifOptions places a looping animation on the canvas.
type GifOptions struct {
	Height   int         // target height, 0 keeps the source height
	Trim     bool        // cut the 50px left and 20px right margins
	At       image.Point // top-left on the canvas
	Duration float64
}

// GifLoop replays a decoded GIF for as long as it is on screen.
type GifLoop struct {
	frames   []Frame
	frameDur float64
	opt      GifOptions
}

// LoadGIF decodes every frame of a GIF file.
func LoadGIF(path string) (*gif.GIF, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return gif.DecodeAll(f)
}

func NewGifLoop(g *gif.GIF, opt GifOptions) (*GifLoop, error) {
	if g == nil || len(g.Image) == 0 {
		return nil, fmt.Errorf("gif has no frames")
	}

	canvas := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if canvas.Empty() {
		canvas = g.Image[0].Bounds()
	}
	crop := canvas
	if opt.Trim && canvas.Dx() > 70 {
		crop = image.Rect(canvas.Min.X+50, canvas.Min.Y, canvas.Max.X-20, canvas.Max.Y)
	}

	w, h := crop.Dx(), crop.Dy()
	if opt.Height > 0 && opt.Height != h {
		w = max(1, int(math.Round(float64(w)*float64(opt.Height)/float64(h))))
		h = opt.Height
	}

	loop := &GifLoop{opt: opt}
	totalMs := 0
	for i, rgba := range composeGIF(g, canvas) {
		img := rgba.SubImage(crop)
		if w != crop.Dx() || h != crop.Dy() {
			img = renderer.Resize(img, w, h)
		}
		loop.frames = append(loop.frames, Frame{
			Image:  renderer.Opaque(img),
			Mask:   renderer.AlphaOf(img),
			Offset: opt.At,
		})
		totalMs += delayMs(g, i)
	}
	loop.frameDur = float64(totalMs) / float64(len(loop.frames)) / 1000
	return loop, nil
}

func (l *GifLoop) Duration() float64 { return l.opt.Duration }

// FPS is the playback rate: one frame per average source delay.
func (l *GifLoop) FPS() float64 { return 1 / l.frameDur }

func (l *GifLoop) FrameIndex(t float64) int {
	n := len(l.frames)
	cycle := l.frameDur * float64(n)
	pos := math.Mod(t, cycle)
	if pos < 0 {
		pos += cycle
	}
	return int(pos/l.frameDur) % n
}

func (l *GifLoop) Render(t float64) Frame {
	return l.frames[l.FrameIndex(t)]
}

// delayMs is the frame delay, 100ms when the file leaves it unset.
func delayMs(g *gif.GIF, i int) int {
	if i < len(g.Delay) && g.Delay[i] > 0 {
		return g.Delay[i] * 10
	}
	return 100
}

// composeGIF renders each frame over its predecessors, honoring disposal.
func composeGIF(g *gif.GIF, canvas image.Rectangle) []*image.RGBA {
	out := make([]*image.RGBA, 0, len(g.Image))
	cur := image.NewRGBA(canvas)

	for i, frame := range g.Image {
		var saved *image.RGBA
		disposal := byte(0)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			saved = cloneRGBA(cur)
		}

		draw.Draw(cur, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
		out = append(out, cloneRGBA(cur))

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(cur, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			cur = saved
		}
	}
	return out
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Rect)
	copy(dst.Pix, src.Pix)
	return dst
}
