package effects

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"strconv"
	"strings"

	"github.com/ivlev/info2video/internal/config"
	"github.com/ivlev/info2video/internal/director"
	"github.com/ivlev/info2video/internal/fonts"
	"github.com/ivlev/info2video/internal/renderer"
)

// Kit is everything loaded once per run and shared by all scenes.
// Optional assets are nil when absent.
type Kit struct {
	Base    image.Image
	Family  *fonts.Family
	Icon    image.Image
	Cartoon *gif.GIF
	Config  *config.Config
}

// BuildLayers turns a planned scene into its layer stack:
// base, click pulse, lens, dialogue, character.
func BuildLayers(sc director.Scene, kit Kit) ([]Layer, error) {
	cfg := kit.Config
	canvas := kit.Base.Bounds().Size()

	if sc.Kind == director.KindOutro {
		card, err := NewQRCard(sc.URL, sc.Caption, kit.Base, canvas, kit.Family, cfg.Text.BlurSigma, sc.Duration)
		if err != nil {
			return nil, err
		}
		return []Layer{{Name: "outro", Effect: card, Start: 0, End: sc.Duration, FadeIn: cfg.Video.FadeDuration}}, nil
	}

	layers := []Layer{{
		Name:   "base",
		Effect: NewStill(kit.Base, image.Point{}, sc.Duration),
		Start:  0,
		End:    sc.Duration,
	}}

	if sc.Highlight != nil && cfg.Highlight.Enabled && sc.DialogueStart > 0 {
		hl := NewClickHighlight(sc.Highlight.Rect(), cfg.Highlight.Duration)
		hl.Radius = float64(cfg.Highlight.Radius)
		hl.MaxWidth = cfg.Highlight.MaxWidth
		layers = append(layers, Layer{
			Name:   "highlight",
			Effect: hl,
			End:    min(cfg.Highlight.Duration, sc.DialogueStart),
		})
	}

	if sc.Lens != nil && sc.DialogueStart > 0 {
		opt := DefaultMagnifierOptions()
		opt.Start = renderer.Point{X: sc.Lens.Start.X, Y: sc.Lens.Start.Y}
		opt.End = renderer.Point{X: sc.Lens.End.X, Y: sc.Lens.End.Y}
		opt.Zoom = sc.Lens.Zoom
		opt.Travel = sc.Lens.Travel
		opt.Pulse = sc.Lens.Pulse
		opt.Size = image.Pt(cfg.Lens.Size, cfg.Lens.Size)
		opt.BorderWidth = cfg.Lens.BorderWidth
		opt.PulseAmplitude = cfg.Lens.PulseAmplitude
		opt.PulseRate = cfg.Lens.PulseRate
		opt.ShadowOffset = cfg.Lens.ShadowOffset
		if c, err := ParseHexColor(cfg.Lens.BorderColor); err == nil {
			opt.BorderColor = c
		}

		lens, err := NewMagnifier(kit.Base, opt)
		if err != nil {
			return nil, fmt.Errorf("scene %d lens: %w", sc.ID, err)
		}
		layers = append(layers, Layer{Name: "lens", Effect: lens, End: sc.DialogueStart})
	}

	dialogue := sc.Duration - sc.DialogueStart
	if dialogue > 0 {
		tw := NewTypewriter(TypewriterOptions{
			Canvas:     canvas,
			Heading:    sc.Title,
			Points:     sc.Points,
			Background: kit.Base,
			Family:     kit.Family,
			Icon:       kit.Icon,
			Text:       cfg.Text,
			Typing:     sc.Typing,
			Length:     dialogue,
		})
		layers = append(layers, Layer{
			Name:   "dialogue",
			Effect: tw,
			Start:  sc.DialogueStart,
			End:    sc.Duration,
			FadeIn: cfg.Video.FadeDuration,
		})

		if kit.Cartoon != nil {
			reserve := int(float64(canvas.X) * cfg.Text.LeftReserve)
			height := canvas.Y / 2
			loop, err := NewGifLoop(kit.Cartoon, GifOptions{
				Height:   height,
				Trim:     cfg.Assets.CartoonCrop,
				At:       image.Pt(max(0, reserve/8), canvas.Y-height-canvas.Y/10),
				Duration: dialogue,
			})
			if err == nil {
				layers = append(layers, Layer{
					Name:   "character",
					Effect: loop,
					Start:  sc.DialogueStart,
					End:    sc.Duration,
					FadeIn: cfg.Video.FadeDuration,
				})
			}
		}
	}

	return layers, nil
}

// ParseHexColor accepts #rgb and #rrggbb.
func ParseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
