package engine

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/ivlev/info2video/internal/config"
	"github.com/ivlev/info2video/internal/content"
	"github.com/ivlev/info2video/internal/director"
	"github.com/ivlev/info2video/internal/effects"
	"github.com/ivlev/info2video/internal/video"
)

var errNoScenes = errors.New("scenario has no scenes")

// TitleInk is the color of titles stamped into SVG header placeholders.
var TitleInk = color.RGBA{0x22, 0x22, 0x22, 0xff}

// TimingFromConfig collects the director's pacing rules. With crossfades
// on, every scene holds an extra fade so the transition never eats into
// the narration.
func TimingFromConfig(cfg *config.Config) director.Timing {
	t := director.Timing{
		MaxTravel:   cfg.Lens.MaxTravel,
		TravelShare: cfg.Lens.TravelShare,
		Pulse:       cfg.Lens.PulseDuration,
		ReadingTail: cfg.Text.ReadingTail,
		MinTyping:   cfg.Text.MinTyping,
		Zoom:        cfg.Lens.Zoom,
		LensStart:   director.Point{X: cfg.Lens.StartX, Y: cfg.Lens.StartY},
		HighlightUp: cfg.Highlight.Lift,
	}
	cp := config.ConcatParams{Transition: cfg.Video.Transition, Fade: cfg.Video.FadeDuration}
	if cp.Crossfades(2) {
		t.Tail = cfg.Video.FadeDuration
	}
	return t
}

// ScalePositions converts block anchors from source units to base pixels.
func ScalePositions(blocks []content.Block, scale float64) {
	if scale == 1 || scale <= 0 {
		return
	}
	for i := range blocks {
		p := blocks[i].Position
		if p == nil {
			continue
		}
		blocks[i].Position = &content.Position{
			X:      p.X * scale,
			Y:      p.Y * scale,
			Width:  p.Width * scale,
			Height: p.Height * scale,
		}
	}
}

func ScaleRect(r image.Rectangle, scale float64) image.Rectangle {
	if scale == 1 || scale <= 0 {
		return r
	}
	return image.Rect(
		int(math.Floor(float64(r.Min.X)*scale)),
		int(math.Floor(float64(r.Min.Y)*scale)),
		int(math.Ceil(float64(r.Max.X)*scale)),
		int(math.Ceil(float64(r.Max.Y)*scale)),
	)
}

func missingPositions(blocks []content.Block) bool {
	for _, b := range blocks {
		if b.Position == nil {
			return true
		}
	}
	return false
}

// AlignDuration rounds d to a whole number of frames, at least one, so
// the audio track and the frame count agree.
func AlignDuration(d float64, fps int) float64 {
	return float64(video.FrameCount(d, fps)) / float64(fps)
}

// ClampFade shortens the transition to half the shortest scene when it
// would not fit inside it.
func ClampFade(fade float64, durations []float64) float64 {
	if fade <= 0 || len(durations) < 2 {
		return fade
	}
	shortest := math.Inf(1)
	for _, d := range durations {
		shortest = math.Min(shortest, d)
	}
	if fade >= shortest {
		return shortest / 2
	}
	return fade
}

// BuildScenes turns every planned scene into its layer stack.
func BuildScenes(s *director.Scenario, kit effects.Kit) ([]*effects.Scene, error) {
	if s == nil || len(s.Scenes) == 0 {
		return nil, errNoScenes
	}
	fps := kit.Config.Video.FPS
	size := kit.Base.Bounds().Size()

	scenes := make([]*effects.Scene, 0, len(s.Scenes))
	for _, sc := range s.Scenes {
		layers, err := effects.BuildLayers(sc, kit)
		if err != nil {
			return nil, fmt.Errorf("scene %d: %w", sc.ID, err)
		}
		scenes = append(scenes, &effects.Scene{
			ID:         sc.ID,
			Size:       size,
			Length:     AlignDuration(sc.Duration, fps),
			Layers:     layers,
			Audio:      sc.Audio,
			AudioDelay: sc.DialogueStart,
		})
	}
	return scenes, nil
}

func concatParams(scenes []*effects.Scene, cfg *config.Config) config.ConcatParams {
	durations := make([]float64, len(scenes))
	for i, sc := range scenes {
		durations[i] = sc.Length
	}
	return config.ConcatParams{
		Durations:  durations,
		Transition: cfg.Video.Transition,
		Fade:       ClampFade(cfg.Video.FadeDuration, durations),
		Encoder:    cfg.Video.Encoder,
		Quality:    cfg.Video.Quality,
		FPS:        cfg.Video.FPS,
	}
}
