package director

import (
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/ivlev/info2video/internal/analyzer"
	"github.com/ivlev/info2video/internal/content"
)

// Timing holds the pacing rules used to lay out every scene.
type Timing struct {
	MaxTravel   float64 // lens travel cap, seconds
	TravelShare float64 // share of the narration spent travelling
	Pulse       float64 // lens hold after travel
	ReadingTail float64 // narration left after the text is fully typed
	MinTyping   float64
	Zoom        float64
	LensStart   Point
	HighlightUp int     // pixels added above the block for the click pulse
	Tail        float64 // hold after the narration, covers the outgoing transition
}

// Narration is a resolved per-block duration and its audio file, if any.
type Narration struct {
	Seconds float64
	Audio   string
}

// Director plans scene timelines from content blocks.
type Director struct {
	ViewportWidth  int
	ViewportHeight int
	Timing         Timing
}

func NewDirector(viewportWidth, viewportHeight int, timing Timing) *Director {
	return &Director{
		ViewportWidth:  viewportWidth,
		ViewportHeight: viewportHeight,
		Timing:         timing,
	}
}

// Plan builds one scene per block. narrations must be index-aligned with blocks.
func (d *Director) Plan(blocks []content.Block, narrations []Narration, input string) (*Scenario, error) {
	if len(blocks) == 0 {
		return nil, fmt.Errorf("no blocks to plan")
	}
	if len(narrations) != len(blocks) {
		return nil, fmt.Errorf("got %d narrations for %d blocks", len(narrations), len(blocks))
	}

	scenario := &Scenario{
		Version: "1.0",
		Input:   input,
		Canvas:  Size{W: d.ViewportWidth, H: d.ViewportHeight},
	}
	for i, b := range blocks {
		scenario.Scenes = append(scenario.Scenes, d.planScene(i+1, b, narrations[i]))
	}
	return scenario, nil
}

func (d *Director) planScene(id int, b content.Block, n Narration) Scene {
	travel := d.travelTime(n.Seconds)
	lensPhase := travel + math.Max(d.Timing.Pulse, 0)

	sc := Scene{
		ID:            id,
		Kind:          KindBlock,
		Title:         b.Title,
		Points:        b.Points,
		Audio:         n.Audio,
		Narration:     n.Seconds,
		DialogueStart: lensPhase,
		Duration:      lensPhase + n.Seconds + math.Max(d.Timing.Tail, 0),
		Typing:        d.typingTime(n.Seconds),
	}

	if b.Position != nil {
		cx, cy := b.Position.Center()
		sc.Lens = &Lens{
			Start:  d.Timing.LensStart,
			End:    Point{X: cx, Y: cy},
			Zoom:   d.Timing.Zoom,
			Travel: travel,
			Pulse:  math.Max(d.Timing.Pulse, 0),
		}
		if b.Position.HasArea() {
			sc.Highlight = &Rectangle{
				X: int(math.Round(b.Position.X)),
				Y: int(math.Round(b.Position.Y)) - d.Timing.HighlightUp,
				W: int(math.Round(b.Position.Width)),
				H: int(math.Round(b.Position.Height)) + d.Timing.HighlightUp,
			}
		}
	}
	return sc
}

// travelTime is min(MaxTravel, narration*TravelShare), never zero.
func (d *Director) travelTime(narration float64) float64 {
	travel := math.Min(d.Timing.MaxTravel, narration*d.Timing.TravelShare)
	if travel <= 0 {
		travel = 0.5
	}
	return travel
}

// typingTime leaves ReadingTail seconds of narration after the text is out.
func (d *Director) typingTime(narration float64) float64 {
	return math.Max(d.Timing.MinTyping, narration-d.Timing.ReadingTail)
}

// Outro appends a call-to-action scene.
func (d *Director) Outro(s *Scenario, url, caption string, duration float64) {
	s.Scenes = append(s.Scenes, Scene{
		ID:       len(s.Scenes) + 1,
		Kind:     KindOutro,
		Title:    caption,
		Caption:  caption,
		URL:      url,
		Duration: duration,
	})
}

// AssignPositions anchors blocks that have no position on detected regions,
// taken in reading order. Blocks with a position keep it.
func (d *Director) AssignPositions(blocks []content.Block, regions []analyzer.Region) int {
	sorted := d.sortRegions(regions)
	assigned := 0
	for i := range blocks {
		if blocks[i].Position != nil {
			continue
		}
		if assigned >= len(sorted) {
			break
		}
		r := sorted[assigned].Rect
		blocks[i].Position = &content.Position{
			X:      float64(r.Min.X),
			Y:      float64(r.Min.Y),
			Width:  float64(r.Dx()),
			Height: float64(r.Dy()),
		}
		assigned++
	}
	return assigned
}

// sortRegions sorts regions in reading order (top-to-bottom, left-to-right)
func (d *Director) sortRegions(regions []analyzer.Region) []analyzer.Region {
	sorted := make([]analyzer.Region, len(regions))
	copy(sorted, regions)

	sort.SliceStable(sorted, func(i, j int) bool {
		// Threshold for "same row" (20 pixels)
		const threshold = 20

		a, b := sorted[i].Rect.Min, sorted[j].Rect.Min
		if abs(a.Y-b.Y) > threshold {
			return a.Y < b.Y
		}
		return a.X < b.X
	})

	return sorted
}

// Rect converts a scenario rectangle to image space.
func (r Rectangle) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

// abs returns absolute value of an integer
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
