package effects

import "image"

// Scene is a fully built timeline ready for encoding.
type Scene struct {
	ID         int
	Size       image.Point
	Length     float64
	Layers     []Layer
	Audio      string  // narration file, empty for silence
	AudioDelay float64 // narration starts with the dialogue
}

func (s *Scene) Duration() float64 { return s.Length }

func (s *Scene) FrameSize() image.Point { return s.Size }

// RenderFrame composites the scene at t into dst, which must be Size.
func (s *Scene) RenderFrame(dst *image.RGBA, t float64) {
	Composite(dst, s.Layers, t)
}
