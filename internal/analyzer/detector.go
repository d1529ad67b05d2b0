// Package analyzer finds content regions on an infographic so blocks that
// come without an explicit position can still be anchored.
package analyzer

import "image"

// Region is a detected area of interest in canvas pixels.
type Region struct {
	Rect       image.Rectangle
	Confidence float64 // 0.0-1.0
}

// Detector is the interface for region finding strategies.
type Detector interface {
	Detect(img image.Image) ([]Region, error)
}
