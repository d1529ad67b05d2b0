package analyzer

import (
	"fmt"
	"image"
)

// NewDetector creates a detector based on the specified variant
func NewDetector(variant string, minArea int, edgeThreshold float64) (Detector, error) {
	switch variant {
	case "contrast", "":
		d := NewContrastDetector()
		if minArea > 0 {
			d.MinBlockArea = minArea
		}
		if edgeThreshold > 0 {
			d.EdgeThreshold = edgeThreshold
		}
		return d, nil
	case "none":
		return nopDetector{}, nil
	default:
		return nil, fmt.Errorf("unknown detector variant: %s", variant)
	}
}

type nopDetector struct{}

func (nopDetector) Detect(image.Image) ([]Region, error) { return nil, nil }
