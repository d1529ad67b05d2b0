// Package layout lays out narration text for the dialogue overlay:
// pixel-width word wrap, typewriter reveal timing, bullet placement and
// font-size fitting. Nothing here draws; callers supply measurements.
package layout

import "strings"

// Measurer reports the rendered pixel width of a string at a fixed face.
type Measurer interface {
	Width(s string) float64
}

// MeasureFunc adapts a plain function to Measurer.
type MeasureFunc func(s string) float64

func (f MeasureFunc) Width(s string) float64 { return f(s) }

// Face is a Measurer that also knows its line box height.
type Face interface {
	Measurer
	Height(s string) float64
}

// Line is one wrapped line. First marks the first line of a source paragraph.
type Line struct {
	First bool
	Text  string
}

// Wrap greedily packs words into lines no wider than maxWidth.
// Paragraphs (split on '\n') are wrapped independently and blank ones
// produce no lines. A word wider than maxWidth gets a line of its own.
func Wrap(text string, m Measurer, maxWidth float64) []Line {
	var lines []Line

	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			continue
		}

		first := true
		current := ""
		for _, word := range words {
			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			if m.Width(candidate) <= maxWidth {
				current = candidate
				continue
			}
			if current != "" {
				lines = append(lines, Line{First: first, Text: current})
				first = false
			}
			current = word
		}
		lines = append(lines, Line{First: first, Text: current})
	}

	return lines
}

// BlockHeight sums line height plus spacing over lines.
func BlockHeight(lines []Line, face Face, spacing float64) float64 {
	total := 0.0
	for _, l := range lines {
		total += face.Height(l.Text) + spacing
	}
	return total
}
