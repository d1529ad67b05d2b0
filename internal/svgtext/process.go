package svgtext

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"github.com/rs/zerolog"

	"github.com/ivlev/info2video/internal/content"
)

var ErrNoText = errors.New("svg has no text elements")

// Result of preprocessing one SVG.
type Result struct {
	Individual []TextBlock
	Blocks     []TextBlock // combined and classified
	Unmatched  []string
}

// Process reads an infographic SVG, writes a copy with its text replaced
// by placeholder rects to outSVG and the classified blocks as JSON to
// outJSON.
func Process(in, outSVG, outJSON string, opt Options, log zerolog.Logger) (*Result, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(in); err != nil {
		return nil, fmt.Errorf("read svg %s: %w", in, err)
	}

	individual, combined := Extract(doc, opt)
	if len(combined) == 0 {
		return nil, fmt.Errorf("%s: %w", in, ErrNoText)
	}
	blocks := Classify(combined)

	unmatched := ReplaceWithRects(doc, blocks, opt.RectFill)
	for _, text := range unmatched {
		log.Warn().Str("text", text).Msg("no block matched text element, removed")
	}

	for _, p := range []string{outSVG, outJSON} {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return nil, err
		}
	}
	doc.Indent(2)
	if err := doc.WriteToFile(outSVG); err != nil {
		return nil, fmt.Errorf("write svg %s: %w", outSVG, err)
	}

	data, err := json.MarshalIndent(blocks, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(outJSON, data, 0o644); err != nil {
		return nil, fmt.Errorf("write blocks %s: %w", outJSON, err)
	}

	log.Info().
		Int("blocks", len(blocks)).
		Int("tspans", len(individual)).
		Str("svg", outSVG).
		Str("json", outJSON).
		Msg("svg text extracted")

	return &Result{Individual: individual, Blocks: blocks, Unmatched: unmatched}, nil
}

// ToContent turns classified blocks into content blocks: each header opens
// a block anchored at the header box and each description becomes a point
// of the nearest header above it (closest column first). Numbers and
// unknown blocks are dropped.
func ToContent(blocks []TextBlock) []content.Block {
	var out []content.Block
	var headers []TextBlock
	for _, b := range blocks {
		if b.Kind != Header {
			continue
		}
		headers = append(headers, b)
		out = append(out, content.Block{
			Title:    oneLine(b.Text),
			Position: &content.Position{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height},
			Index:    len(out),
		})
	}

	for _, b := range blocks {
		if b.Kind != Description {
			continue
		}
		best := -1
		for i, h := range headers {
			if h.Y > b.Y {
				continue
			}
			if best < 0 {
				best = i
				continue
			}
			dx, bestDx := math.Abs(h.X-b.X), math.Abs(headers[best].X-b.X)
			if dx < bestDx || (dx == bestDx && h.Y > headers[best].Y) {
				best = i
			}
		}
		if best >= 0 {
			out[best].Points = append(out[best].Points, oneLine(b.Text))
		}
	}
	return out
}

// oneLine joins tspan lines; block text uses newlines as separators.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
