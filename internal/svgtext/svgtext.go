// Package svgtext pulls the text out of an infographic SVG: it measures
// every <text> element, classifies the blocks into numbers, headers and
// descriptions, and swaps the text for placeholder rects so the artwork can
// be rasterized without its original wording.
package svgtext

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Options for extraction.
type Options struct {
	DefaultFontSize float64 // used when neither the element nor its tspan sets one
	DefaultFill     string
	RectFill        string // fill of the placeholder rects
}

func DefaultOptions() Options {
	return Options{DefaultFontSize: 16, DefaultFill: "#000000", RectFill: "none"}
}

// TextBlock is one measured run of text. Width and Height are estimates
// from the font size, not real glyph metrics.
type TextBlock struct {
	ID            string  `json:"id"`
	Text          string  `json:"text"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	FontSize      float64 `json:"font_size"`
	MaxLineLength int     `json:"max_line_length"`
	Fill          string  `json:"fill"`
	Kind          Kind    `json:"type"`
}

func (b TextBlock) Area() float64 { return b.Width * b.Height }

var (
	matrixRe    = regexp.MustCompile(`matrix\((.*?)\)`)
	translateRe = regexp.MustCompile(`translate\((.*?)\)`)
	separatorRe = regexp.MustCompile(`[,\s]+`)
	fontSizeRe  = regexp.MustCompile(`font-size:\s*([+-]?\d*\.?\d+)`)
	fillRe      = regexp.MustCompile(`fill:\s*([^;]+)`)
)

// ParseTransform returns the translation of an SVG transform attribute:
// e and f of matrix(a b c d e f), or translate(x[ y]). Anything else is
// (0, 0).
func ParseTransform(transform string) (float64, float64) {
	if m := matrixRe.FindStringSubmatch(transform); m != nil {
		nums := fields(m[1])
		if len(nums) >= 6 {
			x, errX := strconv.ParseFloat(nums[4], 64)
			y, errY := strconv.ParseFloat(nums[5], 64)
			if errX == nil && errY == nil {
				return x, y
			}
		}
	}
	if m := translateRe.FindStringSubmatch(transform); m != nil {
		nums := fields(m[1])
		if len(nums) >= 1 {
			x, err := strconv.ParseFloat(nums[0], 64)
			if err != nil {
				return 0, 0
			}
			y := 0.0
			if len(nums) > 1 {
				y, _ = strconv.ParseFloat(nums[1], 64)
			}
			return x, y
		}
	}
	return 0, 0
}

func fields(s string) []string {
	var out []string
	for _, f := range separatorRe.Split(strings.TrimSpace(s), -1) {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func styleFontSize(style string, def float64) float64 {
	if m := fontSizeRe.FindStringSubmatch(style); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return v
		}
	}
	return def
}

func styleFill(style, def string) string {
	if m := fillRe.FindStringSubmatch(style); m != nil {
		return strings.TrimSpace(m[1])
	}
	return def
}

// estimateSize is the box of text at fontSize: 0.6em per character of the
// longest line, 1.2em per line.
func estimateSize(text string, fontSize float64) (w, h float64) {
	lines := strings.Split(text, "\n")
	return float64(maxLineLength(text)) * fontSize * 0.6, float64(len(lines)) * fontSize * 1.2
}

func maxLineLength(text string) int {
	n := 0
	for _, l := range strings.Split(text, "\n") {
		n = max(n, len([]rune(l)))
	}
	return n
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// Extract measures every <text> element of doc. Individual blocks are one
// per non-empty tspan; combined blocks are one per element. Both come back
// sorted in reading order.
func Extract(doc *etree.Document, opt Options) (individual, combined []TextBlock) {
	for _, elem := range doc.FindElements("//text") {
		baseX, baseY := ParseTransform(elem.SelectAttrValue("transform", ""))
		style := elem.SelectAttrValue("style", "")
		fontSize := styleFontSize(style, opt.DefaultFontSize)
		fill := styleFill(style, opt.DefaultFill)

		tspans := elem.SelectElements("tspan")
		if len(tspans) == 0 {
			text := strings.TrimSpace(elem.Text())
			if text == "" {
				continue
			}
			w, h := estimateSize(text, fontSize)
			combined = append(combined, TextBlock{
				Text: text, X: round2(baseX), Y: round2(baseY),
				Width: round2(w), Height: round2(h),
				FontSize: fontSize, MaxLineLength: maxLineLength(text), Fill: fill,
			})
			continue
		}

		var texts []string
		var widest TextBlock
		height := 0.0
		for _, ts := range tspans {
			text := strings.TrimSpace(ts.Text())
			if text == "" {
				continue
			}
			x, y := tspanPosition(ts, baseX, baseY)
			size := styleFontSize(ts.SelectAttrValue("style", ""), fontSize)
			w, h := estimateSize(text, size)

			b := TextBlock{
				Text: text, X: round2(x), Y: round2(y),
				Width: round2(w), Height: round2(h),
				FontSize: size, MaxLineLength: maxLineLength(text), Fill: fill,
			}
			individual = append(individual, b)
			texts = append(texts, text)
			height += h
			if w > widest.Width {
				widest = TextBlock{Width: w, FontSize: size}
			}
		}
		if len(texts) == 0 {
			continue
		}
		text := strings.Join(texts, "\n")
		combined = append(combined, TextBlock{
			Text: text, X: round2(baseX), Y: round2(baseY),
			Width: round2(widest.Width), Height: round2(height),
			FontSize: widest.FontSize, MaxLineLength: maxLineLength(text), Fill: fill,
		})
	}

	readingOrder(individual)
	readingOrder(combined)
	for i := range individual {
		individual[i].ID = "text" + strconv.Itoa(i+1)
	}
	for i := range combined {
		combined[i].ID = "combined" + strconv.Itoa(i+1)
	}
	return individual, combined
}

// tspanPosition prefers the tspan's own transform, then its x/y
// attributes, then the parent's translation.
func tspanPosition(ts *etree.Element, baseX, baseY float64) (float64, float64) {
	if tr := ts.SelectAttrValue("transform", ""); tr != "" {
		return ParseTransform(tr)
	}
	xs, ys := fields(ts.SelectAttrValue("x", "")), fields(ts.SelectAttrValue("y", ""))
	if len(xs) == 0 || len(ys) == 0 {
		return baseX, baseY
	}
	x, errX := strconv.ParseFloat(xs[0], 64)
	y, errY := strconv.ParseFloat(ys[0], 64)
	if errX != nil || errY != nil {
		return baseX, baseY
	}
	return x, y
}

func readingOrder(blocks []TextBlock) {
	sort.SliceStable(blocks, func(i, j int) bool {
		if blocks[i].Y != blocks[j].Y {
			return blocks[i].Y < blocks[j].Y
		}
		return blocks[i].X < blocks[j].X
	})
}
