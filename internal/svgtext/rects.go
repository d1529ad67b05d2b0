package svgtext

import (
	"image"
	"math"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// ReplaceWithRects swaps every <text> element of doc for a rect carrying
// the id and box of its matching block. Elements with tspans match by
// position (within 1px), plain elements by text. Each block is used once.
// Elements without a match are removed; their text is returned.
func ReplaceWithRects(doc *etree.Document, blocks []TextBlock, fill string) (unmatched []string) {
	used := make([]bool, len(blocks))

	find := func(ok func(TextBlock) bool) int {
		for i, b := range blocks {
			if !used[i] && ok(b) {
				used[i] = true
				return i
			}
		}
		return -1
	}

	for _, elem := range doc.FindElements("//text") {
		parent := elem.Parent()
		if parent == nil {
			continue
		}

		var match int
		tspans := elem.SelectElements("tspan")
		if len(tspans) > 0 {
			x, y := ParseTransform(elem.SelectAttrValue("transform", ""))
			match = find(func(b TextBlock) bool {
				return math.Abs(b.X-x) < 1 && math.Abs(b.Y-y) < 1
			})
		} else {
			text := strings.TrimSpace(elem.Text())
			match = find(func(b TextBlock) bool { return strings.TrimSpace(b.Text) == text })
		}

		if match >= 0 {
			b := blocks[match]
			rect := etree.NewElement("rect")
			rect.CreateAttr("id", b.ID)
			rect.CreateAttr("x", formatFloat(b.X))
			rect.CreateAttr("y", formatFloat(b.Y))
			rect.CreateAttr("width", formatFloat(b.Width))
			rect.CreateAttr("height", formatFloat(b.Height))
			rect.CreateAttr("fill", fill)
			parent.InsertChildAt(elem.Index()+1, rect)
		} else {
			unmatched = append(unmatched, textOf(elem))
		}
		parent.RemoveChild(elem)
	}
	return unmatched
}

func textOf(elem *etree.Element) string {
	tspans := elem.SelectElements("tspan")
	if len(tspans) == 0 {
		return strings.TrimSpace(elem.Text())
	}
	var parts []string
	for _, ts := range tspans {
		if t := strings.TrimSpace(ts.Text()); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ReadSlots loads an SVG file and returns its Slots.
func ReadSlots(path string) (map[string]image.Rectangle, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, err
	}
	return Slots(doc), nil
}

// Slots returns the box of every rect in doc that has an id, in user
// units. These are the placeholders left by ReplaceWithRects.
func Slots(doc *etree.Document) map[string]image.Rectangle {
	out := map[string]image.Rectangle{}
	for _, r := range doc.FindElements("//rect[@id]") {
		x, errX := strconv.ParseFloat(r.SelectAttrValue("x", "0"), 64)
		y, errY := strconv.ParseFloat(r.SelectAttrValue("y", "0"), 64)
		w, errW := strconv.ParseFloat(r.SelectAttrValue("width", ""), 64)
		h, errH := strconv.ParseFloat(r.SelectAttrValue("height", ""), 64)
		if errX != nil || errY != nil || errW != nil || errH != nil || w <= 0 || h <= 0 {
			continue
		}
		out[r.SelectAttrValue("id", "")] = image.Rect(
			int(math.Floor(x)), int(math.Floor(y)),
			int(math.Ceil(x+w)), int(math.Ceil(y+h)),
		)
	}
	return out
}
