package svgtext

import (
	"encoding/json"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/rs/zerolog"
)

const sample = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="800" height="600">
  <g>
    <text transform="matrix(1 0 0 1 100 50)" style="font-size:32px;fill:#112233">Plan</text>
    <text transform="translate(100 100)" style="font-size:14px"><tspan x="0" y="0">Define your goals and set a clear</tspan><tspan x="0" y="17">budget for every single step</tspan></text>
    <text transform="translate(400 50)" style="font-size:32px">Build</text>
    <text transform="translate(400 100)" style="font-size:14px">Ship small increments and measure every outcome</text>
    <text transform="translate(50 50)" style="font-size:32px">1.</text>
  </g>
</svg>`

func readSample(t *testing.T) *etree.Document {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromString(sample); err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestParseTransform(t *testing.T) {
	cases := []struct {
		in   string
		x, y float64
	}{
		{"matrix(1 0 0 1 120.5 40)", 120.5, 40},
		{"matrix(1,0,0,1,10,20)", 10, 20},
		{"translate(30 45)", 30, 45},
		{"translate(30,45)", 30, 45},
		{"translate(12)", 12, 0},
		{"rotate(45)", 0, 0},
		{"", 0, 0},
	}
	for _, c := range cases {
		x, y := ParseTransform(c.in)
		if x != c.x || y != c.y {
			t.Errorf("ParseTransform(%q) = (%v, %v), want (%v, %v)", c.in, x, y, c.x, c.y)
		}
	}
}

func TestStyleParsing(t *testing.T) {
	if got := styleFontSize("fill:#000;font-size: 18.5px", 16); got != 18.5 {
		t.Errorf("font size = %v", got)
	}
	if got := styleFontSize("fill:#000", 16); got != 16 {
		t.Errorf("default font size = %v", got)
	}
	if got := styleFill("font-size:12px;fill: #abcdef ;", "#000"); got != "#abcdef" {
		t.Errorf("fill = %q", got)
	}
}

func TestExtract(t *testing.T) {
	individual, combined := Extract(readSample(t), DefaultOptions())

	if len(individual) != 2 {
		t.Fatalf("got %d tspan blocks, want 2", len(individual))
	}
	if individual[0].ID != "text1" || individual[1].Y != 17 {
		t.Errorf("individual = %+v", individual)
	}

	if len(combined) != 5 {
		t.Fatalf("got %d combined blocks, want 5", len(combined))
	}
	wantOrder := []string{"1.", "Plan", "Build", "Define your goals and set a clear\nbudget for every single step", "Ship small increments and measure every outcome"}
	for i, w := range wantOrder {
		if combined[i].Text != w {
			t.Errorf("block %d = %q, want %q", i, combined[i].Text, w)
		}
	}

	plan := combined[1]
	if plan.Width != 76.8 || plan.Height != 38.4 || plan.Fill != "#112233" || plan.FontSize != 32 {
		t.Errorf("plan = %+v", plan)
	}
	tsp := combined[3]
	if tsp.Width != 277.2 || tsp.Height != 33.6 || tsp.MaxLineLength != 33 || tsp.X != 100 || tsp.Y != 100 {
		t.Errorf("tspan block = %+v", tsp)
	}
}

func TestClassify(t *testing.T) {
	_, combined := Extract(readSample(t), DefaultOptions())
	blocks := Classify(combined)

	want := []struct {
		id   string
		kind Kind
	}{
		{"number1", Number},
		{"header1", Header},
		{"header2", Header},
		{"description1", Description},
		{"description2", Description},
	}
	for i, w := range want {
		if blocks[i].ID != w.id || blocks[i].Kind != w.kind {
			t.Errorf("block %d = %s/%v, want %s/%v", i, blocks[i].ID, blocks[i].Kind, w.id, w.kind)
		}
	}
	if combined[0].Kind != Unknown {
		t.Error("Classify modified its input")
	}

	if got := Classify(nil); len(got) != 0 {
		t.Errorf("Classify(nil) = %v", got)
	}
}

func TestKindText(t *testing.T) {
	data, err := json.Marshal(TextBlock{Kind: Header})
	if err != nil || !strings.Contains(string(data), `"type":"header"`) {
		t.Fatalf("marshal = %s, %v", data, err)
	}
	var b TextBlock
	if err := json.Unmarshal([]byte(`{"type":"description"}`), &b); err != nil || b.Kind != Description {
		t.Errorf("unmarshal = %v, %v", b.Kind, err)
	}
	if err := json.Unmarshal([]byte(`{"type":"banner"}`), &b); err == nil {
		t.Error("unknown type accepted")
	}
}

func TestReplaceWithRects(t *testing.T) {
	doc := readSample(t)
	_, combined := Extract(doc, DefaultOptions())
	blocks := Classify(combined)

	unmatched := ReplaceWithRects(doc, blocks, "none")
	if len(unmatched) != 0 {
		t.Errorf("unmatched = %v", unmatched)
	}
	if n := len(doc.FindElements("//text")); n != 0 {
		t.Errorf("%d text elements left", n)
	}

	slots := Slots(doc)
	if len(slots) != 5 {
		t.Fatalf("got %d slots: %v", len(slots), slots)
	}
	if r := slots["header1"]; r != image.Rect(100, 50, 177, 89) {
		t.Errorf("header1 slot = %v", r)
	}
	if r := doc.FindElement("//rect[@id='description1']"); r == nil || r.SelectAttrValue("fill", "") != "none" {
		t.Error("description1 rect missing or filled")
	}
}

func TestReplaceRemovesUnmatched(t *testing.T) {
	doc := readSample(t)
	_, combined := Extract(doc, DefaultOptions())
	blocks := Classify(combined)[:2] // number1, header1

	unmatched := ReplaceWithRects(doc, blocks, "black")
	if len(unmatched) != 3 {
		t.Errorf("unmatched = %v", unmatched)
	}
	if n := len(doc.FindElements("//text")); n != 0 {
		t.Errorf("%d text elements left", n)
	}
	if n := len(Slots(doc)); n != 2 {
		t.Errorf("got %d rects, want 2", n)
	}
}

func TestToContent(t *testing.T) {
	_, combined := Extract(readSample(t), DefaultOptions())
	blocks := ToContent(Classify(combined))

	if len(blocks) != 2 {
		t.Fatalf("got %d blocks", len(blocks))
	}
	if blocks[0].Title != "Plan" || len(blocks[0].Points) != 1 || !strings.HasPrefix(blocks[0].Points[0], "Define your goals") {
		t.Errorf("first block = %+v", blocks[0])
	}
	if strings.Contains(blocks[0].Points[0], "\n") {
		t.Error("point kept tspan line break")
	}
	if blocks[1].Title != "Build" || len(blocks[1].Points) != 1 || blocks[1].Position.X != 400 {
		t.Errorf("second block = %+v", blocks[1])
	}
}

func TestProcess(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.svg")
	if err := os.WriteFile(in, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	outSVG := filepath.Join(dir, "out", "parsed.svg")
	outJSON := filepath.Join(dir, "out", "info.json")

	res, err := Process(in, outSVG, outJSON, DefaultOptions(), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Blocks) != 5 {
		t.Errorf("got %d blocks", len(res.Blocks))
	}

	data, err := os.ReadFile(outJSON)
	if err != nil {
		t.Fatal(err)
	}
	var back []TextBlock
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back[1].ID != "header1" || back[1].Kind != Header {
		t.Errorf("json block = %+v", back[1])
	}

	svg, err := os.ReadFile(outSVG)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(svg), "<text") || !strings.Contains(string(svg), `id="header2"`) {
		t.Errorf("unexpected svg output:\n%s", svg)
	}

	empty := filepath.Join(dir, "empty.svg")
	os.WriteFile(empty, []byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`), 0o644)
	if _, err := Process(empty, outSVG, outJSON, DefaultOptions(), zerolog.Nop()); err == nil {
		t.Error("svg without text accepted")
	}
}
