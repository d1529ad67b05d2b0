package layout

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// monoFace measures every rune as perChar pixels wide with a fixed line height.
type monoFace struct {
	perChar float64
	height  float64
}

func (f monoFace) Width(s string) float64  { return float64(utf8.RuneCountInString(s)) * f.perChar }
func (f monoFace) Height(s string) float64 { return f.height }

func TestWrapScenario(t *testing.T) {
	face := monoFace{perChar: 10}
	lines := Wrap("Hello world, this is a test of wrapping.", face, 120)

	want := []string{"Hello world,", "this is a", "test of", "wrapping."}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %+v", len(want), len(lines), lines)
	}
	for i, l := range lines {
		if l.Text != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], l.Text)
		}
		if utf8.RuneCountInString(l.Text) > 12 {
			t.Errorf("line %d longer than 12 chars: %q", i, l.Text)
		}
		if l.First != (i == 0) {
			t.Errorf("line %d: First=%v", i, l.First)
		}
	}
}

func TestWrapParagraphs(t *testing.T) {
	face := monoFace{perChar: 10}
	lines := Wrap("Title\n   \nalpha beta gamma\n\nend", face, 100)

	var got []string
	firsts := 0
	for _, l := range lines {
		got = append(got, l.Text)
		if l.First {
			firsts++
		}
	}
	want := "Title|alpha beta|gamma|end"
	if strings.Join(got, "|") != want {
		t.Errorf("expected %s, got %s", want, strings.Join(got, "|"))
	}
	// blank paragraphs yield nothing, so three paragraphs start a line
	if firsts != 3 {
		t.Errorf("expected 3 first lines, got %d", firsts)
	}
}

func TestWrapOverlongWord(t *testing.T) {
	face := monoFace{perChar: 10}
	lines := Wrap("a supercalifragilistic b", face, 50)

	want := []string{"a", "supercalifragilistic", "b"}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %+v", len(want), lines)
	}
	for i := range want {
		if lines[i].Text != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], lines[i].Text)
		}
	}
}

func TestWrapNeverOverflows(t *testing.T) {
	face := monoFace{perChar: 7}
	text := "The quick brown fox jumps over the lazy dog while an extraordinarily long word appears\nand a second paragraph follows it"

	for _, width := range []float64{30, 60, 95, 140, 400} {
		for _, l := range Wrap(text, face, width) {
			single := !strings.Contains(l.Text, " ")
			if face.Width(l.Text) > width && !single {
				t.Errorf("width %.0f: line %q measures %.0f", width, l.Text, face.Width(l.Text))
			}
		}
	}
}

func TestWrapPrefixGrowsMonotonically(t *testing.T) {
	face := monoFace{perChar: 10}
	text := "Growth metrics\nRevenue doubled in the second quarter\nChurn fell below two percent"
	full := len(Wrap(text, face, 150))

	prev := 0
	runes := []rune(text)
	for i := 0; i <= len(runes); i++ {
		n := len(Wrap(string(runes[:i]), face, 150))
		if n < prev {
			t.Fatalf("line count regressed at prefix %d: %d -> %d", i, prev, n)
		}
		if n > full {
			t.Fatalf("prefix %d wraps into %d lines, full text only %d", i, n, full)
		}
		prev = n
	}
}

func TestScheduleVisibleCount(t *testing.T) {
	s := NewSchedule("abcdefghij", 2.0)

	tests := []struct {
		t    float64
		want int
	}{
		{-1, 0},
		{0, 0},
		{0.19, 0},
		{0.2, 1},
		{1.0, 5},
		{1.99, 9},
		{2.0, 10},
		{5.0, 10},
	}
	for _, tt := range tests {
		if got := s.VisibleCount(tt.t); got != tt.want {
			t.Errorf("VisibleCount(%.2f) = %d, want %d", tt.t, got, tt.want)
		}
	}

	prev := 0
	for ts := 0.0; ts <= 2.5; ts += 0.01 {
		n := s.VisibleCount(ts)
		if n < prev {
			t.Fatalf("visible count decreased at t=%.2f", ts)
		}
		prev = n
	}

	if got := s.Visible(1.0); got != "abcde" {
		t.Errorf("Visible(1.0) = %q", got)
	}
}

func TestScheduleDegenerate(t *testing.T) {
	if got := NewSchedule("héllo", 0).VisibleCount(0); got != 5 {
		t.Errorf("zero duration: expected all 5 runes, got %d", got)
	}
	if got := NewSchedule("abc", -1).Visible(0); got != "abc" {
		t.Errorf("negative duration: expected full text, got %q", got)
	}
	if got := NewSchedule("", 3).VisibleCount(1); got != 0 {
		t.Errorf("empty text: expected 0, got %d", got)
	}
}

func TestBulletIndentation(t *testing.T) {
	face := monoFace{perChar: 10}
	b := BlockLayout{Width: 152, IconWidth: 32, IconGap: 10}

	// 110px of text room: "alpha beta" | "gamma delta" | "epsilon"
	lines := b.Lay("", []string{"alpha beta gamma delta epsilon"}, face)

	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %+v", len(lines), lines)
	}
	icons := 0
	for i, l := range lines {
		if l.Kind == BulletFirst {
			icons++
			if i != 0 {
				t.Errorf("icon line at %d, expected 0", i)
			}
		}
		if l.Indent != 42 {
			t.Errorf("line %d indent %.0f, expected text aligned at 42", i, l.Indent)
		}
	}
	if icons != 1 {
		t.Errorf("expected exactly one icon line, got %d", icons)
	}
}

func TestBulletWithoutIcon(t *testing.T) {
	face := monoFace{perChar: 10}
	lines := BlockLayout{Width: 100, IconWidth: 0, IconGap: 10}.Lay("Head", []string{"one two three"}, face)
	for _, l := range lines {
		if l.Indent != 0 {
			t.Errorf("expected no indent without icon, got %.0f on %q", l.Indent, l.Text)
		}
	}
	if lines[0].Kind != Heading || lines[0].Bullet != -1 {
		t.Errorf("first placement should be heading, got %+v", lines[0])
	}
}

func TestRevealCounter(t *testing.T) {
	lines := []Placement{
		{Kind: Heading, Text: "Title"},
		{Kind: BulletFirst, Text: "first line"},
		{Kind: BulletContinuation, Text: "second"},
	}

	tests := []struct {
		visible int
		want    []string
	}{
		{0, nil},
		{3, []string{"Tit"}},
		{5, []string{"Title"}},
		// heading consumes 5+1
		{6, []string{"Title"}},
		{8, []string{"Title", "fi"}},
		{17, []string{"Title", "first line"}},
		{18, []string{"Title", "first line", "s"}},
		{20, []string{"Title", "first line", "sec"}},
		{100, []string{"Title", "first line", "second"}},
	}
	for _, tt := range tests {
		got := Reveal(lines, tt.visible)
		var texts []string
		for _, l := range got {
			texts = append(texts, l.Text)
		}
		if strings.Join(texts, "|") != strings.Join(tt.want, "|") || len(texts) != len(tt.want) {
			t.Errorf("Reveal(%d) = %q, want %q", tt.visible, texts, tt.want)
		}
	}
}

func TestBlockTextRoundTrip(t *testing.T) {
	text := BlockText("Head", []string{"a", "b c"})
	if text != "Head\na\nb c" {
		t.Fatalf("unexpected block text %q", text)
	}
	h, pts := SplitBlock(text[:7])
	if h != "Head" || len(pts) != 2 || pts[1] != "" {
		t.Errorf("SplitBlock on prefix: %q %q", h, pts)
	}
}

func TestFitFontSize(t *testing.T) {
	// width and height scale with size
	faceAt := func(size float64) Face {
		return monoFace{perChar: size * 0.5, height: size}
	}
	text := "one two three four five six seven eight nine ten"
	opt := FitOptions{MaxSize: 60, MinSize: 10, Step: 2, Spacing: 10}

	size := FitFontSize(text, faceAt, 200, 200, opt)
	if size < opt.MinSize || size > opt.MaxSize {
		t.Fatalf("size %.0f outside bounds", size)
	}
	face := faceAt(size)
	if h := BlockHeight(Wrap(text, face, 200), face, opt.Spacing); h > 200 {
		t.Errorf("accepted size %.0f overflows: %.0f", size, h)
	}
	// the next size up must not fit, otherwise the search stopped early
	if size+opt.Step <= opt.MaxSize {
		bigger := faceAt(size + opt.Step)
		if h := BlockHeight(Wrap(text, bigger, 200), bigger, opt.Spacing); h <= 200 {
			t.Errorf("size %.0f also fits (%.0f), expected the largest", size+opt.Step, h)
		}
	}

	// nothing fits: floor size
	if got := FitFontSize(text, faceAt, 200, 5, opt); got != opt.MinSize {
		t.Errorf("expected floor %.0f, got %.0f", opt.MinSize, got)
	}
}

func TestFitBlockCountsBulletIndent(t *testing.T) {
	faceAt := func(size float64) Face {
		return monoFace{perChar: size * 0.5, height: size}
	}
	points := []string{
		"one two three four five six seven eight nine ten",
		"one two three four five six seven eight nine ten",
		"one two three four five six seven eight nine ten",
		"one two three four five six seven eight nine ten",
		"one two three four five six seven eight nine ten",
	}
	opt := FitOptions{MaxSize: 40, MinSize: 6, Step: 1, Spacing: 4}
	bl := BlockLayout{Width: 300, IconWidth: 32, IconGap: 10}

	size := bl.FitBlock("Heading", points, faceAt, 250, opt)
	face := faceAt(size)
	if h := StackHeight(len(bl.Lay("Heading", points, face)), face, opt.Spacing); h > 250 {
		t.Errorf("size %.0f lays out %.0f px in 250", size, h)
	}
	if size+opt.Step <= opt.MaxSize {
		bigger := faceAt(size + opt.Step)
		if h := StackHeight(len(bl.Lay("Heading", points, bigger)), bigger, opt.Spacing); h <= 250 {
			t.Errorf("size %.0f also fits, expected the largest", size+opt.Step)
		}
	}

	// wrapping at the full width alone underestimates the indented layout
	plain := FitFontSize(BlockText("Heading", points), faceAt, 300, 250, opt)
	if plain < size {
		t.Errorf("full-width fit %.0f smaller than indented fit %.0f", plain, size)
	}

	if got := bl.FitBlock("Heading", points, faceAt, 5, opt); got != opt.MinSize {
		t.Errorf("expected floor %.0f, got %.0f", opt.MinSize, got)
	}
}

func TestStackHeight(t *testing.T) {
	face := monoFace{perChar: 5, height: 10}
	if h := StackHeight(3, face, 4); h != 38 {
		t.Errorf("StackHeight(3) = %v, want 38", h)
	}
	if h := StackHeight(0, face, 4); h != 0 {
		t.Errorf("StackHeight(0) = %v", h)
	}
}
