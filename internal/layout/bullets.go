package layout

import "unicode/utf8"

type LineKind int

const (
	Heading LineKind = iota
	BulletFirst
	BulletContinuation
)

func (k LineKind) String() string {
	switch k {
	case Heading:
		return "heading"
	case BulletFirst:
		return "bullet"
	case BulletContinuation:
		return "continuation"
	}
	return "unknown"
}

// Placement is a wrapped line ready to draw. Indent is the text offset
// from the left of the text area; only BulletFirst lines carry the icon,
// which sits at offset 0.
type Placement struct {
	Kind   LineKind
	Text   string
	Indent float64
	Bullet int // index of the source point, -1 for the heading
}

// BlockLayout wraps a heading and bullet points into placements.
type BlockLayout struct {
	Width     float64 // text area width
	IconWidth float64
	IconGap   float64
}

func (b BlockLayout) textIndent() float64 {
	if b.IconWidth <= 0 {
		return 0
	}
	return b.IconWidth + b.IconGap
}

func (b BlockLayout) Lay(heading string, points []string, m Measurer) []Placement {
	var out []Placement

	for _, l := range Wrap(heading, m, b.Width) {
		out = append(out, Placement{Kind: Heading, Text: l.Text, Bullet: -1})
	}

	indent := b.textIndent()
	for i, p := range points {
		for j, l := range Wrap(p, m, b.Width-indent) {
			kind := BulletContinuation
			if j == 0 {
				kind = BulletFirst
			}
			out = append(out, Placement{Kind: kind, Text: l.Text, Indent: indent, Bullet: i})
		}
	}

	return out
}

// Reveal truncates placements to the first visible characters. Each line
// consumes its length plus one for the implied line break, heading first
// and then every bullet in order.
func Reveal(lines []Placement, visible int) []Placement {
	var out []Placement
	shown := 0
	for _, l := range lines {
		if shown >= visible {
			break
		}
		n := utf8.RuneCountInString(l.Text)
		l.Text = prefix(l.Text, visible-shown)
		out = append(out, l)
		shown += n + 1
	}
	return out
}
