package svgtext

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Kind is the role a text block plays in the infographic.
type Kind int

const (
	Unknown Kind = iota
	Number
	Header
	Description
)

func (k Kind) String() string {
	switch k {
	case Number:
		return "number"
	case Header:
		return "header"
	case Description:
		return "description"
	}
	return "unknown"
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "number":
		*k = Number
	case "header":
		*k = Header
	case "description":
		*k = Description
	case "unknown", "":
		*k = Unknown
	default:
		return fmt.Errorf("unknown block type %q", b)
	}
	return nil
}

var numberRe = regexp.MustCompile(`^(0?[1-9]|[1-9][0-9])\.?$`)

// Classify tags every block against the median font size and area of the
// set, then renumbers ids per kind (header1, header2, description1...).
// The heuristics are best effort; a misread block is expected, not an
// error.
func Classify(blocks []TextBlock) []TextBlock {
	out := make([]TextBlock, len(blocks))
	copy(out, blocks)
	if len(out) == 0 {
		return out
	}

	sizes := make([]float64, len(out))
	areas := make([]float64, len(out))
	for i, b := range out {
		sizes[i] = b.FontSize
		areas[i] = b.Area()
	}
	medFont, medArea := median(sizes), median(areas)

	counters := map[Kind]int{}
	for i := range out {
		out[i].Kind = classify(out[i], medFont, medArea)
		counters[out[i].Kind]++
		out[i].ID = out[i].Kind.String() + strconv.Itoa(counters[out[i].Kind])
	}
	return out
}

func classify(b TextBlock, medFont, medArea float64) Kind {
	text := strings.TrimSpace(strings.ReplaceAll(b.Text, "\n", " "))
	words := len(strings.Fields(text))
	area := b.Area()

	switch {
	case numberRe.MatchString(text):
		return Number
	case b.FontSize >= medFont && area >= medArea*0.75 && words <= 5:
		return Header
	case b.FontSize <= medFont && area >= medArea && words >= 5:
		return Description
	case words <= 3 && b.FontSize >= medFont:
		return Header
	case words >= 5:
		return Description
	}
	return Unknown
}

func median(vals []float64) float64 {
	s := append([]float64(nil), vals...)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}
