package layout

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Schedule maps elapsed time to the number of revealed characters.
// Characters are runes; paragraph separators count.
type Schedule struct {
	text     string
	total    int
	duration float64
}

func NewSchedule(fullText string, duration float64) Schedule {
	return Schedule{
		text:     fullText,
		total:    utf8.RuneCountInString(fullText),
		duration: duration,
	}
}

func (s Schedule) Total() int        { return s.total }
func (s Schedule) Duration() float64 { return s.duration }

// VisibleCount returns clamp(floor(total*t/duration), 0, total). With no
// duration or no text everything is visible at once.
func (s Schedule) VisibleCount(t float64) int {
	if s.duration <= 0 || s.total == 0 {
		return s.total
	}
	n := int(math.Floor(float64(s.total) * t / s.duration))
	if n < 0 {
		return 0
	}
	if n > s.total {
		return s.total
	}
	return n
}

// Visible returns the revealed prefix at t.
func (s Schedule) Visible(t float64) string {
	return prefix(s.text, s.VisibleCount(t))
}

// BlockText joins a heading and its points into the typewriter stream.
func BlockText(heading string, points []string) string {
	return heading + "\n" + strings.Join(points, "\n")
}

// SplitBlock is the inverse of BlockText and also accepts a truncated
// stream, in which case the trailing point is partial.
func SplitBlock(text string) (heading string, points []string) {
	parts := strings.Split(text, "\n")
	return parts[0], parts[1:]
}

func prefix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
