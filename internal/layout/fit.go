package layout

// FitOptions bounds the font size search.
type FitOptions struct {
	MaxSize float64
	MinSize float64
	Step    float64
	Spacing float64 // added to every line height
}

// FitFontSize returns the largest size, stepping down from MaxSize, at which
// text wrapped to maxWidth stacks within maxHeight. When nothing fits the
// floor size is returned and the caller clips.
func FitFontSize(text string, faceAt func(size float64) Face, maxWidth, maxHeight float64, opt FitOptions) float64 {
	step := opt.Step
	if step <= 0 {
		step = 2
	}

	for size := opt.MaxSize; size >= opt.MinSize; size -= step {
		face := faceAt(size)
		if BlockHeight(Wrap(text, face, maxWidth), face, opt.Spacing) <= maxHeight {
			return size
		}
	}
	return opt.MinSize
}

// StackHeight is the height of n lines of face drawn one under another
// with spacing between them.
func StackHeight(n int, face Face, spacing float64) float64 {
	if n <= 0 {
		return 0
	}
	return float64(n)*face.Height("") + float64(n-1)*spacing
}

// FitBlock is FitFontSize for a heading and bullets laid out by b, so the
// narrower bullet column is taken into account. It returns the floor size
// when nothing fits.
func (b BlockLayout) FitBlock(heading string, points []string, faceAt func(size float64) Face, maxHeight float64, opt FitOptions) float64 {
	step := opt.Step
	if step <= 0 {
		step = 2
	}

	for size := opt.MaxSize; size >= opt.MinSize; size -= step {
		face := faceAt(size)
		if StackHeight(len(b.Lay(heading, points, face)), face, opt.Spacing) <= maxHeight {
			return size
		}
	}
	return opt.MinSize
}
