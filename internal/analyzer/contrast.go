package analyzer

import (
	"image"
	"image/color"
	"math"
)

// ContrastDetector finds regions by Sobel edges grown into blobs.
type ContrastDetector struct {
	MinBlockArea  int     // pixels²
	EdgeThreshold float64 // gradient magnitude
	DilateKernel  int
	DilatePasses  int
}

func NewContrastDetector() *ContrastDetector {
	return &ContrastDetector{
		MinBlockArea:  500,
		EdgeThreshold: 30.0,
		DilateKernel:  5,
		DilatePasses:  2,
	}
}

func (d *ContrastDetector) Detect(img image.Image) ([]Region, error) {
	g := newPlane(img)
	edges := g.sobel(d.EdgeThreshold)
	grown := edges.dilate(d.DilateKernel, d.DilatePasses)

	var regions []Region
	for _, r := range grown.components() {
		if r.Dx()*r.Dy() < d.MinBlockArea {
			continue
		}
		regions = append(regions, Region{
			Rect:       r.Add(img.Bounds().Min),
			Confidence: 0.7,
		})
	}
	return regions, nil
}

// plane is a zero-origin 8-bit luminance buffer.
type plane struct {
	w, h int
	pix  []uint8
}

func newPlane(img image.Image) *plane {
	b := img.Bounds()
	p := &plane{w: b.Dx(), h: b.Dy(), pix: make([]uint8, b.Dx()*b.Dy())}
	for y := 0; y < p.h; y++ {
		for x := 0; x < p.w; x++ {
			p.pix[y*p.w+x] = color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray).Y
		}
	}
	return p
}

func (p *plane) at(x, y int) float64 { return float64(p.pix[y*p.w+x]) }

func (p *plane) sobel(threshold float64) *plane {
	out := &plane{w: p.w, h: p.h, pix: make([]uint8, len(p.pix))}
	for y := 1; y < p.h-1; y++ {
		for x := 1; x < p.w-1; x++ {
			gx := -p.at(x-1, y-1) + p.at(x+1, y-1) -
				2*p.at(x-1, y) + 2*p.at(x+1, y) -
				p.at(x-1, y+1) + p.at(x+1, y+1)
			gy := -p.at(x-1, y-1) - 2*p.at(x, y-1) - p.at(x+1, y-1) +
				p.at(x-1, y+1) + 2*p.at(x, y+1) + p.at(x+1, y+1)
			if math.Hypot(gx, gy) > threshold {
				out.pix[y*p.w+x] = 255
			}
		}
	}
	return out
}

// dilate grows set pixels with a square kernel, passes times.
func (p *plane) dilate(kernel, passes int) *plane {
	cur := p
	half := kernel / 2
	for i := 0; i < passes; i++ {
		next := &plane{w: p.w, h: p.h, pix: make([]uint8, len(p.pix))}
		for y := half; y < p.h-half; y++ {
			for x := half; x < p.w-half; x++ {
				var peak uint8
				for ky := -half; ky <= half && peak < 255; ky++ {
					row := (y + ky) * p.w
					for kx := -half; kx <= half; kx++ {
						if v := cur.pix[row+x+kx]; v > peak {
							peak = v
						}
					}
				}
				next.pix[y*p.w+x] = peak
			}
		}
		cur = next
	}
	return cur
}

// components returns bounding boxes of 4-connected set regions.
func (p *plane) components() []image.Rectangle {
	seen := make([]bool, len(p.pix))
	var rects []image.Rectangle

	for start := range p.pix {
		if seen[start] || p.pix[start] <= 128 {
			continue
		}
		minX, minY := p.w, p.h
		maxX, maxY := -1, -1
		stack := []int{start}
		seen[start] = true

		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := i%p.w, i/p.w
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)

			for _, n := range [4][2]int{{x + 1, y}, {x - 1, y}, {x, y + 1}, {x, y - 1}} {
				if n[0] < 0 || n[0] >= p.w || n[1] < 0 || n[1] >= p.h {
					continue
				}
				j := n[1]*p.w + n[0]
				if !seen[j] && p.pix[j] > 128 {
					seen[j] = true
					stack = append(stack, j)
				}
			}
		}
		rects = append(rects, image.Rect(minX, minY, maxX+1, maxY+1))
	}
	return rects
}
