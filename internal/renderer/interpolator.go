package renderer

import "math"

// Point is a sub-pixel canvas position.
type Point struct {
	X, Y float64
}

// LensState is the lens center and size multiplier at a given moment.
type LensState struct {
	X     float64 // center X in canvas pixels
	Y     float64 // center Y in canvas pixels
	Scale float64 // 1.0 = nominal size
}

// Lerp performs linear interpolation between a and b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func LerpPoint(a, b Point, t float64) Point {
	return Point{X: Lerp(a.X, b.X, t), Y: Lerp(a.Y, b.Y, t)}
}

// Clamp01 limits t to [0, 1].
func Clamp01(t float64) float64 {
	return math.Max(0, math.Min(1, t))
}

// EaseInOutCubic applies smooth easing function
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// Pulse is a sine breathing around 1.0: amplitude*sin(2π*rate*elapsed/window).
// A non-positive window disables it.
func Pulse(amplitude, rate, elapsed, window float64) float64 {
	if window <= 0 {
		return 1.0
	}
	return 1 + amplitude*math.Sin(2*math.Pi*rate*elapsed/window)
}

// TravelThenHold moves from start to end over travel seconds, then pins at
// end and breathes with the pulse.
func TravelThenHold(start, end Point, travel, t float64, pulse func(elapsed float64) float64) LensState {
	if t < travel {
		p := LerpPoint(start, end, t/travel)
		return LensState{X: p.X, Y: p.Y, Scale: 1.0}
	}
	return LensState{X: end.X, Y: end.Y, Scale: pulse(t - travel)}
}
