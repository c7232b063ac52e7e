// Package easing maps normalized time to normalized progress.
package easing

import (
	"errors"
	"fmt"
)

// ErrUnknownCurve is returned by ByName for names it does not know.
var ErrUnknownCurve = errors.New("unknown easing curve")

// Func reshapes t in [0,1] into progress in [0,1].
type Func func(t float64) float64

// Linear returns t unchanged.
func Linear(t float64) float64 {
	return Clamp01(t)
}

// InOutQuad is the quadratic ease-in-out curve: 2t² below the midpoint,
// 1-2(1-t)² above it.
func InOutQuad(t float64) float64 {
	t = Clamp01(t)
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}

// InOutCubic applies a smoother cubic ease-in-out.
func InOutCubic(t float64) float64 {
	t = Clamp01(t)
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := 2 - 2*t
	return 1 - u*u*u/2
}

// Lerp performs linear interpolation between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp01 limits v to [0,1]. NaN maps to 0.
func Clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Names lists the curves ByName accepts, default first.
var Names = []string{"quad", "cubic", "linear"}

// ByName looks up a curve by its config name.
func ByName(name string) (Func, error) {
	switch name {
	case "quad", "":
		return InOutQuad, nil
	case "cubic":
		return InOutCubic, nil
	case "linear":
		return Linear, nil
	}
	return nil, fmt.Errorf("%w %q, want one of %v", ErrUnknownCurve, name, Names)
}
