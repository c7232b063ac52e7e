package renderer

import (
	"math"

	"github.com/ivlev/algoanim/internal/easing"
	"github.com/ivlev/algoanim/internal/geometry"
	"github.com/ivlev/algoanim/internal/scene"
)

// HighlightCycles is how many full opacity pulses a highlight runs per scene.
const HighlightCycles = 2

// BasePose is where an object sits with no action applied.
func BasePose(obj scene.Object) geometry.Pose {
	x, y := obj.Position()
	return geometry.Pose{X: x, Y: y, Scale: 1, Opacity: 1}
}

// Animate computes the pose of obj at progress under act. A nil or unknown
// action leaves the base pose untouched. ease shapes move and scale only;
// fadeIn and highlight follow raw progress.
func Animate(obj scene.Object, act scene.Action, progress float64, ease easing.Func) geometry.Pose {
	p := BasePose(obj)
	if act == nil {
		return p
	}
	if ease == nil {
		ease = easing.InOutQuad
	}
	progress = easing.Clamp01(progress)

	switch a := act.(type) {
	case *scene.Move:
		t := ease(progress)
		p.X = easing.Lerp(p.X, a.ToX, t)
		p.Y = easing.Lerp(p.Y, a.ToY, t)
	case *scene.Scale:
		p.Scale = easing.Lerp(scene.BaseScale(obj), a.ToScale, ease(progress))
	case *scene.FadeIn:
		p.Opacity = progress
	case *scene.Highlight:
		p.Opacity = Pulse(progress)
	}
	return p
}

// Pulse is the highlight opacity curve: 0.5 + 0.5*sin(2π·cycles·progress).
func Pulse(progress float64) float64 {
	return 0.5 + 0.5*math.Sin(progress*HighlightCycles*2*math.Pi)
}

// Progress maps elapsed scene time to [0,1]. Non-positive durations are
// complete immediately.
func Progress(elapsed, duration float64) float64 {
	if duration <= 0 {
		return 1
	}
	return easing.Clamp01(elapsed / duration)
}
