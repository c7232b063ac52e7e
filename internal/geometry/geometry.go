// Package geometry draws scene objects at an animated pose onto a 2D surface.
//
// The surface has its origin at the top-left corner with y increasing
// downward. Every primitive wraps its drawing in Save/Restore and sets the
// global alpha inside that bracket, so one object's style never leaks into
// the next.
package geometry

import (
	"math"

	"github.com/ivlev/algoanim/internal/scene"
)

const (
	// DefaultFontSize is used for labels and for text objects without a size.
	DefaultFontSize = 14.0
	// DefaultLineWidth is used for lines without a width.
	DefaultLineWidth = 2.0
	// ArrowLineWidth is the stroke width of arrow shafts.
	ArrowLineWidth = 3.0
	// ArrowHeadLength is the length of each arrowhead side.
	ArrowHeadLength = 15.0
	// ArrowHeadAngle is the angle between the shaft and each head side.
	ArrowHeadAngle = math.Pi / 6
	// ArrowLabelOffset lifts arrow labels above the shaft midpoint.
	ArrowLabelOffset = 15.0
	// LabelColor fills labels drawn on top of filled shapes.
	LabelColor = "#fff"
)

// Point is a position on the surface.
type Point struct {
	X, Y float64
}

// Surface is a canvas-style immediate-mode drawing target.
type Surface interface {
	Save()
	Restore()
	SetGlobalAlpha(alpha float64)
	SetFillColor(color string)
	SetStrokeColor(color string)
	SetLineWidth(width float64)
	SetFontSize(px float64)

	FillRect(x, y, w, h float64)
	FillCircle(cx, cy, r float64)
	StrokeLine(x1, y1, x2, y2 float64)
	FillPolygon(points ...Point)
	// FillText draws s centered horizontally and vertically on (x, y).
	FillText(s string, x, y float64)
}

// Pose is the animated state of one object for a single frame.
type Pose struct {
	X, Y    float64
	Scale   float64
	Opacity float64
}

// Draw paints obj at pose p. It returns false, drawing nothing, for objects
// whose type is not drawable.
func Draw(s Surface, obj scene.Object, p Pose) bool {
	switch o := obj.(type) {
	case *scene.Rect:
		Rect(s, o, p)
	case *scene.Circle:
		Circle(s, o, p)
	case *scene.Line:
		Line(s, o, p)
	case *scene.Arrow:
		Arrow(s, o, p)
	case *scene.Text:
		Text(s, o, p)
	default:
		return false
	}
	return true
}

// Rect fills a rectangle of size (Width, Height)*scale centered on the pose.
func Rect(s Surface, o *scene.Rect, p Pose) {
	s.Save()
	defer s.Restore()
	s.SetGlobalAlpha(p.Opacity)

	w, h := o.Width*p.Scale, o.Height*p.Scale
	s.SetFillColor(o.Color)
	s.FillRect(p.X-w/2, p.Y-h/2, w, h)
	centeredLabel(s, o.Label, p)
}

// Circle fills a disc of radius Radius*scale centered on the pose.
func Circle(s Surface, o *scene.Circle, p Pose) {
	s.Save()
	defer s.Restore()
	s.SetGlobalAlpha(p.Opacity)

	s.SetFillColor(o.Color)
	s.FillCircle(p.X, p.Y, o.Radius*p.Scale)
	centeredLabel(s, o.Label, p)
}

// Line strokes from the object's start point to the posed end point.
func Line(s Surface, o *scene.Line, p Pose) {
	s.Save()
	defer s.Restore()
	s.SetGlobalAlpha(p.Opacity)

	width := o.Width
	if width == 0 {
		width = DefaultLineWidth
	}
	s.SetStrokeColor(o.Color)
	s.SetLineWidth(width)
	s.StrokeLine(o.StartX, o.StartY, p.X, p.Y)
}

// Arrow strokes a shaft to the posed end point and fills a triangular head
// there. A label sits above the shaft midpoint.
func Arrow(s Surface, o *scene.Arrow, p Pose) {
	s.Save()
	defer s.Restore()
	s.SetGlobalAlpha(p.Opacity)

	s.SetStrokeColor(o.Color)
	s.SetFillColor(o.Color)
	s.SetLineWidth(ArrowLineWidth)
	s.StrokeLine(o.StartX, o.StartY, p.X, p.Y)
	s.FillPolygon(ArrowHead(o.StartX, o.StartY, p.X, p.Y)...)

	if o.Label != "" {
		s.SetFontSize(DefaultFontSize)
		s.FillText(o.Label, (o.StartX+p.X)/2, (o.StartY+p.Y)/2-ArrowLabelOffset)
	}
}

// ArrowHead returns the triangle tip, left and right corners for a shaft
// from (x1, y1) to (x2, y2).
func ArrowHead(x1, y1, x2, y2 float64) []Point {
	angle := math.Atan2(y2-y1, x2-x1)
	return []Point{
		{X: x2, Y: y2},
		{
			X: x2 - ArrowHeadLength*math.Cos(angle-ArrowHeadAngle),
			Y: y2 - ArrowHeadLength*math.Sin(angle-ArrowHeadAngle),
		},
		{
			X: x2 - ArrowHeadLength*math.Cos(angle+ArrowHeadAngle),
			Y: y2 - ArrowHeadLength*math.Sin(angle+ArrowHeadAngle),
		},
	}
}

// Text draws the label centered on the pose.
func Text(s Surface, o *scene.Text, p Pose) {
	s.Save()
	defer s.Restore()
	s.SetGlobalAlpha(p.Opacity)

	size := o.Size
	if size <= 0 {
		size = DefaultFontSize
	}
	s.SetFillColor(o.Color)
	s.SetFontSize(size)
	s.FillText(o.Label, p.X, p.Y)
}

func centeredLabel(s Surface, label string, p Pose) {
	if label == "" {
		return
	}
	s.SetFillColor(LabelColor)
	s.SetFontSize(DefaultFontSize)
	s.FillText(label, p.X, p.Y)
}
