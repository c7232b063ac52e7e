// Package scene defines the declarative animation data model: ordered scenes,
// each holding a fixed cast of typed objects and the actions that animate them.
//
// Objects and actions are sealed variants. Every concrete object type lives in
// this package, so a type switch over Object can list all of them; values whose
// type tag is not recognised decode into Unknown / UnknownAction instead of
// failing, and the renderer skips them.
package scene

import "time"

// Scene is one timed animation beat.
type Scene struct {
	ID       int
	Duration int // milliseconds
	Objects  []Object
	Actions  []Action
}

// Length returns the scene duration. Negative durations report zero.
func (s *Scene) Length() time.Duration {
	if s.Duration <= 0 {
		return 0
	}
	return time.Duration(s.Duration) * time.Millisecond
}

// ActionFor returns the first action targeting the object id, or nil.
// Later actions for the same id are ignored.
func (s *Scene) ActionFor(id int) Action {
	for _, a := range s.Actions {
		if a != nil && a.Target() == id {
			return a
		}
	}
	return nil
}

// Kind tags an object variant.
type Kind string

const (
	KindRect   Kind = "rect"
	KindCircle Kind = "circle"
	KindArrow  Kind = "arrow"
	KindText   Kind = "text"
	KindLine   Kind = "line"
)

// Object is a renderable entity at its start-of-scene pose.
type Object interface {
	ObjectID() int
	Kind() Kind
	// Position is the animated anchor: the center for shapes and text,
	// the end point for lines and arrows.
	Position() (x, y float64)
	isObject()
}

// Rect is a filled rectangle centered at (X, Y).
type Rect struct {
	ID            int
	X, Y          float64
	Width, Height float64
	Color         string
	Label         string
	Scale         *float64 // base scale, nil means 1
}

// Circle is a filled disc centered at (X, Y).
type Circle struct {
	ID     int
	X, Y   float64
	Radius float64
	Color  string
	Label  string
	Scale  *float64 // base scale, nil means 1
}

// Line is a stroked segment from (StartX, StartY) to (X, Y).
type Line struct {
	ID             int
	StartX, StartY float64
	X, Y           float64
	Width          float64 // stroke width, 0 means the default
	Color          string
}

// Arrow is a segment from (StartX, StartY) to (X, Y) with a head at (X, Y).
type Arrow struct {
	ID             int
	StartX, StartY float64
	X, Y           float64
	Color          string
	Label          string
}

// Text is a label centered at (X, Y).
type Text struct {
	ID    int
	X, Y  float64
	Size  float64 // font size in pixels, 0 means the default
	Color string
	Label string
}

// Unknown keeps an object whose type tag is not recognised. Decoded values
// remember every field so they encode back unchanged.
type Unknown struct {
	ID   int
	Name string
	X, Y float64

	raw *wireObject
}

func (o *Rect) ObjectID() int    { return o.ID }
func (o *Circle) ObjectID() int  { return o.ID }
func (o *Line) ObjectID() int    { return o.ID }
func (o *Arrow) ObjectID() int   { return o.ID }
func (o *Text) ObjectID() int    { return o.ID }
func (o *Unknown) ObjectID() int { return o.ID }

func (*Rect) Kind() Kind      { return KindRect }
func (*Circle) Kind() Kind    { return KindCircle }
func (*Line) Kind() Kind      { return KindLine }
func (*Arrow) Kind() Kind     { return KindArrow }
func (*Text) Kind() Kind      { return KindText }
func (o *Unknown) Kind() Kind { return Kind(o.Name) }

func (o *Rect) Position() (float64, float64)    { return o.X, o.Y }
func (o *Circle) Position() (float64, float64)  { return o.X, o.Y }
func (o *Line) Position() (float64, float64)    { return o.X, o.Y }
func (o *Arrow) Position() (float64, float64)   { return o.X, o.Y }
func (o *Text) Position() (float64, float64)    { return o.X, o.Y }
func (o *Unknown) Position() (float64, float64) { return o.X, o.Y }

func (*Rect) isObject()    {}
func (*Circle) isObject()  {}
func (*Line) isObject()    {}
func (*Arrow) isObject()   {}
func (*Text) isObject()    {}
func (*Unknown) isObject() {}

// BaseScale is the scale a "scale" action starts from. An unset scale is 1;
// an explicit 0 is kept so objects can grow from nothing.
func BaseScale(o Object) float64 {
	var s *float64
	switch v := o.(type) {
	case *Rect:
		s = v.Scale
	case *Circle:
		s = v.Scale
	}
	if s == nil {
		return 1
	}
	return *s
}

// ScaleOf returns a pointer to v for the Scale fields.
func ScaleOf(v float64) *float64 { return &v }

// Known reports whether k is one of the drawable kinds.
func (k Kind) Known() bool {
	switch k {
	case KindRect, KindCircle, KindArrow, KindText, KindLine:
		return true
	}
	return false
}
