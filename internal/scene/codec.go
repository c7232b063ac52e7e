package scene

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// wireObject is the flat, loosely-typed shape objects take in JSON and YAML.
// Only the fields relevant to the type tag are read.
type wireObject struct {
	ID     int      `json:"id" yaml:"id"`
	Type   string   `json:"type" yaml:"type"`
	X      float64  `json:"x" yaml:"x"`
	Y      float64  `json:"y" yaml:"y"`
	StartX float64  `json:"startX,omitempty" yaml:"startX,omitempty"`
	StartY float64  `json:"startY,omitempty" yaml:"startY,omitempty"`
	Width  float64  `json:"width,omitempty" yaml:"width,omitempty"`
	Height float64  `json:"height,omitempty" yaml:"height,omitempty"`
	Radius float64  `json:"radius,omitempty" yaml:"radius,omitempty"`
	Size   float64  `json:"size,omitempty" yaml:"size,omitempty"`
	Scale  *float64 `json:"scale,omitempty" yaml:"scale,omitempty"`
	Color  string   `json:"color,omitempty" yaml:"color,omitempty"`
	Label  string   `json:"label,omitempty" yaml:"label,omitempty"`
}

type wireAction struct {
	ObjectID int     `json:"objectId" yaml:"objectId"`
	Type     string  `json:"type" yaml:"type"`
	ToX      float64 `json:"toX,omitempty" yaml:"toX,omitempty"`
	ToY      float64 `json:"toY,omitempty" yaml:"toY,omitempty"`
	ToScale  float64 `json:"toScale,omitempty" yaml:"toScale,omitempty"`
}

type wireScene struct {
	ID       int          `json:"id" yaml:"id"`
	Duration int          `json:"duration" yaml:"duration"`
	Objects  []wireObject `json:"objects" yaml:"objects"`
	Actions  []wireAction `json:"actions" yaml:"actions"`
}

func (w wireObject) object() Object {
	switch Kind(w.Type) {
	case KindRect:
		return &Rect{ID: w.ID, X: w.X, Y: w.Y, Width: w.Width, Height: w.Height, Color: w.Color, Label: w.Label, Scale: w.Scale}
	case KindCircle:
		return &Circle{ID: w.ID, X: w.X, Y: w.Y, Radius: w.Radius, Color: w.Color, Label: w.Label, Scale: w.Scale}
	case KindLine:
		return &Line{ID: w.ID, StartX: w.StartX, StartY: w.StartY, X: w.X, Y: w.Y, Width: w.Width, Color: w.Color}
	case KindArrow:
		return &Arrow{ID: w.ID, StartX: w.StartX, StartY: w.StartY, X: w.X, Y: w.Y, Color: w.Color, Label: w.Label}
	case KindText:
		return &Text{ID: w.ID, X: w.X, Y: w.Y, Size: w.Size, Color: w.Color, Label: w.Label}
	default:
		raw := w
		return &Unknown{ID: w.ID, Name: w.Type, X: w.X, Y: w.Y, raw: &raw}
	}
}

func toWireObject(o Object) wireObject {
	var w wireObject
	if u, ok := o.(*Unknown); ok && u.raw != nil {
		w = *u.raw
	}
	w.ID, w.Type = o.ObjectID(), string(o.Kind())
	w.X, w.Y = o.Position()
	switch v := o.(type) {
	case *Rect:
		w.Width, w.Height, w.Color, w.Label, w.Scale = v.Width, v.Height, v.Color, v.Label, v.Scale
	case *Circle:
		w.Radius, w.Color, w.Label, w.Scale = v.Radius, v.Color, v.Label, v.Scale
	case *Line:
		w.StartX, w.StartY, w.Width, w.Color = v.StartX, v.StartY, v.Width, v.Color
	case *Arrow:
		w.StartX, w.StartY, w.Color, w.Label = v.StartX, v.StartY, v.Color, v.Label
	case *Text:
		w.Size, w.Color, w.Label = v.Size, v.Color, v.Label
	}
	return w
}

func (w wireAction) action() Action {
	switch ActionKind(w.Type) {
	case ActionMove:
		return &Move{ObjectID: w.ObjectID, ToX: w.ToX, ToY: w.ToY}
	case ActionScale:
		return &Scale{ObjectID: w.ObjectID, ToScale: w.ToScale}
	case ActionFadeIn:
		return &FadeIn{ObjectID: w.ObjectID}
	case ActionHighlight:
		return &Highlight{ObjectID: w.ObjectID}
	default:
		raw := w
		return &UnknownAction{ObjectID: w.ObjectID, Name: w.Type, raw: &raw}
	}
}

func toWireAction(a Action) wireAction {
	var w wireAction
	if u, ok := a.(*UnknownAction); ok && u.raw != nil {
		w = *u.raw
	}
	w.ObjectID, w.Type = a.Target(), string(a.Kind())
	switch v := a.(type) {
	case *Move:
		w.ToX, w.ToY = v.ToX, v.ToY
	case *Scale:
		w.ToScale = v.ToScale
	}
	return w
}

func (w *wireScene) scene() Scene {
	s := Scene{
		ID:       w.ID,
		Duration: w.Duration,
		Objects:  make([]Object, 0, len(w.Objects)),
		Actions:  make([]Action, 0, len(w.Actions)),
	}
	for _, o := range w.Objects {
		s.Objects = append(s.Objects, o.object())
	}
	for _, a := range w.Actions {
		s.Actions = append(s.Actions, a.action())
	}
	return s
}

func (s *Scene) wire() wireScene {
	w := wireScene{
		ID:       s.ID,
		Duration: s.Duration,
		Objects:  make([]wireObject, 0, len(s.Objects)),
		Actions:  make([]wireAction, 0, len(s.Actions)),
	}
	for _, o := range s.Objects {
		if o != nil {
			w.Objects = append(w.Objects, toWireObject(o))
		}
	}
	for _, a := range s.Actions {
		if a != nil {
			w.Actions = append(w.Actions, toWireAction(a))
		}
	}
	return w
}

// MarshalJSON encodes the scene with the flat object/action field names.
func (s Scene) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.wire())
}

// UnmarshalJSON decodes a scene; unknown type tags become Unknown variants.
func (s *Scene) UnmarshalJSON(data []byte) error {
	var w wireScene
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*s = w.scene()
	return nil
}

// MarshalYAML encodes the scene with the flat object/action field names.
func (s Scene) MarshalYAML() (interface{}, error) {
	return s.wire(), nil
}

// UnmarshalYAML decodes a scene; unknown type tags become Unknown variants.
func (s *Scene) UnmarshalYAML(value *yaml.Node) error {
	var w wireScene
	if err := value.Decode(&w); err != nil {
		return err
	}
	*s = w.scene()
	return nil
}
