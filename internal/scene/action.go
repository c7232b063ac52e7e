package scene

// ActionKind tags an action variant.
type ActionKind string

const (
	ActionMove      ActionKind = "move"
	ActionScale     ActionKind = "scale"
	ActionFadeIn    ActionKind = "fadeIn"
	ActionHighlight ActionKind = "highlight"
)

// Action is a time-varying effect applied to one object over a scene.
type Action interface {
	// Target is the id of the animated object.
	Target() int
	Kind() ActionKind
	isAction()
}

// Move eases the object's anchor to (ToX, ToY).
type Move struct {
	ObjectID int
	ToX, ToY float64
}

// Scale eases the object's scale from its base scale to ToScale.
type Scale struct {
	ObjectID int
	ToScale  float64
}

// FadeIn raises opacity linearly from 0 to 1.
type FadeIn struct {
	ObjectID int
}

// Highlight pulses opacity through two full cycles.
type Highlight struct {
	ObjectID int
}

// UnknownAction keeps an action whose type tag is not recognised. Decoded
// values remember every field so they encode back unchanged.
type UnknownAction struct {
	ObjectID int
	Name     string

	raw *wireAction
}

func (a *Move) Target() int          { return a.ObjectID }
func (a *Scale) Target() int         { return a.ObjectID }
func (a *FadeIn) Target() int        { return a.ObjectID }
func (a *Highlight) Target() int     { return a.ObjectID }
func (a *UnknownAction) Target() int { return a.ObjectID }

func (*Move) Kind() ActionKind            { return ActionMove }
func (*Scale) Kind() ActionKind           { return ActionScale }
func (*FadeIn) Kind() ActionKind          { return ActionFadeIn }
func (*Highlight) Kind() ActionKind       { return ActionHighlight }
func (a *UnknownAction) Kind() ActionKind { return ActionKind(a.Name) }

func (*Move) isAction()          {}
func (*Scale) isAction()         {}
func (*FadeIn) isAction()        {}
func (*Highlight) isAction()     {}
func (*UnknownAction) isAction() {}

// Known reports whether k is one of the supported action kinds.
func (k ActionKind) Known() bool {
	switch k {
	case ActionMove, ActionScale, ActionFadeIn, ActionHighlight:
		return true
	}
	return false
}
