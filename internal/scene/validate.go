package scene

import (
	"fmt"
	"strconv"
	"strings"
)

// Severity grades a validation issue.
type Severity int

const (
	// Warning marks data the engine tolerates but that is probably unintended.
	Warning Severity = iota
	// Error marks data whose rendering is ambiguous.
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Issue is one finding from Validate. None of them stop playback.
type Issue struct {
	Scene    int // index in the scene list
	Severity Severity
	Message  string
}

func (i Issue) String() string {
	return fmt.Sprintf("scene[%d] %s: %s", i.Scene, i.Severity, i.Message)
}

// Validate reports inconsistencies in a scene list: duplicate object ids,
// actions that reference no object, more than one action per object (only
// the first is applied), unrecognised type tags, colors that are not hex
// and non-positive durations.
func Validate(scenes []Scene) []Issue {
	var issues []Issue
	add := func(i int, sev Severity, format string, args ...any) {
		issues = append(issues, Issue{Scene: i, Severity: sev, Message: fmt.Sprintf(format, args...)})
	}

	for i := range scenes {
		s := &scenes[i]

		if s.Duration <= 0 {
			add(i, Warning, "duration %dms, scene completes immediately", s.Duration)
		}

		ids := make(map[int]bool, len(s.Objects))
		for _, o := range s.Objects {
			if o == nil {
				continue
			}
			if ids[o.ObjectID()] {
				add(i, Error, "duplicate object id %d", o.ObjectID())
			}
			ids[o.ObjectID()] = true
			if !o.Kind().Known() {
				add(i, Warning, "object %d has unknown type %q and is not drawn", o.ObjectID(), o.Kind())
			}
			if c := colorOf(o); c != "" && !ValidColor(c) {
				add(i, Warning, "object %d color %q is not #rgb, #rgba, #rrggbb or #rrggbbaa and draws black", o.ObjectID(), c)
			}
		}

		targeted := make(map[int]bool, len(s.Actions))
		for _, a := range s.Actions {
			if a == nil {
				continue
			}
			id := a.Target()
			if !a.Kind().Known() {
				add(i, Warning, "action on object %d has unknown type %q and is ignored", id, a.Kind())
			}
			if !ids[id] {
				add(i, Warning, "%s action references missing object %d", a.Kind(), id)
			}
			if targeted[id] {
				add(i, Warning, "object %d has more than one action, only the first applies", id)
			}
			targeted[id] = true
		}
	}
	return issues
}

// ValidColor reports whether c is a hex color the surfaces understand.
func ValidColor(c string) bool {
	h, ok := strings.CutPrefix(c, "#")
	if !ok {
		return false
	}
	switch len(h) {
	case 3, 4, 6, 8:
	default:
		return false
	}
	_, err := strconv.ParseUint(h, 16, 32)
	return err == nil
}

func colorOf(o Object) string {
	switch v := o.(type) {
	case *Rect:
		return v.Color
	case *Circle:
		return v.Color
	case *Line:
		return v.Color
	case *Arrow:
		return v.Color
	case *Text:
		return v.Color
	}
	return ""
}

// HasErrors reports whether any issue has Error severity.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == Error {
			return true
		}
	}
	return false
}
