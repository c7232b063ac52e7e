// Package renderer turns a scene at a given progress into draw calls.
package renderer

import (
	"log/slog"

	"github.com/ivlev/algoanim/internal/easing"
	"github.com/ivlev/algoanim/internal/geometry"
	"github.com/ivlev/algoanim/internal/scene"
)

// Canvas is a surface that can also be wiped between frames.
type Canvas interface {
	geometry.Surface
	Clear()
}

// Renderer draws scenes. The zero value is not usable; call New.
type Renderer struct {
	ease easing.Func
	log  *slog.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithEasing replaces the default in-out quadratic curve.
func WithEasing(f easing.Func) Option {
	return func(r *Renderer) {
		if f != nil {
			r.ease = f
		}
	}
}

// WithLogger sets the logger for skipped objects.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.log = l
		}
	}
}

func New(opts ...Option) *Renderer {
	r := &Renderer{
		ease: easing.InOutQuad,
		log:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render draws every object of sc in declaration order at progress. It holds
// no state between calls: the same scene and progress produce the same
// surface calls. Objects of unknown type are skipped. It returns the number
// of objects drawn.
func (r *Renderer) Render(s geometry.Surface, sc *scene.Scene, progress float64) int {
	if sc == nil {
		return 0
	}
	drawn := 0
	for _, obj := range sc.Objects {
		if obj == nil {
			continue
		}
		pose := Animate(obj, sc.ActionFor(obj.ObjectID()), progress, r.ease)
		if !geometry.Draw(s, obj, pose) {
			r.log.Debug("skipping object", "scene", sc.ID, "object", obj.ObjectID(), "type", obj.Kind())
			continue
		}
		drawn++
	}
	return drawn
}

// RenderFrame clears c and draws sc at progress.
func (r *Renderer) RenderFrame(c Canvas, sc *scene.Scene, progress float64) int {
	c.Clear()
	return r.Render(c, sc, progress)
}
