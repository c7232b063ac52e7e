package canvas

import (
	"fmt"
	"strings"

	"github.com/ivlev/algoanim/internal/easing"
	"github.com/ivlev/algoanim/internal/geometry"
)

// Call is one recorded surface operation with the style in effect.
type Call struct {
	Op        string
	Args      []float64
	Text      string
	Fill      string
	Stroke    string
	Alpha     float64
	LineWidth float64
	FontSize  float64
}

func (c Call) String() string {
	var b strings.Builder
	b.WriteString(c.Op)
	for _, a := range c.Args {
		fmt.Fprintf(&b, " %.2f", a)
	}
	if c.Text != "" {
		fmt.Fprintf(&b, " %q", c.Text)
	}
	switch c.Op {
	case "save", "restore", "clear":
		return b.String()
	}
	fmt.Fprintf(&b, " alpha=%.3f", c.Alpha)
	switch c.Op {
	case "strokeLine":
		fmt.Fprintf(&b, " stroke=%s width=%.1f", c.Stroke, c.LineWidth)
	case "fillText":
		fmt.Fprintf(&b, " fill=%s size=%.0f", c.Fill, c.FontSize)
	default:
		fmt.Fprintf(&b, " fill=%s", c.Fill)
	}
	return b.String()
}

type recState struct {
	fill, stroke               string
	alpha, lineWidth, fontSize float64
}

// Recorder is a surface that logs draw calls instead of rasterizing them.
type Recorder struct {
	Calls []Call

	st    recState
	stack []recState
}

// NewRecorder returns an empty recorder with default style.
func NewRecorder() *Recorder {
	return &Recorder{st: recState{alpha: 1, lineWidth: 1, fontSize: geometry.DefaultFontSize}}
}

// Reset drops recorded calls and restores the default style.
func (r *Recorder) Reset() {
	*r = *NewRecorder()
}

// Draws returns only the calls that put pixels on the surface.
func (r *Recorder) Draws() []Call {
	var out []Call
	for _, c := range r.Calls {
		switch c.Op {
		case "save", "restore", "clear":
			continue
		}
		out = append(out, c)
	}
	return out
}

// Depth is the number of unmatched Save calls.
func (r *Recorder) Depth() int {
	return len(r.stack)
}

func (r *Recorder) Clear() { r.record("clear", "") }

func (r *Recorder) Save() {
	r.stack = append(r.stack, r.st)
	r.record("save", "")
}

func (r *Recorder) Restore() {
	if len(r.stack) == 0 {
		return
	}
	r.st = r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
	r.record("restore", "")
}

func (r *Recorder) SetGlobalAlpha(alpha float64) { r.st.alpha = easing.Clamp01(alpha) }
func (r *Recorder) SetFillColor(color string)    { r.st.fill = color }
func (r *Recorder) SetStrokeColor(color string)  { r.st.stroke = color }
func (r *Recorder) SetLineWidth(width float64)   { r.st.lineWidth = width }
func (r *Recorder) SetFontSize(px float64)       { r.st.fontSize = px }

func (r *Recorder) FillRect(x, y, w, h float64) {
	r.record("fillRect", "", x, y, w, h)
}

func (r *Recorder) FillCircle(cx, cy, radius float64) {
	r.record("fillCircle", "", cx, cy, radius)
}

func (r *Recorder) StrokeLine(x1, y1, x2, y2 float64) {
	r.record("strokeLine", "", x1, y1, x2, y2)
}

func (r *Recorder) FillPolygon(points ...geometry.Point) {
	args := make([]float64, 0, 2*len(points))
	for _, p := range points {
		args = append(args, p.X, p.Y)
	}
	r.record("fillPolygon", "", args...)
}

func (r *Recorder) FillText(s string, x, y float64) {
	r.record("fillText", s, x, y)
}

func (r *Recorder) record(op, text string, args ...float64) {
	r.Calls = append(r.Calls, Call{
		Op:        op,
		Args:      args,
		Text:      text,
		Fill:      r.st.fill,
		Stroke:    r.st.stroke,
		Alpha:     r.st.alpha,
		LineWidth: r.st.lineWidth,
		FontSize:  r.st.fontSize,
	})
}
