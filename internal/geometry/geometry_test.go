package geometry_test

import (
	"math"
	"testing"

	"github.com/ivlev/algoanim/internal/canvas"
	"github.com/ivlev/algoanim/internal/geometry"
	"github.com/ivlev/algoanim/internal/scene"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRectCenteredAndScaled(t *testing.T) {
	rec := canvas.NewRecorder()
	rect := &scene.Rect{ID: 1, Width: 60, Height: 40, Color: "#22d3ee", Label: "7"}

	geometry.Draw(rec, rect, geometry.Pose{X: 100, Y: 200, Scale: 2, Opacity: 0.5})

	draws := rec.Draws()
	if len(draws) != 2 {
		t.Fatalf("got %d draw calls, want rect + label: %v", len(draws), draws)
	}

	fill := draws[0]
	if fill.Op != "fillRect" {
		t.Fatalf("first call = %s, want fillRect", fill.Op)
	}
	want := []float64{40, 160, 120, 80}
	for i := range want {
		if !near(fill.Args[i], want[i]) {
			t.Errorf("fillRect args = %v, want %v", fill.Args, want)
			break
		}
	}
	if fill.Fill != "#22d3ee" || fill.Alpha != 0.5 {
		t.Errorf("fillRect style fill=%s alpha=%v, want #22d3ee 0.5", fill.Fill, fill.Alpha)
	}

	label := draws[1]
	if label.Op != "fillText" || label.Text != "7" || label.Fill != geometry.LabelColor {
		t.Errorf("label call = %v, want centered white label", label)
	}
	if label.Args[0] != 100 || label.Args[1] != 200 {
		t.Errorf("label at (%v,%v), want (100,200)", label.Args[0], label.Args[1])
	}
}

func TestCircleRadiusScales(t *testing.T) {
	rec := canvas.NewRecorder()
	geometry.Draw(rec, &scene.Circle{Radius: 25, Color: "#f97316"}, geometry.Pose{X: 10, Y: 20, Scale: 1.5, Opacity: 1})

	draws := rec.Draws()
	if len(draws) != 1 {
		t.Fatalf("got %d draws, want 1 (no label)", len(draws))
	}
	if draws[0].Op != "fillCircle" || !near(draws[0].Args[2], 37.5) {
		t.Errorf("circle call = %v, want radius 37.5", draws[0])
	}
}

func TestLineDefaultsWidth(t *testing.T) {
	rec := canvas.NewRecorder()
	geometry.Draw(rec, &scene.Line{StartX: 1, StartY: 2, Color: "#888"}, geometry.Pose{X: 30, Y: 40, Scale: 1, Opacity: 1})

	draws := rec.Draws()
	if len(draws) != 1 || draws[0].Op != "strokeLine" {
		t.Fatalf("draws = %v, want one strokeLine", draws)
	}
	if draws[0].LineWidth != geometry.DefaultLineWidth {
		t.Errorf("LineWidth = %v, want %v", draws[0].LineWidth, geometry.DefaultLineWidth)
	}
	if got := draws[0].Args; got[0] != 1 || got[1] != 2 || got[2] != 30 || got[3] != 40 {
		t.Errorf("line args = %v, want [1 2 30 40]", got)
	}
}

func TestArrowHeadGeometry(t *testing.T) {
	head := geometry.ArrowHead(0, 0, 100, 0)
	if len(head) != 3 {
		t.Fatalf("ArrowHead returned %d points, want 3", len(head))
	}

	dx := 15 * math.Cos(math.Pi/6)
	want := []geometry.Point{{X: 100, Y: 0}, {X: 100 - dx, Y: 7.5}, {X: 100 - dx, Y: -7.5}}
	for i, p := range head {
		if !near(p.X, want[i].X) || !near(p.Y, want[i].Y) {
			t.Errorf("head[%d] = %+v, want %+v", i, p, want[i])
		}
	}

	// Pointing straight down: corners sit above the tip.
	down := geometry.ArrowHead(0, 0, 0, 50)
	if down[1].Y >= 50 || down[2].Y >= 50 {
		t.Errorf("downward head corners %+v %+v should be above the tip", down[1], down[2])
	}
}

func TestArrowDrawsShaftHeadAndLabel(t *testing.T) {
	rec := canvas.NewRecorder()
	arrow := &scene.Arrow{StartX: 0, StartY: 100, Color: "#f97316", Label: "next"}
	geometry.Draw(rec, arrow, geometry.Pose{X: 200, Y: 100, Scale: 1, Opacity: 1})

	draws := rec.Draws()
	ops := []string{"strokeLine", "fillPolygon", "fillText"}
	if len(draws) != len(ops) {
		t.Fatalf("draws = %v, want %v", draws, ops)
	}
	for i, op := range ops {
		if draws[i].Op != op {
			t.Errorf("draws[%d].Op = %s, want %s", i, draws[i].Op, op)
		}
	}
	if draws[0].LineWidth != geometry.ArrowLineWidth {
		t.Errorf("shaft width = %v, want %v", draws[0].LineWidth, geometry.ArrowLineWidth)
	}
	if draws[2].Args[0] != 100 || draws[2].Args[1] != 85 {
		t.Errorf("label at (%v,%v), want (100,85)", draws[2].Args[0], draws[2].Args[1])
	}
	if draws[2].Fill != "#f97316" {
		t.Errorf("label fill = %s, want arrow color", draws[2].Fill)
	}
}

func TestTextUsesSizeOrDefault(t *testing.T) {
	rec := canvas.NewRecorder()
	geometry.Draw(rec, &scene.Text{Label: "Title", Size: 24, Color: "#fff"}, geometry.Pose{Scale: 1, Opacity: 1})
	geometry.Draw(rec, &scene.Text{Label: "note", Color: "#fff"}, geometry.Pose{Scale: 1, Opacity: 1})

	draws := rec.Draws()
	if draws[0].FontSize != 24 {
		t.Errorf("sized text FontSize = %v, want 24", draws[0].FontSize)
	}
	if draws[1].FontSize != geometry.DefaultFontSize {
		t.Errorf("default text FontSize = %v, want %v", draws[1].FontSize, geometry.DefaultFontSize)
	}
}

func TestStyleDoesNotLeak(t *testing.T) {
	rec := canvas.NewRecorder()
	geometry.Draw(rec, &scene.Rect{Width: 10, Height: 10, Color: "#f00"}, geometry.Pose{Scale: 1, Opacity: 0.2})
	if rec.Depth() != 0 {
		t.Fatalf("Depth() = %d after one object, want 0", rec.Depth())
	}

	// A surface operation outside any primitive sees the default style again.
	rec.FillRect(0, 0, 1, 1)
	last := rec.Calls[len(rec.Calls)-1]
	if last.Alpha != 1 || last.Fill != "" {
		t.Errorf("style leaked: alpha=%v fill=%q", last.Alpha, last.Fill)
	}
}

func TestDrawSkipsUnknown(t *testing.T) {
	rec := canvas.NewRecorder()
	if geometry.Draw(rec, &scene.Unknown{Name: "polygon"}, geometry.Pose{Scale: 1, Opacity: 1}) {
		t.Error("Draw() = true for unknown object, want false")
	}
	if len(rec.Calls) != 0 {
		t.Errorf("unknown object produced calls: %v", rec.Calls)
	}
}
