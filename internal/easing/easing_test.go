package easing

import (
	"errors"
	"math"
	"testing"
)

func TestInOutQuadEndpoints(t *testing.T) {
	if got := InOutQuad(0); got != 0 {
		t.Errorf("InOutQuad(0) = %v, want 0", got)
	}
	if got := InOutQuad(1); got != 1 {
		t.Errorf("InOutQuad(1) = %v, want 1", got)
	}
	if got := InOutQuad(0.5); got != 0.5 {
		t.Errorf("InOutQuad(0.5) = %v, want 0.5", got)
	}
}

func TestInOutQuadSymmetricAndMonotonic(t *testing.T) {
	for _, ease := range []struct {
		name string
		fn   Func
	}{
		{"quad", InOutQuad},
		{"cubic", InOutCubic},
		{"linear", Linear},
	} {
		t.Run(ease.name, func(t *testing.T) {
			prev := ease.fn(0)
			for i := 0; i <= 1000; i++ {
				x := float64(i) / 1000
				y := ease.fn(x)
				if y < prev {
					t.Fatalf("not monotonic at t=%.3f: %v < %v", x, y, prev)
				}
				prev = y

				if diff := math.Abs(y - (1 - ease.fn(1-x))); diff > 1e-12 {
					t.Errorf("asymmetric at t=%.3f: f(t)=%v, 1-f(1-t)=%v", x, y, 1-ease.fn(1-x))
				}
			}
		})
	}
}

func TestInOutQuadKnownValues(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.25, 0.125},
		{0.75, 0.875},
		{-1, 0},
		{2, 1},
	}
	for _, tt := range tests {
		if got := InOutQuad(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("InOutQuad(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClamp01(t *testing.T) {
	if got := Clamp01(math.NaN()); got != 0 {
		t.Errorf("Clamp01(NaN) = %v, want 0", got)
	}
	if got := Clamp01(math.Inf(1)); got != 1 {
		t.Errorf("Clamp01(+Inf) = %v, want 1", got)
	}
	if got := Lerp(10, 20, 0.5); got != 15 {
		t.Errorf("Lerp(10, 20, 0.5) = %v, want 15", got)
	}
}

func TestByName(t *testing.T) {
	tests := []struct {
		name string
		at   float64
		want float64
	}{
		{"quad", 0.25, 0.125},
		{"", 0.25, 0.125},
		{"cubic", 0.25, 0.0625},
		{"linear", 0.25, 0.25},
	}
	for _, tt := range tests {
		fn, err := ByName(tt.name)
		if err != nil {
			t.Fatalf("ByName(%q) error = %v", tt.name, err)
		}
		if got := fn(tt.at); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("ByName(%q)(%v) = %v, want %v", tt.name, tt.at, got, tt.want)
		}
	}

	if _, err := ByName("bounce"); !errors.Is(err, ErrUnknownCurve) {
		t.Errorf("ByName(bounce) error = %v, want ErrUnknownCurve", err)
	}
}
