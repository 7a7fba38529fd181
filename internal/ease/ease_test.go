package ease

import (
	"math"
	"testing"
)

func TestEndpoints(t *testing.T) {
	for _, name := range Names() {
		if got := Apply(name, 0); got != 0 {
			t.Errorf("%s: expected 0 at start, got %f", name, got)
		}
		if got := Apply(name, 1); got != 1 {
			t.Errorf("%s: expected 1 at end, got %f", name, got)
		}
	}
}

func TestMidpoints(t *testing.T) {
	tests := []struct {
		name string
		t    float64
		want float64
	}{
		{"none", 0.5, 0.5},
		{"linear", 0.25, 0.25},
		{"power1.in", 0.5, 0.25},
		{"power1.out", 0.5, 0.75},
		{"power2.inOut", 0.5, 0.5},
		{"power1", 0.5, 0.75}, // bare name is .out
		{"sine.inOut", 0.5, 0.5},
	}
	for _, tt := range tests {
		got := Apply(tt.name, tt.t)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s at %.2f: expected %f, got %f", tt.name, tt.t, tt.want, got)
		}
	}
}

func TestUnknownFallsBack(t *testing.T) {
	if Known("bounce.wobble") {
		t.Fatal("bounce.wobble should not be registered")
	}
	got := Apply("bounce.wobble", 0.5)
	want := Apply(Default, 0.5)
	if got != want {
		t.Errorf("Expected fallback %f, got %f", want, got)
	}
	if !Known("Power3.InOut") {
		t.Error("Lookup should ignore case")
	}
}

func TestBackOvershoots(t *testing.T) {
	if Apply("back.in", 0.2) >= 0 {
		t.Error("back.in should dip below zero early on")
	}
}

func TestLerp(t *testing.T) {
	if got := Lerp(10, 20, 0.25); got != 12.5 {
		t.Errorf("Expected 12.5, got %f", got)
	}
}
