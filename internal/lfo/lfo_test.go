package lfo

import (
	"math"
	"testing"
)

func TestDisabledLFOIsSilent(t *testing.T) {
	var l LFO
	for i := 0; i < 100; i++ {
		if v := l.Sample(48000); v != 0 {
			t.Fatalf("zero-configured LFO produced %f", v)
		}
	}
	l.Set(0.5, 0, ShapeSine)
	if l.Active() {
		t.Fatalf("zero-rate LFO reports active")
	}
}

func TestSampleStaysWithinDepth(t *testing.T) {
	for _, shape := range []Shape{ShapeSine, ShapeTriangle, ShapeSquare} {
		var l LFO
		l.Set(0.3, 6, shape)
		for i := 0; i < 48000; i++ {
			v := l.Sample(48000)
			if math.Abs(v) > 0.3+1e-9 {
				t.Fatalf("shape %d sample %f exceeds depth", shape, v)
			}
		}
	}
}

func TestSineCompletesCycles(t *testing.T) {
	var l LFO
	l.Set(1, 5, ShapeSine)
	// Over one second at 5 Hz, count positive-going zero crossings.
	// The first cycle starts at zero, so four boundaries remain.
	prev := l.Sample(48000)
	crossings := 0
	for i := 1; i < 48000; i++ {
		v := l.Sample(48000)
		if prev < 0 && v >= 0 {
			crossings++
		}
		prev = v
	}
	if crossings != 4 {
		t.Fatalf("got %d cycle boundaries in one second, want 4", crossings)
	}
}

func TestResetRestartsPhase(t *testing.T) {
	var l LFO
	l.Set(1, 2, ShapeTriangle)
	first := l.Sample(48000)
	for i := 0; i < 1000; i++ {
		l.Sample(48000)
	}
	l.Reset()
	if got := l.Sample(48000); got != first {
		t.Fatalf("after reset got %f, want %f", got, first)
	}
}
