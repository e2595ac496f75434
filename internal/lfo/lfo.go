// Package lfo provides the low-frequency oscillators behind vibrato
// and tremolo. One LFO is shared by all voices of an engine.
package lfo

import "math"

// Shape selects the modulation waveform.
type Shape int

const (
	ShapeSine Shape = iota
	ShapeTriangle
	ShapeSquare
)

// LFO produces one modulation value per audio sample in
// [-depth, +depth]. Depth units depend on the target: semitones for
// pitch, a gain factor for amplitude.
type LFO struct {
	depth  float64
	rateHz float64
	shape  Shape
	phase  float64 // [0, 1)
}

// Set configures depth, rate and shape. A zero depth or rate disables
// the LFO.
func (l *LFO) Set(depth, rateHz float64, shape Shape) {
	l.depth = depth
	l.rateHz = rateHz
	if shape < ShapeSine || shape > ShapeSquare {
		shape = ShapeSine
	}
	l.shape = shape
}

// Active reports whether the LFO contributes modulation.
func (l *LFO) Active() bool {
	return l.depth != 0 && l.rateHz != 0
}

// Sample advances the LFO by one sample period and returns the
// current modulation value. Returns 0 when disabled.
func (l *LFO) Sample(sampleRate float64) float64 {
	if !l.Active() || sampleRate <= 0 {
		return 0
	}
	var v float64
	switch l.shape {
	case ShapeTriangle:
		if l.phase < 0.5 {
			v = 4*l.phase - 1
		} else {
			v = 3 - 4*l.phase
		}
	case ShapeSquare:
		if l.phase < 0.5 {
			v = 1
		} else {
			v = -1
		}
	default:
		v = math.Sin(2 * math.Pi * l.phase)
	}
	l.phase += l.rateHz / sampleRate
	for l.phase >= 1 {
		l.phase -= 1
	}
	return v * l.depth
}

// Reset zeros the LFO phase.
func (l *LFO) Reset() {
	l.phase = 0
}
