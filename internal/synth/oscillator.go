package synth

import (
	"fmt"
	"math"
	"strings"
)

const twoPi = math.Pi * 2

// Waveform selects the periodic function a voice plays. The set
// matches classic subtractive/chip sources; dispatch is a fixed
// switch so the render path stays branch-predictable.
type Waveform int

const (
	WaveSine Waveform = iota
	WaveSaw
	WaveTriangle
	WaveSquare
	WavePulse25
	WavePulse12
	WaveNoise
)

func (w Waveform) String() string {
	switch w {
	case WaveSaw:
		return "saw"
	case WaveTriangle:
		return "triangle"
	case WaveSquare:
		return "square"
	case WavePulse25:
		return "pulse25"
	case WavePulse12:
		return "pulse12"
	case WaveNoise:
		return "noise"
	default:
		return "sine"
	}
}

// ParseWaveform maps a flag/config string to a Waveform.
func ParseWaveform(name string) (Waveform, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sine", "sin":
		return WaveSine, nil
	case "saw", "sawtooth":
		return WaveSaw, nil
	case "triangle", "tri":
		return WaveTriangle, nil
	case "square", "sq":
		return WaveSquare, nil
	case "pulse25":
		return WavePulse25, nil
	case "pulse12", "pulse125":
		return WavePulse12, nil
	case "noise":
		return WaveNoise, nil
	default:
		return WaveSine, fmt.Errorf("unknown waveform %q", name)
	}
}

// waveSample evaluates a periodic waveform at phase (radians, [0,2π)).
// Pure function; WaveNoise is handled per-voice via noiseSample.
func waveSample(phase float64, w Waveform) float64 {
	switch w {
	case WaveSaw:
		return 1 - 2*phase/twoPi
	case WaveTriangle:
		return 2*math.Abs(2*phase/twoPi-1) - 1
	case WaveSquare:
		if phase < math.Pi {
			return 1
		}
		return -1
	case WavePulse25:
		if phase < math.Pi/2 {
			return 1
		}
		return -1
	case WavePulse12:
		if phase < math.Pi/4 {
			return 1
		}
		return -1
	default:
		return math.Sin(phase)
	}
}

// noiseSample steps a 15-bit LFSR and returns a value in [-1, 1].
// Each voice carries its own register so voices stay independent.
func noiseSample(lfsr *uint16) float64 {
	r := *lfsr
	r = (r >> 1) ^ (-(r & 1) & 0xB400)
	*lfsr = r
	return float64(r)/float64(0x7FFF)*2 - 1
}

// advancePhase accumulates one sample period of phase and wraps at
// 2π. Wrapping by subtraction keeps long-held notes from drifting.
func advancePhase(phase, freq, sampleRate float64) float64 {
	phase += twoPi * freq / sampleRate
	for phase >= twoPi {
		phase -= twoPi
	}
	return phase
}
