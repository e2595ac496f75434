// Package audio delivers a SampleSource to an output device. Two
// backends are available: the default ebiten audio context and a
// portaudio stream for hosts without a display server.
package audio

import (
	"fmt"
	"time"
)

// SampleSource produces interleaved stereo float32 frames. Process is
// invoked from the audio thread and must not block or allocate.
type SampleSource interface {
	Process(dst []float32)
}

// Backend is a started-or-stopped audio output device.
type Backend interface {
	Play() error
	Pause()
	// Position returns the driver's output position, i.e. what the
	// listener hears right now. Backends without position reporting
	// return 0.
	Position() time.Duration
	Stop() error
}

// NewBackend opens the named backend ("ebiten" or "portaudio"; empty
// selects ebiten) at the given sample rate.
func NewBackend(name string, sampleRate int, source SampleSource) (Backend, error) {
	switch name {
	case "", "ebiten":
		return newEbitenBackend(sampleRate, source)
	case "portaudio":
		return newPortAudioBackend(sampleRate, source)
	default:
		return nil, fmt.Errorf("unknown audio backend %q (expected ebiten|portaudio)", name)
	}
}
