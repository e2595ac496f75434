// Package synth implements the polyphonic voice engine: a fixed
// arena of voices, an ADSR envelope per voice, and a mono mixer with
// master gain and soft clipping. Everything on the render path is
// allocation-free and bounded by the polyphony count.
package synth

import (
	"math"
	"sync/atomic"

	"github.com/cbegin/keysynth-go/internal/effects"
	"github.com/cbegin/keysynth-go/internal/lfo"
	"github.com/cbegin/keysynth-go/internal/notemap"
)

type Engine struct {
	sampleRate float64
	params     Params
	voices     []voice
	nextAge    int64
	masterGain uint64 // float64 bits, written from any goroutine
	clip       *effects.SoftClip
	pitchLFO   lfo.LFO
	ampLFO     lfo.LFO
}

func New(sampleRate int, params Params) *Engine {
	if params.Polyphony <= 0 {
		params.Polyphony = 16
	}
	return &Engine{
		sampleRate: float64(sampleRate),
		params:     params,
		voices:     make([]voice, params.Polyphony),
		masterGain: math.Float64bits(params.MasterGain),
		clip:       effects.NewSoftClip(params.ClipDrive),
	}
}

// NoteOn starts a voice for a MIDI note. Velocity is 0..1. Unmapped
// notes allocate nothing and report false. A note that is already
// held is ignored; a note still in its release tail is retriggered
// in place so the same key never owns two slots. When every slot is
// busy the engine steals one, so a NoteOn for a mapped note never
// fails.
func (e *Engine) NoteOn(note int, velocity float64) bool {
	freq, ok := notemap.Frequency(note)
	if !ok {
		return false
	}
	e.nextAge++
	if v := e.findNote(note); v != nil {
		if v.env.releasing() {
			v.retrigger(velocity, e.nextAge)
		}
		return true
	}
	v := e.allocVoice()
	v.start(note, freq, velocity, e.params.Wave, e.params, e.nextAge)
	return true
}

// NoteOff releases the voice bound to note. Releases for notes with
// no active voice (stolen, finished, never mapped) are no-ops.
func (e *Engine) NoteOff(note int) {
	if v := e.findNote(note); v != nil {
		v.requestRelease(e.sampleRate)
	}
}

// RenderFrame produces one mono output sample: the sum of all active
// voices, scaled by the master gain and saturated into [-1, 1].
// Voices whose envelopes finished this tick are reclaimed after
// contributing their final zero.
func (e *Engine) RenderFrame() float32 {
	freqMul := 1.0
	if pitchMod := e.pitchLFO.Sample(e.sampleRate); pitchMod != 0 {
		freqMul = math.Pow(2, pitchMod/12)
	}
	ampMod := e.ampLFO.Sample(e.sampleRate)

	var sum float64
	for i := range e.voices {
		v := &e.voices[i]
		if !v.active {
			continue
		}
		sum += v.tick(e.sampleRate, freqMul)
		if v.finished() {
			v.active = false
		}
	}
	sum *= e.masterGainValue() * (1 + ampMod)
	return e.clip.Process(float32(sum))
}

// findNote returns the active voice bound to note, or nil.
func (e *Engine) findNote(note int) *voice {
	for i := range e.voices {
		if e.voices[i].active && e.voices[i].note == note {
			return &e.voices[i]
		}
	}
	return nil
}

// allocVoice returns a free slot, stealing one when the pool is at
// capacity: first the releasing voice closest to silence, otherwise
// the oldest-allocated voice.
func (e *Engine) allocVoice() *voice {
	for i := range e.voices {
		if !e.voices[i].active {
			return &e.voices[i]
		}
	}
	steal := -1
	minLevel := math.MaxFloat64
	for i := range e.voices {
		if e.voices[i].env.releasing() && e.voices[i].env.level < minLevel {
			minLevel = e.voices[i].env.level
			steal = i
		}
	}
	if steal >= 0 {
		return &e.voices[steal]
	}
	oldest := 0
	for i := 1; i < len(e.voices); i++ {
		if e.voices[i].age < e.voices[oldest].age {
			oldest = i
		}
	}
	return &e.voices[oldest]
}

// ActiveVoiceCount returns the number of voices still sounding,
// release tails included.
func (e *Engine) ActiveVoiceCount() int {
	n := 0
	for i := range e.voices {
		if e.voices[i].active {
			n++
		}
	}
	return n
}

// SetMasterGain sets the mix gain. Safe from any goroutine.
func (e *Engine) SetMasterGain(gain float64) {
	if gain < 0 {
		gain = 0
	}
	atomic.StoreUint64(&e.masterGain, math.Float64bits(gain))
}

func (e *Engine) masterGainValue() float64 {
	return math.Float64frombits(atomic.LoadUint64(&e.masterGain))
}

// SetPitchLFO configures vibrato. Depth is in semitones.
func (e *Engine) SetPitchLFO(depth, rateHz float64, shape lfo.Shape) {
	e.pitchLFO.Set(depth, rateHz, shape)
}

// SetAmpLFO configures tremolo. Depth is a 0..1 gain factor.
func (e *Engine) SetAmpLFO(depth, rateHz float64, shape lfo.Shape) {
	e.ampLFO.Set(depth, rateHz, shape)
}

// Polyphony returns the fixed voice slot count.
func (e *Engine) Polyphony() int {
	return len(e.voices)
}
