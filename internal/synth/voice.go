package synth

// voice is one sounding note: an oscillator phase plus an amplitude
// envelope. Voices live in the engine's fixed slot array and are
// reused across notes; nothing here allocates.
type voice struct {
	active    bool
	note      int
	freq      float64
	phase     float64
	wave      Waveform
	env       envelope
	velocity  float64
	age       int64 // allocation order, used by the stealing policy
	noiseLFSR uint16
}

// start binds the slot to a new note and begins the attack.
func (v *voice) start(note int, freq, velocity float64, wave Waveform, p Params, age int64) {
	*v = voice{
		active:    true,
		note:      note,
		freq:      freq,
		wave:      wave,
		velocity:  clamp(velocity, 0, 1),
		age:       age,
		noiseLFSR: 0x7FFF,
	}
	v.env = envelope{
		attack:  p.AttackSec,
		decay:   p.DecaySec,
		sustain: clamp(p.SustainLvl, 0, 1),
		release: p.ReleaseSec,
	}
	v.env.trigger()
}

// retrigger restarts the attack of a releasing voice without a level
// discontinuity. The new press's velocity replaces the old one and
// the allocation age is refreshed.
func (v *voice) retrigger(velocity float64, age int64) {
	v.env.retrigger()
	v.velocity = clamp(velocity, 0, 1)
	v.age = age
}

// requestRelease begins the release ramp.
func (v *voice) requestRelease(sampleRate float64) {
	v.env.triggerRelease(sampleRate)
}

// tick advances the voice by one sample period and returns its
// amplitude-scaled waveform value. freqMul carries global pitch
// modulation (1.0 = none).
func (v *voice) tick(sampleRate, freqMul float64) float64 {
	amp := v.env.next(sampleRate)
	if amp == 0 && v.env.finished() {
		return 0
	}
	var s float64
	if v.wave == WaveNoise {
		s = noiseSample(&v.noiseLFSR)
	} else {
		s = waveSample(v.phase, v.wave)
	}
	v.phase = advancePhase(v.phase, v.freq*freqMul, sampleRate)
	return s * amp * v.velocity
}

// finished reports whether the envelope has fully decayed and the
// slot can be reclaimed.
func (v *voice) finished() bool {
	return v.env.finished()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
