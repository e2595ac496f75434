package synth

type envStage int

const (
	stageIdle envStage = iota
	stageAttack
	stageDecay
	stageSustain
	stageRelease
	stageFinished
)

// envelope is a linear ADSR amplitude shaper. level is the current
// multiplier in [0, 1]. The release ramp always starts from the level
// current at the moment release was triggered, including a release
// arriving mid-attack or mid-decay; that continuity is what keeps
// stage changes click-free.
type envelope struct {
	attack  float64 // seconds
	decay   float64 // seconds
	sustain float64 // level 0..1
	release float64 // seconds

	stage       envStage
	level       float64
	releaseStep float64 // per-sample decrement, fixed at release trigger
}

// trigger starts the attack ramp from silence.
func (e *envelope) trigger() {
	e.stage = stageAttack
	e.level = 0
}

// retrigger re-enters attack without resetting the level, so a note
// restarted during its release tail ramps up from where it was.
func (e *envelope) retrigger() {
	e.stage = stageAttack
}

// triggerRelease starts the release ramp from the current level.
func (e *envelope) triggerRelease(sampleRate float64) {
	switch e.stage {
	case stageIdle, stageFinished, stageRelease:
		return
	}
	if e.release <= 0 || e.level <= 0 {
		e.stage = stageFinished
		e.level = 0
		return
	}
	e.releaseStep = e.level / (e.release * sampleRate)
	e.stage = stageRelease
}

// next returns the amplitude for the current sample and advances the
// state machine by one sample period.
func (e *envelope) next(sampleRate float64) float64 {
	cur := e.level
	switch e.stage {
	case stageAttack:
		step := 1.0
		if e.attack > 0 {
			step = 1 / (e.attack * sampleRate)
		}
		e.level += step
		if e.level >= 1 {
			e.level = 1
			e.stage = stageDecay
		}
	case stageDecay:
		step := 1 - e.sustain
		if e.decay > 0 {
			step = (1 - e.sustain) / (e.decay * sampleRate)
		}
		e.level -= step
		if e.level <= e.sustain {
			e.level = e.sustain
			e.stage = stageSustain
		}
	case stageSustain:
		// Held until triggerRelease.
	case stageRelease:
		e.level -= e.releaseStep
		if e.level <= 0 {
			e.level = 0
			e.stage = stageFinished
		}
	case stageIdle, stageFinished:
		e.level = 0
		cur = 0
	}
	return cur
}

// finished reports whether the envelope has fully decayed.
func (e *envelope) finished() bool {
	return e.stage == stageFinished
}

// releasing reports whether the envelope is in its release ramp.
func (e *envelope) releasing() bool {
	return e.stage == stageRelease
}
