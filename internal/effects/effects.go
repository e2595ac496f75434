// Package effects holds the master-bus processors applied after the
// voice mix. Everything here is mono, allocation-free and bounded-time
// so it can run inside the audio callback.
package effects

import "math"

// Effector processes one sample at a time.
type Effector interface {
	Process(s float32) float32
	Reset()
}

// Chain applies a sequence of effects in order.
type Chain struct {
	effects []Effector
}

func NewChain(effects ...Effector) *Chain {
	return &Chain{effects: effects}
}

func (c *Chain) Process(s float32) float32 {
	for _, e := range c.effects {
		s = e.Process(s)
	}
	return s
}

func (c *Chain) Reset() {
	for _, e := range c.effects {
		e.Reset()
	}
}

func (c *Chain) Add(e Effector) {
	c.effects = append(c.effects, e)
}

// SoftClip saturates the mix with a tanh curve so many summed voices
// compress smoothly instead of folding at the rails. Output magnitude
// never reaches 1. Higher drive saturates earlier.
type SoftClip struct {
	drive float64
}

func NewSoftClip(drive float64) *SoftClip {
	if drive <= 0 {
		drive = 1
	}
	return &SoftClip{drive: drive}
}

func (sc *SoftClip) Process(s float32) float32 {
	return float32(math.Tanh(float64(s) * sc.drive))
}

func (sc *SoftClip) Reset() {}

// DCBlock is a one-pole highpass that removes DC offset introduced by
// asymmetric waveforms (pulse duty cycles, rectified shapes).
type DCBlock struct {
	prevIn  float64
	prevOut float64
}

func NewDCBlock() *DCBlock { return &DCBlock{} }

func (d *DCBlock) Process(s float32) float32 {
	in := float64(s)
	out := in - d.prevIn + 0.995*d.prevOut
	d.prevIn = in
	d.prevOut = out
	return float32(out)
}

func (d *DCBlock) Reset() {
	d.prevIn = 0
	d.prevOut = 0
}

// Limiter is a hard bound at [-1, 1], placed last on the master bus
// as a backstop for filter transients that overshoot after the soft
// clip. It is inaudible in normal operation.
type Limiter struct{}

func NewLimiter() *Limiter { return &Limiter{} }

func (Limiter) Process(s float32) float32 {
	if s > 1 {
		return 1
	}
	if s < -1 {
		return -1
	}
	return s
}

func (Limiter) Reset() {}
