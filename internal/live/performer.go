// Package live connects the event bridge to the voice engine and
// renders the result as an interleaved stereo stream. It is the only
// code that runs on both sides of the input/render boundary: Push
// lands on the input goroutine, Process on the audio thread.
package live

import (
	"github.com/cbegin/keysynth-go/internal/effects"
	"github.com/cbegin/keysynth-go/internal/event"
	"github.com/cbegin/keysynth-go/internal/synth"
)

// Performer drains pending note events in FIFO arrival order before
// rendering each buffer, so an event is always visible to the first
// render pass after its push.
type Performer struct {
	queue  *event.Queue
	engine *synth.Engine
	chain  *effects.Chain
}

// New wires a queue to an engine. chain is the master-bus effect
// chain applied after the engine's mix; nil disables it.
func New(engine *synth.Engine, queue *event.Queue, chain *effects.Chain) *Performer {
	return &Performer{
		queue:  queue,
		engine: engine,
		chain:  chain,
	}
}

// DefaultChain is the stock master bus: DC removal then a hard
// backstop. The engine's own soft clip has already bounded the mix.
func DefaultChain() *effects.Chain {
	return effects.NewChain(effects.NewDCBlock(), effects.NewLimiter())
}

// Push enqueues an event from the input side. Never blocks; reports
// false if the bridge overflowed and dropped its oldest event.
func (p *Performer) Push(ev event.NoteEvent) bool {
	return p.queue.Push(ev)
}

// Process fills dst with interleaved stereo samples. Called from the
// audio thread; it must not allocate or block.
func (p *Performer) Process(dst []float32) {
	p.queue.Drain(p.apply)
	frames := len(dst) / 2
	for f := 0; f < frames; f++ {
		s := p.engine.RenderFrame()
		if p.chain != nil {
			s = p.chain.Process(s)
		}
		dst[f*2] = s
		dst[f*2+1] = s
	}
}

func (p *Performer) apply(ev event.NoteEvent) {
	switch ev.Kind {
	case event.Press:
		vel := ev.Velocity
		if vel <= 0 {
			vel = 1
		}
		p.engine.NoteOn(ev.Note, vel)
	case event.Release:
		p.engine.NoteOff(ev.Note)
	}
}

// ActiveVoices reports how many voices are sounding. Render-side
// state; treat the value as a snapshot.
func (p *Performer) ActiveVoices() int {
	return p.engine.ActiveVoiceCount()
}

// DroppedEvents returns the bridge's overflow count.
func (p *Performer) DroppedEvents() uint64 {
	return p.queue.Overflows()
}
