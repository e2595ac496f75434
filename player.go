// Package keysynth turns live key press/release events into
// synthesized audio. Events land in a bounded lock-free bridge; the
// audio thread drains them, drives a fixed pool of ADSR voices and
// mixes the result with soft clipping.
package keysynth

import (
	"errors"
	"fmt"
	"sync"
	"time"

	intaudio "github.com/cbegin/keysynth-go/internal/audio"
	intevent "github.com/cbegin/keysynth-go/internal/event"
	intlfo "github.com/cbegin/keysynth-go/internal/lfo"
	intlive "github.com/cbegin/keysynth-go/internal/live"
	intnote "github.com/cbegin/keysynth-go/internal/notemap"
	intsynth "github.com/cbegin/keysynth-go/internal/synth"
)

// Waveform selects the oscillator shape for new voices.
type Waveform = intsynth.Waveform

const (
	WaveSine     = intsynth.WaveSine
	WaveSaw      = intsynth.WaveSaw
	WaveTriangle = intsynth.WaveTriangle
	WaveSquare   = intsynth.WaveSquare
	WavePulse25  = intsynth.WavePulse25
	WavePulse12  = intsynth.WavePulse12
	WaveNoise    = intsynth.WaveNoise
)

// ParseWaveform maps a flag string ("sine", "saw", ...) to a Waveform.
func ParseWaveform(name string) (Waveform, error) {
	return intsynth.ParseWaveform(name)
}

// ParseNote converts a letter note like "c#4" into a MIDI note
// number (middle C is written c5).
func ParseNote(name string) (int, error) {
	note, ok := intnote.ParseNote(name)
	if !ok {
		return 0, fmt.Errorf("invalid note %q", name)
	}
	return note, nil
}

type PlayerOption func(*playerConfig)

type playerConfig struct {
	params       intsynth.Params
	backend      string
	queueSize    int
	vibratoDepth float64
	vibratoRate  float64
	tremoloDepth float64
	tremoloRate  float64
	sampleTap    func([]float32)
}

func defaultPlayerConfig() playerConfig {
	return playerConfig{params: intsynth.DefaultParams()}
}

func WithWaveform(w Waveform) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.params.Wave = w
	}
}

// WithPolyphony sets the maximum number of simultaneously sounding
// voices. Values below 1 keep the default.
func WithPolyphony(n int) PlayerOption {
	return func(cfg *playerConfig) {
		if n > 0 {
			cfg.params.Polyphony = n
		}
	}
}

// WithEnvelope sets the ADSR defaults for new voices: attack, decay
// and release in seconds, sustain as a 0..1 level.
func WithEnvelope(attack, decay, sustain, release float64) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.params.AttackSec = attack
		cfg.params.DecaySec = decay
		cfg.params.SustainLvl = sustain
		cfg.params.ReleaseSec = release
	}
}

func WithMasterGain(gain float64) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.params.MasterGain = gain
	}
}

// WithVibrato enables a global pitch LFO. Depth is in semitones.
func WithVibrato(depth, rateHz float64) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.vibratoDepth = depth
		cfg.vibratoRate = rateHz
	}
}

// WithTremolo enables a global amplitude LFO. Depth is a 0..1 factor.
func WithTremolo(depth, rateHz float64) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.tremoloDepth = depth
		cfg.tremoloRate = rateHz
	}
}

// WithBackend selects the audio output backend: "ebiten" (default)
// or "portaudio".
func WithBackend(name string) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.backend = name
	}
}

// WithQueueSize sets the event bridge capacity (pending events).
func WithQueueSize(n int) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.queueSize = n
	}
}

// WithSampleTap installs a callback invoked with each rendered stereo
// buffer. The callback runs on the audio thread; keep work brief and
// non-blocking.
func WithSampleTap(tap func([]float32)) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.sampleTap = tap
	}
}

// Player is the public live-synthesis surface. NoteOn/NoteOff never
// block; the bridge is single-producer, so call them from one input
// goroutine at a time. Rendering happens on the audio backend's
// thread.
type Player struct {
	mu         sync.Mutex
	sampleRate int
	cfg        playerConfig
	engine     *intsynth.Engine
	performer  *intlive.Performer
	backend    intaudio.Backend
	baseGain   float64
	volume     float64
	epoch      time.Time
}

func NewPlayer(sampleRate int, opts ...PlayerOption) (*Player, error) {
	if sampleRate <= 0 {
		return nil, errors.New("sampleRate must be positive")
	}
	cfg := defaultPlayerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	engine := intsynth.New(sampleRate, cfg.params)
	if cfg.vibratoDepth != 0 && cfg.vibratoRate != 0 {
		engine.SetPitchLFO(cfg.vibratoDepth, cfg.vibratoRate, intlfo.ShapeSine)
	}
	if cfg.tremoloDepth != 0 && cfg.tremoloRate != 0 {
		engine.SetAmpLFO(cfg.tremoloDepth, cfg.tremoloRate, intlfo.ShapeSine)
	}
	queue := intevent.NewQueue(cfg.queueSize)
	return &Player{
		sampleRate: sampleRate,
		cfg:        cfg,
		engine:     engine,
		performer:  intlive.New(engine, queue, intlive.DefaultChain()),
		baseGain:   cfg.params.MasterGain,
		volume:     1,
		epoch:      time.Now(),
	}, nil
}

// Start opens the audio backend and begins rendering. Calling Start
// on a started player is a no-op.
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.backend != nil {
		return nil
	}
	var source intaudio.SampleSource = p.performer
	if p.cfg.sampleTap != nil {
		source = &tapSource{src: p.performer, tap: p.cfg.sampleTap}
	}
	backend, err := intaudio.NewBackend(p.cfg.backend, p.sampleRate, source)
	if err != nil {
		return err
	}
	if err := backend.Play(); err != nil {
		_ = backend.Stop()
		return err
	}
	p.backend = backend
	return nil
}

// Stop shuts the audio backend down. The player can be restarted.
func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.backend == nil {
		return nil
	}
	err := p.backend.Stop()
	p.backend = nil
	return err
}

func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.backend != nil {
		p.backend.Pause()
	}
}

func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.backend != nil {
		_ = p.backend.Play()
	}
}

// NoteOn schedules a press for a MIDI note at full velocity.
func (p *Player) NoteOn(note int) {
	p.NoteOnVelocity(note, 1)
}

// NoteOnVelocity schedules a press with a 0..1 velocity.
func (p *Player) NoteOnVelocity(note int, velocity float64) {
	p.performer.Push(intevent.NoteEvent{
		Note:      note,
		Kind:      intevent.Press,
		Velocity:  velocity,
		Timestamp: p.now(),
	})
}

// NoteOff schedules a release. Releases for notes that are not
// sounding are ignored by the engine.
func (p *Player) NoteOff(note int) {
	p.performer.Push(intevent.NoteEvent{
		Note:      note,
		Kind:      intevent.Release,
		Timestamp: p.now(),
	})
}

// KeyDown maps a QWERTY key name to its note and presses it. Keys
// without a binding report false and do nothing.
func (p *Player) KeyDown(key string) bool {
	note, ok := intnote.KeyNote(key)
	if ok {
		p.NoteOn(note)
	}
	return ok
}

// KeyUp releases the note bound to a QWERTY key name.
func (p *Player) KeyUp(key string) bool {
	note, ok := intnote.KeyNote(key)
	if ok {
		p.NoteOff(note)
	}
	return ok
}

// SetMasterVolume sets the runtime volume scalar. 1.0 is default.
// Safe from any goroutine; takes effect on the next rendered sample.
func (p *Player) SetMasterVolume(volume float64) {
	if volume < 0 {
		volume = 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = volume
	p.engine.SetMasterGain(p.baseGain * p.volume)
}

func (p *Player) MasterVolume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// ActiveVoices reports how many voices are currently sounding.
func (p *Player) ActiveVoices() int {
	return p.performer.ActiveVoices()
}

// DroppedEvents reports how many events the bridge discarded because
// it was full. Overflow is non-fatal; newest events win.
func (p *Player) DroppedEvents() uint64 {
	return p.performer.DroppedEvents()
}

// PlaybackPosition returns the audio driver's output position in
// samples, 0 when not started or unsupported by the backend.
func (p *Player) PlaybackPosition() int64 {
	p.mu.Lock()
	b := p.backend
	p.mu.Unlock()
	if b == nil {
		return 0
	}
	return int64(b.Position().Seconds() * float64(p.sampleRate))
}

func (p *Player) now() int64 {
	return time.Since(p.epoch).Nanoseconds()
}

// tapSource forwards buffers to a tap after rendering.
type tapSource struct {
	src intaudio.SampleSource
	tap func([]float32)
}

func (t *tapSource) Process(dst []float32) {
	t.src.Process(dst)
	t.tap(dst)
}
