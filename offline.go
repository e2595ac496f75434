package keysynth

import (
	"encoding/binary"
	"math"
	"sort"

	intevent "github.com/cbegin/keysynth-go/internal/event"
	intlfo "github.com/cbegin/keysynth-go/internal/lfo"
	intlive "github.com/cbegin/keysynth-go/internal/live"
	intsynth "github.com/cbegin/keysynth-go/internal/synth"
)

// EventKind distinguishes scripted presses from releases.
type EventKind int

const (
	Press EventKind = iota
	Release
)

// TimedEvent is one scripted key transition for offline rendering.
// AtFrame is the sample index at which the event takes effect.
// Velocity 0 means full velocity.
type TimedEvent struct {
	AtFrame  int
	Note     int
	Kind     EventKind
	Velocity float64
}

// RenderEvents renders a scripted event sequence to interleaved
// stereo float32 samples, using the same engine and dispatch path as
// live playback. Events are applied in frame order; ties keep their
// slice order.
func RenderEvents(events []TimedEvent, sampleRate int, seconds float64, opts ...PlayerOption) []float32 {
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
	perf := intlive.New(engine, queue, intlive.DefaultChain())

	sorted := make([]TimedEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AtFrame < sorted[j].AtFrame
	})

	frames := int(float64(sampleRate) * seconds)
	out := make([]float32, frames*2)
	idx := 0
	for f := 0; f < frames; f++ {
		for idx < len(sorted) && sorted[idx].AtFrame <= f {
			te := sorted[idx]
			kind := intevent.Press
			if te.Kind == Release {
				kind = intevent.Release
			}
			queue.Push(intevent.NoteEvent{Note: te.Note, Kind: kind, Velocity: te.Velocity})
			idx++
		}
		perf.Process(out[f*2 : f*2+2])
	}
	return out
}

// EncodeWAVFloat32LE wraps samples in a RIFF/WAVE container with
// 32-bit float PCM (format 3).
func EncodeWAVFloat32LE(samples []float32, sampleRate int, channels int) []byte {
	dataSize := len(samples) * 4
	byteRate := sampleRate * channels * 4
	blockAlign := channels * 4
	chunkSize := 36 + dataSize
	out := make([]byte, 44+dataSize)
	copy(out[0:], []byte("RIFF"))
	binary.LittleEndian.PutUint32(out[4:], uint32(chunkSize))
	copy(out[8:], []byte("WAVE"))
	copy(out[12:], []byte("fmt "))
	binary.LittleEndian.PutUint32(out[16:], 16)
	binary.LittleEndian.PutUint16(out[20:], 3)
	binary.LittleEndian.PutUint16(out[22:], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:], 32)
	copy(out[36:], []byte("data"))
	binary.LittleEndian.PutUint32(out[40:], uint32(dataSize))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[44+i*4:], math.Float32bits(s))
	}
	return out
}
