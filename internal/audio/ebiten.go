package audio

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"
)

// streamReader adapts a SampleSource to the io.Reader the ebiten
// audio player pulls from: 32-bit little-endian floats, two channels,
// 8 bytes per frame.
type streamReader struct {
	mu     sync.Mutex
	source SampleSource
	buf    []float32
}

func newStreamReader(source SampleSource) *streamReader {
	return &streamReader{source: source}
}

func (r *streamReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	frames := len(p) / 8
	if frames == 0 {
		return 0, nil
	}
	need := frames * 2
	if cap(r.buf) < need {
		r.buf = make([]float32, need)
	}
	r.buf = r.buf[:need]
	r.source.Process(r.buf)
	for i := 0; i < need; i++ {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(r.buf[i]))
	}
	return frames * 8, nil
}

func (r *streamReader) Close() error { return nil }

// The ebiten audio context is process-global and fixed to one sample
// rate; creating it twice at different rates is an error.
var (
	audioContextOnce sync.Once
	audioContext     *ebitaudio.Context
	audioSampleRate  int
)

func sharedAudioContext(sampleRate int) (*ebitaudio.Context, error) {
	audioContextOnce.Do(func() {
		audioSampleRate = sampleRate
		audioContext = ebitaudio.NewContext(sampleRate)
	})
	if audioSampleRate != sampleRate {
		return nil, fmt.Errorf("audio context already initialized at %d Hz (requested %d Hz)", audioSampleRate, sampleRate)
	}
	return audioContext, nil
}

type ebitenBackend struct {
	player *ebitaudio.Player
	reader *streamReader
}

func newEbitenBackend(sampleRate int, source SampleSource) (Backend, error) {
	ctx, err := sharedAudioContext(sampleRate)
	if err != nil {
		return nil, err
	}
	reader := newStreamReader(source)
	pl, err := ctx.NewPlayerF32(reader)
	if err != nil {
		return nil, err
	}
	return &ebitenBackend{player: pl, reader: reader}, nil
}

func (b *ebitenBackend) Play() error {
	b.player.Play()
	return nil
}

func (b *ebitenBackend) Pause() {
	b.player.Pause()
}

func (b *ebitenBackend) Position() time.Duration {
	return b.player.Position()
}

func (b *ebitenBackend) Stop() error {
	b.player.Pause()
	b.player.Close()
	return b.reader.Close()
}
