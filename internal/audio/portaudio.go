package audio

import (
	"fmt"
	"sync"
	"time"

	pa "github.com/gordonklaus/portaudio"
)

// portAudioBackend streams through the default portaudio output
// device. Useful on headless hosts where the ebiten context is
// unavailable; position reporting is not supported.
type portAudioBackend struct {
	mu      sync.Mutex
	stream  *pa.Stream
	source  SampleSource
	buf     []float32
	started bool
}

var paInitOnce sync.Once

func newPortAudioBackend(sampleRate int, source SampleSource) (Backend, error) {
	var initErr error
	paInitOnce.Do(func() {
		initErr = pa.Initialize()
	})
	if initErr != nil {
		return nil, fmt.Errorf("portaudio init: %w", initErr)
	}
	b := &portAudioBackend{source: source}
	stream, err := pa.OpenDefaultStream(0, 2, float64(sampleRate), pa.FramesPerBufferUnspecified, b.callback)
	if err != nil {
		return nil, fmt.Errorf("portaudio open: %w", err)
	}
	b.stream = stream
	return b, nil
}

// callback runs on portaudio's audio thread. The scratch buffer grows
// to the largest request once and is reused after that.
func (b *portAudioBackend) callback(out [][]float32) {
	frames := len(out[0])
	need := frames * 2
	if cap(b.buf) < need {
		b.buf = make([]float32, need)
	}
	b.buf = b.buf[:need]
	b.source.Process(b.buf)
	for f := 0; f < frames; f++ {
		out[0][f] = b.buf[f*2]
		out[1][f] = b.buf[f*2+1]
	}
}

func (b *portAudioBackend) Play() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started {
		return nil
	}
	if err := b.stream.Start(); err != nil {
		return fmt.Errorf("portaudio start: %w", err)
	}
	b.started = true
	return nil
}

func (b *portAudioBackend) Pause() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started {
		_ = b.stream.Stop()
		b.started = false
	}
}

func (b *portAudioBackend) Position() time.Duration {
	return 0
}

func (b *portAudioBackend) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started {
		if err := b.stream.Stop(); err != nil {
			return err
		}
		b.started = false
	}
	return b.stream.Close()
}
