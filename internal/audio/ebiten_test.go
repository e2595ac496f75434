package audio

import (
	"encoding/binary"
	"math"
	"testing"
)

type rampSource struct{ next float32 }

func (s *rampSource) Process(dst []float32) {
	for i := range dst {
		dst[i] = s.next
		s.next += 0.25
	}
}

func TestStreamReaderEncodesFloat32LE(t *testing.T) {
	r := newStreamReader(&rampSource{})
	p := make([]byte, 4*8) // four stereo frames
	n, err := r.Read(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if n != len(p) {
		t.Fatalf("read %d bytes, want %d", n, len(p))
	}
	for i := 0; i < 8; i++ {
		got := math.Float32frombits(binary.LittleEndian.Uint32(p[i*4:]))
		want := float32(i) * 0.25
		if got != want {
			t.Fatalf("sample %d = %f, want %f", i, got, want)
		}
	}
}

func TestStreamReaderShortBuffer(t *testing.T) {
	r := newStreamReader(&rampSource{})
	// Fewer bytes than one frame: nothing to produce.
	n, err := r.Read(make([]byte, 7))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if n != 0 {
		t.Fatalf("read %d bytes from a sub-frame buffer, want 0", n)
	}
}
