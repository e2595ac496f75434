package keysynth

import "testing"

func TestPlayerMasterVolumeRuntimeAPI(t *testing.T) {
	pl, err := NewPlayer(48000)
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	if got := pl.MasterVolume(); got != 1 {
		t.Fatalf("default master volume = %v, want 1", got)
	}
	pl.SetMasterVolume(0.35)
	if got := pl.MasterVolume(); got != 0.35 {
		t.Fatalf("master volume = %v, want 0.35", got)
	}
	pl.SetMasterVolume(-2)
	if got := pl.MasterVolume(); got != 0 {
		t.Fatalf("master volume should clamp to 0, got %v", got)
	}
}

func TestPlayerRejectsBadSampleRate(t *testing.T) {
	if _, err := NewPlayer(0); err == nil {
		t.Fatalf("expected error for zero sample rate")
	}
	if _, err := NewPlayer(-44100); err == nil {
		t.Fatalf("expected error for negative sample rate")
	}
}

func TestNoteLifecycleWithoutBackend(t *testing.T) {
	// Events queue and apply without an audio device; rendering is
	// exercised through the offline path which shares the performer.
	pl, err := NewPlayer(48000, WithPolyphony(4))
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	pl.NoteOn(60)
	pl.NoteOff(60)
	if pl.DroppedEvents() != 0 {
		t.Fatalf("two events should never overflow the default queue")
	}
	if pl.PlaybackPosition() != 0 {
		t.Fatalf("position must be 0 before Start")
	}
}

func TestKeyDownMapsQWERTY(t *testing.T) {
	pl, err := NewPlayer(48000)
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	if !pl.KeyDown("d") { // middle C
		t.Fatalf("home-row key should be bound")
	}
	if !pl.KeyUp("d") {
		t.Fatalf("home-row key should release")
	}
	if pl.KeyDown("z") {
		t.Fatalf("unbound key must report false")
	}
}

func TestParseWaveform(t *testing.T) {
	cases := []struct {
		in   string
		want Waveform
		ok   bool
	}{
		{"sine", WaveSine, true},
		{"SAW", WaveSaw, true},
		{"triangle", WaveTriangle, true},
		{"square", WaveSquare, true},
		{"pulse25", WavePulse25, true},
		{"noise", WaveNoise, true},
		{"theremin", WaveSine, false},
	}
	for _, tc := range cases {
		got, err := ParseWaveform(tc.in)
		if (err == nil) != tc.ok {
			t.Errorf("ParseWaveform(%q) err = %v, ok want %v", tc.in, err, tc.ok)
			continue
		}
		if err == nil && got != tc.want {
			t.Errorf("ParseWaveform(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
