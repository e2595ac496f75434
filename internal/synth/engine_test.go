package synth

import (
	"math"
	"testing"
)

func TestEngineGeneratesSignal(t *testing.T) {
	e := New(48000, DefaultParams())
	if !e.NoteOn(60, 1) {
		t.Fatalf("NoteOn(60) rejected")
	}
	if got := e.RenderFrame(); got != 0 {
		t.Fatalf("first sample = %f, want 0 (attack starts from silence)", got)
	}
	var nonZero bool
	for i := 0; i < 5000; i++ {
		if e.RenderFrame() != 0 {
			nonZero = true
			break
		}
	}
	if !nonZero {
		t.Fatalf("expected non-zero output during attack")
	}
	e.NoteOff(60)
}

func TestOutputAlwaysWithinUnitRange(t *testing.T) {
	params := DefaultParams()
	params.Polyphony = 16
	params.MasterGain = 1 // deliberately hot mix
	e := New(48000, params)
	for n := 0; n < 24; n++ {
		e.NoteOn(48+n, 1)
	}
	for i := 0; i < 48000; i++ {
		s := e.RenderFrame()
		if s < -1 || s > 1 {
			t.Fatalf("sample %d = %f, out of [-1, 1]", i, s)
		}
	}
}

func TestPolyphonyCapHolds(t *testing.T) {
	params := DefaultParams()
	params.Polyphony = 16
	e := New(48000, params)
	for n := 0; n < 64; n++ {
		e.NoteOn(30+n, 1)
		if got := e.ActiveVoiceCount(); got > 16 {
			t.Fatalf("after %d presses, %d active voices (cap 16)", n+1, got)
		}
	}
}

func TestSeventeenthPressStealsAVoice(t *testing.T) {
	params := DefaultParams()
	params.Polyphony = 16
	e := New(48000, params)
	for n := 0; n < 16; n++ {
		if !e.NoteOn(40+n, 1) {
			t.Fatalf("press %d rejected", n)
		}
	}
	if !e.NoteOn(60, 1) {
		t.Fatalf("press past capacity must steal, not fail")
	}
	if got := e.ActiveVoiceCount(); got != 16 {
		t.Fatalf("active voices = %d, want 16", got)
	}
	if e.findNote(60) == nil {
		t.Fatalf("stolen slot should now be bound to note 60")
	}
}

func TestStealingPrefersReleasingVoice(t *testing.T) {
	params := DefaultParams()
	params.Polyphony = 4
	e := New(48000, params)
	for n := 0; n < 4; n++ {
		e.NoteOn(60+n, 1)
	}
	for i := 0; i < 4800; i++ {
		e.RenderFrame() // settle into sustain
	}
	e.NoteOff(61)
	for i := 0; i < 10; i++ {
		e.RenderFrame()
	}
	e.NoteOn(80, 1)
	if e.findNote(61) != nil {
		t.Fatalf("the releasing voice (61) should have been stolen")
	}
	for _, n := range []int{60, 62, 63, 80} {
		if e.findNote(n) == nil {
			t.Fatalf("note %d should still be active", n)
		}
	}
}

func TestStealingFallsBackToOldest(t *testing.T) {
	params := DefaultParams()
	params.Polyphony = 3
	e := New(48000, params)
	e.NoteOn(60, 1)
	e.NoteOn(61, 1)
	e.NoteOn(62, 1)
	e.NoteOn(63, 1) // nothing releasing; 60 is oldest
	if e.findNote(60) != nil {
		t.Fatalf("oldest voice (60) should have been stolen")
	}
	if e.findNote(63) == nil {
		t.Fatalf("new note should be active after stealing")
	}
}

func TestReleaseUnknownNoteIsNoOp(t *testing.T) {
	e := New(48000, DefaultParams())
	e.NoteOff(60)
	e.NoteOff(-5)
	e.NoteOn(64, 1)
	e.NoteOff(72) // never pressed
	for i := 0; i < 100; i++ {
		s := e.RenderFrame()
		if s < -1 || s > 1 {
			t.Fatalf("render disturbed by unknown release: %f", s)
		}
	}
	if e.findNote(64) == nil {
		t.Fatalf("held note lost after unrelated release")
	}
}

func TestFinishedVoiceReclaimedAndSilent(t *testing.T) {
	params := DefaultParams()
	params.ReleaseSec = 0.01
	e := New(48000, params)
	e.NoteOn(60, 1)
	for i := 0; i < 4800; i++ {
		e.RenderFrame()
	}
	e.NoteOff(60)
	// Render past the full release ramp.
	for i := 0; i < 4800; i++ {
		e.RenderFrame()
	}
	if got := e.ActiveVoiceCount(); got != 0 {
		t.Fatalf("voice not reclaimed, %d active", got)
	}
	for i := 0; i < 100; i++ {
		if s := e.RenderFrame(); s != 0 {
			t.Fatalf("reclaimed engine still outputs %f", s)
		}
	}
}

func TestRepeatedPressOnHeldNoteIsIgnored(t *testing.T) {
	e := New(48000, DefaultParams())
	e.NoteOn(60, 1)
	for i := 0; i < 2400; i++ {
		e.RenderFrame()
	}
	v := e.findNote(60)
	levelBefore := v.env.level
	e.NoteOn(60, 1) // held; must not restart the attack
	if e.ActiveVoiceCount() != 1 {
		t.Fatalf("duplicate press allocated a second voice")
	}
	if v.env.level != levelBefore {
		t.Fatalf("duplicate press disturbed the envelope: %f -> %f", levelBefore, v.env.level)
	}
}

func TestPressDuringReleaseRetriggersInPlace(t *testing.T) {
	e := New(48000, DefaultParams())
	e.NoteOn(60, 1)
	for i := 0; i < 4800; i++ {
		e.RenderFrame()
	}
	e.NoteOff(60)
	for i := 0; i < 100; i++ {
		e.RenderFrame()
	}
	v := e.findNote(60)
	if v == nil || !v.env.releasing() {
		t.Fatalf("expected note 60 to be releasing")
	}
	level := v.env.level
	e.NoteOn(60, 1)
	if e.ActiveVoiceCount() != 1 {
		t.Fatalf("retrigger allocated a second voice for the same note")
	}
	if v.env.stage != stageAttack {
		t.Fatalf("retrigger should re-enter attack, stage=%d", v.env.stage)
	}
	if v.env.level != level {
		t.Fatalf("retrigger caused a level jump: %f -> %f", level, v.env.level)
	}
}

func TestRetriggerTakesNewVelocity(t *testing.T) {
	e := New(48000, DefaultParams())
	e.NoteOn(60, 0.2)
	for i := 0; i < 4800; i++ {
		e.RenderFrame()
	}
	e.NoteOff(60)
	for i := 0; i < 100; i++ {
		e.RenderFrame()
	}
	e.NoteOn(60, 0.9) // harder re-strike during the release tail
	v := e.findNote(60)
	if v == nil {
		t.Fatalf("note 60 lost across retrigger")
	}
	if v.velocity != 0.9 {
		t.Fatalf("retriggered voice kept velocity %f, want 0.9", v.velocity)
	}
}

func TestUnmappedNoteAllocatesNothing(t *testing.T) {
	e := New(48000, DefaultParams())
	for _, note := range []int{-1, 128, 500} {
		if e.NoteOn(note, 1) {
			t.Errorf("NoteOn(%d) accepted an unmapped note", note)
		}
	}
	if got := e.ActiveVoiceCount(); got != 0 {
		t.Fatalf("unmapped notes allocated %d voices", got)
	}
}

func TestWaveformsProduceOutput(t *testing.T) {
	for wf := WaveSine; wf <= WaveNoise; wf++ {
		t.Run(wf.String(), func(t *testing.T) {
			params := DefaultParams()
			params.Wave = wf
			e := New(48000, params)
			e.NoteOn(60, 1)
			var maxAbs float64
			for i := 0; i < 2000; i++ {
				if a := math.Abs(float64(e.RenderFrame())); a > maxAbs {
					maxAbs = a
				}
			}
			if maxAbs < 0.001 {
				t.Errorf("waveform %s produced no output", wf)
			}
		})
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	render := func() []float32 {
		e := New(48000, DefaultParams())
		out := make([]float32, 4000)
		e.NoteOn(60, 1)
		e.NoteOn(64, 0.8)
		for i := range out {
			if i == 2000 {
				e.NoteOff(60)
			}
			out[i] = e.RenderFrame()
		}
		return out
	}
	a, b := render(), render()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs: %f vs %f", i, a[i], b[i])
		}
	}
}

func TestVibratoChangesSignal(t *testing.T) {
	plain := New(48000, DefaultParams())
	vib := New(48000, DefaultParams())
	vib.SetPitchLFO(0.5, 6, 0)
	plain.NoteOn(69, 1)
	vib.NoteOn(69, 1)
	var differs bool
	for i := 0; i < 9600; i++ {
		if plain.RenderFrame() != vib.RenderFrame() {
			differs = true
		}
	}
	if !differs {
		t.Fatalf("pitch LFO had no effect on the signal")
	}
}
