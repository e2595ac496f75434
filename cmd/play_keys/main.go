// play_keys is a live instrument: hold keys on the QWERTY home row to
// play notes. The row above supplies the sharps, escape quits.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"sort"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/cbegin/keysynth-go"
)

const (
	windowW = 640
	windowH = 240
)

// keyBindings maps ebiten keys to the QWERTY names the note mapper
// understands.
var keyBindings = map[ebiten.Key]string{
	ebiten.KeyA:           "a",
	ebiten.KeyW:           "w",
	ebiten.KeyS:           "s",
	ebiten.KeyD:           "d",
	ebiten.KeyR:           "r",
	ebiten.KeyF:           "f",
	ebiten.KeyT:           "t",
	ebiten.KeyG:           "g",
	ebiten.KeyH:           "h",
	ebiten.KeyU:           "u",
	ebiten.KeyJ:           "j",
	ebiten.KeyI:           "i",
	ebiten.KeyK:           "k",
	ebiten.KeyO:           "o",
	ebiten.KeyL:           "l",
	ebiten.KeySemicolon:   ";",
	ebiten.KeyLeftBracket: "[",
	ebiten.KeyApostrophe:  "'",
}

type game struct {
	player *keysynth.Player
	held   map[string]bool
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	for key, name := range keyBindings {
		if inpututil.IsKeyJustPressed(key) {
			g.player.KeyDown(name)
			g.held[name] = true
		}
		if inpututil.IsKeyJustReleased(key) {
			g.player.KeyUp(name)
			delete(g.held, name)
		}
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{24, 24, 32, 255})
	keys := make([]string, 0, len(g.held))
	for k := range g.held {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msg := fmt.Sprintf(
		"keysynth  [a..' home row, esc quits]\n\nheld: %s\nvoices: %d\ndropped events: %d",
		strings.Join(keys, " "),
		g.player.ActiveVoices(),
		g.player.DroppedEvents(),
	)
	ebitenutil.DebugPrintAt(screen, msg, 12, 12)
}

func (g *game) Layout(int, int) (int, int) {
	return windowW, windowH
}

func main() {
	var (
		sampleRate = flag.Int("sample-rate", 48000, "output sample rate")
		waveName   = flag.String("wave", "sine", "waveform: sine|saw|triangle|square|pulse25|pulse12|noise")
		polyphony  = flag.Int("poly", 16, "maximum simultaneous voices")
		attack     = flag.Float64("attack", 0.01, "attack seconds")
		decay      = flag.Float64("decay", 0.12, "decay seconds")
		sustain    = flag.Float64("sustain", 0.75, "sustain level 0..1")
		release    = flag.Float64("release", 0.2, "release seconds")
		gain       = flag.Float64("gain", 0.35, "master gain")
		vibrato    = flag.Float64("vibrato", 0, "vibrato depth in semitones (0 = off)")
	)
	flag.Parse()

	wave, err := keysynth.ParseWaveform(*waveName)
	if err != nil {
		log.Fatal(err)
	}
	opts := []keysynth.PlayerOption{
		keysynth.WithWaveform(wave),
		keysynth.WithPolyphony(*polyphony),
		keysynth.WithEnvelope(*attack, *decay, *sustain, *release),
		keysynth.WithMasterGain(*gain),
	}
	if *vibrato > 0 {
		opts = append(opts, keysynth.WithVibrato(*vibrato, 5.5))
	}
	pl, err := keysynth.NewPlayer(*sampleRate, opts...)
	if err != nil {
		log.Fatal(err)
	}
	if err := pl.Start(); err != nil {
		log.Fatal(err)
	}
	defer pl.Stop()

	ebiten.SetWindowSize(windowW*2, windowH*2)
	ebiten.SetWindowTitle("keysynth")
	if err := ebiten.RunGame(&game{player: pl, held: make(map[string]bool)}); err != nil {
		log.Fatal(err)
	}
}
