// play_scale runs a scripted scale through the live engine, either to
// the audio device or to a WAV file with -wav.
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/cbegin/keysynth-go"
)

// One octave of C major starting at middle C.
var scale = []string{"c5", "d5", "e5", "f5", "g5", "a5", "b5", "c6"}

const maxHeld = 4

func main() {
	var (
		sampleRate = flag.Int("sample-rate", 48000, "output sample rate")
		waveName   = flag.String("wave", "saw", "waveform: sine|saw|triangle|square|pulse25|pulse12|noise")
		gain       = flag.Float64("gain", 0.35, "master gain")
		backend    = flag.String("backend", "ebiten", "audio backend: ebiten|portaudio")
		noteMs     = flag.Int("note-ms", 400, "delay between notes in milliseconds")
		wavPath    = flag.String("wav", "", "render to a WAV file instead of the audio device")
	)
	flag.Parse()

	wave, err := keysynth.ParseWaveform(*waveName)
	if err != nil {
		log.Fatal(err)
	}
	notes, err := parseScale(scale)
	if err != nil {
		log.Fatal(err)
	}
	opts := []keysynth.PlayerOption{
		keysynth.WithWaveform(wave),
		keysynth.WithMasterGain(*gain),
		keysynth.WithBackend(*backend),
	}

	if *wavPath != "" {
		renderToFile(notes, *sampleRate, *noteMs, *wavPath, opts)
		return
	}

	pl, err := keysynth.NewPlayer(*sampleRate, opts...)
	if err != nil {
		log.Fatal(err)
	}
	if err := pl.Start(); err != nil {
		log.Fatal(err)
	}
	defer pl.Stop()

	delay := time.Duration(*noteMs) * time.Millisecond
	var held []int
	for _, note := range notes {
		if len(held) == maxHeld {
			pl.NoteOff(held[0])
			held = held[1:]
		}
		pl.NoteOn(note)
		held = append(held, note)
		time.Sleep(delay)
	}
	for _, note := range held {
		time.Sleep(delay)
		pl.NoteOff(note)
	}
	time.Sleep(time.Second) // let the last release tail ring out
}

func renderToFile(notes []int, sampleRate, noteMs int, path string, opts []keysynth.PlayerOption) {
	framesPerNote := sampleRate * noteMs / 1000
	var events []keysynth.TimedEvent
	var held []keysynth.TimedEvent
	frame := 0
	for _, note := range notes {
		if len(held) == maxHeld {
			events = append(events, keysynth.TimedEvent{AtFrame: frame, Note: held[0].Note, Kind: keysynth.Release})
			held = held[1:]
		}
		press := keysynth.TimedEvent{AtFrame: frame, Note: note, Kind: keysynth.Press}
		events = append(events, press)
		held = append(held, press)
		frame += framesPerNote
	}
	for _, press := range held {
		frame += framesPerNote
		events = append(events, keysynth.TimedEvent{AtFrame: frame, Note: press.Note, Kind: keysynth.Release})
	}
	seconds := float64(frame)/float64(sampleRate) + 1
	samples := keysynth.RenderEvents(events, sampleRate, seconds, opts...)
	wav := keysynth.EncodeWAVFloat32LE(samples, sampleRate, 2)
	if err := os.WriteFile(path, wav, 0o644); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s (%.1fs)", path, seconds)
}

func parseScale(names []string) ([]int, error) {
	notes := make([]int, 0, len(names))
	for _, name := range names {
		note, err := keysynth.ParseNote(name)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, nil
}
