// play_midi feeds the synthesizer from a hardware MIDI controller.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/cbegin/keysynth-go"
)

func main() {
	var (
		sampleRate = flag.Int("sample-rate", 48000, "output sample rate")
		waveName   = flag.String("wave", "sine", "waveform: sine|saw|triangle|square|pulse25|pulse12|noise")
		polyphony  = flag.Int("poly", 16, "maximum simultaneous voices")
		gain       = flag.Float64("gain", 0.35, "master gain")
		backend    = flag.String("backend", "ebiten", "audio backend: ebiten|portaudio")
		portName   = flag.String("port", "", "MIDI input port substring (empty = first available)")
		listPorts  = flag.Bool("list", false, "list MIDI input ports and exit")
	)
	flag.Parse()

	drv, err := rtmididrv.New()
	if err != nil {
		log.Fatalf("midi driver: %v", err)
	}
	defer drv.Close()

	ins, err := drv.Ins()
	if err != nil {
		log.Fatalf("list midi inputs: %v", err)
	}
	if *listPorts {
		for _, in := range ins {
			fmt.Println(in.String())
		}
		return
	}
	in, err := pickInput(ins, *portName)
	if err != nil {
		log.Fatal(err)
	}
	if err := in.Open(); err != nil {
		log.Fatalf("open %q: %v", in.String(), err)
	}
	defer in.Close()

	wave, err := keysynth.ParseWaveform(*waveName)
	if err != nil {
		log.Fatal(err)
	}
	pl, err := keysynth.NewPlayer(*sampleRate,
		keysynth.WithWaveform(wave),
		keysynth.WithPolyphony(*polyphony),
		keysynth.WithMasterGain(*gain),
		keysynth.WithBackend(*backend),
	)
	if err != nil {
		log.Fatal(err)
	}
	if err := pl.Start(); err != nil {
		log.Fatal(err)
	}
	defer pl.Stop()

	stop, err := midi.ListenTo(in, func(msg midi.Message, _ int32) {
		var ch, key, vel uint8
		switch {
		case msg.GetNoteStart(&ch, &key, &vel):
			pl.NoteOnVelocity(int(key), float64(vel)/127)
		case msg.GetNoteEnd(&ch, &key):
			pl.NoteOff(int(key))
		}
	})
	if err != nil {
		log.Fatalf("listen %q: %v", in.String(), err)
	}
	defer stop()

	log.Printf("playing from %q, ctrl-c to quit", in.String())
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
}

func pickInput(ins []drivers.In, substr string) (drivers.In, error) {
	if substr == "" {
		if len(ins) == 0 {
			return nil, fmt.Errorf("no MIDI input ports available")
		}
		return ins[0], nil
	}
	for _, in := range ins {
		if strings.Contains(strings.ToLower(in.String()), strings.ToLower(substr)) {
			return in, nil
		}
	}
	return nil, fmt.Errorf("no MIDI input matching %q", substr)
}
