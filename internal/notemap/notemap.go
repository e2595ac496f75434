// Package notemap translates key identifiers into musical pitch.
package notemap

import (
	"math"
	"strings"
)

// MIDI note range covered by the mapper.
const (
	MinNote = 0
	MaxNote = 127
)

// freqTable holds the equal-tempered frequency of every supported
// note, precomputed so Frequency costs one bounds check and one load
// on the render path.
var freqTable [MaxNote + 1]float64

func init() {
	for n := MinNote; n <= MaxNote; n++ {
		freqTable[n] = 440 * math.Pow(2, float64(n-69)/12)
	}
}

// Frequency returns the equal-tempered frequency in Hz for a MIDI
// note (A4 = 440 Hz). ok is false for notes outside 0..127; an
// unmapped note is not an error, the caller just skips the event.
func Frequency(note int) (hz float64, ok bool) {
	if note < MinNote || note > MaxNote {
		return 0, false
	}
	return freqTable[note], true
}

var letterToNote = map[byte]int{
	'c': 60, 'd': 62, 'e': 64, 'f': 65, 'g': 67, 'a': 69, 'b': 71,
}

// ParseNote converts a letter note like "c", "f#4" or "eb6" into a
// MIDI note number. The octave convention follows the original
// instrument tables: middle C is written C5, so a bare letter sits in
// octave 5 and each octave digit shifts by 12 semitones. Accidentals
// may appear before or after the octave digit. ok is false for
// malformed names or results outside the supported range.
func ParseNote(name string) (note int, ok bool) {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return 0, false
	}
	base, ok := letterToNote[name[0]]
	if !ok {
		return 0, false
	}
	note = base
	sawOctave := false
	for i := 1; i < len(name); i++ {
		switch c := name[i]; {
		case c == '#':
			note++
		case c == 'b':
			note--
		case c >= '0' && c <= '9':
			if sawOctave {
				return 0, false
			}
			sawOctave = true
			note += 12 * (int(c-'0') - 5)
		default:
			return 0, false
		}
	}
	if note < MinNote || note > MaxNote {
		return 0, false
	}
	return note, true
}

// qwertyMap lays a chromatic scale across the home row starting at
// A4, with the row above providing the sharps. Octaves follow the
// same C5-is-middle-C convention as ParseNote, so the d key plays the
// note ParseNote calls "c5".
var qwertyMap = map[string]int{
	"a": 57, // A4
	"w": 58,
	"s": 59,
	"d": 60, // C5, middle C
	"r": 61,
	"f": 62,
	"t": 63,
	"g": 64,
	"h": 65,
	"u": 66,
	"j": 67,
	"i": 68,
	"k": 69,
	"o": 70,
	"l": 71,
	";": 72, // C6
	"[": 73,
	"'": 74,
}

// KeyNote returns the MIDI note bound to a QWERTY key name. ok is
// false for keys that carry no note.
func KeyNote(key string) (note int, ok bool) {
	note, ok = qwertyMap[strings.ToLower(key)]
	return note, ok
}
