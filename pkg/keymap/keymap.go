// Package keymap maps QWERTY keyboard characters to MIDI note numbers.
package keymap

import "unicode"

// MiddleC is the MIDI note number for C4.
const MiddleC = 60

// offsets maps a keyboard rune to its semitone offset from middle C. The
// layout covers two octaves: Q-row plus number-row sharps for C3-C4, and
// C-row plus home-row sharps for C4-C5.
var offsets = map[rune]int{
	// lower octave, white keys
	'q': -12, // C3
	'w': -10, // D3
	'e': -8,  // E3
	'r': -7,  // F3
	't': -5,  // G3
	'y': -3,  // A3
	'u': -1,  // B3
	'i': 0,   // C4

	// lower octave, black keys
	'2': -11, // C#3
	'3': -9,  // D#3
	'5': -6,  // F#3
	'6': -4,  // G#3
	'7': -2,  // A#3

	// upper octave, white keys
	'c': 0,  // C4
	'v': 2,  // D4
	'b': 4,  // E4
	'n': 5,  // F4
	'm': 7,  // G4
	',': 9,  // A4
	'.': 11, // B4
	'/': 12, // C5

	// upper octave, black keys
	'f': 1,  // C#4
	'g': 3,  // D#4
	'j': 6,  // F#4
	'k': 8,  // G#4
	'l': 10, // A#4
}

// NoteFor returns the MIDI note for a keyboard rune. Mapping is
// case-insensitive; ok is false for unmapped runes.
func NoteFor(r rune) (uint8, bool) {
	offset, ok := offsets[unicode.ToLower(r)]
	if !ok {
		return 0, false
	}
	n := MiddleC + offset
	if n < 0 || n > 127 {
		return 0, false
	}
	return uint8(n), true
}

// IsMapped reports whether a keyboard rune plays a note.
func IsMapped(r rune) bool {
	_, ok := offsets[unicode.ToLower(r)]
	return ok
}
