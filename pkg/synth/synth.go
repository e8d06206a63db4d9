// Package synth abstracts the MIDI sound device notes are sent to.
package synth

// DefaultVelocity is the live-playing attack used when none is given.
const DefaultVelocity = 90

// Synth is the sound collaborator. The capture/playback engine receives one
// by injection and never reaches for a process-wide device, so tests can
// substitute a fake. Implementations should be cheap and non-blocking.
type Synth interface {
	PlayNote(key, velocity uint8) error
	StopNote(key uint8) error
	AllNotesOff() error
}

// Silent is a Synth that produces no sound. Used for headless serving and
// tests.
type Silent struct{}

func (Silent) PlayNote(key, velocity uint8) error { return nil }
func (Silent) StopNote(key uint8) error           { return nil }
func (Silent) AllNotesOff() error                 { return nil }
