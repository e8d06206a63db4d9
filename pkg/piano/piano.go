// Package piano coordinates live playing, capture and playback. It composes
// the recorder, the recording store, the player and the injected synth; UI
// layers (TUI, REST API) only talk to this model.
package piano

import (
	"fmt"

	"github.com/keychord/keychord/pkg/chord"
	"github.com/keychord/keychord/pkg/player"
	"github.com/keychord/keychord/pkg/session"
	"github.com/keychord/keychord/pkg/synth"
)

// Model is the engine behind every front end. All members are individually
// thread-safe, so Model itself needs no lock.
type Model struct {
	recorder *session.Recorder
	store    *session.Store
	player   *player.Player
	synth    synth.Synth
}

// New creates a Model playing through the given synth.
func New(s synth.Synth) *Model {
	if s == nil {
		s = synth.Silent{}
	}
	return &Model{
		recorder: session.NewRecorder(),
		store:    session.NewStore(),
		player:   player.New(),
		synth:    s,
	}
}

// Store exposes the recording store for listing, rename, delete and export.
func (m *Model) Store() *session.Store { return m.store }

// Recorder exposes the capture clock, mainly for elapsed-time display.
func (m *Model) Recorder() *session.Recorder { return m.recorder }

// PressNote sounds a note and, when capturing, stamps and stores it.
func (m *Model) PressNote(key uint8) error {
	return m.PressNoteVelocity(key, synth.DefaultVelocity)
}

// PressNoteVelocity sounds a note with an explicit velocity.
func (m *Model) PressNoteVelocity(key, velocity uint8) error {
	if key > 127 {
		return fmt.Errorf("piano: key %d out of range", key)
	}
	if velocity > 127 {
		return fmt.Errorf("piano: velocity %d out of range", velocity)
	}
	if err := m.synth.PlayNote(key, velocity); err != nil {
		return err
	}
	if ev, ok := m.recorder.NoteOn(key); ok {
		if current := m.store.Current(); current != nil {
			current.Add(ev)
		}
	}
	return nil
}

// ReleaseNote silences a note and, when capturing, stamps the release.
func (m *Model) ReleaseNote(key uint8) error {
	if key > 127 {
		return fmt.Errorf("piano: key %d out of range", key)
	}
	if err := m.synth.StopNote(key); err != nil {
		return err
	}
	if ev, ok := m.recorder.NoteOff(key); ok {
		if current := m.store.Current(); current != nil {
			current.Add(ev)
		}
	}
	return nil
}

// PressChord sounds a chord built on root. All chord notes are stamped with
// one shared offset so they stay simultaneous through sorting and playback.
func (m *Model) PressChord(root uint8, q chord.Quality) ([]uint8, error) {
	keys, err := chord.Generate(root, q)
	if err != nil {
		return nil, err
	}
	for _, key := range keys {
		if err := m.synth.PlayNote(key, synth.DefaultVelocity); err != nil {
			return nil, err
		}
	}
	if events := m.recorder.ChordOn(keys); len(events) > 0 {
		if current := m.store.Current(); current != nil {
			current.AddAll(events)
		}
	}
	return keys, nil
}

// ReleaseChord silences a chord built on root, stamping each release.
func (m *Model) ReleaseChord(root uint8, q chord.Quality) ([]uint8, error) {
	keys, err := chord.Generate(root, q)
	if err != nil {
		return nil, err
	}
	for _, key := range keys {
		if err := m.ReleaseNote(key); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

// StartRecording begins a capture session. Calling it again while already
// capturing keeps the session and its clock; it does not restart either.
func (m *Model) StartRecording() {
	if m.recorder.IsRecording() {
		return
	}
	m.store.StartRecording()
	m.recorder.Start()
}

// StopRecording ends the capture and saves it, under name when given or the
// generated default otherwise. Returns nil when nothing was being captured.
func (m *Model) StopRecording(name string) *session.Recording {
	m.recorder.Stop()
	return m.store.StopRecording(name)
}

// IsRecording reports whether a capture is in progress.
func (m *Model) IsRecording() bool {
	return m.recorder.IsRecording()
}

// Play replays a stored recording through the synth.
func (m *Model) Play(name string) error {
	rec, ok := m.store.Get(name)
	if !ok {
		return fmt.Errorf("piano: recording not found: %s", name)
	}
	return m.PlayWith(rec, player.HandlerFuncs{
		On:  func(key uint8) { m.synth.PlayNote(key, synth.DefaultVelocity) },
		Off: func(key uint8) { m.synth.StopNote(key) },
	})
}

// PlayWith replays a recording through a caller-supplied handler, e.g. one
// that also drives key highlighting.
func (m *Model) PlayWith(rec *session.Recording, h player.Handler) error {
	if rec == nil {
		return player.ErrNilSource
	}
	return m.player.Start(rec, h)
}

// StopPlayback cancels playback and silences anything still sounding.
func (m *Model) StopPlayback() {
	m.player.Stop()
	m.synth.AllNotesOff()
}

// IsPlaying reports whether playback is in progress.
func (m *Model) IsPlaying() bool {
	return m.player.IsPlaying()
}

// ClearCapture discards the events of the in-progress capture, if any.
func (m *Model) ClearCapture() {
	if current := m.store.Current(); current != nil {
		current.Clear()
	}
}

// Close stops playback and silences the synth. The store needs no teardown.
func (m *Model) Close() {
	m.StopPlayback()
}
