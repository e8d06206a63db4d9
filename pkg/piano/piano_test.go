package piano

import (
	"sync"
	"testing"
	"time"

	"github.com/keychord/keychord/pkg/chord"
	"github.com/keychord/keychord/pkg/player"
)

// fakeSynth records every call instead of making sound.
type fakeSynth struct {
	mu      sync.Mutex
	played  []uint8
	stopped []uint8
	flushed int
}

func (f *fakeSynth) PlayNote(key, velocity uint8) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.played = append(f.played, key)
	return nil
}

func (f *fakeSynth) StopNote(key uint8) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = append(f.stopped, key)
	return nil
}

func (f *fakeSynth) AllNotesOff() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushed++
	return nil
}

func (f *fakeSynth) snapshot() ([]uint8, []uint8) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uint8(nil), f.played...), append([]uint8(nil), f.stopped...)
}

func TestPressAndReleaseSound(t *testing.T) {
	fake := &fakeSynth{}
	m := New(fake)

	if err := m.PressNote(60); err != nil {
		t.Fatalf("PressNote: %v", err)
	}
	if err := m.ReleaseNote(60); err != nil {
		t.Fatalf("ReleaseNote: %v", err)
	}

	played, stopped := fake.snapshot()
	if len(played) != 1 || played[0] != 60 {
		t.Errorf("played = %v, want [60]", played)
	}
	if len(stopped) != 1 || stopped[0] != 60 {
		t.Errorf("stopped = %v, want [60]", stopped)
	}
}

func TestPressValidation(t *testing.T) {
	m := New(nil)
	if err := m.PressNote(128); err == nil {
		t.Error("out-of-range key should fail")
	}
	if err := m.PressNoteVelocity(60, 128); err == nil {
		t.Error("out-of-range velocity should fail")
	}
	if err := m.ReleaseNote(128); err == nil {
		t.Error("out-of-range release should fail")
	}
}

func TestNotesOutsideCaptureAreNotStored(t *testing.T) {
	m := New(nil)

	m.PressNote(60)
	m.ReleaseNote(60)

	m.StartRecording()
	saved := m.StopRecording("empty take")
	if saved == nil {
		t.Fatal("StopRecording returned nil")
	}
	if saved.Len() != 0 {
		t.Errorf("events = %d, want 0; notes played before capture must not appear", saved.Len())
	}
}

func TestCaptureStoresPressedNotes(t *testing.T) {
	m := New(nil)

	m.StartRecording()
	if !m.IsRecording() {
		t.Fatal("IsRecording should be true after StartRecording")
	}

	m.PressNote(60)
	time.Sleep(10 * time.Millisecond)
	m.ReleaseNote(60)

	saved := m.StopRecording("take one")
	if m.IsRecording() {
		t.Error("IsRecording should be false after StopRecording")
	}
	if saved == nil || saved.Name() != "take one" {
		t.Fatalf("saved = %v", saved)
	}
	if saved.Len() != 2 {
		t.Fatalf("events = %d, want 2", saved.Len())
	}

	events := saved.Events()
	if !events[0].IsOn() || events[0].Key() != 60 {
		t.Errorf("first event = %v, want on 60", events[0])
	}
	if !events[1].IsOff() || events[1].Key() != 60 {
		t.Errorf("second event = %v, want off 60", events[1])
	}

	if _, ok := m.Store().Get("take one"); !ok {
		t.Error("saved recording should be in the store")
	}
}

func TestDoubleStartKeepsSession(t *testing.T) {
	m := New(nil)

	m.StartRecording()
	m.PressNote(60)
	time.Sleep(20 * time.Millisecond)

	// A second start must not restart the session or its clock.
	m.StartRecording()
	m.PressNote(64)

	saved := m.StopRecording("")
	if saved.Len() != 2 {
		t.Fatalf("events = %d, want 2", saved.Len())
	}
	events := saved.Events()
	if events[1].OffsetMs() < events[0].OffsetMs() {
		t.Error("second start must not reset the capture clock")
	}
	if events[1].OffsetMs() < 15 {
		t.Errorf("second event offset %dms suggests the clock was reset", events[1].OffsetMs())
	}
}

func TestChordCaptureSimultaneity(t *testing.T) {
	fake := &fakeSynth{}
	m := New(fake)

	m.StartRecording()
	keys, err := m.PressChord(60, chord.Major)
	if err != nil {
		t.Fatalf("PressChord: %v", err)
	}
	if len(keys) != 3 {
		t.Fatalf("chord keys = %v, want 3 notes", keys)
	}
	time.Sleep(10 * time.Millisecond)
	if _, err := m.ReleaseChord(60, chord.Major); err != nil {
		t.Fatalf("ReleaseChord: %v", err)
	}

	saved := m.StopRecording("Chord Test")
	if saved.Len() != 6 {
		t.Fatalf("events = %d, want 6", saved.Len())
	}

	events := saved.Events()
	for i := 1; i < 3; i++ {
		if events[i].OffsetMs() != events[0].OffsetMs() {
			t.Errorf("chord note %d offset %dms differs from %dms", i, events[i].OffsetMs(), events[0].OffsetMs())
		}
	}

	played, _ := fake.snapshot()
	if len(played) != 3 {
		t.Errorf("played = %v, want the 3 chord notes", played)
	}
}

func TestPlayReplaysThroughSynth(t *testing.T) {
	fake := &fakeSynth{}
	m := New(fake)

	m.StartRecording()
	m.PressNote(72)
	m.ReleaseNote(72)
	m.StopRecording("short")

	played, stopped := fake.snapshot()
	liveOns, liveOffs := len(played), len(stopped)

	if err := m.Play("short"); err != nil {
		t.Fatalf("Play: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for m.IsPlaying() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if m.IsPlaying() {
		t.Fatal("playback did not finish")
	}

	played, stopped = fake.snapshot()
	if len(played) != liveOns+1 {
		t.Errorf("playback note-ons = %d, want %d", len(played)-liveOns, 1)
	}
	if len(stopped) != liveOffs+1 {
		t.Errorf("playback note-offs = %d, want %d", len(stopped)-liveOffs, 1)
	}
}

func TestPlayUnknownName(t *testing.T) {
	m := New(nil)
	if err := m.Play("missing"); err == nil {
		t.Error("playing an unknown recording should fail")
	}
}

func TestStopPlaybackFlushesNotes(t *testing.T) {
	fake := &fakeSynth{}
	m := New(fake)

	m.StopPlayback()

	fake.mu.Lock()
	flushed := fake.flushed
	fake.mu.Unlock()
	if flushed != 1 {
		t.Errorf("AllNotesOff calls = %d, want 1", flushed)
	}
}

func TestPlayWithCustomHandler(t *testing.T) {
	m := New(nil)

	m.StartRecording()
	m.PressNote(65)
	m.ReleaseNote(65)
	rec := m.StopRecording("handled")

	var mu sync.Mutex
	var ons, offs int
	h := player.HandlerFuncs{
		On:  func(key uint8) { mu.Lock(); ons++; mu.Unlock() },
		Off: func(key uint8) { mu.Lock(); offs++; mu.Unlock() },
	}

	if err := m.PlayWith(rec, h); err != nil {
		t.Fatalf("PlayWith: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for m.IsPlaying() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	if ons != 1 || offs != 1 {
		t.Errorf("handler saw %d ons and %d offs, want 1 and 1", ons, offs)
	}
}

func TestClearCapture(t *testing.T) {
	m := New(nil)

	m.StartRecording()
	m.PressNote(60)
	m.ClearCapture()

	saved := m.StopRecording("")
	if saved.Len() != 0 {
		t.Errorf("events = %d, want 0 after ClearCapture", saved.Len())
	}
}
