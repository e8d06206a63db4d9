package smfio

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/keychord/keychord/pkg/note"
)

func mustOn(t *testing.T, key uint8, offset int64) note.Event {
	t.Helper()
	ev, err := note.NewOn(key, offset)
	if err != nil {
		t.Fatalf("NewOn(%d, %d): %v", key, offset, err)
	}
	return ev
}

func mustOff(t *testing.T, key uint8, offset int64) note.Event {
	t.Helper()
	ev, err := note.NewOff(key, offset)
	if err != nil {
		t.Fatalf("NewOff(%d, %d): %v", key, offset, err)
	}
	return ev
}

func TestEncodeEmpty(t *testing.T) {
	data, err := Encode(nil)
	if err != nil {
		t.Fatalf("Encode(nil): %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Encode(nil) returned no data")
	}
	if string(data[:4]) != "MThd" {
		t.Errorf("missing MThd header, got % x", data[:4])
	}

	// The empty file must still parse as a valid SMF with one track.
	parsed, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("parsing empty export: %v", err)
	}
	if len(parsed.Tracks) != 1 {
		t.Errorf("tracks = %d, want 1", len(parsed.Tracks))
	}
}

func TestEncodeTickConversion(t *testing.T) {
	// 500ms at 120 BPM / 480 PPQ is exactly one quarter note: 480 ticks.
	events := []note.Event{
		mustOn(t, 60, 0),
		mustOff(t, 60, 500),
	}

	data, err := Encode(events)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	parsed, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("parsing export: %v", err)
	}
	mt, ok := parsed.TimeFormat.(smf.MetricTicks)
	if !ok {
		t.Fatalf("time format = %v, want metric ticks", parsed.TimeFormat)
	}
	if mt.Resolution() != TicksPerQuarter {
		t.Errorf("resolution = %d, want %d", mt.Resolution(), TicksPerQuarter)
	}

	type noteMsg struct {
		tick uint32
		key  uint8
		vel  uint8
		on   bool
	}
	var got []noteMsg
	var tick uint32
	for _, ev := range parsed.Tracks[0] {
		tick += ev.Delta
		var ch, key, vel uint8
		if ev.Message.GetNoteStart(&ch, &key, &vel) {
			got = append(got, noteMsg{tick, key, vel, true})
		} else if ev.Message.GetNoteEnd(&ch, &key) {
			got = append(got, noteMsg{tick, key, 0, false})
		}
	}

	if len(got) != 2 {
		t.Fatalf("note messages = %d, want 2", len(got))
	}
	if got[0].tick != 0 || got[0].key != 60 || !got[0].on || got[0].vel != ExportVelocity {
		t.Errorf("first message = %+v, want on key 60 vel %d at tick 0", got[0], ExportVelocity)
	}
	if got[1].tick != 480 || got[1].key != 60 || got[1].on {
		t.Errorf("second message = %+v, want off key 60 at tick 480", got[1])
	}
}

func TestEncodeSortsUnorderedInput(t *testing.T) {
	// Deliberately out of order; the encoder must not emit negative deltas.
	events := []note.Event{
		mustOff(t, 64, 500),
		mustOn(t, 64, 0),
		mustOn(t, 60, 0),
	}
	data, err := Encode(events)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := smf.ReadFrom(bytes.NewReader(data)); err != nil {
		t.Fatalf("parsing export: %v", err)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.mid")
	events := []note.Event{mustOn(t, 72, 0), mustOff(t, 72, 100)}

	if err := WriteFile(events, path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	if len(data) == 0 || string(data[:4]) != "MThd" {
		t.Error("exported file is not a MIDI file")
	}
}

func TestWriteFileBadPath(t *testing.T) {
	err := WriteFile(nil, filepath.Join(t.TempDir(), "missing", "dir", "out.mid"))
	if err == nil {
		t.Error("expected an error writing to a missing directory")
	}
}
