// Package smfio encodes captured note events as Standard MIDI Files.
package smfio

import (
	"bytes"
	"fmt"
	"os"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/keychord/keychord/pkg/note"
)

const (
	// TicksPerQuarter is the export resolution.
	TicksPerQuarter = 480
	// Tempo is fixed for the tick conversion: 120 BPM means 500ms per
	// quarter note, so one millisecond is 480/500 = 0.96 ticks.
	Tempo = 120.0
	// ExportVelocity is the note-on velocity written for every event,
	// independent of live playback velocity.
	ExportVelocity = 100

	channel         = 0
	ticksPerMs      = TicksPerQuarter / 500.0
	exportUsPerBeat = 60000000 / Tempo
)

// Encode builds a single-track SMF from events. Events are re-sorted by
// (offset, key) so the running delta times never go negative. Zero events
// still produce a structurally valid file with an empty, closed track.
func Encode(events []note.Event) ([]byte, error) {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(TicksPerQuarter)

	var track smf.Track

	// Fixed 120 BPM tempo meta event (FF 51 03 ...)
	usPerBeat := uint32(exportUsPerBeat)
	track.Add(0, smf.Message([]byte{
		0xFF, 0x51, 0x03,
		byte(usPerBeat >> 16),
		byte(usPerBeat >> 8),
		byte(usPerBeat),
	}))

	sorted := make([]note.Event, len(events))
	copy(sorted, events)
	note.Sort(sorted)

	var prevTicks uint32
	for _, ev := range sorted {
		ticks := uint32(float64(ev.OffsetMs()) * ticksPerMs)
		delta := ticks - prevTicks
		prevTicks = ticks

		if ev.IsOn() {
			track.Add(delta, midi.NoteOn(channel, ev.Key(), ExportVelocity))
		} else {
			track.Add(delta, midi.NoteOff(channel, ev.Key()))
		}
	}

	track.Close(0)
	if err := s.Add(track); err != nil {
		return nil, fmt.Errorf("failed to add track: %w", err)
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write MIDI: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile encodes events and writes the result to path.
func WriteFile(events []note.Event, path string) error {
	data, err := Encode(events)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
