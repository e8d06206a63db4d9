// Package note defines the timestamped note event value used for capture and playback.
package note

import (
	"errors"
	"fmt"
	"sort"
)

// MaxKey is the highest valid MIDI note number.
const MaxKey = 127

var (
	// ErrKeyOutOfRange is returned when a MIDI note number is above 127.
	ErrKeyOutOfRange = errors.New("note: key must be between 0 and 127")
	// ErrNegativeOffset is returned when an event offset is negative.
	ErrNegativeOffset = errors.New("note: offset cannot be negative")
)

// Event is a single note-on or note-off occurrence at a millisecond offset
// from the start of a capture. Events are immutable values; two events are
// equal iff key, offset and direction all match.
type Event struct {
	key    uint8
	offset int64
	on     bool
}

// New creates an Event, validating the key and offset.
func New(key uint8, offsetMs int64, on bool) (Event, error) {
	if key > MaxKey {
		return Event{}, ErrKeyOutOfRange
	}
	if offsetMs < 0 {
		return Event{}, ErrNegativeOffset
	}
	return Event{key: key, offset: offsetMs, on: on}, nil
}

// NewOn creates a note-on Event.
func NewOn(key uint8, offsetMs int64) (Event, error) {
	return New(key, offsetMs, true)
}

// NewOff creates a note-off Event.
func NewOff(key uint8, offsetMs int64) (Event, error) {
	return New(key, offsetMs, false)
}

// Key returns the MIDI note number (0-127).
func (e Event) Key() uint8 { return e.key }

// OffsetMs returns the event time in milliseconds since capture start.
func (e Event) OffsetMs() int64 { return e.offset }

// IsOn reports whether this is a note-on event.
func (e Event) IsOn() bool { return e.on }

// IsOff reports whether this is a note-off event.
func (e Event) IsOff() bool { return !e.on }

func (e Event) String() string {
	dir := "off"
	if e.on {
		dir = "on"
	}
	return fmt.Sprintf("Event{key=%d, offset=%dms, %s}", e.key, e.offset, dir)
}

// Sort orders events in place, ascending by offset and then by key. The sort
// is stable so simultaneous chord notes keep their relative order.
func Sort(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].offset != events[j].offset {
			return events[i].offset < events[j].offset
		}
		return events[i].key < events[j].key
	})
}

// Duration returns the largest offset in the slice, or 0 for an empty slice.
func Duration(events []Event) int64 {
	var max int64
	for _, e := range events {
		if e.offset > max {
			max = e.offset
		}
	}
	return max
}
