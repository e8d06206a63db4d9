// Package session implements capture timing and the store of named recordings.
package session

import (
	"sync"
	"time"

	"github.com/keychord/keychord/pkg/note"
)

// Recorder converts wall-clock time into millisecond offsets while a capture
// is running. It holds no events; stamped events belong to whichever
// Recording the caller appends them to.
type Recorder struct {
	mu        sync.Mutex
	recording bool
	start     time.Time
}

// NewRecorder returns a Recorder in the stopped state.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Start begins a capture, resetting the clock to now.
func (r *Recorder) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recording = true
	r.start = time.Now()
}

// Stop ends the capture. Calling Stop while idle is a no-op.
func (r *Recorder) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recording = false
}

// IsRecording reports whether a capture is running.
func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// NoteOn stamps a note-on event at the current capture offset. ok is false
// when no capture is running. The key must already be a valid MIDI note.
func (r *Recorder) NoteOn(key uint8) (note.Event, bool) {
	return r.stamp(key, true)
}

// NoteOff stamps a note-off event at the current capture offset.
func (r *Recorder) NoteOff(key uint8) (note.Event, bool) {
	return r.stamp(key, false)
}

func (r *Recorder) stamp(key uint8, on bool) (note.Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return note.Event{}, false
	}
	ev, err := note.New(key, time.Since(r.start).Milliseconds(), on)
	if err != nil {
		return note.Event{}, false
	}
	return ev, true
}

// ChordOn stamps one note-on event per key, all sharing a single offset
// sampled once for the whole set. Simultaneous chord notes therefore compare
// equal on time and stay grouped through any stable sort. Returns an empty
// slice when no capture is running.
func (r *Recorder) ChordOn(keys []uint8) []note.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return nil
	}
	offset := time.Since(r.start).Milliseconds()
	events := make([]note.Event, 0, len(keys))
	for _, key := range keys {
		ev, err := note.NewOn(key, offset)
		if err != nil {
			continue
		}
		events = append(events, ev)
	}
	return events
}

// Elapsed returns the time since the capture started. ok is false when idle.
func (r *Recorder) Elapsed() (time.Duration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return 0, false
	}
	return time.Since(r.start), true
}
