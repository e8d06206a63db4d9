package session

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/keychord/keychord/pkg/note"
)

// ErrBlankName is returned when a recording name is empty or whitespace.
var ErrBlankName = errors.New("session: recording name cannot be blank")

// Recording is a named, append-only collection of note events. The name is
// part of the recording's identity and never changes; renaming builds a new
// Recording around the same events.
type Recording struct {
	name    string
	created time.Time

	mu     sync.Mutex
	events []note.Event
}

// NewRecording creates an empty recording. The name is trimmed and must not
// be blank.
func NewRecording(name string) (*Recording, error) {
	return NewRecordingWithEvents(name, nil)
}

// NewRecordingWithEvents creates a recording seeded with a copy of events.
func NewRecordingWithEvents(name string, events []note.Event) (*Recording, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrBlankName
	}
	r := &Recording{
		name:    trimmed,
		created: time.Now(),
	}
	if len(events) > 0 {
		r.events = append(r.events, events...)
	}
	return r, nil
}

// Name returns the recording's name.
func (r *Recording) Name() string { return r.name }

// CreatedAt returns when the recording was constructed.
func (r *Recording) CreatedAt() time.Time { return r.created }

// Add appends a single event.
func (r *Recording) Add(ev note.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// AddAll appends a batch of events, typically chord notes sharing one offset.
func (r *Recording) AddAll(events []note.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
}

// Events returns a defensive copy of the events, stably sorted ascending by
// (offset, key). Callers can never observe a half-written list or affect the
// recording through the returned slice.
func (r *Recording) Events() []note.Event {
	r.mu.Lock()
	copied := make([]note.Event, len(r.events))
	copy(copied, r.events)
	r.mu.Unlock()

	note.Sort(copied)
	return copied
}

// Clear removes all events.
func (r *Recording) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = r.events[:0]
}

// Len returns the number of events.
func (r *Recording) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// IsEmpty reports whether the recording has no events.
func (r *Recording) IsEmpty() bool {
	return r.Len() == 0
}

// Duration returns the offset of the latest event, or 0 when empty.
func (r *Recording) Duration() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return time.Duration(note.Duration(r.events)) * time.Millisecond
}
