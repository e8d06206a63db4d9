package session

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/keychord/keychord/pkg/smfio"
)

// defaultNamePrefix is used for auto-named captures: "Recording 1",
// "Recording 2", ...
const defaultNamePrefix = "Recording "

// Store owns all named recordings plus the single in-progress capture. One
// mutex serializes every mutation of the map, the active capture and the
// default-name counter.
type Store struct {
	mu         sync.Mutex
	recordings map[string]*Recording
	current    *Recording
	counter    int
}

// NewStore creates an empty store. The default-name counter starts at 1.
func NewStore() *Store {
	return &Store{
		recordings: make(map[string]*Recording),
		counter:    1,
	}
}

// StartRecording begins a capture session. If one is already in progress it
// is returned unchanged, so two starts without a stop share the same capture.
func (s *Store) StartRecording() *Recording {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		// Name validated by construction; the generated name is never blank.
		s.current, _ = NewRecording(defaultNamePrefix + strconv.Itoa(s.counter))
	}
	return s.current
}

// StopRecording promotes the active capture into the named set and clears it.
// A non-blank name different from the capture's default name saves a copy
// under that name without consuming the counter; otherwise the capture keeps
// its default name and the counter advances. Returns nil when nothing is
// being captured.
func (s *Store) StopRecording(name string) *Recording {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}

	saveName := strings.TrimSpace(name)
	if saveName == "" {
		saveName = s.current.Name()
	}

	if saveName != s.current.Name() {
		saved, err := NewRecordingWithEvents(saveName, s.current.Events())
		if err != nil {
			return nil
		}
		s.recordings[saveName] = saved
		s.current = nil
		return saved
	}

	saved := s.current
	s.recordings[saveName] = saved
	s.current = nil
	s.counter++
	return saved
}

// Current returns the in-progress capture, or nil when idle.
func (s *Store) Current() *Recording {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Save inserts or overwrites a recording under the given name.
func (s *Store) Save(name string, rec *Recording) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrBlankName
	}
	if rec == nil {
		return fmt.Errorf("session: recording cannot be nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordings[trimmed] = rec
	return nil
}

// Delete removes a recording by name, reporting whether one existed.
func (s *Store) Delete(name string) bool {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recordings[trimmed]; !ok {
		return false
	}
	delete(s.recordings, trimmed)
	return true
}

// Get looks up a recording by name.
func (s *Store) Get(name string) (*Recording, bool) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recordings[trimmed]
	return rec, ok
}

// List returns all recording names. Auto-named "Recording N" entries sort
// numerically and come before every other name; the rest sort
// lexicographically.
func (s *Store) List() []string {
	s.mu.Lock()
	names := make([]string, 0, len(s.recordings))
	for name := range s.recordings {
		names = append(names, name)
	}
	s.mu.Unlock()

	sort.Slice(names, func(i, j int) bool {
		ni, iok := defaultNameNumber(names[i])
		nj, jok := defaultNameNumber(names[j])
		switch {
		case iok && jok:
			return ni < nj
		case iok:
			return true
		case jok:
			return false
		default:
			return names[i] < names[j]
		}
	})
	return names
}

// defaultNameNumber extracts N from a "Recording N" name.
func defaultNameNumber(name string) (int, bool) {
	if !strings.HasPrefix(name, defaultNamePrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(name[len(defaultNamePrefix):]))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Rename moves a recording to a new name by swapping in a copy that carries
// the old events. The boolean is false when oldName is unknown; a blank or
// already-used newName is an error and leaves the store untouched.
func (s *Store) Rename(oldName, newName string) (bool, error) {
	oldTrimmed := strings.TrimSpace(oldName)
	if oldTrimmed == "" {
		return false, nil
	}
	newTrimmed := strings.TrimSpace(newName)
	if newTrimmed == "" {
		return false, ErrBlankName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.recordings[oldTrimmed]
	if !ok {
		return false, nil
	}
	if _, taken := s.recordings[newTrimmed]; taken && newTrimmed != oldTrimmed {
		return false, fmt.Errorf("session: recording %q already exists", newTrimmed)
	}

	renamed, err := NewRecordingWithEvents(newTrimmed, rec.Events())
	if err != nil {
		return false, err
	}
	s.recordings[newTrimmed] = renamed
	if newTrimmed != oldTrimmed {
		delete(s.recordings, oldTrimmed)
	}
	return true, nil
}

// ExportSMF writes a recording as a Standard MIDI File. An unknown name is an
// error; encode and write failures are wrapped with their cause.
func (s *Store) ExportSMF(name, path string) error {
	rec, ok := s.Get(name)
	if !ok {
		return fmt.Errorf("session: recording not found: %s", strings.TrimSpace(name))
	}
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("session: export path cannot be blank")
	}
	if err := smfio.WriteFile(rec.Events(), path); err != nil {
		return fmt.Errorf("session: export %q: %w", rec.Name(), err)
	}
	return nil
}
