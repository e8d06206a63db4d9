// Package player replays captured note events with real-time pacing.
package player

import (
	"errors"
	"sync"
	"time"

	"github.com/keychord/keychord/pkg/note"
)

var (
	// ErrNilSource is returned when Start is called without an event source.
	ErrNilSource = errors.New("player: event source cannot be nil")
	// ErrNilHandler is returned when Start is called without a handler.
	ErrNilHandler = errors.New("player: handler cannot be nil")
)

// Handler receives note transitions on the playback goroutine. Implementations
// must not block; any UI work has to be marshalled off this goroutine.
type Handler interface {
	NoteOn(key uint8)
	NoteOff(key uint8)
}

// EventSource provides the event sequence to replay, sorted ascending by
// offset. session.Recording satisfies this.
type EventSource interface {
	Events() []note.Event
}

// HandlerFuncs adapts two functions to the Handler interface.
type HandlerFuncs struct {
	On  func(key uint8)
	Off func(key uint8)
}

func (h HandlerFuncs) NoteOn(key uint8) {
	if h.On != nil {
		h.On(key)
	}
}

func (h HandlerFuncs) NoteOff(key uint8) {
	if h.Off != nil {
		h.Off(key)
	}
}

// Player paces one event sequence at a time on a background goroutine.
// Cancellation is cooperative: Stop clears the playing flag and the goroutine
// exits at its next check, so worst-case stop latency is one event's
// remaining sleep.
type Player struct {
	mu      sync.Mutex
	playing bool
}

// New returns a stopped Player.
func New() *Player {
	return &Player{}
}

// IsPlaying reports whether a playback goroutine is running.
func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Start snapshots the source's events and begins replaying them. Starting
// while already playing is a no-op; at most one playback goroutine exists per
// Player.
func (p *Player) Start(src EventSource, h Handler) error {
	if src == nil {
		return ErrNilSource
	}
	if h == nil {
		return ErrNilHandler
	}

	p.mu.Lock()
	if p.playing {
		p.mu.Unlock()
		return nil
	}
	p.playing = true
	p.mu.Unlock()

	go p.play(src.Events(), h)
	return nil
}

// Stop requests cancellation. The playback goroutine observes it before its
// next delivery; a sleep already in progress is allowed to finish.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = false
}

func (p *Player) play(events []note.Event, h Handler) {
	if len(events) == 0 {
		p.Stop()
		return
	}

	base := time.Now()
	for _, ev := range events {
		if !p.IsPlaying() {
			return
		}

		target := base.Add(time.Duration(ev.OffsetMs()) * time.Millisecond)
		if delay := time.Until(target); delay > 0 {
			time.Sleep(delay)
		}

		if ev.IsOn() {
			h.NoteOn(ev.Key())
		} else {
			h.NoteOff(ev.Key())
		}
	}

	p.Stop()
}
