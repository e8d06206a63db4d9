package synth

import (
	"fmt"
	"sync"

	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
)

// pianoChannel is MIDI channel 0. Never channel 9, which is percussion.
const pianoChannel = 0

// allNotesOffCC is MIDI controller 123.
const allNotesOffCC = 123

// Port sends notes to a named MIDI output port on channel 0.
type Port struct {
	name string

	mu   sync.Mutex
	send func(midi.Message) error
}

// OutPorts lists the names of the available MIDI output ports.
func OutPorts() []string {
	ports := midi.GetOutPorts()
	names := make([]string, 0, len(ports))
	for _, p := range ports {
		names = append(names, p.String())
	}
	return names
}

// Open connects to the MIDI output port with the given name. An empty name
// picks the first available port.
func Open(name string) (*Port, error) {
	ports := midi.GetOutPorts()
	if len(ports) == 0 {
		return nil, fmt.Errorf("synth: no MIDI output ports available")
	}

	for _, p := range ports {
		if name == "" || p.String() == name {
			send, err := midi.SendTo(p)
			if err != nil {
				return nil, fmt.Errorf("synth: failed to open port %q: %w", p.String(), err)
			}
			return &Port{name: p.String(), send: send}, nil
		}
	}
	return nil, fmt.Errorf("synth: MIDI output port not found: %s", name)
}

// Name returns the connected port's name.
func (p *Port) Name() string { return p.name }

// PlayNote sends a note-on.
func (p *Port) PlayNote(key, velocity uint8) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.send(midi.NoteOn(pianoChannel, key, velocity))
}

// StopNote sends a note-off.
func (p *Port) StopNote(key uint8) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.send(midi.NoteOff(pianoChannel, key))
}

// AllNotesOff silences the channel.
func (p *Port) AllNotesOff() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.send(midi.ControlChange(pianoChannel, allNotesOffCC, 0))
}

// Close releases the MIDI driver resources. Call once at shutdown.
func Close() {
	midi.CloseDriver()
}
