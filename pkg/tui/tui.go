// Package tui provides a terminal user interface for keychord
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/keychord/keychord/pkg/keymap"
	"github.com/keychord/keychord/pkg/piano"
	"github.com/keychord/keychord/pkg/player"
)

// Ivory-and-felt color scheme
var (
	ivory     = lipgloss.Color("#FFFFF0")
	feltGreen = lipgloss.Color("#2E8B57")
	brass     = lipgloss.Color("#E5C07B")
	signalRed = lipgloss.Color("#FF5555")
	darkGray  = lipgloss.Color("#333333")
	mutedGray = lipgloss.Color("#666666")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ivory).
			Background(darkGray).
			Padding(0, 2).
			MarginBottom(1)

	whiteKeyStyle = lipgloss.NewStyle().
			Foreground(darkGray).
			Background(ivory).
			Padding(0, 1)

	blackKeyStyle = lipgloss.NewStyle().
			Foreground(ivory).
			Background(darkGray).
			Padding(0, 1)

	pressedKeyStyle = lipgloss.NewStyle().
			Foreground(darkGray).
			Background(brass).
			Padding(0, 1)

	listStyle = lipgloss.NewStyle().
			Foreground(ivory).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(brass).
			Bold(true).
			PaddingLeft(2)

	recStyle = lipgloss.NewStyle().
			Foreground(signalRed).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(feltGreen).
			PaddingTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(signalRed).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			MarginTop(1)
)

// noteHold is how long a terminal key press sounds before auto-release.
// Terminals report presses only, never releases.
const noteHold = 250 * time.Millisecond

// lowerRow and upperRow define the on-screen keyboard, low note to high.
var (
	lowerRow = []rune{'q', '2', 'w', '3', 'e', 'r', '5', 't', '6', 'y', '7', 'u', 'i'}
	upperRow = []rune{'c', 'f', 'v', 'g', 'b', 'n', 'j', 'm', 'k', ',', 'l', '.', '/'}
)

// State represents the current TUI state
type State int

const (
	StatePlaying State = iota
	StateNaming
)

type (
	releaseMsg struct{ key uint8 }
	noteOnMsg  struct{ key uint8 }
	noteOffMsg struct{ key uint8 }
	tickMsg    struct{}
)

// Model represents the TUI model
type Model struct {
	model   *piano.Model
	state   State
	spinner spinner.Model
	name    textinput.Model

	pressed  map[uint8]int
	selected int
	status   string
	err      error

	// playback events arrive from the player goroutine on this channel
	playbackCh chan tea.Msg
}

// New creates a new TUI model around a piano engine.
func New(m *piano.Model) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(feltGreen)

	name := textinput.New()
	name.Placeholder = "recording name (empty for default)"
	name.CharLimit = 64
	name.Width = 40

	return Model{
		model:      m,
		state:      StatePlaying,
		spinner:    sp,
		name:       name,
		pressed:    make(map[uint8]int),
		playbackCh: make(chan tea.Msg, 64),
	}
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenPlayback(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg { return tickMsg{} })
}

// listenPlayback forwards one playback event from the player goroutine.
func (m Model) listenPlayback() tea.Cmd {
	return func() tea.Msg { return <-m.playbackCh }
}

func release(key uint8) tea.Cmd {
	return tea.Tick(noteHold, func(time.Time) tea.Msg { return releaseMsg{key} })
}

// Update handles TUI messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == StateNaming {
			return m.updateNaming(msg)
		}
		return m.updatePlaying(msg)

	case releaseMsg:
		if n := m.pressed[msg.key]; n > 0 {
			m.pressed[msg.key] = n - 1
			if m.pressed[msg.key] == 0 {
				m.model.ReleaseNote(msg.key)
			}
		}
		return m, nil

	case noteOnMsg:
		m.pressed[msg.key]++
		return m, m.listenPlayback()

	case noteOffMsg:
		if n := m.pressed[msg.key]; n > 0 {
			m.pressed[msg.key] = n - 1
		}
		return m, m.listenPlayback()

	case tickMsg:
		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) updatePlaying(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.model.Close()
		return m, tea.Quit

	case "ctrl+r":
		if m.model.IsRecording() {
			m.state = StateNaming
			m.name.SetValue("")
			m.name.Focus()
			return m, textinput.Blink
		}
		m.model.StartRecording()
		m.status = "recording started"
		return m, nil

	case "up":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case "down":
		if m.selected < len(m.model.Store().List())-1 {
			m.selected++
		}
		return m, nil

	case " ":
		return m.togglePlayback()

	case "ctrl+d":
		if name, ok := m.selectedName(); ok {
			if m.model.Store().Delete(name) {
				m.status = fmt.Sprintf("deleted %q", name)
				if m.selected > 0 {
					m.selected--
				}
			}
		}
		return m, nil

	case "ctrl+e":
		if name, ok := m.selectedName(); ok {
			path := name + ".mid"
			if err := m.model.Store().ExportSMF(name, path); err != nil {
				m.err = err
			} else {
				m.err = nil
				m.status = fmt.Sprintf("exported %s", path)
			}
		}
		return m, nil
	}

	// Anything else might be a piano key.
	if runes := msg.Runes; len(runes) == 1 {
		if key, ok := keymap.NoteFor(runes[0]); ok {
			if err := m.model.PressNote(key); err == nil {
				m.pressed[key]++
				return m, release(key)
			}
		}
	}
	return m, nil
}

func (m Model) updateNaming(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		saved := m.model.StopRecording(m.name.Value())
		m.state = StatePlaying
		m.name.Blur()
		if saved != nil {
			m.status = fmt.Sprintf("saved %q (%d events)", saved.Name(), saved.Len())
		}
		return m, nil
	case "esc":
		// Keep recording; naming was cancelled.
		m.state = StatePlaying
		m.name.Blur()
		return m, nil
	case "ctrl+c":
		m.model.Close()
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.name, cmd = m.name.Update(msg)
	return m, cmd
}

func (m Model) togglePlayback() (tea.Model, tea.Cmd) {
	if m.model.IsPlaying() {
		m.model.StopPlayback()
		m.status = "playback stopped"
		return m, nil
	}

	name, ok := m.selectedName()
	if !ok {
		m.status = "no recording selected"
		return m, nil
	}
	rec, found := m.model.Store().Get(name)
	if !found {
		m.status = "no recording selected"
		return m, nil
	}

	// The handler runs on the playback goroutine; highlight updates hop to
	// the UI through the channel, sound goes straight to the synth.
	err := m.model.PlayWith(rec, player.HandlerFuncs{
		On: func(key uint8) {
			m.model.PressNote(key)
			select {
			case m.playbackCh <- noteOnMsg{key}:
			default:
			}
		},
		Off: func(key uint8) {
			m.model.ReleaseNote(key)
			select {
			case m.playbackCh <- noteOffMsg{key}:
			default:
			}
		},
	})
	if err != nil {
		m.err = err
		return m, nil
	}
	m.err = nil
	m.status = fmt.Sprintf("playing %q", name)
	return m, nil
}

func (m Model) selectedName() (string, bool) {
	names := m.model.Store().List()
	if len(names) == 0 || m.selected >= len(names) {
		return "", false
	}
	return names[m.selected], true
}

// View renders the TUI
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("KeyChord"))
	b.WriteString("\n\n")

	b.WriteString(m.renderKeyboard(lowerRow))
	b.WriteString("\n")
	b.WriteString(m.renderKeyboard(upperRow))
	b.WriteString("\n")

	switch {
	case m.state == StateNaming:
		b.WriteString("\nSave recording as:\n")
		b.WriteString(m.name.View())
		b.WriteString("\n")
	case m.model.IsRecording():
		line := recStyle.Render("● REC")
		if elapsed, ok := m.model.Recorder().Elapsed(); ok {
			line += fmt.Sprintf("  %s", elapsed.Truncate(100*time.Millisecond))
		}
		b.WriteString("\n" + line + "\n")
	case m.model.IsPlaying():
		b.WriteString("\n" + m.spinner.View() + " playing\n")
	}

	b.WriteString(m.renderRecordings())

	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render("error: "+m.err.Error()))
	} else if m.status != "" {
		b.WriteString("\n" + statusStyle.Render(m.status))
	}

	b.WriteString("\n" + helpStyle.Render(
		"play: q-i / c-/ rows • ctrl+r record/stop • ↑/↓ select • space play/stop • ctrl+d delete • ctrl+e export • esc quit"))
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderKeyboard(row []rune) string {
	var keys []string
	for _, r := range row {
		key, ok := keymap.NoteFor(r)
		if !ok {
			continue
		}
		label := string(r)
		style := whiteKeyStyle
		if isBlackKey(key) {
			style = blackKeyStyle
		}
		if m.pressed[key] > 0 {
			style = pressedKeyStyle
		}
		keys = append(keys, style.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, keys...)
}

// isBlackKey reports whether a MIDI note is a sharp/flat.
func isBlackKey(key uint8) bool {
	switch key % 12 {
	case 1, 3, 6, 8, 10:
		return true
	}
	return false
}

func (m Model) renderRecordings() string {
	names := m.model.Store().List()
	if len(names) == 0 {
		return "\n" + listStyle.Render("(no recordings yet)") + "\n"
	}

	var b strings.Builder
	b.WriteString("\nRecordings:\n")
	for i, name := range names {
		rec, ok := m.model.Store().Get(name)
		if !ok {
			continue
		}
		line := fmt.Sprintf("%s  (%d events, %s)", name, rec.Len(), rec.Duration().Truncate(time.Millisecond))
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString(listStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Run starts the TUI program.
func Run(m *piano.Model) error {
	p := tea.NewProgram(New(m))
	_, err := p.Run()
	return err
}
