// ABOUTME: Bubbletea model for the clip deck TUI
// ABOUTME: Holds the clip rows, selection and key handling
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// volumeStep is the change applied by one +/- key press
const volumeStep = 0.1

// maxVolume caps the volume the TUI will request
const maxVolume = 2.0

// Row is one loaded clip as shown in the deck
type Row struct {
	Name     string
	Playing  bool
	Volume   float32
	Duration time.Duration
	Plays    int
}

// StatusMsg updates TUI state
type StatusMsg struct {
	Backend string
	Device  string
	Rows    []Row
	Err     string
}

// Model represents the TUI state
type Model struct {
	backend string
	device  string
	rows    []Row
	lastErr string

	selected int
	quitting bool

	controls *Controls

	width  int
	height int
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("220"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg)
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return "Closing clips...\n"
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Clip Deck"))
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render("Backend: "))
	b.WriteString(valueStyle.Render(m.backend))
	b.WriteString("\n")
	b.WriteString(headerStyle.Render("Device:  "))
	b.WriteString(valueStyle.Render(m.device))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(valueStyle.Render("  No clips loaded"))
		b.WriteString("\n")
	}
	for i, row := range m.rows {
		line := renderRow(row)
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString(valueStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if m.lastErr != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.lastErr))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Faint(true).Render(
		"↑/↓:Select  space:Play/Stop  r:Reset  +/-:Volume  q:Quit"))

	return b.String()
}

func renderRow(r Row) string {
	state := "■"
	if r.Playing {
		state = "▶"
	}
	return fmt.Sprintf("%s %-28s [%s] %3.0f%%  %s  plays: %d",
		state,
		truncate(r.Name, 28),
		renderBar(r.Volume, maxVolume, 10),
		r.Volume*100,
		formatDuration(r.Duration),
		r.Plays)
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		if m.controls != nil {
			select {
			case m.controls.Quit <- QuitMsg{}:
			default:
			}
		}
		return m, tea.Quit
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.rows)-1 {
			m.selected++
		}
	case " ", "space":
		if row, ok := m.current(); ok {
			if row.Playing {
				m.send(Command{Kind: CommandStop, Index: m.selected})
			} else {
				m.send(Command{Kind: CommandPlay, Index: m.selected})
			}
		}
	case "r":
		if _, ok := m.current(); ok {
			m.send(Command{Kind: CommandReset, Index: m.selected})
		}
	case "+", "=":
		m = m.nudgeVolume(volumeStep)
	case "-", "_":
		m = m.nudgeVolume(-volumeStep)
	}

	return m, nil
}

func (m Model) current() (Row, bool) {
	if m.selected < 0 || m.selected >= len(m.rows) {
		return Row{}, false
	}
	return m.rows[m.selected], true
}

// nudgeVolume updates the selected row optimistically and asks for the change
func (m Model) nudgeVolume(delta float32) Model {
	row, ok := m.current()
	if !ok {
		return m
	}
	v := row.Volume + delta
	if v < 0 {
		v = 0
	}
	if v > maxVolume {
		v = maxVolume
	}

	rows := make([]Row, len(m.rows))
	copy(rows, m.rows)
	rows[m.selected].Volume = v
	m.rows = rows

	m.send(Command{Kind: CommandVolume, Index: m.selected, Volume: v})
	return m
}

func (m Model) send(cmd Command) {
	if m.controls == nil {
		return
	}
	select {
	case m.controls.Commands <- cmd:
	default:
		// Don't block the UI if the handler is behind
	}
}

// applyStatus updates model from status message
func (m *Model) applyStatus(msg StatusMsg) {
	if msg.Backend != "" {
		m.backend = msg.Backend
	}
	if msg.Device != "" {
		m.device = msg.Device
	}
	if msg.Rows != nil {
		m.rows = msg.Rows
		if m.selected >= len(m.rows) {
			m.selected = max(len(m.rows)-1, 0)
		}
	}
	if msg.Err != "" {
		m.lastErr = msg.Err
	}
}

func renderBar(value, limit float32, width int) string {
	filled := int(value / limit * float32(width))
	filled = min(max(filled, 0), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

func truncate(s string, length int) string {
	r := []rune(s)
	if len(r) <= length {
		return s
	}
	return string(r[:length-3]) + "..."
}
