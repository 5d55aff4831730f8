// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program and the channels it reports key actions on
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// CommandKind names a deck action
type CommandKind int

const (
	CommandPlay CommandKind = iota
	CommandStop
	CommandReset
	CommandVolume
)

func (k CommandKind) String() string {
	switch k {
	case CommandPlay:
		return "play"
	case CommandStop:
		return "stop"
	case CommandReset:
		return "reset"
	case CommandVolume:
		return "volume"
	default:
		return "unknown"
	}
}

// Command is a key action on the clip at Index
type Command struct {
	Kind   CommandKind
	Index  int
	Volume float32
}

// QuitMsg is sent when the user leaves the TUI
type QuitMsg struct{}

// Controls holds channels for deck control communication
type Controls struct {
	Commands chan Command
	Quit     chan QuitMsg
}

// NewControls creates a new control handler
func NewControls() *Controls {
	return &Controls{
		Commands: make(chan Command, 16),
		Quit:     make(chan QuitMsg, 1),
	}
}

// NewModel creates a new TUI model
func NewModel(controls *Controls) Model {
	return Model{
		backend:  "-",
		device:   "-",
		controls: controls,
	}
}

// Run creates the TUI program; the caller runs it
func Run(controls *Controls) (*tea.Program, error) {
	p := tea.NewProgram(NewModel(controls), tea.WithAltScreen())
	return p, nil
}
