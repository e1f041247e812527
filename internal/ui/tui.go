// ABOUTME: TUI initialization and control
// ABOUTME: Wraps bubbletea program for the recorder UI
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Action is a user request from the TUI
type Action int

const (
	ActionRecord Action = iota // start or stop recording
	ActionTranscribe
	ActionPlay
	ActionSave
	ActionClear
)

func (a Action) String() string {
	switch a {
	case ActionRecord:
		return "record"
	case ActionTranscribe:
		return "transcribe"
	case ActionPlay:
		return "play"
	case ActionSave:
		return "save"
	case ActionClear:
		return "clear"
	default:
		return "unknown"
	}
}

// QuitMsg signals that the user asked to quit
type QuitMsg struct{}

// Controls holds channels for communication from the TUI to the app
type Controls struct {
	Actions chan Action
	Quit    chan QuitMsg
}

// NewControls creates a new control handler
func NewControls() *Controls {
	return &Controls{
		Actions: make(chan Action, 10),
		Quit:    make(chan QuitMsg, 1),
	}
}

// NewModel creates a new TUI model
func NewModel(ctrl *Controls) Model {
	return Model{
		state:    "idle",
		controls: ctrl,
	}
}

// Run creates the TUI program; the caller runs it
func Run(ctrl *Controls) (*tea.Program, error) {
	p := tea.NewProgram(NewModel(ctrl), tea.WithAltScreen())
	return p, nil
}
