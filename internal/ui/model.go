// ABOUTME: Bubbletea model for recorder TUI
// ABOUTME: Defines application state and update logic
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const innerWidth = 52

// maxTranscriptLines bounds the transcript pane
const maxTranscriptLines = 8

// Model represents the TUI state
type Model struct {
	// Session
	state   string
	elapsed int
	format  string
	apiURL  string

	// Clip
	clip *ClipInfo

	// Activity
	busy       string
	warning    string
	transcript string
	saved      string

	// Dimensions
	width  int
	height int

	controls *Controls
}

// ClipInfo describes the current clip
type ClipInfo struct {
	Name      string
	MimeType  string
	Size      int
	Duration  time.Duration
	Converted bool
}

// StatusMsg updates TUI state. Zero fields are left unchanged.
type StatusMsg struct {
	State   string
	Elapsed *int
	Format  string
	APIURL  string
	Clip    *ClipInfo

	// Busy describes a running operation; Done clears it
	Busy string
	Done bool

	Warning    string
	Transcript string
	Saved      string

	// Reset drops the clip, transcript and messages
	Reset bool
}

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
	if m.width == 0 {
		return "Loading..."
	}

	s := ""
	s += m.renderHeader()
	s += m.renderClip()
	s += m.renderTranscript()
	s += m.renderHelp()

	return s
}

// renderHeader renders session state and timer
func (m Model) renderHeader() string {
	format := m.format
	if format == "" {
		format = "(not negotiated)"
	}
	api := m.apiURL
	if api == "" {
		api = "(not configured)"
	}

	s := "┌─ Scribe Recorder " + strings.Repeat("─", innerWidth-16) + "┐\n"
	s += line(fmt.Sprintf("State:  %s %s", stateIcon(m.state), m.state))
	s += line("Timer:  " + formatTimer(m.elapsed))
	s += line("Format: " + format)
	s += line("API:    " + api)
	s += separator()
	return s
}

// renderClip renders the current clip and activity
func (m Model) renderClip() string {
	s := ""
	if m.clip == nil {
		s += line("No clip")
	} else {
		kind := "original"
		if m.clip.Converted {
			kind = "converted"
		}
		s += line("Clip:   " + m.clip.Name)
		s += line(fmt.Sprintf("        %s, %s, %s (%s)",
			m.clip.MimeType, formatSize(m.clip.Size), formatDuration(m.clip.Duration), kind))
	}

	if m.busy != "" {
		s += line("⏳ " + m.busy)
	}
	if m.warning != "" {
		s += line("⚠ " + m.warning)
	}
	if m.saved != "" {
		s += line("Saved to " + m.saved)
	}
	s += separator()
	return s
}

// renderTranscript renders the wrapped transcript
func (m Model) renderTranscript() string {
	if m.transcript == "" {
		return line("No transcript") + separator()
	}

	s := line("Transcript:")
	lines := wrap(m.transcript, innerWidth-2)
	if len(lines) > maxTranscriptLines {
		lines = append(lines[:maxTranscriptLines-1], "...")
	}
	for _, l := range lines {
		s += line("  " + l)
	}
	return s + separator()
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	return line("r:Rec t:Transcribe p:Play s:Save c:Clear q:Quit") +
		"└" + strings.Repeat("─", innerWidth+2) + "┘\n"
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.controls != nil {
			select {
			case m.controls.Quit <- QuitMsg{}:
			default:
			}
		}
		return m, tea.Quit
	case "r", " ":
		m.send(ActionRecord)
	case "t":
		m.send(ActionTranscribe)
	case "p":
		m.send(ActionPlay)
	case "s":
		m.send(ActionSave)
	case "c":
		m.send(ActionClear)
	}

	return m, nil
}

// send forwards an action without blocking the UI
func (m Model) send(a Action) {
	if m.controls == nil {
		return
	}
	select {
	case m.controls.Actions <- a:
	default:
	}
}

// applyStatus updates model from status message
func (m *Model) applyStatus(msg StatusMsg) {
	if msg.Reset {
		m.clip = nil
		m.transcript = ""
		m.warning = ""
		m.saved = ""
		m.elapsed = 0
	}
	if msg.State != "" {
		m.state = msg.State
	}
	if msg.Elapsed != nil {
		m.elapsed = *msg.Elapsed
	}
	if msg.Format != "" {
		m.format = msg.Format
	}
	if msg.APIURL != "" {
		m.apiURL = msg.APIURL
	}
	if msg.Clip != nil {
		clip := *msg.Clip
		m.clip = &clip
		m.transcript = ""
		m.saved = ""
		m.warning = ""
	}
	if msg.Busy != "" {
		m.busy = msg.Busy
	}
	if msg.Done {
		m.busy = ""
	}
	if msg.Warning != "" {
		m.warning = msg.Warning
	}
	if msg.Transcript != "" {
		m.transcript = msg.Transcript
	}
	if msg.Saved != "" {
		m.saved = msg.Saved
	}
}

// Utility functions
func line(s string) string {
	return fmt.Sprintf("│ %-*s │\n", innerWidth, truncate(s, innerWidth))
}

func separator() string {
	return "├" + strings.Repeat("─", innerWidth+2) + "┤\n"
}

func stateIcon(state string) string {
	switch state {
	case "recording":
		return "●"
	case "stopping":
		return "…"
	case "finalized":
		return "✓"
	case "failed":
		return "✗"
	default:
		return "○"
	}
}

// formatTimer renders whole seconds as m:ss
func formatTimer(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "?s"
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func formatSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func truncate(s string, length int) string {
	r := []rune(s)
	if len(r) <= length {
		return s
	}
	return string(r[:length-3]) + "..."
}

// wrap splits text into lines of at most width runes on word boundaries
func wrap(text string, width int) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		cur := ""
		for _, word := range strings.Fields(para) {
			switch {
			case cur == "":
				cur = word
			case len([]rune(cur))+1+len([]rune(word)) <= width:
				cur += " " + word
			default:
				lines = append(lines, cur)
				cur = word
			}
		}
		lines = append(lines, cur)
	}
	return lines
}
