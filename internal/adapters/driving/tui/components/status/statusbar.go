// Package status provides the status bar component for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sipneat/wildfire-narratives/internal/adapters/driving/tui/keymap"
	"github.com/sipneat/wildfire-narratives/internal/adapters/driving/tui/styles"
	"github.com/sipneat/wildfire-narratives/internal/core/domain"
)

// State represents the current application state for display.
type State string

const (
	StateReady     State = "ready"
	StateSearching State = "searching"
	StateError     State = "error"
	StateResults   State = "results"
	StateDetail    State = "detail"
)

// Bar displays search state, index size and keybinding hints.
type Bar struct {
	styles      *styles.Styles
	keymap      *keymap.KeyMap
	state       State
	message     string
	resultCount int
	stats       *domain.IndexStats
	width       int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update is a no-op; the bar is driven through its setters.
func (s *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := max(s.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return s.styles.StatusBar.Width(s.width).Render(left + strings.Repeat(" ", padding) + right)
}

func (s *Bar) renderLeft() string {
	var state string
	switch s.state {
	case StateSearching:
		state = s.styles.Muted.Render("Searching...")
	case StateError:
		if s.message != "" {
			state = s.styles.Error.Render("Error: " + s.message)
		} else {
			state = s.styles.Error.Render("Error")
		}
	case StateResults, StateDetail:
		state = s.styles.Normal.Render(fmt.Sprintf("%d matches", s.resultCount))
	default:
		state = s.styles.Muted.Render("Ready")
	}
	if s.state != StateError && s.message != "" {
		state += s.styles.Muted.Render("  " + s.message)
	}

	if s.stats == nil {
		return state
	}
	index := fmt.Sprintf("%s · %d vectors", s.stats.Name, s.stats.VectorCount)
	if !s.stats.Populated() {
		index = s.stats.Name + " · empty, run `wildfire index`"
	}
	return state + s.styles.Muted.Render("  |  "+index)
}

func (s *Bar) renderRight() string {
	var bindings []key.Binding
	switch s.state {
	case StateResults:
		bindings = s.keymap.ResultsHelp()
	case StateDetail:
		bindings = s.keymap.DetailHelp()
	default:
		bindings = s.keymap.InputHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, h.Key+": "+h.Desc)
	}
	return s.styles.Help.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a message shown next to the state.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetResultCount sets the result count.
func (s *Bar) SetResultCount(count int) {
	s.resultCount = count
}

// ResultCount returns the current result count.
func (s *Bar) ResultCount() int {
	return s.resultCount
}

// SetStats records the index state. Nil hides it.
func (s *Bar) SetStats(stats *domain.IndexStats) {
	s.stats = stats
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Clear resets state and message. Index stats are kept.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.resultCount = 0
}
