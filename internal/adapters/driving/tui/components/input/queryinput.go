// Package input provides the query input component for the TUI.
package input

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sipneat/wildfire-narratives/internal/adapters/driving/tui/styles"
)

// MaxHistory bounds the remembered queries.
const MaxHistory = 50

// QueryInput is a text input that remembers submitted queries.
// Up and Down walk the history while the input is focused.
type QueryInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int

	history []string
	// cursor indexes history; len(history) means the live draft.
	cursor int
	draft  string
}

// NewQueryInput creates a focused query input.
func NewQueryInput(s *styles.Styles) *QueryInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "e.g. small contained fires with minimal damage"
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 512
	ti.Width = 60

	return &QueryInput{
		textinput: ti,
		styles:    s,
		width:     60,
	}
}

// Init starts the cursor blink.
func (q *QueryInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key messages. Up and Down recall history.
func (q *QueryInput) Update(msg tea.Msg) (*QueryInput, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		//nolint:exhaustive // only history keys are intercepted
		switch key.Type {
		case tea.KeyUp:
			q.Prev()
			return q, nil
		case tea.KeyDown:
			q.Next()
			return q, nil
		}
	}

	var cmd tea.Cmd
	q.textinput, cmd = q.textinput.Update(msg)
	return q, cmd
}

// View renders the labelled input box.
func (q *QueryInput) View() string {
	label := q.styles.Title.Render("Query: ")
	box := q.styles.InputField.Render(q.textinput.View())
	//nolint:misspell // lipgloss.Center is the library constant
	return lipgloss.JoinHorizontal(lipgloss.Center, label, box)
}

// Value returns the trimmed input text.
func (q *QueryInput) Value() string {
	return strings.TrimSpace(q.textinput.Value())
}

// SetValue replaces the input text.
func (q *QueryInput) SetValue(value string) {
	q.textinput.SetValue(value)
	q.textinput.CursorEnd()
}

// Submit records the current value in history and returns it.
// Blank values and immediate repeats are not recorded.
func (q *QueryInput) Submit() string {
	value := q.Value()
	if value != "" && (len(q.history) == 0 || q.history[len(q.history)-1] != value) {
		q.history = append(q.history, value)
		if len(q.history) > MaxHistory {
			q.history = q.history[len(q.history)-MaxHistory:]
		}
	}
	q.cursor = len(q.history)
	q.draft = ""
	return value
}

// Prev recalls the previous query, keeping the unsent draft.
func (q *QueryInput) Prev() {
	if q.cursor == 0 {
		return
	}
	if q.cursor == len(q.history) {
		q.draft = q.textinput.Value()
	}
	q.cursor--
	q.SetValue(q.history[q.cursor])
}

// Next moves toward the most recent query and finally the draft.
func (q *QueryInput) Next() {
	if q.cursor >= len(q.history) {
		return
	}
	q.cursor++
	if q.cursor == len(q.history) {
		q.SetValue(q.draft)
		return
	}
	q.SetValue(q.history[q.cursor])
}

// History returns submitted queries, oldest first.
func (q *QueryInput) History() []string {
	return q.history
}

// Focus sets focus on the input.
func (q *QueryInput) Focus() tea.Cmd {
	return q.textinput.Focus()
}

// Blur removes focus from the input.
func (q *QueryInput) Blur() {
	q.textinput.Blur()
}

// Focused returns whether the input is focused.
func (q *QueryInput) Focused() bool {
	return q.textinput.Focused()
}

// SetWidth sets the width of the input.
func (q *QueryInput) SetWidth(width int) {
	q.width = width
	// label and border
	q.textinput.Width = max(width-14, 20)
}

// Width returns the current width.
func (q *QueryInput) Width() int {
	return q.width
}

// Reset clears the text. History is kept.
func (q *QueryInput) Reset() {
	q.textinput.Reset()
	q.cursor = len(q.history)
	q.draft = ""
}
