// Package list provides the ranked narrative list for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sipneat/wildfire-narratives/internal/adapters/driving/tui/styles"
	"github.com/sipneat/wildfire-narratives/internal/core/domain"
)

// linesPerResult is the rendered height of one row (title, badges, preview).
const linesPerResult = 3

// ResultList displays ranked narratives in a navigable list.
type ResultList struct {
	results  []domain.SearchResult
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &ResultList{
		styles: s,
		width:  80,
		height: 12,
	}
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		case "home", "g":
			r.selected = 0
		case "end", "G":
			if len(r.results) > 0 {
				r.selected = len(r.results) - 1
			}
		}
	}
	return r, nil
}

// View renders the visible window of results around the selection.
func (r *ResultList) View() string {
	if len(r.results) == 0 {
		return r.styles.Muted.Render("No matches")
	}

	lines := make([]string, 0, len(r.results)*linesPerResult+2)
	lines = append(lines, r.styles.Subtitle.Render(fmt.Sprintf("Matches (%d)", len(r.results))), "")

	start, end := r.window()
	for i := start; i < end; i++ {
		lines = append(lines, r.renderResult(i, &r.results[i]))
	}
	return strings.Join(lines, "\n")
}

func (r *ResultList) window() (start, end int) {
	visible := max((r.height-2)/linesPerResult, 1)
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end = min(start+visible, len(r.results))
	return start, end
}

func (r *ResultList) renderResult(index int, result *domain.SearchResult) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	title := truncate(Label(result.Narrative()), max(r.width-16, 10))
	score := fmt.Sprintf("%.3f", result.Score)

	var titleLine string
	if index == r.selected {
		titleLine = r.styles.Selected.Render(fmt.Sprintf("%s%d. %s", indicator, index+1, title)) +
			"  " + r.styles.Muted.Render(score)
	} else {
		titleLine = r.styles.Normal.Render(fmt.Sprintf("%s%d. %s", indicator, index+1, title)) +
			"  " + r.styles.Muted.Render(score)
	}

	badges := "    " +
		r.styles.Muted.Render("severity ") + r.styles.Level(result.Severity()).Render(result.Severity().String()) +
		r.styles.Muted.Render("  disruption ") + r.styles.Level(result.Disruption()).Render(result.Disruption().String())
	if src := result.SourceFile(); src != "" {
		badges += r.styles.Muted.Render("  " + src)
	}

	preview := r.styles.Muted.Render("    " + truncate(Body(result.Narrative()), max(r.width-6, 20)))

	return titleLine + "\n" + badges + "\n" + preview
}

// Label returns the bracketed event label that opens a narrative.
func Label(narrative string) string {
	if strings.HasPrefix(narrative, "[") {
		if end := strings.Index(narrative, "]"); end > 0 {
			return narrative[1:end]
		}
	}
	return "(unlabelled event)"
}

// Body returns the narrative text after its label.
func Body(narrative string) string {
	if strings.HasPrefix(narrative, "[") {
		if end := strings.Index(narrative, "]"); end > 0 {
			return strings.TrimSpace(narrative[end+1:])
		}
	}
	return narrative
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// SetResults replaces the list and selects the top match.
func (r *ResultList) SetResults(results []domain.SearchResult) {
	r.results = results
	r.selected = 0
}

// Results returns the current results.
func (r *ResultList) Results() []domain.SearchResult {
	return r.results
}

// Selected returns the index of the selected result.
func (r *ResultList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index. Out of range values are ignored.
func (r *ResultList) SetSelected(index int) {
	if index >= 0 && index < len(r.results) {
		r.selected = index
	}
}

// SelectedResult returns the currently selected result, or nil if none.
func (r *ResultList) SelectedResult() *domain.SearchResult {
	if len(r.results) == 0 {
		return nil
	}
	return &r.results[r.selected]
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.results)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of results.
func (r *ResultList) Count() int {
	return len(r.results)
}

// IsEmpty returns whether the list is empty.
func (r *ResultList) IsEmpty() bool {
	return len(r.results) == 0
}
