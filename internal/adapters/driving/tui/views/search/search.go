// Package search provides the narrative search view for the TUI.
package search

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sipneat/wildfire-narratives/internal/adapters/driving/tui/components/detail"
	"github.com/sipneat/wildfire-narratives/internal/adapters/driving/tui/components/input"
	"github.com/sipneat/wildfire-narratives/internal/adapters/driving/tui/components/list"
	"github.com/sipneat/wildfire-narratives/internal/adapters/driving/tui/components/status"
	"github.com/sipneat/wildfire-narratives/internal/adapters/driving/tui/keymap"
	"github.com/sipneat/wildfire-narratives/internal/adapters/driving/tui/messages"
	"github.com/sipneat/wildfire-narratives/internal/adapters/driving/tui/styles"
	"github.com/sipneat/wildfire-narratives/internal/core/domain"
	"github.com/sipneat/wildfire-narratives/internal/core/ports/driving"
)

// mode is which part of the view receives keys.
type mode int

const (
	modeInput mode = iota
	modeResults
	modeDetail
)

// View is the query input, ranked narrative list, detail pane and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QueryInput
	list      *list.ResultList
	pane      *detail.Pane
	statusbar *status.Bar

	searchService driving.SearchService
	limit         int
	ctx           context.Context

	width  int
	height int
	ready  bool
	err    error
	mode   mode

	// pending is the query whose results are awaited.
	pending string
}

// NewView creates a new search view. A non-positive limit uses
// domain.DefaultSearchLimit.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	searchService driving.SearchService,
	limit int,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}

	return &View{
		styles:        s,
		keymap:        km,
		input:         input.NewQueryInput(s),
		list:          list.NewResultList(s),
		pane:          detail.NewPane(s),
		statusbar:     status.NewBar(s, km),
		searchService: searchService,
		limit:         limit,
		ctx:           context.Background(),
		width:         80,
		height:        24,
		mode:          modeInput,
	}
}

// WithContext sets the context for searches.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.StatsLoaded:
		if msg.Err == nil {
			stats := msg.Stats
			v.statusbar.SetStats(&stats)
		}
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	if v.mode == modeInput {
		v.input, cmd = v.input.Update(msg)
	}
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch v.mode {
	case modeInput:
		return v.handleInputKey(msg)
	case modeDetail:
		return v.handleDetailKey(msg)
	default:
		return v.handleResultsKey(msg)
	}
}

func (v *View) handleInputKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // only submit and back are special
	switch msg.Type {
	case tea.KeyEnter:
		query := v.input.Submit()
		if query == "" {
			return v, nil
		}
		v.err = nil
		v.pending = query
		v.statusbar.SetState(status.StateSearching)
		v.statusbar.SetMessage("")
		v.input.Blur()
		v.mode = modeResults
		return v, v.performSearch(query)
	case tea.KeyEsc:
		if !v.list.IsEmpty() {
			v.input.Blur()
			v.mode = modeResults
			v.statusbar.SetState(status.StateResults)
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleResultsKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case keymap.Matches(msg.String(), v.keymap.Open):
		if r := v.list.SelectedResult(); r != nil {
			v.pane.SetResult(r, v.list.Selected())
			v.mode = modeDetail
			v.statusbar.SetState(status.StateDetail)
		}
		return v, nil
	case keymap.Matches(msg.String(), v.keymap.NewSearch), msg.Type == tea.KeyEsc:
		v.mode = modeInput
		v.input.Reset()
		v.statusbar.SetState(status.StateReady)
		return v, v.input.Focus()
	case keymap.Matches(msg.String(), v.keymap.Help):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewHelp} }
	case keymap.Matches(msg.String(), v.keymap.Quit):
		return v, func() tea.Msg { return messages.Quit{} }
	}

	v.list, _ = v.list.Update(msg)
	return v, nil
}

func (v *View) handleDetailKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc || msg.String() == "q" {
		v.mode = modeResults
		v.statusbar.SetState(status.StateResults)
		return v, nil
	}
	var cmd tea.Cmd
	v.pane, cmd = v.pane.Update(msg)
	return v, cmd
}

// performSearch runs the query off the update loop.
func (v *View) performSearch(query string) tea.Cmd {
	svc, ctx, limit := v.searchService, v.ctx, v.limit
	return func() tea.Msg {
		if svc == nil {
			return messages.ErrorOccurred{Err: ErrNoSearchService}
		}
		results, err := svc.Search(ctx, query, domain.SearchOptions{Limit: limit})
		return messages.SearchCompleted{Query: query, Results: results, Err: err}
	}
}

func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	// Results for a superseded query are dropped.
	if msg.Query != "" && msg.Query != v.pending {
		return
	}
	v.pending = ""

	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	v.err = nil
	v.list.SetResults(msg.Results)
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetMessage("")
	v.statusbar.SetResultCount(len(msg.Results))
	v.mode = modeResults
	v.input.Blur()
}

func (v *View) setError(err error) {
	v.err = err
	v.pending = ""
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
	// Back to typing so the query can be fixed.
	v.mode = modeInput
	v.input.Focus()
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections, v.styles.Title.Render("Wildfire Narrative Search"), "")

	if v.mode == modeDetail {
		sections = append(sections, v.pane.View())
	} else {
		sections = append(sections, v.input.View(), "")
		if v.err != nil {
			sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
		}
		sections = append(sections, v.list.View())
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	// header, input box and status bar
	v.list.SetDimensions(width, height-9)
	v.pane.SetDimensions(width, height-5)
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the current input text.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery sets the input text.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
}

// Results returns the current search results.
func (v *View) Results() []domain.SearchResult {
	return v.list.Results()
}

// SelectedIndex returns the index of the selected result.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the query input has focus.
func (v *View) InputFocused() bool {
	return v.mode == modeInput
}

// DetailOpen returns whether the narrative pane is showing.
func (v *View) DetailOpen() bool {
	return v.mode == modeDetail
}

// Reset clears the query and results and focuses the input.
func (v *View) Reset() {
	v.mode = modeInput
	v.input.Reset()
	v.input.Focus()
	v.list.SetResults(nil)
	v.err = nil
	v.pending = ""
	v.statusbar.Clear()
}
