package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sipneat/wildfire-narratives/internal/adapters/driving/tui/keymap"
	"github.com/sipneat/wildfire-narratives/internal/adapters/driving/tui/messages"
	"github.com/sipneat/wildfire-narratives/internal/adapters/driving/tui/styles"
	"github.com/sipneat/wildfire-narratives/internal/adapters/driving/tui/views/search"
	"github.com/sipneat/wildfire-narratives/internal/core/domain"
)

// App is the root Bubbletea model.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	searchView  *search.View
	currentView messages.ViewType

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		searchView:  search.NewView(s, km, ports.Search, ports.Limit),
		currentView: messages.ViewSearch,
	}, nil
}

// WithContext sets the context for searches and stats lookups.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.searchView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("wildfire - narrative search"),
		a.searchView.Init(),
		a.loadStats(),
	)
}

func (a *App) loadStats() tea.Cmd {
	if a.ports.Index == nil {
		return nil
	}
	index, ctx := a.ports.Index, a.ctx
	return func() tea.Msg {
		stats, err := index.Stats(ctx)
		return messages.StatsLoaded{Stats: stats, Err: err}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.currentView == messages.ViewHelp {
			if msg.Type == tea.KeyEsc || keymap.Matches(msg.String(), a.keymap.Help) {
				a.currentView = messages.ViewSearch
			}
			return a, nil
		}
		a.searchView, cmd = a.searchView.Update(msg)
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	a.searchView, cmd = a.searchView.Update(msg)
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}
	if a.currentView == messages.ViewHelp {
		return a.viewHelp()
	}
	return a.searchView.View()
}

func (a *App) viewHelp() string {
	lines := []string{a.styles.Title.Render("Help"), ""}
	for _, group := range a.keymap.FullHelp() {
		for _, b := range group {
			h := b.Help()
			lines = append(lines, fmt.Sprintf("  %-10s %s", h.Key, h.Desc))
		}
		lines = append(lines, "")
	}
	lines = append(lines, a.styles.Subtitle.Render("Try"), "")
	for _, q := range domain.ExampleQueries {
		lines = append(lines, "  "+q)
	}
	lines = append(lines, "", a.styles.Help.Render("[esc] back to search"))
	return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(lines, "\n"))
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// SearchView returns the search view.
func (a *App) SearchView() *search.View {
	return a.searchView
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.searchView.SetDimensions(width, height)
}
