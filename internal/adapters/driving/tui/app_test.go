package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sipneat/wildfire-narratives/internal/adapters/driving/tui/messages"
	"github.com/sipneat/wildfire-narratives/internal/core/domain"
)

func TestNewApp_Success(t *testing.T) {
	app, err := NewApp(&Ports{Search: &MockSearchService{}})

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, messages.ViewSearch, app.CurrentView())
	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{})

	require.Error(t, err)
	assert.Nil(t, app)
	assert.ErrorIs(t, err, ErrMissingSearchService)
}

func TestApp_Init(t *testing.T) {
	app, err := NewApp(&Ports{Search: &MockSearchService{}, Index: &MockIndexService{}})
	require.NoError(t, err)

	assert.NotNil(t, app.Init())
}

func TestApp_LoadStats(t *testing.T) {
	index := &MockIndexService{stats: domain.IndexStats{Name: "wildfire-narratives", VectorCount: 40}}
	app, err := NewApp(&Ports{Search: &MockSearchService{}, Index: index})
	require.NoError(t, err)

	cmd := app.loadStats()
	require.NotNil(t, cmd)
	msg, ok := cmd().(messages.StatsLoaded)
	require.True(t, ok)
	assert.NoError(t, msg.Err)
	assert.Equal(t, 40, msg.Stats.VectorCount)

	app.SetDimensions(120, 40)
	app.Update(msg)
	assert.Contains(t, app.View(), "40 vectors")
}

func TestApp_LoadStats_NoIndex(t *testing.T) {
	app, err := NewApp(&Ports{Search: &MockSearchService{}})
	require.NoError(t, err)
	assert.Nil(t, app.loadStats())
}

func TestApp_WindowSize(t *testing.T) {
	app, err := NewApp(&Ports{Search: &MockSearchService{}})
	require.NoError(t, err)

	app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	assert.True(t, app.Ready())
	assert.True(t, app.SearchView().Ready())
	assert.Contains(t, app.View(), "Wildfire Narrative Search")
}

func TestApp_CtrlCQuits(t *testing.T) {
	app, err := NewApp(&Ports{Search: &MockSearchService{}})
	require.NoError(t, err)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_QuitMessage(t *testing.T) {
	app, err := NewApp(&Ports{Search: &MockSearchService{}})
	require.NoError(t, err)

	_, cmd := app.Update(messages.Quit{})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_HelpView(t *testing.T) {
	app, err := NewApp(&Ports{Search: &MockSearchService{}})
	require.NoError(t, err)
	app.SetDimensions(120, 40)

	app.Update(messages.ViewChanged{View: messages.ViewHelp})
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	view := app.View()
	assert.Contains(t, view, "Help")
	for _, q := range domain.ExampleQueries {
		assert.Contains(t, view, q)
	}

	// keys other than esc and ? are swallowed
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	assert.Equal(t, "", app.SearchView().Query())

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewSearch, app.CurrentView())
}

func TestApp_SearchRoundTrip(t *testing.T) {
	var gotCtx context.Context
	search := &MockSearchService{SearchFunc: func(ctx context.Context, q string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
		gotCtx = ctx
		assert.Equal(t, 4, opts.Limit)
		return []domain.SearchResult{{ID: "doc_0", Score: 0.9, Metadata: domain.Metadata{
			domain.MetaText: "[Creek Fire] This was a small wildfire.",
		}}}, nil
	}}
	app, err := NewApp(&Ports{Search: search, Limit: 4})
	require.NoError(t, err)

	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "tui")
	app.WithContext(ctx)
	app.SetDimensions(120, 40)

	for _, r := range "fire" {
		app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Equal(t, "tui", gotCtx.Value(ctxKey{}))
	require.Len(t, app.SearchView().Results(), 1)
	assert.Contains(t, app.View(), "Creek Fire")
}

func TestApp_ErrorMessage(t *testing.T) {
	app, err := NewApp(&Ports{Search: &MockSearchService{}})
	require.NoError(t, err)
	app.SetDimensions(120, 40)

	app.Update(messages.ErrorOccurred{Err: errors.New("embedding service down")})
	assert.Contains(t, app.View(), "embedding service down")
}
