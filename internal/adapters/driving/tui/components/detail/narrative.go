// Package detail renders one search result's full narrative in a scrollable pane.
package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sipneat/wildfire-narratives/internal/adapters/driving/tui/components/list"
	"github.com/sipneat/wildfire-narratives/internal/adapters/driving/tui/styles"
	"github.com/sipneat/wildfire-narratives/internal/core/domain"
)

// Pane shows the full narrative and metadata of a result.
type Pane struct {
	styles   *styles.Styles
	viewport viewport.Model
	result   *domain.SearchResult
	rank     int
	width    int
	height   int
}

// NewPane creates an empty narrative pane.
func NewPane(s *styles.Styles) *Pane {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Pane{
		styles:   s,
		viewport: viewport.New(76, 10),
		width:    80,
		height:   14,
	}
}

// SetResult shows a result. rank is its zero-based position in the list.
func (p *Pane) SetResult(result *domain.SearchResult, rank int) {
	p.result = result
	p.rank = rank
	p.viewport.SetContent(p.body())
	p.viewport.GotoTop()
}

// Result returns the displayed result.
func (p *Pane) Result() *domain.SearchResult {
	return p.result
}

// Update scrolls the narrative.
func (p *Pane) Update(msg tea.Msg) (*Pane, tea.Cmd) {
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

// View renders the header and the scrollable narrative.
func (p *Pane) View() string {
	if p.result == nil {
		return p.styles.Muted.Render("No narrative selected")
	}

	r := p.result
	header := p.styles.Title.Render(fmt.Sprintf("#%d  %s", p.rank+1, list.Label(r.Narrative())))
	meta := []string{
		fmt.Sprintf("score %.3f", r.Score),
		"severity " + p.styles.Level(r.Severity()).Render(r.Severity().String()),
		"disruption " + p.styles.Level(r.Disruption()).Render(r.Disruption().String()),
	}
	if acres := r.Metadata[domain.MetaAcreage]; acres != "" {
		meta = append(meta, acres+" acres")
	}
	if src := r.SourceFile(); src != "" {
		meta = append(meta, src)
	}
	metaLine := p.styles.Muted.Render(strings.Join(meta, "  ·  "))

	scroll := p.styles.Help.Render(fmt.Sprintf("%3.0f%%", p.viewport.ScrollPercent()*100))

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		metaLine,
		"",
		p.styles.Pane.Render(p.viewport.View()),
		scroll,
	)
}

func (p *Pane) body() string {
	if p.result == nil {
		return ""
	}
	// Sentences on their own lines read better than one long paragraph.
	text := list.Body(p.result.Narrative())
	text = strings.ReplaceAll(text, ". ", ".\n")
	return lipgloss.NewStyle().Width(p.viewport.Width).Render(text)
}

// SetDimensions sizes the pane. The narrative is re-wrapped to fit.
func (p *Pane) SetDimensions(width, height int) {
	p.width = width
	p.height = height
	p.viewport.Width = max(width-4, 20)
	p.viewport.Height = max(height-6, 3)
	if p.result != nil {
		p.viewport.SetContent(p.body())
	}
}
