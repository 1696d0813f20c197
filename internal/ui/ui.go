package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/scorefinder/internal/models"
)

// Model represents the result picker state.
type Model struct {
	results  list.Model
	selected *models.SearchResult
	width    int
	height   int
	help     help.Model
	keys     keyMap
}

// NewModel creates a picker over ranked search results.
func NewModel(title string, results []models.SearchResult) *Model {
	items := make([]list.Item, len(results))
	for i, r := range results {
		items[i] = resultItem{result: r}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = fmt.Sprintf("Notation results for '%s'", title)
	l.SetShowHelp(false)

	return &Model{
		results: l,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Selection returns the chosen result, or nil when the picker was quit
// without selecting.
func (m *Model) Selection() *models.SearchResult {
	return m.selected
}

// Init implements [tea.Model].
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.results.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.enter):
			if item, ok := m.results.SelectedItem().(resultItem); ok {
				result := item.result
				m.selected = &result
			}
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

// View renders the result list with contextual help.
func (m *Model) View() string {
	helpView := m.help.ShortHelpView(m.keys.ShortHelp())
	return fmt.Sprintf("%s\n\n%s", m.results.View(), helpView)
}

// Pick runs the picker program and returns the chosen result, or nil when the
// user quit without selecting.
func Pick(title string, results []models.SearchResult) (*models.SearchResult, error) {
	model := NewModel(title, results)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return nil, fmt.Errorf("error running picker: %w", err)
	}

	return model.Selection(), nil
}
