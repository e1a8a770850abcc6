// Package tui renders the portal in a terminal. It drives one navigation
// State with the keyboard and redraws from the resolved bundle.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mr1hm/go-disaster-hub/internal/catalog"
	"github.com/mr1hm/go-disaster-hub/internal/content"
	"github.com/mr1hm/go-disaster-hub/internal/models"
	"github.com/mr1hm/go-disaster-hub/internal/navigation"
)

const (
	defaultWidth  = 100
	defaultHeight = 30
)

type Model struct {
	cat      *catalog.Catalog
	resolver *content.Resolver
	state    *navigation.State

	// unsubscribe detaches the model from state. Nil once detached.
	unsubscribe func()

	keys     KeyMap
	help     help.Model
	viewport viewport.Model

	width  int
	height int

	// stale is set by the state observer and cleared once the body is re-rendered.
	stale bool
}

// New builds a model over state. The caller keeps ownership of state and
// may observe it; the model only navigates it.
func New(cat *catalog.Catalog, state *navigation.State) *Model {
	m := &Model{
		cat:      cat,
		resolver: content.NewResolver(cat),
		state:    state,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		viewport: viewport.New(defaultWidth, defaultHeight),
		width:    defaultWidth,
		height:   defaultHeight,
		stale:    true,
	}
	m.unsubscribe = state.Subscribe(func(navigation.Change) { m.stale = true })
	m.layout()
	return m
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.stale = true
		m.layout()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.ForceQuit):
			m.detach()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.state.NavigateTo(navigation.Neighbour(m.cat.Navigation, m.state.Current(), 1))
		case key.Matches(msg, m.keys.Prev):
			m.state.NavigateTo(navigation.Neighbour(m.cat.Navigation, m.state.Current(), -1))
		case key.Matches(msg, m.keys.Jump):
			if i, ok := jumpIndex(msg.String()); ok && i < len(m.cat.Navigation) {
				m.state.NavigateTo(m.cat.Navigation[i].ID)
			}
		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		m.layout()
		return m, nil
	}

	return m, nil
}

func (m *Model) View() string {
	if m.stale {
		// The state was navigated by someone else since the last update.
		m.layout()
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		footerStyle.Render(m.cat.Footer),
		m.help.View(m.keys),
	)
}

// detach stops following state. The caller may keep navigating it.
func (m *Model) detach() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// Current reports the page the model shows.
func (m *Model) Current() models.PageID {
	return m.state.Current()
}

// layout sizes the viewport and, when the page or width changed, refills it
// from a freshly resolved bundle.
func (m *Model) layout() {
	header := lipgloss.Height(m.renderHeader())
	bodyHeight := m.height - header - 2
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	m.viewport.Width = m.width
	m.viewport.Height = bodyHeight
	m.help.Width = m.width

	if m.stale {
		m.viewport.SetContent(renderBundle(m.resolver.Resolve(m.state.Current()), m.width))
		m.viewport.GotoTop()
		m.stale = false
	}
}

func (m *Model) renderHeader() string {
	menu := navigation.BuildMenu(m.cat.Navigation, m.state.Current())

	items := make([]string, 0, len(menu))
	for _, entry := range menu {
		if entry.Selected {
			items = append(items, selectedMenuItemStyle.Render(entry.Label))
		} else {
			items = append(items, menuItemStyle.Render(entry.Label))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		brandStyle.Render(m.cat.Brand),
		wrapItems(items, m.width),
	)
}

// wrapItems lays rendered menu items out in rows no wider than width.
func wrapItems(items []string, width int) string {
	var (
		rows []string
		row  []string
		used int
	)
	for _, item := range items {
		w := lipgloss.Width(item)
		if used > 0 && used+w > width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row, used = nil, 0
		}
		row = append(row, item)
		used += w
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return strings.Join(rows, "\n")
}
