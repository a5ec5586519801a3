package views

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"urlresolver/internal/adapters/tui/styles"
	"urlresolver/internal/application/commands"
	"urlresolver/internal/ports"
)

// CatalogKeyMap defines key bindings for the catalog view
type CatalogKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Select   key.Binding
	Back     key.Binding
}

var CatalogKeys = CatalogKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓", "down"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("ctrl+f", "pgdown"),
		key.WithHelp("ctrl+f", "next page"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("ctrl+b", "pgup"),
		key.WithHelp("ctrl+b", "prev page"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "inspect route"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
}

func (k CatalogKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Back}
}

func (k CatalogKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextPage, k.PrevPage},
		{k.Select, k.Back},
	}
}

type catalogLoadedMsg struct {
	query   string
	matches []commands.CatalogMatch
	err     error
}

// CatalogModel lists catalog entries filtered by a fuzzy query
type CatalogModel struct {
	ViewState
	store     ports.CatalogStore
	filter    textinput.Model
	spinner   spinner.Model
	help      help.Model
	keys      CatalogKeyMap
	paginator *Paginator
	matches   []commands.CatalogMatch
	loading   bool
	err       error
}

// NewCatalogModel creates a new catalog view model
func NewCatalogModel(store ports.CatalogStore) *CatalogModel {
	filter := textinput.New()
	filter.Placeholder = "filter by name, parent or id"
	filter.Prompt = "/ "

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	return &CatalogModel{
		store:     store,
		filter:    filter,
		spinner:   s,
		help:      help.New(),
		keys:      CatalogKeys,
		paginator: NewPaginator(15),
	}
}

// Init focuses the filter and loads entries
func (m *CatalogModel) Init() tea.Cmd {
	m.filter.Focus()
	m.loading = true
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.load())
}

func (m *CatalogModel) load() tea.Cmd {
	query := m.filter.Value()
	store := m.store
	return func() tea.Msg {
		matches, err := commands.NewListCatalogCommand(store, "", query).Execute(context.Background())
		return catalogLoadedMsg{query: query, matches: matches, err: err}
	}
}

// Matches returns the entries currently listed
func (m *CatalogModel) Matches() []commands.CatalogMatch {
	return m.matches
}

// Selected returns the entry under the cursor
func (m *CatalogModel) Selected() (commands.CatalogMatch, bool) {
	if len(m.matches) == 0 {
		return commands.CatalogMatch{}, false
	}
	return m.matches[m.paginator.Cursor()], true
}

// Update handles messages for the catalog view
func (m *CatalogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case catalogLoadedMsg:
		if msg.query != m.filter.Value() {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		m.matches = msg.matches
		m.paginator.SetTotal(len(m.matches))
		m.paginator.SetCursor(0)
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Up):
			m.paginator.CursorUp()
			return m, nil
		case key.Matches(msg, m.keys.Down):
			m.paginator.CursorDown()
			return m, nil
		case key.Matches(msg, m.keys.NextPage):
			m.paginator.NextPage()
			return m, nil
		case key.Matches(msg, m.keys.PrevPage):
			m.paginator.PrevPage()
			return m, nil
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return SwitchToInspectorMsg{} }
		case key.Matches(msg, m.keys.Select):
			sel, ok := m.Selected()
			if !ok {
				return m, nil
			}
			route := sel.LegacyRoute()
			return m, func() tea.Msg { return InspectRouteMsg{Route: route} }
		}
	}

	before := m.filter.Value()
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != before {
		m.loading = true
		return m, tea.Batch(cmd, m.load(), m.spinner.Tick)
	}
	return m, cmd
}

// View renders the catalog view
func (m *CatalogModel) View() string {
	v := NewViewBuilder().Title("Route Catalog")
	v.Line(m.filter.View()).BlankLine()

	switch {
	case m.err != nil:
		v.Message(m.err.Error(), true)
	case m.loading && len(m.matches) == 0:
		v.Line(m.spinner.View() + " Loading...")
	case len(m.matches) == 0:
		v.Muted("No entries. Import a catalog with urlresolve-cli catalog import.")
	default:
		start, end := m.paginator.VisibleRange()
		for i := start; i < end; i++ {
			e := m.matches[i]
			line := fmt.Sprintf("%s %6d  %-24s %s", styles.RowKind.Render(fmt.Sprintf("%-8s", e.Kind)), e.ID, e.Name, e.Parent)
			if i == m.paginator.Cursor() {
				line = styles.RowSelected.Render(fmt.Sprintf("%-8s %6d  %-24s %s", e.Kind, e.ID, e.Name, e.Parent))
			}
			v.Line(line)
		}
		v.BlankLine()
		v.Muted(fmt.Sprintf("page %d/%d · %d entries", m.paginator.CurrentPage(), m.paginator.TotalPages(), len(m.matches)))
	}

	v.BlankLine()
	m.help.Width = m.Width
	v.Raw(m.help.View(m.keys))
	return v.String()
}
