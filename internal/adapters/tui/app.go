package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"urlresolver/internal/adapters/tui/views"
	"urlresolver/internal/application"
	"urlresolver/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewInspector ViewState = iota
	ViewCatalog
	ViewHelp
)

// App is the main TUI application model
type App struct {
	state     ViewState
	inspector *views.InspectorModel
	catalog   *views.CatalogModel
	help      *views.HelpModel
}

// NewApp creates a new TUI application
func NewApp(svc *application.Service, store ports.CatalogStore) *App {
	return &App{
		state:     ViewInspector,
		inspector: views.NewInspectorModel(svc),
		catalog:   views.NewCatalogModel(store),
		help:      views.NewHelpModel(),
	}
}

// State returns the active view
func (a *App) State() ViewState {
	return a.state
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.inspector.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.inspector.SetSize(msg.Width, msg.Height)
		a.catalog.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}

	case views.SwitchToInspectorMsg:
		a.state = ViewInspector
		return a, nil

	case views.SwitchToCatalogMsg:
		a.state = ViewCatalog
		return a, a.catalog.Init()

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.InspectRouteMsg:
		a.state = ViewInspector
		a.inspector.SetInput(msg.Route)
		return a, a.inspector.Init()
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewInspector:
		_, cmd = a.inspector.Update(msg)
	case ViewCatalog:
		_, cmd = a.catalog.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}
	return a, cmd
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewCatalog:
		return a.catalog.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.inspector.View()
	}
}
