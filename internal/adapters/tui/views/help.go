package views

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"urlresolver/internal/adapters/tui/styles"
)

var helpClose = key.NewBinding(
	key.WithKeys("esc", "q", "?"),
	key.WithHelp("esc/q/?", "close"),
)

// HelpModel is the model for the help view
type HelpModel struct {
	ViewState
	help help.Model
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	h := help.New()
	h.ShowAll = true
	return &HelpModel{help: h}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, helpClose) {
		return m, func() tea.Msg { return SwitchToInspectorMsg{} }
	}
	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	m.help.Width = m.Width
	v := NewViewBuilder().
		Title("URL Resolver Help").
		Subtitle("Rewrites server urls to application routes")

	v.Line(styles.InputLabel.Render("Inspector"))
	v.Line(m.help.View(inspectorHelp{keys: InspectorKeys})).BlankLine()

	v.Line(styles.InputLabel.Render("Catalog"))
	v.Line(m.help.View(CatalogKeys)).BlankLine()

	v.Line(styles.InputLabel.Render("Inputs"))
	v.Muted("  Server url : /labkey/home/experiment-showMaterial.view?rowId=1")
	v.Muted("  Legacy route: /rd/assayrun/923 or #/q/lists/12")
	v.Muted("  Outcomes   : rewritten, suppressed, no-opinion, redirect, passthrough")
	v.BlankLine()

	v.Raw(styles.HelpDesc.Render("Press ") + styles.HelpKey.Render("esc") +
		styles.HelpDesc.Render(" or ") + styles.HelpKey.Render("?") + styles.HelpDesc.Render(" to close"))
	return v.String()
}
