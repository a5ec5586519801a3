package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"urlresolver/internal/adapters/tui/styles"
	"urlresolver/internal/application"
	"urlresolver/internal/application/commands"
	"urlresolver/internal/domain"
)

const historySize = 8

// Inspection is what the inspector shows for one input
type Inspection struct {
	Input    string
	Route    bool // input was an application route rather than a server url
	Path     domain.PathName
	Outcome  string // rewritten, suppressed, no-opinion, redirect, passthrough or error
	URL      string
	Redirect string
	Resolver string
	Err      error
}

// Result is the text that gets copied
func (i Inspection) Result() string {
	if i.Redirect != "" {
		return i.Redirect
	}
	return i.URL
}

// Inspect runs input through the legacy route resolvers when it is an
// application route, otherwise through the url mappers
func Inspect(ctx context.Context, svc *application.Service, input, value string) Inspection {
	input = strings.TrimSpace(input)
	ins := Inspection{Input: input}
	if input == "" {
		return ins
	}

	if strings.HasPrefix(input, "#") || matchesRoute(svc, input) {
		ins.Route = true
		ins.URL = input
		redirect, err := commands.NewResolveRouteCommand(svc.Routes, input).Execute(ctx)
		ins.Resolver = redirect.Resolver
		switch {
		case err != nil:
			ins.Outcome, ins.Err = "error", err
		case redirect.Changed():
			ins.Outcome = "redirect"
			ins.Redirect = "#" + redirect.To.String()
		case redirect.Resolver != "":
			ins.Outcome = "passthrough"
		default:
			ins.Outcome = domain.ResolutionNoOpinion.String()
		}
		return ins
	}

	cmd := commands.NewInspectURLCommand(svc, input)
	cmd.Value = value
	res, err := cmd.Execute(ctx)
	if err != nil {
		ins.Outcome, ins.Err = "error", err
		return ins
	}
	ins.Path = res.Path
	ins.URL = res.URL
	ins.Outcome = res.Kind.String()
	ins.Redirect = res.Redirect
	return ins
}

func matchesRoute(svc *application.Service, path string) bool {
	for _, r := range svc.Routes.Resolvers() {
		if r.Matches(path) {
			return true
		}
	}
	return false
}

// InspectorKeyMap defines key bindings for the inspector view
type InspectorKeyMap struct {
	Copy      key.Binding
	NextField key.Binding
	Blur      key.Binding
	Edit      key.Binding
	Catalog   key.Binding
	Help      key.Binding
	Quit      key.Binding
}

var InspectorKeys = InspectorKeyMap{
	Copy: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "copy result"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
	Blur: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "stop editing"),
	),
	Edit: key.NewBinding(
		key.WithKeys("i", "/"),
		key.WithHelp("i", "edit"),
	),
	Catalog: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "catalog"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
}

// inspectorHelp adapts the key map to the current mode
type inspectorHelp struct {
	keys    InspectorKeyMap
	editing bool
}

func (h inspectorHelp) ShortHelp() []key.Binding {
	if h.editing {
		return []key.Binding{h.keys.Copy, h.keys.NextField, h.keys.Blur}
	}
	return []key.Binding{h.keys.Copy, h.keys.Edit, h.keys.Catalog, h.keys.Help, h.keys.Quit}
}

func (h inspectorHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{h.keys.Copy, h.keys.NextField, h.keys.Blur},
		{h.keys.Edit, h.keys.Catalog, h.keys.Help, h.keys.Quit},
	}
}

type copiedMsg struct {
	ins Inspection
	err error
}

// InspectorModel is the model for the url/route inspector
type InspectorModel struct {
	ViewState
	svc     *application.Service
	form    *InputForm
	help    help.Model
	keys    InspectorKeyMap
	current Inspection
	history []Inspection
	copy    func(string) error
}

// NewInspectorModel creates a new inspector view model
func NewInspectorModel(svc *application.Service) *InspectorModel {
	urlField := NewInputField("URL or route", "/labkey/home/experiment-showMaterial.view?rowId=1", 0)
	valueField := NewInputField("Cell value", "optional value the url came with", 0)

	return &InspectorModel{
		svc:  svc,
		form: NewInputForm(urlField, valueField),
		help: help.New(),
		keys: InspectorKeys,
		copy: clipboard.WriteAll,
	}
}

// Init initializes the inspector view
func (m *InspectorModel) Init() tea.Cmd {
	return m.form.Init()
}

// Current returns the inspection for the current input
func (m *InspectorModel) Current() Inspection {
	return m.current
}

// History returns copied results, newest first
func (m *InspectorModel) History() []Inspection {
	return m.history
}

// Editing reports whether an input has focus
func (m *InspectorModel) Editing() bool {
	return m.form.Focused()
}

// SetInput replaces the url field and inspects it
func (m *InspectorModel) SetInput(input string) {
	m.form.SetValue(0, input)
	m.form.SetValue(1, "")
	m.form.SetFocus(0)
	m.refresh()
}

func (m *InspectorModel) refresh() {
	m.ClearMessage()
	m.current = Inspect(context.Background(), m.svc, m.form.Value(0), m.form.Value(1))
}

// Update handles messages for the inspector view
func (m *InspectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case copiedMsg:
		if msg.err != nil {
			m.SetMessage(fmt.Sprintf("Copy failed: %v", msg.err), true)
			return m, nil
		}
		m.remember(msg.ins)
		m.SetMessage("Copied "+msg.ins.Result(), false)
		return m, nil

	case tea.KeyMsg:
		if m.form.Focused() {
			switch {
			case key.Matches(msg, m.keys.Copy):
				return m, m.copyResult()
			case key.Matches(msg, m.keys.Blur):
				m.form.Blur()
				return m, nil
			}
			changed, cmd := m.form.Update(msg)
			if changed {
				m.refresh()
			}
			return m, cmd
		}

		switch {
		case key.Matches(msg, m.keys.Copy):
			return m, m.copyResult()
		case key.Matches(msg, m.keys.Edit):
			m.form.SetFocus(0)
			return m, textinput.Blink
		case key.Matches(msg, m.keys.Catalog):
			return m, func() tea.Msg { return SwitchToCatalogMsg{} }
		case key.Matches(msg, m.keys.Help):
			return m, func() tea.Msg { return SwitchToHelpMsg{} }
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
		return m, nil
	}

	_, cmd := m.form.Update(msg)
	return m, cmd
}

func (m *InspectorModel) copyResult() tea.Cmd {
	ins := m.current
	text := ins.Result()
	if text == "" {
		m.SetMessage("Nothing to copy", true)
		return nil
	}
	copyFn := m.copy
	return func() tea.Msg {
		return copiedMsg{ins: ins, err: copyFn(text)}
	}
}

func (m *InspectorModel) remember(ins Inspection) {
	if len(m.history) > 0 && m.history[0].Result() == ins.Result() {
		return
	}
	m.history = append([]Inspection{ins}, m.history...)
	if len(m.history) > historySize {
		m.history = m.history[:historySize]
	}
}

// View renders the inspector view
func (m *InspectorModel) View() string {
	v := NewViewBuilder().
		Title("URL Resolver").
		Subtitle(fmt.Sprintf("context path %s · %d catalog entries",
			m.svc.Registry.ContextPath(), m.svc.CatalogSize()))

	v.Line(m.form.RenderField(0)).Line(m.form.RenderField(1)).BlankLine()

	if m.current.Input != "" {
		v.Line(styles.Panel.Render(m.renderInspection(m.current))).BlankLine()
	}
	v.Message(m.Message, m.MessageErr)

	if len(m.history) > 0 {
		v.Line(styles.InputLabel.Render("Copied"))
		for _, h := range m.history {
			v.Muted("  " + h.Result())
		}
		v.BlankLine()
	}

	m.help.Width = m.Width
	v.Raw(m.help.View(inspectorHelp{keys: m.keys, editing: m.form.Focused()}))
	return v.String()
}

func (m *InspectorModel) renderInspection(ins Inspection) string {
	var lines []string
	if ins.Err != nil {
		return RenderField("outcome", styles.Outcome("error")) + "\n" + styles.ErrorMsg.Render(ins.Err.Error())
	}

	if ins.Route {
		resolver := ins.Resolver
		if resolver == "" {
			resolver = "none"
		}
		lines = append(lines, RenderField("resolver", resolver))
	} else {
		lines = append(lines,
			RenderField("controller", ins.Path.Controller),
			RenderField("action", ins.Path.Action),
			RenderField("container", ins.Path.ContainerPath),
		)
	}
	lines = append(lines, RenderField("outcome", styles.Outcome(ins.Outcome)))
	if ins.URL != "" && !ins.Route {
		lines = append(lines, RenderField("url", styles.ResultURL.Render(ins.URL)))
	}
	if ins.Redirect != "" {
		lines = append(lines, RenderField("redirect", styles.ResultURL.Render(ins.Redirect)))
	}
	return strings.Join(lines, "\n")
}
