package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"urlresolver/internal/adapters/tui/styles"
)

// InputField is a labelled text input
type InputField struct {
	Label string
	Input textinput.Model
}

// NewInputField creates a new input field with the given label and placeholder
func NewInputField(label, placeholder string, charLimit int) InputField {
	input := textinput.New()
	input.Placeholder = placeholder
	if charLimit > 0 {
		input.CharLimit = charLimit
	}
	return InputField{Label: label, Input: input}
}

// InputForm manages several inputs with one focused at a time.
// FocusedField is -1 while the form is blurred.
type InputForm struct {
	Fields       []InputField
	FocusedField int
	next         key.Binding
}

// NewInputForm creates a form with the first field focused
func NewInputForm(fields ...InputField) *InputForm {
	f := &InputForm{
		Fields:       fields,
		FocusedField: -1,
		next:         key.NewBinding(key.WithKeys("tab")),
	}
	f.SetFocus(0)
	return f
}

// Init returns the blink command for the focused input
func (f *InputForm) Init() tea.Cmd {
	return textinput.Blink
}

// Update feeds msg to the focused field. It reports whether the value of
// any field changed.
func (f *InputForm) Update(msg tea.Msg) (bool, tea.Cmd) {
	if !f.Focused() {
		return false, nil
	}
	if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, f.next) {
		f.SetFocus((f.FocusedField + 1) % len(f.Fields))
		return false, nil
	}

	field := &f.Fields[f.FocusedField]
	before := field.Input.Value()
	var cmd tea.Cmd
	field.Input, cmd = field.Input.Update(msg)
	return field.Input.Value() != before, cmd
}

// Focused reports whether any field has focus
func (f *InputForm) Focused() bool {
	return f.FocusedField >= 0 && f.FocusedField < len(f.Fields)
}

// SetFocus focuses the field at index
func (f *InputForm) SetFocus(index int) {
	if index < 0 || index >= len(f.Fields) {
		return
	}
	f.Blur()
	f.FocusedField = index
	f.Fields[index].Input.Focus()
}

// Blur removes focus from every field
func (f *InputForm) Blur() {
	for i := range f.Fields {
		f.Fields[i].Input.Blur()
	}
	f.FocusedField = -1
}

// Value returns the trimmed value of a field by index
func (f *InputForm) Value(index int) string {
	if index < 0 || index >= len(f.Fields) {
		return ""
	}
	return strings.TrimSpace(f.Fields[index].Input.Value())
}

// SetValue sets the value of a field by index
func (f *InputForm) SetValue(index int, value string) {
	if index < 0 || index >= len(f.Fields) {
		return
	}
	f.Fields[index].Input.SetValue(value)
}

// RenderField renders a single field with appropriate styling
func (f *InputForm) RenderField(index int) string {
	if index < 0 || index >= len(f.Fields) {
		return ""
	}
	field := f.Fields[index]

	box := styles.InputField
	if index == f.FocusedField {
		box = styles.InputFocused
	}
	return styles.InputLabel.Render(field.Label) + "\n" + box.Render(field.Input.View())
}
