package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/vvka-141/airroutes/internal/config"
	"github.com/vvka-141/airroutes/internal/ui"
)

// errFieldRequired is shown when a required field is left empty.
var errFieldRequired = errors.New("this field is required")

// field is a labeled text input bound to one setting of airroutes.yaml.
type field struct {
	label    string
	input    textinput.Model
	required bool
	validate func(string) error
	apply    func(*config.ProjectConfig, string)
	err      error
}

func newField(label, placeholder, value string, apply func(*config.ProjectConfig, string)) field {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	ti.Width = 48
	ti.SetValue(value)

	return field{label: label, input: ti, apply: apply}
}

func (f field) withRequired() field {
	f.required = true
	return f
}

func (f field) withValidator(fn func(string) error) field {
	f.validate = fn
	return f
}

func (f *field) check() error {
	value := strings.TrimSpace(f.input.Value())
	switch {
	case f.required && value == "":
		f.err = errFieldRequired
	case f.validate != nil && value != "":
		f.err = f.validate(value)
	default:
		f.err = nil
	}
	return f.err
}

func (f field) view() string {
	var b strings.Builder

	label := f.label
	if f.required {
		label += ui.ErrorStyle.Render(" *")
	}
	b.WriteString(ui.MutedStyle.Render(label))
	b.WriteString("\n")
	b.WriteString(f.input.View())
	if f.err != nil {
		b.WriteString("\n")
		b.WriteString(ui.ErrorStyle.Render(f.err.Error()))
	}
	return b.String()
}

// form is an ordered group of fields with one focused at a time.
type form struct {
	title  string
	fields []field
	focus  int
}

func newForm(title string, fields ...field) form {
	return form{title: title, fields: fields}
}

func (f *form) focusFirst() tea.Cmd {
	f.focus = 0
	if len(f.fields) == 0 {
		return nil
	}
	return f.fields[0].input.Focus()
}

// next moves focus forward when the focused field is valid.
func (f *form) next() tea.Cmd {
	if f.fields[f.focus].check() != nil || f.focus == len(f.fields)-1 {
		return nil
	}
	f.fields[f.focus].input.Blur()
	f.focus++
	return f.fields[f.focus].input.Focus()
}

func (f *form) prev() tea.Cmd {
	if f.focus == 0 {
		return nil
	}
	f.fields[f.focus].input.Blur()
	f.focus--
	return f.fields[f.focus].input.Focus()
}

func (f *form) onLast() bool {
	return f.focus == len(f.fields)-1
}

// valid checks every field so all errors are shown at once.
func (f *form) valid() bool {
	ok := true
	for i := range f.fields {
		if f.fields[i].check() != nil {
			ok = false
		}
	}
	return ok
}

func (f *form) applyTo(cfg *config.ProjectConfig) {
	for _, fld := range f.fields {
		fld.apply(cfg, strings.TrimSpace(fld.input.Value()))
	}
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return cmd
}

func (f form) view() string {
	var b strings.Builder
	b.WriteString(ui.TitleStyle.Render(f.title))
	b.WriteString("\n\n")
	for i, fld := range f.fields {
		b.WriteString(fld.view())
		if i < len(f.fields)-1 {
			b.WriteString("\n\n")
		}
	}
	return b.String()
}
