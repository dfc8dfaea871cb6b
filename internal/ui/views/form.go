package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/tallyboard/internal/ui/theme"
)

// formResult is what a form reports after a key press
type formResult int

const (
	formEditing formResult = iota
	formSubmitted
	formCancelled
)

// formField is either a free text input or a fixed list of choices
type formField struct {
	label   string
	input   textinput.Model
	choices []string
	choice  int
	render  func(string) string // optional choice renderer
	visible func(f *form) bool  // nil means always visible
}

// form is a small modal made of stacked fields. tab/shift+tab move between
// fields, left/right cycle choices, enter on the last field submits.
type form struct {
	title  string
	fields []*formField
	focus  int
}

func newForm(title string) *form {
	return &form{title: title}
}

func (f *form) text(label, placeholder string) *form {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	f.fields = append(f.fields, &formField{label: label, input: ti})
	return f
}

func (f *form) choice(label string, choices []string, render func(string) string) *form {
	f.fields = append(f.fields, &formField{label: label, choices: choices, render: render})
	return f
}

// when makes the most recently added field conditional
func (f *form) when(visible func(f *form) bool) *form {
	f.fields[len(f.fields)-1].visible = visible
	return f
}

func (f *form) start() tea.Cmd {
	f.focus = 0
	return f.focusCurrent()
}

// value returns the trimmed text or selected choice of field i
func (f *form) value(i int) string {
	fld := f.fields[i]
	if fld.choices != nil {
		if len(fld.choices) == 0 {
			return ""
		}
		return fld.choices[fld.choice]
	}
	return strings.TrimSpace(fld.input.Value())
}

// raw returns the untrimmed text of field i
func (f *form) raw(i int) string {
	return f.fields[i].input.Value()
}

func (f *form) isVisible(i int) bool {
	fld := f.fields[i]
	return fld.visible == nil || fld.visible(f)
}

func (f *form) focusCurrent() tea.Cmd {
	var cmd tea.Cmd
	for i, fld := range f.fields {
		if fld.choices != nil {
			continue
		}
		if i == f.focus {
			cmd = fld.input.Focus()
		} else {
			fld.input.Blur()
		}
	}
	return cmd
}

func (f *form) move(delta int) tea.Cmd {
	for next := f.focus + delta; next >= 0 && next < len(f.fields); next += delta {
		if f.isVisible(next) {
			f.focus = next
			break
		}
	}
	return f.focusCurrent()
}

func (f *form) lastVisible() int {
	for i := len(f.fields) - 1; i >= 0; i-- {
		if f.isVisible(i) {
			return i
		}
	}
	return 0
}

func (f *form) update(msg tea.KeyMsg) (formResult, tea.Cmd) {
	fld := f.fields[f.focus]

	switch msg.String() {
	case "esc":
		return formCancelled, nil
	case "enter":
		if f.focus >= f.lastVisible() {
			return formSubmitted, nil
		}
		return formEditing, f.move(1)
	case "tab", "down":
		return formEditing, f.move(1)
	case "shift+tab", "up":
		return formEditing, f.move(-1)
	}

	if fld.choices != nil {
		switch msg.String() {
		case "left", "h":
			if fld.choice > 0 {
				fld.choice--
			}
		case "right", "l", " ":
			if fld.choice < len(fld.choices)-1 {
				fld.choice++
			}
		}
		return formEditing, nil
	}

	var cmd tea.Cmd
	fld.input, cmd = fld.input.Update(msg)
	return formEditing, cmd
}

func (f *form) view(width int) string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	labelStyle := lipgloss.NewStyle().Foreground(t.Subtle).Width(14)
	activeLabel := labelStyle.Foreground(t.Primary).Bold(true)

	var lines []string
	lines = append(lines, styles.Title.Render(f.title))
	for i, fld := range f.fields {
		if !f.isVisible(i) {
			continue
		}
		ls := labelStyle
		if i == f.focus {
			ls = activeLabel
		}

		var value string
		if fld.choices != nil {
			current := ""
			if len(fld.choices) > 0 {
				current = fld.choices[fld.choice]
			}
			if fld.render != nil {
				current = fld.render(current)
			}
			value = fmt.Sprintf("◀ %s ▶", current)
		} else {
			value = fld.input.View()
		}
		lines = append(lines, ls.Render(fld.label)+value)
	}
	lines = append(lines, "", hints("tab", "next", "←/→", "choose", "enter", "save", "esc", "cancel"))

	w := width - 4
	if w < 30 {
		w = 30
	}
	return styles.InputFocused.Width(w).Render(strings.Join(lines, "\n"))
}
