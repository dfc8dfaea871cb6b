package views

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/tallyboard/internal/tracker"
	"github.com/dori/tallyboard/internal/ui/theme"
)

// AlertMsg is a blocking-style message for the status line
type AlertMsg struct {
	Text  string
	Error bool
}

// OpenBoardMsg asks the root to show a board's detail view
type OpenBoardMsg struct {
	BoardID string
}

// ShowGalleryMsg asks the root to show the board gallery under a team filter.
// An empty Filter keeps the gallery's current filter.
type ShowGalleryMsg struct {
	Filter string
}

// StateChangedMsg tells every view the shared state was committed
type StateChangedMsg struct{}

// Backgrounds are the selectable board and team backgrounds
var Backgrounds = []string{
	"",
	"#0d6efd",
	"#6f42c1",
	"#198754",
	"#fd7e14",
	"#dc3545",
	"#20c997",
	"linear-gradient(135deg, #667eea 0%, #764ba2 100%)",
}

func alert(text string) tea.Cmd {
	return func() tea.Msg { return AlertMsg{Text: text} }
}

func alertErr(text string) tea.Cmd {
	return func() tea.Msg { return AlertMsg{Text: text, Error: true} }
}

func stateChanged() tea.Msg { return StateChangedMsg{} }

// inputErrorText maps rejected input to the message shown to the user
func inputErrorText(err error, subject string) string {
	switch {
	case errors.Is(err, tracker.ErrNameRequired):
		return "Please provide a " + subject + " name"
	case errors.Is(err, tracker.ErrInvalidTarget):
		return "Please enter a point target greater than zero."
	case errors.Is(err, tracker.ErrInsufficientPoints):
		return "Not enough points to " + subject + "."
	case errors.Is(err, tracker.ErrInvalidCost):
		return "That reward has no valid cost."
	default:
		return err.Error()
	}
}

// backgroundLabel renders a background choice as a colored swatch plus its value
func backgroundLabel(bg string) string {
	if bg == "" {
		return "none"
	}
	dot := lipgloss.NewStyle().Foreground(theme.Swatch(bg)).Render("■")
	return dot + " " + bg
}

// hints renders "k: desc • k: desc" footer hints
func hints(pairs ...string) string {
	styles := theme.Current.Styles
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, styles.HelpKey.Render(pairs[i])+styles.HelpDesc.Render(" "+pairs[i+1]))
	}
	return strings.Join(parts, styles.HelpSeparator.Render(" • "))
}

func truncate(s string, n int) string {
	if n < 4 || lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) > n-3 {
		r = r[:n-3]
	}
	return string(r) + "..."
}
