package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/tallyboard/internal/app"
	"github.com/dori/tallyboard/internal/tracker"
	"github.com/dori/tallyboard/internal/ui/theme"
	"github.com/dori/tallyboard/internal/viewmodel"
)

// TeamsMode represents the current input mode
type TeamsMode int

const (
	TeamsModeNormal TeamsMode = iota
	TeamsModeNew
	TeamsModeConfirmDelete
)

const (
	teamFieldName = iota
	teamFieldMembers
	teamFieldBackground
)

// TeamsView lists teams and manages the teams document
type TeamsView struct {
	app    *app.App
	width  int
	height int

	cursor   int
	mode     TeamsMode
	form     *form
	deleteID string
}

// NewTeamsView creates a new teams view
func NewTeamsView(application *app.App) TeamsView {
	return TeamsView{app: application}
}

// Init initializes the teams view
func (v TeamsView) Init() tea.Cmd {
	return nil
}

// SetSize sets the view dimensions
func (v TeamsView) SetSize(width, height int) TeamsView {
	v.width = width
	v.height = height
	return v
}

// Update handles messages
func (v TeamsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StateChangedMsg:
		v.clampCursor()
		return v, nil

	case tea.KeyMsg:
		switch v.mode {
		case TeamsModeNew:
			return v.handleNewMode(msg)
		case TeamsModeConfirmDelete:
			return v.handleConfirmDeleteMode(msg)
		default:
			return v.handleNormalMode(msg)
		}
	}
	return v, nil
}

func (v TeamsView) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	teams, _ := viewmodel.BuildTeams(v.app.State)

	switch msg.String() {
	case "j", "down":
		if v.cursor < len(teams)-1 {
			v.cursor++
		}
	case "k", "up":
		if v.cursor > 0 {
			v.cursor--
		}
	case "a", "n":
		v.form = newForm("New team").
			text("Name", "Core Team").
			text("Members", "alex@example.com, sam@example.com").
			choice("Background", Backgrounds, backgroundLabel)
		v.mode = TeamsModeNew
		return v, v.form.start()
	case "d":
		if v.cursor < len(teams) {
			v.deleteID = teams[v.cursor].ID
			v.mode = TeamsModeConfirmDelete
		}
	case "enter":
		if v.cursor < len(teams) {
			name := teams[v.cursor].Name
			return v, func() tea.Msg { return ShowGalleryMsg{Filter: name} }
		}
	}
	return v, nil
}

func (v TeamsView) handleNewMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	result, cmd := v.form.update(msg)
	switch result {
	case formCancelled:
		v.form = nil
		v.mode = TeamsModeNormal
		return v, nil
	case formSubmitted:
		s, effect, err := tracker.CreateTeam(v.app.State,
			v.form.raw(teamFieldName),
			v.form.raw(teamFieldMembers),
			v.form.value(teamFieldBackground),
			v.app.Now())
		if err != nil {
			return v, alertErr(inputErrorText(err, "team"))
		}
		if err := v.app.Commit(s, effect); err != nil {
			return v, alertErr(err.Error())
		}
		v.form = nil
		v.mode = TeamsModeNormal
		v.cursor = 0
		return v, tea.Batch(alert(fmt.Sprintf("Team %q created", s.Teams[0].Name)), stateChanged)
	}
	return v, cmd
}

func (v TeamsView) handleConfirmDeleteMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		text := "Team deleted"
		if team := v.app.State.FindTeam(v.deleteID); team != nil {
			text = fmt.Sprintf("Team %q deleted", team.Name)
		}
		s, effect := tracker.DeleteTeam(v.app.State, v.deleteID)
		v.deleteID = ""
		v.mode = TeamsModeNormal
		if err := v.app.Commit(s, effect); err != nil {
			return v, alertErr(err.Error())
		}
		v.clampCursor()
		return v, tea.Batch(alert(text), stateChanged)
	case "n", "N", "esc":
		v.deleteID = ""
		v.mode = TeamsModeNormal
	}
	return v, nil
}

func (v *TeamsView) clampCursor() {
	if v.cursor >= len(v.app.State.Teams) {
		v.cursor = len(v.app.State.Teams) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

// View renders the teams list
func (v TeamsView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	styles := theme.Current.Styles

	if v.mode == TeamsModeNew && v.form != nil {
		return v.form.view(v.width)
	}

	teams, empty := viewmodel.BuildTeams(v.app.State)
	if len(teams) == 0 {
		return styles.Meta.Render(empty)
	}

	var lines []string
	for i, tc := range teams {
		swatch := lipgloss.NewStyle().Foreground(theme.Swatch(tc.Background)).Render("●")
		style := styles.Item
		if i == v.cursor {
			style = styles.ItemSelected
		}
		lines = append(lines, swatch+" "+style.Render(tc.Name))

		meta := styles.Meta.Render(tc.Meta)
		if v.mode == TeamsModeConfirmDelete && tc.ID == v.deleteID {
			meta = styles.Confirm.Render(fmt.Sprintf("Delete team %q? Boards keep their team name. (y/n)", tc.Name))
		}
		lines = append(lines, "  "+meta)
		if i == v.cursor && len(tc.Members) > 0 {
			lines = append(lines, "  "+styles.Label.Render(truncate(strings.Join(tc.Members, ", "), v.width-4)))
		}
	}
	return strings.Join(lines, "\n")
}

// IsInputMode returns whether the view is in input mode
func (v TeamsView) IsInputMode() bool {
	return v.mode != TeamsModeNormal
}
