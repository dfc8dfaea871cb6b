package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/tallyboard/internal/app"
	"github.com/dori/tallyboard/internal/tracker"
	"github.com/dori/tallyboard/internal/ui/theme"
	"github.com/dori/tallyboard/internal/viewmodel"
)

// GalleryMode represents the current input mode
type GalleryMode int

const (
	GalleryModeNormal GalleryMode = iota
	GalleryModeNew
	GalleryModeSearch
	GalleryModeConfirmDelete
)

// searchTickMsg fires when the search debounce timer runs out
type searchTickMsg struct {
	seq int
}

// Fields of the new board form
const (
	boardFieldName = iota
	boardFieldTeam
	boardFieldOther
	boardFieldBackground
)

// GalleryView is the board dashboard: team filters, search and board cards
type GalleryView struct {
	app    *app.App
	width  int
	height int

	filter string
	cursor int

	mode GalleryMode
	form *form

	// Search state. searchSeq identifies the only timer allowed to apply.
	search    textinput.Model
	searchSeq int
	query     string
	results   *viewmodel.Gallery

	deleteID string
}

// NewGalleryView creates a new gallery view
func NewGalleryView(application *app.App) GalleryView {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search boards or teams"
	ti.CharLimit = 128

	return GalleryView{
		app:    application,
		filter: viewmodel.FilterAll,
		search: ti,
	}
}

// Init initializes the gallery view
func (v GalleryView) Init() tea.Cmd {
	return nil
}

// SetSize sets the view dimensions
func (v GalleryView) SetSize(width, height int) GalleryView {
	v.width = width
	v.height = height
	return v
}

// SetFilter shows the gallery for one team, dropping any active search
func (v GalleryView) SetFilter(filter string) GalleryView {
	if filter == "" {
		return v
	}
	v.filter = filter
	v.clearSearch()
	v.cursor = 0
	return v
}

// Filter returns the active team filter
func (v GalleryView) Filter() string {
	return v.filter
}

// Searching reports whether search results replace the filtered gallery
func (v GalleryView) Searching() bool {
	return v.results != nil
}

// Update handles messages
func (v GalleryView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case searchTickMsg:
		if msg.seq != v.searchSeq {
			return v, nil
		}
		v.applySearch(v.search.Value())
		return v, nil

	case StateChangedMsg:
		if v.results != nil {
			v.applySearch(v.query)
		}
		v.clampCursor()
		return v, nil

	case tea.KeyMsg:
		switch v.mode {
		case GalleryModeNew:
			return v.handleNewMode(msg)
		case GalleryModeSearch:
			return v.handleSearchMode(msg)
		case GalleryModeConfirmDelete:
			return v.handleConfirmDeleteMode(msg)
		default:
			return v.handleNormalMode(msg)
		}
	}
	return v, nil
}

func (v GalleryView) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	boards := v.gallery().Boards

	switch msg.String() {
	case "j", "down":
		if v.cursor < len(boards)-1 {
			v.cursor++
		}
	case "k", "up":
		if v.cursor > 0 {
			v.cursor--
		}
	case "g":
		v.cursor = 0
	case "G":
		if len(boards) > 0 {
			v.cursor = len(boards) - 1
		}
	case "tab":
		v.cycleFilter(1)
	case "shift+tab":
		v.cycleFilter(-1)
	case "/":
		v.mode = GalleryModeSearch
		cmd := v.search.Focus()
		return v, cmd
	case "esc":
		if v.results != nil {
			v.clearSearch()
			v.cursor = 0
		}
	case "n", "a":
		v.form = v.newBoardForm()
		v.mode = GalleryModeNew
		return v, v.form.start()
	case "d":
		if v.cursor < len(boards) {
			v.deleteID = boards[v.cursor].ID
			v.mode = GalleryModeConfirmDelete
		}
	case "enter":
		if v.cursor < len(boards) {
			id := boards[v.cursor].ID
			return v, func() tea.Msg { return OpenBoardMsg{BoardID: id} }
		}
	}
	return v, nil
}

func (v GalleryView) handleSearchMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.mode = GalleryModeNormal
		v.search.Blur()
		v.clearSearch()
		v.cursor = 0
		return v, nil
	case "enter":
		// Apply immediately and stop any pending timer from re-applying
		v.mode = GalleryModeNormal
		v.search.Blur()
		v.searchSeq++
		v.applySearch(v.search.Value())
		return v, nil
	}

	before := v.search.Value()
	var cmd tea.Cmd
	v.search, cmd = v.search.Update(msg)
	if v.search.Value() == before {
		return v, cmd
	}

	v.searchSeq++
	seq := v.searchSeq
	tick := tea.Tick(v.app.Config.SearchDebounce, func(time.Time) tea.Msg {
		return searchTickMsg{seq: seq}
	})
	return v, tea.Batch(cmd, tick)
}

func (v GalleryView) handleConfirmDeleteMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		id := v.deleteID
		v.deleteID = ""
		v.mode = GalleryModeNormal

		s, effect := tracker.DeleteBoard(v.app.State, id)
		if err := v.app.Commit(s, effect); err != nil {
			return v, alertErr(err.Error())
		}
		v.app.Log.Info().Str("board", id).Msg("board deleted")
		if v.results != nil {
			v.applySearch(v.query)
		}
		v.clampCursor()
		return v, tea.Batch(alert("Board deleted"), stateChanged)
	case "n", "N", "esc":
		v.deleteID = ""
		v.mode = GalleryModeNormal
	}
	return v, nil
}

func (v GalleryView) handleNewMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	result, cmd := v.form.update(msg)
	switch result {
	case formCancelled:
		v.form = nil
		v.mode = GalleryModeNormal
		return v, nil
	case formSubmitted:
		return v.createBoard()
	}
	return v, cmd
}

func (v GalleryView) newBoardForm() *form {
	return newForm("New board").
		text("Name", "Sprint 1").
		choice("Team", viewmodel.TeamOptions(v.app.State), nil).
		text("Team name", "new team name").
		when(func(f *form) bool { return f.value(boardFieldTeam) == viewmodel.OptionOther }).
		choice("Background", Backgrounds, backgroundLabel)
}

func (v GalleryView) createBoard() (tea.Model, tea.Cmd) {
	team := v.form.value(boardFieldTeam)
	switch team {
	case viewmodel.OptionNoTeam:
		team = ""
	case viewmodel.OptionOther:
		team = v.form.value(boardFieldOther)
	}

	s, effect, err := tracker.CreateBoard(v.app.State, v.form.raw(boardFieldName), team, v.form.value(boardFieldBackground), v.app.Now())
	if err != nil {
		return v, alertErr(inputErrorText(err, "board"))
	}
	if err := v.app.Commit(s, effect); err != nil {
		return v, alertErr(err.Error())
	}
	v.app.Log.Info().Str("board", s.Boards[0].ID).Msg("board created")

	v.form = nil
	v.mode = GalleryModeNormal
	v.filter = viewmodel.FilterAll
	v.clearSearch()
	v.cursor = 0
	return v, tea.Batch(alert(fmt.Sprintf("Board %q created", s.Boards[0].Name)), stateChanged)
}

// applySearch runs a query; an empty query resets to the unfiltered gallery
func (v *GalleryView) applySearch(query string) {
	res := viewmodel.Search(v.app.State, query)
	if res == nil {
		v.clearSearch()
		v.filter = viewmodel.FilterAll
	} else {
		v.query = query
		v.results = res
	}
	v.clampCursor()
}

func (v *GalleryView) clearSearch() {
	v.results = nil
	v.query = ""
	v.search.SetValue("")
	v.searchSeq++
}

func (v *GalleryView) cycleFilter(delta int) {
	filters := viewmodel.TeamFilters(v.app.State, v.filter)
	idx := 0
	for i, f := range filters {
		if f.Active {
			idx = i
		}
	}
	idx = (idx + delta + len(filters)) % len(filters)
	v.filter = filters[idx].Label
	v.clearSearch()
	v.cursor = 0
}

func (v *GalleryView) clampCursor() {
	n := len(v.gallery().Boards)
	if v.cursor >= n {
		v.cursor = n - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

func (v GalleryView) gallery() viewmodel.Gallery {
	if v.results != nil {
		return *v.results
	}
	return viewmodel.BuildGallery(v.app.State, v.filter)
}

// View renders the gallery
func (v GalleryView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	styles := theme.Current.Styles
	t := theme.Current.Theme

	var sections []string

	// Team filter bar
	var filters []string
	for _, f := range viewmodel.TeamFilters(v.app.State, v.filter) {
		if f.Active && v.results == nil {
			filters = append(filters, styles.FilterActive.Render(f.Label))
		} else {
			filters = append(filters, styles.FilterInactive.Render(f.Label))
		}
	}
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, filters...))

	switch {
	case v.mode == GalleryModeSearch:
		sections = append(sections, styles.InputFocused.Render(v.search.View()))
	case v.results != nil:
		sections = append(sections, styles.Input.Render(v.search.View()))
	}

	if v.mode == GalleryModeNew && v.form != nil {
		sections = append(sections, "", v.form.view(v.width))
		return strings.Join(sections, "\n")
	}

	sections = append(sections, "")

	g := v.gallery()
	if len(g.Boards) == 0 {
		sections = append(sections, styles.Meta.Render(g.Empty))
		return strings.Join(sections, "\n")
	}

	nameWidth := v.width - 6
	for i, b := range g.Boards {
		swatch := lipgloss.NewStyle().Foreground(theme.Swatch(b.Background)).Render("▌")
		name := truncate(b.Name, nameWidth)

		style := styles.Item
		if i == v.cursor {
			style = styles.ItemSelected
		}
		line := swatch + " " + style.Render(name)
		meta := "  " + styles.Meta.Render(b.Meta)

		if v.mode == GalleryModeConfirmDelete && b.ID == v.deleteID {
			meta = "  " + styles.Confirm.Render(fmt.Sprintf("Delete board %q? (y/n)", b.Name))
		}
		sections = append(sections, line, meta)
	}

	if v.results != nil {
		count := lipgloss.NewStyle().Foreground(t.Subtle).Render(fmt.Sprintf("%d match(es)", len(g.Boards)))
		sections = append(sections, "", count)
	}

	return strings.Join(sections, "\n")
}

// IsInputMode returns whether the view is in input mode
func (v GalleryView) IsInputMode() bool {
	return v.mode != GalleryModeNormal
}
