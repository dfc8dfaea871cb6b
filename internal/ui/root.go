package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/tallyboard/internal/app"
	"github.com/dori/tallyboard/internal/model"
	"github.com/dori/tallyboard/internal/ui/theme"
	"github.com/dori/tallyboard/internal/ui/views"
)

// Options selects what the TUI shows first
type Options struct {
	StartView View
	BoardID   string // Opens the board detail directly when set
}

// RootModel is the main application model that manages views
type RootModel struct {
	app    *app.App
	keys   KeyMap
	help   help.Model
	width  int
	height int

	currentView View
	galleryView views.GalleryView
	boardView   views.BoardView
	teamsView   views.TeamsView
	rewardsView views.RewardsView
	helpVisible bool

	// Status message
	statusMsg string
	errorMsg  string
}

// NewRootModel creates a new root model
func NewRootModel(application *app.App, opts Options) RootModel {
	h := help.New()
	h.ShowAll = false

	m := RootModel{
		app:         application,
		keys:        DefaultKeyMap(),
		help:        h,
		currentView: opts.StartView,
		galleryView: views.NewGalleryView(application),
		boardView:   views.NewBoardView(application),
		teamsView:   views.NewTeamsView(application),
		rewardsView: views.NewRewardsView(application),
	}

	if opts.BoardID != "" {
		m.boardView = m.boardView.Open(opts.BoardID)
		m.currentView = ViewBoard
	} else if m.currentView == ViewBoard {
		m.openFirstBoard()
	}
	return m
}

// Init initializes the model
func (m RootModel) Init() tea.Cmd {
	return nil
}

// CurrentView returns the active view
func (m RootModel) CurrentView() View {
	return m.currentView
}

// Update handles messages
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		// Reserve space for header (2 lines) and footer (2 lines)
		contentHeight := m.height - 4
		m.galleryView = m.galleryView.SetSize(m.width, contentHeight)
		m.boardView = m.boardView.SetSize(m.width, contentHeight)
		m.teamsView = m.teamsView.SetSize(m.width, contentHeight)
		m.rewardsView = m.rewardsView.SetSize(m.width, contentHeight)
		return m, nil

	case tea.KeyMsg:
		// Clear status/error on any keypress
		m.statusMsg = ""
		m.errorMsg = ""

		isInputMode := m.isInputMode()

		switch {
		case key.Matches(msg, m.keys.Quit):
			// ctrl+c always quits, but 'q' only quits when not in input mode
			if msg.String() == "ctrl+c" || !isInputMode {
				return m, tea.Quit
			}

		case key.Matches(msg, m.keys.ThemeCycle):
			m.cycleTheme()
			return m, nil
		}

		if isInputMode {
			break
		}

		if m.helpVisible {
			if key.Matches(msg, m.keys.Help, m.keys.Back) {
				m.helpVisible = false
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Help):
			m.helpVisible = true
			return m, nil
		case key.Matches(msg, m.keys.GalleryView):
			m.currentView = ViewGallery
			return m, nil
		case key.Matches(msg, m.keys.BoardView):
			if m.boardView.BoardID() == "" {
				m.openFirstBoard()
			}
			m.currentView = ViewBoard
			return m, nil
		case key.Matches(msg, m.keys.TeamsView):
			m.currentView = ViewTeams
			return m, nil
		case key.Matches(msg, m.keys.RewardsView):
			m.currentView = ViewRewards
			return m, nil
		}

	case SwitchViewMsg:
		m.currentView = msg.View
		return m, nil

	case views.AlertMsg:
		if msg.Error {
			m.errorMsg = msg.Text
		} else {
			m.statusMsg = msg.Text
		}
		return m, nil

	case views.OpenBoardMsg:
		m.boardView = m.boardView.Open(msg.BoardID)
		m.currentView = ViewBoard
		return m, nil

	case views.ShowGalleryMsg:
		m.galleryView = m.galleryView.SetFilter(msg.Filter)
		m.currentView = ViewGallery
		return m, nil

	case views.StateChangedMsg:
		// Every view projects the shared state, so all of them refresh
		return m.broadcast(msg)
	}

	return m.delegate(msg)
}

// delegate sends a message to the current view
func (m RootModel) delegate(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var updated tea.Model
	switch m.currentView {
	case ViewGallery:
		updated, cmd = m.galleryView.Update(msg)
		m.galleryView = updated.(views.GalleryView)
	case ViewBoard:
		updated, cmd = m.boardView.Update(msg)
		m.boardView = updated.(views.BoardView)
	case ViewTeams:
		updated, cmd = m.teamsView.Update(msg)
		m.teamsView = updated.(views.TeamsView)
	case ViewRewards:
		updated, cmd = m.rewardsView.Update(msg)
		m.rewardsView = updated.(views.RewardsView)
	}
	return m, cmd
}

func (m RootModel) broadcast(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var updated tea.Model
	var cmd tea.Cmd

	updated, cmd = m.galleryView.Update(msg)
	m.galleryView = updated.(views.GalleryView)
	cmds = append(cmds, cmd)

	updated, cmd = m.boardView.Update(msg)
	m.boardView = updated.(views.BoardView)
	cmds = append(cmds, cmd)

	updated, cmd = m.teamsView.Update(msg)
	m.teamsView = updated.(views.TeamsView)
	cmds = append(cmds, cmd)

	updated, cmd = m.rewardsView.Update(msg)
	m.rewardsView = updated.(views.RewardsView)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m RootModel) isInputMode() bool {
	switch m.currentView {
	case ViewGallery:
		return m.galleryView.IsInputMode()
	case ViewBoard:
		return m.boardView.IsInputMode()
	case ViewTeams:
		return m.teamsView.IsInputMode()
	case ViewRewards:
		return m.rewardsView.IsInputMode()
	}
	return false
}

func (m *RootModel) openFirstBoard() {
	if len(m.app.State.Boards) > 0 {
		m.boardView = m.boardView.Open(m.app.State.Boards[0].ID)
	}
}

// View renders the UI
func (m RootModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	// Reserve: 1 line for header + 3 lines for footer (status + 2 hint lines)
	contentHeight := m.height - 4
	if m.errorMsg != "" || m.statusMsg != "" {
		contentHeight--
	}

	var content string
	if m.helpVisible {
		content = m.renderHelp()
	} else {
		switch m.currentView {
		case ViewGallery:
			content = m.galleryView.View()
		case ViewBoard:
			content = m.boardView.View()
		case ViewTeams:
			content = m.teamsView.View()
		case ViewRewards:
			content = m.rewardsView.View()
		}
	}

	// Ensure content fills available space
	contentLines := strings.Count(content, "\n") + 1
	if contentLines < contentHeight {
		content += strings.Repeat("\n", contentHeight-contentLines)
	}
	sections = append(sections, content)
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

// renderHeader renders the header bar
func (m RootModel) renderHeader() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	title := styles.Header.Render("tallyboard")

	viewStyle := lipgloss.NewStyle().
		Foreground(t.Subtle).
		Padding(0, 1)
	viewIndicator := viewStyle.Render(fmt.Sprintf("[%s]", m.currentView.String()))

	points := lipgloss.NewStyle().Foreground(t.Points).Padding(0, 1).
		Render(fmt.Sprintf("%d pts", m.app.State.Rewards.Points))
	themeIndicator := viewStyle.Render(fmt.Sprintf("theme: %s", t.Name))

	leftSide := lipgloss.JoinHorizontal(lipgloss.Center, title, viewIndicator)
	rightSide := lipgloss.JoinHorizontal(lipgloss.Center, points, themeIndicator)

	gap := m.width - lipgloss.Width(leftSide) - lipgloss.Width(rightSide)
	if gap < 0 {
		gap = 0
	}

	return leftSide + strings.Repeat(" ", gap) + rightSide
}

// renderFooter renders the footer/status bar
func (m RootModel) renderFooter() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	key := func(k, desc string) string {
		return styles.HelpKey.Render(k) + styles.HelpDesc.Render(" "+desc)
	}
	sep := styles.HelpSeparator.Render(" │ ")

	var statusLine string
	if m.errorMsg != "" {
		statusLine = lipgloss.NewStyle().Foreground(t.Error).Render(m.errorMsg)
	} else if m.statusMsg != "" {
		statusLine = lipgloss.NewStyle().Foreground(t.Info).Render(m.statusMsg)
	}

	global := key("1-4", "views") + sep +
		key("ctrl+t", "theme") + sep +
		key("?", "help") + sep +
		key("q", "quit")

	var line1, line2 string
	switch {
	case m.helpVisible:
		line1 = key("?/esc", "close help")
	case m.isInputMode() && m.currentView == ViewBoard && m.boardView.Dragging() != "":
		line1 = key("h/l", "target column") + sep + key("space/enter", "drop") + sep + key("esc", "cancel")
	case m.isInputMode():
		line1 = key("enter", "confirm") + sep + key("esc", "cancel")
	default:
		switch m.currentView {
		case ViewGallery:
			line1 = key("tab", "team filter") + sep +
				key("/", "search") + sep +
				key("n", "new board") + sep +
				key("enter", "open") + sep +
				key("d", "delete")
		case ViewBoard:
			line1 = key("h/l", "columns") + sep +
				key("j/k", "cards") + sep +
				key("a", "add") + sep +
				key("space", "drag") + sep +
				key("H/L", "move") + sep +
				key("r", "redeem") + sep +
				key("esc", "back")
		case ViewTeams:
			line1 = key("a", "new team") + sep +
				key("d", "delete") + sep +
				key("enter", "show boards")
		case ViewRewards:
			line1 = key("e", "earn +10") + sep +
				key("a", "add goal") + sep +
				key("c", "claim") + sep +
				key("x", "remove") + sep +
				key("tab", "section") + sep +
				key("r", "redeem")
		}
		line2 = global
	}

	var lines []string
	if statusLine != "" {
		lines = append(lines, statusLine)
	}
	if line1 != "" {
		lines = append(lines, styles.Footer.Render(line1))
	}
	if line2 != "" {
		lines = append(lines, styles.Footer.Render(line2))
	}
	return strings.Join(lines, "\n")
}

// renderHelp renders the help overlay
func (m RootModel) renderHelp() string {
	t := theme.Current.Theme

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Secondary).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Foreground).
		Bold(true).
		Width(14)

	descStyle := lipgloss.NewStyle().
		Foreground(t.Subtle)

	sections := []struct {
		title string
		keys  [][]string
	}{
		{"Boards", [][]string{
			{"tab/shift+tab", "Cycle team filter"},
			{"/", "Search boards and teams"},
			{"n", "New board"},
			{"enter", "Open board"},
			{"d", "Delete board"},
		}},
		{"Board", [][]string{
			{"h/l j/k", "Navigate columns and cards"},
			{"a", "Add card to column"},
			{"space", "Pick up card, then drop with space/enter"},
			{"H / L", "Move card left/right"},
			{"r", fmt.Sprintf("Redeem a done card (+%d pts)", model.CardReward)},
			{"esc", "Back to boards"},
		}},
		{"Teams", [][]string{
			{"a", "New team"},
			{"d", "Delete team"},
			{"enter", "Show the team's boards"},
		}},
		{"Rewards", [][]string{
			{"e", "Earn 10 points"},
			{"a", "Add goal"},
			{"c / x", "Claim / remove goal"},
			{"tab", "Switch goals and catalog"},
			{"r / enter", "Redeem catalog item"},
		}},
		{"System", [][]string{
			{"1-4", "Switch views"},
			{"ctrl+t", "Cycle theme"},
			{"q / ctrl+c", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("tallyboard help"))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString(sectionStyle.Render(s.title))
		b.WriteString("\n")
		for _, kv := range s.keys {
			b.WriteString(keyStyle.Render(kv[0]))
			b.WriteString(descStyle.Render(kv[1]))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	return b.String()
}

// cycleTheme cycles through available themes
func (m *RootModel) cycleTheme() {
	next := theme.Next(theme.Current.Theme.Name)
	theme.SetTheme(next)
	m.statusMsg = fmt.Sprintf("Theme: %s", next.Name)
}
