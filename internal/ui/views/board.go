package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/tallyboard/internal/app"
	"github.com/dori/tallyboard/internal/model"
	"github.com/dori/tallyboard/internal/tracker"
	"github.com/dori/tallyboard/internal/ui/theme"
	"github.com/dori/tallyboard/internal/viewmodel"
)

// BoardMode represents the current input mode
type BoardMode int

const (
	BoardModeNormal BoardMode = iota
	BoardModeAdd
	BoardModeDrag
)

const (
	cardFieldTitle = iota
	cardFieldDescription
)

// BoardView shows one board as three columns of cards
type BoardView struct {
	app    *app.App
	width  int
	height int

	boardID string

	currentColumn int
	cursorRow     int
	columnScroll  [3]int

	mode BoardMode
	form *form

	// Card id being dragged; the drop target is the current column
	dragging string
}

// NewBoardView creates a new board view
func NewBoardView(application *app.App) BoardView {
	return BoardView{app: application}
}

// Init initializes the board view
func (v BoardView) Init() tea.Cmd {
	return nil
}

// SetSize sets the view dimensions
func (v BoardView) SetSize(width, height int) BoardView {
	v.width = width
	v.height = height
	return v
}

// Open shows the board with the given id, resetting navigation
func (v BoardView) Open(boardID string) BoardView {
	v.boardID = boardID
	v.currentColumn = 0
	v.cursorRow = 0
	v.columnScroll = [3]int{}
	v.mode = BoardModeNormal
	v.form = nil
	v.dragging = ""
	return v
}

// BoardID returns the id of the board being shown
func (v BoardView) BoardID() string {
	return v.boardID
}

// Dragging returns the id of the card being dragged, if any
func (v BoardView) Dragging() string {
	return v.dragging
}

// Update handles messages
func (v BoardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StateChangedMsg:
		if v.dragging != "" && v.draggedCard() == nil {
			v.dragging = ""
			v.mode = BoardModeNormal
		}
		v.clampCursor()
		return v, nil

	case tea.KeyMsg:
		switch v.mode {
		case BoardModeAdd:
			return v.handleAddMode(msg)
		case BoardModeDrag:
			return v.handleDragMode(msg)
		default:
			return v.handleNormalMode(msg)
		}
	}
	return v, nil
}

func (v BoardView) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	detail := v.detail()
	if !detail.Found {
		switch msg.String() {
		case "esc", "backspace":
			return v, func() tea.Msg { return ShowGalleryMsg{} }
		}
		return v, nil
	}

	switch msg.String() {
	case "h", "left":
		v.moveColumn(-1)
	case "l", "right":
		v.moveColumn(1)
	case "j", "down":
		if v.cursorRow < len(v.columnCards(detail))-1 {
			v.cursorRow++
			v.ensureCursorVisible()
		}
	case "k", "up":
		if v.cursorRow > 0 {
			v.cursorRow--
			v.ensureCursorVisible()
		}
	case "H":
		return v.moveCard(-1)
	case "L":
		return v.moveCard(1)
	case "a":
		v.form = newForm("New card in " + model.Columns[v.currentColumn].Title()).
			text("Title", "Draft roadmap").
			text("Description", "optional")
		v.mode = BoardModeAdd
		return v, v.form.start()
	case " ":
		if card := v.selectedCard(detail); card != nil {
			v.dragging = card.ID
			v.mode = BoardModeDrag
		}
	case "r":
		return v.redeem(detail)
	case "esc", "backspace":
		return v, func() tea.Msg { return ShowGalleryMsg{} }
	}
	return v, nil
}

// handleDragMode moves the drop target between columns until the card is dropped
func (v BoardView) handleDragMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "left":
		if v.currentColumn > 0 {
			v.currentColumn--
		}
	case "l", "right":
		if v.currentColumn < len(model.Columns)-1 {
			v.currentColumn++
		}
	case " ", "enter":
		return v.drop()
	case "esc":
		v.dragging = ""
		v.mode = BoardModeNormal
		v.clampCursor()
	}
	return v, nil
}

func (v BoardView) handleAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	result, cmd := v.form.update(msg)
	switch result {
	case formCancelled:
		v.form = nil
		v.mode = BoardModeNormal
		return v, nil
	case formSubmitted:
		col := model.Columns[v.currentColumn]
		s, effect, err := tracker.AddCard(v.app.State, v.boardID, v.form.raw(cardFieldTitle), v.form.value(cardFieldDescription), col, v.app.Now())
		if err != nil {
			return v, alertErr(err.Error())
		}
		v.form = nil
		v.mode = BoardModeNormal
		if effect == tracker.EffectNone {
			return v, nil
		}
		if err := v.app.Commit(s, effect); err != nil {
			return v, alertErr(err.Error())
		}
		v.cursorRow = len(v.columnCards(v.detail())) - 1
		v.ensureCursorVisible()
		return v, stateChanged
	}
	return v, cmd
}

// drop moves the dragged card into the current column. A card that vanished
// in the meantime is dropped silently.
func (v BoardView) drop() (tea.Model, tea.Cmd) {
	id := v.dragging
	v.dragging = ""
	v.mode = BoardModeNormal

	col := model.Columns[v.currentColumn]
	s, effect, err := tracker.MoveCard(v.app.State, v.boardID, id, col, v.app.Now())
	if err != nil {
		return v, alertErr(err.Error())
	}
	if effect == tracker.EffectNone {
		v.clampCursor()
		return v, nil
	}
	if err := v.app.Commit(s, effect); err != nil {
		return v, alertErr(err.Error())
	}
	v.selectCard(id)
	return v, stateChanged
}

func (v BoardView) moveCard(direction int) (tea.Model, tea.Cmd) {
	card := v.selectedCard(v.detail())
	target := v.currentColumn + direction
	if card == nil || target < 0 || target >= len(model.Columns) {
		return v, nil
	}

	s, effect, err := tracker.MoveCard(v.app.State, v.boardID, card.ID, model.Columns[target], v.app.Now())
	if err != nil {
		return v, alertErr(err.Error())
	}
	if err := v.app.Commit(s, effect); err != nil {
		return v, alertErr(err.Error())
	}
	v.currentColumn = target
	v.selectCard(card.ID)
	return v, stateChanged
}

func (v BoardView) redeem(detail viewmodel.BoardDetail) (tea.Model, tea.Cmd) {
	card := v.selectedCard(detail)
	if card == nil || card.Redeem == nil || !card.Redeem.Enabled {
		return v, nil
	}

	s, effect := tracker.RedeemCard(v.app.State, v.boardID, card.ID)
	if err := v.app.Commit(s, effect); err != nil {
		return v, alertErr(err.Error())
	}
	v.app.Log.Info().Str("card", card.ID).Int("points", s.Rewards.Points).Msg("card redeemed")
	return v, tea.Batch(alert(fmt.Sprintf("+%d pts for %q", model.CardReward, card.Title)), stateChanged)
}

func (v BoardView) detail() viewmodel.BoardDetail {
	return viewmodel.BuildBoardDetail(v.app.State, v.boardID)
}

func (v BoardView) columnCards(detail viewmodel.BoardDetail) []viewmodel.CardItem {
	if !detail.Found || v.currentColumn >= len(detail.Columns) {
		return nil
	}
	return detail.Columns[v.currentColumn].Cards
}

func (v BoardView) selectedCard(detail viewmodel.BoardDetail) *viewmodel.CardItem {
	cards := v.columnCards(detail)
	if v.cursorRow < 0 || v.cursorRow >= len(cards) {
		return nil
	}
	return &cards[v.cursorRow]
}

func (v BoardView) draggedCard() *model.Card {
	b := v.app.State.FindBoard(v.boardID)
	if b == nil {
		return nil
	}
	return b.Card(v.dragging)
}

// selectCard puts the cursor on a card in the current column
func (v *BoardView) selectCard(id string) {
	for i, c := range v.columnCards(v.detail()) {
		if c.ID == id {
			v.cursorRow = i
			v.ensureCursorVisible()
			return
		}
	}
	v.clampCursor()
}

func (v *BoardView) moveColumn(delta int) {
	next := v.currentColumn + delta
	if next < 0 || next >= len(model.Columns) {
		return
	}
	v.currentColumn = next
	v.clampCursor()
}

// clampCursor ensures cursor is valid for current column
func (v *BoardView) clampCursor() {
	n := len(v.columnCards(v.detail()))
	if v.cursorRow >= n {
		v.cursorRow = n - 1
	}
	if v.cursorRow < 0 {
		v.cursorRow = 0
	}
	v.ensureCursorVisible()
}

// ensureCursorVisible adjusts scroll to keep cursor in view
func (v *BoardView) ensureCursorVisible() {
	visible := v.visibleItemCount()
	col := v.currentColumn
	if v.cursorRow >= v.columnScroll[col]+visible {
		v.columnScroll[col] = v.cursorRow - visible + 1
	}
	if v.cursorRow < v.columnScroll[col] {
		v.columnScroll[col] = v.cursorRow
	}
}

// visibleItemCount returns how many cards fit in a column. Each card takes
// two lines: title and description.
func (v *BoardView) visibleItemCount() int {
	n := (v.height - 8) / 2
	if n < 1 {
		return 1
	}
	return n
}

// View renders the board
func (v BoardView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	styles := theme.Current.Styles
	t := theme.Current.Theme

	detail := v.detail()
	if !detail.Found {
		return styles.Panel.Render(styles.Meta.Render(detail.Message))
	}

	if v.mode == BoardModeAdd && v.form != nil {
		return v.form.view(v.width)
	}

	title := styles.Title.Render(detail.Title)
	if detail.Team != "" {
		title += "  " + styles.Subtitle.Render(detail.Team)
	}

	columnColors := []lipgloss.Color{t.ColumnTodo, t.ColumnInProgress, t.ColumnDone}

	colWidth := (v.width - 2) / len(detail.Columns)
	if colWidth < 20 {
		colWidth = 20
	}

	var headers, cols []string
	visible := v.visibleItemCount()
	for i, col := range detail.Columns {
		active := i == v.currentColumn

		header := lipgloss.NewStyle().
			Bold(true).
			Foreground(columnColors[i]).
			Width(colWidth).
			Align(lipgloss.Center)
		if active {
			header = header.Background(t.Highlight)
		}
		label := fmt.Sprintf("%s (%d)", col.Title, len(col.Cards))
		if active && v.dragging != "" {
			label = "▼ " + label
		}
		headers = append(headers, header.Render(label))

		start := v.columnScroll[i]
		end := start + visible
		if start > len(col.Cards) {
			start = len(col.Cards)
		}
		if end > len(col.Cards) {
			end = len(col.Cards)
		}

		var items []string
		if start > 0 {
			items = append(items, styles.Meta.Render(fmt.Sprintf("↑ %d more", start)))
		}
		for j := start; j < end; j++ {
			items = append(items, v.renderCard(col.Cards[j], active && v.dragging == "" && j == v.cursorRow, colWidth-4))
		}
		if end < len(col.Cards) {
			items = append(items, styles.Meta.Render(fmt.Sprintf("↓ %d more", len(col.Cards)-end)))
		}
		if len(col.Cards) == 0 {
			items = append(items, styles.Meta.Render("empty"))
		}

		border := t.Border
		if active {
			border = columnColors[i]
		}
		cols = append(cols, lipgloss.NewStyle().
			Width(colWidth-2).
			Height(v.height-4).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Render(strings.Join(items, "\n")))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		lipgloss.JoinHorizontal(lipgloss.Top, headers...),
		lipgloss.JoinHorizontal(lipgloss.Top, cols...),
	)
}

func (v BoardView) renderCard(c viewmodel.CardItem, selected bool, width int) string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	style := styles.Item.Width(width)
	switch {
	case c.ID == v.dragging:
		style = styles.ItemDragged.Width(width)
	case selected:
		style = styles.ItemSelected.Width(width)
	}

	title := truncate(c.Title, width-2)
	if c.Redeem != nil {
		mark := lipgloss.NewStyle().Foreground(t.Points).Render("+")
		if !c.Redeem.Enabled {
			mark = lipgloss.NewStyle().Foreground(t.Subtle).Render("✓")
		}
		title = truncate(c.Title, width-4) + " " + mark
	}

	lines := []string{style.Render(title)}
	if c.Description != "" {
		lines = append(lines, styles.Meta.Render("  "+truncate(c.Description, width-2)))
	}
	if selected && c.Redeem != nil {
		lines = append(lines, styles.Meta.Render("  ["+c.Redeem.Label+"]"))
	}
	return strings.Join(lines, "\n")
}

// IsInputMode returns whether the view is in input mode
func (v BoardView) IsInputMode() bool {
	return v.mode == BoardModeAdd || v.mode == BoardModeDrag
}
