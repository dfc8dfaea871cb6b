package views

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/tallyboard/internal/app"
	"github.com/dori/tallyboard/internal/model"
	"github.com/dori/tallyboard/internal/tracker"
	"github.com/dori/tallyboard/internal/ui/theme"
	"github.com/dori/tallyboard/internal/viewmodel"
)

// EarnAmount is what the quick earn key adds
const EarnAmount = 10

// RewardsMode represents the current input mode
type RewardsMode int

const (
	RewardsModeNormal RewardsMode = iota
	RewardsModeAddGoal
)

// RewardsSection is the focused list on the rewards page
type RewardsSection int

const (
	SectionGoals RewardsSection = iota
	SectionCatalog
)

const (
	goalFieldTitle = iota
	goalFieldTarget
)

// RewardsView shows the points balance, goals with progress and the redeem catalog
type RewardsView struct {
	app    *app.App
	width  int
	height int

	section RewardsSection
	cursor  [2]int

	mode RewardsMode
	form *form
}

// NewRewardsView creates a new rewards view
func NewRewardsView(application *app.App) RewardsView {
	return RewardsView{app: application}
}

// Init initializes the rewards view
func (v RewardsView) Init() tea.Cmd {
	return nil
}

// SetSize sets the view dimensions
func (v RewardsView) SetSize(width, height int) RewardsView {
	v.width = width
	v.height = height
	return v
}

// Update handles messages
func (v RewardsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StateChangedMsg:
		v.clampCursor()
		return v, nil

	case tea.KeyMsg:
		if v.mode == RewardsModeAddGoal {
			return v.handleAddGoalMode(msg)
		}
		return v.handleNormalMode(msg)
	}
	return v, nil
}

func (v RewardsView) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	panel := v.panel()

	switch msg.String() {
	case "j", "down":
		if v.cursor[v.section] < v.sectionLen(panel)-1 {
			v.cursor[v.section]++
		}
	case "k", "up":
		if v.cursor[v.section] > 0 {
			v.cursor[v.section]--
		}
	case "tab", "shift+tab":
		if v.section == SectionGoals {
			v.section = SectionCatalog
		} else {
			v.section = SectionGoals
		}
	case "e":
		s, effect := tracker.EarnPoints(v.app.State, EarnAmount)
		if err := v.app.Commit(s, effect); err != nil {
			return v, alertErr(err.Error())
		}
		return v, tea.Batch(alert(fmt.Sprintf("+%d pts", EarnAmount)), stateChanged)
	case "a":
		v.form = newForm("New goal").
			text("Title", "Team lunch").
			text("Target", "100")
		v.mode = RewardsModeAddGoal
		return v, v.form.start()
	case "c":
		if g := v.selectedGoal(panel); g != nil {
			return v.claim(g.ID)
		}
	case "x":
		if g := v.selectedGoal(panel); g != nil {
			s, effect := tracker.RemoveGoal(v.app.State, g.ID)
			if err := v.app.Commit(s, effect); err != nil {
				return v, alertErr(err.Error())
			}
			return v, tea.Batch(alert(fmt.Sprintf("Goal %q removed", g.Title)), stateChanged)
		}
	case "r", "enter":
		if v.section == SectionCatalog && v.cursor[SectionCatalog] < len(panel.Catalog) {
			return v.redeem(panel.Catalog[v.cursor[SectionCatalog]])
		}
	}
	return v, nil
}

func (v RewardsView) handleAddGoalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	result, cmd := v.form.update(msg)
	switch result {
	case formCancelled:
		v.form = nil
		v.mode = RewardsModeNormal
		return v, nil
	case formSubmitted:
		title := v.form.value(goalFieldTitle)
		target := parseTarget(v.form.value(goalFieldTarget))
		if title == "" || math.IsNaN(target) || target < 1 {
			return v, alertErr("Please enter a goal title and a point target greater than zero.")
		}

		s, effect, err := tracker.AddGoal(v.app.State, title, target)
		if err != nil {
			return v, alertErr(inputErrorText(err, "goal"))
		}
		if err := v.app.Commit(s, effect); err != nil {
			return v, alertErr(err.Error())
		}
		v.form = nil
		v.mode = RewardsModeNormal
		v.section = SectionGoals
		v.cursor[SectionGoals] = 0
		return v, tea.Batch(alert(fmt.Sprintf("Goal %q added", title)), stateChanged)
	}
	return v, cmd
}

func (v RewardsView) claim(id string) (tea.Model, tea.Cmd) {
	s, effect, claimed, err := tracker.ClaimGoal(v.app.State, id)
	if err != nil {
		return v, alertErr(inputErrorText(err, "claim this goal"))
	}
	if claimed == nil {
		return v, nil
	}
	if err := v.app.Commit(s, effect); err != nil {
		return v, alertErr(err.Error())
	}
	v.app.Log.Info().Str("goal", claimed.ID).Int("spent", claimed.Target).Msg("goal claimed")

	notifier := v.app.Notifier
	notifyCmd := func() tea.Msg {
		if err := notifier.SendGoalClaimed(claimed.Title, claimed.Target); err != nil {
			v.app.Log.Warn().Err(err).Msg("notification failed")
		}
		return nil
	}
	text := fmt.Sprintf("Goal claimed: %s - %d points spent.", claimed.Title, claimed.Target)
	return v, tea.Batch(alert(text), notifyCmd, stateChanged)
}

func (v RewardsView) redeem(item model.CatalogItem) (tea.Model, tea.Cmd) {
	s, effect, err := tracker.RedeemItem(v.app.State, item)
	if err != nil {
		return v, alertErr(inputErrorText(err, "redeem "+item.Name))
	}
	if err := v.app.Commit(s, effect); err != nil {
		return v, alertErr(err.Error())
	}
	v.app.Log.Info().Str("item", item.Name).Int("cost", item.Cost).Msg("catalog item redeemed")

	notifier := v.app.Notifier
	notifyCmd := func() tea.Msg {
		if err := notifier.SendRedeemed(item.Name, item.Cost); err != nil {
			v.app.Log.Warn().Err(err).Msg("notification failed")
		}
		return nil
	}
	return v, tea.Batch(alert(fmt.Sprintf("Redeemed %s for %d points.", item.Name, item.Cost)), notifyCmd, stateChanged)
}

func (v RewardsView) panel() viewmodel.RewardsPanel {
	return viewmodel.BuildRewards(v.app.State, v.app.Config.Catalog)
}

func (v RewardsView) sectionLen(p viewmodel.RewardsPanel) int {
	if v.section == SectionCatalog {
		return len(p.Catalog)
	}
	return len(p.Goals)
}

func (v RewardsView) selectedGoal(p viewmodel.RewardsPanel) *viewmodel.GoalItem {
	if v.section != SectionGoals || v.cursor[SectionGoals] >= len(p.Goals) {
		return nil
	}
	return &p.Goals[v.cursor[SectionGoals]]
}

func (v *RewardsView) clampCursor() {
	p := v.panel()
	for i, n := range []int{len(p.Goals), len(p.Catalog)} {
		if v.cursor[i] >= n {
			v.cursor[i] = n - 1
		}
		if v.cursor[i] < 0 {
			v.cursor[i] = 0
		}
	}
}

// parseTarget reads a goal target; anything unparsable is NaN
func parseTarget(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// View renders the rewards page
func (v RewardsView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	styles := theme.Current.Styles
	t := theme.Current.Theme

	if v.mode == RewardsModeAddGoal && v.form != nil {
		return v.form.view(v.width)
	}

	p := v.panel()

	points := lipgloss.NewStyle().Foreground(t.Points).Bold(true).Render(fmt.Sprintf("%d pts", p.Points))
	sections := []string{styles.Title.Render("Points: ") + points, ""}

	sectionTitle := func(title string, active bool) string {
		if active {
			return styles.FilterActive.Render(title)
		}
		return styles.FilterInactive.Render(title)
	}

	// Goals
	sections = append(sections, sectionTitle("Goals", v.section == SectionGoals))
	if len(p.Goals) == 0 {
		sections = append(sections, styles.Meta.Render(p.Empty))
	}

	barWidth := v.width / 3
	if barWidth < 10 {
		barWidth = 10
	}
	bar := progress.New(
		progress.WithGradient(t.ProgressStart, t.ProgressEnd),
		progress.WithWidth(barWidth),
	)
	for i, g := range p.Goals {
		style := styles.Item
		if v.section == SectionGoals && i == v.cursor[SectionGoals] {
			style = styles.ItemSelected
		}
		line := style.Render(g.Title) + "  " + styles.Meta.Render(g.Meta)
		if g.Claimable {
			line += "  " + lipgloss.NewStyle().Foreground(t.Success).Bold(true).Render("[c] Claim")
		}
		sections = append(sections, line, "  "+bar.ViewAs(float64(g.Percent)/100))
	}

	// Catalog
	sections = append(sections, "", sectionTitle("Redeem", v.section == SectionCatalog))
	for i, item := range p.Catalog {
		style := styles.Item
		if v.section == SectionCatalog && i == v.cursor[SectionCatalog] {
			style = styles.ItemSelected
		}
		cost := styles.Meta.Render(fmt.Sprintf("%d pts", item.Cost))
		if item.Cost > p.Points {
			cost = lipgloss.NewStyle().Foreground(t.Error).Render(fmt.Sprintf("%d pts", item.Cost))
		}
		sections = append(sections, style.Render(item.Name)+"  "+cost)
	}

	return strings.Join(sections, "\n")
}

// IsInputMode returns whether the view is in input mode
func (v RewardsView) IsInputMode() bool {
	return v.mode != RewardsModeNormal
}
