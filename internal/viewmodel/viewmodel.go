// Package viewmodel projects tracker state into plain records that a
// presentation layer can render without touching the model directly.
package viewmodel

import (
	"fmt"
	"strings"
	"time"

	"github.com/dori/tallyboard/internal/model"
	"github.com/dori/tallyboard/internal/tracker"
)

// FilterAll is the team filter that shows every board
const FilterAll = "All"

// Placeholder messages for empty collections
const (
	MsgNoBoards      = "No boards yet."
	MsgNoMatches     = "No matches."
	MsgNoTeams       = "No teams yet."
	MsgNoGoals       = "No goals set yet."
	MsgBoardNotFound = "Board not found."
)

// Team select options around the inferred team names
const (
	OptionNoTeam = "No team"
	OptionOther  = "Other..."
)

// TimeFormat is used for "Last updated" lines
var TimeFormat = "Jan 2, 2006 3:04 PM"

// Filter is one team filter button
type Filter struct {
	Label  string
	Active bool
}

// BoardCard is one entry in the board gallery
type BoardCard struct {
	ID         string
	Name       string
	Meta       string
	Background string
}

// Gallery is the board dashboard
type Gallery struct {
	Boards []BoardCard
	Empty  string // Message shown when Boards is empty
}

// CardItem is a card in a board column
type CardItem struct {
	ID          string
	Title       string
	Description string
	Redeem      *RedeemControl // Only set for done cards
}

// RedeemControl is the redeem button on a done card
type RedeemControl struct {
	Label   string
	Enabled bool
}

// ColumnView is one board column
type ColumnView struct {
	Column model.Column
	Title  string
	Cards  []CardItem
}

// BoardDetail is a single board with its columns
type BoardDetail struct {
	Found   bool
	ID      string
	Title   string
	Team    string
	Columns []ColumnView
	Message string // MsgBoardNotFound when Found is false
}

// TeamCard is one entry in the teams gallery
type TeamCard struct {
	ID         string
	Name       string
	Meta       string
	Members    []string
	Background string
}

// GoalItem is a goal with its progress
type GoalItem struct {
	ID        string
	Title     string
	Target    int
	Meta      string
	Percent   int
	Claimable bool
}

// RewardsPanel is the rewards page
type RewardsPanel struct {
	Points  int
	Goals   []GoalItem
	Empty   string
	Catalog []model.CatalogItem
}

// TeamNames returns the distinct team names used for filtering. The team
// document wins when it is non-empty; otherwise names are inferred from boards.
func TeamNames(s tracker.State) []string {
	var names []string
	if len(s.Teams) > 0 {
		for _, t := range s.Teams {
			names = append(names, t.Name)
		}
	} else {
		for _, b := range s.Boards {
			names = append(names, b.Team)
		}
	}
	return distinct(names)
}

// TeamFilters returns the "All" filter followed by one filter per team name
func TeamFilters(s tracker.State, active string) []Filter {
	filters := []Filter{{Label: FilterAll, Active: active == FilterAll}}
	for _, name := range TeamNames(s) {
		filters = append(filters, Filter{Label: name, Active: active == name})
	}
	return filters
}

// TeamOptions returns the choices for a board's team: none, every team name
// already used by a board, and a free-text option
func TeamOptions(s tracker.State) []string {
	var names []string
	for _, b := range s.Boards {
		names = append(names, b.Team)
	}
	opts := []string{OptionNoTeam}
	opts = append(opts, distinct(names)...)
	return append(opts, OptionOther)
}

// BuildGallery returns the boards shown under a team filter
func BuildGallery(s tracker.State, filter string) Gallery {
	var g Gallery
	for _, b := range s.Boards {
		if filter == FilterAll || b.Team == filter {
			g.Boards = append(g.Boards, boardCard(b))
		}
	}
	if len(g.Boards) == 0 {
		g.Empty = MsgNoBoards
	}
	return g
}

// Search matches query case-insensitively against board and team names.
// An empty query returns nil so the caller falls back to the filtered gallery.
func Search(s tracker.State, query string) *Gallery {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	g := &Gallery{}
	for _, b := range s.Boards {
		if strings.Contains(strings.ToLower(b.Name), q) || strings.Contains(strings.ToLower(b.Team), q) {
			g.Boards = append(g.Boards, boardCard(b))
		}
	}
	if len(g.Boards) == 0 {
		g.Empty = MsgNoMatches
	}
	return g
}

// BuildBoardDetail projects a board into its three columns
func BuildBoardDetail(s tracker.State, id string) BoardDetail {
	b := s.FindBoard(id)
	if b == nil {
		return BoardDetail{Message: MsgBoardNotFound}
	}

	d := BoardDetail{Found: true, ID: b.ID, Title: b.Name, Team: b.Team}
	for _, col := range model.Columns {
		cv := ColumnView{Column: col, Title: col.Title()}
		for _, c := range b.CardsIn(col) {
			item := CardItem{ID: c.ID, Title: c.Title, Description: c.Description}
			if col == model.ColumnDone {
				item.Redeem = redeemControl(c)
			}
			cv.Cards = append(cv.Cards, item)
		}
		d.Columns = append(d.Columns, cv)
	}
	return d
}

// BuildTeams projects the teams document
func BuildTeams(s tracker.State) ([]TeamCard, string) {
	if len(s.Teams) == 0 {
		return nil, MsgNoTeams
	}
	cards := make([]TeamCard, 0, len(s.Teams))
	for _, t := range s.Teams {
		cards = append(cards, TeamCard{
			ID:         t.ID,
			Name:       t.Name,
			Meta:       fmt.Sprintf("%d members • Last updated %s", len(t.Members), formatTime(t.Updated())),
			Members:    t.Members,
			Background: t.Background,
		})
	}
	return cards, ""
}

// BuildRewards projects the rewards document and the redeem catalog
func BuildRewards(s tracker.State, catalog []model.CatalogItem) RewardsPanel {
	r := s.Rewards
	p := RewardsPanel{Points: r.Points, Catalog: catalog}
	for _, g := range r.Goals {
		title := g.Title
		if title == "" {
			title = "Untitled"
		}
		p.Goals = append(p.Goals, GoalItem{
			ID:        g.ID,
			Title:     title,
			Target:    g.Target,
			Meta:      fmt.Sprintf("Target: %d pts", g.Target),
			Percent:   r.Percent(g),
			Claimable: r.Claimable(g),
		})
	}
	if len(p.Goals) == 0 {
		p.Empty = MsgNoGoals
	}
	return p
}

func boardCard(b model.Board) BoardCard {
	return BoardCard{
		ID:         b.ID,
		Name:       b.Name,
		Meta:       fmt.Sprintf("%s • Last updated %s", b.TeamLabel(), formatTime(b.Updated())),
		Background: b.Background,
	}
}

func redeemControl(c model.Card) *RedeemControl {
	if c.Redeemed {
		return &RedeemControl{Label: "Redeemed", Enabled: false}
	}
	return &RedeemControl{Label: fmt.Sprintf("Redeem +%d pts", model.CardReward), Enabled: true}
}

func formatTime(t time.Time) string {
	return t.Local().Format(TimeFormat)
}

// distinct drops blanks and duplicates, keeping first-seen order
func distinct(names []string) []string {
	seen := make(map[string]bool, len(names))
	var out []string
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
