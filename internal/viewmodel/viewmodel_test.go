package viewmodel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dori/tallyboard/internal/model"
	"github.com/dori/tallyboard/internal/tracker"
)

var now = time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)

func names(g Gallery) []string {
	var out []string
	for _, b := range g.Boards {
		out = append(out, b.Name)
	}
	return out
}

func TestSprintScenario(t *testing.T) {
	s := tracker.State{Rewards: model.Rewards{Goals: []model.Goal{}}}
	s, _, _ = tracker.CreateBoard(s, "Old", "Other", "", now)

	s, _, err := tracker.CreateBoard(s, "Sprint 1", "Core", "", now)
	require.NoError(t, err)
	boardID := s.Boards[0].ID

	assert.Equal(t, []string{"Sprint 1"}, names(BuildGallery(s, "Core")))
	assert.Equal(t, "Sprint 1", BuildGallery(s, FilterAll).Boards[0].Name)

	s, _, err = tracker.AddCard(s, boardID, "Fix bug", "", model.ColumnTodo, now)
	require.NoError(t, err)
	cardID := s.Boards[0].Cards[0].ID

	d := BuildBoardDetail(s, boardID)
	require.True(t, d.Found)
	require.Len(t, d.Columns, 3)
	assert.Equal(t, model.ColumnTodo, d.Columns[0].Column)
	require.Len(t, d.Columns[0].Cards, 1)
	assert.Equal(t, "Fix bug", d.Columns[0].Cards[0].Title)
	assert.Nil(t, d.Columns[0].Cards[0].Redeem)

	s, _, err = tracker.MoveCard(s, boardID, cardID, model.ColumnDone, now)
	require.NoError(t, err)
	d = BuildBoardDetail(s, boardID)
	assert.Empty(t, d.Columns[0].Cards)
	require.Len(t, d.Columns[2].Cards, 1)
	require.NotNil(t, d.Columns[2].Cards[0].Redeem)
	assert.True(t, d.Columns[2].Cards[0].Redeem.Enabled)
	assert.Equal(t, "Redeem +10 pts", d.Columns[2].Cards[0].Redeem.Label)

	s, _ = tracker.RedeemCard(s, boardID, cardID)
	assert.Equal(t, 10, s.Rewards.Points)
	d = BuildBoardDetail(s, boardID)
	assert.False(t, d.Columns[2].Cards[0].Redeem.Enabled)
	assert.Equal(t, "Redeemed", d.Columns[2].Cards[0].Redeem.Label)

	s, _ = tracker.RedeemCard(s, boardID, cardID)
	assert.Equal(t, 10, s.Rewards.Points)
}

func TestSearch(t *testing.T) {
	s := tracker.State{Boards: []model.Board{
		{ID: "b_1", Name: "Product Board", Team: "Core Team"},
		{ID: "b_2", Name: "Marketing", Team: "Growth"},
	}}

	got := Search(s, "market")
	require.NotNil(t, got)
	assert.Equal(t, []string{"Marketing"}, names(*got))

	got = Search(s, "  CORE ")
	require.NotNil(t, got)
	assert.Equal(t, []string{"Product Board"}, names(*got), "team names match too")

	got = Search(s, "zzz")
	require.NotNil(t, got)
	assert.Empty(t, got.Boards)
	assert.Equal(t, MsgNoMatches, got.Empty)

	assert.Nil(t, Search(s, "   "))
}

func TestTeamFilters(t *testing.T) {
	boards := []model.Board{
		{ID: "b_1", Name: "A", Team: "Growth"},
		{ID: "b_2", Name: "B"},
		{ID: "b_3", Name: "C", Team: "Growth"},
		{ID: "b_4", Name: "D", Team: "Ops"},
	}

	inferred := TeamFilters(tracker.State{Boards: boards}, "Ops")
	assert.Equal(t, []Filter{
		{Label: "All"},
		{Label: "Growth"},
		{Label: "Ops", Active: true},
	}, inferred)

	explicit := TeamFilters(tracker.State{
		Boards: boards,
		Teams:  []model.Team{{ID: "t_1", Name: "Core Team"}, {ID: "t_2", Name: "Core Team"}},
	}, FilterAll)
	assert.Equal(t, []Filter{
		{Label: "All", Active: true},
		{Label: "Core Team"},
	}, explicit)
}

func TestTeamOptions(t *testing.T) {
	s := tracker.State{
		Boards: []model.Board{{Team: "Growth"}, {Team: ""}, {Team: "Growth"}, {Team: "Ops"}},
		Teams:  []model.Team{{Name: "Ignored"}},
	}
	assert.Equal(t, []string{OptionNoTeam, "Growth", "Ops", OptionOther}, TeamOptions(s))
}

func TestBuildGalleryEmpty(t *testing.T) {
	g := BuildGallery(tracker.State{Boards: []model.Board{{Name: "A", Team: "X"}}}, "Y")
	assert.Empty(t, g.Boards)
	assert.Equal(t, MsgNoBoards, g.Empty)
}

func TestGalleryMeta(t *testing.T) {
	s := tracker.State{Boards: []model.Board{{ID: "b_1", Name: "A", UpdatedAt: now.UnixMilli()}}}

	g := BuildGallery(s, FilterAll)
	require.Len(t, g.Boards, 1)
	assert.Equal(t, "No team • Last updated "+now.Local().Format(TimeFormat), g.Boards[0].Meta)
}

func TestBoardNotFound(t *testing.T) {
	d := BuildBoardDetail(tracker.State{}, "b_missing")
	assert.False(t, d.Found)
	assert.Equal(t, MsgBoardNotFound, d.Message)
}

func TestBuildTeams(t *testing.T) {
	cards, empty := BuildTeams(tracker.State{})
	assert.Nil(t, cards)
	assert.Equal(t, MsgNoTeams, empty)

	cards, empty = BuildTeams(tracker.State{Teams: []model.Team{
		{ID: "t_1", Name: "Core", Members: []string{"a", "b"}, UpdatedAt: now.UnixMilli()},
	}})
	assert.Empty(t, empty)
	require.Len(t, cards, 1)
	assert.Contains(t, cards[0].Meta, "2 members • Last updated ")
}

func TestBuildRewardsProgress(t *testing.T) {
	s := tracker.State{Rewards: model.Rewards{
		Points: 30,
		Goals: []model.Goal{
			{ID: "g_1", Title: "Half", Target: 60},
			{ID: "g_2", Title: "Over", Target: 20},
			{ID: "g_3", Title: "", Target: 0},
			{ID: "g_4", Title: "Third", Target: 90},
		},
	}}
	catalog := []model.CatalogItem{{Name: "Coffee break", Cost: 20}}

	p := BuildRewards(s, catalog)
	assert.Equal(t, 30, p.Points)
	assert.Equal(t, catalog, p.Catalog)
	require.Len(t, p.Goals, 4)

	assert.Equal(t, 50, p.Goals[0].Percent)
	assert.False(t, p.Goals[0].Claimable)

	assert.Equal(t, 100, p.Goals[1].Percent)
	assert.True(t, p.Goals[1].Claimable)

	assert.Equal(t, 0, p.Goals[2].Percent)
	assert.False(t, p.Goals[2].Claimable, "zero targets are never claimable")
	assert.Equal(t, "Untitled", p.Goals[2].Title)

	assert.Equal(t, 33, p.Goals[3].Percent)
	assert.Equal(t, "Target: 90 pts", p.Goals[3].Meta)

	assert.Equal(t, MsgNoGoals, BuildRewards(tracker.State{}, nil).Empty)
}
