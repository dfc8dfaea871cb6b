package tracker

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dori/tallyboard/internal/db"
	"github.com/dori/tallyboard/internal/model"
)

var now = time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)

func emptyState() State {
	return State{Boards: []model.Board{}, Teams: []model.Team{}, Rewards: model.Rewards{Goals: []model.Goal{}}}
}

func TestCreateBoard(t *testing.T) {
	s := emptyState()

	s, eff, err := CreateBoard(s, "  Sprint 1 ", "Core", "#fff", now)
	require.NoError(t, err)
	assert.Equal(t, EffectBoards, eff)
	require.Len(t, s.Boards, 1)

	b := s.Boards[0]
	assert.Equal(t, "Sprint 1", b.Name)
	assert.Equal(t, "Core", b.Team)
	assert.Equal(t, "#fff", b.Background)
	assert.Equal(t, now.UnixMilli(), b.UpdatedAt)
	assert.NotNil(t, b.Cards)
	assert.Empty(t, b.Cards)

	s, _, err = CreateBoard(s, "Sprint 2", "", "", now)
	require.NoError(t, err)
	assert.Equal(t, "Sprint 2", s.Boards[0].Name, "new boards are prepended")
}

func TestCreateBoardRequiresName(t *testing.T) {
	s := emptyState()

	got, eff, err := CreateBoard(s, "   ", "Core", "", now)
	assert.ErrorIs(t, err, ErrNameRequired)
	assert.Equal(t, EffectNone, eff)
	assert.Empty(t, got.Boards)
}

func TestDeleteBoardThenLookup(t *testing.T) {
	s := emptyState()
	for _, name := range []string{"A", "B", "C"} {
		s, _, _ = CreateBoard(s, name, "", "", now)
	}

	for _, b := range s.Boards {
		after, eff := DeleteBoard(s, b.ID)
		assert.Equal(t, EffectBoards, eff)
		assert.Nil(t, after.FindBoard(b.ID))
		assert.Len(t, after.Boards, 2)
	}
	assert.Len(t, s.Boards, 3, "input state is not modified")
}

func TestAddCard(t *testing.T) {
	s, _, _ := CreateBoard(emptyState(), "Board", "", "", now.Add(-time.Hour))
	id := s.Boards[0].ID

	s2, eff, err := AddCard(s, id, "Fix bug", " details ", model.ColumnTodo, now)
	require.NoError(t, err)
	assert.Equal(t, EffectBoards, eff)

	b := s2.FindBoard(id)
	require.Len(t, b.Cards, 1)
	assert.Equal(t, "Fix bug", b.Cards[0].Title)
	assert.Equal(t, "details", b.Cards[0].Description)
	assert.Equal(t, model.ColumnTodo, b.Cards[0].Column)
	assert.Equal(t, now.UnixMilli(), b.UpdatedAt)

	assert.Empty(t, s.FindBoard(id).Cards, "input state is not modified")
}

func TestAddCardNoOps(t *testing.T) {
	s, _, _ := CreateBoard(emptyState(), "Board", "", "", now)
	id := s.Boards[0].ID

	tests := []struct {
		name    string
		boardID string
		title   string
		col     model.Column
		wantErr error
	}{
		{name: "blank title", boardID: id, title: "  ", col: model.ColumnTodo},
		{name: "unknown board", boardID: "b_missing", title: "x", col: model.ColumnTodo},
		{name: "bad column", boardID: id, title: "x", col: "later", wantErr: ErrInvalidColumn},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, eff, err := AddCard(s, tc.boardID, tc.title, "", tc.col, now)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, EffectNone, eff)
			assert.Equal(t, s, got)
		})
	}
}

func TestMoveCard(t *testing.T) {
	s, _, _ := CreateBoard(emptyState(), "Board", "", "", now)
	id := s.Boards[0].ID
	s, _, _ = AddCard(s, id, "Card", "", model.ColumnTodo, now)
	cardID := s.Boards[0].Cards[0].ID

	later := now.Add(time.Minute)
	s2, eff, err := MoveCard(s, id, cardID, model.ColumnDone, later)
	require.NoError(t, err)
	assert.Equal(t, EffectBoards, eff)
	assert.Equal(t, model.ColumnDone, s2.FindBoard(id).Cards[0].Column)
	assert.Equal(t, later.UnixMilli(), s2.FindBoard(id).UpdatedAt)
	assert.Equal(t, model.ColumnTodo, s.FindBoard(id).Cards[0].Column)

	// stale payloads are silently ignored
	s3, eff, err := MoveCard(s, id, "c_gone", model.ColumnDone, later)
	require.NoError(t, err)
	assert.Equal(t, EffectNone, eff)
	assert.Equal(t, s, s3)

	_, _, err = MoveCard(s, id, cardID, "nowhere", later)
	assert.ErrorIs(t, err, ErrInvalidColumn)
}

func TestRedeemCardOnce(t *testing.T) {
	s, _, _ := CreateBoard(emptyState(), "Board", "", "", now)
	id := s.Boards[0].ID
	s, _, _ = AddCard(s, id, "Card", "", model.ColumnDone, now)
	cardID := s.Boards[0].Cards[0].ID

	s, eff := RedeemCard(s, id, cardID)
	assert.Equal(t, EffectBoards|EffectRewards, eff)
	assert.Equal(t, model.CardReward, s.Rewards.Points)
	assert.True(t, s.FindBoard(id).Card(cardID).Redeemed)

	again, eff := RedeemCard(s, id, cardID)
	assert.Equal(t, EffectNone, eff)
	assert.Equal(t, model.CardReward, again.Rewards.Points)

	// spending the points does not re-enable redemption
	spent, _, err := Redeem(s, 10)
	require.NoError(t, err)
	spent, eff = RedeemCard(spent, id, cardID)
	assert.Equal(t, EffectNone, eff)
	assert.Equal(t, 0, spent.Rewards.Points)
}

func TestCreateTeam(t *testing.T) {
	s, eff, err := CreateTeam(emptyState(), "Growth", " a@x.io, ,b@x.io ,", "#111", now)
	require.NoError(t, err)
	assert.Equal(t, EffectTeams, eff)
	require.Len(t, s.Teams, 1)
	assert.Equal(t, []string{"a@x.io", "b@x.io"}, s.Teams[0].Members)
	assert.Equal(t, now.UnixMilli(), s.Teams[0].UpdatedAt)

	_, _, err = CreateTeam(s, "", "a", "", now)
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestDeleteTeamKeepsBoardTags(t *testing.T) {
	s, _, _ := CreateTeam(emptyState(), "Growth", "", "", now)
	s, _, _ = CreateBoard(s, "Launch", "Growth", "", now)

	s, eff := DeleteTeam(s, s.Teams[0].ID)
	assert.Equal(t, EffectTeams, eff)
	assert.Empty(t, s.Teams)
	assert.Equal(t, "Growth", s.Boards[0].Team)
}

func TestPointsNeverNegative(t *testing.T) {
	s := emptyState()
	ops := []float64{10, -25, 3.6, -1, 7, -100, 0.4, 12}

	for i, amount := range ops {
		s, _ = EarnPoints(s, amount)
		assert.GreaterOrEqual(t, s.Rewards.Points, 0, "after op %d", i)

		s, _, _ = Redeem(s, float64(i))
		assert.GreaterOrEqual(t, s.Rewards.Points, 0, "after redeem %d", i)
	}
}

func TestEarnPoints(t *testing.T) {
	tests := []struct {
		name   string
		start  int
		amount float64
		want   int
	}{
		{name: "adds", start: 5, amount: 10, want: 15},
		{name: "floors at zero", start: 5, amount: -10, want: 0},
		{name: "rounds half up", start: 0, amount: 2.5, want: 3},
		{name: "nan ignored", start: 4, amount: math.NaN(), want: 4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := emptyState()
			s.Rewards.Points = tc.start
			s, eff := EarnPoints(s, tc.amount)
			assert.Equal(t, EffectRewards, eff)
			assert.Equal(t, tc.want, s.Rewards.Points)
		})
	}
}

func TestRedeem(t *testing.T) {
	tests := []struct {
		name    string
		cost    float64
		want    int
		wantErr error
	}{
		{name: "deducts", cost: 20, want: 30},
		{name: "exact balance", cost: 50, want: 0},
		{name: "zero cost", cost: 0, want: 50, wantErr: ErrInvalidCost},
		{name: "negative cost", cost: -5, want: 50, wantErr: ErrInvalidCost},
		{name: "nan cost", cost: math.NaN(), want: 50, wantErr: ErrInvalidCost},
		{name: "too expensive", cost: 51, want: 50, wantErr: ErrInsufficientPoints},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := emptyState()
			s.Rewards.Points = 50

			s, eff, err := Redeem(s, tc.cost)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Equal(t, EffectNone, eff)
			} else {
				require.NoError(t, err)
				assert.Equal(t, EffectRewards, eff)
			}
			assert.Equal(t, tc.want, s.Rewards.Points)
		})
	}
}

func TestAddGoal(t *testing.T) {
	s, eff, err := AddGoal(emptyState(), "Bike", 99.6)
	require.NoError(t, err)
	assert.Equal(t, EffectRewards, eff)
	require.Len(t, s.Rewards.Goals, 1)
	assert.Equal(t, "Bike", s.Rewards.Goals[0].Title)
	assert.Equal(t, 100, s.Rewards.Goals[0].Target)

	s, _, err = AddGoal(s, "  ", 5)
	require.NoError(t, err)
	assert.Equal(t, "Untitled", s.Rewards.Goals[0].Title, "goals are prepended")
}

func TestAddGoalRejectsNonPositiveTarget(t *testing.T) {
	for _, target := range []float64{0, -3, 0.5, math.NaN()} {
		s := emptyState()
		s.Rewards.Points = 7

		got, eff, err := AddGoal(s, "Bike", target)
		assert.ErrorIs(t, err, ErrInvalidTarget, "target %v", target)
		assert.Equal(t, EffectNone, eff)
		assert.Empty(t, got.Rewards.Goals)
		assert.Equal(t, 7, got.Rewards.Points)
	}
}

func TestClaimGoal(t *testing.T) {
	s, _, _ := AddGoal(emptyState(), "Bike", 30)
	s, _, _ = AddGoal(s, "Book", 80)
	s.Rewards.Points = 45
	bikeID := s.Rewards.Goals[1].ID
	bookID := s.Rewards.Goals[0].ID

	after, eff, claimed, err := ClaimGoal(s, bikeID)
	require.NoError(t, err)
	assert.Equal(t, EffectRewards, eff)
	require.NotNil(t, claimed)
	assert.Equal(t, "Bike", claimed.Title)
	assert.Equal(t, 15, after.Rewards.Points)
	assert.Nil(t, after.Rewards.Goal(bikeID))
	assert.NotNil(t, after.Rewards.Goal(bookID))

	same, eff, claimed, err := ClaimGoal(s, bookID)
	assert.ErrorIs(t, err, ErrInsufficientPoints)
	assert.Equal(t, EffectNone, eff)
	assert.Nil(t, claimed)
	assert.Equal(t, s, same)

	_, eff, claimed, err = ClaimGoal(s, "g_missing")
	assert.NoError(t, err)
	assert.Nil(t, claimed)
	assert.Equal(t, EffectNone, eff)
}

func TestRemoveGoal(t *testing.T) {
	s, _, _ := AddGoal(emptyState(), "Bike", 30)
	s.Rewards.Points = 3

	s, eff := RemoveGoal(s, s.Rewards.Goals[0].ID)
	assert.Equal(t, EffectRewards, eff)
	assert.Empty(t, s.Rewards.Goals)
	assert.Equal(t, 3, s.Rewards.Points)
}

type fakeStore struct {
	saved map[string]any
}

func (f *fakeStore) SaveDocuments(docs map[string]any) error {
	f.saved = docs
	return nil
}

func TestPersistWritesOnlyDirtyDocuments(t *testing.T) {
	s := State{}

	store := &fakeStore{}
	require.NoError(t, Persist(store, s, EffectBoards|EffectRewards))
	assert.Contains(t, store.saved, db.KeyBoards)
	assert.Contains(t, store.saved, db.KeyRewards)
	assert.NotContains(t, store.saved, db.KeyTeams)
	assert.Equal(t, []model.Board{}, store.saved[db.KeyBoards])

	store = &fakeStore{}
	require.NoError(t, Persist(store, s, EffectNone))
	assert.Nil(t, store.saved)
}

func TestLoadPersistRoundTrip(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "t.db"), zerolog.Nop())
	require.NoError(t, err)
	defer database.Close()

	s := Load(database, now)
	require.Len(t, s.Boards, 2)

	s, eff, err := CreateBoard(s, "Sprint 1", "Core", "", now)
	require.NoError(t, err)
	require.NoError(t, Persist(database, s, eff))

	reloaded := Load(database, now)
	assert.Equal(t, s.Boards, reloaded.Boards)
}
