package db

import (
	"time"

	"github.com/dori/tallyboard/internal/model"
)

// SeedBoards returns the sample boards written on first run
func SeedBoards(now time.Time) []model.Board {
	return []model.Board{
		{
			ID:        model.NewID(model.PrefixBoard),
			Name:      "Product Board",
			Team:      "Core Team",
			UpdatedAt: now.Add(-24 * time.Hour).UnixMilli(),
			Cards:     []model.Card{},
		},
		{
			ID:        model.NewID(model.PrefixBoard),
			Name:      "Marketing",
			Team:      "Growth",
			UpdatedAt: now.Add(-5 * time.Hour).UnixMilli(),
			Cards:     []model.Card{},
		},
	}
}

// SeedTeams returns the sample teams written on first run
func SeedTeams(now time.Time) []model.Team {
	return []model.Team{
		{
			ID:         model.NewID(model.PrefixTeam),
			Name:       "Core Team",
			Members:    []string{"alex@example.com"},
			Background: "#6f42c1",
			UpdatedAt:  now.Add(-48 * time.Hour).UnixMilli(),
		},
	}
}

// SeedRewards returns an empty rewards document
func SeedRewards() model.Rewards {
	return model.Rewards{Points: 0, Goals: []model.Goal{}}
}

// LoadBoards loads the boards document, seeding it on first run
func (db *DB) LoadBoards(now time.Time) []model.Board {
	boards := LoadDocument(db, KeyBoards, func() []model.Board { return SeedBoards(now) })
	if boards == nil {
		boards = []model.Board{}
	}
	return boards
}

// LoadTeams loads the teams document, seeding it on first run
func (db *DB) LoadTeams(now time.Time) []model.Team {
	teams := LoadDocument(db, KeyTeams, func() []model.Team { return SeedTeams(now) })
	if teams == nil {
		teams = []model.Team{}
	}
	return teams
}
