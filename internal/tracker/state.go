// Package tracker holds the application state and the pure mutators that
// transform it. Mutators never modify their input; they return a new State
// and an Effect naming the documents that must be persisted.
package tracker

import (
	"errors"
	"time"

	"github.com/dori/tallyboard/internal/db"
	"github.com/dori/tallyboard/internal/model"
)

// Sentinel errors for rejected user input
var (
	ErrNameRequired       = errors.New("tracker: name is required")
	ErrInvalidColumn      = errors.New("tracker: invalid column")
	ErrInvalidCost        = errors.New("tracker: cost must be a positive number")
	ErrInvalidTarget      = errors.New("tracker: target must be greater than zero")
	ErrInsufficientPoints = errors.New("tracker: not enough points")
)

// State is the whole in-memory application state
type State struct {
	Boards  []model.Board
	Teams   []model.Team
	Rewards model.Rewards
}

// Effect is the set of documents a mutation dirtied
type Effect uint8

const (
	EffectBoards Effect = 1 << iota
	EffectTeams
	EffectRewards

	EffectNone Effect = 0
)

// Has reports whether e includes other
func (e Effect) Has(other Effect) bool {
	return e&other != 0
}

// Store is the persistence side of an Effect
type Store interface {
	SaveDocuments(docs map[string]any) error
}

// Load builds the initial state from the persisted documents
func Load(database *db.DB, now time.Time) State {
	return State{
		Boards:  database.LoadBoards(now),
		Teams:   database.LoadTeams(now),
		Rewards: database.LoadRewards(),
	}
}

// Persist writes the documents named by effect. Each document is overwritten in full.
func Persist(store Store, s State, effect Effect) error {
	if effect == EffectNone {
		return nil
	}

	docs := make(map[string]any, 3)
	if effect.Has(EffectBoards) {
		docs[db.KeyBoards] = nonNil(s.Boards)
	}
	if effect.Has(EffectTeams) {
		docs[db.KeyTeams] = nonNil(s.Teams)
	}
	if effect.Has(EffectRewards) {
		r := s.Rewards
		r.Goals = nonNil(r.Goals)
		docs[db.KeyRewards] = r
	}
	return store.SaveDocuments(docs)
}

// nonNil keeps empty collections encoding as [] rather than null
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// FindBoard returns the board with the given ID, or nil
func (s State) FindBoard(id string) *model.Board {
	for i := range s.Boards {
		if s.Boards[i].ID == id {
			return &s.Boards[i]
		}
	}
	return nil
}

// FindTeam returns the team with the given ID, or nil
func (s State) FindTeam(id string) *model.Team {
	for i := range s.Teams {
		if s.Teams[i].ID == id {
			return &s.Teams[i]
		}
	}
	return nil
}
