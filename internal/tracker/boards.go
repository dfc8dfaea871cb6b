package tracker

import (
	"strings"
	"time"

	"github.com/dori/tallyboard/internal/model"
)

// CreateBoard prepends a new empty board
func CreateBoard(s State, name, team, background string, now time.Time) (State, Effect, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s, EffectNone, ErrNameRequired
	}

	b := model.Board{
		ID:         model.NewID(model.PrefixBoard),
		Name:       name,
		Team:       strings.TrimSpace(team),
		UpdatedAt:  now.UnixMilli(),
		Background: background,
		Cards:      []model.Card{},
	}

	boards := make([]model.Board, 0, len(s.Boards)+1)
	boards = append(boards, b)
	boards = append(boards, s.Boards...)
	s.Boards = boards
	return s, EffectBoards, nil
}

// DeleteBoard removes the board with the given ID
func DeleteBoard(s State, id string) (State, Effect) {
	boards := make([]model.Board, 0, len(s.Boards))
	for _, b := range s.Boards {
		if b.ID != id {
			boards = append(boards, b)
		}
	}
	s.Boards = boards
	return s, EffectBoards
}

// AddCard appends a card to a board column. An empty title or unknown board is a no-op.
func AddCard(s State, boardID, title, description string, col model.Column, now time.Time) (State, Effect, error) {
	title = strings.TrimSpace(title)
	if title == "" || s.FindBoard(boardID) == nil {
		return s, EffectNone, nil
	}
	if !col.Valid() {
		return s, EffectNone, ErrInvalidColumn
	}

	card := model.Card{
		ID:          model.NewID(model.PrefixCard),
		Title:       title,
		Description: strings.TrimSpace(description),
		Column:      col,
	}

	s = updateBoard(s, boardID, func(b *model.Board) {
		b.Cards = append(b.Cards, card)
		b.Touch(now)
	})
	return s, EffectBoards, nil
}

// MoveCard reassigns a card's column. Unknown boards or cards are a no-op.
func MoveCard(s State, boardID, cardID string, col model.Column, now time.Time) (State, Effect, error) {
	if !col.Valid() {
		return s, EffectNone, ErrInvalidColumn
	}

	b := s.FindBoard(boardID)
	if b == nil || b.Card(cardID) == nil {
		return s, EffectNone, nil
	}

	s = updateBoard(s, boardID, func(b *model.Board) {
		b.Card(cardID).Column = col
		b.Touch(now)
	})
	return s, EffectBoards, nil
}

// RedeemCard awards CardReward points for a card and marks it redeemed.
// Already-redeemed or unknown cards are a no-op, whatever the point balance.
func RedeemCard(s State, boardID, cardID string) (State, Effect) {
	b := s.FindBoard(boardID)
	if b == nil {
		return s, EffectNone
	}
	c := b.Card(cardID)
	if c == nil || c.Redeemed {
		return s, EffectNone
	}

	s, _ = EarnPoints(s, model.CardReward)
	s = updateBoard(s, boardID, func(b *model.Board) {
		b.Card(cardID).Redeemed = true
	})
	return s, EffectBoards | EffectRewards
}

// updateBoard copies the board list and applies fn to a copy of the matching board
func updateBoard(s State, id string, fn func(*model.Board)) State {
	boards := make([]model.Board, len(s.Boards))
	copy(boards, s.Boards)
	for i := range boards {
		if boards[i].ID == id {
			b := boards[i].Clone()
			fn(&b)
			boards[i] = b
			break
		}
	}
	s.Boards = boards
	return s
}
