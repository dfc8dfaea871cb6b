package model

import (
	"time"
)

// Column is the kanban column a card sits in
type Column string

const (
	ColumnTodo       Column = "todo"
	ColumnInProgress Column = "inprogress"
	ColumnDone       Column = "done"
)

// Columns lists the board columns in display order
var Columns = []Column{ColumnTodo, ColumnInProgress, ColumnDone}

// Valid returns true for one of the three known columns
func (c Column) Valid() bool {
	switch c {
	case ColumnTodo, ColumnInProgress, ColumnDone:
		return true
	}
	return false
}

// Title returns the column header text
func (c Column) Title() string {
	switch c {
	case ColumnTodo:
		return "Todo"
	case ColumnInProgress:
		return "In Progress"
	case ColumnDone:
		return "Done"
	default:
		return string(c)
	}
}

// Board is a named collection of cards, optionally tagged with a team name
type Board struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Team       string `json:"team,omitempty"`
	UpdatedAt  int64  `json:"updatedAt"` // Unix milliseconds
	Background string `json:"background,omitempty"`
	Cards      []Card `json:"cards"`
}

// Card is owned by exactly one board
type Card struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Column      Column `json:"column"`
	Redeemed    bool   `json:"redeemed,omitempty"` // One-way: never reset once set
}

// Updated returns UpdatedAt as a time
func (b *Board) Updated() time.Time {
	return time.UnixMilli(b.UpdatedAt)
}

// Touch bumps the last-updated timestamp
func (b *Board) Touch(now time.Time) {
	b.UpdatedAt = now.UnixMilli()
}

// TeamLabel returns the team name or a placeholder
func (b *Board) TeamLabel() string {
	if b.Team == "" {
		return "No team"
	}
	return b.Team
}

// Card returns the card with the given ID, or nil
func (b *Board) Card(id string) *Card {
	for i := range b.Cards {
		if b.Cards[i].ID == id {
			return &b.Cards[i]
		}
	}
	return nil
}

// CardsIn returns the cards in a column, preserving order
func (b *Board) CardsIn(col Column) []Card {
	var cards []Card
	for _, c := range b.Cards {
		if c.Column == col {
			cards = append(cards, c)
		}
	}
	return cards
}

// Clone returns a deep copy of the board
func (b Board) Clone() Board {
	if b.Cards != nil {
		cards := make([]Card, len(b.Cards))
		copy(cards, b.Cards)
		b.Cards = cards
	}
	return b
}
