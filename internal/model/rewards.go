package model

import (
	"math"
)

// CardReward is the number of points awarded for redeeming a done card
const CardReward = 10

// Goal is something the user is saving points for
type Goal struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Target int    `json:"target"`
}

// Rewards is the singleton points document
type Rewards struct {
	Points int    `json:"points"`
	Goals  []Goal `json:"goals"`
}

// Percent returns progress towards g as a whole percentage capped at 100
func (r *Rewards) Percent(g Goal) int {
	if g.Target <= 0 {
		return 0
	}
	pct := Round(float64(r.Points) / float64(g.Target) * 100)
	if pct > 100 {
		return 100
	}
	return pct
}

// Claimable returns true if g can be claimed with the current balance
func (r *Rewards) Claimable(g Goal) bool {
	return g.Target > 0 && r.Points >= g.Target
}

// Goal returns the goal with the given ID, or nil
func (r *Rewards) Goal(id string) *Goal {
	for i := range r.Goals {
		if r.Goals[i].ID == id {
			return &r.Goals[i]
		}
	}
	return nil
}

// CatalogItem is a fixed-cost reward that can be bought with points
type CatalogItem struct {
	Name string `json:"name"`
	Cost int    `json:"cost"`
}

// Round rounds to the nearest integer with halves going towards +Inf
func Round(f float64) int {
	return int(math.Floor(f + 0.5))
}
