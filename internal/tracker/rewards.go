package tracker

import (
	"math"
	"strings"

	"github.com/dori/tallyboard/internal/model"
)

// EarnPoints adds amount (which may be negative) to the balance, flooring at zero.
// A NaN amount counts as zero.
func EarnPoints(s State, amount float64) (State, Effect) {
	if math.IsNaN(amount) {
		amount = 0
	}
	s.Rewards.Points = model.Round(math.Max(0, float64(s.Rewards.Points)+amount))
	return s, EffectRewards
}

// Redeem spends cost points. It fails without touching the balance when cost is
// not a positive number or exceeds the balance.
func Redeem(s State, cost float64) (State, Effect, error) {
	if math.IsNaN(cost) || cost <= 0 {
		return s, EffectNone, ErrInvalidCost
	}
	if float64(s.Rewards.Points) < cost {
		return s, EffectNone, ErrInsufficientPoints
	}
	s.Rewards.Points = model.Round(float64(s.Rewards.Points) - cost)
	return s, EffectRewards, nil
}

// AddGoal prepends a goal. Targets below one are rejected; a blank title becomes "Untitled".
func AddGoal(s State, title string, target float64) (State, Effect, error) {
	if math.IsNaN(target) || target < 1 {
		return s, EffectNone, ErrInvalidTarget
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = "Untitled"
	}

	g := model.Goal{
		ID:     model.NewID(model.PrefixGoal),
		Title:  title,
		Target: model.Round(math.Max(0, target)),
	}

	goals := make([]model.Goal, 0, len(s.Rewards.Goals)+1)
	goals = append(goals, g)
	goals = append(goals, s.Rewards.Goals...)
	s.Rewards.Goals = goals
	return s, EffectRewards, nil
}

// RemoveGoal drops a goal without spending points
func RemoveGoal(s State, id string) (State, Effect) {
	s.Rewards.Goals = withoutGoal(s.Rewards.Goals, id)
	return s, EffectRewards
}

// ClaimGoal spends a goal's target and removes it in one step. It returns the
// claimed goal; an unknown ID is a no-op returning nil.
func ClaimGoal(s State, id string) (State, Effect, *model.Goal, error) {
	g := s.Rewards.Goal(id)
	if g == nil {
		return s, EffectNone, nil, nil
	}
	if s.Rewards.Points < g.Target {
		return s, EffectNone, nil, ErrInsufficientPoints
	}

	claimed := *g
	s.Rewards.Points = model.Round(float64(s.Rewards.Points - claimed.Target))
	s.Rewards.Goals = withoutGoal(s.Rewards.Goals, id)
	return s, EffectRewards, &claimed, nil
}

// RedeemItem spends points on a catalog item
func RedeemItem(s State, item model.CatalogItem) (State, Effect, error) {
	return Redeem(s, float64(item.Cost))
}

func withoutGoal(goals []model.Goal, id string) []model.Goal {
	out := make([]model.Goal, 0, len(goals))
	for _, g := range goals {
		if g.ID != id {
			out = append(out, g)
		}
	}
	return out
}
