package tracker

import (
	"strings"
	"time"

	"github.com/dori/tallyboard/internal/model"
)

// ParseMembers splits a comma-separated member list, dropping blanks
func ParseMembers(csv string) []string {
	members := []string{}
	for _, m := range strings.Split(csv, ",") {
		if m = strings.TrimSpace(m); m != "" {
			members = append(members, m)
		}
	}
	return members
}

// CreateTeam prepends a new team
func CreateTeam(s State, name, membersCSV, background string, now time.Time) (State, Effect, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s, EffectNone, ErrNameRequired
	}

	t := model.Team{
		ID:         model.NewID(model.PrefixTeam),
		Name:       name,
		Members:    ParseMembers(membersCSV),
		Background: background,
		UpdatedAt:  now.UnixMilli(),
	}

	teams := make([]model.Team, 0, len(s.Teams)+1)
	teams = append(teams, t)
	teams = append(teams, s.Teams...)
	s.Teams = teams
	return s, EffectTeams, nil
}

// DeleteTeam removes a team. Boards tagged with the team's name keep the tag.
func DeleteTeam(s State, id string) (State, Effect) {
	teams := make([]model.Team, 0, len(s.Teams))
	for _, t := range s.Teams {
		if t.ID != id {
			teams = append(teams, t)
		}
	}
	s.Teams = teams
	return s, EffectTeams
}
