package model

import (
	"strings"

	"github.com/google/uuid"
)

// ID prefixes per entity type
const (
	PrefixBoard = "b_"
	PrefixCard  = "c_"
	PrefixTeam  = "t_"
	PrefixGoal  = "g_"
)

// NewID returns a random identifier with the given prefix
func NewID(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
