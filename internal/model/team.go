package model

import (
	"time"
)

// Team is a named group of members. Boards refer to teams by name only.
type Team struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Members    []string `json:"members"`
	Background string   `json:"background"`
	UpdatedAt  int64    `json:"updatedAt"`
}

// Updated returns UpdatedAt as a time
func (t *Team) Updated() time.Time {
	return time.UnixMilli(t.UpdatedAt)
}
