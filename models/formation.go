package models

import "time"

// Formation is a named template of normalized pitch coordinates for a
// given squad size. Catalog entries are static and read-only; positions
// must have exactly PlayerCount elements.
type Formation struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	PlayerCount int        `json:"playerCount"`
	Positions   []Position `json:"positions"`
	Description string     `json:"description,omitempty"`
}

// SavedFormation is a reusable starting lineup: a catalog formation plus
// a full player snapshot with positions, saved under a user-given name.
type SavedFormation struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	FormationID string    `json:"formationId"`
	Players     []Player  `json:"players"`
	CreatedAt   time.Time `json:"createdAt"`
}
