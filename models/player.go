package models

import "time"

// Player is a member of the active squad being arranged on the pitch.
// Position is only meaningful while the squad is being assembled.
type Player struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Number   int      `json:"number"` // jersey number, 1-99 by convention, not unique
	Photo    string   `json:"photo,omitempty"`
	Position Position `json:"position"`
}

// RosterEntry is a reusable player identity, decoupled from any single
// match. ID is the stable join key used to find the same human across
// matches for statistics.
type RosterEntry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Number    int       `json:"number"`
	Photo     string    `json:"photo,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// PlayerStats is derived from the match ledger, never persisted.
type PlayerStats struct {
	PlayerID      string    `json:"playerId"`
	PlayerName    string    `json:"playerName"`
	TotalMatches  int       `json:"totalMatches"`
	AverageRating float64   `json:"averageRating"`
	AllRatings    []float64 `json:"allRatings"`
}
