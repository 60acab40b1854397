package models

import "time"

// PlayerInMatch is a denormalized lineup snapshot. Name and number are
// copied at snapshot time so history stays intact when the roster entry
// is later edited or deleted. PlayerID may therefore point at a roster
// entry that no longer exists.
type PlayerInMatch struct {
	PlayerID     string   `json:"playerId"`
	PlayerName   string   `json:"playerName"`
	PlayerNumber int      `json:"playerNumber"`
	Position     Position `json:"position"`
	Rating       *float64 `json:"rating,omitempty"` // 1-5, may become fractional after merging
}

// Match records a played (or pending) game with its lineup snapshot.
// A match may carry an empty lineup when only the score was logged.
type Match struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	HomeTeam    string          `json:"homeTeam"`
	AwayTeam    string          `json:"awayTeam"`
	HomeScore   *int            `json:"homeScore,omitempty"`
	AwayScore   *int            `json:"awayScore,omitempty"`
	Lineup      []PlayerInMatch `json:"lineup"`
	IsCompleted bool            `json:"isCompleted"`
}
