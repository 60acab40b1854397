package models

import "time"

const (
	VoteComing    = "coming"
	VoteNotComing = "not-coming"
	VoteMaybe     = "maybe"
)

// AttendanceVote is one respondent's answer on a scheduled match.
// Identity is the freeform name, not a roster id: anyone can vote, so
// PlayerID may be a synthesized placeholder for non-roster respondents.
type AttendanceVote struct {
	PlayerID   string    `json:"playerId"`
	PlayerName string    `json:"playerName"`
	Status     string    `json:"status"` // coming | not-coming | maybe
	VotedAt    time.Time `json:"votedAt"`
}

// FinalScore is the recorded outcome of a scheduled match.
type FinalScore struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// ScheduledMatch is a calendar entry with attendance polling. It is
// deliberately unlinked from any Match record eventually played for it.
type ScheduledMatch struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Date            time.Time        `json:"date"`
	Time            string           `json:"time"` // kickoff time as shown to players, e.g. "21:00"
	Location        string           `json:"location,omitempty"`
	AttendanceVotes []AttendanceVote `json:"attendanceVotes"`
	IsCompleted     bool             `json:"isCompleted"`
	FinalScore      *FinalScore      `json:"finalScore,omitempty"`
}

// VoteTally is the fold of a scheduled match's votes per status.
type VoteTally struct {
	Coming    int `json:"coming"`
	NotComing int `json:"notComing"`
	Maybe     int `json:"maybe"`
}
