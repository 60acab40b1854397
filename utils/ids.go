// utils/ids.go
package utils

import (
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// Entity ids keep the historical prefixes so records written by older
// clients stay recognizable next to new ones.

func NewPlayerID() string { return "player-" + uuid.NewString() }

func NewMatchID() string { return "match-" + uuid.NewString() }

// NewScheduledMatchID embeds a slug of the title so ids stay readable
// in the store ("scheduled-tuesday-game-<uuid>").
func NewScheduledMatchID(title string) string {
	return prefixed("scheduled", title)
}

// NewSavedFormationID embeds a slug of the user-given name.
func NewSavedFormationID(name string) string {
	return prefixed("formation", name)
}

// NewVoterID is the synthesized placeholder id for attendance votes by
// people who are not in the roster.
func NewVoterID() string { return "temp-" + uuid.NewString() }

func prefixed(kind, label string) string {
	s := slug.Make(label)
	if s == "" {
		return kind + "-" + uuid.NewString()
	}
	return strings.Join([]string{kind, s, uuid.NewString()}, "-")
}
