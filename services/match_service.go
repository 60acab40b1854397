package services

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"squad-planner-system/models"
	"squad-planner-system/utils"

	"github.com/gofiber/fiber/v2"
)

var ErrMatchNotFound = errors.New("match not found")

// MatchService manages the match ledger. Pending matches (prepared from
// a squad but not yet rated) live only in this session until ratings
// are submitted, matching how lineups are committed in one step.
type MatchService struct {
	Sync *SyncService

	mu      sync.Mutex
	pending map[string]models.Match
}

func NewMatchService(syncService *SyncService) *MatchService {
	return &MatchService{Sync: syncService, pending: make(map[string]models.Match)}
}

// PrepareFromSquad snapshots the active squad into a pending match.
// Names, numbers and positions are copied so later roster edits cannot
// rewrite history. The match is not persisted until ratings arrive.
func (s *MatchService) PrepareFromSquad(squad []models.Player, homeTeam, awayTeam string, homeScore, awayScore *int) models.Match {
	lineup := make([]models.PlayerInMatch, 0, len(squad))
	for _, p := range squad {
		lineup = append(lineup, models.PlayerInMatch{
			PlayerID:     p.ID,
			PlayerName:   p.Name,
			PlayerNumber: p.Number,
			Position:     p.Position,
		})
	}

	match := models.Match{
		ID:          utils.NewMatchID(),
		Date:        time.Now().UTC(),
		HomeTeam:    homeTeam,
		AwayTeam:    awayTeam,
		HomeScore:   homeScore,
		AwayScore:   awayScore,
		Lineup:      lineup,
		IsCompleted: false,
	}

	s.mu.Lock()
	s.pending[match.ID] = match
	s.mu.Unlock()
	return match
}

// SubmitRatings reconciles the submitted ratings against whatever is
// persisted under the same match id right now — another session may
// have rated the match first. Per player: both old and new exist → the
// mean of the two; only new → new; only old → kept. A third submission
// averages the previous average against the new value; that lossy
// behavior is deliberate. The result is persisted completed.
func (s *MatchService) SubmitRatings(ctx context.Context, matchID string, ratings map[string]float64) (models.Match, error) {
	s.mu.Lock()
	match, isPending := s.pending[matchID]
	s.mu.Unlock()

	// re-read the persisted state, bypassing mirror latency
	persisted, found, err := s.Sync.FetchMatch(ctx, matchID)
	if err != nil {
		log.Printf("[Matches] fresh read of %s failed, merging against nothing: %v", matchID, err)
		found = false
	}

	if !isPending {
		if !found {
			return models.Match{}, ErrMatchNotFound
		}
		match = persisted
	}

	existingRating := make(map[string]*float64)
	if found {
		for _, p := range persisted.Lineup {
			existingRating[p.PlayerID] = p.Rating
		}
	}

	for i, player := range match.Lineup {
		prior := existingRating[player.PlayerID]
		submitted, hasNew := ratings[player.PlayerID]

		switch {
		case prior != nil && hasNew:
			mean := (*prior + submitted) / 2
			match.Lineup[i].Rating = &mean
		case hasNew:
			v := submitted
			match.Lineup[i].Rating = &v
		case prior != nil:
			match.Lineup[i].Rating = prior
		}
	}

	match.IsCompleted = true
	s.Sync.SaveMatch(match)

	s.mu.Lock()
	delete(s.pending, matchID)
	s.mu.Unlock()
	return match, nil
}

// RecordDirectMatch logs a score without a tracked squad.
func (s *MatchService) RecordDirectMatch(homeTeam, awayTeam string, homeScore, awayScore *int) models.Match {
	match := models.Match{
		ID:        utils.NewMatchID(),
		Date:      time.Now().UTC(),
		HomeTeam:  homeTeam,
		AwayTeam:  awayTeam,
		HomeScore: homeScore,
		AwayScore: awayScore,
		Lineup:    []models.PlayerInMatch{},
	}
	s.Sync.SaveMatch(match)
	return match
}

// ListMatches returns the ledger newest first.
func (s *MatchService) ListMatches() []models.Match {
	matches := s.Sync.Matches()
	sort.Slice(matches, func(i, j int) bool { return matches[i].Date.After(matches[j].Date) })
	return matches
}

func (s *MatchService) DeleteMatch(id string) {
	s.Sync.DeleteMatch(id)
}

// --- HTTP endpoints ----------------------------------------------------

type matchInfoBody struct {
	HomeTeam  string `json:"homeTeam"`
	AwayTeam  string `json:"awayTeam"`
	HomeScore *int   `json:"homeScore"`
	AwayScore *int   `json:"awayScore"`
}

func (s *MatchService) PrepareFromSquadEndpoint(squad *SquadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body matchInfoBody
		if err := c.BodyParser(&body); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		match := s.PrepareFromSquad(squad.State().Players, body.HomeTeam, body.AwayTeam, body.HomeScore, body.AwayScore)
		return c.Status(201).JSON(match)
	}
}

func (s *MatchService) SubmitRatingsEndpoint(squad *SquadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Ratings map[string]float64 `json:"ratings"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		match, err := s.SubmitRatings(c.Context(), c.Params("id"), body.Ratings)
		if err != nil {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		// the builder starts over once the match is committed
		squad.ResetSquad()
		return c.JSON(match)
	}
}

func (s *MatchService) RecordDirectMatchEndpoint(c *fiber.Ctx) error {
	var body matchInfoBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
	}
	if body.HomeTeam == "" || body.AwayTeam == "" {
		return c.Status(400).JSON(fiber.Map{"error": "homeTeam and awayTeam are required"})
	}
	match := s.RecordDirectMatch(body.HomeTeam, body.AwayTeam, body.HomeScore, body.AwayScore)
	return c.Status(201).JSON(match)
}

func (s *MatchService) ListMatchesEndpoint(c *fiber.Ctx) error {
	return c.JSON(s.ListMatches())
}

func (s *MatchService) GetMatchEndpoint(c *fiber.Ctx) error {
	match, ok := s.Sync.MatchByID(c.Params("id"))
	if !ok {
		return c.Status(404).JSON(fiber.Map{"error": ErrMatchNotFound.Error()})
	}
	return c.JSON(match)
}

func (s *MatchService) DeleteMatchEndpoint(c *fiber.Ctx) error {
	s.DeleteMatch(c.Params("id"))
	return c.SendStatus(204)
}
