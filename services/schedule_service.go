package services

import (
	"errors"
	"sort"
	"time"

	"squad-planner-system/models"
	"squad-planner-system/utils"

	"github.com/gofiber/fiber/v2"
)

var ErrScheduledMatchNotFound = errors.New("scheduled match not found")

// ScheduleService manages calendar entries and their attendance polls.
type ScheduleService struct {
	Sync *SyncService
}

func NewScheduleService(syncService *SyncService) *ScheduleService {
	return &ScheduleService{Sync: syncService}
}

func (s *ScheduleService) CreateScheduledMatch(title string, date time.Time, kickoff, location string) models.ScheduledMatch {
	match := models.ScheduledMatch{
		ID:              utils.NewScheduledMatchID(title),
		Title:           title,
		Date:            date,
		Time:            kickoff,
		Location:        location,
		AttendanceVotes: []models.AttendanceVote{},
	}
	s.Sync.SaveScheduledMatch(match)
	return match
}

// CastVote records an attendance answer. Identity is the exact voter
// name: a repeat vote by the same name overwrites status and votedAt,
// anything else appends with a synthesized placeholder id.
func (s *ScheduleService) CastVote(matchID, voterName, status string) (models.ScheduledMatch, error) {
	match, ok := s.Sync.ScheduledMatchByID(matchID)
	if !ok {
		return models.ScheduledMatch{}, ErrScheduledMatchNotFound
	}

	now := time.Now().UTC()
	replaced := false
	for i, v := range match.AttendanceVotes {
		if v.PlayerName == voterName {
			match.AttendanceVotes[i].Status = status
			match.AttendanceVotes[i].VotedAt = now
			replaced = true
			break
		}
	}
	if !replaced {
		match.AttendanceVotes = append(match.AttendanceVotes, models.AttendanceVote{
			PlayerID:   utils.NewVoterID(),
			PlayerName: voterName,
			Status:     status,
			VotedAt:    now,
		})
	}

	s.Sync.SaveScheduledMatch(match)
	return match, nil
}

// Tally folds a match's votes into per-status counts.
func (s *ScheduleService) Tally(matchID string) (models.VoteTally, error) {
	match, ok := s.Sync.ScheduledMatchByID(matchID)
	if !ok {
		return models.VoteTally{}, ErrScheduledMatchNotFound
	}

	var tally models.VoteTally
	for _, v := range match.AttendanceVotes {
		switch v.Status {
		case models.VoteComing:
			tally.Coming++
		case models.VoteNotComing:
			tally.NotComing++
		case models.VoteMaybe:
			tally.Maybe++
		}
	}
	return tally, nil
}

// CompleteWithScore closes a scheduled match with its final score.
func (s *ScheduleService) CompleteWithScore(matchID string, home, away int) (models.ScheduledMatch, error) {
	match, ok := s.Sync.ScheduledMatchByID(matchID)
	if !ok {
		return models.ScheduledMatch{}, ErrScheduledMatchNotFound
	}
	match.IsCompleted = true
	match.FinalScore = &models.FinalScore{Home: home, Away: away}
	s.Sync.SaveScheduledMatch(match)
	return match, nil
}

func (s *ScheduleService) DeleteScheduledMatch(id string) {
	s.Sync.DeleteScheduledMatch(id)
}

// ListScheduledMatches returns upcoming entries first (soonest on top),
// past entries after them newest first, the way the calendar shows them.
func (s *ScheduleService) ListScheduledMatches() []models.ScheduledMatch {
	matches := s.Sync.ScheduledMatches()
	now := time.Now()

	var upcoming, past []models.ScheduledMatch
	for _, m := range matches {
		if m.Date.Before(now) {
			past = append(past, m)
		} else {
			upcoming = append(upcoming, m)
		}
	}
	sort.Slice(upcoming, func(i, j int) bool { return upcoming[i].Date.Before(upcoming[j].Date) })
	sort.Slice(past, func(i, j int) bool { return past[i].Date.After(past[j].Date) })
	return append(upcoming, past...)
}

// --- HTTP endpoints ----------------------------------------------------

func (s *ScheduleService) ListEndpoint(c *fiber.Ctx) error {
	return c.JSON(s.ListScheduledMatches())
}

func (s *ScheduleService) CreateEndpoint(c *fiber.Ctx) error {
	var body struct {
		Title    string `json:"title"`
		Date     string `json:"date"`
		Time     string `json:"time"`
		Location string `json:"location"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
	}
	if body.Title == "" || body.Date == "" {
		return c.Status(400).JSON(fiber.Map{"error": "title and date are required"})
	}
	date, err := time.Parse(time.RFC3339, body.Date)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid date (use RFC3339)"})
	}
	match := s.CreateScheduledMatch(body.Title, date, body.Time, body.Location)
	return c.Status(201).JSON(match)
}

func (s *ScheduleService) CastVoteEndpoint(c *fiber.Ctx) error {
	var body struct {
		PlayerName string `json:"playerName"`
		Status     string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
	}
	if body.PlayerName == "" {
		return c.Status(400).JSON(fiber.Map{"error": "playerName is required"})
	}
	switch body.Status {
	case models.VoteComing, models.VoteNotComing, models.VoteMaybe:
	default:
		return c.Status(400).JSON(fiber.Map{"error": "status must be coming, not-coming or maybe"})
	}

	match, err := s.CastVote(c.Params("id"), body.PlayerName, body.Status)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(match)
}

func (s *ScheduleService) TallyEndpoint(c *fiber.Ctx) error {
	tally, err := s.Tally(c.Params("id"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(tally)
}

func (s *ScheduleService) CompleteEndpoint(c *fiber.Ctx) error {
	var body struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	}
	if err := c.BodyParser(&body); err != nil || body.Home == nil || body.Away == nil {
		return c.Status(400).JSON(fiber.Map{"error": "home and away scores are required"})
	}
	match, err := s.CompleteWithScore(c.Params("id"), *body.Home, *body.Away)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(match)
}

func (s *ScheduleService) DeleteEndpoint(c *fiber.Ctx) error {
	s.DeleteScheduledMatch(c.Params("id"))
	return c.SendStatus(204)
}
