package services

import (
	"errors"
	"testing"
	"time"

	"squad-planner-system/models"
	"squad-planner-system/store"
)

func newTestSchedule(t *testing.T) *ScheduleService {
	t.Helper()
	return NewScheduleService(newTestSync(t, store.NewMemoryStore()))
}

func TestCreateScheduledMatch(t *testing.T) {
	s := newTestSchedule(t)

	match := s.CreateScheduledMatch("Tuesday Friendly", time.Now().Add(48*time.Hour), "21:00", "Halısaha 3")

	if match.ID == "" {
		t.Fatal("no id minted")
	}
	if match.AttendanceVotes == nil {
		t.Error("votes must start as an empty list, not null")
	}
	if _, ok := s.Sync.ScheduledMatchByID(match.ID); !ok {
		t.Error("scheduled match not persisted")
	}
}

// A repeat vote under the same name overwrites, anything else appends.
// Identity is the exact string, so "Ali" and "ali" are two voters.
func TestCastVoteNameIdentity(t *testing.T) {
	s := newTestSchedule(t)
	match := s.CreateScheduledMatch("Friendly", time.Now().Add(24*time.Hour), "21:00", "")

	first, err := s.CastVote(match.ID, "Ali", models.VoteComing)
	if err != nil {
		t.Fatalf("CastVote: %v", err)
	}
	if len(first.AttendanceVotes) != 1 {
		t.Fatalf("votes = %d, want 1", len(first.AttendanceVotes))
	}
	firstID := first.AttendanceVotes[0].PlayerID

	second, err := s.CastVote(match.ID, "Ali", models.VoteNotComing)
	if err != nil {
		t.Fatalf("CastVote: %v", err)
	}
	if len(second.AttendanceVotes) != 1 {
		t.Fatalf("repeat vote appended: %d votes", len(second.AttendanceVotes))
	}
	if got := second.AttendanceVotes[0]; got.Status != models.VoteNotComing || got.PlayerID != firstID {
		t.Errorf("vote not overwritten in place: %+v", got)
	}

	third, err := s.CastVote(match.ID, "ali", models.VoteMaybe)
	if err != nil {
		t.Fatalf("CastVote: %v", err)
	}
	if len(third.AttendanceVotes) != 2 {
		t.Errorf("case-variant name should append: %d votes", len(third.AttendanceVotes))
	}
}

func TestCastVoteUnknownMatch(t *testing.T) {
	s := newTestSchedule(t)
	_, err := s.CastVote("scheduled-missing", "Ali", models.VoteComing)
	if !errors.Is(err, ErrScheduledMatchNotFound) {
		t.Errorf("got %v, want %v", err, ErrScheduledMatchNotFound)
	}
}

func TestTally(t *testing.T) {
	s := newTestSchedule(t)
	match := s.CreateScheduledMatch("Friendly", time.Now().Add(24*time.Hour), "21:00", "")

	votes := []struct {
		name   string
		status string
	}{
		{"Ali", models.VoteComing},
		{"Veli", models.VoteComing},
		{"Ayşe", models.VoteNotComing},
		{"Can", models.VoteMaybe},
		{"Ali", models.VoteMaybe}, // overwrite: Ali moves coming -> maybe
	}
	for _, v := range votes {
		if _, err := s.CastVote(match.ID, v.name, v.status); err != nil {
			t.Fatalf("CastVote(%s): %v", v.name, err)
		}
	}

	tally, err := s.Tally(match.ID)
	if err != nil {
		t.Fatalf("Tally: %v", err)
	}
	want := models.VoteTally{Coming: 1, NotComing: 1, Maybe: 2}
	if tally != want {
		t.Errorf("tally = %+v, want %+v", tally, want)
	}
}

func TestCompleteWithScore(t *testing.T) {
	s := newTestSchedule(t)
	match := s.CreateScheduledMatch("Friendly", time.Now().Add(24*time.Hour), "21:00", "")

	done, err := s.CompleteWithScore(match.ID, 5, 3)
	if err != nil {
		t.Fatalf("CompleteWithScore: %v", err)
	}
	if !done.IsCompleted {
		t.Error("match not marked completed")
	}
	if done.FinalScore == nil || done.FinalScore.Home != 5 || done.FinalScore.Away != 3 {
		t.Errorf("final score = %+v, want 5-3", done.FinalScore)
	}

	if _, err := s.CompleteWithScore("scheduled-missing", 1, 0); !errors.Is(err, ErrScheduledMatchNotFound) {
		t.Errorf("got %v, want %v", err, ErrScheduledMatchNotFound)
	}
}

func TestListScheduledMatchesOrdering(t *testing.T) {
	s := newTestSchedule(t)
	now := time.Now()

	s.CreateScheduledMatch("past recent", now.Add(-24*time.Hour), "", "")
	s.CreateScheduledMatch("upcoming far", now.Add(72*time.Hour), "", "")
	s.CreateScheduledMatch("past old", now.Add(-96*time.Hour), "", "")
	s.CreateScheduledMatch("upcoming soon", now.Add(12*time.Hour), "", "")

	got := s.ListScheduledMatches()
	wantOrder := []string{"upcoming soon", "upcoming far", "past recent", "past old"}
	if len(got) != len(wantOrder) {
		t.Fatalf("length = %d, want %d", len(got), len(wantOrder))
	}
	for i, title := range wantOrder {
		if got[i].Title != title {
			t.Errorf("position %d = %q, want %q", i, got[i].Title, title)
		}
	}
}

func TestSweepStale(t *testing.T) {
	s := newTestSchedule(t)
	now := time.Now()

	stale := s.CreateScheduledMatch("stale", now.Add(-48*time.Hour), "", "")
	recent := s.CreateScheduledMatch("recent past", now.Add(-2*time.Hour), "", "")
	upcoming := s.CreateScheduledMatch("upcoming", now.Add(24*time.Hour), "", "")
	scored := s.CreateScheduledMatch("scored", now.Add(-72*time.Hour), "", "")
	if _, err := s.CompleteWithScore(scored.ID, 3, 1); err != nil {
		t.Fatalf("CompleteWithScore: %v", err)
	}

	s.sweepStale(now)

	checks := []struct {
		id            string
		wantCompleted bool
		wantScore     bool
	}{
		{stale.ID, true, false},
		{recent.ID, false, false},
		{upcoming.ID, false, false},
		{scored.ID, true, true},
	}
	for _, check := range checks {
		got, ok := s.Sync.ScheduledMatchByID(check.id)
		if !ok {
			t.Fatalf("match %s missing", check.id)
		}
		if got.IsCompleted != check.wantCompleted {
			t.Errorf("%s completed = %t, want %t", got.Title, got.IsCompleted, check.wantCompleted)
		}
		if (got.FinalScore != nil) != check.wantScore {
			t.Errorf("%s finalScore = %v", got.Title, got.FinalScore)
		}
	}
}

func TestDeleteScheduledMatch(t *testing.T) {
	s := newTestSchedule(t)
	match := s.CreateScheduledMatch("Friendly", time.Now().Add(24*time.Hour), "21:00", "")

	s.DeleteScheduledMatch(match.ID)

	if _, ok := s.Sync.ScheduledMatchByID(match.ID); ok {
		t.Error("scheduled match still present after delete")
	}
}
