// services/scheduler.go
package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartCalendarSweeper closes out scheduled matches whose kickoff is
// more than a day gone and that never got a final score, so the
// calendar's upcoming list stays clean across every session.
func (s *ScheduleService) StartCalendarSweeper() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(10*time.Minute),
		gocron.NewTask(func() {
			s.sweepStale(time.Now())
		}),
	)
}

// sweepStale completes every open entry whose kickoff is more than a
// day before now. Entries already closed with a score are untouched.
func (s *ScheduleService) sweepStale(now time.Time) {
	cutoff := now.Add(-24 * time.Hour)
	for _, m := range s.Sync.ScheduledMatches() {
		if m.IsCompleted || !m.Date.Before(cutoff) {
			continue
		}
		m.IsCompleted = true
		s.Sync.SaveScheduledMatch(m)
		log.Printf("[Sweeper] closed out stale scheduled match: %s", m.Title)
	}
}
