package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"squad-planner-system/cache"
	"squad-planner-system/models"
	"squad-planner-system/store"
)

// inlineRunner executes queued writes immediately so tests observe the
// remote state deterministically.
type inlineRunner struct{}

func (inlineRunner) Do(name string, fn func(ctx context.Context) error) {
	_ = fn(context.Background())
}

func newTestSync(t *testing.T, remote store.RemoteStore) *SyncService {
	t.Helper()
	s := NewSyncService(remote, nil, inlineRunner{})
	if err := s.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestSaveMatchRoundTrip(t *testing.T) {
	remote := store.NewMemoryStore()
	s := newTestSync(t, remote)

	s.SaveMatch(models.Match{ID: "match-1", HomeTeam: "Us", AwayTeam: "Them"})

	got, ok := s.MatchByID("match-1")
	if !ok {
		t.Fatal("match not found in mirror after save")
	}
	if got.HomeTeam != "Us" || got.AwayTeam != "Them" {
		t.Errorf("unexpected match: %+v", got)
	}

	fetched, found, err := s.FetchMatch(context.Background(), "match-1")
	if err != nil || !found {
		t.Fatalf("FetchMatch: found=%v err=%v", found, err)
	}
	if fetched.ID != "match-1" {
		t.Errorf("fetched wrong match: %+v", fetched)
	}
}

func TestPushPropagatesAcrossSessions(t *testing.T) {
	remote := store.NewMemoryStore()
	a := newTestSync(t, remote)
	b := newTestSync(t, remote)

	a.SaveScheduledMatch(models.ScheduledMatch{ID: "scheduled-1", Title: "Friendly"})

	got, ok := b.ScheduledMatchByID("scheduled-1")
	if !ok {
		t.Fatal("second session did not receive the push")
	}
	if got.Title != "Friendly" {
		t.Errorf("title = %q, want Friendly", got.Title)
	}

	a.DeleteScheduledMatch("scheduled-1")
	if _, ok := b.ScheduledMatchByID("scheduled-1"); ok {
		t.Error("second session still sees the deleted entry")
	}
}

func TestWarmFromCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	boltCache, err := cache.OpenBoltCache(path)
	if err != nil {
		t.Fatalf("OpenBoltCache: %v", err)
	}
	first := NewSyncService(store.NewMemoryStore(), boltCache, inlineRunner{})
	if err := first.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	first.SaveMatch(models.Match{ID: "match-1", HomeTeam: "Us"})
	first.Close()
	if err := boltCache.Close(); err != nil {
		t.Fatalf("cache close: %v", err)
	}

	// A fresh session against an empty remote still sees the cached
	// ledger until the remote pushes something.
	reopened, err := cache.OpenBoltCache(path)
	if err != nil {
		t.Fatalf("reopen cache: %v", err)
	}
	defer reopened.Close()

	second := NewSyncService(store.NewMemoryStore(), reopened, inlineRunner{})
	second.warmFromCache()
	if _, ok := second.MatchByID("match-1"); !ok {
		t.Fatal("cached match not restored into the mirror")
	}
}

func TestSaveRosterEntryUpsert(t *testing.T) {
	s := newTestSync(t, store.NewMemoryStore())

	created := s.SaveRosterEntry(models.RosterEntry{ID: "player-1", Name: "Ali", Number: 9})
	if created.CreatedAt.IsZero() {
		t.Fatal("new entry was not stamped")
	}

	updated := s.SaveRosterEntry(models.RosterEntry{ID: "player-1", Name: "Ali Veli", Number: 10})
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("createdAt changed on update: %v != %v", updated.CreatedAt, created.CreatedAt)
	}

	roster := s.Roster()
	if len(roster) != 1 {
		t.Fatalf("roster length = %d, want 1", len(roster))
	}
	if roster[0].Name != "Ali Veli" || roster[0].Number != 10 {
		t.Errorf("update not applied: %+v", roster[0])
	}
}

func TestCurrentFormationPointer(t *testing.T) {
	remote := store.NewMemoryStore()
	a := newTestSync(t, remote)
	b := newTestSync(t, remote)

	a.SaveCurrentFormation("7-1-2-3")
	if got := b.CurrentFormation(); got != "7-1-2-3" {
		t.Errorf("pointer = %q, want 7-1-2-3", got)
	}
}

func TestClearAll(t *testing.T) {
	remote := store.NewMemoryStore()
	s := newTestSync(t, remote)

	s.SavePlayers([]models.Player{{ID: "player-1", Name: "Ali"}})
	s.SaveMatch(models.Match{ID: "match-1"})
	s.SaveScheduledMatch(models.ScheduledMatch{ID: "scheduled-1"})
	s.SaveCurrentFormation("7-1-2-3")

	s.ClearAll()

	if len(s.Players()) != 0 || len(s.Matches()) != 0 || len(s.ScheduledMatches()) != 0 {
		t.Error("mirror not emptied")
	}
	if s.CurrentFormation() != "" {
		t.Error("formation pointer survived the wipe")
	}

	var m models.Match
	found, err := remote.Get(context.Background(), "matches/match-1", &m)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if found {
		t.Error("remote still holds a match after ClearAll")
	}
}

func TestSubscribeChangesDeliversEvents(t *testing.T) {
	s := newTestSync(t, store.NewMemoryStore())

	ch, cancel := s.SubscribeChanges()
	defer cancel()

	s.SaveMatch(models.Match{ID: "match-1"})

	select {
	case event := <-ch:
		if event.Collection != ColMatches {
			t.Errorf("collection = %q, want %q", event.Collection, ColMatches)
		}
	case <-time.After(time.Second):
		t.Fatal("no change event delivered")
	}
}
