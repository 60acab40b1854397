package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"squad-planner-system/cache"
	"squad-planner-system/models"
	"squad-planner-system/store"
)

// Collection roots in the remote store. The active squad is one shared
// list; everything else is keyed by entity id under its root.
const (
	ColPlayers          = "players"
	ColRoster           = "playerDatabase"
	ColMatches          = "matches"
	ColScheduled        = "scheduledMatches"
	ColSavedFormations  = "savedFormations"
	ColCurrentFormation = "currentFormation"
)

var allCollections = []string{
	ColPlayers, ColRoster, ColMatches, ColScheduled, ColSavedFormations, ColCurrentFormation,
}

// TaskRunner queues a remote write whose outcome is only observable via
// logs. The background WriteRunner satisfies this in production.
type TaskRunner interface {
	Do(name string, fn func(ctx context.Context) error)
}

// ChangeEvent tells stream consumers that a collection's mirror was
// replaced by a remote push or a local write.
type ChangeEvent struct {
	Collection string    `json:"collection"`
	At         time.Time `json:"at"`
}

// SyncService mirrors the remote collections into memory and into the
// local durable cache. Reads are always served from the mirror; writes
// update the mirror synchronously and reach the remote store through
// the fire-and-forget runner. Remote pushes (from this or any other
// session) replace the whole mirrored collection, last write wins.
type SyncService struct {
	Remote store.RemoteStore
	Cache  *cache.BoltCache // optional
	Runner TaskRunner

	mu               sync.RWMutex
	players          []models.Player
	roster           []models.RosterEntry
	matches          []models.Match
	scheduled        []models.ScheduledMatch
	savedFormations  []models.SavedFormation
	currentFormation string

	cancels []func()

	listenerMu sync.Mutex
	listeners  map[int]chan ChangeEvent
	nextListen int
}

func NewSyncService(remote store.RemoteStore, boltCache *cache.BoltCache, runner TaskRunner) *SyncService {
	return &SyncService{
		Remote:    remote,
		Cache:     boltCache,
		Runner:    runner,
		listeners: make(map[int]chan ChangeEvent),
	}
}

// Open warms the mirror from the durable cache, then establishes one
// standing remote subscription per collection.
func (s *SyncService) Open() error {
	s.warmFromCache()

	for _, col := range allCollections {
		col := col
		cancel, err := s.Remote.Subscribe(col, func(raw json.RawMessage) {
			s.applyPush(col, raw)
		})
		if err != nil {
			s.Close()
			return fmt.Errorf("subscribing to %s: %w", col, err)
		}
		s.cancels = append(s.cancels, cancel)
	}
	log.Printf("[Sync] subscribed to %d collections", len(allCollections))
	return nil
}

// Close cancels the remote subscriptions. The mirror stays readable.
func (s *SyncService) Close() {
	for _, cancel := range s.cancels {
		cancel()
	}
	s.cancels = nil
}

func (s *SyncService) warmFromCache() {
	if s.Cache == nil {
		return
	}
	for _, col := range allCollections {
		raw, err := s.Cache.Get(col)
		if err != nil {
			log.Printf("[Sync] cache read for %s failed: %v", col, err)
			continue
		}
		if raw == nil {
			continue
		}
		s.decodeInto(col, raw)
	}
}

// applyPush is the subscription callback: replace the mirror for that
// collection and refresh the durable cache copy.
func (s *SyncService) applyPush(col string, raw json.RawMessage) {
	s.decodeInto(col, raw)
	if s.Cache != nil {
		if err := s.Cache.Set(col, raw); err != nil {
			log.Printf("[Sync] cache write for %s failed: %v", col, err)
		}
	}
	s.notifyChange(col)
}

func (s *SyncService) decodeInto(col string, raw json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch col {
	case ColPlayers:
		var list []models.Player
		if err := unmarshalLoose(raw, &list); err != nil {
			log.Printf("[Sync] bad players payload: %v", err)
			return
		}
		s.players = list
	case ColRoster:
		entries := decodeKeyed[models.RosterEntry](col, raw)
		sort.Slice(entries, func(i, j int) bool { return entries[i].CreatedAt.Before(entries[j].CreatedAt) })
		s.roster = entries
	case ColMatches:
		s.matches = decodeKeyed[models.Match](col, raw)
	case ColScheduled:
		s.scheduled = decodeKeyed[models.ScheduledMatch](col, raw)
	case ColSavedFormations:
		entries := decodeKeyed[models.SavedFormation](col, raw)
		sort.Slice(entries, func(i, j int) bool { return entries[i].CreatedAt.Before(entries[j].CreatedAt) })
		s.savedFormations = entries
	case ColCurrentFormation:
		var id string
		if err := unmarshalLoose(raw, &id); err != nil {
			log.Printf("[Sync] bad currentFormation payload: %v", err)
			return
		}
		s.currentFormation = id
	}
}

// decodeKeyed turns a {id: entity} push into a slice. A null push
// yields an empty collection.
func decodeKeyed[T any](col string, raw json.RawMessage) []T {
	if isNull(raw) {
		return nil
	}
	keyed := make(map[string]T)
	if err := json.Unmarshal(raw, &keyed); err != nil {
		log.Printf("[Sync] bad %s payload: %v", col, err)
		return nil
	}
	keys := make([]string, 0, len(keyed))
	for k := range keyed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]T, 0, len(keyed))
	for _, k := range keys {
		out = append(out, keyed[k])
	}
	return out
}

func unmarshalLoose(raw json.RawMessage, out any) error {
	if isNull(raw) {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// --- active squad ------------------------------------------------------

func (s *SyncService) Players() []models.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Player, len(s.players))
	copy(out, s.players)
	return out
}

// SavePlayers replaces the shared active-squad list.
func (s *SyncService) SavePlayers(players []models.Player) {
	snapshot := make([]models.Player, len(players))
	copy(snapshot, players)

	s.mu.Lock()
	s.players = snapshot
	s.mu.Unlock()
	s.notifyChange(ColPlayers)

	s.Runner.Do("save players", func(ctx context.Context) error {
		return s.Remote.Set(ctx, ColPlayers, snapshot)
	})
}

// --- roster ------------------------------------------------------------

func (s *SyncService) Roster() []models.RosterEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.RosterEntry, len(s.roster))
	copy(out, s.roster)
	return out
}

// SaveRosterEntry upserts a player identity: an existing id is updated
// in place (createdAt untouched), a new one is stamped and appended.
func (s *SyncService) SaveRosterEntry(entry models.RosterEntry) models.RosterEntry {
	s.mu.Lock()
	existing := -1
	for i, e := range s.roster {
		if e.ID == entry.ID {
			existing = i
			break
		}
	}
	if existing >= 0 {
		entry.CreatedAt = s.roster[existing].CreatedAt
		s.roster[existing] = entry
	} else {
		entry.CreatedAt = time.Now().UTC()
		s.roster = append(s.roster, entry)
	}
	s.mu.Unlock()
	s.notifyChange(ColRoster)

	path := ColRoster + "/" + entry.ID
	saved := entry
	if existing >= 0 {
		s.Runner.Do("update roster entry", func(ctx context.Context) error {
			return s.Remote.Update(ctx, path, map[string]any{
				"name":   saved.Name,
				"number": saved.Number,
				"photo":  saved.Photo,
			})
		})
	} else {
		s.Runner.Do("create roster entry", func(ctx context.Context) error {
			return s.Remote.Set(ctx, path, saved)
		})
	}
	return entry
}

func (s *SyncService) DeleteRosterEntry(id string) {
	s.mu.Lock()
	kept := s.roster[:0]
	for _, e := range s.roster {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	s.roster = kept
	s.mu.Unlock()
	s.notifyChange(ColRoster)

	s.Runner.Do("delete roster entry", func(ctx context.Context) error {
		return s.Remote.Delete(ctx, ColRoster+"/"+id)
	})
}

// --- matches -----------------------------------------------------------

func (s *SyncService) Matches() []models.Match {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Match, len(s.matches))
	copy(out, s.matches)
	return out
}

func (s *SyncService) MatchByID(id string) (models.Match, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.matches {
		if m.ID == id {
			return m, true
		}
	}
	return models.Match{}, false
}

// FetchMatch reads the persisted match directly from the remote store,
// bypassing mirror latency. The ratings merge depends on this being the
// freshest available state.
func (s *SyncService) FetchMatch(ctx context.Context, id string) (models.Match, bool, error) {
	var m models.Match
	ok, err := s.Remote.Get(ctx, ColMatches+"/"+id, &m)
	return m, ok, err
}

func (s *SyncService) SaveMatch(match models.Match) {
	s.mu.Lock()
	replaced := false
	for i, m := range s.matches {
		if m.ID == match.ID {
			s.matches[i] = match
			replaced = true
			break
		}
	}
	if !replaced {
		s.matches = append(s.matches, match)
	}
	s.mu.Unlock()
	s.notifyChange(ColMatches)

	s.Runner.Do("save match", func(ctx context.Context) error {
		return s.Remote.Set(ctx, ColMatches+"/"+match.ID, match)
	})
}

func (s *SyncService) DeleteMatch(id string) {
	s.mu.Lock()
	kept := s.matches[:0]
	for _, m := range s.matches {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	s.matches = kept
	s.mu.Unlock()
	s.notifyChange(ColMatches)

	s.Runner.Do("delete match", func(ctx context.Context) error {
		return s.Remote.Delete(ctx, ColMatches+"/"+id)
	})
}

// --- scheduled matches -------------------------------------------------

func (s *SyncService) ScheduledMatches() []models.ScheduledMatch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ScheduledMatch, len(s.scheduled))
	copy(out, s.scheduled)
	return out
}

func (s *SyncService) ScheduledMatchByID(id string) (models.ScheduledMatch, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.scheduled {
		if m.ID == id {
			return m, true
		}
	}
	return models.ScheduledMatch{}, false
}

func (s *SyncService) SaveScheduledMatch(match models.ScheduledMatch) {
	s.mu.Lock()
	replaced := false
	for i, m := range s.scheduled {
		if m.ID == match.ID {
			s.scheduled[i] = match
			replaced = true
			break
		}
	}
	if !replaced {
		s.scheduled = append(s.scheduled, match)
	}
	s.mu.Unlock()
	s.notifyChange(ColScheduled)

	s.Runner.Do("save scheduled match", func(ctx context.Context) error {
		return s.Remote.Set(ctx, ColScheduled+"/"+match.ID, match)
	})
}

func (s *SyncService) DeleteScheduledMatch(id string) {
	s.mu.Lock()
	kept := s.scheduled[:0]
	for _, m := range s.scheduled {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	s.scheduled = kept
	s.mu.Unlock()
	s.notifyChange(ColScheduled)

	s.Runner.Do("delete scheduled match", func(ctx context.Context) error {
		return s.Remote.Delete(ctx, ColScheduled+"/"+id)
	})
}

// --- saved formations --------------------------------------------------

func (s *SyncService) SavedFormations() []models.SavedFormation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.SavedFormation, len(s.savedFormations))
	copy(out, s.savedFormations)
	return out
}

func (s *SyncService) SavedFormationByID(id string) (models.SavedFormation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.savedFormations {
		if f.ID == id {
			return f, true
		}
	}
	return models.SavedFormation{}, false
}

func (s *SyncService) SaveSavedFormation(formation models.SavedFormation) {
	s.mu.Lock()
	s.savedFormations = append(s.savedFormations, formation)
	s.mu.Unlock()
	s.notifyChange(ColSavedFormations)

	s.Runner.Do("save formation snapshot", func(ctx context.Context) error {
		return s.Remote.Set(ctx, ColSavedFormations+"/"+formation.ID, formation)
	})
}

func (s *SyncService) DeleteSavedFormation(id string) {
	s.mu.Lock()
	kept := s.savedFormations[:0]
	for _, f := range s.savedFormations {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	s.savedFormations = kept
	s.mu.Unlock()
	s.notifyChange(ColSavedFormations)

	s.Runner.Do("delete formation snapshot", func(ctx context.Context) error {
		return s.Remote.Delete(ctx, ColSavedFormations+"/"+id)
	})
}

// --- current formation pointer ----------------------------------------

func (s *SyncService) CurrentFormation() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentFormation
}

func (s *SyncService) SaveCurrentFormation(id string) {
	s.mu.Lock()
	s.currentFormation = id
	s.mu.Unlock()
	s.notifyChange(ColCurrentFormation)

	s.Runner.Do("save current formation", func(ctx context.Context) error {
		return s.Remote.Set(ctx, ColCurrentFormation, id)
	})
}

// --- clear all ---------------------------------------------------------

// ClearAll wipes every collection locally and remotely.
func (s *SyncService) ClearAll() {
	s.mu.Lock()
	s.players = nil
	s.roster = nil
	s.matches = nil
	s.scheduled = nil
	s.savedFormations = nil
	s.currentFormation = ""
	s.mu.Unlock()

	if s.Cache != nil {
		if err := s.Cache.Clear(); err != nil {
			log.Printf("[Sync] cache clear failed: %v", err)
		}
	}
	for _, col := range allCollections {
		col := col
		s.notifyChange(col)
		s.Runner.Do("clear "+col, func(ctx context.Context) error {
			return s.Remote.Delete(ctx, col)
		})
	}
}

// --- change stream -----------------------------------------------------

// SubscribeChanges hands out a buffered event channel for stream
// consumers. Slow consumers lose events rather than block the mirror.
func (s *SyncService) SubscribeChanges() (<-chan ChangeEvent, func()) {
	s.listenerMu.Lock()
	id := s.nextListen
	s.nextListen++
	ch := make(chan ChangeEvent, 16)
	s.listeners[id] = ch
	s.listenerMu.Unlock()

	return ch, func() {
		s.listenerMu.Lock()
		delete(s.listeners, id)
		s.listenerMu.Unlock()
	}
}

func (s *SyncService) notifyChange(col string) {
	event := ChangeEvent{Collection: col, At: time.Now().UTC()}
	s.listenerMu.Lock()
	for _, ch := range s.listeners {
		select {
		case ch <- event:
		default:
		}
	}
	s.listenerMu.Unlock()
}
