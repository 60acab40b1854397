package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry is one node of the shared tree, keyed by its full path.
type Entry struct {
	Path      string          `gorm:"primaryKey" json:"path"`
	Value     json.RawMessage `gorm:"type:jsonb;not null" json:"value"`
	UpdatedAt time.Time       `gorm:"index" json:"updated_at"`
}

func (Entry) TableName() string { return "store_entries" }

// PostgresStore implements RemoteStore on a single jsonb table so
// several planner instances can share one database. Change delivery is
// a ticker poll over updated_at — every instance sees edits made by the
// others within one poll interval.
type PostgresStore struct {
	DB *gorm.DB

	mu      sync.Mutex
	subs    map[string]map[int]func(json.RawMessage)
	nextSub int
	cursor  time.Time
	stop    chan struct{}
	started bool

	pollEvery time.Duration
}

func NewPostgresStore(db *gorm.DB, pollEvery time.Duration) (*PostgresStore, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrating store_entries: %w", err)
	}
	if pollEvery <= 0 {
		pollEvery = 2 * time.Second
	}
	return &PostgresStore{
		DB:        db,
		subs:      make(map[string]map[int]func(json.RawMessage)),
		cursor:    time.Now().UTC(),
		stop:      make(chan struct{}),
		pollEvery: pollEvery,
	}, nil
}

func (s *PostgresStore) Set(ctx context.Context, path string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshaling value for %s: %w", path, err)
	}
	entry := Entry{Path: path, Value: raw, UpdatedAt: time.Now().UTC()}
	err = s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "path"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	s.pushLocal(pathRoot(path))
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, path string, out any) (bool, error) {
	raw, err := s.snapshot(ctx, path)
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("unmarshaling %s: %w", path, err)
	}
	return true, nil
}

func (s *PostgresStore) Update(ctx context.Context, path string, fields map[string]any) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry Entry
		current := make(map[string]any)
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&entry, "path = ?", path).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			// fall through, create fresh
		case err != nil:
			return err
		default:
			if err := json.Unmarshal(entry.Value, &current); err != nil {
				return fmt.Errorf("value at %s is not an object: %w", path, err)
			}
		}
		for k, v := range fields {
			current[k] = v
		}
		raw, err := json.Marshal(current)
		if err != nil {
			return err
		}
		merged := Entry{Path: path, Value: raw, UpdatedAt: time.Now().UTC()}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "path"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&merged).Error
	})
	if err != nil {
		return fmt.Errorf("updating %s: %w", path, err)
	}
	s.pushLocal(pathRoot(path))
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, path string) error {
	err := s.DB.WithContext(ctx).
		Where("path = ? OR path LIKE ?", path, path+"/%").
		Delete(&Entry{}).Error
	if err != nil {
		return fmt.Errorf("deleting %s: %w", path, err)
	}
	// Deleted rows leave no updated_at trail for other instances to
	// poll, so bump a tombstone row under the affected root.
	root := pathRoot(path)
	tombstone := Entry{
		Path:      tombstonePrefix + root,
		Value:     json.RawMessage("null"),
		UpdatedAt: time.Now().UTC(),
	}
	err = s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "path"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&tombstone).Error
	if err != nil {
		log.Printf("[Store] tombstone for %s failed: %v", root, err)
	}
	s.pushLocal(root)
	return nil
}

const tombstonePrefix = "_deleted/"

func (s *PostgresStore) Subscribe(root string, fn func(raw json.RawMessage)) (func(), error) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	if s.subs[root] == nil {
		s.subs[root] = make(map[int]func(json.RawMessage))
	}
	s.subs[root][id] = fn
	if !s.started {
		s.started = true
		go s.pollLoop()
	}
	s.mu.Unlock()

	raw, err := s.snapshot(context.Background(), root)
	if err != nil {
		return nil, err
	}
	fn(normalize(raw))

	return func() {
		s.mu.Lock()
		delete(s.subs[root], id)
		s.mu.Unlock()
	}, nil
}

// Close stops the change poller. Outstanding subscriptions go quiet.
func (s *PostgresStore) Close() {
	s.mu.Lock()
	if s.started {
		close(s.stop)
		s.started = false
	}
	s.mu.Unlock()
}

// snapshot assembles the value at path the same way the memory store
// does: the exact row when one exists, else an object of children.
func (s *PostgresStore) snapshot(ctx context.Context, path string) (json.RawMessage, error) {
	var entry Entry
	err := s.DB.WithContext(ctx).First(&entry, "path = ?", path).Error
	if err == nil {
		return entry.Value, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var rows []Entry
	if err := s.DB.WithContext(ctx).Where("path LIKE ?", path+"/%").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("reading children of %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	children := make(map[string]json.RawMessage, len(rows))
	for _, row := range rows {
		children[strings.TrimPrefix(row.Path, path+"/")] = row.Value
	}
	raw, err := json.Marshal(children)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// pushLocal notifies this instance's subscribers right after its own
// write, without waiting for the next poll tick.
func (s *PostgresStore) pushLocal(root string) {
	raw, err := s.snapshot(context.Background(), root)
	if err != nil {
		log.Printf("[Store] snapshot of %s failed: %v", root, err)
		return
	}
	s.fanOut(root, normalize(raw))
}

// pollLoop watches updated_at for edits made by other instances. Same
// since-cursor shape as a periodic mirror sync: ask for rows newer than
// the cursor, advance the cursor past what was seen.
func (s *PostgresStore) pollLoop() {
	ticker := time.NewTicker(s.pollEvery)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			since := s.cursor
			s.mu.Unlock()

			var changed []Entry
			err := s.DB.Select("path", "updated_at").
				Where("updated_at > ?", since).
				Order("updated_at ASC").
				Find(&changed).Error
			if err != nil {
				log.Printf("[Store] change poll failed: %v", err)
				continue
			}
			if len(changed) == 0 {
				continue
			}

			s.mu.Lock()
			s.cursor = changed[len(changed)-1].UpdatedAt
			s.mu.Unlock()

			for root := range changedRoots(changed) {
				s.pushLocal(root)
			}
		}
	}
}

// changedRoots folds a batch of changed rows into the set of roots
// whose subscribers need a fresh snapshot. A tombstone row maps back to
// the root it was written for, so deletes refresh like any other edit.
func changedRoots(changed []Entry) map[string]bool {
	roots := make(map[string]bool, len(changed))
	for _, e := range changed {
		if strings.HasPrefix(e.Path, tombstonePrefix) {
			roots[strings.TrimPrefix(e.Path, tombstonePrefix)] = true
			continue
		}
		roots[pathRoot(e.Path)] = true
	}
	return roots
}

func (s *PostgresStore) fanOut(root string, raw json.RawMessage) {
	s.mu.Lock()
	var fns []func(json.RawMessage)
	for _, fn := range s.subs[root] {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(raw)
	}
}
