package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// MemoryStore is an in-process RemoteStore. It backs the test suite and
// single-box deployments that have no shared database; subscribers are
// notified synchronously so tests can script exact interleavings.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]json.RawMessage
	subs    map[string]map[int]func(json.RawMessage)
	nextSub int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]json.RawMessage),
		subs:    make(map[string]map[int]func(json.RawMessage)),
	}
}

func (s *MemoryStore) Set(ctx context.Context, path string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshaling value for %s: %w", path, err)
	}

	s.mu.Lock()
	s.entries[path] = raw
	snapshot, fns := s.notifyLocked(path)
	s.mu.Unlock()

	dispatch(snapshot, fns)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, path string, out any) (bool, error) {
	s.mu.Lock()
	raw := s.snapshotLocked(path)
	s.mu.Unlock()

	if raw == nil {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("unmarshaling %s: %w", path, err)
	}
	return true, nil
}

func (s *MemoryStore) Update(ctx context.Context, path string, fields map[string]any) error {
	s.mu.Lock()
	current := make(map[string]any)
	if raw, ok := s.entries[path]; ok {
		if err := json.Unmarshal(raw, &current); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("value at %s is not an object: %w", path, err)
		}
	}
	for k, v := range fields {
		current[k] = v
	}
	raw, err := json.Marshal(current)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("marshaling update for %s: %w", path, err)
	}
	s.entries[path] = raw
	snapshot, fns := s.notifyLocked(path)
	s.mu.Unlock()

	dispatch(snapshot, fns)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	delete(s.entries, path)
	prefix := path + "/"
	for p := range s.entries {
		if strings.HasPrefix(p, prefix) {
			delete(s.entries, p)
		}
	}
	snapshot, fns := s.notifyLocked(path)
	s.mu.Unlock()

	dispatch(snapshot, fns)
	return nil
}

func (s *MemoryStore) Subscribe(root string, fn func(raw json.RawMessage)) (func(), error) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	if s.subs[root] == nil {
		s.subs[root] = make(map[int]func(json.RawMessage))
	}
	s.subs[root][id] = fn
	snapshot := s.snapshotLocked(root)
	s.mu.Unlock()

	// initial push, same as a change notification
	fn(normalize(snapshot))

	return func() {
		s.mu.Lock()
		delete(s.subs[root], id)
		s.mu.Unlock()
	}, nil
}

// snapshotLocked assembles the current value at path: the exact entry
// when one exists, otherwise an object built from direct children.
func (s *MemoryStore) snapshotLocked(path string) json.RawMessage {
	if raw, ok := s.entries[path]; ok {
		return raw
	}
	prefix := path + "/"
	children := make(map[string]json.RawMessage)
	for p, raw := range s.entries {
		if strings.HasPrefix(p, prefix) {
			children[strings.TrimPrefix(p, prefix)] = raw
		}
	}
	if len(children) == 0 {
		return nil
	}
	raw, _ := json.Marshal(children)
	return raw
}

func (s *MemoryStore) notifyLocked(path string) (json.RawMessage, []func(json.RawMessage)) {
	root := pathRoot(path)
	var fns []func(json.RawMessage)
	for _, fn := range s.subs[root] {
		fns = append(fns, fn)
	}
	return s.snapshotLocked(root), fns
}

func dispatch(snapshot json.RawMessage, fns []func(json.RawMessage)) {
	for _, fn := range fns {
		fn(normalize(snapshot))
	}
}

func normalize(raw json.RawMessage) json.RawMessage {
	if raw == nil {
		return json.RawMessage("null")
	}
	return raw
}
