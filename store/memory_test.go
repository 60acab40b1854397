package store

import (
	"context"
	"encoding/json"
	"testing"
)

func TestMemoryStoreSetGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Set(ctx, "currentFormation", "7-1-2-3"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var id string
	ok, err := s.Get(ctx, "currentFormation", &id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok || id != "7-1-2-3" {
		t.Errorf("got %q (found=%v), want 7-1-2-3", id, ok)
	}

	ok, err = s.Get(ctx, "nothing-here", &id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("expected miss for unknown path")
	}
}

func TestMemoryStoreChildAssembly(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	type doc struct {
		ID string `json:"id"`
	}
	if err := s.Set(ctx, "matches/a", doc{ID: "a"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, "matches/b", doc{ID: "b"}); err != nil {
		t.Fatal(err)
	}

	var all map[string]doc
	ok, err := s.Get(ctx, "matches", &all)
	if err != nil || !ok {
		t.Fatalf("Get matches: ok=%v err=%v", ok, err)
	}
	if len(all) != 2 || all["a"].ID != "a" || all["b"].ID != "b" {
		t.Errorf("unexpected assembly: %+v", all)
	}
}

func TestMemoryStoreSubscribe(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Set(ctx, "players", []string{"ali"}); err != nil {
		t.Fatal(err)
	}

	var pushes []string
	cancel, err := s.Subscribe("players", func(raw json.RawMessage) {
		pushes = append(pushes, string(raw))
	})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	// initial value arrives on subscribe
	if len(pushes) != 1 || pushes[0] != `["ali"]` {
		t.Fatalf("initial push wrong: %v", pushes)
	}

	if err := s.Set(ctx, "players", []string{"ali", "veli"}); err != nil {
		t.Fatal(err)
	}
	if len(pushes) != 2 {
		t.Fatalf("expected change push, got %v", pushes)
	}

	cancel()
	if err := s.Set(ctx, "players", []string{}); err != nil {
		t.Fatal(err)
	}
	if len(pushes) != 2 {
		t.Error("push after cancel")
	}
}

func TestMemoryStoreSubscribeEmptyRoot(t *testing.T) {
	s := NewMemoryStore()

	var got string
	_, err := s.Subscribe("matches", func(raw json.RawMessage) {
		got = string(raw)
	})
	if err != nil {
		t.Fatal(err)
	}
	if got != "null" {
		t.Errorf("empty root push: got %q, want null", got)
	}
}

func TestMemoryStoreUpdate(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Set(ctx, "playerDatabase/p1", map[string]any{"id": "p1", "name": "Ali", "number": 9}); err != nil {
		t.Fatal(err)
	}
	if err := s.Update(ctx, "playerDatabase/p1", map[string]any{"number": 10}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	var entry map[string]any
	ok, _ := s.Get(ctx, "playerDatabase/p1", &entry)
	if !ok {
		t.Fatal("entry vanished")
	}
	if entry["name"] != "Ali" || entry["number"] != float64(10) {
		t.Errorf("merge wrong: %+v", entry)
	}
}

func TestMemoryStoreDeleteSubtree(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.Set(ctx, "matches/a", map[string]string{"id": "a"})
	s.Set(ctx, "matches/b", map[string]string{"id": "b"})
	if err := s.Delete(ctx, "matches/a"); err != nil {
		t.Fatal(err)
	}

	var all map[string]json.RawMessage
	ok, _ := s.Get(ctx, "matches", &all)
	if !ok || len(all) != 1 {
		t.Errorf("expected one remaining match, got %v", all)
	}

	if err := s.Delete(ctx, "matches"); err != nil {
		t.Fatal(err)
	}
	ok, _ = s.Get(ctx, "matches", &all)
	if ok {
		t.Error("expected empty root after subtree delete")
	}
}
