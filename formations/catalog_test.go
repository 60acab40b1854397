package formations

import "testing"

func TestCatalogShapes(t *testing.T) {
	if len(Catalog) == 0 {
		t.Fatal("catalog is empty")
	}

	for _, f := range Catalog {
		if len(f.Positions) != f.PlayerCount {
			t.Errorf("formation %s: %d positions for playerCount %d", f.ID, len(f.Positions), f.PlayerCount)
		}
		for i, p := range f.Positions {
			if p.X < 0 || p.X > 100 || p.Y < 0 || p.Y > 100 {
				t.Errorf("formation %s slot %d: coordinate out of range: %+v", f.ID, i, p)
			}
		}
		if f.PlayerCount < 5 || f.PlayerCount > 11 {
			t.Errorf("formation %s: unsupported squad size %d", f.ID, f.PlayerCount)
		}
	}
}

func TestCatalogUniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for _, f := range Catalog {
		if seen[f.ID] {
			t.Errorf("duplicate formation id %s", f.ID)
		}
		seen[f.ID] = true
	}
}

func TestByPlayerCount(t *testing.T) {
	tests := []struct {
		count    int
		expected int
	}{
		{5, 1},
		{6, 1},
		{7, 2},
		{8, 1},
		{9, 1},
		{10, 1},
		{11, 3},
		{4, 0},
		{12, 0},
	}

	for _, tt := range tests {
		got := ByPlayerCount(tt.count)
		if len(got) != tt.expected {
			t.Errorf("ByPlayerCount(%d): got %d formations, want %d", tt.count, len(got), tt.expected)
		}
		for _, f := range got {
			if f.PlayerCount != tt.count {
				t.Errorf("ByPlayerCount(%d) returned %s with playerCount %d", tt.count, f.ID, f.PlayerCount)
			}
		}
	}
}

func TestByPlayerCountOrder(t *testing.T) {
	elevens := ByPlayerCount(11)
	want := []string{"11-1-4-3-3", "11-1-4-4-2", "11-1-3-5-2"}
	for i, id := range want {
		if elevens[i].ID != id {
			t.Errorf("position %d: got %s, want %s", i, elevens[i].ID, id)
		}
	}
}

func TestByID(t *testing.T) {
	f, ok := ByID("7-1-2-3")
	if !ok {
		t.Fatal("expected to find 7-1-2-3")
	}
	if f.Name != "1-2-3" || f.PlayerCount != 7 {
		t.Errorf("unexpected formation: %+v", f)
	}

	if _, ok := ByID("3-5-2"); ok {
		t.Error("expected miss for unknown id")
	}
}
