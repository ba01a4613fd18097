package main

import "testing"

func TestTTStoreAndProbe(t *testing.T) {
	tt := NewTranspositionTable(1 << 10)
	tt.Store(0xDEADBEEF, 4, 1234, TTExact, Move{X: 3, Y: 4})

	entry, ok := tt.Probe(0xDEADBEEF, 4)
	if !ok {
		t.Fatal("stored entry not found")
	}
	if entry.Score != 1234 || entry.Flag != TTExact || !entry.BestMove.Equals(Move{X: 3, Y: 4}) {
		t.Fatalf("entry mismatch: %+v", entry)
	}
}

func TestTTProbeRejectsShallowerEntry(t *testing.T) {
	tt := NewTranspositionTable(1 << 10)
	tt.Store(1, 2, 100, TTExact, Move{})
	if _, ok := tt.Probe(1, 5); ok {
		t.Fatal("depth-2 entry served to a depth-5 probe")
	}
	if _, ok := tt.Probe(1, 2); !ok {
		t.Fatal("depth-2 entry not served to a depth-2 probe")
	}
	if _, ok := tt.Probe(1, 1); !ok {
		t.Fatal("deeper entry must satisfy a shallower probe")
	}
}

func TestTTProbeRejectsIndexCollision(t *testing.T) {
	tt := NewTranspositionTable(1 << 8)
	key := uint64(7)
	colliding := key + uint64(tt.Capacity())
	tt.Store(key, 3, 55, TTExact, Move{})
	if _, ok := tt.Probe(colliding, 3); ok {
		t.Fatal("colliding key must not return the other position's entry")
	}
}

func TestTTOverwrite(t *testing.T) {
	tt := NewTranspositionTable(1 << 8)
	key := uint64(7)
	colliding := key + uint64(tt.Capacity())
	tt.Store(key, 3, 55, TTExact, Move{})
	tt.Store(colliding, 2, 99, TTLower, Move{X: 1})
	if _, ok := tt.Probe(key, 3); ok {
		t.Fatal("overwritten entry still probeable")
	}
	entry, ok := tt.Probe(colliding, 2)
	if !ok || entry.Score != 99 {
		t.Fatalf("replacement entry missing: ok=%v entry=%+v", ok, entry)
	}
	if tt.Count() != 1 {
		t.Fatalf("count = %d after overwrite, want 1", tt.Count())
	}
}

func TestTTClear(t *testing.T) {
	tt := NewTranspositionTable(1 << 8)
	tt.Store(1, 1, 1, TTExact, Move{})
	tt.Store(2, 1, 2, TTExact, Move{})
	tt.Clear()
	if tt.Count() != 0 {
		t.Fatalf("count = %d after clear, want 0", tt.Count())
	}
	if _, ok := tt.Probe(1, 1); ok {
		t.Fatal("entry survived clear")
	}
}

func TestTTCapacityRoundsUp(t *testing.T) {
	tt := NewTranspositionTable(1000)
	if tt.Capacity() != 1024 {
		t.Fatalf("capacity = %d, want 1024", tt.Capacity())
	}
}

func TestTTTopEntriesDeepestFirst(t *testing.T) {
	tt := NewTranspositionTable(1 << 8)
	tt.Store(1, 2, 10, TTExact, Move{})
	tt.Store(2, 5, 20, TTExact, Move{})
	tt.Store(3, 3, 30, TTExact, Move{})
	entries := tt.TopEntries(2)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Depth != 5 || entries[1].Depth != 3 {
		t.Fatalf("entries not ordered by depth: %+v", entries)
	}
}
