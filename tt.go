package main

import (
	"sort"
	"sync"
)

type TTFlag uint8

const (
	TTExact TTFlag = iota
	TTLower
	TTUpper
)

// TTEntry is one transposition table slot. Key stores the full hash so a
// probe can reject index collisions.
type TTEntry struct {
	Key      uint64
	Depth    int
	Score    int
	Flag     TTFlag
	BestMove Move
	Valid    bool
}

// TranspositionTable is a fixed-size direct-mapped cache of search results
// keyed by Zobrist hash. New stores overwrite whatever occupied the slot.
type TranspositionTable struct {
	mu      sync.RWMutex
	entries []TTEntry
	mask    uint64
	count   int
}

func NewTranspositionTable(size int) *TranspositionTable {
	if size < 1 {
		size = 1
	}
	n := nextPowerOfTwo(size)
	return &TranspositionTable{
		entries: make([]TTEntry, n),
		mask:    uint64(n - 1),
	}
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Probe returns the stored entry for key, but only when the full key matches
// and the stored search depth is at least the requested depth. Shallower
// entries are useless to a deeper search and collisions must never leak a
// wrong position's score.
func (tt *TranspositionTable) Probe(key uint64, depth int) (TTEntry, bool) {
	tt.mu.RLock()
	entry := tt.entries[key&tt.mask]
	tt.mu.RUnlock()
	if !entry.Valid || entry.Key != key || entry.Depth < depth {
		return TTEntry{}, false
	}
	return entry, true
}

// Store writes an entry for key, replacing any previous occupant of the slot.
func (tt *TranspositionTable) Store(key uint64, depth, score int, flag TTFlag, best Move) {
	tt.mu.Lock()
	slot := &tt.entries[key&tt.mask]
	if !slot.Valid {
		tt.count++
	}
	*slot = TTEntry{
		Key:      key,
		Depth:    depth,
		Score:    score,
		Flag:     flag,
		BestMove: best,
		Valid:    true,
	}
	tt.mu.Unlock()
}

func (tt *TranspositionTable) Count() int {
	tt.mu.RLock()
	defer tt.mu.RUnlock()
	return tt.count
}

func (tt *TranspositionTable) Capacity() int {
	return len(tt.entries)
}

func (tt *TranspositionTable) Clear() {
	tt.mu.Lock()
	for i := range tt.entries {
		tt.entries[i] = TTEntry{}
	}
	tt.count = 0
	tt.mu.Unlock()
}

// TopEntries returns up to n live entries ordered deepest first, for the
// debug surface.
func (tt *TranspositionTable) TopEntries(n int) []TTEntry {
	entries := tt.snapshotEntries()
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Depth > entries[j].Depth
	})
	if n >= 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// snapshotEntries copies the live entries out for persistence.
func (tt *TranspositionTable) snapshotEntries() []TTEntry {
	tt.mu.RLock()
	defer tt.mu.RUnlock()
	out := make([]TTEntry, 0, tt.count)
	for _, e := range tt.entries {
		if e.Valid {
			out = append(out, e)
		}
	}
	return out
}

// loadEntries reinserts persisted entries, remapping them through the
// current table size.
func (tt *TranspositionTable) loadEntries(entries []TTEntry) {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	for _, e := range entries {
		if !e.Valid {
			continue
		}
		slot := &tt.entries[e.Key&tt.mask]
		if !slot.Valid {
			tt.count++
		}
		*slot = e
	}
}
