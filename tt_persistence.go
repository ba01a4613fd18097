package main

import (
	"encoding/gob"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

const ttSnapshotVersion = 1

// ttSnapshot is the on-disk form of the transposition table. The board
// dimensions and Zobrist seed are stamped so a snapshot is only reloaded
// into the hash universe it was built in.
type ttSnapshot struct {
	Version     int
	BoardWidth  int
	BoardHeight int
	ZobristSeed uint64
	Entries     []TTEntry
}

var errSnapshotMismatch = errors.New("tt snapshot was built for a different configuration")

// SaveTT writes the table to path atomically: encode to a temp file in the
// same directory, then rename over the target.
func SaveTT(tt *TranspositionTable, path string, width, height int, seed uint64) error {
	snapshot := ttSnapshot{
		Version:     ttSnapshotVersion,
		BoardWidth:  width,
		BoardHeight: height,
		ZobristSeed: seed,
		Entries:     tt.snapshotEntries(),
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "tt-*.gob.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	if err := gob.NewEncoder(tmp).Encode(&snapshot); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	log.Printf("[ai:cache] saved %d tt entries to %s", len(snapshot.Entries), path)
	return nil
}

// LoadTT restores a snapshot into tt. A missing file is not an error; a
// snapshot for a different board geometry or seed is rejected.
func LoadTT(tt *TranspositionTable, path string, width, height int, seed uint64) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()
	var snapshot ttSnapshot
	if err := gob.NewDecoder(f).Decode(&snapshot); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	if snapshot.Version != ttSnapshotVersion ||
		snapshot.BoardWidth != width || snapshot.BoardHeight != height ||
		snapshot.ZobristSeed != seed {
		return errSnapshotMismatch
	}
	tt.loadEntries(snapshot.Entries)
	log.Printf("[ai:cache] loaded %d tt entries from %s", len(snapshot.Entries), path)
	return nil
}
