package main

import "testing"

func TestZobristIncrementalMatchesRecompute(t *testing.T) {
	board := NewBoard(15, 15)
	z := NewZobrist(15, 15, 42)
	z.CalculateHash(board)

	moves := []struct {
		cell Cell
		x, y int
	}{
		{CellOwn, 7, 7},
		{CellOpponent, 8, 7},
		{CellOwn, 7, 8},
		{CellOpponent, 6, 6},
	}
	for _, m := range moves {
		board.Set(m.x, m.y, m.cell)
		z.Update(m.cell, m.x, m.y)
	}
	incremental := z.Current()

	fresh := NewZobrist(15, 15, 42)
	if recomputed := fresh.CalculateHash(board); recomputed != incremental {
		t.Fatalf("incremental hash %x != recomputed %x", incremental, recomputed)
	}
}

func TestZobristUpdateIsSelfInverse(t *testing.T) {
	z := NewZobrist(15, 15, 42)
	board := NewBoard(15, 15)
	before := z.CalculateHash(board)
	z.Update(CellOwn, 3, 4)
	if z.Current() == before {
		t.Fatal("placing a stone did not change the hash")
	}
	z.Update(CellOwn, 3, 4)
	if z.Current() != before {
		t.Fatalf("undo left hash %x, want %x", z.Current(), before)
	}
}

func TestZobristDistinguishesCellKinds(t *testing.T) {
	own := NewZobrist(15, 15, 42)
	opp := NewZobrist(15, 15, 42)
	boardOwn := NewBoard(15, 15)
	boardOwn.Set(5, 5, CellOwn)
	boardOpp := NewBoard(15, 15)
	boardOpp.Set(5, 5, CellOpponent)
	if own.CalculateHash(boardOwn) == opp.CalculateHash(boardOpp) {
		t.Fatal("own and opponent stones on the same square must hash differently")
	}
}

func TestZobristStableAcrossInstances(t *testing.T) {
	board := NewBoard(15, 15)
	board.Set(7, 7, CellOwn)
	a := NewZobrist(15, 15, 99)
	b := NewZobrist(15, 15, 99)
	if a.CalculateHash(board) != b.CalculateHash(board) {
		t.Fatal("same seed must produce identical key tables")
	}
}
