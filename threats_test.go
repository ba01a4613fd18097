package main

import "testing"

func TestFindThreatsEmptyBoard(t *testing.T) {
	board := NewBoard(15, 15)
	ev := NewEvaluator(DefaultThreatWeights())
	if candidates := FindThreats(board, ev); len(candidates) != 0 {
		t.Fatalf("empty board produced %d candidates, want 0", len(candidates))
	}
}

func TestFindThreatsFullBoard(t *testing.T) {
	board := NewBoard(6, 6)
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			cell := CellOwn
			if (x+y)%2 == 0 {
				cell = CellOpponent
			}
			board.Set(x, y, cell)
		}
	}
	ev := NewEvaluator(DefaultThreatWeights())
	if candidates := FindThreats(board, ev); len(candidates) != 0 {
		t.Fatalf("full board produced %d candidates, want 0", len(candidates))
	}
}

func TestFindThreatsSortedDescending(t *testing.T) {
	board := NewBoard(15, 15)
	board.Set(5, 5, CellOwn)
	board.Set(6, 5, CellOwn)
	board.Set(7, 5, CellOwn)
	board.Set(11, 11, CellOpponent)
	board.Set(12, 11, CellOpponent)
	ev := NewEvaluator(DefaultThreatWeights())
	candidates := FindThreats(board, ev)
	if len(candidates) == 0 {
		t.Fatal("no candidates found around live stones")
	}
	for i := 1; i < len(candidates); i++ {
		if candidates[i].Score > candidates[i-1].Score {
			t.Fatalf("candidates out of order at %d: %d > %d",
				i, candidates[i].Score, candidates[i-1].Score)
		}
	}
	// Extending the own three should outrank anything near the opponent pair.
	top := candidates[0]
	if top.Y != 5 || (top.X != 4 && top.X != 8) {
		t.Fatalf("top candidate %d,%d does not extend the three in a row", top.X, top.Y)
	}
}

func TestFindThreatsScoresBothSides(t *testing.T) {
	board := NewBoard(15, 15)
	board.Set(5, 5, CellOpponent)
	board.Set(6, 5, CellOpponent)
	ev := NewEvaluator(DefaultThreatWeights())
	candidates := FindThreats(board, ev)
	if len(candidates) == 0 {
		t.Fatal("opponent-only threats must still produce candidates")
	}
}

func TestTopCandidates(t *testing.T) {
	candidates := []ThreatCandidate{{Score: 5}, {Score: 4}, {Score: 3}}
	if got := topCandidates(candidates, 2); len(got) != 2 {
		t.Fatalf("topCandidates(3, 2) = %d entries, want 2", len(got))
	}
	if got := topCandidates(candidates, 10); len(got) != 3 {
		t.Fatalf("topCandidates(3, 10) = %d entries, want 3", len(got))
	}
}
