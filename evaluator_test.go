package main

import "testing"

func evalBoard(t *testing.T, size int, own, opp []Move) Board {
	t.Helper()
	board := NewBoard(size, size)
	for _, m := range own {
		board.Set(m.X, m.Y, CellOwn)
	}
	for _, m := range opp {
		board.Set(m.X, m.Y, CellOpponent)
	}
	return board
}

func TestEvaluateStraightThree(t *testing.T) {
	board := evalBoard(t, 15, []Move{{5, 5}, {6, 5}}, nil)
	ev := NewEvaluator(DefaultThreatWeights())
	got := ev.Evaluate(board, PlayerOwn, 7, 5)
	if got != DefaultThreatWeights().StraightThree {
		t.Fatalf("straight three score = %d, want %d", got, DefaultThreatWeights().StraightThree)
	}
}

func TestEvaluatePokedThree(t *testing.T) {
	weights := DefaultThreatWeights()
	board := evalBoard(t, 15, []Move{{5, 5}, {7, 5}}, nil)
	ev := NewEvaluator(weights)
	got := ev.Evaluate(board, PlayerOwn, 8, 5)
	if got != weights.StraightPokedThree {
		t.Fatalf("poked three score = %d, want %d", got, weights.StraightPokedThree)
	}
}

func TestEvaluateBlockedPokedThree(t *testing.T) {
	weights := DefaultThreatWeights()
	board := evalBoard(t, 15, []Move{{5, 5}, {7, 5}}, []Move{{9, 5}})
	ev := NewEvaluator(weights)
	got := ev.Evaluate(board, PlayerOwn, 8, 5)
	if got != weights.BlockedPokedThree {
		t.Fatalf("blocked poked three score = %d, want %d", got, weights.BlockedPokedThree)
	}
}

func TestEvaluateCompletingFive(t *testing.T) {
	weights := DefaultThreatWeights()
	board := evalBoard(t, 15, []Move{{4, 5}, {5, 5}, {6, 5}, {7, 5}}, nil)
	ev := NewEvaluator(weights)
	got := ev.Evaluate(board, PlayerOwn, 8, 5)
	if got < weights.Five {
		t.Fatalf("completing move score = %d, want at least %d", got, weights.Five)
	}
}

func TestEvaluateEdgeActsAsBlocker(t *testing.T) {
	weights := DefaultThreatWeights()
	board := evalBoard(t, 15, []Move{{1, 0}, {2, 0}, {3, 0}}, nil)
	ev := NewEvaluator(weights)
	got := ev.Evaluate(board, PlayerOwn, 0, 0)
	if got != weights.BlockedFour {
		t.Fatalf("edge-blocked four score = %d, want %d", got, weights.BlockedFour)
	}
}

func TestEvaluateOccupiedCellIsZero(t *testing.T) {
	board := evalBoard(t, 15, []Move{{5, 5}}, nil)
	ev := NewEvaluator(DefaultThreatWeights())
	if got := ev.Evaluate(board, PlayerOwn, 5, 5); got != 0 {
		t.Fatalf("occupied cell score = %d, want 0", got)
	}
}

func TestEvaluateBothEndsBlockedTooShort(t *testing.T) {
	// OMMMO with only 4 interior cells can never become five.
	board := evalBoard(t, 15, []Move{{5, 5}, {6, 5}}, []Move{{3, 5}, {8, 5}})
	ev := NewEvaluator(DefaultThreatWeights())
	// Horizontal axis contributes nothing; the other axes see an isolated
	// pair at most.
	got := ev.Evaluate(board, PlayerOwn, 7, 5)
	horizontalOnly := analyzeThreats([]byte("OMMMO"))
	if len(horizontalOnly) != 0 {
		t.Fatalf("OMMMO classified as %v, want none", horizontalOnly)
	}
	if got >= DefaultThreatWeights().StraightThree {
		t.Fatalf("dead three scored %d, want less than a live three", got)
	}
}

func TestAnalyzeThreatsClassification(t *testing.T) {
	cases := []struct {
		tokens string
		kind   SequenceKind
		head   Head
	}{
		{".MM.", SeqTwo, HeadStraight},
		{".MMM.", SeqThree, HeadStraight},
		{".MMMM.", SeqFour, HeadStraight},
		{".MMMMM.", SeqFive, HeadStraight},
		{"OMMM.", SeqThree, HeadBlocked},
		{".M.M.", SeqPokedTwo, HeadStraight},
		{".MM.M.", SeqPokedThree, HeadStraight},
		{".MMM.M.", SeqPokedFour, HeadStraight},
		{"OM.MM.", SeqPokedThree, HeadBlocked},
	}
	for _, tc := range cases {
		threats := analyzeThreats([]byte(tc.tokens))
		if len(threats) != 1 {
			t.Errorf("%q: got %d threats, want 1", tc.tokens, len(threats))
			continue
		}
		if threats[0].Kind != tc.kind || threats[0].Head != tc.head {
			t.Errorf("%q: got kind=%d head=%d, want kind=%d head=%d",
				tc.tokens, threats[0].Kind, threats[0].Head, tc.kind, tc.head)
		}
	}
}

func TestAnalyzeThreatsSplitsOnSecondGap(t *testing.T) {
	threats := analyzeThreats([]byte(".MM.MM.MM."))
	if len(threats) < 2 {
		t.Fatalf("got %d threats, want at least 2 poked runs", len(threats))
	}
	for _, th := range threats {
		if th.Kind != SeqPokedFour {
			t.Errorf("got kind=%d, want poked four from each split run", th.Kind)
		}
	}
}

func TestAnalyzeThreatsLoneStoneIgnored(t *testing.T) {
	if threats := analyzeThreats([]byte(".M.")); len(threats) != 0 {
		t.Fatalf("lone stone classified as %v, want none", threats)
	}
}

func TestEvaluatorCacheHits(t *testing.T) {
	board := evalBoard(t, 15, []Move{{5, 5}, {6, 5}}, nil)
	ev := NewEvaluator(DefaultThreatWeights())
	first := ev.Evaluate(board, PlayerOwn, 7, 5)
	probesAfterFirst := ev.CacheProbes
	second := ev.Evaluate(board, PlayerOwn, 7, 5)
	if first != second {
		t.Fatalf("cached score %d differs from first %d", second, first)
	}
	if ev.CacheHits == 0 {
		t.Fatalf("expected cache hits after repeated evaluation (probes=%d)", probesAfterFirst)
	}
}
