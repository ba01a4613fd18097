package main

import "sort"

// ThreatCandidate is an empty cell worth considering, scored for both sides.
type ThreatCandidate struct {
	X     int
	Y     int
	Score int
}

// FindThreats scores every empty cell as the sum of its value to both
// players, so strong defensive squares rank alongside strong attacking ones.
// Zero-score cells are dropped; the result is sorted best first with a
// stable sort so equal scores keep scan order.
func FindThreats(board Board, eval *Evaluator) []ThreatCandidate {
	var candidates []ThreatCandidate
	for y := 0; y < board.Height(); y++ {
		for x := 0; x < board.Width(); x++ {
			if !board.IsEmpty(x, y) {
				continue
			}
			score := eval.Evaluate(board, PlayerOwn, x, y) +
				eval.Evaluate(board, PlayerOpponent, x, y)
			if score <= 0 {
				continue
			}
			candidates = append(candidates, ThreatCandidate{X: x, Y: y, Score: score})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}

// topCandidates truncates a sorted candidate list to at most k entries.
func topCandidates(candidates []ThreatCandidate, k int) []ThreatCandidate {
	if k >= 0 && len(candidates) > k {
		return candidates[:k]
	}
	return candidates
}
