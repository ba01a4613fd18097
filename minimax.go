package main

// minimax is the recursive alpha-beta core. The board and hash are mutated
// in place on the way down and restored through the undo closures on the
// way back up, so a node costs no allocation beyond its candidate slice.
func (ctx *SearchContext) minimax(depth int, maximizing bool, alpha, beta int) int {
	ctx.Stats.NodesVisited++
	hash := ctx.Zobrist.Current()
	alphaOrig := alpha
	betaOrig := beta

	ctx.Stats.TTProbes++
	if entry, ok := ctx.TT.Probe(hash, depth); ok {
		ctx.Stats.TTHits++
		switch entry.Flag {
		case TTExact:
			return entry.Score
		case TTLower:
			if entry.Score > alpha {
				alpha = entry.Score
			}
		case TTUpper:
			if entry.Score < beta {
				beta = entry.Score
			}
		}
		if alpha >= beta {
			return entry.Score
		}
	}

	if depth <= 0 {
		return ctx.staticEval()
	}

	candidates := FindThreats(*ctx.Board, ctx.Eval)
	if len(candidates) == 0 {
		return ctx.staticEval()
	}
	candidates = topCandidates(candidates, ctx.Config.TopCandidates)

	cell := CellOpponent
	if maximizing {
		cell = CellOwn
	}
	if !maximizing && len(candidates) == 1 {
		// Single forced reply: skip the loop machinery. Behaviorally
		// identical to the full minimizer pass over one candidate.
		move := Move{X: candidates[0].X, Y: candidates[0].Y}
		score := func() int {
			undo := ctx.placeStone(cell, move.X, move.Y)
			defer undo()
			if ctx.Board.IsWinFrom(move) {
				return -winScore
			}
			return ctx.minimax(depth-1, true, alpha, beta)
		}()
		flag := TTExact
		if score <= alphaOrig {
			flag = TTUpper
		} else if score >= betaOrig {
			flag = TTLower
		}
		ctx.TT.Store(hash, depth, score, flag, move)
		return score
	}
	var best int
	if maximizing {
		best = -winScore - 1
	} else {
		best = winScore + 1
	}
	var bestMove Move
	for _, cand := range candidates {
		move := Move{X: cand.X, Y: cand.Y}
		score := func() int {
			undo := ctx.placeStone(cell, move.X, move.Y)
			defer undo()
			if ctx.Board.IsWinFrom(move) {
				if maximizing {
					return winScore
				}
				return -winScore
			}
			return ctx.minimax(depth-1, !maximizing, alpha, beta)
		}()
		if maximizing {
			if score > best {
				best = score
				bestMove = move
			}
			if best > alpha {
				alpha = best
			}
		} else {
			if score < best {
				best = score
				bestMove = move
			}
			if best < beta {
				beta = best
			}
		}
		if alpha >= beta {
			ctx.Stats.Cutoffs++
			break
		}
	}

	flag := TTExact
	if best <= alphaOrig {
		flag = TTUpper
	} else if best >= betaOrig {
		flag = TTLower
	}
	ctx.TT.Store(hash, depth, best, flag, bestMove)
	return best
}

// staticEval scores a leaf as the best placement available to us minus the
// best placement available to the opponent.
func (ctx *SearchContext) staticEval() int {
	bestOwn := 0
	bestOpp := 0
	for y := 0; y < ctx.Board.Height(); y++ {
		for x := 0; x < ctx.Board.Width(); x++ {
			if !ctx.Board.IsEmpty(x, y) {
				continue
			}
			if s := ctx.Eval.Evaluate(*ctx.Board, PlayerOwn, x, y); s > bestOwn {
				bestOwn = s
			}
			if s := ctx.Eval.Evaluate(*ctx.Board, PlayerOpponent, x, y); s > bestOpp {
				bestOpp = s
			}
		}
	}
	return bestOwn - bestOpp
}
