package main

import (
	"errors"
	"log"
	"math/rand"
	"time"
)

var (
	ErrNoEmptyCells = errors.New("board has no empty cells")
	ErrNoValidMove  = errors.New("no valid move found")
)

// SearchStats accumulates counters over one FindBestMove call.
type SearchStats struct {
	NodesVisited int64
	TTProbes     int64
	TTHits       int64
	Cutoffs      int64
}

// SearchContext carries everything one search needs. Searches never touch
// globals, so two contexts can run side by side (the trainer does exactly
// that).
type SearchContext struct {
	Board    *Board
	Zobrist  *Zobrist
	TT       *TranspositionTable
	Eval     *Evaluator
	Rng      *rand.Rand
	Config   Config
	Stats    SearchStats
	Deadline time.Time
}

func NewSearchContext(board *Board, zobrist *Zobrist, tt *TranspositionTable, eval *Evaluator, rng *rand.Rand, config Config) *SearchContext {
	return &SearchContext{
		Board:   board,
		Zobrist: zobrist,
		TT:      tt,
		Eval:    eval,
		Rng:     rng,
		Config:  config,
	}
}

func (ctx *SearchContext) deadlineExceeded() bool {
	return !ctx.Deadline.IsZero() && time.Now().After(ctx.Deadline)
}

// placeStone mutates the board and hash and returns the matching undo.
// Callers run the returned closure on every exit path (deferred inside a
// scope) so the board and hash are restored exactly.
func (ctx *SearchContext) placeStone(cell Cell, x, y int) func() {
	ctx.Board.Set(x, y, cell)
	ctx.Zobrist.Update(cell, x, y)
	return func() {
		ctx.Board.Remove(x, y)
		ctx.Zobrist.Update(cell, x, y)
	}
}

// randomEmptyCell picks a uniformly random empty cell, used as the fallback
// when the threat scanner finds nothing worth playing.
func (ctx *SearchContext) randomEmptyCell() (Move, error) {
	empty := ctx.Board.CountEmpty()
	if empty == 0 {
		return Move{}, ErrNoEmptyCells
	}
	target := ctx.Rng.Intn(empty)
	for y := 0; y < ctx.Board.Height(); y++ {
		for x := 0; x < ctx.Board.Width(); x++ {
			if !ctx.Board.IsEmpty(x, y) {
				continue
			}
			if target == 0 {
				return Move{X: x, Y: y}, nil
			}
			target--
		}
	}
	return Move{}, ErrNoEmptyCells
}

// FindBestMove runs a depth-limited alpha-beta search over the top threat
// candidates, places the winning choice on the board as an own stone and
// returns it. An empty candidate list falls back to a random empty cell.
func (ctx *SearchContext) FindBestMove() (Move, error) {
	started := time.Now()
	ctx.Stats = SearchStats{}
	ctx.Zobrist.CalculateHash(*ctx.Board)

	candidates := topCandidates(FindThreats(*ctx.Board, ctx.Eval), ctx.Config.TopCandidates)
	if len(candidates) == 0 {
		move, err := ctx.randomEmptyCell()
		if err != nil {
			return Move{}, err
		}
		ctx.placeStone(CellOwn, move.X, move.Y)
		return move, nil
	}

	best := Move{X: candidates[0].X, Y: candidates[0].Y}
	bestScore := -winScore - 1
	alpha := -winScore - 1
	beta := winScore + 1
	for _, cand := range candidates {
		score := func() int {
			undo := ctx.placeStone(CellOwn, cand.X, cand.Y)
			defer undo()
			if ctx.Board.IsWinFrom(Move{X: cand.X, Y: cand.Y}) {
				return winScore
			}
			return ctx.minimax(ctx.Config.SearchDepth-1, false, alpha, beta)
		}()
		if score > bestScore {
			bestScore = score
			best = Move{X: cand.X, Y: cand.Y}
		}
		if score > alpha {
			alpha = score
		}
		if bestScore >= winScore {
			break
		}
		// Deadline is honored between top-level candidates: the best move
		// found so far still gets played.
		if ctx.deadlineExceeded() {
			break
		}
	}

	ctx.placeStone(CellOwn, best.X, best.Y)
	if ctx.Config.LogSearchStats {
		ctx.logSearchStats(best, bestScore, time.Since(started))
	}
	return best, nil
}

func (ctx *SearchContext) logSearchStats(move Move, score int, elapsed time.Duration) {
	hitRate := 0.0
	if ctx.Stats.TTProbes > 0 {
		hitRate = float64(ctx.Stats.TTHits) / float64(ctx.Stats.TTProbes)
	}
	log.Printf("[ai:search] move=%d,%d score=%d nodes=%d tt=%d/%d (%.1f%%) cutoffs=%d elapsed=%s",
		move.X, move.Y, score, ctx.Stats.NodesVisited,
		ctx.Stats.TTHits, ctx.Stats.TTProbes, hitRate*100,
		ctx.Stats.Cutoffs, elapsed.Round(time.Millisecond))
}
