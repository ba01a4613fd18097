package main

import (
	"errors"
	"math/rand"
	"testing"
)

func newTestContext(t *testing.T, board *Board, config Config) *SearchContext {
	t.Helper()
	return NewSearchContext(
		board,
		NewZobrist(board.Width(), board.Height(), 42),
		NewTranspositionTable(1<<12),
		NewEvaluator(config.Weights),
		rand.New(rand.NewSource(1)),
		config,
	)
}

func boardsEqual(a, b Board) bool {
	if a.Width() != b.Width() || a.Height() != b.Height() {
		return false
	}
	for y := 0; y < a.Height(); y++ {
		for x := 0; x < a.Width(); x++ {
			if a.At(x, y) != b.At(x, y) {
				return false
			}
		}
	}
	return true
}

func TestMinimaxRestoresBoardAndHash(t *testing.T) {
	board := NewBoard(15, 15)
	board.Set(7, 7, CellOwn)
	board.Set(8, 7, CellOpponent)
	board.Set(7, 8, CellOwn)

	config := DefaultConfig()
	config.SearchDepth = 3
	ctx := newTestContext(t, &board, config)
	before := board.Clone()
	hashBefore := ctx.Zobrist.CalculateHash(board)

	ctx.minimax(3, true, -winScore-1, winScore+1)

	if !boardsEqual(before, board) {
		t.Fatal("search left the board mutated")
	}
	if ctx.Zobrist.Current() != hashBefore {
		t.Fatalf("search left hash %x, want %x", ctx.Zobrist.Current(), hashBefore)
	}
}

func TestMinimaxMinimizerFindsOpponentWin(t *testing.T) {
	board := NewBoard(15, 15)
	for x := 1; x <= 4; x++ {
		board.Set(x, 1, CellOwn)
		board.Set(x, 3, CellOpponent)
	}
	// Left completion of the opponent four is taken, so only (5,3)
	// finishes their five. Our own open four on row 1 ranks higher in
	// the candidate list, and the minimizer must still look past it.
	board.Set(0, 3, CellOwn)

	config := DefaultConfig()
	ctx := newTestContext(t, &board, config)
	ctx.Zobrist.CalculateHash(board)

	score := ctx.minimax(1, false, -winScore-1, winScore+1)
	if score > -winScore {
		t.Fatalf("minimizing score = %d, want <= %d", score, -winScore)
	}
}

func TestFindBestMovePlacesExactlyOneStone(t *testing.T) {
	board := NewBoard(15, 15)
	board.Set(7, 7, CellOpponent)
	config := DefaultConfig()
	config.SearchDepth = 2
	ctx := newTestContext(t, &board, config)
	before := board.Clone()

	move, err := ctx.FindBestMove()
	if err != nil {
		t.Fatalf("FindBestMove: %v", err)
	}
	if board.At(move.X, move.Y) != CellOwn {
		t.Fatalf("returned move %d,%d not placed as own stone", move.X, move.Y)
	}
	diff := 0
	for y := 0; y < 15; y++ {
		for x := 0; x < 15; x++ {
			if before.At(x, y) != board.At(x, y) {
				diff++
			}
		}
	}
	if diff != 1 {
		t.Fatalf("%d cells changed, want exactly 1", diff)
	}
}

func TestFindBestMoveCompletesFive(t *testing.T) {
	board := NewBoard(15, 15)
	for x := 3; x <= 6; x++ {
		board.Set(x, 7, CellOwn)
	}
	config := DefaultConfig()
	config.SearchDepth = 3
	ctx := newTestContext(t, &board, config)

	move, err := ctx.FindBestMove()
	if err != nil {
		t.Fatalf("FindBestMove: %v", err)
	}
	if !board.IsWinFrom(move) {
		t.Fatalf("move %d,%d does not complete five in a row", move.X, move.Y)
	}
}

func TestFindBestMoveBlocksOpponentFour(t *testing.T) {
	board := NewBoard(15, 15)
	for x := 4; x <= 7; x++ {
		board.Set(x, 7, CellOpponent)
	}
	config := DefaultConfig()
	config.SearchDepth = 2
	ctx := newTestContext(t, &board, config)

	move, err := ctx.FindBestMove()
	if err != nil {
		t.Fatalf("FindBestMove: %v", err)
	}
	blocksLeft := move.X == 3 && move.Y == 7
	blocksRight := move.X == 8 && move.Y == 7
	if !blocksLeft && !blocksRight {
		t.Fatalf("move %d,%d does not block the open four", move.X, move.Y)
	}
}

func TestFindBestMoveEmptyBoardFallsBackToRandom(t *testing.T) {
	board := NewBoard(15, 15)
	config := DefaultConfig()
	config.SearchDepth = 2
	ctx := newTestContext(t, &board, config)

	move, err := ctx.FindBestMove()
	if err != nil {
		t.Fatalf("FindBestMove: %v", err)
	}
	if !move.IsValid(15, 15) {
		t.Fatalf("move %d,%d out of bounds", move.X, move.Y)
	}
	if board.At(move.X, move.Y) != CellOwn {
		t.Fatal("fallback move not placed on the board")
	}
}

func TestFindBestMoveFullBoard(t *testing.T) {
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
	config := DefaultConfig()
	ctx := newTestContext(t, &board, config)

	if _, err := ctx.FindBestMove(); !errors.Is(err, ErrNoEmptyCells) {
		t.Fatalf("err = %v, want ErrNoEmptyCells", err)
	}
}
