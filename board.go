package main

import "fmt"

type Cell int

const (
	CellEmpty Cell = iota
	CellOwn
	CellOpponent
	CellBlocked
)

// Player is a side from the engine's perspective: PlayerOwn is always the
// engine's stone, whatever color the protocol manager assigned to it.
type Player int

const (
	PlayerOwn Player = iota
	PlayerOpponent
)

// MaxBoardCells is the protocol cap on total cells (up to 32x32).
const MaxBoardCells = 1024

type Board struct {
	width  int
	height int
	cells  []Cell
}

func NewBoard(width, height int) Board {
	b := Board{}
	b.Reset(width, height)
	return b
}

func (b *Board) Reset(width, height int) {
	b.width = width
	b.height = height
	b.cells = make([]Cell, width*height)
}

func (b Board) At(x, y int) Cell {
	return b.cells[b.index(x, y)]
}

func (b *Board) Set(x, y int, value Cell) {
	b.cells[b.index(x, y)] = value
}

func (b *Board) Remove(x, y int) {
	b.cells[b.index(x, y)] = CellEmpty
}

func (b Board) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.width && y < b.height
}

func (b Board) IsEmpty(x, y int) bool {
	return b.InBounds(x, y) && b.At(x, y) == CellEmpty
}

func (b Board) CountEmpty() int {
	count := 0
	for _, cell := range b.cells {
		if cell == CellEmpty {
			count++
		}
	}
	return count
}

func (b Board) Width() int {
	return b.width
}

func (b Board) Height() int {
	return b.height
}

func (b Board) Clone() Board {
	clone := Board{width: b.width, height: b.height}
	clone.cells = make([]Cell, len(b.cells))
	copy(clone.cells, b.cells)
	return clone
}

func (b Board) index(x, y int) int {
	return y*b.width + x
}

// IsWinFrom reports whether the stone at lastMove completes five (or more) in
// a row along any of the four axes through it.
func (b Board) IsWinFrom(lastMove Move) bool {
	target := b.At(lastMove.X, lastMove.Y)
	if target == CellEmpty || target == CellBlocked {
		return false
	}
	directions := [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}
	for i := 0; i < 4; i++ {
		dx := directions[i][0]
		dy := directions[i][1]
		count := 1
		x := lastMove.X + dx
		y := lastMove.Y + dy
		for b.InBounds(x, y) && b.At(x, y) == target {
			count++
			x += dx
			y += dy
		}
		x = lastMove.X - dx
		y = lastMove.Y - dy
		for b.InBounds(x, y) && b.At(x, y) == target {
			count++
			x -= dx
			y -= dy
		}
		if count >= 5 {
			return true
		}
	}
	return false
}

func (c Cell) String() string {
	switch c {
	case CellOwn:
		return "Own"
	case CellOpponent:
		return "Opponent"
	case CellBlocked:
		return "Blocked"
	default:
		return "Empty"
	}
}

func CellFromPlayer(player Player) Cell {
	if player == PlayerOwn {
		return CellOwn
	}
	return CellOpponent
}

func PlayerFromCell(cell Cell) (Player, error) {
	switch cell {
	case CellOwn:
		return PlayerOwn, nil
	case CellOpponent:
		return PlayerOpponent, nil
	default:
		return PlayerOwn, fmt.Errorf("cell %s has no player", cell)
	}
}

func otherPlayer(player Player) Player {
	if player == PlayerOwn {
		return PlayerOpponent
	}
	return PlayerOwn
}

func otherCell(cell Cell) Cell {
	if cell == CellOwn {
		return CellOpponent
	}
	return CellOwn
}
