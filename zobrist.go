package main

// Zobrist maintains an incrementally updated 64-bit hash of the board.
// Each (cell kind, position) pair gets a random key; placing or removing a
// stone XORs the same key, so undo is the same operation as do.
type Zobrist struct {
	width   int
	height  int
	keys    []uint64
	current uint64
}

const zobristCellKinds = 2

// NewZobrist builds the key table for a width x height board from a fixed
// seed, so the same position always hashes the same across runs. That
// stability is what makes the persisted transposition table reusable.
func NewZobrist(width, height int, seed uint64) *Zobrist {
	z := &Zobrist{
		width:  width,
		height: height,
		keys:   make([]uint64, width*height*zobristCellKinds),
	}
	state := seed
	for i := range z.keys {
		z.keys[i] = splitmix64(&state)
	}
	return z
}

// splitmix64 is a tiny, well distributed PRNG; good enough for hash keys and
// dependency free.
func splitmix64(state *uint64) uint64 {
	*state += 0x9E3779B97F4A7C15
	x := *state
	x = (x ^ (x >> 30)) * 0xBF58476D1CE4E5B9
	x = (x ^ (x >> 27)) * 0x94D049BB133111EB
	return x ^ (x >> 31)
}

func (z *Zobrist) keyFor(cell Cell, x, y int) uint64 {
	kind := 0
	if cell == CellOpponent {
		kind = 1
	}
	return z.keys[(y*z.width+x)*zobristCellKinds+kind]
}

// CalculateHash recomputes the hash of a board from scratch and resets the
// incremental state to it.
func (z *Zobrist) CalculateHash(board Board) uint64 {
	var h uint64
	for y := 0; y < z.height; y++ {
		for x := 0; x < z.width; x++ {
			switch c := board.At(x, y); c {
			case CellOwn, CellOpponent:
				h ^= z.keyFor(c, x, y)
			}
		}
	}
	z.current = h
	return h
}

// Update toggles one stone in or out of the hash. Calling it twice with the
// same arguments restores the previous value.
func (z *Zobrist) Update(cell Cell, x, y int) uint64 {
	z.current ^= z.keyFor(cell, x, y)
	return z.current
}

func (z *Zobrist) Current() uint64 {
	return z.current
}
