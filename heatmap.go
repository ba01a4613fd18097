package main

import (
	"math/rand"
	"sort"
)

// maxDilations bounds how far an occupied cell radiates importance. The
// interest kernel is a square of side 2*maxDilations+1 centered on the cell.
const (
	maxDilations   = 2
	heatKernelSize = 2*maxDilations + 1
)

// HeatCell pairs a board cell with its sampling importance.
type HeatCell struct {
	Cell       Cell
	Importance float32
}

// HeatMap is a spatial importance field over the board. It biases the
// opening toward the center and weights MCTS rollouts toward contested
// areas.
type HeatMap struct {
	width  int
	height int
	cells  []HeatCell
}

func NewHeatMap(board Board) *HeatMap {
	h := &HeatMap{
		width:  board.Width(),
		height: board.Height(),
		cells:  make([]HeatCell, board.Width()*board.Height()),
	}
	for y := 0; y < h.height; y++ {
		for x := 0; x < h.width; x++ {
			h.cells[y*h.width+x].Cell = board.At(x, y)
		}
	}
	return h
}

func (h *HeatMap) Width() int  { return h.width }
func (h *HeatMap) Height() int { return h.height }

func (h *HeatMap) index(x, y int) int { return y*h.width + x }

func (h *HeatMap) ImportanceAt(x, y int) float32 {
	return h.cells[h.index(x, y)].Importance
}

// ApplyZone raises importance to value over the rectangle [x0,x1]x[y0,y1],
// clipped to the map. Existing higher importance is kept.
func (h *HeatMap) ApplyZone(x0, y0, x1, y1 int, value float32) {
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 >= h.width {
		x1 = h.width - 1
	}
	if y1 >= h.height {
		y1 = h.height - 1
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			c := &h.cells[h.index(x, y)]
			if value > c.Importance {
				c.Importance = value
			}
		}
	}
}

// CloneWithPadding returns a larger map with this one centered in it. The
// border cells are blocked with zero importance, so kernel passes near the
// edge need no bounds checks.
func (h *HeatMap) CloneWithPadding(pad int) *HeatMap {
	out := &HeatMap{
		width:  h.width + 2*pad,
		height: h.height + 2*pad,
	}
	out.cells = make([]HeatCell, out.width*out.height)
	for i := range out.cells {
		out.cells[i].Cell = CellBlocked
	}
	for y := 0; y < h.height; y++ {
		for x := 0; x < h.width; x++ {
			out.cells[out.index(x+pad, y+pad)] = h.cells[h.index(x, y)]
		}
	}
	return out
}

// Shape crops the map back to width x height, taking the centered region.
// It is the inverse of CloneWithPadding for matching dimensions.
func (h *HeatMap) Shape(width, height int) *HeatMap {
	padX := (h.width - width) / 2
	padY := (h.height - height) / 2
	out := &HeatMap{
		width:  width,
		height: height,
		cells:  make([]HeatCell, width*height),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			out.cells[out.index(x, y)] = h.cells[h.index(x+padX, y+padY)]
		}
	}
	return out
}

// interestKernel maps Chebyshev distance from the kernel center to an
// interest value via (W-d)/W with W = kernelSize/2 + 1, so the center is
// 1.0 and interest falls off linearly with ring distance.
var interestKernel = buildInterestKernel(heatKernelSize)

func buildInterestKernel(size int) []float32 {
	k := make([]float32, size*size)
	center := size / 2
	w := float32(size/2 + 1)
	for ky := 0; ky < size; ky++ {
		for kx := 0; kx < size; kx++ {
			d := chebyshev(kx-center, ky-center)
			k[ky*size+kx] = (w - float32(d)) / w
		}
	}
	return k
}

func chebyshev(dx, dy int) int {
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}

// Dilate radiates importance from occupied cells: every cell takes the max
// of its current importance and the kernel interest of each occupied cell
// under the kernel footprint centered on it. Max-pooling keeps values
// bounded by the kernel's own maximum, so overlapping stones never stack.
func (h *HeatMap) Dilate() {
	padded := h.CloneWithPadding(maxDilations)
	for y := 0; y < h.height; y++ {
		for x := 0; x < h.width; x++ {
			best := h.cells[h.index(x, y)].Importance
			for ky := 0; ky < heatKernelSize; ky++ {
				for kx := 0; kx < heatKernelSize; kx++ {
					under := padded.cells[padded.index(x+kx, y+ky)].Cell
					if under != CellOwn && under != CellOpponent {
						continue
					}
					if v := interestKernel[ky*heatKernelSize+kx]; v > best {
						best = v
					}
				}
			}
			h.cells[h.index(x, y)].Importance = best
		}
	}
}

// Clean zeroes importance on every non-empty cell; moves only target empty
// cells.
func (h *HeatMap) Clean() {
	for i := range h.cells {
		if h.cells[i].Cell != CellEmpty {
			h.cells[i].Importance = 0
		}
	}
}

// RandomIndex draws a cell index with probability proportional to its
// importance (roulette wheel). A map with no positive importance returns -1.
func (h *HeatMap) RandomIndex(rng *rand.Rand) int {
	var sum float64
	for i := range h.cells {
		sum += float64(h.cells[i].Importance)
	}
	if sum <= 0 {
		return -1
	}
	draw := rng.Float64() * sum
	var acc float64
	for i := range h.cells {
		acc += float64(h.cells[i].Importance)
		if acc > draw {
			return i
		}
	}
	// Floating point slop can leave the walk just short of the last
	// positive cell.
	for i := len(h.cells) - 1; i >= 0; i-- {
		if h.cells[i].Importance > 0 {
			return i
		}
	}
	return -1
}

// RandomIndexes draws up to n distinct indexes without replacement, zeroing
// each pick in a scratch copy so it cannot be drawn twice.
func (h *HeatMap) RandomIndexes(rng *rand.Rand, n int) []int {
	scratch := &HeatMap{
		width:  h.width,
		height: h.height,
		cells:  append([]HeatCell(nil), h.cells...),
	}
	var out []int
	for len(out) < n {
		idx := scratch.RandomIndex(rng)
		if idx < 0 {
			break
		}
		scratch.cells[idx].Importance = 0
		out = append(out, idx)
	}
	return out
}

// BestMoves returns every positive-importance cell as a coordinate, sorted
// by importance descending. Ties keep row-major order.
func (h *HeatMap) BestMoves() []Move {
	type scored struct {
		move       Move
		importance float32
	}
	var cells []scored
	for y := 0; y < h.height; y++ {
		for x := 0; x < h.width; x++ {
			c := h.cells[h.index(x, y)]
			if c.Importance > 0 {
				cells = append(cells, scored{Move{X: x, Y: y}, c.Importance})
			}
		}
	}
	sort.SliceStable(cells, func(i, j int) bool {
		return cells[i].importance > cells[j].importance
	})
	moves := make([]Move, len(cells))
	for i, c := range cells {
		moves[i] = c.move
	}
	return moves
}

// BuildHeatMap builds the sampling field for one position: a centered
// high-importance zone during the opening rounds, then dilation around every
// stone on the board, with occupied cells cleaned out at the end.
func BuildHeatMap(board Board, round int, config Config) *HeatMap {
	h := NewHeatMap(board)
	if round < config.HeatmapCenterRounds {
		size := board.Width()
		if board.Height() < size {
			size = board.Height()
		}
		zone := size / 2
		if zone > 10 {
			zone = 10
		}
		if zone < 1 {
			zone = 1
		}
		x0 := (board.Width() - zone) / 2
		y0 := (board.Height() - zone) / 2
		h.ApplyZone(x0, y0, x0+zone-1, y0+zone-1, 0.5)
	}
	h.Dilate()
	h.Clean()
	return h
}
