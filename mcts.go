package main

import (
	"math"
	"math/rand"
	"time"
)

// mctsNode is one tree node. Nodes live in a flat arena and reference each
// other by index; each node owns an independent board snapshot with its move
// already applied, so child simulations never touch the parent's board.
type mctsNode struct {
	parent   int
	children []int
	board    Board
	move     Move
	player   Cell
	untried  []Move
	visits   int
	reward   float64
	terminal bool
}

// MCTS runs Monte Carlo tree search over an arena of nodes. The arena is
// allocated per search and dropped wholesale when the search returns.
type MCTS struct {
	nodes    []mctsNode
	rng      *rand.Rand
	config   Config
	deadline time.Time
}

func NewMCTS(board Board, round int, rng *rand.Rand, config Config) *MCTS {
	m := &MCTS{
		rng:    rng,
		config: config,
	}
	heat := BuildHeatMap(board, round, config)
	m.nodes = append(m.nodes, mctsNode{
		parent: -1,
		board:  board.Clone(),
		// The root's "move" is the opponent's last placement; children are
		// our replies.
		player:  CellOpponent,
		untried: heat.BestMoves(),
	})
	return m
}

// Search runs up to the configured iteration budget, checking the deadline
// every few iterations so a long budget still honors turn time limits.
func (m *MCTS) Search() {
	checkEvery := m.config.MctsDeadlineCheckN
	if checkEvery < 1 {
		checkEvery = 1
	}
	for i := 0; i < m.config.MctsIterations; i++ {
		if i%checkEvery == 0 && !m.deadline.IsZero() && time.Now().After(m.deadline) {
			return
		}
		m.iterate()
	}
}

func (m *MCTS) iterate() {
	idx := m.selectNode()
	if !m.nodes[idx].terminal && len(m.nodes[idx].untried) > 0 {
		idx = m.expand(idx)
	}
	winner := m.rollout(idx)
	m.backpropagate(idx, winner)
}

// selectNode descends from the root while nodes are fully expanded, taking
// the child with the best UCB score at each step.
func (m *MCTS) selectNode() int {
	idx := 0
	for {
		node := &m.nodes[idx]
		if node.terminal || len(node.untried) > 0 || len(node.children) == 0 {
			return idx
		}
		best := node.children[0]
		bestScore := math.Inf(-1)
		for _, child := range node.children {
			if score := m.ucbScore(idx, child); score > bestScore {
				bestScore = score
				best = child
			}
		}
		idx = best
	}
}

// ucbScore is the bandit score of a child: mean reward, an exploration term
// scaled by the configured constant, and a positional prior taken from the
// parent position's heatmap. Unvisited children score +Inf so every child
// gets simulated at least once.
func (m *MCTS) ucbScore(parent, child int) float64 {
	c := &m.nodes[child]
	if c.visits == 0 {
		return math.Inf(1)
	}
	p := &m.nodes[parent]
	exploitation := c.reward / float64(c.visits)
	exploration := m.config.MctsExploration *
		math.Sqrt(math.Log(float64(p.visits))/float64(c.visits))
	positional := m.config.MctsPositionalWeight * m.positionalPrior(p.board, c.move)
	return exploitation + exploration + positional
}

func (m *MCTS) positionalPrior(board Board, move Move) float64 {
	// Chebyshev closeness to the nearest stone stands in for a full
	// heatmap rebuild at every selection step.
	best := 0.0
	for y := 0; y < board.Height(); y++ {
		for x := 0; x < board.Width(); x++ {
			c := board.At(x, y)
			if c != CellOwn && c != CellOpponent {
				continue
			}
			d := chebyshev(move.X-x, move.Y-y)
			if d > maxDilations {
				continue
			}
			v := float64(maxDilations+1-d) / float64(maxDilations+1)
			if v > best {
				best = v
			}
		}
	}
	return best
}

// expand pops the front untried move (the list is seeded best-first from the
// heatmap), clones the board, applies the move and appends the child to the
// arena. The child inherits the remaining untried list filtered to cells
// still empty on its board.
func (m *MCTS) expand(parent int) int {
	p := &m.nodes[parent]
	move := p.untried[0]
	p.untried = p.untried[1:]
	if !p.board.IsEmpty(move.X, move.Y) {
		return parent
	}

	cell := otherCell(p.player)
	board := p.board.Clone()
	board.Set(move.X, move.Y, cell)

	child := mctsNode{
		parent:   parent,
		board:    board,
		move:     move,
		player:   cell,
		terminal: board.IsWinFrom(move) || board.CountEmpty() == 0,
	}
	if !child.terminal {
		child.untried = make([]Move, 0, len(p.untried))
		for _, mv := range p.untried {
			if board.IsEmpty(mv.X, mv.Y) {
				child.untried = append(child.untried, mv)
			}
		}
	}

	m.nodes = append(m.nodes, child)
	childIdx := len(m.nodes) - 1
	m.nodes[parent].children = append(m.nodes[parent].children, childIdx)
	return childIdx
}

// rollout plays heatmap-weighted random moves from the node's position to a
// terminal state and returns the winning cell kind, or CellEmpty for a draw.
func (m *MCTS) rollout(idx int) Cell {
	node := &m.nodes[idx]
	if node.terminal {
		if node.board.IsWinFrom(node.move) {
			return node.player
		}
		return CellEmpty
	}

	board := node.board.Clone()
	toMove := otherCell(node.player)
	heat := NewHeatMap(board)
	heat.Dilate()
	heat.Clean()
	for {
		pick := heat.RandomIndex(m.rng)
		var move Move
		if pick >= 0 {
			move = Move{X: pick % board.Width(), Y: pick / board.Width()}
		} else {
			move, pick = randomEmptyOn(board, heat, m.rng)
			if pick < 0 {
				return CellEmpty
			}
		}
		board.Set(move.X, move.Y, toMove)
		heat.cells[pick].Cell = toMove
		heat.cells[pick].Importance = 0
		if board.IsWinFrom(move) {
			return toMove
		}
		if board.CountEmpty() == 0 {
			return CellEmpty
		}
		toMove = otherCell(toMove)
	}
}

func randomEmptyOn(board Board, heat *HeatMap, rng *rand.Rand) (Move, int) {
	empty := board.CountEmpty()
	if empty == 0 {
		return Move{}, -1
	}
	target := rng.Intn(empty)
	for y := 0; y < board.Height(); y++ {
		for x := 0; x < board.Width(); x++ {
			if !board.IsEmpty(x, y) {
				continue
			}
			if target == 0 {
				return Move{X: x, Y: y}, heat.index(x, y)
			}
			target--
		}
	}
	return Move{}, -1
}

// backpropagate walks to the root adding the outcome at every ancestor,
// signed from the perspective of the player who moved into that node.
func (m *MCTS) backpropagate(idx int, winner Cell) {
	for idx >= 0 {
		node := &m.nodes[idx]
		node.visits++
		if winner != CellEmpty {
			if winner == node.player {
				node.reward++
			} else {
				node.reward--
			}
		}
		idx = node.parent
	}
}

// BestChild returns the root move with the highest mean reward among
// visited children. Calling it before any iteration ran is a contract
// violation and reported as ErrNoValidMove.
func (m *MCTS) BestChild() (Move, error) {
	root := &m.nodes[0]
	best := -1
	bestMean := math.Inf(-1)
	bestVisits := 0
	for _, child := range root.children {
		c := &m.nodes[child]
		if c.visits == 0 {
			continue
		}
		mean := c.reward / float64(c.visits)
		// Ties go to the more visited child; a proven line beats a lucky
		// streak over a handful of rollouts.
		if mean > bestMean || (mean == bestMean && c.visits > bestVisits) {
			bestMean = mean
			bestVisits = c.visits
			best = child
		}
	}
	if best < 0 {
		return Move{}, ErrNoValidMove
	}
	return m.nodes[best].move, nil
}

// FindBestMoveMCTS runs a Monte Carlo search for the current position and
// places the chosen own stone, mirroring FindBestMove's contract. Positions
// the heatmap cannot seed fall back to a random empty cell.
func (ctx *SearchContext) FindBestMoveMCTS(round int) (Move, error) {
	m := NewMCTS(*ctx.Board, round, ctx.Rng, ctx.Config)
	m.deadline = ctx.Deadline
	m.Search()
	move, err := m.BestChild()
	if err != nil {
		move, err = ctx.randomEmptyCell()
		if err != nil {
			return Move{}, err
		}
	}
	ctx.placeStone(CellOwn, move.X, move.Y)
	return move, nil
}
