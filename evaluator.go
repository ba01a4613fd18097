package main

type SequenceKind int

const (
	SeqNone SequenceKind = iota
	SeqTwo
	SeqThree
	SeqFour
	SeqFive
	SeqPokedTwo
	SeqPokedThree
	SeqPokedFour
)

type Head int

const (
	HeadStraight Head = iota
	HeadBlocked
)

// Threat is a classified line pattern: what shape it is and whether its live
// end is blocked.
type Threat struct {
	Kind SequenceKind
	Head Head
}

// Pattern describes one contiguous run of the player's stones containing at
// most one single-cell internal gap. Start/End index into the interior
// sequence; GapIdx is relative to Start, -1 when the run has no gap.
type Pattern struct {
	Same   int
	Gaps   int
	Start  int
	End    int
	GapIdx int
}

// Token bytes for extracted line sequences: 'M' is the scored player's stone,
// 'O' is anything blocking (opponent stone, forbidden cell, board edge) and
// '.' is an absorbed gap.
const (
	tokenMine    = 'M'
	tokenBlocker = 'O'
	tokenGap     = '.'
)

var evalAxes = [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}

// Evaluator scores hypothetical stone placements. Threat classification is
// memoised per exact token sequence; the cache lives as long as the evaluator.
type Evaluator struct {
	weights     ThreatWeights
	cache       map[string][]Threat
	CacheProbes int64
	CacheHits   int64
}

func NewEvaluator(weights ThreatWeights) *Evaluator {
	return &Evaluator{
		weights: weights,
		cache:   make(map[string][]Threat),
	}
}

// Evaluate returns the summed threat weight of placing player's stone at
// (x, y), examining all four axes through the point. The target cell must be
// empty; occupied cells score zero.
func (e *Evaluator) Evaluate(board Board, player Player, x, y int) int {
	if !board.IsEmpty(x, y) {
		return 0
	}
	cell := CellFromPlayer(player)
	var buf [11]byte
	total := 0
	for _, axis := range evalAxes {
		tokens := e.lineTokens(board, cell, x, y, axis[0], axis[1], buf[:0])
		for _, threat := range e.classifySequence(tokens) {
			total += threatWeight(threat, e.weights)
		}
	}
	return total
}

// lineTokens builds the token sequence along one axis through (x, y): the
// left side reversed, the hypothetical center stone, then the right side.
// Each direction walks up to 5 steps and stops at a blocker (included) or a
// second gap (excluded).
func (e *Evaluator) lineTokens(board Board, cell Cell, x, y, dx, dy int, buf []byte) []byte {
	var scratch [5]byte
	left := walkTokens(board, cell, x, y, -dx, -dy, scratch[:0])
	for i := len(left) - 1; i >= 0; i-- {
		buf = append(buf, left[i])
	}
	buf = append(buf, tokenMine)
	return walkTokens(board, cell, x, y, dx, dy, buf)
}

func walkTokens(board Board, cell Cell, x, y, dx, dy int, out []byte) []byte {
	gapUsed := false
	for step := 1; step <= 5; step++ {
		nx := x + dx*step
		ny := y + dy*step
		if !board.InBounds(nx, ny) {
			// Board edge behaves like an opponent sentinel.
			out = append(out, tokenBlocker)
			return out
		}
		switch board.At(nx, ny) {
		case cell:
			out = append(out, tokenMine)
		case CellEmpty:
			if gapUsed {
				return out
			}
			gapUsed = true
			out = append(out, tokenGap)
		default:
			out = append(out, tokenBlocker)
			return out
		}
	}
	return out
}

// classifySequence memoises analyzeThreats per exact sequence content.
// Nearby candidate cells extract the same sequences over and over, which is
// what makes this cache pay for itself.
func (e *Evaluator) classifySequence(tokens []byte) []Threat {
	e.CacheProbes++
	if threats, ok := e.cache[string(tokens)]; ok {
		e.CacheHits++
		return threats
	}
	threats := analyzeThreats(tokens)
	e.cache[string(tokens)] = threats
	return threats
}

func analyzeThreats(tokens []byte) []Threat {
	if len(tokens) == 0 {
		return nil
	}
	leftBlocked := tokens[0] == tokenBlocker
	rightBlocked := tokens[len(tokens)-1] == tokenBlocker
	start := 0
	end := len(tokens)
	if leftBlocked {
		start++
	}
	if rightBlocked {
		end--
	}
	interior := tokens[start:end]
	// Both ends blocked with fewer than 5 interior cells can never reach
	// five in a row.
	if leftBlocked && rightBlocked && len(interior) < 5 {
		return nil
	}
	var threats []Threat
	for _, pattern := range findPatterns(interior) {
		kind := classifyPattern(pattern)
		if kind == SeqNone {
			continue
		}
		head := HeadStraight
		if (leftBlocked && pattern.Start == 0) || (rightBlocked && pattern.End == len(interior)-1) {
			head = HeadBlocked
		}
		threats = append(threats, Threat{Kind: kind, Head: head})
	}
	return threats
}

// findPatterns scans the interior left to right collecting maximal runs of
// 'M' allowing at most one internal gap. When a second gap would be bridged
// the run is split: the prefix is emitted (if longer than one stone) and the
// scan restarts right after the first gap so the stones between the two gaps
// are recaptured by the next run.
func findPatterns(interior []byte) []Pattern {
	var patterns []Pattern
	i := 0
	for i < len(interior) {
		if interior[i] != tokenMine {
			i++
			continue
		}
		start := i
		same := 0
		gaps := 0
		gapAbs := -1
		j := i
	scan:
		for j < len(interior) {
			switch interior[j] {
			case tokenMine:
				same++
				j++
			case tokenGap:
				// A gap only joins the run when stones follow it.
				if j+1 >= len(interior) || interior[j+1] != tokenMine {
					break scan
				}
				if gaps == 1 {
					break scan
				}
				gaps = 1
				gapAbs = j
				j++
			default:
				break scan
			}
		}
		gapIdx := -1
		if gapAbs >= 0 {
			gapIdx = gapAbs - start
		}
		if same > 1 {
			patterns = append(patterns, Pattern{
				Same:   same,
				Gaps:   gaps,
				Start:  start,
				End:    j - 1,
				GapIdx: gapIdx,
			})
		}
		if gaps == 1 && j+1 < len(interior) && interior[j] == tokenGap && interior[j+1] == tokenMine {
			// Split on a second bridgeable gap: restart just past the first
			// gap so the stones between the two gaps are recaptured by the
			// next run.
			i = gapAbs + 1
			continue
		}
		i = j + 1
	}
	return patterns
}

func classifyPattern(p Pattern) SequenceKind {
	switch {
	case p.Gaps > 1:
		return SeqNone
	case p.Gaps == 1:
		switch p.Same {
		case 2:
			return SeqPokedTwo
		case 3:
			return SeqPokedThree
		case 4:
			return SeqPokedFour
		default:
			if p.Same > 5 && (p.GapIdx == 5 || p.Same-p.GapIdx == 5) {
				return SeqFive
			}
			return SeqNone
		}
	default:
		switch p.Same {
		case 2:
			return SeqTwo
		case 3:
			return SeqThree
		case 4:
			return SeqFour
		case 5:
			return SeqFive
		default:
			return SeqNone
		}
	}
}

func threatWeight(t Threat, w ThreatWeights) int {
	if t.Kind == SeqFive {
		// A completed five wins regardless of what sits beyond its ends.
		return w.Five
	}
	if t.Head == HeadBlocked {
		switch t.Kind {
		case SeqFour:
			return w.BlockedFour
		case SeqPokedFour:
			return w.BlockedPokedFour
		case SeqThree:
			return w.BlockedThree
		case SeqPokedThree:
			return w.BlockedPokedThree
		case SeqTwo:
			return w.BlockedTwo
		case SeqPokedTwo:
			return w.BlockedPokedTwo
		}
		return 0
	}
	switch t.Kind {
	case SeqFour:
		return w.StraightFour
	case SeqPokedFour:
		return w.StraightPokedFour
	case SeqThree:
		return w.StraightThree
	case SeqPokedThree:
		return w.StraightPokedThree
	case SeqTwo:
		return w.StraightTwo
	case SeqPokedTwo:
		return w.StraightPokedTwo
	}
	return 0
}
