package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	aboutLine   = `name="pasvegan-gomoku", version="1.0", author="PasVegan", country="FR"`
	zobristSeed = 0x5EEDC0DEB10C1234
)

// Protocol speaks the piskvork line protocol on a reader/writer pair.
// Stdout carries protocol answers only; everything else goes to the logger.
type Protocol struct {
	out   io.Writer
	store *ConfigStore
	hub   *Hub

	mu       sync.RWMutex
	board    *Board
	snapshot Board
	ctx      *SearchContext
	tt       *TranspositionTable
	round    int
	started  bool
}

func NewProtocol(out io.Writer, store *ConfigStore) *Protocol {
	return &Protocol{out: out, store: store}
}

// SetHub attaches an analysis hub; every own move gets broadcast to it.
func (p *Protocol) SetHub(hub *Hub) {
	p.hub = hub
}

// EngineStatus is the debug server's view of the running engine.
type EngineStatus struct {
	Started     bool   `json:"started"`
	BoardWidth  int    `json:"board_width,omitempty"`
	BoardHeight int    `json:"board_height,omitempty"`
	Round       int    `json:"round"`
	Engine      string `json:"engine"`
	TTEntries   int    `json:"tt_entries"`
	TTCapacity  int    `json:"tt_capacity"`
}

func (p *Protocol) Status() EngineStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	status := EngineStatus{
		Started: p.started,
		Round:   p.round,
		Engine:  p.store.Get().Engine,
	}
	if p.board != nil {
		status.BoardWidth = p.board.Width()
		status.BoardHeight = p.board.Height()
	}
	if p.tt != nil {
		status.TTEntries = p.tt.Count()
		status.TTCapacity = p.tt.Capacity()
	}
	return status
}

// TT returns the live transposition table, nil before the first START.
func (p *Protocol) TT() *TranspositionTable {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.tt
}

// BoardSnapshot returns the last published board and round for out-of-band
// readers. The search mutates the live board in place, so readers only ever
// see clones published between moves.
func (p *Protocol) BoardSnapshot() (Board, int, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.started || p.snapshot.Width() == 0 {
		return Board{}, 0, false
	}
	return p.snapshot.Clone(), p.round, true
}

// publishSnapshot stores a clone of the live board. Call it only from the
// protocol goroutine, between mutations.
func (p *Protocol) publishSnapshot() {
	clone := p.board.Clone()
	p.mu.Lock()
	p.snapshot = clone
	p.mu.Unlock()
}

// RunProtocol reads commands until END or EOF. Every TURN/BEGIN/BOARD
// answer is a bare "x,y" line; setup commands answer OK or ERROR.
func RunProtocol(in io.Reader, out io.Writer, store *ConfigStore) error {
	return NewProtocol(out, store).Run(in)
}

// Run drives this protocol instance over the given input stream.
func (p *Protocol) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if done := p.handle(scanner, line); done {
			return nil
		}
	}
	return scanner.Err()
}

func (p *Protocol) handle(scanner *bufio.Scanner, line string) bool {
	cmd := line
	args := ""
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		cmd = line[:i]
		args = strings.TrimSpace(line[i+1:])
	}
	switch strings.ToUpper(cmd) {
	case "START":
		n, err := strconv.Atoi(args)
		if err != nil {
			p.reply("ERROR bad START argument")
			return false
		}
		p.start(n, n)
	case "RECTSTART":
		w, h, err := parseCoord(args)
		if err != nil {
			p.reply("ERROR bad RECTSTART argument")
			return false
		}
		p.start(w, h)
	case "RESTART":
		if !p.started {
			p.reply("ERROR board not started")
			return false
		}
		p.start(p.board.Width(), p.board.Height())
	case "BEGIN":
		if !p.started {
			p.reply("ERROR board not started")
			return false
		}
		p.playOwnMove()
	case "TURN":
		if !p.started {
			p.reply("ERROR board not started")
			return false
		}
		x, y, err := parseCoord(args)
		if err != nil || !(Move{X: x, Y: y}).IsValid(p.board.Width(), p.board.Height()) || !p.board.IsEmpty(x, y) {
			p.reply("ERROR bad TURN coordinates")
			return false
		}
		p.board.Set(x, y, CellOpponent)
		p.publishSnapshot()
		p.playOwnMove()
	case "BOARD":
		if !p.started {
			p.reply("ERROR board not started")
			return false
		}
		if err := p.readBoard(scanner); err != nil {
			p.reply("ERROR " + err.Error())
			return false
		}
		p.playOwnMove()
	case "INFO":
		p.handleInfo(args)
	case "ABOUT":
		p.reply(aboutLine)
	case "END":
		return true
	default:
		p.reply("UNKNOWN command " + cmd)
	}
	return false
}

func (p *Protocol) start(width, height int) {
	if width < 5 || height < 5 || width*height > MaxBoardCells {
		p.reply("ERROR unsupported board size")
		return
	}
	config := p.store.Get()
	board := NewBoard(width, height)
	p.mu.Lock()
	p.board = &board
	p.tt = NewTranspositionTable(config.TtSize)
	p.ctx = NewSearchContext(
		p.board,
		NewZobrist(width, height, zobristSeed),
		p.tt,
		NewEvaluator(config.Weights),
		rand.New(rand.NewSource(time.Now().UnixNano())),
		config,
	)
	p.snapshot = board.Clone()
	p.round = 0
	p.started = true
	p.mu.Unlock()
	if config.TtEnablePersistence && config.TtPersistencePath != "" {
		if err := LoadTT(p.tt, config.TtPersistencePath, width, height, zobristSeed); err != nil {
			log.Printf("[ai:cache] load snapshot: %v", err)
		}
	}
	log.Printf("[proto] board %dx%d", width, height)
	p.reply("OK")
}

func (p *Protocol) playOwnMove() {
	config := p.store.Get()
	p.ctx.Config = config
	p.ctx.Deadline = time.Time{}
	if config.TimeoutTurnMs > 0 {
		// Keep a slice of the turn budget for writing the answer.
		budget := time.Duration(config.TimeoutTurnMs) * time.Millisecond
		p.ctx.Deadline = time.Now().Add(budget * 9 / 10)
	}

	started := time.Now()
	var move Move
	var err error
	if config.Engine == "mcts" {
		move, err = p.ctx.FindBestMoveMCTS(p.round)
	} else {
		move, err = p.ctx.FindBestMove()
	}
	if err != nil {
		log.Printf("[proto] no move: %v", err)
		p.reply("ERROR " + err.Error())
		return
	}
	clone := p.ctx.Board.Clone()
	p.mu.Lock()
	p.round++
	round := p.round
	p.snapshot = clone
	p.mu.Unlock()
	p.reply(fmt.Sprintf("%d,%d", move.X, move.Y))
	if p.hub != nil {
		p.hub.Broadcast(AnalysisEvent{
			Type:      "move",
			Engine:    config.Engine,
			Round:     round,
			Move:      &move,
			Nodes:     p.ctx.Stats.NodesVisited,
			TTHits:    p.ctx.Stats.TTHits,
			TTProbes:  p.ctx.Stats.TTProbes,
			ElapsedMs: time.Since(started).Milliseconds(),
		})
	}
}

// readBoard consumes "x,y,field" lines until DONE. Field 1 is our stone,
// 2 the opponent's, 3 a forbidden cell.
func (p *Protocol) readBoard(scanner *bufio.Scanner) error {
	fresh := NewBoard(p.board.Width(), p.board.Height())
	*p.board = fresh
	stones := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(line, "DONE") {
			clone := p.board.Clone()
			p.mu.Lock()
			p.round = stones / 2
			p.snapshot = clone
			p.mu.Unlock()
			return nil
		}
		parts := strings.Split(line, ",")
		if len(parts) != 3 {
			return fmt.Errorf("bad board line %q", line)
		}
		x, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		y, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
		field, err3 := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err1 != nil || err2 != nil || err3 != nil {
			return fmt.Errorf("bad board line %q", line)
		}
		if !(Move{X: x, Y: y}).IsValid(p.board.Width(), p.board.Height()) {
			return fmt.Errorf("board line out of bounds %q", line)
		}
		switch field {
		case 1:
			p.board.Set(x, y, CellOwn)
		case 2:
			p.board.Set(x, y, CellOpponent)
		case 3:
			p.board.Set(x, y, CellBlocked)
		default:
			return fmt.Errorf("bad board field %q", line)
		}
		stones++
	}
	return fmt.Errorf("board block not terminated by DONE")
}

func (p *Protocol) handleInfo(args string) {
	key := args
	value := ""
	if i := strings.IndexAny(args, " \t"); i >= 0 {
		key = args[:i]
		value = strings.TrimSpace(args[i+1:])
	}
	setInt := func(apply func(*Config, int)) {
		n, err := strconv.Atoi(value)
		if err != nil {
			log.Printf("[proto] info %s=%q ignored", key, value)
			return
		}
		p.store.Mutate(func(c *Config) { apply(c, n) })
	}
	switch strings.ToLower(key) {
	case "timeout_turn":
		setInt(func(c *Config, n int) { c.TimeoutTurnMs = n })
	case "timeout_match":
		setInt(func(c *Config, n int) { c.TimeoutMatchMs = n })
	case "max_memory":
		setInt(func(c *Config, n int) { c.MaxMemoryBytes = int64(n) })
	case "game_type", "rule", "time_left", "folder":
		// Accepted but irrelevant to move generation.
	default:
		log.Printf("[proto] info %s=%q ignored", key, value)
	}
}

func parseCoord(s string) (int, int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("want two comma separated integers, got %q", s)
	}
	a, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}
	b, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func (p *Protocol) reply(s string) {
	fmt.Fprintln(p.out, s)
}
