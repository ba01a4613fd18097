// Command trainer referees self-play matches between two engine
// configurations by driving two engine processes over the piskvork
// protocol, then writes a JSON report of the results.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/logrusorgru/aurora"
	"github.com/schollz/progressbar/v3"
)

type matchResult struct {
	Match    int    `json:"match"`
	Winner   string `json:"winner"`
	Plies    int    `json:"plies"`
	Duration string `json:"duration"`
}

type report struct {
	EnginePath string        `json:"engine_path"`
	BoardSize  int           `json:"board_size"`
	Matches    int           `json:"matches"`
	WinsA      int           `json:"wins_a"`
	WinsB      int           `json:"wins_b"`
	Draws      int           `json:"draws"`
	Results    []matchResult `json:"results"`
}

func main() {
	log.SetFlags(log.LstdFlags)
	enginePath := flag.String("engine", "./gomoku", "path to the engine binary")
	boardSize := flag.Int("size", 15, "board side length")
	matches := flag.Int("matches", 10, "number of matches to play")
	timeoutMs := flag.Int("timeout", 2000, "per-turn timeout passed to both engines")
	out := flag.String("out", "trainer-results.json", "result file")
	engineA := flag.String("engine-a", "minimax", "engine mode for side A")
	engineB := flag.String("engine-b", "mcts", "engine mode for side B")
	flag.Parse()

	rep := report{
		EnginePath: *enginePath,
		BoardSize:  *boardSize,
		Matches:    *matches,
	}
	bar := progressbar.NewOptions(*matches,
		progressbar.OptionSetDescription("self-play"),
		progressbar.OptionShowCount(),
	)
	for i := 0; i < *matches; i++ {
		// Alternate who opens so first-move advantage cancels out.
		aOpens := i%2 == 0
		result, err := playMatch(*enginePath, *engineA, *engineB, *boardSize, *timeoutMs, aOpens)
		if err != nil {
			log.Fatalf("match %d: %v", i+1, err)
		}
		result.Match = i + 1
		switch result.Winner {
		case "A":
			rep.WinsA++
		case "B":
			rep.WinsB++
		default:
			rep.Draws++
		}
		rep.Results = append(rep.Results, result)
		bar.Add(1)
	}
	fmt.Println()

	payload, err := sonic.MarshalIndent(rep, "", "  ")
	if err != nil {
		log.Fatalf("marshal report: %v", err)
	}
	if err := os.WriteFile(*out, payload, 0o644); err != nil {
		log.Fatalf("write report: %v", err)
	}

	fmt.Printf("%s %s\n", aurora.Bold("A"), aurora.Green(fmt.Sprintf("%d wins (%s)", rep.WinsA, *engineA)))
	fmt.Printf("%s %s\n", aurora.Bold("B"), aurora.Cyan(fmt.Sprintf("%d wins (%s)", rep.WinsB, *engineB)))
	fmt.Printf("%s %s\n", aurora.Bold("="), aurora.Yellow(fmt.Sprintf("%d draws", rep.Draws)))
	fmt.Printf("report written to %s\n", aurora.Underline(*out))
}

// engineProc is one engine child process speaking the line protocol.
type engineProc struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	reader *bufio.Scanner
}

func startEngine(path, mode string) (*engineProc, error) {
	cmd := exec.Command(path)
	cmd.Env = append(os.Environ(), "GOMOKU_ENGINE="+mode, "GOMOKU_DEBUG_SERVER=false")
	cmd.Stderr = io.Discard
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &engineProc{cmd: cmd, stdin: stdin, reader: bufio.NewScanner(stdout)}, nil
}

func (e *engineProc) send(line string) error {
	_, err := io.WriteString(e.stdin, line+"\n")
	return err
}

// expect reads the next reply line and fails on protocol errors.
func (e *engineProc) expect() (string, error) {
	for e.reader.Scan() {
		line := strings.TrimSpace(e.reader.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "ERROR") || strings.HasPrefix(line, "UNKNOWN") {
			return "", fmt.Errorf("engine replied %q", line)
		}
		return line, nil
	}
	if err := e.reader.Err(); err != nil {
		return "", err
	}
	return "", io.ErrUnexpectedEOF
}

func (e *engineProc) close() {
	e.send("END")
	e.stdin.Close()
	e.cmd.Wait()
}

func playMatch(path, modeA, modeB string, size, timeoutMs int, aOpens bool) (matchResult, error) {
	started := time.Now()
	a, err := startEngine(path, modeA)
	if err != nil {
		return matchResult{}, fmt.Errorf("start engine A: %w", err)
	}
	defer a.close()
	b, err := startEngine(path, modeB)
	if err != nil {
		return matchResult{}, fmt.Errorf("start engine B: %w", err)
	}
	defer b.close()

	for _, e := range []*engineProc{a, b} {
		if err := e.send(fmt.Sprintf("START %d", size)); err != nil {
			return matchResult{}, err
		}
		if reply, err := e.expect(); err != nil {
			return matchResult{}, err
		} else if reply != "OK" {
			return matchResult{}, fmt.Errorf("unexpected START reply %q", reply)
		}
		if err := e.send(fmt.Sprintf("INFO timeout_turn %d", timeoutMs)); err != nil {
			return matchResult{}, err
		}
	}

	board := newRefBoard(size)
	mover, waiter := a, b
	moverName, waiterName := "A", "B"
	if !aOpens {
		mover, waiter = b, a
		moverName, waiterName = "B", "A"
	}
	moverStone := byte(1)

	if err := mover.send("BEGIN"); err != nil {
		return matchResult{}, err
	}
	plies := 0
	for {
		reply, err := mover.expect()
		if err != nil {
			return matchResult{}, err
		}
		x, y, err := parseMove(reply)
		if err != nil {
			return matchResult{}, err
		}
		if !board.place(x, y, moverStone) {
			return matchResult{}, fmt.Errorf("engine %s played illegal move %s", moverName, reply)
		}
		plies++
		if board.wins(x, y) {
			return matchResult{Winner: moverName, Plies: plies, Duration: time.Since(started).Round(time.Millisecond).String()}, nil
		}
		if board.full() {
			return matchResult{Winner: "draw", Plies: plies, Duration: time.Since(started).Round(time.Millisecond).String()}, nil
		}
		if err := waiter.send(fmt.Sprintf("TURN %d,%d", x, y)); err != nil {
			return matchResult{}, err
		}
		mover, waiter = waiter, mover
		moverName, waiterName = waiterName, moverName
		moverStone = 3 - moverStone
	}
}

func parseMove(s string) (int, int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("bad move reply %q", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// refBoard is the referee's own record of the game, independent of either
// engine's internal state.
type refBoard struct {
	size  int
	cells []byte
	stone int
}

func newRefBoard(size int) *refBoard {
	return &refBoard{size: size, cells: make([]byte, size*size)}
}

func (b *refBoard) place(x, y int, stone byte) bool {
	if x < 0 || y < 0 || x >= b.size || y >= b.size || b.cells[y*b.size+x] != 0 {
		return false
	}
	b.cells[y*b.size+x] = stone
	b.stone++
	return true
}

func (b *refBoard) full() bool {
	return b.stone == b.size*b.size
}

func (b *refBoard) wins(x, y int) bool {
	stone := b.cells[y*b.size+x]
	dirs := [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}
	for _, d := range dirs {
		count := 1
		for _, sign := range [2]int{1, -1} {
			for i := 1; i < 5; i++ {
				nx, ny := x+d[0]*i*sign, y+d[1]*i*sign
				if nx < 0 || ny < 0 || nx >= b.size || ny >= b.size || b.cells[ny*b.size+nx] != stone {
					break
				}
				count++
			}
		}
		if count >= 5 {
			return true
		}
	}
	return false
}
