// Package uci implements the Universal Chess Interface protocol loop on
// standard input and output.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gavlegoat/chess/internal/board"
	"github.com/gavlegoat/chess/internal/engine"
	"github.com/gavlegoat/chess/internal/storage"
)

const (
	engineName   = "gochess"
	engineAuthor = "the gochess authors"
)

// syncWriter serializes output lines from the UCI loop and the governor.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (sw *syncWriter) Write(p []byte) (int, error) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.w.Write(p)
}

// UCI drives the protocol: it owns the game state between searches, hands
// it to the search worker for the duration of a go command, and is the
// only other writer of the shared stop flag.
type UCI struct {
	gs       *board.GameState
	searcher engine.Searcher
	store    *storage.Store
	in       io.Reader
	out      *syncWriter
	debug    bool

	tablesOnce sync.Once

	// Active search; nil channels mean no search is running.
	stopFlag   *atomic.Bool
	searchDone chan struct{}
	info       *engine.SearchInfo
	ponderMove board.Move
}

// New builds a protocol handler. store may be nil, in which case magic
// multipliers are recomputed on every launch.
func New(searcher engine.Searcher, store *storage.Store, in io.Reader, out io.Writer) *UCI {
	return &UCI{
		gs:       board.NewGameState(),
		searcher: searcher,
		store:    store,
		in:       in,
		out:      &syncWriter{w: out},
	}
}

func (u *UCI) printf(format string, args ...any) {
	fmt.Fprintf(u.out, format, args...)
}

// Run reads commands line by line until quit or end of input. Protocol and
// parse errors are reported as info strings and the loop continues.
func (u *UCI) Run() error {
	scanner := bufio.NewScanner(u.in)
	for scanner.Scan() {
		fields := splitFields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "uci":
			u.printf("id name %s\n", engineName)
			u.printf("id author %s\n", engineAuthor)
			u.printf("uciok\n")
		case "debug":
			u.handleDebug(args)
		case "isready":
			u.ensureTables()
			u.printf("readyok\n")
		case "setoption":
			u.printf("info string error: no options are supported\n")
		case "register":
			// No registration required.
		case "ucinewgame":
			// Nothing persists between games yet.
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			u.stopSearch()
		case "ponderhit":
			u.handlePonderhit()
		case "quit":
			u.stopSearch()
			return nil
		case "d":
			u.printf("%s\n%s\n", u.gs.Pos(), u.gs.FEN())
		case "perft":
			u.handlePerft(args)
		default:
			u.printf("info string error: unknown command %q\n", cmd)
		}
	}
	u.stopSearch()
	return scanner.Err()
}

func splitFields(line string) []string {
	var fields []string
	start := -1
	for i := 0; i <= len(line); i++ {
		if i == len(line) || line[i] == ' ' || line[i] == '\t' {
			if start >= 0 {
				fields = append(fields, line[start:i])
				start = -1
			}
		} else if start < 0 {
			start = i
		}
	}
	return fields
}

// ensureTables initializes the attack tables exactly once, seeding the
// magic search from the store and persisting whatever multipliers end up
// in use. Storage trouble is never fatal.
func (u *UCI) ensureTables() {
	u.tablesOnce.Do(func() {
		var hint *board.MagicNumbers
		if u.store != nil {
			m, err := u.store.LoadMagics()
			if err != nil {
				u.printf("info string magic cache unreadable: %v\n", err)
			} else {
				hint = m
			}
		}
		used := board.Initialize(hint)
		if u.store != nil && (hint == nil || *hint != used) {
			if err := u.store.SaveMagics(used); err != nil {
				u.printf("info string magic cache not saved: %v\n", err)
			}
		}
	})
}

func (u *UCI) handleDebug(args []string) {
	if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
		u.printf("info string error: debug wants exactly one of on|off\n")
		return
	}
	u.debug = args[0] == "on"
}

// handlePosition resets or extends the game state. Forms:
//
//	position startpos [moves ...]
//	position fen <6 fields> [moves ...]
//	position moves ...   (extension: apply to the current state)
func (u *UCI) handlePosition(args []string) {
	u.waitSearch()
	if len(args) == 0 {
		u.printf("info string error: position wants arguments\n")
		return
	}

	rest := args
	switch args[0] {
	case "startpos":
		u.gs = board.NewGameState()
		rest = args[1:]
	case "fen":
		if len(args) < 7 {
			u.printf("info string error: position fen wants 6 FEN fields\n")
			return
		}
		fen := args[1] + " " + args[2] + " " + args[3] + " " + args[4] + " " + args[5] + " " + args[6]
		gs, err := board.ParseFEN(fen)
		if err != nil {
			u.printf("info string error: %v\n", err)
			return
		}
		u.gs = gs
		rest = args[7:]
	case "moves":
		// Keep the current state; fall through to move application.
	default:
		u.printf("info string error: unknown position type %q\n", args[0])
		return
	}

	if len(rest) == 0 {
		return
	}
	if rest[0] != "moves" {
		u.printf("info string error: expected \"moves\", got %q\n", rest[0])
		return
	}
	u.ensureTables()
	for _, tok := range rest[1:] {
		m, err := u.gs.ConvertMove(tok)
		if err != nil {
			u.printf("info string error: %v\n", err)
			return
		}
		u.gs.MakeMove(m)
	}
}

// parseGoLimits reads the go sub-tokens into SearchLimits. Clock tokens
// (wtime, btime, winc, binc, movestogo) are accepted and ignored; only
// movetime is enforced.
func (u *UCI) parseGoLimits(args []string) (*engine.SearchLimits, error) {
	limits := &engine.SearchLimits{Infinite: true}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			n, err := intArg(args, i, "depth")
			if err != nil {
				return nil, err
			}
			limits.MaxDepth = n
			limits.Infinite = false
			i++
		case "nodes":
			n, err := intArg(args, i, "nodes")
			if err != nil {
				return nil, err
			}
			limits.MaxNodes = uint64(n)
			limits.Infinite = false
			i++
		case "mate":
			n, err := intArg(args, i, "mate")
			if err != nil {
				return nil, err
			}
			limits.MateIn = n
			limits.Infinite = false
			i++
		case "movetime":
			n, err := intArg(args, i, "movetime")
			if err != nil {
				return nil, err
			}
			limits.MoveTime = time.Duration(n) * time.Millisecond
			limits.Infinite = false
			i++
		case "searchmoves":
			for i+1 < len(args) {
				m, err := u.gs.ConvertMove(args[i+1])
				if err != nil {
					break
				}
				limits.SearchMoves = append(limits.SearchMoves, m)
				i++
			}
		case "ponder":
			limits.Ponder = true
		case "infinite":
			limits.Infinite = true
		case "wtime", "btime", "winc", "binc", "movestogo":
			if i+1 < len(args) {
				i++
			}
		default:
			return nil, fmt.Errorf("unknown go token %q", args[i])
		}
	}
	return limits, nil
}

func intArg(args []string, i int, name string) (int, error) {
	if i+1 >= len(args) {
		return 0, fmt.Errorf("%s wants a value", name)
	}
	n, err := strconv.Atoi(args[i+1])
	if err != nil {
		return 0, fmt.Errorf("%s wants an integer, got %q", name, args[i+1])
	}
	return n, nil
}

// handleGo starts the search worker and the resource governor. They share
// only the stop flag and the SearchInfo record; the game state belongs to
// the worker until both are joined.
func (u *UCI) handleGo(args []string) {
	u.waitSearch()
	u.ensureTables()

	limits, err := u.parseGoLimits(args)
	if err != nil {
		u.printf("info string error: %v\n", err)
		return
	}

	u.stopFlag = &atomic.Bool{}
	u.info = engine.NewSearchInfo()
	done := make(chan struct{})
	u.searchDone = done

	governor := &engine.Governor{
		Info:   u.info,
		Stop:   u.stopFlag,
		Limits: limits,
		Out:    u.out,
	}

	stop := u.stopFlag
	info := u.info
	gs := u.gs
	go func() {
		defer close(done)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			governor.Run()
		}()

		_, best, err := u.searcher.Search(gs, limits, info, stop)
		stop.Store(true)
		wg.Wait()

		if err != nil {
			u.printf("info string error: %v\n", err)
			u.printf("bestmove 0000\n")
			return
		}
		u.ponderMove = board.NoMove
		if pv := info.PV(); len(pv) >= 2 && pv[0] == best {
			u.ponderMove = pv[1]
		}
		if u.ponderMove != board.NoMove {
			u.printf("bestmove %s ponder %s\n", best, u.ponderMove)
		} else {
			u.printf("bestmove %s\n", best)
		}
	}()
}

// stopSearch sets the stop flag and joins the workers. The bestmove line
// is printed by the search goroutine before it signals completion.
func (u *UCI) stopSearch() {
	if u.searchDone == nil {
		return
	}
	u.stopFlag.Store(true)
	<-u.searchDone
	u.searchDone = nil
}

// waitSearch joins any running search before a command touches the game
// state.
func (u *UCI) waitSearch() {
	u.stopSearch()
}

// handlePonderhit stops the ponder search, plays the stored ponder move,
// and restarts with empty limits.
func (u *UCI) handlePonderhit() {
	u.stopSearch()
	if u.ponderMove != board.NoMove {
		u.gs.MakeMove(u.ponderMove)
		u.ponderMove = board.NoMove
	}
	u.handleGo(nil)
}

func (u *UCI) handlePerft(args []string) {
	depth := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			u.printf("info string error: perft wants a non-negative depth\n")
			return
		}
		depth = n
	}
	u.ensureTables()
	start := time.Now()
	nodes := perft(u.gs, depth)
	elapsed := time.Since(start)
	u.printf("info string perft(%d) = %d in %v\n", depth, nodes, elapsed)
}

func perft(gs *board.GameState, depth int) int64 {
	if depth == 0 {
		return 1
	}
	moves := gs.GenerateMoves()
	if depth == 1 {
		return int64(len(moves))
	}
	var nodes int64
	for _, m := range moves {
		gs.MakeMove(m)
		nodes += perft(gs, depth-1)
		gs.UndoMove()
	}
	return nodes
}
