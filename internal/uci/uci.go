// Package uci drives the engine over the Universal Chess Interface protocol.
package uci

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/storage"
)

// DefaultHashMB is the PV table size announced by the "uci" command.
const DefaultHashMB = 2

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	engine   *engine.Engine
	store    *storage.Store
	position *board.Position

	in    io.Reader
	out   io.Writer
	outMu sync.Mutex
	log   zerolog.Logger

	hashMB  int
	persist bool

	// Search state
	searchDone    chan struct{}
	stopRequested atomic.Bool
	quitRequested atomic.Bool
}

// Option configures a UCI handler.
type Option func(*UCI)

// WithStore attaches an analysis store. Completed searches and perft counts
// are saved to it.
func WithStore(s *storage.Store) Option {
	return func(u *UCI) {
		u.store = s
		u.persist = s != nil
	}
}

// WithIO replaces stdin/stdout.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(u *UCI) {
		u.in = in
		u.out = out
	}
}

// WithLogger sets the logger for protocol errors.
func WithLogger(l zerolog.Logger) Option {
	return func(u *UCI) {
		u.log = l
	}
}

// WithHash records the PV table size the engine was created with.
func WithHash(mb int) Option {
	return func(u *UCI) {
		u.hashMB = mb
	}
}

// New creates a new UCI protocol handler.
func New(eng *engine.Engine, opts ...Option) *UCI {
	u := &UCI{
		engine:   eng,
		position: board.NewPosition(),
		in:       os.Stdin,
		out:      os.Stdout,
		log:      zerolog.Nop(),
		hashMB:   DefaultHashMB,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Run reads commands until "quit" or end of input. A search still running
// at end of input is allowed to finish.
func (u *UCI) Run() error {
	scanner := bufio.NewScanner(u.in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			u.printf("readyok\n")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			u.handleStop()
		case "quit":
			u.handleQuit()
			return nil
		case "setoption":
			u.handleSetOption(args)
		// Debug commands
		case "d":
			u.handleDisplay()
		case "perft":
			u.handlePerft(args)
		case "eval":
			u.printf("eval %d\n", engine.Evaluate(u.position))
		default:
			u.warn(errors.New("unknown command"), line)
		}
	}

	u.waitSearch()
	return scanner.Err()
}

// printf writes one protocol line. The search goroutine writes too.
func (u *UCI) printf(format string, args ...any) {
	u.outMu.Lock()
	defer u.outMu.Unlock()
	fmt.Fprintf(u.out, format, args...)
}

// warn logs a protocol error and reports it to the GUI.
func (u *UCI) warn(err error, input string) {
	u.log.Warn().Err(err).Str("input", input).Msg("uci")
	u.printf("info string %s: %s\n", err, input)
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	u.printf("id name chesscore\n")
	u.printf("id author the chesscore authors\n")
	u.printf("\n")
	u.printf("option name Hash type spin default %d min 1 max 1024\n", u.hashMB)
	u.printf("option name Debug type check default false\n")
	u.printf("option name Persist type check default %t\n", u.persist)
	u.printf("uciok\n")
}

// handleNewGame resets the engine for a new game.
func (u *UCI) handleNewGame() {
	u.handleStop()
	u.engine.Clear()
	u.position = board.NewPosition()
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
//
// An invalid description leaves the previous position in place. Moves are
// applied up to the first one that fails.
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		u.warn(board.ErrParse, "position")
		return
	}

	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}

	var pos *board.Position
	switch args[0] {
	case "startpos":
		pos = board.NewPosition()
	case "fen":
		p, err := board.LoadPosition(strings.Join(args[1:movesAt], " "))
		if err != nil {
			u.warn(err, strings.Join(args, " "))
			return
		}
		pos = p
	default:
		u.warn(board.ErrParse, strings.Join(args, " "))
		return
	}

	if movesAt < len(args) {
		for _, s := range args[movesAt+1:] {
			m, err := board.ParseMove(s, pos)
			if err == nil && !pos.MakeMove(m) {
				err = fmt.Errorf("%w: %s leaves the king in check", board.ErrIllegalMove, s)
			}
			if err != nil {
				u.warn(err, s)
				break
			}
		}
	}

	pos.ResetPly()
	u.position = pos
}

// GoOptions holds the parsed arguments of "go".
type GoOptions struct {
	Depth     int
	MoveTime  time.Duration
	Infinite  bool
	WTime     time.Duration
	BTime     time.Duration
	WInc      time.Duration
	BInc      time.Duration
	MovesToGo int
}

// handleGo starts a search on a copy of the current position.
func (u *UCI) handleGo(args []string) {
	u.handleStop()

	opts := parseGoOptions(args)
	cfg := u.searchConfig(opts, time.Now())

	u.engine.OnInfo = u.sendInfo
	u.stopRequested.Store(false)
	u.searchDone = make(chan struct{})

	pos := u.position.Copy()
	done := u.searchDone

	go func() {
		defer close(done)

		res := u.engine.SearchPosition(pos, cfg)
		u.printf("bestmove %s\n", res.BestMove)

		if u.persist && u.store != nil && res.Depth > 0 {
			u.saveResult(pos, res)
		}
	}()
}

// searchConfig turns go options into a search configuration.
func (u *UCI) searchConfig(opts GoOptions, now time.Time) engine.Config {
	cfg := engine.Config{
		Depth:    opts.Depth,
		Infinite: opts.Infinite,
		Poll:     u.poll,
	}
	if opts.Infinite {
		return cfg
	}

	clock := engine.Clock{
		Time:      [2]time.Duration{opts.WTime, opts.BTime},
		Inc:       [2]time.Duration{opts.WInc, opts.BInc},
		MovesToGo: opts.MovesToGo,
		MoveTime:  opts.MoveTime,
	}
	if deadline, ok := engine.AllocateTime(clock, u.position.SideToMove(), now); ok {
		cfg.Deadline = deadline
	}
	return cfg
}

// poll reports stop and quit requests to the running search.
func (u *UCI) poll() engine.PollState {
	return engine.PollState{
		Now:  time.Now(),
		Stop: u.stopRequested.Load(),
		Quit: u.quitRequested.Load(),
	}
}

func (u *UCI) saveResult(pos *board.Position, res engine.Result) {
	pv := make([]string, len(res.PV))
	for i, m := range res.PV {
		pv[i] = m.String()
	}

	err := u.store.SaveAnalysis(storage.Analysis{
		Key:      pos.Key(),
		FEN:      pos.FEN(),
		BestMove: res.BestMove.String(),
		Score:    res.Score,
		Depth:    res.Depth,
		Nodes:    res.Nodes,
		PV:       pv,
		Session:  res.SessionID,
	})
	if err != nil {
		u.log.Warn().Err(err).Str("session", res.SessionID).Msg("saving analysis failed")
	}
}

func parseGoOptions(args []string) GoOptions {
	opts := GoOptions{}

	ms := func(i int) time.Duration {
		n, _ := strconv.Atoi(args[i])
		return time.Duration(n) * time.Millisecond
	}

	for i := 0; i < len(args); i++ {
		hasValue := i+1 < len(args)
		switch args[i] {
		case "infinite":
			opts.Infinite = true
			continue
		case "depth", "movetime", "wtime", "btime", "winc", "binc", "movestogo":
			if !hasValue {
				continue
			}
		default:
			continue
		}

		switch args[i] {
		case "depth":
			opts.Depth, _ = strconv.Atoi(args[i+1])
		case "movetime":
			opts.MoveTime = ms(i + 1)
		case "wtime":
			opts.WTime = ms(i + 1)
		case "btime":
			opts.BTime = ms(i + 1)
		case "winc":
			opts.WInc = ms(i + 1)
		case "binc":
			opts.BInc = ms(i + 1)
		case "movestogo":
			opts.MovesToGo, _ = strconv.Atoi(args[i+1])
		}
		i++
	}

	return opts
}

func (u *UCI) sendInfo(info engine.SearchInfo) {
	var parts []string

	parts = append(parts, fmt.Sprintf("depth %d", info.Depth))

	if n, ok := engine.MateIn(info.Score); ok {
		parts = append(parts, fmt.Sprintf("score mate %d", n))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %d", info.Score))
	}

	parts = append(parts, fmt.Sprintf("nodes %d", info.Nodes))
	parts = append(parts, fmt.Sprintf("time %d", info.Time.Milliseconds()))

	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}

	if info.HashFull > 0 {
		parts = append(parts, fmt.Sprintf("hashfull %d", info.HashFull))
	}

	if len(info.PV) > 0 {
		parts = append(parts, "pv "+engine.FormatPV(info.PV))
	}

	u.printf("info %s\n", strings.Join(parts, " "))
}

// waitSearch blocks until the running search, if any, has printed its move.
func (u *UCI) waitSearch() {
	if u.searchDone != nil {
		<-u.searchDone
		u.searchDone = nil
	}
}

func (u *UCI) handleStop() {
	if u.searchDone != nil {
		u.stopRequested.Store(true)
		u.waitSearch()
	}
}

func (u *UCI) handleQuit() {
	u.quitRequested.Store(true)
	u.waitSearch()
}

func (u *UCI) handleSetOption(args []string) {
	var name, value string
	readingName := false
	readingValue := false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName = true
			readingValue = false
		case "value":
			readingName = false
			readingValue = true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	switch strings.ToLower(name) {
	case "hash":
		mb, err := strconv.Atoi(value)
		if err != nil || mb < 1 {
			u.warn(fmt.Errorf("invalid hash size %q", value), "setoption")
			return
		}
		u.handleStop()
		u.hashMB = mb
		u.engine.Resize(mb)
	case "debug":
		u.handleStop()
		board.DebugAudit = strings.ToLower(value) == "true"
	case "persist":
		u.persist = strings.ToLower(value) == "true"
		if u.persist && u.store == nil {
			u.warn(errors.New("no analysis store attached"), "setoption")
			u.persist = false
		}
	default:
		u.warn(errors.New("unknown option"), name)
	}
}

// handleDisplay prints the board, its description and the static score.
func (u *UCI) handleDisplay() {
	u.printf("%s", u.position.String())
	u.printf("fen: %s\n", u.position.FEN())
	u.printf("eval: %s\n", engine.ScoreToString(engine.Evaluate(u.position)))
}

// handlePerft runs a perft test, split by root move.
func (u *UCI) handlePerft(args []string) {
	depth := 5
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 1 {
			u.warn(fmt.Errorf("invalid perft depth %q", args[0]), "perft")
			return
		}
		depth = d
	}

	fen := u.position.FEN()
	if u.store != nil {
		if nodes, err := u.store.LoadPerft(fen, depth); err == nil {
			u.printf("Nodes: %d (cached)\n", nodes)
			return
		}
	}

	start := time.Now()
	var nodes uint64
	for _, e := range board.Divide(u.position, depth) {
		u.printf("%s: %d\n", e.Move, e.Nodes)
		nodes += e.Nodes
	}
	elapsed := time.Since(start)

	u.printf("Nodes: %d\n", nodes)
	u.printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		nps := float64(nodes) / elapsed.Seconds()
		u.printf("NPS: %.0f\n", nps)
	}

	if u.store != nil {
		if err := u.store.SavePerft(fen, depth, nodes); err != nil {
			u.log.Warn().Err(err).Msg("caching perft failed")
		}
	}
}
