package engine

import (
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/board"
)

// SearchInfo contains information about a completed iteration.
type SearchInfo struct {
	Session  string
	Depth    int
	Score    int
	Nodes    uint64
	Time     time.Duration
	PV       []board.Move
	HashFull int     // Permille of PV table used
	Ordering float64 // Share of fail highs on the first move
}

// PollState is what the search learns each time it checks for interruption.
type PollState struct {
	Now  time.Time
	Stop bool // abandon the current search
	Quit bool // abandon the search and shut down
}

// Config specifies constraints on the search.
type Config struct {
	Depth    int       // Maximum depth (0 = MaxDepth)
	Deadline time.Time // Stop once passed (zero = no deadline)
	Infinite bool      // Search until stopped, ignoring Deadline
	Poll     func() PollState
}

// Result is the outcome of SearchPosition. BestMove, Score, Depth and PV
// come from the deepest completed iteration.
type Result struct {
	BestMove  board.Move
	Score     int
	Depth     int
	Nodes     uint64
	PV        []board.Move
	Elapsed   time.Duration
	Stopped   bool // interrupted by deadline, Stop or Poll
	Quit      bool // Poll asked to quit
	SessionID string
}

// Engine is the chess search engine.
type Engine struct {
	table    *PvTable
	stopFlag atomic.Bool
	log      zerolog.Logger

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates a new engine whose PV table uses tableMB megabytes.
func NewEngine(tableMB int) *Engine {
	return &Engine{
		table: NewPvTable(tableMB),
		log:   zerolog.Nop(),
	}
}

// SetLogger sets the logger used for search diagnostics.
func (e *Engine) SetLogger(l zerolog.Logger) {
	e.log = l
}

// Resize replaces the PV table with one of tableMB megabytes.
func (e *Engine) Resize(tableMB int) {
	e.table = NewPvTable(tableMB)
}

// Table returns the engine's PV table.
func (e *Engine) Table() *PvTable {
	return e.table
}

// Stop stops the current search.
func (e *Engine) Stop() {
	e.stopFlag.Store(true)
}

// Clear clears the PV table.
func (e *Engine) Clear() {
	e.table.Clear()
}

// SearchPosition runs an iterative deepening search of pos. pos is searched
// in place and restored before returning; pos becomes the search root.
func (e *Engine) SearchPosition(pos *board.Position, cfg Config) Result {
	startTime := time.Now()
	e.stopFlag.Store(false)
	e.table.Clear()
	pos.ResetPly()

	s := &searchSession{
		id:       uuid.NewString(),
		pos:      pos,
		table:    e.table,
		heur:     NewHeuristics(),
		poll:     cfg.Poll,
		stopFlag: &e.stopFlag,
	}
	if !cfg.Infinite && !cfg.Deadline.IsZero() {
		s.deadline = cfg.Deadline
		s.timeSet = true
	}

	res := Result{SessionID: s.id}
	log := e.log.With().Str("session", s.id).Logger()

	// Mate or stalemate at the root: nothing to search
	if !pos.HasLegalMoves() {
		if pos.InCheck() {
			res.Score = -Mate
		}
		res.Elapsed = time.Since(startTime)
		log.Info().Int("score", res.Score).Msg("no legal moves")
		return res
	}

	// Determine maximum depth
	maxDepth := MaxDepth
	if cfg.Depth > 0 && cfg.Depth < MaxDepth {
		maxDepth = cfg.Depth
	}

	// Iterative deepening
	for depth := 1; depth <= maxDepth; depth++ {
		score := s.alphaBeta(-Infinite, Infinite, depth, true)

		// Check if search was stopped
		if s.stopped {
			break
		}

		pv := PvLine(e.table, pos, depth)
		res.Score = score
		res.Depth = depth
		res.PV = pv
		if len(pv) > 0 {
			res.BestMove = pv[0]
		}

		info := SearchInfo{
			Session:  s.id,
			Depth:    depth,
			Score:    score,
			Nodes:    s.nodes,
			Time:     time.Since(startTime),
			PV:       pv,
			HashFull: e.table.HashFull(),
			Ordering: s.ordering(),
		}
		log.Debug().
			Int("depth", depth).
			Int("score", score).
			Uint64("nodes", s.nodes).
			Str("pv", FormatPV(pv)).
			Float64("ordering", info.Ordering).
			Msg("iteration complete")
		if e.OnInfo != nil {
			e.OnInfo(info)
		}

		// Early termination: a mate inside the searched horizon
		if abs(score) > Mate-MaxDepth && Mate-abs(score) <= depth {
			break
		}

		// If we've used more than half the time, don't start another iteration
		if s.timeSet {
			elapsed := time.Since(startTime)
			if time.Until(s.deadline) < elapsed {
				break
			}
		}
	}

	// Interrupted before the first iteration completed
	if res.BestMove == board.NoMove {
		if legal := pos.LegalMoves(); len(legal) > 0 {
			res.BestMove = legal[0]
		}
	}

	res.Nodes = s.nodes
	res.Elapsed = time.Since(startTime)
	res.Stopped = s.stopped
	res.Quit = s.quit

	log.Info().
		Str("bestmove", res.BestMove.String()).
		Int("score", res.Score).
		Int("depth", res.Depth).
		Uint64("nodes", res.Nodes).
		Dur("elapsed", res.Elapsed).
		Bool("stopped", res.Stopped).
		Msg("search finished")

	return res
}

// Perft performs a perft test (for debugging move generation).
func (e *Engine) Perft(pos *board.Position, depth int) uint64 {
	return board.CountLeaves(pos, depth)
}

// Evaluate returns the static evaluation of a position.
func (e *Engine) Evaluate(pos *board.Position) int {
	return Evaluate(pos)
}

// MateIn converts a mate score to moves until mate: positive when the side
// to move mates, negative when it is mated. ok is false for ordinary scores.
func MateIn(score int) (moves int, ok bool) {
	switch {
	case score > Mate-MaxDepth:
		return (Mate - score + 1) / 2, true
	case score < -Mate+MaxDepth:
		return -(Mate + score) / 2, true
	}
	return 0, false
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score int) string {
	if n, ok := MateIn(score); ok {
		if n > 0 {
			return "Mate in " + strconv.Itoa(n)
		}
		return "Mated in " + strconv.Itoa(-n)
	}

	// Convert centipawns to pawns
	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	pawns := score / 100
	centipawns := score % 100

	cp := strconv.Itoa(centipawns)
	if centipawns < 10 {
		cp = "0" + cp
	}
	return sign + strconv.Itoa(pawns) + "." + cp
}

// FormatPV joins a line in coordinate notation.
func FormatPV(pv []board.Move) string {
	parts := make([]string, len(pv))
	for i, m := range pv {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}
