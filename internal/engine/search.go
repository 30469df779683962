package engine

import (
	"sync/atomic"
	"time"

	"golang.org/x/exp/constraints"

	"github.com/hailam/chesscore/internal/board"
)

// Search constants
const (
	Infinite = 30000
	Mate     = 29000
	MaxDepth = 64
)

const (
	pollInterval = 2048 // nodes between interruption checks
	fiftyMoveCap = 100  // halfmove clock value that draws
)

// searchSession is the state of one SearchPosition call. Nothing in it is
// shared with other searches.
type searchSession struct {
	id    string
	pos   *board.Position
	table *PvTable
	heur  *Heuristics

	poll     func() PollState
	stopFlag *atomic.Bool
	deadline time.Time
	timeSet  bool

	nodes   uint64
	fh, fhf uint64 // fail highs, fail highs on the first legal move
	stopped bool
	quit    bool
}

// checkUp polls for a deadline or an external stop.
func (s *searchSession) checkUp() {
	var ps PollState
	if s.poll != nil {
		ps = s.poll()
	} else {
		ps.Now = time.Now()
	}

	if s.timeSet && ps.Now.After(s.deadline) {
		s.stopped = true
	}
	if ps.Stop || s.stopFlag.Load() {
		s.stopped = true
	}
	if ps.Quit {
		s.stopped = true
		s.quit = true
	}
}

// isDraw reports a repetition or an exhausted fifty-move clock.
func (s *searchSession) isDraw() bool {
	return s.pos.IsRepetition() || s.pos.FiftyMove() >= fiftyMoveCap
}

// alphaBeta is a fail-hard negamax search of the current position.
// doNull is threaded through but gates nothing.
func (s *searchSession) alphaBeta(alpha, beta, depth int, doNull bool) int {
	pos := s.pos

	if depth <= 0 {
		return s.quiescence(alpha, beta)
	}

	if s.nodes&(pollInterval-1) == 0 {
		s.checkUp()
	}
	s.nodes++

	// The root keeps its moves even when the game position is a draw
	if pos.Ply() > 0 && s.isDraw() {
		return 0
	}

	if pos.Ply() > MaxDepth-1 {
		return Evaluate(pos)
	}

	inCheck := pos.InCheck()
	if inCheck {
		depth++
	}

	list := pos.GenerateMoves()
	s.heur.ScoreQuiets(list, pos)
	boostPvMove(list, s.table.Probe(pos.Key()))

	legal := 0
	oldAlpha := alpha
	bestMove := board.NoMove

	for i := 0; i < list.Len(); i++ {
		pickNextMove(list, i)
		move := list.At(i)

		if !pos.MakeMove(move) {
			continue
		}
		legal++
		score := -s.alphaBeta(-beta, -alpha, depth-1, true)
		pos.TakeMove()

		// Check if search was stopped
		if s.stopped {
			return 0
		}

		if score > alpha {
			if score >= beta {
				if legal == 1 {
					s.fhf++
				}
				s.fh++
				if !move.IsCapture() {
					s.heur.AddKiller(move, pos.Ply())
				}
				return beta
			}

			alpha = score
			bestMove = move
			if !move.IsCapture() {
				s.heur.AddHistory(pos.PieceAt(move.From()), move.To(), depth)
			}
		}
	}

	if legal == 0 {
		if inCheck {
			return -Mate + pos.Ply()
		}
		return 0
	}

	if alpha != oldAlpha {
		s.table.Store(pos.Key(), bestMove)
	}
	return alpha
}

// quiescence searches captures only until the position is quiet, standing
// pat on the static evaluation.
func (s *searchSession) quiescence(alpha, beta int) int {
	pos := s.pos

	if s.nodes&(pollInterval-1) == 0 {
		s.checkUp()
	}
	s.nodes++

	if s.isDraw() {
		return 0
	}

	if pos.Ply() > MaxDepth-1 {
		return Evaluate(pos)
	}

	standPat := Evaluate(pos)
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	list := pos.GenerateCaptures()

	legal := 0
	oldAlpha := alpha
	bestMove := board.NoMove

	for i := 0; i < list.Len(); i++ {
		pickNextMove(list, i)
		move := list.At(i)

		if !pos.MakeMove(move) {
			continue
		}
		legal++
		score := -s.quiescence(-beta, -alpha)
		pos.TakeMove()

		if s.stopped {
			return 0
		}

		if score > alpha {
			if score >= beta {
				if legal == 1 {
					s.fhf++
				}
				s.fh++
				return beta
			}
			alpha = score
			bestMove = move
		}
	}

	if alpha != oldAlpha {
		s.table.Store(pos.Key(), bestMove)
	}
	return alpha
}

// ordering returns the share of fail highs produced by the first move.
func (s *searchSession) ordering() float64 {
	if s.fh == 0 {
		return 0
	}
	return float64(s.fhf) / float64(s.fh)
}

func abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

func clamp[T constraints.Ordered](x, lo, hi T) T {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
