package engine

import (
	"time"

	"github.com/hailam/chesscore/internal/board"
)

// Time allocation parameters
const (
	defaultMovesToGo = 30                    // moves assumed until the next time control
	moveOverhead     = 50 * time.Millisecond // kept back so the move is sent in time
	minMoveTime      = 10 * time.Millisecond // never plan less than this
)

// Clock contains UCI time control parameters.
type Clock struct {
	Time      [2]time.Duration // wtime, btime (remaining time for each color)
	Inc       [2]time.Duration // winc, binc (increment per move)
	MovesToGo int              // moves until next time control (0 = default)
	MoveTime  time.Duration    // fixed time per move (overrides other time controls)
}

// AllocateTime returns the deadline for side's move starting at now. ok is
// false when the clock carries no time at all, i.e. the search is bounded
// only by depth or an explicit stop.
func AllocateTime(c Clock, side board.Color, now time.Time) (deadline time.Time, ok bool) {
	remaining := c.Time[side]
	mtg := c.MovesToGo
	if mtg <= 0 {
		mtg = defaultMovesToGo
	}

	// Fixed move time is treated as the whole clock for a single move
	if c.MoveTime > 0 {
		remaining = c.MoveTime
		mtg = 1
	}
	if remaining <= 0 {
		return time.Time{}, false
	}

	budget := remaining/time.Duration(mtg) - moveOverhead + c.Inc[side]
	budget = clamp(budget, minMoveTime, max(remaining+c.Inc[side], minMoveTime))

	return now.Add(budget), true
}
