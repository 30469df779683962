package engine

import (
	"github.com/hailam/chesscore/internal/board"
)

// Move ordering priorities. Captures are scored by the generator from
// board.CaptureScore upwards.
const (
	PvMoveScore  = 2000000 // Cached best move gets highest priority
	KillerScore1 = 900000  // First killer move
	KillerScore2 = 800000  // Second killer move

	// History never reaches the killer band
	historyMax = KillerScore2 - 1
)

// Heuristics is the ordering state of one search session. Killers are
// indexed by ply, history by moving piece and destination.
type Heuristics struct {
	killers [2][MaxDepth]board.Move
	history [board.NumPieces][board.NumSquares]int
}

// NewHeuristics returns cleared heuristics.
func NewHeuristics() *Heuristics {
	return &Heuristics{}
}

// Clear resets killers and history.
func (h *Heuristics) Clear() {
	*h = Heuristics{}
}

// ScoreQuiets overlays killer and history scores on the non-capture moves
// of list, generated from pos at the current ply.
func (h *Heuristics) ScoreQuiets(list *board.MoveList, pos *board.Position) {
	ply := pos.Ply()
	for i := 0; i < list.Len(); i++ {
		m := list.At(i)
		if m.IsCapture() {
			continue
		}
		switch {
		case ply < MaxDepth && m == h.killers[0][ply]:
			list.SetScore(i, KillerScore1)
		case ply < MaxDepth && m == h.killers[1][ply]:
			list.SetScore(i, KillerScore2)
		default:
			list.SetScore(i, h.HistoryScore(pos.PieceAt(m.From()), m.To()))
		}
	}
}

// AddKiller records a quiet move that caused a beta cutoff at ply.
func (h *Heuristics) AddKiller(m board.Move, ply int) {
	if ply < 0 || ply >= MaxDepth || h.killers[0][ply] == m {
		return
	}
	h.killers[1][ply] = h.killers[0][ply]
	h.killers[0][ply] = m
}

// Killer returns killer slot 0 or 1 at ply.
func (h *Heuristics) Killer(slot, ply int) board.Move {
	if ply < 0 || ply >= MaxDepth {
		return board.NoMove
	}
	return h.killers[slot][ply]
}

// AddHistory credits a quiet move of pc to sq that raised alpha.
func (h *Heuristics) AddHistory(pc board.Piece, sq board.Square, depth int) {
	if !pc.IsPiece() || !sq.OnBoard() {
		return
	}
	h.history[pc][sq] = clamp(h.history[pc][sq]+depth, 0, historyMax)
}

// HistoryScore returns the history score of pc moving to sq.
func (h *Heuristics) HistoryScore(pc board.Piece, sq board.Square) int {
	if !pc.IsPiece() || sq < 0 || sq >= board.NumSquares {
		return 0
	}
	return h.history[pc][sq]
}

// boostPvMove lifts the cached best move above every other score.
func boostPvMove(list *board.MoveList, pvMove board.Move) {
	if pvMove == board.NoMove {
		return
	}
	for i := 0; i < list.Len(); i++ {
		if list.At(i) == pvMove {
			list.SetScore(i, PvMoveScore)
			return
		}
	}
}

// pickNextMove swaps the best scored move of list[from:] into slot from.
// Ties keep generation order.
func pickNextMove(list *board.MoveList, from int) {
	best := from
	for i := from + 1; i < list.Len(); i++ {
		if list.Score(i) > list.Score(best) {
			best = i
		}
	}
	if best != from {
		list.Swap(from, best)
	}
}
