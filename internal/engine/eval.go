// Package engine implements the alpha-beta search, its move cache and the
// static evaluation.
package engine

import (
	"github.com/hailam/chesscore/internal/board"
)

// Piece-square tables from White's point of view, indexed by dense square
// (a1 = 0, h8 = 63). Black pieces are looked up through Square64.Mirror.
var pawnTable = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	10, 10, 0, -10, -10, 0, 10, 10,
	5, 0, 0, 5, 5, 0, 0, 5,
	0, 0, 10, 20, 20, 10, 0, 0,
	5, 5, 5, 10, 10, 5, 5, 5,
	10, 10, 10, 20, 20, 10, 10, 10,
	20, 20, 20, 30, 30, 20, 20, 20,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightTable = [64]int{
	0, -10, 0, 0, 0, 0, -10, 0,
	0, 0, 0, 5, 5, 0, 0, 0,
	0, 0, 10, 10, 10, 10, 0, 0,
	0, 0, 10, 20, 20, 10, 5, 0,
	5, 10, 15, 20, 20, 15, 10, 5,
	5, 10, 10, 20, 20, 10, 10, 5,
	0, 0, 5, 10, 10, 5, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var bishopTable = [64]int{
	0, 0, -10, 0, 0, -10, 0, 0,
	0, 0, 0, 10, 10, 0, 0, 0,
	0, 0, 10, 15, 15, 10, 0, 0,
	0, 10, 15, 20, 20, 15, 10, 0,
	0, 10, 15, 20, 20, 15, 10, 0,
	0, 0, 10, 15, 15, 10, 0, 0,
	0, 0, 0, 10, 10, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var rookTable = [64]int{
	0, 0, 5, 10, 10, 5, 0, 0,
	0, 0, 5, 10, 10, 5, 0, 0,
	0, 0, 5, 10, 10, 5, 0, 0,
	0, 0, 5, 10, 10, 5, 0, 0,
	0, 0, 5, 10, 10, 5, 0, 0,
	0, 0, 5, 10, 10, 5, 0, 0,
	25, 25, 25, 25, 25, 25, 25, 25,
	0, 0, 5, 10, 10, 5, 0, 0,
}

// psqt maps piece types to their table. Queens and kings score material only.
var psqt = [7]*[64]int{
	board.Pawn:   &pawnTable,
	board.Knight: &knightTable,
	board.Bishop: &bishopTable,
	board.Rook:   &rookTable,
}

// Evaluate returns the static score of pos in centipawns from the side to
// move's point of view.
func Evaluate(pos *board.Position) int {
	score := pos.Material(board.White) - pos.Material(board.Black)

	for pt := board.Pawn; pt <= board.Rook; pt++ {
		table := psqt[pt]

		for _, sq := range pos.PieceSquares(board.NewPiece(pt, board.White)) {
			score += table[board.ToSquare64(sq)]
		}
		for _, sq := range pos.PieceSquares(board.NewPiece(pt, board.Black)) {
			score -= table[board.ToSquare64(sq).Mirror()]
		}
	}

	if pos.SideToMove() == board.Black {
		return -score
	}
	return score
}
