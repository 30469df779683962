package board

import (
	"fmt"
	"strings"
)

// Move packs a move into 25 bits:
// bits 0-6:   from square (padded)
// bits 7-13:  to square (padded)
// bits 14-17: captured piece
// bit 18:     en passant capture
// bit 19:     pawn double push
// bits 20-23: promoted piece
// bit 24:     castling
type Move uint32

// Move flags and field masks
const (
	flagEnPassant Move = 0x40000
	flagPawnStart Move = 0x80000
	flagCastle    Move = 0x1000000

	maskCaptured Move = 0x3C000
	maskPromoted Move = 0xF00000
)

// NoMove is the zero move; never generated.
const NoMove Move = 0

// NewMove builds a move. Only EP, pawn-start and castle flags are
// meaningful in flags.
func NewMove(from, to Square, captured, promoted Piece, flags Move) Move {
	return Move(from) | Move(to)<<7 | Move(captured)<<14 | Move(promoted)<<20 | flags&(flagEnPassant|flagPawnStart|flagCastle)
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x7F)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m >> 7) & 0x7F)
}

// Captured returns the piece taken by a normal capture. It is Empty for
// en passant captures; use IsEnPassant for those.
func (m Move) Captured() Piece {
	return Piece((m >> 14) & 0xF)
}

// Promoted returns the piece a pawn turns into, or Empty.
func (m Move) Promoted() Piece {
	return Piece((m >> 20) & 0xF)
}

// IsEnPassant reports an en passant capture.
func (m Move) IsEnPassant() bool { return m&flagEnPassant != 0 }

// IsPawnStart reports a pawn double push.
func (m Move) IsPawnStart() bool { return m&flagPawnStart != 0 }

// IsCastle reports a castling king move.
func (m Move) IsCastle() bool { return m&flagCastle != 0 }

// IsCapture reports whether the move removes an enemy piece, en passant
// included.
func (m Move) IsCapture() bool {
	return m&(maskCaptured|flagEnPassant) != 0
}

// IsPromotion reports whether a pawn promotes.
func (m Move) IsPromotion() bool {
	return m&maskPromoted != 0
}

// IsQuiet reports moves that are neither captures nor promotions.
func (m Move) IsQuiet() bool {
	return !m.IsCapture() && !m.IsPromotion()
}

// String returns coordinate notation ("e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if p := m.Promoted(); p != Empty {
		switch p.Type() {
		case Knight:
			s += "n"
		case Bishop:
			s += "b"
		case Rook:
			s += "r"
		default:
			s += "q"
		}
	}
	return s
}

// ParseMove finds the generated move of pos written as s in coordinate
// notation. The returned move is pseudo-legal; MakeMove decides legality.
func ParseMove(s string, pos *Position) (Move, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	var promo PieceType
	if len(s) == 5 {
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoMove, fmt.Errorf("%w: bad promotion piece in %q", ErrIllegalMove, s)
		}
	}

	list := pos.GenerateMoves()
	for i := 0; i < list.Len(); i++ {
		m := list.At(i)
		if m.From() != from || m.To() != to {
			continue
		}
		if m.Promoted().Type() == promo {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, s)
}

// MaxPositionMoves bounds the moves any position can generate.
const MaxPositionMoves = 256

// ScoredMove is a move with its ordering score.
type ScoredMove struct {
	Move  Move
	Score int
}

// MoveList is a fixed-size list of scored moves to avoid allocations.
type MoveList struct {
	moves [MaxPositionMoves]ScoredMove
	count int
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add appends a move with its score.
func (ml *MoveList) Add(m Move, score int) {
	ml.moves[ml.count] = ScoredMove{Move: m, Score: score}
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// At returns the move at index i.
func (ml *MoveList) At(i int) Move {
	return ml.moves[i].Move
}

// Score returns the ordering score at index i.
func (ml *MoveList) Score(i int) int {
	return ml.moves[i].Score
}

// SetScore replaces the ordering score at index i.
func (ml *MoveList) SetScore(i, score int) {
	ml.moves[i].Score = score
}

// Swap swaps two entries.
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}

// Clear empties the list.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i].Move == m {
			return true
		}
	}
	return false
}

// Moves returns the moves without scores.
func (ml *MoveList) Moves() []Move {
	out := make([]Move, ml.count)
	for i := 0; i < ml.count; i++ {
		out[i] = ml.moves[i].Move
	}
	return out
}
