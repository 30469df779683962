package board

import (
	"fmt"
	"strings"
)

// CastleRights is the 4-bit set of remaining castling options.
type CastleRights uint8

const (
	WhiteKingSide  CastleRights = 1 << iota // K
	WhiteQueenSide                          // Q
	BlackKingSide                           // k
	BlackQueenSide                          // q
	NoCastling     CastleRights = 0
	AllCastling    CastleRights = WhiteKingSide | WhiteQueenSide | BlackKingSide | BlackQueenSide
)

// String returns the FEN castling field.
func (cr CastleRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSide != 0 {
		s += "K"
	}
	if cr&WhiteQueenSide != 0 {
		s += "Q"
	}
	if cr&BlackKingSide != 0 {
		s += "k"
	}
	if cr&BlackQueenSide != 0 {
		s += "q"
	}
	return s
}

// Limits of the position representation.
const (
	MaxGameMoves = 2048 // plies of undo history
	MaxPieceNum  = 10   // copies of one piece code (8 promotions + 2 originals)
)

// Undo holds what MakeMove cannot re-derive when taking a move back.
type Undo struct {
	Move       Move
	CastlePerm CastleRights
	EnPassant  Square
	FiftyMove  int
	Key        uint64
}

// Position is the mutable game state. Every derived field is maintained
// incrementally by the add/clear/move primitives and can be checked against
// a recomputation with Audit.
type Position struct {
	squares [NumSquares]Piece
	pawns   [3]Bitboard // White, Black, Both; dense squares
	kingSq  [2]Square

	side       Color
	enPas      Square
	fiftyMove  int
	ply        int // plies since the search root
	hisPly     int // plies of undo history
	castlePerm CastleRights
	key        uint64

	pieceNum  [NumPieces]int
	pieceList [NumPieces][MaxPieceNum]Square
	bigPce    [2]int
	majPce    [2]int
	minPce    [2]int
	material  [2]int

	history []Undo

	// full-move bookkeeping for FEN output
	plyBase int
}

// NewPosition returns the standard starting position.
func NewPosition() *Position {
	pos, err := LoadPosition(StartFEN)
	if err != nil {
		panic(err)
	}
	return pos
}

// newEmptyPosition returns a cleared board with sentinels in place.
func newEmptyPosition() *Position {
	Init()
	p := &Position{history: make([]Undo, 0, 256)}
	p.reset()
	return p
}

func (p *Position) reset() {
	for sq := range p.squares {
		p.squares[sq] = OffBoard
	}
	for sq64 := Square64(0); sq64 < NumDense; sq64++ {
		p.squares[ToSquare120(sq64)] = Empty
	}
	p.pawns = [3]Bitboard{}
	p.kingSq = [2]Square{NoSquare, NoSquare}
	p.side = Both
	p.enPas = NoSquare
	p.fiftyMove = 0
	p.ply = 0
	p.hisPly = 0
	p.castlePerm = NoCastling
	p.key = 0
	p.pieceNum = [NumPieces]int{}
	p.bigPce = [2]int{}
	p.majPce = [2]int{}
	p.minPce = [2]int{}
	p.material = [2]int{}
	p.history = p.history[:0]
	p.plyBase = 0
}

// Copy returns a deep copy, undo history included.
func (p *Position) Copy() *Position {
	np := *p
	np.history = make([]Undo, len(p.history), cap(p.history))
	copy(np.history, p.history)
	return &np
}

// updateListsMaterial rebuilds piece lists, counts, material and pawn sets
// from the squares array. Used after loading a position.
func (p *Position) updateListsMaterial() {
	for sq := A1; sq <= H8; sq++ {
		pc := p.squares[sq]
		if !pc.IsPiece() {
			continue
		}
		c := pc.Color()
		if pc.IsBig() {
			p.bigPce[c]++
		}
		if pc.IsMajor() {
			p.majPce[c]++
		}
		if pc.IsMinor() {
			p.minPce[c]++
		}
		p.material[c] += pc.Value()

		p.pieceList[pc][p.pieceNum[pc]] = sq
		p.pieceNum[pc]++

		if pc.Type() == King {
			p.kingSq[c] = sq
		}
		if pc.Type() == Pawn {
			sq64 := ToSquare64(sq)
			p.pawns[c] = p.pawns[c].Set(sq64)
			p.pawns[Both] = p.pawns[Both].Set(sq64)
		}
	}
}

// SideToMove returns the side to move.
func (p *Position) SideToMove() Color { return p.side }

// EnPassant returns the en passant target square, or NoSquare.
func (p *Position) EnPassant() Square { return p.enPas }

// CastleRights returns the remaining castling rights.
func (p *Position) CastleRights() CastleRights { return p.castlePerm }

// FiftyMove returns the halfmove clock.
func (p *Position) FiftyMove() int { return p.fiftyMove }

// Ply returns the number of plies made since the search root.
func (p *Position) Ply() int { return p.ply }

// HisPly returns the number of plies in the undo history.
func (p *Position) HisPly() int { return p.hisPly }

// ResetPly makes the current position the search root.
func (p *Position) ResetPly() { p.ply = 0 }

// Key returns the position fingerprint.
func (p *Position) Key() uint64 { return p.key }

// KingSquare returns the square of c's king.
func (p *Position) KingSquare(c Color) Square { return p.kingSq[c] }

// PieceAt returns the content of sq. Squares off the board are OffBoard.
func (p *Position) PieceAt(sq Square) Piece {
	if sq < 0 || sq >= NumSquares {
		return OffBoard
	}
	return p.squares[sq]
}

// PieceCount returns how many pc are on the board.
func (p *Position) PieceCount(pc Piece) int {
	if !pc.IsPiece() {
		return 0
	}
	return p.pieceNum[pc]
}

// PieceSquares returns the squares holding pc. The slice aliases internal
// state and is only valid until the position changes.
func (p *Position) PieceSquares(pc Piece) []Square {
	if !pc.IsPiece() {
		return nil
	}
	return p.pieceList[pc][:p.pieceNum[pc]]
}

// Material returns c's material sum, king included.
func (p *Position) Material(c Color) int { return p.material[c] }

// BigCount returns c's non-pawn piece count, king included.
func (p *Position) BigCount(c Color) int { return p.bigPce[c] }

// MajorCount returns c's rook, queen and king count.
func (p *Position) MajorCount(c Color) int { return p.majPce[c] }

// MinorCount returns c's knight and bishop count.
func (p *Position) MinorCount(c Color) int { return p.minPce[c] }

// Pawns returns the pawn set for White, Black or Both.
func (p *Position) Pawns(c Color) Bitboard { return p.pawns[c] }

// History returns the undo record of ply i (0 <= i < HisPly).
func (p *Position) History(i int) Undo { return p.history[i] }

// InCheck reports whether the side to move is in check.
func (p *Position) InCheck() bool {
	return p.IsAttacked(p.kingSq[p.side], p.side.Other())
}

// IsRepetition reports whether the current key occurred earlier within the
// span of the halfmove clock.
func (p *Position) IsRepetition() bool {
	start := p.hisPly - p.fiftyMove
	if start < 0 {
		start = 0
	}
	for i := start; i < p.hisPly-1; i++ {
		if p.history[i].Key == p.key {
			return true
		}
	}
	return false
}

// String returns an ASCII diagram followed by the state fields.
func (p *Position) String() string {
	var sb strings.Builder
	for rank := Rank8; rank >= Rank1; rank-- {
		sb.WriteString(fmt.Sprintf("%d  ", rank+1))
		for file := FileA; file <= FileH; file++ {
			sb.WriteByte(p.squares[SquareOf(file, rank)].Char())
			sb.WriteString("  ")
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a  b  c  d  e  f  g  h\n")
	side := "w"
	if p.side == Black {
		side = "b"
	}
	fmt.Fprintf(&sb, "side: %s  ep: %s  castle: %s  fifty: %d\n", side, p.enPas, p.castlePerm, p.fiftyMove)
	fmt.Fprintf(&sb, "key: %016X\n", p.key)
	return sb.String()
}
