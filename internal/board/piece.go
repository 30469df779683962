package board

// Color represents the side a piece belongs to.
type Color uint8

const (
	White Color = iota
	Black
	Both // used to index combined pawn sets
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "Both"
	}
}

// PieceType is a piece kind without color.
type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// Piece is a square's content: Empty, one of the 12 colored pieces, or the
// OffBoard sentinel that borders the padded board.
type Piece uint8

const (
	Empty Piece = iota
	WhitePawn
	WhiteKnight
	WhiteBishop
	WhiteRook
	WhiteQueen
	WhiteKing
	BlackPawn
	BlackKnight
	BlackBishop
	BlackRook
	BlackQueen
	BlackKing
	OffBoard
)

// NumPieces is the number of piece codes a square can index tables with
// (Empty plus the 12 real pieces).
const NumPieces = 13

// Piece attribute tables, indexed by Piece.
var (
	pieceBig   = [NumPieces]bool{false, false, true, true, true, true, true, false, true, true, true, true, true}
	pieceMajor = [NumPieces]bool{false, false, false, false, true, true, true, false, false, false, true, true, true}
	pieceMinor = [NumPieces]bool{false, false, true, true, false, false, false, false, true, true, false, false, false}
	pieceValue = [NumPieces]int{0, 100, 325, 325, 550, 1000, 50000, 100, 325, 325, 550, 1000, 50000}
	pieceColor = [NumPieces]Color{Both, White, White, White, White, White, White, Black, Black, Black, Black, Black, Black}
	pieceType  = [NumPieces]PieceType{NoPieceType, Pawn, Knight, Bishop, Rook, Queen, King, Pawn, Knight, Bishop, Rook, Queen, King}

	pieceSlides = [NumPieces]bool{false, false, false, true, true, true, false, false, false, true, true, true, false}
)

// NewPiece combines a type and a color. Invalid input yields Empty.
func NewPiece(pt PieceType, c Color) Piece {
	if pt == NoPieceType || pt > King || c > Black {
		return Empty
	}
	return Piece(pt) + Piece(c)*6
}

// IsPiece reports whether p is one of the 12 real pieces.
func (p Piece) IsPiece() bool {
	return p >= WhitePawn && p <= BlackKing
}

// Color returns the owning side, or Both for Empty and OffBoard.
func (p Piece) Color() Color {
	if !p.IsPiece() {
		return Both
	}
	return pieceColor[p]
}

// Type returns the piece kind.
func (p Piece) Type() PieceType {
	if !p.IsPiece() {
		return NoPieceType
	}
	return pieceType[p]
}

// Value returns the material value in centipawns.
func (p Piece) Value() int {
	if !p.IsPiece() {
		return 0
	}
	return pieceValue[p]
}

// IsBig reports whether p is anything other than a pawn.
func (p Piece) IsBig() bool { return p.IsPiece() && pieceBig[p] }

// IsMajor reports whether p is a rook, queen or king.
func (p Piece) IsMajor() bool { return p.IsPiece() && pieceMajor[p] }

// IsMinor reports whether p is a knight or bishop.
func (p Piece) IsMinor() bool { return p.IsPiece() && pieceMinor[p] }

// IsSlider reports whether p moves along rays.
func (p Piece) IsSlider() bool { return p.IsPiece() && pieceSlides[p] }

// Char returns the FEN letter, uppercase for White. Empty is '.'.
func (p Piece) Char() byte {
	const chars = ".PNBRQKpnbrqk"
	if int(p) >= len(chars) {
		return 'x'
	}
	return chars[p]
}

// String returns the FEN letter as a string.
func (p Piece) String() string {
	return string(p.Char())
}

// PieceFromChar converts a FEN letter to a Piece, or Empty if unknown.
func PieceFromChar(c byte) Piece {
	switch c {
	case 'P':
		return WhitePawn
	case 'N':
		return WhiteKnight
	case 'B':
		return WhiteBishop
	case 'R':
		return WhiteRook
	case 'Q':
		return WhiteQueen
	case 'K':
		return WhiteKing
	case 'p':
		return BlackPawn
	case 'n':
		return BlackKnight
	case 'b':
		return BlackBishop
	case 'r':
		return BlackRook
	case 'q':
		return BlackQueen
	case 'k':
		return BlackKing
	default:
		return Empty
	}
}

// Pawn and king for a given side.
func pawnOf(c Color) Piece { return NewPiece(Pawn, c) }
func kingOf(c Color) Piece { return NewPiece(King, c) }
