// Package board implements a mailbox chess position with move generation,
// make/unmake and incremental hashing.
package board

import "fmt"

// Board geometry.
const (
	NumSquares = 120 // padded 10x12 board
	NumDense   = 64
)

// Square is an address on the padded 10x12 board. Playable squares run from
// A1=21 to H8=98; everything else is an off-board sentinel.
type Square int

// Square64 is an address on the dense 8x8 board (A1=0 .. H8=63).
type Square64 int

// Rank 1
const (
	A1 Square = iota + 21
	B1
	C1
	D1
	E1
	F1
	G1
	H1
)

// Rank 2
const (
	A2 Square = iota + 31
	B2
	C2
	D2
	E2
	F2
	G2
	H2
)

// Rank 3
const (
	A3 Square = iota + 41
	B3
	C3
	D3
	E3
	F3
	G3
	H3
)

// Rank 4
const (
	A4 Square = iota + 51
	B4
	C4
	D4
	E4
	F4
	G4
	H4
)

// Rank 5
const (
	A5 Square = iota + 61
	B5
	C5
	D5
	E5
	F5
	G5
	H5
)

// Rank 6
const (
	A6 Square = iota + 71
	B6
	C6
	D6
	E6
	F6
	G6
	H6
)

// Rank 7
const (
	A7 Square = iota + 81
	B7
	C7
	D7
	E7
	F7
	G7
	H7
)

// Rank 8
const (
	A8 Square = iota + 91
	B8
	C8
	D8
	E8
	F8
	G8
	H8
)

// NoSquare marks an absent square (no en passant target).
const NoSquare Square = NumSquares

// NoSquare64 is the dense counterpart of NoSquare.
const NoSquare64 Square64 = NumDense

// Files and ranks.
const (
	FileA = iota
	FileB
	FileC
	FileD
	FileE
	FileF
	FileG
	FileH
	FileNone
)

const (
	Rank1 = iota
	Rank2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
	RankNone
)

// SquareOf returns the padded square for a file and rank (0-7 each).
func SquareOf(file, rank int) Square {
	return Square(21 + file + rank*10)
}

// ToSquare64 converts a padded square to its dense index, or NoSquare64 if
// the square is off the board.
func ToSquare64(sq Square) Square64 {
	if sq < 0 || sq >= NumSquares {
		return NoSquare64
	}
	return tables.sq120to64[sq]
}

// ToSquare120 converts a dense square to its padded address, or NoSquare if
// the index is out of range.
func ToSquare120(sq Square64) Square {
	if sq < 0 || sq >= NumDense {
		return NoSquare
	}
	return tables.sq64to120[sq]
}

// OnBoard reports whether sq is one of the 64 playable squares.
func (sq Square) OnBoard() bool {
	return ToSquare64(sq) != NoSquare64
}

// File returns the file (0=a .. 7=h), or FileNone off the board.
func (sq Square) File() int {
	if sq < 0 || sq >= NumSquares {
		return FileNone
	}
	return tables.files[sq]
}

// Rank returns the rank (0=1st .. 7=8th), or RankNone off the board.
func (sq Square) Rank() int {
	if sq < 0 || sq >= NumSquares {
		return RankNone
	}
	return tables.ranks[sq]
}

// String returns algebraic notation such as "e4", or "-" for squares
// off the board.
func (sq Square) String() string {
	if !sq.OnBoard() {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.File(), '1'+sq.Rank())
}

// ParseSquare parses algebraic notation ("e4").
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("%w: invalid square %q", ErrParse, s)
	}
	file := int(s[0] - 'a')
	rank := int(s[1] - '1')
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare, fmt.Errorf("%w: invalid square %q", ErrParse, s)
	}
	return SquareOf(file, rank), nil
}

// Mirror flips a dense square vertically (a1 <-> a8).
func (sq Square64) Mirror() Square64 {
	return sq ^ 56
}

// File returns the dense square's file.
func (sq Square64) File() int {
	return int(sq) & 7
}

// Rank returns the dense square's rank.
func (sq Square64) Rank() int {
	return int(sq) >> 3
}
