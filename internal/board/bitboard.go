package board

import (
	"math/bits"
	"strings"
)

// Bitboard is a set of dense squares. Bit 0 = A1, bit 63 = H8.
// The position uses them to track pawns.
type Bitboard uint64

// PopulationCount returns the number of set bits.
func PopulationCount(b Bitboard) int {
	return bits.OnesCount64(uint64(b))
}

// ExtractLowestSet returns the index of the least significant set bit and
// clears it from b. The caller must ensure b is not empty; an empty set
// yields NoSquare64.
func ExtractLowestSet(b *Bitboard) Square64 {
	if *b == 0 {
		return NoSquare64
	}
	sq := Square64(bits.TrailingZeros64(uint64(*b)))
	*b &= *b - 1
	return sq
}

// PopCount is the method form of PopulationCount.
func (b Bitboard) PopCount() int {
	return PopulationCount(b)
}

// Set returns b with sq added.
func (b Bitboard) Set(sq Square64) Bitboard {
	return b | 1<<uint(sq)
}

// Clear returns b with sq removed.
func (b Bitboard) Clear(sq Square64) Bitboard {
	return b &^ (1 << uint(sq))
}

// IsSet reports whether sq is in b.
func (b Bitboard) IsSet(sq Square64) bool {
	return b&(1<<uint(sq)) != 0
}

// String renders the set as an 8x8 diagram, rank 8 first.
func (b Bitboard) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		sb.WriteByte(byte('1' + rank))
		sb.WriteByte(' ')
		for file := 0; file < 8; file++ {
			if b.IsSet(Square64(rank*8 + file)) {
				sb.WriteString("X ")
			} else {
				sb.WriteString(". ")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	return sb.String()
}
