package board

import "fmt"

// DebugAudit makes MakeMove and TakeMove audit the position after every
// change and panic on the first mismatch. Slow; meant for tests and
// debugging sessions.
var DebugAudit = false

// Audit recomputes every derived field from the squares array and returns
// an error wrapping ErrCorrupt describing the first mismatch.
func (p *Position) Audit() error {
	var (
		pceNum   [NumPieces]int
		bigPce   [2]int
		majPce   [2]int
		minPce   [2]int
		material [2]int
		pawns    [3]Bitboard
	)

	// Piece lists point at squares holding that piece
	for pc := WhitePawn; pc <= BlackKing; pc++ {
		for i := 0; i < p.pieceNum[pc]; i++ {
			sq := p.pieceList[pc][i]
			if p.PieceAt(sq) != pc {
				return fmt.Errorf("%w: piece list %s[%d] points at %s holding %s", ErrCorrupt, pc, i, sq, p.PieceAt(sq))
			}
		}
	}

	// Recount from the board
	for sq64 := Square64(0); sq64 < NumDense; sq64++ {
		sq := ToSquare120(sq64)
		pc := p.squares[sq]
		if pc == OffBoard {
			return fmt.Errorf("%w: sentinel on playable square %s", ErrCorrupt, sq)
		}
		if !pc.IsPiece() {
			continue
		}
		c := pc.Color()
		pceNum[pc]++
		if pc.IsBig() {
			bigPce[c]++
		}
		if pc.IsMajor() {
			majPce[c]++
		}
		if pc.IsMinor() {
			minPce[c]++
		}
		material[c] += pc.Value()
		if pc.Type() == Pawn {
			pawns[c] = pawns[c].Set(sq64)
			pawns[Both] = pawns[Both].Set(sq64)
		}
	}

	for pc := WhitePawn; pc <= BlackKing; pc++ {
		if pceNum[pc] != p.pieceNum[pc] {
			return fmt.Errorf("%w: %s count %d, board has %d", ErrCorrupt, pc, p.pieceNum[pc], pceNum[pc])
		}
	}

	for c := White; c <= Both; c++ {
		if pawns[c] != p.pawns[c] {
			return fmt.Errorf("%w: %s pawn set %016x, board has %016x", ErrCorrupt, c, uint64(p.pawns[c]), uint64(pawns[c]))
		}
	}

	for c := White; c <= Black; c++ {
		switch {
		case material[c] != p.material[c]:
			return fmt.Errorf("%w: %s material %d, board has %d", ErrCorrupt, c, p.material[c], material[c])
		case bigPce[c] != p.bigPce[c]:
			return fmt.Errorf("%w: %s big pieces %d, board has %d", ErrCorrupt, c, p.bigPce[c], bigPce[c])
		case majPce[c] != p.majPce[c]:
			return fmt.Errorf("%w: %s major pieces %d, board has %d", ErrCorrupt, c, p.majPce[c], majPce[c])
		case minPce[c] != p.minPce[c]:
			return fmt.Errorf("%w: %s minor pieces %d, board has %d", ErrCorrupt, c, p.minPce[c], minPce[c])
		}
		if p.PieceAt(p.kingSq[c]) != kingOf(c) {
			return fmt.Errorf("%w: %s king square %s holds %s", ErrCorrupt, c, p.kingSq[c], p.PieceAt(p.kingSq[c]))
		}
	}

	if p.side != White && p.side != Black {
		return fmt.Errorf("%w: side to move %d", ErrCorrupt, p.side)
	}

	if key := ComputeKey(p); key != p.key {
		return fmt.Errorf("%w: key %016x, recomputed %016x", ErrCorrupt, p.key, key)
	}

	if p.enPas != NoSquare {
		want := Rank6
		if p.side == Black {
			want = Rank3
		}
		if p.enPas.Rank() != want {
			return fmt.Errorf("%w: en passant square %s with %s to move", ErrCorrupt, p.enPas, p.side)
		}
	}

	if len(p.history) != p.hisPly {
		return fmt.Errorf("%w: history length %d, hisPly %d", ErrCorrupt, len(p.history), p.hisPly)
	}

	return nil
}

// MustAudit panics if Audit finds a mismatch. A corrupt position cannot be
// recovered from.
func (p *Position) MustAudit() {
	if err := p.Audit(); err != nil {
		panic(err)
	}
}
