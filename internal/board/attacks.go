package board

// Direction offsets on the padded board.
var (
	knightDirs = [8]Square{-8, -19, -21, -12, 8, 19, 21, 12}
	rookDirs   = [4]Square{-1, -10, 1, 10}
	bishopDirs = [4]Square{-9, -11, 11, 9}
	kingDirs   = [8]Square{-1, -10, 1, 10, -9, -11, 11, 9}
)

// IsAttacked reports whether any piece of side by attacks sq in pos.
func IsAttacked(sq Square, by Color, pos *Position) bool {
	return pos.IsAttacked(sq, by)
}

// IsAttacked reports whether any piece of side by attacks sq.
func (p *Position) IsAttacked(sq Square, by Color) bool {
	if !sq.OnBoard() {
		return false
	}

	// Pawns
	if by == White {
		if p.squares[sq-11] == WhitePawn || p.squares[sq-9] == WhitePawn {
			return true
		}
	} else {
		if p.squares[sq+11] == BlackPawn || p.squares[sq+9] == BlackPawn {
			return true
		}
	}

	// Knights
	knight := NewPiece(Knight, by)
	for _, d := range knightDirs {
		if p.squares[sq+d] == knight {
			return true
		}
	}

	// Rooks and queens
	rook, queen := NewPiece(Rook, by), NewPiece(Queen, by)
	for _, d := range rookDirs {
		t := sq + d
		for pc := p.squares[t]; pc != OffBoard; pc = p.squares[t] {
			if pc != Empty {
				if pc == rook || pc == queen {
					return true
				}
				break
			}
			t += d
		}
	}

	// Bishops and queens
	bishop := NewPiece(Bishop, by)
	for _, d := range bishopDirs {
		t := sq + d
		for pc := p.squares[t]; pc != OffBoard; pc = p.squares[t] {
			if pc != Empty {
				if pc == bishop || pc == queen {
					return true
				}
				break
			}
			t += d
		}
	}

	// Kings
	king := kingOf(by)
	for _, d := range kingDirs {
		if p.squares[sq+d] == king {
			return true
		}
	}

	return false
}
