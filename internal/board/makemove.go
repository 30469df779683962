package board

// clearPiece removes the piece on sq, keeping every derived field in step.
func (p *Position) clearPiece(sq Square) {
	pc := p.squares[sq]
	c := pc.Color()

	p.hashPiece(pc, sq)
	p.squares[sq] = Empty
	p.material[c] -= pc.Value()

	if pc.IsBig() {
		p.bigPce[c]--
		if pc.IsMajor() {
			p.majPce[c]--
		} else {
			p.minPce[c]--
		}
	} else {
		sq64 := ToSquare64(sq)
		p.pawns[c] = p.pawns[c].Clear(sq64)
		p.pawns[Both] = p.pawns[Both].Clear(sq64)
	}

	// Swap-remove from the piece list
	n := p.pieceNum[pc]
	for i := 0; i < n; i++ {
		if p.pieceList[pc][i] == sq {
			p.pieceList[pc][i] = p.pieceList[pc][n-1]
			break
		}
	}
	p.pieceNum[pc]--
}

// addPiece puts pc on the empty square sq.
func (p *Position) addPiece(sq Square, pc Piece) {
	c := pc.Color()

	p.hashPiece(pc, sq)
	p.squares[sq] = pc

	if pc.IsBig() {
		p.bigPce[c]++
		if pc.IsMajor() {
			p.majPce[c]++
		} else {
			p.minPce[c]++
		}
	} else {
		sq64 := ToSquare64(sq)
		p.pawns[c] = p.pawns[c].Set(sq64)
		p.pawns[Both] = p.pawns[Both].Set(sq64)
	}

	p.material[c] += pc.Value()
	p.pieceList[pc][p.pieceNum[pc]] = sq
	p.pieceNum[pc]++
}

// movePiece relocates the piece on from to the empty square to.
func (p *Position) movePiece(from, to Square) {
	pc := p.squares[from]
	c := pc.Color()

	p.hashPiece(pc, from)
	p.squares[from] = Empty
	p.hashPiece(pc, to)
	p.squares[to] = pc

	if !pc.IsBig() {
		from64, to64 := ToSquare64(from), ToSquare64(to)
		p.pawns[c] = p.pawns[c].Clear(from64).Set(to64)
		p.pawns[Both] = p.pawns[Both].Clear(from64).Set(to64)
	}

	for i := 0; i < p.pieceNum[pc]; i++ {
		if p.pieceList[pc][i] == from {
			p.pieceList[pc][i] = to
			break
		}
	}
}

// castleRookMove returns the rook relocation of a castling king move.
func castleRookMove(kingTo Square) (from, to Square) {
	switch kingTo {
	case C1:
		return A1, D1
	case G1:
		return H1, F1
	case C8:
		return A8, D8
	default: // G8
		return H8, F8
	}
}

// MakeMove plays m. If m leaves the mover's king attacked the move is
// taken back and MakeMove returns false; the position is then unchanged.
func (p *Position) MakeMove(m Move) bool {
	from, to := m.From(), m.To()
	side := p.side

	undo := Undo{
		Move:       m,
		CastlePerm: p.castlePerm,
		EnPassant:  p.enPas,
		FiftyMove:  p.fiftyMove,
		Key:        p.key,
	}

	// Special edits before the mover leaves its square
	if m.IsEnPassant() {
		if side == White {
			p.clearPiece(to - 10)
		} else {
			p.clearPiece(to + 10)
		}
	} else if m.IsCastle() {
		rf, rt := castleRookMove(to)
		p.movePiece(rf, rt)
	}

	// Rights and en passant are hashed out, updated, hashed back in
	if p.enPas != NoSquare {
		p.hashEnPassant()
	}
	p.hashCastle()

	p.history = append(p.history, undo)

	p.castlePerm &= tables.castleMask[from] & tables.castleMask[to]
	p.enPas = NoSquare
	p.hashCastle()

	p.fiftyMove++
	if captured := m.Captured(); captured != Empty {
		p.clearPiece(to)
		p.fiftyMove = 0
	}

	p.hisPly++
	p.ply++

	if p.squares[from].Type() == Pawn {
		p.fiftyMove = 0
		if m.IsPawnStart() {
			if side == White {
				p.enPas = from + 10
			} else {
				p.enPas = from - 10
			}
			p.hashEnPassant()
		}
	}

	p.movePiece(from, to)

	if promoted := m.Promoted(); promoted != Empty {
		p.clearPiece(to)
		p.addPiece(to, promoted)
	}

	if p.squares[to].Type() == King {
		p.kingSq[side] = to
	}

	p.side = side.Other()
	p.hashSide()

	if DebugAudit {
		p.MustAudit()
	}

	if p.IsAttacked(p.kingSq[side], p.side) {
		p.TakeMove()
		return false
	}
	return true
}

// TakeMove reverses the last MakeMove exactly, fingerprint included.
func (p *Position) TakeMove() {
	p.hisPly--
	p.ply--

	undo := p.history[p.hisPly]
	p.history = p.history[:p.hisPly]

	m := undo.Move
	from, to := m.From(), m.To()

	if p.enPas != NoSquare {
		p.hashEnPassant()
	}
	p.hashCastle()

	p.castlePerm = undo.CastlePerm
	p.fiftyMove = undo.FiftyMove
	p.enPas = undo.EnPassant

	if p.enPas != NoSquare {
		p.hashEnPassant()
	}
	p.hashCastle()

	p.side = p.side.Other()
	p.hashSide()

	if m.IsEnPassant() {
		if p.side == White {
			p.addPiece(to-10, BlackPawn)
		} else {
			p.addPiece(to+10, WhitePawn)
		}
	} else if m.IsCastle() {
		rf, rt := castleRookMove(to)
		p.movePiece(rt, rf)
	}

	p.movePiece(to, from)

	if p.squares[from].Type() == King {
		p.kingSq[p.side] = from
	}

	if captured := m.Captured(); captured != Empty {
		p.addPiece(to, captured)
	}

	if promoted := m.Promoted(); promoted != Empty {
		p.clearPiece(from)
		p.addPiece(from, pawnOf(promoted.Color()))
	}

	if DebugAudit {
		p.MustAudit()
	}
}
