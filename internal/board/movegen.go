package board

// Move ordering base scores assigned at generation time. Quiet moves get 0
// here; the search overlays killer and history scores.
const (
	CaptureScore   = 1000000
	EnPassantScore = 105 + CaptureScore
)

// Pieces that slide and jump, per side.
var (
	slidePieces = [2][3]Piece{{WhiteBishop, WhiteRook, WhiteQueen}, {BlackBishop, BlackRook, BlackQueen}}
	jumpPieces  = [2][2]Piece{{WhiteKnight, WhiteKing}, {BlackKnight, BlackKing}}
)

func pieceDirs(pc Piece) []Square {
	switch pc.Type() {
	case Knight:
		return knightDirs[:]
	case Bishop:
		return bishopDirs[:]
	case Rook:
		return rookDirs[:]
	default:
		return kingDirs[:]
	}
}

// GenerateMoves returns every pseudo-legal move of the side to move.
func GenerateMoves(pos *Position) *MoveList {
	return pos.GenerateMoves()
}

// GenerateCaptures returns pseudo-legal captures, capturing promotions and
// en passant captures only.
func GenerateCaptures(pos *Position) *MoveList {
	return pos.GenerateCaptures()
}

// GenerateMoves returns every pseudo-legal move of the side to move.
func (p *Position) GenerateMoves() *MoveList {
	ml := NewMoveList()
	p.generate(ml, false)
	return ml
}

// GenerateCaptures returns pseudo-legal captures only.
func (p *Position) GenerateCaptures() *MoveList {
	ml := NewMoveList()
	p.generate(ml, true)
	return ml
}

func (p *Position) generate(ml *MoveList, capturesOnly bool) {
	side := p.side
	enemy := side.Other()

	p.generatePawnMoves(ml, capturesOnly)
	if !capturesOnly {
		p.generateCastling(ml)
	}

	// Sliders
	for _, pc := range slidePieces[side] {
		for i := 0; i < p.pieceNum[pc]; i++ {
			sq := p.pieceList[pc][i]
			for _, d := range pieceDirs(pc) {
				t := sq + d
				for p.squares[t] != OffBoard {
					target := p.squares[t]
					if target != Empty {
						if target.Color() == enemy {
							p.addCapture(ml, NewMove(sq, t, target, Empty, 0))
						}
						break
					}
					if !capturesOnly {
						ml.Add(NewMove(sq, t, Empty, Empty, 0), 0)
					}
					t += d
				}
			}
		}
	}

	// Knights and king
	for _, pc := range jumpPieces[side] {
		for i := 0; i < p.pieceNum[pc]; i++ {
			sq := p.pieceList[pc][i]
			for _, d := range pieceDirs(pc) {
				t := sq + d
				target := p.squares[t]
				switch {
				case target == OffBoard:
				case target == Empty:
					if !capturesOnly {
						ml.Add(NewMove(sq, t, Empty, Empty, 0), 0)
					}
				case target.Color() == enemy:
					p.addCapture(ml, NewMove(sq, t, target, Empty, 0))
				}
			}
		}
	}
}

func (p *Position) addCapture(ml *MoveList, m Move) {
	ml.Add(m, tables.mvvLva[m.Captured()][p.squares[m.From()]]+CaptureScore)
}

func (p *Position) generatePawnMoves(ml *MoveList, capturesOnly bool) {
	side := p.side
	enemy := side.Other()
	pawn := pawnOf(side)

	// White pushes toward higher squares
	push, startRank, promoRank := Square(10), Rank2, Rank7
	if side == Black {
		push, startRank, promoRank = -10, Rank7, Rank2
	}
	promos := [4]Piece{
		NewPiece(Queen, side), NewPiece(Rook, side),
		NewPiece(Bishop, side), NewPiece(Knight, side),
	}

	for i := 0; i < p.pieceNum[pawn]; i++ {
		sq := p.pieceList[pawn][i]
		promoting := sq.Rank() == promoRank

		// Pushes
		if !capturesOnly && p.squares[sq+push] == Empty {
			if promoting {
				for _, pr := range promos {
					ml.Add(NewMove(sq, sq+push, Empty, pr, 0), 0)
				}
			} else {
				ml.Add(NewMove(sq, sq+push, Empty, Empty, 0), 0)
				if sq.Rank() == startRank && p.squares[sq+2*push] == Empty {
					ml.Add(NewMove(sq, sq+2*push, Empty, Empty, flagPawnStart), 0)
				}
			}
		}

		// Captures, en passant included
		for _, d := range [2]Square{push - 1, push + 1} {
			t := sq + d
			target := p.squares[t]
			if target != OffBoard && target.Color() == enemy {
				if promoting {
					for _, pr := range promos {
						p.addCapture(ml, NewMove(sq, t, target, pr, 0))
					}
				} else {
					p.addCapture(ml, NewMove(sq, t, target, Empty, 0))
				}
			}
			if p.enPas != NoSquare && t == p.enPas {
				ml.Add(NewMove(sq, t, Empty, Empty, flagEnPassant), EnPassantScore)
			}
		}
	}
}

func (p *Position) generateCastling(ml *MoveList) {
	if p.side == White {
		if p.castlePerm&WhiteKingSide != 0 &&
			p.squares[F1] == Empty && p.squares[G1] == Empty &&
			!p.IsAttacked(E1, Black) && !p.IsAttacked(F1, Black) && !p.IsAttacked(G1, Black) {
			ml.Add(NewMove(E1, G1, Empty, Empty, flagCastle), 0)
		}
		if p.castlePerm&WhiteQueenSide != 0 &&
			p.squares[D1] == Empty && p.squares[C1] == Empty && p.squares[B1] == Empty &&
			!p.IsAttacked(E1, Black) && !p.IsAttacked(D1, Black) && !p.IsAttacked(C1, Black) {
			ml.Add(NewMove(E1, C1, Empty, Empty, flagCastle), 0)
		}
		return
	}

	if p.castlePerm&BlackKingSide != 0 &&
		p.squares[F8] == Empty && p.squares[G8] == Empty &&
		!p.IsAttacked(E8, White) && !p.IsAttacked(F8, White) && !p.IsAttacked(G8, White) {
		ml.Add(NewMove(E8, G8, Empty, Empty, flagCastle), 0)
	}
	if p.castlePerm&BlackQueenSide != 0 &&
		p.squares[D8] == Empty && p.squares[C8] == Empty && p.squares[B8] == Empty &&
		!p.IsAttacked(E8, White) && !p.IsAttacked(D8, White) && !p.IsAttacked(C8, White) {
		ml.Add(NewMove(E8, C8, Empty, Empty, flagCastle), 0)
	}
}

// MoveExists reports whether m is a legal move in pos. pos is restored
// before returning.
func MoveExists(pos *Position, m Move) bool {
	if m == NoMove {
		return false
	}
	list := pos.GenerateMoves()
	for i := 0; i < list.Len(); i++ {
		if list.At(i) != m {
			continue
		}
		if !pos.MakeMove(m) {
			return false
		}
		pos.TakeMove()
		return true
	}
	return false
}

// LegalMoves returns the legal moves of pos in generation order.
func (p *Position) LegalMoves() []Move {
	list := p.GenerateMoves()
	out := make([]Move, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		m := list.At(i)
		if p.MakeMove(m) {
			p.TakeMove()
			out = append(out, m)
		}
	}
	return out
}

// HasLegalMoves reports whether the side to move has any legal move.
func (p *Position) HasLegalMoves() bool {
	list := p.GenerateMoves()
	for i := 0; i < list.Len(); i++ {
		if p.MakeMove(list.At(i)) {
			p.TakeMove()
			return true
		}
	}
	return false
}

// IsCheckmate reports whether the side to move is mated.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate reports whether the side to move has no legal move but is
// not in check.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}
