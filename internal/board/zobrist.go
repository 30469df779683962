package board

// ComputeKey recomputes the fingerprint of pos from scratch.
func ComputeKey(pos *Position) uint64 {
	var key uint64

	for sq := A1; sq <= H8; sq++ {
		pc := pos.squares[sq]
		if pc.IsPiece() {
			key ^= tables.pieceKeys[pc][sq]
		}
	}

	if pos.side == White {
		key ^= tables.sideKey
	}

	if pos.enPas != NoSquare {
		key ^= tables.pieceKeys[Empty][pos.enPas]
	}

	key ^= tables.castleKeys[pos.castlePerm]

	return key
}

func (p *Position) hashPiece(pc Piece, sq Square) {
	p.key ^= tables.pieceKeys[pc][sq]
}

func (p *Position) hashCastle() {
	p.key ^= tables.castleKeys[p.castlePerm]
}

func (p *Position) hashSide() {
	p.key ^= tables.sideKey
}

func (p *Position) hashEnPassant() {
	p.key ^= tables.pieceKeys[Empty][p.enPas]
}
