package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// LoadPosition builds a position from a FEN string. The halfmove clock and
// fullmove number are optional. Errors wrap ErrParse.
func LoadPosition(fen string) (*Position, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 || len(parts) > 6 {
		return nil, fmt.Errorf("%w: FEN needs 4 to 6 fields, got %d", ErrParse, len(parts))
	}

	pos := newEmptyPosition()

	// Piece placement
	if err := parsePiecePlacement(pos, parts[0]); err != nil {
		return nil, err
	}

	// Side to move
	switch parts[1] {
	case "w":
		pos.side = White
	case "b":
		pos.side = Black
	default:
		return nil, fmt.Errorf("%w: invalid side to move %q", ErrParse, parts[1])
	}

	// Castling rights
	if err := parseCastlingRights(pos, parts[2]); err != nil {
		return nil, err
	}

	// En passant square
	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, fmt.Errorf("%w: invalid en passant square %q", ErrParse, parts[3])
		}
		want := Rank6
		if pos.side == Black {
			want = Rank3
		}
		if sq.Rank() != want {
			return nil, fmt.Errorf("%w: en passant square %s impossible with %s to move", ErrParse, sq, pos.side)
		}
		pos.enPas = sq
	}

	// Half-move clock
	if len(parts) > 4 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil || hmc < 0 {
			return nil, fmt.Errorf("%w: invalid half-move clock %q", ErrParse, parts[4])
		}
		pos.fiftyMove = hmc
	}

	// Full-move number
	fullMove := 1
	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil || fmn < 1 {
			return nil, fmt.Errorf("%w: invalid full-move number %q", ErrParse, parts[5])
		}
		fullMove = fmn
	}
	pos.plyBase = (fullMove - 1) * 2
	if pos.side == Black {
		pos.plyBase++
	}

	pos.updateListsMaterial()

	if err := validateSetup(pos); err != nil {
		return nil, err
	}

	pos.dropImpossibleCastling()
	pos.key = ComputeKey(pos)

	if err := pos.Audit(); err != nil {
		return nil, err
	}
	return pos, nil
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: piece placement needs 8 ranks, got %d", ErrParse, len(ranks))
	}

	var counts [NumPieces]int
	for i, rankStr := range ranks {
		rank := Rank8 - i // FEN starts from rank 8
		file := FileA

		for _, c := range rankStr {
			if file > FileH {
				return fmt.Errorf("%w: too many squares in rank %d", ErrParse, rank+1)
			}

			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}

			piece := PieceFromChar(byte(c))
			if piece == Empty {
				return fmt.Errorf("%w: invalid piece character %q", ErrParse, c)
			}
			if counts[piece]++; counts[piece] > MaxPieceNum {
				return fmt.Errorf("%w: too many %s", ErrParse, piece)
			}
			pos.squares[SquareOf(file, rank)] = piece
			file++
		}

		if file != 8 {
			return fmt.Errorf("%w: rank %d has %d squares", ErrParse, rank+1, file)
		}
	}

	return nil
}

// parseCastlingRights parses the castling rights section of a FEN string.
func parseCastlingRights(pos *Position, castling string) error {
	if castling == "-" {
		return nil
	}

	for _, c := range castling {
		switch c {
		case 'K':
			pos.castlePerm |= WhiteKingSide
		case 'Q':
			pos.castlePerm |= WhiteQueenSide
		case 'k':
			pos.castlePerm |= BlackKingSide
		case 'q':
			pos.castlePerm |= BlackQueenSide
		default:
			return fmt.Errorf("%w: invalid castling character %q", ErrParse, c)
		}
	}

	return nil
}

// validateSetup rejects positions the move generator cannot work with.
func validateSetup(pos *Position) error {
	for c := White; c <= Black; c++ {
		if n := pos.pieceNum[kingOf(c)]; n != 1 {
			return fmt.Errorf("%w: %s has %d kings", ErrParse, c, n)
		}
	}

	for c := White; c <= Black; c++ {
		if err := checkMaterial(pos, c); err != nil {
			return err
		}
	}

	for file := FileA; file <= FileH; file++ {
		for _, rank := range [2]int{Rank1, Rank8} {
			if pos.squares[SquareOf(file, rank)].Type() == Pawn {
				return fmt.Errorf("%w: pawn on %s", ErrParse, SquareOf(file, rank))
			}
		}
	}

	if pos.enPas != NoSquare {
		if err := checkEnPassant(pos); err != nil {
			return err
		}
	}

	// The side that just moved cannot have left its king in check
	if pos.IsAttacked(pos.kingSq[pos.side.Other()], pos.side) {
		return fmt.Errorf("%w: side not to move is in check", ErrParse)
	}

	return nil
}

// Pieces each side starts with, by type.
var originalCount = [...]struct {
	pt PieceType
	n  int
}{{Knight, 2}, {Bishop, 2}, {Rook, 2}, {Queen, 1}}

// checkMaterial rejects material that no game can reach. Every piece
// beyond the original set used up a pawn, so later promotions can never
// overflow the piece lists.
func checkMaterial(pos *Position, c Color) error {
	total, pawns := 0, pos.pieceNum[NewPiece(Pawn, c)]
	for pt := Pawn; pt <= King; pt++ {
		total += pos.pieceNum[NewPiece(pt, c)]
	}
	if total > 16 {
		return fmt.Errorf("%w: %s has %d pieces", ErrParse, c, total)
	}
	if pawns > 8 {
		return fmt.Errorf("%w: %s has %d pawns", ErrParse, c, pawns)
	}

	promoted := 0
	for _, o := range originalCount {
		promoted += max(0, pos.pieceNum[NewPiece(o.pt, c)]-o.n)
	}
	if promoted > 8-pawns {
		return fmt.Errorf("%w: %s has %d promoted pieces with %d pawns left", ErrParse, c, promoted, pawns)
	}
	return nil
}

// checkEnPassant requires the pawn that just double-pushed to stand in
// front of the target square, with the target and its start square empty.
func checkEnPassant(pos *Position) error {
	ep := pos.enPas
	pawnSq, startSq, pawn := ep-10, ep+10, NewPiece(Pawn, Black)
	if pos.side == Black {
		pawnSq, startSq, pawn = ep+10, ep-10, NewPiece(Pawn, White)
	}

	if pos.squares[pawnSq] != pawn {
		return fmt.Errorf("%w: no pawn on %s for en passant square %s", ErrParse, pawnSq, ep)
	}
	if pos.squares[ep] != Empty || pos.squares[startSq] != Empty {
		return fmt.Errorf("%w: en passant square %s or %s is occupied", ErrParse, ep, startSq)
	}
	return nil
}

// dropImpossibleCastling clears rights whose king or rook is not on its
// home square.
func (p *Position) dropImpossibleCastling() {
	if p.squares[E1] != WhiteKing {
		p.castlePerm &^= WhiteKingSide | WhiteQueenSide
	}
	if p.squares[H1] != WhiteRook {
		p.castlePerm &^= WhiteKingSide
	}
	if p.squares[A1] != WhiteRook {
		p.castlePerm &^= WhiteQueenSide
	}
	if p.squares[E8] != BlackKing {
		p.castlePerm &^= BlackKingSide | BlackQueenSide
	}
	if p.squares[H8] != BlackRook {
		p.castlePerm &^= BlackKingSide
	}
	if p.squares[A8] != BlackRook {
		p.castlePerm &^= BlackQueenSide
	}
}

// FEN returns the FEN representation of the position.
func (p *Position) FEN() string {
	var sb strings.Builder

	// Piece placement
	for rank := Rank8; rank >= Rank1; rank-- {
		empty := 0
		for file := FileA; file <= FileH; file++ {
			piece := p.squares[SquareOf(file, rank)]
			if piece == Empty {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(piece.Char())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > Rank1 {
			sb.WriteByte('/')
		}
	}

	// Side to move
	sb.WriteByte(' ')
	if p.side == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(p.castlePerm.String())

	sb.WriteByte(' ')
	sb.WriteString(p.enPas.String())

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.fiftyMove))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa((p.plyBase+p.hisPly)/2 + 1))

	return sb.String()
}
