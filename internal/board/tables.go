package board

import "sync"

// Process-wide lookup tables. They are immutable once Init has run.
type lookupTables struct {
	sq120to64 [NumSquares]Square64
	sq64to120 [NumDense]Square
	files     [NumSquares]int
	ranks     [NumSquares]int

	pieceKeys  [NumPieces][NumSquares]uint64 // row Empty doubles as en passant keys
	sideKey    uint64
	castleKeys [16]uint64

	castleMask [NumSquares]CastleRights
	mvvLva     [NumPieces][NumPieces]int
}

var (
	tables   lookupTables
	initOnce sync.Once
)

// Init builds the square maps, hash keys, castle masks and capture ordering
// table. It is safe to call repeatedly; only the first call does work.
// NewPosition and LoadPosition call it.
func Init() {
	initOnce.Do(func() {
		initSquareMaps(&tables)
		initHashKeys(&tables)
		initCastleMasks(&tables)
		initMvvLva(&tables)
	})
}

func initSquareMaps(t *lookupTables) {
	for i := range t.sq120to64 {
		t.sq120to64[i] = NoSquare64
		t.files[i] = FileNone
		t.ranks[i] = RankNone
	}
	for i := range t.sq64to120 {
		t.sq64to120[i] = NoSquare
	}

	sq64 := Square64(0)
	for rank := Rank1; rank <= Rank8; rank++ {
		for file := FileA; file <= FileH; file++ {
			sq := SquareOf(file, rank)
			t.sq64to120[sq64] = sq
			t.sq120to64[sq] = sq64
			t.files[sq] = file
			t.ranks[sq] = rank
			sq64++
		}
	}
}

// Simple PRNG for reproducible hash keys. Keys must be identical across
// processes because fingerprints are persisted by the analysis store.
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initHashKeys(t *lookupTables) {
	rng := newPRNG(0x98F107A2BEEF1234) // Fixed seed

	for p := range t.pieceKeys {
		for sq := range t.pieceKeys[p] {
			t.pieceKeys[p][sq] = rng.next()
		}
	}
	t.sideKey = rng.next()
	for i := range t.castleKeys {
		t.castleKeys[i] = rng.next()
	}
}

// A move touching one of these squares removes the matching rights.
func initCastleMasks(t *lookupTables) {
	for i := range t.castleMask {
		t.castleMask[i] = AllCastling
	}
	t.castleMask[A1] &^= WhiteQueenSide
	t.castleMask[E1] &^= WhiteKingSide | WhiteQueenSide
	t.castleMask[H1] &^= WhiteKingSide
	t.castleMask[A8] &^= BlackQueenSide
	t.castleMask[E8] &^= BlackKingSide | BlackQueenSide
	t.castleMask[H8] &^= BlackKingSide
}

// victimScore ranks captured pieces; the attacker term only breaks ties.
var victimScore = [NumPieces]int{0, 100, 200, 300, 400, 500, 600, 100, 200, 300, 400, 500, 600}

func initMvvLva(t *lookupTables) {
	for attacker := WhitePawn; attacker <= BlackKing; attacker++ {
		for victim := WhitePawn; victim <= BlackKing; victim++ {
			t.mvvLva[victim][attacker] = victimScore[victim] + 6 - victimScore[attacker]/100
		}
	}
}

// MvvLva returns the capture ordering score of victim taken by attacker.
func MvvLva(victim, attacker Piece) int {
	if !victim.IsPiece() || !attacker.IsPiece() {
		return 0
	}
	return tables.mvvLva[victim][attacker]
}
