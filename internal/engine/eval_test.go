package engine

import (
	"strings"
	"testing"

	"github.com/hailam/chesscore/internal/board"
)

// mirrorFEN flips the board vertically and swaps colors. Castling and en
// passant fields must be "-".
func mirrorFEN(fen string) string {
	fields := strings.Fields(fen)
	ranks := strings.Split(fields[0], "/")
	for i, j := 0, len(ranks)-1; i < j; i, j = i+1, j-1 {
		ranks[i], ranks[j] = ranks[j], ranks[i]
	}
	swapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z':
			return r - 'A' + 'a'
		}
		return r
	}, strings.Join(ranks, "/"))

	side := "w"
	if fields[1] == "w" {
		side = "b"
	}
	return swapped + " " + side + " - - 0 1"
}

func TestEvaluateStartIsBalanced(t *testing.T) {
	if got := Evaluate(board.NewPosition()); got != 0 {
		t.Errorf("Evaluate(start) = %d, want 0", got)
	}
}

func TestEvaluateSymmetry(t *testing.T) {
	fens := []string{
		"4k3/8/8/3q4/2P5/8/8/4K3 w - - 0 1",
		"r1bqkb1r/pppp1ppp/2n2n2/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w - - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"6k1/5ppp/8/8/8/8/8/R5K1 b - - 0 1",
	}

	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			pos := mustLoad(t, fen)
			mirrored := mustLoad(t, mirrorFEN(fen))
			if a, b := Evaluate(pos), Evaluate(mirrored); a != b {
				t.Errorf("Evaluate = %d, mirrored %d", a, b)
			}
		})
	}
}

func TestEvaluateSideToMove(t *testing.T) {
	white := mustLoad(t, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
	black := mustLoad(t, "6k1/5ppp/8/8/8/8/8/R5K1 b - - 0 1")
	if Evaluate(white) != -Evaluate(black) {
		t.Errorf("white view %d, black view %d", Evaluate(white), Evaluate(black))
	}
}

func TestEvaluatePieceSquares(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want int
	}{
		// Material cancels; only the table entries remain
		{"pawn e4", "4k3/8/8/8/4P3/8/8/4K3 w - - 0 1", 100 + pawnTable[28]},
		{"pawn e5 black", "4k3/8/8/4p3/8/8/8/4K3 w - - 0 1", -100 - pawnTable[28]},
		{"rook seventh", "4k3/R7/8/8/8/8/8/4K3 w - - 0 1", 550 + rookTable[48]},
		{"knight rim", "4k3/8/8/8/8/8/8/1N2K3 b - - 0 1", -(325 + knightTable[1])},
		{"queen has no table", "4k3/8/8/8/3Q4/8/8/4K3 w - - 0 1", 1000},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Evaluate(mustLoad(t, tc.fen)); got != tc.want {
				t.Errorf("Evaluate = %d, want %d", got, tc.want)
			}
		})
	}
}
