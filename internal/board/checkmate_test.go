package board

import (
	"testing"
)

func TestCheckmate(t *testing.T) {
	// Back rank mate: Black king h8 boxed in by its own pawns
	pos := mustLoad(t, "R6k/6pp/8/8/8/8/8/K7 b - - 0 1")

	t.Log("Checkmate position:")
	t.Log(pos)

	if !pos.InCheck() {
		t.Fatal("expected black to be in check")
	}
	if n := len(pos.LegalMoves()); n != 0 {
		t.Errorf("expected no legal moves, got %d", n)
	}
	if !pos.IsCheckmate() {
		t.Error("Expected checkmate but got false")
	}
	if pos.IsStalemate() {
		t.Error("checkmate reported as stalemate")
	}
}

func TestNotCheckmate(t *testing.T) {
	// The only escape is capturing the unprotected rook
	pos := mustLoad(t, "6Rk/8/7K/8/8/8/8/8 b - - 0 1")

	if !pos.InCheck() {
		t.Fatal("expected black to be in check")
	}
	if pos.IsCheckmate() {
		t.Error("Expected NOT checkmate but got true")
	}

	legal := pos.LegalMoves()
	if len(legal) != 1 || legal[0].String() != "h8g8" {
		t.Errorf("legal moves = %v, want [h8g8]", legal)
	}
	if legal[0].Captured() != WhiteRook {
		t.Errorf("captured = %s, want R", legal[0].Captured())
	}
}

func TestStalemate(t *testing.T) {
	pos := mustLoad(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")

	if pos.InCheck() {
		t.Fatal("black should not be in check")
	}
	if !pos.IsStalemate() {
		t.Error("expected stalemate")
	}
	if pos.GenerateMoves().Len() == 0 {
		t.Error("pseudo-legal king moves should still be generated")
	}
}
