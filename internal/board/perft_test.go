package board

import "testing"

func mustLoad(t testing.TB, fen string) *Position {
	t.Helper()
	pos, err := LoadPosition(fen)
	if err != nil {
		t.Fatalf("LoadPosition(%q): %v", fen, err)
	}
	return pos
}

// TestPerftStartingPosition tests move generation from the starting position.
func TestPerftStartingPosition(t *testing.T) {
	pos := NewPosition()

	tests := []struct {
		depth    int
		expected uint64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
		// Depth 5 takes longer, enable for thorough testing:
		// {5, 4865609},
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			got := CountLeaves(pos, tc.depth)
			if got != tc.expected {
				t.Errorf("CountLeaves(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}

	// The walk must leave the position untouched
	if pos.FEN() != StartFEN {
		t.Errorf("position changed by perft: %s", pos.FEN())
	}
	if err := pos.Audit(); err != nil {
		t.Error(err)
	}
}

// TestPerftKiwipete tests the famous Kiwipete position with many edge cases.
func TestPerftKiwipete(t *testing.T) {
	pos := mustLoad(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -")

	tests := []struct {
		depth    int
		expected uint64
	}{
		{1, 48},
		{2, 2039},
		{3, 97862},
		// {4, 4085603}, // Takes a few seconds, enable for thorough testing
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			got := CountLeaves(pos, tc.depth)
			if got != tc.expected {
				t.Errorf("CountLeaves(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

// TestPerftPosition3 tests en passant edge cases.
func TestPerftPosition3(t *testing.T) {
	pos := mustLoad(t, "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -")

	tests := []struct {
		depth    int
		expected uint64
	}{
		{1, 14},
		{2, 191},
		{3, 2812},
		{4, 43238},
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			got := CountLeaves(pos, tc.depth)
			if got != tc.expected {
				t.Errorf("CountLeaves(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

// TestPerftPromotions covers underpromotion and castling rights lost to
// rook captures.
func TestPerftPromotions(t *testing.T) {
	pos := mustLoad(t, "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1")

	tests := []struct {
		depth    int
		expected uint64
	}{
		{1, 6},
		{2, 264},
		{3, 9467},
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			got := CountLeaves(pos, tc.depth)
			if got != tc.expected {
				t.Errorf("CountLeaves(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

// TestPerftEnPassantPin tests the specific en passant horizontal pin edge case.
// Black pawn on e4 can capture en passant d3, but this would expose the black king
// on a4 to the white rook on h4.
func TestPerftEnPassantPin(t *testing.T) {
	pos := mustLoad(t, "8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1")

	// The en passant capture is generated but must be rejected
	for _, m := range pos.LegalMoves() {
		if m.IsEnPassant() {
			t.Errorf("En passant move %v should be illegal (horizontal pin)", m)
		}
	}

	tests := []struct {
		depth    int
		expected uint64
	}{
		{1, 6},
		{2, 94},
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			got := CountLeaves(pos, tc.depth)
			if got != tc.expected {
				t.Errorf("CountLeaves(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

func TestDivideSumsToCountLeaves(t *testing.T) {
	pos := mustLoad(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -")

	entries := Divide(pos, 2)
	if len(entries) != 48 {
		t.Fatalf("Divide returned %d root moves, want 48", len(entries))
	}

	var sum uint64
	for i, e := range entries {
		sum += e.Nodes
		if i > 0 && entries[i-1].Move.String() > e.Move.String() {
			t.Errorf("entries not sorted: %s before %s", entries[i-1].Move, e.Move)
		}
	}
	if sum != 2039 {
		t.Errorf("divide sum = %d, want 2039", sum)
	}
}
