package board

import "sort"

// CountLeaves walks every legal move sequence of the given depth from pos
// and returns the number of leaf positions. pos is restored on return.
func CountLeaves(pos *Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}

	list := pos.GenerateMoves()
	var nodes uint64
	for i := 0; i < list.Len(); i++ {
		if !pos.MakeMove(list.At(i)) {
			continue
		}
		nodes += CountLeaves(pos, depth-1)
		pos.TakeMove()
	}
	return nodes
}

// DivideEntry is the leaf count below one root move.
type DivideEntry struct {
	Move  Move
	Nodes uint64
}

// Divide returns the leaf count under each legal root move, sorted by
// move text.
func Divide(pos *Position, depth int) []DivideEntry {
	if depth < 1 {
		return nil
	}

	var entries []DivideEntry
	for _, m := range pos.LegalMoves() {
		pos.MakeMove(m)
		entries = append(entries, DivideEntry{Move: m, Nodes: CountLeaves(pos, depth-1)})
		pos.TakeMove()
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Move.String() < entries[j].Move.String()
	})
	return entries
}
