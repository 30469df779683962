package engine

import (
	"unsafe"

	"github.com/hailam/chesscore/internal/board"
)

// DefaultPvTableMB is the cache size used when none is configured.
const DefaultPvTableMB = 2

// PvEntry is one slot of the PV table.
type PvEntry struct {
	Key  uint64     // Full position key, compared on probe
	Move board.Move // Best move found from that position
}

// PvTable maps position keys to the best move found for them. One entry per
// slot, overwritten unconditionally on store.
type PvTable struct {
	entries []PvEntry
	size    uint64

	// Statistics
	hits   uint64
	probes uint64
}

// NewPvTable creates a table occupying roughly sizeMB megabytes.
func NewPvTable(sizeMB int) *PvTable {
	if sizeMB <= 0 {
		sizeMB = DefaultPvTableMB
	}
	entrySize := uint64(unsafe.Sizeof(PvEntry{}))
	numEntries := uint64(sizeMB)*1024*1024/entrySize - 2
	if numEntries < 1 {
		numEntries = 1
	}

	return &PvTable{
		entries: make([]PvEntry, numEntries),
		size:    numEntries,
	}
}

// Store saves move for key, replacing whatever occupied the slot.
func (pt *PvTable) Store(key uint64, move board.Move) {
	e := &pt.entries[key%pt.size]
	e.Key = key
	e.Move = move
}

// Probe returns the stored move for key, or NoMove when the slot holds a
// different position.
func (pt *PvTable) Probe(key uint64) board.Move {
	pt.probes++
	e := pt.entries[key%pt.size]
	if e.Key == key && e.Move != board.NoMove {
		pt.hits++
		return e.Move
	}
	return board.NoMove
}

// Clear empties every slot.
func (pt *PvTable) Clear() {
	for i := range pt.entries {
		pt.entries[i] = PvEntry{}
	}
	pt.hits = 0
	pt.probes = 0
}

// Len returns the number of slots.
func (pt *PvTable) Len() int {
	return int(pt.size)
}

// HashFull returns the permille of occupied slots among the first thousand.
func (pt *PvTable) HashFull() int {
	sampleSize := 1000
	if uint64(sampleSize) > pt.size {
		sampleSize = int(pt.size)
	}

	used := 0
	for i := 0; i < sampleSize; i++ {
		if pt.entries[i].Move != board.NoMove {
			used++
		}
	}
	return used * 1000 / sampleSize
}

// HitRate returns the probe hit rate as a percentage.
func (pt *PvTable) HitRate() float64 {
	if pt.probes == 0 {
		return 0
	}
	return float64(pt.hits) / float64(pt.probes) * 100
}

// PvLine follows the stored moves from pos for at most depth plies. The
// walk stops at the first missing or illegal move and pos is restored
// before returning.
func PvLine(table *PvTable, pos *board.Position, depth int) []board.Move {
	var line []board.Move

	move := table.Probe(pos.Key())
	for move != board.NoMove && len(line) < depth {
		if !board.MoveExists(pos, move) {
			break
		}
		pos.MakeMove(move)
		line = append(line, move)
		move = table.Probe(pos.Key())
	}

	for range line {
		pos.TakeMove()
	}
	return line
}
