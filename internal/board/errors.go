package board

import "errors"

var (
	// ErrParse is returned for malformed position descriptions and squares.
	ErrParse = errors.New("board: malformed input")

	// ErrIllegalMove is returned when move text matches no generated move.
	ErrIllegalMove = errors.New("board: illegal move")

	// ErrCorrupt is returned by Audit when a derived field disagrees with
	// a recomputation from the board.
	ErrCorrupt = errors.New("board: position state corrupt")
)
