package chessmg

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalMove is returned when a move is not in the current legal set.
	// The position is left untouched.
	ErrIllegalMove = errors.New("illegal move")

	// ErrEmptyHistory is returned by UndoMove when no moves have been played.
	ErrEmptyHistory = errors.New("undo with empty history")
)

// InvalidBoardError describes a broken structural invariant (wrong number of
// kings, stale king cache, hash mismatch). Rule code panics with it; it is
// never part of normal move flow.
type InvalidBoardError struct {
	Reason string
}

func (e *InvalidBoardError) Error() string {
	return "invalid board: " + e.Reason
}

func invalidBoard(format string, args ...any) *InvalidBoardError {
	return &InvalidBoardError{Reason: fmt.Sprintf(format, args...)}
}
