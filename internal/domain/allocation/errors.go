package allocation

import (
	"errors"
	"fmt"
)

var (
	// ErrPositionNotFound is returned when an operation names a position id
	// that is not on the board.
	ErrPositionNotFound = errors.New("position not found")

	// ErrItemNotFound is returned when an operation names an item id that is
	// not in the expected collection.
	ErrItemNotFound = errors.New("item not found")

	// ErrEmptyGroup is returned when resolving a group against its source
	// collection yields no items.
	ErrEmptyGroup = errors.New("no items found for group")

	// ErrBoardNotEmpty is returned by load operations when the caller did not
	// confirm replacing existing work.
	ErrBoardNotEmpty = errors.New("board has unsaved work")

	// ErrDuplicateWorkType is returned when a position already holds an item
	// with the requested work type.
	ErrDuplicateWorkType = errors.New("work type already present in position")
)

// InsufficientItemsError reports a resize-grow that asked for more matching
// items than the pool holds. The operation is fully aborted; Available tells
// the user how many items they can actually pull.
type InsufficientItemsError struct {
	Requested int
	Available int
}

func (e *InsufficientItemsError) Error() string {
	return fmt.Sprintf("not enough unallocated items: requested %d, available: %d", e.Requested, e.Available)
}
