package dynamic

import (
	"errors"
	"fmt"
)

// ErrOutOfMemory is returned when an allocation would exceed the stack's
// memory limit or the underlying allocator refuses the request.
var ErrOutOfMemory = errors.New("dynamic: out of memory")

// BoundsError is the panic value raised when an index or slice bound falls
// outside the live elements of a list.
type BoundsError struct {
	Op     string // operation that resolved the index
	Index  int    // index as supplied by the caller
	Length int    // list length at the time of the call
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("dynamic: %s: index %d out of bounds for length %d", e.Op, e.Index, e.Length)
}

// UsageError is the panic value raised for programmer errors that are not
// index related: zero slice step, popping an empty list, touching a freed
// list or a closed stack.
type UsageError struct {
	Op  string
	Msg string
}

func (e *UsageError) Error() string {
	return "dynamic: " + e.Op + ": " + e.Msg
}

func panicBounds(op string, idx, length int) {
	panic(&BoundsError{Op: op, Index: idx, Length: length})
}

func panicUsage(op, msg string) {
	panic(&UsageError{Op: op, Msg: msg})
}
