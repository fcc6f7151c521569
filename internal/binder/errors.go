package binder

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexOutOfRange is matched by every IndexOutOfRangeError.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrInvalidDirection is returned when a page change is not exactly Prev or Next.
	ErrInvalidDirection = errors.New("direction must be -1 or +1")

	// ErrNoDetailsOpen is returned when a reprint is selected with no card open.
	ErrNoDetailsOpen = errors.New("no card details open")

	// ErrNotFound is returned by a DataSource when a query yields no cards.
	ErrNotFound = errors.New("no cards found")

	// ErrConnection is returned by a DataSource when the backend cannot be reached.
	ErrConnection = errors.New("connection error")
)

// IndexOutOfRangeError reports an index outside [0, Length).
type IndexOutOfRangeError struct {
	What   string
	Index  int
	Length int
}

// Error implements the error interface for IndexOutOfRangeError.
func (e *IndexOutOfRangeError) Error() string {
	what := e.What
	if what == "" {
		what = "index"
	}
	return fmt.Sprintf("%s %d out of range [0, %d)", what, e.Index, e.Length)
}

// Is lets errors.Is match ErrIndexOutOfRange.
func (e *IndexOutOfRangeError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}

// IsIndexOutOfRange returns true if err is or wraps an IndexOutOfRangeError.
func IsIndexOutOfRange(err error) bool {
	return errors.Is(err, ErrIndexOutOfRange)
}
