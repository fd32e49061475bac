package planner

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is returned when input fails a presence or range check
	ErrValidation = errors.New("validation failure")

	// ErrIndexOutOfRange is returned for a stale or invalid list position
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrMalformedStorage marks a data file that exists but is not a valid document
	ErrMalformedStorage = errors.New("malformed storage")
)

// IOError reports a failed read or write of the data file
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
