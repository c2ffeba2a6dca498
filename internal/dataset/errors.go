package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCase is returned when a case name is not one of average, best or worst.
	ErrUnknownCase = errors.New("unknown dataset case")
	// ErrInvalidSize is returned when a requested input size is not positive.
	ErrInvalidSize = errors.New("dataset size must be a positive integer")
	// ErrMalformedLine is returned when a line does not hold an integer.
	ErrMalformedLine = errors.New("line is not an integer")
)

// LineError reports the line of an input file that failed to parse.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}
