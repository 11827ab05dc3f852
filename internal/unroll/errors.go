package unroll

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedDirective is returned when a directive's count is missing,
	// out of range or above the configured limit.
	ErrMalformedDirective = errors.New("malformed repeat directive")

	// ErrNestedDirective is returned when a directive that is not also a
	// label appears inside an open repeat block.
	ErrNestedDirective = errors.New("nested repeat directive")

	// ErrUnterminatedBlock is returned by PolicyError when the input ends
	// inside a repeat block.
	ErrUnterminatedBlock = errors.New("unterminated repeat block")
)

// LineError ties an expansion failure to a position in the input.
type LineError struct {
	Line int    // 1-based line number
	Text string // offending line, without terminator
	Err  error
}

// Error implements the error interface.
func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
}

// Unwrap returns the underlying cause, so errors.Is works on sentinels.
func (e *LineError) Unwrap() error {
	return e.Err
}
