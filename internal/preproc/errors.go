package preproc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrorCode categorizes preprocessor structure errors.
type ErrorCode string

const (
	// ErrCodeUnknownDirective indicates a marker line whose payload matches
	// no recognized keyword pattern.
	ErrCodeUnknownDirective ErrorCode = "UNKNOWN_DIRECTIVE"

	// ErrCodeUnexpectedContinuation indicates ELIF, ELSE, or ENDIF outside
	// any open conditional block.
	ErrCodeUnexpectedContinuation ErrorCode = "UNEXPECTED_CONTINUATION"

	// ErrCodeUnterminatedBlock indicates input ended with conditional blocks
	// still open.
	ErrCodeUnterminatedBlock ErrorCode = "UNTERMINATED_BLOCK"

	// ErrCodeUndefinedName indicates UNDEF of a name absent from the
	// definitions. The underlying lookup failure is reachable via errors.As.
	ErrCodeUndefinedName ErrorCode = "UNDEFINED_NAME"
)

// Error represents a preprocessor syntax/structure error. Line is the
// 1-based input line where the error was detected; for unterminated blocks
// it is the line where input ended and OpenLines lists every still-open
// frame's opening line.
type Error struct {
	Code      ErrorCode
	Line      int
	Message   string
	OpenLines []int // ErrCodeUnterminatedBlock only
	Err       error // underlying error, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code == ErrCodeUnterminatedBlock {
		opened := make([]string, len(e.OpenLines))
		for i, line := range e.OpenLines {
			opened[i] = strconv.Itoa(line)
		}
		return fmt.Sprintf("%s (opened at line %s)", e.Message, strings.Join(opened, ", "))
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsStructureError reports whether err is a preprocessor structure error.
// Uses errors.As to handle wrapped errors.
func IsStructureError(err error) bool {
	var pe *Error
	return errors.As(err, &pe)
}

// newUnknownDirectiveError creates an Error for an unrecognized payload.
func newUnknownDirectiveError(line int, payload string) *Error {
	return &Error{
		Code:    ErrCodeUnknownDirective,
		Line:    line,
		Message: fmt.Sprintf("unknown directive %q", payload),
	}
}

// newUnexpectedContinuationError creates an Error for a block continuation
// or end with no open block.
func newUnexpectedContinuationError(line int) *Error {
	return &Error{
		Code:    ErrCodeUnexpectedContinuation,
		Line:    line,
		Message: "unexpected conditional block continuation",
	}
}

// newUnterminatedBlockError creates an Error listing every open frame.
func newUnterminatedBlockError(lastLine int, openLines []int) *Error {
	return &Error{
		Code:      ErrCodeUnterminatedBlock,
		Line:      lastLine,
		Message:   "blocks still open at end of input",
		OpenLines: openLines,
	}
}

// newUndefinedNameError wraps a definitions lookup failure with the line
// that triggered it.
func newUndefinedNameError(line int, err error) *Error {
	return &Error{
		Code:    ErrCodeUndefinedName,
		Line:    line,
		Message: err.Error(),
		Err:     err,
	}
}
