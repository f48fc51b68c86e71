package query

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPath   = errors.New("invalid JSONPath expression")
	ErrInvalidFilter = errors.New("invalid filter expression")
)

// Error describes a malformed expression. Kind is ErrInvalidPath or
// ErrInvalidFilter; Pos is the byte offset into the expression.
type Error struct {
	Kind error
	Msg  string
	Pos  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s at position %d", e.Kind, e.Msg, e.Pos)
}

func (e *Error) Unwrap() error { return e.Kind }

func pathError(pos int, format string, args ...any) error {
	return &Error{Kind: ErrInvalidPath, Msg: fmt.Sprintf(format, args...), Pos: pos}
}

func filterError(pos int, format string, args ...any) error {
	return &Error{Kind: ErrInvalidFilter, Msg: fmt.Sprintf(format, args...), Pos: pos}
}
