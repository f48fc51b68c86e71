package transform

import "errors"

var (
	ErrUnsupportedShape  = errors.New("unsupported shape")
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// Error is a conversion failure. Its message is shown to users as-is; Kind
// is one of the sentinel errors above.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func shapeError(msg string) error {
	return &Error{Kind: ErrUnsupportedShape, Msg: "Unable to convert to CSV: " + msg}
}
