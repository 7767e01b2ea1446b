package controls

import (
	"errors"
	"fmt"
)

// ErrInvalidValue indicates a value of the wrong type for its control.
var ErrInvalidValue = errors.New("invalid control value")

// ErrOutOfRange indicates a numeric value outside the control's bounds.
var ErrOutOfRange = errors.New("value out of range")

// ErrInvalidOptions indicates a combination of values that is not allowed.
var ErrInvalidOptions = errors.New("invalid options")

// ValueError reports which control rejected which value.
type ValueError struct {
	Control string
	Value   any
	Err     error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("control %q: %v (got %#v)", e.Control, e.Err, e.Value)
}

func (e *ValueError) Unwrap() error {
	return e.Err
}
