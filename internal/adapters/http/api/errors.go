package api

import (
	"errors"
	"fmt"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

// opError carries the operation that produced an error so logs and
// responses can point at the failing handler.
type opError struct {
	op  string
	err error
}

func (e *opError) Error() string { return fmt.Sprintf("%s: %v", e.op, e.err) }
func (e *opError) Unwrap() error { return e.err }

// Wrap annotates an error with the operation name.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &opError{op: op, err: err}
}

// NewKind builds an op-annotated error from a sentinel kind.
func NewKind(op string, kind error) error {
	return &opError{op: op, err: kind}
}
