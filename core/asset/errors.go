package asset

import (
	"errors"
	"fmt"
)

// Error kinds returned by the facade, match them with errors.Is
var (
	ErrUnderflow               = errors.New("balance underflow")
	ErrProviderIncrementFailed = errors.New("provider increment failed")
	ErrProviderDecrementFailed = errors.New("provider decrement failed")
	ErrHoldUpdateFailed        = errors.New("hold update failed")
)

// Error is a failed facade operation. It carries the response code, code
// specific info and the error of the backing service that caused it.
type Error struct {
	kind  error
	code  uint32
	info  interface{}
	cause error
}

func newError(kind error, code uint32, info interface{}, cause error) *Error {
	return &Error{kind: kind, code: code, info: info, cause: cause}
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.kind, e.cause)
}

func (e *Error) Is(target error) bool {
	return target == e.kind
}

func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) Code() uint32 {
	return e.code
}

func (e *Error) Info() interface{} {
	return e.info
}
