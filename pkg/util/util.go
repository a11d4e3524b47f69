package util

import (
	"context"
	"errors"
	"fmt"
)

// error

type Error struct {
	orig error
	msg  string
	code error
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.orig
}

// Is lets errors.Is match the error code as well as the wrapped error.
func (e *Error) Is(target error) bool {
	return e.code != nil && e.code == target
}

func WrapErrorf(orig error, code error, format string, a ...interface{}) error {
	return &Error{
		code: code,
		orig: orig,
		msg:  fmt.Sprintf(format, a...),
	}
}

func (e *Error) Code() error {
	return e.code
}

var (
	ErrBadParamInput      = errors.New("given param is not valid")
	ErrCorruptGraph       = errors.New("route graph data is corrupt")
	ErrUnsupportedVersion = errors.New("unsupported route graph record version")

	ErrBatchAlreadyCommitted = errors.New("batch occupancy changes already committed")
)

func StopConcurrentOperation(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

func AssertPanic(cond bool, msg string) {
	if !cond {
		panic(msg)
	}
}
