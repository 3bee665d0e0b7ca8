package viewer

import (
	"errors"
	"fmt"
)

// Kind classifies command failures for callers across the wire.
type Kind string

const (
	// KindIO covers any failure reading a file from disk.
	KindIO Kind = "io"
	// KindWindowOp covers any failure applying a property to a window.
	KindWindowOp Kind = "window"
)

// Error is returned by every command on failure.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func ioError(op string, err error) error {
	return &Error{Kind: KindIO, Op: op, Err: err}
}

func windowOpError(op string, err error) error {
	return &Error{Kind: KindWindowOp, Op: op, Err: err}
}

// KindOf returns the Kind of err, or "" when err is not a command error.
func KindOf(err error) Kind {
	var cmdErr *Error
	if errors.As(err, &cmdErr) {
		return cmdErr.Kind
	}
	return ""
}

// IsIO reports whether err is an IoError.
func IsIO(err error) bool { return KindOf(err) == KindIO }

// IsWindowOp reports whether err is a WindowOpError.
func IsWindowOp(err error) bool { return KindOf(err) == KindWindowOp }
