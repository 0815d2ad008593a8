// Package errors carries the error taxonomy of the capture pipeline:
// fatal errors terminate the session, everything else is recoverable and
// the session loop backs off and reconnects.
package errors

import (
	"errors"
)

type FatalError interface {
	error
	IsFatal() bool
}

type fatalError struct {
	err error
}

func (e *fatalError) Error() string {
	return e.err.Error()
}

func (e *fatalError) IsFatal() bool {
	return true
}

func (e *fatalError) Unwrap() error {
	return e.err
}

// NewFatalError marks err as non-recoverable.
func NewFatalError(err error) FatalError {
	if err == nil {
		return nil
	}
	return &fatalError{err: err}
}

// IsFatal reports whether err or anything it wraps is fatal.
func IsFatal(err error) bool {
	var fatal FatalError
	return errors.As(err, &fatal) && fatal.IsFatal()
}
