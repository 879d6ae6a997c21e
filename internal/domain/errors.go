package domain

import (
	"errors"
)

var (
	// ErrRemoteCall signals a failed call to the vector storage service.
	ErrRemoteCall = errors.New("remote call failed")
	// ErrSerialization signals a failure to encode a listing payload.
	ErrSerialization = errors.New("serialization failed")
)

// RemoteError carries a remote failure verbatim. Error() returns the cause's
// text unchanged so the UI sees exactly what the service reported.
type RemoteError struct {
	Op  string
	Err error
}

// NewRemoteError wraps err as a remote failure of op.
func NewRemoteError(op string, err error) error {
	return &RemoteError{Op: op, Err: err}
}

func (e *RemoteError) Error() string { return e.Err.Error() }
func (e *RemoteError) Unwrap() error { return e.Err }

// Is matches ErrRemoteCall in addition to the wrapped cause.
func (e *RemoteError) Is(target error) bool { return target == ErrRemoteCall }

// SerializationError carries an encoder failure verbatim.
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string { return e.Err.Error() }
func (e *SerializationError) Unwrap() error { return e.Err }

// Is matches ErrSerialization in addition to the wrapped cause.
func (e *SerializationError) Is(target error) bool { return target == ErrSerialization }
