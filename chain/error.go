package chain

import (
	"context"
	"errors"
	"io"
	"net"
	"syscall"

	"github.com/viant/invoke/codec"
)

// Error represents classified strategy error
type Error struct {
	Kind      ErrorKind
	Retryable bool
	Err       error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates classified error with kind default retryability
func NewError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Retryable: kind.Retryable(), Err: err}
}

// NewRetryableError creates classified error that advances the chain
func NewRetryableError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Retryable: kind != Unauthorized && kind != Cancelled, Err: err}
}

// Classify maps strategy error to error kind and next strategy retryability
func Classify(err error) (ErrorKind, bool) {
	if err == nil {
		return "", false
	}
	classified := &Error{}
	if errors.As(err, &classified) {
		return classified.Kind, classified.Retryable
	}
	switch {
	case errors.Is(err, context.Canceled):
		return Cancelled, false
	case errors.Is(err, context.DeadlineExceeded):
		return Timeout, true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Timeout, true
	}
	mismatchErr := &codec.MismatchError{}
	if errors.As(err, &mismatchErr) {
		return SerializationError, false
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ConnectionRefused, true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ConnectionRefused, true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ConnectionRefused, true
	}
	return SerializationError, true
}
