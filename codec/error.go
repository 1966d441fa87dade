package codec

import (
	"errors"
	"fmt"
	"strings"
)

// MismatchError represents value shape incompatible with its type descriptor
type MismatchError struct {
	Path     string
	Expected string
	Found    string
	Detail   string
}

func (e *MismatchError) Error() string {
	path := e.Path
	if path == "" {
		path = "$"
	}
	if e.Detail != "" {
		return fmt.Sprintf("codec mismatch at %v: expected %v, but found %v (%v)", path, e.Expected, e.Found, e.Detail)
	}
	return fmt.Sprintf("codec mismatch at %v: expected %v, but found %v", path, e.Expected, e.Found)
}

// Error represents malformed text at path
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	path := e.Path
	if path == "" {
		path = "$"
	}
	return fmt.Sprintf("failed to decode %s, %v", path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates path error, nested path errors are joined
func NewError(path string, err error) error {
	mismatchErr := &MismatchError{}
	if errors.As(err, &mismatchErr) {
		ret := *mismatchErr
		ret.Path = joinPath(path, mismatchErr.Path)
		return &ret
	}
	if jErr, ok := err.(*Error); ok {
		return &Error{Path: joinPath(path, jErr.Path), Err: jErr.Err}
	}
	return &Error{Path: path, Err: err}
}

func joinPath(parent, child string) string {
	switch {
	case child == "":
		return parent
	case parent == "":
		return child
	case strings.HasPrefix(child, "["):
		return parent + child
	}
	return parent + "." + child
}
