// Package runtimeerr defines the error type returned by every runtime
// failure: name resolution, type mismatches, out-of-bounds indices, private
// field access across modules, use of a moved struct, non-exported member
// access, and power overflow.
package runtimeerr

import "fmt"

// Error is a single human-readable runtime failure message. It carries no
// structured fields beyond the message itself.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

// New builds an Error from a format string, the common construction path
// throughout the interp package.
func New(format string, args ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// Wrap folds an existing error (typically bubbled up from package value or
// package expr) into a runtimeerr.Error, preserving its message. If err is
// already a *Error it is returned unchanged.
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}
	if re, ok := err.(*Error); ok {
		return re
	}
	return &Error{Message: err.Error()}
}
