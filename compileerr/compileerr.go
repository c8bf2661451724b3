// Package compileerr defines the error type returned by every compile-time
// failure: fragmentation, tokenization, unexpected-token, malformed bracket
// structure, unresolved decorators, and malformed expressions.
package compileerr

import "fmt"

// Error is a single human-readable compile-time failure message. It carries
// no structured fields beyond the message itself.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

// New builds an Error from a format string, the common construction path
// throughout the compiler package.
func New(format string, args ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// Wrap folds an existing error into a compileerr.Error, preserving its
// message. If err is already a *Error it is returned unchanged.
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}
	if ce, ok := err.(*Error); ok {
		return ce
	}
	return &Error{Message: err.Error()}
}
