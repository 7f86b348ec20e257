package graph

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind enumerates the error taxonomy from spec.md section 7.
type ErrorKind string

const (
	ErrUnserializableValue    ErrorKind = "unserializable-value"
	ErrUnknownModule          ErrorKind = "unknown-module"
	ErrUnknownType            ErrorKind = "unknown-type"
	ErrUninstantiableType     ErrorKind = "uninstantiable-type"
	ErrIncompatibleCodeVersion ErrorKind = "incompatible-code-version"
	ErrChunkHashMismatch      ErrorKind = "chunk-hash-mismatch"
	ErrMalformedEnvelope      ErrorKind = "malformed-envelope"
	ErrDanglingReference      ErrorKind = "dangling-reference"
	ErrIOFailure              ErrorKind = "io-failure"
)

// Error is the structured error value every operation fails with, per
// spec.md section 7: every error names the node id, edge, or chunk id
// that triggered it where applicable, and carries a Kind from the
// taxonomy above. All errors are fatal to the current call — no partial
// results, no silent coercion.
type Error struct {
	Kind ErrorKind
	Msg  string
	Path string // root-relative path, for encode-time unserializable-value
	err  error  // wrapped cause, via github.com/pkg/errors
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (at %s)", e.Kind, e.Msg, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Unwrap exposes the wrapped cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.err
}

func newErr(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// newErrAt is newErr for the encode-time errors that have a root-relative
// path to report (spec.md section 7's path-naming requirement for
// unserializable-value); Path is rendered separately from Msg by Error().
func newErrAt(kind ErrorKind, path, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Path: path}
}

func wrapErr(kind ErrorKind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), err: errors.WithStack(cause)}
}

// NewError builds a *Error of the given kind, for use by sibling packages
// (envelope, the root API) that need to report into this same taxonomy
// without reaching into graph's unexported constructors.
func NewError(kind ErrorKind, format string, args ...interface{}) *Error {
	return newErr(kind, format, args...)
}

// WrapError is NewError with a wrapped cause, preserved via Unwrap.
func WrapError(kind ErrorKind, cause error, format string, args ...interface{}) *Error {
	return wrapErr(kind, cause, format, args...)
}
