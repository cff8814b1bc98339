// Package dberr defines the error taxonomy shared by every dengine backend.
//
// Backend adapters translate native driver errors into an *Error exactly once,
// at their boundary. Only the human-readable detail survives the translation;
// driver types never leak to callers.
package dberr

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies an Error.
type Kind int

const (
	// Unknown is the catch-all kind.
	Unknown Kind = iota
	// SQL means the engine rejected or could not satisfy a statement.
	SQL
	// IndexOutOfBounds means a row, column or bind index was out of range.
	IndexOutOfBounds
	// Conversion means a value could not be coerced to the requested shape.
	Conversion
	// Library is an opaque I/O or driver level fault.
	Library
	// Connection means a connection could not be established or used.
	Connection
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case SQL:
		return "sql error"
	case IndexOutOfBounds:
		return "index out of bounds"
	case Conversion:
		return "conversion error"
	case Library:
		return "library error"
	case Connection:
		return "connection error"
	default:
		return "unknown error"
	}
}

// Sentinel errors, one per kind. Every *Error matches the sentinel of its kind
// with errors.Is.
var (
	ErrSQL              = errors.New("dengine: sql error")
	ErrIndexOutOfBounds = errors.New("dengine: index out of bounds")
	ErrConversion       = errors.New("dengine: conversion error")
	ErrLibrary          = errors.New("dengine: library error")
	ErrConnection       = errors.New("dengine: connection error")
	ErrUnknown          = errors.New("dengine: unknown error")
)

func (k Kind) sentinel() error {
	switch k {
	case SQL:
		return ErrSQL
	case IndexOutOfBounds:
		return ErrIndexOutOfBounds
	case Conversion:
		return ErrConversion
	case Library:
		return ErrLibrary
	case Connection:
		return ErrConnection
	default:
		return ErrUnknown
	}
}

// Error is the single error type returned by dengine operations.
type Error struct {
	Kind   Kind
	Op     string
	Detail string

	// cause is only ever a backend-independent error such as a context error.
	cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("dengine: %s: %s: %s", e.Kind, e.Op, e.Detail)
	}
	return fmt.Sprintf("dengine: %s: %s", e.Kind, e.Detail)
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// Unwrap returns the backend-independent cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// New creates an Error of the given kind.
func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// SQLf creates a SQL error.
func SQLf(format string, args ...any) *Error {
	return New(SQL, fmt.Sprintf(format, args...))
}

// IndexOutOfBoundsf creates an index-out-of-bounds error.
func IndexOutOfBoundsf(format string, args ...any) *Error {
	return New(IndexOutOfBounds, fmt.Sprintf(format, args...))
}

// Conversionf creates a conversion error.
func Conversionf(format string, args ...any) *Error {
	return New(Conversion, fmt.Sprintf(format, args...))
}

// Libraryf creates a library error.
func Libraryf(format string, args ...any) *Error {
	return New(Library, fmt.Sprintf(format, args...))
}

// Connectionf creates a connection error.
func Connectionf(format string, args ...any) *Error {
	return New(Connection, fmt.Sprintf(format, args...))
}

// Unknownf creates an unknown error.
func Unknownf(format string, args ...any) *Error {
	return New(Unknown, fmt.Sprintf(format, args...))
}

// FromContext converts a context cancellation or deadline into an Unknown
// error that still unwraps to the context error. It returns nil for any other
// error.
func FromContext(err error) *Error {
	switch {
	case errors.Is(err, context.Canceled):
		return &Error{Kind: Unknown, Detail: "operation canceled", cause: context.Canceled}
	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Kind: Unknown, Detail: "operation deadline exceeded", cause: context.DeadlineExceeded}
	}
	return nil
}

// WithOp returns err annotated with the operation name. Non-dengine errors
// are classified as Unknown.
func WithOp(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		cp := *de
		if cp.Op == "" {
			cp.Op = op
		}
		return &cp
	}
	if ce := FromContext(err); ce != nil {
		ce.Op = op
		return ce
	}
	return &Error{Kind: Unknown, Op: op, Detail: err.Error()}
}

// KindOf returns the kind of err, or Unknown when err is not a dengine error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return Unknown
}

// IsSQL checks if err is a SQL error.
func IsSQL(err error) bool {
	return errors.Is(err, ErrSQL)
}

// IsConversion checks if err is a conversion error.
func IsConversion(err error) bool {
	return errors.Is(err, ErrConversion)
}

// IsConnection checks if err is a connection error.
func IsConnection(err error) bool {
	return errors.Is(err, ErrConnection)
}

// IsLibrary checks if err is a library error.
func IsLibrary(err error) bool {
	return errors.Is(err, ErrLibrary)
}

// IsIndexOutOfBounds checks if err is an index-out-of-bounds error.
func IsIndexOutOfBounds(err error) bool {
	return errors.Is(err, ErrIndexOutOfBounds)
}

// IsUnknown checks if err is an unknown error.
func IsUnknown(err error) bool {
	return errors.Is(err, ErrUnknown)
}
