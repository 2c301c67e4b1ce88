// Package errs defines the error kinds shared by every xcdocx command.
//
// Each error produced by the conversion pipeline wraps exactly one kind, so
// callers can test it with errors.Is while the user only ever sees a single
// flattened message (see Flatten).
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Kinds.
var (
	// ErrSchema is a missing required column or header.
	ErrSchema = errors.New("schema error")
	// ErrDocumentStructure is a document with zero or several tables, or
	// cell content that cannot be read.
	ErrDocumentStructure = errors.New("document structure error")
	// ErrValidation is content that is well formed but inconsistent:
	// empty keys, unknown keys, variation kind mismatches.
	ErrValidation = errors.New("validation error")
	// ErrIO is a missing or unreadable file.
	ErrIO = errors.New("io error")
	// ErrFormat is malformed catalog content.
	ErrFormat = errors.New("format error")
)

// kindError carries a message and the kind it belongs to.
type kindError struct {
	kind error
	msg  string
	err  error
}

func (e *kindError) Error() string { return e.msg }

// Unwrap exposes both the kind and the underlying cause.
func (e *kindError) Unwrap() []error {
	if e.err == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.err}
}

func newf(kind error, format string, args ...any) error {
	return &kindError{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Schema returns an ErrSchema error.
func Schema(format string, args ...any) error { return newf(ErrSchema, format, args...) }

// Structure returns an ErrDocumentStructure error.
func Structure(format string, args ...any) error {
	return newf(ErrDocumentStructure, format, args...)
}

// Validation returns an ErrValidation error.
func Validation(format string, args ...any) error { return newf(ErrValidation, format, args...) }

// Format returns an ErrFormat error.
func Format(format string, args ...any) error { return newf(ErrFormat, format, args...) }

// Wrap attaches kind to err, prefixing the message with context.
func Wrap(kind, err error, context string) error {
	if err == nil {
		return nil
	}
	return &kindError{kind: kind, msg: context + ": " + err.Error(), err: err}
}

// IO wraps a filesystem error for path.
func IO(err error, path string) error {
	return Wrap(ErrIO, err, path)
}

// Flatten renders err as the single-line message shown to users.
func Flatten(err error) string {
	if err == nil {
		return ""
	}
	return "Error occurred: " + strings.ReplaceAll(err.Error(), "\n", " ")
}
