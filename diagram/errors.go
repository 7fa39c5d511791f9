package diagram

import (
	"errors"
	"fmt"
)

// Kind classifies a parse failure. Every failure is fatal to the current
// document; the kind exists for diagnostics and tests, not for recovery.
type Kind string

const (
	EndOfStream          Kind = "end of stream"
	InvalidEncoding      Kind = "invalid encoding"
	UnknownTag           Kind = "unknown tag"
	UnexpectedText       Kind = "unexpected text"
	UnexpectedStructure  Kind = "unexpected structure"
	MalformedBounds      Kind = "malformed bounds"
	MalformedJoints      Kind = "malformed joints"
	MissingRequiredField Kind = "missing required field"
	UnknownAttribute     Kind = "unknown attribute"
	UnknownMethodTarget  Kind = "unknown method target"
	DuplicateWireID      Kind = "duplicate wire id"
	DuplicateDeclaration Kind = "duplicate declaration"
	DuplicateVersion     Kind = "duplicate version"
)

// ParseError is the error type for all document builder failures.
type ParseError struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return string(e.Kind)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// errf builds a ParseError with a formatted message.
func errf(kind Kind, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// in prepends handler/field context to err, preserving the underlying
// ParseError for KindOf.
func in(ctx string, err error) error {
	return fmt.Errorf("%s: %w", ctx, err)
}

// KindOf extracts the failure kind from anywhere in err's chain. Returns ""
// for errors that did not originate in this package.
func KindOf(err error) Kind {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}
