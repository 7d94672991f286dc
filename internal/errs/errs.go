// Package errs defines the structured errors surfaced by the depot services.
// Every error carries a kind, a human message and the offending value so that
// CLI and API layers can render it without inspecting strings.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a service error.
type Kind string

const (
	KindMissingResource      Kind = "MissingResource"
	KindInvalidType          Kind = "InvalidType"
	KindInvalidValue         Kind = "InvalidValue"
	KindInvalidConfiguration Kind = "InvalidConfiguration"
	KindOperationFailed      Kind = "OperationFailed"
)

// Sentinels for errors.Is checks against a kind.
var (
	ErrMissingResource      = &Error{Kind: KindMissingResource}
	ErrInvalidType          = &Error{Kind: KindInvalidType}
	ErrInvalidValue         = &Error{Kind: KindInvalidValue}
	ErrInvalidConfiguration = &Error{Kind: KindInvalidConfiguration}
	ErrOperationFailed      = &Error{Kind: KindOperationFailed}
)

// Error is a structured service error.
type Error struct {
	Kind    Kind
	Message string
	Value   string // offending value (id, type id, ...)
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// MissingResource reports that a resource required to exist was not found.
func MissingResource(resource, id string) *Error {
	return &Error{
		Kind:    KindMissingResource,
		Message: fmt.Sprintf("%s %q not found", resource, id),
		Value:   id,
	}
}

// InvalidType reports an unregistered distributor type.
func InvalidType(typeID string) *Error {
	return &Error{
		Kind:    KindInvalidType,
		Message: fmt.Sprintf("distributor type %q is not registered", typeID),
		Value:   typeID,
	}
}

// InvalidValue reports a malformed value for the named field.
func InvalidValue(field, value, reason string) *Error {
	return &Error{
		Kind:    KindInvalidValue,
		Message: fmt.Sprintf("invalid %s %q: %s", field, value, reason),
		Value:   value,
	}
}

// InvalidConfiguration reports a configuration rejected by a plugin.
// cause is nil when the plugin returned false without an error.
func InvalidConfiguration(typeID string, cause error) *Error {
	return &Error{
		Kind:    KindInvalidConfiguration,
		Message: fmt.Sprintf("configuration rejected by distributor type %q", typeID),
		Value:   typeID,
		Cause:   cause,
	}
}

// OperationFailed reports a plugin lifecycle hook failure after persistence.
func OperationFailed(op, id string, cause error) *Error {
	return &Error{
		Kind:    KindOperationFailed,
		Message: fmt.Sprintf("%s failed for %q", op, id),
		Value:   id,
		Cause:   cause,
	}
}
