package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error into the small set of caller-visible categories.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindForbidden
	KindInvalidArgument
	KindConflict
	KindUnavailable
)

// Error is the caller-facing error type. Message is safe to expose; Err keeps
// the underlying cause for logs only.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound reports that a referenced entity does not exist.
func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Forbidden reports that the authenticated user is not authorized.
func Forbidden(message string) error {
	return &Error{Kind: KindForbidden, Message: message}
}

// InvalidArgument reports malformed or missing required input.
func InvalidArgument(message string) error {
	return &Error{Kind: KindInvalidArgument, Message: message}
}

// Conflict reports a uniqueness violation (duplicate follow/bookmark/like).
func Conflict(message string) error {
	return &Error{Kind: KindConflict, Message: message}
}

// Unavailable wraps a store or transport failure. The underlying error is
// never exposed to callers.
func Unavailable(message string, err error) error {
	return &Error{Kind: KindUnavailable, Message: message, Err: err}
}

// KindOf extracts the Kind from err, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// MessageOf returns the safe message for err. Foreign errors get a generic
// message so internals never leak to callers.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}

func IsNotFound(err error) bool   { return KindOf(err) == KindNotFound }
func IsForbidden(err error) bool  { return KindOf(err) == KindForbidden }
func IsConflict(err error) bool   { return KindOf(err) == KindConflict }
func IsInvalidArgument(err error) bool {
	return KindOf(err) == KindInvalidArgument
}
