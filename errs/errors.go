package errs

import (
	"errors"
	"fmt"
)

// Kind is the machine-readable error classification returned by every
// service operation. Controllers map kinds to HTTP statuses; the kind set
// is fixed and stable for API clients.
type Kind string

const (
	KindValidation         Kind = "VALIDATION"
	KindNotFound           Kind = "NOT_FOUND"
	KindConflict           Kind = "CONFLICT"
	KindPermissionRequired Kind = "PERMISSION_REQUIRED"
	KindCannotModifySelf   Kind = "CANNOT_MODIFY_SELF"
	KindFetchFailed        Kind = "FETCH_FAILED"
	KindQueryFailed        Kind = "QUERY_FAILED"
	KindInternal           Kind = "INTERNAL"
)

// Error is the structured error crossing service boundaries. Message is
// always safe to show to a user; the wrapped cause is for logs only.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func PermissionRequired(message string) *Error {
	return &Error{Kind: KindPermissionRequired, Message: message}
}

func CannotModifySelf(message string) *Error {
	return &Error{Kind: KindCannotModifySelf, Message: message}
}

func FetchFailed(message string, cause error) *Error {
	return &Error{Kind: KindFetchFailed, Message: message, cause: cause}
}

func QueryFailed(message string, cause error) *Error {
	return &Error{Kind: KindQueryFailed, Message: message, cause: cause}
}

func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, cause: cause}
}

// KindOf classifies any error. Errors that are not *Error are treated as
// unexpected and reported as INTERNAL.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// UserMessage returns the safe, displayable message for err. Raw errors
// never leak their text to clients.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "An unexpected error occurred"
}
