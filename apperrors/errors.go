package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an application error.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindValidation
	KindUpload
	KindPartialDelete
	KindRemoteIndex
	KindBlobCleanup
	KindMigrationInconsistency
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindUpload:
		return "upload"
	case KindPartialDelete:
		return "partial_delete"
	case KindRemoteIndex:
		return "remote_index"
	case KindBlobCleanup:
		return "blob_cleanup"
	case KindMigrationInconsistency:
		return "migration_inconsistency"
	}
	return "unknown"
}

// Error is a typed application error wrapping an optional cause.
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

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors of the same Kind, so callers can compare against the
// package sentinels with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// New creates a new Error.
func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Sentinels for errors.Is comparisons.
var (
	ErrNotFound               = &Error{Kind: KindNotFound, Message: "not found"}
	ErrValidation             = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrUpload                 = &Error{Kind: KindUpload, Message: "blob store failure"}
	ErrPartialDelete          = &Error{Kind: KindPartialDelete, Message: "cascade delete incomplete"}
	ErrRemoteIndex            = &Error{Kind: KindRemoteIndex, Message: "search index push failed"}
	ErrBlobCleanup            = &Error{Kind: KindBlobCleanup, Message: "blob cleanup failed"}
	ErrMigrationInconsistency = &Error{Kind: KindMigrationInconsistency, Message: "migration row count mismatch"}
)

// NotFound builds a NotFound error for a named entity.
func NotFound(entity string, err error) *Error {
	return New(KindNotFound, entity+" not found", err)
}

// Validation builds a ValidationError with field detail.
func Validation(detail string, err error) *Error {
	return New(KindValidation, "validation failed: "+detail, err)
}
