package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Kind classifies an error for callers that need to react to it
// (HTTP status mapping, retry decisions, audit entries).
type Kind string

const (
	KindUnknown       Kind = ""
	KindInvalidInput  Kind = "invalid_input"
	KindNotFound      Kind = "not_found"
	KindIngest        Kind = "ingest_error"
	KindTranscription Kind = "transcription_error"
	KindEncoding      Kind = "encoding_error"
	KindPersistence   Kind = "persistence_error"
)

// Sentinels usable with errors.Is. Any *Error of the same kind matches.
var (
	ErrInvalidInput  = &Error{kind: KindInvalidInput, message: "invalid input"}
	ErrNotFound      = &Error{kind: KindNotFound, message: "not found"}
	ErrIngest        = &Error{kind: KindIngest, message: "ingest failed"}
	ErrTranscription = &Error{kind: KindTranscription, message: "transcription failed"}
	ErrEncoding      = &Error{kind: KindEncoding, message: "encoding failed"}
	ErrPersistence   = &Error{kind: KindPersistence, message: "persistence failed"}
)

// Error represents a standardized error
type Error struct {
	kind    Kind
	message string
	cause   error

	// Stage, MediaID and Detail carry enough context for a caller to retry.
	Stage   string
	MediaID string
	Detail  string
}

// New creates a new error
func New(kind Kind, message string) *Error {
	return &Error{kind: kind, message: message}
}

// Newf creates a new formatted error
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{kind: kind, message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with additional context
func Wrap(err error, kind Kind, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{kind: kind, message: message, cause: err}
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, kind Kind, format string, args ...interface{}) *Error {
	if err == nil {
		return nil
	}
	return &Error{kind: kind, message: fmt.Sprintf(format, args...), cause: err}
}

// WithStage records the pipeline stage the error belongs to.
func (e *Error) WithStage(stage string) *Error {
	e.Stage = stage
	return e
}

// WithMedia records the media id the error belongs to.
func (e *Error) WithMedia(mediaID string) *Error {
	e.MediaID = mediaID
	return e
}

// WithDetail attaches collaborator diagnostics (stderr, HTTP body, ...).
func (e *Error) WithDetail(detail string) *Error {
	e.Detail = detail
	return e
}

// Kind returns the error classification
func (e *Error) Kind() Kind {
	return e.kind
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.message)
	if e.MediaID != "" {
		fmt.Fprintf(&b, " (media %s", e.MediaID)
		if e.Stage != "" {
			fmt.Fprintf(&b, ", stage %s", e.Stage)
		}
		b.WriteString(")")
	} else if e.Stage != "" {
		fmt.Fprintf(&b, " (stage %s)", e.Stage)
	}
	if e.cause != nil {
		fmt.Fprintf(&b, ": %v", e.cause)
	}
	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *Error of the same kind. Sentinels match
// every error of their kind; two non-sentinel errors also need equal messages.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.kind != t.kind {
		return false
	}
	if isSentinel(t) {
		return true
	}
	return e.message == t.message
}

func isSentinel(e *Error) bool {
	switch e {
	case ErrInvalidInput, ErrNotFound, ErrIngest, ErrTranscription, ErrEncoding, ErrPersistence:
		return true
	}
	return false
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.kind
	}
	return KindUnknown
}

// DetailOf returns the first non-empty Detail in err's chain.
func DetailOf(err error) string {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Detail != "" {
			return e.Detail
		}
		err = stderrors.Unwrap(err)
	}
	return ""
}

// Helper functions for common patterns

// InvalidField returns an error for invalid field values
func InvalidField(field string, reason string) *Error {
	return Newf(KindInvalidInput, "%s is invalid: %s", field, reason)
}

// RequiredField returns an error for missing required fields
func RequiredField(field string) *Error {
	return Newf(KindInvalidInput, "%s is required", field)
}

// NotFound returns an error for items that were not found
func NotFound(itemType string, identifier string) *Error {
	return Newf(KindNotFound, "%s not found: %s", itemType, identifier)
}

// Persistence wraps a storage-layer failure.
func Persistence(err error, operation string) *Error {
	return Wrapf(err, KindPersistence, "%s failed", operation)
}
