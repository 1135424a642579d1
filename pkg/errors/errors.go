package errors

import "fmt"

// Kind classifies the failures that can occur during a batch run
type Kind string

const (
	KindExtraction Kind = "extraction"
	KindParsing    Kind = "parsing"
	KindPerUser    Kind = "per_user"
	KindRemoteSync Kind = "remote_sync"
	KindSchema     Kind = "schema"
	KindUnknown    Kind = "unknown"
)

// Error carries a failure kind alongside the message and wrapped cause
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error without a wrapped cause
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an Error wrapping an underlying cause
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// IsRetryable reports whether another attempt could plausibly succeed.
// Only extraction failures are transient; everything else either already
// exhausted its retries or indicates state a retry cannot fix.
func IsRetryable(kind Kind) bool {
	switch kind {
	case KindExtraction:
		return true
	case KindParsing, KindPerUser, KindRemoteSync, KindSchema:
		return false
	default:
		return false
	}
}
