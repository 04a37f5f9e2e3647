package apperrors

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Kind categorizes a failure into the stable contract returned to MCP clients.
type Kind string

const (
	KindInvalidInput     Kind = "INVALID_INPUT"
	KindAuthError        Kind = "AUTH_ERROR"
	KindRateLimited      Kind = "RATE_LIMITED"
	KindContentBlocked   Kind = "CONTENT_BLOCKED"
	KindModelUnavailable Kind = "MODEL_UNAVAILABLE"
	KindStorageError     Kind = "STORAGE_ERROR"
	KindProviderFailure  Kind = "PROVIDER_FAILURE"
)

// Error is a tagged error carried across layer boundaries. Downstream code
// depends only on the Kind, never on provider-specific error types.
type Error struct {
	Kind    Kind
	Message string
	Err     error

	// RetryAfter is set on RATE_LIMITED errors when the provider supplied a hint.
	RetryAfter time.Duration
	// AttemptedModels is set when a model fallback sequence was exhausted.
	AttemptedModels []string
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a tagged error with no underlying cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a tagged error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a tagged error around an underlying cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the Kind from an error chain. Untagged errors map to
// PROVIDER_FAILURE so callers always have a classification to report.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindProviderFailure
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// AsError extracts the tagged error from a chain, or nil.
func AsError(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// LogError logs a tagged error with structured fields.
func LogError(logger zerolog.Logger, err error, msg string) {
	event := logger.Error().Str("error_kind", string(KindOf(err)))
	if appErr := AsError(err); appErr != nil {
		if len(appErr.AttemptedModels) > 0 {
			event = event.Strs("attempted_models", appErr.AttemptedModels)
		}
		if appErr.RetryAfter > 0 {
			event = event.Dur("retry_after", appErr.RetryAfter)
		}
	}
	event.Err(err).Msg(msg)
}
