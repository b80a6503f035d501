package service

import (
	"errors"
	"fmt"
	"strings"
)

// CompletionErrorKind classifies Completion Service failures for the
// user-facing apology text.
type CompletionErrorKind int

const (
	// ErrKindUnknown is any failure that is neither a rate limit nor an
	// auth/configuration problem.
	ErrKindUnknown CompletionErrorKind = iota

	// ErrKindRateLimited means the provider rejected the call with a
	// rate limit (429 or a "rate limit" message).
	ErrKindRateLimited

	// ErrKindAuthConfiguration means the API key is missing, invalid or
	// otherwise misconfigured (401/403 or an "API key" message).
	ErrKindAuthConfiguration
)

// String returns a human-readable label for the error kind.
func (k CompletionErrorKind) String() string {
	switch k {
	case ErrKindRateLimited:
		return "rate_limited"
	case ErrKindAuthConfiguration:
		return "auth_configuration"
	default:
		return "unknown"
	}
}

// Apology returns the fixed user-facing text for this failure kind.
// The reply pipeline sends this instead of propagating a raw error.
func (k CompletionErrorKind) Apology() string {
	switch k {
	case ErrKindRateLimited:
		return "I'm receiving too many requests right now. Please try again in a moment."
	case ErrKindAuthConfiguration:
		return "My AI service isn't configured correctly. Please contact the server administrator."
	default:
		return "Sorry, I ran into a problem generating a response. Please try again."
	}
}

// CompletionError is a structured error from the Completion Service
// adapter. It carries an explicit kind enum so callers never have to
// sniff error messages.
type CompletionError struct {
	Kind       CompletionErrorKind
	StatusCode int // HTTP status if known, 0 otherwise
	Cause      error
}

// Error implements the error interface.
func (e *CompletionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] completion failed: %v", e.Kind, e.Cause)
	}
	return fmt.Sprintf("[%s] completion failed", e.Kind)
}

// Unwrap enables errors.Is/errors.As on the cause chain.
func (e *CompletionError) Unwrap() error {
	return e.Cause
}

// ClassifyCompletionError examines an error and returns a classified
// *CompletionError. If the error is already classified it is returned
// as-is. Status codes are checked first; message substrings exist only
// as a fallback for providers that don't surface a status.
func ClassifyCompletionError(err error, statusCode int) *CompletionError {
	if err == nil {
		return nil
	}

	var ce *CompletionError
	if errors.As(err, &ce) {
		return ce
	}

	kind := ErrKindUnknown
	switch statusCode {
	case 429:
		kind = ErrKindRateLimited
	case 401, 403:
		kind = ErrKindAuthConfiguration
	default:
		errStr := strings.ToLower(err.Error())
		if strings.Contains(errStr, "rate limit") {
			kind = ErrKindRateLimited
		} else if strings.Contains(errStr, "api key") {
			kind = ErrKindAuthConfiguration
		}
	}

	return &CompletionError{
		Kind:       kind,
		StatusCode: statusCode,
		Cause:      err,
	}
}
