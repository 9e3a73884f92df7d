package ai

import (
	"errors"
	"fmt"
)

// ErrorCode classifies provider failures so that callers can branch on
// failure class instead of matching substrings in error messages.
type ErrorCode string

const (
	// CodeInvalidRequest indicates the request was malformed or rejected
	// by the provider before generation started.
	CodeInvalidRequest ErrorCode = "INVALID_REQUEST"

	// CodeUnauthorized indicates a missing or rejected API credential.
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// CodeRateLimited indicates the provider throttled the request.
	// Retryable after a delay.
	CodeRateLimited ErrorCode = "RATE_LIMITED"

	// CodeQuotaExceeded indicates the account's usage quota is exhausted.
	// Not retryable until the quota resets.
	CodeQuotaExceeded ErrorCode = "QUOTA_EXCEEDED"

	// CodeTimeout indicates the provider did not respond in time.
	CodeTimeout ErrorCode = "TIMEOUT"

	// CodeUpstreamError indicates a provider-side failure (5xx or
	// malformed response).
	CodeUpstreamError ErrorCode = "UPSTREAM_ERROR"

	// CodeUnavailable indicates the provider could not be reached at all.
	CodeUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
)

// Error is a classified provider failure. Adapters construct it at the
// provider boundary, where provider-specific status codes and message
// formats are legitimate knowledge; everything downstream branches on
// Code via the helper predicates.
type Error struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Retryable  bool
	Provider   string
	Cause      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates an Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// CodeOf extracts the error code from err, unwrapping as needed.
// Returns the empty code for errors that are not provider failures.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsQuotaExhausted reports whether err represents rate limiting or quota
// exhaustion. These are the failures where answering degrades to the
// extractive fallback rather than surfacing an error to the caller.
func IsQuotaExhausted(err error) bool {
	switch CodeOf(err) {
	case CodeRateLimited, CodeQuotaExceeded:
		return true
	}
	return false
}

// IsRetryable reports whether err is worth retrying after a delay.
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}
	return false
}
