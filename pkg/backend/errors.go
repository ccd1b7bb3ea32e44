package backend

import (
	"context"
	"errors"
	"net"
	"net/http"
)

// ErrorCode aligns transport failures with retryability and degradation
// behavior.
type ErrorCode string

const (
	ErrRateLimited    ErrorCode = "BACKEND_RATE_LIMITED"    // 429, retryable
	ErrTimeout        ErrorCode = "BACKEND_TIMEOUT"         // deadline hit, retryable
	ErrConnection     ErrorCode = "BACKEND_CONNECTION"      // dial/transport failure, retryable
	ErrClientStatus   ErrorCode = "BACKEND_CLIENT_STATUS"   // 4xx, never retried
	ErrUpstreamStatus ErrorCode = "BACKEND_UPSTREAM_STATUS" // 5xx or unclassified status, retryable
	ErrUnreachable    ErrorCode = "BACKEND_UNREACHABLE"     // no endpoint passed the health probe
)

// Error is a classified backend failure.
type Error struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Retryable  bool
}

func (e *Error) Error() string { return e.Message }

// MapHTTPError classifies a non-success HTTP status. 429 is rate limiting,
// other 4xx are client mistakes that retrying cannot fix, everything else
// is treated like a transient upstream fault.
func MapHTTPError(status int, msg string) *Error {
	switch {
	case status == http.StatusTooManyRequests:
		return &Error{Code: ErrRateLimited, Message: msg, HTTPStatus: status, Retryable: true}
	case status >= 400 && status < 500:
		return &Error{Code: ErrClientStatus, Message: msg, HTTPStatus: status, Retryable: false}
	default:
		return &Error{Code: ErrUpstreamStatus, Message: msg, HTTPStatus: status, Retryable: true}
	}
}

// ClassifyTransport wraps a transport-level error (Do failed before any
// status arrived). Timeouts and connection failures are both transient.
func ClassifyTransport(err error) *Error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &Error{Code: ErrTimeout, Message: err.Error(), Retryable: true}
	}
	return &Error{Code: ErrConnection, Message: err.Error(), Retryable: true}
}

// IsRetryable reports whether err is a classified, retryable backend error.
// Unclassified errors are not retried; they are wrapped immediately.
func IsRetryable(err error) bool {
	var be *Error
	return errors.As(err, &be) && be.Retryable
}
