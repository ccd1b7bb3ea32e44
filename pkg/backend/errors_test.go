package backend

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapHTTPError(t *testing.T) {
	cases := []struct {
		status    int
		code      ErrorCode
		retryable bool
	}{
		{429, ErrRateLimited, true},
		{400, ErrClientStatus, false},
		{401, ErrClientStatus, false},
		{404, ErrClientStatus, false},
		{500, ErrUpstreamStatus, true},
		{502, ErrUpstreamStatus, true},
		{503, ErrUpstreamStatus, true},
	}
	for _, tc := range cases {
		e := MapHTTPError(tc.status, "msg")
		assert.Equal(t, tc.code, e.Code, "status %d", tc.status)
		assert.Equal(t, tc.retryable, e.Retryable, "status %d", tc.status)
		assert.Equal(t, tc.status, e.HTTPStatus)
	}
}

func TestClassifyTransportTimeout(t *testing.T) {
	e := ClassifyTransport(context.DeadlineExceeded)
	assert.Equal(t, ErrTimeout, e.Code)
	assert.True(t, e.Retryable)
}

func TestClassifyTransportConnection(t *testing.T) {
	e := ClassifyTransport(errors.New("dial tcp: connection refused"))
	assert.Equal(t, ErrConnection, e.Code)
	assert.True(t, e.Retryable)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&Error{Retryable: true}))
	assert.False(t, IsRetryable(&Error{Retryable: false}))
	assert.False(t, IsRetryable(errors.New("plain")))
	assert.False(t, IsRetryable(nil))

	wrapped := fmt.Errorf("calling backend: %w", &Error{Code: ErrRateLimited, Retryable: true})
	assert.True(t, IsRetryable(wrapped))
}
