package service

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownAccount is returned when an account id passes validation but
// matches no account known to the loaded integrations.
var ErrUnknownAccount = errors.New("no integration knows this account")

// RateLimitedError is returned when the cooldown governor rejects a request.
// The client may retry after RetryAfter.
type RateLimitedError struct {
	RetryAfter time.Duration
	message    string
}

// NewRateLimitedError builds a RateLimitedError carrying the standard
// cooldown message for the given remaining duration.
func NewRateLimitedError(retryAfter time.Duration) *RateLimitedError {
	rej := &CooldownRejection{RetryAfter: retryAfter}
	return &RateLimitedError{RetryAfter: retryAfter, message: rej.Message()}
}

func (e *RateLimitedError) Error() string {
	return e.message
}

// UpstreamError wraps a failure surfaced by an external sync collaborator.
// Message is already sanitized and safe to place in a response body or log.
type UpstreamError struct {
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream sync failed: %s", e.Message)
}
