package xiangxinai

import (
	"errors"
	"time"
)

// requestBackOff implements backoff.BackOff with the service's retry policy:
// a fixed one second delay for transport failures and generic API errors, and
// 2^attempt+1 seconds when the previous attempt was rate limited. The caller
// flips rateLimited before each delay is computed.
type requestBackOff struct {
	attempt     uint
	rateLimited bool
}

const (
	// retryInterval is the fixed delay between attempts after transport
	// failures and generic API errors.
	retryInterval = 1 * time.Second
	// maxBackOffShift bounds the exponent so the delay cannot overflow.
	maxBackOffShift = 16
)

// NextBackOff returns the delay before the next attempt.
func (b *requestBackOff) NextBackOff() time.Duration {
	shift := b.attempt
	if shift > maxBackOffShift {
		shift = maxBackOffShift
	}
	b.attempt++

	if b.rateLimited {
		return time.Duration(1<<shift)*time.Second + time.Second
	}
	return retryInterval
}

// Reset restarts the attempt counter.
func (b *requestBackOff) Reset() {
	b.attempt = 0
}

// isRetriableError reports whether the request may be attempted again. Rate
// limits, transport failures and generic API errors are retriable;
// authentication and validation failures, and anything unclassified (such as
// a response body that failed to decode), are permanent.
func isRetriableError(err error) bool {
	if err == nil {
		return false
	}

	var (
		rateLimitErr *RateLimitError
		networkErr   *NetworkError
		apiErr       *APIError
	)
	return errors.As(err, &rateLimitErr) ||
		errors.As(err, &networkErr) ||
		errors.As(err, &apiErr)
}
