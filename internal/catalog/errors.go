package catalog

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

var ErrNotFound = errors.New("wallpaper not found")

// NetworkError is any failure talking to the catalog: transport errors,
// timeouts and unexpected HTTP statuses. Status is 0 when no response was
// received.
type NetworkError struct {
	Op         string
	Status     int
	RetryAfter time.Duration
	Err        error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: HTTP %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Retryable reports whether repeating the request may succeed: transport
// failures, rate limiting and server errors.
func (e *NetworkError) Retryable() bool {
	switch {
	case e.Status == 0:
		return true
	case e.Status == http.StatusTooManyRequests:
		return true
	case e.Status == http.StatusRequestTimeout:
		return true
	case e.Status >= 500:
		return true
	default:
		return false
	}
}

// IsRetryable reports whether err is a retryable NetworkError.
func IsRetryable(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr) && netErr.Retryable()
}
