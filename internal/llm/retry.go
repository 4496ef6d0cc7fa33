package llm

import (
	"context"
	"errors"
	"net"

	"charm.land/fantasy"
)

// StatusCode returns the HTTP status carried by a provider error, or 0.
func StatusCode(err error) int {
	var pe *fantasy.ProviderError
	if errors.As(err, &pe) {
		return pe.StatusCode
	}
	return 0
}

// Retryable reports whether err is a transient failure worth retrying:
// transport errors and 408, 429 or 5xx responses. Other 4xx responses,
// cancellation and unclassified errors are not retried.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if code := StatusCode(err); code != 0 {
		return code == 408 || code == 429 || code >= 500
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
