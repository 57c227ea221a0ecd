package resilience

import (
	"errors"
	"net"
	"syscall"
)

// ProviderError is an imagery provider failure carrying the HTTP status.
type ProviderError struct {
	Op     string
	Status int
	Err    error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Op
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Transient reports whether the status indicates a retryable provider
// condition.
func (e *ProviderError) Transient() bool {
	switch e.Status {
	case 408, 429, 500, 502, 503, 504:
		return true
	}
	return false
}

// IsTransient reports whether an error is safe to retry: a transient
// provider status, a network timeout, or a reset/refused connection.
// Everything else (auth failures, malformed requests, decode errors) is
// permanent for the affected tile.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Transient()
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED)
}
