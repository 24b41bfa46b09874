package api

import (
	"errors"
	"fmt"
	"net/http"

	"plannest/internal/service"
)

var (
	// ErrTimeout is returned when a request exceeds the configured timeout.
	ErrTimeout = errors.New("request timed out")

	// ErrMalformedResponse is returned when a response body can't be decoded
	// into the expected shape.
	ErrMalformedResponse = errors.New("malformed response")
)

// Error is a non-2xx API response.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (%d)", e.Message, e.Status)
	}
	return fmt.Sprintf("api returned %d %s", e.Status, http.StatusText(e.Status))
}

// Unwrap maps auth and lookup failures onto the service sentinels.
func (e *Error) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return service.ErrUnauthenticated
	case http.StatusNotFound:
		return service.ErrNotFound
	}
	return nil
}
