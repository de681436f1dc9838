package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrForbidden indicates the token or client selection was rejected
	ErrForbidden = errors.New("forbidden")

	// ErrBadRequest indicates the backend rejected the request payload
	ErrBadRequest = errors.New("bad request")

	// ErrBadResponse indicates the response did not have the expected shape
	ErrBadResponse = errors.New("bad response")

	// ErrServer indicates a 5xx from the backend
	ErrServer = errors.New("server error")
)

// APIError carries the HTTP status and body of a failed call.
type APIError struct {
	Method string
	Path   string
	Status int
	Body   string
	Err    error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: %d: %v", e.Method, e.Path, e.Status, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}
