package device

import "errors"

var (
	// ErrNotFound indicates a device, motor, group or schedule was not found
	ErrNotFound = errors.New("not found")

	// ErrTimeout indicates an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrNotConnected indicates the account is not signed in
	ErrNotConnected = errors.New("controller not connected")

	// ErrUnsupported indicates an operation is not supported
	ErrUnsupported = errors.New("operation not supported")

	// ErrValidation indicates a request failed validation
	ErrValidation = errors.New("validation error")

	// ErrConflict indicates the request clashes with existing state
	ErrConflict = errors.New("conflict")

	// ErrUpstream indicates the cloud service rejected a request
	ErrUpstream = errors.New("upstream error")
)
