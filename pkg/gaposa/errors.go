package gaposa

import "errors"

var (
	// ErrAuthFailed indicates sign-in or the service login was rejected.
	ErrAuthFailed = errors.New("gaposa: authentication failed")

	// ErrNoDocument indicates the document store has no document for a hub.
	ErrNoDocument = errors.New("gaposa: device document not found")

	// ErrInvalidDocument indicates a fetched document failed shape validation.
	ErrInvalidDocument = errors.New("gaposa: invalid device document")

	// ErrScheduleExists indicates a schedule with the requested name exists.
	ErrScheduleExists = errors.New("gaposa: schedule already exists")

	// ErrMotorNotFound indicates a motor id is not present on the hub.
	ErrMotorNotFound = errors.New("gaposa: motor not found")

	// ErrNotOpen indicates Open has not completed.
	ErrNotOpen = errors.New("gaposa: not open")
)
