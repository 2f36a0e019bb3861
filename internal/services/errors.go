package services

import (
	"errors"
	"fmt"
)

var (
	// ErrMovieNotFound is returned when no movie has the requested id.
	ErrMovieNotFound = errors.New("movie not found")
	// ErrPosterCleanup marks a delete whose record is gone but whose poster could not be removed.
	ErrPosterCleanup = errors.New("movie deleted but poster cleanup failed")
)

// ValidationError rejects caller input before anything is persisted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// TransportError wraps a failed call to the record store or the asset store.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
