package helprequest

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is matched (errors.Is) by every NotFoundError.
var ErrNotFound = errors.New("help request not found")

// ErrorStatus describes errors that map onto a specific HTTP status code.
type ErrorStatus interface {
	HTTPStatus() int
}

// NotFoundError reports a lookup of an id that is absent from the store.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("No help request with ID: %s", e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// HTTPStatus returns a fixed 404 Not Found.
func (e *NotFoundError) HTTPStatus() int { return http.StatusNotFound }

// ValidationError names a request field that is missing or invalid.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("'%s' %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("'%s' is a required value", e.Field)
}

// HTTPStatus returns a fixed 400 Bad Request.
func (e *ValidationError) HTTPStatus() int { return http.StatusBadRequest }

// StatusOf returns the HTTP status carried by err, or 500 when err carries none.
func StatusOf(err error) int {
	var es ErrorStatus
	if errors.As(err, &es) {
		return es.HTTPStatus()
	}
	return http.StatusInternalServerError
}
