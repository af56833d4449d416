package api

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is returned for a non-2xx response.
type StatusError struct {
	Path       string
	StatusCode int
	Status     string
	// Message is the backend's {"error": "..."} text, when present.
	Message string
}

func (e *StatusError) Error() string {
	status := e.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	if e.Message != "" {
		return fmt.Sprintf("GET %s: %s: %s", e.Path, status, e.Message)
	}
	return fmt.Sprintf("GET %s: %s", e.Path, status)
}

// UnavailableError means the backend answered but the feature has no data
// for this database (for example the metrics table is missing).
type UnavailableError struct {
	Reason string
}

func (e *UnavailableError) Error() string {
	return "unavailable: " + e.Reason
}

// IsUnavailable reports whether err is a domain "unavailable" error.
func IsUnavailable(err error) bool {
	var u *UnavailableError
	return errors.As(err, &u)
}

// AsStatus extracts a StatusError from anywhere in the chain.
func AsStatus(err error) (*StatusError, bool) {
	var s *StatusError
	if errors.As(err, &s) {
		return s, true
	}
	return nil, false
}
