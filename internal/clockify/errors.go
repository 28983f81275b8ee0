package clockify

import (
	"errors"
	"fmt"
)

// ErrorKind classifies API failures so callers can decide between aborting the
// run (auth), failing a single operation (validation, not-found) and recording
// a per-date failure (transient).
type ErrorKind int

const (
	KindTransient ErrorKind = iota // timeouts, connection errors, 5xx
	KindAuth                       // invalid or expired credential
	KindValidation                 // the request itself was rejected
	KindNotFound                   // referenced remote object missing
)

// String returns a human-readable kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not found"
	default:
		return "transient"
	}
}

// APIError is a classified failure from the Clockify API.
type APIError struct {
	Kind    ErrorKind
	Status  int // HTTP status, 0 for client-side failures
	Message string
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("clockify: %s error (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("clockify: %s error: %s", e.Kind, e.Message)
}

// kindForStatus maps an HTTP status code to an ErrorKind.
func kindForStatus(status int) ErrorKind {
	switch {
	case status == 401 || status == 403:
		return KindAuth
	case status == 404:
		return KindNotFound
	case status >= 400 && status < 500:
		return KindValidation
	default:
		return KindTransient
	}
}

// IsAuth reports whether err is an authentication failure.
func IsAuth(err error) bool { return hasKind(err, KindAuth) }

// IsValidation reports whether err is a request validation failure.
func IsValidation(err error) bool { return hasKind(err, KindValidation) }

// IsNotFound reports whether err refers to a missing remote object.
func IsNotFound(err error) bool { return hasKind(err, KindNotFound) }

func hasKind(err error, kind ErrorKind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}
