package api

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

var (
	// ErrAuthenticationRejected is the inner error of a login the backend refused.
	ErrAuthenticationRejected = errors.New("authentication rejected")
	// ErrRegistrationRejected is the inner error of a registration the backend refused.
	ErrRegistrationRejected = errors.New("registration rejected")
	// ErrUnauthorized is the inner error for errors that come from a 401.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is the inner error for errors that come from a 403.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound is the inner error for errors that come from a 404.
	ErrNotFound = errors.New("not found")
	// ErrInvalid is the inner error for every other 4xx.
	ErrInvalid = errors.New("bad request")
	// ErrTransport is the inner error for network failures, 5xx responses and undecodable bodies.
	ErrTransport = errors.New("transport failure")
)

// StatusError is returned for any non-2xx response. errors.Is matches it against the sentinel of
// its status class.
type StatusError struct {
	Method  string
	Path    string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s returned %d", e.Method, e.Path, e.Code)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap returns the sentinel of the status class.
func (e *StatusError) Unwrap() error {
	return classify(e.Code)
}

func classify(code int) error {
	switch {
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	case code == http.StatusForbidden:
		return ErrForbidden
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 400 && code < 500:
		return ErrInvalid
	default:
		return ErrTransport
	}
}

// StatusCode returns the HTTP status carried by err, if any.
func StatusCode(err error) (int, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code, true
	}
	return 0, false
}

// AsErrTransport returns an error that wraps ErrTransport, so that errors.Is can identify it.
func AsErrTransport(cause error, msg string, args ...interface{}) error {
	return &transportError{cause: cause, msg: fmt.Sprintf(msg, args...)}
}

type transportError struct {
	cause error
	msg   string
}

func (e *transportError) Error() string {
	return fmt.Sprintf("%s: %v", e.msg, e.cause)
}

func (e *transportError) Is(target error) bool {
	return target == ErrTransport
}

func (e *transportError) Unwrap() error {
	return e.cause
}
