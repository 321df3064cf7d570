package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnreachable marks transport failures where no response was received.
// These are retryable by re-invoking the operation; the connector never
// retries on its own.
var ErrUnreachable = errors.New("cannot reach server")

// StatusError is a non-2xx response from the remote gateway. Message is
// the upstream body, passed through verbatim for domain failures.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gateway returned status %d", e.Code)
	}
	return fmt.Sprintf("gateway returned status %d: %s", e.Code, e.Message)
}

// IsUnauthorized reports a 401: the browser session must be cleared
func IsUnauthorized(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusUnauthorized
}

// IsForbidden reports a 403: a permissions error, session preserved
func IsForbidden(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusForbidden
}

// IsDomain reports a 4xx business failure whose message is surfaced verbatim
func IsDomain(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	return se.Code >= 400 && se.Code < 500 &&
		se.Code != http.StatusUnauthorized && se.Code != http.StatusForbidden
}

// IsServer reports a 5xx fault, surfaced as a generic retryable failure
func IsServer(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code >= 500
}

// AsStatus extracts the StatusError, if any
func AsStatus(err error) (*StatusError, bool) {
	var se *StatusError
	ok := errors.As(err, &se)
	return se, ok
}
