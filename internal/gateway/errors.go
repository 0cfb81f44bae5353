package gateway

import (
	"fmt"
	"net/http"

	"NYCU-SDC/survey-builder/internal"
)

// ErrRemote is returned by every Client method that did not get a 2xx answer.
// Message is the server's own message when it sent one, otherwise the
// operation's fallback. StatusCode is 0 when the request never got a response.
type ErrRemote struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *ErrRemote) Error() string {
	return e.Message
}

func (e *ErrRemote) Unwrap() []error {
	errs := []error{internal.ErrRemoteCall}
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		errs = append(errs, internal.ErrRemoteUnauthorized)
	case e.StatusCode == http.StatusNotFound:
		errs = append(errs, internal.ErrRemoteNotFound)
	case e.StatusCode == http.StatusForbidden:
		errs = append(errs, internal.ErrPermissionDenied)
	case e.StatusCode == http.StatusBadRequest, e.StatusCode == http.StatusUnprocessableEntity,
		e.StatusCode == http.StatusConflict:
		errs = append(errs, internal.ErrRemoteRejected)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func (e *ErrRemote) String() string {
	return fmt.Sprintf("%s: status=%d message=%q", e.Op, e.StatusCode, e.Message)
}
