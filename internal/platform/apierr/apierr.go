package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Callers match them with errors.Is.
var (
	ErrNotFound            = errors.New("not found")
	ErrConfiguration       = errors.New("invalid population")
	ErrEmptyResult         = errors.New("no recommendations")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

type Error struct {
	Status int
	Code   string
	Kind   error
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Kind != nil {
		return e.Kind.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() []error {
	if e == nil {
		return nil
	}
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Status: http.StatusNotFound, Code: "not_found", Kind: ErrNotFound, Err: fmt.Errorf(format, args...)}
}

func Configuration(format string, args ...any) *Error {
	return &Error{Status: http.StatusUnprocessableEntity, Code: "invalid_population", Kind: ErrConfiguration, Err: fmt.Errorf(format, args...)}
}

func EmptyResult(format string, args ...any) *Error {
	return &Error{Status: http.StatusNotFound, Code: "no_recommendations", Kind: ErrEmptyResult, Err: fmt.Errorf(format, args...)}
}

// Upstream wraps a gateway failure. The cause stays reachable through errors.As.
func Upstream(err error) *Error {
	if err == nil {
		err = ErrUpstreamUnavailable
	}
	return &Error{Status: http.StatusServiceUnavailable, Code: "upstream_unavailable", Kind: ErrUpstreamUnavailable, Err: err}
}

func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) && ae.Status != 0 {
		return ae.Status
	}
	return http.StatusInternalServerError
}

func CodeOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Code != "" {
		return ae.Code
	}
	return "internal_error"
}
