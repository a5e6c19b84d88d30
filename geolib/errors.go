package geolib

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
)

var (
	ErrCircuitBreakerOpened = errors.New("circuit breaker is opened")
	ErrCircuitBreakerIgnore = errors.New("circuit breaker ignores this error")
)

// ConfigurationError is returned if driver cannot be selected: it is
// unknown or its factory has failed.
type ConfigurationError struct {
	Driver string

	// Suggestion is a name of the registered driver which is most
	// similar to the requested one. May be empty.
	Suggestion string
	Err        error
}

func (c *ConfigurationError) Error() string {
	msg := "cannot select driver " + strconv.Quote(c.Driver)

	switch {
	case c.Err != nil:
		msg += ": " + c.Err.Error()
	default:
		msg += ": driver is not registered"
	}

	if c.Suggestion != "" {
		msg += " (did you mean " + strconv.Quote(c.Suggestion) + "?)"
	}

	return msg
}

func (c *ConfigurationError) Unwrap() error {
	return c.Err
}

// LookupError is returned if provider has failed to lookup an IP
// address. Original error of the provider is available with
// errors.Unwrap.
type LookupError struct {
	IP       string
	Provider string
	Err      error
}

func (l *LookupError) Error() string {
	msg := "failed to get geoip data for " + strconv.Quote(l.IP)

	if l.Provider != "" {
		msg += " from " + l.Provider
	}

	if l.Err != nil {
		msg += ": " + l.Err.Error()
	}

	return msg
}

func (l *LookupError) Unwrap() error {
	return l.Err
}

// UnsupportedOperationError is returned by dynamic accessor if method
// name does not follow get* convention.
type UnsupportedOperationError struct {
	Method string
}

func (u *UnsupportedOperationError) Error() string {
	return "method " + strconv.Quote(u.Method) + " does not exist"
}

type jsonHTTPError struct {
	Error struct {
		Message string `json:"message"`
		Context string `json:"context"`
	} `json:"error"`
}

type httpError struct {
	message    string
	err        error
	statusCode int
}

func (h *httpError) Message() string {
	if h == nil {
		return ""
	}

	return h.message
}

func (h *httpError) Err() string {
	if err := errors.Unwrap(h); err != nil {
		return err.Error()
	}

	return ""
}

func (h *httpError) StatusCode() int {
	if h != nil && h.statusCode != 0 {
		return h.statusCode
	}

	return http.StatusInternalServerError
}

func (h *httpError) Unwrap() error {
	if h == nil {
		return nil
	}

	return h.err
}

func (h *httpError) Error() string {
	switch {
	case h == nil:
		return ""
	case h.err != nil && h.message != "":
		return h.message + ": " + h.err.Error()
	case h.err != nil:
		return h.err.Error()
	}

	return h.message
}

func (h *httpError) MarshalJSON() ([]byte, error) {
	value := jsonHTTPError{}
	value.Error.Message = h.Message()
	value.Error.Context = h.Err()

	return json.Marshal(&value)
}
