package geolib

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Defaults of HTTP client parameters which providers use if options
// have no specific values.
const (
	DefaultHTTPTimeout                   = 10 * time.Second
	DefaultCircuitBreakerOpenThreshold   = 5
	DefaultCircuitBreakerHalfOpenTimeout = time.Minute
	DefaultCircuitBreakerResetTimeout    = 20 * time.Second
)

type httpClient struct {
	userAgent      string
	client         *http.Client
	circuitBreaker *circuitBreaker
}

func (h httpClient) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	if h.client.Timeout > 0 {
		timeoutCtx, cancel := context.WithTimeout(ctx, h.client.Timeout)
		defer cancel()

		ctx = timeoutCtx
	}

	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.circuitBreaker.Do(ctx, func(ctx context.Context) (*http.Response, error) {
		resp, err := h.client.Do(req.WithContext(ctx))

		if err != nil {
			if resp != nil {
				flushResponse(resp.Body)
			}

			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %v", ErrCircuitBreakerIgnore, err)
			}

			return nil, err
		}

		if resp.StatusCode >= http.StatusBadRequest {
			flushResponse(resp.Body)

			return nil, fmt.Errorf("netloc has responded with %s", resp.Status)
		}

		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	// a body has to be read before a timeout context is cancelled.
	body, err := io.ReadAll(resp.Body)

	flushResponse(resp.Body)

	if err != nil {
		return nil, fmt.Errorf("cannot read a response body: %w", err)
	}

	resp.Body = io.NopCloser(bytes.NewReader(body))

	return resp, nil
}

func flushResponse(body io.ReadCloser) {
	io.Copy(io.Discard, body) // nolint: errcheck
	body.Close()
}

// NewHTTPClient prepares a new HTTP client, wraps it with circuit
// breaker, sets a user agent etc. Responses with status codes >= 400
// are returned as errors.
//
// A meaning of circuit breaker parameters:
//
// circuitBreakerOpenThreshold - this is a threshold of failures when
// circuit breaker becomes OPEN. So, if you pass 3 here, then after 3
// failures, circuit breaker switches into OPEN state and blocks access
// to a target.
//
// circuitBreakerResetFailuresTimeout - is tightly coupled with
// circuitBreakerOpenThreshold. Each time period when circuit breaker
// is closed, we try to reset a failure counter. So, if you pass 10
// here, make 2 errors then after 10 seconds this counter is going to be
// reset.
//
// circuitBreakerHalfOpenTimeout - when circuit breaker is opened, it
// goes into HALF_OPEN state after this time period. Within this state
// we allow 1 attempt. If this attempt fails, then it goes into OPEN
// state again. If succeed - goes to CLOSED.
//
// Cancelled requests are not counted as failures.
func NewHTTPClient(client *http.Client,
	userAgent string,
	circuitBreakerOpenThreshold uint32,
	circuitBreakerHalfOpenTimeout, circuitBreakerResetFailuresTimeout time.Duration) HTTPClient {
	return httpClient{
		userAgent: userAgent,
		client:    client,
		circuitBreaker: newCircuitBreaker(circuitBreakerOpenThreshold,
			circuitBreakerHalfOpenTimeout,
			circuitBreakerResetFailuresTimeout),
	}
}
