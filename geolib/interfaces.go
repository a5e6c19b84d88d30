package geolib

import (
	"context"
	"net/http"
	"time"
)

// Provider is a backend which maps IP address to geolocation attributes.
//
// Provider is configured once on construction and is stateless across
// Lookup calls. It has to return an error if backend is unreachable,
// responds with malformed data or does not know this IP address.
type Provider interface {
	Name() string
	Lookup(ctx context.Context, ip string) (AttributeMap, error)
}

// ProviderFactory builds a new provider from driver-specific options.
type ProviderFactory func(Options) (Provider, error)

// HTTPClient is an interface for providers which access remote APIs.
// See NewHTTPClient.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// Logger is used by Resolver to report lookups.
type Logger interface {
	LookupError(ip, provider string, err error)
	LookupDone(ip, provider string, elapsed time.Duration)
}

type nopLogger struct{}

func (nopLogger) LookupError(_, _ string, _ error)        {}
func (nopLogger) LookupDone(_, _ string, _ time.Duration) {}
