package geolib_test

import (
	"errors"
	"io"
	"testing"

	"github.com/9seconds/geolocator/geolib"
	"github.com/stretchr/testify/assert"
)

func TestConfigurationError(t *testing.T) {
	err := &geolib.ConfigurationError{Driver: "ip-apo", Suggestion: "ip-api"}

	assert.EqualError(t, err,
		`cannot select driver "ip-apo": driver is not registered (did you mean "ip-api"?)`)
	assert.Nil(t, errors.Unwrap(err))

	err = &geolib.ConfigurationError{Driver: "ipstack", Err: io.EOF}

	assert.EqualError(t, err, `cannot select driver "ipstack": EOF`)
	assert.True(t, errors.Is(err, io.EOF))
}

func TestLookupError(t *testing.T) {
	err := &geolib.LookupError{IP: "9.9.9.9", Provider: "ip-api", Err: io.ErrUnexpectedEOF}

	assert.EqualError(t, err, `failed to get geoip data for "9.9.9.9" from ip-api: unexpected EOF`)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))

	var wrapped error = err
	var lookupErr *geolib.LookupError

	assert.True(t, errors.As(wrapped, &lookupErr))
	assert.Equal(t, "9.9.9.9", lookupErr.IP)
}

func TestUnsupportedOperationError(t *testing.T) {
	err := &geolib.UnsupportedOperationError{Method: "setCity"}

	assert.EqualError(t, err, `method "setCity" does not exist`)
}
