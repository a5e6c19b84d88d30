package geolib

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Call is a dynamic accessor: getXxx (or GetXxx) is the same as
// Get(ctx, "xxx"). The first letter of the property is lower-cased,
// the rest is kept as is, so getCountryCode reads countryCode. Bare
// "get" returns all attributes. Any other method name fails with
// *UnsupportedOperationError.
func (r *Resolver) Call(ctx context.Context, method string) (interface{}, error) {
	var property string

	switch {
	case strings.HasPrefix(method, "get"):
		property = method[len("get"):]
	case strings.HasPrefix(method, "Get"):
		property = method[len("Get"):]
	default:
		return nil, &UnsupportedOperationError{Method: method}
	}

	return r.Get(ctx, lowerFirst(property))
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}

	first, size := utf8.DecodeRuneInString(s)

	return string(unicode.ToLower(first)) + s[size:]
}

// GetCity is Get(ctx, "city").
func (r *Resolver) GetCity(ctx context.Context) (interface{}, error) {
	return r.Get(ctx, "city")
}

// GetCountry is Get(ctx, "country").
func (r *Resolver) GetCountry(ctx context.Context) (interface{}, error) {
	return r.Get(ctx, "country")
}

// GetCountryCode is Get(ctx, "countryCode").
func (r *Resolver) GetCountryCode(ctx context.Context) (interface{}, error) {
	return r.Get(ctx, "countryCode")
}

// GetLatitude is Get(ctx, "latitude").
func (r *Resolver) GetLatitude(ctx context.Context) (interface{}, error) {
	return r.Get(ctx, "latitude")
}

// GetLongitude is Get(ctx, "longitude").
func (r *Resolver) GetLongitude(ctx context.Context) (interface{}, error) {
	return r.Get(ctx, "longitude")
}

// GetRegion is Get(ctx, "region").
func (r *Resolver) GetRegion(ctx context.Context) (interface{}, error) {
	return r.Get(ctx, "region")
}

// GetRegionCode is Get(ctx, "regionCode").
func (r *Resolver) GetRegionCode(ctx context.Context) (interface{}, error) {
	return r.Get(ctx, "regionCode")
}

// GetTimezone is Get(ctx, "timezone").
func (r *Resolver) GetTimezone(ctx context.Context) (interface{}, error) {
	return r.Get(ctx, "timezone")
}

// GetPostalCode is Get(ctx, "postalCode").
func (r *Resolver) GetPostalCode(ctx context.Context) (interface{}, error) {
	return r.Get(ctx, "postalCode")
}

// GetContinent is Get(ctx, "continent").
func (r *Resolver) GetContinent(ctx context.Context) (interface{}, error) {
	return r.Get(ctx, "continent")
}

// GetContinentCode is Get(ctx, "continentCode").
func (r *Resolver) GetContinentCode(ctx context.Context) (interface{}, error) {
	return r.Get(ctx, "continentCode")
}

// GetIsp is Get(ctx, "isp").
func (r *Resolver) GetIsp(ctx context.Context) (interface{}, error) {
	return r.Get(ctx, "isp")
}

// GetAsn is Get(ctx, "asn").
func (r *Resolver) GetAsn(ctx context.Context) (interface{}, error) {
	return r.Get(ctx, "asn")
}
