package providers

import (
	"context"
	"fmt"
	"net/url"

	"github.com/9seconds/geolocator/geolib"
)

const ipstackFields = "country_code,country_name,region_code,region_name," +
	"city,zip,latitude,longitude,continent_code,continent_name"

type ipstackResponse struct {
	Error struct {
		Code int    `json:"code"`
		Type string `json:"type"`
		Info string `json:"info"`
	} `json:"error"`
	CountryCode   string   `json:"country_code"`
	CountryName   string   `json:"country_name"`
	RegionCode    string   `json:"region_code"`
	RegionName    string   `json:"region_name"`
	City          string   `json:"city"`
	Zip           string   `json:"zip"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	ContinentCode string   `json:"continent_code"`
	ContinentName string   `json:"continent_name"`
}

type ipstackProvider struct {
	client     geolib.HTTPClient
	httpScheme string
	authToken  string
}

func (i ipstackProvider) Name() string {
	return NameIPStack
}

func (i ipstackProvider) Lookup(ctx context.Context, ip string) (geolib.AttributeMap, error) {
	jsonResponse := ipstackResponse{}

	if err := getJSON(ctx, i.client, i.buildURL(ip), nil, &jsonResponse); err != nil {
		return nil, err
	}

	if jsonResponse.Error.Code != 0 {
		return nil, fmt.Errorf(
			"failed response: code=%d, type=%s, info=%s",
			jsonResponse.Error.Code,
			jsonResponse.Error.Type,
			jsonResponse.Error.Info)
	}

	countryCode := geolib.NormalizeAlpha2Code(jsonResponse.CountryCode)
	if countryCode == "" {
		return nil, ErrNotFound
	}

	rv := geolib.AttributeMap{
		"countryCode": countryCode,
	}

	setNonEmpty(rv, "country", jsonResponse.CountryName)
	setNonEmpty(rv, "region", jsonResponse.RegionName)
	setNonEmpty(rv, "regionCode", jsonResponse.RegionCode)
	setNonEmpty(rv, "city", jsonResponse.City)
	setNonEmpty(rv, "postalCode", jsonResponse.Zip)
	setNonEmpty(rv, "continent", jsonResponse.ContinentName)
	setNonEmpty(rv, "continentCode", jsonResponse.ContinentCode)

	if jsonResponse.Latitude != nil && jsonResponse.Longitude != nil {
		rv["latitude"] = *jsonResponse.Latitude
		rv["longitude"] = *jsonResponse.Longitude
	}

	return rv, nil
}

func (i ipstackProvider) buildURL(ip string) string {
	getQuery := url.Values{}

	getQuery.Set("access_key", i.authToken)
	getQuery.Set("output", "json")
	getQuery.Set("fields", ipstackFields)
	getQuery.Set("language", "en")
	getQuery.Set("hostname", "0")
	getQuery.Set("security", "0")

	u := url.URL{
		Scheme:   i.httpScheme,
		Host:     "api.ipstack.com",
		Path:     "/" + ip,
		RawQuery: getQuery.Encode(),
	}

	return u.String()
}

// NewIPStack returns a new instance of ipstack.com provider.
//
//	Identifier: ipstack
//	Provider type: online
//	Website: https://ipstack.com
//
// Auth token is required. Free plan does not support HTTPS so secure
// has to be false there.
func NewIPStack(client geolib.HTTPClient, authToken string, isSecure bool) (geolib.Provider, error) {
	scheme := "http"

	if isSecure {
		scheme = "https"
	}

	if authToken == "" {
		return nil, ErrAuthTokenIsRequired
	}

	return ipstackProvider{
		client:     client,
		authToken:  authToken,
		httpScheme: scheme,
	}, nil
}
