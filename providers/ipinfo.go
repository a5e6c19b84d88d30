package providers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/9seconds/geolocator/geolib"
)

type ipinfoResponse struct {
	Bogon    bool   `json:"bogon"`
	City     string `json:"city"`
	Region   string `json:"region"`
	Country  string `json:"country"`
	Location string `json:"loc"`
	Org      string `json:"org"`
	Postal   string `json:"postal"`
	Timezone string `json:"timezone"`
}

type ipinfoProvider struct {
	authToken string
	client    geolib.HTTPClient
}

func (i ipinfoProvider) Name() string {
	return NameIPInfo
}

func (i ipinfoProvider) Lookup(ctx context.Context, ip string) (geolib.AttributeMap, error) {
	headers := http.Header{}

	if i.authToken != "" {
		headers.Set("Authorization", "Bearer "+i.authToken)
	}

	jsonResponse := ipinfoResponse{}

	if err := getJSON(ctx, i.client, "https://ipinfo.io/"+url.PathEscape(ip), headers, &jsonResponse); err != nil {
		return nil, err
	}

	if jsonResponse.Bogon {
		return nil, ErrNotFound
	}

	countryCode := geolib.NormalizeAlpha2Code(jsonResponse.Country)
	asn, isp := splitASN(jsonResponse.Org)
	rv := geolib.AttributeMap{}

	setNonEmpty(rv, "city", jsonResponse.City)
	setNonEmpty(rv, "region", jsonResponse.Region)
	setNonEmpty(rv, "countryCode", countryCode)
	setNonEmpty(rv, "country", geolib.CountryName(countryCode))
	setNonEmpty(rv, "continent", geolib.ContinentName(countryCode))
	setNonEmpty(rv, "postalCode", jsonResponse.Postal)
	setNonEmpty(rv, "timezone", jsonResponse.Timezone)
	setNonEmpty(rv, "asn", asn)
	setNonEmpty(rv, "isp", isp)

	if coords := strings.SplitN(jsonResponse.Location, ",", 2); len(coords) == 2 {
		lat, errLat := strconv.ParseFloat(coords[0], 64)
		lon, errLon := strconv.ParseFloat(coords[1], 64)

		if errLat == nil && errLon == nil {
			rv["latitude"] = lat
			rv["longitude"] = lon
		}
	}

	if len(rv) == 0 {
		return nil, ErrNotFound
	}

	return rv, nil
}

// NewIPInfo returns a new instance of ipinfo.io provider.
//
//	Identifier: ipinfo
//	Provider type: online
//	Website: https://ipinfo.io
//
// Token is optional but free tier without token is very limited.
func NewIPInfo(client geolib.HTTPClient, authToken string) geolib.Provider {
	return ipinfoProvider{
		authToken: authToken,
		client:    client,
	}
}
