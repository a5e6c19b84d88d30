package providers

import (
	"context"
	"fmt"
	"net/url"

	"github.com/9seconds/geolocator/geolib"
)

const ipapiFields = "status,message,continent,continentCode,country,countryCode," +
	"region,regionName,city,zip,lat,lon,timezone,isp,as"

type ipapiResponse struct {
	Status        string  `json:"status"`
	Message       string  `json:"message"`
	Continent     string  `json:"continent"`
	ContinentCode string  `json:"continentCode"`
	Country       string  `json:"country"`
	CountryCode   string  `json:"countryCode"`
	Region        string  `json:"region"`
	RegionName    string  `json:"regionName"`
	City          string  `json:"city"`
	Zip           string  `json:"zip"`
	Lat           float64 `json:"lat"`
	Lon           float64 `json:"lon"`
	Timezone      string  `json:"timezone"`
	ISP           string  `json:"isp"`
	AS            string  `json:"as"`
}

type ipapiProvider struct {
	client geolib.HTTPClient
	key    string
	lang   string
}

func (i ipapiProvider) Name() string {
	return NameIPAPI
}

func (i ipapiProvider) Lookup(ctx context.Context, ip string) (geolib.AttributeMap, error) {
	jsonResponse := ipapiResponse{}

	if err := getJSON(ctx, i.client, i.buildURL(ip), nil, &jsonResponse); err != nil {
		return nil, err
	}

	if jsonResponse.Status != "success" {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, jsonResponse.Message)
	}

	asn, _ := splitASN(jsonResponse.AS)
	rv := geolib.AttributeMap{
		"latitude":  jsonResponse.Lat,
		"longitude": jsonResponse.Lon,
	}

	setNonEmpty(rv, "city", jsonResponse.City)
	setNonEmpty(rv, "country", jsonResponse.Country)
	setNonEmpty(rv, "countryCode", geolib.NormalizeAlpha2Code(jsonResponse.CountryCode))
	setNonEmpty(rv, "region", jsonResponse.RegionName)
	setNonEmpty(rv, "regionCode", jsonResponse.Region)
	setNonEmpty(rv, "postalCode", jsonResponse.Zip)
	setNonEmpty(rv, "timezone", jsonResponse.Timezone)
	setNonEmpty(rv, "continent", jsonResponse.Continent)
	setNonEmpty(rv, "continentCode", jsonResponse.ContinentCode)
	setNonEmpty(rv, "isp", jsonResponse.ISP)
	setNonEmpty(rv, "asn", asn)

	return rv, nil
}

func (i ipapiProvider) buildURL(ip string) string {
	getQuery := url.Values{}

	getQuery.Set("fields", ipapiFields)

	if i.lang != "" {
		getQuery.Set("lang", i.lang)
	}

	u := url.URL{
		Scheme: "http",
		Host:   "ip-api.com",
		Path:   "/json/" + ip,
	}

	if i.key != "" {
		getQuery.Set("key", i.key)

		u.Scheme = "https"
		u.Host = "pro.ip-api.com"
	}

	u.RawQuery = getQuery.Encode()

	return u.String()
}

// NewIPAPI returns a new instance of ip-api.com provider.
//
//	Identifier: ip-api
//	Provider type: online
//	Website: https://ip-api.com
//
// This is a default provider. Free tier works without any key (but
// only via plain HTTP and with 45 requests per minute), if key is set
// then pro.ip-api.com endpoint is used. lang is a language of
// names like "en" or "de".
func NewIPAPI(client geolib.HTTPClient, key, lang string) geolib.Provider {
	return ipapiProvider{
		client: client,
		key:    key,
		lang:   lang,
	}
}
