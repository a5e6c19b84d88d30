package providers

import (
	"context"
	"fmt"
	"net/url"

	"github.com/9seconds/geolocator/geolib"
)

type keycdnResponse struct {
	Status      string `json:"status"`
	Description string `json:"description"`
	Data        struct {
		Geo struct {
			CountryCode   string   `json:"country_code"`
			CountryName   string   `json:"country_name"`
			RegionName    string   `json:"region_name"`
			RegionCode    string   `json:"region_code"`
			City          string   `json:"city"`
			PostalCode    string   `json:"postal_code"`
			ContinentName string   `json:"continent_name"`
			ContinentCode string   `json:"continent_code"`
			Latitude      *float64 `json:"latitude"`
			Longitude     *float64 `json:"longitude"`
			Timezone      string   `json:"timezone"`
			ASN           int      `json:"asn"`
			ISP           string   `json:"isp"`
		} `json:"geo"`
	} `json:"data"`
}

type keycdnProvider struct {
	client geolib.HTTPClient
}

func (k keycdnProvider) Name() string {
	return NameKeyCDN
}

func (k keycdnProvider) Lookup(ctx context.Context, ip string) (geolib.AttributeMap, error) {
	jsonResponse := keycdnResponse{}
	endpoint := "https://tools.keycdn.com/geo.json?host=" + url.QueryEscape(ip)

	if err := getJSON(ctx, k.client, endpoint, nil, &jsonResponse); err != nil {
		return nil, err
	}

	if jsonResponse.Status != "success" {
		return nil, fmt.Errorf("failed to geolocate: %s", jsonResponse.Description)
	}

	geo := jsonResponse.Data.Geo
	countryCode := geolib.NormalizeAlpha2Code(geo.CountryCode)

	if countryCode == "" {
		return nil, ErrNotFound
	}

	rv := geolib.AttributeMap{
		"countryCode": countryCode,
	}

	setNonEmpty(rv, "country", geo.CountryName)
	setNonEmpty(rv, "region", geo.RegionName)
	setNonEmpty(rv, "regionCode", geo.RegionCode)
	setNonEmpty(rv, "city", geo.City)
	setNonEmpty(rv, "postalCode", geo.PostalCode)
	setNonEmpty(rv, "continent", geo.ContinentName)
	setNonEmpty(rv, "continentCode", geo.ContinentCode)
	setNonEmpty(rv, "timezone", geo.Timezone)
	setNonEmpty(rv, "isp", geo.ISP)

	if geo.ASN != 0 {
		rv["asn"] = fmt.Sprintf("AS%d", geo.ASN)
	}

	if geo.Latitude != nil && geo.Longitude != nil {
		rv["latitude"] = *geo.Latitude
		rv["longitude"] = *geo.Longitude
	}

	return rv, nil
}

// NewKeyCDN returns a new instance of KeyCDN provider.
//
//	Identifier: keycdn
//	Provider type: online
//	Website: https://tools.keycdn.com/geo
//
// KeyCDN requires User-Agent to be in format
// "keycdn-tools:https://your-domain", please set user_agent option.
func NewKeyCDN(client geolib.HTTPClient) geolib.Provider {
	return keycdnProvider{
		client: client,
	}
}
