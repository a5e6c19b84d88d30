package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/9seconds/geolocator/geolib"
)

type ip2cProvider struct {
	client geolib.HTTPClient
}

func (i ip2cProvider) Name() string {
	return NameIP2C
}

func (i ip2cProvider) Lookup(ctx context.Context, ip string) (geolib.AttributeMap, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://ip2c.org/?ip="+url.QueryEscape(ip), nil)
	if err != nil {
		return nil, fmt.Errorf("cannot build a request: %w", err)
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot send a request: %w", err)
	}

	defer flushResponse(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("cannot read response body: %w", err)
	}

	body := strings.TrimSpace(string(bodyBytes))
	chunks := strings.SplitN(body, ";", 4)

	switch {
	case len(chunks) != 4:
		return nil, fmt.Errorf("incorrect response: %s", body)
	case chunks[0] == "0":
		return nil, fmt.Errorf("%w: %s", ErrIncorrectIP, ip)
	case chunks[0] != "1":
		return nil, fmt.Errorf("%w: ip2c cannot detect region: %s", ErrNotFound, body)
	}

	countryCode := geolib.NormalizeAlpha2Code(chunks[1])
	if countryCode == "" {
		return nil, ErrNotFound
	}

	rv := geolib.AttributeMap{
		"countryCode": countryCode,
	}

	country := chunks[3]
	if country == "" {
		country = geolib.CountryName(countryCode)
	}

	setNonEmpty(rv, "country", country)
	setNonEmpty(rv, "continent", geolib.ContinentName(countryCode))

	return rv, nil
}

// NewIP2C returns a new instance of ip2c.org provider.
//
//	Identifier: ip2c
//	Provider type: online
//	Website: https://ip2c.org
//
// ip2c knows only countries, so the rest of attributes are absent.
func NewIP2C(client geolib.HTTPClient) geolib.Provider {
	return ip2cProvider{
		client: client,
	}
}
