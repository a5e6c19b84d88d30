package providers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"strings"

	"github.com/9seconds/geolocator/geolib"
)

// DefaultUserAgent is sent by HTTP providers unless user_agent option
// is set.
const DefaultUserAgent = "geolocator"

func flushResponse(resp io.ReadCloser) {
	io.Copy(io.Discard, resp) // nolint: errcheck
	resp.Close()
}

func getJSON(ctx context.Context, client geolib.HTTPClient, url string, headers http.Header, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("cannot build a request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	for k, v := range headers {
		req.Header[k] = v
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("cannot send a request: %w", err)
	}

	defer flushResponse(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(bufio.NewReader(resp.Body)).Decode(target); err != nil {
		return fmt.Errorf("cannot parse a response: %w", err)
	}

	return nil
}

// NewHTTPClient builds HTTP client for provider using common options:
//
//	http_timeout                      - timeout of the request (10s)
//	user_agent                        - User-Agent header (geolocator)
//	circuit_breaker_threshold         - failures to open breaker (5)
//	circuit_breaker_half_open_timeout - time in OPEN state (1m)
//	circuit_breaker_reset_timeout     - failures reset period (20s)
func NewHTTPClient(opts geolib.Options) geolib.HTTPClient {
	jar, err := cookiejar.New(nil)
	if err != nil {
		panic(err)
	}

	httpClient := &http.Client{
		Timeout: opts.Duration("http_timeout", geolib.DefaultHTTPTimeout),
		Jar:     jar,
	}

	userAgent := opts.String("user_agent")
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return geolib.NewHTTPClient(httpClient,
		userAgent,
		uint32(opts.Int("circuit_breaker_threshold", geolib.DefaultCircuitBreakerOpenThreshold)),
		opts.Duration("circuit_breaker_half_open_timeout", geolib.DefaultCircuitBreakerHalfOpenTimeout),
		opts.Duration("circuit_breaker_reset_timeout", geolib.DefaultCircuitBreakerResetTimeout))
}

func parseIP(ip string) (net.IP, error) {
	parsed := net.ParseIP(strings.TrimSpace(ip))
	if parsed == nil {
		return nil, fmt.Errorf("%w: %q", ErrIncorrectIP, ip)
	}

	return parsed, nil
}

// splitASN splits strings like "AS15169 Google LLC" to ASN and a name
// of the organization.
func splitASN(org string) (string, string) {
	chunks := strings.SplitN(strings.TrimSpace(org), " ", 2)

	if len(chunks[0]) < 3 || !strings.EqualFold(chunks[0][:2], "AS") {
		return "", org
	}

	if _, err := strconv.ParseUint(chunks[0][2:], 10, 32); err != nil {
		return "", org
	}

	if len(chunks) == 1 {
		return chunks[0], ""
	}

	return chunks[0], chunks[1]
}

// setNonEmpty puts a value into attributes only if it is not empty.
func setNonEmpty(attrs geolib.AttributeMap, key, value string) {
	if value != "" {
		attrs[key] = value
	}
}
