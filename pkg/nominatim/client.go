// Package nominatim resolves US postal codes to coordinates, and coordinates
// back to postal codes, using the OpenStreetMap Nominatim API.
package nominatim

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/guestbites/guestbites/internal/resilience"
)

const (
	defaultBaseURL = "https://nominatim.openstreetmap.org"

	// DefaultUserAgent identifies the server to OSM services as their usage
	// policy requires.
	DefaultUserAgent = "GuestBites/1.0 (server)"
)

// ErrNotFound is returned when Nominatim has no result for the query. It is
// not a transient failure.
var ErrNotFound = eris.New("nominatim: not found")

// Location is a resolved coordinate.
type Location struct {
	Lat         float64
	Lon         float64
	DisplayName string
}

// Client performs Nominatim lookups.
type Client interface {
	// Search resolves a US postal code to a coordinate.
	Search(ctx context.Context, postalCode string) (*Location, error)
	// Reverse resolves a coordinate to a postal code.
	Reverse(ctx context.Context, lat, lon float64) (string, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *httpClient) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithRateLimit sets the requests-per-second limit.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithRetry sets the retry policy for transient failures.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

type httpClient struct {
	baseURL   string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
	retry     resilience.RetryConfig
}

// NewClient creates a Nominatim client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL:   defaultBaseURL,
		userAgent: DefaultUserAgent,
		http:      &http.Client{Timeout: 10 * time.Second},
		limiter:   rate.NewLimiter(1, 1), // public instance policy: 1 req/s
		retry:     resilience.DefaultRetryConfig(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.retry.OnRetry == nil {
		c.retry.OnRetry = resilience.RetryLogger("nominatim")
	}
	return c
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (c *httpClient) Search(ctx context.Context, postalCode string) (*Location, error) {
	params := url.Values{
		"postalcode": {postalCode},
		"country":    {"US"},
		"format":     {"json"},
		"limit":      {"1"},
	}

	var results []searchResult
	if err := c.getJSON(ctx, "/search", params, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, eris.Wrapf(ErrNotFound, "nominatim: postal code %s", postalCode)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, eris.Wrap(err, "nominatim: parse lat")
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, eris.Wrap(err, "nominatim: parse lon")
	}
	return &Location{Lat: lat, Lon: lon, DisplayName: results[0].DisplayName}, nil
}

type reverseResult struct {
	Address struct {
		Postcode string `json:"postcode"`
	} `json:"address"`
}

func (c *httpClient) Reverse(ctx context.Context, lat, lon float64) (string, error) {
	params := url.Values{
		"lat":            {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":            {strconv.FormatFloat(lon, 'f', -1, 64)},
		"format":         {"json"},
		"addressdetails": {"1"},
	}

	var result reverseResult
	if err := c.getJSON(ctx, "/reverse", params, &result); err != nil {
		return "", err
	}
	zip := strings.TrimSpace(result.Address.Postcode)
	if zip == "" {
		return "", eris.Wrapf(ErrNotFound, "nominatim: no postcode at %f,%f", lat, lon)
	}
	return zip, nil
}

func (c *httpClient) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	return resilience.Do(ctx, c.retry, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return eris.Wrap(err, "nominatim: rate limit")
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
		if err != nil {
			return eris.Wrap(err, "nominatim: create request")
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return eris.Wrap(err, "nominatim: send request")
		}
		defer resp.Body.Close() //nolint:errcheck

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return eris.Wrap(err, "nominatim: read response")
		}
		if resp.StatusCode != http.StatusOK {
			return resilience.StatusError("nominatim", resp.StatusCode, body)
		}
		if err := json.Unmarshal(body, out); err != nil {
			return eris.Wrap(err, "nominatim: unmarshal response")
		}
		return nil
	})
}
