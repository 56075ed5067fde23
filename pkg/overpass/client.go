// Package overpass queries the OpenStreetMap Overpass API.
package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/guestbites/guestbites/internal/resilience"
)

const (
	defaultBaseURL   = "https://overpass-api.de/api/interpreter"
	defaultUserAgent = "GuestBites/1.0 (server)"
)

// Element is a node, way, or relation returned by a query. Ways and
// relations carry their coordinate in Center when queried with "out center".
type Element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    float64           `json:"lat,omitempty"`
	Lon    float64           `json:"lon,omitempty"`
	Center *Point            `json:"center,omitempty"`
	Tags   map[string]string `json:"tags,omitempty"`
}

// Point is a coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Response is the JSON body of an Overpass query.
type Response struct {
	Elements []Element `json:"elements"`
}

// Client runs Overpass QL queries.
type Client interface {
	Query(ctx context.Context, query string) (*Response, error)
}

// RestaurantQuery builds a query for restaurant-tagged nodes, ways, and
// relations within radiusMeters of a coordinate, returning at most limit
// elements.
func RestaurantQuery(lat, lon float64, radiusMeters, limit int) string {
	around := fmt.Sprintf("(around:%d,%f,%f)", radiusMeters, lat, lon)
	return fmt.Sprintf(`[out:json][timeout:25];
(
  node["amenity"="restaurant"]%[1]s;
  way["amenity"="restaurant"]%[1]s;
  relation["amenity"="restaurant"]%[1]s;
);
out center %[2]d;`, around, limit)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the interpreter endpoint.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithUserAgent sets the User-Agent header.
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

// NewClient creates an Overpass client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL:   defaultBaseURL,
		userAgent: defaultUserAgent,
		http:      &http.Client{Timeout: 30 * time.Second},
		limiter:   rate.NewLimiter(2, 2),
		retry:     resilience.DefaultRetryConfig(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.retry.OnRetry == nil {
		c.retry.OnRetry = resilience.RetryLogger("overpass")
	}
	return c
}

func (c *httpClient) Query(ctx context.Context, query string) (*Response, error) {
	form := url.Values{"data": {query}}.Encode()

	return resilience.DoVal(ctx, c.retry, func(ctx context.Context) (*Response, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "overpass: rate limit")
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form))
		if err != nil {
			return nil, eris.Wrap(err, "overpass: create request")
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, eris.Wrap(err, "overpass: send request")
		}
		defer resp.Body.Close() //nolint:errcheck

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, eris.Wrap(err, "overpass: read response")
		}
		if resp.StatusCode != http.StatusOK {
			return nil, resilience.StatusError("overpass", resp.StatusCode, body)
		}

		var out Response
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, eris.Wrap(err, "overpass: unmarshal response")
		}
		return &out, nil
	})
}
