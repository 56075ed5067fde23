// Package foursquare searches the Foursquare Places API (v3).
package foursquare

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
)

const defaultBaseURL = "https://api.foursquare.com/v3"

// StandardFields keeps searches on the non-premium field set so calls are
// not billed as rich data.
const StandardFields = "fsq_id,name,location,categories,website"

// OutcomeKind classifies a search response.
type OutcomeKind int

const (
	// OutcomeOK is a 2xx response with places.
	OutcomeOK OutcomeKind = iota
	// OutcomeQuotaExhausted means the account has no API credits left, or the
	// error body could not be read as JSON. Callers should try another source.
	OutcomeQuotaExhausted
	// OutcomeError is any other non-2xx response; Status and Body hold it verbatim.
	OutcomeError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeOK:
		return "ok"
	case OutcomeQuotaExhausted:
		return "quota_exhausted"
	case OutcomeError:
		return "error"
	}
	return "unknown"
}

// Outcome is the typed result of a search. Transport failures are reported
// through the error return instead.
type Outcome struct {
	Kind       OutcomeKind
	Places     []Place
	StatusCode int
	Body       []byte
}

// SearchRequest describes a nearby search. Set Near for a postal-area
// search, or Lat/Lon for a coordinate search.
type SearchRequest struct {
	Near   string
	Lat    float64
	Lon    float64
	Radius int
	Limit  int
	Fields string
}

// Place is a place as returned by the search endpoint.
type Place struct {
	FsqID      string     `json:"fsq_id"`
	Name       string     `json:"name"`
	Location   Location   `json:"location"`
	Categories []Category `json:"categories"`
	Website    string     `json:"website,omitempty"`
	Distance   *float64   `json:"distance,omitempty"`
	Rating     *float64   `json:"rating,omitempty"`
}

// Location is a place's address.
type Location struct {
	Address          string `json:"address"`
	Locality         string `json:"locality"`
	Region           string `json:"region,omitempty"`
	Postcode         string `json:"postcode,omitempty"`
	FormattedAddress string `json:"formatted_address,omitempty"`
}

// Category is a Foursquare category.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type searchResponse struct {
	Results []Place `json:"results"`
}

// Client performs Foursquare Places operations.
type Client interface {
	Search(ctx context.Context, req SearchRequest) (*Outcome, error)
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

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a Foursquare client. apiKey is the raw "fsq3..." key,
// sent without a Bearer prefix.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Search(ctx context.Context, sr SearchRequest) (*Outcome, error) {
	params := url.Values{}
	if sr.Near != "" {
		params.Set("near", sr.Near)
	} else {
		params.Set("ll", strconv.FormatFloat(sr.Lat, 'f', -1, 64)+","+strconv.FormatFloat(sr.Lon, 'f', -1, 64))
	}
	if sr.Radius > 0 {
		params.Set("radius", strconv.Itoa(sr.Radius))
	}
	if sr.Limit > 0 {
		params.Set("limit", strconv.Itoa(sr.Limit))
	}
	fields := sr.Fields
	if fields == "" {
		fields = StandardFields
	}
	params.Set("fields", fields)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/places/search?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "foursquare: create request")
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "foursquare: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "foursquare: read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classifyFailure(resp.StatusCode, body), nil
	}

	var sresp searchResponse
	if err := json.Unmarshal(body, &sresp); err != nil {
		return nil, eris.Wrap(err, "foursquare: unmarshal response")
	}
	return &Outcome{Kind: OutcomeOK, Places: sresp.Results, StatusCode: resp.StatusCode, Body: body}, nil
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// classifyFailure decides between quota exhaustion and a hard error.
func classifyFailure(status int, body []byte) *Outcome {
	out := &Outcome{Kind: OutcomeError, StatusCode: status, Body: body}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		out.Kind = OutcomeQuotaExhausted
		return out
	}
	msg := eb.Message
	if msg == "" {
		msg = eb.Error
	}
	if strings.Contains(strings.ToLower(msg), "no api credits") {
		out.Kind = OutcomeQuotaExhausted
	}
	return out
}
