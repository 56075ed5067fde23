// Package resend sends transactional email through the Resend API.
package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/guestbites/guestbites/internal/resilience"
)

const defaultBaseURL = "https://api.resend.com"

// Email is a single message.
type Email struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

// SendResponse is returned by a successful send.
type SendResponse struct {
	ID string `json:"id"`
}

// Client sends email.
type Client interface {
	Send(ctx context.Context, email Email) (*SendResponse, error)
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

// NewClient creates a Resend client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Send is not retried: a timed-out request may still have been delivered.
func (c *httpClient) Send(ctx context.Context, email Email) (*SendResponse, error) {
	body, err := json.Marshal(email)
	if err != nil {
		return nil, eris.Wrap(err, "resend: marshal email")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "resend: create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "resend: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "resend: read response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resilience.StatusError("resend", resp.StatusCode, respBody)
	}

	var out SendResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, eris.Wrap(err, "resend: unmarshal response")
	}
	return &out, nil
}
