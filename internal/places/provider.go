// Package places finds restaurants near a US ZIP code. A Service consults
// the result cache, then an ordered chain of providers: the commercial
// Foursquare index first and OpenStreetMap as the free fallback.
package places

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/guestbites/guestbites/internal/model"
)

var (
	// ErrMissingZip is returned for an empty ZIP.
	ErrMissingZip = eris.New("places: missing zip")
	// ErrNotConfigured is returned when no provider can serve requests.
	ErrNotConfigured = eris.New("places: no provider configured")
	// ErrUnavailable marks a provider failure the next provider may cover:
	// quota exhaustion, an open circuit, or a transport error.
	ErrUnavailable = eris.New("places: provider unavailable")
)

// Provider searches one place index.
type Provider interface {
	Name() string
	// Available reports whether the provider is configured.
	Available() bool
	Search(ctx context.Context, zip string) (*model.PlacesPayload, error)
}

// UpstreamError is a definitive non-2xx answer from a provider. The status
// and body are relayed to the caller unchanged and never cached.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Body       []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("places: %s returned status %d", e.Provider, e.StatusCode)
}
