package places

import (
	"context"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/guestbites/guestbites/internal/model"
	"github.com/guestbites/guestbites/internal/resilience"
	"github.com/guestbites/guestbites/pkg/foursquare"
)

const (
	// DefaultRadiusMeters is the search radius around the ZIP.
	DefaultRadiusMeters = 4000
	// DefaultFoursquareLimit is the number of places requested from Foursquare.
	DefaultFoursquareLimit = 15
)

var errQuotaExhausted = eris.New("places: foursquare quota exhausted")

// FoursquareProvider searches the Foursquare Places API by ZIP.
type FoursquareProvider struct {
	client  foursquare.Client
	breaker *resilience.CircuitBreaker
	radius  int
	limit   int
	fields  string
}

// FoursquareOption configures a FoursquareProvider.
type FoursquareOption func(*FoursquareProvider)

// WithSearchArea sets the radius in meters and the result limit.
func WithSearchArea(radius, limit int) FoursquareOption {
	return func(p *FoursquareProvider) {
		if radius > 0 {
			p.radius = radius
		}
		if limit > 0 {
			p.limit = limit
		}
	}
}

// WithFields overrides the requested field set.
func WithFields(fields string) FoursquareOption {
	return func(p *FoursquareProvider) {
		p.fields = fields
	}
}

// WithBreaker sets the circuit breaker guarding the API.
func WithBreaker(cb *resilience.CircuitBreaker) FoursquareOption {
	return func(p *FoursquareProvider) {
		p.breaker = cb
	}
}

// NewFoursquareProvider wraps client. A nil client yields an unavailable
// provider, which is how a missing API key is represented.
func NewFoursquareProvider(client foursquare.Client, opts ...FoursquareOption) *FoursquareProvider {
	p := &FoursquareProvider{
		client: client,
		radius: DefaultRadiusMeters,
		limit:  DefaultFoursquareLimit,
		fields: foursquare.StandardFields,
	}
	for _, o := range opts {
		o(p)
	}
	if p.breaker == nil {
		p.breaker = resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("foursquare"))
	}
	return p
}

// Name implements Provider.
func (p *FoursquareProvider) Name() string { return model.SourceFoursquare }

// Available implements Provider.
func (p *FoursquareProvider) Available() bool { return p.client != nil }

// Breaker returns the provider's circuit breaker.
func (p *FoursquareProvider) Breaker() *resilience.CircuitBreaker { return p.breaker }

// Search implements Provider. Quota exhaustion, an open circuit, and
// transport failures wrap ErrUnavailable; any other non-2xx response is an
// *UpstreamError.
func (p *FoursquareProvider) Search(ctx context.Context, zip string) (*model.PlacesPayload, error) {
	if p.client == nil {
		return nil, eris.Wrap(ErrUnavailable, "places: foursquare key not configured")
	}

	req := foursquare.SearchRequest{
		Near:   zip + ", US",
		Radius: p.radius,
		Limit:  p.limit,
		Fields: p.fields,
	}
	out, err := resilience.ExecuteVal(ctx, p.breaker, func(ctx context.Context) (*foursquare.Outcome, error) {
		o, err := p.client.Search(ctx, req)
		if err != nil {
			return nil, err
		}
		if o.Kind == foursquare.OutcomeQuotaExhausted {
			return o, errQuotaExhausted
		}
		return o, nil
	})
	switch {
	case eris.Is(err, resilience.ErrCircuitOpen):
		return nil, eris.Wrap(ErrUnavailable, "places: foursquare circuit open")
	case eris.Is(err, errQuotaExhausted):
		return nil, eris.Wrapf(ErrUnavailable, "places: foursquare quota exhausted (status %d)", out.StatusCode)
	case err != nil:
		return nil, eris.Wrapf(ErrUnavailable, "places: foursquare transport: %v", err)
	}

	if out.Kind == foursquare.OutcomeError {
		return nil, &UpstreamError{Provider: p.Name(), StatusCode: out.StatusCode, Body: out.Body}
	}

	return &model.PlacesPayload{
		Results: mapFoursquare(out.Places),
		Source:  model.SourceFoursquare,
	}, nil
}

// mapFoursquare drops nameless places and repeated fsq_ids, keeping the
// first occurrence.
func mapFoursquare(places []foursquare.Place) []model.PlaceRecord {
	records := make([]model.PlaceRecord, 0, len(places))
	seen := make(map[string]struct{}, len(places))
	for _, fp := range places {
		name := strings.TrimSpace(fp.Name)
		if name == "" {
			continue
		}
		if _, dup := seen[fp.FsqID]; dup {
			continue
		}
		seen[fp.FsqID] = struct{}{}
		cats := make([]model.Category, 0, len(fp.Categories))
		for _, c := range fp.Categories {
			cats = append(cats, model.Category{ID: strconv.Itoa(c.ID), Name: c.Name})
		}
		records = append(records, model.PlaceRecord{
			ID:   fp.FsqID,
			Name: name,
			Location: model.Location{
				Address:  fp.Location.Address,
				Locality: fp.Location.Locality,
			},
			Categories: cats,
			Website:    fp.Website,
			Distance:   fp.Distance,
			Rating:     fp.Rating,
		})
	}
	return records
}
