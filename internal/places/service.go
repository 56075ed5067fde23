package places

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/guestbites/guestbites/internal/cache"
	"github.com/guestbites/guestbites/internal/model"
	"github.com/guestbites/guestbites/internal/monitoring"
)

// DefaultTimeout bounds each provider call.
const DefaultTimeout = 10 * time.Second

// Service answers place searches from the cache or the provider chain.
type Service struct {
	cache     *cache.TTL[*model.PlacesPayload]
	providers []Provider
	timeout   time.Duration
	fallback  bool
}

// Option configures a Service.
type Option func(*Service)

// WithTimeout sets the per-provider call deadline.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithFallback enables or disables providers after the first. Enabled by
// default.
func WithFallback(enabled bool) Option {
	return func(s *Service) {
		s.fallback = enabled
	}
}

// NewService creates a Service. providers are tried in order; the first is
// the primary.
func NewService(c *cache.TTL[*model.PlacesPayload], providers []Provider, opts ...Option) *Service {
	s := &Service{
		cache:     c,
		providers: providers,
		timeout:   DefaultTimeout,
		fallback:  true,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Search returns places near zip. A fresh cache entry is served without
// calling upstream; a successful provider answer is cached. An
// *UpstreamError from a provider stops the chain.
func (s *Service) Search(ctx context.Context, zip string) (*model.PlacesPayload, error) {
	zip = strings.TrimSpace(zip)
	if zip == "" {
		return nil, ErrMissingZip
	}

	key := cache.ZipKey(zip)
	if payload, ok := s.cache.Get(key); ok {
		monitoring.CacheLookups.WithLabelValues("hit").Inc()
		return payload, nil
	}
	monitoring.CacheLookups.WithLabelValues("miss").Inc()

	log := zap.L().With(zap.String("zip", zip))

	var lastErr error
	tried := 0
	for i, p := range s.providers {
		if i > 0 && !s.fallback {
			break
		}
		if !p.Available() {
			continue
		}
		tried++

		payload, err := s.call(ctx, p, zip)
		if err == nil {
			s.cache.Set(key, payload)
			log.Debug("places: search complete",
				zap.String("provider", p.Name()),
				zap.Int("results", len(payload.Results)),
			)
			return payload, nil
		}

		var ue *UpstreamError
		if errors.As(err, &ue) {
			log.Warn("places: upstream error",
				zap.String("provider", p.Name()),
				zap.Int("status", ue.StatusCode),
			)
			return nil, err
		}
		log.Warn("places: provider failed", zap.String("provider", p.Name()), zap.Error(err))
		lastErr = err
	}

	if tried == 0 {
		return nil, ErrNotConfigured
	}
	return nil, lastErr
}

func (s *Service) call(ctx context.Context, p Provider, zip string) (*model.PlacesPayload, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	payload, err := p.Search(ctx, zip)
	monitoring.ProviderDuration.WithLabelValues(p.Name()).Observe(time.Since(start).Seconds())

	outcome := "ok"
	var ue *UpstreamError
	switch {
	case errors.As(err, &ue):
		outcome = "upstream_error"
	case errors.Is(err, ErrUnavailable):
		outcome = "unavailable"
	case err != nil:
		outcome = "error"
	}
	monitoring.ProviderCalls.WithLabelValues(p.Name(), outcome).Inc()
	return payload, err
}
