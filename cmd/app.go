package main

import (
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/guestbites/guestbites/internal/cache"
	"github.com/guestbites/guestbites/internal/classify"
	"github.com/guestbites/guestbites/internal/config"
	"github.com/guestbites/guestbites/internal/guide"
	"github.com/guestbites/guestbites/internal/model"
	"github.com/guestbites/guestbites/internal/monitoring"
	"github.com/guestbites/guestbites/internal/places"
	"github.com/guestbites/guestbites/internal/resilience"
	"github.com/guestbites/guestbites/internal/server"
	"github.com/guestbites/guestbites/internal/submit"
	"github.com/guestbites/guestbites/pkg/foursquare"
	"github.com/guestbites/guestbites/pkg/nominatim"
	"github.com/guestbites/guestbites/pkg/overpass"
	"github.com/guestbites/guestbites/pkg/resend"
)

// appEnv holds the wired components shared by the serve and guide commands.
type appEnv struct {
	Cache    *cache.TTL[*model.PlacesPayload]
	Places   *places.Service
	Geocoder nominatim.Client
	Guides   *guide.Builder
	Submit   *submit.Service
	Breakers []*resilience.CircuitBreaker
}

// Deps returns the HTTP handler dependencies.
func (a *appEnv) Deps() server.Deps {
	return server.Deps{
		Places:    a.Places,
		Zips:      a.Geocoder,
		Guides:    a.Guides,
		Submitter: a.Submit,
	}
}

// Sampler returns a metrics sampler over the cache and breakers.
func (a *appEnv) Sampler() *monitoring.Sampler {
	return monitoring.NewSampler(a.Cache, a.Breakers, 0)
}

func retryConfig(c *config.Config, service string) resilience.RetryConfig {
	if c.Upstream.Retries <= 0 {
		return resilience.NoRetry()
	}
	rc := resilience.DefaultRetryConfig()
	rc.MaxAttempts = c.Upstream.Retries + 1
	rc.OnRetry = resilience.RetryLogger(service)
	return rc
}

// newApp builds every component from c. Nothing here touches the network.
func newApp(c *config.Config) (*appEnv, error) {
	classifier, err := newClassifier(c.Classifier)
	if err != nil {
		return nil, err
	}

	geocoder := nominatim.NewClient(
		nominatim.WithBaseURL(c.Nominatim.BaseURL),
		nominatim.WithUserAgent(c.Nominatim.UserAgent),
		nominatim.WithRateLimit(c.Nominatim.RPS),
		nominatim.WithRetry(retryConfig(c, "nominatim")),
	)
	op := overpass.NewClient(
		overpass.WithBaseURL(c.Overpass.BaseURL),
		overpass.WithUserAgent(c.Nominatim.UserAgent),
		overpass.WithRetry(retryConfig(c, "overpass")),
	)

	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Name:             "foursquare",
		FailureThreshold: c.Upstream.BreakerThreshold,
		ResetTimeout:     time.Duration(c.Upstream.BreakerResetSecs) * time.Second,
	})
	var fsqClient foursquare.Client
	if c.Foursquare.Key != "" {
		fsqClient = foursquare.NewClient(c.Foursquare.Key, foursquare.WithBaseURL(c.Foursquare.BaseURL))
	} else {
		zap.L().Warn("foursquare key not set, searches use OpenStreetMap only")
	}
	fsq := places.NewFoursquareProvider(fsqClient,
		places.WithSearchArea(c.Foursquare.Radius, c.Foursquare.Limit),
		places.WithFields(c.Foursquare.Fields),
		places.WithBreaker(breaker),
	)
	osm := places.NewOSMProvider(geocoder, op, c.Overpass.Radius, c.Overpass.Limit)

	results := cache.New[*model.PlacesPayload](c.Cache.TTL())
	svc := places.NewService(results, []places.Provider{fsq, osm},
		places.WithTimeout(c.Upstream.Timeout()),
		places.WithFallback(c.Guide.FallbackEnabled),
	)

	var mailer resend.Client
	if c.Resend.Key != "" {
		mailer = resend.NewClient(c.Resend.Key, resend.WithBaseURL(c.Resend.BaseURL))
	}

	return &appEnv{
		Cache:    results,
		Places:   svc,
		Geocoder: geocoder,
		Guides:   guide.NewBuilder(svc, guide.NewAssembler(classifier, guide.WithSortByName(c.Guide.SortByName))),
		Submit:   submit.NewService(mailer, c.Resend.From, c.Resend.Recipients()),
		Breakers: []*resilience.CircuitBreaker{fsq.Breaker()},
	}, nil
}

func newClassifier(c config.ClassifierConfig) (*classify.Classifier, error) {
	var opts []classify.Option
	if c.RulesFile != "" {
		rs, err := classify.LoadRules(c.RulesFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, rs.Options()...)
	}
	// An explicit default bucket overrides the rules file fallback.
	if c.DefaultBucket != "" {
		b, ok := model.ParseBucket(c.DefaultBucket)
		if !ok {
			return nil, eris.Errorf("classifier: unknown default bucket %q", c.DefaultBucket)
		}
		opts = append(opts, classify.WithFallback(b))
	}
	return classify.New(opts...)
}
