package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guestbites/guestbites/internal/config"
	"github.com/guestbites/guestbites/internal/guide"
	"github.com/guestbites/guestbites/internal/model"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 8080, Origin: "https://guestbites.app", CORSOrigins: []string{"*"}},
		Log:    config.LogConfig{Level: "info", Format: "json"},
		Foursquare: config.FoursquareConfig{
			BaseURL: "http://127.0.0.1:1",
			Radius:  4000,
			Limit:   15,
		},
		Nominatim:  config.NominatimConfig{BaseURL: "http://127.0.0.1:1", UserAgent: "GuestBites-test", RPS: 100},
		Overpass:   config.OverpassConfig{BaseURL: "http://127.0.0.1:1", Radius: 4000, Limit: 20},
		Upstream:   config.UpstreamConfig{TimeoutSecs: 2, Retries: 0, BreakerThreshold: 5, BreakerResetSecs: 60},
		Cache:      config.CacheConfig{TTLHours: 24},
		Classifier: config.ClassifierConfig{DefaultBucket: "Other"},
		Guide:      config.GuideConfig{FallbackEnabled: true},
	}
}

func TestNewApp_WiresComponents(t *testing.T) {
	env, err := newApp(testConfig())
	require.NoError(t, err)

	assert.NotNil(t, env.Places)
	assert.NotNil(t, env.Geocoder)
	assert.NotNil(t, env.Guides)
	require.Len(t, env.Breakers, 1)
	assert.Equal(t, "foursquare", env.Breakers[0].Name())
	assert.False(t, env.Submit.Configured())
	assert.NotNil(t, env.Sampler())

	d := env.Deps()
	assert.NotNil(t, d.Places)
	assert.NotNil(t, d.Submitter)
}

func TestRetryConfig(t *testing.T) {
	c := testConfig()
	c.Upstream.Retries = 0
	assert.Equal(t, 1, retryConfig(c, "nominatim").MaxAttempts)

	c.Upstream.Retries = 2
	rc := retryConfig(c, "nominatim")
	assert.Equal(t, 3, rc.MaxAttempts)
	assert.NotNil(t, rc.OnRetry)
}

func TestNewApp_FoursquareGuide(t *testing.T) {
	fsq := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "fsq3-test", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"results":[
			{"fsq_id":"1","name":"Mozart's Bakery","location":{"address":"2885 N High St"},"categories":[{"id":13002,"name":"Bakery"}]},
			{"fsq_id":"2","name":"Rubino's","location":{"address":"2643 E Main St"},"categories":[{"id":13064,"name":"Pizza Place"}]}
		]}`)
	}))
	defer fsq.Close()

	c := testConfig()
	c.Foursquare.Key = "fsq3-test"
	c.Foursquare.BaseURL = fsq.URL
	env, err := newApp(c)
	require.NoError(t, err)

	v := env.Guides.Build(context.Background(), guide.Request{Zip: "43209"})
	assert.False(t, v.Degraded)
	assert.Equal(t, model.SourceFoursquare, v.Source)
	assert.Len(t, v.Bucket(model.BucketBreakfast), 1)
	assert.Len(t, v.Bucket(model.BucketPizza), 1)
	assert.Equal(t, 1, env.Cache.Len())
}

func TestNewApp_UnreachableProvidersDegrade(t *testing.T) {
	env, err := newApp(testConfig())
	require.NoError(t, err)

	v := env.Guides.Build(context.Background(), guide.Request{Zip: "99999"})
	assert.True(t, v.Degraded)
	assert.Equal(t, guide.FallbackMessage, v.Message)
}

func TestNewClassifier_RulesFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(p, []byte("rules:\n  - bucket: Dessert\n    pattern: \"gelato\"\n"), 0o600))

	c, err := newClassifier(config.ClassifierConfig{DefaultBucket: "Dinner", RulesFile: p})
	require.NoError(t, err)
	assert.Equal(t, model.BucketDessert, c.Classify(nil, "Gelato Bar"))
	assert.Equal(t, model.BucketDinner, c.Classify([]string{"Pizza Place"}, "Rubino's"))
}

func TestNewClassifier_Errors(t *testing.T) {
	_, err := newClassifier(config.ClassifierConfig{DefaultBucket: "Brunch"})
	assert.Error(t, err)

	_, err = newClassifier(config.ClassifierConfig{RulesFile: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}
