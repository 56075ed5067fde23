package places

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/guestbites/guestbites/internal/model"
	"github.com/guestbites/guestbites/internal/resilience"
	"github.com/guestbites/guestbites/pkg/foursquare"
	fsqmocks "github.com/guestbites/guestbites/pkg/foursquare/mocks"
)

func ptr[T any](v T) *T { return &v }

func TestFoursquareProvider_Search(t *testing.T) {
	client := fsqmocks.NewMockClient(t)
	client.On("Search", mock.Anything, foursquare.SearchRequest{
		Near:   "43209, US",
		Radius: 4000,
		Limit:  15,
		Fields: foursquare.StandardFields,
	}).Return(&foursquare.Outcome{
		Kind: foursquare.OutcomeOK,
		Places: []foursquare.Place{
			{
				FsqID:      "abc",
				Name:       "Mozart's Bakery",
				Location:   foursquare.Location{Address: "2885 N High St", Locality: "Columbus"},
				Categories: []foursquare.Category{{ID: 13002, Name: "Bakery"}},
				Distance:   ptr(812.0),
			},
			{FsqID: "nameless", Name: "  "},
		},
	}, nil)

	p := NewFoursquareProvider(client)
	assert.True(t, p.Available())
	assert.Equal(t, model.SourceFoursquare, p.Name())

	payload, err := p.Search(context.Background(), "43209")
	require.NoError(t, err)
	assert.Equal(t, model.SourceFoursquare, payload.Source)
	assert.Nil(t, payload.Center)
	require.Len(t, payload.Results, 1)

	r := payload.Results[0]
	assert.Equal(t, "abc", r.ID)
	assert.Equal(t, "Mozart's Bakery", r.Name)
	assert.Equal(t, []model.Category{{ID: "13002", Name: "Bakery"}}, r.Categories)
	require.NotNil(t, r.Distance)
	assert.InDelta(t, 812.0, *r.Distance, 0.001)
}

func TestMapFoursquare_DropsRepeatedIDs(t *testing.T) {
	got := mapFoursquare([]foursquare.Place{
		{FsqID: "abc", Name: "Mozart's Bakery"},
		{FsqID: "def", Name: "Rubino's"},
		{FsqID: "abc", Name: "Mozart's Bakery (dup)"},
	})
	require.Len(t, got, 2)
	assert.Equal(t, "abc", got[0].ID)
	assert.Equal(t, "Mozart's Bakery", got[0].Name)
	assert.Equal(t, "def", got[1].ID)
}

func TestFoursquareProvider_SearchArea(t *testing.T) {
	client := fsqmocks.NewMockClient(t)
	client.On("Search", mock.Anything, mock.MatchedBy(func(r foursquare.SearchRequest) bool {
		return r.Radius == 2500 && r.Limit == 20 && r.Fields == "fsq_id,name"
	})).Return(&foursquare.Outcome{Kind: foursquare.OutcomeOK}, nil)

	p := NewFoursquareProvider(client, WithSearchArea(2500, 20), WithFields("fsq_id,name"))
	payload, err := p.Search(context.Background(), "43215")
	require.NoError(t, err)
	assert.Empty(t, payload.Results)
}

func TestFoursquareProvider_QuotaExhausted(t *testing.T) {
	client := fsqmocks.NewMockClient(t)
	client.On("Search", mock.Anything, mock.Anything).Return(&foursquare.Outcome{
		Kind:       foursquare.OutcomeQuotaExhausted,
		StatusCode: 429,
	}, nil)

	_, err := NewFoursquareProvider(client).Search(context.Background(), "43209")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestFoursquareProvider_HardError(t *testing.T) {
	client := fsqmocks.NewMockClient(t)
	client.On("Search", mock.Anything, mock.Anything).Return(&foursquare.Outcome{
		Kind:       foursquare.OutcomeError,
		StatusCode: 401,
		Body:       []byte(`{"message":"Invalid request token."}`),
	}, nil)

	_, err := NewFoursquareProvider(client).Search(context.Background(), "43209")
	var ue *UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, 401, ue.StatusCode)
	assert.Equal(t, `{"message":"Invalid request token."}`, string(ue.Body))
	assert.False(t, errors.Is(err, ErrUnavailable))
}

func TestFoursquareProvider_TransportError(t *testing.T) {
	client := fsqmocks.NewMockClient(t)
	client.On("Search", mock.Anything, mock.Anything).Return(nil, errors.New("dial tcp: connection refused"))

	_, err := NewFoursquareProvider(client).Search(context.Background(), "43209")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestFoursquareProvider_CircuitOpens(t *testing.T) {
	client := fsqmocks.NewMockClient(t)
	client.On("Search", mock.Anything, mock.Anything).
		Return(nil, errors.New("i/o timeout")).Once()

	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Name:             "fsq-test",
		FailureThreshold: 1,
		ResetTimeout:     time.Hour,
	})
	p := NewFoursquareProvider(client, WithBreaker(cb))
	assert.Same(t, cb, p.Breaker())

	_, err := p.Search(context.Background(), "43209")
	require.Error(t, err)
	assert.Equal(t, resilience.CircuitOpen, cb.State())

	// The second call is rejected without reaching the client.
	_, err = p.Search(context.Background(), "43209")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.Contains(t, err.Error(), "circuit open")
}

func TestFoursquareProvider_NoKey(t *testing.T) {
	p := NewFoursquareProvider(nil)
	assert.False(t, p.Available())

	_, err := p.Search(context.Background(), "43209")
	assert.True(t, errors.Is(err, ErrUnavailable))
}
