package resilience

import (
	"errors"
	"net/http"
	"syscall"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"explicit transient", NewTransientError(errors.New("x"), 503), true},
		{"wrapped transient", eris.Wrap(NewTransientError(errors.New("x"), 429), "outer"), true},
		{"connection reset", syscall.ECONNRESET, true},
		{"dns failure message", errors.New("dial tcp: lookup overpass-api.de: no such host"), true},
		{"permanent", errors.New("invalid api key"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestIsTransientHTTPStatus(t *testing.T) {
	for _, code := range []int{408, 429, 500, 502, 503, 504} {
		assert.True(t, IsTransientHTTPStatus(code), "status %d", code)
	}
	for _, code := range []int{200, 400, 401, 403, 404, 422} {
		assert.False(t, IsTransientHTTPStatus(code), "status %d", code)
	}
}

func TestStatusError(t *testing.T) {
	err := StatusError("overpass", http.StatusTooManyRequests, []byte("rate limited\n"))
	assert.True(t, IsTransient(err))
	assert.Contains(t, err.Error(), "overpass: unexpected status 429: rate limited")

	err = StatusError("overpass", http.StatusBadRequest, []byte("bad query"))
	assert.False(t, IsTransient(err))

	var te *TransientError
	assert.False(t, errors.As(err, &te))
}
