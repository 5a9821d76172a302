package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hcmcBox = BoundingBox{MinLon: 106.3, MinLat: 10.3, MaxLon: 107.1, MaxLat: 11.2}

func TestNominatimResolveInsideBox(t *testing.T) {
	t.Parallel()

	var gotQuery, gotBounded, gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotBounded = r.URL.Query().Get("bounded")
		gotAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`[{"lat":"21.02","lon":"105.85"},{"lat":"10.85","lon":"106.77"}]`))
	}))
	defer server.Close()

	r := NewNominatimResolver(NominatimConfig{Endpoint: server.URL, Box: hcmcBox, UserAgent: "test-agent"}, server.Client())
	coords, err := r.Resolve(context.Background(), "Thủ Đức", "Hồ Chí Minh")
	require.NoError(t, err)
	require.NotNil(t, coords)

	assert.Equal(t, 106.77, coords.Longitude)
	assert.Equal(t, 10.85, coords.Latitude)
	assert.Equal(t, "Thủ Đức, Hồ Chí Minh", gotQuery)
	assert.Equal(t, "1", gotBounded)
	assert.Equal(t, "test-agent", gotAgent)
}

func TestNominatimResolveNotFound(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	r := NewNominatimResolver(NominatimConfig{Endpoint: server.URL}, server.Client())
	coords, err := r.Resolve(context.Background(), "nowhere", "")
	require.NoError(t, err)
	assert.Nil(t, coords)

	coords, err = r.Resolve(context.Background(), "   ", "")
	require.NoError(t, err)
	assert.Nil(t, coords)
}

func TestNominatimResolveErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer server.Close()

	r := NewNominatimResolver(NominatimConfig{Endpoint: server.URL}, server.Client())
	_, err := r.Resolve(context.Background(), "Quận 1", "")
	assert.ErrorContains(t, err, "429")
}

func TestNominatimResolveTimeout(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	r := NewNominatimResolver(NominatimConfig{Endpoint: server.URL, Timeout: 50 * time.Millisecond}, server.Client())
	_, err := r.Resolve(context.Background(), "Quận 1", "")
	assert.Error(t, err)
}
