package geocode

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeocode_NominatimFirst(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"lat": "39.7392", "lon": "-104.9903", "display_name": "Denver"}]`)
	}))
	defer srv.Close()

	c := NewClient(
		WithNominatimBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithRateLimit(1000),
	)

	result, err := c.Geocode(context.Background(), "Denver, CO")
	require.NoError(t, err)
	assert.True(t, result.Matched)
	assert.Equal(t, "nominatim", result.Source)
}

func TestGeocode_FallsBackToGoogle(t *testing.T) {
	nominatim := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[]`)
	}))
	defer nominatim.Close()

	google := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"status": "OK",
			"results": [{
				"geometry": {"location": {"lat": 39.7392, "lng": -104.9903}},
				"formatted_address": "Denver, CO, USA"
			}]
		}`)
	}))
	defer google.Close()

	hc := stubProvider(google.URL, googleGeocodeURL)
	c := NewClient(
		WithNominatimBaseURL(nominatim.URL),
		WithHTTPClient(hc),
		WithGoogleAPIKey("test-key"),
		WithRateLimit(1000),
	)

	result, err := c.Geocode(context.Background(), "Denver, CO")
	require.NoError(t, err)
	assert.True(t, result.Matched)
	assert.Equal(t, "google", result.Source)
}

func TestGeocode_NoMatchAnywhere(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	c := NewClient(
		WithNominatimBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithRateLimit(1000),
	)

	result, err := c.Geocode(context.Background(), "000 Nonexistent")
	require.NoError(t, err)
	assert.False(t, result.Matched)
}

func TestGeocode_CacheSkipsNetwork(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"lat": "39.7392", "lon": "-104.9903", "display_name": "Denver"}]`)
	}))
	defer srv.Close()

	cache := newTestCache(t)
	c := NewClient(
		WithNominatimBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithCache(cache),
		WithRateLimit(1000),
	)

	ctx := context.Background()
	first, err := c.Geocode(ctx, "Denver, CO")
	require.NoError(t, err)
	second, err := c.Geocode(ctx, "Denver, CO")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), calls.Load())
}

func TestGeocode_NonMatchCached(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	cache := newTestCache(t)
	c := NewClient(
		WithNominatimBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithCache(cache),
		WithRateLimit(1000),
	)

	ctx := context.Background()
	_, err := c.Geocode(ctx, "000 Nonexistent")
	require.NoError(t, err)
	result, err := c.Geocode(ctx, "000 Nonexistent")
	require.NoError(t, err)

	assert.False(t, result.Matched)
	assert.Equal(t, int64(1), calls.Load())
}

func TestBatchGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("q") == "bad address" {
			_, _ = io.WriteString(w, `[]`)
			return
		}
		_, _ = io.WriteString(w, `[{"lat": "39.7392", "lon": "-104.9903", "display_name": "Denver"}]`)
	}))
	defer srv.Close()

	c := NewClient(
		WithNominatimBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithRateLimit(1000),
		WithBatchConcurrency(2),
	)

	results, err := c.BatchGeocode(context.Background(), []string{"Denver, CO", "bad address", "Boulder, CO"})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.True(t, results[0].Matched)
	assert.False(t, results[1].Matched)
	assert.True(t, results[2].Matched)
}

func TestBatchGeocode_Empty(t *testing.T) {
	c := NewClient()

	results, err := c.BatchGeocode(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, results)
}
