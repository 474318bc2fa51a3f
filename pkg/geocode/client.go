// Package geocode resolves free-text addresses to coordinates via Nominatim
// (primary) and the Google Geocoding API (optional fallback).
package geocode

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Client geocodes addresses.
type Client interface {
	// Geocode resolves a single free-text address.
	Geocode(ctx context.Context, address string) (*Result, error)

	// BatchGeocode resolves multiple addresses.
	BatchGeocode(ctx context.Context, addresses []string) ([]Result, error)
}

// Result holds the geocoding output for an address.
type Result struct {
	Latitude    float64
	Longitude   float64
	DisplayName string
	Source      string // "nominatim" or "google"
	Matched     bool
}

// Option configures the geocoder.
type Option func(*geocoder)

// WithGoogleAPIKey enables Google Geocoding API as a fallback.
func WithGoogleAPIKey(key string) Option {
	return func(g *geocoder) {
		g.googleKey = key
	}
}

// WithHTTPClient sets a custom HTTP client for all provider requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *geocoder) {
		g.httpClient = hc
	}
}

// WithNominatimBaseURL overrides the Nominatim endpoint.
func WithNominatimBaseURL(base string) Option {
	return func(g *geocoder) {
		g.nominatimBase = base
	}
}

// WithRateLimit sets the requests-per-second limit for provider calls.
// Nominatim's usage policy asks for at most one request per second.
func WithRateLimit(rps float64) Option {
	return func(g *geocoder) {
		g.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithCache attaches a result cache.
func WithCache(c *Cache) Option {
	return func(g *geocoder) {
		g.cache = c
	}
}

// WithBatchConcurrency sets the max parallel calls for BatchGeocode.
func WithBatchConcurrency(n int) Option {
	return func(g *geocoder) {
		if n > 0 {
			g.batchConcurrency = n
		}
	}
}

type geocoder struct {
	httpClient       *http.Client
	nominatimBase    string
	googleKey        string
	limiter          *rate.Limiter
	cache            *Cache
	batchConcurrency int
}

// NewClient creates a geocoding Client with the given options.
func NewClient(opts ...Option) Client {
	g := &geocoder{
		httpClient:       &http.Client{Timeout: 30 * time.Second},
		nominatimBase:    defaultNominatimBaseURL,
		limiter:          rate.NewLimiter(1, 1),
		batchConcurrency: 4,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Geocode resolves an address, trying Nominatim first, then Google if
// configured. A miss from every provider is not an error, just unmatched.
func (g *geocoder) Geocode(ctx context.Context, address string) (*Result, error) {
	if g.cache != nil {
		if cached, ok := g.cache.Get(ctx, address); ok {
			return cached, nil
		}
	}

	result, nomErr := g.geocodeNominatim(ctx, address)
	if nomErr == nil && result.Matched {
		g.store(ctx, address, result)
		return result, nil
	}

	if g.googleKey != "" {
		googleResult, googleErr := g.geocodeGoogle(ctx, address)
		if googleErr == nil && googleResult.Matched {
			g.store(ctx, address, googleResult)
			return googleResult, nil
		}
	}

	noMatch := &Result{Matched: false}
	g.store(ctx, address, noMatch)
	return noMatch, nil
}

// BatchGeocode resolves addresses in parallel, bounded by the configured
// concurrency. Individual failures yield unmatched results, not errors.
func (g *geocoder) BatchGeocode(ctx context.Context, addresses []string) ([]Result, error) {
	if len(addresses) == 0 {
		return nil, nil
	}

	results := make([]Result, len(addresses))

	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.batchConcurrency)

	for i, addr := range addresses {
		eg.Go(func() error {
			r, err := g.Geocode(gCtx, addr)
			if err != nil || r == nil {
				results[i] = Result{Matched: false}
				return nil //nolint:nilerr // individual geocode failures don't fail the batch
			}
			results[i] = *r
			return nil
		})
	}

	_ = eg.Wait()
	return results, nil
}

func (g *geocoder) store(ctx context.Context, address string, result *Result) {
	if g.cache != nil {
		_ = g.cache.Put(ctx, address, result)
	}
}
