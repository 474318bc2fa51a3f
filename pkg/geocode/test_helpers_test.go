package geocode

import (
	"net/http"
	"strings"

	"golang.org/x/time/rate"
)

// testLimiter returns a limiter that never blocks, so provider tests run
// without the Nominatim pacing delay.
func testLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Inf, 1)
}

// stubProvider returns an HTTP client that sends any request aimed at the
// real provider endpoint to a local test server instead, preserving the path
// and query suffix.
func stubProvider(testServerURL, providerURL string) *http.Client {
	return &http.Client{
		Transport: &stubTransport{server: testServerURL, provider: providerURL},
	}
}

type stubTransport struct {
	server   string
	provider string
}

func (t *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	suffix, ok := strings.CutPrefix(req.URL.String(), t.provider)
	if !ok {
		return http.DefaultTransport.RoundTrip(req)
	}
	target, err := req.URL.Parse(t.server + suffix)
	if err != nil {
		return nil, err
	}
	redirected := req.Clone(req.Context())
	redirected.URL = target
	redirected.Host = target.Host
	return http.DefaultTransport.RoundTrip(redirected)
}
