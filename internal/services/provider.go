package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"github.com/quietfall/gainbot/internal/shared"
)

// ProviderClient resolves stream URLs against the media provider's HTTP API.
// Requests are authenticated with OAuth2 client credentials and throttled
// with a token bucket so a bulk recalculation cannot hammer the provider.
type ProviderClient struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewProviderClient creates a client for the configured provider. rps is
// the sustained request rate; bursts up to twice that are allowed.
func NewProviderClient(cfg shared.ProviderConfig) *ProviderClient {
	oauth := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
	}

	rps := cfg.RateLimit
	if rps <= 0 {
		rps = 4
	}

	return &ProviderClient{
		baseURL: cfg.BaseURL,
		client:  oauth.Client(context.Background()),
		limiter: rate.NewLimiter(rate.Limit(rps), int(rps*2)),
	}
}

// streamURLResponse is the provider's resolve endpoint payload.
type streamURLResponse struct {
	URL string `json:"url"`
}

// ResolveStreamURL implements [Resolver].
func (c *ProviderClient) ResolveStreamURL(ctx context.Context, trackID string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: rate limiter: %v", shared.ErrAPIRequest, err)
	}

	endpoint := fmt.Sprintf("%s/api/tracks/%s/stream-url", c.baseURL, url.PathEscape(trackID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return "", fmt.Errorf("%w: track %s", shared.ErrNoStreamURL, trackID)
	default:
		return "", fmt.Errorf("%w: provider returned %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var body streamURLResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", shared.ErrAPIRequest, err)
	}
	if body.URL == "" {
		return "", fmt.Errorf("%w: track %s", shared.ErrNoStreamURL, trackID)
	}
	return body.URL, nil
}

// WithHTTPClient swaps the underlying HTTP client. Used by tests to point
// the client at a local server without OAuth.
func (c *ProviderClient) WithHTTPClient(hc *http.Client) *ProviderClient {
	c.client = hc
	return c
}

// WithTimeout sets a per-request timeout on the underlying client.
func (c *ProviderClient) WithTimeout(d time.Duration) *ProviderClient {
	c.client.Timeout = d
	return c
}
