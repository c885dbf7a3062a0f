// Package forbes fetches real-time billionaire snapshots from the Forbes
// API and flattens them into dataset rows.
package forbes

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ridgeline-data/rtb-cli/internal/resilience"
)

// Client talks to the Forbes real-time billionaires endpoints. The endpoint
// list is ordered; Fetch walks it until one yields a non-empty person list.
type Client struct {
	httpClient *http.Client
	urls       []string
	userAgent  string
	limiter    *rate.Limiter
	maxRetries int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithUserAgent overrides the User-Agent header sent to the API. The API
// rejects requests without a browser-looking agent.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithMaxRetries sets how many extra attempts each endpoint gets before
// the client moves on to the next one.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// NewClient builds a client over the given endpoint list.
func NewClient(urls []string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		urls:       urls,
		userAgent:  "Mozilla/5.0 (Linux; Android 6.0; Nexus 5 Build/MRA58N) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36",
		limiter:    rate.NewLimiter(rate.Limit(1), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch tries each endpoint in order and returns the first non-empty person
// list. Endpoints that fail, decode badly or come back empty are logged and
// skipped; if all of them do, the joined errors come back to the caller.
func (c *Client) Fetch(ctx context.Context) ([]PersonRecord, error) {
	if len(c.urls) == 0 {
		return nil, eris.New("forbes: no endpoints configured")
	}

	policy := resilience.DefaultPolicy()
	policy.MaxAttempts = c.maxRetries + 1
	policy.OnRetry = resilience.RetryLogger("forbes fetch")

	var lastErr error
	for _, url := range c.urls {
		records, err := resilience.Retry(ctx, policy, func(ctx context.Context) ([]PersonRecord, error) {
			return c.fetchOne(ctx, url)
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, eris.Wrap(err, "forbes: fetch cancelled")
			}
			zap.L().Warn("forbes: endpoint failed, trying next",
				zap.String("url", url),
				zap.Error(err),
			)
			lastErr = err
			continue
		}
		zap.L().Info("forbes: fetched snapshot",
			zap.String("url", url),
			zap.Int("persons", len(records)),
		)
		return records, nil
	}
	return nil, eris.Wrap(lastErr, "forbes: all endpoints failed")
}

func (c *Client) fetchOne(ctx context.Context, url string) ([]PersonRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "forbes: rate limiter")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, eris.Wrapf(err, "forbes: build request for %s", url)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "forbes: request %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("forbes: %s returned status %d", url, resp.StatusCode)
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.Transient(err)
		}
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrapf(err, "forbes: read response from %s", url)
	}

	records, err := extractRecords(body)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, eris.Errorf("forbes: %s returned an empty person list", url)
	}
	return records, nil
}
