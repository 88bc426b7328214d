package fetcher

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/roster-cli/internal/resilience"
)

// HTTPOptions configures the HTTP fetcher.
type HTTPOptions struct {
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
	// Limiter paces requests. Defaults to 5 requests/second.
	Limiter *rate.Limiter
	// Backoff overrides the initial retry delay.
	Backoff time.Duration
}

// HTTPFetcher downloads over HTTP with rate limiting and retry of
// transient failures (network errors, 408, 429, 5xx).
type HTTPFetcher struct {
	client  *http.Client
	opts    HTTPOptions
	limiter *rate.Limiter
}

// NewHTTPFetcher creates an HTTPFetcher with the given options.
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "roster-cli/1.0"
	}
	lim := opts.Limiter
	if lim == nil {
		lim = rate.NewLimiter(5, 5)
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		opts:    opts,
		limiter: lim,
	}
}

// Download fetches the URL and returns the response body.
func (f *HTTPFetcher) Download(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	policy := resilience.PolicyFor(f.opts.MaxRetries)
	policy.OnRetry = resilience.LogRetries("fetcher.http", rawURL)
	if f.opts.Backoff > 0 {
		policy.InitialBackoff = f.opts.Backoff
	}

	body, err := resilience.DoValue(ctx, policy, func(ctx context.Context) (io.ReadCloser, error) {
		return f.get(ctx, rawURL)
	})
	if err != nil {
		return nil, eris.Wrapf(err, "http: download %s", rawURL)
	}
	return body, nil
}

func (f *HTTPFetcher) get(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "http: rate limiter wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "http: create request")
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "http: request")
	}

	if resp.StatusCode == http.StatusOK {
		zap.L().Debug("http: downloaded",
			zap.String("url", rawURL),
			zap.Int64("content_length", resp.ContentLength),
		)
		return resp.Body, nil
	}

	_ = resp.Body.Close()
	statusErr := eris.Errorf("http: unexpected status %d", resp.StatusCode)
	if resilience.IsTransientStatus(resp.StatusCode) {
		return nil, resilience.Transient(statusErr, resp.StatusCode)
	}
	return nil, statusErr
}
