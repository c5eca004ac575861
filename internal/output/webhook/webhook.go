package webhook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/crimson-sun/artisanize/internal/model"
	"github.com/crimson-sun/artisanize/internal/output"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultBaseDelay = time.Second
	maxRetries       = 3
)

// Option configures a webhook Output.
type Option func(*Output)

// WithHeaders sets custom HTTP headers sent with every POST.
func WithHeaders(h map[string]string) Option {
	return func(o *Output) { o.headers = h }
}

// WithTimeout sets the HTTP client timeout. Default: 10s.
func WithTimeout(d time.Duration) Option {
	return func(o *Output) { o.client.Timeout = d }
}

// WithBaseDelay sets the first retry delay; later retries double it. Default: 1s.
func WithBaseDelay(d time.Duration) Option {
	return func(o *Output) { o.baseDelay = d }
}

// Output POSTs each profile to an HTTP endpoint as text/plain, named by a
// Content-Disposition header. Retries on 5xx with exponential backoff.
type Output struct {
	client    *http.Client
	url       string
	headers   map[string]string
	baseDelay time.Duration
}

// New creates a webhook output targeting the given URL.
func New(url string, opts ...Option) *Output {
	o := &Output{
		client:    &http.Client{Timeout: defaultTimeout},
		url:       url,
		baseDelay: defaultBaseDelay,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Write delivers the profile. A failed delivery is reported as a
// *output.SerializationError naming the URL.
func (o *Output) Write(ctx context.Context, p *model.Profile) error {
	name := output.DefaultFilename(p.Summary.RoastName, p.Summary.UID)
	if err := o.postWithRetry(ctx, p.Bytes(), name, p.Summary.UID); err != nil {
		return &output.SerializationError{Path: o.url, Err: err}
	}
	return nil
}

// Close is a no-op; every Write is delivered synchronously.
func (o *Output) Close() error {
	return nil
}

// postWithRetry sends the body via HTTP POST with retry on 5xx.
func (o *Output) postWithRetry(ctx context.Context, body []byte, name, uid string) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(o.baseDelay << (attempt - 1)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("webhook: %w", err)
		}
		req.Header.Set("Content-Type", "text/plain; charset=utf-8")
		req.Header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		req.Header.Set("X-Roast-UID", uid)
		for k, v := range o.headers {
			req.Header.Set(k, v)
		}

		resp, err := o.client.Do(req)
		if err != nil {
			return fmt.Errorf("webhook: %w", err)
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}

		lastErr = fmt.Errorf("webhook: HTTP %d", resp.StatusCode)

		// Only retry on 5xx server errors.
		if resp.StatusCode < 500 {
			return lastErr
		}
	}
	return lastErr
}
