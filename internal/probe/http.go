// Package probe resolves metadata of remote resources before they are imported.
package probe

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds a probe when the caller sets none.
const DefaultTimeout = 5 * time.Second

// ErrUnexpectedStatus reports a non-2xx probe response.
var ErrUnexpectedStatus = errors.New("probe: unexpected status")

// HTTPProber reads the Content-Type of a URL with a HEAD request.
type HTTPProber struct {
	client  *http.Client
	timeout time.Duration
}

// Option customises an HTTPProber.
type Option func(*HTTPProber)

// WithClient sets the HTTP client.
func WithClient(client *http.Client) Option {
	return func(p *HTTPProber) {
		if client != nil {
			p.client = client
		}
	}
}

// WithTimeout bounds each probe.
func WithTimeout(d time.Duration) Option {
	return func(p *HTTPProber) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// NewHTTPProber builds a prober using http.DefaultClient.
func NewHTTPProber(opts ...Option) *HTTPProber {
	p := &HTTPProber{client: http.DefaultClient, timeout: DefaultTimeout}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// ContentType returns the media type announced for rawURL, without
// parameters. An empty result means the server announced none.
func (p *HTTPProber) ContentType(ctx context.Context, rawURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("probe: build request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("probe: head %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	header := strings.TrimSpace(resp.Header.Get("Content-Type"))
	if header == "" {
		return "", nil
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return "", fmt.Errorf("probe: content type %q: %w", header, err)
	}
	return mediaType, nil
}
