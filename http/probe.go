package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fwojciec/siteaudit"
)

// DefaultProbeTimeout bounds each HEAD request.
const DefaultProbeTimeout = 5 * time.Second

var (
	_ siteaudit.LinkVerifier      = (*Prober)(nil)
	_ siteaudit.ContentTypeProber = (*Prober)(nil)
)

// Prober issues time-boxed HEAD requests to verify links and to check a
// URL's content type before it is fetched.
type Prober struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// ProbeOption configures a Prober.
type ProbeOption func(*Prober)

// WithProbeTimeout sets the per-request timeout.
func WithProbeTimeout(d time.Duration) ProbeOption {
	return func(p *Prober) {
		p.timeout = d
	}
}

// WithProbeUserAgent sets the User-Agent header.
func WithProbeUserAgent(ua string) ProbeOption {
	return func(p *Prober) {
		p.userAgent = ua
	}
}

// NewProber creates a Prober. If client is nil, a client built by
// NewClient with default settings is used.
func NewProber(client *http.Client, opts ...ProbeOption) *Prober {
	p := &Prober{
		client:    client,
		timeout:   DefaultProbeTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.client == nil {
		p.client = NewClient(DefaultFetchTimeout, DefaultMaxRedirects)
	}
	return p
}

// Broken reports whether url fails to answer a HEAD request with a
// non-error status. Servers that do not implement HEAD are given the
// benefit of the doubt.
func (p *Prober) Broken(ctx context.Context, url string) bool {
	resp, err := p.head(ctx, url)
	if err != nil {
		return true
	}
	switch resp.StatusCode {
	case http.StatusMethodNotAllowed, http.StatusNotImplemented:
		return false
	}
	return resp.StatusCode >= http.StatusBadRequest
}

// IsHTML reports whether url serves HTML. Probe failures and missing
// content types report true so that the URL is still fetched.
func (p *Prober) IsHTML(ctx context.Context, url string) bool {
	resp, err := p.head(ctx, url)
	if err != nil {
		return true
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" || resp.StatusCode >= http.StatusBadRequest {
		return true
	}
	return isHTML(contentType)
}

func (p *Prober) head(ctx context.Context, url string) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	resp.Body.Close()
	return resp, nil
}
