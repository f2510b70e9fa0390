// Package http implements page retrieval, link verification and sitemap
// discovery over net/http.
package http

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"time"
)

// Defaults applied by NewClient and NewFetcher.
const (
	DefaultFetchTimeout = 45 * time.Second
	DefaultMaxRedirects = 10
	DefaultMaxBodySize  = 10 << 20
	DefaultUserAgent    = "Mozilla/5.0 (compatible; siteaudit/1.0; +https://github.com/fwojciec/siteaudit)"
)

// NewClient returns an HTTP client with the given overall timeout that
// follows at most maxRedirects redirects. Certificate verification is
// disabled so that sites with self-signed certificates can still be audited.
func NewClient(timeout time.Duration, maxRedirects int) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
}
