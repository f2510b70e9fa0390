package http

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/siteaudit"
	"golang.org/x/sync/errgroup"
)

// DefaultDelay is the pause applied after every fetch.
const DefaultDelay = 100 * time.Millisecond

// DefaultVerifyLimit is how many internal links per page are checked with HEAD.
const DefaultVerifyLimit = 5

// Ensure Fetcher implements siteaudit.PageFetcher at compile time.
var _ siteaudit.PageFetcher = (*Fetcher)(nil)

// Fetcher retrieves single pages over HTTP and turns them into page records.
// Every failure is reported inside the returned record; Fetch never returns nil.
type Fetcher struct {
	client      *http.Client
	extractor   siteaudit.PageExtractor
	detector    siteaudit.JSDetector
	renderer    siteaudit.Renderer
	verifier    siteaudit.LinkVerifier
	resolver    siteaudit.Resolver
	timeout     time.Duration
	maxRedirect int
	maxBody     int64
	userAgent   string
	delay       time.Duration
	verifyLimit int
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (45s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxRedirects sets how many redirects are followed.
func WithMaxRedirects(n int) Option {
	return func(f *Fetcher) {
		f.maxRedirect = n
	}
}

// WithMaxBodySize sets the largest response body accepted, in bytes.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBody = n
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithDelay sets the politeness pause applied after each fetch.
func WithDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		f.delay = d
	}
}

// WithRenderer enables the headless fallback for pages the detector flags
// as script-heavy.
func WithRenderer(r siteaudit.Renderer, d siteaudit.JSDetector) Option {
	return func(f *Fetcher) {
		f.renderer = r
		f.detector = d
	}
}

// WithLinkVerifier replaces the HEAD-based link verifier.
func WithLinkVerifier(v siteaudit.LinkVerifier) Option {
	return func(f *Fetcher) {
		f.verifier = v
	}
}

// WithResolver replaces the DNS resolver.
func WithResolver(r siteaudit.Resolver) Option {
	return func(f *Fetcher) {
		f.resolver = r
	}
}

// WithVerifyLimit sets how many internal links per page are verified.
func WithVerifyLimit(n int) Option {
	return func(f *Fetcher) {
		f.verifyLimit = n
	}
}

// WithClient replaces the HTTP client. Timeout and redirect options are
// ignored when a client is supplied.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// NewFetcher creates a Fetcher that parses pages with extractor.
func NewFetcher(extractor siteaudit.PageExtractor, opts ...Option) *Fetcher {
	f := &Fetcher{
		extractor:   extractor,
		resolver:    net.DefaultResolver,
		timeout:     DefaultFetchTimeout,
		maxRedirect: DefaultMaxRedirects,
		maxBody:     DefaultMaxBodySize,
		userAgent:   DefaultUserAgent,
		delay:       DefaultDelay,
		verifyLimit: DefaultVerifyLimit,
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = NewClient(f.timeout, f.maxRedirect)
	}
	if f.verifier == nil {
		f.verifier = NewProber(f.client, WithProbeUserAgent(f.userAgent))
	}

	return f
}

// Fetch retrieves rawURL and returns its page record. A nil cache disables
// caching.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, cache siteaudit.SessionCache) *siteaudit.PageRecord {
	target, err := siteaudit.NormalizeURL(rawURL)
	if err != nil {
		return siteaudit.NewErrorPage(strings.TrimSpace(rawURL), -1, "Invalid URL", siteaudit.ErrorMessage(err))
	}

	if cache != nil {
		if page, ok := cache.Page(target); ok {
			return page
		}
	}

	host := siteaudit.Hostname(target)
	if !f.resolves(ctx, host, cache) {
		return siteaudit.NewErrorPage(target, 0, "DNS Error", fmt.Sprintf("could not resolve host %s", host))
	}

	page := f.fetch(ctx, target)

	if cache != nil {
		cache.StorePage(target, page)
	}
	f.pause(ctx)

	return page
}

func (f *Fetcher) fetch(ctx context.Context, target string) *siteaudit.PageRecord {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return siteaudit.NewErrorPage(target, -1, "Invalid URL", err.Error())
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return siteaudit.NewErrorPage(target, 0, "Fetch Error", err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return siteaudit.NewErrorPage(target, resp.StatusCode, statusTitle(resp.StatusCode), fmt.Sprintf("HTTP %d for %s", resp.StatusCode, target))
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !isHTML(contentType) {
		return siteaudit.NewErrorPage(target, resp.StatusCode, "Non-HTML Content", fmt.Sprintf("unexpected content type %q", contentType))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return siteaudit.NewErrorPage(target, resp.StatusCode, "Fetch Error", fmt.Sprintf("reading body: %v", err))
	}
	if int64(len(body)) > f.maxBody {
		return siteaudit.NewErrorPage(target, resp.StatusCode, "Content Too Large", fmt.Sprintf("body exceeds %d bytes", f.maxBody))
	}
	if contentType == "" && !isHTML(http.DetectContentType(body)) {
		return siteaudit.NewErrorPage(target, resp.StatusCode, "Non-HTML Content", "response is not HTML")
	}
	loadTime := time.Since(start)

	html := string(body)
	rendered := false
	if f.renderer != nil && f.detector != nil && f.detector.IsJSHeavy(html) {
		if out, err := f.renderer.Render(ctx, target); err == nil && strings.TrimSpace(out) != "" {
			html = out
			rendered = true
		}
	}

	baseURL := target
	if resp.Request != nil && resp.Request.URL != nil {
		baseURL = resp.Request.URL.String()
	}

	page, err := f.extractor.Extract(html, baseURL)
	if err != nil {
		page = siteaudit.NewEmptyPage(target)
	}
	page.URL = target
	page.StatusCode = resp.StatusCode
	page.RawHTML = html
	page.HasHTTPS = strings.HasPrefix(baseURL, "https://")
	page.Security.SecurityHeaders = countSecurityHeaders(resp.Header)
	page.PageLoadSpeed = siteaudit.PageLoadSpeed{
		Score:      SpeedScore(loadTime, len(body)),
		LoadTimeMs: loadTime.Milliseconds(),
		SizeBytes:  len(body),
	}
	page.Rendered = rendered
	if baseURL != target {
		page.FinalURL = baseURL
	}

	f.verifyLinks(ctx, page)

	return page
}

// resolves reports whether host has at least one address. Lookups are
// cached per session; literal IP addresses always resolve.
func (f *Fetcher) resolves(ctx context.Context, host string, cache siteaudit.SessionCache) bool {
	if host == "" {
		return false
	}
	if net.ParseIP(host) != nil {
		return true
	}
	if cache != nil {
		if resolved, ok := cache.Host(host); ok {
			return resolved
		}
	}

	addrs, err := f.resolver.LookupHost(ctx, host)
	resolved := err == nil && len(addrs) > 0
	if ctx.Err() == nil && cache != nil {
		cache.StoreHost(host, resolved)
	}
	return resolved
}

// verifyLinks marks the first verifyLimit internal links that fail
// verification as broken. Links already flagged by the extractor are skipped.
func (f *Fetcher) verifyLinks(ctx context.Context, page *siteaudit.PageRecord) {
	n := min(f.verifyLimit, len(page.Links.Internal))

	var g errgroup.Group
	for i := range n {
		if page.Links.Internal[i].Broken {
			continue
		}
		g.Go(func() error {
			page.Links.Internal[i].Broken = f.verifier.Broken(ctx, page.Links.Internal[i].URL)
			return nil
		})
	}
	_ = g.Wait()
}

func (f *Fetcher) pause(ctx context.Context) {
	if f.delay <= 0 {
		return
	}
	timer := time.NewTimer(f.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// Speed score bounds: pages at or under fastLoad score 100, pages at or
// over slowLoad score 0.
const (
	fastLoad = 800 * time.Millisecond
	slowLoad = 8 * time.Second
)

// SpeedScore rates a page from 0 to 100 by load time, less 5 points for
// every full megabyte of HTML beyond the first.
func SpeedScore(loadTime time.Duration, size int) int {
	var score float64
	switch {
	case loadTime <= fastLoad:
		score = 100
	case loadTime >= slowLoad:
		score = 0
	default:
		score = 100 * float64(slowLoad-loadTime) / float64(slowLoad-fastLoad)
	}
	if mb := size >> 20; mb > 1 {
		score -= 5 * float64(mb-1)
	}
	return int(max(0, min(100, score)) + 0.5)
}

func countSecurityHeaders(h http.Header) int {
	var n int
	for _, name := range siteaudit.SecurityHeaderNames {
		if h.Get(name) != "" {
			n++
		}
	}
	return n
}

func isHTML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

func statusTitle(code int) string {
	if text := http.StatusText(code); text != "" {
		return fmt.Sprintf("%d %s", code, text)
	}
	return fmt.Sprintf("HTTP %d", code)
}
