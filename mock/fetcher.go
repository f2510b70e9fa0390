package mock

import (
	"context"

	"github.com/fwojciec/siteaudit"
)

var (
	_ siteaudit.PageFetcher       = (*PageFetcher)(nil)
	_ siteaudit.PageExtractor     = (*PageExtractor)(nil)
	_ siteaudit.JSDetector        = (*JSDetector)(nil)
	_ siteaudit.Renderer          = (*Renderer)(nil)
	_ siteaudit.LinkVerifier      = (*LinkVerifier)(nil)
	_ siteaudit.ContentTypeProber = (*ContentTypeProber)(nil)
	_ siteaudit.Resolver          = (*Resolver)(nil)
)

// PageFetcher is a mock implementation of siteaudit.PageFetcher.
type PageFetcher struct {
	FetchFn func(ctx context.Context, url string, cache siteaudit.SessionCache) *siteaudit.PageRecord
}

func (f *PageFetcher) Fetch(ctx context.Context, url string, cache siteaudit.SessionCache) *siteaudit.PageRecord {
	return f.FetchFn(ctx, url, cache)
}

// PageExtractor is a mock implementation of siteaudit.PageExtractor.
type PageExtractor struct {
	ExtractFn func(html string, baseURL string) (*siteaudit.PageRecord, error)
}

func (e *PageExtractor) Extract(html string, baseURL string) (*siteaudit.PageRecord, error) {
	return e.ExtractFn(html, baseURL)
}

// JSDetector is a mock implementation of siteaudit.JSDetector.
type JSDetector struct {
	IsJSHeavyFn func(html string) bool
}

func (d *JSDetector) IsJSHeavy(html string) bool {
	return d.IsJSHeavyFn(html)
}

// Renderer is a mock implementation of siteaudit.Renderer.
type Renderer struct {
	RenderFn func(ctx context.Context, url string) (string, error)
	CloseFn  func() error
}

func (r *Renderer) Render(ctx context.Context, url string) (string, error) {
	return r.RenderFn(ctx, url)
}

func (r *Renderer) Close() error {
	return r.CloseFn()
}

// LinkVerifier is a mock implementation of siteaudit.LinkVerifier.
type LinkVerifier struct {
	BrokenFn func(ctx context.Context, url string) bool
}

func (v *LinkVerifier) Broken(ctx context.Context, url string) bool {
	return v.BrokenFn(ctx, url)
}

// ContentTypeProber is a mock implementation of siteaudit.ContentTypeProber.
type ContentTypeProber struct {
	IsHTMLFn func(ctx context.Context, url string) bool
}

func (p *ContentTypeProber) IsHTML(ctx context.Context, url string) bool {
	return p.IsHTMLFn(ctx, url)
}

// Resolver is a mock implementation of siteaudit.Resolver.
type Resolver struct {
	LookupHostFn func(ctx context.Context, host string) ([]string, error)
}

func (r *Resolver) LookupHost(ctx context.Context, host string) ([]string, error) {
	return r.LookupHostFn(ctx, host)
}
