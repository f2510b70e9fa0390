package siteaudit

import "context"

// SitemapService discovers URLs from website sitemaps.
type SitemapService interface {
	// DiscoverURLs returns the page URLs listed in the site's sitemap.
	// Candidates are taken from robots.txt Sitemap directives, then the
	// conventional /sitemap.xml, /sitemap_index.xml and /sitemap-index.xml
	// locations. Sitemap indexes are resolved recursively. The first
	// candidate yielding at least one URL ends probing; a site without a
	// usable sitemap returns an empty slice and no error.
	DiscoverURLs(ctx context.Context, baseURL string) ([]string, error)
}

// DiscoverySource names the strategy that produced a Discovery.
type DiscoverySource string

// Discovery sources.
const (
	SourceSitemap DiscoverySource = "sitemap"
	SourceCrawl   DiscoverySource = "crawl"
)

// Discovery is the initial URL list for a crawl together with the strategy
// that produced it. Sitemap results take precedence; link-following is
// used only when the sitemap yields nothing.
// HasSitemap is set whenever a sitemap listed any URL, even if none of
// them was in scope and the crawl fell back to links.
type Discovery struct {
	Source     DiscoverySource `json:"source"`
	URLs       []string        `json:"urls"`
	HasSitemap bool            `json:"hasSitemap"`
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
