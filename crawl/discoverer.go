package crawl

import (
	"context"

	"github.com/fwojciec/siteaudit"
)

// Discoverer builds the initial URL list of a crawl. The sitemap is
// preferred; the homepage's internal links are used only when the sitemap
// yields no in-scope URL.
type Discoverer struct {
	Sitemaps siteaudit.SitemapService
}

// Discover returns the initial URLs for the site whose fetched homepage is
// given. Sitemap URLs are capped at limit when limit is positive; homepage
// links are not. The homepage itself is never part of the result. Only
// context errors are returned.
func (d *Discoverer) Discover(ctx context.Context, homepage *siteaudit.PageRecord, limit int) (siteaudit.Discovery, error) {
	scope := NewScope(homepage.URL)
	homeKey := Key(homepage.URL)

	var hasSitemap bool
	if d.Sitemaps != nil {
		urls, err := d.Sitemaps.DiscoverURLs(ctx, homepage.URL)
		if err != nil && ctx.Err() != nil {
			return siteaudit.Discovery{}, ctx.Err()
		}
		hasSitemap = len(urls) > 0
		if in := filterURLs(scope, homeKey, urls, limit); len(in) > 0 {
			return siteaudit.Discovery{Source: siteaudit.SourceSitemap, URLs: in, HasSitemap: true}, nil
		}
	}

	links := make([]string, 0, len(homepage.Links.Internal))
	for _, l := range homepage.Links.Internal {
		if !l.Broken {
			links = append(links, l.URL)
		}
	}
	return siteaudit.Discovery{
		Source:     siteaudit.SourceCrawl,
		URLs:       filterURLs(scope, homeKey, links, 0),
		HasSitemap: hasSitemap,
	}, nil
}

// filterURLs keeps in-scope URLs other than the homepage, deduplicated by
// key, stopping at limit when limit is positive.
func filterURLs(scope *Scope, homeKey string, urls []string, limit int) []string {
	seen := map[string]bool{homeKey: true}
	out := []string{}
	for _, u := range urls {
		if limit > 0 && len(out) == limit {
			break
		}
		u = stripFragment(u)
		key := Key(u)
		if seen[key] || !scope.Contains(u) {
			continue
		}
		seen[key] = true
		out = append(out, u)
	}
	return out
}
