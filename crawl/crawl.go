// Package crawl discovers and fetches the pages of one site for auditing.
// It combines sitemap discovery, a content-type pre-filter, bounded batches
// of concurrent fetches and link harvesting into a resumable session.
package crawl

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/fwojciec/siteaudit"
	"github.com/fwojciec/siteaudit/gocache"
	"golang.org/x/sync/errgroup"
)

// Crawl defaults.
const (
	DefaultMaxPages         = 250
	DefaultBatchSize        = 5
	DefaultBatchDelay       = 500 * time.Millisecond
	DefaultRequestJitter    = 300 * time.Millisecond
	DefaultLinksPerPage     = 5
	DefaultProbeConcurrency = 10
)

var _ siteaudit.SiteCrawler = (*Crawler)(nil)

// Crawler crawls one site at a time. Zero-valued tuning fields use the
// package defaults; Prober and Limiter are optional.
type Crawler struct {
	Fetcher  siteaudit.PageFetcher
	Sitemaps siteaudit.SitemapService
	Prober   siteaudit.ContentTypeProber
	Limiter  siteaudit.DomainLimiter

	// NewCache creates the cache of a new session. Defaults to an
	// in-memory gocache.SessionCache.
	NewCache func() siteaudit.SessionCache

	MaxPages         int
	BatchSize        int
	BatchDelay       time.Duration
	RequestJitter    time.Duration
	LinksPerPage     int
	ProbeConcurrency int

	// run serializes Crawl and Continue.
	run sync.Mutex

	mu      sync.Mutex
	session *Session
}

// Crawl discards any previous session and crawls the site rooted at rawURL.
// An invalid URL returns EINVALID. A homepage that cannot be fetched is not
// an error: the returned structure carries the failed homepage and nothing else.
func (c *Crawler) Crawl(ctx context.Context, rawURL string) (*siteaudit.SiteStructure, error) {
	root, err := siteaudit.NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	c.run.Lock()
	defer c.run.Unlock()

	s := newSession(root, c.maxPages(), c.newCache())
	c.mu.Lock()
	old := c.session
	c.session = s
	c.mu.Unlock()
	release(old)

	start := time.Now()
	s.setState(StateCrawling)
	s.frontier.Visit(root)

	home := c.Fetcher.Fetch(ctx, root, s.cache)
	s.recordHomepage(home)
	if home.Failed() {
		s.elapsed(time.Since(start))
		s.setState(StateFailed)
		return s.structure(), nil
	}
	if home.FinalURL != "" {
		s.frontier.Visit(home.FinalURL)
	}

	// The whole sitemap is queued so that URLs beyond the budget remain
	// for Continue.
	d := &Discoverer{Sitemaps: c.Sitemaps}
	disc, err := d.Discover(ctx, home, 0)
	if err != nil {
		s.elapsed(time.Since(start))
		s.setState(StateFailed)
		return nil, err
	}
	s.source = disc.Source
	s.sitemap = disc.HasSitemap

	for _, u := range disc.URLs {
		s.frontier.Push(u)
	}

	return c.walk(ctx, s, start)
}

// Continue resumes the previous session with a fresh page budget, keeping
// its queue and visited set. Returns EINVALID if there is nothing to resume.
func (c *Crawler) Continue(ctx context.Context) (*siteaudit.SiteStructure, error) {
	c.run.Lock()
	defer c.run.Unlock()

	c.mu.Lock()
	s := c.session
	c.mu.Unlock()
	if s == nil || s.homepage == nil || s.homepage.Failed() {
		return nil, siteaudit.Errorf(siteaudit.EINVALID, "no crawl session to continue")
	}

	s.mu.Lock()
	s.budget = s.stats.PagesCrawled + c.maxPages()
	s.reached = false
	s.mu.Unlock()
	s.setState(StateCrawling)

	return c.walk(ctx, s, time.Now())
}

// RootURL returns the normalized root URL of the current session, or an
// empty string if no crawl has run.
func (c *Crawler) RootURL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ""
	}
	return c.session.root
}

// Stats returns statistics for the current session.
func (c *Crawler) Stats() siteaudit.CrawlerStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return siteaudit.CrawlerStats{}
	}
	return c.session.Stats()
}

// State returns the lifecycle state of the current session.
func (c *Crawler) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return StateIdle
	}
	return c.session.State()
}

// Reset discards the current session.
func (c *Crawler) Reset() {
	c.mu.Lock()
	old := c.session
	c.session = nil
	c.mu.Unlock()
	release(old)
}

// release empties the cache of a discarded session if the cache supports it.
func release(s *Session) {
	if s == nil {
		return
	}
	if f, ok := s.cache.(interface{ Flush() }); ok {
		f.Flush()
	}
}

// walk fetches queued URLs in batches until the budget is spent or the
// queue is empty.
func (c *Crawler) walk(ctx context.Context, s *Session, start time.Time) (*siteaudit.SiteStructure, error) {
	defer func() { s.elapsed(time.Since(start)) }()

	for {
		if err := ctx.Err(); err != nil {
			s.setState(StateFailed)
			return nil, err
		}

		remaining := s.remaining()
		if remaining <= 0 {
			s.mu.Lock()
			s.reached = s.frontier.Len() > 0
			s.mu.Unlock()
			break
		}

		batch := s.frontier.PopN(min(c.batchSize(), remaining))
		if len(batch) == 0 {
			break
		}
		// Skipped URLs do not use up the budget.
		if batch = c.prefilter(ctx, s, batch); len(batch) == 0 {
			continue
		}

		for _, page := range c.fetchBatch(ctx, s.cache, batch) {
			s.record(page)
			if s.source == siteaudit.SourceCrawl && !page.Failed() {
				c.harvest(s, page)
			}
		}

		if s.frontier.Len() > 0 && s.remaining() > 0 {
			if err := sleep(ctx, c.batchDelay()); err != nil {
				s.setState(StateFailed)
				return nil, err
			}
		}
	}

	s.setState(StateCompleted)
	return s.structure(), nil
}

// fetchBatch fetches urls concurrently and returns the records in input order.
func (c *Crawler) fetchBatch(ctx context.Context, cache siteaudit.SessionCache, urls []string) []*siteaudit.PageRecord {
	pages := make([]*siteaudit.PageRecord, len(urls))
	var g errgroup.Group
	for i, u := range urls {
		g.Go(func() error {
			pages[i] = c.fetchOne(ctx, cache, u)
			return nil
		})
	}
	_ = g.Wait()
	return pages
}

func (c *Crawler) fetchOne(ctx context.Context, cache siteaudit.SessionCache, u string) *siteaudit.PageRecord {
	if jitter := c.requestJitter(); jitter > 0 {
		if err := sleep(ctx, rand.N(jitter)); err != nil {
			return siteaudit.NewErrorPage(u, 0, "Fetch Error", err.Error())
		}
	}
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx, siteaudit.Hostname(u)); err != nil {
			return siteaudit.NewErrorPage(u, 0, "Fetch Error", err.Error())
		}
	}
	return c.Fetcher.Fetch(ctx, u, cache)
}

// harvest queues up to LinksPerPage new in-scope internal links of page.
func (c *Crawler) harvest(s *Session, page *siteaudit.PageRecord) int {
	limit := c.linksPerPage()
	added := 0
	for _, l := range page.Links.Internal {
		if added == limit {
			break
		}
		if l.Broken || !s.scope.Contains(l.URL) {
			continue
		}
		if s.frontier.Push(l.URL) {
			added++
		}
	}
	return added
}

// prefilter drops URLs of a batch whose HEAD response is not HTML. Probe
// failures keep the URL. Order is preserved.
func (c *Crawler) prefilter(ctx context.Context, s *Session, urls []string) []string {
	if c.Prober == nil || len(urls) == 0 {
		return urls
	}

	keep := make([]bool, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.probeConcurrency())
	for i, u := range urls {
		g.Go(func() error {
			keep[i] = c.Prober.IsHTML(gctx, u)
			return nil
		})
	}
	_ = g.Wait()

	out := make([]string, 0, len(urls))
	for i, u := range urls {
		if keep[i] {
			out = append(out, u)
		}
	}
	s.skipped(len(urls) - len(out))
	return out
}

func (c *Crawler) newCache() siteaudit.SessionCache {
	if c.NewCache != nil {
		return c.NewCache()
	}
	return gocache.NewSessionCache(0)
}

func (c *Crawler) maxPages() int {
	if c.MaxPages > 0 {
		return c.MaxPages
	}
	return DefaultMaxPages
}

func (c *Crawler) batchSize() int {
	if c.BatchSize > 0 {
		return c.BatchSize
	}
	return DefaultBatchSize
}

func (c *Crawler) batchDelay() time.Duration {
	if c.BatchDelay < 0 {
		return 0
	}
	if c.BatchDelay > 0 {
		return c.BatchDelay
	}
	return DefaultBatchDelay
}

func (c *Crawler) requestJitter() time.Duration {
	if c.RequestJitter < 0 {
		return 0
	}
	if c.RequestJitter > 0 {
		return c.RequestJitter
	}
	return DefaultRequestJitter
}

func (c *Crawler) linksPerPage() int {
	if c.LinksPerPage > 0 {
		return c.LinksPerPage
	}
	return DefaultLinksPerPage
}

func (c *Crawler) probeConcurrency() int {
	if c.ProbeConcurrency > 0 {
		return c.ProbeConcurrency
	}
	return DefaultProbeConcurrency
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
