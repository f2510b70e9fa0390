package crawl

import (
	"sync"
	"time"

	"github.com/fwojciec/siteaudit"
)

// State is the lifecycle state of a crawl session.
type State string

// Session states.
const (
	StateIdle      State = "idle"
	StateCrawling  State = "crawling"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Session holds everything a crawl of one site accumulates. It survives
// between Crawl and Continue and is replaced by the next Crawl.
type Session struct {
	mu sync.Mutex

	root     string
	state    State
	source   siteaudit.DiscoverySource
	sitemap  bool
	frontier *Frontier
	cache    siteaudit.SessionCache
	scope    *Scope
	homepage *siteaudit.PageRecord
	pages    []*siteaudit.PageRecord
	stats    siteaudit.CrawlerStats
	budget   int
	reached  bool
}

func newSession(root string, budget int, cache siteaudit.SessionCache) *Session {
	return &Session{
		root:     root,
		state:    StateIdle,
		frontier: NewFrontier(uint(max(budget, 1)) * 8),
		cache:    cache,
		scope:    NewScope(root),
		budget:   budget,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Stats returns a snapshot of the session statistics.
func (s *Session) Stats() siteaudit.CrawlerStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// record counts one fetch attempt. Failed pages are counted as errors and
// left out of the site structure.
func (s *Session) record(page *siteaudit.PageRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.PagesCrawled++
	if page.Failed() {
		s.stats.ErrorsEncountered++
		return
	}
	s.pages = append(s.pages, page)
}

// recordHomepage counts the homepage fetch and keeps the record apart
// from the other pages.
func (s *Session) recordHomepage(page *siteaudit.PageRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.PagesCrawled++
	s.homepage = page
	if page.Failed() {
		s.stats.ErrorsEncountered++
	}
}

func (s *Session) skipped(n int) {
	s.mu.Lock()
	s.stats.PagesSkipped += n
	s.mu.Unlock()
}

func (s *Session) elapsed(d time.Duration) {
	s.mu.Lock()
	s.stats.CrawlTimeMs += d.Milliseconds()
	s.mu.Unlock()
}

// remaining returns how many more fetches the budget allows.
func (s *Session) remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.budget - s.stats.PagesCrawled
}

// structure returns the unclassified site. Every non-homepage page is
// placed in OtherPages; the slices are fresh copies on every call.
func (s *Session) structure() *siteaudit.SiteStructure {
	s.mu.Lock()
	defer s.mu.Unlock()

	others := make([]*siteaudit.PageRecord, len(s.pages))
	copy(others, s.pages)
	return &siteaudit.SiteStructure{
		Homepage:         s.homepage,
		ServicePages:     []*siteaudit.PageRecord{},
		LocationPages:    []*siteaudit.PageRecord{},
		ServiceAreaPages: []*siteaudit.PageRecord{},
		OtherPages:       others,
		HasSitemapXML:    s.sitemap,
		ReachedMaxPages:  s.reached,
	}
}
