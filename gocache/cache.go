// Package gocache implements per-session lookup caches using
// github.com/patrickmn/go-cache.
package gocache

import (
	"time"

	"github.com/fwojciec/siteaudit"
	gocache "github.com/patrickmn/go-cache"
)

// Default expiration settings. A session normally ends long before entries
// expire; expiry only bounds memory for abandoned sessions.
const (
	DefaultExpiration = 1 * time.Hour
	CleanupInterval   = 15 * time.Minute
)

// Ensure SessionCache implements siteaudit.SessionCache at compile time.
var _ siteaudit.SessionCache = (*SessionCache)(nil)

// SessionCache holds the response and DNS caches of one crawl session.
// SessionCache is safe for concurrent use.
type SessionCache struct {
	pages *gocache.Cache
	hosts *gocache.Cache
}

// NewSessionCache creates an empty SessionCache whose entries expire
// after ttl. A non-positive ttl uses DefaultExpiration.
func NewSessionCache(ttl time.Duration) *SessionCache {
	if ttl <= 0 {
		ttl = DefaultExpiration
	}
	return &SessionCache{
		pages: gocache.New(ttl, CleanupInterval),
		hosts: gocache.New(ttl, CleanupInterval),
	}
}

// Page returns the cached record for url.
func (c *SessionCache) Page(url string) (*siteaudit.PageRecord, bool) {
	v, ok := c.pages.Get(url)
	if !ok {
		return nil, false
	}
	page, ok := v.(*siteaudit.PageRecord)
	return page, ok
}

// StorePage caches page under url.
func (c *SessionCache) StorePage(url string, page *siteaudit.PageRecord) {
	c.pages.SetDefault(url, page)
}

// Host returns the cached resolution result for host.
func (c *SessionCache) Host(host string) (resolved bool, ok bool) {
	v, found := c.hosts.Get(host)
	if !found {
		return false, false
	}
	resolved, ok = v.(bool)
	return resolved, ok
}

// StoreHost caches the resolution result for host.
func (c *SessionCache) StoreHost(host string, resolved bool) {
	c.hosts.SetDefault(host, resolved)
}

// Flush empties both caches. Crawlers flush the cache of a session they
// discard.
func (c *SessionCache) Flush() {
	c.pages.Flush()
	c.hosts.Flush()
}
