package mock

import "github.com/fwojciec/siteaudit"

var _ siteaudit.SessionCache = (*SessionCache)(nil)

// SessionCache is a mock implementation of siteaudit.SessionCache.
type SessionCache struct {
	PageFn      func(url string) (*siteaudit.PageRecord, bool)
	StorePageFn func(url string, page *siteaudit.PageRecord)
	HostFn      func(host string) (bool, bool)
	StoreHostFn func(host string, resolved bool)
}

func (c *SessionCache) Page(url string) (*siteaudit.PageRecord, bool) {
	return c.PageFn(url)
}

func (c *SessionCache) StorePage(url string, page *siteaudit.PageRecord) {
	c.StorePageFn(url, page)
}

func (c *SessionCache) Host(host string) (bool, bool) {
	return c.HostFn(host)
}

func (c *SessionCache) StoreHost(host string, resolved bool) {
	c.StoreHostFn(host, resolved)
}
