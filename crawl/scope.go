package crawl

import (
	"net/url"
	"path"
	"strings"

	"github.com/fwojciec/siteaudit"
)

// skipExtensions are file types that are never audited as pages.
var skipExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".svg": true,
	".webp": true, ".ico": true, ".bmp": true, ".tif": true, ".tiff": true,
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	".ppt": true, ".pptx": true, ".csv": true, ".txt": true,
	".zip": true, ".rar": true, ".gz": true, ".tar": true, ".7z": true,
	".mp3": true, ".mp4": true, ".avi": true, ".mov": true, ".wmv": true, ".webm": true,
	".css": true, ".js": true, ".json": true, ".xml": true, ".rss": true,
	".woff": true, ".woff2": true, ".ttf": true, ".eot": true, ".otf": true,
}

// skipSegments are path segments of administrative, archive and asset
// areas that carry no audit value.
var skipSegments = map[string]bool{
	"wp-admin": true, "wp-content": true, "wp-includes": true, "wp-json": true,
	"admin": true, "login": true, "cart": true, "checkout": true, "cgi-bin": true,
	"blog": true, "feed": true, "rss": true, "search": true,
	"tag": true, "tags": true, "category": true, "author": true, "page": true,
	"assets": true, "static": true, "cdn-cgi": true, "uploads": true,
}

// skipParams are query parameters of paginated and search listings.
var skipParams = []string{"page", "paged", "s", "replytocom"}

// Scope decides which URLs belong to the audited site.
type Scope struct {
	host string
}

// NewScope returns the scope of the site rooted at rootURL.
func NewScope(rootURL string) *Scope {
	return &Scope{host: siteaudit.Hostname(rootURL)}
}

// Contains reports whether rawURL is an auditable page of the site: same
// domain (ignoring a leading www.) and not matched by any skip pattern.
func (s *Scope) Contains(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if !siteaudit.SameSite(s.host, u.Hostname()) {
		return false
	}
	return !Skipped(u)
}

// Skipped reports whether u matches a skip pattern.
func Skipped(u *url.URL) bool {
	p := strings.ToLower(u.Path)
	if skipExtensions[path.Ext(p)] {
		return true
	}
	for _, seg := range strings.Split(p, "/") {
		if skipSegments[seg] {
			return true
		}
	}
	q := u.Query()
	for _, param := range skipParams {
		if q.Has(param) {
			return true
		}
	}
	return false
}

// Key returns the deduplication key of rawURL. URLs that differ only in
// scheme, a leading www., letter case of the host, a trailing slash or the
// fragment share a key.
func Key(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return rawURL
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	p := strings.TrimSuffix(u.EscapedPath(), "/")
	key := host + p
	if u.RawQuery != "" {
		key += "?" + u.RawQuery
	}
	return key
}

// stripFragment removes any #fragment from rawURL.
func stripFragment(rawURL string) string {
	if i := strings.Index(rawURL, "#"); i != -1 {
		return rawURL[:i]
	}
	return rawURL
}
