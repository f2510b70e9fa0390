package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/siteaudit"
)

// Region is a layout area of a page.
type Region string

// Page regions, in extraction order.
const (
	RegionNav     Region = "nav"
	RegionSidebar Region = "sidebar"
	RegionContent Region = "content"
	RegionFooter  Region = "footer"
)

// regionSelectors maps each region to the selectors of its links.
var regionSelectors = []struct {
	region   Region
	selector string
}{
	{RegionNav, "nav a[href], header a[href], [role=navigation] a[href]"},
	{RegionSidebar, "aside a[href]"},
	{RegionContent, "main a[href], article a[href]"},
	{RegionFooter, "footer a[href]"},
}

// RegionLinks returns the same-site links of doc grouped by page region.
// A link is assigned to the first region it appears in, so a link in a
// navigation bar inside a header is only reported under RegionNav. Links
// are resolved against baseURL, stripped of fragments and deduplicated.
func RegionLinks(doc *goquery.Document, baseURL string) (map[Region][]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, siteaudit.Errorf(siteaudit.EINVALID, "invalid base URL: %v", err)
	}

	out := make(map[Region][]string, len(regionSelectors))
	seen := make(map[string]bool)
	for _, rs := range regionSelectors {
		links := []string{}
		doc.Find(rs.selector).Each(func(_ int, sel *goquery.Selection) {
			href := strings.TrimSpace(sel.AttrOr("href", ""))
			if href == "" || strings.HasPrefix(href, "#") || isNonHTTPLink(href) {
				return
			}
			resolved, ok := resolveURL(base, href)
			if !ok || resolved == "" || !siteaudit.SameSite(base.Hostname(), siteaudit.Hostname(resolved)) {
				return
			}
			if seen[resolved] {
				return
			}
			seen[resolved] = true
			links = append(links, resolved)
		})
		out[rs.region] = links
	}
	return out, nil
}
