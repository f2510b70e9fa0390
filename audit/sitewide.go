package audit

import (
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/siteaudit"
	sagoquery "github.com/fwojciec/siteaudit/goquery"
)

// Site-wide checks.
var (
	CheckNavigationConsistency = Check{"Navigation Consistency", "Pages should share the homepage navigation", siteaudit.ImportanceMedium}
	CheckNavigationSize        = Check{"Navigation Size", "Main navigation should have 3-30 links", siteaudit.ImportanceLow}
	CheckFooterLinks           = Check{"Footer Links", "Footer should link to key pages", siteaudit.ImportanceLow}
	CheckKeyPagesInNavigation  = Check{"Key Pages in Navigation", "Navigation should reach the contact page and services", siteaudit.ImportanceHigh}

	CheckOrphanPages       = Check{"Orphan Pages", "Every page should be linked from another crawled page", siteaudit.ImportanceMedium}
	CheckLinkDensity       = Check{"Internal Link Density", "Pages should average at least 5 internal links; below 2 is a priority", siteaudit.ImportanceMedium}
	CheckHomepageReach     = Check{"Homepage Link Reach", "The homepage should link directly to key pages", siteaudit.ImportanceMedium}
	CheckPagesWithBroken   = Check{"Pages with Broken Links", "No page should contain broken internal links", siteaudit.ImportanceHigh}
	CheckAnchorTextQuality = Check{"Anchor Text Quality", "Internal links should use descriptive anchor text", siteaudit.ImportanceLow}

	CheckLengthConsistency   = Check{"Content Length Consistency", "Page lengths should not vary wildly", siteaudit.ImportanceLow}
	CheckBrandingConsistency = Check{"Branding Consistency", "Page titles should carry the business name", siteaudit.ImportanceMedium}
	CheckMetaCoverage        = Check{"Meta Description Coverage", "At least 90% of pages need a meta description", siteaudit.ImportanceMedium}
	CheckLanguageConsistency = Check{"Language Consistency", "Pages should declare the same language", siteaudit.ImportanceLow}

	CheckDuplicateContent = Check{"Duplicate Content", "Pages should not repeat the same main content", siteaudit.ImportanceHigh}
	CheckThinContent      = Check{"Thin Content", "Few pages should have fewer than 300 words", siteaudit.ImportanceHigh}
	CheckDuplicateTitles  = Check{"Duplicate Title Tags", "Every page should have a unique title", siteaudit.ImportanceMedium}
	CheckDuplicateMeta    = Check{"Duplicate Meta Descriptions", "Every page should have a unique meta description", siteaudit.ImportanceMedium}
)

var genericAnchors = map[string]bool{
	"click here": true, "here": true, "read more": true, "learn more": true,
	"more": true, "this": true, "link": true, "go": true,
}

// NavigationConsistency compares each page's navigation with the homepage's.
func NavigationConsistency(site *siteaudit.SiteStructure, docs map[*siteaudit.PageRecord]*goquery.Document) []siteaudit.Finding {
	const label = LabelSiteWideLinks
	checks := []Check{CheckNavigationConsistency, CheckNavigationSize, CheckFooterLinks, CheckKeyPagesInNavigation}
	home := site.Homepage
	if home == nil || docs[home] == nil {
		return allNA(checks, "Homepage could not be analyzed", label)
	}

	homeRegions, err := sagoquery.RegionLinks(docs[home], home.URL)
	if err != nil {
		return allNA(checks, "Homepage could not be analyzed", label)
	}
	homeNav := keySet(homeRegions[sagoquery.RegionNav])

	out := make([]siteaudit.Finding, 0, len(checks))

	others := site.ClassifiablePages()
	switch {
	case len(homeNav) == 0:
		out = append(out, CheckNavigationConsistency.NA("Homepage has no navigation links", label))
	case len(others) == 0:
		out = append(out, CheckNavigationConsistency.NA("No other pages to compare", label))
	default:
		consistent := share(others, func(p *siteaudit.PageRecord) bool {
			doc := docs[p]
			if doc == nil {
				return false
			}
			regions, err := sagoquery.RegionLinks(doc, p.URL)
			if err != nil {
				return false
			}
			return jaccard(homeNav, keySet(regions[sagoquery.RegionNav])) >= ShareOK
		})
		out = append(out, CheckNavigationConsistency.Finding(Higher(consistent, 0.9, SharePoor),
			fmt.Sprintf("Navigation matches the homepage on %s of pages", percent(consistent)), label))
	}

	n := len(homeNav)
	out = append(out, CheckNavigationSize.Finding(Within(float64(n), 3, 30, 1, 50),
		fmt.Sprintf("%d navigation links", n), label))

	footer := len(homeRegions[sagoquery.RegionFooter])
	out = append(out, CheckFooterLinks.Finding(Present(footer > 0, siteaudit.StatusOFI),
		fmt.Sprintf("%d footer links", footer), label))

	out = append(out, keyPagesInNavigation(site, homeNav, label))
	return out
}

func keyPagesInNavigation(site *siteaudit.SiteStructure, nav map[string]bool, label string) siteaudit.Finding {
	hasContact := site.ContactPage != nil
	hasServices := len(site.ServicePages) > 0
	if !hasContact && !hasServices {
		return CheckKeyPagesInNavigation.NA("No contact or service pages found", label)
	}

	var reached, wanted int
	var missing []string
	if hasContact {
		wanted++
		if nav[linkKey(site.ContactPage.URL)] {
			reached++
		} else {
			missing = append(missing, "contact page")
		}
	}
	if hasServices {
		wanted++
		var linked bool
		for _, p := range site.ServicePages {
			if nav[linkKey(p.URL)] {
				linked = true
				break
			}
		}
		if linked {
			reached++
		} else {
			missing = append(missing, "service pages")
		}
	}

	switch {
	case reached == wanted:
		return CheckKeyPagesInNavigation.Finding(siteaudit.StatusOK, "Navigation reaches all key pages", label)
	case reached == 0:
		return CheckKeyPagesInNavigation.Finding(siteaudit.StatusPriorityOFI, "Navigation misses "+strings.Join(missing, " and "), label)
	default:
		return CheckKeyPagesInNavigation.Finding(siteaudit.StatusOFI, "Navigation misses "+strings.Join(missing, " and "), label)
	}
}

// InternalLinking evaluates the internal link graph of the crawled pages.
func InternalLinking(site *siteaudit.SiteStructure) []siteaudit.Finding {
	const label = LabelSiteWideLinks
	pages := site.Pages()
	if len(pages) == 0 {
		return allNA([]Check{CheckOrphanPages, CheckLinkDensity, CheckHomepageReach, CheckPagesWithBroken, CheckAnchorTextQuality},
			"No pages crawled", label)
	}
	others := site.ClassifiablePages()
	out := make([]siteaudit.Finding, 0, 5)

	if len(others) == 0 {
		out = append(out, CheckOrphanPages.NA("Only the homepage was crawled", label))
	} else {
		linked := make(map[string]bool)
		for _, p := range pages {
			self := linkKey(p.URL)
			for _, l := range p.Links.Internal {
				if k := linkKey(l.URL); k != self {
					linked[k] = true
				}
			}
		}
		orphans := share(others, func(p *siteaudit.PageRecord) bool { return !linked[linkKey(p.URL)] })
		out = append(out, CheckOrphanPages.Finding(Lower(orphans, 0, 0.25),
			fmt.Sprintf("%s of pages are not linked from other crawled pages", percent(orphans)), label))
	}

	avg := average(pages, func(p *siteaudit.PageRecord) float64 { return float64(len(p.Links.Internal)) })
	out = append(out, CheckLinkDensity.Finding(Higher(avg, 5, 2), fmt.Sprintf("Average of %.1f internal links per page", avg), label))

	if site.Homepage == nil || len(others) == 0 {
		out = append(out, CheckHomepageReach.NA("No pages beyond the homepage", label))
	} else {
		fromHome := keySet(linkURLs(site.Homepage.Links.Internal))
		key := others
		if important := importantPages(site); len(important) > 0 {
			key = important
		}
		reach := share(key, func(p *siteaudit.PageRecord) bool { return fromHome[linkKey(p.URL)] })
		out = append(out, CheckHomepageReach.Finding(Higher(reach, 0.5, 0.1),
			fmt.Sprintf("Homepage links to %s of key pages", percent(reach)), label))
	}

	broken := share(pages, func(p *siteaudit.PageRecord) bool { return p.Links.BrokenCount() > 0 })
	out = append(out, CheckPagesWithBroken.Finding(Lower(broken, 0, 0.2),
		fmt.Sprintf("%s of pages contain broken internal links", percent(broken)), label))

	var total, generic int
	for _, p := range pages {
		for _, l := range p.Links.Internal {
			total++
			if a := strings.ToLower(strings.TrimSpace(l.AnchorText)); a == "" || genericAnchors[a] {
				generic++
			}
		}
	}
	if total == 0 {
		out = append(out, CheckAnchorTextQuality.NA("No internal links", label))
	} else {
		g := float64(generic) / float64(total)
		out = append(out, CheckAnchorTextQuality.Finding(Lower(g, 0.1, 0.3),
			fmt.Sprintf("%d of %d internal links use empty or generic anchor text", generic, total), label))
	}
	return out
}

// ContentConsistency compares length, branding and metadata across pages.
func ContentConsistency(site *siteaudit.SiteStructure) []siteaudit.Finding {
	const label = LabelSiteWideContent
	pages := site.Pages()
	if len(pages) == 0 {
		return allNA([]Check{CheckLengthConsistency, CheckBrandingConsistency, CheckMetaCoverage, CheckLanguageConsistency},
			"No pages crawled", label)
	}
	out := make([]siteaudit.Finding, 0, 4)

	if len(pages) < 2 {
		out = append(out, CheckLengthConsistency.NA("Fewer than two pages", label))
	} else {
		mean := average(pages, func(p *siteaudit.PageRecord) float64 { return float64(p.WordCount) })
		variance := average(pages, func(p *siteaudit.PageRecord) float64 {
			d := float64(p.WordCount) - mean
			return d * d
		})
		cv := 0.0
		if mean > 0 {
			cv = math.Sqrt(variance) / mean
		}
		out = append(out, CheckLengthConsistency.Finding(Lower(cv, 0.5, 1.0),
			fmt.Sprintf("Word counts vary by %.0f%% around a mean of %.0f", cv*100, mean), label))
	}

	var name string
	if site.Homepage != nil {
		name = sagoquery.BusinessName(site.Homepage)
	}
	if name == "" {
		out = append(out, CheckBrandingConsistency.NA("Business name could not be determined", label))
	} else {
		lower := strings.ToLower(name)
		branded := share(pages, func(p *siteaudit.PageRecord) bool {
			return strings.Contains(strings.ToLower(p.Title), lower)
		})
		out = append(out, CheckBrandingConsistency.Finding(Higher(branded, ShareOK, SharePoor),
			fmt.Sprintf("%q appears in %s of titles", name, percent(branded)), label))
	}

	withMeta := share(pages, func(p *siteaudit.PageRecord) bool { return strings.TrimSpace(p.MetaDescription) != "" })
	out = append(out, CheckMetaCoverage.Finding(Higher(withMeta, 0.9, SharePoor),
		fmt.Sprintf("Meta descriptions on %s of pages", percent(withMeta)), label))

	langs := make(map[string]bool)
	for _, p := range pages {
		if l := strings.ToLower(strings.TrimSpace(p.Meta.Lang)); l != "" {
			langs[l] = true
		}
	}
	switch len(langs) {
	case 0:
		out = append(out, CheckLanguageConsistency.NA("No page declares a language", label))
	case 1:
		out = append(out, CheckLanguageConsistency.Finding(siteaudit.StatusOK, "One declared language", label))
	default:
		out = append(out, CheckLanguageConsistency.Finding(siteaudit.StatusOFI, fmt.Sprintf("%d declared languages", len(langs)), label))
	}
	return out
}

// DuplicateContent finds repeated and thin content across pages.
func DuplicateContent(site *siteaudit.SiteStructure, fp siteaudit.Fingerprinter) []siteaudit.Finding {
	const label = LabelSiteWideContent
	pages := site.Pages()
	if len(pages) == 0 {
		return allNA([]Check{CheckDuplicateContent, CheckThinContent, CheckDuplicateTitles, CheckDuplicateMeta},
			"No pages crawled", label)
	}
	out := make([]siteaudit.Finding, 0, 4)

	if len(pages) < 2 {
		out = append(out, CheckDuplicateContent.NA("Fewer than two pages", label))
	} else {
		groups := make(map[uint64]int)
		for _, p := range pages {
			if h := fp.Fingerprint(p); h != 0 {
				groups[h]++
			}
		}
		var dup int
		for _, n := range groups {
			if n > 1 {
				dup += n
			}
		}
		s := float64(dup) / float64(len(pages))
		out = append(out, CheckDuplicateContent.Finding(Lower(s, 0, 0.2),
			fmt.Sprintf("%d of %d pages share their main content with another page", dup, len(pages)), label))
	}

	thin := share(pages, func(p *siteaudit.PageRecord) bool { return p.ThinContent() })
	out = append(out, CheckThinContent.Finding(Lower(thin, 0.1, SharePoor),
		fmt.Sprintf("%s of pages have fewer than %d words", percent(thin), siteaudit.ThinContentWords), label))

	d := duplicates(titles(pages))
	out = append(out, CheckDuplicateTitles.Finding(Lower(float64(d), 0, 3), fmt.Sprintf("%d pages share a title", d), label))

	metas := make([]string, len(pages))
	for i, p := range pages {
		metas[i] = p.MetaDescription
	}
	d = duplicates(metas)
	out = append(out, CheckDuplicateMeta.Finding(Lower(float64(d), 0, 3), fmt.Sprintf("%d pages share a meta description", d), label))
	return out
}

// importantPages returns the contact and service pages of site.
func importantPages(site *siteaudit.SiteStructure) []*siteaudit.PageRecord {
	var out []*siteaudit.PageRecord
	if site.ContactPage != nil {
		out = append(out, site.ContactPage)
	}
	return append(out, site.ServicePages...)
}

func allNA(checks []Check, reason, label string) []siteaudit.Finding {
	out := make([]siteaudit.Finding, len(checks))
	for i, c := range checks {
		out[i] = c.NA(reason, label)
	}
	return out
}

// linkKey identifies a page URL ignoring scheme, a leading www., a trailing
// slash and the fragment.
func linkKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	return host + strings.TrimSuffix(u.Path, "/") + "?" + u.RawQuery
}

func keySet(urls []string) map[string]bool {
	out := make(map[string]bool, len(urls))
	for _, u := range urls {
		out[linkKey(u)] = true
	}
	return out
}

func linkURLs(links []siteaudit.LinkRef) []string {
	out := make([]string, len(links))
	for i, l := range links {
		out[i] = l.URL
	}
	return out
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	var inter int
	for k := range a {
		if b[k] {
			inter++
		}
	}
	return float64(inter) / float64(len(a)+len(b)-inter)
}
