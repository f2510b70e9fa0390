// Package classify assigns crawled pages to business categories.
package classify

import (
	"github.com/fwojciec/siteaudit"
)

var _ siteaudit.Classifier = (*Classifier)(nil)

// Classifier buckets pages using keyword and pattern detectors. Detectors
// run in a fixed order (contact, service, location, service area) and the
// first match wins; unmatched pages stay in OtherPages. The homepage is
// never reclassified.
type Classifier struct{}

// NewClassifier creates a new Classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify returns a new structure with every non-homepage page of site
// placed in exactly one bucket. Only one page becomes the contact page:
// the one with the strongest contact signal, earliest on ties. Other
// contact candidates are matched against the remaining detectors.
// Classifying an already classified structure yields the same buckets.
func (c *Classifier) Classify(site *siteaudit.SiteStructure) *siteaudit.SiteStructure {
	out := &siteaudit.SiteStructure{
		Homepage:         site.Homepage,
		ServicePages:     []*siteaudit.PageRecord{},
		LocationPages:    []*siteaudit.PageRecord{},
		ServiceAreaPages: []*siteaudit.PageRecord{},
		OtherPages:       []*siteaudit.PageRecord{},
		HasSitemapXML:    site.HasSitemapXML,
		ReachedMaxPages:  site.ReachedMaxPages,
	}

	pages := site.ClassifiablePages()

	contact, best := -1, ContactNone
	for i, page := range pages {
		if s := ContactStrength(page); s > best {
			contact, best = i, s
		}
	}
	if contact >= 0 {
		out.ContactPage = pages[contact]
	}

	for i, page := range pages {
		if i == contact {
			continue
		}
		switch Category(page) {
		case siteaudit.CategoryService:
			out.ServicePages = append(out.ServicePages, page)
		case siteaudit.CategoryLocation:
			out.LocationPages = append(out.LocationPages, page)
		case siteaudit.CategoryServiceArea:
			out.ServiceAreaPages = append(out.ServiceAreaPages, page)
		default:
			out.OtherPages = append(out.OtherPages, page)
		}
	}
	return out
}

// Category returns the first non-contact category whose detector matches
// page, or CategoryOther.
func Category(page *siteaudit.PageRecord) siteaudit.PageCategory {
	switch {
	case IsService(page):
		return siteaudit.CategoryService
	case IsLocation(page):
		return siteaudit.CategoryLocation
	case IsServiceArea(page):
		return siteaudit.CategoryServiceArea
	default:
		return siteaudit.CategoryOther
	}
}
