package siteaudit

import "context"

// PageCategory is the business role assigned to a crawled page.
type PageCategory string

// Page categories, in classification precedence order.
const (
	CategoryContact     PageCategory = "contact"
	CategoryService     PageCategory = "service"
	CategoryLocation    PageCategory = "location"
	CategoryServiceArea PageCategory = "service-area"
	CategoryOther       PageCategory = "other"
)

// SiteStructure is the crawled site, grouped by page category.
// Before classification every non-homepage page sits in OtherPages.
type SiteStructure struct {
	Homepage         *PageRecord   `json:"homepage"`
	ContactPage      *PageRecord   `json:"contactPage,omitempty"`
	ServicePages     []*PageRecord `json:"servicePages"`
	LocationPages    []*PageRecord `json:"locationPages"`
	ServiceAreaPages []*PageRecord `json:"serviceAreaPages"`
	OtherPages       []*PageRecord `json:"otherPages"`
	HasSitemapXML    bool          `json:"hasSitemapXml"`
	ReachedMaxPages  bool          `json:"reachedMaxPages"`
}

// Pages returns every page in the structure, homepage first, followed by
// the category buckets in classification order.
func (s *SiteStructure) Pages() []*PageRecord {
	var pages []*PageRecord
	if s.Homepage != nil {
		pages = append(pages, s.Homepage)
	}
	pages = append(pages, s.ClassifiablePages()...)
	return pages
}

// ClassifiablePages returns every non-homepage page across all buckets.
func (s *SiteStructure) ClassifiablePages() []*PageRecord {
	var pages []*PageRecord
	if s.ContactPage != nil {
		pages = append(pages, s.ContactPage)
	}
	pages = append(pages, s.ServicePages...)
	pages = append(pages, s.LocationPages...)
	pages = append(pages, s.ServiceAreaPages...)
	pages = append(pages, s.OtherPages...)
	return pages
}

// PagesIn returns the pages in the given category bucket.
func (s *SiteStructure) PagesIn(category PageCategory) []*PageRecord {
	switch category {
	case CategoryContact:
		if s.ContactPage == nil {
			return nil
		}
		return []*PageRecord{s.ContactPage}
	case CategoryService:
		return s.ServicePages
	case CategoryLocation:
		return s.LocationPages
	case CategoryServiceArea:
		return s.ServiceAreaPages
	default:
		return s.OtherPages
	}
}

// SiteCrawler discovers and fetches the pages of one site.
// One SiteCrawler serves one audit at a time.
type SiteCrawler interface {
	// Crawl resets all per-run state and crawls the site rooted at url.
	// A failed homepage yields a structure whose Homepage carries an error.
	Crawl(ctx context.Context, url string) (*SiteStructure, error)

	// Continue resumes the previous crawl from its saved queue and visited set.
	Continue(ctx context.Context) (*SiteStructure, error)

	// RootURL returns the normalized root URL of the current session.
	RootURL() string

	// Stats returns statistics for the current session.
	Stats() CrawlerStats
}

// CrawlerStats summarizes one crawl session.
type CrawlerStats struct {
	PagesCrawled      int   `json:"pagesCrawled"`
	PagesSkipped      int   `json:"pagesSkipped"`
	ErrorsEncountered int   `json:"errorsEncountered"`
	CrawlTimeMs       int64 `json:"crawlTimeMs"`
}

// Classifier assigns every crawled page to a category bucket.
type Classifier interface {
	Classify(site *SiteStructure) *SiteStructure
}
