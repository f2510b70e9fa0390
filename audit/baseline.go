package audit

import (
	"fmt"
	"time"

	"github.com/fwojciec/siteaudit"
)

var _ siteaudit.Analyzer = (*Baseline)(nil)

// Baseline runs the core checks over a classified site. Each report
// category has a fixed list of checks; a category without pages reports
// every one of its checks as N/A.
type Baseline struct {
	// Now returns the report timestamp. Defaults to time.Now.
	Now func() time.Time
}

// NewBaseline creates a new Baseline analyzer.
func NewBaseline() *Baseline {
	return &Baseline{Now: time.Now}
}

// Analyze returns the baseline report of site.
func (b *Baseline) Analyze(site *siteaudit.SiteStructure) *siteaudit.Report {
	r := newReport(site, b.Now)
	for _, s := range baselineSections {
		pages := s.pages(site)
		for _, c := range s.checks {
			if len(pages) == 0 {
				r.Add(s.category, c.NA(s.absent, s.label))
				continue
			}
			status, notes := c.eval(pages, site)
			r.Add(s.category, c.Finding(status, notes, s.label))
		}
	}
	r.Summarize()
	return r
}

func newReport(site *siteaudit.SiteStructure, now func() time.Time) *siteaudit.Report {
	if now == nil {
		now = time.Now
	}
	r := &siteaudit.Report{Timestamp: now().UTC()}
	if site.Homepage != nil {
		r.URL = site.Homepage.URL
	}
	for _, c := range siteaudit.ReportCategories {
		r.Section(c).Items = []siteaudit.Finding{}
	}
	return r
}

// siteCheck evaluates a check over the pages of one category.
type siteCheck struct {
	Check
	eval func(pages []*siteaudit.PageRecord, site *siteaudit.SiteStructure) (siteaudit.Status, string)
}

type section struct {
	category siteaudit.ReportCategory
	label    string
	absent   string
	pages    func(*siteaudit.SiteStructure) []*siteaudit.PageRecord
	checks   []siteCheck
}

func homepageOnly(site *siteaudit.SiteStructure) []*siteaudit.PageRecord {
	if site.Homepage == nil {
		return nil
	}
	return []*siteaudit.PageRecord{site.Homepage}
}

func allPages(site *siteaudit.SiteStructure) []*siteaudit.PageRecord {
	return site.Pages()
}

func bucket(category siteaudit.PageCategory) func(*siteaudit.SiteStructure) []*siteaudit.PageRecord {
	return func(site *siteaudit.SiteStructure) []*siteaudit.PageRecord {
		return site.PagesIn(category)
	}
}

// first adapts a single-page grading function to a site check.
func first(fn func(*siteaudit.PageRecord) (siteaudit.Status, string)) func([]*siteaudit.PageRecord, *siteaudit.SiteStructure) (siteaudit.Status, string) {
	return func(pages []*siteaudit.PageRecord, _ *siteaudit.SiteStructure) (siteaudit.Status, string) {
		return fn(pages[0])
	}
}

// ofShare adapts a page predicate to a site check graded by share of pages.
func ofShare(what string, fn func(*siteaudit.PageRecord) bool) func([]*siteaudit.PageRecord, *siteaudit.SiteStructure) (siteaudit.Status, string) {
	return func(pages []*siteaudit.PageRecord, _ *siteaudit.SiteStructure) (siteaudit.Status, string) {
		return gradeShare(pages, what, fn)
	}
}

func ofAverageWords(pages []*siteaudit.PageRecord, _ *siteaudit.SiteStructure) (siteaudit.Status, string) {
	avg := average(pages, func(p *siteaudit.PageRecord) float64 { return float64(p.WordCount) })
	return Higher(avg, WordsOK, WordsPoor), fmt.Sprintf("Average of %.0f words per page", avg)
}

func ofUniqueTitles(pages []*siteaudit.PageRecord, _ *siteaudit.SiteStructure) (siteaudit.Status, string) {
	return gradeUnique(pages, "title", func(p *siteaudit.PageRecord) string { return p.Title })
}

func ofPageCount(want int) func([]*siteaudit.PageRecord, *siteaudit.SiteStructure) (siteaudit.Status, string) {
	return func(pages []*siteaudit.PageRecord, _ *siteaudit.SiteStructure) (siteaudit.Status, string) {
		return Higher(float64(len(pages)), float64(want), 1), fmt.Sprintf("%d pages found (recommended at least %d)", len(pages), want)
	}
}

var baselineSections = []section{
	{
		category: siteaudit.ReportOnPage,
		label:    LabelOnPage,
		absent:   "Homepage could not be analyzed",
		pages:    homepageOnly,
		checks: []siteCheck{
			{Check{"Title Tag", "Homepage title should be 30-60 characters", siteaudit.ImportanceHigh},
				first(func(p *siteaudit.PageRecord) (siteaudit.Status, string) { return gradeTitle(p.Title) })},
			{Check{"Meta Description", "Homepage meta description should be 120-160 characters", siteaudit.ImportanceHigh},
				first(func(p *siteaudit.PageRecord) (siteaudit.Status, string) { return gradeMeta(p.MetaDescription) })},
			{Check{"H1 Heading", "Homepage should have exactly one H1", siteaudit.ImportanceHigh}, first(gradeH1)},
			{Check{"Heading Structure", "An H2 should follow the H1", siteaudit.ImportanceMedium},
				first(func(p *siteaudit.PageRecord) (siteaudit.Status, string) {
					switch {
					case len(p.Headings.H2) == 0:
						return siteaudit.StatusOFI, "No H2 headings"
					case p.Accessibility.H1FollowedByH2:
						return siteaudit.StatusOK, fmt.Sprintf("%d H2 headings", len(p.Headings.H2))
					default:
						return siteaudit.StatusOFI, "H1 is not followed by an H2"
					}
				})},
			{Check{"Content Length", "Homepage should have at least 300 words; below 150 is a priority", siteaudit.ImportanceHigh},
				first(func(p *siteaudit.PageRecord) (siteaudit.Status, string) { return gradeWords(p.WordCount) })},
			{Check{"Readability", "Flesch reading ease of 60 or above; below 30 is a priority", siteaudit.ImportanceMedium},
				first(func(p *siteaudit.PageRecord) (siteaudit.Status, string) { return gradeReadability(p.BodyText) })},
			{Check{"Image Alt Text", "At least 90% of images need alt text; below 50% is a priority", siteaudit.ImportanceMedium}, first(gradeAlt)},
			{Check{"Mobile Friendly", "Page should declare a responsive viewport", siteaudit.ImportanceHigh},
				first(func(p *siteaudit.PageRecord) (siteaudit.Status, string) {
					return Present(p.MobileFriendly, siteaudit.StatusPriorityOFI), "Viewport: " + p.Meta.Viewport
				})},
			{Check{"HTTPS", "Site should be served over HTTPS", siteaudit.ImportanceHigh},
				first(func(p *siteaudit.PageRecord) (siteaudit.Status, string) {
					return Present(p.HasHTTPS, siteaudit.StatusPriorityOFI), p.URL
				})},
			{Check{"Page Speed", "Speed score of 75 or above; below 30 is a priority", siteaudit.ImportanceHigh}, first(gradeSpeed)},
			{Check{"Schema Markup", "Homepage should carry structured data", siteaudit.ImportanceMedium},
				first(func(p *siteaudit.PageRecord) (siteaudit.Status, string) {
					return Present(p.HasSchema, siteaudit.StatusOFI), fmt.Sprintf("Schema types: %v", p.SchemaTypes)
				})},
			{Check{"Canonical Tag", "Homepage should declare a canonical URL", siteaudit.ImportanceMedium},
				first(func(p *siteaudit.PageRecord) (siteaudit.Status, string) {
					return Present(p.HasCanonical, siteaudit.StatusOFI), p.Meta.CanonicalURL
				})},
			{Check{"Social Meta Tags", "Open Graph or Twitter card tags should be present", siteaudit.ImportanceLow},
				first(func(p *siteaudit.PageRecord) (siteaudit.Status, string) {
					return Present(p.HasSocialTags, siteaudit.StatusOFI), fmt.Sprintf("%d Open Graph tags", len(p.Meta.OpenGraph))
				})},
			{Check{"NAP on Homepage", "Business name, address and phone should appear on the homepage", siteaudit.ImportanceHigh}, first(gradeNAP)},
			{Check{"Security", "HTTPS without mixed content and at least two security headers", siteaudit.ImportanceMedium}, first(gradeSecurity)},
		},
	},
	{
		category: siteaudit.ReportStructureNavigation,
		label:    LabelStructure,
		absent:   "No pages crawled",
		pages:    allPages,
		checks: []siteCheck{
			{Check{"XML Sitemap", "Site should publish an XML sitemap", siteaudit.ImportanceMedium},
				func(_ []*siteaudit.PageRecord, site *siteaudit.SiteStructure) (siteaudit.Status, string) {
					if site.HasSitemapXML {
						return siteaudit.StatusOK, "Sitemap found"
					}
					return siteaudit.StatusOFI, "No sitemap found; pages were discovered by following links"
				}},
			{Check{"Broken Links", "No broken internal links; more than 5 is a priority", siteaudit.ImportanceHigh},
				func(pages []*siteaudit.PageRecord, _ *siteaudit.SiteStructure) (siteaudit.Status, string) {
					var n int
					for _, p := range pages {
						n += p.Links.BrokenCount()
					}
					return gradeBroken(n)
				}},
			{Check{"Internal Linking", "Pages should average at least 3 internal links", siteaudit.ImportanceMedium},
				func(pages []*siteaudit.PageRecord, _ *siteaudit.SiteStructure) (siteaudit.Status, string) {
					avg := average(pages, func(p *siteaudit.PageRecord) float64 { return float64(len(p.Links.Internal)) })
					return Higher(avg, InternalLinksOK, InternalLinksLow), fmt.Sprintf("Average of %.1f internal links per page", avg)
				}},
			{Check{"Indexable Pages", "Site should have at least 5 pages", siteaudit.ImportanceMedium},
				func(pages []*siteaudit.PageRecord, _ *siteaudit.SiteStructure) (siteaudit.Status, string) {
					return Higher(float64(len(pages)), 5, 2), fmt.Sprintf("%d pages crawled", len(pages))
				}},
			{Check{"Contact Page", "Site should have a dedicated contact page", siteaudit.ImportanceHigh},
				func(_ []*siteaudit.PageRecord, site *siteaudit.SiteStructure) (siteaudit.Status, string) {
					if site.ContactPage == nil {
						return siteaudit.StatusPriorityOFI, "No contact page found"
					}
					return siteaudit.StatusOK, site.ContactPage.URL
				}},
			{Check{"Service Pages", "Site should have at least 3 service pages", siteaudit.ImportanceHigh},
				func(_ []*siteaudit.PageRecord, site *siteaudit.SiteStructure) (siteaudit.Status, string) {
					n := len(site.ServicePages)
					return Higher(float64(n), 3, 1), fmt.Sprintf("%d service pages", n)
				}},
			{Check{"Location Pages", "Site should have at least one location page", siteaudit.ImportanceMedium},
				func(_ []*siteaudit.PageRecord, site *siteaudit.SiteStructure) (siteaudit.Status, string) {
					n := len(site.LocationPages) + len(site.ServiceAreaPages)
					return Present(n > 0, siteaudit.StatusOFI), fmt.Sprintf("%d location and service area pages", n)
				}},
			{Check{"Site-Wide HTTPS", "Every page should be served over HTTPS", siteaudit.ImportanceHigh},
				func(pages []*siteaudit.PageRecord, _ *siteaudit.SiteStructure) (siteaudit.Status, string) {
					s := share(pages, func(p *siteaudit.PageRecord) bool { return p.HasHTTPS })
					return Higher(s, 1, SharePoor), fmt.Sprintf("HTTPS on %s of pages", percent(s))
				}},
			{Check{"Site-Wide Mobile Friendliness", "Pages should declare a responsive viewport", siteaudit.ImportanceHigh},
				func(pages []*siteaudit.PageRecord, _ *siteaudit.SiteStructure) (siteaudit.Status, string) {
					s := share(pages, func(p *siteaudit.PageRecord) bool { return p.MobileFriendly })
					return Higher(s, 0.9, SharePoor), fmt.Sprintf("Responsive viewport on %s of pages", percent(s))
				}},
			{Check{"Duplicate Titles", "Every page should have a unique title", siteaudit.ImportanceMedium},
				func(pages []*siteaudit.PageRecord, _ *siteaudit.SiteStructure) (siteaudit.Status, string) {
					d := duplicates(titles(pages))
					return Lower(float64(d), 0, 3), fmt.Sprintf("%d pages share a title", d)
				}},
		},
	},
	{
		category: siteaudit.ReportContactPage,
		label:    LabelContact,
		absent:   "No contact page found",
		pages:    bucket(siteaudit.CategoryContact),
		checks: []siteCheck{
			{Check{"Contact Form", "Contact page should offer a form", siteaudit.ImportanceHigh},
				first(func(p *siteaudit.PageRecord) (siteaudit.Status, string) {
					return Present(p.HasContactForm, siteaudit.StatusOFI), p.URL
				})},
			{Check{"Phone Number", "Contact page should list a phone number", siteaudit.ImportanceHigh},
				first(func(p *siteaudit.PageRecord) (siteaudit.Status, string) {
					return Present(p.HasPhoneNumber, siteaudit.StatusPriorityOFI), p.URL
				})},
			{Check{"Address", "Contact page should list a street address", siteaudit.ImportanceMedium},
				first(func(p *siteaudit.PageRecord) (siteaudit.Status, string) {
					return Present(p.HasAddress, siteaudit.StatusOFI), p.URL
				})},
			{Check{"NAP Completeness", "Business name, address and phone should all appear", siteaudit.ImportanceHigh}, first(gradeNAP)},
			{Check{"Map Embed", "Contact page should embed a map", siteaudit.ImportanceLow},
				first(func(p *siteaudit.PageRecord) (siteaudit.Status, string) {
					return Present(hasMapEmbed(p), siteaudit.StatusOFI), p.URL
				})},
			{Check{"Contact Title Tag", "Contact page title should be 30-60 characters", siteaudit.ImportanceMedium},
				first(func(p *siteaudit.PageRecord) (siteaudit.Status, string) { return gradeTitle(p.Title) })},
			{Check{"Contact Meta Description", "Contact page meta description should be 120-160 characters", siteaudit.ImportanceLow},
				first(func(p *siteaudit.PageRecord) (siteaudit.Status, string) { return gradeMeta(p.MetaDescription) })},
			{Check{"Local Business Schema", "Contact page should carry LocalBusiness structured data", siteaudit.ImportanceMedium},
				first(func(p *siteaudit.PageRecord) (siteaudit.Status, string) {
					return Present(hasSchemaType(p, localBusinessTypes), siteaudit.StatusOFI), fmt.Sprintf("Schema types: %v", p.SchemaTypes)
				})},
		},
	},
	{
		category: siteaudit.ReportServicePages,
		label:    LabelServices,
		absent:   "No service pages found",
		pages:    bucket(siteaudit.CategoryService),
		checks: []siteCheck{
			{Check{"Service Page Count", "Each core service should have its own page; at least 3", siteaudit.ImportanceHigh}, ofPageCount(3)},
			{Check{"Unique Service Titles", "Service pages should not share titles", siteaudit.ImportanceMedium}, ofUniqueTitles},
			{Check{"Service Title Tags", "At least 80% of service titles should be 30-60 characters", siteaudit.ImportanceMedium}, ofShare("Well-sized titles", titleOK)},
			{Check{"Service Meta Descriptions", "At least 80% of service pages need a meta description", siteaudit.ImportanceMedium},
				ofShare("Meta descriptions", func(p *siteaudit.PageRecord) bool { return p.MetaDescription != "" })},
			{Check{"Service H1 Headings", "Every service page should have exactly one H1", siteaudit.ImportanceMedium}, ofShare("Single H1", singleH1)},
			{Check{"Service Content Depth", "Service pages should average at least 300 words", siteaudit.ImportanceHigh}, ofAverageWords},
			{Check{"Service Calls to Action", "Service pages should offer a form or phone number", siteaudit.ImportanceHigh}, ofShare("Calls to action", hasCallToAction)},
			{Check{"Service Schema", "Service pages should describe offerings with structured data", siteaudit.ImportanceLow},
				ofShare("Service schema", func(p *siteaudit.PageRecord) bool { return hasSchemaType(p, serviceTypes) })},
			{Check{"Service Internal Links", "Service pages should link to at least 3 other pages", siteaudit.ImportanceLow},
				func(pages []*siteaudit.PageRecord, _ *siteaudit.SiteStructure) (siteaudit.Status, string) {
					avg := average(pages, func(p *siteaudit.PageRecord) float64 { return float64(len(p.Links.Internal)) })
					return Higher(avg, InternalLinksOK, InternalLinksLow), fmt.Sprintf("Average of %.1f internal links", avg)
				}},
			{Check{"Service Image Alt Text", "Service page images should carry alt text", siteaudit.ImportanceLow},
				func(pages []*siteaudit.PageRecord, _ *siteaudit.SiteStructure) (siteaudit.Status, string) {
					var total, withAlt int
					for _, p := range pages {
						total += p.Images.Total
						withAlt += p.Images.WithAlt
					}
					if total == 0 {
						return siteaudit.StatusNA, "No images on service pages"
					}
					return Higher(float64(withAlt)/float64(total), AltCoverageOK, AltCoveragePoor),
						fmt.Sprintf("%d of %d images have alt text", withAlt, total)
				}},
		},
	},
	{
		category: siteaudit.ReportLocationPages,
		label:    LabelLocations,
		absent:   "No location pages found",
		pages:    bucket(siteaudit.CategoryLocation),
		checks: []siteCheck{
			{Check{"Location Page Count", "Each served location should have a page", siteaudit.ImportanceMedium}, ofPageCount(1)},
			{Check{"Location NAP", "Location pages should show name, address and phone", siteaudit.ImportanceHigh},
				ofShare("Complete NAP", func(p *siteaudit.PageRecord) bool { return p.HasNAP })},
			{Check{"Location Schema", "Location pages should carry LocalBusiness structured data", siteaudit.ImportanceMedium},
				ofShare("Local business schema", func(p *siteaudit.PageRecord) bool { return hasSchemaType(p, localBusinessTypes) })},
			{Check{"Unique Location Titles", "Location pages should not share titles", siteaudit.ImportanceMedium}, ofUniqueTitles},
			{Check{"Location Content Depth", "Location pages should average at least 300 words", siteaudit.ImportanceHigh}, ofAverageWords},
			{Check{"Location Map Embed", "Location pages should embed a map", siteaudit.ImportanceLow}, ofShare("Map embeds", hasMapEmbed)},
			{Check{"Location Title Tags", "At least 80% of location titles should be 30-60 characters", siteaudit.ImportanceMedium}, ofShare("Well-sized titles", titleOK)},
			{Check{"Location H1 Headings", "Every location page should have exactly one H1", siteaudit.ImportanceMedium}, ofShare("Single H1", singleH1)},
		},
	},
	{
		category: siteaudit.ReportServiceAreaPages,
		label:    LabelServiceAreas,
		absent:   "No service area pages found",
		pages:    bucket(siteaudit.CategoryServiceArea),
		checks: []siteCheck{
			{Check{"Service Area Page Count", "Service areas should be described on dedicated pages", siteaudit.ImportanceMedium}, ofPageCount(1)},
			{Check{"Areas Listed", "Service area pages should list the areas served", siteaudit.ImportanceMedium},
				ofShare("Area lists", func(p *siteaudit.PageRecord) bool { return p.Structure.HasLists || p.Structure.HasTable })},
			{Check{"Service Area Content Depth", "Service area pages should average at least 300 words", siteaudit.ImportanceHigh}, ofAverageWords},
			{Check{"Unique Service Area Titles", "Service area pages should not share titles", siteaudit.ImportanceMedium}, ofUniqueTitles},
			{Check{"Service Area Calls to Action", "Service area pages should offer a form or phone number", siteaudit.ImportanceHigh}, ofShare("Calls to action", hasCallToAction)},
			{Check{"Service Area Title Tags", "At least 80% of service area titles should be 30-60 characters", siteaudit.ImportanceMedium}, ofShare("Well-sized titles", titleOK)},
			{Check{"Service Area Meta Descriptions", "Service area pages need meta descriptions", siteaudit.ImportanceLow},
				ofShare("Meta descriptions", func(p *siteaudit.PageRecord) bool { return p.MetaDescription != "" })},
		},
	},
}

func titles(pages []*siteaudit.PageRecord) []string {
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = p.Title
	}
	return out
}
