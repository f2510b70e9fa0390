package audit

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/siteaudit"
)

var _ siteaudit.Analyzer = (*Enhanced)(nil)

// Enhanced runs the per-page analyzers over every report category and the
// site-wide analyses. Its report holds only the enhanced findings; callers
// merge it with the baseline report.
type Enhanced struct {
	Analyzers    []*PageAnalyzer
	Fingerprints siteaudit.Fingerprinter

	// Now returns the report timestamp. Defaults to time.Now.
	Now func() time.Time
}

// NewEnhanced returns an Enhanced analyzer with the four standard page
// analyzers. A nil fp hashes body text.
func NewEnhanced(fp siteaudit.Fingerprinter) *Enhanced {
	if fp == nil {
		fp = &Fingerprinter{}
	}
	return &Enhanced{
		Analyzers: []*PageAnalyzer{
			NewContentQuality(),
			NewTechnicalSEO(),
			NewLocalSEO(),
			NewUXPerformance(),
		},
		Fingerprints: fp,
		Now:          time.Now,
	}
}

type pageGroup struct {
	category siteaudit.ReportCategory
	absent   string
	pages    []*siteaudit.PageRecord
}

// Analyze returns the enhanced findings for site. Per-page findings are
// aggregated into one finding per check and category. Site-wide findings
// go to the on-page and structure categories.
func (e *Enhanced) Analyze(site *siteaudit.SiteStructure) *siteaudit.Report {
	r := newReport(site, e.Now)
	docs := parseDocuments(site.Pages())

	var onPage []*siteaudit.PageRecord
	if site.Homepage != nil {
		onPage = append(onPage, site.Homepage)
	}
	onPage = append(onPage, site.OtherPages...)

	groups := []pageGroup{
		{siteaudit.ReportOnPage, "No pages crawled", onPage},
		{siteaudit.ReportContactPage, "No contact page found", site.PagesIn(siteaudit.CategoryContact)},
		{siteaudit.ReportServicePages, "No service pages found", site.ServicePages},
		{siteaudit.ReportLocationPages, "No location pages found", site.LocationPages},
		{siteaudit.ReportServiceAreaPages, "No service area pages found", site.ServiceAreaPages},
	}
	for _, g := range groups {
		for _, a := range e.Analyzers {
			r.Add(g.category, aggregate(a, g.pages, docs, g.absent)...)
		}
	}

	fp := e.Fingerprints
	if fp == nil {
		fp = &Fingerprinter{}
	}
	r.Add(siteaudit.ReportStructureNavigation, NavigationConsistency(site, docs)...)
	r.Add(siteaudit.ReportStructureNavigation, InternalLinking(site)...)
	r.Add(siteaudit.ReportOnPage, ContentConsistency(site)...)
	r.Add(siteaudit.ReportOnPage, DuplicateContent(site, fp)...)

	r.Summarize()
	return r
}

// aggregate runs a over pages and folds the results into one finding per
// check: N/A when no page could be evaluated, OK when every evaluated page
// is OK, Priority OFI when more than half are Priority OFI, otherwise OFI.
func aggregate(a *PageAnalyzer, pages []*siteaudit.PageRecord, docs map[*siteaudit.PageRecord]*goquery.Document, absent string) []siteaudit.Finding {
	checks := a.Checks()
	if len(pages) == 0 {
		return allNA(checks, absent, a.Name())
	}

	results := make([][]siteaudit.Finding, len(pages))
	for i, p := range pages {
		results[i] = a.Analyze(p, docOf(docs, p))
	}
	if len(pages) == 1 {
		return results[0]
	}

	out := make([]siteaudit.Finding, len(checks))
	for ci, c := range checks {
		var evaluated, ok, priority int
		worst := -1
		for pi := range pages {
			f := results[pi][ci]
			switch f.Status {
			case siteaudit.StatusNA:
				continue
			case siteaudit.StatusOK:
				ok++
			case siteaudit.StatusPriorityOFI:
				priority++
				if worst == -1 || results[worst][ci].Status != siteaudit.StatusPriorityOFI {
					worst = pi
				}
			default:
				if worst == -1 {
					worst = pi
				}
			}
			evaluated++
		}

		var status siteaudit.Status
		switch {
		case evaluated == 0:
			out[ci] = c.NA("Not applicable to any page", a.Name())
			continue
		case ok == evaluated:
			status = siteaudit.StatusOK
		case priority*2 > evaluated:
			status = siteaudit.StatusPriorityOFI
		default:
			status = siteaudit.StatusOFI
		}

		notes := fmt.Sprintf("%d of %d pages OK", ok, evaluated)
		if worst >= 0 {
			notes += fmt.Sprintf("; e.g. %s: %s", pages[worst].URL, results[worst][ci].Notes)
		}
		out[ci] = c.Finding(status, notes, a.Name())
	}
	return out
}

// parseDocuments parses the raw HTML of every page once.
func parseDocuments(pages []*siteaudit.PageRecord) map[*siteaudit.PageRecord]*goquery.Document {
	docs := make(map[*siteaudit.PageRecord]*goquery.Document, len(pages))
	for _, p := range pages {
		docs[p] = parse(p.RawHTML)
	}
	return docs
}

func docOf(docs map[*siteaudit.PageRecord]*goquery.Document, p *siteaudit.PageRecord) *goquery.Document {
	if d, ok := docs[p]; ok {
		return d
	}
	return parse(p.RawHTML)
}

// parse returns the document of html. Unparsable input yields an empty document.
func parse(html string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		doc, _ = goquery.NewDocumentFromReader(strings.NewReader(""))
	}
	return doc
}
