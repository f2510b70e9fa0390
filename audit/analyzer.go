package audit

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/siteaudit"
)

// pageCheck evaluates one check against a page and its parsed document.
type pageCheck struct {
	Check
	eval func(page *siteaudit.PageRecord, doc *goquery.Document) (siteaudit.Status, string)
}

// PageAnalyzer runs a fixed list of per-page checks. Adding a check means
// appending to the list.
type PageAnalyzer struct {
	label  string
	checks []pageCheck
}

// Name returns the analyzer's finding category label.
func (a *PageAnalyzer) Name() string {
	return a.label
}

// Checks returns the checks the analyzer runs, in order.
func (a *PageAnalyzer) Checks() []Check {
	out := make([]Check, len(a.checks))
	for i, c := range a.checks {
		out[i] = c.Check
	}
	return out
}

// Analyze returns one finding per check for page.
func (a *PageAnalyzer) Analyze(page *siteaudit.PageRecord, doc *goquery.Document) []siteaudit.Finding {
	out := make([]siteaudit.Finding, len(a.checks))
	for i, c := range a.checks {
		status, notes := c.eval(page, doc)
		out[i] = c.Finding(status, notes, a.label)
	}
	return out
}

// pageFn adapts a grading function that only needs the page record.
func pageFn(fn func(*siteaudit.PageRecord) (siteaudit.Status, string)) func(*siteaudit.PageRecord, *goquery.Document) (siteaudit.Status, string) {
	return func(p *siteaudit.PageRecord, _ *goquery.Document) (siteaudit.Status, string) {
		return fn(p)
	}
}
