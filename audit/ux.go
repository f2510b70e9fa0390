package audit

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/siteaudit"
)

// Performance budgets.
const (
	LoadTimeOKMs    = 2000
	LoadTimePoorMs  = 5000
	PageSizeOK      = 1536 << 10
	PageSizePoor    = 5 << 20
	ScriptsOK       = 15
	ScriptsPoor     = 40
	StylesheetsOK   = 5
	StylesheetsPoor = 15
)

var ctaTerms = []string{"call now", "call today", "get a quote", "free estimate", "free quote", "book now", "schedule", "contact us", "request", "get started"}

// NewUXPerformance returns the analyzer of usability and performance.
func NewUXPerformance() *PageAnalyzer {
	return &PageAnalyzer{label: LabelUXPerformance, checks: uxChecks}
}

var uxChecks = []pageCheck{
	{Check{"Speed Score", "Speed score of 75 or above; below 30 is a priority", siteaudit.ImportanceHigh}, pageFn(gradeSpeed)},
	{Check{"Load Time", "Page should load within 2 seconds; over 5 is a priority", siteaudit.ImportanceHigh},
		pageFn(func(p *siteaudit.PageRecord) (siteaudit.Status, string) {
			ms := p.PageLoadSpeed.LoadTimeMs
			return Lower(float64(ms), LoadTimeOKMs, LoadTimePoorMs), fmt.Sprintf("%d ms", ms)
		})},
	{Check{"Page Weight", "HTML should stay under 1.5 MB; over 5 MB is a priority", siteaudit.ImportanceMedium},
		pageFn(func(p *siteaudit.PageRecord) (siteaudit.Status, string) {
			n := p.PageLoadSpeed.SizeBytes
			return Lower(float64(n), PageSizeOK, PageSizePoor), fmt.Sprintf("%d bytes", n)
		})},
	{Check{"Script Count", "15 scripts or fewer; over 40 is a priority", siteaudit.ImportanceMedium},
		pageFn(func(p *siteaudit.PageRecord) (siteaudit.Status, string) {
			n := p.Meta.ScriptCount
			return Lower(float64(n), ScriptsOK, ScriptsPoor), fmt.Sprintf("%d scripts", n)
		})},
	{Check{"Stylesheet Count", "5 stylesheets or fewer; over 15 is a priority", siteaudit.ImportanceLow},
		pageFn(func(p *siteaudit.PageRecord) (siteaudit.Status, string) {
			n := p.Meta.StyleCount
			return Lower(float64(n), StylesheetsOK, StylesheetsPoor), fmt.Sprintf("%d stylesheets", n)
		})},
	{Check{"Mobile Viewport", "Page should declare a responsive viewport", siteaudit.ImportanceHigh},
		pageFn(func(p *siteaudit.PageRecord) (siteaudit.Status, string) {
			return Present(p.MobileFriendly, siteaudit.StatusPriorityOFI), p.Meta.Viewport
		})},
	{Check{"Image Accessibility", "At least 90% of images need alt text; below 50% is a priority", siteaudit.ImportanceMedium}, pageFn(gradeAlt)},
	{Check{"ARIA Landmarks", "ARIA roles and labels help assistive technology", siteaudit.ImportanceLow},
		pageFn(func(p *siteaudit.PageRecord) (siteaudit.Status, string) {
			return Present(p.Accessibility.HasARIA, siteaudit.StatusOFI), ""
		})},
	{Check{"Call to Action", "Page should prompt visitors to get in touch", siteaudit.ImportanceHigh},
		func(p *siteaudit.PageRecord, doc *goquery.Document) (siteaudit.Status, string) {
			if hasCallToAction(p) {
				return siteaudit.StatusOK, "Form or phone number present"
			}
			var found bool
			doc.Find("a, button").EachWithBreak(func(_ int, s *goquery.Selection) bool {
				found = containsAny(strings.ToLower(s.Text()), ctaTerms)
				return !found
			})
			if found {
				return siteaudit.StatusOK, "Call-to-action link present"
			}
			return siteaudit.StatusPriorityOFI, "No form, phone number or call-to-action link"
		}},
	{Check{"Form Usability", "Form fields should have labels", siteaudit.ImportanceLow},
		func(_ *siteaudit.PageRecord, doc *goquery.Document) (siteaudit.Status, string) {
			fields := doc.Find("form input:not([type=hidden]):not([type=submit]), form textarea, form select")
			if fields.Length() == 0 {
				return siteaudit.StatusNA, "No form fields"
			}
			labeled := fields.FilterFunction(func(_ int, s *goquery.Selection) bool {
				if s.AttrOr("aria-label", "") != "" || s.AttrOr("placeholder", "") != "" {
					return true
				}
				id := s.AttrOr("id", "")
				return id != "" && doc.Find(`label[for="`+id+`"]`).Length() > 0
			}).Length()
			r := float64(labeled) / float64(fields.Length())
			return Higher(r, 1, SharePoor), fmt.Sprintf("%d of %d fields labeled", labeled, fields.Length())
		}},
	{Check{"Broken Links on Page", "No broken internal links; more than 5 is a priority", siteaudit.ImportanceMedium},
		pageFn(func(p *siteaudit.PageRecord) (siteaudit.Status, string) { return gradeBroken(p.Links.BrokenCount()) })},
}
