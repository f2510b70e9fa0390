package audit

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/siteaudit"
)

// MaxURLLength is the longest URL path considered readable.
const MaxURLLength = 75

// NewTechnicalSEO returns the analyzer of indexing and markup signals.
func NewTechnicalSEO() *PageAnalyzer {
	return &PageAnalyzer{label: LabelTechnicalSEO, checks: technicalChecks}
}

var technicalChecks = []pageCheck{
	{Check{"Title Length", "Title should be 30-60 characters; under 10 or over 90 is a priority", siteaudit.ImportanceHigh},
		pageFn(func(p *siteaudit.PageRecord) (siteaudit.Status, string) { return gradeTitle(p.Title) })},
	{Check{"Meta Description Length", "Meta description should be 120-160 characters; none is a priority", siteaudit.ImportanceHigh},
		pageFn(func(p *siteaudit.PageRecord) (siteaudit.Status, string) { return gradeMeta(p.MetaDescription) })},
	{Check{"Single H1", "Page should have exactly one H1", siteaudit.ImportanceHigh}, pageFn(gradeH1)},
	{Check{"Canonical URL", "Canonical URL should point to the same site", siteaudit.ImportanceMedium},
		pageFn(func(p *siteaudit.PageRecord) (siteaudit.Status, string) {
			c := p.Meta.CanonicalURL
			switch {
			case c == "":
				return siteaudit.StatusOFI, "No canonical URL"
			case !siteaudit.SameSite(siteaudit.Hostname(c), siteaudit.Hostname(p.URL)):
				return siteaudit.StatusPriorityOFI, "Canonical URL points to another site: " + c
			default:
				return siteaudit.StatusOK, c
			}
		})},
	{Check{"Robots Directives", "Page should not be excluded from indexing", siteaudit.ImportanceHigh},
		pageFn(func(p *siteaudit.PageRecord) (siteaudit.Status, string) {
			r := strings.ToLower(p.Meta.Robots)
			switch {
			case strings.Contains(r, "noindex"):
				return siteaudit.StatusPriorityOFI, "Page is marked noindex"
			case strings.Contains(r, "nofollow"):
				return siteaudit.StatusOFI, "Page is marked nofollow"
			default:
				return siteaudit.StatusOK, p.Meta.Robots
			}
		})},
	{Check{"Language Attribute", "The html element should declare a language", siteaudit.ImportanceLow},
		pageFn(func(p *siteaudit.PageRecord) (siteaudit.Status, string) {
			return Present(p.Meta.Lang != "", siteaudit.StatusOFI), p.Meta.Lang
		})},
	{Check{"Character Encoding", "Page should declare its character set", siteaudit.ImportanceLow},
		pageFn(func(p *siteaudit.PageRecord) (siteaudit.Status, string) {
			return Present(p.Meta.Charset != "", siteaudit.StatusOFI), p.Meta.Charset
		})},
	{Check{"Structured Data", "Page should carry schema.org structured data", siteaudit.ImportanceMedium},
		pageFn(func(p *siteaudit.PageRecord) (siteaudit.Status, string) {
			return Present(p.HasSchema, siteaudit.StatusOFI), strings.Join(p.SchemaTypes, ", ")
		})},
	{Check{"Open Graph Tags", "og:title, og:description and og:image should all be present", siteaudit.ImportanceLow},
		pageFn(func(p *siteaudit.PageRecord) (siteaudit.Status, string) {
			var n int
			for _, k := range []string{"og:title", "og:description", "og:image"} {
				if p.Meta.OpenGraph[k] != "" {
					n++
				}
			}
			return Higher(float64(n), 3, 1), fmt.Sprintf("%d of 3 core Open Graph tags", n)
		})},
	{Check{"URL Structure", "URLs should be short, lowercase and hyphenated", siteaudit.ImportanceLow},
		pageFn(func(p *siteaudit.PageRecord) (siteaudit.Status, string) {
			u, err := url.Parse(p.URL)
			if err != nil {
				return siteaudit.StatusNA, "Unparsable URL"
			}
			var problems []string
			if len(u.Path) > MaxURLLength {
				problems = append(problems, fmt.Sprintf("path longer than %d characters", MaxURLLength))
			}
			if strings.Contains(u.Path, "_") {
				problems = append(problems, "underscores")
			}
			if u.Path != strings.ToLower(u.Path) {
				problems = append(problems, "uppercase letters")
			}
			if u.RawQuery != "" {
				problems = append(problems, "query parameters")
			}
			if len(problems) == 0 {
				return siteaudit.StatusOK, u.Path
			}
			return Lower(float64(len(problems)), 0, 2), strings.Join(problems, ", ")
		})},
	{Check{"Favicon", "Site should declare a favicon", siteaudit.ImportanceLow},
		pageFn(func(p *siteaudit.PageRecord) (siteaudit.Status, string) {
			return Present(p.Meta.HasFavicon, siteaudit.StatusOFI), ""
		})},
	{Check{"Secure Transport", "HTTPS without mixed content and with security headers", siteaudit.ImportanceHigh}, pageFn(gradeSecurity)},
	{Check{"Image Dimensions", "Images should declare width and height to avoid layout shift", siteaudit.ImportanceLow},
		func(_ *siteaudit.PageRecord, doc *goquery.Document) (siteaudit.Status, string) {
			imgs := doc.Find("img")
			if imgs.Length() == 0 {
				return siteaudit.StatusNA, "No images"
			}
			sized := imgs.FilterFunction(func(_ int, s *goquery.Selection) bool {
				_, w := s.Attr("width")
				_, h := s.Attr("height")
				return w && h
			}).Length()
			r := float64(sized) / float64(imgs.Length())
			return Higher(r, ShareOK, SharePoor), fmt.Sprintf("%d of %d images declare dimensions", sized, imgs.Length())
		}},
}
