package audit

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/siteaudit"
	sagoquery "github.com/fwojciec/siteaudit/goquery"
)

var (
	reviewTerms    = []string{"testimonial", "review", "rated", "stars", "what our customers say", "what our clients say"}
	trustTerms     = []string{"licensed", "insured", "bonded", "certified", "accredited", "bbb", "award", "guarantee", "warranty", "years of experience", "family owned", "since 19", "since 20"}
	expertiseTerms = []string{"our team", "about us", "meet the", "founder", "owner", "technician", "certified", "expert"}
	socialHosts    = []string{"facebook.com", "instagram.com", "linkedin.com", "twitter.com", "x.com", "youtube.com", "yelp.com", "nextdoor.com", "tiktok.com", "pinterest.com"}
	areaTerms      = []string{"serving", "service area", "areas we serve", "near you", "local", "surrounding"}
)

// NewLocalSEO returns the analyzer of local search and trust signals.
func NewLocalSEO() *PageAnalyzer {
	return &PageAnalyzer{label: LabelLocalSEO, checks: localChecks}
}

var localChecks = []pageCheck{
	{Check{"NAP Presence", "Business name, address and phone should all appear", siteaudit.ImportanceHigh}, pageFn(gradeNAP)},
	{Check{"Phone Visibility", "A phone number should be visible", siteaudit.ImportanceHigh},
		pageFn(func(p *siteaudit.PageRecord) (siteaudit.Status, string) {
			return Present(p.HasPhoneNumber, siteaudit.StatusOFI), ""
		})},
	{Check{"Click-to-Call", "Phone numbers should be tel: links", siteaudit.ImportanceMedium},
		func(p *siteaudit.PageRecord, doc *goquery.Document) (siteaudit.Status, string) {
			n := doc.Find(`a[href^="tel:"]`).Length()
			if n == 0 && !p.HasPhoneNumber {
				return siteaudit.StatusNA, "No phone number"
			}
			return Present(n > 0, siteaudit.StatusOFI), fmt.Sprintf("%d tel: links", n)
		}},
	{Check{"Local Business Schema", "LocalBusiness structured data identifies the business", siteaudit.ImportanceMedium},
		pageFn(func(p *siteaudit.PageRecord) (siteaudit.Status, string) {
			return Present(hasSchemaType(p, localBusinessTypes), siteaudit.StatusOFI), strings.Join(p.SchemaTypes, ", ")
		})},
	{Check{"Business Name", "The business name should appear in the page text or title", siteaudit.ImportanceMedium},
		pageFn(func(p *siteaudit.PageRecord) (siteaudit.Status, string) {
			name := sagoquery.BusinessName(p)
			if name == "" {
				return siteaudit.StatusOFI, "Business name could not be determined"
			}
			return siteaudit.StatusOK, name
		})},
	{Check{"Reviews and Testimonials", "Customer reviews build trust", siteaudit.ImportanceMedium},
		pageFn(func(p *siteaudit.PageRecord) (siteaudit.Status, string) {
			ok := hasSchemaType(p, []string{"Review", "AggregateRating"}) || containsAny(strings.ToLower(p.BodyText), reviewTerms)
			return Present(ok, siteaudit.StatusOFI), ""
		})},
	{Check{"Trust Signals", "Licenses, insurance, guarantees or awards should be mentioned", siteaudit.ImportanceMedium},
		pageFn(func(p *siteaudit.PageRecord) (siteaudit.Status, string) {
			n := countTerms(strings.ToLower(p.BodyText), trustTerms)
			return Higher(float64(n), 2, 1), fmt.Sprintf("%d trust signals", n)
		})},
	{Check{"Expertise", "Pages should show who stands behind the work", siteaudit.ImportanceLow},
		pageFn(func(p *siteaudit.PageRecord) (siteaudit.Status, string) {
			return Present(containsAny(strings.ToLower(p.BodyText), expertiseTerms), siteaudit.StatusOFI), ""
		})},
	{Check{"Map Embed", "An embedded map helps visitors find the business", siteaudit.ImportanceLow},
		pageFn(func(p *siteaudit.PageRecord) (siteaudit.Status, string) {
			return Present(hasMapEmbed(p), siteaudit.StatusOFI), ""
		})},
	{Check{"Social Profiles", "Pages should link to the business's social profiles", siteaudit.ImportanceLow},
		pageFn(func(p *siteaudit.PageRecord) (siteaudit.Status, string) {
			var found []string
			for _, l := range p.Links.External {
				host := siteaudit.Hostname(l.URL)
				for _, s := range socialHosts {
					if host == s || strings.HasSuffix(host, "."+s) {
						found = append(found, s)
						break
					}
				}
			}
			return Present(len(found) > 0, siteaudit.StatusOFI), strings.Join(found, ", ")
		})},
	{Check{"Service Area Mention", "Pages should mention the area served", siteaudit.ImportanceLow},
		pageFn(func(p *siteaudit.PageRecord) (siteaudit.Status, string) {
			return Present(containsAny(strings.ToLower(p.BodyText), areaTerms), siteaudit.StatusOFI), ""
		})},
}

func containsAny(s string, terms []string) bool {
	return countTerms(s, terms) > 0
}

func countTerms(s string, terms []string) int {
	var n int
	for _, t := range terms {
		if strings.Contains(s, t) {
			n++
		}
	}
	return n
}
