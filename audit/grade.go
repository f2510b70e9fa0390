package audit

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/siteaudit"
)

// Thresholds shared by baseline and enhanced checks.
const (
	TitleMinOK       = 30
	TitleMaxOK       = 60
	TitleMinSevere   = 10
	TitleMaxSevere   = 90
	MetaMinOK        = 120
	MetaMaxOK        = 160
	ReadabilityOK    = 60
	ReadabilityPoor  = 30
	SpeedOK          = 75
	SpeedPoor        = 30
	WordsOK          = siteaudit.ThinContentWords
	WordsPoor        = 150
	AltCoverageOK    = 0.9
	AltCoveragePoor  = 0.5
	BrokenLinksPoor  = 5
	ShareOK          = 0.8
	SharePoor        = 0.5
	InternalLinksOK  = 3
	InternalLinksLow = 1
)

// localBusinessTypes are schema.org types that identify a local business.
var localBusinessTypes = []string{
	"LocalBusiness", "Organization", "ProfessionalService", "HomeAndConstructionBusiness",
	"HVACBusiness", "Plumber", "Electrician", "RoofingContractor", "GeneralContractor",
	"HousePainter", "Locksmith", "MovingCompany", "AutoRepair", "Dentist", "LegalService",
	"Store", "Restaurant", "MedicalBusiness", "ContactPage",
}

// serviceTypes are schema.org types that describe an offering.
var serviceTypes = []string{"Service", "Product", "Offer", "OfferCatalog"}

func hasSchemaType(p *siteaudit.PageRecord, types []string) bool {
	for _, t := range p.SchemaTypes {
		if slices.Contains(types, t) {
			return true
		}
	}
	return false
}

func gradeTitle(title string) (siteaudit.Status, string) {
	n := utf8.RuneCountInString(strings.TrimSpace(title))
	if n == 0 {
		return siteaudit.StatusPriorityOFI, "No title tag"
	}
	return Within(float64(n), TitleMinOK, TitleMaxOK, TitleMinSevere, TitleMaxSevere),
		fmt.Sprintf("Title is %d characters (recommended %d-%d)", n, TitleMinOK, TitleMaxOK)
}

func titleOK(p *siteaudit.PageRecord) bool {
	s, _ := gradeTitle(p.Title)
	return s == siteaudit.StatusOK
}

func gradeMeta(desc string) (siteaudit.Status, string) {
	n := utf8.RuneCountInString(strings.TrimSpace(desc))
	switch {
	case n == 0:
		return siteaudit.StatusPriorityOFI, "No meta description"
	case n >= MetaMinOK && n <= MetaMaxOK:
		return siteaudit.StatusOK, fmt.Sprintf("Meta description is %d characters", n)
	default:
		return siteaudit.StatusOFI, fmt.Sprintf("Meta description is %d characters (recommended %d-%d)", n, MetaMinOK, MetaMaxOK)
	}
}

func gradeH1(p *siteaudit.PageRecord) (siteaudit.Status, string) {
	switch n := len(p.Headings.H1); n {
	case 0:
		return siteaudit.StatusPriorityOFI, "No H1 heading"
	case 1:
		return siteaudit.StatusOK, "Single H1: " + p.Headings.H1[0]
	default:
		return siteaudit.StatusOFI, fmt.Sprintf("%d H1 headings found; use exactly one", n)
	}
}

func singleH1(p *siteaudit.PageRecord) bool {
	return len(p.Headings.H1) == 1
}

func gradeWords(words int) (siteaudit.Status, string) {
	return Higher(float64(words), WordsOK, WordsPoor),
		fmt.Sprintf("%d words (recommended at least %d)", words, WordsOK)
}

func gradeReadability(text string) (siteaudit.Status, string) {
	score, ok := Readability(text)
	if !ok {
		return siteaudit.StatusNA, "No readable text"
	}
	return Higher(score, ReadabilityOK, ReadabilityPoor),
		fmt.Sprintf("Flesch reading ease %.0f (OK at %d or above, poor below %d)", score, ReadabilityOK, ReadabilityPoor)
}

func gradeSpeed(p *siteaudit.PageRecord) (siteaudit.Status, string) {
	s := p.PageLoadSpeed
	return Higher(float64(s.Score), SpeedOK, SpeedPoor),
		fmt.Sprintf("Speed score %d (%d ms, %d bytes)", s.Score, s.LoadTimeMs, s.SizeBytes)
}

func gradeAlt(p *siteaudit.PageRecord) (siteaudit.Status, string) {
	if p.Images.Total == 0 {
		return siteaudit.StatusNA, "No images"
	}
	r := p.Images.AltRatio()
	return Higher(r, AltCoverageOK, AltCoveragePoor),
		fmt.Sprintf("%d of %d images have alt text", p.Images.WithAlt, p.Images.Total)
}

func gradeBroken(n int) (siteaudit.Status, string) {
	return Lower(float64(n), 0, BrokenLinksPoor), fmt.Sprintf("%d broken internal links", n)
}

func gradeNAP(p *siteaudit.PageRecord) (siteaudit.Status, string) {
	switch {
	case p.HasNAP:
		return siteaudit.StatusOK, "Name, address and phone present"
	case p.HasPhoneNumber || p.HasAddress:
		return siteaudit.StatusOFI, fmt.Sprintf("Incomplete NAP (phone: %t, address: %t)", p.HasPhoneNumber, p.HasAddress)
	default:
		return siteaudit.StatusPriorityOFI, "No phone number or address"
	}
}

func gradeSecurity(p *siteaudit.PageRecord) (siteaudit.Status, string) {
	switch {
	case !p.HasHTTPS:
		return siteaudit.StatusPriorityOFI, "Page is not served over HTTPS"
	case p.Security.HasMixedContent:
		return siteaudit.StatusPriorityOFI, "Page loads insecure resources"
	case p.Secure():
		return siteaudit.StatusOK, fmt.Sprintf("%d security headers", p.Security.SecurityHeaders)
	default:
		return siteaudit.StatusOFI, fmt.Sprintf("%d security headers (recommended at least %d)", p.Security.SecurityHeaders, siteaudit.MinSecurityHeaders)
	}
}

// gradeShare grades the fraction of pages satisfying fn.
func gradeShare(pages []*siteaudit.PageRecord, what string, fn func(*siteaudit.PageRecord) bool) (siteaudit.Status, string) {
	s := share(pages, fn)
	return Higher(s, ShareOK, SharePoor), fmt.Sprintf("%s on %s of pages", what, percent(s))
}

// gradeUnique grades the number of pages sharing a value with another page.
func gradeUnique(pages []*siteaudit.PageRecord, what string, fn func(*siteaudit.PageRecord) string) (siteaudit.Status, string) {
	values := make([]string, len(pages))
	for i, p := range pages {
		values[i] = fn(p)
	}
	d := duplicates(values)
	return Lower(float64(d), 0, float64(len(pages))/2), fmt.Sprintf("%d pages share a %s", d, what)
}

func hasMapEmbed(p *siteaudit.PageRecord) bool {
	h := strings.ToLower(p.RawHTML)
	return strings.Contains(h, "google.com/maps") ||
		strings.Contains(h, "maps.google.") ||
		strings.Contains(h, "goo.gl/maps") ||
		strings.Contains(h, "bing.com/maps")
}

func hasCallToAction(p *siteaudit.PageRecord) bool {
	return p.HasContactForm || p.HasPhoneNumber
}

func urlPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Path
}
