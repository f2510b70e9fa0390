package classify

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/fwojciec/siteaudit"
)

// Contact signal strengths. A stronger signal wins when several pages
// qualify as the contact page.
const (
	ContactNone    = 0
	ContactPhrases = 1
	ContactForm    = 2
	ContactURL     = 3
)

// Thresholds of the weighted detectors.
const (
	MinContactPhrases      = 2
	MinServiceScore        = 3
	IndustryTermWeight     = 2
	MinLocationPhrases     = 2
	MinLocationNouns       = 3
	MinAreaLocationMention = 2
)

var (
	contactURLTerms   = []string{"contact", "get-in-touch", "reach-us", "contactus"}
	contactTitleTerms = []string{"contact", "get in touch", "reach us"}
	contactBodyTerms  = []string{"contact", "get in touch", "reach us", "reach out"}
	contactPhrases    = []string{
		"contact us", "get in touch", "send us a message", "call us today",
		"fill out the form", "fill out our form", "we'd love to hear from you",
		"we would love to hear from you", "reach out to us", "email us",
		"office hours", "request a quote",
	}

	serviceURLPattern  = regexp.MustCompile(`/(?:services?|solutions|what-we-do|offerings|our-work)(?:/|$)`)
	serviceTitleTerms  = []string{"services", "service", "solutions", "repair", "installation", "maintenance"}
	genericServiceTerm = []string{
		"our services", "we offer", "we provide", "we specialize", "services include",
		"free estimate", "free quote", "licensed and insured", "schedule service",
		"professional", "experienced technicians", "satisfaction guaranteed",
	}
	industryTerms = []string{
		"hvac", "plumbing", "plumber", "electrical", "electrician", "roofing", "roofer",
		"landscaping", "heating", "air conditioning", "furnace", "water heater",
		"pest control", "remodeling", "painting", "drywall", "flooring", "gutter",
		"septic", "insulation", "garage door", "pressure washing",
	}
	strongIndustryPhrases = []string{
		"electrical contractor", "hvac contractor", "roofing contractor",
		"plumbing services", "hvac services", "electrical services", "roofing services",
		"ac repair", "furnace repair", "drain cleaning", "water heater installation",
		"emergency plumbing", "panel upgrade", "leak detection",
	}

	locationURLPattern  = regexp.MustCompile(`/locations?(?:/|$)`)
	citySlugPattern     = regexp.MustCompile(`^[a-z]+(?:-[a-z]+)*$`)
	citySuffixPattern   = regexp.MustCompile(`-(?:city|town|county|village|township)(?:/|$)`)
	locationPhrases     = []string{
		"located in", "our location", "our locations", "visit us at", "directions to",
		"get directions", "find us", "our office in", "store hours", "serving the",
		"conveniently located", "near you",
	}
	locationNounPattern = regexp.MustCompile(`\b(?:city|cities|county|counties|town|towns|neighborhood|neighborhoods|area|region|state|downtown|suburb|suburbs|community|communities)\b`)

	areaPhrases = []string{
		"service area", "service areas", "areas we serve", "areas served", "we serve",
		"proudly serving", "coverage area", "surrounding areas", "serving customers in",
	}
	cityStateMention = regexp.MustCompile(`\b[A-Z][a-z]+(?: [A-Z][a-z]+)*, [A-Z]{2}\b`)
	distancePattern  = regexp.MustCompile(`\b(?:\d+\s*(?:miles?|mi|km|kilometers?)|radius|miles)\b`)
)

const stateAbbrevs = `al|ak|az|ar|ca|co|ct|de|fl|ga|hi|id|il|in|ia|ks|ky|la|me|md|ma|mi|mn|ms|mo|mt|ne|nv|nh|nj|nm|ny|nc|nd|oh|ok|or|pa|ri|sc|sd|tn|tx|ut|vt|va|wa|wv|wi|wy|dc`

// MinCityToken is the shortest word accepted right before a state code.
const MinCityToken = 3

var (
	stateCodes = setOf(strings.Split(stateAbbrevs, "|"))

	// State codes that localized sites also use as language prefixes.
	languagePrefixes = setOf([]string{
		"ar", "ca", "de", "ga", "hi", "id", "in", "la", "mn", "ms", "mt", "ne", "pa",
	})

	// Words that end ordinary slugs like /about-me or /sign-in.
	nonCityWords = setOf([]string{
		"about", "add", "ask", "built", "call", "check", "contact", "drop", "email",
		"fill", "find", "follow", "hire", "join", "log", "login", "meet", "message",
		"near", "opt", "plug", "sign", "text", "tune", "walk", "write",
	})
)

// text is the lowercased searchable content of a page.
type text struct {
	path  string
	title string
	body  string
	raw   string
}

func newText(page *siteaudit.PageRecord) text {
	var p string
	if u, err := url.Parse(page.URL); err == nil {
		p = strings.ToLower(u.Path)
	}
	return text{
		path:  p,
		title: strings.ToLower(page.Title),
		body:  strings.ToLower(page.BodyText),
		raw:   page.BodyText,
	}
}

// ContactStrength returns the strongest contact signal of page.
func ContactStrength(page *siteaudit.PageRecord) int {
	t := newText(page)
	if containsAny(t.path, contactURLTerms) || containsAny(t.title, contactTitleTerms) {
		return ContactURL
	}
	if page.HasContactForm && containsAny(t.body, contactBodyTerms) {
		return ContactForm
	}
	if countDistinct(t.body, contactPhrases) >= MinContactPhrases {
		return ContactPhrases
	}
	return ContactNone
}

// IsService reports whether page describes a service offering.
func IsService(page *siteaudit.PageRecord) bool {
	t := newText(page)
	if serviceURLPattern.MatchString(t.path) || containsAny(t.title, serviceTitleTerms) {
		return true
	}
	if containsAny(t.body, strongIndustryPhrases) {
		return true
	}
	score := countDistinct(t.body, genericServiceTerm) + IndustryTermWeight*countDistinct(t.body, industryTerms)
	return score >= MinServiceScore
}

// IsLocation reports whether page describes a business location.
func IsLocation(page *siteaudit.PageRecord) bool {
	t := newText(page)
	if locationURLPattern.MatchString(t.path) ||
		hasPlaceSegment(t.path) ||
		citySuffixPattern.MatchString(t.path) {
		return true
	}
	phrases := countDistinct(t.body, locationPhrases)
	if phrases >= MinLocationPhrases {
		return true
	}
	return phrases == 1 && len(locationNounPattern.FindAllStringIndex(t.body, -1)) >= MinLocationNouns
}

// IsServiceArea reports whether page describes the geographic coverage of
// a service. All three signals are required: a service-area phrase, at
// least two location mentions and a distance unit.
func IsServiceArea(page *siteaudit.PageRecord) bool {
	t := newText(page)
	if !containsAny(t.body, areaPhrases) {
		return false
	}
	mentions := len(locationNounPattern.FindAllStringIndex(t.body, -1)) +
		len(cityStateMention.FindAllStringIndex(t.raw, -1))
	if mentions < MinAreaLocationMention {
		return false
	}
	return distancePattern.MatchString(t.body)
}

func hasPlaceSegment(path string) bool {
	for _, seg := range strings.Split(path, "/") {
		if placeSegment(seg) {
			return true
		}
	}
	return false
}

// placeSegment reports whether a path segment names a place. That is a
// city slug ending in a state code such as dallas-tx, or a bare state code
// that is not also a language prefix.
func placeSegment(seg string) bool {
	if stateCodes[seg] {
		return !languagePrefixes[seg]
	}
	i := strings.LastIndexByte(seg, '-')
	if i < 0 || !stateCodes[seg[i+1:]] {
		return false
	}
	city := seg[:i]
	if !citySlugPattern.MatchString(city) {
		return false
	}
	word := city[strings.LastIndexByte(city, '-')+1:]
	return len(word) >= MinCityToken && !nonCityWords[word]
}

func setOf(words []string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

func countDistinct(s string, terms []string) int {
	var n int
	for _, term := range terms {
		if strings.Contains(s, term) {
			n++
		}
	}
	return n
}
