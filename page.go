package siteaudit

import (
	"context"
	"strings"
)

// PageRecord is the normalized result of one fetch attempt.
// Failed fetches populate Error and leave the remaining fields at safe
// defaults so downstream code never needs to branch on failure.
//
// FinalURL is set when redirects ended on a URL other than URL.
type PageRecord struct {
	URL             string           `json:"url"`
	StatusCode      int              `json:"statusCode"`
	Title           string           `json:"title"`
	MetaDescription string           `json:"metaDescription"`
	BodyText        string           `json:"bodyText"`
	RawHTML         string           `json:"-"`
	Headings        Headings         `json:"headings"`
	Links           Links            `json:"links"`
	Images          Images           `json:"images"`
	SchemaTypes     []string         `json:"schemaTypes"`
	WordCount       int              `json:"wordCount"`
	MobileFriendly  bool             `json:"mobileFriendly"`
	HasHTTPS        bool             `json:"hasHttps"`
	HasCanonical    bool             `json:"hasCanonical"`
	HasSchema       bool             `json:"hasSchema"`
	HasSocialTags   bool             `json:"hasSocialTags"`
	HasContactForm  bool             `json:"hasContactForm"`
	HasPhoneNumber  bool             `json:"hasPhoneNumber"`
	HasAddress      bool             `json:"hasAddress"`
	HasNAP          bool             `json:"hasNAP"`
	PageLoadSpeed   PageLoadSpeed    `json:"pageLoadSpeed"`
	Structure       ContentStructure `json:"contentStructure"`
	Meta            PageMeta         `json:"meta"`
	Security        Security         `json:"security"`
	Accessibility   Accessibility    `json:"accessibility"`
	Rendered        bool             `json:"rendered"`
	FinalURL        string           `json:"finalUrl,omitempty"`
	Error           string           `json:"error,omitempty"`
}

// Failed reports whether the record describes a failed fetch.
func (p *PageRecord) Failed() bool {
	return p.Error != ""
}

// ThinContent reports whether the page has fewer than ThinContentWords words.
func (p *PageRecord) ThinContent() bool {
	return p.WordCount < ThinContentWords
}

// MissingH1 reports whether the page has no H1 heading.
func (p *PageRecord) MissingH1() bool {
	return len(p.Headings.H1) == 0
}

// ThinContentWords is the word count below which a page is considered thin.
const ThinContentWords = 300

// Headings holds heading texts by level.
type Headings struct {
	H1 []string `json:"h1"`
	H2 []string `json:"h2"`
	H3 []string `json:"h3"`
	H4 []string `json:"h4"`
	H5 []string `json:"h5"`
	H6 []string `json:"h6"`
}

// Count returns the total number of headings on the page.
func (h Headings) Count() int {
	return len(h.H1) + len(h.H2) + len(h.H3) + len(h.H4) + len(h.H5) + len(h.H6)
}

// LinkRef is a single hyperlink found on a page.
type LinkRef struct {
	URL        string `json:"url"`
	AnchorText string `json:"anchorText"`
	Broken     bool   `json:"broken"`
}

// Links splits a page's hyperlinks by destination host.
type Links struct {
	Internal []LinkRef `json:"internal"`
	External []LinkRef `json:"external"`
}

// BrokenCount returns the number of internal links flagged as broken.
func (l Links) BrokenCount() int {
	var n int
	for _, link := range l.Internal {
		if link.Broken {
			n++
		}
	}
	return n
}

// Images summarizes the images on a page.
type Images struct {
	Total      int      `json:"total"`
	WithAlt    int      `json:"withAlt"`
	WithoutAlt int      `json:"withoutAlt"`
	AltTexts   []string `json:"altTexts"`
}

// AltRatio returns the share of images carrying alt text.
// Pages without images return 1.
func (i Images) AltRatio() float64 {
	if i.Total == 0 {
		return 1
	}
	return float64(i.WithAlt) / float64(i.Total)
}

// PageLoadSpeed is a 0..100 speed score derived from load time and size.
type PageLoadSpeed struct {
	Score      int   `json:"score"`
	LoadTimeMs int64 `json:"loadTimeMs"`
	SizeBytes  int   `json:"sizeBytes"`
}

// ContentStructure flags rich-content elements on a page.
type ContentStructure struct {
	HasLists    bool `json:"hasLists"`
	HasFAQs     bool `json:"hasFAQs"`
	HasVideo    bool `json:"hasVideo"`
	HasTable    bool `json:"hasTable"`
	HasEmphasis bool `json:"hasEmphasis"`
}

// PageMeta holds head metadata that technical checks inspect.
type PageMeta struct {
	CanonicalURL string            `json:"canonicalUrl"`
	Robots       string            `json:"robots"`
	Viewport     string            `json:"viewport"`
	Lang         string            `json:"lang"`
	Charset      string            `json:"charset"`
	HasFavicon   bool              `json:"hasFavicon"`
	SiteName     string            `json:"siteName"`
	OpenGraph    map[string]string `json:"openGraph"`
	Hreflang     []string          `json:"hreflang"`
	ScriptCount  int               `json:"scriptCount"`
	StyleCount   int               `json:"styleCount"`
}

// Security collects transport security signals.
type Security struct {
	HasMixedContent bool `json:"hasMixedContent"`
	SecurityHeaders int  `json:"securityHeaders"`
}

// Secure reports whether the page is served over HTTPS without mixed content
// and carries at least MinSecurityHeaders standard security headers.
func (p *PageRecord) Secure() bool {
	return p.HasHTTPS && !p.Security.HasMixedContent && p.Security.SecurityHeaders >= MinSecurityHeaders
}

// MinSecurityHeaders is the number of standard security headers a page must
// send to count as secure.
const MinSecurityHeaders = 2

// SecurityHeaderNames lists the standard security response headers.
var SecurityHeaderNames = []string{
	"Strict-Transport-Security",
	"Content-Security-Policy",
	"X-Frame-Options",
	"X-Content-Type-Options",
	"Referrer-Policy",
}

// Accessibility collects accessibility signals.
type Accessibility struct {
	AltRatio       float64 `json:"altRatio"`
	HasARIA        bool    `json:"hasAria"`
	H1FollowedByH2 bool    `json:"h1FollowedByH2"`
}

// NewErrorPage returns a degraded record for a failed fetch.
// All slices are non-nil so callers can range over them safely.
func NewErrorPage(url string, statusCode int, title, errMsg string) *PageRecord {
	page := NewEmptyPage(url)
	page.StatusCode = statusCode
	page.Title = title
	page.Error = errMsg
	return page
}

// NewEmptyPage returns a record for url with every collection initialized.
func NewEmptyPage(url string) *PageRecord {
	return &PageRecord{
		URL:      url,
		HasHTTPS: strings.HasPrefix(strings.ToLower(url), "https://"),
		Headings: Headings{
			H1: []string{},
			H2: []string{},
			H3: []string{},
			H4: []string{},
			H5: []string{},
			H6: []string{},
		},
		Links:         Links{Internal: []LinkRef{}, External: []LinkRef{}},
		Images:        Images{AltTexts: []string{}},
		SchemaTypes:   []string{},
		Meta:          PageMeta{OpenGraph: map[string]string{}, Hreflang: []string{}},
		Accessibility: Accessibility{AltRatio: 1},
	}
}

// PageFetcher retrieves a single page and returns a normalized record.
// Implementations never return nil; all failures are captured in the record.
type PageFetcher interface {
	Fetch(ctx context.Context, url string, cache SessionCache) *PageRecord
}

// PageExtractor parses raw HTML into a page record. It is a pure function
// of its inputs; URL, status and response-derived fields are left to the caller.
type PageExtractor interface {
	Extract(html string, baseURL string) (*PageRecord, error)
}

// JSDetector decides whether a page relies on client-side rendering.
type JSDetector interface {
	IsJSHeavy(html string) bool
}

// Renderer renders a URL in a headless browser and returns the final DOM.
// A nil Renderer is a supported configuration.
type Renderer interface {
	// Render navigates to the URL, waits for scripts to settle, and
	// returns the rendered HTML. The context controls timeout and cancellation.
	Render(ctx context.Context, url string) (html string, err error)

	// Close releases browser resources.
	Close() error
}

// LinkVerifier checks whether a link target responds successfully.
type LinkVerifier interface {
	// Broken reports true when the target could not be verified.
	Broken(ctx context.Context, url string) bool
}

// ContentTypeProber checks a URL's content type before a full fetch.
type ContentTypeProber interface {
	// IsHTML reports whether the URL serves HTML. Probe failures
	// report true so that the URL is still fetched.
	IsHTML(ctx context.Context, url string) bool
}

// Resolver resolves host names.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// SessionCache holds lookups shared by all fetches of one crawl session.
// It must never be shared across audits of different sites.
type SessionCache interface {
	Page(url string) (*PageRecord, bool)
	StorePage(url string, page *PageRecord)
	Host(host string) (resolved bool, ok bool)
	StoreHost(host string, resolved bool)
}
