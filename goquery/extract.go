// Package goquery parses HTML pages into page records and inspects markup
// using github.com/PuerkitoBio/goquery.
package goquery

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/siteaudit"
)

var (
	phonePattern   = regexp.MustCompile(`(?:\+?1[-.\s]?)?\(?\b\d{3}\)?[-.\s]\d{3}[-.\s]\d{4}\b`)
	addressPattern = regexp.MustCompile(`(?i)\b\d{1,6}\s+(?:[a-z0-9.'-]+\s+){1,4}(?:street|st|avenue|ave|road|rd|boulevard|blvd|drive|dr|lane|ln|way|court|ct|place|pl|parkway|pkwy|highway|hwy|suite|ste)\b\.?`)
	zipPattern     = regexp.MustCompile(`\b[A-Z]{2}\s+\d{5}(?:-\d{4})?\b`)
)

// Ensure Extractor implements siteaudit.PageExtractor at compile time.
var _ siteaudit.PageExtractor = (*Extractor)(nil)

// Extractor parses HTML into page records.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses html and returns the facts derived from its markup.
// Links are resolved against baseURL and split into internal and external
// by host. Links whose href cannot be parsed are kept as broken internal
// links.
func (e *Extractor) Extract(html string, baseURL string) (*siteaudit.PageRecord, error) {
	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, siteaudit.Errorf(siteaudit.EINVALID, "invalid base URL: %q", baseURL)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, siteaudit.Errorf(siteaudit.EINVALID, "failed to parse HTML: %v", err)
	}

	page := siteaudit.NewEmptyPage(baseURL)
	page.Title = cleanText(doc.Find("title").First().Text())
	page.MetaDescription = metaContent(doc, "description")
	page.Headings = extractHeadings(doc)
	page.BodyText = BodyText(doc)
	page.WordCount = len(strings.Fields(page.BodyText))
	page.Links = extractLinks(doc, base)
	page.Images = extractImages(doc)
	page.SchemaTypes = SchemaTypes(doc)
	page.HasSchema = len(page.SchemaTypes) > 0
	page.Meta = extractMeta(doc)
	page.Structure = extractStructure(doc, page)

	page.HasCanonical = page.Meta.CanonicalURL != ""
	page.MobileFriendly = strings.Contains(strings.ReplaceAll(strings.ToLower(page.Meta.Viewport), " ", ""), "width=device-width")
	page.HasSocialTags = len(page.Meta.OpenGraph) > 0 || hasTwitterCard(doc)
	page.HasContactForm = hasContactForm(doc)
	page.HasPhoneNumber = doc.Find(`a[href^="tel:"]`).Length() > 0 || phonePattern.MatchString(page.BodyText)
	page.HasAddress = doc.Find(`address, [itemprop="streetAddress"]`).Length() > 0 ||
		addressPattern.MatchString(page.BodyText) || zipPattern.MatchString(page.BodyText)
	page.HasNAP = page.HasPhoneNumber && page.HasAddress && BusinessName(page) != ""

	page.HasHTTPS = strings.EqualFold(base.Scheme, "https")
	page.Security.HasMixedContent = page.HasHTTPS && hasMixedContent(doc)
	page.Accessibility = siteaudit.Accessibility{
		AltRatio:       page.Images.AltRatio(),
		HasARIA:        doc.Find("[role], [aria-label], [aria-labelledby], [aria-describedby]").Length() > 0,
		H1FollowedByH2: h1FollowedByH2(doc),
	}

	return page, nil
}

// BusinessName returns the best available business name for a page: the
// Open Graph site name, falling back to the last segment of the title.
func BusinessName(page *siteaudit.PageRecord) string {
	if page.Meta.SiteName != "" {
		return page.Meta.SiteName
	}
	title := page.Title
	for _, sep := range []string{" | ", " - ", " – ", " :: "} {
		if i := strings.LastIndex(title, sep); i >= 0 {
			return strings.TrimSpace(title[i+len(sep):])
		}
	}
	return strings.TrimSpace(title)
}

// BodyText returns the visible text of the document body with whitespace
// collapsed. Script, style and template content is excluded.
func BodyText(doc *goquery.Document) string {
	body := doc.Find("body").First().Clone()
	body.Find("script, style, noscript, template, svg").Remove()
	return cleanText(body.Text())
}

func extractHeadings(doc *goquery.Document) siteaudit.Headings {
	texts := func(sel string) []string {
		out := []string{}
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			if t := cleanText(s.Text()); t != "" {
				out = append(out, t)
			}
		})
		return out
	}
	return siteaudit.Headings{
		H1: texts("h1"),
		H2: texts("h2"),
		H3: texts("h3"),
		H4: texts("h4"),
		H5: texts("h5"),
		H6: texts("h6"),
	}
}

// h1FollowedByH2 reports whether the first H1 is immediately followed, in
// heading order, by an H2.
func h1FollowedByH2(doc *goquery.Document) bool {
	var tags []string
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		tags = append(tags, goquery.NodeName(s))
	})
	for i, tag := range tags {
		if tag == "h1" {
			return i+1 < len(tags) && tags[i+1] == "h2"
		}
	}
	return false
}

func extractLinks(doc *goquery.Document, base *url.URL) siteaudit.Links {
	links := siteaudit.Links{Internal: []siteaudit.LinkRef{}, External: []siteaudit.LinkRef{}}
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href := strings.TrimSpace(sel.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") || isNonHTTPLink(href) {
			return
		}
		text := cleanText(sel.Text())
		if text == "" {
			text = strings.TrimSpace(sel.AttrOr("aria-label", sel.AttrOr("title", "")))
		}

		resolved, ok := resolveURL(base, href)
		if !ok {
			if !seen[href] {
				seen[href] = true
				links.Internal = append(links.Internal, siteaudit.LinkRef{URL: href, AnchorText: text, Broken: true})
			}
			return
		}
		if resolved == "" || seen[resolved] {
			return
		}
		seen[resolved] = true

		link := siteaudit.LinkRef{URL: resolved, AnchorText: text}
		if siteaudit.SameSite(base.Hostname(), siteaudit.Hostname(resolved)) {
			links.Internal = append(links.Internal, link)
		} else {
			links.External = append(links.External, link)
		}
	})

	return links
}

// resolveURL resolves href against base and strips the fragment.
// It reports false when href cannot be parsed and returns an empty string
// for non-HTTP targets.
func resolveURL(base *url.URL, href string) (string, bool) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return "", true
	}
	return resolved.String(), true
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "sms:") ||
		strings.HasPrefix(href, "data:")
}

func extractImages(doc *goquery.Document) siteaudit.Images {
	images := siteaudit.Images{AltTexts: []string{}}
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		images.Total++
		if alt := cleanText(s.AttrOr("alt", "")); alt != "" {
			images.WithAlt++
			images.AltTexts = append(images.AltTexts, alt)
		} else {
			images.WithoutAlt++
		}
	})
	return images
}

// SchemaTypes returns the structured data types declared on the page.
// JSON-LD is read first; microdata itemtype and RDFa typeof attributes are
// consulted only when no JSON-LD type is found. Invalid JSON-LD blocks are
// ignored.
func SchemaTypes(doc *goquery.Document) []string {
	types := []string{}
	seen := make(map[string]bool)
	add := func(t string) {
		t = strings.TrimSpace(t)
		if i := strings.LastIndex(t, "/"); i >= 0 {
			t = t[i+1:]
		}
		if t != "" && !seen[t] {
			seen[t] = true
			types = append(types, t)
		}
	}

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var data any
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return
		}
		for _, t := range jsonLDTypes(data) {
			add(t)
		}
	})
	if len(types) > 0 {
		return types
	}

	doc.Find("[itemtype]").Each(func(_ int, s *goquery.Selection) {
		for _, t := range strings.Fields(s.AttrOr("itemtype", "")) {
			add(t)
		}
	})
	doc.Find("[typeof]").Each(func(_ int, s *goquery.Selection) {
		for _, t := range strings.Fields(s.AttrOr("typeof", "")) {
			if i := strings.Index(t, ":"); i >= 0 {
				t = t[i+1:]
			}
			add(t)
		}
	})
	return types
}

// jsonLDTypes collects @type values, descending into @graph and arrays.
func jsonLDTypes(data any) []string {
	var types []string
	switch v := data.(type) {
	case map[string]any:
		switch t := v["@type"].(type) {
		case string:
			types = append(types, t)
		case []any:
			for _, item := range t {
				if s, ok := item.(string); ok {
					types = append(types, s)
				}
			}
		}
		if graph, ok := v["@graph"].([]any); ok {
			for _, item := range graph {
				types = append(types, jsonLDTypes(item)...)
			}
		}
	case []any:
		for _, item := range v {
			types = append(types, jsonLDTypes(item)...)
		}
	}
	return types
}

func extractMeta(doc *goquery.Document) siteaudit.PageMeta {
	meta := siteaudit.PageMeta{
		OpenGraph: map[string]string{},
		Hreflang:  []string{},
	}

	doc.Find("link[rel]").Each(func(_ int, s *goquery.Selection) {
		rels := strings.Fields(strings.ToLower(s.AttrOr("rel", "")))
		href := strings.TrimSpace(s.AttrOr("href", ""))
		for _, rel := range rels {
			switch rel {
			case "canonical":
				if meta.CanonicalURL == "" {
					meta.CanonicalURL = href
				}
			case "icon", "apple-touch-icon":
				meta.HasFavicon = true
			case "alternate":
				if lang := s.AttrOr("hreflang", ""); lang != "" {
					meta.Hreflang = append(meta.Hreflang, lang)
				}
			case "stylesheet":
				meta.StyleCount++
			}
		}
	})
	meta.StyleCount += doc.Find("style").Length()
	meta.ScriptCount = doc.Find("script").Length()

	meta.Robots = metaContent(doc, "robots")
	meta.Viewport = metaContent(doc, "viewport")
	meta.Lang = strings.TrimSpace(doc.Find("html").First().AttrOr("lang", ""))

	if charset, ok := doc.Find("meta[charset]").First().Attr("charset"); ok {
		meta.Charset = strings.TrimSpace(charset)
	} else {
		doc.Find("meta[http-equiv]").Each(func(_ int, s *goquery.Selection) {
			if strings.EqualFold(s.AttrOr("http-equiv", ""), "content-type") {
				content := strings.ToLower(s.AttrOr("content", ""))
				if i := strings.Index(content, "charset="); i >= 0 {
					meta.Charset = strings.TrimSpace(content[i+len("charset="):])
				}
			}
		})
	}

	doc.Find("meta[property]").Each(func(_ int, s *goquery.Selection) {
		prop := strings.ToLower(s.AttrOr("property", ""))
		if strings.HasPrefix(prop, "og:") {
			meta.OpenGraph[strings.TrimPrefix(prop, "og:")] = strings.TrimSpace(s.AttrOr("content", ""))
		}
	})
	meta.SiteName = meta.OpenGraph["site_name"]

	return meta
}

func extractStructure(doc *goquery.Document, page *siteaudit.PageRecord) siteaudit.ContentStructure {
	hasFAQ := doc.Find("details summary").Length() > 0
	for _, t := range page.SchemaTypes {
		if t == "FAQPage" {
			hasFAQ = true
		}
	}
	if !hasFAQ {
		for _, h := range append(append([]string{}, page.Headings.H2...), page.Headings.H3...) {
			l := strings.ToLower(h)
			if strings.Contains(l, "faq") || strings.Contains(l, "frequently asked") {
				hasFAQ = true
				break
			}
		}
	}

	hasVideo := doc.Find("video").Length() > 0
	doc.Find("iframe[src]").Each(func(_ int, s *goquery.Selection) {
		src := strings.ToLower(s.AttrOr("src", ""))
		if strings.Contains(src, "youtube") || strings.Contains(src, "vimeo") || strings.Contains(src, "wistia") {
			hasVideo = true
		}
	})

	return siteaudit.ContentStructure{
		HasLists:    doc.Find("ul li, ol li").Length() > 0,
		HasFAQs:     hasFAQ,
		HasVideo:    hasVideo,
		HasTable:    doc.Find("table").Length() > 0,
		HasEmphasis: doc.Find("strong, b, em").Length() > 0,
	}
}

// hasContactForm reports whether any form collects free text, an email
// address or a phone number.
func hasContactForm(doc *goquery.Document) bool {
	found := false
	doc.Find("form").EachWithBreak(func(_ int, form *goquery.Selection) bool {
		if form.Find(`textarea, input[type="email"], input[type="tel"], input[name*="email"], input[name*="phone"]`).Length() > 0 {
			found = true
		}
		return !found
	})
	return found
}

func hasTwitterCard(doc *goquery.Document) bool {
	found := false
	doc.Find("meta[name]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		found = strings.HasPrefix(strings.ToLower(s.AttrOr("name", "")), "twitter:")
		return !found
	})
	return found
}

// hasMixedContent reports whether an HTTPS page loads any subresource over
// plain HTTP.
func hasMixedContent(doc *goquery.Document) bool {
	found := false
	check := func(sel, attr string) {
		doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			found = strings.HasPrefix(strings.ToLower(strings.TrimSpace(s.AttrOr(attr, ""))), "http://")
			return !found
		})
	}
	check("img[src], script[src], iframe[src], source[src], video[src], audio[src]", "src")
	if !found {
		check(`link[rel="stylesheet"][href]`, "href")
	}
	return found
}

// metaContent returns the content of the first meta tag whose name matches
// name case-insensitively.
func metaContent(doc *goquery.Document, name string) string {
	var content string
	doc.Find("meta[name]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.EqualFold(strings.TrimSpace(s.AttrOr("name", "")), name) {
			content = strings.TrimSpace(s.AttrOr("content", ""))
			return false
		}
		return true
	})
	return content
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
