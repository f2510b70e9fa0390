package audit

import (
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/siteaudit"
)

var _ siteaudit.Fingerprinter = (*Fingerprinter)(nil)

// Fingerprinter hashes a page's main content. The content is taken from
// Extractor, then Fallback, converted to Markdown and whitespace-normalized
// before hashing. Pages whose main content cannot be extracted are hashed
// by their body text. All fields are optional.
type Fingerprinter struct {
	Extractor siteaudit.ContentExtractor
	Fallback  siteaudit.ContentExtractor
	Converter siteaudit.Converter
}

// Fingerprint returns the content hash of page, or 0 if it has no content.
func (f *Fingerprinter) Fingerprint(page *siteaudit.PageRecord) uint64 {
	text := normalizeContent(f.mainContent(page.RawHTML))
	if text == "" {
		text = normalizeContent(page.BodyText)
	}
	if text == "" {
		return 0
	}
	return xxhash.Sum64String(text)
}

func (f *Fingerprinter) mainContent(html string) string {
	if html == "" {
		return ""
	}
	for _, e := range []siteaudit.ContentExtractor{f.Extractor, f.Fallback} {
		if e == nil {
			continue
		}
		res, err := e.Extract(html)
		if err != nil || res == nil || strings.TrimSpace(res.ContentHTML) == "" {
			continue
		}
		if f.Converter == nil {
			return res.ContentHTML
		}
		md, err := f.Converter.Convert(res.ContentHTML)
		if err != nil {
			continue
		}
		return md
	}
	return ""
}

func normalizeContent(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
