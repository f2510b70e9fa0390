package mock

import "github.com/fwojciec/siteaudit"

var (
	_ siteaudit.ContentExtractor = (*ContentExtractor)(nil)
	_ siteaudit.Converter        = (*Converter)(nil)
	_ siteaudit.Fingerprinter    = (*Fingerprinter)(nil)
)

// ContentExtractor is a mock implementation of siteaudit.ContentExtractor.
type ContentExtractor struct {
	ExtractFn func(html string) (*siteaudit.ExtractResult, error)
}

func (e *ContentExtractor) Extract(html string) (*siteaudit.ExtractResult, error) {
	return e.ExtractFn(html)
}

// Converter is a mock implementation of siteaudit.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

// Fingerprinter is a mock implementation of siteaudit.Fingerprinter.
type Fingerprinter struct {
	FingerprintFn func(page *siteaudit.PageRecord) uint64
}

func (f *Fingerprinter) Fingerprint(page *siteaudit.PageRecord) uint64 {
	return f.FingerprintFn(page)
}
