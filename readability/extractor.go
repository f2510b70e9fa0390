// Package readability is the fallback main-content extractor, built on
// go-readability.
package readability

import (
	"strings"

	"github.com/fwojciec/siteaudit"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements siteaudit.ContentExtractor at compile time.
var _ siteaudit.ContentExtractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the main content of rawHTML. Returns EINVALID for blank
// input and ENOTFOUND when the article has no text.
func (e *Extractor) Extract(rawHTML string) (*siteaudit.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, siteaudit.Errorf(siteaudit.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(article.TextContent) == "" {
		return nil, siteaudit.Errorf(siteaudit.ENOTFOUND, "no main content")
	}

	return &siteaudit.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
