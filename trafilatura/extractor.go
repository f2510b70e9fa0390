// Package trafilatura extracts the main content of business pages with
// go-trafilatura.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/siteaudit"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements siteaudit.ContentExtractor at compile time.
var _ siteaudit.ContentExtractor = (*Extractor)(nil)

// Extractor separates a page's own copy from the navigation, footer,
// sidebar and comment sections that sites repeat on every page.
type Extractor struct {
	// Precision trades recall for less boilerplate. Fingerprinting uses
	// it so that shared calls to action do not make distinct pages look alike.
	Precision bool
}

// NewExtractor creates a new Extractor favoring precision.
func NewExtractor() *Extractor {
	return &Extractor{Precision: true}
}

// Extract returns the main content of rawHTML. Returns EINVALID for blank
// input and ENOTFOUND when no main content could be identified.
func (e *Extractor) Extract(rawHTML string) (*siteaudit.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, siteaudit.Errorf(siteaudit.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
	}
	if e.Precision {
		opts.Focus = trafilatura.FavorPrecision
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}
	if result.ContentNode == nil {
		return nil, siteaudit.Errorf(siteaudit.ENOTFOUND, "no main content")
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, result.ContentNode); err != nil {
		return nil, err
	}

	return &siteaudit.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: buf.String(),
	}, nil
}
