package siteaudit

// ExtractResult holds the main content extracted from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML with navigation,
	// footer, sidebar and ads removed.
	ContentHTML string
}

// ContentExtractor separates a page's main content from boilerplate.
type ContentExtractor interface {
	Extract(html string) (*ExtractResult, error)
}

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms clean HTML (e.g. from a ContentExtractor) into Markdown.
	Convert(html string) (string, error)
}

// Fingerprinter computes a stable hash of a page's main content so that
// pages with duplicate content can be grouped.
type Fingerprinter interface {
	// Fingerprint returns 0 when the page has no usable content.
	Fingerprint(page *PageRecord) uint64
}
