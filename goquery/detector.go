package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/siteaudit"
)

// JS-heavy heuristics.
const (
	// MinVisibleText is the visible text length below which a page looks
	// like an unrendered client-side application shell.
	MinVisibleText = 200

	// ManyScripts is the script tag count at which a page is considered
	// script-heavy.
	ManyScripts = 15

	// MinFrameworkHits is how many distinct framework markers must appear.
	MinFrameworkHits = 2
)

// frameworkMarkers are substrings left in server HTML by client-side
// frameworks.
var frameworkMarkers = []string{
	"react",
	"data-reactroot",
	"__next",
	"_next/static",
	"ng-version",
	"ng-app",
	"angular",
	"vue",
	"data-v-",
	"__nuxt",
	"svelte",
	"ember",
	"gatsby",
	"webpack",
	`id="root"`,
	`id="app"`,
}

// Ensure JSDetector implements siteaudit.JSDetector at compile time.
var _ siteaudit.JSDetector = (*JSDetector)(nil)

// JSDetector decides whether a page depends on client-side rendering.
// A page is flagged when at least two of three signals are present: several
// framework markers, little visible text, and many script tags.
type JSDetector struct{}

// NewJSDetector creates a new JSDetector.
func NewJSDetector() *JSDetector {
	return &JSDetector{}
}

// IsJSHeavy reports whether html looks like it needs a browser to render.
func (d *JSDetector) IsJSHeavy(html string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return false
	}

	signals := 0
	if d.frameworkHits(html) >= MinFrameworkHits {
		signals++
	}
	if len(BodyText(doc)) < MinVisibleText {
		signals++
	}
	if doc.Find("script").Length() >= ManyScripts {
		signals++
	}
	return signals >= 2
}

// frameworkHits counts the distinct framework markers present in html.
func (d *JSDetector) frameworkHits(html string) int {
	lower := strings.ToLower(html)
	hits := 0
	for _, marker := range frameworkMarkers {
		if strings.Contains(lower, marker) {
			hits++
		}
	}
	return hits
}
