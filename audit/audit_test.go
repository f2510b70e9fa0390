package audit_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/siteaudit"
	"github.com/stretchr/testify/require"
)

// goodPage returns a page that passes most checks.
func goodPage(url, title string) *siteaudit.PageRecord {
	p := siteaudit.NewEmptyPage(url)
	p.StatusCode = 200
	p.Title = title
	p.MetaDescription = strings.Repeat("a", 140)
	p.Headings.H1 = []string{title}
	p.Headings.H2 = []string{"Why choose us", "What we do"}
	p.Accessibility.H1FollowedByH2 = true
	p.BodyText = strings.Repeat("We fix your pipes fast. ", 80)
	p.WordCount = 400
	p.MobileFriendly = true
	p.HasSchema = true
	p.SchemaTypes = []string{"Plumber"}
	p.HasCanonical = true
	p.Meta.CanonicalURL = url
	p.HasSocialTags = true
	p.HasPhoneNumber = true
	p.HasAddress = true
	p.HasNAP = true
	p.HasContactForm = true
	p.Security.SecurityHeaders = 3
	p.PageLoadSpeed = siteaudit.PageLoadSpeed{Score: 95, LoadTimeMs: 500, SizeBytes: 40000}
	p.Images = siteaudit.Images{Total: 2, WithAlt: 2, AltTexts: []string{"a", "b"}}
	return p
}

func siteWith(contact bool, services int) *siteaudit.SiteStructure {
	site := &siteaudit.SiteStructure{
		Homepage:         goodPage("https://example.com/", "Acme Plumbing | Austin Plumbers You Can Trust"),
		ServicePages:     []*siteaudit.PageRecord{},
		LocationPages:    []*siteaudit.PageRecord{},
		ServiceAreaPages: []*siteaudit.PageRecord{},
		OtherPages:       []*siteaudit.PageRecord{},
		HasSitemapXML:    true,
	}
	if contact {
		site.ContactPage = goodPage("https://example.com/contact", "Contact Acme Plumbing in Austin, Texas Today")
	}
	for i := range services {
		site.ServicePages = append(site.ServicePages,
			goodPage(fmt.Sprintf("https://example.com/services/%d", i), fmt.Sprintf("Service %d | Acme Plumbing of Austin Texas", i)))
	}
	return site
}

func find(items []siteaudit.Finding, name string) (siteaudit.Finding, bool) {
	for _, f := range items {
		if f.Name == name {
			return f, true
		}
	}
	return siteaudit.Finding{}, false
}

func statuses(items []siteaudit.Finding) map[siteaudit.Status]int {
	out := make(map[siteaudit.Status]int)
	for _, f := range items {
		out[f.Status]++
	}
	return out
}

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}
