package audit_test

import (
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/siteaudit"
	"github.com/fwojciec/siteaudit/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const navHTML = `<html><body>
	<nav><a href="/">Home</a><a href="/services/0">Service</a><a href="/contact">Contact</a><a href="/about">About</a></nav>
	<footer><a href="/privacy">Privacy</a></footer>
</body></html>`

func docsFor(t *testing.T, site *siteaudit.SiteStructure) map[*siteaudit.PageRecord]*goquery.Document {
	t.Helper()
	docs := make(map[*siteaudit.PageRecord]*goquery.Document)
	for _, p := range site.Pages() {
		docs[p] = parseHTML(t, p.RawHTML)
	}
	return docs
}

func TestNavigationConsistency(t *testing.T) {
	t.Parallel()

	t.Run("consistent navigation", func(t *testing.T) {
		t.Parallel()

		site := siteWith(true, 1)
		for _, p := range site.Pages() {
			p.RawHTML = navHTML
		}

		got := audit.NavigationConsistency(site, docsFor(t, site))

		require.Len(t, got, 4)
		for _, f := range got {
			assert.Equal(t, siteaudit.StatusOK, f.Status, "%s: %s", f.Name, f.Notes)
		}
	})

	t.Run("pages without navigation", func(t *testing.T) {
		t.Parallel()

		site := siteWith(true, 1)
		site.Homepage.RawHTML = navHTML

		got := audit.NavigationConsistency(site, docsFor(t, site))

		f, ok := find(got, audit.CheckNavigationConsistency.Name)
		require.True(t, ok)
		assert.Equal(t, siteaudit.StatusPriorityOFI, f.Status)
	})

	t.Run("navigation missing key pages", func(t *testing.T) {
		t.Parallel()

		site := siteWith(true, 1)
		site.Homepage.RawHTML = `<nav><a href="/">Home</a><a href="/about">About</a><a href="/team">Team</a></nav>`

		got := audit.NavigationConsistency(site, docsFor(t, site))

		f, ok := find(got, audit.CheckKeyPagesInNavigation.Name)
		require.True(t, ok)
		assert.Equal(t, siteaudit.StatusPriorityOFI, f.Status)
		f, ok = find(got, audit.CheckFooterLinks.Name)
		require.True(t, ok)
		assert.Equal(t, siteaudit.StatusOFI, f.Status)
	})

	t.Run("homepage without navigation", func(t *testing.T) {
		t.Parallel()

		site := siteWith(false, 0)
		site.Homepage.RawHTML = `<p>No nav</p>`

		got := audit.NavigationConsistency(site, docsFor(t, site))

		f, _ := find(got, audit.CheckNavigationConsistency.Name)
		assert.Equal(t, siteaudit.StatusNA, f.Status)
		f, _ = find(got, audit.CheckNavigationSize.Name)
		assert.Equal(t, siteaudit.StatusPriorityOFI, f.Status)
		f, _ = find(got, audit.CheckKeyPagesInNavigation.Name)
		assert.Equal(t, siteaudit.StatusNA, f.Status)
	})

	t.Run("missing homepage", func(t *testing.T) {
		t.Parallel()

		got := audit.NavigationConsistency(&siteaudit.SiteStructure{}, nil)

		require.Len(t, got, 4)
		for _, f := range got {
			assert.Equal(t, siteaudit.StatusNA, f.Status)
		}
	})
}

func TestInternalLinking(t *testing.T) {
	t.Parallel()

	t.Run("orphan pages", func(t *testing.T) {
		t.Parallel()

		site := siteWith(true, 2)
		site.Homepage.Links.Internal = []siteaudit.LinkRef{
			{URL: "https://example.com/contact", AnchorText: "Contact"},
			{URL: "https://www.example.com/services/0/", AnchorText: "click here"},
		}

		got := audit.InternalLinking(site)

		require.Len(t, got, 5)
		f, _ := find(got, audit.CheckOrphanPages.Name)
		assert.Equal(t, siteaudit.StatusPriorityOFI, f.Status, f.Notes)
		f, _ = find(got, audit.CheckHomepageReach.Name)
		assert.Equal(t, siteaudit.StatusOK, f.Status, f.Notes)
		f, _ = find(got, audit.CheckAnchorTextQuality.Name)
		assert.Equal(t, siteaudit.StatusPriorityOFI, f.Status, f.Notes)
		f, _ = find(got, audit.CheckPagesWithBroken.Name)
		assert.Equal(t, siteaudit.StatusOK, f.Status)
	})

	t.Run("homepage only", func(t *testing.T) {
		t.Parallel()

		got := audit.InternalLinking(siteWith(false, 0))

		f, _ := find(got, audit.CheckOrphanPages.Name)
		assert.Equal(t, siteaudit.StatusNA, f.Status)
		f, _ = find(got, audit.CheckAnchorTextQuality.Name)
		assert.Equal(t, siteaudit.StatusNA, f.Status)
	})
}

func TestContentConsistency(t *testing.T) {
	t.Parallel()

	site := siteWith(true, 2)
	site.Homepage.Meta.SiteName = "Acme Plumbing"
	site.ServicePages[1].Title = "Unbranded"
	site.ServicePages[1].Meta.Lang = "es"
	site.Homepage.Meta.Lang = "en"

	got := audit.ContentConsistency(site)

	require.Len(t, got, 4)
	f, _ := find(got, audit.CheckBrandingConsistency.Name)
	assert.Equal(t, siteaudit.StatusOFI, f.Status, f.Notes)
	f, _ = find(got, audit.CheckLengthConsistency.Name)
	assert.Equal(t, siteaudit.StatusOK, f.Status)
	f, _ = find(got, audit.CheckMetaCoverage.Name)
	assert.Equal(t, siteaudit.StatusOK, f.Status)
	f, _ = find(got, audit.CheckLanguageConsistency.Name)
	assert.Equal(t, siteaudit.StatusOFI, f.Status)
}

func TestDuplicateContent(t *testing.T) {
	t.Parallel()

	site := siteWith(true, 2)
	site.ServicePages[0].WordCount = 50
	site.ServicePages[1].Title = site.ServicePages[0].Title

	got := audit.DuplicateContent(site, &audit.Fingerprinter{})

	require.Len(t, got, 4)
	f, _ := find(got, audit.CheckDuplicateContent.Name)
	assert.Equal(t, siteaudit.StatusPriorityOFI, f.Status, "identical body text")
	f, _ = find(got, audit.CheckThinContent.Name)
	assert.Equal(t, siteaudit.StatusOFI, f.Status)
	f, _ = find(got, audit.CheckDuplicateTitles.Name)
	assert.Equal(t, siteaudit.StatusOFI, f.Status)
	f, _ = find(got, audit.CheckDuplicateMeta.Name)
	assert.Equal(t, siteaudit.StatusPriorityOFI, f.Status)
}
