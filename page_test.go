package siteaudit_test

import (
	"testing"

	"github.com/fwojciec/siteaudit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewErrorPage(t *testing.T) {
	t.Parallel()

	page := siteaudit.NewErrorPage("https://example.com/x", 404, "Not Found", "HTTP 404")

	require.NotNil(t, page)
	assert.True(t, page.Failed())
	assert.Equal(t, 404, page.StatusCode)
	assert.True(t, page.HasHTTPS)
	assert.NotNil(t, page.Headings.H1)
	assert.NotNil(t, page.Links.Internal)
	assert.NotNil(t, page.Links.External)
	assert.NotNil(t, page.SchemaTypes)
	assert.Zero(t, page.WordCount)
	assert.True(t, page.ThinContent())
	assert.True(t, page.MissingH1())
}

func TestLinks_BrokenCount(t *testing.T) {
	t.Parallel()

	links := siteaudit.Links{Internal: []siteaudit.LinkRef{
		{URL: "https://example.com/a"},
		{URL: "https://example.com/b", Broken: true},
		{URL: "https://example.com/c", Broken: true},
	}}
	assert.Equal(t, 2, links.BrokenCount())
}

func TestImages_AltRatio(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.0, siteaudit.Images{}.AltRatio(), 0.0001)
	assert.InDelta(t, 0.25, siteaudit.Images{Total: 4, WithAlt: 1, WithoutAlt: 3}.AltRatio(), 0.0001)
}

func TestPageRecord_Secure(t *testing.T) {
	t.Parallel()

	page := &siteaudit.PageRecord{HasHTTPS: true, Security: siteaudit.Security{SecurityHeaders: 2}}
	assert.True(t, page.Secure())

	page.Security.HasMixedContent = true
	assert.False(t, page.Secure())

	page = &siteaudit.PageRecord{HasHTTPS: true, Security: siteaudit.Security{SecurityHeaders: 1}}
	assert.False(t, page.Secure())
}

func TestSiteStructure_Pages(t *testing.T) {
	t.Parallel()

	home := &siteaudit.PageRecord{URL: "https://example.com/"}
	contact := &siteaudit.PageRecord{URL: "https://example.com/contact"}
	svc := &siteaudit.PageRecord{URL: "https://example.com/services"}
	other := &siteaudit.PageRecord{URL: "https://example.com/about"}
	site := &siteaudit.SiteStructure{
		Homepage:     home,
		ContactPage:  contact,
		ServicePages: []*siteaudit.PageRecord{svc},
		OtherPages:   []*siteaudit.PageRecord{other},
	}

	assert.Equal(t, []*siteaudit.PageRecord{home, contact, svc, other}, site.Pages())
	assert.Equal(t, []*siteaudit.PageRecord{contact, svc, other}, site.ClassifiablePages())
	assert.Equal(t, []*siteaudit.PageRecord{contact}, site.PagesIn(siteaudit.CategoryContact))
	assert.Empty(t, site.PagesIn(siteaudit.CategoryLocation))
}

func TestOverride_Validate(t *testing.T) {
	t.Parallel()

	valid := siteaudit.Override{UserID: "u", AuditID: "a", PageURL: "https://example.com/", Priority: siteaudit.Tier1}
	require.NoError(t, valid.Validate())

	t.Run("missing user", func(t *testing.T) {
		t.Parallel()
		o := valid
		o.UserID = ""
		assert.Equal(t, siteaudit.EINVALID, siteaudit.ErrorCode(o.Validate()))
	})

	t.Run("unknown tier", func(t *testing.T) {
		t.Parallel()
		o := valid
		o.Priority = "Tier9"
		assert.Equal(t, siteaudit.EINVALID, siteaudit.ErrorCode(o.Validate()))
	})
}
