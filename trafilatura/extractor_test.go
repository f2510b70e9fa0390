package trafilatura_test

import (
	"testing"

	"github.com/fwojciec/siteaudit"
	"github.com/fwojciec/siteaudit/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const servicePage = `<!DOCTYPE html>
<html>
<head>
<title>Drain Cleaning | Acme Plumbing</title>
<meta property="og:title" content="Drain Cleaning">
</head>
<body>
<nav class="main-nav">
<ul>
<li><a href="/">Home</a></li>
<li><a href="/services">Services</a></li>
<li><a href="/contact">Contact</a></li>
</ul>
</nav>
<article>
<h1>Drain Cleaning in Springfield</h1>
<p>Our licensed plumbers clear clogged kitchen sinks, shower drains and main sewer lines using hydro jetting and camera inspection.</p>
<p>Every drain cleaning visit includes a written estimate before any work begins, and we guarantee the repair for a full year.</p>
<p>Slow drains are usually caused by grease, hair and mineral build-up that ordinary store-bought cleaners cannot dissolve.</p>
</article>
<aside class="sidebar">Call now for a free quote</aside>
<footer>Copyright 2026 Acme Plumbing. All rights reserved.</footer>
</body>
</html>`

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts title", func(t *testing.T) {
		t.Parallel()

		result, err := trafilatura.NewExtractor().Extract(servicePage)

		require.NoError(t, err)
		assert.NotEmpty(t, result.Title)
	})

	t.Run("keeps the page copy", func(t *testing.T) {
		t.Parallel()

		result, err := trafilatura.NewExtractor().Extract(servicePage)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "hydro jetting")
		assert.Contains(t, result.ContentHTML, "written estimate")
	})

	t.Run("drops navigation and footer", func(t *testing.T) {
		t.Parallel()

		result, err := trafilatura.NewExtractor().Extract(servicePage)

		require.NoError(t, err)
		assert.NotContains(t, result.ContentHTML, "All rights reserved")
		assert.NotContains(t, result.ContentHTML, `href="/contact"`)
	})

	t.Run("recall mode also extracts", func(t *testing.T) {
		t.Parallel()

		result, err := (&trafilatura.Extractor{}).Extract(servicePage)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "hydro jetting")
	})

	t.Run("returns EINVALID for blank input", func(t *testing.T) {
		t.Parallel()

		_, err := trafilatura.NewExtractor().Extract("  \n")

		assert.Equal(t, siteaudit.EINVALID, siteaudit.ErrorCode(err))
	})
}
