package audit_test

import (
	"errors"
	"testing"

	"github.com/fwojciec/siteaudit"
	"github.com/fwojciec/siteaudit/audit"
	"github.com/fwojciec/siteaudit/mock"
	"github.com/stretchr/testify/assert"
)

func TestFingerprinter(t *testing.T) {
	t.Parallel()

	extractor := func(content string, err error) *mock.ContentExtractor {
		return &mock.ContentExtractor{
			ExtractFn: func(_ string) (*siteaudit.ExtractResult, error) {
				if err != nil {
					return nil, err
				}
				return &siteaudit.ExtractResult{ContentHTML: content}, nil
			},
		}
	}
	passthrough := &mock.Converter{
		ConvertFn: func(html string) (string, error) { return html, nil },
	}
	page := func(html, body string) *siteaudit.PageRecord {
		p := siteaudit.NewEmptyPage("https://example.com/")
		p.RawHTML = html
		p.BodyText = body
		return p
	}

	t.Run("same main content hashes equal despite boilerplate", func(t *testing.T) {
		t.Parallel()

		f := &audit.Fingerprinter{Extractor: extractor("<p>Main  content</p>", nil), Converter: passthrough}

		a := f.Fingerprint(page("<nav>A</nav><p>x</p>", "A"))
		b := f.Fingerprint(page("<nav>B</nav><p>x</p>", "B"))

		assert.NotZero(t, a)
		assert.Equal(t, a, b)
	})

	t.Run("falls back to the second extractor", func(t *testing.T) {
		t.Parallel()

		primary := &audit.Fingerprinter{
			Extractor: extractor("", errors.New("no content")),
			Fallback:  extractor("<p>Fallback</p>", nil),
			Converter: passthrough,
		}
		direct := &audit.Fingerprinter{Extractor: extractor("<p>Fallback</p>", nil), Converter: passthrough}

		assert.Equal(t, direct.Fingerprint(page("<p/>", "")), primary.Fingerprint(page("<p/>", "")))
	})

	t.Run("falls back to body text", func(t *testing.T) {
		t.Parallel()

		f := &audit.Fingerprinter{Extractor: extractor("", nil)}

		a := f.Fingerprint(page("<p>Hello</p>", "Hello   World"))
		b := f.Fingerprint(page("", "hello world"))

		assert.NotZero(t, a)
		assert.Equal(t, a, b)
	})

	t.Run("converter errors fall through", func(t *testing.T) {
		t.Parallel()

		f := &audit.Fingerprinter{
			Extractor: extractor("<p>x</p>", nil),
			Converter: &mock.Converter{ConvertFn: func(string) (string, error) { return "", errors.New("boom") }},
		}

		assert.Equal(t, (&audit.Fingerprinter{}).Fingerprint(page("", "body")), f.Fingerprint(page("<p>x</p>", "body")))
	})

	t.Run("no content hashes to zero", func(t *testing.T) {
		t.Parallel()

		assert.Zero(t, (&audit.Fingerprinter{}).Fingerprint(page("", "   ")))
	})

	t.Run("different content differs", func(t *testing.T) {
		t.Parallel()

		f := &audit.Fingerprinter{}
		assert.NotEqual(t, f.Fingerprint(page("", "one")), f.Fingerprint(page("", "two")))
	})
}
