package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/siteaudit"
	"github.com/fwojciec/siteaudit/mock"
	saslog "github.com/fwojciec/siteaudit/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingPageFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("logs successful fetch at info", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.PageFetcher{
			FetchFn: func(_ context.Context, url string, _ siteaudit.SessionCache) *siteaudit.PageRecord {
				page := siteaudit.NewEmptyPage(url)
				page.StatusCode = 200
				page.WordCount = 412
				return page
			},
		}

		fetcher := saslog.NewLoggingPageFetcher(inner, logger)
		page := fetcher.Fetch(context.Background(), "https://example.com/services", nil)

		assert.Equal(t, 412, page.WordCount)
		output := buf.String()
		assert.Contains(t, output, "level=INFO")
		assert.Contains(t, output, "url=https://example.com/services")
		assert.Contains(t, output, "status=200")
		assert.Contains(t, output, "words=412")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs failed fetch at warn", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.PageFetcher{
			FetchFn: func(_ context.Context, url string, _ siteaudit.SessionCache) *siteaudit.PageRecord {
				return siteaudit.NewErrorPage(url, 404, "404 Not Found", "HTTP 404")
			},
		}

		fetcher := saslog.NewLoggingPageFetcher(inner, logger)
		page := fetcher.Fetch(context.Background(), "https://example.com/gone", nil)

		assert.True(t, page.Failed())
		output := buf.String()
		assert.Contains(t, output, "level=WARN")
		assert.Contains(t, output, "status=404")
		assert.Contains(t, output, "err=\"HTTP 404\"")
	})
}

func TestLoggingRenderer_Render(t *testing.T) {
	t.Parallel()

	t.Run("logs render with bytes and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Renderer{
			RenderFn: func(_ context.Context, _ string) (string, error) {
				return "<html>content</html>", nil
			},
		}

		r := saslog.NewLoggingRenderer(inner, logger)
		html, err := r.Render(context.Background(), "https://example.com/app")

		require.NoError(t, err)
		assert.Equal(t, "<html>content</html>", html)
		output := buf.String()
		assert.Contains(t, output, "render")
		assert.Contains(t, output, "url=https://example.com/app")
		assert.Contains(t, output, "bytes=20")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Renderer{
			RenderFn: func(_ context.Context, _ string) (string, error) {
				return "", errors.New("navigation failed")
			},
		}

		r := saslog.NewLoggingRenderer(inner, logger)
		_, err := r.Render(context.Background(), "https://example.com/app")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=\"navigation failed\"")
	})

	t.Run("close delegates to inner renderer", func(t *testing.T) {
		t.Parallel()

		closeCalled := false
		inner := &mock.Renderer{
			CloseFn: func() error {
				closeCalled = true
				return nil
			},
		}

		r := saslog.NewLoggingRenderer(inner, slog.New(slog.DiscardHandler))

		require.NoError(t, r.Close())
		assert.True(t, closeCalled)
	})
}
