// Package slog decorates siteaudit services with structured logging.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/siteaudit"
)

var (
	_ siteaudit.PageFetcher = (*LoggingPageFetcher)(nil)
	_ siteaudit.Renderer    = (*LoggingRenderer)(nil)
)

// LoggingPageFetcher wraps a PageFetcher with logging. Failed fetches are
// logged at warn level.
type LoggingPageFetcher struct {
	next   siteaudit.PageFetcher
	logger *slog.Logger
}

// NewLoggingPageFetcher creates a new LoggingPageFetcher.
func NewLoggingPageFetcher(next siteaudit.PageFetcher, logger *slog.Logger) *LoggingPageFetcher {
	return &LoggingPageFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the outcome.
func (f *LoggingPageFetcher) Fetch(ctx context.Context, url string, cache siteaudit.SessionCache) (page *siteaudit.PageRecord) {
	defer func(begin time.Time) {
		if page.Failed() {
			f.logger.Warn("fetch",
				"url", url,
				"status", page.StatusCode,
				"duration", time.Since(begin),
				"err", page.Error,
			)
			return
		}
		f.logger.Info("fetch",
			"url", url,
			"status", page.StatusCode,
			"words", page.WordCount,
			"rendered", page.Rendered,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return f.next.Fetch(ctx, url, cache)
}

// LoggingRenderer wraps a Renderer with logging.
type LoggingRenderer struct {
	next   siteaudit.Renderer
	logger *slog.Logger
}

// NewLoggingRenderer creates a new LoggingRenderer.
func NewLoggingRenderer(next siteaudit.Renderer, logger *slog.Logger) *LoggingRenderer {
	return &LoggingRenderer{next: next, logger: logger}
}

// Render logs the URL being rendered and delegates to the wrapped renderer.
func (r *LoggingRenderer) Render(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		r.logger.Info("render",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Render(ctx, url)
}

// Close delegates to the wrapped renderer.
func (r *LoggingRenderer) Close() error {
	return r.next.Close()
}
