package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/siteaudit"
)

var _ siteaudit.AuditService = (*LoggingAuditService)(nil)

// LoggingAuditService wraps an AuditService, logging each audit and every
// progress stage it reports.
type LoggingAuditService struct {
	next   siteaudit.AuditService
	logger *slog.Logger
}

// NewLoggingAuditService creates a new LoggingAuditService.
func NewLoggingAuditService(next siteaudit.AuditService, logger *slog.Logger) *LoggingAuditService {
	return &LoggingAuditService{next: next, logger: logger}
}

// CrawlAndAudit delegates to the wrapped service and logs the outcome.
func (s *LoggingAuditService) CrawlAndAudit(ctx context.Context, url string, progress siteaudit.ProgressFunc) (report *siteaudit.Report, err error) {
	defer func(begin time.Time) {
		s.log("audit", url, begin, report, err)
	}(time.Now())
	return s.next.CrawlAndAudit(ctx, url, s.progress(url, progress))
}

// CrawlAndAuditEnhanced delegates to the wrapped service and logs the outcome.
func (s *LoggingAuditService) CrawlAndAuditEnhanced(ctx context.Context, url string, progress siteaudit.ProgressFunc) (report *siteaudit.EnhancedReport, err error) {
	defer func(begin time.Time) {
		var r *siteaudit.Report
		if report != nil {
			r = &report.Report
		}
		s.log("enhanced audit", url, begin, r, err)
	}(time.Now())
	return s.next.CrawlAndAuditEnhanced(ctx, url, s.progress(url, progress))
}

// ContinueCrawl delegates to the wrapped service and logs the outcome.
func (s *LoggingAuditService) ContinueCrawl(ctx context.Context, url string) (report *siteaudit.Report, err error) {
	defer func(begin time.Time) {
		s.log("continue crawl", url, begin, report, err)
	}(time.Now())
	return s.next.ContinueCrawl(ctx, url)
}

// CrawlerStats delegates to the wrapped service.
func (s *LoggingAuditService) CrawlerStats() siteaudit.CrawlerStats {
	return s.next.CrawlerStats()
}

func (s *LoggingAuditService) progress(url string, next siteaudit.ProgressFunc) siteaudit.ProgressFunc {
	return func(stage string, percent int) {
		s.logger.Debug("progress", "url", url, "stage", stage, "percent", percent)
		if next != nil {
			next(stage, percent)
		}
	}
}

func (s *LoggingAuditService) log(msg, url string, begin time.Time, report *siteaudit.Report, err error) {
	if err != nil {
		s.logger.Error(msg, "url", url, "duration", time.Since(begin), "err", err)
		return
	}
	stats := s.next.CrawlerStats()
	s.logger.Info(msg,
		"url", url,
		"pages", stats.PagesCrawled,
		"skipped", stats.PagesSkipped,
		"errors", stats.ErrorsEncountered,
		"findings", report.Summary.Total,
		"priority", report.Summary.PriorityOFICount,
		"duration", time.Since(begin),
	)
}
