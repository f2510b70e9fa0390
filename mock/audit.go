package mock

import (
	"context"

	"github.com/fwojciec/siteaudit"
)

var (
	_ siteaudit.SiteCrawler  = (*SiteCrawler)(nil)
	_ siteaudit.Classifier   = (*Classifier)(nil)
	_ siteaudit.Analyzer     = (*Analyzer)(nil)
	_ siteaudit.AuditService = (*AuditService)(nil)
	_ siteaudit.ReportWriter = (*ReportWriter)(nil)
)

// SiteCrawler is a mock implementation of siteaudit.SiteCrawler.
type SiteCrawler struct {
	CrawlFn    func(ctx context.Context, url string) (*siteaudit.SiteStructure, error)
	ContinueFn func(ctx context.Context) (*siteaudit.SiteStructure, error)
	RootURLFn  func() string
	StatsFn    func() siteaudit.CrawlerStats
}

func (c *SiteCrawler) Crawl(ctx context.Context, url string) (*siteaudit.SiteStructure, error) {
	return c.CrawlFn(ctx, url)
}

func (c *SiteCrawler) Continue(ctx context.Context) (*siteaudit.SiteStructure, error) {
	return c.ContinueFn(ctx)
}

func (c *SiteCrawler) RootURL() string {
	return c.RootURLFn()
}

func (c *SiteCrawler) Stats() siteaudit.CrawlerStats {
	return c.StatsFn()
}

// Classifier is a mock implementation of siteaudit.Classifier.
type Classifier struct {
	ClassifyFn func(site *siteaudit.SiteStructure) *siteaudit.SiteStructure
}

func (c *Classifier) Classify(site *siteaudit.SiteStructure) *siteaudit.SiteStructure {
	return c.ClassifyFn(site)
}

// Analyzer is a mock implementation of siteaudit.Analyzer.
type Analyzer struct {
	AnalyzeFn func(site *siteaudit.SiteStructure) *siteaudit.Report
}

func (a *Analyzer) Analyze(site *siteaudit.SiteStructure) *siteaudit.Report {
	return a.AnalyzeFn(site)
}

// AuditService is a mock implementation of siteaudit.AuditService.
type AuditService struct {
	CrawlAndAuditFn         func(ctx context.Context, url string, progress siteaudit.ProgressFunc) (*siteaudit.Report, error)
	CrawlAndAuditEnhancedFn func(ctx context.Context, url string, progress siteaudit.ProgressFunc) (*siteaudit.EnhancedReport, error)
	ContinueCrawlFn         func(ctx context.Context, url string) (*siteaudit.Report, error)
	CrawlerStatsFn          func() siteaudit.CrawlerStats
}

func (s *AuditService) CrawlAndAudit(ctx context.Context, url string, progress siteaudit.ProgressFunc) (*siteaudit.Report, error) {
	return s.CrawlAndAuditFn(ctx, url, progress)
}

func (s *AuditService) CrawlAndAuditEnhanced(ctx context.Context, url string, progress siteaudit.ProgressFunc) (*siteaudit.EnhancedReport, error) {
	return s.CrawlAndAuditEnhancedFn(ctx, url, progress)
}

func (s *AuditService) ContinueCrawl(ctx context.Context, url string) (*siteaudit.Report, error) {
	return s.ContinueCrawlFn(ctx, url)
}

func (s *AuditService) CrawlerStats() siteaudit.CrawlerStats {
	return s.CrawlerStatsFn()
}

// ReportWriter is a mock implementation of siteaudit.ReportWriter.
type ReportWriter struct {
	WriteReportFn func(ctx context.Context, report *siteaudit.EnhancedReport) error
}

func (w *ReportWriter) WriteReport(ctx context.Context, report *siteaudit.EnhancedReport) error {
	return w.WriteReportFn(ctx, report)
}
