// Package pipeline composes crawling, classification and analysis into the
// audit service.
package pipeline

import (
	"context"
	"time"

	"github.com/fwojciec/siteaudit"
)

// AnalysisVersion identifies the enhanced factor library.
const AnalysisVersion = "2.0.0"

// Progress milestones, in percent.
const (
	ProgressInitializing = 0
	ProgressCrawling     = 10
	ProgressClassifying  = 60
	ProgressAnalyzing    = 80
	ProgressComplete     = 100
)

var _ siteaudit.AuditService = (*Service)(nil)

// Service runs audits with one crawler. It serves one site at a time.
type Service struct {
	Crawler    siteaudit.SiteCrawler
	Classifier siteaudit.Classifier
	Baseline   siteaudit.Analyzer
	Enhanced   siteaudit.Analyzer

	// Now is used to time analysis. Defaults to time.Now.
	Now func() time.Time
}

// CrawlAndAudit crawls url and returns the baseline report. Returns
// EUNREACHABLE if the homepage cannot be fetched.
func (s *Service) CrawlAndAudit(ctx context.Context, url string, progress siteaudit.ProgressFunc) (*siteaudit.Report, error) {
	site, err := s.crawl(ctx, url, progress)
	if err != nil {
		return nil, err
	}

	notify(progress, siteaudit.StageClassifying, ProgressClassifying)
	site = s.Classifier.Classify(site)

	notify(progress, siteaudit.StageAnalyzing, ProgressAnalyzing)
	report := s.Baseline.Analyze(site)

	notify(progress, siteaudit.StageComplete, ProgressComplete)
	return report, nil
}

// CrawlAndAuditEnhanced crawls url and returns the baseline findings merged
// with the enhanced factor library, plus analysis metadata. Overlapping
// checks of the two tiers are both kept.
func (s *Service) CrawlAndAuditEnhanced(ctx context.Context, url string, progress siteaudit.ProgressFunc) (*siteaudit.EnhancedReport, error) {
	site, err := s.crawl(ctx, url, progress)
	if err != nil {
		return nil, err
	}

	notify(progress, siteaudit.StageClassifying, ProgressClassifying)
	site = s.Classifier.Classify(site)

	notify(progress, siteaudit.StageAnalyzing, ProgressAnalyzing)
	start := s.now()
	report := s.Baseline.Analyze(site)
	if s.Enhanced != nil {
		Merge(report, s.Enhanced.Analyze(site))
	}
	elapsed := s.now().Sub(start)

	out := &siteaudit.EnhancedReport{
		Report: *report,
		AnalysisMetadata: &siteaudit.AnalysisMetadata{
			AnalysisVersion: AnalysisVersion,
			FactorCount:     report.Summary.Total,
			AnalysisTimeMs:  elapsed.Milliseconds(),
			CrawlerStats:    s.Crawler.Stats(),
		},
		ReachedMaxPages: site.ReachedMaxPages,
	}

	notify(progress, siteaudit.StageComplete, ProgressComplete)
	return out, nil
}

// ContinueCrawl resumes the previous crawl of url with a fresh page budget
// and returns the baseline report of everything crawled so far. Returns
// EINVALID if the previous crawl was of a different site.
func (s *Service) ContinueCrawl(ctx context.Context, url string) (*siteaudit.Report, error) {
	root, err := siteaudit.NormalizeURL(url)
	if err != nil {
		return nil, err
	}
	if current := s.Crawler.RootURL(); current == "" || current != root {
		return nil, siteaudit.Errorf(siteaudit.EINVALID, "no crawl of %s to continue", root)
	}

	site, err := s.Crawler.Continue(ctx)
	if err != nil {
		return nil, err
	}
	if err := reachable(site, root); err != nil {
		return nil, err
	}

	return s.Baseline.Analyze(s.Classifier.Classify(site)), nil
}

// CrawlerStats returns statistics for the most recent crawl.
func (s *Service) CrawlerStats() siteaudit.CrawlerStats {
	return s.Crawler.Stats()
}

func (s *Service) crawl(ctx context.Context, url string, progress siteaudit.ProgressFunc) (*siteaudit.SiteStructure, error) {
	notify(progress, siteaudit.StageInitializing, ProgressInitializing)
	notify(progress, siteaudit.StageCrawling, ProgressCrawling)

	site, err := s.Crawler.Crawl(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := reachable(site, url); err != nil {
		return nil, err
	}
	return site, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// reachable returns EUNREACHABLE when the homepage of site failed.
func reachable(site *siteaudit.SiteStructure, url string) error {
	if site == nil || site.Homepage == nil {
		return siteaudit.Errorf(siteaudit.EUNREACHABLE, "site %s could not be reached", url)
	}
	if site.Homepage.Failed() {
		return siteaudit.Errorf(siteaudit.EUNREACHABLE, "site %s could not be reached: %s", url, site.Homepage.Error)
	}
	return nil
}

// Merge appends every finding of src to the matching category of dst and
// recomputes the summary of dst.
func Merge(dst, src *siteaudit.Report) {
	for _, c := range siteaudit.ReportCategories {
		dst.Add(c, src.Section(c).Items...)
	}
	dst.Summarize()
}

func notify(progress siteaudit.ProgressFunc, stage string, percent int) {
	if progress != nil {
		progress(stage, percent)
	}
}
