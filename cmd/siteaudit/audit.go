package main

import (
	"fmt"
	"io"

	"github.com/fwojciec/siteaudit"
	"github.com/google/uuid"
)

// Run executes the audit command.
func (c *AuditCmd) Run(deps *Dependencies) error {
	id := c.ID
	if id == "" {
		id = uuid.New().String()
	}

	progress := func(stage string, percent int) {
		fmt.Fprintf(deps.Stderr, "%3d%% %s\n", percent, stage)
	}

	var report *siteaudit.EnhancedReport
	if c.Enhanced {
		r, err := deps.Audits.CrawlAndAuditEnhanced(deps.Ctx, c.URL, progress)
		if err != nil {
			return auditError(deps, c.URL, err)
		}
		report = r
	} else {
		r, err := deps.Audits.CrawlAndAudit(deps.Ctx, c.URL, progress)
		if err != nil {
			return auditError(deps, c.URL, err)
		}
		// Baseline reports do not say whether the limit was reached, so
		// the first continuation decides.
		report = &siteaudit.EnhancedReport{Report: *r, ReachedMaxPages: c.Continue > 0}
	}

	// A continued crawl that added no pages has exhausted the site.
	crawled := deps.Audits.CrawlerStats().PagesCrawled
	for i := 0; i < c.Continue && report.ReachedMaxPages; i++ {
		fmt.Fprintf(deps.Stderr, "continuing crawl of %s\n", c.URL)
		r, err := deps.Audits.ContinueCrawl(deps.Ctx, c.URL)
		if err != nil {
			return auditError(deps, c.URL, err)
		}
		next := deps.Audits.CrawlerStats().PagesCrawled
		report = &siteaudit.EnhancedReport{Report: *r, ReachedMaxPages: next > crawled}
		crawled = next
	}

	printReport(deps.Stdout, id, report, deps.Audits.CrawlerStats())

	if deps.Overrides != nil {
		overrides, err := deps.Overrides.FindOverridesByAuditID(deps.Ctx, id)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", siteaudit.ErrorMessage(err))
			return err
		}
		printOverrides(deps.Stdout, overrides)
	}

	for _, w := range deps.Writers {
		if err := w.WriteReport(deps.Ctx, report); err != nil {
			fmt.Fprintf(deps.Stderr, "error: writing report: %v\n", err)
			return err
		}
	}

	return nil
}

func auditError(deps *Dependencies, url string, err error) error {
	switch siteaudit.ErrorCode(err) {
	case siteaudit.EUNREACHABLE:
		fmt.Fprintf(deps.Stderr, "error: %s\nHint: check the address and that the site is online\n", siteaudit.ErrorMessage(err))
	case siteaudit.EINVALID:
		fmt.Fprintf(deps.Stderr, "error: %s\n", siteaudit.ErrorMessage(err))
	default:
		fmt.Fprintf(deps.Stderr, "error: audit of %s failed: %v\n", url, err)
	}
	return err
}

func printReport(w io.Writer, id string, report *siteaudit.EnhancedReport, stats siteaudit.CrawlerStats) {
	s := report.Summary
	fmt.Fprintf(w, "Audit %s of %s\n", id, report.URL)
	fmt.Fprintf(w, "Pages crawled: %d, skipped: %d, errors: %d (%dms)\n",
		stats.PagesCrawled, stats.PagesSkipped, stats.ErrorsEncountered, stats.CrawlTimeMs)
	fmt.Fprintf(w, "Findings: %d total, %d priority OFI, %d OFI, %d OK, %d N/A\n",
		s.Total, s.PriorityOFICount, s.OFICount, s.OKCount, s.NACount)
	if m := report.AnalysisMetadata; m != nil {
		fmt.Fprintf(w, "Analysis %s: %d factors in %dms\n", m.AnalysisVersion, m.FactorCount, m.AnalysisTimeMs)
	}
	if report.ReachedMaxPages {
		fmt.Fprintln(w, "Reached the page limit; raise --max-pages to crawl more of the site.")
	}

	for _, status := range []siteaudit.Status{siteaudit.StatusPriorityOFI, siteaudit.StatusOFI} {
		var lines []siteaudit.Finding
		for _, f := range report.Findings() {
			if f.Status == status {
				lines = append(lines, f)
			}
		}
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s:\n", status)
		for _, f := range lines {
			if f.Notes == "" {
				fmt.Fprintf(w, "  [%s] %s\n", f.Category, f.Name)
				continue
			}
			fmt.Fprintf(w, "  [%s] %s: %s\n", f.Category, f.Name, f.Notes)
		}
	}
}

func printOverrides(w io.Writer, overrides []*siteaudit.Override) {
	if len(overrides) == 0 {
		return
	}
	fmt.Fprintln(w, "\nPage priorities:")
	for _, o := range overrides {
		fmt.Fprintf(w, "  %s  %s", o.Priority, o.PageURL)
		if o.Reason != "" {
			fmt.Fprintf(w, "  (%s)", o.Reason)
		}
		fmt.Fprintln(w)
	}
}
