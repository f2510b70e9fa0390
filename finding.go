package siteaudit

import (
	"context"
	"time"
)

// Status is the severity bucket assigned to a finding.
type Status string

// Finding statuses.
const (
	StatusOK          Status = "OK"
	StatusOFI         Status = "OFI"
	StatusPriorityOFI Status = "Priority OFI"
	StatusNA          Status = "N/A"
)

// Importance weights a finding for prioritization.
type Importance string

// Finding importance levels.
const (
	ImportanceHigh   Importance = "High"
	ImportanceMedium Importance = "Medium"
	ImportanceLow    Importance = "Low"
)

// Finding is the outcome of one audit check.
type Finding struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	Importance  Importance `json:"importance"`
	Notes       string     `json:"notes"`
	Category    string     `json:"category"`
}

// ReportCategory names one of the six finding lists of a report.
type ReportCategory string

// Report categories.
const (
	ReportOnPage              ReportCategory = "onPage"
	ReportStructureNavigation ReportCategory = "structureNavigation"
	ReportContactPage         ReportCategory = "contactPage"
	ReportServicePages        ReportCategory = "servicePages"
	ReportLocationPages       ReportCategory = "locationPages"
	ReportServiceAreaPages    ReportCategory = "serviceAreaPages"
)

// ReportCategories lists the report categories in presentation order.
var ReportCategories = []ReportCategory{
	ReportOnPage,
	ReportStructureNavigation,
	ReportContactPage,
	ReportServicePages,
	ReportLocationPages,
	ReportServiceAreaPages,
}

// Section is one finding list of a report.
type Section struct {
	Items []Finding `json:"items"`
}

// Summary counts findings by status.
type Summary struct {
	PriorityOFICount int `json:"priorityOfiCount"`
	OFICount         int `json:"ofiCount"`
	OKCount          int `json:"okCount"`
	NACount          int `json:"naCount"`
	Total            int `json:"total"`
}

// Report is the result of auditing one site.
type Report struct {
	URL                 string    `json:"url"`
	Timestamp           time.Time `json:"timestamp"`
	OnPage              Section   `json:"onPage"`
	StructureNavigation Section   `json:"structureNavigation"`
	ContactPage         Section   `json:"contactPage"`
	ServicePages        Section   `json:"servicePages"`
	LocationPages       Section   `json:"locationPages"`
	ServiceAreaPages    Section   `json:"serviceAreaPages"`
	Summary             Summary   `json:"summary"`
}

// Section returns the finding list for the category.
func (r *Report) Section(category ReportCategory) *Section {
	switch category {
	case ReportOnPage:
		return &r.OnPage
	case ReportStructureNavigation:
		return &r.StructureNavigation
	case ReportContactPage:
		return &r.ContactPage
	case ReportServicePages:
		return &r.ServicePages
	case ReportLocationPages:
		return &r.LocationPages
	case ReportServiceAreaPages:
		return &r.ServiceAreaPages
	}
	return nil
}

// Add appends findings to the category's list.
func (r *Report) Add(category ReportCategory, findings ...Finding) {
	if s := r.Section(category); s != nil {
		s.Items = append(s.Items, findings...)
	}
}

// Findings returns every finding across all categories in presentation order.
func (r *Report) Findings() []Finding {
	var all []Finding
	for _, c := range ReportCategories {
		all = append(all, r.Section(c).Items...)
	}
	return all
}

// Summarize recomputes the summary as a partition count of all findings.
func (r *Report) Summarize() {
	var s Summary
	for _, f := range r.Findings() {
		switch f.Status {
		case StatusPriorityOFI:
			s.PriorityOFICount++
		case StatusOFI:
			s.OFICount++
		case StatusOK:
			s.OKCount++
		default:
			s.NACount++
		}
	}
	s.Total = s.PriorityOFICount + s.OFICount + s.OKCount + s.NACount
	r.Summary = s
}

// EnhancedReport is a report produced by the full factor library.
// Baseline reports are written through the same type with nil metadata.
type EnhancedReport struct {
	Report
	AnalysisMetadata *AnalysisMetadata `json:"analysisMetadata,omitempty"`
	ReachedMaxPages  bool              `json:"reachedMaxPages"`
}

// AnalysisMetadata describes how an enhanced report was produced.
type AnalysisMetadata struct {
	AnalysisVersion string       `json:"analysisVersion"`
	FactorCount     int          `json:"factorCount"`
	AnalysisTimeMs  int64        `json:"analysisTimeMs"`
	CrawlerStats    CrawlerStats `json:"crawlerStats"`
}

// Analyzer evaluates a classified site and returns a report.
// Analyzers never fail; missing categories produce N/A findings.
type Analyzer interface {
	Analyze(site *SiteStructure) *Report
}

// ProgressFunc receives advisory progress updates. It must not block.
type ProgressFunc func(stage string, percent int)

// Progress stages reported by the audit service.
const (
	StageInitializing = "initializing"
	StageCrawling     = "crawling"
	StageClassifying  = "classifying"
	StageAnalyzing    = "analyzing"
	StageComplete     = "complete"
)

// AuditService runs the crawl, classify and analyze pipeline.
type AuditService interface {
	// CrawlAndAudit produces the baseline report.
	CrawlAndAudit(ctx context.Context, url string, progress ProgressFunc) (*Report, error)

	// CrawlAndAuditEnhanced produces the full factor report.
	CrawlAndAuditEnhanced(ctx context.Context, url string, progress ProgressFunc) (*EnhancedReport, error)

	// ContinueCrawl resumes the previous crawl of url and re-audits it.
	ContinueCrawl(ctx context.Context, url string) (*Report, error)

	// CrawlerStats returns statistics for the most recent crawl.
	CrawlerStats() CrawlerStats
}

// ReportWriter persists a finished report.
type ReportWriter interface {
	WriteReport(ctx context.Context, report *EnhancedReport) error
}
