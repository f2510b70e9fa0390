// Package excelize exports audit reports as XLSX workbooks.
package excelize

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/siteaudit"
	"github.com/fwojciec/siteaudit/fs"
	"github.com/xuri/excelize/v2"
)

var _ siteaudit.ReportWriter = (*ReportWriter)(nil)

// SummarySheet is the name of the first sheet of every workbook.
const SummarySheet = "Summary"

// SheetNames maps report categories to worksheet names.
var SheetNames = map[siteaudit.ReportCategory]string{
	siteaudit.ReportOnPage:              "On-Page",
	siteaudit.ReportStructureNavigation: "Structure & Navigation",
	siteaudit.ReportContactPage:         "Contact Page",
	siteaudit.ReportServicePages:        "Service Pages",
	siteaudit.ReportLocationPages:       "Location Pages",
	siteaudit.ReportServiceAreaPages:    "Service Area Pages",
}

var findingColumns = []string{"Name", "Status", "Importance", "Category", "Description", "Notes"}

var columnWidths = []float64{32, 14, 12, 22, 60, 80}

var statusColors = map[siteaudit.Status]string{
	siteaudit.StatusPriorityOFI: "F8CBAD",
	siteaudit.StatusOFI:         "FFE699",
	siteaudit.StatusOK:          "C6EFCE",
	siteaudit.StatusNA:          "E7E6E6",
}

// ReportWriter writes a report as a workbook with a summary sheet followed
// by one sheet of findings per report category.
type ReportWriter struct {
	path string
}

// NewReportWriter creates a ReportWriter. If path names an existing
// directory, each workbook is written there under fs.ReportFileName.
func NewReportWriter(path string) *ReportWriter {
	return &ReportWriter{path: path}
}

// WriteReport builds the workbook and writes it atomically.
func (w *ReportWriter) WriteReport(ctx context.Context, report *siteaudit.EnhancedReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dest := w.path
	if info, err := os.Stat(dest); err == nil && info.IsDir() {
		dest = filepath.Join(dest, fs.ReportFileName(report, ".xlsx"))
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}

	f, err := Workbook(report)
	if err != nil {
		return err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("encoding workbook: %w", err)
	}
	return fs.WriteFileAtomic(dest, buf.Bytes())
}

// Workbook renders report into a new workbook. The caller must close it.
func Workbook(report *siteaudit.EnhancedReport) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("renaming default sheet: %w", err)
	}
	writeSummary(f, report)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"2F5597"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("creating header style: %w", err)
	}

	statusStyles := make(map[siteaudit.Status]int, len(statusColors))
	for status, color := range statusColors {
		style, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
		})
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("creating status style: %w", err)
		}
		statusStyles[status] = style
	}

	for _, category := range siteaudit.ReportCategories {
		if err := writeFindings(f, SheetNames[category], report.Section(category).Items, headerStyle, statusStyles); err != nil {
			f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeSummary(f *excelize.File, report *siteaudit.EnhancedReport) {
	rows := [][]any{
		{"URL", report.URL},
		{"Generated", report.Timestamp.UTC().Format(time.RFC3339)},
		{"Priority OFI", report.Summary.PriorityOFICount},
		{"OFI", report.Summary.OFICount},
		{"OK", report.Summary.OKCount},
		{"N/A", report.Summary.NACount},
		{"Total", report.Summary.Total},
		{"Reached Max Pages", report.ReachedMaxPages},
	}
	if m := report.AnalysisMetadata; m != nil {
		rows = append(rows,
			[]any{"Analysis Version", m.AnalysisVersion},
			[]any{"Factor Count", m.FactorCount},
			[]any{"Analysis Time (ms)", m.AnalysisTimeMs},
			[]any{"Pages Crawled", m.CrawlerStats.PagesCrawled},
			[]any{"Pages Skipped", m.CrawlerStats.PagesSkipped},
			[]any{"Errors", m.CrawlerStats.ErrorsEncountered},
			[]any{"Crawl Time (ms)", m.CrawlerStats.CrawlTimeMs},
		)
	}

	for i, row := range rows {
		f.SetCellValue(SummarySheet, fmt.Sprintf("A%d", i+1), row[0])
		f.SetCellValue(SummarySheet, fmt.Sprintf("B%d", i+1), row[1])
	}
	f.SetColWidth(SummarySheet, "A", "A", 22)
	f.SetColWidth(SummarySheet, "B", "B", 50)
}

func writeFindings(f *excelize.File, sheet string, findings []siteaudit.Finding, headerStyle int, statusStyles map[siteaudit.Status]int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating sheet %q: %w", sheet, err)
	}

	for i, col := range findingColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, col)
		f.SetCellStyle(sheet, cell, cell, headerStyle)

		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, colName, colName, columnWidths[i])
	}

	for i, finding := range findings {
		row := i + 2
		values := []any{
			finding.Name,
			string(finding.Status),
			string(finding.Importance),
			finding.Category,
			finding.Description,
			finding.Notes,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			f.SetCellValue(sheet, cell, v)
		}
		if style, ok := statusStyles[finding.Status]; ok {
			cell, _ := excelize.CoordinatesToCellName(2, row)
			f.SetCellStyle(sheet, cell, cell, style)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(findingColumns))
	if err := f.AutoFilter(sheet, fmt.Sprintf("A1:%s%d", lastCol, len(findings)+1), nil); err != nil {
		return fmt.Errorf("adding filter to %q: %w", sheet, err)
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
