// Package fs stores audit reports on the local file system.
package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/siteaudit"
)

// Ensure ReportWriter implements siteaudit.ReportWriter at compile time.
var _ siteaudit.ReportWriter = (*ReportWriter)(nil)

// ReportWriter writes reports as indented JSON. A report is written to a
// temporary file next to its destination and renamed into place, so readers
// never observe a partial report.
type ReportWriter struct {
	path string
}

// NewReportWriter creates a ReportWriter. If path names an existing
// directory, each report is written there under ReportFileName.
func NewReportWriter(path string) *ReportWriter {
	return &ReportWriter{path: path}
}

// WriteReport writes report to disk.
func (w *ReportWriter) WriteReport(ctx context.Context, report *siteaudit.EnhancedReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dest := w.path
	if info, err := os.Stat(dest); err == nil && info.IsDir() {
		dest = filepath.Join(dest, ReportFileName(report, ".json"))
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	return WriteFileAtomic(dest, append(data, '\n'))
}

// WriteFileAtomic writes data to a temporary file in the directory of path
// and renames it over path.
func WriteFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	name := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Chmod(name, 0644); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return err
	}
	return nil
}

// ReportFileName returns a file name for report built from the audited host
// and the report timestamp.
// Example: https://www.example.com/ at 2026-01-02 03:04:05 UTC →
// example.com-20260102T030405Z.json
func ReportFileName(report *siteaudit.EnhancedReport, ext string) string {
	host := strings.TrimPrefix(siteaudit.Hostname(report.URL), "www.")
	if host == "" {
		host = "site"
	}
	host = strings.Map(func(r rune) rune {
		if r == ':' || r == '/' || r == '\\' {
			return '_'
		}
		return r
	}, host)
	return host + "-" + report.Timestamp.UTC().Format("20060102T150405Z") + ext
}
