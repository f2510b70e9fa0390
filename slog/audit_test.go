package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/siteaudit"
	"github.com/fwojciec/siteaudit/mock"
	saslog "github.com/fwojciec/siteaudit/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func auditService() *mock.AuditService {
	return &mock.AuditService{
		CrawlAndAuditFn: func(_ context.Context, _ string, progress siteaudit.ProgressFunc) (*siteaudit.Report, error) {
			progress(siteaudit.StageCrawling, 10)
			r := &siteaudit.Report{}
			r.Add(siteaudit.ReportOnPage, siteaudit.Finding{Name: "Title Tag", Status: siteaudit.StatusPriorityOFI})
			r.Summarize()
			return r, nil
		},
		CrawlAndAuditEnhancedFn: func(_ context.Context, url string, _ siteaudit.ProgressFunc) (*siteaudit.EnhancedReport, error) {
			return nil, siteaudit.Errorf(siteaudit.EUNREACHABLE, "site %s could not be reached", url)
		},
		CrawlerStatsFn: func() siteaudit.CrawlerStats {
			return siteaudit.CrawlerStats{PagesCrawled: 7, ErrorsEncountered: 1}
		},
	}
}

func TestLoggingAuditService_CrawlAndAudit(t *testing.T) {
	t.Parallel()

	t.Run("logs summary and forwards progress", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		var stages []string

		svc := saslog.NewLoggingAuditService(auditService(), logger)
		r, err := svc.CrawlAndAudit(context.Background(), "https://example.com/", func(stage string, _ int) {
			stages = append(stages, stage)
		})

		require.NoError(t, err)
		assert.Equal(t, 1, r.Summary.Total)
		assert.Equal(t, []string{siteaudit.StageCrawling}, stages)
		output := buf.String()
		assert.Contains(t, output, "stage=crawling")
		assert.Contains(t, output, "msg=audit")
		assert.Contains(t, output, "pages=7")
		assert.Contains(t, output, "errors=1")
		assert.Contains(t, output, "priority=1")
	})

	t.Run("nil progress is allowed", func(t *testing.T) {
		t.Parallel()

		svc := saslog.NewLoggingAuditService(auditService(), slog.New(slog.DiscardHandler))

		_, err := svc.CrawlAndAudit(context.Background(), "https://example.com/", nil)

		require.NoError(t, err)
	})
}

func TestLoggingAuditService_CrawlAndAuditEnhanced(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	svc := saslog.NewLoggingAuditService(auditService(), logger)
	_, err := svc.CrawlAndAuditEnhanced(context.Background(), "https://down.example/", nil)

	assert.Equal(t, siteaudit.EUNREACHABLE, siteaudit.ErrorCode(err))
	output := buf.String()
	assert.Contains(t, output, "level=ERROR")
	assert.Contains(t, output, "url=https://down.example/")
}
