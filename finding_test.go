package siteaudit_test

import (
	"testing"

	"github.com/fwojciec/siteaudit"
	"github.com/stretchr/testify/assert"
)

func TestReport_Summarize(t *testing.T) {
	t.Parallel()

	var r siteaudit.Report
	r.Add(siteaudit.ReportOnPage,
		siteaudit.Finding{Name: "a", Status: siteaudit.StatusOK},
		siteaudit.Finding{Name: "b", Status: siteaudit.StatusOFI},
	)
	r.Add(siteaudit.ReportContactPage,
		siteaudit.Finding{Name: "c", Status: siteaudit.StatusNA},
		siteaudit.Finding{Name: "d", Status: siteaudit.StatusNA},
	)
	r.Add(siteaudit.ReportStructureNavigation,
		siteaudit.Finding{Name: "e", Status: siteaudit.StatusPriorityOFI},
	)

	r.Summarize()

	assert.Equal(t, siteaudit.Summary{
		PriorityOFICount: 1,
		OFICount:         1,
		OKCount:          1,
		NACount:          2,
		Total:            5,
	}, r.Summary)
	assert.Len(t, r.Findings(), r.Summary.Total)
}

func TestReport_Findings_Order(t *testing.T) {
	t.Parallel()

	var r siteaudit.Report
	r.Add(siteaudit.ReportServiceAreaPages, siteaudit.Finding{Name: "last"})
	r.Add(siteaudit.ReportOnPage, siteaudit.Finding{Name: "first"})

	findings := r.Findings()
	assert.Equal(t, "first", findings[0].Name)
	assert.Equal(t, "last", findings[1].Name)
}

func TestReport_Section_Unknown(t *testing.T) {
	t.Parallel()

	var r siteaudit.Report
	assert.Nil(t, r.Section("bogus"))
	r.Add("bogus", siteaudit.Finding{Name: "x"})
	assert.Empty(t, r.Findings())
}
