// Package audit turns a classified site into report findings.
//
// Every check maps one signal to a status through two thresholds: a good
// threshold at or beyond which the check is OK and a severe threshold
// beyond which it is a Priority OFI. Values in between are OFI. Checks
// whose prerequisite is missing report N/A instead of being omitted, so
// reports of different sites have the same shape.
package audit

import (
	"fmt"
	"strings"

	"github.com/fwojciec/siteaudit"
)

// Finding category labels.
const (
	LabelOnPage          = "On-Page SEO"
	LabelStructure       = "Site Structure"
	LabelContact         = "Contact Page"
	LabelServices        = "Service Pages"
	LabelLocations       = "Location Pages"
	LabelServiceAreas    = "Service Area Pages"
	LabelContentQuality  = "Content Quality"
	LabelTechnicalSEO    = "Technical SEO"
	LabelLocalSEO        = "Local SEO & E-E-A-T"
	LabelUXPerformance   = "UX & Performance"
	LabelSiteWideContent = "Site-Wide Content"
	LabelSiteWideLinks   = "Site-Wide Linking"
)

// Higher grades v where larger is better: OK at or above ok, Priority OFI
// below severe, OFI otherwise.
func Higher(v, ok, severe float64) siteaudit.Status {
	switch {
	case v >= ok:
		return siteaudit.StatusOK
	case v < severe:
		return siteaudit.StatusPriorityOFI
	default:
		return siteaudit.StatusOFI
	}
}

// Lower grades v where smaller is better: OK at or below ok, Priority OFI
// above severe, OFI otherwise.
func Lower(v, ok, severe float64) siteaudit.Status {
	switch {
	case v <= ok:
		return siteaudit.StatusOK
	case v > severe:
		return siteaudit.StatusPriorityOFI
	default:
		return siteaudit.StatusOFI
	}
}

// Within grades v against an ideal range [lo, hi] and a tolerated range
// [minSevere, maxSevere]. Values outside the tolerated range are Priority OFI.
func Within(v, lo, hi, minSevere, maxSevere float64) siteaudit.Status {
	switch {
	case v >= lo && v <= hi:
		return siteaudit.StatusOK
	case v < minSevere || v > maxSevere:
		return siteaudit.StatusPriorityOFI
	default:
		return siteaudit.StatusOFI
	}
}

// Present returns OK when ok is true and missing otherwise.
func Present(ok bool, missing siteaudit.Status) siteaudit.Status {
	if ok {
		return siteaudit.StatusOK
	}
	return missing
}

// Check describes one audit check.
type Check struct {
	Name        string
	Description string
	Importance  siteaudit.Importance
}

// Finding returns the finding of c with the given outcome.
func (c Check) Finding(status siteaudit.Status, notes, label string) siteaudit.Finding {
	return siteaudit.Finding{
		Name:        c.Name,
		Description: c.Description,
		Status:      status,
		Importance:  c.Importance,
		Notes:       notes,
		Category:    label,
	}
}

// NA returns the N/A finding of c.
func (c Check) NA(reason, label string) siteaudit.Finding {
	return c.Finding(siteaudit.StatusNA, reason, label)
}

// share returns the fraction of pages satisfying fn, or 0 for no pages.
func share(pages []*siteaudit.PageRecord, fn func(*siteaudit.PageRecord) bool) float64 {
	if len(pages) == 0 {
		return 0
	}
	var n int
	for _, p := range pages {
		if fn(p) {
			n++
		}
	}
	return float64(n) / float64(len(pages))
}

// average returns the mean of fn over pages, or 0 for no pages.
func average(pages []*siteaudit.PageRecord, fn func(*siteaudit.PageRecord) float64) float64 {
	if len(pages) == 0 {
		return 0
	}
	var sum float64
	for _, p := range pages {
		sum += fn(p)
	}
	return sum / float64(len(pages))
}

func percent(f float64) string {
	return fmt.Sprintf("%.0f%%", f*100)
}

// duplicates counts values that occur more than once, ignoring empty ones.
func duplicates(values []string) int {
	counts := make(map[string]int, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			counts[v]++
		}
	}
	var n int
	for _, c := range counts {
		if c > 1 {
			n += c
		}
	}
	return n
}
