package audit

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/siteaudit"
)

// NewContentQuality returns the analyzer of writing and content structure.
func NewContentQuality() *PageAnalyzer {
	return &PageAnalyzer{label: LabelContentQuality, checks: contentQualityChecks}
}

var contentQualityChecks = []pageCheck{
	{Check{"Readability Score", "Flesch reading ease of 60 or above; below 30 is a priority", siteaudit.ImportanceMedium},
		pageFn(func(p *siteaudit.PageRecord) (siteaudit.Status, string) { return gradeReadability(p.BodyText) })},
	{Check{"Content Depth", "At least 300 words; below 150 is a priority", siteaudit.ImportanceHigh},
		pageFn(func(p *siteaudit.PageRecord) (siteaudit.Status, string) { return gradeWords(p.WordCount) })},
	{Check{"Sentence Length", "Average sentence of 20 words or fewer; above 30 is a priority", siteaudit.ImportanceLow},
		pageFn(func(p *siteaudit.PageRecord) (siteaudit.Status, string) {
			avg := AverageSentenceLength(p.BodyText)
			if avg == 0 {
				return siteaudit.StatusNA, "No sentences"
			}
			return Lower(avg, 20, 30), fmt.Sprintf("Average sentence of %.1f words", avg)
		})},
	{Check{"Paragraph Length", "Paragraphs average 80 words or fewer; above 150 is a priority", siteaudit.ImportanceLow},
		func(_ *siteaudit.PageRecord, doc *goquery.Document) (siteaudit.Status, string) {
			var n, total int
			doc.Find("p").Each(func(_ int, s *goquery.Selection) {
				if w := len(strings.Fields(s.Text())); w > 0 {
					n++
					total += w
				}
			})
			if n == 0 {
				return siteaudit.StatusNA, "No paragraphs"
			}
			avg := float64(total) / float64(n)
			return Lower(avg, 80, 150), fmt.Sprintf("%d paragraphs averaging %.0f words", n, avg)
		}},
	{Check{"Heading Hierarchy", "Heading levels should not skip (for example H2 to H4)", siteaudit.ImportanceMedium},
		func(_ *siteaudit.PageRecord, doc *goquery.Document) (siteaudit.Status, string) {
			skips := headingSkips(doc)
			if skips < 0 {
				return siteaudit.StatusNA, "No headings"
			}
			return Lower(float64(skips), 0, 2), fmt.Sprintf("%d skipped heading levels", skips)
		}},
	{Check{"Subheadings", "Long content should be broken up with H2 or H3 headings", siteaudit.ImportanceMedium},
		pageFn(func(p *siteaudit.PageRecord) (siteaudit.Status, string) {
			n := len(p.Headings.H2) + len(p.Headings.H3)
			if n == 0 {
				if p.WordCount < WordsOK {
					return siteaudit.StatusOFI, "No subheadings"
				}
				return siteaudit.StatusPriorityOFI, fmt.Sprintf("No subheadings in %d words", p.WordCount)
			}
			return siteaudit.StatusOK, fmt.Sprintf("%d subheadings", n)
		})},
	{Check{"Lists and Tables", "Content should use lists or tables to structure information", siteaudit.ImportanceLow},
		pageFn(func(p *siteaudit.PageRecord) (siteaudit.Status, string) {
			return Present(p.Structure.HasLists || p.Structure.HasTable, siteaudit.StatusOFI),
				fmt.Sprintf("Lists: %t, tables: %t", p.Structure.HasLists, p.Structure.HasTable)
		})},
	{Check{"FAQ Section", "A frequently asked questions section answers common queries", siteaudit.ImportanceLow},
		pageFn(func(p *siteaudit.PageRecord) (siteaudit.Status, string) {
			return Present(p.Structure.HasFAQs, siteaudit.StatusOFI), ""
		})},
	{Check{"Emphasis", "Key points should be emphasized with bold or italic text", siteaudit.ImportanceLow},
		pageFn(func(p *siteaudit.PageRecord) (siteaudit.Status, string) {
			return Present(p.Structure.HasEmphasis, siteaudit.StatusOFI), ""
		})},
	{Check{"Multimedia", "Pages should include images or video", siteaudit.ImportanceLow},
		pageFn(func(p *siteaudit.PageRecord) (siteaudit.Status, string) {
			return Present(p.Images.Total > 0 || p.Structure.HasVideo, siteaudit.StatusOFI),
				fmt.Sprintf("%d images, video: %t", p.Images.Total, p.Structure.HasVideo)
		})},
	{Check{"Title and H1 Alignment", "The H1 should share words with the title", siteaudit.ImportanceMedium},
		pageFn(func(p *siteaudit.PageRecord) (siteaudit.Status, string) {
			if p.Title == "" || p.MissingH1() {
				return siteaudit.StatusNA, "Title or H1 missing"
			}
			return Present(sharesWord(p.Title, p.Headings.H1[0]), siteaudit.StatusOFI),
				fmt.Sprintf("Title %q, H1 %q", p.Title, p.Headings.H1[0])
		})},
	{Check{"Duplicate Headings", "Headings on a page should be distinct", siteaudit.ImportanceLow},
		pageFn(func(p *siteaudit.PageRecord) (siteaudit.Status, string) {
			var all []string
			all = append(all, p.Headings.H1...)
			all = append(all, p.Headings.H2...)
			all = append(all, p.Headings.H3...)
			if len(all) == 0 {
				return siteaudit.StatusNA, "No headings"
			}
			d := duplicates(all)
			return Lower(float64(d), 0, 4), fmt.Sprintf("%d repeated headings", d)
		})},
}

// headingSkips counts jumps of more than one level between consecutive
// headings in document order. Returns -1 when there are no headings.
func headingSkips(doc *goquery.Document) int {
	prev, skips := 0, 0
	found := false
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		level := int(goquery.NodeName(s)[1] - '0')
		if found && level > prev+1 {
			skips++
		}
		prev, found = level, true
	})
	if !found {
		return -1
	}
	return skips
}

// sharesWord reports whether a and b share a word of four or more letters.
func sharesWord(a, b string) bool {
	set := make(map[string]bool)
	for _, w := range words(strings.ToLower(a)) {
		if len(w) >= 4 {
			set[w] = true
		}
	}
	for _, w := range words(strings.ToLower(b)) {
		if set[w] {
			return true
		}
	}
	return false
}
