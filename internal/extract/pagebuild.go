package extract

import (
	"fmt"
	"sort"
	"strings"

	"github.com/studykit/pdfparse/constants"
	"github.com/studykit/pdfparse/internal/extract/mathx"
	"github.com/studykit/pdfparse/internal/extract/tables"
	"github.com/studykit/pdfparse/internal/pdfio"
	"github.com/studykit/pdfparse/internal/schema"
)

// buildPage assembles one result page with its metadata and the optional
// elements the request asked for.
func buildPage(src Source, n int, content string, opts Options) schema.Page {
	words := strings.Fields(content)
	page := schema.Page{
		PageNumber: n,
		Content:    content,
		Metadata: schema.PageMetadata{
			WordCount:            len(words),
			CharacterCount:       len(content),
			ParagraphCount:       countParagraphs(content),
			TextDensity:          pageAreaDensity(src, n, content),
			EstimatedReadingTime: len(words) / constants.ReadingTimeWPM,
		},
	}

	if posWords, err := src.PageWords(n); err == nil {
		page.Elements.Headings = detectHeadings(posWords)
		if opts.IncludeTables {
			attachTables(&page, tables.ExtractFromPage(posWords, n))
		}
	}

	if opts.IncludeImages {
		for i, img := range src.PageImages(n) {
			page.Elements.Images = append(page.Elements.Images, schema.ImageElement{
				ID:         fmt.Sprintf("page%d_img%d", n, i),
				PageNumber: n,
				Format:     img.Format,
				Width:      img.Width,
				Height:     img.Height,
				Size:       img.Size,
			})
		}
		page.Metadata.HasImages = len(page.Elements.Images) > 0
	} else {
		page.Metadata.HasImages = len(src.PageImages(n)) > 0
	}

	if opts.IncludeEquations {
		posWords, _ := src.PageWords(n)
		page.Elements.Equations = mathx.ExtractFromPage(content, posWords, n)
		page.Metadata.HasEquations = len(page.Elements.Equations) > 0
	}

	return page
}

// attachTables sets the per-page table list and flag.
func attachTables(page *schema.Page, pageTables []schema.Table) {
	page.Elements.Tables = pageTables
	page.Metadata.HasTables = len(pageTables) > 0
}

// pageAreaDensity is characters per square point of page area, the signal
// the hybrid strategy uses to decide per-page OCR.
func pageAreaDensity(src Source, n int, content string) float64 {
	w, h := src.PageDims(n)
	if w <= 0 || h <= 0 {
		return 0
	}
	return float64(len(content)) / (w * h)
}

func countParagraphs(content string) int {
	count := 0
	for _, block := range strings.Split(content, "\n\n") {
		if strings.TrimSpace(block) != "" {
			count++
		}
	}
	return count
}

// detectHeadings returns short lines set noticeably larger than the page's
// median font size.
func detectHeadings(words []pdfio.Word) []string {
	if len(words) == 0 {
		return nil
	}
	sizes := make([]float64, 0, len(words))
	for _, w := range words {
		if w.FontSize > 0 {
			sizes = append(sizes, w.FontSize)
		}
	}
	if len(sizes) == 0 {
		return nil
	}
	sort.Float64s(sizes)
	median := sizes[len(sizes)/2]
	threshold := median * 1.2

	// Group consecutive oversized fragments into heading lines.
	var headings []string
	var current []string
	var currentY float64
	flush := func() {
		if len(current) > 0 {
			line := strings.TrimSpace(strings.Join(current, " "))
			if line != "" && len(strings.Fields(line)) <= 12 {
				headings = append(headings, line)
			}
			current = nil
		}
	}
	for _, w := range words {
		if w.FontSize > threshold {
			if len(current) > 0 && absf(w.Y-currentY) > 2 {
				flush()
			}
			current = append(current, w.S)
			currentY = w.Y
			continue
		}
		flush()
	}
	flush()
	return headings
}

func absf(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
