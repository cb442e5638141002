// Package extract runs the strategy pipelines. Every strategy produces the
// same Result shape; the orchestrator owns dispatch and the shared
// invariants (contiguous page numbers, full text and totals derived from
// the page list).
package extract

import (
	"github.com/studykit/pdfparse/internal/pdfio"
)

// Source is the document surface the strategies read from. *pdfio.Document
// satisfies it; tests substitute fakes.
type Source interface {
	Path() string
	PageCount() int
	PageText(n int) (string, error)
	PageWords(n int) ([]pdfio.Word, error)
	PageDims(n int) (width, height float64)
	PageImages(n int) []pdfio.ImageInfo
}

// Options are the per-request extraction switches, already validated and
// defaulted by the caller.
type Options struct {
	Language         string
	MaxPages         int // 0 processes every page
	IncludeTables    bool
	IncludeImages    bool
	IncludeEquations bool
	OCREnabled       bool
}

// pageLimit is the number of pages a strategy actually processes.
func pageLimit(src Source, opts Options) int {
	limit := src.PageCount()
	if opts.MaxPages > 0 && opts.MaxPages < limit {
		limit = opts.MaxPages
	}
	return limit
}
