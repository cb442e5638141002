package extract

import (
	"context"
	"fmt"

	"github.com/studykit/pdfparse/internal/schema"
)

// textFocus is the single-pass native text strategy. Unreadable pages
// become empty pages with a warning; they never abort the document.
func (o *Orchestrator) textFocus(ctx context.Context, src Source, opts Options) (schema.Pages, []string, error) {
	var warnings []string
	limit := pageLimit(src, opts)
	pages := make(schema.Pages, 0, limit)

	for n := 1; n <= limit; n++ {
		if err := ctx.Err(); err != nil {
			return nil, warnings, err
		}
		text, err := src.PageText(n)
		if err != nil {
			o.logger.Warn("extract.text.page_failed", "page", n, "error", err)
			warnings = append(warnings, fmt.Sprintf("Page %d could not be read", n))
			text = ""
		}
		pages = append(pages, buildPage(src, n, text, opts))
	}
	return pages, warnings, nil
}
