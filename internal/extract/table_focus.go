package extract

import (
	"context"

	"github.com/studykit/pdfparse/internal/extract/tables"
	"github.com/studykit/pdfparse/internal/schema"
)

// tableFocus extracts every table in the document first, then runs the text
// pass and attaches tables to their pages.
func (o *Orchestrator) tableFocus(ctx context.Context, src Source, opts Options) (schema.Pages, []string, error) {
	allTables := tables.ExtractFromDocument(src, opts.MaxPages, o.logger)
	byPage := make(map[int][]schema.Table)
	for _, t := range allTables {
		byPage[t.PageNumber] = append(byPage[t.PageNumber], t)
	}

	// The whole-document pass above owns table extraction.
	textOpts := opts
	textOpts.IncludeTables = false
	pages, warnings, err := o.textFocus(ctx, src, textOpts)
	if err != nil {
		return nil, warnings, err
	}
	for i := range pages {
		attachTables(&pages[i], byPage[pages[i].PageNumber])
	}
	return pages, warnings, nil
}
