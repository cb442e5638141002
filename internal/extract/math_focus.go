package extract

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/studykit/pdfparse/internal/extract/mathx"
	"github.com/studykit/pdfparse/internal/schema"
)

// mathFocus runs the equation pass and the text pass concurrently, then
// merges equations into their pages by page number.
func (o *Orchestrator) mathFocus(ctx context.Context, src Source, opts Options) (schema.Pages, []string, error) {
	var (
		pages     schema.Pages
		warnings  []string
		equations []schema.Equation
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		equations = mathx.ExtractFromDocument(src, opts.MaxPages, o.logger)
		return nil
	})
	// The document-wide pass below owns equation extraction.
	textOpts := opts
	textOpts.IncludeEquations = false
	g.Go(func() error {
		var err error
		pages, warnings, err = o.textFocus(gctx, src, textOpts)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, warnings, err
	}

	byPage := make(map[int][]schema.Equation)
	for _, eq := range equations {
		byPage[eq.PageNumber] = append(byPage[eq.PageNumber], eq)
	}
	for i := range pages {
		eqs := byPage[pages[i].PageNumber]
		if len(eqs) == 0 {
			continue
		}
		pages[i].Elements.Equations = eqs
		pages[i].Metadata.HasEquations = true
	}
	return pages, warnings, nil
}
