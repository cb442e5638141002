package extract

import (
	"context"
	"fmt"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/studykit/pdfparse/constants"
	"github.com/studykit/pdfparse/internal/schema"
)

// ocrHeavy renders every page and recognizes them with bounded concurrency.
// It fails closed when scratch space cannot be secured: starting a render
// it cannot finish would leave partial batches behind.
func (o *Orchestrator) ocrHeavy(ctx context.Context, src Source, opts Options) (schema.Pages, []string, error) {
	if err := o.temp.EnsureSpace(0); err != nil {
		return nil, nil, err
	}

	limit := pageLimit(src, opts)
	rendered, cleanup, err := o.renderPages(ctx, src, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("render pages for ocr: %w", err)
	}
	defer cleanup()

	type pageText struct {
		text   string
		method string
	}
	results := make([]pageText, len(rendered))
	var warnMu sync.Mutex
	var warnings []string

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(constants.OCRBatchSize)
	for i, img := range rendered {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(img.Path)
			if err != nil {
				warnMu.Lock()
				warnings = append(warnings, fmt.Sprintf("Page %d image unreadable", img.Page))
				warnMu.Unlock()
				return nil
			}
			res := o.ocr.Recognize(gctx, data, opts.Language)
			results[i] = pageText{text: res.Text, method: res.Method}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, warnings, err
	}

	ocrByPage := make(map[int]pageText, len(rendered))
	for i, img := range rendered {
		ocrByPage[img.Page] = results[i]
	}

	// Pages stay contiguous: every document page appears, with native text
	// as the fallback when rendering skipped it or OCR came back empty.
	pages := make(schema.Pages, 0, limit)
	for n := 1; n <= limit; n++ {
		if err := ctx.Err(); err != nil {
			return nil, warnings, err
		}
		content := ""
		method := ""
		if pt, ok := ocrByPage[n]; ok && pt.text != "" {
			content = pt.text
			method = pt.method
		} else if native, err := src.PageText(n); err == nil {
			content = native
		}
		page := buildPage(src, n, content, opts)
		if method != "" {
			page.Metadata.OCRApplied = true
			page.Metadata.OCRMethod = method
		}
		pages = append(pages, page)
	}
	return pages, warnings, nil
}
