package extract

import (
	"context"
	"os"
	"strings"

	"github.com/studykit/pdfparse/constants"
	"github.com/studykit/pdfparse/internal/extract/mathx"
	"github.com/studykit/pdfparse/internal/schema"
)

// hybrid runs the bulk text pass first, then schedules OCR augmentation for
// the pages whose native text is too sparse for their area. OCR here adds
// to the native text, it never replaces it. Equation extraction triggers on
// detected math content even when the request did not ask for it.
func (o *Orchestrator) hybrid(ctx context.Context, src Source, opts Options) (schema.Pages, []string, error) {
	pages, warnings, err := o.textFocus(ctx, src, opts)
	if err != nil {
		return nil, warnings, err
	}
	warnings = o.hybridAugment(ctx, src, pages, opts, warnings)
	o.attachDetectedEquations(src, pages, opts)
	return pages, warnings, nil
}

// hybridAugment OCRs the sparse pages in place and returns the warning list.
func (o *Orchestrator) hybridAugment(ctx context.Context, src Source, pages schema.Pages, opts Options, warnings []string) []string {
	if !opts.OCREnabled || o.ocr == nil || !o.ocr.Enabled() {
		return warnings
	}

	var sparse []int
	for i := range pages {
		if pages[i].Metadata.TextDensity < constants.HybridPageOCRDensity {
			sparse = append(sparse, i)
		}
	}
	if len(sparse) == 0 {
		return warnings
	}

	maxPage := pages[sparse[len(sparse)-1]].PageNumber
	rendered, cleanup, err := o.renderPages(ctx, src, maxPage)
	if err != nil {
		o.logger.Warn("extract.hybrid.render_failed", "error", err)
		return append(warnings, "OCR augmentation skipped: page rendering failed")
	}
	defer cleanup()

	byPage := map[int]string{}
	for _, img := range rendered {
		byPage[img.Page] = img.Path
	}

	for _, i := range sparse {
		page := &pages[i]
		path, ok := byPage[page.PageNumber]
		if !ok {
			continue
		}
		img, err := os.ReadFile(path)
		if err != nil {
			o.logger.Warn("extract.hybrid.image_read_failed", "page", page.PageNumber, "error", err)
			continue
		}
		res := o.ocr.Recognize(ctx, img, opts.Language)
		if res.Text == "" {
			continue
		}
		if page.Content != "" {
			page.Content += "\n\n"
		}
		page.Content += res.Text
		refreshPageCounters(page)
		page.Metadata.OCRApplied = true
		page.Metadata.OCRMethod = res.Method
	}
	return warnings
}

// attachDetectedEquations extracts equations for pages whose final content
// shows math, for requests that did not opt in (opted-in requests already
// got them during the page build).
func (o *Orchestrator) attachDetectedEquations(src Source, pages schema.Pages, opts Options) {
	if opts.IncludeEquations {
		return
	}
	for i := range pages {
		page := &pages[i]
		if len(page.Elements.Equations) > 0 || !mathx.ContainsMath(page.Content) {
			continue
		}
		words, _ := src.PageWords(page.PageNumber)
		if eqs := mathx.ExtractFromPage(page.Content, words, page.PageNumber); len(eqs) > 0 {
			page.Elements.Equations = eqs
			page.Metadata.HasEquations = true
		}
	}
}

// renderPages rasterizes pages 1..maxPage into a tracked scratch directory.
func (o *Orchestrator) renderPages(ctx context.Context, src Source, maxPage int) ([]renderedPage, func(), error) {
	dir, cleanup, err := o.temp.TempDir("render")
	if err != nil {
		return nil, nil, err
	}
	images, err := o.renderer.RenderPages(ctx, src.Path(), dir, maxPage)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	out := make([]renderedPage, len(images))
	for i, img := range images {
		out[i] = renderedPage{Page: img.Page, Path: img.Path}
	}
	return out, cleanup, nil
}

type renderedPage struct {
	Page int
	Path string
}

// refreshPageCounters recomputes the counters that depend on page content.
func refreshPageCounters(page *schema.Page) {
	words := len(strings.Fields(page.Content))
	page.Metadata.WordCount = words
	page.Metadata.CharacterCount = len(page.Content)
	page.Metadata.ParagraphCount = countParagraphs(page.Content)
	page.Metadata.EstimatedReadingTime = words / constants.ReadingTimeWPM
}
