package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/studykit/pdfparse/constants"
	"github.com/studykit/pdfparse/internal/ocr"
	"github.com/studykit/pdfparse/internal/pdfio"
	"github.com/studykit/pdfparse/internal/schema"
	"github.com/studykit/pdfparse/internal/tempspace"
)

// Orchestrator dispatches a request to the selected strategy and enforces
// the shared result invariants.
type Orchestrator struct {
	ocr      *ocr.Chain
	renderer *pdfio.Renderer
	temp     *tempspace.Manager
	logger   *slog.Logger
}

func NewOrchestrator(ocrChain *ocr.Chain, renderer *pdfio.Renderer, temp *tempspace.Manager, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{ocr: ocrChain, renderer: renderer, temp: temp, logger: logger}
}

type strategyFunc func(ctx context.Context, src Source, opts Options) (schema.Pages, []string, error)

// Extract runs one strategy over the document. An unknown strategy name is
// downgraded to text_focus with a warning rather than rejected.
func (o *Orchestrator) Extract(ctx context.Context, src Source, strategy constants.Strategy, opts Options) (schema.Result, []string, error) {
	var warnings []string
	if !constants.KnownStrategy(string(strategy)) {
		warnings = append(warnings, fmt.Sprintf("Unknown strategy %q, using %s", strategy, constants.StrategyTextFocus))
		strategy = constants.StrategyTextFocus
	}

	dispatch := map[constants.Strategy]strategyFunc{
		constants.StrategyTextFocus:  o.textFocus,
		constants.StrategyHybrid:     o.hybrid,
		constants.StrategyTableFocus: o.tableFocus,
		constants.StrategyMathFocus:  o.mathFocus,
		constants.StrategyOCRHeavy:   o.ocrHeavy,
	}

	start := time.Now()
	pages, extraWarnings, err := dispatch[strategy](ctx, src, opts)
	warnings = append(warnings, extraWarnings...)
	if err != nil {
		return schema.Result{}, warnings, err
	}

	result := finalize(pages, string(strategy))
	o.logger.Info("extract.done",
		"strategy", strategy,
		"pages", len(result.Pages),
		"words", result.TotalWordCount,
		"tables", result.TotalTables,
		"equations", result.TotalEquations,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return result, warnings, nil
}

// finalize derives the document-level fields from the page list, so they
// can never drift from the pages themselves.
func finalize(pages schema.Pages, method string) schema.Result {
	var sb strings.Builder
	r := schema.Result{Pages: pages, ExtractionMethod: method}
	for i, p := range pages {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(p.Content)
		r.TotalWordCount += p.Metadata.WordCount
		r.TotalTables += len(p.Elements.Tables)
		r.TotalEquations += len(p.Elements.Equations)
	}
	r.FullText = sb.String()
	return r
}
