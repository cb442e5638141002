// Package parser is the public facade: analyze, select, extract, assemble,
// with a TTL result cache in front of the whole pipeline.
package parser

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/studykit/pdfparse/internal/analyzer"
	"github.com/studykit/pdfparse/internal/assemble"
	"github.com/studykit/pdfparse/internal/cache"
	"github.com/studykit/pdfparse/internal/common"
	"github.com/studykit/pdfparse/internal/extract"
	"github.com/studykit/pdfparse/internal/extract/meta"
	"github.com/studykit/pdfparse/internal/ocr"
	"github.com/studykit/pdfparse/internal/pdfio"
	"github.com/studykit/pdfparse/internal/schema"
	"github.com/studykit/pdfparse/internal/tempspace"
)

const Version = "1.0.0"

// Parser owns the pipeline components and their lifetimes.
type Parser struct {
	cfg       *common.Config
	analyzer  *analyzer.Analyzer
	orch      *extract.Orchestrator
	assembler *assemble.Assembler
	chain     *ocr.Chain
	results   *cache.Cache
	store     *cache.SQLiteStore
	temp      *tempspace.Manager
	logger    *slog.Logger
}

// New wires the pipeline from configuration. The optional SQLite store only
// affects cache persistence; failing to open it degrades to memory-only
// caching with a warning.
func New(cfg *common.Config, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = common.LoadConfig()
	}

	var store *cache.SQLiteStore
	var cacheStore cache.Store
	if cfg.Cache.SQLitePath != "" {
		s, err := cache.NewSQLiteStore(cfg.Cache.SQLitePath)
		if err != nil {
			logger.Warn("parser.cache.sqlite_unavailable", "path", cfg.Cache.SQLitePath, "error", err)
		} else {
			store = s
			cacheStore = s
		}
	}

	chain := ocr.NewChain(
		[]ocr.Provider{
			ocr.NewVisionProvider(cfg.OCR, logger),
			ocr.NewTesseractProvider(cfg.OCR),
		},
		cache.NewOCRCache(cfg.Cache.OCRMaxEntries),
		logger,
	)

	temp := tempspace.NewManager(cfg.Temp, logger)
	renderer := pdfio.NewRenderer(cfg.OCR.Pdftoppm, cfg.OCR.DPI, nil, logger)

	return &Parser{
		cfg:       cfg,
		analyzer:  analyzer.New(logger),
		orch:      extract.NewOrchestrator(chain, renderer, temp, logger),
		assembler: assemble.New(logger),
		chain:     chain,
		results:   cache.New(cfg.Cache, cacheStore, logger),
		store:     store,
		temp:      temp,
		logger:    logger,
	}
}

// Parse runs the full pipeline over one document.
func (p *Parser) Parse(ctx context.Context, path string, opts Options) (schema.Document, error) {
	start := time.Now()
	if err := opts.Validate(); err != nil {
		return schema.Document{}, err
	}

	reqID := common.RequestIDFromContext(ctx)
	if reqID == "" {
		reqID = uuid.New().String()
		ctx = common.WithRequestID(ctx, reqID)
	}
	p.logger.Info("parser.request", "req_id", reqID, "path", path)

	doc, err := pdfio.Open(path)
	if err != nil {
		return schema.Document{}, common.NewAppError("CORRUPT_DOCUMENT", "cannot open document", errors.Join(err, common.ErrCorruptDocument))
	}
	defer func() {
		if cerr := doc.Close(); cerr != nil {
			p.logger.Warn("parser.close_failed", "path", path, "error", cerr)
		}
	}()

	fp := p.analyzer.Analyze(doc)
	if fp.TotalPages == 0 {
		return schema.Document{}, common.NewAppError("NO_PAGES", "document has no pages", common.ErrNoPages)
	}

	key := cache.Key(fp.ContentHash, opts.Normalized())
	if cached, ok := p.results.Get(key); ok {
		var out schema.Document
		if err := json.Unmarshal(cached, &out); err == nil {
			out.ProcessingInfo.Cached = true
			p.logger.Info("parser.cache.hit", "path", path, "key", key)
			return out, nil
		}
		p.logger.Warn("parser.cache.decode_failed", "key", key)
	}

	strategy, warnings := analyzer.SelectStrategy(fp, opts.Strategy)
	ocrEnabled := opts.EnableOCR && p.chain.Enabled()
	if opts.EnableOCR && !ocrEnabled {
		warnings = append(warnings, "OCR requested but no provider is available")
	}

	result, extractWarnings, err := p.orch.Extract(ctx, doc, strategy, extract.Options{
		Language:         firstNonEmpty(opts.Language, p.cfg.OCR.Language),
		MaxPages:         opts.MaxPages,
		IncludeTables:    opts.tablesEnabled(),
		IncludeImages:    opts.ExtractImages,
		IncludeEquations: opts.ExtractEquations,
		OCREnabled:       ocrEnabled,
	})
	warnings = append(warnings, extractWarnings...)
	if err != nil {
		return schema.Document{}, classifyExtractionError(err)
	}
	if len(result.Pages) == 0 {
		return schema.Document{}, common.NewAppError("NO_PAGES", "extraction produced no pages", common.ErrNoPages)
	}

	out := p.assembler.Build(assemble.Input{
		FileName:    filepath.Base(path),
		Result:      result,
		Fingerprint: fp,
		Meta:        meta.Extract(doc, p.logger),
		Overrides: assemble.Overrides{
			Title:         opts.Title,
			Author:        opts.Author,
			Subject:       opts.Subject,
			Language:      opts.Language,
			DocumentType:  opts.DocumentType,
			AcademicLevel: opts.AcademicLevel,
		},
		OCREnabled:     ocrEnabled,
		EnrichContent:  opts.EnrichContent,
		Warnings:       warnings,
		ProcessingTime: time.Since(start),
		ParserVersion:  Version,
	})

	if bs, err := json.Marshal(out); err == nil {
		p.results.Put(key, bs, 0)
	}
	return out, nil
}

// ParseFile is Parse with a file existence check that yields a cleaner
// error for CLI callers.
func (p *Parser) ParseFile(ctx context.Context, path string, opts Options) (schema.Document, error) {
	if _, err := os.Stat(path); err != nil {
		return schema.Document{}, common.NewAppError("INVALID_INPUT", "input file not accessible", errors.Join(err, common.ErrInvalidInput))
	}
	return p.Parse(ctx, path, opts)
}

// CacheStats exposes result-cache counters.
func (p *Parser) CacheStats() cache.Stats { return p.results.Stats() }

// ClearCache drops all cached results.
func (p *Parser) ClearCache() { p.results.Clear() }

// Close releases the persistent cache store and reclaims scratch space.
func (p *Parser) Close() error {
	p.temp.CleanupAll()
	if p.store != nil {
		return p.store.Close()
	}
	return nil
}

// classifyExtractionError attaches the retryability signal: scratch-space
// exhaustion and provider outages are transient, structural failures are
// not.
func classifyExtractionError(err error) error {
	var ae *common.AppError
	if errors.As(err, &ae) {
		return err
	}
	if errors.Is(err, common.ErrTempSpace) {
		return common.NewRetryableError("TEMP_SPACE", "temporary space exhausted", err)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return common.NewRetryableError("CANCELED", "extraction interrupted", err)
	}
	return common.NewAppError("EXTRACTION_FAILED", "extraction failed", err)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
