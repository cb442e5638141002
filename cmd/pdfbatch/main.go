// pdfbatch parses every PDF in a directory, writing one result JSON per
// document and, on request, an XLSX workbook with the extracted tables.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/studykit/pdfparse/constants"
	"github.com/studykit/pdfparse/internal/common"
	"github.com/studykit/pdfparse/internal/export"
	"github.com/studykit/pdfparse/internal/parser"
)

func main() {
	var (
		dir       = flag.String("dir", ".", "directory to scan for PDFs")
		outDir    = flag.String("out-dir", "", "directory for result files (default: alongside inputs)")
		xlsx      = flag.Bool("xlsx", false, "also export extracted tables as XLSX")
		strategy  = flag.String("strategy", "", "force an extraction strategy")
		enableOCR = flag.Bool("ocr", false, "enable OCR providers")
		enrich    = flag.Bool("enrich", false, "build study content")
		timeout   = flag.Duration("timeout", 10*time.Minute, "per-document processing timeout")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	entries, err := os.ReadDir(*dir)
	if err != nil {
		logger.Error("read directory", "dir", *dir, "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	p := parser.New(common.LoadConfig(), logger)
	defer func() {
		if err := p.Close(); err != nil {
			logger.Warn("parser close", "error", err)
		}
	}()

	opts := parser.Options{
		Strategy:      *strategy,
		EnableOCR:     *enableOCR,
		EnrichContent: *enrich,
	}

	var parsed, failed int
	for _, e := range entries {
		if e.IsDir() || constants.NormalizeExt(filepath.Ext(e.Name())) != "pdf" {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		path := filepath.Join(*dir, e.Name())
		if err := processOne(ctx, p, path, *outDir, *xlsx, *timeout, opts, logger); err != nil {
			logger.Error("document failed",
				"path", path,
				"error", err,
				"retryable", common.Retryable(err),
			)
			failed++
			continue
		}
		parsed++
	}

	stats := p.CacheStats()
	logger.Info("batch done",
		"parsed", parsed,
		"failed", failed,
		"cache_hits", stats.Hits,
		"cache_misses", stats.Misses,
	)
	if failed > 0 {
		os.Exit(1)
	}
}

func processOne(ctx context.Context, p *parser.Parser, path, outDir string, xlsx bool, timeout time.Duration, opts parser.Options, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	doc, err := p.ParseFile(ctx, path, opts)
	if err != nil {
		return err
	}

	base := strings.TrimSuffix(path, filepath.Ext(path))
	if outDir != "" {
		base = filepath.Join(outDir, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	}

	bs, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(base+".json", bs, 0o644); err != nil {
		return err
	}

	if xlsx {
		wb, err := export.TablesXLSX(doc, logger)
		if err != nil {
			// No tables is expected for most documents.
			logger.Debug("xlsx skipped", "path", path, "reason", err)
		} else if err := os.WriteFile(base+".xlsx", wb, 0o644); err != nil {
			return err
		}
	}

	logger.Info("document parsed",
		"path", path,
		"pages", len(doc.Pages),
		"strategy", doc.ProcessingInfo.ExtractionMethod,
		"warnings", len(doc.ProcessingInfo.Warnings),
		"cached", doc.ProcessingInfo.Cached,
	)
	return nil
}
