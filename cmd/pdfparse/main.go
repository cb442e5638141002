package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/studykit/pdfparse/internal/common"
	"github.com/studykit/pdfparse/internal/parser"
)

func main() {
	var (
		optionsPath = flag.String("options", "", "path to a JSON options document")
		outPath     = flag.String("out", "", "write the result JSON here instead of stdout")
		strategy    = flag.String("strategy", "", "force an extraction strategy")
		language    = flag.String("language", "", "document language hint, e.g. en")
		maxPages    = flag.Int("max-pages", 0, "process at most this many pages (0 = all)")
		enableOCR   = flag.Bool("ocr", false, "enable OCR providers")
		noTables    = flag.Bool("no-tables", false, "skip per-page table extraction")
		images      = flag.Bool("images", false, "include embedded image elements")
		equations   = flag.Bool("equations", false, "include per-page equation extraction")
		enrich      = flag.Bool("enrich", false, "build study content (topics, summary, question areas)")
		pretty      = flag.Bool("pretty", false, "indent the output JSON")
		timeout     = flag.Duration("timeout", 5*time.Minute, "per-document processing timeout")
		verbose     = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if flag.NArg() != 1 {
		logger.Error("usage: pdfparse [flags] <file.pdf>")
		os.Exit(2)
	}
	input := flag.Arg(0)

	opts := parser.Options{
		Strategy:         *strategy,
		Language:         *language,
		MaxPages:         *maxPages,
		EnableOCR:        *enableOCR,
		ExtractImages:    *images,
		ExtractEquations: *equations,
		EnrichContent:    *enrich,
	}
	if *noTables {
		f := false
		opts.ExtractTables = &f
	}
	if *optionsPath != "" {
		fileOpts, err := loadOptions(*optionsPath)
		if err != nil {
			logger.Error("invalid options file", "path", *optionsPath, "error", err)
			os.Exit(2)
		}
		opts = mergeOptions(fileOpts, opts)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	p := parser.New(common.LoadConfig(), logger)
	defer func() {
		if err := p.Close(); err != nil {
			logger.Warn("parser close", "error", err)
		}
	}()

	doc, err := p.ParseFile(ctx, input, opts)
	if err != nil {
		logger.Error("parse failed",
			"path", input,
			"error", err,
			"retryable", common.Retryable(err),
		)
		os.Exit(1)
	}

	enc := json.NewEncoder(outWriter(logger, *outPath))
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(doc); err != nil {
		logger.Error("encode result", "error", err)
		os.Exit(1)
	}

	stats := p.CacheStats()
	logger.Info("done",
		"path", input,
		"pages", len(doc.Pages),
		"strategy", doc.ProcessingInfo.ExtractionMethod,
		"cached", doc.ProcessingInfo.Cached,
		"cache_hit_rate", stats.HitRate,
	)
}

// loadOptions validates the JSON document against the options schema before
// decoding it, so typos fail loudly instead of being silently ignored.
func loadOptions(path string) (parser.Options, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return parser.Options{}, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return parser.Options{}, err
	}
	if err := parser.ValidateOptionsValue(generic); err != nil {
		return parser.Options{}, err
	}
	var opts parser.Options
	if err := json.Unmarshal(raw, &opts); err != nil {
		return parser.Options{}, err
	}
	return opts, nil
}

// mergeOptions overlays non-zero CLI flags on top of the options file.
func mergeOptions(base, flags parser.Options) parser.Options {
	out := base
	if flags.Strategy != "" {
		out.Strategy = flags.Strategy
	}
	if flags.Language != "" {
		out.Language = flags.Language
	}
	if flags.MaxPages > 0 {
		out.MaxPages = flags.MaxPages
	}
	if flags.ExtractTables != nil {
		out.ExtractTables = flags.ExtractTables
	}
	out.EnableOCR = out.EnableOCR || flags.EnableOCR
	out.ExtractImages = out.ExtractImages || flags.ExtractImages
	out.ExtractEquations = out.ExtractEquations || flags.ExtractEquations
	out.EnrichContent = out.EnrichContent || flags.EnrichContent
	return out
}

func outWriter(logger *slog.Logger, path string) *os.File {
	if path == "" {
		return os.Stdout
	}
	f, err := os.Create(path)
	if err != nil {
		logger.Error("create output file", "path", path, "error", err)
		os.Exit(1)
	}
	return f
}
