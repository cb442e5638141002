// Package analyzer computes a document fingerprint from a page sample and
// selects the extraction strategy. Analysis is fail-soft: a document that
// cannot be inspected still gets a fingerprint, zeroed, with the safest
// strategy recommended.
package analyzer

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/studykit/pdfparse/constants"
	"github.com/studykit/pdfparse/internal/extract/mathx"
	"github.com/studykit/pdfparse/internal/extract/tables"
	"github.com/studykit/pdfparse/internal/pdfio"
	"github.com/studykit/pdfparse/internal/schema"
)

// Source is the document surface analysis reads from.
type Source interface {
	Path() string
	PageCount() int
	PageText(n int) (string, error)
	PageWords(n int) ([]pdfio.Word, error)
	PageFonts(n int) []string
	PageDims(n int) (width, height float64)
	PageHasAnnotations(n int) bool
	PageImages(n int) []pdfio.ImageInfo
	HasForms() bool
}

// Analyzer inspects documents. Zero-value dependencies are filled in.
type Analyzer struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{logger: logger}
}

// Analyze fingerprints the document. The fingerprint is computed once per
// request and never mutated afterwards.
func (a *Analyzer) Analyze(src Source) schema.Fingerprint {
	total := src.PageCount()
	fp := schema.Fingerprint{
		TotalPages:  total,
		Recommended: constants.StrategyTextFocus,
		ContentHash: hashFile(src.Path()),
	}
	if total == 0 {
		a.logger.Warn("analyzer.no_pages", "path", src.Path())
		return fp
	}

	sample := SamplePages(total)
	var (
		textPages   int
		imagePages  int
		totalChars  int
		fonts       = map[string]struct{}{}
		hasEquation bool
		lastText    string
	)

	for _, n := range sample {
		text, err := src.PageText(n)
		if err != nil {
			a.logger.Warn("analyzer.page.unreadable", "page", n, "error", err)
		}
		stripped := strings.TrimSpace(text)
		if len(stripped) > constants.MeaningfulTextChars {
			textPages++
			fp.HasText = true
		}
		totalChars += len(stripped)
		lastText = stripped

		for _, f := range src.PageFonts(n) {
			fonts[f] = struct{}{}
			if hasMathFontName(f) {
				hasEquation = true
			}
		}
		if src.PageHasAnnotations(n) {
			fp.HasAnnotations = true
		}

		images := src.PageImages(n)
		if len(images) > 0 {
			imagePages++
			fp.HasImages = true
		}
		for _, img := range images {
			if img.Width >= constants.DiagramMinDimension && img.Height >= constants.DiagramMinDimension {
				fp.HasDiagrams = true
			}
		}
		if w, h := src.PageDims(n); w > 0 && h > 0 {
			fp.PageSizes = append(fp.PageSizes, [2]float64{w, h})
		}
	}

	sampled := len(sample)
	fp.TextDensity = float64(textPages) / float64(sampled)
	fp.ImageDensity = float64(imagePages) / float64(sampled)
	fp.AvgTextPerPage = totalChars / sampled

	// The text probe is a coarse whole-document proxy run over the last
	// sampled page only; font inspection above already covered the sample.
	if !hasEquation {
		hasEquation = mathx.ContainsMath(lastText)
	}
	fp.HasEquations = hasEquation
	fp.HasForms = src.HasForms()

	for f := range fonts {
		fp.FontsUsed = append(fp.FontsUsed, f)
	}

	fp.TableDensity = a.probeTables(src)
	fp.HasTables = fp.TableDensity > 0

	fp.IsScanned = isScanned(fp)
	fp.Recommended, _ = SelectStrategy(fp, "")

	a.logger.Info("analyzer.fingerprint",
		"pages", total,
		"sampled", sampled,
		"text_density", fp.TextDensity,
		"image_density", fp.ImageDensity,
		"table_density", fp.TableDensity,
		"scanned", fp.IsScanned,
		"equations", fp.HasEquations,
		"recommended", fp.Recommended,
	)
	return fp
}

// ExtrapolateCount scales a sampled occurrence count to the whole document.
func ExtrapolateCount(sampledCount, sampledPages, totalPages int) int {
	if sampledPages == 0 {
		return 0
	}
	return sampledCount * totalPages / sampledPages
}

// isScanned applies the two scanned-document signatures: barely any native
// text, or image-dominated pages with little text.
func isScanned(fp schema.Fingerprint) bool {
	if fp.TextDensity < constants.ScannedTextDensityMax && fp.AvgTextPerPage < constants.ScannedAvgTextMax {
		return true
	}
	if fp.ImageDensity > constants.ScannedImageDensityMin && fp.AvgTextPerPage < constants.ScannedImageAvgTextMax {
		return true
	}
	return false
}

// probeTables runs the table detector over the sampled pages, capped; full
// table extraction is the table_focus strategy's job.
func (a *Analyzer) probeTables(src Source) float64 {
	sample := SamplePages(src.PageCount())
	if len(sample) > constants.TableProbePagesMax {
		sample = sample[:constants.TableProbePagesMax]
	}
	if len(sample) == 0 {
		return 0
	}
	pagesWith := 0
	for _, n := range sample {
		words, err := src.PageWords(n)
		if err != nil {
			continue
		}
		if tables.PageHasTable(words) {
			pagesWith++
		}
	}
	return float64(pagesWith) / float64(len(sample))
}

// hasMathFontName flags fonts used for formulas.
func hasMathFontName(font string) bool {
	lf := strings.ToLower(font)
	return strings.Contains(lf, "cmmi") || strings.Contains(lf, "cmsy") ||
		strings.Contains(lf, "math") || strings.Contains(lf, "symbol")
}

func hashFile(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()
	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return ""
	}
	return hex.EncodeToString(h.Sum(nil))
}
