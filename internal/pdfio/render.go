package pdfio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PageImage is one rendered (or extracted) page image on disk.
type PageImage struct {
	Page int
	Path string
}

// Renderer turns PDF pages into images for OCR. The preferred path shells
// out to poppler's pdftoppm; when that binary is unavailable it falls back
// to extracting the embedded page images, which is usually sufficient for
// scanned documents where each page is a single full-page scan.
type Renderer struct {
	Pdftoppm string
	DPI      int
	Runner   Runner
	Logger   *slog.Logger
}

func NewRenderer(pdftoppm string, dpi int, runner Runner, logger *slog.Logger) *Renderer {
	if pdftoppm == "" {
		pdftoppm = "pdftoppm"
	}
	if dpi <= 0 {
		dpi = 200
	}
	if logger == nil {
		logger = slog.Default()
	}
	if runner == nil {
		runner = ExecRunner{Logger: logger}
	}
	return &Renderer{Pdftoppm: pdftoppm, DPI: dpi, Runner: runner, Logger: logger}
}

var pageSuffix = regexp.MustCompile(`-(\d+)\.png$`)
var extractedPage = regexp.MustCompile(`_(?:page_)?(\d+)_`)

// RenderPages renders pages 1..maxPages (0 = all) of the document into
// outDir and returns the images in page order.
func (r *Renderer) RenderPages(ctx context.Context, path, outDir string, maxPages int) ([]PageImage, error) {
	images, err := r.renderWithPoppler(ctx, path, outDir, maxPages)
	if err == nil && len(images) > 0 {
		return images, nil
	}
	if err != nil {
		r.Logger.Warn("render.poppler.failed", "path", path, "error", err)
	}
	return r.extractEmbedded(path, outDir, maxPages)
}

func (r *Renderer) renderWithPoppler(ctx context.Context, path, outDir string, maxPages int) ([]PageImage, error) {
	prefix := filepath.Join(outDir, "page")
	args := []string{"-r", strconv.Itoa(r.DPI), "-png"}
	if maxPages > 0 {
		args = append(args, "-f", "1", "-l", strconv.Itoa(maxPages))
	}
	args = append(args, path, prefix)

	if _, errb, err := r.Runner.Run(ctx, r.Pdftoppm, args...); err != nil {
		return nil, fmt.Errorf("pdftoppm: %w (%s)", err, truncate(string(errb), 512))
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	images := make([]PageImage, 0, len(matches))
	for _, m := range matches {
		sub := pageSuffix.FindStringSubmatch(m)
		if sub == nil {
			continue
		}
		n, _ := strconv.Atoi(sub[1])
		images = append(images, PageImage{Page: n, Path: m})
	}
	sort.Slice(images, func(i, j int) bool { return images[i].Page < images[j].Page })
	if maxPages > 0 && len(images) > maxPages {
		images = images[:maxPages]
	}
	return images, nil
}

func (r *Renderer) extractEmbedded(path, outDir string, maxPages int) ([]PageImage, error) {
	var selected []string
	if maxPages > 0 {
		selected = []string{"1-" + strconv.Itoa(maxPages)}
	}
	if err := api.ExtractImagesFile(path, outDir, selected, nil); err != nil {
		return nil, fmt.Errorf("extract page images: %w", err)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		return nil, err
	}

	// Keep the first image found for each page.
	byPage := map[int]string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		sub := extractedPage.FindStringSubmatch(e.Name())
		if sub == nil {
			continue
		}
		n, _ := strconv.Atoi(sub[1])
		if _, ok := byPage[n]; !ok {
			byPage[n] = filepath.Join(outDir, e.Name())
		}
	}
	if len(byPage) == 0 {
		return nil, fmt.Errorf("no page images produced for %s", path)
	}

	images := make([]PageImage, 0, len(byPage))
	for n, p := range byPage {
		if maxPages > 0 && n > maxPages {
			continue
		}
		images = append(images, PageImage{Page: n, Path: p})
	}
	sort.Slice(images, func(i, j int) bool { return images[i].Page < images[j].Page })
	return images, nil
}
