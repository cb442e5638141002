// Package tables recovers row/column grids from positioned page text and
// converts them into structured tables with markdown, CSV and HTML
// renderings derived from the same cell data.
package tables

import (
	"encoding/csv"
	"fmt"
	"html"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/studykit/pdfparse/internal/pdfio"
	"github.com/studykit/pdfparse/internal/schema"
)

// Grid geometry tolerances, in PDF points.
const (
	rowTolerance = 3.0  // Y delta for fragments on the same line
	cellGap      = 12.0 // X gap that separates two cells
	colTolerance = 10.0 // X delta for cells in the same column
	minTableRows = 2
	minTableCols = 2
)

// PageSource yields positioned words for table detection.
type PageSource interface {
	PageCount() int
	PageWords(n int) ([]pdfio.Word, error)
}

// ExtractFromDocument extracts every table in the document. maxPages <= 0
// processes all pages. Per-page failures are logged and skipped.
func ExtractFromDocument(src PageSource, maxPages int, logger *slog.Logger) []schema.Table {
	if logger == nil {
		logger = slog.Default()
	}
	total := src.PageCount()
	if maxPages > 0 && maxPages < total {
		total = maxPages
	}

	var out []schema.Table
	for n := 1; n <= total; n++ {
		words, err := src.PageWords(n)
		if err != nil {
			logger.Warn("tables.page.skipped", "page", n, "error", err)
			continue
		}
		out = append(out, ExtractFromPage(words, n)...)
	}
	return out
}

// ExtractFromPage extracts tables from one page's positioned words.
func ExtractFromPage(words []pdfio.Word, pageNum int) []schema.Table {
	var out []schema.Table
	for idx, raw := range detectGrids(words) {
		if t := Process(raw, pageNum, idx); t != nil {
			out = append(out, *t)
		}
	}
	return out
}

// PageHasTable is the cheap probe used by the characteristics analyzer.
func PageHasTable(words []pdfio.Word) bool {
	return len(detectGrids(words)) > 0
}

// Process turns a raw cell grid into a structured table. Returns nil for
// empty or degenerate grids.
func Process(raw [][]string, pageNum, tableIdx int) *schema.Table {
	if len(raw) == 0 {
		return nil
	}

	// Drop empty rows, trim cells.
	var cleaned [][]string
	for _, row := range raw {
		trimmed := make([]string, len(row))
		any := false
		for i, cell := range row {
			trimmed[i] = strings.TrimSpace(cell)
			if trimmed[i] != "" {
				any = true
			}
		}
		if any {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return nil
	}

	var headers []string
	rows := cleaned
	if isHeaderRow(cleaned[0]) {
		headers = cleaned[0]
		if len(cleaned) > 1 {
			rows = cleaned[1:]
		} else {
			rows = nil
		}
	}

	numCols := len(headers)
	if numCols == 0 && len(rows) > 0 {
		numCols = len(rows[0])
	}

	t := &schema.Table{
		ID:         fmt.Sprintf("page%d_table%d", pageNum, tableIdx),
		PageNumber: pageNum,
		Headers:    headers,
		Rows:       rows,
		NumRows:    len(rows),
		NumCols:    numCols,
		Representations: schema.TableRepresentations{
			Markdown: toMarkdown(headers, rows),
			CSV:      toCSV(headers, rows),
			HTML:     toHTML(headers, rows),
		},
		Analysis: analyze(headers, rows),
	}
	return t
}

// isHeaderRow applies the header heuristic: at least half the cells are
// non-empty and the row is not entirely numeric.
func isHeaderRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	nonEmpty := 0
	numeric := 0
	for _, cell := range row {
		if cell != "" {
			nonEmpty++
		}
		if isNumeric(cell) {
			numeric++
		}
	}
	if nonEmpty*2 < len(row) {
		return false
	}
	return numeric < len(row)
}

// isNumeric reports whether value parses as a number after stripping
// currency, percent and thousands separators.
func isNumeric(value string) bool {
	s := strings.NewReplacer(",", "", "$", "", "%", "").Replace(value)
	if s == "" {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func toMarkdown(headers []string, rows [][]string) string {
	if len(headers) == 0 && len(rows) == 0 {
		return ""
	}
	var lines []string
	if len(headers) > 0 {
		lines = append(lines, "| "+strings.Join(headers, " | ")+" |")
		sep := make([]string, len(headers))
		for i := range sep {
			sep[i] = "---"
		}
		lines = append(lines, "| "+strings.Join(sep, " | ")+" |")
	}
	for _, row := range rows {
		lines = append(lines, "| "+strings.Join(row, " | ")+" |")
	}
	return strings.Join(lines, "\n")
}

func toCSV(headers []string, rows [][]string) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if len(headers) > 0 {
		_ = w.Write(headers)
	}
	_ = w.WriteAll(rows)
	w.Flush()
	return sb.String()
}

func toHTML(headers []string, rows [][]string) string {
	var lines []string
	lines = append(lines, "<table>")
	if len(headers) > 0 {
		lines = append(lines, "  <thead><tr>")
		for _, h := range headers {
			lines = append(lines, "    <th>"+html.EscapeString(h)+"</th>")
		}
		lines = append(lines, "  </tr></thead>")
	}
	lines = append(lines, "  <tbody>")
	for _, row := range rows {
		lines = append(lines, "  <tr>")
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = "<td>" + html.EscapeString(cell) + "</td>"
		}
		lines = append(lines, "    "+strings.Join(cells, ""))
		lines = append(lines, "  </tr>")
	}
	lines = append(lines, "  </tbody>")
	lines = append(lines, "</table>")
	return strings.Join(lines, "\n")
}

// analyze infers a numeric/text type per column by majority vote.
func analyze(headers []string, rows [][]string) schema.TableAnalysis {
	colCount := len(headers)
	if colCount == 0 && len(rows) > 0 {
		colCount = len(rows[0])
	}
	a := schema.TableAnalysis{
		DataTypes: []string{},
		RowCount:  len(rows),
		ColCount:  colCount,
	}
	if len(rows) == 0 {
		return a
	}
	for col := 0; col < colCount; col++ {
		numeric := 0
		for _, row := range rows {
			if col < len(row) && isNumeric(row[col]) {
				numeric++
			}
		}
		if numeric*2 > len(rows) {
			a.DataTypes = append(a.DataTypes, "numeric")
			a.HasNumeric = true
		} else {
			a.DataTypes = append(a.DataTypes, "text")
		}
	}
	return a
}

// detectGrids groups positioned words into candidate tables: lines become
// rows, consistent X gaps become column boundaries, and a run of at least
// two rows sharing at least two aligned columns is treated as a grid.
func detectGrids(words []pdfio.Word) [][][]string {
	rows := groupIntoRows(words)
	if len(rows) < minTableRows {
		return nil
	}

	// Convert each line into cells split on large X gaps.
	lineCells := make([][]gridCell, len(rows))
	for i, line := range rows {
		sort.Slice(line, func(a, b int) bool { return line[a].X < line[b].X })
		var cells []gridCell
		for _, w := range line {
			if len(cells) > 0 && w.X-endOf(line, cells[len(cells)-1].x) < cellGap {
				cells[len(cells)-1].text += w.S
				continue
			}
			cells = append(cells, gridCell{x: w.X, text: w.S})
		}
		lineCells[i] = cells
	}

	// Scan for runs of multi-cell lines with aligned first columns.
	var grids [][][]string
	start := -1
	flush := func(end int) {
		if start < 0 || end-start < minTableRows {
			start = -1
			return
		}
		block := lineCells[start:end]
		if grid := buildGrid(block); grid != nil {
			grids = append(grids, grid)
		}
		start = -1
	}
	for i, cells := range lineCells {
		if len(cells) >= minTableCols {
			if start < 0 {
				start = i
			} else if !aligned(lineCells[start], cells) {
				flush(i)
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(lineCells))
	return grids
}

type gridCell struct {
	x    float64
	text string
}

// buildGrid assigns cells to clustered column positions, yielding rows that
// may be sparse (fewer cells than columns) but never padded.
func buildGrid(block [][]gridCell) [][]string {
	// Cluster X starts into column slots.
	var xs []float64
	for _, row := range block {
		for _, c := range row {
			xs = append(xs, c.x)
		}
	}
	sort.Float64s(xs)
	var cols []float64
	for _, x := range xs {
		if len(cols) == 0 || x-cols[len(cols)-1] > colTolerance {
			cols = append(cols, x)
		}
	}
	if len(cols) < minTableCols {
		return nil
	}

	grid := make([][]string, len(block))
	for i, row := range block {
		cells := make([]string, len(cols))
		for _, c := range row {
			slot := nearestColumn(cols, c.x)
			if cells[slot] != "" {
				cells[slot] += " "
			}
			cells[slot] += c.text
		}
		grid[i] = cells
	}
	return grid
}

func nearestColumn(cols []float64, x float64) int {
	best := 0
	for i, cx := range cols {
		if abs(x-cx) < abs(x-cols[best]) {
			best = i
		}
	}
	return best
}

// aligned reports whether two cell rows share a leading column position.
func aligned(a, b []gridCell) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	return abs(a[0].x-b[0].x) <= colTolerance
}

// groupIntoRows buckets words into lines by Y coordinate, top to bottom.
func groupIntoRows(words []pdfio.Word) [][]pdfio.Word {
	if len(words) == 0 {
		return nil
	}
	sorted := make([]pdfio.Word, len(words))
	copy(sorted, words)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Y > sorted[j].Y })

	var rows [][]pdfio.Word
	for _, w := range sorted {
		if len(rows) > 0 {
			last := rows[len(rows)-1]
			if abs(last[0].Y-w.Y) <= rowTolerance {
				rows[len(rows)-1] = append(last, w)
				continue
			}
		}
		rows = append(rows, []pdfio.Word{w})
	}
	return rows
}

func endOf(line []pdfio.Word, startX float64) float64 {
	// Approximate the right edge of the fragment that started at startX.
	end := startX
	for _, w := range line {
		if w.X >= startX && w.X+w.W > end {
			end = w.X + w.W
		}
	}
	return end
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
