// Package meta maps the PDF information dictionary and document structure
// into resolved metadata. Word counts and reading time are filled in later
// by the assembler, which owns the extracted text.
package meta

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// Source is the document surface metadata extraction reads from.
type Source interface {
	PageCount() int
	PageDims(n int) (width, height float64)
	Info() map[string]string
	Outline() (depth int, has bool)
	HasForms() bool
	PageHasAnnotations(n int) bool
}

// Fields holds the raw metadata recovered from the document, before the
// assembler applies option overrides and defaults.
type Fields struct {
	Title            string
	Author           string
	Subject          string
	Keywords         []string
	Creator          string
	Producer         string
	CreationDate     string
	ModificationDate string
	PageFormat       string
	HasOutline       bool
	OutlineDepth     int
	HasForms         bool
	HasAnnotations   bool
}

// Extract reads the information dictionary and structural facts.
func Extract(src Source, logger *slog.Logger) Fields {
	if logger == nil {
		logger = slog.Default()
	}
	info := src.Info()

	f := Fields{
		Title:    info["Title"],
		Author:   info["Author"],
		Subject:  info["Subject"],
		Keywords: SplitKeywords(info["Keywords"]),
		Creator:  info["Creator"],
		Producer: info["Producer"],
	}
	if iso, err := ParseDate(info["CreationDate"]); err == nil {
		f.CreationDate = iso
	}
	if iso, err := ParseDate(info["ModDate"]); err == nil {
		f.ModificationDate = iso
	}

	f.OutlineDepth, f.HasOutline = src.Outline()
	f.HasForms = src.HasForms()
	for n := 1; n <= src.PageCount(); n++ {
		if src.PageHasAnnotations(n) {
			f.HasAnnotations = true
			break
		}
	}
	if w, h := src.PageDims(1); w > 0 && h > 0 {
		f.PageFormat = PageFormatName(w, h)
	}

	logger.Debug("meta.extracted",
		"title", f.Title != "",
		"outline", f.HasOutline,
		"forms", f.HasForms,
		"format", f.PageFormat)
	return f
}

// SplitKeywords splits a keyword string on the first present of comma,
// semicolon or pipe, falling back to whitespace. Single-character fragments
// are dropped.
func SplitKeywords(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{}
	}

	var parts []string
	switch {
	case strings.Contains(s, ","):
		parts = strings.Split(s, ",")
	case strings.Contains(s, ";"):
		parts = strings.Split(s, ";")
	case strings.Contains(s, "|"):
		parts = strings.Split(s, "|")
	default:
		parts = strings.Fields(s)
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if len(p) > 1 {
			out = append(out, p)
		}
	}
	return out
}

// ParseDate parses a PDF date of the form D:YYYYMMDDHHmmSS with optional
// trailing timezone. Components after the year are optional; missing month
// and day default to 01 and missing time components to zero. Returns an
// RFC 3339 date-time string.
func ParseDate(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "D:")
	if len(s) < 4 {
		return "", fmt.Errorf("pdf date too short: %q", raw)
	}

	digits := s
	for i, r := range s {
		if r < '0' || r > '9' {
			digits = s[:i]
			break
		}
	}

	get := func(start, width, def int) int {
		if len(digits) >= start+width {
			if v, err := strconv.Atoi(digits[start : start+width]); err == nil {
				return v
			}
		}
		return def
	}

	year := get(0, 4, 0)
	if year == 0 {
		return "", fmt.Errorf("pdf date missing year: %q", raw)
	}
	month := get(4, 2, 1)
	day := get(6, 2, 1)
	hour := get(8, 2, 0)
	minute := get(10, 2, 0)
	second := get(12, 2, 0)

	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || minute > 59 || second > 60 {
		return "", fmt.Errorf("pdf date out of range: %q", raw)
	}

	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	return t.Format(time.RFC3339), nil
}

// Standard page dimensions in points, portrait orientation.
var pageFormats = []struct {
	name          string
	width, height float64
}{
	{"Letter", 612, 792},
	{"Legal", 612, 1008},
	{"A4", 595, 842},
	{"A3", 842, 1191},
	{"A5", 420, 595},
}

const formatTolerance = 10.0

// PageFormatName matches page dimensions against standard formats within a
// ten point tolerance, in either orientation. Unmatched sizes report the
// raw dimensions.
func PageFormatName(width, height float64) string {
	for _, f := range pageFormats {
		if near(width, f.width) && near(height, f.height) {
			return f.name
		}
		if near(width, f.height) && near(height, f.width) {
			return f.name + " (landscape)"
		}
	}
	return fmt.Sprintf("custom (%.0fx%.0f)", width, height)
}

func near(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= formatTolerance
}
