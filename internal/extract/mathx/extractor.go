// Package mathx finds equations in page text, normalizes them to LaTeX and
// renders MathML for the ones that convert cleanly.
package mathx

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"github.com/studykit/pdfparse/internal/pdfio"
	"github.com/studykit/pdfparse/internal/schema"
)

// Delimiter patterns, checked in order. Display forms before inline forms so
// $$..$$ is never consumed as two inline hits.
var equationPatterns = []struct {
	kind string
	re   *regexp.Regexp
}{
	{"display", regexp.MustCompile(`(?s)\$\$(.+?)\$\$`)},
	{"display", regexp.MustCompile(`(?s)\\begin\{equation\}(.*?)\\end\{equation\}`)},
	{"display", regexp.MustCompile(`(?s)\\\[(.*?)\\\]`)},
	{"inline", regexp.MustCompile(`\$([^$\n]+?)\$`)},
	{"inline", regexp.MustCompile(`\\\((.*?)\\\)`)},
	{"simple", regexp.MustCompile(`([a-zA-Z_]\w*\s*=\s*[^.,;\n]+)`)},
}

// mathGlyphs are symbols that rarely appear outside mathematical content.
const mathGlyphs = "∑∫∮∂∇√∞≈≠≡≤≥≪≫±∓×÷∈∉⊂⊃∪∩∧∨¬∀∃→↔⇒⇔αβγδεζηθικλμνξπρστυφχψωΓΔΘΛΞΠΣΦΨΩ"

// mathFontPrefixes mark fonts used by TeX and friends for formulas.
var mathFontPrefixes = []string{"cmmi", "cmsy", "cmex", "msam", "msbm", "math", "symbol", "stix"}

// PageSource yields text and positioned words for equation extraction.
type PageSource interface {
	PageCount() int
	PageText(n int) (string, error)
	PageWords(n int) ([]pdfio.Word, error)
}

// mathProbePatterns back the cheap ContainsMath probe. Broader than the
// extraction patterns: simple assignments, plain arithmetic and
// Arabic-numeral arithmetic all count as math content here.
var mathProbePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b[a-z]\s*=\s*\d+`),      // x = 5
	regexp.MustCompile(`\d+\s*[+\-*/]\s*\d+\s*=`), // 2 + 2 =
	regexp.MustCompile(`\\[a-z]+\{`),              // LaTeX commands
	regexp.MustCompile(`\$.*\$`),                  // delimited math
	regexp.MustCompile(`[\x{0660}-\x{0669}]+\s*[+\-*/]\s*[\x{0660}-\x{0669}]+`), // Arabic-Indic numerals
	regexp.MustCompile(`[\x{06F0}-\x{06F9}]+\s*[+\-*/]\s*[\x{06F0}-\x{06F9}]+`), // extended Arabic-Indic
}

// ContainsMath is the cheap probe used by the characteristics analyzer. It
// looks for math glyphs, delimiters, assignments and arithmetic.
func ContainsMath(text string) bool {
	if strings.ContainsAny(text, mathGlyphs) {
		return true
	}
	for _, re := range mathProbePatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// IsValid reports whether raw looks like an equation rather than prose: it
// must be longer than two characters and contain at least one operator and
// at least one alphanumeric character.
func IsValid(raw string) bool {
	s := strings.TrimSpace(raw)
	if len(s) <= 2 {
		return false
	}
	hasOp := strings.ContainsAny(s, "=+-*/^_") || strings.ContainsAny(s, mathGlyphs)
	if !hasOp {
		return false
	}
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// ExtractFromDocument walks every page, or the first maxPages when positive.
// Per-page failures are logged and the page is skipped.
func ExtractFromDocument(src PageSource, maxPages int, logger *slog.Logger) []schema.Equation {
	if logger == nil {
		logger = slog.Default()
	}
	limit := src.PageCount()
	if maxPages > 0 && maxPages < limit {
		limit = maxPages
	}
	var out []schema.Equation
	for n := 1; n <= limit; n++ {
		text, err := src.PageText(n)
		if err != nil {
			logger.Warn("mathx.page.skipped", "page", n, "error", err)
			continue
		}
		words, _ := src.PageWords(n)
		out = append(out, ExtractFromPage(text, words, n)...)
	}
	return out
}

// ExtractFromPage extracts equations from one page. Pattern hits are tried
// first; when none validate, fonts are inspected for a structural fallback.
// Raw text is deduplicated within the page.
func ExtractFromPage(text string, words []pdfio.Word, pageNum int) []schema.Equation {
	seen := make(map[string]struct{})
	var out []schema.Equation

	add := func(kind, raw string) {
		raw = strings.TrimSpace(raw)
		if !IsValid(raw) {
			return
		}
		if _, dup := seen[raw]; dup {
			return
		}
		seen[raw] = struct{}{}
		latex := ToLaTeX(raw)
		eq := schema.Equation{
			ID:         fmt.Sprintf("page%d_eq%d", pageNum, len(out)),
			PageNumber: pageNum,
			Type:       kind,
			RawText:    raw,
			LaTeX:      latex,
		}
		if mathml, err := ToMathML(latex); err == nil {
			eq.MathML = mathml
		}
		out = append(out, eq)
	}

	for _, p := range equationPatterns {
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			add(p.kind, m[1])
		}
	}

	if len(out) == 0 {
		for _, frag := range structuralCandidates(words) {
			add("structural", frag)
		}
	}
	return out
}

// structuralCandidates collects text runs set in math fonts. Used when no
// delimiter pattern matched, which is common for scanned-and-OCRed or
// plainly typeset formulas.
func structuralCandidates(words []pdfio.Word) []string {
	var out []string
	var run []string
	flush := func() {
		if len(run) > 0 {
			out = append(out, strings.Join(run, " "))
			run = nil
		}
	}
	for _, w := range words {
		if isMathFont(w.Font) {
			run = append(run, w.S)
			continue
		}
		flush()
	}
	flush()
	return out
}

func isMathFont(font string) bool {
	f := strings.ToLower(font)
	for _, p := range mathFontPrefixes {
		if strings.Contains(f, p) {
			return true
		}
	}
	return false
}
