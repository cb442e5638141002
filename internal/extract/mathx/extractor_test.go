package mathx

import (
	"strings"
	"testing"

	"github.com/studykit/pdfparse/internal/pdfio"
)

func TestIsValid(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"E = mc^2", true},
		{"x + y", true},
		{"a_1", true},
		{"", false},
		{"  ", false},
		{"==", false},        // no alphanumeric
		{"+-*/", false},      // no alphanumeric
		{"ab", false},        // too short
		{"hello", false},     // no operator
		{"x=", false},        // length 2 after trim
		{"π r^2", true},      // math glyph counts as operator context
		{"\t\n   \t", false}, // whitespace only
	}
	for _, tc := range tests {
		if got := IsValid(tc.raw); got != tc.want {
			t.Errorf("IsValid(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestExtractFromPagePatterns(t *testing.T) {
	text := "Energy is given by $$E = mc^2$$ while momentum uses $p = mv$ in the inline form."
	got := ExtractFromPage(text, nil, 1)
	if len(got) < 2 {
		t.Fatalf("want at least 2 equations, got %d: %+v", len(got), got)
	}

	byRaw := make(map[string]string)
	for _, eq := range got {
		byRaw[eq.RawText] = eq.Type
	}
	if kind, ok := byRaw["E = mc^2"]; !ok || kind != "display" {
		t.Errorf("display equation missing or mistyped: %v", byRaw)
	}
	if kind, ok := byRaw["p = mv"]; !ok || kind != "inline" {
		t.Errorf("inline equation missing or mistyped: %v", byRaw)
	}
}

func TestExtractFromPageNeverEmitsWhitespace(t *testing.T) {
	text := "$   $ and $$\n\t$$ and a = b"
	for _, eq := range ExtractFromPage(text, nil, 1) {
		if strings.TrimSpace(eq.RawText) == "" {
			t.Errorf("whitespace-only equation emitted: %+v", eq)
		}
	}
}

func TestExtractFromPageDedupes(t *testing.T) {
	text := "$x = y$ again $x = y$"
	got := ExtractFromPage(text, nil, 1)
	count := 0
	for _, eq := range got {
		if eq.RawText == "x = y" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("duplicate raw text not collapsed: %d occurrences", count)
	}
}

func TestExtractFromPageStructuralFallback(t *testing.T) {
	words := []pdfio.Word{
		{S: "The", Font: "Times-Roman"},
		{S: "x+1", Font: "CMMI10"},
		{S: "formula", Font: "Times-Roman"},
	}
	got := ExtractFromPage("plain prose with no delimiters", words, 2)
	if len(got) != 1 {
		t.Fatalf("want 1 structural equation, got %d: %+v", len(got), got)
	}
	if got[0].Type != "structural" {
		t.Errorf("type = %s, want structural", got[0].Type)
	}
	if got[0].RawText != "x+1" {
		t.Errorf("rawText = %q, want x+1", got[0].RawText)
	}
}

func TestContainsMath(t *testing.T) {
	if !ContainsMath("the sum ∑ converges") {
		t.Error("glyph text should contain math")
	}
	if !ContainsMath("we know $a + b$ holds") {
		t.Error("delimited text should contain math")
	}
	if !ContainsMath("suppose x = 5 in this case") {
		t.Error("simple assignment should contain math")
	}
	if !ContainsMath("compute 12 + 7 = 19") {
		t.Error("arithmetic should contain math")
	}
	if !ContainsMath("النتيجة ٣ + ٤ تساوي") {
		t.Error("Arabic-numeral arithmetic should contain math")
	}
	if ContainsMath("ordinary prose about cats") {
		t.Error("prose should not contain math")
	}
}

func TestToLaTeX(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"a × b", `$a \times b$`},
		{"x_2 + y^2", `$x_{2} + y^{2}$`},
		{"a/b", `$\frac{a}{b}$`},
		{"$E = mc^2$", `$E = mc^{2}$`},
	}
	for _, tc := range tests {
		if got := ToLaTeX(tc.raw); got != tc.want {
			t.Errorf("ToLaTeX(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestToLaTeXDisplayForLong(t *testing.T) {
	raw := "alpha + beta + gamma + delta + epsilon + zeta + eta + theta = total"
	got := ToLaTeX(raw)
	if !strings.HasPrefix(got, "$$") || !strings.HasSuffix(got, "$$") {
		t.Errorf("long equation should use display delimiters: %q", got)
	}
}
