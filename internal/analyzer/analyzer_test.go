package analyzer

import (
	"strings"
	"testing"

	"github.com/studykit/pdfparse/constants"
	"github.com/studykit/pdfparse/internal/pdfio"
	"github.com/studykit/pdfparse/internal/schema"
)

type fakeDoc struct {
	pages  int
	text   map[int]string
	words  map[int][]pdfio.Word
	fonts  map[int][]string
	images map[int][]pdfio.ImageInfo
	forms  bool
}

func (f *fakeDoc) Path() string   { return "/nonexistent/fixture.pdf" }
func (f *fakeDoc) PageCount() int { return f.pages }
func (f *fakeDoc) PageText(n int) (string, error) {
	return f.text[n], nil
}
func (f *fakeDoc) PageWords(n int) ([]pdfio.Word, error) { return f.words[n], nil }
func (f *fakeDoc) PageFonts(n int) []string              { return f.fonts[n] }
func (f *fakeDoc) PageDims(n int) (float64, float64)     { return 595, 842 }
func (f *fakeDoc) PageHasAnnotations(n int) bool         { return false }
func (f *fakeDoc) PageImages(n int) []pdfio.ImageInfo    { return f.images[n] }
func (f *fakeDoc) HasForms() bool                        { return f.forms }

func TestSamplePages(t *testing.T) {
	t.Run("small documents use every page", func(t *testing.T) {
		got := SamplePages(15)
		if len(got) != 15 || got[0] != 1 || got[14] != 15 {
			t.Fatalf("unexpected sample: %v", got)
		}
	})

	t.Run("boundary document uses every page", func(t *testing.T) {
		if got := SamplePages(constants.SampleAllPagesMax); len(got) != constants.SampleAllPagesMax {
			t.Fatalf("boundary sample = %d pages", len(got))
		}
	})

	t.Run("large documents sample head middle tail", func(t *testing.T) {
		got := SamplePages(100)
		if len(got) >= 100 {
			t.Fatalf("100-page document should be sampled, got %d pages", len(got))
		}
		has := func(p int) bool {
			for _, g := range got {
				if g == p {
					return true
				}
			}
			return false
		}
		for p := 1; p <= 10; p++ {
			if !has(p) {
				t.Errorf("first pages missing %d: %v", p, got)
			}
		}
		if !has(50) {
			t.Errorf("middle page missing: %v", got)
		}
		if !has(100) {
			t.Errorf("last page missing: %v", got)
		}
		for i := 1; i < len(got); i++ {
			if got[i] <= got[i-1] {
				t.Fatalf("sample not sorted unique: %v", got)
			}
		}
	})

	t.Run("empty document", func(t *testing.T) {
		if got := SamplePages(0); got != nil {
			t.Errorf("want nil, got %v", got)
		}
	})
}

func TestAnalyzeScannedClassification(t *testing.T) {
	longText := strings.Repeat("word ", 600) // ~3000 chars

	t.Run("low text low average is scanned", func(t *testing.T) {
		doc := &fakeDoc{pages: 10, text: map[int]string{1: "tiny"}}
		fp := New(nil).Analyze(doc)
		if !fp.IsScanned {
			t.Errorf("fingerprint should be scanned: density=%v avg=%v", fp.TextDensity, fp.AvgTextPerPage)
		}
		if fp.Recommended != constants.StrategyOCRHeavy {
			t.Errorf("recommended = %s, want ocr_heavy", fp.Recommended)
		}
	})

	t.Run("dense text is not scanned", func(t *testing.T) {
		text := make(map[int]string)
		for n := 1; n <= 10; n++ {
			text[n] = longText
		}
		doc := &fakeDoc{pages: 10, text: text}
		fp := New(nil).Analyze(doc)
		if fp.IsScanned {
			t.Errorf("dense document misclassified as scanned: density=%v avg=%v", fp.TextDensity, fp.AvgTextPerPage)
		}
		if fp.Recommended != constants.StrategyTextFocus {
			t.Errorf("recommended = %s, want text_focus", fp.Recommended)
		}
	})
}

func TestAnalyzeDetectsEquations(t *testing.T) {
	filler := strings.Repeat("filler words here and there everywhere now ", 5)

	t.Run("delimited math", func(t *testing.T) {
		doc := &fakeDoc{
			pages: 2,
			text: map[int]string{
				1: strings.Repeat("plain prose without operators at all here ", 5),
				2: filler + " and $$E = mc^2$$",
			},
		}
		fp := New(nil).Analyze(doc)
		if !fp.HasEquations {
			t.Fatal("equation page not detected")
		}
		if fp.Recommended != constants.StrategyMathFocus {
			t.Errorf("recommended = %s, want math_focus", fp.Recommended)
		}
	})

	t.Run("simple assignment", func(t *testing.T) {
		doc := &fakeDoc{
			pages: 1,
			text:  map[int]string{1: filler + " suppose x = 5 throughout"},
		}
		if fp := New(nil).Analyze(doc); !fp.HasEquations {
			t.Error("simple assignment not detected")
		}
	})

	t.Run("math fonts", func(t *testing.T) {
		doc := &fakeDoc{
			pages: 2,
			text: map[int]string{
				1: filler,
				2: filler, // no math in any text
			},
			fonts: map[int][]string{1: {"CMMI10"}},
		}
		if fp := New(nil).Analyze(doc); !fp.HasEquations {
			t.Error("math font on a sampled page not detected")
		}
	})
}

func TestProbeTablesUsesSampledPages(t *testing.T) {
	grid := []pdfio.Word{
		{X: 72, Y: 700, W: 40, S: "Name"},
		{X: 300, Y: 700, W: 30, S: "Age"},
		{X: 72, Y: 680, W: 30, S: "Ann"},
		{X: 300, Y: 680, W: 20, S: "30"},
	}
	text := make(map[int]string)
	longText := strings.Repeat("word ", 600)
	for n := 1; n <= 100; n++ {
		text[n] = longText
	}
	// The only table sits on the middle sample page, outside pages 1..20.
	doc := &fakeDoc{pages: 100, text: text, words: map[int][]pdfio.Word{50: grid}}

	fp := New(nil).Analyze(doc)
	if fp.TableDensity == 0 {
		t.Fatal("table on a sampled middle page not counted")
	}
	if !fp.HasTables {
		t.Error("hasTables flag not set")
	}
}

func TestAnalyzeEmptyDocument(t *testing.T) {
	fp := New(nil).Analyze(&fakeDoc{pages: 0})
	if fp.TotalPages != 0 || fp.Recommended != constants.StrategyTextFocus {
		t.Errorf("empty document fingerprint: %+v", fp)
	}
}

func TestSelectStrategy(t *testing.T) {
	tests := []struct {
		name     string
		fp       schema.Fingerprint
		override string
		want     constants.Strategy
		warns    int
	}{
		{"scanned wins", schema.Fingerprint{IsScanned: true, HasEquations: true}, "", constants.StrategyOCRHeavy, 0},
		{"equations before tables", schema.Fingerprint{HasEquations: true, TableDensity: 0.9}, "", constants.StrategyMathFocus, 0},
		{"table density", schema.Fingerprint{TableDensity: 0.4}, "", constants.StrategyTableFocus, 0},
		{"image heavy low text", schema.Fingerprint{ImageDensity: 0.6, TextDensity: 0.3}, "", constants.StrategyHybrid, 0},
		{"text heavy", schema.Fingerprint{TextDensity: 0.8}, "", constants.StrategyTextFocus, 0},
		{"default hybrid", schema.Fingerprint{TextDensity: 0.6}, "", constants.StrategyHybrid, 0},
		{"known override wins", schema.Fingerprint{IsScanned: true}, "table_focus", constants.StrategyTableFocus, 0},
		{"unknown override falls back", schema.Fingerprint{TextDensity: 0.9}, "turbo", constants.StrategyTextFocus, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, warns := SelectStrategy(tc.fp, tc.override)
			if got != tc.want {
				t.Errorf("strategy = %s, want %s", got, tc.want)
			}
			if len(warns) != tc.warns {
				t.Errorf("warnings = %v, want %d", warns, tc.warns)
			}
		})
	}
}

func TestSelectStrategyDeterministic(t *testing.T) {
	fp := schema.Fingerprint{TextDensity: 0.75, TableDensity: 0.2}
	first, _ := SelectStrategy(fp, "")
	for i := 0; i < 10; i++ {
		if got, _ := SelectStrategy(fp, ""); got != first {
			t.Fatalf("selection changed between calls: %s vs %s", got, first)
		}
	}
}

func TestExtrapolateCount(t *testing.T) {
	if got := ExtrapolateCount(3, 20, 100); got != 15 {
		t.Errorf("ExtrapolateCount(3, 20, 100) = %d, want 15", got)
	}
	if got := ExtrapolateCount(5, 0, 100); got != 0 {
		t.Errorf("zero sample should extrapolate to 0, got %d", got)
	}
}
