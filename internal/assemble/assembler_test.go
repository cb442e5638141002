package assemble

import (
	"strings"
	"testing"
	"time"

	"github.com/studykit/pdfparse/internal/extract/meta"
	"github.com/studykit/pdfparse/internal/schema"
)

func sampleResult(words string) schema.Result {
	fields := len(strings.Fields(words))
	return schema.Result{
		Pages: schema.Pages{{
			PageNumber: 1,
			Content:    words,
			Metadata:   schema.PageMetadata{WordCount: fields},
		}},
		FullText:         words,
		TotalWordCount:   fields,
		ExtractionMethod: "text_focus",
	}
}

func TestBuildMetadataPrecedence(t *testing.T) {
	in := Input{
		FileName: "doc.pdf",
		Result:   sampleResult(strings.Repeat("word ", 200)),
		Meta: meta.Fields{
			Title:   "Embedded Title",
			Author:  "Embedded Author",
			Subject: "Embedded Subject",
		},
		Overrides: Overrides{
			Title:    "Override Title",
			Language: "de",
		},
		ParserVersion: "1.0.0",
	}
	doc := New(nil).Build(in)

	if doc.Metadata.Title != "Override Title" {
		t.Errorf("title = %q, option must win over embedded", doc.Metadata.Title)
	}
	if doc.Metadata.Author != "Embedded Author" {
		t.Errorf("author = %q, embedded must win over default", doc.Metadata.Author)
	}
	if doc.Metadata.Subject != "Embedded Subject" {
		t.Errorf("subject = %q", doc.Metadata.Subject)
	}
	if doc.Metadata.Language != "de" {
		t.Errorf("language = %q", doc.Metadata.Language)
	}
	if doc.Metadata.DocumentType != "mixed" {
		t.Errorf("documentType default = %q, want mixed", doc.Metadata.DocumentType)
	}
	if doc.DocumentID == "" {
		t.Error("documentId missing")
	}
	if doc.Metadata.EstimatedTotalReadingTime != 1 {
		t.Errorf("readingTime = %d, want 1", doc.Metadata.EstimatedTotalReadingTime)
	}
}

func TestBuildDefaults(t *testing.T) {
	doc := New(nil).Build(Input{
		FileName: "doc.pdf",
		Result:   sampleResult(strings.Repeat("word ", 200)),
	})
	if doc.Metadata.Language != "en" || doc.Metadata.Subject != "general" || doc.Metadata.DocumentType != "mixed" {
		t.Errorf("defaults not applied: %+v", doc.Metadata)
	}
	if doc.Metadata.Keywords == nil {
		t.Error("keywords must be an empty list, not null")
	}
}

func TestBuildWarnings(t *testing.T) {
	t.Run("scanned without ocr", func(t *testing.T) {
		doc := New(nil).Build(Input{
			Result:      sampleResult(strings.Repeat("word ", 200)),
			Fingerprint: schema.Fingerprint{IsScanned: true},
			OCREnabled:  false,
		})
		if !hasWarning(doc, "scanned but OCR was not enabled") {
			t.Errorf("missing scanned warning: %v", doc.ProcessingInfo.Warnings)
		}
	})

	t.Run("scanned with ocr", func(t *testing.T) {
		doc := New(nil).Build(Input{
			Result:      sampleResult(strings.Repeat("word ", 200)),
			Fingerprint: schema.Fingerprint{IsScanned: true},
			OCREnabled:  true,
		})
		if hasWarning(doc, "scanned but OCR was not enabled") {
			t.Errorf("unexpected scanned warning: %v", doc.ProcessingInfo.Warnings)
		}
	})

	t.Run("little text", func(t *testing.T) {
		doc := New(nil).Build(Input{Result: sampleResult("only five words right here")})
		if !hasWarning(doc, "Very little text") {
			t.Errorf("missing low-text warning: %v", doc.ProcessingInfo.Warnings)
		}
	})
}

func TestBuildCarriesProcessingInfo(t *testing.T) {
	doc := New(nil).Build(Input{
		Result:         sampleResult(strings.Repeat("word ", 200)),
		Warnings:       []string{"upstream warning"},
		ProcessingTime: 1500 * time.Millisecond,
		ParserVersion:  "1.0.0",
	})
	if doc.ProcessingInfo.ProcessingTimeMS != 1500 {
		t.Errorf("processingTime = %d", doc.ProcessingInfo.ProcessingTimeMS)
	}
	if doc.ProcessingInfo.ParserVersion != "1.0.0" {
		t.Errorf("parserVersion = %q", doc.ProcessingInfo.ParserVersion)
	}
	if !hasWarning(doc, "upstream warning") {
		t.Errorf("upstream warning dropped: %v", doc.ProcessingInfo.Warnings)
	}
	if doc.ProcessingInfo.ExtractionMethod != "text_focus" {
		t.Errorf("extractionMethod = %q", doc.ProcessingInfo.ExtractionMethod)
	}
}

func TestBuildStudyContent(t *testing.T) {
	text := "Thermodynamics studies heat transfer. Heat transfer governs engines. " +
		"Thermodynamics relies on heat transfer laws. In conclusion, heat transfer matters."
	result := sampleResult(text)
	result.Pages[0].Elements.Tables = []schema.Table{{
		ID:              "page1_table0",
		PageNumber:      1,
		Representations: schema.TableRepresentations{Markdown: "| a | b |"},
	}}
	result.TotalTables = 1

	doc := New(nil).Build(Input{Result: result, EnrichContent: true})
	if doc.StudyContent == nil {
		t.Fatal("studyContent missing")
	}
	if len(doc.StudyContent.KeyTopics) == 0 {
		t.Error("no key topics extracted")
	}
	if len(doc.StudyContent.SummaryPoints) == 0 {
		t.Error("no summary points built")
	}
	if len(doc.StudyContent.Pages) != 1 {
		t.Fatalf("study pages = %d", len(doc.StudyContent.Pages))
	}
	if !strings.Contains(doc.StudyContent.Pages[0].EnhancedContent, "| a | b |") {
		t.Error("table markdown not inlined into enhanced content")
	}
}

func TestFindQuestionAreas(t *testing.T) {
	text := "Entropy is a measure of disorder in closed systems. " +
		"Consider the difference between heat and work in engines. " +
		"The process of adiabatic expansion cools the gas."
	areas := FindQuestionAreas(text)

	types := make(map[string]int)
	for _, a := range areas {
		types[a.Type]++
	}
	if types["definition"] != 1 || types["comparison"] != 1 || types["process"] != 1 {
		t.Fatalf("question types = %v", types)
	}
	for _, a := range areas {
		if a.Term == "" || a.Hint == "" {
			t.Errorf("incomplete area: %+v", a)
		}
		if a.Type == "definition" && a.Definition == "" {
			t.Errorf("definition area without definition: %+v", a)
		}
	}
}

func TestBuildWithoutEnrichment(t *testing.T) {
	doc := New(nil).Build(Input{Result: sampleResult(strings.Repeat("word ", 200))})
	if doc.StudyContent != nil {
		t.Error("studyContent should be absent unless requested")
	}
}

func hasWarning(doc schema.Document, fragment string) bool {
	for _, w := range doc.ProcessingInfo.Warnings {
		if strings.Contains(w, fragment) {
			return true
		}
	}
	return false
}
