// Package assemble builds the final document from the pieces the pipeline
// produced. It is the only place a schema.Document is constructed, and the
// only place metadata precedence (request option over embedded value over
// default) is applied.
package assemble

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/studykit/pdfparse/constants"
	"github.com/studykit/pdfparse/internal/extract/meta"
	"github.com/studykit/pdfparse/internal/schema"
)

// Overrides are caller-supplied metadata values that win over anything
// embedded in the document.
type Overrides struct {
	Title         string
	Author        string
	Subject       string
	Language      string
	DocumentType  string
	AcademicLevel string
}

// Input is everything the assembler needs to build a document.
type Input struct {
	FileName       string
	Result         schema.Result
	Fingerprint    schema.Fingerprint
	Meta           meta.Fields
	Overrides      Overrides
	OCREnabled     bool
	EnrichContent  bool
	Warnings       []string
	ProcessingTime time.Duration
	ParserVersion  string
}

// Assembler builds documents. Enrichment is best effort: its failure can
// add a warning but never invalidates the document.
type Assembler struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{logger: logger}
}

// Build assembles the immutable output document.
func (a *Assembler) Build(in Input) schema.Document {
	warnings := append([]string{}, in.Warnings...)
	if in.Fingerprint.IsScanned && !in.OCREnabled {
		warnings = append(warnings, "Document appears to be scanned but OCR was not enabled")
	}
	if in.Result.TotalWordCount < constants.LowWordCountWarning {
		warnings = append(warnings, "Very little text extracted, document may be image-based or corrupted")
	}

	doc := schema.Document{
		DocumentID: uuid.New().String(),
		FileName:   in.FileName,
		MIMEType:   constants.MIMEPDF,
		Format:     "pdf",
		Version:    "1.0",
		Pages:      in.Result.Pages,
		FullText:   in.Result.FullText,
		Metadata:   a.buildMetadata(in),
		ProcessingInfo: schema.ProcessingInfo{
			ParsedAt:         time.Now().UTC().Format(time.RFC3339),
			ParserVersion:    in.ParserVersion,
			ExtractionMethod: in.Result.ExtractionMethod,
			ProcessingTimeMS: in.ProcessingTime.Milliseconds(),
			Warnings:         warnings,
		},
	}

	if in.EnrichContent {
		doc.StudyContent = a.buildStudyContent(in, doc.Metadata.Language)
	}
	return doc
}

func (a *Assembler) buildMetadata(in Input) schema.Metadata {
	m := schema.Metadata{
		Title:            firstNonEmpty(in.Overrides.Title, in.Meta.Title),
		Author:           firstNonEmpty(in.Overrides.Author, in.Meta.Author),
		Subject:          firstNonEmpty(in.Overrides.Subject, in.Meta.Subject, constants.DefaultSubject),
		Keywords:         in.Meta.Keywords,
		Creator:          in.Meta.Creator,
		Producer:         in.Meta.Producer,
		CreationDate:     in.Meta.CreationDate,
		ModificationDate: in.Meta.ModificationDate,
		Language:         firstNonEmpty(in.Overrides.Language, constants.DefaultLanguage),
		TotalPages:       in.Fingerprint.TotalPages,
		TotalWordCount:   in.Result.TotalWordCount,
		DocumentType:     firstNonEmpty(in.Overrides.DocumentType, constants.DefaultDocumentType),
		AcademicLevel:    in.Overrides.AcademicLevel,
		PageFormat:       in.Meta.PageFormat,
		HasOutline:       in.Meta.HasOutline,
		OutlineDepth:     in.Meta.OutlineDepth,
		HasForms:         in.Meta.HasForms,
		HasAnnotations:   in.Meta.HasAnnotations,
	}
	if m.Keywords == nil {
		m.Keywords = []string{}
	}
	m.EstimatedTotalReadingTime = in.Result.TotalWordCount / constants.ReadingTimeWPM
	return m
}

func (a *Assembler) buildStudyContent(in Input, language string) *schema.StudyContent {
	topics := ExtractKeyTopics(in.Result.FullText, language)
	sc := &schema.StudyContent{
		Pages:         buildStudyPages(in.Result.Pages),
		KeyTopics:     topics,
		SummaryPoints: BuildSummaryPoints(in.Result, topics),
		QuestionAreas: FindQuestionAreas(in.Result.FullText),
	}
	a.logger.Debug("assemble.study_content",
		"topics", len(sc.KeyTopics),
		"summary_points", len(sc.SummaryPoints),
		"question_areas", len(sc.QuestionAreas),
	)
	return sc
}

// buildStudyPages inlines table and equation renderings into page content
// so downstream consumers get one readable stream per page.
func buildStudyPages(pages schema.Pages) []schema.StudyPage {
	out := make([]schema.StudyPage, 0, len(pages))
	for _, p := range pages {
		enhanced := p.Content
		for _, t := range p.Elements.Tables {
			enhanced += fmt.Sprintf("\n\n[Table %s]\n%s", t.ID, t.Representations.Markdown)
		}
		for _, eq := range p.Elements.Equations {
			enhanced += fmt.Sprintf("\n\n[Equation %s] %s", eq.ID, eq.LaTeX)
		}
		out = append(out, schema.StudyPage{
			PageNumber:      p.PageNumber,
			EnhancedContent: enhanced,
			Elements:        p.Elements,
		})
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
