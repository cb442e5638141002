// Package schema defines the canonical document shapes produced by the
// extraction pipeline. The orchestrator builds Result values; the assembler
// is the only place a Document is constructed.
package schema

import "github.com/studykit/pdfparse/constants"

// Fingerprint is the structural summary of a document, computed once per
// request from a page sample and immutable afterwards.
type Fingerprint struct {
	TotalPages     int
	HasText        bool
	HasImages      bool
	HasTables      bool
	HasForms       bool
	IsScanned      bool
	HasAnnotations bool
	TextDensity    float64
	ImageDensity   float64
	TableDensity   float64
	AvgTextPerPage int
	FontsUsed      []string
	PageSizes      [][2]float64
	HasEquations   bool
	HasDiagrams    bool
	Recommended    constants.Strategy
	ContentHash    string
}

// PageMetadata carries per-page counters.
type PageMetadata struct {
	WordCount            int     `json:"wordCount"`
	CharacterCount       int     `json:"characterCount"`
	ParagraphCount       int     `json:"paragraphCount,omitempty"`
	TextDensity          float64 `json:"textDensity,omitempty"`
	HasImages            bool    `json:"hasImages"`
	HasTables            bool    `json:"hasTables"`
	HasEquations         bool    `json:"hasEquations,omitempty"`
	OCRApplied           bool    `json:"ocrApplied,omitempty"`
	OCRMethod            string  `json:"ocrMethod,omitempty"`
	EstimatedReadingTime int     `json:"estimatedReadingTime"`
}

// Elements is the open map of optional per-page content lists.
type Elements struct {
	Headings  []string       `json:"headings,omitempty"`
	Images    []ImageElement `json:"images,omitempty"`
	Tables    []Table        `json:"tables,omitempty"`
	Equations []Equation     `json:"equations,omitempty"`
}

// Page is one extracted page. PageNumber values are contiguous from 1.
type Page struct {
	PageNumber int          `json:"pageNumber"`
	Content    string       `json:"content"`
	Metadata   PageMetadata `json:"metadata"`
	Elements   Elements     `json:"elements"`
}

// Result is the uniform output of every extraction strategy.
type Result struct {
	Pages            Pages  `json:"pages"`
	FullText         string `json:"fullText"`
	TotalWordCount   int    `json:"totalWordCount"`
	TotalTables      int    `json:"totalTables,omitempty"`
	TotalEquations   int    `json:"totalEquations,omitempty"`
	ExtractionMethod string `json:"extractionMethod"`
}

// Pages is an ordered page list.
type Pages []Page

// ImageElement describes one embedded image on a page.
type ImageElement struct {
	ID         string `json:"id"`
	PageNumber int    `json:"pageNumber"`
	Format     string `json:"format"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Size       int64  `json:"size"`
}

// TableRepresentations are three renderings of the same headers/rows; they
// can never disagree because they are derived from identical data.
type TableRepresentations struct {
	Markdown string `json:"markdown"`
	CSV      string `json:"csv"`
	HTML     string `json:"html"`
}

// TableAnalysis records per-column inferred types.
type TableAnalysis struct {
	DataTypes  []string `json:"dataTypes"`
	HasNumeric bool     `json:"hasNumeric"`
	RowCount   int      `json:"rowCount"`
	ColCount   int      `json:"colCount"`
}

// Table is one extracted table.
type Table struct {
	ID              string               `json:"id"`
	PageNumber      int                  `json:"pageNumber"`
	Headers         []string             `json:"headers"`
	Rows            [][]string           `json:"rows"`
	NumRows         int                  `json:"numRows"`
	NumCols         int                  `json:"numCols"`
	Representations TableRepresentations `json:"representations"`
	Analysis        TableAnalysis        `json:"analysis"`
}

// Equation is one extracted equation. Raw text always satisfies the
// validity predicate (at least one operator and one alphanumeric).
type Equation struct {
	ID         string `json:"id"`
	PageNumber int    `json:"pageNumber"`
	Type       string `json:"type"` // display | inline | simple | structural
	RawText    string `json:"rawText"`
	LaTeX      string `json:"latex"`
	MathML     string `json:"mathml,omitempty"`
}

// Metadata is the resolved document metadata. Language, subject and
// document type are always present, defaulted when absent from input.
type Metadata struct {
	Title                     string   `json:"title,omitempty"`
	Author                    string   `json:"author,omitempty"`
	Subject                   string   `json:"subject"`
	Keywords                  []string `json:"keywords"`
	Creator                   string   `json:"creator,omitempty"`
	Producer                  string   `json:"producer,omitempty"`
	CreationDate              string   `json:"creationDate,omitempty"`
	ModificationDate          string   `json:"modificationDate,omitempty"`
	Language                  string   `json:"language"`
	TotalPages                int      `json:"totalPages"`
	TotalWordCount            int      `json:"totalWordCount"`
	EstimatedTotalReadingTime int      `json:"estimatedTotalReadingTime"`
	DocumentType              string   `json:"documentType"`
	AcademicLevel             string   `json:"academicLevel,omitempty"`
	PageFormat                string   `json:"pageFormat,omitempty"`
	HasOutline                bool     `json:"hasOutline,omitempty"`
	OutlineDepth              int      `json:"outlineDepth,omitempty"`
	HasForms                  bool     `json:"hasForms,omitempty"`
	HasAnnotations            bool     `json:"hasAnnotations,omitempty"`
}

// ProcessingInfo records how the document was parsed.
type ProcessingInfo struct {
	ParsedAt         string   `json:"parsedAt"`
	ParserVersion    string   `json:"parserVersion"`
	ExtractionMethod string   `json:"extractionMethod"`
	ProcessingTimeMS int64    `json:"processingTime"`
	Warnings         []string `json:"warnings"`
	Cached           bool     `json:"cached"`
}

// StudyContent is optional best-effort enrichment; its absence never
// invalidates the document.
type StudyContent struct {
	Pages         []StudyPage    `json:"pages"`
	KeyTopics     []string       `json:"keyTopics"`
	SummaryPoints []string       `json:"summaryPoints"`
	QuestionAreas []QuestionArea `json:"questionAreas"`
}

// StudyPage is a page with inline element annotations.
type StudyPage struct {
	PageNumber      int      `json:"pageNumber"`
	EnhancedContent string   `json:"enhancedContent"`
	Elements        Elements `json:"elements"`
}

// QuestionArea marks a span of content suitable for quiz generation.
type QuestionArea struct {
	Type       string `json:"type"`
	Term       string `json:"term,omitempty"`
	Definition string `json:"definition,omitempty"`
	Hint       string `json:"hint,omitempty"`
}

// Document is the immutable final output returned to the caller.
type Document struct {
	DocumentID     string         `json:"documentId"`
	FileName       string         `json:"fileName"`
	MIMEType       string         `json:"mimeType"`
	Format         string         `json:"format"`
	Version        string         `json:"version"`
	Pages          Pages          `json:"pages"`
	FullText       string         `json:"fullText"`
	Metadata       Metadata       `json:"metadata"`
	ProcessingInfo ProcessingInfo `json:"processingInfo"`
	StudyContent   *StudyContent  `json:"studyContent,omitempty"`
}
