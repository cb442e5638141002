package parser

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/studykit/pdfparse/internal/common"
)

// Options are the recognized per-request switches. Unknown keys in a JSON
// options document are preserved in Extra so they participate in the cache
// key without changing behavior.
type Options struct {
	Strategy         string `json:"strategy,omitempty"`
	Language         string `json:"language,omitempty"`
	Title            string `json:"title,omitempty"`
	Author           string `json:"author,omitempty"`
	Subject          string `json:"subject,omitempty"`
	DocumentType     string `json:"documentType,omitempty"`
	AcademicLevel    string `json:"academicLevel,omitempty"`
	MaxPages         int    `json:"maxPages,omitempty"`
	EnableOCR        bool   `json:"enableOcr"`
	ExtractImages    bool   `json:"extractImages"`
	ExtractEquations bool   `json:"extractEquations"`
	EnrichContent    bool   `json:"enrichContent"`

	// ExtractTables defaults to true; nil means unset.
	ExtractTables *bool `json:"extractTables,omitempty"`

	Extra map[string]any `json:"extra,omitempty"`
}

// Normalized returns the canonical form used for cache keys: identical
// requests must hash identically regardless of case in the hint fields or
// whether a defaulted field was spelled out.
func (o Options) Normalized() Options {
	n := o
	n.Strategy = strings.ToLower(strings.TrimSpace(o.Strategy))
	n.Language = strings.ToLower(strings.TrimSpace(o.Language))
	if n.ExtractTables == nil {
		t := true
		n.ExtractTables = &t
	}
	return n
}

// tablesEnabled resolves the extractTables default.
func (o Options) tablesEnabled() bool {
	return o.ExtractTables == nil || *o.ExtractTables
}

// optionsSchema validates a JSON options document before it is decoded.
const optionsSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"strategy": {"type": "string"},
		"language": {"type": "string", "maxLength": 8},
		"title": {"type": "string"},
		"author": {"type": "string"},
		"subject": {"type": "string"},
		"documentType": {"type": "string"},
		"academicLevel": {"type": "string"},
		"maxPages": {"type": "integer", "minimum": 0},
		"enableOcr": {"type": "boolean"},
		"extractTables": {"type": "boolean"},
		"extractImages": {"type": "boolean"},
		"extractEquations": {"type": "boolean"},
		"enrichContent": {"type": "boolean"},
		"extra": {"type": "object"}
	},
	"additionalProperties": false
}`

var compiledOptionsSchema = jsonschema.MustCompileString("options.json", optionsSchema)

// ValidateOptionsValue checks a decoded JSON value against the options
// schema. Callers decode with encoding/json into any first.
func ValidateOptionsValue(v any) error {
	if err := compiledOptionsSchema.Validate(v); err != nil {
		return common.NewAppError("INVALID_OPTIONS", "options document rejected by schema", err)
	}
	return nil
}

// Validate rejects impossible values early. An unknown strategy is not an
// error: the selector downgrades it to text_focus with a warning.
func (o Options) Validate() error {
	if o.Language != "" && len(o.Language) > 8 {
		return common.NewAppError("INVALID_OPTIONS", fmt.Sprintf("language tag too long: %q", o.Language), common.ErrInvalidInput)
	}
	if o.MaxPages < 0 {
		return common.NewAppError("INVALID_OPTIONS", fmt.Sprintf("maxPages must not be negative: %d", o.MaxPages), common.ErrInvalidInput)
	}
	return nil
}
