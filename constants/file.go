package constants

import "strings"

// MIMEPDF is the informational MIME type accepted by the pipeline; strategy
// choice is content-driven, not MIME-driven.
const MIMEPDF = "application/pdf"

// Document metadata defaults. Parsing never fails because a classification
// hint is missing; these fill the gaps.
const (
	DefaultLanguage     = "en"
	DefaultSubject      = "general"
	DefaultDocumentType = "mixed"
)

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
