package assemble

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/studykit/pdfparse/internal/schema"
)

const (
	maxSummaryPoints  = 10
	maxQuestionAreas  = 10
	introPagesScanned = 5
	tailPagesScanned  = 3
)

var conclusionMarkers = []string{"in conclusion", "in summary", "to summarize", "therefore", "overall"}

// definitionRe matches "Term is/are a ..." sentences used for quiz seeds.
var definitionRe = regexp.MustCompile(`(?m)([A-Z][A-Za-z -]{2,40})\s+(?:is|are)\s+(?:a|an|the)\s+([^.!?\n]{10,160})`)

var comparisonRe = regexp.MustCompile(`(?i)\b(?:difference between|compared (?:to|with)|in contrast to|versus)\s+([^.!?\n]{5,120})`)

var processRe = regexp.MustCompile(`(?i)\b(?:process of|procedure for|steps? (?:of|to|for)|method of)\s+([^.!?\n]{5,120})`)

// BuildSummaryPoints selects sentences that mention key topics from the
// opening pages, adds structural facts, and closes with any conclusion
// sentences found near the end. Capped at ten points.
func BuildSummaryPoints(result schema.Result, topics []string) []string {
	points := make([]string, 0, maxSummaryPoints)
	seen := make(map[string]struct{})
	add := func(p string) {
		p = strings.TrimSpace(p)
		if p == "" || len(points) >= maxSummaryPoints {
			return
		}
		if _, dup := seen[p]; dup {
			return
		}
		seen[p] = struct{}{}
		points = append(points, p)
	}

	intro := result.Pages
	if len(intro) > introPagesScanned {
		intro = intro[:introPagesScanned]
	}
	for _, page := range intro {
		for _, sentence := range splitSentences(page.Content) {
			if mentionsAny(sentence, topics) {
				add(sentence)
			}
		}
	}

	if result.TotalTables > 0 || result.TotalEquations > 0 {
		add(fmt.Sprintf("Document contains %d tables and %d equations", result.TotalTables, result.TotalEquations))
	}

	tail := result.Pages
	if len(tail) > tailPagesScanned {
		tail = tail[len(tail)-tailPagesScanned:]
	}
	for _, page := range tail {
		for _, sentence := range splitSentences(page.Content) {
			lower := strings.ToLower(sentence)
			for _, marker := range conclusionMarkers {
				if strings.Contains(lower, marker) {
					add(sentence)
					break
				}
			}
		}
	}
	return points
}

// FindQuestionAreas extracts quiz seeds: definition-shaped sentences, plus
// comparison and process phrases.
func FindQuestionAreas(fullText string) []schema.QuestionArea {
	var areas []schema.QuestionArea
	add := func(a schema.QuestionArea) bool {
		if len(areas) >= maxQuestionAreas {
			return false
		}
		areas = append(areas, a)
		return true
	}

	for _, m := range definitionRe.FindAllStringSubmatch(fullText, -1) {
		term := strings.TrimSpace(m[1])
		if !add(schema.QuestionArea{
			Type:       "definition",
			Term:       term,
			Definition: strings.TrimSpace(m[2]),
			Hint:       fmt.Sprintf("What is %s?", term),
		}) {
			return areas
		}
	}
	for _, m := range comparisonRe.FindAllStringSubmatch(fullText, -1) {
		term := strings.TrimSpace(m[1])
		if !add(schema.QuestionArea{
			Type: "comparison",
			Term: term,
			Hint: fmt.Sprintf("How does %s differ?", term),
		}) {
			return areas
		}
	}
	for _, m := range processRe.FindAllStringSubmatch(fullText, -1) {
		term := strings.TrimSpace(m[1])
		if !add(schema.QuestionArea{
			Type: "process",
			Term: term,
			Hint: fmt.Sprintf("Describe the steps of %s", term),
		}) {
			return areas
		}
	}
	return areas
}

var sentenceSplit = regexp.MustCompile(`[.!?]+\s+`)

func splitSentences(text string) []string {
	parts := sentenceSplit.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if len(strings.Fields(p)) >= 4 {
			out = append(out, p)
		}
	}
	return out
}

func mentionsAny(sentence string, topics []string) bool {
	lower := strings.ToLower(sentence)
	for _, t := range topics {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}
