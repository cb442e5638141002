package tables

import (
	"strings"
	"testing"

	"github.com/studykit/pdfparse/internal/pdfio"
)

func TestProcessRepresentationsAgree(t *testing.T) {
	raw := [][]string{
		{"Name", "Age"},
		{"Ann", "30"},
	}
	table := Process(raw, 1, 0)
	if table == nil {
		t.Fatal("expected a table")
	}
	if len(table.Headers) != 2 || table.Headers[0] != "Name" {
		t.Fatalf("unexpected headers: %v", table.Headers)
	}
	if table.NumRows != 1 || table.NumCols != 2 {
		t.Fatalf("unexpected shape: %dx%d", table.NumRows, table.NumCols)
	}
	if !strings.Contains(table.Representations.Markdown, "| Ann | 30 |") {
		t.Errorf("markdown missing row: %q", table.Representations.Markdown)
	}
	if !strings.Contains(table.Representations.CSV, "Ann,30") {
		t.Errorf("csv missing row: %q", table.Representations.CSV)
	}
	if !strings.Contains(table.Representations.HTML, "<td>Ann</td><td>30</td>") {
		t.Errorf("html missing row: %q", table.Representations.HTML)
	}
}

func TestProcessHeaderHeuristic(t *testing.T) {
	tests := []struct {
		name       string
		raw        [][]string
		wantHeader bool
	}{
		{
			name:       "text first row is header",
			raw:        [][]string{{"Item", "Price"}, {"Pen", "2.50"}},
			wantHeader: true,
		},
		{
			name:       "all numeric first row is data",
			raw:        [][]string{{"1", "2"}, {"3", "4"}},
			wantHeader: false,
		},
		{
			name:       "mostly empty first row is data",
			raw:        [][]string{{"", "", "", "x"}, {"a", "b", "c", "d"}},
			wantHeader: false,
		},
		{
			name:       "currency and percent count as numeric",
			raw:        [][]string{{"$1,200", "45%"}, {"$900", "12%"}},
			wantHeader: false,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			table := Process(tc.raw, 1, 0)
			if table == nil {
				t.Fatal("expected a table")
			}
			gotHeader := len(table.Headers) > 0
			if gotHeader != tc.wantHeader {
				t.Errorf("header detected = %v, want %v", gotHeader, tc.wantHeader)
			}
		})
	}
}

func TestProcessEmptyGrid(t *testing.T) {
	if got := Process(nil, 1, 0); got != nil {
		t.Errorf("nil grid should yield no table, got %+v", got)
	}
	if got := Process([][]string{{"", "  ", ""}}, 1, 0); got != nil {
		t.Errorf("blank grid should yield no table, got %+v", got)
	}
}

func TestAnalyzeColumnTypes(t *testing.T) {
	raw := [][]string{
		{"City", "Population"},
		{"Oslo", "709,037"},
		{"Bergen", "291,940"},
		{"n/a", "unknown"},
	}
	table := Process(raw, 2, 1)
	if table == nil {
		t.Fatal("expected a table")
	}
	if len(table.Analysis.DataTypes) != 2 {
		t.Fatalf("want 2 column types, got %v", table.Analysis.DataTypes)
	}
	if table.Analysis.DataTypes[0] != "text" {
		t.Errorf("column 0 = %s, want text", table.Analysis.DataTypes[0])
	}
	if table.Analysis.DataTypes[1] != "numeric" {
		t.Errorf("column 1 = %s, want numeric", table.Analysis.DataTypes[1])
	}
	if !table.Analysis.HasNumeric {
		t.Error("HasNumeric should be true")
	}
}

// twoColumnPage lays out a simple aligned two column, three row grid.
func twoColumnPage() []pdfio.Word {
	return []pdfio.Word{
		{X: 72, Y: 700, W: 40, S: "Name"},
		{X: 300, Y: 700, W: 30, S: "Age"},
		{X: 72, Y: 680, W: 30, S: "Ann"},
		{X: 300, Y: 680, W: 20, S: "30"},
		{X: 72, Y: 660, W: 30, S: "Bob"},
		{X: 300, Y: 660, W: 20, S: "41"},
	}
}

func TestExtractFromPageDetectsGrid(t *testing.T) {
	got := ExtractFromPage(twoColumnPage(), 3)
	if len(got) != 1 {
		t.Fatalf("want 1 table, got %d", len(got))
	}
	table := got[0]
	if table.PageNumber != 3 {
		t.Errorf("pageNumber = %d, want 3", table.PageNumber)
	}
	if len(table.Headers) != 2 {
		t.Fatalf("want header row, got headers %v rows %v", table.Headers, table.Rows)
	}
	if table.NumRows != 2 {
		t.Errorf("numRows = %d, want 2", table.NumRows)
	}
}

func TestPageHasTable(t *testing.T) {
	if !PageHasTable(twoColumnPage()) {
		t.Error("grid page should report a table")
	}
	prose := []pdfio.Word{
		{X: 72, Y: 700, W: 400, S: "A single flowing paragraph line."},
		{X: 72, Y: 680, W: 400, S: "Another flowing paragraph line."},
	}
	if PageHasTable(prose) {
		t.Error("prose page should not report a table")
	}
}
