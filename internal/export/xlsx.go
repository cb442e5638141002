// Package export turns extracted tables into an XLSX workbook, one sheet
// per table.
package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/studykit/pdfparse/internal/schema"
)

// TablesXLSX writes every table in the document into a workbook. Sheets are
// named after the table IDs; an index sheet lists them with their origin
// page and shape.
func TablesXLSX(doc schema.Document, logger *slog.Logger) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	var tables []schema.Table
	for _, p := range doc.Pages {
		tables = append(tables, p.Elements.Tables...)
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("document %s has no tables to export", doc.FileName)
	}

	f := excelize.NewFile()
	const indexSheet = "Tables"
	// The default sheet becomes the index.
	if err := f.SetSheetName("Sheet1", indexSheet); err != nil {
		return nil, err
	}

	writeCell := func(sheet string, col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	for i, h := range []string{"Sheet", "Page", "Rows", "Columns"} {
		writeCell(indexSheet, i+1, 1, h)
	}

	for ti, table := range tables {
		sheet := sheetName(table.ID)
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", sheet, err)
		}

		row := 1
		if len(table.Headers) > 0 {
			for col, h := range table.Headers {
				writeCell(sheet, col+1, row, h)
			}
			row++
		}
		for _, dataRow := range table.Rows {
			for col, cellValue := range dataRow {
				writeCell(sheet, col+1, row, cellValue)
			}
			row++
		}

		writeCell(indexSheet, 1, ti+2, sheet)
		writeCell(indexSheet, 2, ti+2, table.PageNumber)
		writeCell(indexSheet, 3, ti+2, table.NumRows)
		writeCell(indexSheet, 4, ti+2, table.NumCols)
	}

	_ = f.SetColWidth(indexSheet, "A", "A", 24)
	_ = f.SetColWidth(indexSheet, "B", "D", 10)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	logger.Info("export.xlsx.ok",
		"file", doc.FileName,
		"tables", len(tables),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// sheetName fits a table ID into the 31-character sheet name limit.
func sheetName(id string) string {
	if len(id) <= 31 {
		return id
	}
	return id[:31]
}
