// Package testkit builds in-memory workbooks and synthetic schedule
// fixtures for parser tests.
package testkit

import "schedex/domain/grid"

// SheetFromRows builds a sheet from text rows. Indices are 1-based in
// the result; empty strings stay empty cells.
func SheetFromRows(name string, rows [][]string) *grid.Sheet {
	s := grid.NewSheet(name)
	for i, row := range rows {
		for j, text := range row {
			if text == "" {
				continue
			}
			s.SetCell(i+1, j+1, grid.TextCell(text))
		}
	}
	return s
}

// WorkbookOf wraps sheets into a workbook with the first sheet active.
func WorkbookOf(sheets ...*grid.Sheet) *grid.Workbook {
	wb := grid.NewWorkbook()
	wb.Sheets = append(wb.Sheets, sheets...)
	return wb
}

// SingleRowSchedule is a minimal one-product schedule in the single-row
// layout: header at row 1, one data row below it.
func SingleRowSchedule(name string) *grid.Sheet {
	return SheetFromRows(name, [][]string{
		{"CODE", "ITEM & LOCATION", "PRODUCT DETAILS", "MANUFACTURER", "QTY", "COST PER UNIT"},
		{"FCA-01 A", "Main Lobby Carpet", "NAME: ICONIC\nCOLOUR: SILVER SHADOW\nWIDTH: 3660MM", "EGE", "12", "85.50"},
	})
}
