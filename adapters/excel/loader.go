package excel

import (
	"bytes"
	"context"
	"log"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"schedex/domain/grid"
	apperrors "schedex/internal/errors"
	"schedex/ports"
)

// Container magic numbers checked before excelize touches the payload.
// Encrypted OOXML workbooks are OLE compound files rather than ZIP
// archives, so they fail the ZIP check and need their own message.
var (
	zipMagic = []byte{0x50, 0x4B}
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// minWorkbookSize is below any real xlsx; smaller payloads are rejected
// before the ZIP check so truncated uploads get a clear message.
const minWorkbookSize = 100

// WorkbookLoader reads uploaded xlsx payloads into the in-memory grid
// model. Cell values are loaded raw (no number-format rendering) and
// formula cells without a cached result keep their formula text, which
// the schedule namer resolves for cover-sheet titles.
type WorkbookLoader struct{}

func NewWorkbookLoader() *WorkbookLoader {
	return &WorkbookLoader{}
}

var _ ports.SpreadsheetReader = (*WorkbookLoader)(nil)

// LoadWorkbook validates the payload and builds a workbook holding
// every populated cell and merge region of every sheet.
func (l *WorkbookLoader) LoadWorkbook(ctx context.Context, data []byte) (*grid.Workbook, error) {
	if err := validatePayload(data); err != nil {
		return nil, err
	}

	start := time.Now()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.InvalidWorkbookCause("Invalid Excel file", err)
	}
	defer func() {
		_ = f.Close()
	}()

	openTime := time.Since(start)
	log.Printf("[WorkbookLoader] Workbook opened in %.2fms (%d bytes)", float64(openTime.Nanoseconds())/1e6, len(data))

	wb := grid.NewWorkbook()
	for _, name := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := l.loadSheet(f, wb.AddSheet(name)); err != nil {
			return nil, apperrors.InvalidWorkbookCause("Failed to load workbook", err)
		}
	}
	if idx := f.GetActiveSheetIndex(); idx >= 0 && idx < len(wb.Sheets) {
		wb.ActiveIndex = idx
	}

	totalTime := time.Since(start)
	log.Printf("[WorkbookLoader] Built %d sheets in %.2fms", len(wb.Sheets), float64(totalTime.Nanoseconds())/1e6)
	return wb, nil
}

// validatePayload rejects payloads that cannot be xlsx before any
// parsing happens. Order matters: size checks first, then container
// format, so each failure mode gets its most specific message.
func validatePayload(data []byte) error {
	if len(data) == 0 {
		return apperrors.InvalidWorkbook("Empty file")
	}
	if len(data) < minWorkbookSize {
		return apperrors.InvalidWorkbook("File too small")
	}
	if !bytes.HasPrefix(data, zipMagic) {
		if bytes.HasPrefix(data, oleMagic) {
			return apperrors.InvalidWorkbook("Password-protected files are not supported")
		}
		return apperrors.InvalidWorkbook("Invalid file format")
	}
	return nil
}

func (l *WorkbookLoader) loadSheet(f *excelize.File, s *grid.Sheet) error {
	rows, err := f.GetRows(s.Name, excelize.Options{RawCellValue: true})
	if err != nil {
		return err
	}
	for ri, row := range rows {
		for ci, raw := range row {
			cell, ok := l.buildCell(f, s.Name, ri+1, ci+1, raw)
			if ok {
				s.SetCell(ri+1, ci+1, cell)
			}
		}
	}

	merges, err := f.GetMergeCells(s.Name)
	if err != nil {
		return err
	}
	for _, m := range merges {
		minCol, minRow, err := excelize.CellNameToCoordinates(m.GetStartAxis())
		if err != nil {
			continue
		}
		maxCol, maxRow, err := excelize.CellNameToCoordinates(m.GetEndAxis())
		if err != nil {
			continue
		}
		s.AddMerge(grid.MergeRegion{MinRow: minRow, MinCol: minCol, MaxRow: maxRow, MaxCol: maxCol})
	}
	return nil
}

// buildCell maps one raw value onto the tagged cell model. String-typed
// cells stay text even when the content looks numeric, so codes like
// "007" keep their leading zeros. Empty values fall back to the cell
// formula when one exists.
func (l *WorkbookLoader) buildCell(f *excelize.File, sheet string, row, col int, raw string) (grid.Cell, bool) {
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return grid.Cell{}, false
	}
	if raw == "" {
		formula, err := f.GetCellFormula(sheet, axis)
		if err != nil || formula == "" {
			return grid.Cell{}, false
		}
		return grid.TextCell("=" + formula), true
	}
	if ct, err := f.GetCellType(sheet, axis); err == nil {
		switch ct {
		case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
			return grid.TextCell(raw), true
		}
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return grid.NumberCell(n), true
	}
	return grid.TextCell(raw), true
}
