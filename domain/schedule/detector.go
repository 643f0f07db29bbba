package schedule

import (
	"strings"

	"schedex/domain/grid"
)

// Header rows need at least this many distinct recognized columns before
// a row is considered at all.
const minHeaderMatches = 2

// Limits for the detection window. Headers live near the top-left of
// real schedules; scanning further mostly finds data rows that happen to
// contain header-like words.
const (
	defaultHeaderScanRows = 50
	defaultHeaderScanCols = 20
)

var requiredHeaderCols = map[string]bool{
	FieldDocCode: true,
}

var supportingHeaderCols = map[string]bool{
	FieldItemLocation: true,
	FieldProductName:  true,
	FieldSpecs:        true,
	FieldManufacturer: true,
	FieldCost:         true,
	FieldQty:          true,
}

// SheetDetector locates header rows and decides which sheets of a
// workbook contain schedule data. Sheet names are never a signal: cover
// sheets are routinely named "Schedule" and data sheets "Sheet1".
type SheetDetector struct {
	vocab   *Vocabulary
	maxScan int
	maxCols int
}

// NewSheetDetector returns a detector with the default vocabulary and
// scan window.
func NewSheetDetector() *SheetDetector {
	return &SheetDetector{
		vocab:   DetectorVocabulary(),
		maxScan: defaultHeaderScanRows,
		maxCols: defaultHeaderScanCols,
	}
}

// DetectedSheet is a sheet accepted as schedule data, with the header
// row the acceptance was based on.
type DetectedSheet struct {
	Sheet     *grid.Sheet
	HeaderRow int
}

// matchHeader resolves a normalized header cell to a canonical column
// name. Exact lookup wins; otherwise the first registered synonym
// contained in the text decides.
func (d *SheetDetector) matchHeader(normalized string) (string, bool) {
	if c, ok := d.vocab.Canonical(normalized); ok {
		return c, true
	}
	for _, e := range d.vocab.Entries() {
		for _, syn := range e.Synonyms {
			if strings.Contains(normalized, syn) {
				return e.Canonical, true
			}
		}
	}
	return "", false
}

// scoreRow counts the distinct canonical columns recognizable in a row.
func (d *SheetDetector) scoreRow(s *grid.Sheet, row int) map[string]bool {
	matched := make(map[string]bool)
	for col := 1; col <= d.maxCols; col++ {
		c := s.Cell(row, col)
		if c.IsEmpty() {
			continue
		}
		normalized := normalizeHeaderFirstLine(c.Display())
		if normalized == "" {
			continue
		}
		if canonical, ok := d.matchHeader(normalized); ok {
			matched[canonical] = true
		}
	}
	return matched
}

func intersects(cols, set map[string]bool) bool {
	for c := range cols {
		if set[c] {
			return true
		}
	}
	return false
}

func countIn(cols, set map[string]bool) int {
	n := 0
	for c := range cols {
		if set[c] {
			n++
		}
	}
	return n
}

// FindHeaderRow scans the top of a sheet for the row that most looks
// like a schedule header. Rows with a doc code column outrank rows
// without one; among equals the earlier row wins unless the later row
// supplies the doc code the earlier one lacks. Returns false when no
// row passes the evidence gate.
func (d *SheetDetector) FindHeaderRow(s *grid.Sheet) (int, bool) {
	bestRow := 0
	bestScore := 0
	var bestCols map[string]bool

	limit := d.maxScan
	if mr := s.MaxRow(); mr < limit {
		limit = mr
	}

	for row := 1; row <= limit; row++ {
		cols := d.scoreRow(s, row)
		if len(cols) < minHeaderMatches {
			continue
		}

		weighted := len(cols)
		if intersects(cols, requiredHeaderCols) {
			weighted += 2
		}
		if intersects(cols, supportingHeaderCols) {
			weighted++
		}

		switch {
		case weighted > bestScore:
			bestRow, bestScore, bestCols = row, weighted, cols
		case weighted == bestScore && bestRow != 0:
			if intersects(cols, requiredHeaderCols) && !intersects(bestCols, requiredHeaderCols) {
				bestRow, bestCols = row, cols
			}
		}
	}

	if bestRow == 0 {
		return 0, false
	}
	if intersects(bestCols, requiredHeaderCols) || countIn(bestCols, supportingHeaderCols) >= 2 {
		return bestRow, true
	}
	return 0, false
}

// HeaderColumns maps canonical column names to 1-indexed column numbers
// for a known header row. Only the first occurrence of each canonical is
// kept.
func (d *SheetDetector) HeaderColumns(s *grid.Sheet, headerRow int) map[string]int {
	columns := make(map[string]int)
	for col := 1; col <= d.maxCols; col++ {
		c := s.Cell(headerRow, col)
		if c.IsEmpty() {
			continue
		}
		normalized := normalizeHeaderFirstLine(c.Display())
		if normalized == "" {
			continue
		}
		if canonical, ok := d.matchHeader(normalized); ok {
			if _, seen := columns[canonical]; !seen {
				columns[canonical] = col
			}
		}
	}
	return columns
}

// IsScheduleSheet reports whether a sheet carries schedule data: a
// detectable header row with a doc code column and at least one
// supporting column.
func (d *SheetDetector) IsScheduleSheet(s *grid.Sheet) bool {
	headerRow, ok := d.FindHeaderRow(s)
	if !ok {
		return false
	}
	columns := d.HeaderColumns(s, headerRow)
	if _, ok := columns[FieldDocCode]; !ok {
		return false
	}
	for c := range columns {
		if supportingHeaderCols[c] {
			return true
		}
	}
	return false
}

// ScheduleSheets returns every sheet of a workbook that qualifies as
// schedule data, in workbook order, with its header row.
func (d *SheetDetector) ScheduleSheets(wb *grid.Workbook) []DetectedSheet {
	var detected []DetectedSheet
	for _, s := range wb.Sheets {
		headerRow, ok := d.FindHeaderRow(s)
		if !ok {
			continue
		}
		columns := d.HeaderColumns(s, headerRow)
		if _, ok := columns[FieldDocCode]; !ok {
			continue
		}
		hasSupporting := false
		for c := range columns {
			if supportingHeaderCols[c] {
				hasSupporting = true
				break
			}
		}
		if hasSupporting {
			detected = append(detected, DetectedSheet{Sheet: s, HeaderRow: headerRow})
		}
	}
	return detected
}
