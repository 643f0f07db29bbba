package schedule

import (
	"regexp"
	"strings"
	"unicode"

	"schedex/domain/grid"
	"schedex/internal"
)

// Layout describes how products are physically arranged below a header.
type Layout string

const (
	// LayoutSingle has one product per row with multi-line spec cells.
	LayoutSingle Layout = "single"
	// LayoutGrouped starts each product with an "Item:" row followed by
	// detail rows like "Maker:" and "Finish:".
	LayoutGrouped Layout = "grouped"
)

// detailRowKeys mark a continuation row in grouped layouts. The keys
// appear in the description column with their value one column right.
var detailRowKeys = map[string]bool{
	"maker:":        true,
	"name:":         true,
	"finish:":       true,
	"size:":         true,
	"lead time:":    true,
	"notes:":        true,
	"leadtime:":     true,
	"material:":     true,
	"colour:":       true,
	"color:":        true,
	"brand:":        true,
	"supplier:":     true,
	"manufacturer:": true,
	"dimensions:":   true,
	"dim:":          true,
	"width:":        true,
	"height:":       true,
	"length:":       true,
	"depth:":        true,
	"item:":         true,
}

// skipRowPatterns match whole-cell values of rows that carry charges or
// totals rather than products.
var skipRowPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^delivery$`),
	regexp.MustCompile(`(?i)^shipping$`),
	regexp.MustCompile(`(?i)^freight$`),
	regexp.MustCompile(`(?i)^total[s]?$`),
	regexp.MustCompile(`(?i)^sub\s*total$`),
	regexp.MustCompile(`(?i)^grand\s*total$`),
	regexp.MustCompile(`(?i)^gst$`),
	regexp.MustCompile(`(?i)^tax$`),
}

var (
	anyDigitRE     = regexp.MustCompile(`\d`)
	docCodeStyleRE = regexp.MustCompile(`^[A-Z]{1,3}-`)
)

// DetailRow is one "Key: value" continuation row of a grouped product.
type DetailRow struct {
	RowNum int
	Key    string
	Value  string
}

// RawRecord is the accumulated cell data for one logical product before
// field parsing and composition.
type RawRecord struct {
	RowNum   int
	Section  string
	ItemName string
	Fields   map[string]grid.Cell
	Details  []DetailRow
}

// Text returns the trimmed display text of a mapped field, or "" when
// the field is unmapped or empty.
func (r RawRecord) Text(field string) string {
	c := r.Fields[field]
	if c.IsEmpty() {
		return ""
	}
	return strings.TrimSpace(c.Display())
}

// CellFor returns the raw cell of a mapped field.
func (r RawRecord) CellFor(field string) grid.Cell {
	return r.Fields[field]
}

// RowExtractor walks the rows below a header and groups them into raw
// product records. It runs as a two-state machine: outside any product,
// or accumulating detail rows onto the current one.
type RowExtractor struct {
	layoutSampleRows int
	logger           *internal.Logger
}

// NewRowExtractor returns an extractor with the default layout
// detection window.
func NewRowExtractor() *RowExtractor {
	return &RowExtractor{
		layoutSampleRows: 50,
		logger:           internal.NewDefaultLogger(),
	}
}

// normalizeRowText lowercases and trims a cell for keyword comparison.
func normalizeRowText(c grid.Cell) string {
	return strings.ToLower(strings.TrimSpace(c.Display()))
}

// isEmptyRow reports whether neither the mapped columns nor the first
// columns of the row hold any data.
func (e *RowExtractor) isEmptyRow(s *grid.Sheet, row int, colMap map[string]int) bool {
	for _, col := range colMap {
		if !s.Cell(row, col).IsEmpty() {
			return false
		}
	}
	limit := s.MaxCol()
	if limit > 20 {
		limit = 20
	}
	for col := 1; col <= limit; col++ {
		if !s.Cell(row, col).IsEmpty() {
			return false
		}
	}
	return true
}

// isUpperText reports whether text has letters and none of them are
// lowercase.
func isUpperText(text string) bool {
	hasLetter := false
	for _, r := range text {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}

// isSectionHeader detects rows like "FLOORING" that carry a category
// for the rows beneath them. Former merged cells repeat one value
// across columns after filling; plain section rows are upper-case text
// with nothing else on the row.
func (e *RowExtractor) isSectionHeader(s *grid.Sheet, row int, colMap map[string]int) (bool, string) {
	first := strings.TrimSpace(s.Cell(row, 1).Display())
	if first == "" {
		return false, ""
	}

	sameCount := 0
	limit := s.MaxCol()
	if limit > 7 {
		limit = 7
	}
	for col := 1; col <= limit; col++ {
		if strings.TrimSpace(s.Cell(row, col).Display()) == first {
			sameCount++
		}
	}
	if sameCount >= 3 {
		return true, first
	}

	if isUpperText(first) && len(first) < 50 {
		emptyOrSame := func(field string) bool {
			col, ok := colMap[field]
			if !ok {
				return true
			}
			v := strings.TrimSpace(s.Cell(row, col).Display())
			return v == "" || v == first
		}
		if emptyOrSame(FieldSpecs) && emptyOrSame(FieldManufacturer) && emptyOrSame(FieldItemLocation) {
			if !anyDigitRE.MatchString(first) && !docCodeStyleRE.MatchString(first) {
				return true, first
			}
		}
	}
	return false, ""
}

// isSkipRow reports whether the row is a delivery, total or tax line.
func (e *RowExtractor) isSkipRow(s *grid.Sheet, row int, colMap map[string]int) bool {
	limit := s.MaxCol()
	if limit > 4 {
		limit = 4
	}
	for col := 1; col <= limit; col++ {
		c := s.Cell(row, col)
		if c.IsEmpty() {
			continue
		}
		text := normalizeRowText(c)
		for _, p := range skipRowPatterns {
			if p.MatchString(text) {
				return true
			}
		}
	}

	if col, ok := colMap[FieldImage]; ok {
		if normalizeRowText(s.Cell(row, col)) == "delivery" {
			return true
		}
	}
	return false
}

// detailColumnRange is where grouped layouts keep their "Key:" cells.
func detailColumnRange(s *grid.Sheet) (int, int) {
	hi := s.MaxCol()
	if hi > 6 {
		hi = 6
	}
	return 3, hi
}

// isDetailRow checks for a continuation row: a known detail key, or a
// strict generic "key:" with a value one column right. An "Item:" cell
// means a new product, never a detail.
func (e *RowExtractor) isDetailRow(s *grid.Sheet, row int) (bool, string, string) {
	lo, hi := detailColumnRange(s)
	for col := lo; col <= hi; col++ {
		c := s.Cell(row, col)
		if c.IsEmpty() {
			continue
		}
		text := normalizeRowText(c)

		if text == "item:" {
			return false, "", ""
		}

		if detailRowKeys[text] {
			key := strings.TrimSpace(strings.TrimRight(text, ":"))
			value := strings.TrimSpace(s.Cell(row, col+1).Display())
			return true, key, value
		}

		if strings.HasSuffix(text, ":") && len(text) < 25 && len(text) > 2 {
			value := strings.TrimSpace(s.Cell(row, col+1).Display())
			if value != "" {
				key := strings.TrimSpace(strings.TrimRight(text, ":"))
				return true, key, value
			}
		}
	}
	return false, "", ""
}

// hasItemKey checks for an "Item:" cell marking the start of a grouped
// product, returning the product name one column right.
func (e *RowExtractor) hasItemKey(s *grid.Sheet, row int) (bool, string) {
	lo, hi := detailColumnRange(s)
	for col := lo; col <= hi; col++ {
		c := s.Cell(row, col)
		if c.IsEmpty() {
			continue
		}
		if normalizeRowText(c) == "item:" {
			return true, strings.TrimSpace(s.Cell(row, col+1).Display())
		}
	}
	return false, ""
}

// DetectLayout samples the rows below the header and decides whether
// products are grouped across rows or one per row.
func (e *RowExtractor) DetectLayout(s *grid.Sheet, headerRow int, colMap map[string]int) Layout {
	detailKeyCount := 0
	itemKeyCount := 0

	maxRow := headerRow + e.layoutSampleRows
	if mr := s.MaxRow(); mr < maxRow {
		maxRow = mr
	}

	for row := headerRow + 1; row <= maxRow; row++ {
		lo, hi := detailColumnRange(s)
		for col := lo; col <= hi; col++ {
			c := s.Cell(row, col)
			if c.IsEmpty() {
				continue
			}
			text := normalizeRowText(c)
			if text == "item:" {
				itemKeyCount++
				break
			}
			if detailRowKeys[text] {
				detailKeyCount++
				break
			}
		}
	}

	if itemKeyCount > 0 && detailKeyCount > 0 {
		return LayoutGrouped
	}
	if detailKeyCount >= 5 {
		return LayoutGrouped
	}
	return LayoutSingle
}

// extractRowData copies the mapped cells of one row into a record.
func (e *RowExtractor) extractRowData(s *grid.Sheet, row int, colMap map[string]int) RawRecord {
	rec := RawRecord{RowNum: row, Fields: make(map[string]grid.Cell)}
	for canonical, col := range colMap {
		c := s.Cell(row, col)
		if !c.IsEmpty() {
			rec.Fields[canonical] = c
		}
	}
	return rec
}

// Extract walks every row below the header and returns the raw product
// records in row order.
func (e *RowExtractor) Extract(s *grid.Sheet, headerRow int, colMap map[string]int) []RawRecord {
	return e.ExtractLimited(s, headerRow, colMap, 0)
}

// ExtractLimited is Extract bounded to the first maxRows data rows;
// zero means no bound.
func (e *RowExtractor) ExtractLimited(s *grid.Sheet, headerRow int, colMap map[string]int, maxRows int) []RawRecord {
	layout := e.DetectLayout(s, headerRow, colMap)

	startRow := headerRow + 1
	endRow := s.MaxRow()
	if maxRows > 0 && startRow+maxRows-1 < endRow {
		endRow = startRow + maxRows - 1
	}
	e.logger.Debug("[RowExtractor] %s: %s layout, scanning rows %d-%d", s.Name, layout, startRow, endRow)

	if layout == LayoutGrouped {
		return e.extractGrouped(s, startRow, endRow, colMap)
	}
	return e.extractSingle(s, startRow, endRow, colMap)
}

// extractSingle yields one record per row that has a doc code or an
// item location. Section headers update context for following rows.
func (e *RowExtractor) extractSingle(s *grid.Sheet, startRow, endRow int, colMap map[string]int) []RawRecord {
	var records []RawRecord
	section := ""

	for row := startRow; row <= endRow; row++ {
		if e.isEmptyRow(s, row, colMap) {
			continue
		}
		if isSection, name := e.isSectionHeader(s, row, colMap); isSection {
			e.logger.Trace("[RowExtractor] Row %d: section %q", row, name)
			section = name
			continue
		}
		if e.isSkipRow(s, row, colMap) {
			continue
		}

		docCodeCol, ok := colMap[FieldDocCode]
		if !ok {
			docCodeCol = 1
		}
		hasDocCode := !s.Cell(row, docCodeCol).IsEmpty()

		hasLocation := false
		if col, ok := colMap[FieldItemLocation]; ok {
			hasLocation = !s.Cell(row, col).IsEmpty()
		}
		if !hasDocCode && !hasLocation {
			continue
		}

		rec := e.extractRowData(s, row, colMap)
		rec.Section = section
		records = append(records, rec)
	}
	return records
}

// extractGrouped accumulates detail rows onto the current product and
// closes it when the next "Item:" row, a section header, or the end of
// the sheet arrives. Unrecognized rows are dropped rather than
// attached as noise.
func (e *RowExtractor) extractGrouped(s *grid.Sheet, startRow, endRow int, colMap map[string]int) []RawRecord {
	var records []RawRecord
	var current *RawRecord
	section := ""

	flush := func() {
		if current != nil {
			records = append(records, *current)
			current = nil
		}
	}

	for row := startRow; row <= endRow; row++ {
		if e.isEmptyRow(s, row, colMap) {
			continue
		}
		if isSection, name := e.isSectionHeader(s, row, colMap); isSection {
			e.logger.Trace("[RowExtractor] Row %d: section %q", row, name)
			flush()
			section = name
			continue
		}
		if e.isSkipRow(s, row, colMap) {
			continue
		}

		if hasItem, itemValue := e.hasItemKey(s, row); hasItem {
			flush()
			rec := e.extractRowData(s, row, colMap)
			rec.Section = section
			rec.ItemName = itemValue
			current = &rec
			continue
		}

		if isDetail, key, value := e.isDetailRow(s, row); isDetail {
			if current != nil {
				current.Details = append(current.Details, DetailRow{RowNum: row, Key: key, Value: value})
			}
			continue
		}
	}

	flush()
	return records
}

// CountProducts reports how many records extraction would produce.
func (e *RowExtractor) CountProducts(s *grid.Sheet, headerRow int, colMap map[string]int) int {
	return len(e.Extract(s, headerRow, colMap))
}
