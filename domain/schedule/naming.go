package schedule

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/xuri/efp"

	"schedex/domain/grid"
	"schedex/internal"
)

const (
	nameScanRows = 10
	nameScanCols = 2
)

// metadataLabels are cover-sheet field labels that never serve as a
// schedule title, matched whole after trailing colon/dot stripping.
var metadataLabels = map[string]bool{
	"project":         true,
	"project name":    true,
	"project no":      true,
	"project number":  true,
	"project address": true,
	"client":          true,
	"client name":     true,
	"job":             true,
	"job no":          true,
	"job number":      true,
	"job name":        true,
	"date":            true,
	"issue":           true,
	"issue date":      true,
	"revision":        true,
	"revision date":   true,
	"rev":             true,
	"version":         true,
	"drawn":           true,
	"drawn by":        true,
	"checked":         true,
	"checked by":      true,
	"scale":           true,
	"sheet":           true,
	"page":            true,
	"address":         true,
	"phone":           true,
	"email":           true,
	"web":             true,
	"notes":           true,
	"legend":          true,
}

// nameLabels mark a cell whose right-hand neighbour holds the title.
var nameLabels = map[string]bool{
	"schedule name":  true,
	"schedule title": true,
	"project name":   true,
}

// scheduleKeywords accept a shortish cell as a title on sight.
var scheduleKeywords = []string{"schedule", "finishes", "ff&e", "specification", "interior", "fixtures"}

const shortLabelMaxLen = 16

var (
	numericOnlyRE    = regexp.MustCompile(`^\d+(\.\d+)?$`)
	externalPrefixRE = regexp.MustCompile(`^\[\d+\]`)
	cellRefLettersRE = regexp.MustCompile(`^([A-Z]+)(\d+)$`)
)

// ScheduleNamer resolves a human-readable schedule title from workbook
// cover text, falling back to the upload filename.
type ScheduleNamer struct {
	logger *internal.Logger
}

func NewScheduleNamer() *ScheduleNamer {
	return &ScheduleNamer{logger: internal.NewDefaultLogger()}
}

// ScheduleName scans the workbook for a title and falls back to a
// cleaned-up filename. The result is never empty.
func (n *ScheduleNamer) ScheduleName(wb *grid.Workbook, filename string) string {
	if name := n.FindWorkbookTitle(wb); name != "" {
		return name
	}
	return FilenameToScheduleName(filename)
}

// FindWorkbookTitle scans the active sheet first, then the rest in
// workbook order. Returns "" when no cell qualifies.
func (n *ScheduleNamer) FindWorkbookTitle(wb *grid.Workbook) string {
	if wb == nil {
		return ""
	}
	active := wb.ActiveSheet()
	if active != nil {
		if name := n.findSheetTitle(wb, active); name != "" {
			return name
		}
	}
	for _, s := range wb.Sheets {
		if s == active {
			continue
		}
		if name := n.findSheetTitle(wb, s); name != "" {
			return name
		}
	}
	return ""
}

// findSheetTitle walks the top-left corner of a sheet. A name label in
// column A defers to the neighbouring cell; formulas resolve through
// their cross-sheet reference before the usual title tests.
func (n *ScheduleNamer) findSheetTitle(wb *grid.Workbook, s *grid.Sheet) string {
	maxRow := s.MaxRow()
	if maxRow > nameScanRows {
		maxRow = nameScanRows
	}
	for row := 1; row <= maxRow; row++ {
		for col := 1; col <= nameScanCols; col++ {
			cell := s.Cell(row, col)
			if cell.IsEmpty() {
				continue
			}
			value := strings.TrimSpace(cell.Display())
			if value == "" {
				continue
			}

			if cell.IsFormula() {
				if resolved := n.resolveCrossSheetRef(wb, value); resolved != "" && IsLikelyTitle(resolved) {
					return resolved
				}
				continue
			}

			if col == 1 && isNameLabel(value) {
				if adjacent := n.adjacentValue(wb, s, row); adjacent != "" {
					return adjacent
				}
				continue
			}

			if IsLikelyTitle(value) {
				return value
			}
		}
	}
	return ""
}

// adjacentValue reads the column B cell next to a name label.
func (n *ScheduleNamer) adjacentValue(wb *grid.Workbook, s *grid.Sheet, row int) string {
	cell := s.Cell(row, nameScanCols)
	if cell.IsEmpty() {
		return ""
	}
	value := strings.TrimSpace(cell.Display())
	if cell.IsFormula() {
		return n.resolveCrossSheetRef(wb, value)
	}
	return value
}

// resolveCrossSheetRef tokenizes a formula and reads the first
// resolvable single-cell cross-sheet reference. Quoted sheet names are
// unquoted and `[n]` external-workbook prefixes stripped before the
// lookup; references to sheets this workbook does not contain stay
// unresolved.
func (n *ScheduleNamer) resolveCrossSheetRef(wb *grid.Workbook, formula string) string {
	tokens := efp.ExcelParser().Parse(strings.TrimPrefix(strings.TrimSpace(formula), "="))
	for _, token := range tokens {
		if token.TType != efp.TokenTypeOperand || token.TSubType != efp.TokenSubTypeRange {
			continue
		}
		ref := token.TValue
		if !strings.Contains(ref, "!") {
			continue
		}
		parts := strings.SplitN(ref, "!", 2)
		sheetName := externalPrefixRE.ReplaceAllString(strings.Trim(parts[0], "'"), "")
		cellPart := strings.ReplaceAll(parts[1], "$", "")
		if strings.Contains(cellPart, ":") {
			continue
		}
		target := wb.SheetByName(sheetName)
		if target == nil {
			n.logger.Warn("[ScheduleNamer] Unresolved formula reference %q, keeping literal text", ref)
			continue
		}
		row, col, ok := parseCellRef(cellPart)
		if !ok {
			continue
		}
		value := strings.TrimSpace(target.Cell(row, col).Display())
		if value != "" && !strings.HasPrefix(value, "=") {
			return value
		}
	}
	return ""
}

// parseCellRef converts an A1-style reference to 1-based row/column.
func parseCellRef(ref string) (row, col int, ok bool) {
	m := cellRefLettersRE.FindStringSubmatch(strings.ToUpper(ref))
	if m == nil {
		return 0, 0, false
	}
	for _, r := range m[1] {
		col = col*26 + int(r-'A'+1)
	}
	for _, r := range m[2] {
		row = row*10 + int(r-'0')
	}
	if row == 0 || col == 0 {
		return 0, 0, false
	}
	return row, col, true
}

// IsMetadataLabel reports whether text is a cover-sheet field label
// rather than a title. Blank text counts as metadata; any short label
// ending in a colon does too.
func IsMetadataLabel(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return true
	}
	if metadataLabels[strings.TrimSpace(strings.TrimRight(t, ":."))] {
		return true
	}
	if strings.HasSuffix(t, ":") && utf8.RuneCountInString(strings.TrimRight(t, ":")) < shortLabelMaxLen {
		return true
	}
	return false
}

// IsLikelyTitle reports whether a cell value reads like a schedule
// title: long enough, not a formula or error literal, not numeric, not
// a metadata label, and either keyword-bearing or substantial.
func IsLikelyTitle(text string) bool {
	t := strings.TrimSpace(text)
	if utf8.RuneCountInString(t) < 3 {
		return false
	}
	if strings.HasPrefix(t, "=") || strings.HasPrefix(t, "#") {
		return false
	}
	if numericOnlyRE.MatchString(t) {
		return false
	}
	if IsMetadataLabel(t) {
		return false
	}
	lower := strings.ToLower(t)
	for _, kw := range scheduleKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return utf8.RuneCountInString(t) >= 15
}

func isNameLabel(text string) bool {
	return nameLabels[strings.TrimSpace(strings.TrimRight(strings.ToLower(strings.TrimSpace(text)), ":"))]
}

// FilenameToScheduleName turns an upload filename into a displayable
// fallback title.
func FilenameToScheduleName(filename string) string {
	stem := strings.TrimSpace(filename)
	lower := strings.ToLower(stem)
	for _, ext := range []string{".xlsx", ".xlsm", ".xls"} {
		if strings.HasSuffix(lower, ext) {
			stem = stem[:len(stem)-len(ext)]
			break
		}
	}
	stem = strings.NewReplacer("_", " ", "-", " ").Replace(stem)
	stem = strings.Join(strings.Fields(stem), " ")
	if stem == "" {
		return "Unknown Schedule"
	}
	return stem
}
