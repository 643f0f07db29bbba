// Package grid models spreadsheet content as a dense, 1-indexed grid of
// tagged cell values, decoupled from any particular file-format library.
package grid

import (
	"strconv"
	"strings"
)

// CellKind discriminates the cell value variant
type CellKind int

const (
	KindEmpty CellKind = iota
	KindText
	KindNumber
)

// Cell is a tagged value: empty, text, or numeric
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
}

// Empty returns the empty cell
func Empty() Cell {
	return Cell{Kind: KindEmpty}
}

// TextCell creates a text cell
func TextCell(s string) Cell {
	return Cell{Kind: KindText, Text: s}
}

// NumberCell creates a numeric cell
func NumberCell(n float64) Cell {
	return Cell{Kind: KindNumber, Number: n}
}

// IsEmpty reports whether the cell holds no usable value.
// Whitespace-only text counts as empty.
func (c Cell) IsEmpty() bool {
	switch c.Kind {
	case KindEmpty:
		return true
	case KindText:
		return strings.TrimSpace(c.Text) == ""
	default:
		return false
	}
}

// Display renders the cell the way Excel's general format would:
// numbers without trailing zeros, text verbatim, empty as "".
func (c Cell) Display() string {
	switch c.Kind {
	case KindText:
		return c.Text
	case KindNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	default:
		return ""
	}
}

// IsFormula reports whether the cell carries unevaluated formula text
func (c Cell) IsFormula() bool {
	return c.Kind == KindText && strings.HasPrefix(strings.TrimSpace(c.Text), "=")
}
