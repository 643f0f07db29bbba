package grid

// MergeRegion is a rectangular merged range, 1-indexed inclusive bounds
type MergeRegion struct {
	MinRow, MinCol, MaxRow, MaxCol int
}

// Valid reports whether the region has positive area inside the sheet
func (r MergeRegion) Valid() bool {
	return r.MinRow >= 1 && r.MinCol >= 1 && r.MaxRow >= r.MinRow && r.MaxCol >= r.MinCol
}

// Sheet is a dense grid of cells with its merge regions.
// Rows and columns are addressed 1-indexed; reads outside the used
// range return the empty cell.
type Sheet struct {
	Name    string
	Merges  []MergeRegion
	rows    [][]Cell
	maxCols int
}

// NewSheet creates an empty sheet
func NewSheet(name string) *Sheet {
	return &Sheet{Name: name}
}

// Cell returns the value at (row, col), 1-indexed
func (s *Sheet) Cell(row, col int) Cell {
	if row < 1 || col < 1 || row > len(s.rows) {
		return Empty()
	}
	r := s.rows[row-1]
	if col > len(r) {
		return Empty()
	}
	return r[col-1]
}

// SetCell writes the value at (row, col), growing the grid as needed
func (s *Sheet) SetCell(row, col int, c Cell) {
	if row < 1 || col < 1 {
		return
	}
	for len(s.rows) < row {
		s.rows = append(s.rows, nil)
	}
	r := s.rows[row-1]
	for len(r) < col {
		r = append(r, Empty())
	}
	r[col-1] = c
	s.rows[row-1] = r
	if col > s.maxCols {
		s.maxCols = col
	}
}

// MaxRow returns the last row holding data (0 for an empty sheet)
func (s *Sheet) MaxRow() int {
	return len(s.rows)
}

// MaxCol returns the widest row's column count
func (s *Sheet) MaxCol() int {
	return s.maxCols
}

// AddMerge registers a merge region
func (s *Sheet) AddMerge(r MergeRegion) {
	s.Merges = append(s.Merges, r)
}

// Workbook is an ordered collection of sheets with an active-sheet marker
type Workbook struct {
	Sheets      []*Sheet
	ActiveIndex int
}

// NewWorkbook creates an empty workbook
func NewWorkbook() *Workbook {
	return &Workbook{}
}

// AddSheet appends a sheet and returns it
func (w *Workbook) AddSheet(name string) *Sheet {
	s := NewSheet(name)
	w.Sheets = append(w.Sheets, s)
	return s
}

// SheetByName returns the named sheet, or nil
func (w *Workbook) SheetByName(name string) *Sheet {
	for _, s := range w.Sheets {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// ActiveSheet returns the workbook's active sheet, or the first sheet,
// or nil for an empty workbook
func (w *Workbook) ActiveSheet() *Sheet {
	if len(w.Sheets) == 0 {
		return nil
	}
	if w.ActiveIndex >= 0 && w.ActiveIndex < len(w.Sheets) {
		return w.Sheets[w.ActiveIndex]
	}
	return w.Sheets[0]
}

// SheetNames returns sheet names in workbook order
func (w *Workbook) SheetNames() []string {
	names := make([]string, len(w.Sheets))
	for i, s := range w.Sheets {
		names[i] = s.Name
	}
	return names
}
