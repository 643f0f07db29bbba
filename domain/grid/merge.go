package grid

// FillMergedRegions copies each merge region's top-left value into every
// cell the region covers. Spreadsheet files store a merged value only in
// the top-left cell; filling makes every covered cell readable uniformly.
//
// Idempotent: the top-left value is captured before writing, so a second
// pass rewrites the same values. Malformed regions are skipped.
func FillMergedRegions(s *Sheet) {
	type fill struct {
		region MergeRegion
		value  Cell
	}

	fills := make([]fill, 0, len(s.Merges))
	for _, r := range s.Merges {
		if !r.Valid() {
			continue
		}
		fills = append(fills, fill{region: r, value: s.Cell(r.MinRow, r.MinCol)})
	}

	for _, f := range fills {
		for row := f.region.MinRow; row <= f.region.MaxRow; row++ {
			for col := f.region.MinCol; col <= f.region.MaxCol; col++ {
				s.SetCell(row, col, f.value)
			}
		}
	}
}
