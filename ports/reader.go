package ports

import (
	"context"

	"schedex/domain/grid"
)

// SpreadsheetReader loads uploaded spreadsheet bytes into the grid
// model. Implementations own format validation; the returned workbook
// is plain data with no file handles attached.
type SpreadsheetReader interface {
	LoadWorkbook(ctx context.Context, data []byte) (*grid.Workbook, error)
}
