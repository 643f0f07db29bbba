package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"schedex/domain/grid"
)

func TestIsMetadataLabel(t *testing.T) {
	metadata := []string{
		"Job No.",
		"job no.",
		"JOB NO.",
		"Job Name.",
		"Revision Date",
		"Client Name:",
		"Project Address:",
		"Version:",
		"Issue Date:",
		"Project:",
		"Notes",
		"Legend",
		"revision",
		"date",
		"",
		"   ",
		"Short:",
		"Rev:",
	}
	for _, label := range metadata {
		assert.True(t, IsMetadataLabel(label), "expected metadata: %q", label)
	}

	titles := []string{
		"Interior Schedule",
		"12006: GEM, WATERLINE PLACE",
		"SCHEDULE 003- INTERNAL FINISHES",
		"Lighting Schedule (FF&E Tracker)",
		"Apartment Schedule",
		"A",
	}
	for _, text := range titles {
		assert.False(t, IsMetadataLabel(text), "expected not metadata: %q", text)
	}
}

func TestIsLikelyTitle(t *testing.T) {
	titles := []string{
		"12006: GEM, WATERLINE PLACE, WILLIAMSTOWN",
		"SCHEDULE 003- INTERNAL FINISHES",
		"Interior Schedule",
		"Lighting Schedule (FF&E Tracker)",
		"PROJECT: Synthetic Interior Schedule",
		"Apartment Schedule",
		"FF&E Schedule for Project X",
	}
	for _, title := range titles {
		assert.True(t, IsLikelyTitle(title), "expected title: %q", title)
	}

	nonTitles := []string{
		"Job No.",
		"Revision Date",
		"Client Name:",
		"Notes",
		"",
		"AB",
		"='Cover Sheet'!A6",
		"=[1]Cover Sheet!A6",
		"=SUM(A1:A10)",
		"#REF!",
		"#N/A!",
		"#VALUE!",
		"12345",
	}
	for _, text := range nonTitles {
		assert.False(t, IsLikelyTitle(text), "expected not title: %q", text)
	}
}

func TestFilenameToScheduleName(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"schedule_sample1.xlsx", "schedule sample1"},
		{"my_project.xlsx", "my project"},
		{"test.xls", "test"},
		{"FILE.XLSX", "FILE"},
		{"FILE.XLS", "FILE"},
		{"no_extension", "no extension"},
		{"", "Unknown Schedule"},
		{"   ", "Unknown Schedule"},
		{".xlsx", "Unknown Schedule"},
		{"multiple_underscores_here.xlsx", "multiple underscores here"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FilenameToScheduleName(tt.filename), "filename %q", tt.filename)
	}
}

func TestScheduleNameFromWorkbook(t *testing.T) {
	namer := NewScheduleNamer()

	t.Run("title in row 1", func(t *testing.T) {
		wb := grid.NewWorkbook()
		wb.AddSheet("Sheet1").SetCell(1, 1, grid.TextCell("12006: GEM, WATERLINE PLACE, WILLIAMSTOWN"))
		assert.Equal(t, "12006: GEM, WATERLINE PLACE, WILLIAMSTOWN", namer.ScheduleName(wb, "test.xlsx"))
	})

	t.Run("title with schedule keyword", func(t *testing.T) {
		wb := grid.NewWorkbook()
		wb.AddSheet("Sheet1").SetCell(1, 1, grid.TextCell("Interior Schedule"))
		assert.Equal(t, "Interior Schedule", namer.ScheduleName(wb, "test.xlsx"))
	})

	t.Run("fallback to filename", func(t *testing.T) {
		wb := grid.NewWorkbook()
		s := wb.AddSheet("Sheet1")
		s.SetCell(1, 1, grid.TextCell("Job No."))
		s.SetCell(2, 1, grid.TextCell("Revision Date"))
		s.SetCell(3, 1, grid.TextCell("Notes"))
		assert.Equal(t, "my schedule", namer.ScheduleName(wb, "my_schedule.xlsx"))
	})

	t.Run("empty workbook", func(t *testing.T) {
		assert.Equal(t, "empty", namer.ScheduleName(grid.NewWorkbook(), "empty.xlsx"))
	})

	t.Run("workbook with empty cells", func(t *testing.T) {
		wb := grid.NewWorkbook()
		wb.AddSheet("Sheet1")
		assert.Equal(t, "empty cells", namer.ScheduleName(wb, "empty_cells.xlsx"))
	})

	t.Run("title in column B behind name label", func(t *testing.T) {
		wb := grid.NewWorkbook()
		s := wb.AddSheet("Sheet1")
		s.SetCell(1, 1, grid.TextCell("SCHEDULE NAME"))
		s.SetCell(1, 2, grid.TextCell("Interior Schedule"))
		assert.Equal(t, "Interior Schedule", namer.ScheduleName(wb, "test.xlsx"))
	})

	t.Run("formula reference to cover sheet", func(t *testing.T) {
		wb := grid.NewWorkbook()
		cover := wb.AddSheet("Cover Sheet")
		cover.SetCell(6, 1, grid.TextCell("SCHEDULE 003- INTERNAL FINISHES"))
		schedule := wb.AddSheet("Schedule")
		schedule.SetCell(7, 1, grid.TextCell("='[1]Cover Sheet'!A6"))
		wb.ActiveIndex = 1

		assert.Equal(t, "SCHEDULE 003- INTERNAL FINISHES", namer.ScheduleName(wb, "test.xlsx"))
	})

	t.Run("unresolvable formula falls through", func(t *testing.T) {
		wb := grid.NewWorkbook()
		s := wb.AddSheet("Schedule")
		s.SetCell(1, 1, grid.TextCell("='Missing Sheet'!A6"))
		assert.Equal(t, "test", namer.ScheduleName(wb, "test.xlsx"))
	})

	t.Run("numeric cell skipped", func(t *testing.T) {
		wb := grid.NewWorkbook()
		s := wb.AddSheet("Sheet1")
		s.SetCell(1, 1, grid.NumberCell(12345))
		s.SetCell(2, 1, grid.TextCell("Interior Schedule"))
		assert.Equal(t, "Interior Schedule", namer.ScheduleName(wb, "test.xlsx"))
	})

	t.Run("whitespace cells skipped", func(t *testing.T) {
		wb := grid.NewWorkbook()
		s := wb.AddSheet("Sheet1")
		s.SetCell(1, 1, grid.TextCell("   "))
		s.SetCell(2, 1, grid.TextCell("\t\n"))
		s.SetCell(3, 1, grid.TextCell("Interior Schedule"))
		assert.Equal(t, "Interior Schedule", namer.ScheduleName(wb, "test.xlsx"))
	})

	t.Run("active sheet scanned first", func(t *testing.T) {
		wb := grid.NewWorkbook()
		wb.AddSheet("Main").SetCell(1, 1, grid.TextCell("Main Schedule"))
		wb.AddSheet("Other").SetCell(1, 1, grid.TextCell("Other Schedule"))
		assert.Equal(t, "Main Schedule", namer.ScheduleName(wb, "test.xlsx"))
	})

	t.Run("unicode title", func(t *testing.T) {
		wb := grid.NewWorkbook()
		wb.AddSheet("Sheet1").SetCell(1, 1, grid.TextCell("Café Interior Schedule 日本語"))
		assert.Contains(t, namer.ScheduleName(wb, "test.xlsx"), "Café")
	})
}

func TestParseCellRef(t *testing.T) {
	tests := []struct {
		ref  string
		row  int
		col  int
		ok   bool
	}{
		{"A6", 6, 1, true},
		{"B3", 3, 2, true},
		{"AA10", 10, 27, true},
		{"a6", 6, 1, true},
		{"6A", 0, 0, false},
		{"A", 0, 0, false},
		{"6", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tt := range tests {
		row, col, ok := parseCellRef(tt.ref)
		assert.Equal(t, tt.ok, ok, "ref %q", tt.ref)
		if tt.ok {
			assert.Equal(t, tt.row, row, "ref %q row", tt.ref)
			assert.Equal(t, tt.col, col, "ref %q col", tt.ref)
		}
	}
}
