package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schedex/domain/grid"
	"schedex/internal/testkit"
)

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SPEC CODE", "spec code"},
		{"  Item  ", "item"},
		{"Description:", "description"},
		{"Item   &   Location", "item & location"},
		{"Notes:", "notes"},
		{"Price.", "price"},
		{"Cost-", "cost"},
		{"", ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, normalizeHeader(tc.in), "input %q", tc.in)
	}
}

func TestNormalizeHeaderFirstLine(t *testing.T) {
	assert.Equal(t, "item", normalizeHeaderFirstLine("Item\nImage"))
	assert.Equal(t, "cost per unit $", normalizeHeaderFirstLine("Cost per unit $\ninc GST"))
}

func TestMatchHeader(t *testing.T) {
	d := NewSheetDetector()

	tests := []struct {
		in      string
		want    string
		matched bool
	}{
		{"spec code", FieldDocCode, true},
		{"code", FieldDocCode, true},
		{"qty", FieldQty, true},
		{"rrp", FieldCost, true},
		{"item & location (see notes)", FieldItemLocation, true},
		{"manufacturer / supplier info", FieldManufacturer, true},
		{"random text", "", false},
		{"xyz123", "", false},
	}
	for _, tc := range tests {
		got, ok := d.matchHeader(tc.in)
		assert.Equal(t, tc.matched, ok, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestScoreRow(t *testing.T) {
	d := NewSheetDetector()

	header := testkit.SheetFromRows("S", [][]string{
		{"SPEC CODE", "IMAGE", "DESCRIPTION", "SPECIFICATIONS", "MANUFACTURER", "NOTES", "COST"},
	})
	cols := d.scoreRow(header, 1)
	assert.Len(t, cols, 7)
	for _, want := range []string{
		FieldDocCode, FieldImage, FieldItemLocation, FieldSpecs,
		FieldManufacturer, FieldNotes, FieldCost,
	} {
		assert.True(t, cols[want], "missing %s", want)
	}

	data := testkit.SheetFromRows("S", [][]string{
		{"FCA-01", "image.jpg", "Some description text"},
	})
	assert.LessOrEqual(t, len(d.scoreRow(data, 1)), 2)

	empty := testkit.SheetFromRows("S", nil)
	assert.Empty(t, d.scoreRow(empty, 1))
}

func TestFindHeaderRow(t *testing.T) {
	d := NewSheetDetector()

	t.Run("header at row 1", func(t *testing.T) {
		s := testkit.SheetFromRows("S", [][]string{
			{"CODE", "DESCRIPTION", "QTY", "COST"},
		})
		row, ok := d.FindHeaderRow(s)
		require.True(t, ok)
		assert.Equal(t, 1, row)
	})

	t.Run("title rows above header", func(t *testing.T) {
		s := testkit.SheetFromRows("S", [][]string{
			{"Project Title"},
			{"Some reference"},
			{"Notes"},
			{"SPEC CODE", "IMAGE", "ITEM & LOCATION", "SPECIFICATIONS", "MANUFACTURER"},
		})
		row, ok := d.FindHeaderRow(s)
		require.True(t, ok)
		assert.Equal(t, 4, row)
	})

	t.Run("metadata block above header", func(t *testing.T) {
		s := testkit.SheetFromRows("S", [][]string{
			{"Job No.", "12345"},
			{"Job Name.", "Test Project"},
			{}, {}, {}, {}, {}, {},
			{"SPEC CODE", "INDICATIVE IMAGE", "ITEM & LOCATION", "SPECIFICATIONS", "MANUFACTURER / SUPPLIER", "COMMENTS"},
		})
		row, ok := d.FindHeaderRow(s)
		require.True(t, ok)
		assert.Equal(t, 9, row)
	})

	t.Run("sparse header with gap column", func(t *testing.T) {
		s := testkit.SheetFromRows("S", [][]string{
			{}, {"", "", "", "Client Name:"},
			{}, {"", "", "", "Project Address:"},
			{}, {"", "", "", "Version:"},
			{}, {"", "", "", "Issue Date:"},
			{},
			{"Code", "Area", "Item Image", "Description", "", "Qty", "Cost per unit $"},
		})
		row, ok := d.FindHeaderRow(s)
		require.True(t, ok)
		assert.Equal(t, 10, row)
	})

	t.Run("no header", func(t *testing.T) {
		s := testkit.SheetFromRows("S", [][]string{
			{"Random", "Data"},
			{"More", "Stuff"},
		})
		_, ok := d.FindHeaderRow(s)
		assert.False(t, ok)
	})

	t.Run("header beyond scan window", func(t *testing.T) {
		s := testkit.SheetFromRows("S", nil)
		for c, h := range []string{"CODE", "DESCRIPTION", "QTY", "COST"} {
			s.SetCell(60, c+1, grid.TextCell(h))
		}
		_, ok := d.FindHeaderRow(s)
		assert.False(t, ok)
	})
}

func TestHeaderColumns(t *testing.T) {
	d := NewSheetDetector()

	s := testkit.SheetFromRows("S", [][]string{
		{"SPEC CODE", "IMAGE", "DESCRIPTION", "QTY", "COST"},
	})
	cols := d.HeaderColumns(s, 1)
	assert.Equal(t, 1, cols[FieldDocCode])
	assert.Equal(t, 2, cols[FieldImage])
	assert.Equal(t, 3, cols[FieldItemLocation])
	assert.Equal(t, 4, cols[FieldQty])
	assert.Equal(t, 5, cols[FieldCost])

	t.Run("first occurrence wins", func(t *testing.T) {
		s := testkit.SheetFromRows("S", [][]string{
			{"CODE", "REFERENCE", "DESCRIPTION"},
		})
		cols := d.HeaderColumns(s, 1)
		assert.Equal(t, 1, cols[FieldDocCode])
	})

	t.Run("empty cells skipped", func(t *testing.T) {
		s := testkit.SheetFromRows("S", [][]string{
			{"CODE", "", "", "DESCRIPTION"},
		})
		cols := d.HeaderColumns(s, 1)
		assert.Equal(t, 1, cols[FieldDocCode])
		assert.Equal(t, 4, cols[FieldItemLocation])
		assert.Len(t, cols, 2)
	})
}

func TestIsScheduleSheet(t *testing.T) {
	d := NewSheetDetector()

	tests := []struct {
		name string
		rows [][]string
		want bool
	}{
		{
			name: "valid schedule",
			rows: [][]string{{"CODE", "DESCRIPTION", "QTY", "COST"}},
			want: true,
		},
		{
			name: "missing doc code",
			rows: [][]string{{"DESCRIPTION", "QTY", "COST"}},
			want: false,
		},
		{
			name: "doc code without support",
			rows: [][]string{{"CODE", "Random", "Stuff"}},
			want: false,
		},
		{
			name: "cover sheet",
			rows: [][]string{
				{"Job No.", "12345"},
				{"Job Name.", "Test Project"},
				{"Revision Date", "2024-01-01"},
			},
			want: false,
		},
		{
			name: "legend sheet",
			rows: [][]string{
				{"This sheet is not part of the schedule."},
				{},
				{},
				{"Key", "Value"},
				{"Date", "See cover sheet"},
			},
			want: false,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := testkit.SheetFromRows("S", tc.rows)
			assert.Equal(t, tc.want, d.IsScheduleSheet(s))
		})
	}
}

func TestScheduleSheets(t *testing.T) {
	d := NewSheetDetector()

	wb := testkit.WorkbookOf(
		testkit.SheetFromRows("Schedule 1", [][]string{
			{"CODE", "DESCRIPTION", "QTY"},
		}),
		testkit.SheetFromRows("Schedule 2", [][]string{
			{"SPEC CODE", "ITEM", "COST"},
		}),
		testkit.SheetFromRows("Cover", [][]string{
			{"Job No.", "12345"},
		}),
	)

	detected := d.ScheduleSheets(wb)
	require.Len(t, detected, 2)
	assert.Equal(t, "Schedule 1", detected[0].Sheet.Name)
	assert.Equal(t, 1, detected[0].HeaderRow)
	assert.Equal(t, "Schedule 2", detected[1].Sheet.Name)
	assert.Equal(t, 1, detected[1].HeaderRow)
}
