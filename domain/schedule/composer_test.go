package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schedex/domain/grid"
)

func strVal(t *testing.T, p *string, want string) {
	t.Helper()
	require.NotNil(t, p)
	assert.Equal(t, want, *p)
}

func floatVal(t *testing.T, p *float64, want float64) {
	t.Helper()
	require.NotNil(t, p)
	assert.InDelta(t, want, *p, 0.001)
}

func TestComposeSingleRowProduct(t *testing.T) {
	rec := RawRecord{
		RowNum:  6,
		Section: "FLOORING",
		Fields: map[string]grid.Cell{
			FieldDocCode:      grid.TextCell("FCA-01 A"),
			FieldItemLocation: grid.TextCell("Main Lobby Carpet"),
			FieldSpecs:        grid.TextCell("PRODUCT: ICONIC\nCODE: 50/2833\nSTYLE: TWIST\nCOLOUR: SILVER SHADOW\nWIDTH: 3660MM"),
			FieldManufacturer: grid.TextCell("EGE"),
			FieldQty:          grid.NumberCell(12),
			FieldCost:         grid.NumberCell(85.5),
		},
	}

	p := NewComposer().Compose(rec)

	strVal(t, p.DocCode, "FCA-01 A")
	strVal(t, p.ProductName, "ICONIC")
	strVal(t, p.Brand, "EGE")
	strVal(t, p.Colour, "SILVER SHADOW")
	mm(t, p.Width, 3660)
	assert.Nil(t, p.Length)
	assert.Nil(t, p.Height)
	mm(t, p.Qty, 12)
	floatVal(t, p.RRP, 85.5)
	strVal(t, p.ProductDescription, "FLOORING | Main Lobby Carpet")
	strVal(t, p.ProductDetails, "PRODUCT: ICONIC | CODE: 50/2833 | STYLE: TWIST")
	assert.Nil(t, p.FeatureImage)
}

func TestComposeManufacturerNameIsBrandNotProductName(t *testing.T) {
	rec := RawRecord{
		RowNum: 8,
		Fields: map[string]grid.Cell{
			FieldDocCode:      grid.TextCell("FTI-01 A"),
			FieldSpecs:        grid.TextCell("PRODUCT: BLINK\nCOLOUR: BLANCO\nFINISH: MATT\nDIMENSIONS- 600 W X 600 H MM"),
			FieldManufacturer: grid.TextCell("NAME: ARTEDOMUS\nTEL: 03 9419 6000"),
		},
	}

	p := NewComposer().Compose(rec)

	strVal(t, p.ProductName, "BLINK")
	strVal(t, p.Brand, "ARTEDOMUS")
	strVal(t, p.Colour, "BLANCO")
	strVal(t, p.Finish, "MATT")
	mm(t, p.Width, 600)
	mm(t, p.Height, 600)
	assert.Nil(t, p.Length)
	strVal(t, p.ProductDetails, "PRODUCT: BLINK | NAME: ARTEDOMUS | TEL: 03 9419 6000")
}

func TestComposeGroupedProduct(t *testing.T) {
	rec := RawRecord{
		RowNum:   12,
		ItemName: "Coffee Table",
		Fields: map[string]grid.Cell{
			FieldDocCode: grid.TextCell("F88"),
			FieldQty:     grid.TextCell("1"),
		},
		Details: []DetailRow{
			{RowNum: 13, Key: "maker", Value: "Eaglestone"},
			{RowNum: 14, Key: "name", Value: "Rectangular plinth coffee table"},
			{RowNum: 15, Key: "size", Value: "1200 W X 800 L X 330 H MM"},
			{RowNum: 16, Key: "lead time", Value: "8 weeks"},
		},
	}

	p := NewComposer().Compose(rec)

	strVal(t, p.DocCode, "F88")
	strVal(t, p.ProductName, "Rectangular plinth coffee table")
	strVal(t, p.Brand, "Eaglestone")
	mm(t, p.Width, 1200)
	mm(t, p.Length, 800)
	mm(t, p.Height, 330)
	mm(t, p.Qty, 1)
	strVal(t, p.ProductDetails, "MAKER: Eaglestone | NAME: Rectangular plinth coffee table | LEAD_TIME: 8 weeks")
}

func TestComposeItemNameFallback(t *testing.T) {
	rec := RawRecord{
		ItemName: "Side Table",
		Fields: map[string]grid.Cell{
			FieldDocCode: grid.TextCell("F65"),
		},
		Details: []DetailRow{
			{Key: "maker", Value: "Thomas Lentini"},
		},
	}

	p := NewComposer().Compose(rec)

	strVal(t, p.ProductName, "Side Table")
	strVal(t, p.Brand, "Thomas Lentini")
}

func TestComposeProductNameCellWins(t *testing.T) {
	rec := RawRecord{
		Fields: map[string]grid.Cell{
			FieldProductName: grid.TextCell("Atlas Chair"),
			FieldSpecs:       grid.TextCell("PRODUCT: SOMETHING ELSE"),
		},
	}

	p := NewComposer().Compose(rec)
	strVal(t, p.ProductName, "Atlas Chair")
}

func TestComposeDedicatedCellsBeatKV(t *testing.T) {
	rec := RawRecord{
		Fields: map[string]grid.Cell{
			FieldColour:   grid.TextCell("Navy"),
			FieldFinish:   grid.TextCell("Brushed"),
			FieldMaterial: grid.TextCell("Oak"),
			FieldWidth:    grid.TextCell("60 CM"),
			FieldSpecs:    grid.TextCell("COLOUR: RED\nFINISH: GLOSS\nMATERIAL: PINE\nWIDTH: 3660MM"),
		},
	}

	p := NewComposer().Compose(rec)

	strVal(t, p.Colour, "Navy")
	strVal(t, p.Finish, "Brushed")
	strVal(t, p.Material, "Oak")
	mm(t, p.Width, 600)
}

func TestComposeDimensionsFromRawSpecsText(t *testing.T) {
	rec := RawRecord{
		Fields: map[string]grid.Cell{
			FieldSpecs: grid.TextCell("Glazed porcelain tile\n600X600 MM\nRectified edge"),
		},
	}

	p := NewComposer().Compose(rec)

	mm(t, p.Width, 600)
	mm(t, p.Length, 600)
	assert.Nil(t, p.Height)
	strVal(t, p.ProductDescription, "Glazed porcelain tile | 600X600 MM | Rectified edge")
}

func TestComposeQuantitySources(t *testing.T) {
	t.Run("qty cell", func(t *testing.T) {
		rec := RawRecord{Fields: map[string]grid.Cell{FieldQty: grid.TextCell("2 + 2 spare")}}
		p := NewComposer().Compose(rec)
		mm(t, p.Qty, 2)
	})

	t.Run("kv fallback", func(t *testing.T) {
		rec := RawRecord{Fields: map[string]grid.Cell{FieldSpecs: grid.TextCell("QTY: 14")}}
		p := NewComposer().Compose(rec)
		mm(t, p.Qty, 14)
	})

	t.Run("quantity alias", func(t *testing.T) {
		rec := RawRecord{Fields: map[string]grid.Cell{FieldSpecs: grid.TextCell("QUANTITY: 6")}}
		p := NewComposer().Compose(rec)
		mm(t, p.Qty, 6)
	})

	t.Run("absent", func(t *testing.T) {
		p := NewComposer().Compose(RawRecord{})
		assert.Nil(t, p.Qty)
	})
}

func TestComposePriceSources(t *testing.T) {
	t.Run("numeric cost cell", func(t *testing.T) {
		rec := RawRecord{Fields: map[string]grid.Cell{FieldCost: grid.NumberCell(85.5)}}
		floatVal(t, NewComposer().Compose(rec).RRP, 85.5)
	})

	t.Run("text cost cell", func(t *testing.T) {
		rec := RawRecord{Fields: map[string]grid.Cell{FieldCost: grid.TextCell("$ 1,250.00")}}
		floatVal(t, NewComposer().Compose(rec).RRP, 1250)
	})

	t.Run("placeholder cost cell", func(t *testing.T) {
		rec := RawRecord{Fields: map[string]grid.Cell{FieldCost: grid.TextCell("TBC")}}
		assert.Nil(t, NewComposer().Compose(rec).RRP)
	})

	t.Run("trade price fallback", func(t *testing.T) {
		rec := RawRecord{Fields: map[string]grid.Cell{FieldTradePrice: grid.NumberCell(90)}}
		floatVal(t, NewComposer().Compose(rec).RRP, 90)
	})

	t.Run("kv fallback", func(t *testing.T) {
		rec := RawRecord{Fields: map[string]grid.Cell{FieldSpecs: grid.TextCell("RRP: 45.50")}}
		floatVal(t, NewComposer().Compose(rec).RRP, 45.5)
	})

	t.Run("negative numeric cell", func(t *testing.T) {
		rec := RawRecord{Fields: map[string]grid.Cell{FieldCost: grid.NumberCell(-5)}}
		assert.Nil(t, NewComposer().Compose(rec).RRP)
	})
}

func TestComposeFeatureImage(t *testing.T) {
	rec := RawRecord{Fields: map[string]grid.Cell{FieldImage: grid.TextCell("lobby_carpet.png")}}
	strVal(t, NewComposer().Compose(rec).FeatureImage, "lobby_carpet.png")
}

func TestComposeEmptyRecord(t *testing.T) {
	p := NewComposer().Compose(RawRecord{})

	assert.Nil(t, p.DocCode)
	assert.Nil(t, p.ProductName)
	assert.Nil(t, p.Brand)
	assert.Nil(t, p.Colour)
	assert.Nil(t, p.Finish)
	assert.Nil(t, p.Material)
	assert.Nil(t, p.Width)
	assert.Nil(t, p.Length)
	assert.Nil(t, p.Height)
	assert.Nil(t, p.Qty)
	assert.Nil(t, p.RRP)
	assert.Nil(t, p.FeatureImage)
	assert.Nil(t, p.ProductDescription)
	assert.Nil(t, p.ProductDetails)
}
