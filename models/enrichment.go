package models

// ProductPatch represents the optional field values an enricher
// proposes for one product. Nil fields propose nothing.
type ProductPatch struct {
	ProductName *string  `json:"product_name"`
	Brand       *string  `json:"brand"`
	Colour      *string  `json:"colour"`
	Finish      *string  `json:"finish"`
	Material    *string  `json:"material"`
	Width       *int     `json:"width"`
	Length      *int     `json:"length"`
	Height      *int     `json:"height"`
	Qty         *int     `json:"qty"`
	RRP         *float64 `json:"rrp"`
}

// IsEmpty reports whether the patch proposes no values at all.
func (p ProductPatch) IsEmpty() bool {
	return p.ProductName == nil && p.Brand == nil && p.Colour == nil &&
		p.Finish == nil && p.Material == nil && p.Width == nil &&
		p.Length == nil && p.Height == nil && p.Qty == nil && p.RRP == nil
}

// EnrichmentContext carries where a product came from, for prompt
// grounding and usage attribution.
type EnrichmentContext struct {
	SheetName   string `json:"sheet_name"`
	RowNum      int    `json:"row_num"`
	Description string `json:"description,omitempty"`
}

// EnrichmentItem pairs a product's raw cell text with its context for
// batch enrichment.
type EnrichmentItem struct {
	RawText string
	Context EnrichmentContext
}
