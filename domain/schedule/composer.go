package schedule

import (
	"strings"

	"schedex/domain/grid"
	"schedex/models"
)

// consumedKVKeys are merged KV keys already surfaced through their own
// product fields, so they stay out of product_details.
var consumedKVKeys = map[string]bool{
	"COLOUR":    true,
	"FINISH":    true,
	"MATERIAL":  true,
	"SIZE":      true,
	"WIDTH":     true,
	"LENGTH":    true,
	"HEIGHT":    true,
	"DEPTH":     true,
	"THICKNESS": true,
	"QTY":       true,
}

// dimensionKVKeys are rebuilt into "KEY: value" lines so the dimension
// parser sees KV-sourced measurements with their axis labels intact.
var dimensionKVKeys = []string{"WIDTH", "LENGTH", "HEIGHT", "DEPTH", "THICKNESS", "SIZE"}

// Composer assembles a normalized product from one raw record: its
// mapped cells, the KV blocks hiding in the specs and manufacturer
// text, and any grouped detail rows.
type Composer struct{}

func NewComposer() *Composer {
	return &Composer{}
}

// Compose builds the product for one extracted record. Field sourcing
// is by precedence: a dedicated mapped cell always beats KV content,
// and specs KV beats detail rows beats manufacturer KV.
func (c *Composer) Compose(rec RawRecord) models.Product {
	specsText := rec.Text(FieldSpecs)
	manuText := rec.Text(FieldManufacturer)

	specsKV := ParseKVBlock(specsText)
	detailKV := detailRowsKV(rec.Details)
	manuKV := ParseKVBlock(manuText)
	merged := MergeKV(specsKV, detailKV, manuKV)

	var p models.Product
	p.DocCode = optText(rec.Text(FieldDocCode))
	p.ProductName = c.productName(rec, MergeKV(specsKV, detailKV))
	p.Brand = c.brand(manuText, manuKV, merged)
	p.Colour = fieldOrKV(rec, FieldColour, merged, "COLOUR")
	p.Finish = fieldOrKV(rec, FieldFinish, merged, "FINISH")
	p.Material = fieldOrKV(rec, FieldMaterial, merged, "MATERIAL")
	p.Width, p.Length, p.Height = c.dimensions(rec, merged, specsText)
	p.Qty = c.quantity(rec, merged)
	p.RRP = c.price(rec, merged)
	p.FeatureImage = optText(rec.Text(FieldImage))
	p.ProductDescription = c.description(rec, specsText)
	p.ProductDetails = optText(merged.FormatDetails(consumedKVKeys))
	return p
}

// detailRowsKV lifts grouped detail rows into a KV block. Keys arrive
// lowercase from the extractor and normalize like any spec key.
func detailRowsKV(details []DetailRow) *KVBlock {
	b := newKVBlock()
	for _, d := range details {
		if d.Value == "" {
			continue
		}
		b.set(NormalizeKey(d.Key), d.Value)
	}
	return b
}

// productName resolves the display name. NAME inside the manufacturer
// block is the maker's name, so the KV lookup here only sees the specs
// and detail blocks.
func (c *Composer) productName(rec RawRecord, nameKV *KVBlock) *string {
	if v := rec.Text(FieldProductName); v != "" {
		return &v
	}
	if v, ok := nameKV.First("PRODUCT", "NAME", "ITEM"); ok {
		return &v
	}
	if rec.ItemName != "" {
		v := rec.ItemName
		return &v
	}
	return nil
}

// brand resolves the maker. Inside the manufacturer block NAME means
// the maker itself; elsewhere only explicit brand-like keys count. A
// manufacturer cell with no KV content is taken verbatim.
func (c *Composer) brand(manuText string, manuKV, merged *KVBlock) *string {
	if v, ok := manuKV.First("NAME", "BRAND", "MANUFACTURER", "MAKER", "SUPPLIER"); ok {
		return &v
	}
	if v, ok := merged.First("BRAND", "MANUFACTURER", "MAKER", "SUPPLIER"); ok {
		return &v
	}
	if manuText != "" && !HasKVContent(manuText) {
		for _, line := range strings.Split(manuText, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				return &line
			}
		}
	}
	return nil
}

// dimensions seeds width/length/height from their dedicated cells and
// then fills the gaps from KV measurements, the size cell, and finally
// the raw specs text. Later sources never override earlier ones.
func (c *Composer) dimensions(rec RawRecord, merged *KVBlock, specsText string) (*int, *int, *int) {
	width := dimFromCell(rec, FieldWidth)
	length := dimFromCell(rec, FieldLength)
	height := dimFromCell(rec, FieldHeight)

	var kvLines []string
	for _, key := range dimensionKVKeys {
		if v, ok := merged.Get(key); ok {
			kvLines = append(kvLines, key+": "+v)
		}
	}

	for _, text := range []string{strings.Join(kvLines, "\n"), rec.Text(FieldSize), specsText} {
		if width != nil && length != nil && height != nil {
			break
		}
		if text == "" {
			continue
		}
		d := ParseDimensions(text)
		if width == nil {
			width = d.Width
		}
		if length == nil {
			length = d.Length
		}
		if height == nil {
			height = d.Height
		}
	}
	return width, length, height
}

func dimFromCell(rec RawRecord, field string) *int {
	if v := rec.Text(field); v != "" {
		return parseNumberWithUnit(v)
	}
	return nil
}

// quantity reads the qty cell, falling back to a KV QTY entry.
func (c *Composer) quantity(rec RawRecord, merged *KVBlock) *int {
	text := rec.Text(FieldQty)
	if text == "" {
		if v, ok := merged.Get("QTY"); ok {
			text = v
		}
	}
	if text == "" {
		return nil
	}
	return ParseQty(text)
}

// price reads the cost cell, then the trade price cell, then KV price
// entries. Numeric cells are taken as-is; text goes through the price
// normalizer.
func (c *Composer) price(rec RawRecord, merged *KVBlock) *float64 {
	for _, field := range []string{FieldCost, FieldTradePrice} {
		cell := rec.CellFor(field)
		switch cell.Kind {
		case grid.KindNumber:
			if cell.Number >= 0 {
				v := cell.Number
				return &v
			}
		case grid.KindText:
			if v := ParsePrice(cell.Text); v != nil {
				return v
			}
		}
	}
	if v, ok := merged.First("RRP", "PRICE", "COST"); ok {
		return ParsePrice(v)
	}
	return nil
}

// description joins section, location, and the free-text spec lines
// that the KV parser left behind.
func (c *Composer) description(rec RawRecord, specsText string) *string {
	var parts []string
	if rec.Section != "" {
		parts = append(parts, rec.Section)
	}
	if v := rec.Text(FieldItemLocation); v != "" {
		parts = append(parts, v)
	}
	parts = append(parts, ExtractNonKVLines(specsText)...)
	return optText(strings.Join(parts, " | "))
}

// fieldOrKV prefers a mapped cell over a merged KV entry.
func fieldOrKV(rec RawRecord, field string, kv *KVBlock, key string) *string {
	if v := rec.Text(field); v != "" {
		return &v
	}
	if v, ok := kv.Get(key); ok {
		return &v
	}
	return nil
}

// optText returns nil for empty strings so absent values serialize as
// JSON null.
func optText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
