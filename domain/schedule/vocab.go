// Package schedule turns spreadsheet grids into normalized product
// records. The pipeline runs header detection, column mapping, row
// extraction, key/value field parsing, normalization, composition and
// deduplication, in that order. Each stage is a small value type with
// injected vocabulary so behavior stays deterministic across runs.
package schedule

import (
	"regexp"
	"strings"
)

// Canonical field names produced by header matching and column mapping.
const (
	FieldDocCode        = "doc_code"
	FieldImage          = "image"
	FieldItemLocation   = "item_location"
	FieldProductName    = "product_name"
	FieldSpecs          = "specs"
	FieldManufacturer   = "manufacturer"
	FieldNotes          = "notes"
	FieldQty            = "qty"
	FieldCost           = "cost"
	FieldTotalCost      = "total_cost"
	FieldFinish         = "finish"
	FieldMaterial       = "material"
	FieldColour         = "colour"
	FieldWidth          = "width"
	FieldLength         = "length"
	FieldHeight         = "height"
	FieldSize           = "size"
	FieldLeadTime       = "lead_time"
	FieldClientDiscount = "client_discount"
	FieldClientSignoff  = "client_signoff"
	FieldTradePrice     = "trade_price"
)

// VocabEntry pairs a canonical field name with the header spellings that
// identify it.
type VocabEntry struct {
	Canonical string
	Synonyms  []string
}

// Vocabulary is an ordered header vocabulary. Registration order is
// significant: when two canonicals could claim the same header text, the
// earlier entry wins. Instances are immutable after construction.
type Vocabulary struct {
	entries []VocabEntry
	direct  map[string]string
}

// NewVocabulary builds a Vocabulary from entries, preserving order.
// Duplicate synonyms keep their first registration.
func NewVocabulary(entries []VocabEntry) *Vocabulary {
	v := &Vocabulary{
		entries: entries,
		direct:  make(map[string]string),
	}
	for _, e := range entries {
		for _, s := range e.Synonyms {
			if _, ok := v.direct[s]; !ok {
				v.direct[s] = e.Canonical
			}
		}
	}
	return v
}

// Entries returns the vocabulary entries in registration order. Callers
// must not mutate the result.
func (v *Vocabulary) Entries() []VocabEntry { return v.entries }

// Canonical returns the canonical name for an exactly matching normalized
// header.
func (v *Vocabulary) Canonical(normalized string) (string, bool) {
	c, ok := v.direct[normalized]
	return c, ok
}

// Len returns the number of registered synonyms across all entries.
func (v *Vocabulary) Len() int { return len(v.direct) }

// DetectorVocabulary returns the header vocabulary used to locate header
// rows. It is narrower than the mapper vocabulary: a header row is
// identified by its strongest signals, while column mapping can afford
// looser spellings.
func DetectorVocabulary() *Vocabulary {
	return NewVocabulary([]VocabEntry{
		{Canonical: FieldDocCode, Synonyms: []string{
			"spec code", "code", "ref", "reference", "item code", "product code", "sku", "id",
		}},
		{Canonical: FieldImage, Synonyms: []string{
			"image", "photo", "indicative image", "picture", "item image", "img", "thumbnail",
		}},
		{Canonical: FieldItemLocation, Synonyms: []string{
			"location", "description", "item & location", "item and location", "area", "room", "space",
		}},
		{Canonical: FieldProductName, Synonyms: []string{
			"product name", "item name",
		}},
		{Canonical: FieldSpecs, Synonyms: []string{
			"specification", "specifications", "specs", "notes/comments", "details", "spec",
		}},
		{Canonical: FieldManufacturer, Synonyms: []string{
			"manufacturer", "supplier", "brand", "vendor", "maker",
			"manufacturer / supplier", "manufacturer/supplier", "make", "company",
		}},
		{Canonical: FieldNotes, Synonyms: []string{
			"notes", "comments", "remarks", "note", "comment",
		}},
		{Canonical: FieldQty, Synonyms: []string{
			"qty", "quantity", "count", "units", "no.", "number",
		}},
		{Canonical: FieldCost, Synonyms: []string{
			"cost", "rrp", "price", "indicative cost", "cost per unit", "total cost",
			"$", "unit price", "unit cost", "amount", "value",
		}},
	})
}

// MapperVocabulary returns the full column vocabulary used to map every
// header cell of a detected header row to a canonical field.
func MapperVocabulary() *Vocabulary {
	return NewVocabulary([]VocabEntry{
		{Canonical: FieldDocCode, Synonyms: []string{
			"spec code", "code", "ref", "reference", "item code", "product code", "sku", "id",
			"item ref", "product ref", "item no", "item number", "product no", "product number",
		}},
		{Canonical: FieldProductName, Synonyms: []string{
			"product name", "item name", "product", "name", "item",
		}},
		{Canonical: FieldImage, Synonyms: []string{
			"image", "photo", "indicative image", "picture", "item image", "img", "thumbnail",
			"product image", "finish image", "feature image",
		}},
		{Canonical: FieldItemLocation, Synonyms: []string{
			"location", "description", "item & location", "item and location", "area", "room", "space",
			"item/location", "item description", "product description",
		}},
		{Canonical: FieldSpecs, Synonyms: []string{
			"specification", "specifications", "specs", "notes/comments", "details", "spec",
			"product details", "product specs", "technical specs", "technical specifications",
		}},
		{Canonical: FieldManufacturer, Synonyms: []string{
			"manufacturer", "supplier", "brand", "vendor", "maker",
			"manufacturer / supplier", "manufacturer/supplier", "make", "company",
			"manufacturer & supplier", "manufacturer and supplier", "supplier/manufacturer",
		}},
		{Canonical: FieldNotes, Synonyms: []string{
			"notes", "comments", "remarks", "note", "comment",
			"additional notes", "additional comments", "notes (supplier",
		}},
		{Canonical: FieldQty, Synonyms: []string{
			"qty", "quantity", "count", "units", "no.", "number", "amount",
			"pcs", "pieces", "unit qty", "unit quantity",
		}},
		{Canonical: FieldCost, Synonyms: []string{
			"cost", "rrp", "price", "indicative cost", "cost per unit", "cost per unit $",
			"$", "unit price", "unit cost", "value", "rate", "unit rate", "each", "per unit",
		}},
		{Canonical: FieldTotalCost, Synonyms: []string{
			"total cost", "total cost $", "total price", "total value",
			"extended cost", "extended price", "line total", "subtotal", "sub total",
		}},
		{Canonical: FieldFinish, Synonyms: []string{
			"finish", "surface", "surface finish", "coating", "treatment",
		}},
		{Canonical: FieldMaterial, Synonyms: []string{
			"material", "composition", "species", "substrate", "base material",
		}},
		{Canonical: FieldColour, Synonyms: []string{
			"colour", "color", "col", "shade", "tint",
		}},
		{Canonical: FieldWidth, Synonyms: []string{
			"width", "w", "wide",
		}},
		{Canonical: FieldLength, Synonyms: []string{
			"length", "l", "len", "long", "depth", "d",
		}},
		{Canonical: FieldHeight, Synonyms: []string{
			"height", "h", "ht", "thickness", "thk",
		}},
		{Canonical: FieldSize, Synonyms: []string{
			"size", "dimensions", "dims", "dim", "measurements",
		}},
		{Canonical: FieldLeadTime, Synonyms: []string{
			"lead time", "leadtime", "delivery", "delivery time", "eta", "availability",
		}},
		{Canonical: FieldClientDiscount, Synonyms: []string{
			"customer discount", "client discount", "discount", "disc", "disc %", "discount %",
		}},
		{Canonical: FieldClientSignoff, Synonyms: []string{
			"client initials", "client sign off", "client signoff", "sign off", "signoff",
			"approval", "approved", "initials",
		}},
		{Canonical: FieldTradePrice, Synonyms: []string{
			"trade", "trade $", "trade price", "trade cost", "wholesale", "wholesale price",
		}},
	})
}

var headerSpaceRE = regexp.MustCompile(`\s+`)

// normalizeHeader lowercases text, collapses whitespace runs to single
// spaces and strips trailing punctuation commonly found in headers.
func normalizeHeader(text string) string {
	t := strings.ToLower(strings.TrimSpace(text))
	t = headerSpaceRE.ReplaceAllString(t, " ")
	t = strings.TrimRight(t, ":.-")
	return strings.TrimSpace(t)
}

// normalizeHeaderFirstLine normalizes only the first line of a header
// cell. Multi-line headers often carry units or examples below the label.
func normalizeHeaderFirstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return normalizeHeader(text)
}
