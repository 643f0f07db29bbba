package schedule

import (
	"strings"

	"schedex/models"
)

// HasMeaningfulFields reports whether a product carries any identifying
// content. Rows of pure formatting noise compose into all-nil products;
// those are dropped before deduplication.
func HasMeaningfulFields(p models.Product) bool {
	fields := []*string{
		p.DocCode,
		p.ProductName,
		p.Brand,
		p.Colour,
		p.Finish,
		p.Material,
		p.ProductDescription,
		p.ProductDetails,
	}
	for _, f := range fields {
		if f != nil && strings.TrimSpace(*f) != "" {
			return true
		}
	}
	return false
}

// DeduplicateProducts keeps the first product seen for each doc code,
// in input order. Codes compare trimmed; the kept product still shows
// its original code. Products without a usable code never group, so
// they all survive.
func DeduplicateProducts(products []models.Product) []models.Product {
	seen := make(map[string]bool, len(products))
	deduped := make([]models.Product, 0, len(products))

	for _, p := range products {
		code := ""
		if p.DocCode != nil {
			code = strings.TrimSpace(*p.DocCode)
		}
		if code == "" {
			deduped = append(deduped, p)
			continue
		}
		if seen[code] {
			continue
		}
		seen[code] = true
		deduped = append(deduped, p)
	}
	return deduped
}
