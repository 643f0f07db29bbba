// Package report computes extraction-quality summaries for parsed
// schedules: per-field fill rates and the price distribution.
package report

import (
	"fmt"
	"strings"

	"github.com/montanaflynn/stats"

	"schedex/models"
)

// FieldFill is the fill rate of one product field across a schedule.
type FieldFill struct {
	Field  string  `json:"field"`
	Filled int     `json:"filled"`
	Rate   float64 `json:"rate"`
}

// PriceStats summarizes the RRP distribution of a schedule.
type PriceStats struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P90    float64 `json:"p90"`
	StdDev float64 `json:"std_dev"`
	Total  float64 `json:"total"`
}

// QualityReport is the extraction-quality summary for one parse.
type QualityReport struct {
	ScheduleName string      `json:"schedule_name"`
	ProductCount int         `json:"product_count"`
	Dimensioned  int         `json:"dimensioned"`
	FieldFill    []FieldFill `json:"field_fill"`
	Price        *PriceStats `json:"price,omitempty"`
}

// Build computes the quality report for a parse response.
func Build(resp *models.ScheduleResponse) QualityReport {
	r := QualityReport{
		ScheduleName: resp.ScheduleName,
		ProductCount: len(resp.Products),
	}

	fields := []struct {
		name   string
		filled func(p models.Product) bool
	}{
		{"doc_code", func(p models.Product) bool { return p.DocCode != nil }},
		{"product_name", func(p models.Product) bool { return p.ProductName != nil }},
		{"brand", func(p models.Product) bool { return p.Brand != nil }},
		{"colour", func(p models.Product) bool { return p.Colour != nil }},
		{"finish", func(p models.Product) bool { return p.Finish != nil }},
		{"material", func(p models.Product) bool { return p.Material != nil }},
		{"width", func(p models.Product) bool { return p.Width != nil }},
		{"length", func(p models.Product) bool { return p.Length != nil }},
		{"height", func(p models.Product) bool { return p.Height != nil }},
		{"qty", func(p models.Product) bool { return p.Qty != nil }},
		{"rrp", func(p models.Product) bool { return p.RRP != nil }},
	}

	var prices []float64
	for _, p := range resp.Products {
		if p.Width != nil || p.Length != nil || p.Height != nil {
			r.Dimensioned++
		}
		if p.RRP != nil {
			prices = append(prices, *p.RRP)
		}
	}

	for _, f := range fields {
		filled := 0
		for _, p := range resp.Products {
			if f.filled(p) {
				filled++
			}
		}
		rate := 0.0
		if len(resp.Products) > 0 {
			rate = float64(filled) / float64(len(resp.Products))
		}
		r.FieldFill = append(r.FieldFill, FieldFill{Field: f.name, Filled: filled, Rate: rate})
	}

	r.Price = priceStats(prices)
	return r
}

// priceStats computes the RRP distribution. Returns nil when no product
// carries a price.
func priceStats(prices []float64) *PriceStats {
	if len(prices) == 0 {
		return nil
	}

	ps := &PriceStats{Count: len(prices)}

	min, err := stats.Min(prices)
	if err != nil {
		return nil
	}
	max, err := stats.Max(prices)
	if err != nil {
		return nil
	}
	mean, err := stats.Mean(prices)
	if err != nil {
		return nil
	}
	median, err := stats.Median(prices)
	if err != nil {
		return nil
	}
	p90, err := stats.Percentile(prices, 90)
	if err != nil {
		return nil
	}
	total, err := stats.Sum(prices)
	if err != nil {
		return nil
	}

	sd, err := stats.StandardDeviation(prices)
	if err != nil {
		return nil
	}

	ps.Min = min
	ps.Max = max
	ps.Mean = mean
	ps.Median = median
	ps.P90 = p90
	ps.Total = total
	ps.StdDev = sd
	return ps
}

// FormatText renders the report as aligned plain text for terminal use.
func (r QualityReport) FormatText() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Schedule: %s\n", r.ScheduleName)
	fmt.Fprintf(&b, "Products: %d (%d with dimensions)\n", r.ProductCount, r.Dimensioned)
	b.WriteString("\nField fill rates:\n")
	for _, f := range r.FieldFill {
		fmt.Fprintf(&b, "  %-14s %4d/%d  %5.1f%%\n", f.Field, f.Filled, r.ProductCount, f.Rate*100)
	}

	if r.Price != nil {
		b.WriteString("\nPrices:\n")
		fmt.Fprintf(&b, "  count  %d\n", r.Price.Count)
		fmt.Fprintf(&b, "  min    %.2f\n", r.Price.Min)
		fmt.Fprintf(&b, "  median %.2f\n", r.Price.Median)
		fmt.Fprintf(&b, "  mean   %.2f\n", r.Price.Mean)
		fmt.Fprintf(&b, "  p90    %.2f\n", r.Price.P90)
		fmt.Fprintf(&b, "  max    %.2f\n", r.Price.Max)
		fmt.Fprintf(&b, "  total  %.2f\n", r.Price.Total)
	}

	return b.String()
}
