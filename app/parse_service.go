package app

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"schedex/domain/core"
	"schedex/domain/grid"
	"schedex/domain/schedule"
	"schedex/models"
	"schedex/ports"
)

// supportingColumns mark a mapped sheet as a real schedule rather than
// an index or notes page. At least one must be present alongside a
// doc_code or product_name column.
var supportingColumns = []string{
	schedule.FieldItemLocation,
	schedule.FieldSpecs,
	schedule.FieldManufacturer,
	schedule.FieldNotes,
	schedule.FieldQty,
	schedule.FieldCost,
	schedule.FieldProductName,
}

// rawTextColumns feed the enricher prompt for one product, in reading
// order.
var rawTextColumns = []string{
	schedule.FieldItemLocation,
	schedule.FieldSpecs,
	schedule.FieldManufacturer,
	schedule.FieldNotes,
	schedule.FieldProductName,
}

// Header spellings that reappear when a sheet repeats its header after
// a page break. A row is a repeated header when its doc_code cell is
// one of these and at least two other cells match their column's
// header vocabulary.
var repeatedHeaderDocCodes = map[string]bool{
	"spec code": true, "doc code": true, "drawing code": true, "code": true,
	"ref": true, "ref no": true, "reference": true, "id": true, "sku": true,
	"item code": true, "product code": true,
}

var repeatedHeaderPatterns = map[string]map[string]bool{
	schedule.FieldItemLocation: {
		"item & location": true, "item and location": true, "area": true,
		"room": true, "location": true, "description": true,
	},
	schedule.FieldSpecs: {
		"specification": true, "specifications": true, "specs": true,
		"notes/comments": true, "details": true, "spec": true,
	},
	schedule.FieldManufacturer: {
		"manufacturer": true, "supplier": true, "brand": true,
		"vendor": true, "maker": true, "manufacturer / supplier": true,
	},
	schedule.FieldNotes: {
		"notes": true, "comments": true, "remarks": true,
	},
	schedule.FieldQty: {
		"qty": true, "quantity": true, "units": true, "no.": true, "no": true,
	},
	schedule.FieldCost: {
		"cost": true, "rrp": true, "price": true, "indicative cost": true,
		"cost per unit": true, "unit price": true, "unit cost": true, "$": true,
	},
}

// ParseService orchestrates the extraction pipeline for one workbook:
// naming, per-sheet detection and extraction, composition, optional
// enrichment, and deduplication.
type ParseService struct {
	namer     *schedule.ScheduleNamer
	detector  *schedule.SheetDetector
	mapper    *schedule.ColumnMapper
	extractor *schedule.RowExtractor
	composer  *schedule.Composer
	enhancer  *ProductEnhancer
	enrich    bool
	runs      ports.ParseRunRepository
}

// NewParseService creates a parse service. The enhancer and run
// repository are optional; without them the service is heuristic-only
// and records nothing.
func NewParseService(enhancer *ProductEnhancer, enrich bool, runs ports.ParseRunRepository) *ParseService {
	return &ParseService{
		namer:     schedule.NewScheduleNamer(),
		detector:  schedule.NewSheetDetector(),
		mapper:    schedule.NewColumnMapper(),
		extractor: schedule.NewRowExtractor(),
		composer:  schedule.NewComposer(),
		enhancer:  enhancer,
		enrich:    enrich,
		runs:      runs,
	}
}

// ParseWorkbook runs the full pipeline over a loaded workbook. Sheets
// without a recognizable schedule header are skipped; row-level
// problems degrade to nil fields rather than failing the parse.
func (s *ParseService) ParseWorkbook(ctx context.Context, wb *grid.Workbook, filename string) *models.ScheduleResponse {
	start := time.Now()
	runID := core.NewUUID()
	ctx = core.WithParseRun(ctx, runID)

	scheduleName := s.namer.ScheduleName(wb, filename)

	var collected []EnhancementItem
	sheetCount := 0

	for _, sheet := range wb.Sheets {
		grid.FillMergedRegions(sheet)

		headerRow, ok := s.detector.FindHeaderRow(sheet)
		if !ok {
			continue
		}
		colMap := s.mapper.MapColumns(sheet, headerRow)

		_, hasCode := colMap[schedule.FieldDocCode]
		_, hasName := colMap[schedule.FieldProductName]
		if !hasCode && !hasName {
			continue
		}
		if !hasSupportingColumn(colMap) {
			continue
		}
		sheetCount++

		records := s.extractor.Extract(sheet, headerRow, colMap)
		sheetProducts := 0
		for _, rec := range records {
			if looksLikeRepeatedHeader(rec) {
				continue
			}
			product := s.composer.Compose(rec)
			if !schedule.HasMeaningfulFields(product) {
				continue
			}
			collected = append(collected, EnhancementItem{
				Product: product,
				RawText: buildRawText(rec),
				Context: models.EnrichmentContext{
					SheetName:   sheet.Name,
					RowNum:      rec.RowNum,
					Description: stringValue(product.ProductDescription),
				},
			})
			sheetProducts++
		}
		log.Printf("[ParseService] Sheet %q: header row %d, %d columns mapped, %d products", sheet.Name, headerRow, len(colMap), sheetProducts)
	}

	var products []models.Product
	if s.enrich && s.enhancer != nil && len(collected) > 0 {
		products = s.enhancer.EnhanceBatch(ctx, collected)
	} else {
		products = make([]models.Product, len(collected))
		for i, item := range collected {
			products[i] = item.Product
		}
	}

	products = schedule.DeduplicateProducts(products)

	elapsed := time.Since(start)
	log.Printf("[ParseService] Parsed %q: %d products from %d schedule sheets in %.2fms",
		filename, len(products), sheetCount, float64(elapsed.Nanoseconds())/1e6)

	s.recordRun(ctx, runID, filename, scheduleName, sheetCount, len(products), elapsed)

	return &models.ScheduleResponse{ScheduleName: scheduleName, Products: products}
}

func (s *ParseService) recordRun(ctx context.Context, runID uuid.UUID, filename, scheduleName string, sheets, products int, elapsed time.Duration) {
	if s.runs == nil {
		return
	}
	run := &models.ParseRun{
		ID:           runID,
		Filename:     filename,
		ScheduleName: scheduleName,
		SheetCount:   sheets,
		ProductCount: products,
		DurationMS:   elapsed.Milliseconds(),
		Enriched:     s.enrich,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.runs.RecordRun(ctx, run); err != nil {
		log.Printf("[ParseService] Failed to record parse run: %v", err)
	}
}

func hasSupportingColumn(colMap map[string]int) bool {
	for _, field := range supportingColumns {
		if _, ok := colMap[field]; ok {
			return true
		}
	}
	return false
}

func buildRawText(rec schedule.RawRecord) string {
	var parts []string
	for _, field := range rawTextColumns {
		if text := rec.Text(field); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " | ")
}

func looksLikeRepeatedHeader(rec schedule.RawRecord) bool {
	docCode := strings.ToLower(rec.Text(schedule.FieldDocCode))
	if docCode == "" || !repeatedHeaderDocCodes[docCode] {
		return false
	}
	matches := 0
	for field, values := range repeatedHeaderPatterns {
		if text := strings.ToLower(rec.Text(field)); text != "" && values[text] {
			matches++
		}
	}
	return matches >= 2
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
