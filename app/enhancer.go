package app

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"schedex/models"
	"schedex/ports"
)

// Enrichment modes.
const (
	ModeFallback = "fallback"
	ModeRefine   = "refine"
)

const (
	defaultMinMissingFields = 3
	defaultBatchSize        = 5
	defaultConcurrency      = 2
)

// EnhancementItem pairs a heuristic product with the raw text and
// context the enricher sees.
type EnhancementItem struct {
	Product models.Product
	RawText string
	Context models.EnrichmentContext
}

// EnhancerConfig tunes the enrichment stage.
type EnhancerConfig struct {
	Mode             string
	MinMissingFields int
	BatchSize        int
	Concurrency      int64
}

// ProductEnhancer applies enricher patches to heuristic products. In
// fallback mode only products missing enough key fields are sent and
// patches fill gaps; in refine mode every product is sent and patch
// values override.
type ProductEnhancer struct {
	enricher         ports.Enricher
	mode             string
	minMissingFields int
	batchSize        int
	concurrency      int64
}

func NewProductEnhancer(enricher ports.Enricher, cfg EnhancerConfig) *ProductEnhancer {
	mode := cfg.Mode
	if mode != ModeRefine {
		mode = ModeFallback
	}
	minMissing := cfg.MinMissingFields
	if minMissing <= 0 {
		minMissing = defaultMinMissingFields
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &ProductEnhancer{
		enricher:         enricher,
		mode:             mode,
		minMissingFields: minMissing,
		batchSize:        batchSize,
		concurrency:      concurrency,
	}
}

// Enhance applies the stage to a single product. Enricher failures
// keep the heuristic product untouched.
func (e *ProductEnhancer) Enhance(ctx context.Context, item EnhancementItem) models.Product {
	if e.enricher == nil {
		return item.Product
	}
	if e.mode == ModeFallback && countMissingFields(item.Product) < e.minMissingFields {
		return item.Product
	}
	patch, err := e.enricher.EnrichProduct(ctx, item.RawText, item.Context)
	if err != nil {
		log.Printf("[ProductEnhancer] Enrichment failed for sheet %q row %d: %v", item.Context.SheetName, item.Context.RowNum, err)
		return item.Product
	}
	return applyPatch(item.Product, patch, e.mode == ModeRefine)
}

// EnhanceBatch applies the stage to every item, preserving input
// order. Selected items go to the enricher in batches that run
// concurrently under a weighted semaphore; a failed or cancelled
// batch keeps its heuristic products.
func (e *ProductEnhancer) EnhanceBatch(ctx context.Context, items []EnhancementItem) []models.Product {
	products := make([]models.Product, len(items))
	for i, item := range items {
		products[i] = item.Product
	}
	if len(items) == 0 || e.enricher == nil {
		return products
	}

	var selected []int
	if e.mode == ModeRefine {
		selected = make([]int, len(items))
		for i := range items {
			selected[i] = i
		}
	} else {
		for i, item := range items {
			if countMissingFields(item.Product) >= e.minMissingFields {
				selected = append(selected, i)
			}
		}
	}
	if len(selected) == 0 {
		return products
	}

	start := time.Now()
	log.Printf("[ProductEnhancer] Enriching %d of %d products (mode=%s, batchSize=%d, concurrency=%d)",
		len(selected), len(items), e.mode, e.batchSize, e.concurrency)

	sem := semaphore.NewWeighted(e.concurrency)
	var wg sync.WaitGroup
	override := e.mode == ModeRefine

	for batchStart := 0; batchStart < len(selected); batchStart += e.batchSize {
		batchEnd := batchStart + e.batchSize
		if batchEnd > len(selected) {
			batchEnd = len(selected)
		}
		batch := selected[batchStart:batchEnd]

		if err := ctx.Err(); err != nil {
			log.Printf("[ProductEnhancer] Stopping enrichment: %v", err)
			break
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Printf("[ProductEnhancer] Stopping enrichment: %v", err)
			break
		}
		wg.Add(1)
		go func(indices []int) {
			defer wg.Done()
			defer sem.Release(1)

			batchItems := make([]models.EnrichmentItem, len(indices))
			for bi, idx := range indices {
				batchItems[bi] = models.EnrichmentItem{RawText: items[idx].RawText, Context: items[idx].Context}
			}
			patches, err := e.enricher.EnrichBatch(ctx, batchItems)
			if err != nil {
				log.Printf("[ProductEnhancer] Batch of %d failed, keeping heuristic values: %v", len(indices), err)
				return
			}
			for bi, idx := range indices {
				if bi < len(patches) {
					products[idx] = applyPatch(items[idx].Product, patches[bi], override)
				}
			}
		}(batch)
	}
	wg.Wait()

	log.Printf("[ProductEnhancer] Enrichment finished in %.2fms", float64(time.Since(start).Nanoseconds())/1e6)
	return products
}

// countMissingFields counts the nil key fields that identify a
// product: name, brand, colour, finish, material.
func countMissingFields(p models.Product) int {
	missing := 0
	for _, field := range []*string{p.ProductName, p.Brand, p.Colour, p.Finish, p.Material} {
		if field == nil {
			missing++
		}
	}
	return missing
}

// applyPatch merges a patch into a product. With override false patch
// values only fill nil fields; with override true they win.
func applyPatch(p models.Product, patch models.ProductPatch, override bool) models.Product {
	if patch.ProductName != nil && (override || p.ProductName == nil) {
		p.ProductName = patch.ProductName
	}
	if patch.Brand != nil && (override || p.Brand == nil) {
		p.Brand = patch.Brand
	}
	if patch.Colour != nil && (override || p.Colour == nil) {
		p.Colour = patch.Colour
	}
	if patch.Finish != nil && (override || p.Finish == nil) {
		p.Finish = patch.Finish
	}
	if patch.Material != nil && (override || p.Material == nil) {
		p.Material = patch.Material
	}
	if patch.Width != nil && (override || p.Width == nil) {
		p.Width = patch.Width
	}
	if patch.Length != nil && (override || p.Length == nil) {
		p.Length = patch.Length
	}
	if patch.Height != nil && (override || p.Height == nil) {
		p.Height = patch.Height
	}
	if patch.Qty != nil && (override || p.Qty == nil) {
		p.Qty = patch.Qty
	}
	if patch.RRP != nil && (override || p.RRP == nil) {
		p.RRP = patch.RRP
	}
	return p
}
