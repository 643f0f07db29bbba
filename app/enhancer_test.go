package app

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schedex/models"
)

type stubEnricher struct {
	mu      sync.Mutex
	batches [][]models.EnrichmentItem
	singles int
	patch   models.ProductPatch
	err     error
}

func (s *stubEnricher) EnrichProduct(ctx context.Context, rawText string, ec models.EnrichmentContext) (models.ProductPatch, error) {
	s.mu.Lock()
	s.singles++
	s.mu.Unlock()
	if s.err != nil {
		return models.ProductPatch{}, s.err
	}
	return s.patch, nil
}

func (s *stubEnricher) EnrichBatch(ctx context.Context, items []models.EnrichmentItem) ([]models.ProductPatch, error) {
	s.mu.Lock()
	s.batches = append(s.batches, items)
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	patches := make([]models.ProductPatch, len(items))
	for i := range patches {
		patches[i] = s.patch
	}
	return patches, nil
}

func strPtr(s string) *string { return &s }

func fullProduct() models.Product {
	return models.Product{
		ProductName: strPtr("ICONIC"),
		Brand:       strPtr("EGE"),
		Colour:      strPtr("SILVER SHADOW"),
		Finish:      strPtr("MATT"),
		Material:    strPtr("WOOL"),
	}
}

func TestEnhanceBatchFallbackSelectsSparse(t *testing.T) {
	stub := &stubEnricher{patch: models.ProductPatch{Brand: strPtr("ACME")}}
	e := NewProductEnhancer(stub, EnhancerConfig{})

	items := []EnhancementItem{
		{Product: fullProduct(), RawText: "full"},
		{Product: models.Product{}, RawText: "sparse"},
	}
	out := e.EnhanceBatch(context.Background(), items)

	require.Len(t, out, 2)
	assert.Equal(t, "EGE", *out[0].Brand)
	require.NotNil(t, out[1].Brand)
	assert.Equal(t, "ACME", *out[1].Brand)

	require.Len(t, stub.batches, 1)
	require.Len(t, stub.batches[0], 1)
	assert.Equal(t, "sparse", stub.batches[0][0].RawText)
}

func TestEnhanceBatchFallbackFillsGapsOnly(t *testing.T) {
	stub := &stubEnricher{patch: models.ProductPatch{
		ProductName: strPtr("LLM NAME"),
		Brand:       strPtr("ACME"),
	}}
	e := NewProductEnhancer(stub, EnhancerConfig{Mode: ModeFallback})

	items := []EnhancementItem{{Product: models.Product{ProductName: strPtr("HEURISTIC")}}}
	out := e.EnhanceBatch(context.Background(), items)

	assert.Equal(t, "HEURISTIC", *out[0].ProductName)
	require.NotNil(t, out[0].Brand)
	assert.Equal(t, "ACME", *out[0].Brand)
}

func TestEnhanceBatchRefineOverrides(t *testing.T) {
	stub := &stubEnricher{patch: models.ProductPatch{ProductName: strPtr("REFINED")}}
	e := NewProductEnhancer(stub, EnhancerConfig{Mode: ModeRefine})

	items := []EnhancementItem{{Product: fullProduct()}}
	out := e.EnhanceBatch(context.Background(), items)

	assert.Equal(t, "REFINED", *out[0].ProductName)
	assert.Equal(t, "EGE", *out[0].Brand)
	require.Len(t, stub.batches, 1)
}

func TestEnhanceBatchKeepsHeuristicOnError(t *testing.T) {
	stub := &stubEnricher{err: errors.New("provider down")}
	e := NewProductEnhancer(stub, EnhancerConfig{Mode: ModeRefine})

	items := []EnhancementItem{
		{Product: fullProduct()},
		{Product: models.Product{DocCode: strPtr("A1")}},
	}
	out := e.EnhanceBatch(context.Background(), items)

	require.Len(t, out, 2)
	assert.Equal(t, "ICONIC", *out[0].ProductName)
	require.NotNil(t, out[1].DocCode)
	assert.Equal(t, "A1", *out[1].DocCode)
	assert.Nil(t, out[1].Brand)
}

func TestEnhanceBatchSplitsBatches(t *testing.T) {
	stub := &stubEnricher{patch: models.ProductPatch{Brand: strPtr("ACME")}}
	e := NewProductEnhancer(stub, EnhancerConfig{BatchSize: 3, Concurrency: 2})

	items := make([]EnhancementItem, 7)
	out := e.EnhanceBatch(context.Background(), items)

	require.Len(t, out, 7)
	for _, p := range out {
		require.NotNil(t, p.Brand)
	}

	var sizes []int
	for _, b := range stub.batches {
		sizes = append(sizes, len(b))
	}
	sort.Ints(sizes)
	assert.Equal(t, []int{1, 3, 3}, sizes)
}

func TestEnhanceBatchCancelledContext(t *testing.T) {
	stub := &stubEnricher{patch: models.ProductPatch{Brand: strPtr("ACME")}}
	e := NewProductEnhancer(stub, EnhancerConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := []EnhancementItem{{Product: models.Product{}}}
	out := e.EnhanceBatch(ctx, items)

	require.Len(t, out, 1)
	assert.Nil(t, out[0].Brand)
	assert.Empty(t, stub.batches)
}

func TestEnhanceSingle(t *testing.T) {
	stub := &stubEnricher{patch: models.ProductPatch{Brand: strPtr("ACME")}}
	e := NewProductEnhancer(stub, EnhancerConfig{})

	out := e.Enhance(context.Background(), EnhancementItem{Product: fullProduct()})
	assert.Equal(t, "EGE", *out.Brand)
	assert.Equal(t, 0, stub.singles)

	out = e.Enhance(context.Background(), EnhancementItem{Product: models.Product{}})
	require.NotNil(t, out.Brand)
	assert.Equal(t, "ACME", *out.Brand)
	assert.Equal(t, 1, stub.singles)
}

func TestApplyPatchFillsDimensions(t *testing.T) {
	w, l, h := 1200, 800, 330
	patch := models.ProductPatch{Width: &w, Length: &l, Height: &h}

	out := applyPatch(models.Product{}, patch, false)

	require.NotNil(t, out.Width)
	assert.Equal(t, 1200, *out.Width)
	require.NotNil(t, out.Length)
	assert.Equal(t, 800, *out.Length)
	require.NotNil(t, out.Height)
	assert.Equal(t, 330, *out.Height)

	kept := 999
	out = applyPatch(models.Product{Width: &kept}, patch, false)
	assert.Equal(t, 999, *out.Width)
	out = applyPatch(models.Product{Width: &kept}, patch, true)
	assert.Equal(t, 1200, *out.Width)
}

func TestCountMissingFields(t *testing.T) {
	assert.Equal(t, 0, countMissingFields(fullProduct()))
	assert.Equal(t, 5, countMissingFields(models.Product{}))
	assert.Equal(t, 3, countMissingFields(models.Product{
		ProductName: strPtr("ICONIC"),
		Brand:       strPtr("EGE"),
	}))
}
