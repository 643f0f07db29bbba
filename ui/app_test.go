package ui

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schedex/models"
	"schedex/ports"
)

type stubRuns struct {
	runs []*models.ParseRun
	err  error
}

var _ ports.ParseRunRepository = (*stubRuns)(nil)

func (s *stubRuns) RecordRun(ctx context.Context, run *models.ParseRun) error {
	s.runs = append(s.runs, run)
	return nil
}

func (s *stubRuns) GetRun(ctx context.Context, id uuid.UUID) (*models.ParseRun, error) {
	for _, run := range s.runs {
		if run.ID == id {
			return run, nil
		}
	}
	return nil, nil
}

func (s *stubRuns) ListRecentRuns(ctx context.Context, limit int) ([]*models.ParseRun, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.runs, nil
}

type stubUsage struct {
	tokens int
}

var _ ports.EnrichmentUsageRepository = (*stubUsage)(nil)

func (s *stubUsage) RecordUsage(ctx context.Context, usage *models.EnrichmentUsage) error {
	return nil
}

func (s *stubUsage) GetRunUsage(ctx context.Context, runID uuid.UUID) ([]*models.EnrichmentUsage, error) {
	return nil, nil
}

func (s *stubUsage) GetTotalTokens(ctx context.Context, start, end time.Time) (int, error) {
	return s.tokens, nil
}

func opsGet(app *App, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, req)
	return rec
}

func TestOpsHealth(t *testing.T) {
	app := NewApp(Config{Port: "8081"}, nil, nil)

	rec := opsGet(app, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestOpsDocs(t *testing.T) {
	app := NewApp(Config{Port: "8081"}, nil, nil)

	rec := opsGet(app, "/docs")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "schedex API")
	assert.Contains(t, rec.Body.String(), "POST /parse")
}

func TestOpsReportUnavailable(t *testing.T) {
	app := NewApp(Config{Port: "8081"}, nil, nil)

	rec := opsGet(app, "/report")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Run ledger is not configured", resp["error"])
}

func TestOpsReport(t *testing.T) {
	runs := &stubRuns{runs: []*models.ParseRun{
		{ID: uuid.New(), Filename: "aurora_ffe.xlsx", ScheduleName: "PROJECT FINISHES SCHEDULE", SheetCount: 2, ProductCount: 12, DurationMS: 42, CreatedAt: time.Now()},
		{ID: uuid.New(), Filename: "spa_finishes.xlsx", ScheduleName: "SPA FINISHES", SheetCount: 1, ProductCount: 8, DurationMS: 17, Enriched: true, CreatedAt: time.Now()},
	}}
	app := NewApp(Config{Port: "8081"}, runs, &stubUsage{tokens: 1234})

	rec := opsGet(app, "/report")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Runs             []*models.ParseRun `json:"runs"`
		RunCount         int                `json:"run_count"`
		TotalProducts    int                `json:"total_products"`
		EnrichmentTokens int                `json:"enrichment_tokens_30d"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, 2, resp.RunCount)
	assert.Equal(t, 20, resp.TotalProducts)
	assert.Equal(t, 1234, resp.EnrichmentTokens)
	require.Len(t, resp.Runs, 2)
	assert.Equal(t, "aurora_ffe.xlsx", resp.Runs[0].Filename)
}

func TestOpsReportRepoError(t *testing.T) {
	app := NewApp(Config{Port: "8081"}, &stubRuns{err: errors.New("connection refused")}, nil)

	rec := opsGet(app, "/report")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Failed to load runs", resp["error"])
}
