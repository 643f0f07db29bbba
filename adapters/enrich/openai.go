package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"schedex/domain/core"
	apperrors "schedex/internal/errors"
	"schedex/models"
	"schedex/ports"
)

// Defaults target DeepInfra's OpenAI-compatible facade.
const (
	DefaultBaseURL = "https://api.deepinfra.com/v1/openai"
	DefaultModel   = "openai/gpt-oss-120b"

	defaultProvider = "deepinfra"
	defaultTimeout  = 60 * time.Second
)

const enrichSystemPrompt = `You extract structured product attributes from interior design schedule text. The text comes from spreadsheet rows describing furniture, fixtures, fittings, and finishes. Report only values stated in the text. Convert dimensions to whole millimetres. Use zero or an empty string for anything the text does not state. Respond with JSON matching the schema.`

// UsageRecorder receives token accounting for each model call.
type UsageRecorder interface {
	RecordUsage(ctx context.Context, usage *models.EnrichmentUsage) error
}

// OpenAIConfig configures the OpenAI-compatible enrichment client.
type OpenAIConfig struct {
	APIKey   string
	BaseURL  string
	Model    string
	Provider string
	Timeout  time.Duration
}

// OpenAIEnricher proposes product patches via schema-constrained chat
// completions. Usage rows are recorded when a recorder is wired and the
// context carries a parse run.
type OpenAIEnricher struct {
	client   *openai.Client
	model    string
	provider string
	timeout  time.Duration
	usage    UsageRecorder
}

var _ ports.Enricher = (*OpenAIEnricher)(nil)

func NewOpenAIEnricher(cfg OpenAIConfig, usage UsageRecorder) *OpenAIEnricher {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	provider := cfg.Provider
	if provider == "" {
		provider = defaultProvider
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL),
	)

	log.Printf("[OpenAIEnricher] Initialized provider=%s model=%s baseURL=%s timeout=%v", provider, model, baseURL, timeout)

	return &OpenAIEnricher{
		client:   &client,
		model:    model,
		provider: provider,
		timeout:  timeout,
		usage:    usage,
	}
}

// patchPayload is the wire shape for structured output. Zero values
// mean the model found nothing for that field; dimensions and qty are
// positive when present, so zero is unambiguous.
type patchPayload struct {
	ProductName string  `json:"product_name" jsonschema_description:"Product or item name"`
	Brand       string  `json:"brand" jsonschema_description:"Brand, maker, or manufacturer name"`
	Colour      string  `json:"colour" jsonschema_description:"Colour as written in the source"`
	Finish      string  `json:"finish" jsonschema_description:"Surface finish"`
	Material    string  `json:"material" jsonschema_description:"Primary material"`
	Width       int     `json:"width" jsonschema_description:"Width in millimetres, 0 if not stated"`
	Length      int     `json:"length" jsonschema_description:"Length or depth in millimetres, 0 if not stated"`
	Height      int     `json:"height" jsonschema_description:"Height in millimetres, 0 if not stated"`
	Qty         int     `json:"qty" jsonschema_description:"Quantity, 0 if not stated"`
	RRP         float64 `json:"rrp" jsonschema_description:"Unit price, 0 if not stated"`
}

// batchPayload wraps per-item payloads so the schema stays an object.
type batchPayload struct {
	Products []patchPayload `json:"products" jsonschema_description:"One entry per input item, in input order"`
}

func generateSchema[T any]() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

var (
	patchSchemaParam = openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "product_patch",
		Description: openai.String("Partial product fields extracted from schedule text"),
		Schema:      generateSchema[patchPayload](),
		Strict:      openai.Bool(true),
	}
	batchSchemaParam = openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "product_patch_batch",
		Description: openai.String("Partial product fields for each schedule entry"),
		Schema:      generateSchema[batchPayload](),
		Strict:      openai.Bool(true),
	}
)

func (p patchPayload) toPatch() models.ProductPatch {
	var patch models.ProductPatch
	if s := strings.TrimSpace(p.ProductName); s != "" {
		patch.ProductName = &s
	}
	if s := strings.TrimSpace(p.Brand); s != "" {
		patch.Brand = &s
	}
	if s := strings.TrimSpace(p.Colour); s != "" {
		patch.Colour = &s
	}
	if s := strings.TrimSpace(p.Finish); s != "" {
		patch.Finish = &s
	}
	if s := strings.TrimSpace(p.Material); s != "" {
		patch.Material = &s
	}
	if p.Width > 0 {
		w := p.Width
		patch.Width = &w
	}
	if p.Length > 0 {
		l := p.Length
		patch.Length = &l
	}
	if p.Height > 0 {
		h := p.Height
		patch.Height = &h
	}
	if p.Qty > 0 {
		q := p.Qty
		patch.Qty = &q
	}
	if p.RRP > 0 {
		r := p.RRP
		patch.RRP = &r
	}
	return patch
}

// EnrichProduct extracts a patch for a single product's raw text.
func (e *OpenAIEnricher) EnrichProduct(ctx context.Context, rawText string, ec models.EnrichmentContext) (models.ProductPatch, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	chat, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(enrichSystemPrompt),
			openai.UserMessage(buildProductPrompt(rawText, ec)),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: patchSchemaParam},
		},
		Model: openai.ChatModel(e.model),
	})
	if err != nil {
		return models.ProductPatch{}, apperrors.EnrichmentFailed(e.provider, err)
	}
	if len(chat.Choices) == 0 {
		return models.ProductPatch{}, apperrors.EnrichmentFailed(e.provider, errors.New("empty choices in completion"))
	}

	var payload patchPayload
	content := cleanModelJSON(chat.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return models.ProductPatch{}, apperrors.EnrichmentFailed(e.provider, fmt.Errorf("unmarshal model output: %w", err))
	}

	e.recordUsage(ctx, chat, models.PurposeProductEnrichment, time.Since(start))
	return payload.toPatch(), nil
}

// EnrichBatch extracts patches for several products in one call. The
// result aligns with items by index; short model output pads with
// empty patches.
func (e *OpenAIEnricher) EnrichBatch(ctx context.Context, items []models.EnrichmentItem) ([]models.ProductPatch, error) {
	if len(items) == 0 {
		return nil, nil
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	chat, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(enrichSystemPrompt),
			openai.UserMessage(buildBatchPrompt(items)),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: batchSchemaParam},
		},
		Model: openai.ChatModel(e.model),
	})
	if err != nil {
		return nil, apperrors.EnrichmentFailed(e.provider, err)
	}
	if len(chat.Choices) == 0 {
		return nil, apperrors.EnrichmentFailed(e.provider, errors.New("empty choices in completion"))
	}

	var payload batchPayload
	content := cleanModelJSON(chat.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, apperrors.EnrichmentFailed(e.provider, fmt.Errorf("unmarshal model output: %w", err))
	}
	if len(payload.Products) != len(items) {
		log.Printf("[OpenAIEnricher] Batch size mismatch: sent %d items, got %d patches", len(items), len(payload.Products))
	}

	patches := make([]models.ProductPatch, len(items))
	for i := range items {
		if i < len(payload.Products) {
			patches[i] = payload.Products[i].toPatch()
		}
	}

	e.recordUsage(ctx, chat, models.PurposeBatchEnrichment, time.Since(start))
	return patches, nil
}

func (e *OpenAIEnricher) recordUsage(ctx context.Context, chat *openai.ChatCompletion, purpose string, elapsed time.Duration) {
	if e.usage == nil {
		return
	}
	runID, ok := core.ParseRunFrom(ctx)
	if !ok {
		return
	}
	row := &models.EnrichmentUsage{
		ID:               core.NewUUID(),
		RunID:            runID,
		Provider:         e.provider,
		Model:            e.model,
		PromptTokens:     int(chat.Usage.PromptTokens),
		CompletionTokens: int(chat.Usage.CompletionTokens),
		TotalTokens:      int(chat.Usage.TotalTokens),
		DurationMS:       elapsed.Milliseconds(),
		Purpose:          purpose,
		CreatedAt:        time.Now().UTC(),
	}
	if err := e.usage.RecordUsage(ctx, row); err != nil {
		log.Printf("[OpenAIEnricher] Failed to record usage: %v", err)
	}
}

func buildProductPrompt(rawText string, ec models.EnrichmentContext) string {
	var b strings.Builder
	b.WriteString("Extract product attributes from this schedule entry.\n")
	fmt.Fprintf(&b, "Source: sheet %q, row %d\n", ec.SheetName, ec.RowNum)
	if ec.Description != "" {
		fmt.Fprintf(&b, "Context: %s\n", ec.Description)
	}
	b.WriteString("TEXT:\n")
	b.WriteString(rawText)
	return b.String()
}

func buildBatchPrompt(items []models.EnrichmentItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Extract product attributes for each of the %d schedule entries below. Return one products element per entry, in order.\n", len(items))
	for i, item := range items {
		fmt.Fprintf(&b, "\n--- Entry %d (sheet %q, row %d) ---\n", i+1, item.Context.SheetName, item.Context.RowNum)
		if item.Context.Description != "" {
			fmt.Fprintf(&b, "Context: %s\n", item.Context.Description)
		}
		b.WriteString(item.RawText)
		b.WriteString("\n")
	}
	return b.String()
}

// cleanModelJSON strips markdown fences and leading chatter that some
// OpenAI-compatible providers emit around structured output.
func cleanModelJSON(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}
	if i := strings.IndexAny(content, "{["); i > 0 {
		content = content[i:]
	}
	return content
}
