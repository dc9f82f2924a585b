package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/costscope/costscope-api/internal/advisor"
	"github.com/costscope/costscope-api/internal/config"
	"github.com/costscope/costscope-api/internal/domain"
)

// Generator implements the advisor.Generator interface using Google's
// Gemini API to produce cost optimization recommendations.
type Generator struct {
	logger *slog.Logger
	client *genai.Client
	model  string
}

// NewGenerator creates a new Gemini-backed recommendation generator with the
// provided dependencies.
func NewGenerator(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.LLMConfig,
) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", advisor.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", advisor.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			advisor.ErrInvalidConfig, err)
	}

	return &Generator{
		logger: logger,
		client: client,
		model:  cfg.ModelName,
	}, nil
}

// Ensure Generator implements advisor.Generator
var _ advisor.Generator = (*Generator)(nil)

// Recommend analyzes one resource and returns a structured recommendation.
// It makes exactly one Gemini call; failures are returned to the caller
// rather than retried, since the work loop treats a failed resource as
// skippable.
func (g *Generator) Recommend(
	ctx context.Context,
	resource *domain.Resource,
	window domain.AnalysisWindow,
) (*domain.Recommendation, error) {
	if resource == nil {
		return nil, advisor.ErrEmptyResource
	}

	forecast := advisor.ExtrapolateCosts(resource.BilledCost, window.DurationDays())

	prompt, err := buildPrompt(resource, window, forecast)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", advisor.ErrGenerationFailed, err)
	}

	g.logger.InfoContext(ctx, "making Gemini API call",
		"resource_id", resource.ID,
		"resource_type", resource.Type,
		"prompt_length", len(prompt))

	resp, err := g.client.Models.GenerateContent(
		ctx,
		g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			Temperature:      genai.Ptr[float32](0.2),
		},
	)
	if err != nil {
		g.logger.ErrorContext(ctx, "Gemini API call failed",
			"resource_id", resource.ID,
			"error", err)
		return nil, fmt.Errorf("%w: %v", advisor.ErrTransientFailure, err)
	}

	text, err := g.extractText(resp)
	if err != nil {
		return nil, err
	}

	recommendation, err := g.parseResponse(ctx, text, resource, forecast)
	if err != nil {
		return nil, err
	}

	g.logger.InfoContext(ctx, "recommendation generated",
		"resource_id", resource.ID,
		"saving_pct", recommendation.Recommendations.Effective.SavingPct)
	return recommendation, nil
}

// extractText validates the response envelope and returns the raw model
// output.
func (g *Generator) extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", advisor.ErrInvalidResponse)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", advisor.ErrInvalidResponse)
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: generation stopped by safety filters", advisor.ErrContentBlocked)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty content in response", advisor.ErrInvalidResponse)
	}
	return text, nil
}

// parseResponse converts raw model output into a validated domain
// recommendation. The model is told to echo the pre-calculated forecast, but
// the computed values are authoritative and overwrite whatever came back.
func (g *Generator) parseResponse(
	ctx context.Context,
	text string,
	resource *domain.Resource,
	forecast domain.CostForecast,
) (*domain.Recommendation, error) {
	jsonStr := ExtractJSON(text)
	if jsonStr == "" {
		g.logger.ErrorContext(ctx, "could not extract JSON from model output",
			"resource_id", resource.ID,
			"output_length", len(text))
		return nil, fmt.Errorf("%w: no JSON object in model output", advisor.ErrInvalidResponse)
	}

	var recommendation domain.Recommendation
	if err := json.Unmarshal([]byte(jsonStr), &recommendation); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v",
			advisor.ErrInvalidResponse, err)
	}

	recommendation.ResourceID = resource.ID.String()
	recommendation.CostForecasting = forecast

	if err := recommendation.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", advisor.ErrInvalidResponse, err)
	}
	return &recommendation, nil
}
