package gemini

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/costscope/costscope-api/internal/advisor"
	"github.com/costscope/costscope-api/internal/config"
	"github.com/costscope/costscope-api/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const validModelOutput = `{
  "recommendations": {
    "effective_recommendation": {"text": "Downsize to Standard_D2s_v5", "saving_pct": 45.0},
    "additional_recommendation": [{"text": "Buy a 1-year reservation", "saving_pct": 30.0}],
    "base_of_recommendations": ["Percentage CPU: Avg 7.2"]
  },
  "cost_forecasting": {"monthly": 999.0, "annually": 9999.0},
  "anomalies": [
    {"metric_name": "Percentage CPU", "timestamp": "2026-01-14", "value": 41.0, "reason_short": "spike"}
  ],
  "contract_deal": {
    "assessment": "unknown",
    "for sku": "Standard_D4s_v5",
    "reason": "no contracted price",
    "monthly_saving_pct": 0,
    "annual_saving_pct": 0
  }
}`

func TestNewGeneratorValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("nil logger", func(t *testing.T) {
		t.Parallel()
		_, err := NewGenerator(ctx, nil, config.LLMConfig{GeminiAPIKey: "key", ModelName: "m"})
		assert.Error(t, err)
	})

	t.Run("missing API key", func(t *testing.T) {
		t.Parallel()
		_, err := NewGenerator(ctx, testLogger(), config.LLMConfig{ModelName: "m"})
		assert.ErrorIs(t, err, advisor.ErrInvalidConfig)
	})

	t.Run("missing model name", func(t *testing.T) {
		t.Parallel()
		_, err := NewGenerator(ctx, testLogger(), config.LLMConfig{GeminiAPIKey: "key"})
		assert.ErrorIs(t, err, advisor.ErrInvalidConfig)
	})
}

func TestParseResponse(t *testing.T) {
	t.Parallel()

	g := &Generator{logger: testLogger()}
	resource := testComputeResource()
	forecast := domain.CostForecast{Monthly: 418.53, Annually: 5021.25}

	t.Run("valid output", func(t *testing.T) {
		t.Parallel()

		rec, err := g.parseResponse(context.Background(), validModelOutput, resource, forecast)
		require.NoError(t, err)

		assert.Equal(t, resource.ID.String(), rec.ResourceID)
		assert.Equal(t, "Downsize to Standard_D2s_v5", rec.Recommendations.Effective.Text)
		assert.Equal(t, 45.0, rec.Recommendations.Effective.SavingPct)
		assert.Equal(t, "Standard_D4s_v5", rec.ContractDeal.ForSKU)
		require.Len(t, rec.Anomalies, 1)
		assert.Equal(t, "Percentage CPU", rec.Anomalies[0].MetricName)
	})

	t.Run("computed forecast overrides model echo", func(t *testing.T) {
		t.Parallel()

		rec, err := g.parseResponse(context.Background(), validModelOutput, resource, forecast)
		require.NoError(t, err)

		// The model echoed 999/9999; the locally computed numbers win.
		assert.Equal(t, 418.53, rec.CostForecasting.Monthly)
		assert.Equal(t, 5021.25, rec.CostForecasting.Annually)
	})

	t.Run("output wrapped in prose", func(t *testing.T) {
		t.Parallel()

		wrapped := "Here is my analysis:\n```json\n" + validModelOutput + "\n```"
		rec, err := g.parseResponse(context.Background(), wrapped, resource, forecast)
		require.NoError(t, err)
		assert.NotEmpty(t, rec.Recommendations.Effective.Text)
	})

	t.Run("no JSON in output", func(t *testing.T) {
		t.Parallel()

		_, err := g.parseResponse(context.Background(), "I cannot answer that.", resource, forecast)
		assert.ErrorIs(t, err, advisor.ErrInvalidResponse)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		t.Parallel()

		_, err := g.parseResponse(context.Background(), `{"recommendations": }`, resource, forecast)
		assert.ErrorIs(t, err, advisor.ErrInvalidResponse)
	})

	t.Run("missing effective recommendation fails validation", func(t *testing.T) {
		t.Parallel()

		_, err := g.parseResponse(context.Background(), `{"recommendations": {}}`, resource, forecast)
		assert.ErrorIs(t, err, advisor.ErrInvalidResponse)
	})
}

func TestExtractText(t *testing.T) {
	t.Parallel()

	g := &Generator{logger: testLogger()}

	t.Run("nil response", func(t *testing.T) {
		t.Parallel()
		_, err := g.extractText(nil)
		assert.ErrorIs(t, err, advisor.ErrInvalidResponse)
	})

	t.Run("no candidates", func(t *testing.T) {
		t.Parallel()
		_, err := g.extractText(&genai.GenerateContentResponse{})
		assert.ErrorIs(t, err, advisor.ErrInvalidResponse)
	})

	t.Run("blocked by safety filters", func(t *testing.T) {
		t.Parallel()
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{FinishReason: genai.FinishReasonSafety},
			},
		}
		_, err := g.extractText(resp)
		assert.ErrorIs(t, err, advisor.ErrContentBlocked)
	})

	t.Run("candidate with text", func(t *testing.T) {
		t.Parallel()
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{
					Content: &genai.Content{
						Parts: []*genai.Part{{Text: "hello"}},
					},
				},
			},
		}
		text, err := g.extractText(resp)
		require.NoError(t, err)
		assert.Equal(t, "hello", text)
	})

	t.Run("candidate without content", func(t *testing.T) {
		t.Parallel()
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{}},
		}
		_, err := g.extractText(resp)
		assert.ErrorIs(t, err, advisor.ErrInvalidResponse)
	})
}
