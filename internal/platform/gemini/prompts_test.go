package gemini

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costscope/costscope-api/internal/domain"
)

func floatPtr(v float64) *float64 { return &v }

func testComputeResource() *domain.Resource {
	return &domain.Resource{
		ID:           uuid.New(),
		ProjectID:    uuid.New(),
		Name:         "prod-web-01",
		Type:         domain.ResourceTypeCompute,
		Platform:     domain.PlatformAzure,
		InstanceType: "Standard_D4s_v5",
		BilledCost:   412.50,
		Metrics: map[string]domain.MetricSample{
			"Percentage CPU": {
				Avg:     floatPtr(7.2),
				Max:     floatPtr(41.0),
				MaxDate: "2026-01-14",
			},
		},
	}
}

func testStorageResource() *domain.Resource {
	return &domain.Resource{
		ID:         uuid.New(),
		ProjectID:  uuid.New(),
		Name:       "archivestore",
		Type:       domain.ResourceTypeStorage,
		Platform:   domain.PlatformAzure,
		SKU:        "Standard_LRS",
		AccessTier: "Hot",
		BilledCost: 98.10,
		Metrics: map[string]domain.MetricSample{
			"UsedCapacity (GiB)": {
				Avg:     floatPtr(2048),
				Max:     floatPtr(2050),
				MaxDate: "2026-01-03",
			},
		},
	}
}

func testPromptWindow() domain.AnalysisWindow {
	return domain.AnalysisWindow{
		Start: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 1, 30, 0, 0, 0, 0, time.UTC),
	}
}

func TestBuildPromptCompute(t *testing.T) {
	t.Parallel()

	resource := testComputeResource()
	forecast := domain.CostForecast{Monthly: 418.53, Annually: 5021.25}

	prompt, err := buildPrompt(resource, testPromptWindow(), forecast)
	require.NoError(t, err)

	assert.Contains(t, prompt, "VM Optimization Expert")
	assert.Contains(t, prompt, resource.ID.String())
	assert.Contains(t, prompt, "prod-web-01")
	assert.Contains(t, prompt, "Standard_D4s_v5")
	assert.Contains(t, prompt, "2026-01-01 to 2026-01-30 (30 days)")
	assert.Contains(t, prompt, "$412.50")
	assert.Contains(t, prompt, "Percentage CPU")
	assert.Contains(t, prompt, "monthly = 418.53, annually = 5021.25")
	assert.Contains(t, prompt, `"for sku"`)
	// No contracted price on this resource.
	assert.Contains(t, prompt, "contracted_unit_price (N/A)")
}

func TestBuildPromptStorage(t *testing.T) {
	t.Parallel()

	resource := testStorageResource()
	resource.ContractedUnitPrice = floatPtr(0.0184)
	forecast := domain.CostForecast{Monthly: 99.54, Annually: 1193.55}

	prompt, err := buildPrompt(resource, testPromptWindow(), forecast)
	require.NoError(t, err)

	assert.Contains(t, prompt, "focused on Storage")
	assert.Contains(t, prompt, "Standard_LRS (Hot)")
	assert.Contains(t, prompt, "UsedCapacity (GiB)")
	assert.Contains(t, prompt, "contracted_unit_price (0.0184)")
}

func TestFormatMetricsDropsEmptySamples(t *testing.T) {
	t.Parallel()

	metrics := map[string]domain.MetricSample{
		"Percentage CPU": {Avg: floatPtr(12), Max: floatPtr(80), MaxDate: "2026-01-02"},
		"Disk Read":      {},
		"Network In":     {MaxDate: "2026-01-05"},
	}

	out, err := formatMetrics(metrics)
	require.NoError(t, err)

	assert.Contains(t, out, "Percentage CPU")
	assert.Contains(t, out, "Network In", "a sample with only a date is still informative")
	assert.NotContains(t, out, "Disk Read")
}

func TestBuildPromptMissingFieldsRenderAsNA(t *testing.T) {
	t.Parallel()

	resource := &domain.Resource{
		ID:        uuid.New(),
		ProjectID: uuid.New(),
		Type:      domain.ResourceTypeCompute,
		Platform:  domain.PlatformAzure,
	}

	prompt, err := buildPrompt(resource, testPromptWindow(), domain.CostForecast{})
	require.NoError(t, err)
	assert.Contains(t, prompt, "N/A")
}
