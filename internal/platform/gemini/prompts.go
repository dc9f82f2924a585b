package gemini

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/costscope/costscope-api/internal/domain"
)

// promptData is the data passed to the prompt templates.
type promptData struct {
	ResourceID          string
	ResourceName        string
	SKU                 string
	AccessTier          string
	InstanceType        string
	StartDate           string
	EndDate             string
	DurationDays        int
	BilledCost          string
	ContractedUnitPrice string
	MetricsJSON         string
	ForecastMonthly     string
	ForecastAnnual      string
}

// storagePromptTemplate asks for storage tiering analysis. The JSON schema in
// the prompt is the wire contract parsed by parseResponse; keep them in sync.
const storagePromptTemplate = `You are an Azure FinOps & Cost Optimization Expert focused on Storage.
Analyze the following Storage Account data and the provided metrics. Produce ONLY a valid JSON object according to the schema provided below.
Do not output any natural language commentary outside the JSON. Do not include markdown or code fencing.

ANALYSIS CONTEXT:
- Resource ID: {{.ResourceID}}
- SKU/Tier: {{.SKU}} ({{.AccessTier}})
- Analysis Period: {{.StartDate}} to {{.EndDate}} ({{.DurationDays}} days)
- Total Billed Cost for Period: ${{.BilledCost}}

STRUCTURED UTILIZATION METRICS (Analyze this JSON structure):
{{.MetricsJSON}}

INSTRUCTIONS FOR ANALYSIS:
1. Primary Recommendation & Savings: define the 'effective_recommendation' text with high detail and CALCULATE A REALISTIC 'saving_pct' (0-100 range) proportional to the billed cost.
2. Recommendation Basis: populate 'base_of_recommendations' with ALL relevant metric names and their values that justify the decision; the most critical metric MUST be the first entry.
3. Tiering Logic: if the access tier is Hot, evaluate whether the 'UsedCapacity (GiB)' Avg indicates a large static block. If so, recommend moving data to Cool/Archive (Cool is roughly 30% of Hot cost, Archive roughly 5%).
4. Anomalies: identify 2 to 3 significant spikes, drops, or unusual metric values; use each metric's MaxDate as the timestamp.
5. Cost Forecasting: use exactly these pre-calculated values: monthly = {{.ForecastMonthly}}, annually = {{.ForecastAnnual}}.
6. Contract Evaluation: compare contracted_unit_price ({{.ContractedUnitPrice}}) vs general SKU {{.SKU}}. Return assessment as "good", "bad", or "unknown".
7. Output MUST strictly follow the schema below.

STRICT JSON OUTPUT SCHEMA (do not modify keys, types, or structure):

{
  "recommendations": {
    "effective_recommendation": { "text": "...", "saving_pct": 12.3 },
    "additional_recommendation": [
      {"text": "...", "saving_pct": 3.4}
    ],
    "base_of_recommendations": ["UsedCapacity (GiB): value", "Transactions (count): value"]
  },
  "cost_forecasting": {
    "monthly": {{.ForecastMonthly}},
    "annually": {{.ForecastAnnual}}
  },
  "anomalies": [
    {
      "metric_name": "...",
      "timestamp": "YYYY-MM-DD",
      "value": 123.45,
      "reason_short": "..."
    }
  ],
  "contract_deal": {
    "assessment": "good",
    "for sku": "{{.SKU}}",
    "reason": "...",
    "monthly_saving_pct": 1.2,
    "annual_saving_pct": 14.4
  }
}
`

// computePromptTemplate asks for VM rightsizing analysis.
const computePromptTemplate = `You are an Azure FinOps & VM Optimization Expert.
Analyze the following Virtual Machine data and metrics. Produce ONLY a valid JSON object based strictly on the schema shown below.
Never output text outside JSON. Never use markdown.

ANALYSIS CONTEXT:
- Resource ID: {{.ResourceID}}
- VM Name: {{.ResourceName}}
- Analysis Period: {{.StartDate}} to {{.EndDate}} ({{.DurationDays}} days)
- Total Billed Cost: ${{.BilledCost}}

STRUCTURED UTILIZATION METRICS (Analyze this JSON structure):
{{.MetricsJSON}}

INSTRUCTIONS:
1. Primary Recommendation & Savings: define the 'effective_recommendation' text with high detail and CALCULATE A REALISTIC 'saving_pct' (0-100 range) proportional to the billed cost.
2. Recommendation Basis: populate 'base_of_recommendations' with ALL relevant metric names and their values that justify the rightsizing decision; the most critical metric MUST be the first entry.
3. Rightsizing Logic: recommend downsizing when 'Percentage CPU' Avg is < 20 AND Max is < 75. If CPU Max > 90, include a high-risk note (avoid rightsizing) and focus on the anomaly.
4. Anomalies: identify 2 to 3 significant spikes, drops, or unusual metric values; use each metric's MaxDate as the timestamp.
5. Cost Forecasting: use exactly these pre-calculated values: monthly = {{.ForecastMonthly}}, annually = {{.ForecastAnnual}}.
6. Contract Evaluation: compare contracted_unit_price ({{.ContractedUnitPrice}}) vs general instance type {{.InstanceType}}. Return assessment as "good", "bad", or "unknown".
7. Use the EXACT schema below. Do NOT change any field names or structure.

STRICT JSON OUTPUT SCHEMA:

{
  "recommendations": {
    "effective_recommendation": { "text": "...", "saving_pct": 12.3 },
    "additional_recommendation": [
      {"text": "...", "saving_pct": 3.4}
    ],
    "base_of_recommendations": ["Percentage CPU: value", "Available Memory Bytes: value"]
  },
  "cost_forecasting": {
    "monthly": {{.ForecastMonthly}},
    "annually": {{.ForecastAnnual}}
  },
  "anomalies": [
    {
      "metric_name": "...",
      "timestamp": "YYYY-MM-DD HH24:MI",
      "value": 123.45,
      "reason_short": "..."
    }
  ],
  "contract_deal": {
    "assessment": "good",
    "for sku": "{{.InstanceType}}",
    "reason": "...",
    "monthly_saving_pct": 1.2,
    "annual_saving_pct": 14.4
  }
}
`

var (
	storageTmpl = template.Must(template.New("storage").Parse(storagePromptTemplate))
	computeTmpl = template.Must(template.New("compute").Parse(computePromptTemplate))
)

// buildPrompt renders the prompt for the resource's type.
func buildPrompt(
	resource *domain.Resource,
	window domain.AnalysisWindow,
	forecast domain.CostForecast,
) (string, error) {
	metricsJSON, err := formatMetrics(resource.Metrics)
	if err != nil {
		return "", fmt.Errorf("failed to format metrics: %w", err)
	}

	data := promptData{
		ResourceID:          resource.ID.String(),
		ResourceName:        orNA(resource.Name),
		SKU:                 orNA(resource.SKU),
		AccessTier:          orNA(resource.AccessTier),
		InstanceType:        orNA(resource.InstanceType),
		StartDate:           window.Start.UTC().Format("2006-01-02"),
		EndDate:             window.End.UTC().Format("2006-01-02"),
		DurationDays:        window.DurationDays(),
		BilledCost:          fmt.Sprintf("%.2f", resource.BilledCost),
		ContractedUnitPrice: formatContractedPrice(resource.ContractedUnitPrice),
		MetricsJSON:         metricsJSON,
		ForecastMonthly:     fmt.Sprintf("%.2f", forecast.Monthly),
		ForecastAnnual:      fmt.Sprintf("%.2f", forecast.Annually),
	}

	tmpl := computeTmpl
	if resource.Type == domain.ResourceTypeStorage {
		tmpl = storageTmpl
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}

// formatMetrics renders the metric samples as indented JSON for the model,
// dropping entries where no value was collected at all.
func formatMetrics(metrics map[string]domain.MetricSample) (string, error) {
	cleaned := make(map[string]domain.MetricSample, len(metrics))
	for name, sample := range metrics {
		if sample.Avg == nil && sample.Max == nil && sample.MaxDate == "" {
			continue
		}
		cleaned[name] = sample
	}

	out, err := json.MarshalIndent(cleaned, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func formatContractedPrice(p *float64) string {
	if p == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.4f", *p)
}
