package domain

import "errors"

// ContractAssessment rates a contracted unit price against the list price.
type ContractAssessment string

// Possible contract assessments
const (
	ContractAssessmentGood    ContractAssessment = "good"
	ContractAssessmentBad     ContractAssessment = "bad"
	ContractAssessmentUnknown ContractAssessment = "unknown"
)

// Common validation errors for Recommendation
var (
	ErrEmptyRecommendationResource = errors.New("recommendation resource ID cannot be empty")
	ErrEmptyRecommendationText     = errors.New("effective recommendation text cannot be empty")
)

// RecommendationItem is a single optimization suggestion with its estimated
// saving as a percentage (0-100) of the billed cost.
type RecommendationItem struct {
	Text      string  `json:"text"`
	SavingPct float64 `json:"saving_pct"`
}

// RecommendationSet groups the primary suggestion, any secondary ones, and
// the metric observations they were based on.
type RecommendationSet struct {
	Effective  RecommendationItem   `json:"effective_recommendation"`
	Additional []RecommendationItem `json:"additional_recommendation"`
	Basis      []string             `json:"base_of_recommendations"`
}

// CostForecast extrapolates the window's billed cost to monthly and annual
// figures.
type CostForecast struct {
	Monthly  float64 `json:"monthly"`
	Annually float64 `json:"annually"`
}

// Anomaly flags a spike, drop or otherwise unusual metric value observed
// during the analysis window.
type Anomaly struct {
	MetricName  string  `json:"metric_name"`
	Timestamp   string  `json:"timestamp"`
	Value       float64 `json:"value"`
	ReasonShort string  `json:"reason_short"`
}

// ContractDeal evaluates the contracted unit price against the general SKU
// pricing.
type ContractDeal struct {
	Assessment ContractAssessment `json:"assessment"`
	// The dashboard consumes this key with a literal space in it.
	ForSKU           string  `json:"for sku"`
	Reason           string  `json:"reason"`
	MonthlySavingPct float64 `json:"monthly_saving_pct"`
	AnnualSavingPct  float64 `json:"annual_saving_pct"`
}

// Recommendation is the structured analysis result for a single resource.
// Its JSON shape is the wire contract shared with the dashboard and the
// strict output schema demanded of the model.
type Recommendation struct {
	ResourceID      string            `json:"resource_id"`
	Recommendations RecommendationSet `json:"recommendations"`
	CostForecasting CostForecast      `json:"cost_forecasting"`
	Anomalies       []Anomaly         `json:"anomalies"`
	ContractDeal    ContractDeal      `json:"contract_deal"`
}

// Validate checks if the Recommendation has valid data.
func (r *Recommendation) Validate() error {
	if r.ResourceID == "" {
		return ErrEmptyRecommendationResource
	}
	if r.Recommendations.Effective.Text == "" {
		return ErrEmptyRecommendationText
	}
	return nil
}
