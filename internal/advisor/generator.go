package advisor

import (
	"context"

	"github.com/costscope/costscope-api/internal/domain"
)

// Generator defines the interface for producing a cost optimization
// recommendation for a single cloud resource. This interface serves as the
// boundary between the application core and external AI/LLM services.
type Generator interface {
	// Recommend analyzes one resource's billing and utilization data over the
	// given window and returns a structured recommendation.
	//
	// The call is expensive: it performs one external LLM request. It is made
	// exactly once per resource per analysis (no retries); the caller decides
	// whether a failure for one resource aborts anything.
	Recommend(
		ctx context.Context,
		resource *domain.Resource,
		window domain.AnalysisWindow,
	) (*domain.Recommendation, error)
}
