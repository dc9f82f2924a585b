package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costscope/costscope-api/internal/domain"
)

func TestRecommendationValidate(t *testing.T) {
	t.Parallel()

	valid := func() *domain.Recommendation {
		return &domain.Recommendation{
			ResourceID: uuid.New().String(),
			Recommendations: domain.RecommendationSet{
				Effective: domain.RecommendationItem{Text: "Move to Cool tier", SavingPct: 30},
			},
		}
	}

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, valid().Validate())
	})

	t.Run("missing resource ID", func(t *testing.T) {
		t.Parallel()
		r := valid()
		r.ResourceID = ""
		assert.ErrorIs(t, r.Validate(), domain.ErrEmptyRecommendationResource)
	})

	t.Run("missing effective recommendation", func(t *testing.T) {
		t.Parallel()
		r := valid()
		r.Recommendations.Effective.Text = ""
		assert.ErrorIs(t, r.Validate(), domain.ErrEmptyRecommendationText)
	})
}

func TestContractDealWireFormat(t *testing.T) {
	t.Parallel()

	deal := domain.ContractDeal{
		Assessment: domain.ContractAssessmentGood,
		ForSKU:     "Standard_D4s_v5",
		Reason:     "below list price",
	}

	out, err := json.Marshal(deal)
	require.NoError(t, err)

	// The dashboard reads this key with a literal space; it must never be
	// normalized to snake_case.
	assert.Contains(t, string(out), `"for sku":"Standard_D4s_v5"`)

	var back domain.ContractDeal
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, deal.ForSKU, back.ForSKU)
}
