package advisor

import (
	"math"

	"github.com/costscope/costscope-api/internal/domain"
)

// Average days in a month: 365.25 / 12.
const avgDaysPerMonth = 30.4375

// ExtrapolateCosts projects the billed cost for a window of durationDays
// onto monthly and annual figures, rounded to cents. A zero-length window
// yields a zero forecast.
func ExtrapolateCosts(billedCost float64, durationDays int) domain.CostForecast {
	if durationDays <= 0 {
		return domain.CostForecast{}
	}

	avgDaily := billedCost / float64(durationDays)
	return domain.CostForecast{
		Monthly:  roundCents(avgDaily * avgDaysPerMonth),
		Annually: roundCents(avgDaily * 365),
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
