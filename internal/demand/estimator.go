// Package demand estimates sell-through velocity for listing candidates.
//
// The primary estimator calls an external demand model over HTTP and
// degrades to a sales-rank heuristic when the model is unreachable. Per
// contract, Predict never returns an error; failures are reported inside
// the forecast with Source set to FALLBACK.
package demand

import (
	"context"

	domain "github.com/resellkit/listing-scout/pkg/types"
)

// Features are the inputs to a demand prediction.
type Features struct {
	SalesRank  *int
	OfferCount *int
	Price      domain.Money
}

// Estimator predicts daily sell-through units for a candidate.
// Implementations must not fail: degraded predictions carry
// Source=FALLBACK and an explanatory Error string instead.
type Estimator interface {
	Predict(ctx context.Context, f Features) domain.DemandForecast
}

// rankBand maps a sales-rank ceiling to an estimated daily velocity.
type rankBand struct {
	maxRank     int
	unitsPerDay float64
}

// rankBands is an ordered velocity ladder. Lower rank means more
// popular, so the first matching band wins.
var rankBands = []rankBand{
	{maxRank: 1_000, unitsPerDay: 5.0},
	{maxRank: 10_000, unitsPerDay: 1.5},
	{maxRank: 50_000, unitsPerDay: 0.4},
	{maxRank: 200_000, unitsPerDay: 0.1},
}

const tailUnitsPerDay = 0.02

// RankEstimator derives velocity from sales rank alone. It is the
// fallback behind the model estimator and the default when no model
// endpoint is configured.
type RankEstimator struct{}

// NewRankEstimator creates the sales-rank heuristic estimator.
func NewRankEstimator() *RankEstimator {
	return &RankEstimator{}
}

// Predict maps sales rank onto the velocity ladder. A candidate with no
// sales rank gets a nil estimate rather than a guessed one.
func (e *RankEstimator) Predict(_ context.Context, f Features) domain.DemandForecast {
	if f.SalesRank == nil || *f.SalesRank <= 0 {
		return domain.DemandForecast{
			Source: domain.DemandFallback,
			Error:  "no sales rank available",
		}
	}

	units := tailUnitsPerDay
	for _, band := range rankBands {
		if *f.SalesRank <= band.maxRank {
			units = band.unitsPerDay
			break
		}
	}

	return domain.DemandForecast{
		UnitsPerDay: &units,
		Source:      domain.DemandFallback,
	}
}
