package market

import (
	"math"

	"gonum.org/v1/gonum/stat"

	domain "github.com/resellkit/listing-scout/pkg/types"
)

// minHistoryPoints is the fewest observations that give a meaningful
// dispersion estimate.
const minHistoryPoints = 3

// Volatility returns price dispersion as the coefficient of variation,
// in percent, over the snapshot's price history. Returns nil when the
// history is too short or the mean is zero.
func Volatility(s *domain.MarketSnapshot) *float64 {
	if s == nil || len(s.PriceHistory) < minHistoryPoints {
		return nil
	}

	prices := make([]float64, len(s.PriceHistory))
	for i, p := range s.PriceHistory {
		prices[i] = float64(p)
	}

	mean, std := stat.MeanStdDev(prices, nil)
	if mean == 0 || math.IsNaN(std) {
		return nil
	}

	cv := std / mean * 100
	return &cv
}
