// Package fees implements marketplace fee and margin arithmetic.
// All amounts are minor currency units; all functions are pure.
package fees

import (
	"math"

	domain "github.com/resellkit/listing-scout/pkg/types"
)

// ComputeFees itemizes the marketplace fees for selling at a given price.
// The referral fee is a percentage of price with a minimum floor; the
// fulfillment fee is a fixed per-tier charge; media categories incur the
// closing fee.
func ComputeFees(
	price int64,
	tier domain.SizeTier,
	category string,
	cfg *domain.FeeConfig,
) domain.FeeBreakdown {
	referral := roundToMinor(float64(price) * cfg.ReferralPercent / 100)
	if referral < cfg.ReferralFloor {
		referral = cfg.ReferralFloor
	}

	fulfillment := cfg.FulfillmentFee(tier)

	var closing int64
	if cfg.IsMediaCategory(category) {
		closing = cfg.ClosingFee
	}

	return domain.FeeBreakdown{
		Referral:    referral,
		Fulfillment: fulfillment,
		Closing:     closing,
		Total:       referral + fulfillment + closing,
	}
}

// ComputeProfit computes the gross and net margin of selling at price with
// the given cost of goods. Percentages are rounded to one decimal place.
// Zero or negative price yields zero margins rather than dividing by zero;
// zero or negative cost yields zero ROI.
func ComputeProfit(
	price, cost int64,
	tier domain.SizeTier,
	category string,
	cfg *domain.FeeConfig,
) domain.ProfitBreakdown {
	fees := ComputeFees(price, tier, category, cfg)

	gross := price - cost
	net := price - cost - fees.Total

	var grossPct, netPct float64
	if price > 0 {
		grossPct = round1(float64(gross) / float64(price) * 100)
		netPct = round1(float64(net) / float64(price) * 100)
	}

	var roi float64
	if cost > 0 {
		roi = round1(float64(net) / float64(cost) * 100)
	}

	return domain.ProfitBreakdown{
		Price:          price,
		Cost:           cost,
		Fees:           fees,
		GrossProfit:    gross,
		NetProfit:      net,
		GrossMarginPct: grossPct,
		NetMarginPct:   netPct,
		ROIPct:         roi,
		IsProfitable:   net > 0,
	}
}

func roundToMinor(v float64) int64 {
	return int64(math.Round(v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
