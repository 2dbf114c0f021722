package fees

import (
	"fmt"
	"math"

	domain "github.com/resellkit/listing-scout/pkg/types"
)

// Solver tuning. The closed-form estimate ignores the referral fee floor,
// so prices near the floor need a short monotonic search upward.
const (
	// marginTolerancePct is how far (in percentage points) under target a
	// verified margin may fall before the candidate price is bumped.
	marginTolerancePct = 0.5

	// priceStep is the fixed minor-unit increment per search iteration.
	priceStep = 10

	// maxIterations bounds the search.
	maxIterations = 100
)

// ComputeTargetPrice solves for the minimum price that achieves the target
// net margin percentage for the given cost and size tier.
//
// Phase one is the closed-form inverse of the linear fee model:
//
//	price = (cost + fulfillment) / (1 - target/100 - referral/100)
//
// Phase two verifies with ComputeProfit and walks the price up in fixed
// steps while the verified margin falls short, because the referral fee
// floor invalidates the linear inverse at low prices. An exhausted
// iteration budget is reported as Converged=false; the last attempted
// price is carried for diagnostics but is not a usable answer.
func ComputeTargetPrice(
	cost int64,
	targetMarginPct float64,
	tier domain.SizeTier,
	cfg *domain.FeeConfig,
) domain.TargetPriceQuote {
	divisor := 1 - targetMarginPct/100 - cfg.ReferralPercent/100
	if divisor <= 0 {
		return domain.TargetPriceQuote{
			TargetMarginPct: targetMarginPct,
			Achievable:      false,
			Price:           domain.UnknownMoney(),
			Reason: fmt.Sprintf(
				"target margin %.1f%% is unreachable with a %.1f%% referral fee",
				targetMarginPct, cfg.ReferralPercent,
			),
		}
	}

	fulfillment := cfg.FulfillmentFee(tier)
	candidate := int64(math.Ceil(float64(cost+fulfillment) / divisor))

	for i := 0; i < maxIterations; i++ {
		p := ComputeProfit(candidate, cost, tier, "", cfg)
		if p.NetMarginPct >= targetMarginPct-marginTolerancePct {
			return domain.TargetPriceQuote{
				TargetMarginPct:   targetMarginPct,
				Achievable:        true,
				Converged:         true,
				Price:             domain.NewMoney(candidate),
				AchievedMarginPct: p.NetMarginPct,
				Iterations:        i,
			}
		}
		candidate += priceStep
	}

	return domain.TargetPriceQuote{
		TargetMarginPct: targetMarginPct,
		Achievable:      true,
		Converged:       false,
		Price:           domain.NewMoney(candidate),
		Iterations:      maxIterations,
		Reason: fmt.Sprintf(
			"no price within %d iterations reached %.1f%% margin",
			maxIterations, targetMarginPct,
		),
	}
}

// ComputeBreakEvenPrice solves for the minimum price at which net profit
// is zero.
func ComputeBreakEvenPrice(
	cost int64,
	tier domain.SizeTier,
	cfg *domain.FeeConfig,
) domain.TargetPriceQuote {
	return ComputeTargetPrice(cost, 0, tier, cfg)
}
