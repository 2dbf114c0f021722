package engine

import (
	"context"

	"github.com/resellkit/listing-scout/internal/demand"
	"github.com/resellkit/listing-scout/internal/market"
	"github.com/resellkit/listing-scout/pkg/bom"
	"github.com/resellkit/listing-scout/pkg/fees"
	score "github.com/resellkit/listing-scout/pkg/scorer"
	domain "github.com/resellkit/listing-scout/pkg/types"
)

// analyzeCandidate runs the full per-identifier pipeline: BOM resolution,
// cost, best price, fees and margin, target price, feasibility, demand,
// score, and suggested action. It never fails; degraded inputs surface as
// unknown values in the result.
func (a *BatchAnalyzer) analyzeCandidate(
	ctx context.Context,
	asin string,
	bc *batchContext,
) domain.OpportunityResult {
	result := domain.OpportunityResult{
		ASIN:  asin,
		Price: domain.UnknownMoney(),
		Cost:  domain.UnknownMoney(),
	}

	var snapshot *domain.MarketSnapshot
	if snap, ok := bc.snapshots[asin]; ok {
		snapshot = &snap
		result.Title = snap.Title
		result.Market = snapshot
		result.Price = snap.BestPrice()
		result.HasPrice = result.Price.Known
	}

	resolved := a.resolveBom(asin, snapshot, bc)
	result.Bom = resolved.resolution
	if resolved.bom != nil {
		result.Cost = resolved.bom.CostOfGoods()
	}

	feeCfg := a.feeConfigFor(asin, bc)

	tier := domain.TierStandard
	category := ""
	tierKnown := false
	if snapshot != nil {
		tier = snapshot.SizeTier
		category = snapshot.Category
		tierKnown = snapshot.SizeTier != ""
	}

	if result.HasPrice && result.Cost.Known {
		profit := fees.ComputeProfit(
			result.Price.Amount, result.Cost.Amount, tier, category, feeCfg,
		)
		// Without a reported size tier the fulfillment fee is the
		// standard-tier guess, so the whole itemization is an estimate.
		profit.Fees.Estimated = !tierKnown
		result.Profit = &profit
	}

	if result.Cost.Known {
		quote := fees.ComputeTargetPrice(
			result.Cost.Amount, bc.scoring.TargetMarginPct, tier, feeCfg,
		)
		result.TargetPrice = &quote
	}

	forecast := a.predictDemand(ctx, snapshot)
	result.Demand = forecast

	feasibility := bom.BuildableUnits(resolved.bom, bc.stock)
	if forecast.UnitsPerDay != nil {
		feasibility.DaysOfCover = bom.DaysOfCover(
			feasibility.BuildableUnits, *forecast.UnitsPerDay,
		)
	}
	result.Feasibility = &feasibility

	result.Score = score.Score(score.Inputs{
		NetMarginPct:   marginOf(result.Profit),
		ForecastUnits:  forecast.UnitsOver(bc.scoring.HorizonDays),
		OfferCount:     offerCountOf(snapshot),
		VolatilityPct:  market.Volatility(snapshot),
		BuildableUnits: feasibility.BuildableUnits,
		HasBom:         result.HasBom(),
		HasPrice:       result.HasPrice,
	}, bc.scoring)

	result.Action = score.SuggestAction(score.ActionInputs{
		Band:           result.Score.Band,
		NetMarginPct:   marginOf(result.Profit),
		HasBom:         result.HasBom(),
		BuildableUnits: feasibility.BuildableUnits,
	})

	return result
}

// resolvedBom pairs the chosen BOM with its provenance record.
type resolvedBom struct {
	bom        *domain.BillOfMaterials
	resolution domain.BomResolution
}

// resolveBom picks the BOM for a candidate. Precedence: a batch-level
// forced BOM beats a stored mapping, which beats a title match; a
// candidate with none of those gets no BOM at all.
func (a *BatchAnalyzer) resolveBom(
	asin string,
	snapshot *domain.MarketSnapshot,
	bc *batchContext,
) resolvedBom {
	if bc.forced != nil {
		return resolvedBom{
			bom: bc.forced,
			resolution: domain.BomResolution{
				Source: domain.BomForced,
				BomID:  bc.forced.ID,
				SKU:    bc.forced.SKU,
			},
		}
	}

	if mapping, ok := bc.mappings[asin]; ok {
		if b := findBomByID(bc.catalog, mapping.BomID); b != nil {
			return resolvedBom{
				bom: b,
				resolution: domain.BomResolution{
					Source: domain.BomMapped,
					BomID:  b.ID,
					SKU:    b.SKU,
				},
			}
		}
		a.log.Warn("mapping points at a missing or inactive bom",
			"asin", asin, "bom_id", mapping.BomID,
		)
	}

	if snapshot != nil && snapshot.Title != "" {
		if r, ok := a.matchByTitle(snapshot.Title, bc); ok {
			return r
		}
	}

	return resolvedBom{resolution: domain.BomResolution{Source: domain.BomNone}}
}

// matchByTitle resolves a BOM from the listing title. Resolutions are
// remembered per batch under the title's fingerprint hash, so candidates
// sharing a title parse and match once.
func (a *BatchAnalyzer) matchByTitle(title string, bc *batchContext) (resolvedBom, bool) {
	key := bom.HashFingerprint(bom.FingerprintTitle(title))
	if cached, ok := bc.titleMemory.Load(key); ok {
		return cached.(resolvedBom), true
	}

	intent := a.titles.Parse(title)
	matches := bom.MatchByIntent(intent, bc.catalog)
	if len(matches) == 0 {
		return resolvedBom{}, false
	}

	best := matches[0]
	r := resolvedBom{
		bom: best.Bom,
		resolution: domain.BomResolution{
			Source:     domain.BomMatched,
			BomID:      best.Bom.ID,
			SKU:        best.Bom.SKU,
			Confidence: best.Confidence,
			MatchScore: best.Score,
			Rationale:  best.Rationale,
		},
	}
	bc.titleMemory.Store(key, r)
	return r, true
}

// feeConfigFor applies a per-listing referral override when the stored
// mapping carries one.
func (a *BatchAnalyzer) feeConfigFor(asin string, bc *batchContext) *domain.FeeConfig {
	mapping, ok := bc.mappings[asin]
	if !ok || mapping.FeeOverridePercent == nil {
		return a.fees
	}

	override := *a.fees
	override.ReferralPercent = *mapping.FeeOverridePercent
	return &override
}

func (a *BatchAnalyzer) predictDemand(
	ctx context.Context,
	snapshot *domain.MarketSnapshot,
) domain.DemandForecast {
	features := demand.Features{Price: domain.UnknownMoney()}
	if snapshot != nil {
		features.SalesRank = snapshot.SalesRank
		features.OfferCount = snapshot.OfferCount
		features.Price = snapshot.BestPrice()
	}
	return a.demand.Predict(ctx, features)
}

func findBomByID(catalog []domain.BillOfMaterials, id string) *domain.BillOfMaterials {
	for i := range catalog {
		if catalog[i].ID == id {
			return &catalog[i]
		}
	}
	return nil
}

func marginOf(p *domain.ProfitBreakdown) *float64 {
	if p == nil {
		return nil
	}
	margin := p.NetMarginPct
	return &margin
}

func offerCountOf(s *domain.MarketSnapshot) *int {
	if s == nil {
		return nil
	}
	return s.OfferCount
}
