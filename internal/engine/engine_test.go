package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	demandMocks "github.com/resellkit/listing-scout/internal/demand/mocks"
	marketMocks "github.com/resellkit/listing-scout/internal/market/mocks"
	storeMocks "github.com/resellkit/listing-scout/internal/store/mocks"
	"github.com/resellkit/listing-scout/internal/titles"
	score "github.com/resellkit/listing-scout/pkg/scorer"
	domain "github.com/resellkit/listing-scout/pkg/types"
)

// quietLogger returns a logger that discards output for tests.
func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testFeeConfig() *domain.FeeConfig {
	return &domain.FeeConfig{
		ReferralPercent: 15,
		ReferralFloor:   30,
		FulfillmentFees: map[domain.SizeTier]int64{
			domain.TierSmall:    150,
			domain.TierStandard: 295,
			domain.TierLarge:    450,
			domain.TierOversize: 700,
		},
		VATRatePercent: 20,
	}
}

func intp(v int) *int { return &v }

func floatp(v float64) *float64 { return &v }

// drillKitBom is an active BOM whose lines are fully costed: two
// batteries at 45.00 plus a bare drill at 40.00.
func drillKitBom() domain.BillOfMaterials {
	return domain.BillOfMaterials{
		ID:          "bom-drill-kit",
		SKU:         "MAKDHP484-KIT",
		Description: "Makita DHP484 18V combi drill kit 2x 5.0Ah",
		Active:      true,
		Lines: []domain.BomLine{
			{ComponentID: "comp-battery", ComponentSKU: "BL1850", Quantity: 2, UnitCost: domain.NewMoney(4500)},
			{ComponentID: "comp-drill", ComponentSKU: "DHP484Z", Quantity: 1, UnitCost: domain.NewMoney(4000)},
		},
	}
}

func drillSnapshot(asin string) domain.MarketSnapshot {
	return domain.MarketSnapshot{
		ASIN:       asin,
		Title:      "Makita DHP484 18V Combi Drill Kit 2 x 5.0Ah",
		Category:   "diy",
		SizeTier:   domain.TierStandard,
		Price:      domain.NewMoney(24999),
		SalesRank:  intp(900),
		OfferCount: intp(2),
		AsOf:       time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func modelForecast(unitsPerDay float64) domain.DemandForecast {
	return domain.DemandForecast{UnitsPerDay: &unitsPerDay, Source: domain.DemandModel}
}

func newTestAnalyzer(
	ms *storeMocks.MockStore,
	mp *marketMocks.MockProvider,
	md *demandMocks.MockEstimator,
) *BatchAnalyzer {
	return NewBatchAnalyzer(
		ms, mp, md, titles.NewRegexParser(),
		testFeeConfig(), score.DefaultConfig(),
		WithLogger(quietLogger()),
	)
}

func TestNormalizeIdentifiers(t *testing.T) {
	t.Parallel()

	valid, invalid := normalizeIdentifiers([]string{
		"b0example1",     // lowercased, normalizes fine
		"B0EXAMPLE1",     // duplicate after normalization
		" B0EXAMPLE2 ",   // whitespace trimmed
		"short",          // wrong length
		"B0-EXAMPLE",     // illegal character
		"",               // empty
		"B0EXAMPLE3",
	})

	assert.Equal(t, []string{"B0EXAMPLE1", "B0EXAMPLE2", "B0EXAMPLE3"}, valid)
	assert.Equal(t, []string{"short", "B0-EXAMPLE", ""}, invalid)
}

func TestAnalyze_NoValidIdentifiers(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	mp := marketMocks.NewMockProvider(t)
	md := demandMocks.NewMockEstimator(t)

	a := newTestAnalyzer(ms, mp, md)

	_, err := a.Analyze(context.Background(), Request{Identifiers: []string{"nope", ""}})
	require.ErrorIs(t, err, ErrNoValidIdentifiers)
}

func TestAnalyze_MappedBomHappyPath(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	mp := marketMocks.NewMockProvider(t)
	md := demandMocks.NewMockEstimator(t)

	kit := drillKitBom()

	mp.On("GetSnapshots", mock.Anything, []string{"B0DRILL001"}).
		Return(map[string]domain.MarketSnapshot{"B0DRILL001": drillSnapshot("B0DRILL001")}, nil)
	ms.On("GetListingMappings", mock.Anything, []string{"B0DRILL001"}).
		Return(map[string]domain.ListingMapping{
			"B0DRILL001": {ASIN: "B0DRILL001", BomID: kit.ID},
		}, nil)
	ms.On("GetActiveBoms", mock.Anything).
		Return([]domain.BillOfMaterials{kit}, nil)
	ms.On("GetStockLevels", mock.Anything, []string{"comp-battery", "comp-drill"}, "main").
		Return(domain.StockSnapshot{
			"comp-battery": {OnHand: 20, Reserved: 0},
			"comp-drill":   {OnHand: 12, Reserved: 2},
		}, nil)
	md.On("Predict", mock.Anything, mock.Anything).Return(modelForecast(1.2))

	a := newTestAnalyzer(ms, mp, md)

	batch, err := a.Analyze(context.Background(), Request{Identifiers: []string{"B0DRILL001"}})
	require.NoError(t, err)
	require.Len(t, batch.Results, 1)

	r := batch.Results[0]
	assert.Equal(t, "B0DRILL001", r.ASIN)
	assert.True(t, r.HasPrice)
	assert.Equal(t, int64(24999), r.Price.Amount)

	assert.Equal(t, domain.BomMapped, r.Bom.Source)
	assert.Equal(t, kit.ID, r.Bom.BomID)
	require.True(t, r.Cost.Known)
	assert.Equal(t, int64(2*4500+4000), r.Cost.Amount)

	require.NotNil(t, r.Profit)
	assert.True(t, r.Profit.IsProfitable)
	assert.False(t, r.Profit.Fees.Estimated)

	require.NotNil(t, r.TargetPrice)
	assert.True(t, r.TargetPrice.Achievable)

	require.NotNil(t, r.Feasibility)
	// Batteries: 20/2 = 10; drill: (12-2)/1 = 10.
	assert.Equal(t, 10, r.Feasibility.BuildableUnits)

	assert.Equal(t, domain.DemandModel, r.Demand.Source)
	assert.Equal(t, domain.BandGreen, r.Score.Band)
	assert.Equal(t, domain.ActionListTest, r.Action)

	assert.Equal(t, 1, batch.Meta.TotalAnalyzed)
	assert.Empty(t, batch.Meta.UnresolvedIdentifiers)
	assert.True(t, batch.Meta.UsedDefaults)
}

func TestAnalyze_MissingSizeTierMarksFeesEstimated(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	mp := marketMocks.NewMockProvider(t)
	md := demandMocks.NewMockEstimator(t)

	kit := drillKitBom()
	snap := drillSnapshot("B0DRILL001")
	snap.SizeTier = ""

	mp.On("GetSnapshots", mock.Anything, []string{"B0DRILL001"}).
		Return(map[string]domain.MarketSnapshot{"B0DRILL001": snap}, nil)
	ms.On("GetListingMappings", mock.Anything, []string{"B0DRILL001"}).
		Return(map[string]domain.ListingMapping{
			"B0DRILL001": {ASIN: "B0DRILL001", BomID: kit.ID},
		}, nil)
	ms.On("GetActiveBoms", mock.Anything).
		Return([]domain.BillOfMaterials{kit}, nil)
	ms.On("GetStockLevels", mock.Anything, mock.Anything, "main").
		Return(domain.StockSnapshot{}, nil)
	md.On("Predict", mock.Anything, mock.Anything).Return(modelForecast(1.2))

	a := newTestAnalyzer(ms, mp, md)

	batch, err := a.Analyze(context.Background(), Request{Identifiers: []string{"B0DRILL001"}})
	require.NoError(t, err)
	require.Len(t, batch.Results, 1)

	r := batch.Results[0]
	require.NotNil(t, r.Profit)
	assert.True(t, r.Profit.Fees.Estimated)
	// The fulfillment charge falls back to the standard tier.
	assert.Equal(t, int64(295), r.Profit.Fees.Fulfillment)
}

func TestAnalyze_TitleMatchFallback(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	mp := marketMocks.NewMockProvider(t)
	md := demandMocks.NewMockEstimator(t)

	kit := drillKitBom()

	mp.On("GetSnapshots", mock.Anything, mock.Anything).
		Return(map[string]domain.MarketSnapshot{"B0DRILL001": drillSnapshot("B0DRILL001")}, nil)
	ms.On("GetListingMappings", mock.Anything, mock.Anything).
		Return(map[string]domain.ListingMapping{}, nil)
	ms.On("GetActiveBoms", mock.Anything).
		Return([]domain.BillOfMaterials{kit}, nil)
	ms.On("GetStockLevels", mock.Anything, mock.Anything, "main").
		Return(domain.StockSnapshot{}, nil)
	md.On("Predict", mock.Anything, mock.Anything).Return(modelForecast(0.5))

	a := newTestAnalyzer(ms, mp, md)

	batch, err := a.Analyze(context.Background(), Request{Identifiers: []string{"B0DRILL001"}})
	require.NoError(t, err)
	require.Len(t, batch.Results, 1)

	r := batch.Results[0]
	assert.Equal(t, domain.BomMatched, r.Bom.Source)
	assert.Equal(t, kit.ID, r.Bom.BomID)
	assert.NotEmpty(t, r.Bom.Rationale)
	assert.NotZero(t, r.Bom.MatchScore)
}

func TestAnalyze_ForcedBomWinsOverMapping(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	mp := marketMocks.NewMockProvider(t)
	md := demandMocks.NewMockEstimator(t)

	kit := drillKitBom()
	other := domain.BillOfMaterials{
		ID: "bom-other", SKU: "OTHER-KIT", Active: true,
		Lines: []domain.BomLine{
			{ComponentID: "comp-x", ComponentSKU: "X1", Quantity: 1, UnitCost: domain.NewMoney(100)},
		},
	}

	mp.On("GetSnapshots", mock.Anything, mock.Anything).
		Return(map[string]domain.MarketSnapshot{"B0DRILL001": drillSnapshot("B0DRILL001")}, nil)
	ms.On("GetListingMappings", mock.Anything, mock.Anything).
		Return(map[string]domain.ListingMapping{
			"B0DRILL001": {ASIN: "B0DRILL001", BomID: kit.ID},
		}, nil)
	ms.On("GetActiveBoms", mock.Anything).
		Return([]domain.BillOfMaterials{kit, other}, nil)
	ms.On("GetStockLevels", mock.Anything, mock.Anything, "main").
		Return(domain.StockSnapshot{}, nil)
	md.On("Predict", mock.Anything, mock.Anything).Return(modelForecast(0.5))

	a := newTestAnalyzer(ms, mp, md)

	batch, err := a.Analyze(context.Background(), Request{
		Identifiers: []string{"B0DRILL001"},
		ForcedBomID: other.ID,
	})
	require.NoError(t, err)

	r := batch.Results[0]
	assert.Equal(t, domain.BomForced, r.Bom.Source)
	assert.Equal(t, other.ID, r.Bom.BomID)
	assert.Equal(t, int64(100), r.Cost.Amount)
}

func TestAnalyze_UnresolvedIdentifierStillPresent(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	mp := marketMocks.NewMockProvider(t)
	md := demandMocks.NewMockEstimator(t)

	mp.On("GetSnapshots", mock.Anything, mock.Anything).
		Return(map[string]domain.MarketSnapshot{}, nil)
	ms.On("GetListingMappings", mock.Anything, mock.Anything).
		Return(map[string]domain.ListingMapping{}, nil)
	ms.On("GetActiveBoms", mock.Anything).
		Return([]domain.BillOfMaterials{}, nil)
	md.On("Predict", mock.Anything, mock.Anything).
		Return(domain.DemandForecast{Source: domain.DemandFallback, Error: "no sales rank available"})

	a := newTestAnalyzer(ms, mp, md)

	batch, err := a.Analyze(context.Background(), Request{Identifiers: []string{"B0MISSING1"}})
	require.NoError(t, err)
	require.Len(t, batch.Results, 1)

	r := batch.Results[0]
	assert.False(t, r.HasPrice)
	assert.False(t, r.Price.Known)
	assert.Equal(t, domain.BomNone, r.Bom.Source)
	assert.Nil(t, r.Profit)
	assert.Nil(t, r.TargetPrice)

	// Missing data caps the score and keeps the band out of GREEN.
	assert.LessOrEqual(t, r.Score.Value, 69)
	assert.NotEqual(t, domain.BandGreen, r.Score.Band)
	assert.Equal(t, domain.ActionMapBom, r.Action)

	assert.Equal(t, []string{"B0MISSING1"}, batch.Meta.UnresolvedIdentifiers)
}

func TestAnalyze_MarketFailureDegradesNotAborts(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	mp := marketMocks.NewMockProvider(t)
	md := demandMocks.NewMockEstimator(t)

	mp.On("GetSnapshots", mock.Anything, mock.Anything).
		Return(nil, errors.New("pricing API down"))
	ms.On("GetListingMappings", mock.Anything, mock.Anything).
		Return(map[string]domain.ListingMapping{}, nil)
	ms.On("GetActiveBoms", mock.Anything).
		Return([]domain.BillOfMaterials{}, nil)
	md.On("Predict", mock.Anything, mock.Anything).
		Return(domain.DemandForecast{Source: domain.DemandFallback})

	a := newTestAnalyzer(ms, mp, md)

	batch, err := a.Analyze(context.Background(), Request{Identifiers: []string{"B0EXAMPLE1"}})
	require.NoError(t, err)
	require.Len(t, batch.Results, 1)
	assert.False(t, batch.Results[0].HasPrice)
	assert.Equal(t, []string{"B0EXAMPLE1"}, batch.Meta.UnresolvedIdentifiers)

	require.Len(t, batch.Meta.Warnings, 1)
	assert.Contains(t, batch.Meta.Warnings[0], "market data unavailable")
}

func TestAnalyze_StoreFailureAborts(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	mp := marketMocks.NewMockProvider(t)
	md := demandMocks.NewMockEstimator(t)

	mp.On("GetSnapshots", mock.Anything, mock.Anything).
		Return(map[string]domain.MarketSnapshot{}, nil)
	ms.On("GetListingMappings", mock.Anything, mock.Anything).
		Return(map[string]domain.ListingMapping{}, nil)
	ms.On("GetActiveBoms", mock.Anything).
		Return(nil, errors.New("connection refused"))

	a := newTestAnalyzer(ms, mp, md)

	_, err := a.Analyze(context.Background(), Request{Identifiers: []string{"B0EXAMPLE1"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetching bom catalog")
}

func TestAnalyze_FeeOverrideChangesMargin(t *testing.T) {
	t.Parallel()

	run := func(t *testing.T, override *float64) float64 {
		t.Helper()

		ms := storeMocks.NewMockStore(t)
		mp := marketMocks.NewMockProvider(t)
		md := demandMocks.NewMockEstimator(t)

		kit := drillKitBom()

		mp.On("GetSnapshots", mock.Anything, mock.Anything).
			Return(map[string]domain.MarketSnapshot{"B0DRILL001": drillSnapshot("B0DRILL001")}, nil)
		ms.On("GetListingMappings", mock.Anything, mock.Anything).
			Return(map[string]domain.ListingMapping{
				"B0DRILL001": {ASIN: "B0DRILL001", BomID: kit.ID, FeeOverridePercent: override},
			}, nil)
		ms.On("GetActiveBoms", mock.Anything).
			Return([]domain.BillOfMaterials{kit}, nil)
		ms.On("GetStockLevels", mock.Anything, mock.Anything, "main").
			Return(domain.StockSnapshot{}, nil)
		md.On("Predict", mock.Anything, mock.Anything).Return(modelForecast(1))

		a := newTestAnalyzer(ms, mp, md)

		batch, err := a.Analyze(context.Background(), Request{Identifiers: []string{"B0DRILL001"}})
		require.NoError(t, err)
		require.NotNil(t, batch.Results[0].Profit)
		return batch.Results[0].Profit.NetMarginPct
	}

	lowFee := 5.0
	withOverride := run(t, &lowFee)
	withoutOverride := run(t, nil)

	assert.Greater(t, withOverride, withoutOverride,
		"a lower referral percent must improve the margin")
}

func TestAnalyze_SortedByScoreDescending(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	mp := marketMocks.NewMockProvider(t)
	md := demandMocks.NewMockEstimator(t)

	kit := drillKitBom()

	// B0GOODDEAL has a healthy margin; B0THINDEAL sells barely above cost.
	good := drillSnapshot("B0GOODDEAL")
	thin := drillSnapshot("B0THINDEAL")
	thin.Price = domain.NewMoney(14000)

	mp.On("GetSnapshots", mock.Anything, mock.Anything).
		Return(map[string]domain.MarketSnapshot{"B0GOODDEAL": good, "B0THINDEAL": thin}, nil)
	ms.On("GetListingMappings", mock.Anything, mock.Anything).
		Return(map[string]domain.ListingMapping{
			"B0GOODDEAL": {ASIN: "B0GOODDEAL", BomID: kit.ID},
			"B0THINDEAL": {ASIN: "B0THINDEAL", BomID: kit.ID},
		}, nil)
	ms.On("GetActiveBoms", mock.Anything).
		Return([]domain.BillOfMaterials{kit}, nil)
	ms.On("GetStockLevels", mock.Anything, mock.Anything, "main").
		Return(domain.StockSnapshot{
			"comp-battery": {OnHand: 20},
			"comp-drill":   {OnHand: 20},
		}, nil)
	md.On("Predict", mock.Anything, mock.Anything).Return(modelForecast(1))

	a := newTestAnalyzer(ms, mp, md)

	batch, err := a.Analyze(context.Background(), Request{
		Identifiers: []string{"B0THINDEAL", "B0GOODDEAL"},
	})
	require.NoError(t, err)
	require.Len(t, batch.Results, 2)

	assert.Equal(t, "B0GOODDEAL", batch.Results[0].ASIN)
	assert.Equal(t, "B0THINDEAL", batch.Results[1].ASIN)
	assert.Greater(t, batch.Results[0].Score.Value, batch.Results[1].Score.Value)
}

func TestAnalyze_ScoringOverridesClearUsedDefaults(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	mp := marketMocks.NewMockProvider(t)
	md := demandMocks.NewMockEstimator(t)

	mp.On("GetSnapshots", mock.Anything, mock.Anything).
		Return(map[string]domain.MarketSnapshot{}, nil)
	ms.On("GetListingMappings", mock.Anything, mock.Anything).
		Return(map[string]domain.ListingMapping{}, nil)
	ms.On("GetActiveBoms", mock.Anything).
		Return([]domain.BillOfMaterials{}, nil)
	md.On("Predict", mock.Anything, mock.Anything).
		Return(domain.DemandForecast{Source: domain.DemandFallback})

	a := newTestAnalyzer(ms, mp, md)

	overrides := &score.Overrides{
		MinMarginPct:    floatp(5),
		TargetMarginPct: floatp(8),
		HorizonDays:     intp(7),
	}
	batch, err := a.Analyze(context.Background(), Request{
		Identifiers:      []string{"B0EXAMPLE1"},
		ScoringOverrides: overrides,
	})
	require.NoError(t, err)
	assert.False(t, batch.Meta.UsedDefaults)
}

func TestAnalyze_Deterministic(t *testing.T) {
	t.Parallel()

	run := func(t *testing.T) *domain.BatchResult {
		t.Helper()

		ms := storeMocks.NewMockStore(t)
		mp := marketMocks.NewMockProvider(t)
		md := demandMocks.NewMockEstimator(t)

		kit := drillKitBom()
		snaps := map[string]domain.MarketSnapshot{
			"B0DRILL001": drillSnapshot("B0DRILL001"),
			"B0DRILL002": drillSnapshot("B0DRILL002"),
			"B0DRILL003": drillSnapshot("B0DRILL003"),
		}

		mp.On("GetSnapshots", mock.Anything, mock.Anything).Return(snaps, nil)
		ms.On("GetListingMappings", mock.Anything, mock.Anything).
			Return(map[string]domain.ListingMapping{}, nil)
		ms.On("GetActiveBoms", mock.Anything).
			Return([]domain.BillOfMaterials{kit}, nil)
		ms.On("GetStockLevels", mock.Anything, mock.Anything, "main").
			Return(domain.StockSnapshot{}, nil)
		md.On("Predict", mock.Anything, mock.Anything).Return(modelForecast(1))

		a := newTestAnalyzer(ms, mp, md)
		batch, err := a.Analyze(context.Background(), Request{
			Identifiers: []string{"B0DRILL002", "B0DRILL001", "B0DRILL003"},
		})
		require.NoError(t, err)
		return batch
	}

	first := run(t)
	for range 5 {
		again := run(t)
		require.Equal(t, first.Results, again.Results)
	}
}

// countingParser wraps a real parser and counts how often it runs.
type countingParser struct {
	inner titles.Parser
	calls atomic.Int32
}

func (p *countingParser) Parse(title string) *domain.ParsedIntent {
	p.calls.Add(1)
	return p.inner.Parse(title)
}

func TestAnalyze_PartialOverrideKeepsRemainingDefaults(t *testing.T) {
	t.Parallel()

	run := func(t *testing.T, overrides *score.Overrides) *domain.BatchResult {
		t.Helper()

		ms := storeMocks.NewMockStore(t)
		mp := marketMocks.NewMockProvider(t)
		md := demandMocks.NewMockEstimator(t)

		kit := drillKitBom()

		mp.On("GetSnapshots", mock.Anything, mock.Anything).
			Return(map[string]domain.MarketSnapshot{"B0DRILL001": drillSnapshot("B0DRILL001")}, nil)
		ms.On("GetListingMappings", mock.Anything, mock.Anything).
			Return(map[string]domain.ListingMapping{
				"B0DRILL001": {ASIN: "B0DRILL001", BomID: kit.ID},
			}, nil)
		ms.On("GetActiveBoms", mock.Anything).
			Return([]domain.BillOfMaterials{kit}, nil)
		ms.On("GetStockLevels", mock.Anything, mock.Anything, "main").
			Return(domain.StockSnapshot{}, nil)
		md.On("Predict", mock.Anything, mock.Anything).Return(modelForecast(3))

		a := newTestAnalyzer(ms, mp, md)

		batch, err := a.Analyze(context.Background(), Request{
			Identifiers:      []string{"B0DRILL001"},
			ScoringOverrides: overrides,
		})
		require.NoError(t, err)
		require.Len(t, batch.Results, 1)
		return batch
	}

	defaults := run(t, nil)
	// Restating only the default minimum must not disturb the target
	// margin or the demand horizon.
	partial := run(t, &score.Overrides{MinMarginPct: floatp(10)})

	assert.False(t, partial.Meta.UsedDefaults)
	assert.Equal(t, defaults.Results[0].Score, partial.Results[0].Score)

	var marginDetail, demandDetail string
	for _, r := range partial.Results[0].Score.Reasons {
		switch r.Code {
		case score.ReasonMarginBonus:
			marginDetail = r.Detail
		case score.ReasonDemandForecast:
			demandDetail = r.Detail
		}
	}
	assert.Contains(t, marginDetail, "15.0% target")
	assert.Contains(t, demandDetail, "over 30 days")
}

func TestAnalyze_SnapshotWithUnknownPriceIsNotUnresolved(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	mp := marketMocks.NewMockProvider(t)
	md := demandMocks.NewMockEstimator(t)

	// The market knows the listing but reports no price for it.
	snap := drillSnapshot("B0NOPRICE1")
	snap.Price = domain.UnknownMoney()
	snap.PriceHistory = nil

	mp.On("GetSnapshots", mock.Anything, mock.Anything).
		Return(map[string]domain.MarketSnapshot{"B0NOPRICE1": snap}, nil)
	ms.On("GetListingMappings", mock.Anything, mock.Anything).
		Return(map[string]domain.ListingMapping{}, nil)
	ms.On("GetActiveBoms", mock.Anything).
		Return([]domain.BillOfMaterials{}, nil)
	md.On("Predict", mock.Anything, mock.Anything).
		Return(domain.DemandForecast{Source: domain.DemandFallback})

	a := newTestAnalyzer(ms, mp, md)

	batch, err := a.Analyze(context.Background(), Request{Identifiers: []string{"B0NOPRICE1"}})
	require.NoError(t, err)
	require.Len(t, batch.Results, 1)

	assert.False(t, batch.Results[0].HasPrice)
	assert.Empty(t, batch.Meta.UnresolvedIdentifiers)
}

func TestAnalyze_PanicKeepsPartialResultsAndWarns(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	mp := marketMocks.NewMockProvider(t)
	md := demandMocks.NewMockEstimator(t)

	kit := drillKitBom()

	mp.On("GetSnapshots", mock.Anything, mock.Anything).
		Return(map[string]domain.MarketSnapshot{
			"B0DRILL001": drillSnapshot("B0DRILL001"),
			"B0DRILL002": drillSnapshot("B0DRILL002"),
		}, nil)
	ms.On("GetListingMappings", mock.Anything, mock.Anything).
		Return(map[string]domain.ListingMapping{
			"B0DRILL001": {ASIN: "B0DRILL001", BomID: kit.ID},
			"B0DRILL002": {ASIN: "B0DRILL002", BomID: kit.ID},
		}, nil)
	ms.On("GetActiveBoms", mock.Anything).
		Return([]domain.BillOfMaterials{kit}, nil)
	ms.On("GetStockLevels", mock.Anything, mock.Anything, "main").
		Return(domain.StockSnapshot{}, nil)
	md.On("Predict", mock.Anything, mock.Anything).Return(modelForecast(1)).Once()
	md.On("Predict", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { panic("demand model corrupted") }).
		Return(domain.DemandForecast{}).Once()

	a := NewBatchAnalyzer(
		ms, mp, md, titles.NewRegexParser(),
		testFeeConfig(), score.DefaultConfig(),
		WithLogger(quietLogger()), WithWorkers(1),
	)

	batch, err := a.Analyze(context.Background(), Request{
		Identifiers: []string{"B0DRILL001", "B0DRILL002"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "B0DRILL002")

	require.NotNil(t, batch)
	require.Len(t, batch.Results, 1)
	assert.Equal(t, "B0DRILL001", batch.Results[0].ASIN)

	require.Len(t, batch.Meta.Warnings, 1)
	assert.Contains(t, batch.Meta.Warnings[0], "batch incomplete")
}

func TestAnalyze_SharedTitleResolvesBomOnce(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	mp := marketMocks.NewMockProvider(t)
	md := demandMocks.NewMockEstimator(t)

	kit := drillKitBom()

	// Two listings for the same product differ only by identifier.
	mp.On("GetSnapshots", mock.Anything, mock.Anything).
		Return(map[string]domain.MarketSnapshot{
			"B0DRILL001": drillSnapshot("B0DRILL001"),
			"B0DRILL002": drillSnapshot("B0DRILL002"),
		}, nil)
	ms.On("GetListingMappings", mock.Anything, mock.Anything).
		Return(map[string]domain.ListingMapping{}, nil)
	ms.On("GetActiveBoms", mock.Anything).
		Return([]domain.BillOfMaterials{kit}, nil)
	ms.On("GetStockLevels", mock.Anything, mock.Anything, "main").
		Return(domain.StockSnapshot{}, nil)
	md.On("Predict", mock.Anything, mock.Anything).Return(modelForecast(1))

	parser := &countingParser{inner: titles.NewRegexParser()}
	a := NewBatchAnalyzer(
		ms, mp, md, parser,
		testFeeConfig(), score.DefaultConfig(),
		WithLogger(quietLogger()), WithWorkers(1),
	)

	batch, err := a.Analyze(context.Background(), Request{
		Identifiers: []string{"B0DRILL001", "B0DRILL002"},
	})
	require.NoError(t, err)
	require.Len(t, batch.Results, 2)

	for _, r := range batch.Results {
		assert.Equal(t, domain.BomMatched, r.Bom.Source)
		assert.Equal(t, kit.ID, r.Bom.BomID)
	}
	assert.Equal(t, int32(1), parser.calls.Load())
}
