// Package domain defines the core business types for listing-scout.
package domain

import (
	"encoding/json"
	"sort"
	"time"
)

// Money is an amount in minor currency units (pence). Known reports whether
// the amount is actually known; an unknown amount is never treated as zero.
type Money struct {
	Amount int64
	Known  bool
}

// NewMoney returns a known amount in minor units.
func NewMoney(amount int64) Money {
	return Money{Amount: amount, Known: true}
}

// UnknownMoney returns the "unknown" amount.
func UnknownMoney() Money {
	return Money{}
}

// MarshalJSON encodes an unknown amount as null.
func (m Money) MarshalJSON() ([]byte, error) {
	if !m.Known {
		return []byte("null"), nil
	}
	return json.Marshal(m.Amount)
}

// UnmarshalJSON decodes null as unknown.
func (m *Money) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Money{}
		return nil
	}
	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = Money{Amount: v, Known: true}
	return nil
}

// SizeTier represents the fulfillment size tier of a listing.
type SizeTier string

// Size tier constants.
const (
	TierSmall    SizeTier = "small"
	TierStandard SizeTier = "standard"
	TierLarge    SizeTier = "large"
	TierOversize SizeTier = "oversize"
)

// FeeConfig holds the marketplace fee schedule. It is loaded once from
// configuration and passed explicitly into every fee computation.
type FeeConfig struct {
	ReferralPercent float64            `json:"referral_percent" yaml:"referral_percent"`
	ReferralFloor   int64              `json:"referral_floor"   yaml:"referral_floor"`
	FulfillmentFees map[SizeTier]int64 `json:"fulfillment_fees" yaml:"fulfillment_fees"`
	VATRatePercent  float64            `json:"vat_rate_percent" yaml:"vat_rate_percent"`
	ClosingFee      int64              `json:"closing_fee"      yaml:"closing_fee"`
	MediaCategories []string           `json:"media_categories" yaml:"media_categories"`
}

// FulfillmentFee looks up the per-tier fulfillment fee.
// Unknown tiers fall back to the standard tier.
func (c *FeeConfig) FulfillmentFee(tier SizeTier) int64 {
	if fee, ok := c.FulfillmentFees[tier]; ok {
		return fee
	}
	return c.FulfillmentFees[TierStandard]
}

// IsMediaCategory reports whether a category incurs the closing fee.
func (c *FeeConfig) IsMediaCategory(category string) bool {
	for _, m := range c.MediaCategories {
		if m == category {
			return true
		}
	}
	return false
}

// Component is a purchasable part used to assemble sellable products.
type Component struct {
	ID          string    `json:"id"                    db:"id"`
	SKU         string    `json:"sku"                   db:"sku"`
	Description string    `json:"description,omitempty" db:"description"`
	Brand       string    `json:"brand,omitempty"       db:"brand"`
	UnitCost    Money     `json:"unit_cost"             db:"unit_cost"`
	CreatedAt   time.Time `json:"created_at"            db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"            db:"updated_at"`
}

// BomLine is one component requirement inside a bill of materials.
type BomLine struct {
	ComponentID  string `json:"component_id"  db:"component_id"`
	ComponentSKU string `json:"component_sku" db:"component_sku"`
	Quantity     int    `json:"quantity"      db:"quantity"`
	UnitCost     Money  `json:"unit_cost"     db:"unit_cost"`
}

// BillOfMaterials maps a sellable product to the components and
// quantities needed to assemble it.
type BillOfMaterials struct {
	ID          string    `json:"id"                    db:"id"`
	SKU         string    `json:"sku"                   db:"sku"`
	Description string    `json:"description,omitempty" db:"description"`
	Active      bool      `json:"active"                db:"active"`
	Lines       []BomLine `json:"lines"`
	CreatedAt   time.Time `json:"created_at"            db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"            db:"updated_at"`
}

// CostOfGoods sums line quantities times unit costs. The cost is unknown
// when the BOM has no lines or any line cost is unknown.
func (b *BillOfMaterials) CostOfGoods() Money {
	if len(b.Lines) == 0 {
		return UnknownMoney()
	}
	var total int64
	for _, l := range b.Lines {
		if !l.UnitCost.Known {
			return UnknownMoney()
		}
		total += l.UnitCost.Amount * int64(l.Quantity)
	}
	return NewMoney(total)
}

// MarketSnapshot is a point-in-time view of one marketplace identifier.
type MarketSnapshot struct {
	ASIN         string    `json:"asin"`
	Title        string    `json:"title,omitempty"`
	Category     string    `json:"category,omitempty"`
	SizeTier     SizeTier  `json:"size_tier,omitempty"`
	Price        Money     `json:"price"`
	SalesRank    *int      `json:"sales_rank,omitempty"`
	OfferCount   *int      `json:"offer_count,omitempty"`
	PriceHistory []int64   `json:"price_history,omitempty"`
	AsOf         time.Time `json:"as_of"`
}

// BestPrice prefers the median of the short price history over the
// instantaneous price, which smooths out transient repricing spikes.
func (s *MarketSnapshot) BestPrice() Money {
	if len(s.PriceHistory) >= 3 {
		return NewMoney(medianInt64(s.PriceHistory))
	}
	return s.Price
}

func medianInt64(vals []int64) int64 {
	sorted := make([]int64, len(vals))
	copy(sorted, vals)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// ParsedIntent holds structured attributes extracted from a listing title.
type ParsedIntent struct {
	Brand        string  `json:"brand,omitempty"`
	ToolType     string  `json:"tool_type,omitempty"`
	Voltage      int     `json:"voltage,omitempty"`
	BatteryCount int     `json:"battery_count,omitempty"`
	BatteryAh    float64 `json:"battery_ah,omitempty"`
	IsKit        bool    `json:"is_kit,omitempty"`
	IsBareTool   bool    `json:"is_bare_tool,omitempty"`
	HasCharger   bool    `json:"has_charger,omitempty"`
	HasCase      bool    `json:"has_case,omitempty"`
}

// StockLevel is the on-hand and reserved quantity of one component.
type StockLevel struct {
	OnHand   int `json:"on_hand"  db:"on_hand"`
	Reserved int `json:"reserved" db:"reserved"`
}

// Available is on-hand minus reserved. It may be negative; the stock
// ledger owns that invariant, not this subsystem.
func (s StockLevel) Available() int {
	return s.OnHand - s.Reserved
}

// StockSnapshot maps component id to its stock level at one location.
type StockSnapshot map[string]StockLevel

// ListingMapping links a marketplace identifier to a known BOM.
type ListingMapping struct {
	ASIN               string   `json:"asin"                           db:"asin"`
	BomID              string   `json:"bom_id"                         db:"bom_id"`
	FeeOverridePercent *float64 `json:"fee_override_percent,omitempty" db:"fee_override_percent"`
}

// Confidence grades how certain a BOM match is.
type Confidence string

// Confidence constants.
const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// Band is the coarse decision band for an opportunity.
type Band string

// Band constants.
const (
	BandGreen Band = "GREEN"
	BandAmber Band = "AMBER"
	BandRed   Band = "RED"
)

// Action is the suggested next step for an opportunity.
type Action string

// Action constants.
const (
	ActionDoNotList   Action = "DO_NOT_LIST"
	ActionInvestigate Action = "INVESTIGATE"
	ActionMapBom      Action = "MAP_BOM"
	ActionBuyStock    Action = "BUY_STOCK"
	ActionListTest    Action = "LIST_TEST"
)

// Reason is one explainable contribution to a score.
type Reason struct {
	Code   string  `json:"code"`
	Weight float64 `json:"weight"`
	Detail string  `json:"detail"`
}

// ScoreResult is the 0-100 opportunity score with its explanation.
type ScoreResult struct {
	Value      int      `json:"value"`
	Band       Band     `json:"band"`
	HardCapped bool     `json:"hard_capped,omitempty"`
	Reasons    []Reason `json:"reasons"`
}

// FeeBreakdown itemizes marketplace fees for one price point.
type FeeBreakdown struct {
	Referral    int64 `json:"referral"`
	Fulfillment int64 `json:"fulfillment"`
	Closing     int64 `json:"closing"`
	Total       int64 `json:"total"`
	Estimated   bool  `json:"estimated,omitempty"`
}

// ProfitBreakdown holds the margin arithmetic for one price/cost pair.
type ProfitBreakdown struct {
	Price          int64        `json:"price"`
	Cost           int64        `json:"cost"`
	Fees           FeeBreakdown `json:"fees"`
	GrossProfit    int64        `json:"gross_profit"`
	NetProfit      int64        `json:"net_profit"`
	GrossMarginPct float64      `json:"gross_margin_pct"`
	NetMarginPct   float64      `json:"net_margin_pct"`
	ROIPct         float64      `json:"roi_pct"`
	IsProfitable   bool         `json:"is_profitable"`
}

// TargetPriceQuote is the result of solving for a minimum price at a
// target margin. Price is only usable when Achievable and Converged.
type TargetPriceQuote struct {
	TargetMarginPct   float64 `json:"target_margin_pct"`
	Achievable        bool    `json:"achievable"`
	Converged         bool    `json:"converged"`
	Price             Money   `json:"price"`
	AchievedMarginPct float64 `json:"achieved_margin_pct"`
	Iterations        int     `json:"iterations"`
	Reason            string  `json:"reason,omitempty"`
}

// DemandSource tells whether a forecast came from the model or a fallback.
type DemandSource string

// Demand source constants.
const (
	DemandModel    DemandSource = "MODEL"
	DemandFallback DemandSource = "FALLBACK"
)

// DemandForecast is an estimate of daily sell-through velocity.
type DemandForecast struct {
	UnitsPerDay *float64     `json:"units_per_day"`
	Source      DemandSource `json:"source"`
	Error       string       `json:"error,omitempty"`
}

// UnitsOver projects the forecast over a horizon in days.
// Returns 0 when no estimate exists.
func (f DemandForecast) UnitsOver(days int) float64 {
	if f.UnitsPerDay == nil {
		return 0
	}
	return *f.UnitsPerDay * float64(days)
}

// BomSource tells how a BOM was resolved for a candidate.
type BomSource string

// BOM resolution source constants.
const (
	BomForced  BomSource = "FORCED"
	BomMapped  BomSource = "MAPPED"
	BomMatched BomSource = "MATCHED"
	BomNone    BomSource = "NONE"
)

// BomResolution records which BOM an analysis used and how sure it is.
type BomResolution struct {
	Source     BomSource  `json:"source"`
	BomID      string     `json:"bom_id,omitempty"`
	SKU        string     `json:"sku,omitempty"`
	Confidence Confidence `json:"confidence,omitempty"`
	MatchScore int        `json:"match_score,omitempty"`
	Rationale  []string   `json:"rationale,omitempty"`
}

// Feasibility is the buildable-units computation for one candidate.
type Feasibility struct {
	BuildableUnits int    `json:"buildable_units"`
	BottleneckID   string `json:"bottleneck_component_id,omitempty"`
	BottleneckSKU  string `json:"bottleneck_component_sku,omitempty"`
	DaysOfCover    *int   `json:"days_of_cover,omitempty"`
}

// OpportunityResult is the full per-candidate analysis output.
type OpportunityResult struct {
	ASIN        string            `json:"asin"`
	Title       string            `json:"title,omitempty"`
	HasPrice    bool              `json:"has_price"`
	Price       Money             `json:"price"`
	Market      *MarketSnapshot   `json:"market,omitempty"`
	Bom         BomResolution     `json:"bom"`
	Cost        Money             `json:"cost"`
	Profit      *ProfitBreakdown  `json:"profit,omitempty"`
	TargetPrice *TargetPriceQuote `json:"target_price,omitempty"`
	Feasibility *Feasibility      `json:"feasibility,omitempty"`
	Demand      DemandForecast    `json:"demand"`
	Score       ScoreResult       `json:"score"`
	Action      Action            `json:"action"`
}

// HasBom reports whether a BOM was resolved for this candidate.
func (r *OpportunityResult) HasBom() bool {
	return r.Bom.Source != BomNone && r.Bom.BomID != ""
}

// BatchMeta summarizes a batch analysis run.
type BatchMeta struct {
	TotalAnalyzed         int      `json:"total_analyzed"`
	UnresolvedIdentifiers []string `json:"unresolved_identifiers"`
	InvalidIdentifiers    []string `json:"invalid_identifiers"`
	UsedDefaults          bool     `json:"used_defaults"`
	Warnings              []string `json:"warnings,omitempty"`
}

// BatchResult is the ranked output of one batch analysis.
type BatchResult struct {
	Results []OpportunityResult `json:"results"`
	Meta    BatchMeta           `json:"meta"`
}
