// Package score computes the 0-100 opportunity score for a candidate
// listing. The scorer is a pure function driven by an ordered rule table:
// reason ordering in the output is guaranteed by table order, and every
// threshold lives in the table's rules rather than in control flow.
package score

import (
	"fmt"
	"math"

	domain "github.com/resellkit/listing-scout/pkg/types"
)

// Inputs are the per-candidate signals the scorer consumes. Pointer
// fields are nil when the signal is unknown; unknown is never zero.
type Inputs struct {
	NetMarginPct   *float64
	ForecastUnits  float64
	OfferCount     *int
	VolatilityPct  *float64
	BuildableUnits int
	HasBom         bool
	HasPrice       bool
}

// Config holds the margin thresholds and demand horizon.
type Config struct {
	MinMarginPct    float64 `json:"min_margin_pct"    yaml:"min_margin_pct"`
	TargetMarginPct float64 `json:"target_margin_pct" yaml:"target_margin_pct"`
	HorizonDays     int     `json:"horizon_days"      yaml:"horizon_days"`
}

// DefaultConfig returns the stock scoring thresholds.
func DefaultConfig() Config {
	return Config{
		MinMarginPct:    10,
		TargetMarginPct: 15,
		HorizonDays:     30,
	}
}

// Overrides carries optional per-request threshold adjustments. A nil
// field keeps the configured value, so callers can change one threshold
// without restating the rest.
type Overrides struct {
	MinMarginPct    *float64 `json:"min_margin_pct,omitempty"`
	TargetMarginPct *float64 `json:"target_margin_pct,omitempty"`
	HorizonDays     *int     `json:"horizon_days,omitempty"`
}

// Merge returns a copy of c with every non-nil override applied.
func (c Config) Merge(o *Overrides) Config {
	if o == nil {
		return c
	}
	if o.MinMarginPct != nil {
		c.MinMarginPct = *o.MinMarginPct
	}
	if o.TargetMarginPct != nil {
		c.TargetMarginPct = *o.TargetMarginPct
	}
	if o.HorizonDays != nil {
		c.HorizonDays = *o.HorizonDays
	}
	return c
}

// Reason codes, in rule-table order.
const (
	ReasonMarginBelowMin = "MARGIN_BELOW_MIN"
	ReasonMarginBonus    = "MARGIN_BONUS"
	ReasonDemandForecast = "DEMAND_FORECAST"
	ReasonCompetition    = "COMPETITION_PENALTY"
	ReasonVolatility     = "VOLATILITY_PENALTY"
	ReasonStockReady     = "STOCK_READY"
	ReasonLowStock       = "LOW_STOCK"
	ReasonBomUnknown     = "BOM_UNKNOWN"
	ReasonPriceUnknown   = "PRICE_UNKNOWN"
)

const (
	baseScore = 50

	// hardCapScore is the ceiling once the margin floor fires.
	hardCapScore = 39

	// missingDataCapScore blocks GREEN when price or BOM is unknown.
	missingDataCapScore = 69

	// demandBaselineUnits is the forecast (over the horizon) that earns
	// the full demand bonus; the bonus is log-scaled against it.
	demandBaselineUnits = 50

	greenMinScore = 75
	redMaxScore   = 40
)

type state struct {
	hardCapped bool
}

// rule is one row of the scoring table. eval reports whether the rule
// fires, its weight, and a human-readable detail line.
type rule struct {
	code string
	eval func(in Inputs, cfg Config, st *state) (fired bool, weight float64, detail string)
}

// ruleTable is applied strictly in order; the emitted reason list follows
// this order, which keeps identical inputs producing identical output.
var ruleTable = []rule{
	{ReasonMarginBelowMin, evalMarginFloor},
	{ReasonMarginBonus, evalMarginBonus},
	{ReasonDemandForecast, evalDemand},
	{ReasonCompetition, evalCompetition},
	{ReasonVolatility, evalVolatility},
	{ReasonStockReady, evalStockReady},
	{ReasonLowStock, evalLowStock},
	{ReasonBomUnknown, evalBomUnknown},
	{ReasonPriceUnknown, evalPriceUnknown},
}

// Score runs the rule table over the inputs. It is deterministic: no
// clock, no randomness, no shared state.
func Score(in Inputs, cfg Config) domain.ScoreResult {
	st := &state{}
	total := float64(baseScore)
	var reasons []domain.Reason

	for _, r := range ruleTable {
		fired, weight, detail := r.eval(in, cfg, st)
		if !fired {
			continue
		}
		total += weight
		reasons = append(reasons, domain.Reason{
			Code:   r.code,
			Weight: round1(weight),
			Detail: detail,
		})
	}

	ceiling := 100.0
	if !in.HasPrice || !in.HasBom {
		ceiling = missingDataCapScore
	}
	if st.hardCapped {
		ceiling = hardCapScore
	}

	value := int(math.Round(math.Min(math.Max(total, 0), ceiling)))

	return domain.ScoreResult{
		Value:      value,
		Band:       bandFor(value, in, cfg),
		HardCapped: st.hardCapped,
		Reasons:    reasons,
	}
}

func marginBelowMin(in Inputs, cfg Config) bool {
	return in.NetMarginPct != nil && *in.NetMarginPct < cfg.MinMarginPct
}

// bandFor maps a final score to its decision band. Missing price or BOM
// can never produce RED on its own; it only blocks GREEN.
func bandFor(value int, in Inputs, cfg Config) domain.Band {
	if value < redMaxScore || marginBelowMin(in, cfg) {
		return domain.BandRed
	}
	marginPasses := in.NetMarginPct != nil && *in.NetMarginPct >= cfg.MinMarginPct
	if value >= greenMinScore && marginPasses && in.HasPrice && in.HasBom {
		return domain.BandGreen
	}
	return domain.BandAmber
}

func evalMarginFloor(in Inputs, cfg Config, st *state) (bool, float64, string) {
	if !marginBelowMin(in, cfg) {
		return false, 0, ""
	}
	st.hardCapped = true
	return true, -40, fmt.Sprintf(
		"net margin %.1f%% is below the %.1f%% minimum",
		*in.NetMarginPct, cfg.MinMarginPct,
	)
}

func evalMarginBonus(in Inputs, cfg Config, st *state) (bool, float64, string) {
	if st.hardCapped || in.NetMarginPct == nil {
		return false, 0, ""
	}

	m := *in.NetMarginPct
	var bonus float64
	switch {
	case m >= cfg.TargetMarginPct:
		bonus = 30
	case cfg.TargetMarginPct > cfg.MinMarginPct:
		bonus = 30 * (m - cfg.MinMarginPct) / (cfg.TargetMarginPct - cfg.MinMarginPct)
	}
	if bonus <= 0 {
		return false, 0, ""
	}
	return true, bonus, fmt.Sprintf(
		"net margin %.1f%% against %.1f%% target", m, cfg.TargetMarginPct,
	)
}

func evalDemand(in Inputs, cfg Config, _ *state) (bool, float64, string) {
	if in.ForecastUnits <= 0 {
		return false, 0, ""
	}
	scale := math.Log(1+in.ForecastUnits) / math.Log(1+demandBaselineUnits)
	bonus := 25 * math.Min(1, scale)
	return true, bonus, fmt.Sprintf(
		"forecast %.0f units over %d days", in.ForecastUnits, cfg.HorizonDays,
	)
}

func evalCompetition(in Inputs, _ Config, _ *state) (bool, float64, string) {
	if in.OfferCount == nil {
		return false, 0, ""
	}
	n := *in.OfferCount
	var penalty float64
	switch {
	case n > 25:
		penalty = -15
	case n > 10:
		penalty = -10
	case n > 3:
		penalty = -5
	default:
		return false, 0, ""
	}
	return true, penalty, fmt.Sprintf("%d competing offers", n)
}

func evalVolatility(in Inputs, _ Config, _ *state) (bool, float64, string) {
	if in.VolatilityPct == nil {
		return false, 0, ""
	}
	v := *in.VolatilityPct
	var penalty float64
	switch {
	case v > 15:
		penalty = -10
	case v > 8:
		penalty = -5
	default:
		return false, 0, ""
	}
	return true, penalty, fmt.Sprintf("price volatility %.1f%%", v)
}

func evalStockReady(in Inputs, _ Config, _ *state) (bool, float64, string) {
	var bonus float64
	switch {
	case in.BuildableUnits >= 10:
		bonus = 10
	case in.BuildableUnits >= 3:
		bonus = 5
	default:
		return false, 0, ""
	}
	return true, bonus, fmt.Sprintf("%d units buildable from stock", in.BuildableUnits)
}

func evalLowStock(in Inputs, _ Config, _ *state) (bool, float64, string) {
	if in.BuildableUnits >= 3 {
		return false, 0, ""
	}
	return true, 0, fmt.Sprintf("only %d units buildable from stock", in.BuildableUnits)
}

func evalBomUnknown(in Inputs, _ Config, _ *state) (bool, float64, string) {
	if in.HasBom {
		return false, 0, ""
	}
	return true, 0, "no bill of materials resolved"
}

func evalPriceUnknown(in Inputs, _ Config, _ *state) (bool, float64, string) {
	if in.HasPrice {
		return false, 0, ""
	}
	return true, 0, "no market price available"
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
