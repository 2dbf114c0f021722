package score

import (
	domain "github.com/resellkit/listing-scout/pkg/types"
)

// actionMarginFloorPct is the margin below which a RED candidate is not
// worth investigating at all.
const actionMarginFloorPct = 10

// ActionInputs carries the already-scored facts the action rules need.
type ActionInputs struct {
	Band           domain.Band
	NetMarginPct   *float64
	HasBom         bool
	BuildableUnits int
}

// actionRules are evaluated first-match-wins, in order.
var actionRules = []struct {
	applies func(ActionInputs) bool
	action  domain.Action
}{
	{
		applies: func(in ActionInputs) bool {
			return in.Band == domain.BandRed &&
				in.NetMarginPct != nil && *in.NetMarginPct < actionMarginFloorPct
		},
		action: domain.ActionDoNotList,
	},
	{
		applies: func(in ActionInputs) bool { return in.Band == domain.BandRed },
		action:  domain.ActionInvestigate,
	},
	{
		applies: func(in ActionInputs) bool { return !in.HasBom },
		action:  domain.ActionMapBom,
	},
	{
		applies: func(in ActionInputs) bool { return in.BuildableUnits < 3 },
		action:  domain.ActionBuyStock,
	},
	{
		applies: func(in ActionInputs) bool { return in.Band == domain.BandGreen },
		action:  domain.ActionListTest,
	},
}

// SuggestAction picks the next step for a scored candidate.
func SuggestAction(in ActionInputs) domain.Action {
	for _, r := range actionRules {
		if r.applies(in) {
			return r.action
		}
	}
	return domain.ActionInvestigate
}
