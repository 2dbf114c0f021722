package bom

import (
	"math"

	domain "github.com/resellkit/listing-scout/pkg/types"
)

// effectivelyZeroDemand is the daily rate below which days-of-cover is
// reported as unknown instead of an absurdly large number.
const effectivelyZeroDemand = 0.01

// BuildableUnits computes how many units of a BOM can be assembled from
// the available stock, and which component is the bottleneck. An empty
// BOM yields zero buildable units and no bottleneck: the minimum over an
// empty set is defined as zero here, so an unmapped recipe can never look
// infinitely buildable.
//
// Missing stock entries count as zero available. Negative availability
// (over-reserved stock) floors each line's capacity at zero rather than
// going negative.
func BuildableUnits(
	b *domain.BillOfMaterials,
	stock domain.StockSnapshot,
) domain.Feasibility {
	if b == nil || len(b.Lines) == 0 {
		return domain.Feasibility{BuildableUnits: 0}
	}

	f := domain.Feasibility{BuildableUnits: math.MaxInt}
	for _, line := range b.Lines {
		if line.Quantity <= 0 {
			continue
		}

		capacity := stock[line.ComponentID].Available() / line.Quantity
		if capacity < 0 {
			capacity = 0
		}

		if capacity < f.BuildableUnits {
			f.BuildableUnits = capacity
			f.BottleneckID = line.ComponentID
			f.BottleneckSKU = line.ComponentSKU
		}
	}

	if f.BuildableUnits == math.MaxInt {
		// Every line had a non-positive quantity; treat as empty.
		return domain.Feasibility{BuildableUnits: 0}
	}

	return f
}

// DaysOfCover estimates the stockout runway: buildable units divided by
// daily demand, rounded to the nearest whole day. Effectively-zero demand
// yields nil rather than a huge or infinite number.
func DaysOfCover(buildable int, dailyDemand float64) *int {
	if dailyDemand < effectivelyZeroDemand {
		return nil
	}
	days := int(math.Round(float64(buildable) / dailyDemand))
	return &days
}
