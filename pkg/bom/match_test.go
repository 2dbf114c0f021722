package bom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/resellkit/listing-scout/pkg/types"
)

func TestMatchByIntent_BrandToolVoltage(t *testing.T) {
	t.Parallel()

	intent := &domain.ParsedIntent{
		Brand:    "Makita",
		ToolType: "drill",
		Voltage:  18,
	}
	candidates := []domain.BillOfMaterials{
		{ID: "b1", SKU: "MAKDHP484", Description: "Makita 18V Drill Body"},
	}

	matches := MatchByIntent(intent, candidates)
	require.Len(t, matches, 1)

	// brand 20 + tool type 30 + voltage 15
	assert.Equal(t, 65, matches[0].Score)
	assert.Equal(t, domain.ConfidenceHigh, matches[0].Confidence)
	assert.Len(t, matches[0].Rationale, 3)
}

func TestMatchByIntent_DropsZeroScores(t *testing.T) {
	t.Parallel()

	intent := &domain.ParsedIntent{Brand: "DeWalt"}
	candidates := []domain.BillOfMaterials{
		{ID: "b1", SKU: "MAKDHP484", Description: "Makita 18V Drill"},
		{ID: "b2", SKU: "DEWDCD796", Description: "DeWalt 18V Combi"},
	}

	matches := MatchByIntent(intent, candidates)
	require.Len(t, matches, 1)
	assert.Equal(t, "b2", matches[0].Bom.ID)
}

func TestMatchByIntent_SortStableByScore(t *testing.T) {
	t.Parallel()

	intent := &domain.ParsedIntent{
		Brand:    "Makita",
		ToolType: "drill",
		IsKit:    true,
	}
	candidates := []domain.BillOfMaterials{
		{ID: "brand-only", SKU: "MAK1", Description: "Makita grinder"},
		{ID: "full-kit", SKU: "MAK2", Description: "Makita drill kit"},
		{ID: "brand-only-2", SKU: "MAK3", Description: "Makita saw"},
	}

	matches := MatchByIntent(intent, candidates)
	require.Len(t, matches, 3)

	assert.Equal(t, "full-kit", matches[0].Bom.ID)
	// Equal scores keep candidate order.
	assert.Equal(t, "brand-only", matches[1].Bom.ID)
	assert.Equal(t, "brand-only-2", matches[2].Bom.ID)
}

func TestMatchByIntent_ConfidenceBands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		intent domain.ParsedIntent
		text   string
		want   domain.Confidence
	}{
		{
			name:   "high at 60",
			intent: domain.ParsedIntent{Brand: "Makita", ToolType: "drill", BatteryCount: 2},
			text:   "Makita drill 2x battery",
			want:   domain.ConfidenceHigh,
		},
		{
			name:   "medium at 30",
			intent: domain.ParsedIntent{ToolType: "drill"},
			text:   "Bosch drill",
			want:   domain.ConfidenceMedium,
		},
		{
			name:   "low below 30",
			intent: domain.ParsedIntent{Brand: "Makita"},
			text:   "Makita something",
			want:   domain.ConfidenceLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			matches := MatchByIntent(&tt.intent, []domain.BillOfMaterials{
				{ID: "b", Description: tt.text},
			})
			require.Len(t, matches, 1)
			assert.Equal(t, tt.want, matches[0].Confidence)
		})
	}
}

func TestMatchByIntent_NilIntent(t *testing.T) {
	t.Parallel()

	matches := MatchByIntent(nil, []domain.BillOfMaterials{{ID: "b"}})
	assert.Nil(t, matches)
}

func TestMatchByIntent_FlagSignals(t *testing.T) {
	t.Parallel()

	intent := &domain.ParsedIntent{
		IsBareTool: true,
		HasCharger: true,
		HasCase:    true,
	}
	candidates := []domain.BillOfMaterials{
		{ID: "b", Description: "drill body with charger and makpac case"},
	}

	matches := MatchByIntent(intent, candidates)
	require.Len(t, matches, 1)
	// bare 20 + charger 10 + case 10
	assert.Equal(t, 40, matches[0].Score)
}
