package bom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCompoundSku(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		sku  string
		want []SkuPart
	}{
		{
			name: "three-part kit with quantity prefix",
			sku:  "MAKDJR186+2xBL1850+DC18RC",
			want: []SkuPart{
				{Pattern: "MAKDJR186", Quantity: 1},
				{Pattern: "BL1850", Quantity: 2},
				{Pattern: "DC18RC", Quantity: 1},
			},
		},
		{
			name: "slash separator",
			sku:  "DEWDCD796/DCB184",
			want: []SkuPart{
				{Pattern: "DEWDCD796", Quantity: 1},
				{Pattern: "DCB184", Quantity: 1},
			},
		},
		{
			name: "quantity suffix",
			sku:  "BL1850(x3)",
			want: []SkuPart{
				{Pattern: "BL1850", Quantity: 3},
			},
		},
		{
			name: "single part",
			sku:  "MAKDHP484Z",
			want: []SkuPart{
				{Pattern: "MAKDHP484Z", Quantity: 1},
			},
		},
		{
			name: "empty",
			sku:  "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParseCompoundSku(tt.sku))
		})
	}
}

func TestFingerprintTitle(t *testing.T) {
	t.Parallel()

	got := FingerprintTitle("  Makita DHP484Z 18V LXT  Brushless Combi-Drill! ")
	assert.Equal(t, "makita dhp484z 18v lxt brushless combi drill", got)
}

func TestHashFingerprint(t *testing.T) {
	t.Parallel()

	h := HashFingerprint("makita drill")
	require.Len(t, h, 64)
	assert.Equal(t, h, HashFingerprint("makita drill"), "stable")
	assert.Empty(t, HashFingerprint(""))
}
