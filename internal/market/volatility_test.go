package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/resellkit/listing-scout/pkg/types"
)

func TestVolatility(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		history []int64
		want    *float64
	}{
		{
			name:    "nil history",
			history: nil,
			want:    nil,
		},
		{
			name:    "too few points",
			history: []int64{1000, 1100},
			want:    nil,
		},
		{
			name:    "flat prices have zero volatility",
			history: []int64{1000, 1000, 1000, 1000},
			want:    ptr(0.0),
		},
		{
			name: "dispersed prices",
			// mean 1000, sample stddev 100, cv 10%
			history: []int64{900, 1000, 1100},
			want:    ptr(10.0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Volatility(&domain.MarketSnapshot{PriceHistory: tt.history})
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 0.01)
		})
	}
}

func TestVolatility_NilSnapshot(t *testing.T) {
	t.Parallel()
	assert.Nil(t, Volatility(nil))
}

func ptr[T any](v T) *T { return &v }
