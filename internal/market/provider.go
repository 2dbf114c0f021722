// Package market provides marketplace snapshot data abstracted behind an
// interface for testability.
package market

import (
	"context"

	domain "github.com/resellkit/listing-scout/pkg/types"
)

// Provider fetches point-in-time market snapshots for a set of
// identifiers. Identifiers with no market data are simply absent from
// the returned map; that is not an error.
type Provider interface {
	GetSnapshots(ctx context.Context, asins []string) (map[string]domain.MarketSnapshot, error)
}
