// Package store defines the datastore abstraction for listing-scout.
// All business logic depends on the Store interface, never on concrete
// implementations. This enables mock-based testing without a running database.
package store

import (
	"context"

	domain "github.com/resellkit/listing-scout/pkg/types"
)

// ComponentQuery defines optional filters for component listings.
type ComponentQuery struct {
	Brand  *string
	SKU    *string
	Limit  int // default 50
	Offset int
}

// Store defines all data access operations for listing-scout.
type Store interface {
	// Components
	CreateComponent(ctx context.Context, c *domain.Component) error
	GetComponent(ctx context.Context, id string) (*domain.Component, error)
	GetComponentBySKU(ctx context.Context, sku string) (*domain.Component, error)
	ListComponents(ctx context.Context, opts *ComponentQuery) ([]domain.Component, int, error)
	UpdateComponentCost(ctx context.Context, id string, unitCost domain.Money) error
	DeleteComponent(ctx context.Context, id string) error

	// Bills of materials
	CreateBom(ctx context.Context, b *domain.BillOfMaterials) error
	GetBom(ctx context.Context, id string) (*domain.BillOfMaterials, error)
	GetBomBySKU(ctx context.Context, sku string) (*domain.BillOfMaterials, error)
	GetActiveBoms(ctx context.Context) ([]domain.BillOfMaterials, error)
	SetBomActive(ctx context.Context, id string, active bool) error
	DeleteBom(ctx context.Context, id string) error

	// Listing mappings
	UpsertListingMapping(ctx context.Context, m *domain.ListingMapping) error
	GetListingMappings(ctx context.Context, asins []string) (map[string]domain.ListingMapping, error)
	DeleteListingMapping(ctx context.Context, asin string) error

	// Stock
	GetStockLevels(ctx context.Context, componentIDs []string, location string) (domain.StockSnapshot, error)
	UpsertStockLevel(ctx context.Context, componentID, location string, onHand, reserved int) error

	// Watchlist
	ListWatchlist(ctx context.Context) ([]string, error)
	AddWatchlistItem(ctx context.Context, asin string) error
	RemoveWatchlistItem(ctx context.Context, asin string) error

	// Migrations
	Migrate(ctx context.Context) error

	// Health
	Ping(ctx context.Context) error
}
