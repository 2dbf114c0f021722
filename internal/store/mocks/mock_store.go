// Package mocks provides a testify mock of the store.Store interface.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/resellkit/listing-scout/internal/store"
	domain "github.com/resellkit/listing-scout/pkg/types"
)

// MockStore is a mock implementation of store.Store.
type MockStore struct {
	mock.Mock
}

// NewMockStore creates a MockStore that asserts its expectations at test end.
func NewMockStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockStore {
	m := &MockStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockStore) CreateComponent(ctx context.Context, c *domain.Component) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockStore) GetComponent(ctx context.Context, id string) (*domain.Component, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*domain.Component), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) GetComponentBySKU(ctx context.Context, sku string) (*domain.Component, error) {
	args := m.Called(ctx, sku)
	if c := args.Get(0); c != nil {
		return c.(*domain.Component), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) ListComponents(
	ctx context.Context,
	opts *store.ComponentQuery,
) ([]domain.Component, int, error) {
	args := m.Called(ctx, opts)
	var components []domain.Component
	if c := args.Get(0); c != nil {
		components = c.([]domain.Component)
	}
	return components, args.Int(1), args.Error(2)
}

func (m *MockStore) UpdateComponentCost(ctx context.Context, id string, unitCost domain.Money) error {
	return m.Called(ctx, id, unitCost).Error(0)
}

func (m *MockStore) DeleteComponent(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStore) CreateBom(ctx context.Context, b *domain.BillOfMaterials) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockStore) GetBom(ctx context.Context, id string) (*domain.BillOfMaterials, error) {
	args := m.Called(ctx, id)
	if b := args.Get(0); b != nil {
		return b.(*domain.BillOfMaterials), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) GetBomBySKU(ctx context.Context, sku string) (*domain.BillOfMaterials, error) {
	args := m.Called(ctx, sku)
	if b := args.Get(0); b != nil {
		return b.(*domain.BillOfMaterials), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) GetActiveBoms(ctx context.Context) ([]domain.BillOfMaterials, error) {
	args := m.Called(ctx)
	var boms []domain.BillOfMaterials
	if b := args.Get(0); b != nil {
		boms = b.([]domain.BillOfMaterials)
	}
	return boms, args.Error(1)
}

func (m *MockStore) SetBomActive(ctx context.Context, id string, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func (m *MockStore) DeleteBom(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStore) UpsertListingMapping(ctx context.Context, mapping *domain.ListingMapping) error {
	return m.Called(ctx, mapping).Error(0)
}

func (m *MockStore) GetListingMappings(
	ctx context.Context,
	asins []string,
) (map[string]domain.ListingMapping, error) {
	args := m.Called(ctx, asins)
	var mappings map[string]domain.ListingMapping
	if v := args.Get(0); v != nil {
		mappings = v.(map[string]domain.ListingMapping)
	}
	return mappings, args.Error(1)
}

func (m *MockStore) DeleteListingMapping(ctx context.Context, asin string) error {
	return m.Called(ctx, asin).Error(0)
}

func (m *MockStore) GetStockLevels(
	ctx context.Context,
	componentIDs []string,
	location string,
) (domain.StockSnapshot, error) {
	args := m.Called(ctx, componentIDs, location)
	var snapshot domain.StockSnapshot
	if v := args.Get(0); v != nil {
		snapshot = v.(domain.StockSnapshot)
	}
	return snapshot, args.Error(1)
}

func (m *MockStore) UpsertStockLevel(
	ctx context.Context,
	componentID, location string,
	onHand, reserved int,
) error {
	return m.Called(ctx, componentID, location, onHand, reserved).Error(0)
}

func (m *MockStore) ListWatchlist(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	var asins []string
	if v := args.Get(0); v != nil {
		asins = v.([]string)
	}
	return asins, args.Error(1)
}

func (m *MockStore) AddWatchlistItem(ctx context.Context, asin string) error {
	return m.Called(ctx, asin).Error(0)
}

func (m *MockStore) RemoveWatchlistItem(ctx context.Context, asin string) error {
	return m.Called(ctx, asin).Error(0)
}

func (m *MockStore) Migrate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
