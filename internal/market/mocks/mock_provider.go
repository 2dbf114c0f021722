// Package mocks provides a testify mock of the market.Provider interface.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	domain "github.com/resellkit/listing-scout/pkg/types"
)

// MockProvider is a mock implementation of market.Provider.
type MockProvider struct {
	mock.Mock
}

// NewMockProvider creates a MockProvider that asserts its expectations at
// test end.
func NewMockProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockProvider {
	m := &MockProvider{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockProvider) GetSnapshots(
	ctx context.Context,
	asins []string,
) (map[string]domain.MarketSnapshot, error) {
	args := m.Called(ctx, asins)
	var snaps map[string]domain.MarketSnapshot
	if v := args.Get(0); v != nil {
		snaps = v.(map[string]domain.MarketSnapshot)
	}
	return snaps, args.Error(1)
}
