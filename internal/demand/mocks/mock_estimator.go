// Package mocks provides a testify mock of the demand.Estimator interface.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/resellkit/listing-scout/internal/demand"
	domain "github.com/resellkit/listing-scout/pkg/types"
)

// MockEstimator is a mock implementation of demand.Estimator.
type MockEstimator struct {
	mock.Mock
}

// NewMockEstimator creates a MockEstimator that asserts its expectations
// at test end.
func NewMockEstimator(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockEstimator {
	m := &MockEstimator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockEstimator) Predict(ctx context.Context, f demand.Features) domain.DemandForecast {
	args := m.Called(ctx, f)
	return args.Get(0).(domain.DemandForecast)
}
