// Package mocks provides a testify mock of the notify.Notifier interface.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/resellkit/listing-scout/internal/notify"
)

// MockNotifier is a mock implementation of notify.Notifier.
type MockNotifier struct {
	mock.Mock
}

// NewMockNotifier creates a MockNotifier that asserts its expectations at
// test end.
func NewMockNotifier(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockNotifier {
	m := &MockNotifier{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockNotifier) SendOpportunity(ctx context.Context, opp *notify.OpportunityPayload) error {
	return m.Called(ctx, opp).Error(0)
}

func (m *MockNotifier) SendBatch(ctx context.Context, opps []notify.OpportunityPayload) error {
	return m.Called(ctx, opps).Error(0)
}
