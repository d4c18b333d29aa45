// Package mocks holds testify mocks for the ledger's collaborator interfaces.
package mocks

import (
	"context"
	"testing"

	"github.com/amirasaad/ledger/pkg/domain/events"
	"github.com/amirasaad/ledger/pkg/eventbus"
	"github.com/amirasaad/ledger/pkg/provider"
	"github.com/stretchr/testify/mock"
)

// MockInterestRateProvider is a mock provider.InterestRateProvider.
type MockInterestRateProvider struct {
	mock.Mock
}

// NewMockInterestRateProvider creates a mock that asserts its expectations on cleanup.
func NewMockInterestRateProvider(t *testing.T) *MockInterestRateProvider {
	m := &MockInterestRateProvider{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockInterestRateProvider) AnnualRate(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

// MockBus is a mock eventbus.Bus.
type MockBus struct {
	mock.Mock
}

// NewMockBus creates a mock that asserts its expectations on cleanup.
func NewMockBus(t *testing.T) *MockBus {
	m := &MockBus{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockBus) Emit(ctx context.Context, event events.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockBus) Register(eventType events.EventType, handler eventbus.HandlerFunc) {
	m.Called(eventType, handler)
}

var (
	_ provider.InterestRateProvider = (*MockInterestRateProvider)(nil)
	_ eventbus.Bus                  = (*MockBus)(nil)
)
