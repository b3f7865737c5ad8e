package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"devasthan/internal/domain"
)

// MockRangeRepo is a mock implementation of port.RangeRepository.
type MockRangeRepo struct {
	mock.Mock
}

func (m *MockRangeRepo) Create(ctx context.Context, rng *domain.ReceiptRange) error {
	args := m.Called(ctx, rng)
	return args.Error(0)
}

func (m *MockRangeRepo) Get(ctx context.Context, orgID uuid.UUID, rangeID string) (*domain.ReceiptRange, error) {
	args := m.Called(ctx, orgID, rangeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReceiptRange), args.Error(1)
}

func (m *MockRangeRepo) GetActiveForYear(ctx context.Context, orgID uuid.UUID, year int) (*domain.ReceiptRange, error) {
	args := m.Called(ctx, orgID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReceiptRange), args.Error(1)
}

func (m *MockRangeRepo) ListByYear(ctx context.Context, orgID uuid.UUID, year int, includeArchived bool) ([]domain.ReceiptRange, error) {
	args := m.Called(ctx, orgID, year, includeArchived)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReceiptRange), args.Error(1)
}

func (m *MockRangeRepo) List(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]domain.ReceiptRange, int, error) {
	args := m.Called(ctx, orgID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ReceiptRange), args.Int(1), args.Error(2)
}

func (m *MockRangeRepo) CompareAndSwapNext(ctx context.Context, orgID uuid.UUID, rangeID string, expectedVersion int64, expectedNext, newNext int, markExhausted bool) error {
	args := m.Called(ctx, orgID, rangeID, expectedVersion, expectedNext, newNext, markExhausted)
	return args.Error(0)
}

func (m *MockRangeRepo) UpdateStatus(ctx context.Context, rng *domain.ReceiptRange, expectedVersion int64) error {
	args := m.Called(ctx, rng, expectedVersion)
	return args.Error(0)
}
