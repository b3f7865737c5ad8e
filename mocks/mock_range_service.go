package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"devasthan/internal/domain"
	"devasthan/internal/service"
)

// MockRangeService is a mock implementation of service.RangeService.
type MockRangeService struct {
	mock.Mock
}

func (m *MockRangeService) Create(ctx context.Context, orgID, createdBy uuid.UUID, input service.CreateRangeInput) (*domain.ReceiptRange, error) {
	args := m.Called(ctx, orgID, createdBy, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReceiptRange), args.Error(1)
}

func (m *MockRangeService) Get(ctx context.Context, orgID uuid.UUID, rangeID string) (*domain.ReceiptRange, error) {
	args := m.Called(ctx, orgID, rangeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReceiptRange), args.Error(1)
}

func (m *MockRangeService) List(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]domain.ReceiptRange, int, error) {
	args := m.Called(ctx, orgID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ReceiptRange), args.Int(1), args.Error(2)
}

func (m *MockRangeService) ListByYear(ctx context.Context, orgID uuid.UUID, year int) ([]domain.ReceiptRange, error) {
	args := m.Called(ctx, orgID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReceiptRange), args.Error(1)
}

func (m *MockRangeService) Activate(ctx context.Context, orgID uuid.UUID, rangeID string, actor uuid.UUID) (*domain.ReceiptRange, error) {
	args := m.Called(ctx, orgID, rangeID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReceiptRange), args.Error(1)
}

func (m *MockRangeService) Lock(ctx context.Context, orgID uuid.UUID, rangeID string, actor uuid.UUID) (*domain.ReceiptRange, error) {
	args := m.Called(ctx, orgID, rangeID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReceiptRange), args.Error(1)
}

func (m *MockRangeService) Unlock(ctx context.Context, orgID uuid.UUID, rangeID string, actor uuid.UUID) (*domain.ReceiptRange, error) {
	args := m.Called(ctx, orgID, rangeID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReceiptRange), args.Error(1)
}

func (m *MockRangeService) Archive(ctx context.Context, orgID uuid.UUID, rangeID string, actor uuid.UUID) (*domain.ReceiptRange, error) {
	args := m.Called(ctx, orgID, rangeID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReceiptRange), args.Error(1)
}

func (m *MockRangeService) Allocate(ctx context.Context, orgID uuid.UUID, year int, donationDate time.Time, flexible bool) (*domain.Allocation, error) {
	args := m.Called(ctx, orgID, year, donationDate, flexible)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Allocation), args.Error(1)
}
