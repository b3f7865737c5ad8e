package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"devasthan/internal/domain"
)

// MockDonorRepo is a mock implementation of port.DonorRepository.
type MockDonorRepo struct {
	mock.Mock
}

func (m *MockDonorRepo) Get(ctx context.Context, orgID uuid.UUID, donorID string) (*domain.Donor, error) {
	args := m.Called(ctx, orgID, donorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Donor), args.Error(1)
}

func (m *MockDonorRepo) GetByAlias(ctx context.Context, orgID uuid.UUID, aliasKey string) (*domain.Donor, error) {
	args := m.Called(ctx, orgID, aliasKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Donor), args.Error(1)
}

func (m *MockDonorRepo) List(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]domain.Donor, int, error) {
	args := m.Called(ctx, orgID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Donor), args.Int(1), args.Error(2)
}

func (m *MockDonorRepo) Search(ctx context.Context, orgID uuid.UUID, query string, offset, limit int) ([]domain.Donor, int, error) {
	args := m.Called(ctx, orgID, query, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Donor), args.Int(1), args.Error(2)
}
