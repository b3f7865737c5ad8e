package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"devasthan/internal/domain"
	"devasthan/internal/port"
)

// MockDonationRepo is a mock implementation of port.DonationRepository.
type MockDonationRepo struct {
	mock.Mock
}

func (m *MockDonationRepo) CreateWithDonor(ctx context.Context, donation *domain.Donation, donor *domain.Donor, newDonor bool, aliases []domain.DonorAlias) error {
	args := m.Called(ctx, donation, donor, newDonor, aliases)
	return args.Error(0)
}

func (m *MockDonationRepo) GetByReceiptNo(ctx context.Context, orgID uuid.UUID, receiptNo string) (*domain.Donation, error) {
	args := m.Called(ctx, orgID, receiptNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Donation), args.Error(1)
}

func (m *MockDonationRepo) List(ctx context.Context, orgID uuid.UUID, filter port.DonationFilter) ([]domain.Donation, int, error) {
	args := m.Called(ctx, orgID, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Donation), args.Int(1), args.Error(2)
}

func (m *MockDonationRepo) ListByDonor(ctx context.Context, orgID uuid.UUID, donorID string, offset, limit int) ([]domain.Donation, int, error) {
	args := m.Called(ctx, orgID, donorID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Donation), args.Int(1), args.Error(2)
}

func (m *MockDonationRepo) ListByDate(ctx context.Context, orgID uuid.UUID, date time.Time) ([]domain.Donation, error) {
	args := m.Called(ctx, orgID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Donation), args.Error(1)
}
