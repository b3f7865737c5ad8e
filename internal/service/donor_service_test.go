package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"devasthan/internal/domain"
	"devasthan/internal/service"
	"devasthan/mocks"
)

func TestDonorService_Statement(t *testing.T) {
	donors := new(mocks.MockDonorRepo)
	donations := new(mocks.MockDonationRepo)
	svc := service.NewDonorService(donors, donations)
	orgID := uuid.New()

	donor := &domain.Donor{
		OrgID:         orgID,
		ID:            "D_abc123def456",
		Name:          "Ravi Kumar",
		LifetimeTotal: decimal.RequireFromString("1500.00"),
		DonationCount: 3,
	}
	receipts := []domain.Donation{
		{ReceiptNo: "2025-00042"},
		{ReceiptNo: "2025-00017"},
		{ReceiptNo: "2024-00311"},
	}
	donors.On("Get", mock.Anything, orgID, "D_abc123def456").Return(donor, nil)
	donations.On("ListByDonor", mock.Anything, orgID, "D_abc123def456", 0, 20).Return(receipts, 3, nil)

	stmt, err := svc.Statement(context.Background(), orgID, "D_abc123def456", 0, 20)

	assert.NoError(t, err)
	assert.Equal(t, donor, stmt.Donor)
	assert.Len(t, stmt.Receipts, 3)
	assert.Equal(t, 3, stmt.Total)
}

func TestDonorService_Statement_DonorNotFound(t *testing.T) {
	donors := new(mocks.MockDonorRepo)
	donations := new(mocks.MockDonationRepo)
	svc := service.NewDonorService(donors, donations)
	orgID := uuid.New()

	donors.On("Get", mock.Anything, orgID, "D_missing").Return(nil, domain.ErrDonorNotFound)

	stmt, err := svc.Statement(context.Background(), orgID, "D_missing", 0, 20)

	assert.Nil(t, stmt)
	assert.ErrorIs(t, err, domain.ErrDonorNotFound)
	donations.AssertNotCalled(t, "ListByDonor")
}

func TestDonorService_Search(t *testing.T) {
	donors := new(mocks.MockDonorRepo)
	donations := new(mocks.MockDonationRepo)
	svc := service.NewDonorService(donors, donations)
	orgID := uuid.New()

	expected := []domain.Donor{{ID: "D_abc123def456", Name: "Ravi Kumar"}}
	donors.On("Search", mock.Anything, orgID, "ravi", 0, 20).Return(expected, 1, nil)

	results, total, err := svc.Search(context.Background(), orgID, "ravi", 0, 20)

	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, 1, total)
}
