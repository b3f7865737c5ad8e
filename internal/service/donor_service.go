package service

import (
	"context"

	"github.com/google/uuid"

	"devasthan/internal/domain"
	"devasthan/internal/port"
)

// DonorStatement is a donor profile together with their receipts, newest
// first.
type DonorStatement struct {
	Donor    *domain.Donor     `json:"donor"`
	Receipts []domain.Donation `json:"receipts"`
	Total    int               `json:"total"`
}

// DonorService serves the read side of donor profiles.
type DonorService interface {
	Get(ctx context.Context, orgID uuid.UUID, donorID string) (*domain.Donor, error)
	List(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]domain.Donor, int, error)
	Search(ctx context.Context, orgID uuid.UUID, query string, offset, limit int) ([]domain.Donor, int, error)
	Statement(ctx context.Context, orgID uuid.UUID, donorID string, offset, limit int) (*DonorStatement, error)
}

type donorService struct {
	donors    port.DonorRepository
	donations port.DonationRepository
}

// NewDonorService creates a new DonorService implementation.
func NewDonorService(donors port.DonorRepository, donations port.DonationRepository) DonorService {
	return &donorService{donors: donors, donations: donations}
}

func (s *donorService) Get(ctx context.Context, orgID uuid.UUID, donorID string) (*domain.Donor, error) {
	return s.donors.Get(ctx, orgID, donorID)
}

func (s *donorService) List(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]domain.Donor, int, error) {
	return s.donors.List(ctx, orgID, offset, limit)
}

func (s *donorService) Search(ctx context.Context, orgID uuid.UUID, query string, offset, limit int) ([]domain.Donor, int, error) {
	return s.donors.Search(ctx, orgID, query, offset, limit)
}

func (s *donorService) Statement(ctx context.Context, orgID uuid.UUID, donorID string, offset, limit int) (*DonorStatement, error) {
	donor, err := s.donors.Get(ctx, orgID, donorID)
	if err != nil {
		return nil, err
	}
	receipts, total, err := s.donations.ListByDonor(ctx, orgID, donorID, offset, limit)
	if err != nil {
		return nil, err
	}
	return &DonorStatement{Donor: donor, Receipts: receipts, Total: total}, nil
}
