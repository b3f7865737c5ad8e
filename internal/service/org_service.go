package service

import (
	"context"

	"github.com/google/uuid"

	"devasthan/internal/domain"
	"devasthan/internal/port"
)

// CreateOrgInput is the DTO for creating an organization.
type CreateOrgInput struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug" binding:"required"`
}

// UpdateOrgInput is the DTO for updating an organization.
type UpdateOrgInput struct {
	Name     *string `json:"name"`
	Slug     *string `json:"slug"`
	IsActive *bool   `json:"is_active"`
}

// OrgService defines the organization management contract.
type OrgService interface {
	Create(ctx context.Context, input CreateOrgInput) (*domain.Organization, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Organization, error)
	List(ctx context.Context, offset, limit int) ([]domain.Organization, int, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateOrgInput) (*domain.Organization, error)
}

type orgService struct {
	repo port.OrgRepository
}

// NewOrgService creates a new OrgService implementation.
func NewOrgService(repo port.OrgRepository) OrgService {
	return &orgService{repo: repo}
}

func (s *orgService) Create(ctx context.Context, input CreateOrgInput) (*domain.Organization, error) {
	org := &domain.Organization{
		Name:     input.Name,
		Slug:     input.Slug,
		IsActive: true,
	}
	if err := s.repo.Create(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

func (s *orgService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Organization, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *orgService) List(ctx context.Context, offset, limit int) ([]domain.Organization, int, error) {
	return s.repo.List(ctx, offset, limit)
}

func (s *orgService) Update(ctx context.Context, id uuid.UUID, input UpdateOrgInput) (*domain.Organization, error) {
	org, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		org.Name = *input.Name
	}
	if input.Slug != nil {
		org.Slug = *input.Slug
	}
	if input.IsActive != nil {
		org.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}
