package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"devasthan/internal/domain"
	"devasthan/internal/port"
)

// CreateUserInput is the DTO for creating an operator account.
type CreateUserInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// UpdateUserInput is the DTO for updating an operator account.
type UpdateUserInput struct {
	FullName *string `json:"full_name"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

// UserService defines the operator account management contract.
type UserService interface {
	Create(ctx context.Context, orgID uuid.UUID, input CreateUserInput) (*domain.User, error)
	GetByID(ctx context.Context, orgID, userID uuid.UUID) (*domain.User, error)
	List(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]domain.User, int, error)
	Update(ctx context.Context, orgID, userID uuid.UUID, input UpdateUserInput) (*domain.User, error)
}

type userService struct {
	repo port.UserRepository
}

// NewUserService creates a new UserService implementation.
func NewUserService(repo port.UserRepository) UserService {
	return &userService{repo: repo}
}

func validateRole(role string) (domain.UserRole, error) {
	r := domain.UserRole(role)
	if r != domain.RoleAdmin && r != domain.RoleOperator {
		return "", domain.NewValidationError("role", "must be admin or operator")
	}
	return r, nil
}

func (s *userService) Create(ctx context.Context, orgID uuid.UUID, input CreateUserInput) (*domain.User, error) {
	role, err := validateRole(input.Role)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("user.Create hash: %w", err)
	}

	user := &domain.User{
		OrgID:        orgID,
		Email:        input.Email,
		PasswordHash: string(hash),
		FullName:     input.FullName,
		Role:         role,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, orgID, userID uuid.UUID) (*domain.User, error) {
	return s.repo.GetByID(ctx, orgID, userID)
}

func (s *userService) List(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]domain.User, int, error) {
	return s.repo.ListByOrg(ctx, orgID, offset, limit)
}

func (s *userService) Update(ctx context.Context, orgID, userID uuid.UUID, input UpdateUserInput) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, orgID, userID)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.Role != nil {
		role, err := validateRole(*input.Role)
		if err != nil {
			return nil, err
		}
		user.Role = role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
