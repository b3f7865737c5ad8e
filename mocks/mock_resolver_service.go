package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"devasthan/internal/service"
)

// MockResolverService is a mock implementation of service.ResolverService.
type MockResolverService struct {
	mock.Mock
}

func (m *MockResolverService) Resolve(ctx context.Context, orgID uuid.UUID, info service.DonorInfo) (*service.Resolution, error) {
	args := m.Called(ctx, orgID, info)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Resolution), args.Error(1)
}
