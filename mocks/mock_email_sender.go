package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"devasthan/internal/port"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendReceiptEmail(ctx context.Context, email port.ReceiptEmail) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}
