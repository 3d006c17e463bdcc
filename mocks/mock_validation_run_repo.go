package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"invoicecheck/internal/domain"
)

// MockValidationRunRepo is a mock implementation of port.ValidationRunRepository.
type MockValidationRunRepo struct {
	mock.Mock
}

func (m *MockValidationRunRepo) Create(ctx context.Context, run *domain.ValidationRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockValidationRunRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ValidationRun, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ValidationRun), args.Error(1)
}

func (m *MockValidationRunRepo) List(ctx context.Context, offset, limit int) ([]domain.ValidationRun, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ValidationRun), args.Int(1), args.Error(2)
}
