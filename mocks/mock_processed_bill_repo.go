package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"invoicecheck/internal/domain"
)

// MockProcessedBillRepo is a mock implementation of port.ProcessedBillRepository.
type MockProcessedBillRepo struct {
	mock.Mock
}

func (m *MockProcessedBillRepo) Upsert(ctx context.Context, bill *domain.ProcessedBill) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

func (m *MockProcessedBillRepo) GetByBillID(ctx context.Context, billID string) (*domain.ProcessedBill, error) {
	args := m.Called(ctx, billID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProcessedBill), args.Error(1)
}

func (m *MockProcessedBillRepo) List(ctx context.Context, offset, limit int) ([]domain.ProcessedBill, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ProcessedBill), args.Int(1), args.Error(2)
}
