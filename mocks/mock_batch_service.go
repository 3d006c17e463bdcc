package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"invoicecheck/internal/domain"
	"invoicecheck/internal/service"
)

// MockBatchService is a mock implementation of service.BatchService.
type MockBatchService struct {
	mock.Mock
}

func (m *MockBatchService) Run(ctx context.Context) (*service.BatchResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BatchResult), args.Error(1)
}

func (m *MockBatchService) GetBill(ctx context.Context, billID string) (*domain.ProcessedBill, error) {
	args := m.Called(ctx, billID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProcessedBill), args.Error(1)
}

func (m *MockBatchService) ListBills(ctx context.Context, offset, limit int) ([]domain.ProcessedBill, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ProcessedBill), args.Int(1), args.Error(2)
}
