package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"invoicecheck/internal/domain"
)

// MockInvoiceSource is a mock implementation of port.InvoiceSource.
type MockInvoiceSource struct {
	mock.Mock
}

func (m *MockInvoiceSource) ListInvoices(ctx context.Context) ([]domain.DigitalInvoice, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DigitalInvoice), args.Error(1)
}

func (m *MockInvoiceSource) Download(ctx context.Context, url string) ([]byte, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
