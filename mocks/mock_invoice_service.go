package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"invoicecheck/internal/domain"
	"invoicecheck/internal/service"
	"invoicecheck/internal/validator"
)

// MockInvoiceService is a mock implementation of service.InvoiceService.
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) ReadUpload(fileName string, size int64, r io.Reader) ([]byte, error) {
	args := m.Called(fileName, size, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockInvoiceService) Extract(ctx context.Context, input service.DocumentInput) (*service.Extraction, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Extraction), args.Error(1)
}

func (m *MockInvoiceService) Process(ctx context.Context, input service.DocumentInput) (*service.ProcessResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProcessResult), args.Error(1)
}

func (m *MockInvoiceService) GetRun(ctx context.Context, id uuid.UUID) (*domain.ValidationRun, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ValidationRun), args.Error(1)
}

func (m *MockInvoiceService) ListRuns(ctx context.Context, offset, limit int) ([]domain.ValidationRun, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ValidationRun), args.Int(1), args.Error(2)
}

func (m *MockInvoiceService) RunResult(ctx context.Context, id uuid.UUID) (*domain.ValidationRun, *validator.Result, error) {
	args := m.Called(ctx, id)
	var run *domain.ValidationRun
	if v := args.Get(0); v != nil {
		run = v.(*domain.ValidationRun)
	}
	var res *validator.Result
	if v := args.Get(1); v != nil {
		res = v.(*validator.Result)
	}
	return run, res, args.Error(2)
}

func (m *MockInvoiceService) ArchiveURL(ctx context.Context, run *domain.ValidationRun) (string, error) {
	args := m.Called(ctx, run)
	return args.String(0), args.Error(1)
}
