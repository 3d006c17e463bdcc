package port

import (
	"context"

	"github.com/google/uuid"

	"invoicecheck/internal/domain"
)

// ProcessedBillRepository persists the processed log. Entries are keyed by
// BillID; Upsert overwrites an earlier attempt and bumps its attempt count.
type ProcessedBillRepository interface {
	Upsert(ctx context.Context, bill *domain.ProcessedBill) error
	GetByBillID(ctx context.Context, billID string) (*domain.ProcessedBill, error)
	List(ctx context.Context, offset, limit int) ([]domain.ProcessedBill, int, error)
}

// ValidationRunRepository persists one row per processed document.
type ValidationRunRepository interface {
	Create(ctx context.Context, run *domain.ValidationRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ValidationRun, error)
	List(ctx context.Context, offset, limit int) ([]domain.ValidationRun, int, error)
}
